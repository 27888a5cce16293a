package command

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"bookboo/pkg/client"
)

var (
	apiURL string // global flag for API server URL
	token  string // bearer token from the identity provider
	userID string // identity-provider subject of the caller
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "bookboo",
	Short: "bookboo - BookBoo command line interface",
	Long: `bookboo is a tool for interacting with the BookBoo API. Use it to:
- Browse and search the book catalog
- Manage personal and public book collections
- Get book recommendations

Use "bookboo command -h" to see all available commands.`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&apiURL, "api-url", "http://localhost:8080", "BookBoo API server URL")
	rootCmd.PersistentFlags().StringVar(&token, "token", os.Getenv("BOOKBOO_TOKEN"), "bearer token")
	rootCmd.PersistentFlags().StringVar(&userID, "user", os.Getenv("BOOKBOO_USER"), "caller user id")
}

func newAPIClient() *client.Client {
	c := client.NewClient(apiURL)
	if token != "" {
		c.SetToken(token)
	}
	return c
}
