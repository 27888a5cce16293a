package command

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

var (
	recommendMethod string
	recommendLimit  int
)

var recommendCmd = &cobra.Command{
	Use:   "recommend <book-id>",
	Short: "Get recommendations similar to a book",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid book id: %s", args[0])
		}

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		books, err := newAPIClient().Recommend(ctx, id, recommendMethod, recommendLimit)
		if err != nil {
			return err
		}
		for _, b := range books {
			fmt.Printf("%d\t%s - %s\n", b.ID, b.Title, strings.Join(b.Authors, ", "))
		}
		return nil
	},
}

func init() {
	recommendCmd.Flags().StringVar(&recommendMethod, "method", "Content-Based", "Content-Based, Collaborative or Hybrid")
	recommendCmd.Flags().IntVar(&recommendLimit, "limit", 5, "number of recommendations (5-20)")
	rootCmd.AddCommand(recommendCmd)
}
