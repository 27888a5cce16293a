package command

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

var bookCmd = &cobra.Command{
	Use:   "book",
	Short: "Browse and search the book catalog",
}

var bookDiscoverCmd = &cobra.Command{
	Use:   "discover",
	Short: "Fetch a batch of random books",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		books, err := newAPIClient().RandomBooks(ctx)
		if err != nil {
			return err
		}
		for _, b := range books {
			fmt.Printf("%d\t%s (%d) - %s\n", b.ID, b.Title, b.PublicationYear, strings.Join(b.Authors, ", "))
		}
		return nil
	},
}

var bookGetCmd = &cobra.Command{
	Use:   "get <book-id>",
	Short: "Show a book's details",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid book id: %s", args[0])
		}

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		b, err := newAPIClient().Book(ctx, id)
		if err != nil {
			return err
		}
		fmt.Printf("%s (%d)\n", b.Title, b.PublicationYear)
		fmt.Printf("Authors: %s\n", strings.Join(b.Authors, ", "))
		fmt.Printf("Genres:  %s\n", strings.Join(b.Genres, ", "))
		fmt.Printf("Rating:  %.2f (%d ratings), %d pages\n", b.AverageRating, b.RatingsCount, b.PageCount)
		fmt.Println(b.Description)
		return nil
	},
}

var (
	searchPage  int
	searchLimit int
)

var bookSearchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search books by title",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		result, err := newAPIClient().SearchBooks(ctx, strings.Join(args, " "), searchPage, searchLimit)
		if err != nil {
			return err
		}
		fmt.Printf("%d matches (page %d)\n", result.Count, searchPage)
		for _, b := range result.Results {
			fmt.Printf("%d\t%s - %s\n", b.ID, b.Title, strings.Join(b.Authors, ", "))
		}
		if result.Next != nil {
			fmt.Println("next:", *result.Next)
		}
		return nil
	},
}

func init() {
	bookSearchCmd.Flags().IntVar(&searchPage, "page", 1, "result page")
	bookSearchCmd.Flags().IntVar(&searchLimit, "limit", 10, "results per page")

	bookCmd.AddCommand(bookDiscoverCmd, bookGetCmd, bookSearchCmd)
	rootCmd.AddCommand(bookCmd)
}
