package command

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"bookboo/pkg/client"
)

var collectionCmd = &cobra.Command{
	Use:   "collection",
	Short: "Manage book collections",
}

var collectionPublicCmd = &cobra.Command{
	Use:   "public",
	Short: "List public collections",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		list, err := newAPIClient().PublicCollections(ctx)
		if err != nil {
			return err
		}
		for _, col := range list {
			fmt.Printf("%d\t%s (by %s)\n", col.ID, col.Name, col.CreatorName)
		}
		return nil
	},
}

var collectionListCmd = &cobra.Command{
	Use:   "list",
	Short: "List your collections",
	RunE: func(cmd *cobra.Command, args []string) error {
		if userID == "" {
			return errors.New("--user is required")
		}
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		list, err := newAPIClient().UserCollections(ctx, userID)
		if err != nil {
			return err
		}
		for _, col := range list {
			visibility := "private"
			if col.Public {
				visibility = "public"
			}
			fmt.Printf("%d\t%s (%s)\n", col.ID, col.Name, visibility)
		}
		return nil
	},
}

var collectionShowCmd = &cobra.Command{
	Use:   "show <collection-id>",
	Short: "Show a collection and its books",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid collection id: %s", args[0])
		}

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		details, err := newAPIClient().CollectionDetails(ctx, id)
		if err != nil {
			return err
		}
		fmt.Printf("%s (public=%v, owner=%v)\n", details.Title, details.Public, details.IsOwner)
		for _, b := range details.Books {
			fmt.Printf("  %d\t%s\n", b.ID, b.Title)
		}
		return nil
	},
}

var createPublic bool

var collectionCreateCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Create a collection",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if userID == "" {
			return errors.New("--user is required")
		}
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		created, err := newAPIClient().CreateCollection(ctx, client.CreateCollectionRequest{
			Name:   args[0],
			UserID: userID,
			Public: &createPublic,
		})
		if err != nil {
			return err
		}
		fmt.Printf("created collection %d: %s\n", created.ID, created.Name)
		return nil
	},
}

var (
	updateName   string
	updatePublic bool
)

var collectionUpdateCmd = &cobra.Command{
	Use:   "update <collection-id>",
	Short: "Rename a collection or change its visibility",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid collection id: %s", args[0])
		}

		// Only flags the caller actually set go into the PATCH body.
		var req client.UpdateCollectionRequest
		if cmd.Flags().Changed("name") {
			req.Name = &updateName
		}
		if cmd.Flags().Changed("public") {
			req.Public = &updatePublic
		}
		if req.Name == nil && req.Public == nil {
			return errors.New("at least one of --name or --public is required")
		}

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		updated, err := newAPIClient().UpdateCollection(ctx, id, req)
		if err != nil {
			return err
		}
		visibility := "private"
		if updated.Public {
			visibility = "public"
		}
		fmt.Printf("updated collection %d: %s (%s)\n", updated.ID, updated.Name, visibility)
		return nil
	},
}

var collectionDeleteCmd = &cobra.Command{
	Use:   "delete <collection-id>",
	Short: "Delete a collection",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid collection id: %s", args[0])
		}

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := newAPIClient().DeleteCollection(ctx, id); err != nil {
			return err
		}
		fmt.Println("collection deleted")
		return nil
	},
}

// addBookCmd and removeBookCmd run through the optimistic coordinator:
// the cached list mutates immediately, rolls back when the server
// refuses, and always settles to server truth.
var addBookCmd = &cobra.Command{
	Use:   "add-book <collection-id> <book-id>",
	Short: "Add a book to a collection",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runMutation(args, func(ctx context.Context, co *client.Coordinator, collectionID, bookID int64) error {
			return co.AddBook(ctx, collectionID, bookID)
		})
	},
}

var removeBookCmd = &cobra.Command{
	Use:   "remove-book <collection-id> <book-id>",
	Short: "Remove a book from a collection",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runMutation(args, func(ctx context.Context, co *client.Coordinator, collectionID, bookID int64) error {
			return co.RemoveBook(ctx, collectionID, bookID)
		})
	},
}

func runMutation(args []string, mutate func(context.Context, *client.Coordinator, int64, int64) error) error {
	if userID == "" {
		return errors.New("--user is required")
	}
	collectionID, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid collection id: %s", args[0])
	}
	bookID, err := strconv.ParseInt(args[1], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid book id: %s", args[1])
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	co := client.NewCoordinator(newAPIClient(), client.NewCollectionCache(), userID)
	if err := co.Refresh(ctx); err != nil {
		return err
	}
	if err := mutate(ctx, co, collectionID, bookID); err != nil {
		return err
	}

	for _, col := range co.Cache().Get() {
		if col.ID == collectionID {
			fmt.Printf("%s now has %d books\n", col.Name, len(col.Books))
		}
	}
	return nil
}

func init() {
	collectionCreateCmd.Flags().BoolVar(&createPublic, "public", false, "make the collection public")
	collectionUpdateCmd.Flags().StringVar(&updateName, "name", "", "new collection name")
	collectionUpdateCmd.Flags().BoolVar(&updatePublic, "public", false, "collection visibility")

	collectionCmd.AddCommand(
		collectionPublicCmd,
		collectionListCmd,
		collectionShowCmd,
		collectionCreateCmd,
		collectionUpdateCmd,
		collectionDeleteCmd,
		addBookCmd,
		removeBookCmd,
	)
	rootCmd.AddCommand(collectionCmd)
}
