package client

import (
	"context"
	"errors"
)

// collectionAPI is the server surface the coordinator drives. *Client
// satisfies it.
type collectionAPI interface {
	AddBookToCollection(ctx context.Context, collectionID, bookID int64) error
	RemoveBookFromCollection(ctx context.Context, collectionID, bookID int64) error
	UserCollections(ctx context.Context, userID string) ([]Collection, error)
	CollectionDetails(ctx context.Context, collectionID int64) (*CollectionDetails, error)
}

// Coordinator applies add/remove-book mutations optimistically: the local
// cache changes before the server answers, rolls back to the exact
// pre-mutation snapshot on failure, and always settles by re-fetching
// authoritative state afterwards. One in-flight mutation per collection
// is assumed; overlapping mutations are last-settle-wins.
type Coordinator struct {
	api    collectionAPI
	cache  *CollectionCache
	userID string
}

func NewCoordinator(api collectionAPI, cache *CollectionCache, userID string) *Coordinator {
	return &Coordinator{api: api, cache: cache, userID: userID}
}

// Cache exposes the coordinator's local state for readers (the UI).
func (co *Coordinator) Cache() *CollectionCache {
	return co.cache
}

// AddBook optimistically inserts a {id} stub into the cached member list,
// then confirms with the server. The returned error is the server's; the
// cache has already been rolled back when it is non-nil. No retry.
func (co *Coordinator) AddBook(ctx context.Context, collectionID, bookID int64) error {
	snapshot := co.cache.Snapshot()
	co.cache.ApplyAdd(collectionID, bookID)

	err := co.api.AddBookToCollection(ctx, collectionID, bookID)
	if err != nil {
		co.cache.Restore(snapshot)
	}

	// Settle regardless of outcome so the cache converges to server
	// truth even if the optimistic apply or rollback was imprecise.
	co.settle(ctx)
	return err
}

// RemoveBook is the mirror image of AddBook.
func (co *Coordinator) RemoveBook(ctx context.Context, collectionID, bookID int64) error {
	snapshot := co.cache.Snapshot()
	co.cache.ApplyRemove(collectionID, bookID)

	err := co.api.RemoveBookFromCollection(ctx, collectionID, bookID)
	if err != nil {
		co.cache.Restore(snapshot)
	}

	co.settle(ctx)
	return err
}

// Refresh replaces the cache with the server's view of the caller's
// collections and their member lists.
func (co *Coordinator) Refresh(ctx context.Context) error {
	collections, err := co.api.UserCollections(ctx, co.userID)
	if err != nil {
		// The server reports an empty collections list as 404.
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.StatusCode == 404 {
			co.cache.Set(nil)
			return nil
		}
		return err
	}

	cached := make([]CachedCollection, 0, len(collections))
	for _, col := range collections {
		details, err := co.api.CollectionDetails(ctx, col.ID)
		if err != nil {
			return err
		}
		refs := make([]BookRef, 0, len(details.Books))
		for _, b := range details.Books {
			refs = append(refs, BookRef{ID: b.ID})
		}
		cached = append(cached, CachedCollection{
			ID:     col.ID,
			Name:   col.Name,
			Public: col.Public,
			Books:  refs,
		})
	}
	co.cache.Set(cached)
	return nil
}

// settle is best-effort: if the refresh itself fails the cache keeps its
// local (applied or rolled-back) state and a later mutation settles it.
func (co *Coordinator) settle(ctx context.Context) {
	_ = co.Refresh(ctx)
}
