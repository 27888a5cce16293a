package client

import "sync"

// BookRef is the minimal stub an optimistic add installs; the settle
// refresh replaces it with full server-confirmed data.
type BookRef struct {
	ID int64 `json:"id"`
}

// CachedCollection is one of the caller's collections with its member
// list, as the UI reads it.
type CachedCollection struct {
	ID     int64
	Name   string
	Public bool
	Books  []BookRef
}

// CollectionCache holds the locally cached collections list. A mutex
// keeps snapshots internally consistent; overlapping mutations are still
// last-settle-wins.
type CollectionCache struct {
	mu          sync.Mutex
	collections []CachedCollection
}

func NewCollectionCache() *CollectionCache {
	return &CollectionCache{}
}

// Get returns a deep copy of the cached collections.
func (c *CollectionCache) Get() []CachedCollection {
	c.mu.Lock()
	defer c.mu.Unlock()
	return cloneCollections(c.collections)
}

// Set replaces the cached state.
func (c *CollectionCache) Set(collections []CachedCollection) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.collections = cloneCollections(collections)
}

// Snapshot captures the current state for a later Restore.
func (c *CollectionCache) Snapshot() []CachedCollection {
	return c.Get()
}

// Restore puts the cache back to exactly the snapshotted state.
func (c *CollectionCache) Restore(snapshot []CachedCollection) {
	c.Set(snapshot)
}

// ApplyAdd installs a book stub into the collection's member list.
// Appending an already-present book is a no-op.
func (c *CollectionCache) ApplyAdd(collectionID, bookID int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.collections {
		if c.collections[i].ID != collectionID {
			continue
		}
		for _, b := range c.collections[i].Books {
			if b.ID == bookID {
				return
			}
		}
		c.collections[i].Books = append(c.collections[i].Books, BookRef{ID: bookID})
		return
	}
}

// ApplyRemove filters the book out of the collection's member list.
func (c *CollectionCache) ApplyRemove(collectionID, bookID int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.collections {
		if c.collections[i].ID != collectionID {
			continue
		}
		books := c.collections[i].Books[:0]
		for _, b := range c.collections[i].Books {
			if b.ID != bookID {
				books = append(books, b)
			}
		}
		c.collections[i].Books = books
		return
	}
}

func cloneCollections(src []CachedCollection) []CachedCollection {
	out := make([]CachedCollection, len(src))
	for i, col := range src {
		out[i] = col
		out[i].Books = make([]BookRef, len(col.Books))
		copy(out[i].Books, col.Books)
	}
	return out
}
