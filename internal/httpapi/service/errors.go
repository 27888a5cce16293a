package service

import "errors"

// Sentinel errors shared by the services. Handlers map them to HTTP
// statuses; anything else becomes a generic 500.
var (
	ErrForbidden           = errors.New("forbidden: access denied")
	ErrCollectionNotFound  = errors.New("collection not found")
	ErrBookNotFound        = errors.New("book not found")
	ErrBookNotInCollection = errors.New("book not found in the collection")
	ErrDuplicateName       = errors.New("user already has a collection with this name")
	ErrAlreadyInCollection = errors.New("this book is already in the collection")
	ErrNoCollections       = errors.New("no collections found")
	ErrNoPublicCollections = errors.New("no public collections found")
	ErrNothingToUpdate     = errors.New("missing fields to update")
	ErrNoBooksFound        = errors.New("no books found matching the query")
)
