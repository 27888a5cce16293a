package service

import (
	"context"
	"errors"

	"bookboo/internal/httpapi/dto"
	"bookboo/internal/httpapi/models"
	"bookboo/internal/httpapi/repository"
)

// collectionStore is the slice of the collection repository this service
// consumes. Declared here so the access-control rules can be tested
// against a mock without a database.
type collectionStore interface {
	GetPublic(ctx context.Context) ([]repository.PublicCollectionRow, error)
	GetByUser(ctx context.Context, userID string) ([]models.Collection, error)
	GetByID(ctx context.Context, id int64) (*models.Collection, error)
	GetBooks(ctx context.Context, collectionID int64) ([]models.Book, error)
	NameExists(ctx context.Context, userID, name string) (bool, error)
	Create(ctx context.Context, c *models.Collection) error
	MemberExists(ctx context.Context, collectionID, bookID int64) (bool, error)
	AddBook(ctx context.Context, collectionID, bookID int64) (*models.CollectionBook, error)
	RemoveBook(ctx context.Context, collectionID, bookID int64) (bool, error)
	Update(ctx context.Context, id int64, fields map[string]interface{}) (*models.Collection, error)
	Delete(ctx context.Context, id int64) error
}

// bookLookup is the subset of the book repository collections need to
// resolve members and verify book existence.
type bookLookup interface {
	Exists(ctx context.Context, id int64) (bool, error)
	GetAuthors(ctx context.Context, bookID int64) ([]models.BookAuthor, error)
	GetGenres(ctx context.Context, bookID int64) ([]models.BookGenre, error)
}

// CollectionService gates every collection read/write on visibility and
// ownership. The caller identity is an explicit argument on each method:
// the authenticated subject, or "" for anonymous requests.
type CollectionService interface {
	Public(ctx context.Context) ([]repository.PublicCollectionRow, error)
	ForUser(ctx context.Context, viewer, userID string) ([]dto.UserCollectionResponse, error)
	Details(ctx context.Context, viewer string, collectionID int64) (*dto.CollectionDetails, error)
	Create(ctx context.Context, viewer, ownerID, name string, public bool) (*models.Collection, error)
	AddBook(ctx context.Context, viewer string, collectionID, bookID int64) (*models.CollectionBook, error)
	RemoveBook(ctx context.Context, viewer string, collectionID, bookID int64) error
	Update(ctx context.Context, viewer string, collectionID int64, name *string, public *bool) (*models.Collection, error)
	Delete(ctx context.Context, viewer string, collectionID int64) error
}

type collectionService struct {
	repo  collectionStore
	books bookLookup
}

func NewCollectionService(repo collectionStore, books bookLookup) CollectionService {
	return &collectionService{repo: repo, books: books}
}

// Public lists public collections with creator usernames. An empty result
// is reported as ErrNoPublicCollections rather than an empty list; the
// mobile client depends on that signal.
func (s *collectionService) Public(ctx context.Context) ([]repository.PublicCollectionRow, error) {
	rows, err := s.repo.GetPublic(ctx)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, ErrNoPublicCollections
	}
	return rows, nil
}

func (s *collectionService) ForUser(ctx context.Context, viewer, userID string) ([]dto.UserCollectionResponse, error) {
	if viewer != userID {
		return nil, ErrForbidden
	}
	list, err := s.repo.GetByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, ErrNoCollections
	}
	resp := make([]dto.UserCollectionResponse, 0, len(list))
	for _, c := range list {
		resp = append(resp, dto.UserCollectionResponse{ID: c.ID, Name: c.Name, Public: c.Public})
	}
	return resp, nil
}

func (s *collectionService) Details(ctx context.Context, viewer string, collectionID int64) (*dto.CollectionDetails, error) {
	collection, err := s.repo.GetByID(ctx, collectionID)
	if err != nil {
		return nil, err
	}
	if collection == nil {
		return nil, ErrCollectionNotFound
	}

	isOwner := viewer != "" && collection.UserID == viewer
	if !collection.Public && !isOwner {
		return nil, ErrForbidden
	}

	books, err := s.repo.GetBooks(ctx, collectionID)
	if err != nil {
		return nil, err
	}

	details := make([]dto.BookDetail, 0, len(books))
	for _, b := range books {
		authors, err := s.books.GetAuthors(ctx, b.ID)
		if err != nil {
			return nil, err
		}
		genres, err := s.books.GetGenres(ctx, b.ID)
		if err != nil {
			return nil, err
		}
		details = append(details, dto.BookToDetail(b, authors, genres))
	}

	return &dto.CollectionDetails{
		Title:   collection.Name,
		Books:   details,
		IsOwner: isOwner,
		Public:  collection.Public,
	}, nil
}

func (s *collectionService) Create(ctx context.Context, viewer, ownerID, name string, public bool) (*models.Collection, error) {
	if viewer != ownerID {
		return nil, ErrForbidden
	}
	exists, err := s.repo.NameExists(ctx, ownerID, name)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrDuplicateName
	}

	collection := &models.Collection{
		Name:   name,
		UserID: ownerID,
		Public: public,
	}
	if err := s.repo.Create(ctx, collection); err != nil {
		// The unique index catches creates racing past the pre-check.
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrDuplicateName
		}
		return nil, err
	}
	return collection, nil
}

func (s *collectionService) AddBook(ctx context.Context, viewer string, collectionID, bookID int64) (*models.CollectionBook, error) {
	if err := s.requireOwner(ctx, viewer, collectionID); err != nil {
		return nil, err
	}
	bookExists, err := s.books.Exists(ctx, bookID)
	if err != nil {
		return nil, err
	}
	if !bookExists {
		return nil, ErrBookNotFound
	}
	member, err := s.repo.MemberExists(ctx, collectionID, bookID)
	if err != nil {
		return nil, err
	}
	if member {
		return nil, ErrAlreadyInCollection
	}

	added, err := s.repo.AddBook(ctx, collectionID, bookID)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrAlreadyInCollection
		}
		return nil, err
	}
	return added, nil
}

func (s *collectionService) RemoveBook(ctx context.Context, viewer string, collectionID, bookID int64) error {
	if err := s.requireOwner(ctx, viewer, collectionID); err != nil {
		return err
	}
	bookExists, err := s.books.Exists(ctx, bookID)
	if err != nil {
		return err
	}
	if !bookExists {
		return ErrBookNotFound
	}

	removed, err := s.repo.RemoveBook(ctx, collectionID, bookID)
	if err != nil {
		return err
	}
	if !removed {
		return ErrBookNotInCollection
	}
	return nil
}

func (s *collectionService) Update(ctx context.Context, viewer string, collectionID int64, name *string, public *bool) (*models.Collection, error) {
	if name == nil && public == nil {
		return nil, ErrNothingToUpdate
	}
	if err := s.requireOwner(ctx, viewer, collectionID); err != nil {
		return nil, err
	}

	fields := map[string]interface{}{}
	if name != nil {
		fields["name"] = *name
	}
	if public != nil {
		fields["public"] = *public
	}

	updated, err := s.repo.Update(ctx, collectionID, fields)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrDuplicateName
		}
		return nil, err
	}
	return updated, nil
}

func (s *collectionService) Delete(ctx context.Context, viewer string, collectionID int64) error {
	if err := s.requireOwner(ctx, viewer, collectionID); err != nil {
		return err
	}
	return s.repo.Delete(ctx, collectionID)
}

// requireOwner resolves the collection and checks the viewer owns it.
// Existence is checked before ownership so a missing collection is
// NotFound, not Forbidden.
func (s *collectionService) requireOwner(ctx context.Context, viewer string, collectionID int64) error {
	collection, err := s.repo.GetByID(ctx, collectionID)
	if err != nil {
		return err
	}
	if collection == nil {
		return ErrCollectionNotFound
	}
	if collection.UserID != viewer {
		return ErrForbidden
	}
	return nil
}
