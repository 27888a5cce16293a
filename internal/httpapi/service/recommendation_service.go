package service

import (
	"context"
	"errors"
	"fmt"

	"bookboo/internal/httpapi/dto"
	"bookboo/internal/httpapi/models"
)

// Bounds mirror the recommendation service's own contract.
const (
	MinRecommendLimit = 5
	MaxRecommendLimit = 20
	maxSeedBookID     = 10000
)

var recommendMethods = map[string]bool{
	"Content-Based": true,
	"Collaborative": true,
	"Hybrid":        true,
}

var (
	ErrInvalidRecommendRequest = errors.New("invalid request parameters")
	ErrUpstreamUnavailable     = errors.New("error from recommendation service")
)

// recommender produces ranked book ids for a seed book.
type recommender interface {
	Recommend(ctx context.Context, bookID int64, method string, limit int) ([]int64, error)
}

// recommendationCache is the redis cache surface; nil-safe on the impl side.
type recommendationCache interface {
	Get(ctx context.Context, bookID int64, method string, limit int) ([]dto.BookDetail, error)
	Set(ctx context.Context, bookID int64, method string, limit int, books []dto.BookDetail) error
}

// batchBookLookup resolves a set of book ids with authors and genres in
// three queries instead of 2n+1.
type batchBookLookup interface {
	GetByIDs(ctx context.Context, ids []int64) ([]models.Book, error)
	GetAuthorsByBookIDs(ctx context.Context, ids []int64) ([]models.BookAuthor, error)
	GetGenresByBookIDs(ctx context.Context, ids []int64) ([]models.BookGenre, error)
}

type RecommendationService interface {
	Recommend(ctx context.Context, bookID int64, method string, limit int) ([]dto.BookDetail, error)
}

type recommendationService struct {
	upstream recommender
	books    batchBookLookup
	cache    recommendationCache
}

func NewRecommendationService(upstream recommender, books batchBookLookup, cache recommendationCache) RecommendationService {
	return &recommendationService{upstream: upstream, books: books, cache: cache}
}

func (s *recommendationService) Recommend(ctx context.Context, bookID int64, method string, limit int) ([]dto.BookDetail, error) {
	if bookID < 1 || bookID > maxSeedBookID {
		return nil, fmt.Errorf("%w: book_id must be between 1 and %d", ErrInvalidRecommendRequest, maxSeedBookID)
	}
	if !recommendMethods[method] {
		return nil, fmt.Errorf("%w: unknown method %q", ErrInvalidRecommendRequest, method)
	}
	if limit < MinRecommendLimit || limit > MaxRecommendLimit {
		return nil, fmt.Errorf("%w: limit must be between %d and %d", ErrInvalidRecommendRequest, MinRecommendLimit, MaxRecommendLimit)
	}

	if cached, err := s.cache.Get(ctx, bookID, method, limit); err == nil && cached != nil {
		return cached, nil
	}

	ids, err := s.upstream.Recommend(ctx, bookID, method, limit)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err)
	}

	books, err := s.books.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	authors, err := s.books.GetAuthorsByBookIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	genres, err := s.books.GetGenresByBookIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	authorsByBook := make(map[int64][]models.BookAuthor)
	for _, a := range authors {
		authorsByBook[a.BookID] = append(authorsByBook[a.BookID], a)
	}
	genresByBook := make(map[int64][]models.BookGenre)
	for _, g := range genres {
		genresByBook[g.BookID] = append(genresByBook[g.BookID], g)
	}

	details := make([]dto.BookDetail, 0, len(books))
	for _, b := range books {
		details = append(details, dto.BookToDetail(b, authorsByBook[b.ID], genresByBook[b.ID]))
	}

	// Best-effort; a failed cache write never fails the request.
	_ = s.cache.Set(ctx, bookID, method, limit, details)

	return details, nil
}
