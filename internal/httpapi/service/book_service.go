package service

import (
	"context"
	"fmt"
	"net/url"

	"bookboo/internal/httpapi/dto"
	"bookboo/internal/httpapi/models"
)

// bookStore is the book repository surface the catalog endpoints consume.
type bookStore interface {
	GetRandom(ctx context.Context, limit int) ([]models.Book, error)
	GetByID(ctx context.Context, id int64) (*models.Book, error)
	SearchByTitle(ctx context.Context, query string, limit, offset int) ([]models.Book, error)
	CountByTitle(ctx context.Context, query string) (int64, error)
	GetAuthors(ctx context.Context, bookID int64) ([]models.BookAuthor, error)
	GetGenres(ctx context.Context, bookID int64) ([]models.BookGenre, error)
}

type BookService interface {
	Random(ctx context.Context, limit int) ([]dto.BookDetail, error)
	GetByID(ctx context.Context, id int64) (*dto.BookDetail, error)
	Search(ctx context.Context, query string, page, limit int) (*dto.SearchResult, error)
}

type bookService struct {
	repo    bookStore
	baseURL string
}

// NewBookService builds the read-only catalog service. baseURL is the
// externally reachable server address used for next/prev links.
func NewBookService(repo bookStore, baseURL string) BookService {
	return &bookService{repo: repo, baseURL: baseURL}
}

func (s *bookService) Random(ctx context.Context, limit int) ([]dto.BookDetail, error) {
	books, err := s.repo.GetRandom(ctx, limit)
	if err != nil {
		return nil, err
	}
	return s.enrich(ctx, books)
}

func (s *bookService) GetByID(ctx context.Context, id int64) (*dto.BookDetail, error) {
	book, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if book == nil {
		return nil, ErrBookNotFound
	}
	authors, err := s.repo.GetAuthors(ctx, id)
	if err != nil {
		return nil, err
	}
	genres, err := s.repo.GetGenres(ctx, id)
	if err != nil {
		return nil, err
	}
	detail := dto.BookToDetail(*book, authors, genres)
	return &detail, nil
}

// Search pages through title matches, returning the count/next/prev
// envelope. Pages are 1-based; next is null on the last page and prev on
// the first.
func (s *bookService) Search(ctx context.Context, query string, page, limit int) (*dto.SearchResult, error) {
	offset := (page - 1) * limit
	books, err := s.repo.SearchByTitle(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	if len(books) == 0 {
		return nil, ErrNoBooksFound
	}

	results, err := s.enrich(ctx, books)
	if err != nil {
		return nil, err
	}

	total, err := s.repo.CountByTitle(ctx, query)
	if err != nil {
		return nil, err
	}
	totalPages := (total + int64(limit) - 1) / int64(limit)

	result := &dto.SearchResult{
		Count:   total,
		Results: results,
	}
	if int64(page) < totalPages {
		result.Next = s.searchURL(query, page+1, limit)
	}
	if page > 1 {
		result.Prev = s.searchURL(query, page-1, limit)
	}
	return result, nil
}

func (s *bookService) searchURL(query string, page, limit int) *string {
	u := fmt.Sprintf("%s/api/book/search?query=%s&page=%d&limit=%d",
		s.baseURL, url.QueryEscape(query), page, limit)
	return &u
}

func (s *bookService) enrich(ctx context.Context, books []models.Book) ([]dto.BookDetail, error) {
	details := make([]dto.BookDetail, 0, len(books))
	for _, b := range books {
		authors, err := s.repo.GetAuthors(ctx, b.ID)
		if err != nil {
			return nil, err
		}
		genres, err := s.repo.GetGenres(ctx, b.ID)
		if err != nil {
			return nil, err
		}
		details = append(details, dto.BookToDetail(b, authors, genres))
	}
	return details, nil
}
