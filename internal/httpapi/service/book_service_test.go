package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"bookboo/internal/httpapi/models"
)

type MockBookStore struct {
	mock.Mock
}

func (m *MockBookStore) GetRandom(ctx context.Context, limit int) ([]models.Book, error) {
	args := m.Called(ctx, limit)
	return args.Get(0).([]models.Book), args.Error(1)
}

func (m *MockBookStore) GetByID(ctx context.Context, id int64) (*models.Book, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Book), args.Error(1)
}

func (m *MockBookStore) SearchByTitle(ctx context.Context, query string, limit, offset int) ([]models.Book, error) {
	args := m.Called(ctx, query, limit, offset)
	return args.Get(0).([]models.Book), args.Error(1)
}

func (m *MockBookStore) CountByTitle(ctx context.Context, query string) (int64, error) {
	args := m.Called(ctx, query)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockBookStore) GetAuthors(ctx context.Context, bookID int64) ([]models.BookAuthor, error) {
	args := m.Called(ctx, bookID)
	return args.Get(0).([]models.BookAuthor), args.Error(1)
}

func (m *MockBookStore) GetGenres(ctx context.Context, bookID int64) ([]models.BookGenre, error) {
	args := m.Called(ctx, bookID)
	return args.Get(0).([]models.BookGenre), args.Error(1)
}

func stubEnrichment(store *MockBookStore, books []models.Book) {
	for _, b := range books {
		store.On("GetAuthors", mock.Anything, b.ID).Return([]models.BookAuthor{}, nil)
		store.On("GetGenres", mock.Anything, b.ID).Return([]models.BookGenre{}, nil)
	}
}

func makeBooks(from, count int) []models.Book {
	books := make([]models.Book, 0, count)
	for i := 0; i < count; i++ {
		books = append(books, models.Book{ID: int64(from + i), Title: "Dune"})
	}
	return books
}

func TestSearch_FirstPageHasNextButNoPrev(t *testing.T) {
	store := new(MockBookStore)
	svc := NewBookService(store, "http://localhost:8080")

	page1 := makeBooks(1, 10)
	store.On("SearchByTitle", mock.Anything, "dune", 10, 0).Return(page1, nil)
	store.On("CountByTitle", mock.Anything, "dune").Return(int64(25), nil)
	stubEnrichment(store, page1)

	result, err := svc.Search(context.Background(), "dune", 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(25), result.Count)
	assert.Len(t, result.Results, 10)
	require.NotNil(t, result.Next)
	assert.Equal(t, "http://localhost:8080/api/book/search?query=dune&page=2&limit=10", *result.Next)
	assert.Nil(t, result.Prev)
}

func TestSearch_LastPageHasPrevButNoNext(t *testing.T) {
	store := new(MockBookStore)
	svc := NewBookService(store, "http://localhost:8080")

	page3 := makeBooks(21, 5)
	store.On("SearchByTitle", mock.Anything, "dune", 10, 20).Return(page3, nil)
	store.On("CountByTitle", mock.Anything, "dune").Return(int64(25), nil)
	stubEnrichment(store, page3)

	result, err := svc.Search(context.Background(), "dune", 3, 10)
	require.NoError(t, err)
	assert.Len(t, result.Results, 5)
	assert.Nil(t, result.Next)
	require.NotNil(t, result.Prev)
	assert.Equal(t, "http://localhost:8080/api/book/search?query=dune&page=2&limit=10", *result.Prev)
}

func TestSearch_QueryIsEscapedInLinks(t *testing.T) {
	store := new(MockBookStore)
	svc := NewBookService(store, "http://localhost:8080")

	page1 := makeBooks(1, 10)
	store.On("SearchByTitle", mock.Anything, "war & peace", 10, 0).Return(page1, nil)
	store.On("CountByTitle", mock.Anything, "war & peace").Return(int64(12), nil)
	stubEnrichment(store, page1)

	result, err := svc.Search(context.Background(), "war & peace", 1, 10)
	require.NoError(t, err)
	require.NotNil(t, result.Next)
	assert.Contains(t, *result.Next, "query=war+%26+peace")
}

func TestSearch_NoMatches(t *testing.T) {
	store := new(MockBookStore)
	svc := NewBookService(store, "http://localhost:8080")
	store.On("SearchByTitle", mock.Anything, "zzzz", 10, 0).Return([]models.Book{}, nil)

	_, err := svc.Search(context.Background(), "zzzz", 1, 10)
	assert.ErrorIs(t, err, ErrNoBooksFound)
}

func TestGetByID_NotFound(t *testing.T) {
	store := new(MockBookStore)
	svc := NewBookService(store, "http://localhost:8080")
	store.On("GetByID", mock.Anything, int64(42)).Return(nil, nil)

	_, err := svc.GetByID(context.Background(), 42)
	assert.ErrorIs(t, err, ErrBookNotFound)
}

func TestGetByID_FlattensAuthorsAndGenres(t *testing.T) {
	store := new(MockBookStore)
	svc := NewBookService(store, "http://localhost:8080")
	store.On("GetByID", mock.Anything, int64(42)).Return(&models.Book{ID: 42, Title: "Hyperion"}, nil)
	store.On("GetAuthors", mock.Anything, int64(42)).Return([]models.BookAuthor{
		{BookID: 42, Name: "Dan Simmons"},
	}, nil)
	store.On("GetGenres", mock.Anything, int64(42)).Return([]models.BookGenre{
		{BookID: 42, Genre: "Science Fiction"},
		{BookID: 42, Genre: "Space Opera"},
	}, nil)

	detail, err := svc.GetByID(context.Background(), 42)
	require.NoError(t, err)
	assert.Equal(t, []string{"Dan Simmons"}, detail.Authors)
	assert.Equal(t, []string{"Science Fiction", "Space Opera"}, detail.Genres)
}
