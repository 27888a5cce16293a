package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"bookboo/internal/httpapi/dto"
	"bookboo/internal/httpapi/models"
)

type MockRecommender struct {
	mock.Mock
}

func (m *MockRecommender) Recommend(ctx context.Context, bookID int64, method string, limit int) ([]int64, error) {
	args := m.Called(ctx, bookID, method, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]int64), args.Error(1)
}

type MockRecommendationCache struct {
	mock.Mock
}

func (m *MockRecommendationCache) Get(ctx context.Context, bookID int64, method string, limit int) ([]dto.BookDetail, error) {
	args := m.Called(ctx, bookID, method, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]dto.BookDetail), args.Error(1)
}

func (m *MockRecommendationCache) Set(ctx context.Context, bookID int64, method string, limit int, books []dto.BookDetail) error {
	args := m.Called(ctx, bookID, method, limit, books)
	return args.Error(0)
}

type MockBatchBookLookup struct {
	mock.Mock
}

func (m *MockBatchBookLookup) GetByIDs(ctx context.Context, ids []int64) ([]models.Book, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).([]models.Book), args.Error(1)
}

func (m *MockBatchBookLookup) GetAuthorsByBookIDs(ctx context.Context, ids []int64) ([]models.BookAuthor, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).([]models.BookAuthor), args.Error(1)
}

func (m *MockBatchBookLookup) GetGenresByBookIDs(ctx context.Context, ids []int64) ([]models.BookGenre, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).([]models.BookGenre), args.Error(1)
}

func TestRecommend_RejectsBadParameters(t *testing.T) {
	svc := NewRecommendationService(new(MockRecommender), new(MockBatchBookLookup), new(MockRecommendationCache))
	ctx := context.Background()

	cases := []struct {
		name   string
		bookID int64
		method string
		limit  int
	}{
		{"zero book id", 0, "Hybrid", 10},
		{"book id above range", 10001, "Hybrid", 10},
		{"unknown method", 42, "Psychic", 10},
		{"limit too small", 42, "Hybrid", 4},
		{"limit too large", 42, "Hybrid", 21},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Recommend(ctx, tc.bookID, tc.method, tc.limit)
			assert.ErrorIs(t, err, ErrInvalidRecommendRequest)
		})
	}
}

func TestRecommend_CacheHitSkipsUpstream(t *testing.T) {
	upstream := new(MockRecommender)
	cache := new(MockRecommendationCache)
	svc := NewRecommendationService(upstream, new(MockBatchBookLookup), cache)

	cached := []dto.BookDetail{{ID: 7, Title: "Dune"}}
	cache.On("Get", mock.Anything, int64(42), "Hybrid", 10).Return(cached, nil)

	got, err := svc.Recommend(context.Background(), 42, "Hybrid", 10)
	require.NoError(t, err)
	assert.Equal(t, cached, got)
	upstream.AssertNotCalled(t, "Recommend", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestRecommend_CacheMissResolvesAndStores(t *testing.T) {
	upstream := new(MockRecommender)
	books := new(MockBatchBookLookup)
	cache := new(MockRecommendationCache)
	svc := NewRecommendationService(upstream, books, cache)

	ids := []int64{7, 8}
	cache.On("Get", mock.Anything, int64(42), "Content-Based", 5).Return(nil, nil)
	upstream.On("Recommend", mock.Anything, int64(42), "Content-Based", 5).Return(ids, nil)
	books.On("GetByIDs", mock.Anything, ids).Return([]models.Book{
		{ID: 7, Title: "Dune"},
		{ID: 8, Title: "Hyperion"},
	}, nil)
	books.On("GetAuthorsByBookIDs", mock.Anything, ids).Return([]models.BookAuthor{
		{BookID: 7, Name: "Frank Herbert"},
		{BookID: 8, Name: "Dan Simmons"},
	}, nil)
	books.On("GetGenresByBookIDs", mock.Anything, ids).Return([]models.BookGenre{
		{BookID: 7, Genre: "Science Fiction"},
	}, nil)
	cache.On("Set", mock.Anything, int64(42), "Content-Based", 5, mock.Anything).Return(nil)

	got, err := svc.Recommend(context.Background(), 42, "Content-Based", 5)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, []string{"Frank Herbert"}, got[0].Authors)
	assert.Empty(t, got[1].Genres)
	cache.AssertExpectations(t)
}

func TestRecommend_UpstreamFailure(t *testing.T) {
	upstream := new(MockRecommender)
	cache := new(MockRecommendationCache)
	svc := NewRecommendationService(upstream, new(MockBatchBookLookup), cache)

	cache.On("Get", mock.Anything, int64(42), "Hybrid", 10).Return(nil, nil)
	upstream.On("Recommend", mock.Anything, int64(42), "Hybrid", 10).Return(nil, errors.New("connection refused"))

	_, err := svc.Recommend(context.Background(), 42, "Hybrid", 10)
	assert.ErrorIs(t, err, ErrUpstreamUnavailable)
}

func TestRecommend_FailedCacheWriteDoesNotFailRequest(t *testing.T) {
	upstream := new(MockRecommender)
	books := new(MockBatchBookLookup)
	cache := new(MockRecommendationCache)
	svc := NewRecommendationService(upstream, books, cache)

	ids := []int64{7}
	cache.On("Get", mock.Anything, int64(42), "Hybrid", 10).Return(nil, nil)
	upstream.On("Recommend", mock.Anything, int64(42), "Hybrid", 10).Return(ids, nil)
	books.On("GetByIDs", mock.Anything, ids).Return([]models.Book{{ID: 7, Title: "Dune"}}, nil)
	books.On("GetAuthorsByBookIDs", mock.Anything, ids).Return([]models.BookAuthor{}, nil)
	books.On("GetGenresByBookIDs", mock.Anything, ids).Return([]models.BookGenre{}, nil)
	cache.On("Set", mock.Anything, int64(42), "Hybrid", 10, mock.Anything).Return(errors.New("redis down"))

	got, err := svc.Recommend(context.Background(), 42, "Hybrid", 10)
	require.NoError(t, err)
	assert.Len(t, got, 1)
}
