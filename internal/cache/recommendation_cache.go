// Package cache holds the redis-backed response cache. All operations are
// nil-safe so the server runs without redis in development.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"bookboo/internal/httpapi/dto"
)

type RecommendationCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRecommendationCache connects to redis at redisURL. An empty URL
// returns a disabled cache.
func NewRecommendationCache(redisURL, password string, ttl time.Duration) (*RecommendationCache, error) {
	if redisURL == "" {
		return &RecommendationCache{}, nil
	}

	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	if password != "" {
		opts.Password = password
	}
	opts.DialTimeout = 5 * time.Second
	opts.ReadTimeout = 3 * time.Second
	opts.WriteTimeout = 3 * time.Second

	rdb := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RecommendationCache{client: rdb, ttl: ttl}, nil
}

func (c *RecommendationCache) key(bookID int64, method string, limit int) string {
	return fmt.Sprintf("recommend:book:%d:method:%s:limit:%d", bookID, method, limit)
}

// Get returns the cached recommendations, or nil on miss or when the
// cache is disabled.
func (c *RecommendationCache) Get(ctx context.Context, bookID int64, method string, limit int) ([]dto.BookDetail, error) {
	if c == nil || c.client == nil {
		return nil, nil
	}
	raw, err := c.client.Get(ctx, c.key(bookID, method, limit)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var books []dto.BookDetail
	if err := json.Unmarshal(raw, &books); err != nil {
		return nil, err
	}
	return books, nil
}

func (c *RecommendationCache) Set(ctx context.Context, bookID int64, method string, limit int, books []dto.BookDetail) error {
	if c == nil || c.client == nil {
		return nil
	}
	raw, err := json.Marshal(books)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, c.key(bookID, method, limit), raw, c.ttl).Err()
}

func (c *RecommendationCache) Close() error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Close()
}
