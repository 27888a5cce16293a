// Package recommend wraps the external recommendation microservice, which
// takes a seed book and returns ranked book ids.
package recommend

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/time/rate"
)

const (
	// The service recomputes similarity matrices on demand; keep request
	// volume modest.
	rateLimit = 5 // requests per second
	rateBurst = 10
)

// ErrUpstream reports a non-200 answer from the recommendation service.
type ErrUpstream struct {
	StatusCode int
}

func (e *ErrUpstream) Error() string {
	return fmt.Sprintf("recommendation service returned status %d", e.StatusCode)
}

// Client is a rate-limited HTTP client for the recommendation service.
type Client struct {
	baseURL     string
	httpClient  *http.Client
	rateLimiter *rate.Limiter
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL:     baseURL,
		rateLimiter: rate.NewLimiter(rate.Limit(rateLimit), rateBurst),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
}

// Recommend fetches ranked book ids for the given seed book and method.
func (c *Client) Recommend(ctx context.Context, bookID int64, method string, limit int) ([]int64, error) {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, err
	}

	query := url.Values{}
	query.Set("book_id", strconv.FormatInt(bookID, 10))
	query.Set("method", method)
	query.Set("limit", strconv.Itoa(limit))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.baseURL+"/recommend?"+query.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build recommendation request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("call recommendation service: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &ErrUpstream{StatusCode: resp.StatusCode}
	}

	var ids []int64
	if err := json.NewDecoder(resp.Body).Decode(&ids); err != nil {
		return nil, fmt.Errorf("decode recommendation response: %w", err)
	}
	return ids, nil
}
