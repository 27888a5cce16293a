// Package client is a typed HTTP client for the BookBoo API, plus a local
// collections cache with optimistic add/remove mutations.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// Client talks to the BookBoo API server.
type Client struct {
	baseURL    string
	httpClient *http.Client
	token      string
}

func NewClient(apiURL string) *Client {
	return &Client{
		baseURL: apiURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// SetToken sets the bearer token attached to authenticated requests.
func (c *Client) SetToken(token string) {
	c.token = token
}

// APIError is a non-2xx response decoded from the server's error body.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.StatusCode, e.Message)
}

// Book is a catalog entry with authors and genres resolved.
type Book struct {
	ID              int64    `json:"id"`
	Title           string   `json:"title"`
	Description     string   `json:"description"`
	CoverImage      string   `json:"coverImage"`
	AverageRating   float64  `json:"averageRating"`
	RatingsCount    int      `json:"ratingsCount"`
	PageCount       int      `json:"pageCount"`
	PublicationYear int      `json:"publicationYear"`
	Authors         []string `json:"authors"`
	Genres          []string `json:"genres"`
}

type SearchResult struct {
	Count   int64   `json:"count"`
	Next    *string `json:"next"`
	Prev    *string `json:"prev"`
	Results []Book  `json:"results"`
}

type PublicCollection struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	CreatorName string `json:"creatorName"`
}

type Collection struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	Public bool   `json:"public"`
}

type CollectionDetails struct {
	Title   string `json:"title"`
	Books   []Book `json:"books"`
	IsOwner bool   `json:"isOwner"`
	Public  bool   `json:"public"`
}

type CreateCollectionRequest struct {
	Name   string `json:"name"`
	UserID string `json:"user_id"`
	Public *bool  `json:"public,omitempty"`
}

type UpdateCollectionRequest struct {
	Name   *string `json:"name,omitempty"`
	Public *bool   `json:"public,omitempty"`
}

// CreatedCollection is the collection row the server returns from create
// and update calls.
type CreatedCollection struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	UserID string `json:"user_id"`
	Public bool   `json:"public"`
}

func (c *Client) RandomBooks(ctx context.Context) ([]Book, error) {
	var books []Book
	err := c.get(ctx, "/api/book", &books)
	return books, err
}

func (c *Client) Book(ctx context.Context, id int64) (*Book, error) {
	var book Book
	if err := c.get(ctx, "/api/book/"+strconv.FormatInt(id, 10), &book); err != nil {
		return nil, err
	}
	return &book, nil
}

func (c *Client) SearchBooks(ctx context.Context, query string, page, limit int) (*SearchResult, error) {
	q := url.Values{}
	q.Set("query", query)
	q.Set("page", strconv.Itoa(page))
	q.Set("limit", strconv.Itoa(limit))

	var result SearchResult
	if err := c.get(ctx, "/api/book/search?"+q.Encode(), &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) Recommend(ctx context.Context, bookID int64, method string, limit int) ([]Book, error) {
	q := url.Values{}
	q.Set("book_id", strconv.FormatInt(bookID, 10))
	q.Set("method", method)
	q.Set("limit", strconv.Itoa(limit))

	var books []Book
	err := c.get(ctx, "/api/recommend?"+q.Encode(), &books)
	return books, err
}

func (c *Client) PublicCollections(ctx context.Context) ([]PublicCollection, error) {
	var list []PublicCollection
	err := c.get(ctx, "/api/collection", &list)
	return list, err
}

func (c *Client) UserCollections(ctx context.Context, userID string) ([]Collection, error) {
	var list []Collection
	err := c.get(ctx, "/api/users/"+url.PathEscape(userID)+"/collections", &list)
	return list, err
}

func (c *Client) CollectionDetails(ctx context.Context, collectionID int64) (*CollectionDetails, error) {
	var details CollectionDetails
	if err := c.get(ctx, "/api/collection/"+strconv.FormatInt(collectionID, 10), &details); err != nil {
		return nil, err
	}
	return &details, nil
}

func (c *Client) CreateCollection(ctx context.Context, req CreateCollectionRequest) (*CreatedCollection, error) {
	var created CreatedCollection
	if err := c.do(ctx, http.MethodPost, "/api/collection", req, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

func (c *Client) UpdateCollection(ctx context.Context, collectionID int64, req UpdateCollectionRequest) (*CreatedCollection, error) {
	var updated CreatedCollection
	path := "/api/collection/" + strconv.FormatInt(collectionID, 10)
	if err := c.do(ctx, http.MethodPatch, path, req, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

func (c *Client) DeleteCollection(ctx context.Context, collectionID int64) error {
	path := "/api/collection/" + strconv.FormatInt(collectionID, 10)
	return c.do(ctx, http.MethodDelete, path, nil, nil)
}

func (c *Client) AddBookToCollection(ctx context.Context, collectionID, bookID int64) error {
	path := "/api/collection/" + strconv.FormatInt(collectionID, 10) + "/book"
	return c.do(ctx, http.MethodPost, path, map[string]int64{"book_id": bookID}, nil)
}

func (c *Client) RemoveBookFromCollection(ctx context.Context, collectionID, bookID int64) error {
	path := fmt.Sprintf("/api/collection/%d/book/%d", collectionID, bookID)
	return c.do(ctx, http.MethodDelete, path, nil, nil)
}

func (c *Client) get(ctx context.Context, path string, out interface{}) error {
	return c.do(ctx, http.MethodGet, path, nil, out)
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader *bytes.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(jsonData)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var errBody struct {
			Error   string `json:"error"`
			Message string `json:"message"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&errBody)
		msg := errBody.Error
		if msg == "" {
			msg = errBody.Message
		}
		if msg == "" {
			msg = resp.Status
		}
		return &APIError{StatusCode: resp.StatusCode, Message: msg}
	}

	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
