package dto

import (
	"time"

	"bookboo/internal/httpapi/models"
)

// CreateCollectionRequest used for POST /api/collection
type CreateCollectionRequest struct {
	Name   string `json:"name" binding:"required,min=1,max=200"`
	UserID string `json:"user_id" binding:"required"`
	Public *bool  `json:"public,omitempty"`
}

// UpdateCollectionRequest used for PATCH /api/collection/:collectionId
// (partial updates; at least one field must be present)
type UpdateCollectionRequest struct {
	Name   *string `json:"name,omitempty"`
	Public *bool   `json:"public,omitempty"`
}

// AddBookRequest used for POST /api/collection/:collectionId/book
type AddBookRequest struct {
	BookID int64 `json:"book_id" binding:"required,min=1"`
}

// CollectionResponse DTO for a single collection
type CollectionResponse struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	UserID    string    `json:"user_id"`
	Public    bool      `json:"public"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// UserCollectionResponse is the trimmed row returned when listing a
// user's own collections.
type UserCollectionResponse struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	Public bool   `json:"public"`
}

// CollectionDetails is the payload of GET /api/collection/:collectionId.
type CollectionDetails struct {
	Title   string       `json:"title"`
	Books   []BookDetail `json:"books"`
	IsOwner bool         `json:"isOwner"`
	Public  bool         `json:"public"`
}

// MembershipResponse DTO for a created membership row
type MembershipResponse struct {
	ID           int64     `json:"id"`
	CollectionID int64     `json:"collection_id"`
	BookID       int64     `json:"book_id"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Converters
func CollectionToResponse(c models.Collection) CollectionResponse {
	return CollectionResponse{
		ID:        c.ID,
		Name:      c.Name,
		UserID:    c.UserID,
		Public:    c.Public,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

func MembershipToResponse(m models.CollectionBook) MembershipResponse {
	return MembershipResponse{
		ID:           m.ID,
		CollectionID: m.CollectionID,
		BookID:       m.BookID,
		CreatedAt:    m.CreatedAt,
	}
}
