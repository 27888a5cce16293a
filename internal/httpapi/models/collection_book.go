package models

import "time"

// CollectionBook is a membership row. The composite unique index is the
// backstop for concurrent adds racing past the existence pre-check.
type CollectionBook struct {
	ID           int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	CollectionID int64     `json:"collection_id" gorm:"not null;uniqueIndex:idx_collection_books_member"`
	BookID       int64     `json:"book_id" gorm:"not null;uniqueIndex:idx_collection_books_member;index"`
	CreatedAt    time.Time `json:"createdAt" gorm:"autoCreateTime"`

	// Associations
	Collection *Collection `json:"-" gorm:"foreignKey:CollectionID;constraint:OnDelete:CASCADE"`
	Book       *Book       `json:"-" gorm:"foreignKey:BookID;constraint:OnDelete:CASCADE"`
}

func (CollectionBook) TableName() string {
	return "collection_books"
}
