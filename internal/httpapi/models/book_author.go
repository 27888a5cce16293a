package models

type BookAuthor struct {
	ID     int64  `json:"id" gorm:"primaryKey;autoIncrement"`
	BookID int64  `json:"book_id" gorm:"not null;index"`
	Name   string `json:"name" gorm:"size:100;not null"`
}

func (BookAuthor) TableName() string {
	return "book_authors"
}
