package models

type BookGenre struct {
	ID     int64  `json:"id" gorm:"primaryKey;autoIncrement"`
	BookID int64  `json:"book_id" gorm:"not null;index"`
	Genre  string `json:"genre" gorm:"size:50;not null"`
}

func (BookGenre) TableName() string {
	return "book_genres"
}
