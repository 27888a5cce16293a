package models

// Book rows are seeded externally; the API never mutates them.
type Book struct {
	ID              int64   `json:"id" gorm:"primaryKey;autoIncrement"`
	Title           string  `json:"title" gorm:"size:200;not null"`
	AverageRating   float64 `json:"averageRating" gorm:"not null"`
	RatingsCount    int     `json:"ratingsCount" gorm:"not null"`
	CoverImage      string  `json:"coverImage" gorm:"size:100;not null"`
	PageCount       int     `json:"pageCount" gorm:"not null"`
	Description     string  `json:"description" gorm:"type:text;not null"`
	NormalizedTitle string  `json:"normalizedTitle,omitempty" gorm:"size:200;not null"`
	PublicationYear int     `json:"publicationYear" gorm:"not null"`

	// Associations
	Authors []BookAuthor `json:"-" gorm:"foreignKey:BookID;constraint:OnDelete:CASCADE"`
	Genres  []BookGenre  `json:"-" gorm:"foreignKey:BookID;constraint:OnDelete:CASCADE"`
}

func (Book) TableName() string {
	return "books"
}
