package dto

import "bookboo/internal/httpapi/models"

// BookDetail is a book with its authors and genres resolved to flat lists,
// the shape every read endpoint returns.
type BookDetail struct {
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

func BookToDetail(b models.Book, authors []models.BookAuthor, genres []models.BookGenre) BookDetail {
	d := BookDetail{
		ID:              b.ID,
		Title:           b.Title,
		Description:     b.Description,
		CoverImage:      b.CoverImage,
		AverageRating:   b.AverageRating,
		RatingsCount:    b.RatingsCount,
		PageCount:       b.PageCount,
		PublicationYear: b.PublicationYear,
		Authors:         make([]string, 0, len(authors)),
		Genres:          make([]string, 0, len(genres)),
	}
	for _, a := range authors {
		d.Authors = append(d.Authors, a.Name)
	}
	for _, g := range genres {
		d.Genres = append(d.Genres, g.Genre)
	}
	return d
}

// SearchResult is the pagination envelope for GET /api/book/search.
// Next and Prev are absolute URLs, null at either end of the result set.
type SearchResult struct {
	Count   int64        `json:"count"`
	Next    *string      `json:"next"`
	Prev    *string      `json:"prev"`
	Results []BookDetail `json:"results"`
}
