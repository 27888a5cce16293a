package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"bookboo/internal/httpapi/models"
)

type BookRepo struct {
	db *gorm.DB
}

func NewBookRepo(db *gorm.DB) *BookRepo {
	return &BookRepo{db: db}
}

func (r *BookRepo) GetRandom(ctx context.Context, limit int) ([]models.Book, error) {
	var list []models.Book
	if err := r.db.WithContext(ctx).
		Order("RANDOM()").
		Limit(limit).
		Find(&list).Error; err != nil {
		return nil, fmt.Errorf("get random books: %w", err)
	}
	return list, nil
}

func (r *BookRepo) GetByID(ctx context.Context, id int64) (*models.Book, error) {
	var b models.Book
	if err := r.db.WithContext(ctx).First(&b, id).Error; err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get book: %w", err)
	}
	return &b, nil
}

func (r *BookRepo) Exists(ctx context.Context, id int64) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Book{}).
		Where("id = ?", id).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// SearchByTitle performs a case-insensitive partial match on title.
func (r *BookRepo) SearchByTitle(ctx context.Context, query string, limit, offset int) ([]models.Book, error) {
	var list []models.Book
	if err := r.db.WithContext(ctx).
		Where("title ILIKE ?", "%"+query+"%").
		Limit(limit).
		Offset(offset).
		Find(&list).Error; err != nil {
		return nil, fmt.Errorf("search books: %w", err)
	}
	return list, nil
}

func (r *BookRepo) CountByTitle(ctx context.Context, query string) (int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).
		Model(&models.Book{}).
		Where("title ILIKE ?", "%"+query+"%").
		Count(&total).Error; err != nil {
		return 0, fmt.Errorf("count books: %w", err)
	}
	return total, nil
}

func (r *BookRepo) GetByIDs(ctx context.Context, ids []int64) ([]models.Book, error) {
	var list []models.Book
	if len(ids) == 0 {
		return list, nil
	}
	if err := r.db.WithContext(ctx).
		Where("id IN ?", ids).
		Find(&list).Error; err != nil {
		return nil, fmt.Errorf("get books by ids: %w", err)
	}
	return list, nil
}

func (r *BookRepo) GetAuthors(ctx context.Context, bookID int64) ([]models.BookAuthor, error) {
	var authors []models.BookAuthor
	if err := r.db.WithContext(ctx).
		Where("book_id = ?", bookID).
		Find(&authors).Error; err != nil {
		return nil, fmt.Errorf("get book authors: %w", err)
	}
	return authors, nil
}

func (r *BookRepo) GetGenres(ctx context.Context, bookID int64) ([]models.BookGenre, error) {
	var genres []models.BookGenre
	if err := r.db.WithContext(ctx).
		Where("book_id = ?", bookID).
		Find(&genres).Error; err != nil {
		return nil, fmt.Errorf("get book genres: %w", err)
	}
	return genres, nil
}

func (r *BookRepo) GetAuthorsByBookIDs(ctx context.Context, ids []int64) ([]models.BookAuthor, error) {
	var authors []models.BookAuthor
	if len(ids) == 0 {
		return authors, nil
	}
	if err := r.db.WithContext(ctx).
		Where("book_id IN ?", ids).
		Find(&authors).Error; err != nil {
		return nil, fmt.Errorf("get authors by book ids: %w", err)
	}
	return authors, nil
}

func (r *BookRepo) GetGenresByBookIDs(ctx context.Context, ids []int64) ([]models.BookGenre, error) {
	var genres []models.BookGenre
	if len(ids) == 0 {
		return genres, nil
	}
	if err := r.db.WithContext(ctx).
		Where("book_id IN ?", ids).
		Find(&genres).Error; err != nil {
		return nil, fmt.Errorf("get genres by book ids: %w", err)
	}
	return genres, nil
}
