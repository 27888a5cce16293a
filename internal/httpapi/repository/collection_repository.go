package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"bookboo/internal/httpapi/models"
)

// PublicCollectionRow is a collection joined with its creator's username.
type PublicCollectionRow struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	CreatorName string `json:"creatorName"`
}

type CollectionRepo struct {
	db *gorm.DB
}

func NewCollectionRepo(db *gorm.DB) *CollectionRepo {
	return &CollectionRepo{db: db}
}

func (r *CollectionRepo) GetPublic(ctx context.Context) ([]PublicCollectionRow, error) {
	var rows []PublicCollectionRow
	if err := r.db.WithContext(ctx).
		Model(&models.Collection{}).
		Select("collections.id, collections.name, users.username AS creator_name").
		Joins("INNER JOIN users ON users.id = collections.user_id").
		Where("collections.public = ?", true).
		Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("get public collections: %w", err)
	}
	return rows, nil
}

func (r *CollectionRepo) GetByUser(ctx context.Context, userID string) ([]models.Collection, error) {
	var list []models.Collection
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Find(&list).Error; err != nil {
		return nil, fmt.Errorf("get user collections: %w", err)
	}
	return list, nil
}

func (r *CollectionRepo) GetByID(ctx context.Context, id int64) (*models.Collection, error) {
	var c models.Collection
	if err := r.db.WithContext(ctx).First(&c, id).Error; err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get collection: %w", err)
	}
	return &c, nil
}

func (r *CollectionRepo) GetBooks(ctx context.Context, collectionID int64) ([]models.Book, error) {
	var books []models.Book
	if err := r.db.WithContext(ctx).
		Model(&models.Book{}).
		Joins("INNER JOIN collection_books ON collection_books.book_id = books.id").
		Where("collection_books.collection_id = ?", collectionID).
		Find(&books).Error; err != nil {
		return nil, fmt.Errorf("get books in collection: %w", err)
	}
	return books, nil
}

func (r *CollectionRepo) NameExists(ctx context.Context, userID, name string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Collection{}).
		Where("user_id = ? AND name = ?", userID, name).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *CollectionRepo) Create(ctx context.Context, c *models.Collection) error {
	if err := r.db.WithContext(ctx).Create(c).Error; err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("create collection: %w", err)
	}
	return nil
}

func (r *CollectionRepo) MemberExists(ctx context.Context, collectionID, bookID int64) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.CollectionBook{}).
		Where("collection_id = ? AND book_id = ?", collectionID, bookID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *CollectionRepo) AddBook(ctx context.Context, collectionID, bookID int64) (*models.CollectionBook, error) {
	member := &models.CollectionBook{
		CollectionID: collectionID,
		BookID:       bookID,
	}
	if err := r.db.WithContext(ctx).Create(member).Error; err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicate
		}
		return nil, fmt.Errorf("add book to collection: %w", err)
	}
	return member, nil
}

func (r *CollectionRepo) RemoveBook(ctx context.Context, collectionID, bookID int64) (bool, error) {
	result := r.db.WithContext(ctx).
		Where("collection_id = ? AND book_id = ?", collectionID, bookID).
		Delete(&models.CollectionBook{})
	if result.Error != nil {
		return false, fmt.Errorf("remove book from collection: %w", result.Error)
	}
	return result.RowsAffected > 0, nil
}

// Update applies only the supplied columns and reloads the row.
func (r *CollectionRepo) Update(ctx context.Context, id int64, fields map[string]interface{}) (*models.Collection, error) {
	if err := r.db.WithContext(ctx).
		Model(&models.Collection{}).
		Where("id = ?", id).
		Updates(fields).Error; err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicate
		}
		return nil, fmt.Errorf("update collection: %w", err)
	}
	return r.GetByID(ctx, id)
}

// Delete removes the collection; membership rows go with it via the
// FK cascade.
func (r *CollectionRepo) Delete(ctx context.Context, id int64) error {
	if err := r.db.WithContext(ctx).Delete(&models.Collection{}, id).Error; err != nil {
		return fmt.Errorf("delete collection: %w", err)
	}
	return nil
}
