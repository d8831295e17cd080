package repository

import (
	"context"

	"gorm.io/gorm"

	"tempowise/internal/model"
)

// CategoryRepository manages activity categories.
type CategoryRepository struct {
	db *gorm.DB
}

func NewCategoryRepository(db *gorm.DB) *CategoryRepository {
	return &CategoryRepository{db: db}
}

func (r *CategoryRepository) Create(ctx context.Context, category *model.Category) error {
	if err := r.db.WithContext(ctx).Create(category).Error; err != nil {
		return opError(OpCreate, collectionPath(category.UserID, collCategories), err)
	}
	return nil
}

// Update changes name and color of a category owned by userID.
func (r *CategoryRepository) Update(ctx context.Context, userID, categoryID, name, color string) (*model.Category, error) {
	path := documentPath(userID, collCategories, categoryID)
	db := r.db.WithContext(ctx)

	var category model.Category
	if err := db.Where("user_id = ? AND id = ?", userID, categoryID).First(&category).Error; err != nil {
		return nil, opError(OpUpdate, path, err)
	}
	category.Name = name
	category.Color = color
	if err := db.Save(&category).Error; err != nil {
		return nil, opError(OpUpdate, path, err)
	}
	return &category, nil
}

// Delete removes the category only. Activities and goals keep pointing at it.
func (r *CategoryRepository) Delete(ctx context.Context, userID, categoryID string) error {
	res := r.db.WithContext(ctx).Where("user_id = ? AND id = ?", userID, categoryID).Delete(&model.Category{})
	if res.Error != nil {
		return opError(OpDelete, documentPath(userID, collCategories, categoryID), res.Error)
	}
	if res.RowsAffected == 0 {
		return opError(OpDelete, documentPath(userID, collCategories, categoryID), ErrNotFound)
	}
	return nil
}

func (r *CategoryRepository) ListByUser(ctx context.Context, userID string) ([]model.Category, error) {
	var categories []model.Category
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("created_at ASC, name ASC").Find(&categories).Error; err != nil {
		return nil, opError(OpList, collectionPath(userID, collCategories), err)
	}
	return categories, nil
}

func (r *CategoryRepository) GetByID(ctx context.Context, userID, categoryID string) (*model.Category, error) {
	var category model.Category
	if err := r.db.WithContext(ctx).Where("user_id = ? AND id = ?", userID, categoryID).First(&category).Error; err != nil {
		return nil, opError(OpGet, documentPath(userID, collCategories, categoryID), err)
	}
	return &category, nil
}
