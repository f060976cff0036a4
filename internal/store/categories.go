package store

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"keyiflimasa/models"
)

type CategoryInput struct {
	Name      string
	SortOrder int
	IsActive  bool
}

func (s *Store) ListCategories(ctx context.Context, profileID uint) ([]models.Category, error) {
	var categories []models.Category
	err := s.db.WithContext(ctx).
		Where("profile_id = ?", profileID).
		Order("sort_order asc, id asc").
		Find(&categories).Error
	return categories, err
}

func (s *Store) CreateCategory(ctx context.Context, profileID uint, input CategoryInput) (*models.Category, error) {
	category := &models.Category{
		ProfileID: profileID,
		Name:      strings.TrimSpace(input.Name),
		SortOrder: input.SortOrder,
		IsActive:  input.IsActive,
	}
	if err := s.db.WithContext(ctx).Create(category).Error; err != nil {
		return nil, err
	}
	return category, nil
}

func (s *Store) UpdateCategory(ctx context.Context, profileID, id uint, input CategoryInput) (*models.Category, error) {
	category := &models.Category{}
	if err := s.db.WithContext(ctx).Where("profile_id = ?", profileID).First(category, id).Error; err != nil {
		return nil, err
	}
	updates := map[string]any{
		"name":       strings.TrimSpace(input.Name),
		"sort_order": input.SortOrder,
		"is_active":  input.IsActive,
	}
	if err := s.db.WithContext(ctx).Model(category).Updates(updates).Error; err != nil {
		return nil, err
	}
	reloaded := &models.Category{}
	if err := s.db.WithContext(ctx).First(reloaded, id).Error; err != nil {
		return nil, err
	}
	return reloaded, nil
}

// DeleteCategory removes the category and moves its recipes to "uncategorised".
func (s *Store) DeleteCategory(ctx context.Context, profileID, id uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Where("profile_id = ?", profileID).Delete(&models.Category{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return tx.Model(&models.Recipe{}).
			Where("profile_id = ? AND category_id = ?", profileID, id).
			Update("category_id", nil).Error
	})
}
