package store

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"keyiflimasa/internal/format"
	"keyiflimasa/models"
)

// IngredientInput is a validated ingredient write.
type IngredientInput struct {
	Name         string
	Unit         string
	PricePerUnit decimal.Decimal
}

func (in IngredientInput) normalized() IngredientInput {
	in.Name = strings.TrimSpace(in.Name)
	in.Unit = strings.ToLower(strings.TrimSpace(in.Unit))
	if in.Unit == "" {
		in.Unit = "kg"
	}
	return in
}

func (s *Store) ListIngredients(ctx context.Context, profileID uint) ([]models.Ingredient, error) {
	var ingredients []models.Ingredient
	err := s.db.WithContext(ctx).Where("profile_id = ?", profileID).Order("name asc").Find(&ingredients).Error
	return ingredients, err
}

func (s *Store) GetIngredient(ctx context.Context, profileID, id uint) (*models.Ingredient, error) {
	ingredient := &models.Ingredient{}
	if err := s.db.WithContext(ctx).Where("profile_id = ?", profileID).First(ingredient, id).Error; err != nil {
		return nil, err
	}
	return ingredient, nil
}

func (s *Store) CreateIngredient(ctx context.Context, profileID uint, input IngredientInput) (*models.Ingredient, error) {
	input = input.normalized()
	ingredient := &models.Ingredient{
		ProfileID:    profileID,
		Name:         input.Name,
		Unit:         input.Unit,
		PricePerUnit: input.PricePerUnit,
	}
	if err := s.db.WithContext(ctx).Create(ingredient).Error; err != nil {
		return nil, err
	}
	return ingredient, nil
}

// UpdateIngredient saves the new price list entry and reprices every recipe
// of the shop in the same transaction, so the menu never shows a sale price
// derived from the previous ingredient price.
func (s *Store) UpdateIngredient(ctx context.Context, profileID, id uint, input IngredientInput) (*models.Ingredient, error) {
	input = input.normalized()
	ingredient := &models.Ingredient{}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("profile_id = ?", profileID).First(ingredient, id).Error; err != nil {
			return err
		}
		updates := map[string]any{
			"name":           input.Name,
			"unit":           input.Unit,
			"price_per_unit": input.PricePerUnit,
		}
		if err := tx.Model(ingredient).Updates(updates).Error; err != nil {
			return err
		}
		_, err := repriceRecipes(tx, profileID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return s.GetIngredient(ctx, profileID, id)
}

// DeleteIngredient removes the ingredient. Recipes that used it keep their
// association rows; those lines simply stop contributing to cost.
func (s *Store) DeleteIngredient(ctx context.Context, profileID, id uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Where("profile_id = ?", profileID).Delete(&models.Ingredient{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		_, err := repriceRecipes(tx, profileID)
		return err
	})
}

// ImportResult summarises an UpsertIngredients run.
type ImportResult struct {
	Created  int
	Updated  int
	Repriced int
}

// UpsertIngredients matches rows to existing ingredients by name under
// Turkish case folding, updating unit and price, and creates the rest. Rows
// repeating a name within one import update the same ingredient.
func (s *Store) UpsertIngredients(ctx context.Context, profileID uint, rows []IngredientInput) (ImportResult, error) {
	var result ImportResult
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var current []models.Ingredient
		if err := tx.Where("profile_id = ?", profileID).Order("id").Find(&current).Error; err != nil {
			return err
		}
		byName := make(map[string]*models.Ingredient, len(current))
		for i := range current {
			key := format.NameKey(current[i].Name)
			if _, seen := byName[key]; !seen {
				byName[key] = &current[i]
			}
		}

		for _, row := range rows {
			row = row.normalized()
			if row.Name == "" {
				continue
			}
			key := format.NameKey(row.Name)
			if existing, ok := byName[key]; ok {
				if err := tx.Model(existing).Updates(map[string]any{
					"unit":           row.Unit,
					"price_per_unit": row.PricePerUnit,
				}).Error; err != nil {
					return err
				}
				result.Updated++
				continue
			}
			created := &models.Ingredient{
				ProfileID:    profileID,
				Name:         row.Name,
				Unit:         row.Unit,
				PricePerUnit: row.PricePerUnit,
			}
			if err := tx.Create(created).Error; err != nil {
				return err
			}
			byName[key] = created
			result.Created++
		}
		repriced, err := repriceRecipes(tx, profileID)
		result.Repriced = repriced
		return err
	})
	return result, err
}
