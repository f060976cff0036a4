// Package store is the gorm-backed persistence layer for shops, their menus
// and their orders. Every query is scoped to a profile.
package store

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"keyiflimasa/internal/pricing"
	"keyiflimasa/models"
)

var (
	ErrUnknownCategory   = errors.New("store: category does not belong to this shop")
	ErrUnknownIngredient = errors.New("store: ingredient does not belong to this shop")
	ErrInvalidTransition = errors.New("store: order status transition not allowed")
	ErrEmailTaken        = errors.New("store: email already registered")
)

// Store wraps a gorm handle. It holds no other state and is safe for
// concurrent use.
type Store struct {
	db *gorm.DB
}

// New returns a Store backed by db.
func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// DB exposes the underlying handle for health checks and tests.
func (s *Store) DB() *gorm.DB {
	return s.db
}

// LoadCatalog snapshots a shop's ingredient prices and recipe associations.
func (s *Store) LoadCatalog(ctx context.Context, profileID uint) (*pricing.Catalog, error) {
	return loadCatalog(s.db.WithContext(ctx), profileID)
}

func loadCatalog(tx *gorm.DB, profileID uint) (*pricing.Catalog, error) {
	var ingredients []models.Ingredient
	if err := tx.Where("profile_id = ?", profileID).Find(&ingredients).Error; err != nil {
		return nil, err
	}

	var associations []models.RecipeIngredient
	if err := tx.
		Joins("JOIN recipes ON recipes.id = recipe_ingredients.recipe_id AND recipes.deleted_at IS NULL").
		Where("recipes.profile_id = ?", profileID).
		Find(&associations).Error; err != nil {
		return nil, err
	}

	prices := make([]pricing.Ingredient, 0, len(ingredients))
	for _, ingredient := range ingredients {
		prices = append(prices, pricing.Ingredient{ID: ingredient.ID, PricePerUnit: ingredient.PricePerUnit})
	}
	lines := make([]pricing.Association, 0, len(associations))
	for _, assoc := range associations {
		lines = append(lines, pricing.Association{
			RecipeID:     assoc.RecipeID,
			IngredientID: assoc.IngredientID,
			Amount:       assoc.Amount,
		})
	}
	return pricing.NewCatalog(prices, lines), nil
}

// PricingRecipe converts a stored recipe into the engine's input.
func PricingRecipe(recipe models.Recipe) pricing.Recipe {
	return pricing.Recipe{ID: recipe.ID, Portions: recipe.Portions, Margin: recipe.Margin}
}

// RepriceRecipes recomputes and persists the sale price snapshot of every
// recipe in the shop. It returns the number of recipes whose price changed.
func (s *Store) RepriceRecipes(ctx context.Context, profileID uint) (int, error) {
	changed := 0
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		changed, err = repriceRecipes(tx, profileID)
		return err
	})
	return changed, err
}

func repriceRecipes(tx *gorm.DB, profileID uint) (int, error) {
	catalog, err := loadCatalog(tx, profileID)
	if err != nil {
		return 0, err
	}

	var recipes []models.Recipe
	if err := tx.Where("profile_id = ?", profileID).Find(&recipes).Error; err != nil {
		return 0, err
	}

	changed := 0
	for _, recipe := range recipes {
		quote := catalog.Quote(PricingRecipe(recipe))
		if quote.SalePrice.Equal(recipe.SalePrice) {
			continue
		}
		if err := tx.Model(&models.Recipe{}).Where("id = ?", recipe.ID).Update("sale_price", quote.SalePrice).Error; err != nil {
			return changed, err
		}
		changed++
	}
	return changed, nil
}
