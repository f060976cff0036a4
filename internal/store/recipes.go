package store

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"keyiflimasa/internal/pricing"
	"keyiflimasa/models"
)

// RecipeLine is one ingredient amount in a recipe write.
type RecipeLine struct {
	IngredientID uint
	Amount       decimal.Decimal
}

// RecipeInput is a validated recipe write. Lines replace the recipe's
// existing associations.
type RecipeInput struct {
	CategoryID  *uint
	Name        string
	Description string
	Portions    int
	Margin      decimal.Decimal
	IsActive    bool
	Lines       []RecipeLine
}

// Menu is what a customer sees on the public shop page.
type Menu struct {
	Categories []models.Category
	Recipes    []models.Recipe
}

func (s *Store) ListRecipes(ctx context.Context, profileID uint) ([]models.Recipe, error) {
	var recipes []models.Recipe
	err := s.db.WithContext(ctx).
		Preload("Ingredients").
		Where("profile_id = ?", profileID).
		Order("name asc").
		Find(&recipes).Error
	return recipes, err
}

func (s *Store) GetRecipe(ctx context.Context, profileID, id uint) (*models.Recipe, error) {
	recipe := &models.Recipe{}
	err := s.db.WithContext(ctx).
		Preload("Ingredients").
		Preload("Ingredients.Ingredient").
		Where("profile_id = ?", profileID).
		First(recipe, id).Error
	if err != nil {
		return nil, err
	}
	return recipe, nil
}

func (s *Store) CountRecipes(ctx context.Context, profileID uint) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.Recipe{}).Where("profile_id = ?", profileID).Count(&count).Error
	return count, err
}

// CreateRecipe stores a recipe with its ingredient lines and the engine
// computed sale price.
func (s *Store) CreateRecipe(ctx context.Context, profileID uint, input RecipeInput) (*models.Recipe, error) {
	recipe := &models.Recipe{ProfileID: profileID}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := validateRecipeRefs(tx, profileID, input); err != nil {
			return err
		}
		applyRecipeInput(recipe, input)
		if err := tx.Create(recipe).Error; err != nil {
			return err
		}
		return saveRecipeLines(tx, profileID, recipe, input.Lines)
	})
	if err != nil {
		return nil, err
	}
	return s.GetRecipe(ctx, profileID, recipe.ID)
}

func (s *Store) UpdateRecipe(ctx context.Context, profileID, id uint, input RecipeInput) (*models.Recipe, error) {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		recipe := &models.Recipe{}
		if err := tx.Where("profile_id = ?", profileID).First(recipe, id).Error; err != nil {
			return err
		}
		if err := validateRecipeRefs(tx, profileID, input); err != nil {
			return err
		}
		applyRecipeInput(recipe, input)
		if err := tx.Model(recipe).Select("category_id", "name", "description", "portions", "margin", "is_active").Updates(recipe).Error; err != nil {
			return err
		}
		if err := tx.Unscoped().Where("recipe_id = ?", recipe.ID).Delete(&models.RecipeIngredient{}).Error; err != nil {
			return err
		}
		return saveRecipeLines(tx, profileID, recipe, input.Lines)
	})
	if err != nil {
		return nil, err
	}
	return s.GetRecipe(ctx, profileID, id)
}

func (s *Store) DeleteRecipe(ctx context.Context, profileID, id uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Where("profile_id = ?", profileID).Delete(&models.Recipe{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return tx.Unscoped().Where("recipe_id = ?", id).Delete(&models.RecipeIngredient{}).Error
	})
}

func (s *Store) SetRecipeImage(ctx context.Context, profileID, id uint, url string) error {
	result := s.db.WithContext(ctx).Model(&models.Recipe{}).
		Where("profile_id = ? AND id = ?", profileID, id).
		Update("image_url", url)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// ActiveMenu returns the shop's categories and its active recipes.
func (s *Store) ActiveMenu(ctx context.Context, profileID uint) (Menu, error) {
	var menu Menu
	db := s.db.WithContext(ctx)
	if err := db.Where("profile_id = ? AND is_active = ?", profileID, true).
		Order("sort_order asc, id asc").
		Find(&menu.Categories).Error; err != nil {
		return Menu{}, err
	}
	if err := db.Where("profile_id = ? AND is_active = ?", profileID, true).
		Order("name asc").
		Find(&menu.Recipes).Error; err != nil {
		return Menu{}, err
	}
	return menu, nil
}

// FindRecipe returns the recipe with the given id, or nil.
func (m Menu) FindRecipe(id uint) *models.Recipe {
	for i := range m.Recipes {
		if m.Recipes[i].ID == id {
			return &m.Recipes[i]
		}
	}
	return nil
}

func applyRecipeInput(recipe *models.Recipe, input RecipeInput) {
	recipe.CategoryID = input.CategoryID
	recipe.Name = strings.TrimSpace(input.Name)
	recipe.Description = strings.TrimSpace(input.Description)
	recipe.Portions = input.Portions
	if recipe.Portions <= 0 {
		recipe.Portions = models.DefaultRecipePortions
	}
	recipe.Margin = pricing.NormalizeMargin(input.Margin)
	recipe.IsActive = input.IsActive
}

func validateRecipeRefs(tx *gorm.DB, profileID uint, input RecipeInput) error {
	if input.CategoryID != nil {
		var count int64
		if err := tx.Model(&models.Category{}).
			Where("profile_id = ? AND id = ?", profileID, *input.CategoryID).
			Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return ErrUnknownCategory
		}
	}

	if len(input.Lines) == 0 {
		return nil
	}
	ids := make([]uint, 0, len(input.Lines))
	seen := make(map[uint]struct{}, len(input.Lines))
	for _, line := range input.Lines {
		if _, ok := seen[line.IngredientID]; ok {
			continue
		}
		seen[line.IngredientID] = struct{}{}
		ids = append(ids, line.IngredientID)
	}
	var count int64
	if err := tx.Model(&models.Ingredient{}).
		Where("profile_id = ? AND id IN ?", profileID, ids).
		Count(&count).Error; err != nil {
		return err
	}
	if int(count) != len(ids) {
		return ErrUnknownIngredient
	}
	return nil
}

func saveRecipeLines(tx *gorm.DB, profileID uint, recipe *models.Recipe, lines []RecipeLine) error {
	if len(lines) > 0 {
		rows := make([]models.RecipeIngredient, 0, len(lines))
		for _, line := range lines {
			rows = append(rows, models.RecipeIngredient{
				RecipeID:     recipe.ID,
				IngredientID: line.IngredientID,
				Amount:       line.Amount,
			})
		}
		if err := tx.Create(&rows).Error; err != nil {
			return err
		}
	}

	catalog, err := loadCatalog(tx, profileID)
	if err != nil {
		return err
	}
	quote := catalog.Quote(PricingRecipe(*recipe))
	recipe.SalePrice = quote.SalePrice
	return tx.Model(&models.Recipe{}).Where("id = ?", recipe.ID).Update("sale_price", quote.SalePrice).Error
}
