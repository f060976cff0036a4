package models

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// RecipeIngredient links a recipe to an ingredient with the amount used, in
// the ingredient's own unit.
type RecipeIngredient struct {
	gorm.Model
	RecipeID     uint            `gorm:"not null;index" json:"recipe_id"`
	IngredientID uint            `gorm:"not null;index" json:"ingredient_id"`
	Amount       decimal.Decimal `gorm:"type:decimal(12,4);not null" json:"amount"`

	// Not a foreign key constraint: deleting an ingredient leaves the row dangling.
	Ingredient *Ingredient `gorm:"foreignKey:IngredientID" json:"ingredient,omitempty"`
}
