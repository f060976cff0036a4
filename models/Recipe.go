package models

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	// DefaultRecipePortions is applied when a recipe is saved without a portion count.
	DefaultRecipePortions = 4
)

type Recipe struct {
	gorm.Model
	ProfileID   uint               `gorm:"not null;index" json:"profile_id"`
	CategoryID  *uint              `json:"category_id"`
	Name        string             `gorm:"not null" json:"name"`
	Description string             `gorm:"type:text" json:"description"`
	Portions    int                `gorm:"not null;default:4" json:"portions"`
	Margin      decimal.Decimal    `gorm:"type:decimal(8,2);not null" json:"margin"`
	SalePrice   decimal.Decimal    `gorm:"type:decimal(12,2);not null" json:"sale_price"` // Snapshot written on every save or reprice
	ImageURL    string             `json:"image_url"`
	IsActive    bool               `gorm:"not null" json:"is_active"`
	Ingredients []RecipeIngredient `gorm:"foreignKey:RecipeID" json:"ingredients"`
	Category    *Category          `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
}
