package models

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Ingredient is a priced raw material in a shop's pantry. PricePerUnit is the
// currency amount for one Unit (kg, lt, adet, ...).
type Ingredient struct {
	gorm.Model
	ProfileID    uint            `gorm:"not null;index" json:"profile_id"`
	Name         string          `gorm:"not null" json:"name"`
	Unit         string          `gorm:"not null;default:kg" json:"unit"`
	PricePerUnit decimal.Decimal `gorm:"type:decimal(12,4);not null" json:"price_per_unit"`
}
