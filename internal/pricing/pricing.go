// Package pricing derives every monetary figure shown or charged by a shop:
// recipe cost, sale price, per-portion price and cart totals. All functions
// are pure and safe to call concurrently on caller-owned snapshots.
package pricing

import (
	"errors"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

const (
	// DefaultPortions is the portion count assumed for a new recipe.
	DefaultPortions = 4
)

var (
	// DefaultMargin replaces any non-positive or unparseable margin.
	DefaultMargin = decimal.RequireFromString("2.5")

	// ErrInvalidQuantity is returned when a quantity below one is supplied
	// directly rather than through Cart.Adjust.
	ErrInvalidQuantity = errors.New("pricing: quantity must be a positive integer")
)

// Ingredient is the price-list view of an ingredient.
type Ingredient struct {
	ID           uint
	PricePerUnit decimal.Decimal
}

// Association is one recipe-ingredient line. Amount is in the ingredient's unit.
type Association struct {
	RecipeID     uint
	IngredientID uint
	Amount       decimal.Decimal
}

// RecipeCost sums amount × price for every association of recipeID whose
// ingredient exists in ingredients. Dangling ingredient ids contribute zero.
// Duplicated (recipe, ingredient) pairs are summed. The result is not rounded.
func RecipeCost(recipeID uint, associations []Association, ingredients map[uint]decimal.Decimal) decimal.Decimal {
	cost := decimal.Zero
	for _, assoc := range associations {
		if assoc.RecipeID != recipeID {
			continue
		}
		price, ok := ingredients[assoc.IngredientID]
		if !ok {
			continue
		}
		cost = cost.Add(assoc.Amount.Mul(price))
	}
	return cost
}

// SalePrice rounds cost × margin up to the next whole currency unit so a shop
// never sells below its margin. A non-positive margin is replaced by DefaultMargin.
func SalePrice(cost, margin decimal.Decimal) decimal.Decimal {
	return cost.Mul(NormalizeMargin(margin)).Ceil()
}

// PortionPrice is the unit price a customer pays for one ordered item:
// ceil(salePrice / portions). Non-positive portions count as one portion.
func PortionPrice(salePrice decimal.Decimal, portions int) decimal.Decimal {
	if portions <= 0 {
		return salePrice
	}
	quotient, remainder := salePrice.QuoRem(decimal.NewFromInt(int64(portions)), 0)
	if remainder.Sign() > 0 {
		quotient = quotient.Add(decimal.NewFromInt(1))
	}
	return quotient
}

// LineTotal multiplies a portion price by a positive quantity.
func LineTotal(portionPrice decimal.Decimal, quantity int) (decimal.Decimal, error) {
	if quantity < 1 {
		return decimal.Zero, ErrInvalidQuantity
	}
	return portionPrice.Mul(decimal.NewFromInt(int64(quantity))), nil
}

// NormalizeMargin substitutes DefaultMargin for zero or negative margins.
func NormalizeMargin(margin decimal.Decimal) decimal.Decimal {
	if margin.Sign() <= 0 {
		return DefaultMargin
	}
	return margin
}

// NormalizePortions treats non-positive portion counts as a single portion.
func NormalizePortions(portions int) int {
	if portions <= 0 {
		return 1
	}
	return portions
}

// ParseMargin reads a margin typed by a merchant. Both "2.5" and "2,5" are
// accepted; anything unparseable or non-positive yields DefaultMargin.
func ParseMargin(value string) decimal.Decimal {
	margin, err := ParseAmount(value)
	if err != nil {
		return DefaultMargin
	}
	return NormalizeMargin(margin)
}

// ParsePortions reads a portion count. A blank field means DefaultPortions;
// a malformed or non-positive value means one portion.
func ParsePortions(value string) int {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return DefaultPortions
	}
	portions, err := strconv.Atoi(trimmed)
	if err != nil {
		return 1
	}
	return NormalizePortions(portions)
}

// ParseAmount parses a decimal that may use a Turkish decimal comma
// ("12,50") or thousands dots ("1.234,50").
func ParseAmount(value string) (decimal.Decimal, error) {
	trimmed := strings.TrimSpace(value)
	if strings.Contains(trimmed, ",") {
		trimmed = strings.ReplaceAll(trimmed, ".", "")
		trimmed = strings.ReplaceAll(trimmed, ",", ".")
	}
	return decimal.NewFromString(trimmed)
}
