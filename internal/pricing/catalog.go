package pricing

import "github.com/shopspring/decimal"

// Recipe carries the pricing inputs of a recipe.
type Recipe struct {
	ID       uint
	Portions int
	Margin   decimal.Decimal
}

// Quote is the full price breakdown of a recipe.
type Quote struct {
	Cost         decimal.Decimal `json:"cost"`
	SalePrice    decimal.Decimal `json:"sale_price"`
	PortionPrice decimal.Decimal `json:"portion_price"`
	Profit       decimal.Decimal `json:"profit"`
	Margin       decimal.Decimal `json:"margin"`
	Portions     int             `json:"portions"`
}

// Catalog indexes a shop's ingredient prices and recipe associations so
// costs can be computed without rescanning the full collections. A Catalog
// is read-only after construction.
type Catalog struct {
	prices       map[uint]decimal.Decimal
	associations map[uint][]Association
}

// NewCatalog builds a Catalog from price-list and association snapshots.
func NewCatalog(ingredients []Ingredient, associations []Association) *Catalog {
	c := &Catalog{
		prices:       make(map[uint]decimal.Decimal, len(ingredients)),
		associations: make(map[uint][]Association),
	}
	for _, ingredient := range ingredients {
		c.prices[ingredient.ID] = ingredient.PricePerUnit
	}
	for _, assoc := range associations {
		c.associations[assoc.RecipeID] = append(c.associations[assoc.RecipeID], assoc)
	}
	return c
}

// Cost returns the full-precision cost of the recipe.
func (c *Catalog) Cost(recipeID uint) decimal.Decimal {
	return RecipeCost(recipeID, c.associations[recipeID], c.prices)
}

// Quote prices the recipe against the catalog.
func (c *Catalog) Quote(recipe Recipe) Quote {
	return QuoteFromCost(c.Cost(recipe.ID), recipe.Margin, recipe.Portions)
}

// QuoteFromCost prices an already-computed cost, as the recipe editor does
// for unsaved drafts.
func QuoteFromCost(cost, margin decimal.Decimal, portions int) Quote {
	margin = NormalizeMargin(margin)
	sale := SalePrice(cost, margin)
	return Quote{
		Cost:         cost,
		SalePrice:    sale,
		PortionPrice: PortionPrice(sale, portions),
		Profit:       sale.Sub(cost),
		Margin:       margin,
		Portions:     NormalizePortions(portions),
	}
}

// DraftQuote prices unsaved recipe lines against the catalog's ingredient
// prices. The RecipeID of each line is ignored.
func (c *Catalog) DraftQuote(lines []Association, margin decimal.Decimal, portions int) Quote {
	draft := make([]Association, len(lines))
	for i, line := range lines {
		line.RecipeID = 0
		draft[i] = line
	}
	return QuoteFromCost(RecipeCost(0, draft, c.prices), margin, portions)
}
