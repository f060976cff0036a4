package pricing

import "github.com/shopspring/decimal"

// Line is one cart entry. A cart holds at most one line per recipe.
type Line struct {
	RecipeID uint `json:"recipe_id"`
	Quantity int  `json:"quantity"`
}

// Cart is an ordered set of lines. Methods return a new Cart and never
// modify the receiver's backing array.
type Cart struct {
	Lines []Line `json:"lines"`
}

// Add increments the line for recipeID or appends a new line with quantity one.
func (c Cart) Add(recipeID uint) Cart {
	lines := c.clone()
	for i := range lines {
		if lines[i].RecipeID == recipeID {
			lines[i].Quantity++
			return Cart{Lines: lines}
		}
	}
	return Cart{Lines: append(lines, Line{RecipeID: recipeID, Quantity: 1})}
}

// Adjust changes a line's quantity by delta. A resulting quantity of zero or
// less removes the line. Unknown recipes leave the cart unchanged.
func (c Cart) Adjust(recipeID uint, delta int) Cart {
	lines := make([]Line, 0, len(c.Lines))
	for _, line := range c.Lines {
		if line.RecipeID == recipeID {
			line.Quantity += delta
			if line.Quantity <= 0 {
				continue
			}
		}
		lines = append(lines, line)
	}
	return Cart{Lines: lines}
}

// Set assigns an explicit quantity. Zero removes the line; negative values
// are rejected. Setting a recipe that is not in the cart appends it.
func (c Cart) Set(recipeID uint, quantity int) (Cart, error) {
	if quantity < 0 {
		return c, ErrInvalidQuantity
	}
	current := c.Quantity(recipeID)
	if current == 0 {
		if quantity == 0 {
			return c, nil
		}
		return Cart{Lines: append(c.clone(), Line{RecipeID: recipeID, Quantity: quantity})}, nil
	}
	return c.Adjust(recipeID, quantity-current), nil
}

// Quantity returns the quantity held for recipeID, zero when absent.
func (c Cart) Quantity(recipeID uint) int {
	for _, line := range c.Lines {
		if line.RecipeID == recipeID {
			return line.Quantity
		}
	}
	return 0
}

// Count is the number of portions in the cart.
func (c Cart) Count() int {
	total := 0
	for _, line := range c.Lines {
		total += line.Quantity
	}
	return total
}

// Empty reports whether the cart has no lines.
func (c Cart) Empty() bool {
	return len(c.Lines) == 0
}

func (c Cart) clone() []Line {
	lines := make([]Line, len(c.Lines), len(c.Lines)+1)
	copy(lines, c.Lines)
	return lines
}

// PricedLine is a cart line resolved against a menu.
type PricedLine struct {
	RecipeID  uint            `json:"recipe_id"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Quantity  int             `json:"quantity"`
}

// Total is the line's unit price times its quantity.
func (l PricedLine) Total() (decimal.Decimal, error) {
	return LineTotal(l.UnitPrice, l.Quantity)
}

// CartTotal sums every line total. An empty cart totals zero.
func CartTotal(lines []PricedLine) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, line := range lines {
		lineTotal, err := line.Total()
		if err != nil {
			return decimal.Zero, err
		}
		total = total.Add(lineTotal)
	}
	return total, nil
}
