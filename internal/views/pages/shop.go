package pages

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/a-h/templ"
	"github.com/shopspring/decimal"

	"keyiflimasa/internal/format"
	"keyiflimasa/internal/pricing"
	"keyiflimasa/internal/store"
	"keyiflimasa/internal/views/components"
	"keyiflimasa/internal/views/layout"
	"keyiflimasa/internal/views/theme"
	"keyiflimasa/models"
)

const uncategorisedTitle = "Diğer Lezzetler"

type MenuItem struct {
	ID           uint
	Name         string
	Description  string
	ImageURL     string
	Portions     int
	PortionPrice decimal.Decimal
	InCart       int
}

type MenuSection struct {
	Title string
	Items []MenuItem
}

type CartLine struct {
	RecipeID  uint
	Name      string
	UnitPrice decimal.Decimal
	Quantity  int
	Total     decimal.Decimal
}

type CartView struct {
	Lines []CartLine
	Count int
	Total decimal.Decimal
}

// CustomerForm echoes checkout inputs after a failed submission.
type CustomerForm struct {
	Name    string
	Phone   string
	Address string
	Note    string
}

type ShopView struct {
	Shop           *models.Profile
	Sections       []MenuSection
	Cart           CartView
	Customer       CustomerForm
	Message        string
	IdempotencyKey string
}

// BuildMenuSections groups active recipes under their categories in sort
// order. Recipes without a category, or whose category is hidden, are
// listed last.
func BuildMenuSections(menu store.Menu, cart pricing.Cart) []MenuSection {
	byCategory := make(map[uint][]MenuItem)
	var loose []MenuItem
	visible := make(map[uint]struct{}, len(menu.Categories))
	for _, category := range menu.Categories {
		visible[category.ID] = struct{}{}
	}

	for _, recipe := range menu.Recipes {
		item := MenuItem{
			ID:           recipe.ID,
			Name:         recipe.Name,
			Description:  recipe.Description,
			ImageURL:     recipe.ImageURL,
			Portions:     pricing.NormalizePortions(recipe.Portions),
			PortionPrice: pricing.PortionPrice(recipe.SalePrice, recipe.Portions),
			InCart:       cart.Quantity(recipe.ID),
		}
		if recipe.CategoryID != nil {
			if _, ok := visible[*recipe.CategoryID]; ok {
				byCategory[*recipe.CategoryID] = append(byCategory[*recipe.CategoryID], item)
				continue
			}
		}
		loose = append(loose, item)
	}

	sections := make([]MenuSection, 0, len(menu.Categories)+1)
	for _, category := range menu.Categories {
		if items := byCategory[category.ID]; len(items) > 0 {
			sections = append(sections, MenuSection{Title: category.Name, Items: items})
		}
	}
	if len(loose) > 0 {
		sections = append(sections, MenuSection{Title: uncategorisedTitle, Items: loose})
	}
	return sections
}

// BuildCartView prices the cart against the menu. Lines for recipes that
// left the menu are dropped; the returned cart contains only the kept lines.
func BuildCartView(menu store.Menu, cart pricing.Cart) (CartView, pricing.Cart) {
	view := CartView{Total: decimal.Zero}
	kept := pricing.Cart{}
	for _, line := range cart.Lines {
		recipe := menu.FindRecipe(line.RecipeID)
		if recipe == nil || line.Quantity < 1 {
			continue
		}
		kept.Lines = append(kept.Lines, line)
		price := pricing.PortionPrice(recipe.SalePrice, recipe.Portions)
		total, err := pricing.LineTotal(price, line.Quantity)
		if err != nil {
			continue
		}
		view.Lines = append(view.Lines, CartLine{
			RecipeID:  recipe.ID,
			Name:      recipe.Name,
			UnitPrice: price,
			Quantity:  line.Quantity,
			Total:     total,
		})
		view.Count += line.Quantity
		view.Total = view.Total.Add(total)
	}
	return view, kept
}

func Shop(view ShopView) templ.Component {
	return layout.Layout(view.Shop.ShopName+" · Keyifli Masa", nil, templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		hw := components.NewWriter(w)
		hw.Raw(`<header class="shop-header">`)
		if view.Shop.ShopImageURL != "" {
			hw.Raw(`<img class="shop-cover"`)
			hw.Attr("src", view.Shop.ShopImageURL)
			hw.Attr("alt", view.Shop.ShopName)
			hw.Raw(`>`)
		}
		hw.Raw(`<h1 class="font-display text-3xl font-bold">`)
		hw.Text(view.Shop.ShopName)
		hw.Raw(`</h1>`)
		if view.Shop.ShopDescription != "" {
			hw.Raw(`<p class="text-stone-500">`)
			hw.Text(view.Shop.ShopDescription)
			hw.Raw(`</p>`)
		}
		if view.Shop.Phone != "" {
			hw.Raw(`<a class="whatsapp"`)
			hw.Attr("href", format.WhatsAppURL(view.Shop.Phone))
			hw.Raw(`>`)
			hw.Text(format.Phone(view.Shop.Phone))
			hw.Raw(`</a>`)
		}
		hw.Raw(`</header>`)

		if len(view.Sections) == 0 {
			hw.Raw(`<p class="empty-state">Bu dükkanın menüsü henüz hazır değil.</p>`)
		}
		for _, section := range view.Sections {
			hw.Raw(`<section class="menu-section"><h2 class="text-xl font-bold">`)
			hw.Text(section.Title)
			hw.Raw(`</h2><ul class="menu-items">`)
			for _, item := range section.Items {
				hw.Component(ctx, menuItem(view.Shop.ShopSlug, item))
			}
			hw.Raw(`</ul></section>`)
		}

		hw.Component(ctx, CartPanel(view))
		return hw.Err()
	}))
}

func menuItem(slug string, item MenuItem) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		hw := components.NewWriter(w)
		hw.Raw(`<li class="menu-item"`)
		hw.Attr("data-recipe-id", strconv.FormatUint(uint64(item.ID), 10))
		hw.Raw(`>`)
		if item.ImageURL != "" {
			hw.Raw(`<img loading="lazy"`)
			hw.Attr("src", item.ImageURL)
			hw.Attr("alt", item.Name)
			hw.Raw(`>`)
		}
		hw.Raw(`<h3 class="font-semibold">`)
		hw.Text(item.Name)
		hw.Raw(`</h3>`)
		if item.Description != "" {
			hw.Raw(`<p class="text-sm text-stone-500">`)
			hw.Text(item.Description)
			hw.Raw(`</p>`)
		}
		hw.Raw(`<p class="price font-bold">`)
		hw.Text(format.Currency(item.PortionPrice))
		hw.Raw(` <span class="text-xs text-stone-400">/ porsiyon</span></p>`)
		hw.Raw(`<form method="post"`)
		hw.Attr("action", "/dukkan/"+slug+"/cart/add")
		hw.Attr("hx-post", "/dukkan/"+slug+"/cart/add")
		hw.Raw(` hx-target="#cart" hx-swap="outerHTML"><input type="hidden" name="recipe_id"`)
		hw.Attr("value", strconv.FormatUint(uint64(item.ID), 10))
		hw.Raw(`><button type="submit"`)
		hw.Attr("class", theme.AccentButton)
		hw.Raw(`>Sepete Ekle</button></form>`)
		if item.InCart > 0 {
			hw.Raw(`<span class="in-cart">`)
			hw.Text(fmt.Sprintf("Sepette %d", item.InCart))
			hw.Raw(`</span>`)
		}
		hw.Raw(`</li>`)
		return hw.Err()
	})
}

// CartPanel renders the cart and, when it has lines, the checkout form.
func CartPanel(view ShopView) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		slug := view.Shop.ShopSlug
		hw := components.NewWriter(w)
		hw.Raw(`<aside id="cart"`)
		hw.Attr("class", "cart "+theme.SurfaceClass)
		hw.Attr("data-count", strconv.Itoa(view.Cart.Count))
		hw.Raw(`><h2 class="font-bold">Sepetim</h2>`)
		hw.Component(ctx, components.Flash(view.Message, true))
		if len(view.Cart.Lines) == 0 {
			hw.Raw(`<p class="empty-state">Sepetin boş.</p></aside>`)
			return hw.Err()
		}

		hw.Raw(`<ul class="cart-lines">`)
		for _, line := range view.Cart.Lines {
			id := strconv.FormatUint(uint64(line.RecipeID), 10)
			hw.Raw(`<li class="cart-line"><span>`)
			hw.Text(line.Name)
			hw.Raw(`</span>`)
			for _, step := range []struct{ delta, label string }{{"-1", "−"}, {"1", "+"}} {
				hw.Raw(`<form method="post"`)
				hw.Attr("action", "/dukkan/"+slug+"/cart/adjust")
				hw.Attr("hx-post", "/dukkan/"+slug+"/cart/adjust")
				hw.Raw(` hx-target="#cart" hx-swap="outerHTML"><input type="hidden" name="recipe_id"`)
				hw.Attr("value", id)
				hw.Raw(`><input type="hidden" name="delta"`)
				hw.Attr("value", step.delta)
				hw.Raw(`><button type="submit">`)
				hw.Text(step.label)
				hw.Raw(`</button></form>`)
				if step.delta == "-1" {
					hw.Raw(`<span class="qty">`)
					hw.Text(strconv.Itoa(line.Quantity))
					hw.Raw(`</span>`)
				}
			}
			hw.Raw(`<span class="line-total">`)
			hw.Text(format.Currency(line.Total))
			hw.Raw(`</span></li>`)
		}
		hw.Raw(`</ul><p class="cart-total font-bold">Toplam: `)
		hw.Text(format.Currency(view.Cart.Total))
		hw.Raw(`</p>`)

		hw.Raw(`<form class="checkout" method="post"`)
		hw.Attr("action", "/dukkan/"+slug+"/checkout")
		hw.Raw(`><input type="hidden" name="idempotency_key"`)
		hw.Attr("value", view.IdempotencyKey)
		hw.Raw(`>`)
		input := func(label, name, kind, value string, required bool) {
			hw.Raw(`<label>`)
			hw.Text(label)
			hw.Raw(`<input`)
			hw.Attr("type", kind)
			hw.Attr("name", name)
			hw.Attr("value", value)
			if required {
				hw.Raw(` required`)
			}
			hw.Raw(`></label>`)
		}
		input("Adınız *", "name", "text", view.Customer.Name, true)
		input("Telefon *", "phone", "tel", view.Customer.Phone, true)
		input("Adres", "address", "text", view.Customer.Address, false)
		input("Teslim Tarihi", "delivery_date", "date", "", false)
		input("Teslim Saati", "delivery_time", "time", "", false)
		hw.Raw(`<label>Not<textarea name="note">`)
		hw.Text(view.Customer.Note)
		hw.Raw(`</textarea></label><button type="submit"`)
		hw.Attr("class", theme.AccentButton)
		hw.Raw(`>Siparişi Gönder</button></form></aside>`)
		return hw.Err()
	})
}

// OrderPlaced confirms a submitted order to the customer.
func OrderPlaced(shop *models.Profile, order *models.Order) templ.Component {
	return layout.Layout("Siparişiniz Alındı · "+shop.ShopName, nil, templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		hw := components.NewWriter(w)
		hw.Raw(`<section class="order-placed text-center"><div class="text-5xl">✅</div><h1 class="font-display text-2xl font-bold">Siparişiniz Alındı! 🎉</h1><p>`)
		hw.Text(shop.ShopName + " siparişinizi hazırlamaya başlayacak.")
		hw.Raw(`</p><p class="order-number font-bold">`)
		hw.Text(order.OrderNumber)
		hw.Raw(`</p><ul class="order-items">`)
		for _, item := range order.Items {
			hw.Raw(`<li>`)
			hw.Text(fmt.Sprintf("%d × %s", item.Quantity, item.RecipeName))
			hw.Raw(` <span>`)
			hw.Text(format.Currency(item.LineTotal()))
			hw.Raw(`</span></li>`)
		}
		hw.Raw(`</ul><p class="order-total font-bold">Toplam: `)
		hw.Text(format.Currency(order.Total))
		hw.Raw(`</p><a`)
		hw.Attr("href", "/dukkan/"+shop.ShopSlug)
		hw.Attr("class", theme.AccentButton)
		hw.Raw(`>Yeni Sipariş Ver</a></section>`)
		return hw.Err()
	}))
}
