package pages

import (
	"bytes"
	"context"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"keyiflimasa/internal/pricing"
	"keyiflimasa/internal/reports"
	"keyiflimasa/internal/store"
	"keyiflimasa/models"
)

func recipe(id uint, name string, category *uint, sale int64, portions int) models.Recipe {
	r := models.Recipe{Name: name, CategoryID: category, SalePrice: decimal.NewFromInt(sale), Portions: portions, IsActive: true}
	r.ID = id
	return r
}

func sampleMenu() store.Menu {
	soups := uint(1)
	hidden := uint(9)
	category := models.Category{Name: "Çorbalar"}
	category.ID = soups
	return store.Menu{
		Categories: []models.Category{category},
		Recipes: []models.Recipe{
			recipe(10, "Domates Çorbası", &soups, 13, 4),
			recipe(11, "Menemen", nil, 30, 2),
			recipe(12, "Sütlaç", &hidden, 130, 6),
		},
	}
}

func TestNormalizeAppSection(t *testing.T) {
	if got := NormalizeAppSection("  ORDERS "); got != "orders" {
		t.Fatalf("expected normalized section to be 'orders', got %s", got)
	}
	if got := NormalizeAppSection("unknown"); got != defaultAppSection {
		t.Fatalf("expected fallback to default section, got %s", got)
	}
	if ValidAppSection("formulas") {
		t.Fatal("expected invalid section to be rejected")
	}
}

func TestBuildMenuSectionsGroupsByCategory(t *testing.T) {
	cart := pricing.Cart{}.Add(10).Add(10)
	sections := BuildMenuSections(sampleMenu(), cart)
	if len(sections) != 2 {
		t.Fatalf("expected 2 sections, got %d", len(sections))
	}
	if sections[0].Title != "Çorbalar" || len(sections[0].Items) != 1 {
		t.Fatalf("unexpected first section %+v", sections[0])
	}
	soup := sections[0].Items[0]
	if !soup.PortionPrice.Equal(decimal.NewFromInt(4)) || soup.InCart != 2 {
		t.Fatalf("unexpected soup item %+v", soup)
	}
	if sections[1].Title != uncategorisedTitle || len(sections[1].Items) != 2 {
		t.Fatalf("expected uncategorised and hidden-category recipes last, got %+v", sections[1])
	}
}

func TestBuildCartViewDropsUnknownRecipes(t *testing.T) {
	cart := pricing.Cart{}.Add(10).Add(11).Add(11).Add(99)
	view, kept := BuildCartView(sampleMenu(), cart)
	if len(kept.Lines) != 2 {
		t.Fatalf("expected unknown recipe to be dropped, got %+v", kept.Lines)
	}
	if view.Count != 3 {
		t.Fatalf("expected 3 items, got %d", view.Count)
	}
	// 4 + 2 × 15
	if !view.Total.Equal(decimal.NewFromInt(34)) {
		t.Fatalf("expected total 34, got %s", view.Total)
	}
}

func TestShopRendersMenuAndCheckout(t *testing.T) {
	shop := &models.Profile{ShopName: "Ayşe'nin Mutfağı", ShopSlug: "aysenin-mutfagi", Phone: "5321234567"}
	menu := sampleMenu()
	cart := pricing.Cart{}.Add(10)
	cartView, _ := BuildCartView(menu, cart)

	var buf bytes.Buffer
	err := Shop(ShopView{
		Shop:           shop,
		Sections:       BuildMenuSections(menu, cart),
		Cart:           cartView,
		IdempotencyKey: "k-1",
	}).Render(context.Background(), &buf)
	if err != nil {
		t.Fatalf("render shop: %v", err)
	}
	out := buf.String()
	for _, token := range []string{"Domates Çorbası", "₺4,00", "/dukkan/aysenin-mutfagi/checkout", `value="k-1"`, "https://wa.me/905321234567"} {
		if !strings.Contains(out, token) {
			t.Fatalf("expected output to contain %q: %s", token, out)
		}
	}
}

func TestCartPanelEmpty(t *testing.T) {
	var buf bytes.Buffer
	shop := &models.Profile{ShopSlug: "x"}
	if err := CartPanel(ShopView{Shop: shop}).Render(context.Background(), &buf); err != nil {
		t.Fatalf("render cart: %v", err)
	}
	if !strings.Contains(buf.String(), "Sepetin boş") || strings.Contains(buf.String(), "checkout") {
		t.Fatalf("expected empty cart without checkout form: %s", buf.String())
	}
}

func TestAppRendersDashboard(t *testing.T) {
	order := models.Order{OrderNumber: "SIP-20250301-1001", CustomerName: "Ali", Total: decimal.NewFromInt(24), Status: models.OrderPending}
	order.CreatedAt = time.Now()
	view := AppView{
		Profile:   &models.Profile{ShopName: "Ayşe'nin Mutfağı"},
		ShopURL:   "http://localhost:8080/dukkan/aysenin-mutfagi",
		Dashboard: reports.BuildDashboard([]models.Order{order}, 4, time.Now()),
	}

	var buf bytes.Buffer
	if err := App(view).Render(context.Background(), &buf); err != nil {
		t.Fatalf("render app: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, `data-module-key="dashboard"`) {
		t.Fatalf("expected dashboard panel: %s", out)
	}
	if !strings.Contains(out, "SIP-20250301-1001") || !strings.Contains(out, "Yeni Sipariş") {
		t.Fatalf("expected recent order row: %s", out)
	}
}

func TestOrderReferenceFallsBackToID(t *testing.T) {
	order := models.Order{}
	order.ID = 7
	if got := OrderReference(order); got != "#7" {
		t.Fatalf("expected #7, got %q", got)
	}
}

func TestFilterIngredientsIsTurkishCaseInsensitive(t *testing.T) {
	all := []models.Ingredient{{Name: "Işık Unu"}, {Name: "Domates"}, {Name: "İnce Bulgur"}}
	req := httptest.NewRequest("GET", "/app/api/ingredients?q=%C4%B1%C5%9F%C4%B1k", nil)
	filtered := FilterIngredients(all, FiltersFromRequest(req))
	if len(filtered) != 1 || filtered[0].Name != "Işık Unu" {
		t.Fatalf("unexpected filter result %+v", filtered)
	}

	filtered = FilterIngredients(all, Filters{Query: "ince"})
	if len(filtered) != 1 || filtered[0].Name != "İnce Bulgur" {
		t.Fatalf("unexpected filter result %+v", filtered)
	}
}

func TestFilterRecipes(t *testing.T) {
	all := sampleMenu().Recipes
	if got := FilterRecipes(all, Filters{Query: "çorba"}); len(got) != 1 {
		t.Fatalf("expected one match, got %d", len(got))
	}
	if got := FilterRecipes(all, Filters{}); len(got) != len(all) {
		t.Fatal("expected empty query to return everything")
	}
}
