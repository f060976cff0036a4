package pages

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/a-h/templ"

	"keyiflimasa/internal/format"
	"keyiflimasa/internal/reports"
	"keyiflimasa/internal/views/components"
	"keyiflimasa/internal/views/layout"
	"keyiflimasa/models"
)

const defaultAppSection = "dashboard"

type appSection struct {
	key   string
	label string
	icon  string
	api   string
}

var appSections = []appSection{
	{key: "dashboard", label: "Ana Sayfa", icon: "🏠", api: "/app/api/dashboard"},
	{key: "menu", label: "Menüm", icon: "📖", api: "/app/api/recipes"},
	{key: "ingredients", label: "Malzemeler", icon: "🧺", api: "/app/api/ingredients"},
	{key: "orders", label: "Siparişler", icon: "🛎️", api: "/app/api/orders"},
	{key: "calendar", label: "Takvim", icon: "📅", api: "/app/api/calendar"},
	{key: "reports", label: "Kazancım", icon: "💰", api: "/app/api/reports"},
	{key: "settings", label: "Ayarlar", icon: "⚙️", api: "/app/api/settings"},
}

// NormalizeAppSection lowercases the section and falls back to the dashboard.
func NormalizeAppSection(section string) string {
	normalized := strings.ToLower(strings.TrimSpace(section))
	if ValidAppSection(normalized) {
		return normalized
	}
	return defaultAppSection
}

func ValidAppSection(section string) bool {
	for _, s := range appSections {
		if s.key == section {
			return true
		}
	}
	return false
}

// AppView is everything the merchant panel renders server side.
type AppView struct {
	Profile   *models.Profile
	ShopURL   string
	Section   string
	Dashboard reports.Dashboard
}

// OrderRows formats orders for components.OrderTable.
func OrderRows(orders []models.Order) []components.OrderRow {
	rows := make([]components.OrderRow, 0, len(orders))
	for _, order := range orders {
		rows = append(rows, components.OrderRow{
			Number:   OrderReference(order),
			Customer: order.CustomerName,
			Total:    format.Currency(order.Total),
			PlacedAt: format.DateTime(order.CreatedAt),
			Status:   order.Status,
		})
	}
	return rows
}

// OrderReference shows the order number, or #id for orders without one.
func OrderReference(order models.Order) string {
	if strings.TrimSpace(order.OrderNumber) != "" {
		return order.OrderNumber
	}
	return fmt.Sprintf("#%d", order.ID)
}

func appSidebar(view AppView) templ.Component {
	data := components.SidebarData{
		ShopName: view.Profile.ShopName,
		ShopURL:  view.ShopURL,
		Active:   view.Section,
	}
	for _, s := range appSections {
		data.Links = append(data.Links, components.SidebarLink{
			Label:   s.label,
			Path:    "/app?section=" + s.key,
			Section: s.key,
			Icon:    s.icon,
		})
	}
	return components.Sidebar(data)
}

func App(view AppView) templ.Component {
	view.Section = NormalizeAppSection(view.Section)
	return layout.Layout("Panel · "+view.Profile.ShopName, appSidebar(view), AppPartial(view))
}

// AppPartial renders only the active panel, for HTMX navigation.
func AppPartial(view AppView) templ.Component {
	view.Section = NormalizeAppSection(view.Section)
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		hw := components.NewWriter(w)
		var active appSection
		for _, s := range appSections {
			if s.key == view.Section {
				active = s
			}
		}
		hw.Raw(`<div id="app-panel"`)
		hw.Attr("data-module-key", active.key)
		hw.Attr("data-api", active.api)
		hw.Raw(`><h1 class="font-display text-2xl font-bold">`)
		hw.Text(active.label + " " + active.icon)
		hw.Raw(`</h1>`)

		if active.key == defaultAppSection {
			d := view.Dashboard
			hw.Raw(`<div class="stats grid gap-4 md:grid-cols-4">`)
			hw.Component(ctx, components.StatCard("Bugünkü Sipariş", fmt.Sprint(d.TodayOrders), "", "🛎️"))
			hw.Component(ctx, components.StatCard("Bugünkü Ciro", format.Currency(d.TodayRevenue), "", "💰"))
			hw.Component(ctx, components.StatCard("Bekleyen", fmt.Sprint(d.OpenOrders), "hazırlanacak sipariş", "⏳"))
			hw.Component(ctx, components.StatCard("Ürün", fmt.Sprint(d.ProductCount), "menüdeki tarif", "📖"))
			hw.Raw(`</div><h2 class="font-bold">Son Siparişler</h2>`)
			hw.Component(ctx, components.OrderTable(OrderRows(d.Recent)))
			if view.ShopURL != "" {
				hw.Raw(`<p class="share">Dükkan linkin: <a`)
				hw.Attr("href", view.ShopURL)
				hw.Raw(`>`)
				hw.Text(view.ShopURL)
				hw.Raw(`</a></p>`)
			}
		} else {
			hw.Raw(`<div class="panel-body" hx-trigger="load"`)
			hw.Attr("hx-get", active.api)
			hw.Raw(`></div>`)
		}
		hw.Raw(`</div>`)
		return hw.Err()
	})
}
