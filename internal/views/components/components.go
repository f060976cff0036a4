// Package components holds the small building blocks shared by pages.
package components

import (
	"context"
	"io"

	"github.com/a-h/templ"

	"keyiflimasa/internal/views/theme"
	"keyiflimasa/models"
)

type SidebarLink struct {
	Label   string
	Path    string
	Section string
	Icon    string
}

type SidebarData struct {
	ShopName string
	ShopURL  string
	Active   string
	Links    []SidebarLink
}

// OrderRow is a pre-formatted order line for tables.
type OrderRow struct {
	Number   string
	Customer string
	Total    string
	PlacedAt string
	Status   models.OrderStatus
}

func linkState(section, active string) string {
	if section == active {
		return "active"
	}
	return "inactive"
}

// StatCard renders one dashboard figure.
func StatCard(label, value, caption, icon string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		hw := NewWriter(w)
		hw.Raw(`<div class="stat-card rounded-2xl border-2 border-stone-200 bg-white p-5">`)
		hw.Raw(`<div class="text-2xl">`)
		hw.Text(icon)
		hw.Raw(`</div><p class="text-sm text-stone-500">`)
		hw.Text(label)
		hw.Raw(`</p><p class="text-2xl font-bold text-stone-800">`)
		hw.Text(value)
		hw.Raw(`</p>`)
		if caption != "" {
			hw.Raw(`<p class="text-xs text-stone-400">`)
			hw.Text(caption)
			hw.Raw(`</p>`)
		}
		hw.Raw(`</div>`)
		return hw.Err()
	})
}

// StatusBadge renders the Turkish status label with its palette.
func StatusBadge(status models.OrderStatus) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		badge := theme.Status(status)
		hw := NewWriter(w)
		hw.Raw(`<span`)
		hw.Attr("class", "badge border "+badge.TextClass+" "+badge.BgClass)
		hw.Attr("data-status", string(status))
		hw.Raw(`>`)
		hw.Text(badge.Label)
		hw.Raw(`</span>`)
		return hw.Err()
	})
}

// OrderTable lists orders with their status badges.
func OrderTable(rows []OrderRow) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		hw := NewWriter(w)
		if len(rows) == 0 {
			hw.Raw(`<p class="empty-state text-stone-400">Henüz sipariş yok.</p>`)
			return hw.Err()
		}
		hw.Raw(`<table class="orders w-full"><thead><tr><th>Sipariş</th><th>Müşteri</th><th>Tutar</th><th>Tarih</th><th>Durum</th></tr></thead><tbody>`)
		for _, row := range rows {
			hw.Raw(`<tr><td class="font-medium">`)
			hw.Text(row.Number)
			hw.Raw(`</td><td>`)
			hw.Text(row.Customer)
			hw.Raw(`</td><td>`)
			hw.Text(row.Total)
			hw.Raw(`</td><td>`)
			hw.Text(row.PlacedAt)
			hw.Raw(`</td><td>`)
			hw.Component(ctx, StatusBadge(row.Status))
			hw.Raw(`</td></tr>`)
		}
		hw.Raw(`</tbody></table>`)
		return hw.Err()
	})
}

// Sidebar renders the merchant navigation.
func Sidebar(data SidebarData) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		hw := NewWriter(w)
		hw.Raw(`<nav class="sidebar flex flex-col gap-1"><p class="font-display text-lg font-bold">`)
		hw.Text(data.ShopName)
		hw.Raw(`</p>`)
		for _, link := range data.Links {
			hw.Raw(`<a`)
			hw.Attr("href", link.Path)
			hw.Attr("data-nav-section", link.Section)
			hw.Attr("data-state", linkState(link.Section, data.Active))
			hw.Raw(` class="nav-link">`)
			hw.Text(link.Icon + " " + link.Label)
			hw.Raw(`</a>`)
		}
		if data.ShopURL != "" {
			hw.Raw(`<a target="_blank" class="nav-link shop-link"`)
			hw.Attr("href", data.ShopURL)
			hw.Raw(`>Dükkanımı Gör</a>`)
		}
		hw.Raw(`<form method="post" action="/logout"><button type="submit" class="nav-link">Çıkış</button></form></nav>`)
		return hw.Err()
	})
}

// Flash renders a dismissable message when one is present.
func Flash(message string, isError bool) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if message == "" {
			return nil
		}
		hw := NewWriter(w)
		class := "flash flash-info"
		if isError {
			class = "flash flash-error"
		}
		hw.Raw(`<div role="alert"`)
		hw.Attr("class", class)
		hw.Raw(`>`)
		hw.Text(message)
		hw.Raw(`</div>`)
		return hw.Err()
	})
}
