// Package theme maps domain states to the storefront's Tailwind palette.
package theme

import "keyiflimasa/models"

// Badge contains resolved styling for a status pill.
type Badge struct {
	Label     string
	TextClass string
	BgClass   string
}

var statusBadges = map[models.OrderStatus]Badge{
	models.OrderPending:   {TextClass: "text-amber-700", BgClass: "bg-amber-50 border-amber-200"},
	models.OrderConfirmed: {TextClass: "text-sky-700", BgClass: "bg-sky-50 border-sky-200"},
	models.OrderPreparing: {TextClass: "text-indigo-700", BgClass: "bg-indigo-50 border-indigo-200"},
	models.OrderReady:     {TextClass: "text-emerald-700", BgClass: "bg-emerald-50 border-emerald-200"},
	models.OrderDelivered: {TextClass: "text-gray-600", BgClass: "bg-gray-50 border-gray-200"},
	models.OrderCancelled: {TextClass: "text-red-700", BgClass: "bg-red-50 border-red-200"},
}

var neutral = Badge{TextClass: "text-stone-600", BgClass: "bg-stone-50 border-stone-200"}

// Status returns the badge for an order status, falling back to a neutral
// palette for unknown values.
func Status(status models.OrderStatus) Badge {
	badge, ok := statusBadges[status]
	if !ok {
		badge = neutral
	}
	badge.Label = status.Label()
	return badge
}

// Shell classes shared by every page.
const (
	BodyClass    = "min-h-screen bg-cream text-stone-800"
	AccentButton = "rounded-2xl bg-mango-500 px-5 py-2 font-semibold text-white hover:bg-mango-600"
	SurfaceClass = "rounded-2xl border-2 border-stone-200 bg-white"
)
