package models

import (
	"strings"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// OrderStatus tracks an order through the kitchen workflow.
type OrderStatus string

const (
	OrderPending   OrderStatus = "pending"
	OrderConfirmed OrderStatus = "confirmed"
	OrderPreparing OrderStatus = "preparing"
	OrderReady     OrderStatus = "ready"
	OrderDelivered OrderStatus = "delivered"
	OrderCancelled OrderStatus = "cancelled"
)

// OrderStatusFlow lists the forward progression of a non-cancelled order.
var OrderStatusFlow = []OrderStatus{
	OrderPending,
	OrderConfirmed,
	OrderPreparing,
	OrderReady,
	OrderDelivered,
}

var orderStatusLabels = map[OrderStatus]string{
	OrderPending:   "Yeni Sipariş",
	OrderConfirmed: "Onaylandı",
	OrderPreparing: "Hazırlanıyor",
	OrderReady:     "Hazır",
	OrderDelivered: "Teslim Edildi",
	OrderCancelled: "İptal",
}

// Order is the frozen record of a submitted cart. Total and the item prices
// are written once at checkout and never recomputed.
type Order struct {
	gorm.Model
	ProfileID       uint            `gorm:"not null;index;uniqueIndex:idx_orders_profile_idempotency" json:"profile_id"`
	OrderNumber     string          `gorm:"index" json:"order_number"`
	CustomerName    string          `gorm:"not null" json:"customer_name"`
	CustomerPhone   string          `json:"customer_phone"`
	CustomerAddress string          `gorm:"type:text" json:"customer_address"`
	CustomerNote    string          `gorm:"type:text" json:"customer_note"`
	DeliveryDate    string          `json:"delivery_date"`
	DeliveryTime    string          `json:"delivery_time"`
	Total           decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"total"`
	Status          OrderStatus     `gorm:"type:varchar(16);not null;default:pending;index" json:"status"`
	IdempotencyKey  *string         `gorm:"uniqueIndex:idx_orders_profile_idempotency" json:"-"`
	Items           []OrderItem     `gorm:"foreignKey:OrderID" json:"items,omitempty"`
}

// OrderItem snapshots a cart line. RecipeID is informational only; the
// recipe may be renamed, repriced or deleted after the order was placed.
type OrderItem struct {
	gorm.Model
	OrderID    uint            `gorm:"not null;index" json:"order_id"`
	RecipeID   *uint           `json:"recipe_id"`
	RecipeName string          `gorm:"not null" json:"recipe_name"`
	Quantity   int             `gorm:"not null" json:"quantity"`
	Price      decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"price"`
	Note       string          `json:"note"`
}

// LineTotal returns the frozen price multiplied by the quantity.
func (i OrderItem) LineTotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// ParseOrderStatus normalises user input into a known status.
func ParseOrderStatus(value string) (OrderStatus, bool) {
	status := OrderStatus(strings.ToLower(strings.TrimSpace(value)))
	if _, ok := orderStatusLabels[status]; !ok {
		return "", false
	}
	return status, true
}

// Label returns the Turkish display label for the status.
func (s OrderStatus) Label() string {
	if label, ok := orderStatusLabels[s]; ok {
		return label
	}
	return string(s)
}

// Terminal reports whether no further transitions are possible.
func (s OrderStatus) Terminal() bool {
	return s == OrderDelivered || s == OrderCancelled
}

// Open reports whether the order still needs work from the kitchen.
func (s OrderStatus) Open() bool {
	return s == OrderPending || s == OrderConfirmed || s == OrderPreparing
}

// NextStatus returns the status following s in the workflow.
func NextStatus(s OrderStatus) (OrderStatus, bool) {
	for i, status := range OrderStatusFlow {
		if status == s && i+1 < len(OrderStatusFlow) {
			return OrderStatusFlow[i+1], true
		}
	}
	return "", false
}

// CanTransition allows a single step forward along the flow, or cancelling
// any order that is not yet delivered.
func CanTransition(from, to OrderStatus) bool {
	if from.Terminal() {
		return false
	}
	if to == OrderCancelled {
		return true
	}
	next, ok := NextStatus(from)
	return ok && next == to
}
