package models

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestParseOrderStatus(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name  string
		value string
		want  OrderStatus
		ok    bool
	}{
		{"pending", "pending", OrderPending, true},
		{"mixed case", "  Preparing ", OrderPreparing, true},
		{"cancelled", "cancelled", OrderCancelled, true},
		{"unknown", "shipped", "", false},
		{"empty", "", "", false},
	}

	for _, tt := range cases {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, ok := ParseOrderStatus(tt.value)
			if got != tt.want || ok != tt.ok {
				t.Fatalf("ParseOrderStatus(%q) = (%q, %t), want (%q, %t)", tt.value, got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestCanTransition(t *testing.T) {
	t.Parallel()

	cases := []struct {
		from, to OrderStatus
		want     bool
	}{
		{OrderPending, OrderConfirmed, true},
		{OrderConfirmed, OrderPreparing, true},
		{OrderReady, OrderDelivered, true},
		{OrderPending, OrderReady, false},
		{OrderPreparing, OrderPending, false},
		{OrderPreparing, OrderCancelled, true},
		{OrderDelivered, OrderCancelled, false},
		{OrderCancelled, OrderPending, false},
	}

	for _, tt := range cases {
		if got := CanTransition(tt.from, tt.to); got != tt.want {
			t.Fatalf("CanTransition(%s, %s) = %t, want %t", tt.from, tt.to, got, tt.want)
		}
	}
}

func TestNextStatusStopsAtDelivered(t *testing.T) {
	t.Parallel()

	if _, ok := NextStatus(OrderDelivered); ok {
		t.Fatal("expected no status after delivered")
	}
	if _, ok := NextStatus(OrderCancelled); ok {
		t.Fatal("expected no status after cancelled")
	}
	if next, ok := NextStatus(OrderReady); !ok || next != OrderDelivered {
		t.Fatalf("NextStatus(ready) = %q, %t", next, ok)
	}
}

func TestOrderStatusLabel(t *testing.T) {
	t.Parallel()

	if got := OrderPending.Label(); got != "Yeni Sipariş" {
		t.Fatalf("pending label = %q", got)
	}
	if got := OrderStatus("custom").Label(); got != "custom" {
		t.Fatalf("unknown label = %q", got)
	}
}

func TestOrderItemLineTotal(t *testing.T) {
	t.Parallel()

	item := OrderItem{Price: decimal.NewFromInt(4), Quantity: 3}
	if got := item.LineTotal(); !got.Equal(decimal.NewFromInt(12)) {
		t.Fatalf("LineTotal = %s, want 12", got)
	}
}
