package checkout

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"keyiflimasa/internal/db"
	"keyiflimasa/internal/events"
	"keyiflimasa/internal/pricing"
	"keyiflimasa/internal/store"
	"keyiflimasa/models"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, event events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return p.err
}

func (p *recordingPublisher) Close() error { return nil }

type fixture struct {
	store    *store.Store
	shop     *models.Profile
	domates  *models.Ingredient
	soup     *models.Recipe
	service  *Service
	events   *recordingPublisher
	sequence int
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()

	dsn := fmt.Sprintf("file:checkout-test-%d?mode=memory&cache=shared", time.Now().UnixNano())
	database, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:                                   logger.Default.LogMode(logger.Silent),
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := database.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	if err := db.AutoMigrate(database); err != nil {
		t.Fatalf("automigrate: %v", err)
	}

	f := &fixture{store: store.New(database), events: &recordingPublisher{}}
	f.shop = &models.Profile{Email: "chef@example.com", PasswordHash: "x", ShopName: "Domates Evi"}
	if err := f.store.CreateProfile(ctx, f.shop); err != nil {
		t.Fatalf("create profile: %v", err)
	}
	f.domates, err = f.store.CreateIngredient(ctx, f.shop.ID, store.IngredientInput{
		Name: "Domates", PricePerUnit: decimal.NewFromInt(10),
	})
	if err != nil {
		t.Fatalf("create ingredient: %v", err)
	}
	f.soup, err = f.store.CreateRecipe(ctx, f.shop.ID, store.RecipeInput{
		Name:     "Domates Çorbası",
		Portions: 4,
		Margin:   decimal.RequireFromString("2.5"),
		IsActive: true,
		Lines:    []store.RecipeLine{{IngredientID: f.domates.ID, Amount: decimal.RequireFromString("0.5")}},
	})
	if err != nil {
		t.Fatalf("create recipe: %v", err)
	}

	clock := time.Date(2025, 3, 1, 9, 30, 0, 0, time.UTC)
	f.service = New(f.store, f.events,
		WithClock(func() time.Time { return clock }),
		WithOrderNumbers(func(at time.Time) string {
			f.sequence++
			return fmt.Sprintf("SIP-%s-%04d", at.Format("20060102"), f.sequence)
		}),
	)
	return f
}

func customer() Customer {
	return Customer{Name: " Ayşe ", Phone: "5321234567", Address: "Kadıköy"}
}

func TestPlaceOrderFreezesPortionPrices(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	cart := pricing.Cart{}.Add(f.soup.ID).Add(f.soup.ID)
	order, err := f.service.PlaceOrder(ctx, f.shop, cart, customer(), "")
	if err != nil {
		t.Fatalf("PlaceOrder() error = %v", err)
	}
	// sale 13 over 4 portions rounds up to 4 per portion
	if !order.Total.Equal(decimal.NewFromInt(8)) {
		t.Fatalf("expected total 8, got %s", order.Total)
	}
	if order.CustomerName != "Ayşe" {
		t.Fatalf("expected trimmed name, got %q", order.CustomerName)
	}
	if order.OrderNumber != "SIP-20250301-0001" {
		t.Fatalf("unexpected order number %q", order.OrderNumber)
	}
	if len(order.Items) != 1 || order.Items[0].Quantity != 2 || !order.Items[0].Price.Equal(decimal.NewFromInt(4)) {
		t.Fatalf("unexpected items %+v", order.Items)
	}
	if len(f.events.events) != 1 || f.events.events[0].Type != events.TypeOrderPlaced {
		t.Fatalf("expected one order.placed event, got %+v", f.events.events)
	}
}

func TestOrderTotalsSurviveIngredientPriceChange(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	cart := pricing.Cart{}.Add(f.soup.ID)

	first, err := f.service.PlaceOrder(ctx, f.shop, cart, customer(), "")
	if err != nil {
		t.Fatalf("first order: %v", err)
	}

	if _, err := f.store.UpdateIngredient(ctx, f.shop.ID, f.domates.ID, store.IngredientInput{
		Name: "Domates", PricePerUnit: decimal.NewFromInt(40),
	}); err != nil {
		t.Fatalf("update ingredient: %v", err)
	}

	second, err := f.service.PlaceOrder(ctx, f.shop, cart, customer(), "")
	if err != nil {
		t.Fatalf("second order: %v", err)
	}

	reloaded, err := f.store.GetOrder(ctx, f.shop.ID, first.ID)
	if err != nil {
		t.Fatalf("reload first order: %v", err)
	}
	if !reloaded.Total.Equal(decimal.NewFromInt(4)) || !reloaded.Items[0].Price.Equal(decimal.NewFromInt(4)) {
		t.Fatalf("first order changed: total %s item %s", reloaded.Total, reloaded.Items[0].Price)
	}
	// 0.5 × 40 × 2.5 = 50, 50 / 4 rounds up to 13
	if !second.Total.Equal(decimal.NewFromInt(13)) {
		t.Fatalf("expected second total 13, got %s", second.Total)
	}
}

func TestPlaceOrderValidation(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	tests := []struct {
		name     string
		cart     pricing.Cart
		customer Customer
		want     error
	}{
		{name: "empty cart", cart: pricing.Cart{}, customer: customer(), want: ErrEmptyCart},
		{name: "missing name", cart: pricing.Cart{}.Add(f.soup.ID), customer: Customer{Phone: "1"}, want: ErrMissingCustomer},
		{name: "missing phone", cart: pricing.Cart{}.Add(f.soup.ID), customer: Customer{Name: "Ali", Phone: "  "}, want: ErrMissingCustomer},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.service.PlaceOrder(ctx, f.shop, tt.cart, tt.customer, "")
			if !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestPlaceOrderRejectsUnavailableRecipe(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	hidden, err := f.store.CreateRecipe(ctx, f.shop.ID, store.RecipeInput{Name: "Gizli", IsActive: false})
	if err != nil {
		t.Fatalf("create recipe: %v", err)
	}

	_, err = f.service.PlaceOrder(ctx, f.shop, pricing.Cart{}.Add(f.soup.ID).Add(hidden.ID), customer(), "")
	var unavailable *UnavailableError
	if !errors.As(err, &unavailable) {
		t.Fatalf("expected UnavailableError, got %v", err)
	}
	if unavailable.RecipeID != hidden.ID {
		t.Fatalf("expected recipe %d, got %d", hidden.ID, unavailable.RecipeID)
	}

	orders, _ := f.store.ListOrders(ctx, f.shop.ID, store.OrderFilter{})
	if len(orders) != 0 {
		t.Fatalf("expected no orders, got %d", len(orders))
	}
}

func TestPlaceOrderIsIdempotent(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	cart := pricing.Cart{}.Add(f.soup.ID)

	first, err := f.service.PlaceOrder(ctx, f.shop, cart, customer(), "key-1")
	if err != nil {
		t.Fatalf("first submit: %v", err)
	}
	second, err := f.service.PlaceOrder(ctx, f.shop, cart.Add(f.soup.ID), customer(), "key-1")
	if err != nil {
		t.Fatalf("second submit: %v", err)
	}
	if first.ID != second.ID {
		t.Fatalf("expected same order, got %d and %d", first.ID, second.ID)
	}

	orders, _ := f.store.ListOrders(ctx, f.shop.ID, store.OrderFilter{})
	if len(orders) != 1 {
		t.Fatalf("expected a single order, got %d", len(orders))
	}
}

func TestPlaceOrderReplayAfterCartCleared(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	first, err := f.service.PlaceOrder(ctx, f.shop, pricing.Cart{}.Add(f.soup.ID), customer(), "key-2")
	if err != nil {
		t.Fatalf("first submit: %v", err)
	}
	replay, err := f.service.PlaceOrder(ctx, f.shop, pricing.Cart{}, Customer{}, "key-2")
	if err != nil {
		t.Fatalf("replay with an emptied cart: %v", err)
	}
	if replay.ID != first.ID {
		t.Fatalf("expected stored order %d, got %d", first.ID, replay.ID)
	}

	if _, err := f.service.PlaceOrder(ctx, f.shop, pricing.Cart{}, customer(), "key-3"); !errors.Is(err, ErrEmptyCart) {
		t.Fatalf("expected ErrEmptyCart for a fresh key, got %v", err)
	}
}

func TestPlaceOrderStorageFailureIsRetryable(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	database := f.store.DB()
	cart := pricing.Cart{}.Add(f.soup.ID).Add(f.soup.ID)

	if err := database.Migrator().DropTable(&models.OrderItem{}); err != nil {
		t.Fatalf("drop order items: %v", err)
	}
	if _, err := f.service.PlaceOrder(ctx, f.shop, cart, customer(), "key-4"); !errors.Is(err, ErrSubmission) {
		t.Fatalf("expected ErrSubmission, got %v", err)
	}
	orders, err := f.store.ListOrders(ctx, f.shop.ID, store.OrderFilter{})
	if err != nil {
		t.Fatalf("list orders: %v", err)
	}
	if len(orders) != 0 {
		t.Fatalf("expected the failed order to be rolled back, got %d", len(orders))
	}
	if len(f.events.events) != 0 {
		t.Fatalf("expected no event for a failed order, got %d", len(f.events.events))
	}

	if err := db.AutoMigrate(database); err != nil {
		t.Fatalf("restore schema: %v", err)
	}
	order, err := f.service.PlaceOrder(ctx, f.shop, cart, customer(), "key-4")
	if err != nil {
		t.Fatalf("resubmit: %v", err)
	}
	if !order.Total.Equal(decimal.NewFromInt(8)) || len(order.Items) != 1 {
		t.Fatalf("unexpected resubmitted order %+v", order)
	}
}

func TestPlaceOrderIgnoresPublishFailure(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.events.err = errors.New("broker down")

	if _, err := f.service.PlaceOrder(ctx, f.shop, pricing.Cart{}.Add(f.soup.ID), customer(), ""); err != nil {
		t.Fatalf("PlaceOrder() error = %v", err)
	}
}

func TestAdvancePublishesStatusChange(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	order, err := f.service.PlaceOrder(ctx, f.shop, pricing.Cart{}.Add(f.soup.ID), customer(), "")
	if err != nil {
		t.Fatalf("PlaceOrder() error = %v", err)
	}
	advanced, err := f.service.Advance(ctx, f.shop.ID, order.ID)
	if err != nil {
		t.Fatalf("Advance() error = %v", err)
	}
	if advanced.Status != models.OrderConfirmed {
		t.Fatalf("expected confirmed, got %s", advanced.Status)
	}
	last := f.events.events[len(f.events.events)-1]
	if last.Type != events.TypeOrderStatusChanged || last.Status != models.OrderConfirmed {
		t.Fatalf("unexpected event %+v", last)
	}

	if _, err := f.service.UpdateStatus(ctx, f.shop.ID, order.ID, models.OrderDelivered); !errors.Is(err, store.ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}
}

func TestOrderNumberFormat(t *testing.T) {
	t.Parallel()

	number := OrderNumber(time.Date(2025, 3, 1, 22, 30, 0, 0, time.UTC))
	// 22:30 UTC is already the next day in Istanbul
	if len(number) != len("SIP-20250302-0000") || number[:13] != "SIP-20250302-" {
		t.Fatalf("unexpected order number %q", number)
	}
}
