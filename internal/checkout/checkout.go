// Package checkout turns a customer's cart into a persisted order whose
// prices are frozen at submission time.
package checkout

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"keyiflimasa/internal/events"
	"keyiflimasa/internal/format"
	applog "keyiflimasa/internal/log"
	"keyiflimasa/internal/pricing"
	"keyiflimasa/internal/store"
	"keyiflimasa/models"
)

var (
	ErrEmptyCart       = errors.New("checkout: cart is empty")
	ErrMissingCustomer = errors.New("checkout: customer name and phone are required")
	// ErrSubmission means the order could not be stored. The customer may
	// retry with the same cart.
	ErrSubmission = errors.New("checkout: order could not be submitted")
)

// UnavailableError reports a cart line whose recipe is no longer on the menu.
type UnavailableError struct {
	RecipeID uint
}

func (e *UnavailableError) Error() string {
	return fmt.Sprintf("checkout: recipe %d is not available", e.RecipeID)
}

// Customer is the contact information entered at checkout.
type Customer struct {
	Name         string
	Phone        string
	Address      string
	Note         string
	DeliveryDate string
	DeliveryTime string
}

func (c Customer) normalized() Customer {
	c.Name = strings.TrimSpace(c.Name)
	c.Phone = strings.TrimSpace(c.Phone)
	c.Address = strings.TrimSpace(c.Address)
	c.Note = strings.TrimSpace(c.Note)
	c.DeliveryDate = strings.TrimSpace(c.DeliveryDate)
	c.DeliveryTime = strings.TrimSpace(c.DeliveryTime)
	return c
}

// Service places orders for any shop.
type Service struct {
	store     *store.Store
	publisher events.Publisher
	now       func() time.Time
	number    func(time.Time) string
}

type Option func(*Service)

// WithClock overrides the time source used for order numbers and events.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithOrderNumbers overrides the order number generator.
func WithOrderNumbers(fn func(time.Time) string) Option {
	return func(s *Service) { s.number = fn }
}

func New(st *store.Store, publisher events.Publisher, opts ...Option) *Service {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	s := &Service{
		store:     st,
		publisher: publisher,
		now:       time.Now,
		number:    OrderNumber,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// OrderNumber returns a human friendly reference such as SIP-20250301-4821,
// dated in shop local time.
func OrderNumber(at time.Time) string {
	return fmt.Sprintf("SIP-%s-%04d", at.In(format.Location()).Format("20060102"), rand.Intn(9000)+1000)
}

// PriceCart resolves cart lines against the menu at the current portion
// prices. Lines whose recipe is missing from the menu yield UnavailableError.
func PriceCart(menu store.Menu, cart pricing.Cart) ([]pricing.PricedLine, error) {
	lines := make([]pricing.PricedLine, 0, len(cart.Lines))
	for _, line := range cart.Lines {
		recipe := menu.FindRecipe(line.RecipeID)
		if recipe == nil {
			return nil, &UnavailableError{RecipeID: line.RecipeID}
		}
		lines = append(lines, pricing.PricedLine{
			RecipeID:  recipe.ID,
			Name:      recipe.Name,
			UnitPrice: pricing.PortionPrice(recipe.SalePrice, recipe.Portions),
			Quantity:  line.Quantity,
		})
	}
	return lines, nil
}

// PlaceOrder validates and stores the cart as a pending order. The total is
// computed once here and never recomputed. A repeated idempotency key
// returns the order stored by the first attempt.
func (s *Service) PlaceOrder(ctx context.Context, shop *models.Profile, cart pricing.Cart, customer Customer, idempotencyKey string) (*models.Order, error) {
	ctx = applog.WithAttrs(ctx, "shop", shop.ShopSlug)
	customer = customer.normalized()

	// A replayed submission is answered before the cart is looked at: the
	// first attempt already emptied it.
	idempotencyKey = strings.TrimSpace(idempotencyKey)
	if idempotencyKey != "" {
		existing, err := s.store.OrderByIdempotencyKey(ctx, shop.ID, idempotencyKey)
		if err == nil {
			applog.Info(ctx, "duplicate checkout submission", "order", existing.OrderNumber)
			return existing, nil
		}
		if !store.IsNotFound(err) {
			applog.Error(ctx, "lookup idempotency key", "error", err)
			return nil, fmt.Errorf("%w: %v", ErrSubmission, err)
		}
	}

	if cart.Empty() {
		return nil, ErrEmptyCart
	}
	if customer.Name == "" || customer.Phone == "" {
		return nil, ErrMissingCustomer
	}

	menu, err := s.store.ActiveMenu(ctx, shop.ID)
	if err != nil {
		applog.Error(ctx, "load menu for checkout", "error", err)
		return nil, fmt.Errorf("%w: %v", ErrSubmission, err)
	}

	lines, err := PriceCart(menu, cart)
	if err != nil {
		return nil, err
	}
	total, err := pricing.CartTotal(lines)
	if err != nil {
		return nil, err
	}

	now := s.now()
	order := &models.Order{
		ProfileID:       shop.ID,
		OrderNumber:     s.number(now),
		CustomerName:    customer.Name,
		CustomerPhone:   customer.Phone,
		CustomerAddress: customer.Address,
		CustomerNote:    customer.Note,
		DeliveryDate:    customer.DeliveryDate,
		DeliveryTime:    customer.DeliveryTime,
		Total:           total,
		Status:          models.OrderPending,
		Items:           orderItems(lines),
	}
	if idempotencyKey != "" {
		order.IdempotencyKey = &idempotencyKey
	}

	if err := s.store.CreateOrder(ctx, order); err != nil {
		if idempotencyKey != "" {
			if existing, lookupErr := s.store.OrderByIdempotencyKey(ctx, shop.ID, idempotencyKey); lookupErr == nil {
				return existing, nil
			}
		}
		applog.Error(ctx, "persist order", "error", err)
		return nil, fmt.Errorf("%w: %v", ErrSubmission, err)
	}

	applog.Info(ctx, "order placed", "order", order.OrderNumber, "total", total.StringFixed(2))
	s.publish(ctx, events.TypeOrderPlaced, order)
	return order, nil
}

// UpdateStatus moves an order to status and announces the change.
func (s *Service) UpdateStatus(ctx context.Context, profileID, orderID uint, status models.OrderStatus) (*models.Order, error) {
	order, err := s.store.UpdateOrderStatus(ctx, profileID, orderID, status)
	if err != nil {
		return nil, err
	}
	s.publish(ctx, events.TypeOrderStatusChanged, order)
	return order, nil
}

// Advance moves an order one step forward and announces the change.
func (s *Service) Advance(ctx context.Context, profileID, orderID uint) (*models.Order, error) {
	order, err := s.store.AdvanceOrder(ctx, profileID, orderID)
	if err != nil {
		return nil, err
	}
	s.publish(ctx, events.TypeOrderStatusChanged, order)
	return order, nil
}

func (s *Service) publish(ctx context.Context, eventType string, order *models.Order) {
	if err := s.publisher.Publish(ctx, events.OrderEvent(eventType, order, s.now())); err != nil {
		applog.Warn(ctx, "publish order event", "type", eventType, "order", order.OrderNumber, "error", err)
	}
}

func orderItems(lines []pricing.PricedLine) []models.OrderItem {
	items := make([]models.OrderItem, 0, len(lines))
	for _, line := range lines {
		recipeID := line.RecipeID
		items = append(items, models.OrderItem{
			RecipeID:   &recipeID,
			RecipeName: line.Name,
			Quantity:   line.Quantity,
			Price:      line.UnitPrice,
		})
	}
	return items
}
