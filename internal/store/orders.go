package store

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"keyiflimasa/models"
)

// OrderFilter narrows ListOrders. Zero values mean no restriction.
type OrderFilter struct {
	Status    models.OrderStatus
	From      time.Time
	To        time.Time
	Limit     int
	WithItems bool
}

// CreateOrder writes the order and its items atomically.
func (s *Store) CreateOrder(ctx context.Context, order *models.Order) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if order.Status == "" {
			order.Status = models.OrderPending
		}
		return tx.Create(order).Error
	})
}

// OrderByIdempotencyKey returns the order previously written for key, or
// gorm.ErrRecordNotFound.
func (s *Store) OrderByIdempotencyKey(ctx context.Context, profileID uint, key string) (*models.Order, error) {
	order := &models.Order{}
	err := s.db.WithContext(ctx).
		Preload("Items").
		Where("profile_id = ? AND idempotency_key = ?", profileID, key).
		First(order).Error
	if err != nil {
		return nil, err
	}
	return order, nil
}

// ListOrders returns the shop's orders, newest first.
func (s *Store) ListOrders(ctx context.Context, profileID uint, filter OrderFilter) ([]models.Order, error) {
	query := s.db.WithContext(ctx).Where("profile_id = ?", profileID)
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if !filter.From.IsZero() {
		query = query.Where("created_at >= ?", filter.From)
	}
	if !filter.To.IsZero() {
		query = query.Where("created_at < ?", filter.To)
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	if filter.WithItems {
		query = query.Preload("Items")
	}

	var orders []models.Order
	err := query.Order("created_at desc, id desc").Find(&orders).Error
	return orders, err
}

func (s *Store) GetOrder(ctx context.Context, profileID, id uint) (*models.Order, error) {
	order := &models.Order{}
	err := s.db.WithContext(ctx).
		Preload("Items").
		Where("profile_id = ?", profileID).
		First(order, id).Error
	if err != nil {
		return nil, err
	}
	return order, nil
}

// UpdateOrderStatus moves an order to status when the workflow allows it.
func (s *Store) UpdateOrderStatus(ctx context.Context, profileID, id uint, status models.OrderStatus) (*models.Order, error) {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		order := &models.Order{}
		if err := tx.Where("profile_id = ?", profileID).First(order, id).Error; err != nil {
			return err
		}
		if !models.CanTransition(order.Status, status) {
			return ErrInvalidTransition
		}
		return tx.Model(order).Update("status", status).Error
	})
	if err != nil {
		return nil, err
	}
	return s.GetOrder(ctx, profileID, id)
}

// AdvanceOrder moves an order one step along the workflow.
func (s *Store) AdvanceOrder(ctx context.Context, profileID, id uint) (*models.Order, error) {
	order, err := s.GetOrder(ctx, profileID, id)
	if err != nil {
		return nil, err
	}
	next, ok := models.NextStatus(order.Status)
	if !ok {
		return nil, ErrInvalidTransition
	}
	return s.UpdateOrderStatus(ctx, profileID, id, next)
}

func (s *Store) DeleteOrder(ctx context.Context, profileID, id uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Where("profile_id = ?", profileID).Delete(&models.Order{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return tx.Where("order_id = ?", id).Delete(&models.OrderItem{}).Error
	})
}

// IsNotFound reports whether err means the row does not exist for this shop.
func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
