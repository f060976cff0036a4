package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"keyiflimasa/internal/format"
	"keyiflimasa/models"
)

// ProfileUpdate carries the editable shop settings. The slug never changes
// after registration so shared shop links keep working.
type ProfileUpdate struct {
	FullName        string
	Phone           string
	ShopName        string
	ShopDescription string
	Address         string
}

// CreateProfile stores a new merchant. The shop slug is derived from the shop
// name and suffixed with -2, -3, ... until it is unique.
func (s *Store) CreateProfile(ctx context.Context, profile *models.Profile) error {
	profile.Email = strings.ToLower(strings.TrimSpace(profile.Email))
	base := format.Slug(profile.ShopName)
	if base == "" {
		return errors.New("store: shop name must contain letters or digits")
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Unscoped().Model(&models.Profile{}).Where("lower(email) = ?", profile.Email).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrEmailTaken
		}

		slug, err := uniqueSlug(tx, base)
		if err != nil {
			return err
		}
		profile.ShopSlug = slug
		profile.IsActive = true
		return tx.Create(profile).Error
	})
}

func uniqueSlug(tx *gorm.DB, base string) (string, error) {
	candidate := base
	for i := 2; ; i++ {
		var count int64
		if err := tx.Unscoped().Model(&models.Profile{}).Where("shop_slug = ?", candidate).Count(&count).Error; err != nil {
			return "", err
		}
		if count == 0 {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s-%d", base, i)
	}
}

func (s *Store) ProfileByEmail(ctx context.Context, email string) (*models.Profile, error) {
	profile := &models.Profile{}
	err := s.db.WithContext(ctx).Where("lower(email) = ?", strings.ToLower(strings.TrimSpace(email))).First(profile).Error
	if err != nil {
		return nil, err
	}
	return profile, nil
}

func (s *Store) ProfileByID(ctx context.Context, id uint) (*models.Profile, error) {
	profile := &models.Profile{}
	if err := s.db.WithContext(ctx).First(profile, id).Error; err != nil {
		return nil, err
	}
	return profile, nil
}

// ProfileBySlug finds an active shop by its public slug.
func (s *Store) ProfileBySlug(ctx context.Context, slug string) (*models.Profile, error) {
	profile := &models.Profile{}
	err := s.db.WithContext(ctx).
		Where("shop_slug = ? AND is_active = ?", strings.ToLower(strings.TrimSpace(slug)), true).
		First(profile).Error
	if err != nil {
		return nil, err
	}
	return profile, nil
}

func (s *Store) UpdateProfile(ctx context.Context, id uint, update ProfileUpdate) (*models.Profile, error) {
	profile, err := s.ProfileByID(ctx, id)
	if err != nil {
		return nil, err
	}

	updates := map[string]any{
		"full_name":        strings.TrimSpace(update.FullName),
		"phone":            strings.TrimSpace(update.Phone),
		"shop_name":        strings.TrimSpace(update.ShopName),
		"shop_description": strings.TrimSpace(update.ShopDescription),
		"address":          strings.TrimSpace(update.Address),
	}
	if err := s.db.WithContext(ctx).Model(profile).Updates(updates).Error; err != nil {
		return nil, err
	}
	return s.ProfileByID(ctx, id)
}

func (s *Store) SetShopImage(ctx context.Context, id uint, url string) error {
	return s.db.WithContext(ctx).Model(&models.Profile{}).Where("id = ?", id).Update("shop_image_url", url).Error
}
