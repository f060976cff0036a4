package models

import "gorm.io/gorm"

// Profile is a merchant account together with its storefront configuration.
type Profile struct {
	gorm.Model
	Email           string `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash    string `gorm:"not null" json:"-"`
	FullName        string `json:"full_name"`
	Phone           string `json:"phone"`
	ShopName        string `gorm:"not null" json:"shop_name"`
	ShopSlug        string `gorm:"uniqueIndex;not null" json:"shop_slug"`
	ShopDescription string `gorm:"type:text" json:"shop_description"`
	ShopImageURL    string `json:"shop_image_url"`
	Address         string `gorm:"type:text" json:"address"`
	IsActive        bool   `gorm:"not null" json:"is_active"`
}
