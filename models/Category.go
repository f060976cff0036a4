package models

import "gorm.io/gorm"

type Category struct {
	gorm.Model
	ProfileID uint   `gorm:"not null;index" json:"profile_id"`
	Name      string `gorm:"not null" json:"name"`
	SortOrder int    `gorm:"not null;default:0" json:"sort_order"`
	IsActive  bool   `gorm:"not null" json:"is_active"`
}
