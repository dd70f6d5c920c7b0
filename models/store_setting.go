package models

import "time"

// StoreSetting is a single-row table holding the store switches.
type StoreSetting struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	OrderEnabled    bool      `gorm:"not null" json:"order_enabled"`
	DeliveryEnabled bool      `gorm:"not null" json:"delivery_enabled"`
	UpdatedAt       time.Time `gorm:"not null" json:"updated_at"`
}
