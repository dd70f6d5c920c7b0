package models

import (
	"time"
)

// Customer is a registered account. Guests order with a name and phone only.
type Customer struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	Name          string    `gorm:"type:varchar(255);not null" json:"name"`
	Phone         string    `gorm:"type:varchar(30);uniqueIndex" json:"phone"`
	LoyaltyPoints int64     `gorm:"not null;default:0" json:"loyalty_points"`
	CreatedAt     time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt     time.Time `gorm:"not null" json:"updated_at"`
}
