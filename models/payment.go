package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Payment records the method chosen at checkout. QRIS payments stay
// unverified until staff confirm them.
type Payment struct {
	ID            uint            `json:"id" gorm:"primaryKey"`
	OrderID       uint            `json:"order_id" gorm:"not null;uniqueIndex"`
	Amount        decimal.Decimal `json:"amount" gorm:"type:decimal(12,2);not null"`
	PaymentMethod string          `json:"payment_method" gorm:"type:varchar(10);not null"`
	Status        string          `json:"status" gorm:"type:varchar(20);not null;default:'pending'"`
	ReferenceID   string          `json:"reference_id" gorm:"type:varchar(64)"`
	VerifiedAt    *time.Time      `json:"verified_at"`
	VerifiedBy    *uint           `json:"verified_by"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// Payment statuses
const (
	PaymentStatusPending  = "pending"
	PaymentStatusVerified = "verified"
)
