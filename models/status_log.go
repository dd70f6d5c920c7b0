package models

import "time"

// StatusLog records every accepted status change of an order.
type StatusLog struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	OrderID    uint      `gorm:"not null;index" json:"order_id"`
	FromStatus string    `gorm:"type:varchar(20);not null" json:"from_status"`
	ToStatus   string    `gorm:"type:varchar(20);not null" json:"to_status"`
	ChangedBy  *uint     `json:"changed_by,omitempty"`
	Role       string    `gorm:"type:varchar(20);not null" json:"role"`
	ChangedAt  time.Time `gorm:"not null" json:"changed_at"`
}
