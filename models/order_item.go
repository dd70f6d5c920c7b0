package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderItem is an immutable snapshot of what was ordered.
type OrderItem struct {
	ID                  uint                `gorm:"primaryKey" json:"id"`
	OrderID             uint                `gorm:"not null;index" json:"order_id"`
	ProductID           uint                `gorm:"not null" json:"product_id"`
	ProductNameSnapshot string              `gorm:"type:varchar(255);not null" json:"product_name_snapshot"`
	PriceSnapshot       decimal.Decimal     `gorm:"type:decimal(12,2);not null" json:"price_snapshot"`
	Qty                 int                 `gorm:"not null" json:"qty"`
	Subtotal            decimal.Decimal     `gorm:"type:decimal(12,2);not null" json:"subtotal"`
	Notes               string              `gorm:"type:text" json:"notes"`
	Position            int                 `gorm:"not null;default:0" json:"position"`
	Modifiers           []OrderItemModifier `gorm:"foreignKey:OrderItemID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"modifiers"`
	CreatedAt           time.Time           `gorm:"not null" json:"created_at"`
}

type OrderItemModifier struct {
	ID                   uint            `gorm:"primaryKey" json:"id"`
	OrderItemID          uint            `gorm:"not null;index" json:"order_item_id"`
	ModifierID           uint            `gorm:"not null" json:"modifier_id"`
	GroupID              uint            `gorm:"not null" json:"group_id"`
	ModifierNameSnapshot string          `gorm:"type:varchar(100);not null" json:"modifier_name_snapshot"`
	PriceDeltaSnapshot   decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"price_delta_snapshot"`
	Qty                  int             `gorm:"not null;default:1" json:"qty"`
	Position             int             `gorm:"not null;default:0" json:"position"`
}
