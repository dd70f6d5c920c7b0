package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type ModifierGroup struct {
	ID            uint       `gorm:"primaryKey" json:"id"`
	Name          string     `gorm:"type:varchar(100);not null" json:"name"`
	SelectionType string     `gorm:"type:varchar(10);not null;default:'single'" json:"selection_type"`
	IsRequired    bool       `gorm:"not null;default:false" json:"is_required"`
	MinSelect     int        `gorm:"not null;default:0" json:"min_select"`
	MaxSelect     int        `gorm:"not null;default:0" json:"max_select"`
	Modifiers     []Modifier `gorm:"foreignKey:GroupID" json:"modifiers"`
	CreatedAt     time.Time  `gorm:"not null" json:"created_at"`
	UpdatedAt     time.Time  `gorm:"not null" json:"updated_at"`
}

type Modifier struct {
	ID         uint            `gorm:"primaryKey" json:"id"`
	GroupID    uint            `gorm:"not null;index" json:"group_id"`
	Name       string          `gorm:"type:varchar(100);not null" json:"name"`
	PriceDelta decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"price_delta"`
	IsActive   bool            `gorm:"not null" json:"is_active"`
	Position   int             `gorm:"not null;default:0" json:"position"`
	CreatedAt  time.Time       `gorm:"not null" json:"created_at"`
	UpdatedAt  time.Time       `gorm:"not null" json:"updated_at"`
}

// ProductModifierGroup attaches a group to a product. Position sets display
// and submission order.
type ProductModifierGroup struct {
	ID        uint          `gorm:"primaryKey" json:"id"`
	ProductID uint          `gorm:"not null;uniqueIndex:idx_product_group" json:"product_id"`
	GroupID   uint          `gorm:"not null;uniqueIndex:idx_product_group" json:"group_id"`
	Group     ModifierGroup `gorm:"foreignKey:GroupID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"group"`
	Position  int           `gorm:"not null;default:0" json:"position"`
}
