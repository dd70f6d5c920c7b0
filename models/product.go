package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Product struct {
	ID            uint            `gorm:"primaryKey" json:"id"`
	CategoryID    *uint           `gorm:"index" json:"category_id,omitempty"`
	Category      *Category       `gorm:"foreignKey:CategoryID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL" json:"category,omitempty"`
	Name          string          `gorm:"type:varchar(255);not null" json:"name"`
	Description   string          `gorm:"type:text" json:"description"`
	Price         decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"price"`
	IsHotDeal     bool            `gorm:"not null;default:false" json:"is_hot_deal"`
	OriginalPrice decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"original_price"`
	IsActive      bool            `gorm:"not null" json:"is_active"`
	ImageURL      string          `gorm:"type:varchar(255)" json:"image_url"`
	CreatedAt     time.Time       `gorm:"not null" json:"created_at"`
	UpdatedAt     time.Time       `gorm:"not null" json:"updated_at"`

	ModifierGroups []ProductModifierGroup `gorm:"foreignKey:ProductID" json:"-"`
}
