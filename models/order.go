package models

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/yeremiapane/restaurant-pos/lifecycle"
)

type Order struct {
	ID              uint            `gorm:"primaryKey" json:"id"`
	OrderNo         string          `gorm:"type:varchar(40);uniqueIndex" json:"order_no"`
	Type            string          `gorm:"type:varchar(20);not null" json:"type"`
	PaymentMethod   string          `gorm:"type:varchar(10);not null" json:"payment_method"`
	Status          string          `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	CustomerID      *uint           `gorm:"index" json:"customer_id,omitempty"`
	Customer        *Customer       `gorm:"foreignKey:CustomerID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL" json:"customer,omitempty"`
	CustomerName    string          `gorm:"type:varchar(255);not null" json:"customer_name"`
	CustomerPhone   string          `gorm:"type:varchar(30)" json:"customer_phone"`
	Subtotal        decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"subtotal"`
	DiscountCode    string          `gorm:"type:varchar(50)" json:"discount_code,omitempty"`
	DiscountAmount  decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"discount_amount"`
	GrandTotal      decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"grand_total"`
	DeliveryAddress *string         `gorm:"type:text" json:"delivery_address,omitempty"`
	TableNumber     *string         `gorm:"type:varchar(20)" json:"table_number,omitempty"`
	Notes           string          `gorm:"type:text" json:"notes"`
	PointsAwarded   int64           `gorm:"not null;default:0" json:"points_awarded"`
	Items           []OrderItem     `gorm:"foreignKey:OrderID" json:"items"`
	Payment         *Payment        `gorm:"foreignKey:OrderID" json:"payment,omitempty"`
	CreatedAt       time.Time       `gorm:"not null" json:"created_at"`
	UpdatedAt       time.Time       `gorm:"not null" json:"updated_at"`
}

// FormatOrderNo builds the human order number from the creation date and id.
func FormatOrderNo(createdAt time.Time, id uint) string {
	return fmt.Sprintf("ORD/%s/%06d", createdAt.Format("20060102"), id)
}

// PaymentVerified is true once staff confirmed the payment out of band.
func (o *Order) PaymentVerified() bool {
	return o.Payment != nil && o.Payment.VerifiedAt != nil
}

// Lifecycle projects the order onto the fields the state machine reads.
func (o *Order) Lifecycle() lifecycle.Order {
	return lifecycle.Order{
		Status:          lifecycle.Normalize(o.Status),
		Type:            lifecycle.OrderType(o.Type),
		PaymentMethod:   lifecycle.PaymentMethod(o.PaymentMethod),
		PaymentVerified: o.PaymentVerified(),
	}
}

// StatusLabel is the display badge for the current status.
func (o *Order) StatusLabel() lifecycle.Label {
	return lifecycle.LabelFor(o.Status, lifecycle.OrderType(o.Type))
}
