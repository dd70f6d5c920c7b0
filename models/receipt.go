package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Receipt is the shape handed to the receipt renderer. It is built from an
// order and never stored.
type Receipt struct {
	OrderNo       string          `json:"order_no"`
	CreatedAt     time.Time       `json:"created_at"`
	CustomerName  string          `json:"customer_name"`
	Type          string          `json:"type"`
	PaymentMethod string          `json:"payment_method"`
	Notes         string          `json:"notes"`
	GrandTotal    decimal.Decimal `json:"grand_total"`
	Items         []ReceiptItem   `json:"items"`
}

type ReceiptItem struct {
	ProductNameSnapshot string            `json:"product_name_snapshot"`
	Qty                 int               `json:"qty"`
	PriceSnapshot       decimal.Decimal   `json:"price_snapshot"`
	Modifiers           []ReceiptModifier `json:"modifiers"`
}

type ReceiptModifier struct {
	ModifierNameSnapshot string          `json:"modifier_name_snapshot"`
	PriceDeltaSnapshot   decimal.Decimal `json:"price_delta_snapshot"`
	Qty                  int             `json:"qty"`
}

// NewReceipt builds a receipt from an order with its items preloaded. Items
// and modifiers are always non-nil slices.
func NewReceipt(o Order) Receipt {
	r := Receipt{
		OrderNo:       o.OrderNo,
		CreatedAt:     o.CreatedAt,
		CustomerName:  o.CustomerName,
		Type:          o.Type,
		PaymentMethod: o.PaymentMethod,
		Notes:         o.Notes,
		GrandTotal:    o.GrandTotal,
		Items:         make([]ReceiptItem, 0, len(o.Items)),
	}
	for _, it := range o.Items {
		item := ReceiptItem{
			ProductNameSnapshot: it.ProductNameSnapshot,
			Qty:                 it.Qty,
			PriceSnapshot:       it.PriceSnapshot,
			Modifiers:           make([]ReceiptModifier, 0, len(it.Modifiers)),
		}
		for _, m := range it.Modifiers {
			item.Modifiers = append(item.Modifiers, ReceiptModifier{
				ModifierNameSnapshot: m.ModifierNameSnapshot,
				PriceDeltaSnapshot:   m.PriceDeltaSnapshot,
				Qty:                  m.Qty,
			})
		}
		r.Items = append(r.Items, item)
	}
	return r
}
