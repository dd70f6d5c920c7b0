package cart

import (
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var ErrInvalidQuantity = errors.New("quantity must be at least 1")

// Line is one configured product in a cart.
type Line struct {
	ID        string             `json:"id"`
	Product   Product            `json:"product"`
	Quantity  int                `json:"quantity"`
	Modifiers []SelectedModifier `json:"modifiers"`
	Subtotal  decimal.Decimal    `json:"subtotal"`
	Notes     string             `json:"notes,omitempty"`
}

// BasePrice is the per-unit price a line is charged before modifiers. The
// promotional price is used on every surface; a hot deal's original price is
// only shown struck through.
func BasePrice(p Product) decimal.Decimal {
	return p.Price
}

// UnitPrice is the base price plus every selected modifier delta.
func UnitPrice(p Product, mods []SelectedModifier) decimal.Decimal {
	unit := BasePrice(p)
	for _, m := range mods {
		unit = unit.Add(m.PriceDelta.Mul(decimal.NewFromInt(m.units())))
	}
	return unit
}

// Subtotal computes (base + sum of deltas) * qty.
func Subtotal(p Product, mods []SelectedModifier, qty int) decimal.Decimal {
	return UnitPrice(p, mods).Mul(decimal.NewFromInt(int64(qty)))
}

// NewLine prices a configured product. The modifier slice is copied so later
// edits to the caller's selection cannot reach the line.
func NewLine(p Product, qty int, mods []SelectedModifier) (Line, error) {
	if qty < 1 {
		return Line{}, ErrInvalidQuantity
	}
	snapshot := append([]SelectedModifier(nil), mods...)
	return Line{
		ID:        uuid.NewString(),
		Product:   p,
		Quantity:  qty,
		Modifiers: snapshot,
		Subtotal:  Subtotal(p, snapshot, qty),
	}, nil
}

// WithQuantity returns the line at a new quantity, re-derived from the
// captured snapshot.
func (l Line) WithQuantity(qty int) Line {
	l.Quantity = qty
	l.Subtotal = Subtotal(l.Product, l.Modifiers, qty)
	return l
}

// Reprice recomputes the subtotal from the snapshot. Used after loading a
// persisted cart so a tampered or stale subtotal never reaches the total.
func (l Line) Reprice() Line {
	return l.WithQuantity(l.Quantity)
}
