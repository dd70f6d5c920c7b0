package cart

import (
	"encoding/json"
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

// Selection types for a modifier group
const (
	SelectionSingle   = "single"
	SelectionMultiple = "multiple"
)

// Surface identifies which screen is composing the cart. The customer app and
// the POS terminal disagree on how strictly a required group is enforced.
type Surface int

const (
	SurfaceCustomer Surface = iota
	SurfacePOS
)

func (s Surface) String() string {
	if s == SurfacePOS {
		return "pos"
	}
	return "customer"
}

// Product is the snapshot copied into a line when it is created.
type Product struct {
	ID            uint            `json:"id"`
	Name          string          `json:"name"`
	Price         decimal.Decimal `json:"price"`
	OriginalPrice decimal.Decimal `json:"original_price"`
	HotDeal       bool            `json:"hot_deal"`
	Active        bool            `json:"active"`
	CategoryID    *uint           `json:"category_id,omitempty"`
}

type ModifierGroup struct {
	ID            uint       `json:"id"`
	Name          string     `json:"name"`
	SelectionType string     `json:"selection_type"`
	IsRequired    bool       `json:"is_required"`
	MinSelect     int        `json:"min_select"`
	MaxSelect     int        `json:"max_select"`
	Modifiers     []Modifier `json:"modifiers"`
}

func (g ModifierGroup) IsSingle() bool {
	return g.SelectionType != SelectionMultiple
}

func (g ModifierGroup) modifier(id uint) (Modifier, bool) {
	for _, m := range g.Modifiers {
		if m.ID == id {
			return m, true
		}
	}
	return Modifier{}, false
}

type Modifier struct {
	ID         uint            `json:"id"`
	GroupID    uint            `json:"group_id"`
	Name       string          `json:"name"`
	PriceDelta decimal.Decimal `json:"price_delta"`
	Active     bool            `json:"active"`
	Position   int             `json:"position"`
}

// SelectedModifier is captured at selection time and never re-read from the catalog.
type SelectedModifier struct {
	ID         uint            `json:"id"`
	GroupID    uint            `json:"group_id"`
	Name       string          `json:"name"`
	PriceDelta decimal.Decimal `json:"price_delta"`
	Qty        int             `json:"qty"`
}

func (m SelectedModifier) units() int64 {
	if m.Qty < 1 {
		return 1
	}
	return int64(m.Qty)
}

// Amount turns a loosely typed price field into a decimal. Missing, non-numeric
// and non-finite inputs resolve to zero.
func Amount(v any) decimal.Decimal {
	switch x := v.(type) {
	case nil:
		return decimal.Zero
	case decimal.Decimal:
		return x
	case *decimal.Decimal:
		if x == nil {
			return decimal.Zero
		}
		return *x
	case float64:
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return decimal.Zero
		}
		return decimal.NewFromFloat(x)
	case float32:
		return Amount(float64(x))
	case int:
		return decimal.NewFromInt(int64(x))
	case int64:
		return decimal.NewFromInt(x)
	case uint:
		return decimal.NewFromInt(int64(x))
	case json.Number:
		return Amount(x.String())
	case string:
		d, err := decimal.NewFromString(strings.TrimSpace(x))
		if err != nil {
			return decimal.Zero
		}
		return d
	default:
		return decimal.Zero
	}
}
