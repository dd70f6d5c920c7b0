package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Snapshot is the persisted form of a ledger.
type Snapshot struct {
	Lines    []Line    `json:"lines"`
	Discount *Discount `json:"discount,omitempty"`
}

// Ledger is an ordered list of priced lines bound to one store key. Every
// mutation is written back to the store before it returns; if the write
// fails the in-memory state is rolled back.
type Ledger struct {
	key      string
	store    Store
	lines    []Line
	discount *Discount

	// set when the persisted value could not be decoded and was dropped
	recovered bool
}

// Open rehydrates the ledger saved under key. A missing or unreadable value
// gives an empty cart; only a failing store read is returned as an error.
func Open(ctx context.Context, store Store, key string) (*Ledger, error) {
	l := &Ledger{key: key, store: store}
	raw, err := store.Load(ctx, key)
	if errors.Is(err, ErrNotFound) {
		return l, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load cart %s: %w", key, err)
	}

	var snap Snapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		l.recovered = true
		return l, nil
	}
	for _, line := range snap.Lines {
		if line.ID == "" || line.Quantity < 1 {
			l.recovered = true
			continue
		}
		l.lines = append(l.lines, line.Reprice())
	}
	l.discount = snap.Discount
	return l, nil
}

func (l *Ledger) Key() string { return l.key }

// Recovered reports whether a corrupt persisted value was discarded on Open.
func (l *Ledger) Recovered() bool { return l.recovered }

func (l *Ledger) Len() int { return len(l.lines) }

func (l *Ledger) Lines() []Line {
	return append([]Line(nil), l.lines...)
}

func (l *Ledger) Line(id string) (Line, bool) {
	for _, line := range l.lines {
		if line.ID == id {
			return line, true
		}
	}
	return Line{}, false
}

// Total is the sum of line subtotals, recomputed on every call.
func (l *Ledger) Total() decimal.Decimal {
	total := decimal.Zero
	for _, line := range l.lines {
		total = total.Add(line.Subtotal)
	}
	return total
}

func (l *Ledger) Discount() *Discount {
	if l.discount == nil {
		return nil
	}
	d := *l.discount
	return &d
}

func (l *Ledger) Totals() Totals {
	return ApplyDiscount(l.Total(), l.discount)
}

func (l *Ledger) Snapshot() Snapshot {
	return Snapshot{Lines: l.Lines(), Discount: l.Discount()}
}

// Add appends line under a fresh id. Identical configurations are never
// merged. Any applied discount is dropped since it was validated against the
// old contents.
func (l *Ledger) Add(ctx context.Context, line Line) (Line, error) {
	line.ID = uuid.NewString()
	line = line.Reprice()
	err := l.mutate(ctx, func() {
		l.lines = append(l.lines, line)
		l.discount = nil
	})
	if err != nil {
		return Line{}, err
	}
	return line, nil
}

// Remove deletes a line. Unknown ids are a no-op.
func (l *Ledger) Remove(ctx context.Context, id string) error {
	idx := l.index(id)
	if idx < 0 {
		return nil
	}
	return l.mutate(ctx, func() {
		l.lines = append(l.lines[:idx:idx], l.lines[idx+1:]...)
		l.discount = nil
	})
}

// UpdateQuantity sets a line's quantity and re-derives its subtotal. A
// quantity of zero or less removes the line.
func (l *Ledger) UpdateQuantity(ctx context.Context, id string, qty int) error {
	if qty <= 0 {
		return l.Remove(ctx, id)
	}
	idx := l.index(id)
	if idx < 0 {
		return nil
	}
	return l.mutate(ctx, func() {
		lines := l.Lines()
		lines[idx] = lines[idx].WithQuantity(qty)
		l.lines = lines
		l.discount = nil
	})
}

// Refresh swaps in lines re-priced from the live catalog. Ids are kept so
// clients can still address them; the discount is dropped like on any edit.
func (l *Ledger) Refresh(ctx context.Context, lines []Line) error {
	fresh := make([]Line, 0, len(lines))
	for _, line := range lines {
		fresh = append(fresh, line.Reprice())
	}
	return l.mutate(ctx, func() {
		l.lines = fresh
		l.discount = nil
	})
}

func (l *Ledger) ApplyDiscount(ctx context.Context, d Discount) error {
	return l.mutate(ctx, func() {
		l.discount = &d
	})
}

func (l *Ledger) RemoveDiscount(ctx context.Context) error {
	if l.discount == nil {
		return nil
	}
	return l.mutate(ctx, func() {
		l.discount = nil
	})
}

// Clear empties the cart and deletes its persisted value. Callers only do this
// after an order was accepted or on an explicit reset.
func (l *Ledger) Clear(ctx context.Context) error {
	if err := l.store.Delete(ctx, l.key); err != nil {
		return fmt.Errorf("clear cart %s: %w", l.key, err)
	}
	l.lines = nil
	l.discount = nil
	return nil
}

func (l *Ledger) index(id string) int {
	for i, line := range l.lines {
		if line.ID == id {
			return i
		}
	}
	return -1
}

func (l *Ledger) mutate(ctx context.Context, fn func()) error {
	prevLines, prevDiscount := l.lines, l.discount
	fn()
	raw, err := json.Marshal(l.Snapshot())
	if err == nil {
		err = l.store.Save(ctx, l.key, raw)
	}
	if err != nil {
		l.lines, l.discount = prevLines, prevDiscount
		return fmt.Errorf("save cart %s: %w", l.key, err)
	}
	return nil
}
