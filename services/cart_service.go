package services

import (
	"context"
	"fmt"
	"hash/fnv"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
	"github.com/yeremiapane/restaurant-pos/cart"
	"github.com/yeremiapane/restaurant-pos/utils"
)

// ModifierInput picks one modifier. GroupID may be left out; the group is
// then looked up from the modifier.
type ModifierInput struct {
	GroupID    uint `json:"group_id"`
	ModifierID uint `json:"modifier_id" binding:"required"`
	Qty        int  `json:"qty"`
}

// LineInput describes one product configuration as sent by a client.
type LineInput struct {
	ProductID uint            `json:"product_id" binding:"required"`
	Qty       int             `json:"qty"`
	Notes     string          `json:"notes"`
	Modifiers []ModifierInput `json:"modifiers"`
}

// CartView is what the cart endpoints return.
type CartView struct {
	SessionKey string      `json:"session_key"`
	Lines      []cart.Line `json:"lines"`
	Totals     cart.Totals `json:"totals"`
	Recovered  bool        `json:"recovered,omitempty"`
}

func NewCartView(l *cart.Ledger) CartView {
	lines := l.Lines()
	if lines == nil {
		lines = []cart.Line{}
	}
	return CartView{SessionKey: l.Key(), Lines: lines, Totals: l.Totals(), Recovered: l.Recovered()}
}

const cartLockStripes = 64

// CartService runs cart edits against a store. Edits to the same key are
// serialized so concurrent requests cannot lose each other's lines. Keys
// share a fixed pool of mutexes, so abandoned sessions cost nothing.
type CartService struct {
	catalog   *CatalogService
	store     cart.Store
	discounts DiscountValidator
	locks     [cartLockStripes]sync.Mutex
}

func NewCartService(catalog *CatalogService, store cart.Store, discounts DiscountValidator) *CartService {
	return &CartService{catalog: catalog, store: store, discounts: discounts}
}

func (s *CartService) lock(key string) func() {
	mu := s.lockFor(key)
	mu.Lock()
	return mu.Unlock
}

func (s *CartService) lockFor(key string) *sync.Mutex {
	h := fnv.New32a()
	_, _ = h.Write([]byte(key))
	return &s.locks[h.Sum32()%cartLockStripes]
}

// Open loads the cart for key. A corrupt stored cart comes back empty.
func (s *CartService) Open(ctx context.Context, key string) (*cart.Ledger, error) {
	l, err := cart.Open(ctx, s.store, key)
	if err != nil {
		return nil, err
	}
	if l.Recovered() {
		utils.InfoLogger.WithFields(logrus.Fields{"cart": key}).Warn("stored cart was unreadable, starting empty")
	}
	return l, nil
}

// AddItem validates the configuration against the live catalog and appends
// it as a new line.
func (s *CartService) AddItem(ctx context.Context, key string, surface cart.Surface, in LineInput) (*cart.Ledger, cart.Line, error) {
	flags, err := s.catalog.StoreFlags(ctx)
	if err != nil {
		return nil, cart.Line{}, err
	}
	if !flags.OrderEnabled {
		return nil, cart.Line{}, ErrOrderingDisabled
	}

	line, err := BuildLine(ctx, s.catalog, surface, in)
	if err != nil {
		return nil, cart.Line{}, err
	}

	defer s.lock(key)()
	l, err := s.Open(ctx, key)
	if err != nil {
		return nil, cart.Line{}, err
	}
	added, err := l.Add(ctx, line)
	if err != nil {
		return l, cart.Line{}, err
	}
	return l, added, nil
}

func (s *CartService) UpdateQuantity(ctx context.Context, key, lineID string, qty int) (*cart.Ledger, error) {
	defer s.lock(key)()
	l, err := s.Open(ctx, key)
	if err != nil {
		return nil, err
	}
	if _, ok := l.Line(lineID); !ok {
		return l, ErrLineNotFound
	}
	return l, l.UpdateQuantity(ctx, lineID, qty)
}

func (s *CartService) RemoveItem(ctx context.Context, key, lineID string) (*cart.Ledger, error) {
	defer s.lock(key)()
	l, err := s.Open(ctx, key)
	if err != nil {
		return nil, err
	}
	return l, l.Remove(ctx, lineID)
}

func (s *CartService) Clear(ctx context.Context, key string) error {
	defer s.lock(key)()
	l, err := s.Open(ctx, key)
	if err != nil {
		return err
	}
	return l.Clear(ctx)
}

// ApplyDiscount validates code against the current subtotal. The cart is
// left as it was when validation fails for any reason.
func (s *CartService) ApplyDiscount(ctx context.Context, key, code string) (*cart.Ledger, error) {
	defer s.lock(key)()
	l, err := s.Open(ctx, key)
	if err != nil {
		return nil, err
	}
	if l.Len() == 0 {
		return l, ErrEmptyCart
	}
	if s.discounts == nil {
		return l, ErrDiscountUnavailable
	}
	d, err := s.discounts.Validate(ctx, code, l.Total())
	if err != nil {
		return l, err
	}
	return l, l.ApplyDiscount(ctx, d)
}

func (s *CartService) RemoveDiscount(ctx context.Context, key string) (*cart.Ledger, error) {
	defer s.lock(key)()
	l, err := s.Open(ctx, key)
	if err != nil {
		return nil, err
	}
	return l, l.RemoveDiscount(ctx)
}

// BuildLine replays a client configuration through the selection rules of
// surface and prices it. Inactive products, unknown or inactive modifiers and
// selections the group rules refuse are all errors.
func BuildLine(ctx context.Context, catalog *CatalogService, surface cart.Surface, in LineInput) (cart.Line, error) {
	pc, err := catalog.ProductConfig(ctx, in.ProductID)
	if err != nil {
		return cart.Line{}, err
	}
	if !pc.Product.Active {
		return cart.Line{}, fmt.Errorf("%w: %s", ErrProductUnavailable, pc.Product.Name)
	}

	sel := cart.NewSelection(pc.Groups)
	for _, m := range in.Modifiers {
		groupID := m.GroupID
		if groupID == 0 {
			groupID = groupOf(pc.Groups, m.ModifierID)
		}
		// a submitted configuration is final, so a second pick in a single
		// group is a client error rather than a replacement
		if g, ok := findGroup(pc.Groups, groupID); ok && g.IsSingle() && sel.Count(groupID) > 0 && !picked(sel, groupID, m.ModifierID) {
			return cart.Line{}, fmt.Errorf("%w: %s allows one option", ErrInvalidSelection, g.Name)
		}
		if !sel.Select(groupID, m.ModifierID) {
			return cart.Line{}, fmt.Errorf("%w: modifier %d cannot be chosen for %s", ErrInvalidSelection, m.ModifierID, pc.Product.Name)
		}
		if surface == cart.SurfacePOS && m.Qty > 1 {
			sel.SetUnits(groupID, m.ModifierID, m.Qty)
		}
	}
	if unmet := sel.Unmet(surface); len(unmet) > 0 {
		names := make([]string, 0, len(unmet))
		for _, g := range unmet {
			names = append(names, g.Name)
		}
		return cart.Line{}, fmt.Errorf("%w: %s", ErrRequiredModifier, strings.Join(names, ", "))
	}

	qty := in.Qty
	if qty == 0 {
		qty = 1
	}
	line, err := cart.NewLine(pc.Product, qty, sel.Resolve())
	if err != nil {
		return cart.Line{}, fmt.Errorf("%w: %v", ErrInvalidSelection, err)
	}
	line.Notes = strings.TrimSpace(in.Notes)
	return line, nil
}

func findGroup(groups []cart.ModifierGroup, id uint) (cart.ModifierGroup, bool) {
	for _, g := range groups {
		if g.ID == id {
			return g, true
		}
	}
	return cart.ModifierGroup{}, false
}

func picked(sel *cart.Selection, groupID, modifierID uint) bool {
	for _, id := range sel.Picked(groupID) {
		if id == modifierID {
			return true
		}
	}
	return false
}

func groupOf(groups []cart.ModifierGroup, modifierID uint) uint {
	for _, g := range groups {
		for _, m := range g.Modifiers {
			if m.ID == modifierID {
				return g.ID
			}
		}
	}
	return 0
}
