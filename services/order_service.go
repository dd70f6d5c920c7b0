package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/yeremiapane/restaurant-pos/cart"
	"github.com/yeremiapane/restaurant-pos/lifecycle"
	"github.com/yeremiapane/restaurant-pos/models"
	"github.com/yeremiapane/restaurant-pos/utils"
	"gorm.io/gorm"
)

const walkInName = "Walk-in"

// CheckoutInput is everything checkout needs besides the cart itself.
type CheckoutInput struct {
	Type            string `json:"type" binding:"required"`
	PaymentMethod   string `json:"payment_method" binding:"required"`
	CustomerID      *uint  `json:"customer_id"`
	CustomerName    string `json:"customer_name"`
	CustomerPhone   string `json:"customer_phone"`
	Notes           string `json:"notes"`
	DeliveryAddress string `json:"delivery_address"`
	TableNumber     string `json:"table_number"`
	Draft           bool   `json:"draft"`
}

// OrderPayload is the normalized order handed to submission.
type OrderPayload struct {
	Type            string          `json:"type"`
	PaymentMethod   string          `json:"payment_method"`
	CustomerID      *uint           `json:"customer_id,omitempty"`
	CustomerName    string          `json:"customer_name"`
	CustomerPhone   string          `json:"customer_phone,omitempty"`
	Items           []LineInput     `json:"items"`
	DiscountCode    string          `json:"discount_code,omitempty"`
	DiscountAmount  decimal.Decimal `json:"discount_amount"`
	Notes           string          `json:"notes,omitempty"`
	DeliveryAddress string          `json:"delivery_address,omitempty"`
	TableNumber     string          `json:"table_number,omitempty"`
	Draft           bool            `json:"draft,omitempty"`
}

// PayloadFromCart flattens a cart into a submission payload. Line prices are
// not carried; submission re-prices from the catalog.
func PayloadFromCart(l *cart.Ledger, in CheckoutInput) OrderPayload {
	p := OrderPayload{
		Type:            in.Type,
		PaymentMethod:   in.PaymentMethod,
		CustomerID:      in.CustomerID,
		CustomerName:    in.CustomerName,
		CustomerPhone:   in.CustomerPhone,
		Items:           make([]LineInput, 0, l.Len()),
		Notes:           in.Notes,
		DeliveryAddress: in.DeliveryAddress,
		TableNumber:     in.TableNumber,
		Draft:           in.Draft,
	}
	for _, line := range l.Lines() {
		p.Items = append(p.Items, lineInput(line))
	}
	if d := l.Discount(); d != nil {
		p.DiscountCode = d.Code
		p.DiscountAmount = l.Totals().Discount
	}
	return p
}

func lineInput(line cart.Line) LineInput {
	item := LineInput{ProductID: line.Product.ID, Qty: line.Quantity, Notes: line.Notes}
	for _, m := range line.Modifiers {
		item.Modifiers = append(item.Modifiers, ModifierInput{GroupID: m.GroupID, ModifierID: m.ID, Qty: m.Qty})
	}
	return item
}

// OrderFilter narrows order listings.
type OrderFilter struct {
	Statuses []lifecycle.Status
	Type     string
	Limit    int
}

type OrderService struct {
	db        *gorm.DB
	catalog   *CatalogService
	carts     *CartService
	discounts DiscountValidator
	notifier  OrderNotifier
	now       func() time.Time
}

func NewOrderService(db *gorm.DB, catalog *CatalogService, carts *CartService, discounts DiscountValidator, notifier OrderNotifier) *OrderService {
	return &OrderService{
		db:        db,
		catalog:   catalog,
		carts:     carts,
		discounts: discounts,
		notifier:  notifier,
		now:       time.Now,
	}
}

// Checkout submits the cart under key. The cart is cleared only after the
// order is committed; on any failure it is left exactly as it was.
func (s *OrderService) Checkout(ctx context.Context, key string, surface cart.Surface, in CheckoutInput) (*models.Order, error) {
	defer s.carts.lock(key)()

	l, err := s.carts.Open(ctx, key)
	if err != nil {
		return nil, err
	}
	if l.Len() == 0 {
		return nil, ErrEmptyCart
	}
	if err := s.checkPrices(ctx, l, surface); err != nil {
		return nil, err
	}

	order, err := s.Submit(ctx, surface, PayloadFromCart(l, in))
	if err != nil {
		return nil, err
	}
	if err := l.Clear(ctx); err != nil {
		utils.ErrorLogger.WithFields(logrus.Fields{"cart": key, "order_no": order.OrderNo}).
			Errorf("order placed but cart not cleared: %v", err)
	}
	return order, nil
}

// checkPrices re-prices the cart against the live catalog. When the subtotal
// the customer saw no longer holds, the cart is updated to the current prices
// and checkout stops so they can review it.
func (s *OrderService) checkPrices(ctx context.Context, l *cart.Ledger, surface cart.Surface) error {
	seen := l.Totals().Subtotal
	current := decimal.Zero
	lines := make([]cart.Line, 0, l.Len())
	for _, line := range l.Lines() {
		fresh, err := BuildLine(ctx, s.catalog, surface, lineInput(line))
		if err != nil {
			return err
		}
		fresh.ID = line.ID
		lines = append(lines, fresh)
		current = current.Add(fresh.Subtotal)
	}
	if current.Equal(seen) {
		return nil
	}

	if err := l.Refresh(ctx, lines); err != nil {
		return err
	}
	utils.InfoLogger.WithFields(logrus.Fields{
		"cart": l.Key(),
		"seen": seen.String(),
		"now":  current.String(),
	}).Info("cart re-priced at checkout")
	return fmt.Errorf("%w: subtotal is now %s", ErrPricesChanged, utils.FormatCurrencyIDR(current))
}

// Submit re-resolves every item against the catalog, re-validates the
// discount, and stores the order with its snapshots and payment record.
func (s *OrderService) Submit(ctx context.Context, surface cart.Surface, p OrderPayload) (*models.Order, error) {
	typ, ok := lifecycle.ParseOrderType(p.Type)
	if !ok {
		return nil, fmt.Errorf("%w: unknown order type %q", ErrInvalidOrder, p.Type)
	}
	method, ok := lifecycle.ParsePaymentMethod(p.PaymentMethod)
	if !ok {
		return nil, fmt.Errorf("%w: unknown payment method %q", ErrInvalidOrder, p.PaymentMethod)
	}

	flags, err := s.catalog.StoreFlags(ctx)
	if err != nil {
		return nil, err
	}
	if !flags.OrderEnabled {
		return nil, ErrOrderingDisabled
	}
	if typ == lifecycle.TypeDelivery && !flags.DeliveryEnabled {
		return nil, ErrDeliveryDisabled
	}
	address := strings.TrimSpace(p.DeliveryAddress)
	if typ == lifecycle.TypeDelivery && address == "" {
		return nil, fmt.Errorf("%w: delivery address is required", ErrInvalidOrder)
	}
	if len(p.Items) == 0 {
		return nil, ErrEmptyCart
	}

	name, phone, err := s.resolveCustomer(ctx, surface, p)
	if err != nil {
		return nil, err
	}

	lines := make([]cart.Line, 0, len(p.Items))
	subtotal := decimal.Zero
	for _, item := range p.Items {
		line, err := BuildLine(ctx, s.catalog, surface, item)
		if err != nil {
			return nil, err
		}
		lines = append(lines, line)
		subtotal = subtotal.Add(line.Subtotal)
	}

	totals := cart.ApplyDiscount(subtotal, nil)
	if code := strings.TrimSpace(p.DiscountCode); code != "" {
		if s.discounts == nil {
			return nil, ErrDiscountUnavailable
		}
		d, err := s.discounts.Validate(ctx, code, subtotal)
		if err != nil {
			return nil, err
		}
		totals = cart.ApplyDiscount(subtotal, &d)
	}

	status := lifecycle.StatusPending
	if p.Draft && surface == cart.SurfacePOS {
		status = lifecycle.StatusDraft
	}

	now := s.now()
	ref := uuid.NewString()
	order := models.Order{
		// placeholder until the id is known
		OrderNo:        ref,
		Type:           string(typ),
		PaymentMethod:  string(method),
		Status:         string(status),
		CustomerID:     p.CustomerID,
		CustomerName:   name,
		CustomerPhone:  phone,
		Subtotal:       totals.Subtotal,
		DiscountCode:   totals.Code,
		DiscountAmount: totals.Discount,
		GrandTotal:     totals.GrandTotal,
		Notes:          strings.TrimSpace(p.Notes),
		Items:          snapshotItems(lines, now),
		Payment: &models.Payment{
			Amount:        totals.GrandTotal,
			PaymentMethod: string(method),
			Status:        models.PaymentStatusPending,
			ReferenceID:   ref,
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
	if address != "" {
		order.DeliveryAddress = &address
	}
	if table := strings.TrimSpace(p.TableNumber); table != "" {
		order.TableNumber = &table
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&order).Error; err != nil {
			return fmt.Errorf("create order: %w", err)
		}
		order.OrderNo = models.FormatOrderNo(order.CreatedAt, order.ID)
		return tx.Model(&models.Order{}).Where("id = ?", order.ID).Update("order_no", order.OrderNo).Error
	})
	if err != nil {
		return nil, err
	}

	saved, err := s.Get(ctx, order.ID)
	if err != nil {
		return nil, err
	}
	utils.InfoLogger.WithFields(logrus.Fields{
		"order_no": saved.OrderNo,
		"status":   saved.Status,
		"total":    saved.GrandTotal.String(),
	}).Info("order submitted")
	if s.notifier != nil {
		s.notifier.OrderChanged(ctx, *saved, "")
	}
	return saved, nil
}

func (s *OrderService) resolveCustomer(ctx context.Context, surface cart.Surface, p OrderPayload) (string, string, error) {
	name := strings.TrimSpace(p.CustomerName)
	phone := strings.TrimSpace(p.CustomerPhone)
	if p.CustomerID != nil {
		var c models.Customer
		if err := s.db.WithContext(ctx).First(&c, *p.CustomerID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return "", "", fmt.Errorf("%w: unknown customer %d", ErrInvalidOrder, *p.CustomerID)
			}
			return "", "", err
		}
		if name == "" {
			name = c.Name
		}
		if phone == "" {
			phone = c.Phone
		}
	}
	if name == "" {
		if surface != cart.SurfacePOS {
			return "", "", fmt.Errorf("%w: customer name is required", ErrInvalidOrder)
		}
		name = walkInName
	}
	return name, phone, nil
}

func snapshotItems(lines []cart.Line, now time.Time) []models.OrderItem {
	items := make([]models.OrderItem, 0, len(lines))
	for i, line := range lines {
		item := models.OrderItem{
			ProductID:           line.Product.ID,
			ProductNameSnapshot: line.Product.Name,
			PriceSnapshot:       cart.BasePrice(line.Product),
			Qty:                 line.Quantity,
			Subtotal:            line.Subtotal,
			Notes:               line.Notes,
			Position:            i,
			CreatedAt:           now,
		}
		for j, m := range line.Modifiers {
			qty := m.Qty
			if qty < 1 {
				qty = 1
			}
			item.Modifiers = append(item.Modifiers, models.OrderItemModifier{
				ModifierID:           m.ID,
				GroupID:              m.GroupID,
				ModifierNameSnapshot: m.Name,
				PriceDeltaSnapshot:   m.PriceDelta,
				Qty:                  qty,
				Position:             j,
			})
		}
		items = append(items, item)
	}
	return items
}

func (s *OrderService) preload(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC, id ASC") }).
		Preload("Items.Modifiers", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC, id ASC") }).
		Preload("Payment")
}

func (s *OrderService) Get(ctx context.Context, id uint) (*models.Order, error) {
	var order models.Order
	err := s.preload(s.db.WithContext(ctx)).First(&order, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (s *OrderService) GetByOrderNo(ctx context.Context, orderNo string) (*models.Order, error) {
	var order models.Order
	err := s.preload(s.db.WithContext(ctx)).Where("order_no = ?", orderNo).First(&order).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// List returns orders oldest first so queues read top to bottom.
func (s *OrderService) List(ctx context.Context, f OrderFilter) ([]models.Order, error) {
	q := s.preload(s.db.WithContext(ctx))
	if len(f.Statuses) > 0 {
		statuses := make([]string, 0, len(f.Statuses))
		for _, st := range f.Statuses {
			statuses = append(statuses, string(st))
		}
		q = q.Where("status IN ?", statuses)
	}
	if f.Type != "" {
		q = q.Where("type = ?", f.Type)
	}
	if f.Limit > 0 {
		q = q.Limit(f.Limit)
	}
	var orders []models.Order
	if err := q.Order("created_at ASC, id ASC").Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// Receipt builds the printable payload for an order.
func (s *OrderService) Receipt(ctx context.Context, id uint) (models.Receipt, error) {
	order, err := s.Get(ctx, id)
	if err != nil {
		return models.Receipt{}, err
	}
	return models.NewReceipt(*order), nil
}

// DeleteDraft removes an order that never left draft.
func (s *OrderService) DeleteDraft(ctx context.Context, id uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var order models.Order
		if err := tx.Select("id", "status").First(&order, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrOrderNotFound
			}
			return err
		}
		if lifecycle.Normalize(order.Status) != lifecycle.StatusDraft {
			return ErrNotDraft
		}

		itemIDs := tx.Model(&models.OrderItem{}).Select("id").Where("order_id = ?", id)
		if err := tx.Where("order_item_id IN (?)", itemIDs).Delete(&models.OrderItemModifier{}).Error; err != nil {
			return err
		}
		if err := tx.Where("order_id = ?", id).Delete(&models.OrderItem{}).Error; err != nil {
			return err
		}
		if err := tx.Where("order_id = ?", id).Delete(&models.Payment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("order_id = ?", id).Delete(&models.StatusLog{}).Error; err != nil {
			return err
		}
		res := tx.Where("id = ? AND status = ?", id, order.Status).Delete(&models.Order{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrTransitionConflict
		}
		return nil
	})
}
