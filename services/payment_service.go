package services

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/yeremiapane/restaurant-pos/lifecycle"
	"github.com/yeremiapane/restaurant-pos/models"
	"github.com/yeremiapane/restaurant-pos/utils"
	"gorm.io/gorm"
)

// PaymentService handles the out-of-band verification of QRIS payments.
type PaymentService struct {
	db       *gorm.DB
	orders   *OrderService
	notifier OrderNotifier
}

func NewPaymentService(db *gorm.DB, orders *OrderService, notifier OrderNotifier) *PaymentService {
	return &PaymentService{db: db, orders: orders, notifier: notifier}
}

// Verify marks the order's QRIS payment as received. The order status is not
// touched; staff confirm the order as a separate step.
func (s *PaymentService) Verify(ctx context.Context, orderID uint, staffID *uint) (*models.Order, error) {
	order, err := s.orders.Get(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !lifecycle.NeedsVerification(order.Lifecycle()) {
		switch {
		case order.PaymentMethod != string(lifecycle.PaymentQRIS):
			return nil, ErrNotQRIS
		case order.PaymentVerified():
			return nil, ErrAlreadyVerified
		}
		return nil, fmt.Errorf("%w: payment cannot be verified while %s", ErrTransitionNotAllowed, lifecycle.Normalize(order.Status))
	}
	if order.Payment == nil {
		return nil, fmt.Errorf("%w: order %s has no payment record", ErrInvalidOrder, order.OrderNo)
	}

	now := time.Now()
	res := s.db.WithContext(ctx).Model(&models.Payment{}).
		Where("id = ? AND verified_at IS NULL", order.Payment.ID).
		Updates(map[string]interface{}{
			"status":      models.PaymentStatusVerified,
			"verified_at": now,
			"verified_by": staffID,
			"updated_at":  now,
		})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, ErrAlreadyVerified
	}

	updated, err := s.orders.Get(ctx, orderID)
	if err != nil {
		return nil, err
	}
	utils.InfoLogger.WithFields(logrus.Fields{
		"order_no":  updated.OrderNo,
		"reference": updated.Payment.ReferenceID,
	}).Info("qris payment verified")
	if s.notifier != nil {
		s.notifier.OrderChanged(ctx, *updated, updated.Status)
	}
	return updated, nil
}
