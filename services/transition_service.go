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

// TransitionService moves orders through the lifecycle on behalf of an
// operator role.
type TransitionService struct {
	db       *gorm.DB
	orders   *OrderService
	loyalty  *LoyaltyService
	notifier OrderNotifier
	acks     []func()
}

func NewTransitionService(db *gorm.DB, orders *OrderService, loyalty *LoyaltyService, notifier OrderNotifier) *TransitionService {
	return &TransitionService{db: db, orders: orders, loyalty: loyalty, notifier: notifier}
}

// OnAcknowledged registers fn to run after every committed transition.
// Queue pollers use it to refetch and drop in-flight stale reads.
func (s *TransitionService) OnAcknowledged(fn func()) {
	s.acks = append(s.acks, fn)
}

// Actions loads an order and lists what role may do with it.
func (s *TransitionService) Actions(ctx context.Context, orderID uint, role lifecycle.Role) (*models.Order, []lifecycle.Action, error) {
	order, err := s.orders.Get(ctx, orderID)
	if err != nil {
		return nil, nil, err
	}
	return order, lifecycle.NextActions(order.Lifecycle(), role), nil
}

// Transition normalizes target once, checks it against role's actions and
// writes it only if the stored status is still the one that was checked.
// The returned order is re-read after commit.
func (s *TransitionService) Transition(ctx context.Context, orderID uint, target string, role lifecycle.Role, userID *uint) (*models.Order, error) {
	order, err := s.orders.Get(ctx, orderID)
	if err != nil {
		return nil, err
	}

	to := lifecycle.Normalize(target)
	if _, ok := lifecycle.Allowed(order.Lifecycle(), role, to); !ok {
		return nil, fmt.Errorf("%w: %s to %s", ErrTransitionNotAllowed, lifecycle.Normalize(order.Status), to)
	}

	stored := order.Status
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		now := time.Now()
		if err := updateStatusGuarded(tx, order.ID, stored, to, now); err != nil {
			return err
		}

		if err := tx.Create(&models.StatusLog{
			OrderID:    order.ID,
			FromStatus: stored,
			ToStatus:   string(to),
			ChangedBy:  userID,
			Role:       string(role),
			ChangedAt:  now,
		}).Error; err != nil {
			return fmt.Errorf("write status log: %w", err)
		}

		if to == lifecycle.StatusCompleted && s.loyalty != nil {
			points, err := s.loyalty.Award(tx, order)
			if err != nil {
				return err
			}
			if points > 0 {
				utils.InfoLogger.WithFields(logrus.Fields{
					"order_no": order.OrderNo,
					"points":   points,
				}).Info("loyalty points awarded")
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	updated, err := s.orders.Get(ctx, order.ID)
	if err != nil {
		return nil, err
	}
	utils.InfoLogger.WithFields(logrus.Fields{
		"order_no": updated.OrderNo,
		"from":     stored,
		"to":       updated.Status,
		"role":     role,
	}).Info("order status changed")

	if s.notifier != nil {
		s.notifier.OrderChanged(ctx, *updated, stored)
	}
	for _, ack := range s.acks {
		ack()
	}
	return updated, nil
}

// updateStatusGuarded writes to only while the row still holds from.
func updateStatusGuarded(tx *gorm.DB, orderID uint, from string, to lifecycle.Status, now time.Time) error {
	res := tx.Model(&models.Order{}).
		Where("id = ? AND status = ?", orderID, from).
		Updates(map[string]interface{}{"status": string(to), "updated_at": now})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrTransitionConflict
	}
	return nil
}

// History returns the status log of an order, oldest first.
func (s *TransitionService) History(ctx context.Context, orderID uint) ([]models.StatusLog, error) {
	var logs []models.StatusLog
	if err := s.db.WithContext(ctx).Where("order_id = ?", orderID).Order("changed_at ASC, id ASC").Find(&logs).Error; err != nil {
		return nil, err
	}
	return logs, nil
}
