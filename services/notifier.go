package services

import (
	"context"

	"github.com/yeremiapane/restaurant-pos/models"
)

// OrderNotifier is told about every committed order change. previous is
// empty for a new order.
type OrderNotifier interface {
	OrderChanged(ctx context.Context, order models.Order, previous string)
}

// Notifiers fans a change out to several notifiers.
type Notifiers []OrderNotifier

func (n Notifiers) OrderChanged(ctx context.Context, order models.Order, previous string) {
	for _, x := range n {
		if x != nil {
			x.OrderChanged(ctx, order, previous)
		}
	}
}
