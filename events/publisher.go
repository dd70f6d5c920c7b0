package events

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/yeremiapane/restaurant-pos/models"
	"github.com/yeremiapane/restaurant-pos/utils"
)

const ExchangeOrders = "orders_topic"

// OrderStatusEvent is published for every new order and every status or
// payment change.
type OrderStatusEvent struct {
	OrderID         uint            `json:"order_id"`
	OrderNo         string          `json:"order_no"`
	Type            string          `json:"type"`
	PaymentMethod   string          `json:"payment_method"`
	PaymentVerified bool            `json:"payment_verified"`
	OldStatus       string          `json:"old_status,omitempty"`
	NewStatus       string          `json:"new_status"`
	GrandTotal      decimal.Decimal `json:"grand_total"`
	Timestamp       time.Time       `json:"timestamp"`
}

func NewOrderStatusEvent(o models.Order, previous string) OrderStatusEvent {
	return OrderStatusEvent{
		OrderID:         o.ID,
		OrderNo:         o.OrderNo,
		Type:            o.Type,
		PaymentMethod:   o.PaymentMethod,
		PaymentVerified: o.PaymentVerified(),
		OldStatus:       previous,
		NewStatus:       o.Status,
		GrandTotal:      o.GrandTotal,
		Timestamp:       time.Now().UTC(),
	}
}

// RoutingKey is order.<status>.<type>, e.g. order.ready.delivery.
func (e OrderStatusEvent) RoutingKey() string {
	return fmt.Sprintf("order.%s.%s", strings.ToLower(e.NewStatus), strings.ToLower(e.Type))
}

type channel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// Publisher sends order events to the orders topic exchange.
type Publisher struct {
	conn *amqp.Connection
	ch   channel
	mu   sync.Mutex
}

// Dial connects and declares the exchange.
func Dial(url string) (*Publisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, err
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, err
	}
	if err := ch.ExchangeDeclare(ExchangeOrders, "topic", true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, err
	}
	return &Publisher{conn: conn, ch: ch}, nil
}

func (p *Publisher) Publish(ctx context.Context, e OrderStatusEvent) error {
	body, err := json.Marshal(e)
	if err != nil {
		return err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.ch.PublishWithContext(ctx, ExchangeOrders, e.RoutingKey(), false, false, amqp.Publishing{
		DeliveryMode:  amqp.Persistent,
		ContentType:   "application/json",
		CorrelationId: e.OrderNo,
		Timestamp:     e.Timestamp,
		Body:          body,
	})
}

// OrderChanged publishes and logs failures. A broker outage never fails the
// order change that triggered it.
func (p *Publisher) OrderChanged(ctx context.Context, order models.Order, previous string) {
	e := NewOrderStatusEvent(order, previous)
	pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()
	if err := p.Publish(pubCtx, e); err != nil {
		utils.ErrorLogger.WithFields(logrus.Fields{
			"order_no": order.OrderNo,
			"key":      e.RoutingKey(),
		}).Errorf("publish order event: %v", err)
	}
}

func (p *Publisher) Close() {
	if p == nil {
		return
	}
	if p.ch != nil {
		_ = p.ch.Close()
	}
	if p.conn != nil {
		_ = p.conn.Close()
	}
}
