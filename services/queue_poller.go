package services

import (
	"context"
	"sync"
	"time"

	"github.com/yeremiapane/restaurant-pos/lifecycle"
	"github.com/yeremiapane/restaurant-pos/models"
	"github.com/yeremiapane/restaurant-pos/utils"
)

// QueueSnapshot is one fetched view of a queue.
type QueueSnapshot struct {
	Seq       uint64         `json:"seq"`
	Orders    []models.Order `json:"orders"`
	FetchedAt time.Time      `json:"fetched_at"`
}

type QueueFetcher func(ctx context.Context) ([]models.Order, error)

// QueueFor fetches orders in the given statuses.
func QueueFor(orders *OrderService, statuses []lifecycle.Status) QueueFetcher {
	return func(ctx context.Context) ([]models.Order, error) {
		return orders.List(ctx, OrderFilter{Statuses: statuses})
	}
}

// QueuePoller refetches a queue on a fixed interval and hands each result to
// sink. A fetch that was already running when a transition was acknowledged
// is dropped, and the acknowledgment triggers a fresh fetch right away.
type QueuePoller struct {
	fetch    QueueFetcher
	sink     func(QueueSnapshot)
	Interval time.Duration

	mu        sync.Mutex
	seq       uint64
	ackedAt   uint64
	delivered uint64
	kick      chan struct{}
}

func NewQueuePoller(fetch QueueFetcher, interval time.Duration, sink func(QueueSnapshot)) *QueuePoller {
	if interval <= 0 {
		interval = 5 * time.Second
	}
	return &QueuePoller{
		fetch:    fetch,
		sink:     sink,
		Interval: interval,
		kick:     make(chan struct{}, 1),
	}
}

// Start runs the poller until ctx is cancelled.
func (p *QueuePoller) Start(ctx context.Context) {
	go p.Run(ctx)
}

func (p *QueuePoller) Run(ctx context.Context) {
	ticker := time.NewTicker(p.Interval)
	defer ticker.Stop()

	p.Refresh(ctx)
	for {
		select {
		case <-ticker.C:
			p.Refresh(ctx)
		case <-p.kick:
			p.Refresh(ctx)
		case <-ctx.Done():
			return
		}
	}
}

// Acknowledge marks every fetch in flight as stale and asks for a new one.
func (p *QueuePoller) Acknowledge() {
	p.mu.Lock()
	p.ackedAt = p.seq
	p.mu.Unlock()

	select {
	case p.kick <- struct{}{}:
	default:
	}
}

// Refresh fetches once and delivers the result unless it went stale. It
// reports whether the snapshot reached the sink.
func (p *QueuePoller) Refresh(ctx context.Context) (QueueSnapshot, bool) {
	p.mu.Lock()
	p.seq++
	seq := p.seq
	p.mu.Unlock()

	orders, err := p.fetch(ctx)
	if err != nil {
		if ctx.Err() == nil {
			utils.ErrorLogger.Printf("queue refresh failed: %v", err)
		}
		return QueueSnapshot{}, false
	}
	if orders == nil {
		orders = []models.Order{}
	}
	snap := QueueSnapshot{Seq: seq, Orders: orders, FetchedAt: time.Now()}

	p.mu.Lock()
	stale := seq <= p.ackedAt || seq <= p.delivered
	if !stale {
		p.delivered = seq
	}
	p.mu.Unlock()

	if stale || ctx.Err() != nil {
		return snap, false
	}
	if p.sink != nil {
		p.sink(snap)
	}
	return snap, true
}
