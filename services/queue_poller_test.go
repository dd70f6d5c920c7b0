package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yeremiapane/restaurant-pos/lifecycle"
	"github.com/yeremiapane/restaurant-pos/models"
)

func TestQueuePollerDropsFetchOverlappingAck(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	calls := 0
	fetch := func(ctx context.Context) ([]models.Order, error) {
		calls++
		if calls == 1 {
			close(started)
			<-release
		}
		return []models.Order{{ID: uint(calls)}}, nil
	}

	var got []QueueSnapshot
	p := NewQueuePoller(fetch, time.Hour, func(s QueueSnapshot) { got = append(got, s) })

	done := make(chan bool)
	go func() {
		_, delivered := p.Refresh(context.Background())
		done <- delivered
	}()
	<-started
	p.Acknowledge()
	close(release)
	assert.False(t, <-done, "fetch started before the ack must be dropped")

	snap, delivered := p.Refresh(context.Background())
	assert.True(t, delivered)
	assert.Equal(t, uint64(2), snap.Seq)
	require.Len(t, got, 1)
	assert.Equal(t, uint(2), got[0].Orders[0].ID)
}

func TestQueuePollerRunStopsOnCancel(t *testing.T) {
	var mu sync.Mutex
	delivered := 0
	p := NewQueuePoller(func(ctx context.Context) ([]models.Order, error) {
		return nil, nil
	}, 10*time.Millisecond, func(s QueueSnapshot) {
		mu.Lock()
		delivered++
		mu.Unlock()
		assert.NotNil(t, s.Orders)
	})

	ctx, cancel := context.WithCancel(context.Background())
	stopped := make(chan struct{})
	go func() {
		p.Run(ctx)
		close(stopped)
	}()

	p.Acknowledge()
	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case <-stopped:
	case <-time.After(time.Second):
		t.Fatal("poller did not stop")
	}
	mu.Lock()
	assert.GreaterOrEqual(t, delivered, 1)
	mu.Unlock()
}

func TestKitchenQueueFetcher(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	pending := env.placeOrder(t, "pickup", "cash")
	cooking := env.placeOrder(t, "pickup", "cash")
	_, err := env.transitions.Transition(ctx, cooking.ID, "confirmed", lifecycle.RoleStaff, nil)
	require.NoError(t, err)

	var got QueueSnapshot
	p := NewQueuePoller(QueueFor(env.orders, lifecycle.KitchenStatuses), time.Minute, func(s QueueSnapshot) { got = s })
	env.transitions.OnAcknowledged(p.Acknowledge)

	_, ok := p.Refresh(ctx)
	require.True(t, ok)
	require.Len(t, got.Orders, 1)
	assert.Equal(t, cooking.ID, got.Orders[0].ID)
	assert.NotEqual(t, pending.ID, got.Orders[0].ID)
}
