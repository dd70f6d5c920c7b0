package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yeremiapane/restaurant-pos/lifecycle"
	"github.com/yeremiapane/restaurant-pos/models"
)

func TestPickupOrderRunsToCompletion(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	staff := uint(7)
	order := env.placeOrder(t, "pickup", "cash")

	acks := 0
	env.transitions.OnAcknowledged(func() { acks++ })

	steps := []struct {
		role   lifecycle.Role
		target string
		want   lifecycle.Status
	}{
		{lifecycle.RoleStaff, "confirmed", lifecycle.StatusConfirmed},
		{lifecycle.RoleKitchen, "preparing", lifecycle.StatusPreparing},
		{lifecycle.RoleKitchen, "Ready", lifecycle.StatusReady},
		{lifecycle.RoleStaff, "waiting-pickup", lifecycle.StatusWaitingPickup},
		{lifecycle.RoleStaff, "picked up", lifecycle.StatusPickedUp},
		{lifecycle.RoleStaff, "complete", lifecycle.StatusCompleted},
	}
	for _, step := range steps {
		updated, err := env.transitions.Transition(ctx, order.ID, step.target, step.role, &staff)
		require.NoError(t, err, step.target)
		assert.Equal(t, string(step.want), updated.Status)
	}
	assert.Equal(t, len(steps), acks)

	logs, err := env.transitions.History(ctx, order.ID)
	require.NoError(t, err)
	require.Len(t, logs, len(steps))
	assert.Equal(t, "pending", logs[0].FromStatus)
	assert.Equal(t, "confirmed", logs[0].ToStatus)
	assert.Equal(t, "kitchen", logs[1].Role)
	assert.Equal(t, "completed", logs[5].ToStatus)

	changes := env.notifier.all()
	last := changes[len(changes)-1]
	assert.Equal(t, "completed", last.Status)
	assert.Equal(t, "picked_up", last.Previous)

	// 50000 grand total at 10000 per point
	var cust models.Customer
	require.NoError(t, env.db.First(&cust, env.fx.Customer).Error)
	assert.Equal(t, int64(5), cust.LoyaltyPoints)

	final, err := env.orders.Get(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(5), final.PointsAwarded)

	_, err = env.transitions.Transition(ctx, order.ID, "completed", lifecycle.RoleStaff, &staff)
	assert.ErrorIs(t, err, ErrTransitionNotAllowed)
}

func TestDeliveryCannotUsePickupPath(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	order := env.placeOrder(t, "delivery", "cash")
	for _, target := range []string{"confirmed", "preparing", "ready"} {
		_, err := env.transitions.Transition(ctx, order.ID, target, lifecycle.RoleStaff, nil)
		require.NoError(t, err)
	}

	_, err := env.transitions.Transition(ctx, order.ID, "waiting_pickup", lifecycle.RoleStaff, nil)
	assert.ErrorIs(t, err, ErrTransitionNotAllowed)

	_, actions, err := env.transitions.Actions(ctx, order.ID, lifecycle.RoleStaff)
	require.NoError(t, err)
	require.Len(t, actions, 1)
	assert.Equal(t, lifecycle.StatusDelivering, actions[0].Target)
}

func TestKitchenCannotCancel(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	order := env.placeOrder(t, "pickup", "cash")
	_, err := env.transitions.Transition(ctx, order.ID, "confirmed", lifecycle.RoleStaff, nil)
	require.NoError(t, err)

	_, err = env.transitions.Transition(ctx, order.ID, "canceled", lifecycle.RoleKitchen, nil)
	assert.ErrorIs(t, err, ErrTransitionNotAllowed)

	updated, err := env.transitions.Transition(ctx, order.ID, "canceled", lifecycle.RoleStaff, nil)
	require.NoError(t, err)
	assert.Equal(t, "cancelled", updated.Status)
}

func TestQRISNeedsVerificationBeforeConfirm(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	staff := uint(3)
	order := env.placeOrder(t, "pickup", "qris")

	_, actions, err := env.transitions.Actions(ctx, order.ID, lifecycle.RoleStaff)
	require.NoError(t, err)
	require.Len(t, actions, 1)
	assert.Equal(t, lifecycle.ActionVerifyPayment, actions[0].Kind)

	_, err = env.transitions.Transition(ctx, order.ID, "confirmed", lifecycle.RoleStaff, &staff)
	assert.ErrorIs(t, err, ErrTransitionNotAllowed)

	verified, err := env.payments.Verify(ctx, order.ID, &staff)
	require.NoError(t, err)
	assert.Equal(t, "pending", verified.Status, "verification alone does not move the order")
	require.NotNil(t, verified.Payment.VerifiedAt)
	require.NotNil(t, verified.Payment.VerifiedBy)
	assert.Equal(t, staff, *verified.Payment.VerifiedBy)
	assert.Equal(t, models.PaymentStatusVerified, verified.Payment.Status)

	_, err = env.payments.Verify(ctx, order.ID, &staff)
	assert.ErrorIs(t, err, ErrAlreadyVerified)

	confirmed, err := env.transitions.Transition(ctx, order.ID, "confirmed", lifecycle.RoleStaff, &staff)
	require.NoError(t, err)
	assert.Equal(t, "confirmed", confirmed.Status)
}

func TestVerifyCashPayment(t *testing.T) {
	env := newTestEnv(t)
	order := env.placeOrder(t, "pickup", "cash")
	_, err := env.payments.Verify(context.Background(), order.ID, nil)
	assert.ErrorIs(t, err, ErrNotQRIS)

	_, err = env.payments.Verify(context.Background(), 9999, nil)
	assert.ErrorIs(t, err, ErrOrderNotFound)
}

func TestLegacyStoredStatus(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	order := env.placeOrder(t, "takeaway", "cash")
	require.NoError(t, env.db.Model(&models.Order{}).Where("id = ?", order.ID).Update("status", "Ready").Error)

	updated, err := env.transitions.Transition(ctx, order.ID, "waiting_pickup", lifecycle.RoleStaff, nil)
	require.NoError(t, err)
	assert.Equal(t, "waiting_pickup", updated.Status)

	logs, err := env.transitions.History(ctx, order.ID)
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, "Ready", logs[0].FromStatus)
}

func TestGuardedUpdateDetectsConflict(t *testing.T) {
	env := newTestEnv(t)
	order := env.placeOrder(t, "pickup", "cash")

	err := updateStatusGuarded(env.db, order.ID, "confirmed", lifecycle.StatusPreparing, time.Now())
	assert.ErrorIs(t, err, ErrTransitionConflict)

	require.NoError(t, updateStatusGuarded(env.db, order.ID, "pending", lifecycle.StatusConfirmed, time.Now()))
	err = updateStatusGuarded(env.db, order.ID, "pending", lifecycle.StatusCancelled, time.Now())
	assert.ErrorIs(t, err, ErrTransitionConflict)

	stored, err := env.orders.Get(context.Background(), order.ID)
	require.NoError(t, err)
	assert.Equal(t, "confirmed", stored.Status)
}

func TestGuestOrdersEarnNothing(t *testing.T) {
	env := newTestEnv(t)
	loyalty := NewLoyaltyService(dec(10000))

	assert.Equal(t, int64(0), loyalty.PointsFor(dec(9999)))
	assert.Equal(t, int64(4), loyalty.PointsFor(dec(49999)))
	assert.Equal(t, int64(0), NewLoyaltyService(dec(0)).PointsFor(dec(50000)))

	guest := &models.Order{ID: 1, GrandTotal: dec(90000)}
	points, err := loyalty.Award(env.db, guest)
	require.NoError(t, err)
	assert.Zero(t, points)

	order := env.placeOrder(t, "pickup", "cash")
	points, err = loyalty.Award(env.db, order)
	require.NoError(t, err)
	assert.Equal(t, int64(5), points)
	points, err = loyalty.Award(env.db, order)
	require.NoError(t, err)
	assert.Zero(t, points)

	// a stale copy that still reads zero cannot award twice
	stale := *order
	stale.PointsAwarded = 0
	points, err = loyalty.Award(env.db, &stale)
	require.NoError(t, err)
	assert.Zero(t, points)
}
