package lifecycle

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func targets(actions []Action) []Status {
	out := []Status{}
	for _, a := range actions {
		if a.Kind == ActionTransition {
			out = append(out, a.Target)
		}
	}
	return out
}

func TestNextActionsStaff(t *testing.T) {
	tests := []struct {
		name  string
		order Order
		want  []Status
	}{
		{"confirmed cash", Order{StatusConfirmed, TypePickup, PaymentCash, false}, []Status{StatusPreparing, StatusCancelled}},
		{"confirmed qris", Order{StatusConfirmed, TypePickup, PaymentQRIS, true}, []Status{StatusPreparing}},
		{"preparing", Order{StatusPreparing, TypeDineIn, PaymentCash, false}, []Status{StatusReady}},
		{"ready delivery", Order{StatusReady, TypeDelivery, PaymentCash, false}, []Status{StatusDelivering}},
		{"delivering", Order{StatusDelivering, TypeDelivery, PaymentQRIS, true}, []Status{StatusDelivered}},
		{"delivered", Order{StatusDelivered, TypeDelivery, PaymentQRIS, true}, []Status{StatusCompleted}},
		{"ready pickup", Order{StatusReady, TypePickup, PaymentCash, false}, []Status{StatusWaitingPickup}},
		{"ready takeaway", Order{StatusReady, TypeTakeaway, PaymentCash, false}, []Status{StatusWaitingPickup}},
		{"waiting pickup", Order{StatusWaitingPickup, TypeDineIn, PaymentCash, false}, []Status{StatusPickedUp}},
		{"picked up", Order{StatusPickedUp, TypePickup, PaymentCash, false}, []Status{StatusCompleted}},
		{"pending cash", Order{StatusPending, TypePickup, PaymentCash, false}, []Status{StatusConfirmed, StatusCancelled}},
		{"pending qris verified", Order{StatusPending, TypePickup, PaymentQRIS, true}, []Status{StatusConfirmed}},
		{"delivery cannot skip to pickup", Order{StatusDelivering, TypePickup, PaymentCash, false}, []Status{}},
		{"completed", Order{StatusCompleted, TypeDelivery, PaymentCash, false}, []Status{}},
		{"cancelled", Order{StatusCancelled, TypeDelivery, PaymentCash, false}, []Status{}},
		{"unknown status", Order{Status("served"), TypeDineIn, PaymentCash, false}, []Status{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, targets(NextActions(tt.order, RoleStaff)))
		})
	}
}

func TestPendingQRISOnlyOffersVerification(t *testing.T) {
	for _, s := range []Status{StatusPending, StatusDraft} {
		actions := NextActions(Order{s, TypePickup, PaymentQRIS, false}, RoleStaff)
		if assert.Len(t, actions, 1) {
			assert.Equal(t, ActionVerifyPayment, actions[0].Kind)
			assert.Empty(t, actions[0].Target)
		}
		_, ok := Allowed(Order{s, TypePickup, PaymentQRIS, false}, RoleStaff, StatusConfirmed)
		assert.False(t, ok)
		assert.True(t, NeedsVerification(Order{s, TypePickup, PaymentQRIS, false}))
	}
	assert.False(t, NeedsVerification(Order{StatusPending, TypePickup, PaymentQRIS, true}))
}

func TestKitchenNeverSeesFrontOfHouseTargets(t *testing.T) {
	forbidden := map[Status]bool{
		StatusCancelled: true, StatusDelivering: true, StatusWaitingPickup: true,
		StatusDelivered: true, StatusPickedUp: true, StatusCompleted: true,
		StatusConfirmed: true,
	}
	for _, s := range AllStatuses {
		for _, typ := range OrderTypes {
			for _, pm := range PaymentMethods {
				for _, verified := range []bool{false, true} {
					o := Order{s, typ, pm, verified}
					for _, a := range NextActions(o, RoleKitchen) {
						assert.Equal(t, ActionTransition, a.Kind, "%+v", o)
						assert.False(t, forbidden[a.Target], "%+v offered %s", o, a.Target)
					}
				}
			}
		}
	}
}

func TestKitchenActions(t *testing.T) {
	got := NextActions(Order{StatusConfirmed, TypeDelivery, PaymentCash, false}, RoleKitchen)
	assert.Equal(t, []Status{StatusPreparing}, targets(got))

	got = NextActions(Order{StatusPreparing, TypeDelivery, PaymentCash, false}, RoleKitchen)
	assert.Equal(t, []Status{StatusReady}, targets(got))

	got = NextActions(Order{StatusReady, TypeDelivery, PaymentCash, false}, RoleKitchen)
	assert.Empty(t, got)

	// staff may do it, kitchen may not
	_, ok := Allowed(Order{StatusReady, TypeDelivery, PaymentCash, false}, RoleStaff, StatusDelivering)
	assert.True(t, ok)
	_, ok = Allowed(Order{StatusReady, TypeDelivery, PaymentCash, false}, RoleKitchen, StatusDelivering)
	assert.False(t, ok)
}

func TestUnknownRoleGetsNothing(t *testing.T) {
	assert.Empty(t, NextActions(Order{StatusConfirmed, TypePickup, PaymentCash, false}, Role("guest")))
}

func TestRoleFor(t *testing.T) {
	r, ok := RoleFor("chef")
	assert.True(t, ok)
	assert.Equal(t, RoleKitchen, r)

	r, ok = RoleFor("admin")
	assert.True(t, ok)
	assert.Equal(t, RoleStaff, r)

	_, ok = RoleFor("cleaner")
	assert.False(t, ok)
}

func TestNormalizeIsFixedPoint(t *testing.T) {
	inputs := []string{
		"canceled", "cancel", "Cancelled", " CANCELED ", "complete", "Completed",
		"done", "waiting-pickup", "Picked Up", "READY", "pending", "weird_status", "",
	}
	for _, in := range inputs {
		once := Normalize(in)
		assert.Equal(t, once, Normalize(string(once)), "input %q", in)
	}
	assert.Equal(t, StatusCancelled, Normalize("canceled"))
	assert.Equal(t, StatusCancelled, Normalize(" Cancel"))
	assert.Equal(t, StatusCompleted, Normalize("complete"))
	assert.Equal(t, StatusReady, Normalize("Ready "))
	assert.False(t, Normalize("weird").Valid())
}

func TestLabelFor(t *testing.T) {
	assert.Equal(t, Label{"Ready for Delivery", CategorySuccess}, LabelFor("ready", TypeDelivery))
	assert.Equal(t, Label{"Ready for Pickup", CategorySuccess}, LabelFor("ready", TypePickup))
	assert.Equal(t, Label{"Cancelled", CategoryDanger}, LabelFor("canceled", TypePickup))
	assert.Equal(t, Label{"Completed", CategorySuccess}, LabelFor("Complete", TypeDelivery))
	assert.Equal(t, "Unknown", LabelFor("lost", TypeDelivery).Text)

	for _, s := range AllStatuses {
		for _, typ := range OrderTypes {
			assert.NotEqual(t, "Unknown", LabelFor(string(s), typ).Text)
		}
	}
}

func TestParseEnums(t *testing.T) {
	typ, ok := ParseOrderType(" Delivery")
	assert.True(t, ok)
	assert.Equal(t, TypeDelivery, typ)
	_, ok = ParseOrderType("catering")
	assert.False(t, ok)

	pm, ok := ParsePaymentMethod("QRIS")
	assert.True(t, ok)
	assert.Equal(t, PaymentQRIS, pm)
	_, ok = ParsePaymentMethod("card")
	assert.False(t, ok)
}
