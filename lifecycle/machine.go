package lifecycle

// Role is the operator class asking for actions. Every role sees a filtered
// view of the same transition table.
type Role string

const (
	RoleKitchen Role = "kitchen"
	RoleStaff   Role = "staff"
)

// RoleFor maps an account role onto an operator role. Chefs get the kitchen
// view; cashiers, staff and admins get the full one.
func RoleFor(accountRole string) (Role, bool) {
	switch accountRole {
	case "kitchen", "chef":
		return RoleKitchen, true
	case "staff", "cashier", "admin":
		return RoleStaff, true
	}
	return "", false
}

type ActionKind string

const (
	// ActionTransition moves the order to Target.
	ActionTransition ActionKind = "transition"
	// ActionVerifyPayment sends the operator to payment verification. It is
	// not a status change.
	ActionVerifyPayment ActionKind = "verify_payment"
)

type Action struct {
	Label  string     `json:"label"`
	Kind   ActionKind `json:"kind"`
	Target Status     `json:"target_status,omitempty"`
}

// Order carries the fields the machine branches on.
type Order struct {
	Status          Status
	Type            OrderType
	PaymentMethod   PaymentMethod
	PaymentVerified bool
}

type rule struct {
	from  []Status
	to    Status
	label string
	kind  ActionKind
	when  func(Order) bool
}

func (r rule) appliesTo(o Order) bool {
	for _, s := range r.from {
		if s == o.Status {
			return r.when == nil || r.when(o)
		}
	}
	return false
}

func (r rule) action() Action {
	return Action{Label: r.label, Kind: r.kind, Target: r.to}
}

func isQRIS(o Order) bool       { return o.PaymentMethod == PaymentQRIS }
func isCash(o Order) bool       { return o.PaymentMethod == PaymentCash }
func isDelivery(o Order) bool   { return o.Type == TypeDelivery }
func isHandedOver(o Order) bool { return o.Type != TypeDelivery }

var unpaid = []Status{StatusPending, StatusDraft}

// table is the single source of legal moves. Rows are listed in the order
// their buttons should appear.
var table = []rule{
	{from: unpaid, label: "Verify Payment", kind: ActionVerifyPayment,
		when: func(o Order) bool { return isQRIS(o) && !o.PaymentVerified }},
	{from: unpaid, to: StatusConfirmed, label: "Confirm Order", kind: ActionTransition,
		when: func(o Order) bool { return isQRIS(o) && o.PaymentVerified }},
	{from: unpaid, to: StatusConfirmed, label: "Accept Order", kind: ActionTransition, when: isCash},
	{from: unpaid, to: StatusCancelled, label: "Reject", kind: ActionTransition, when: isCash},

	{from: []Status{StatusConfirmed}, to: StatusPreparing, label: "Start Preparing", kind: ActionTransition},
	{from: []Status{StatusConfirmed}, to: StatusCancelled, label: "Reject", kind: ActionTransition, when: isCash},
	{from: []Status{StatusPreparing}, to: StatusReady, label: "Mark Ready", kind: ActionTransition},

	{from: []Status{StatusReady}, to: StatusDelivering, label: "Send for Delivery", kind: ActionTransition, when: isDelivery},
	{from: []Status{StatusDelivering}, to: StatusDelivered, label: "Mark Delivered", kind: ActionTransition, when: isDelivery},
	{from: []Status{StatusDelivered}, to: StatusCompleted, label: "Complete", kind: ActionTransition, when: isDelivery},

	{from: []Status{StatusReady}, to: StatusWaitingPickup, label: "Call for Pickup", kind: ActionTransition, when: isHandedOver},
	{from: []Status{StatusWaitingPickup}, to: StatusPickedUp, label: "Mark Picked Up", kind: ActionTransition, when: isHandedOver},
	{from: []Status{StatusPickedUp}, to: StatusCompleted, label: "Complete", kind: ActionTransition, when: isHandedOver},
}

type edge struct {
	from, to Status
}

// kitchenEdges is everything the kitchen may do.
var kitchenEdges = map[edge]bool{
	{StatusConfirmed, StatusPreparing}: true,
	{StatusPreparing, StatusReady}:     true,
}

func permitted(role Role, from Status, r rule) bool {
	switch role {
	case RoleStaff:
		return true
	case RoleKitchen:
		return r.kind == ActionTransition && kitchenEdges[edge{from, r.to}]
	}
	return false
}

// NextActions lists what role may do with o right now. Terminal and unknown
// statuses yield nothing.
func NextActions(o Order, role Role) []Action {
	actions := []Action{}
	for _, r := range table {
		if r.appliesTo(o) && permitted(role, o.Status, r) {
			actions = append(actions, r.action())
		}
	}
	return actions
}

// Allowed finds the transition to target among role's next actions.
func Allowed(o Order, role Role, target Status) (Action, bool) {
	for _, a := range NextActions(o, role) {
		if a.Kind == ActionTransition && a.Target == target {
			return a, true
		}
	}
	return Action{}, false
}

// NeedsVerification reports whether a verify-payment step is outstanding.
func NeedsVerification(o Order) bool {
	for _, a := range NextActions(o, RoleStaff) {
		if a.Kind == ActionVerifyPayment {
			return true
		}
	}
	return false
}

// KitchenStatuses are the statuses shown on the kitchen queue.
var KitchenStatuses = []Status{StatusConfirmed, StatusPreparing}

// ActiveStatuses are the non-terminal statuses shown on the orders console.
func ActiveStatuses() []Status {
	var out []Status
	for _, s := range AllStatuses {
		if !s.IsTerminal() {
			out = append(out, s)
		}
	}
	return out
}
