package lifecycle

import "strings"

type Status string

const (
	StatusDraft         Status = "draft"
	StatusPending       Status = "pending"
	StatusConfirmed     Status = "confirmed"
	StatusPreparing     Status = "preparing"
	StatusReady         Status = "ready"
	StatusDelivering    Status = "delivering"
	StatusDelivered     Status = "delivered"
	StatusWaitingPickup Status = "waiting_pickup"
	StatusPickedUp      Status = "picked_up"
	StatusCompleted     Status = "completed"
	StatusCancelled     Status = "cancelled"
)

// AllStatuses lists every canonical status in lifecycle order.
var AllStatuses = []Status{
	StatusDraft, StatusPending, StatusConfirmed, StatusPreparing, StatusReady,
	StatusDelivering, StatusDelivered, StatusWaitingPickup, StatusPickedUp,
	StatusCompleted, StatusCancelled,
}

type OrderType string

const (
	TypeDineIn   OrderType = "dine_in"
	TypePickup   OrderType = "pickup"
	TypeTakeaway OrderType = "takeaway"
	TypeDelivery OrderType = "delivery"
)

var OrderTypes = []OrderType{TypeDineIn, TypePickup, TypeTakeaway, TypeDelivery}

type PaymentMethod string

const (
	PaymentCash PaymentMethod = "cash"
	PaymentQRIS PaymentMethod = "qris"
)

var PaymentMethods = []PaymentMethod{PaymentCash, PaymentQRIS}

// legacy spellings seen in older clients and stored rows
var aliases = map[string]Status{
	"canceled":       StatusCancelled,
	"cancel":         StatusCancelled,
	"complete":       StatusCompleted,
	"done":           StatusCompleted,
	"waiting-pickup": StatusWaitingPickup,
	"waiting pickup": StatusWaitingPickup,
	"picked-up":      StatusPickedUp,
	"picked up":      StatusPickedUp,
	"pickedup":       StatusPickedUp,
}

// Normalize canonicalizes a status string: trims, case-folds and corrects
// known misspellings. Unknown values come back folded but otherwise as given.
// Normalize(Normalize(s)) == Normalize(s) for every input.
func Normalize(s string) Status {
	folded := strings.ToLower(strings.TrimSpace(s))
	if canonical, ok := aliases[folded]; ok {
		return canonical
	}
	return Status(folded)
}

func (s Status) Valid() bool {
	for _, known := range AllStatuses {
		if s == known {
			return true
		}
	}
	return false
}

func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

func (s Status) String() string {
	return string(s)
}

func ParseOrderType(s string) (OrderType, bool) {
	t := OrderType(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range OrderTypes {
		if t == known {
			return t, true
		}
	}
	return "", false
}

func ParsePaymentMethod(s string) (PaymentMethod, bool) {
	m := PaymentMethod(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range PaymentMethods {
		if m == known {
			return m, true
		}
	}
	return "", false
}
