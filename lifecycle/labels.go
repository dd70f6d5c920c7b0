package lifecycle

// Badge categories used by every screen.
const (
	CategoryNeutral = "secondary"
	CategoryWarning = "warning"
	CategoryInfo    = "info"
	CategoryActive  = "primary"
	CategorySuccess = "success"
	CategoryDanger  = "danger"
)

type Label struct {
	Text     string `json:"label"`
	Category string `json:"category"`
}

// LabelFor maps a stored status and order type to its display badge. Legacy
// spellings are accepted. It has no say over which transitions are legal.
func LabelFor(status string, t OrderType) Label {
	switch Normalize(status) {
	case StatusDraft:
		return Label{"Draft", CategoryNeutral}
	case StatusPending:
		return Label{"Awaiting Confirmation", CategoryWarning}
	case StatusConfirmed:
		return Label{"Confirmed", CategoryInfo}
	case StatusPreparing:
		return Label{"Preparing", CategoryActive}
	case StatusReady:
		switch t {
		case TypeDelivery:
			return Label{"Ready for Delivery", CategorySuccess}
		case TypeDineIn:
			return Label{"Ready to Serve", CategorySuccess}
		}
		return Label{"Ready for Pickup", CategorySuccess}
	case StatusDelivering:
		return Label{"On Delivery", CategoryActive}
	case StatusDelivered:
		return Label{"Delivered", CategorySuccess}
	case StatusWaitingPickup:
		if t == TypeDineIn {
			return Label{"Waiting to be Served", CategoryWarning}
		}
		return Label{"Waiting for Pickup", CategoryWarning}
	case StatusPickedUp:
		if t == TypeDineIn {
			return Label{"Served", CategorySuccess}
		}
		return Label{"Picked Up", CategorySuccess}
	case StatusCompleted:
		return Label{"Completed", CategorySuccess}
	case StatusCancelled:
		return Label{"Cancelled", CategoryDanger}
	}
	return Label{"Unknown", CategoryNeutral}
}
