package services

import "errors"

// Constraint violations. Callers show these to the operator as-is.
var (
	ErrOrderingDisabled     = errors.New("the store is not accepting orders right now")
	ErrDeliveryDisabled     = errors.New("delivery is currently unavailable")
	ErrProductUnavailable   = errors.New("product is not available")
	ErrInvalidSelection     = errors.New("invalid modifier selection")
	ErrRequiredModifier     = errors.New("required options not selected")
	ErrEmptyCart            = errors.New("cart is empty")
	ErrInvalidOrder         = errors.New("invalid order")
	ErrLineNotFound         = errors.New("cart line not found")
	ErrDiscountInvalid      = errors.New("discount code is not valid")
	ErrTransitionNotAllowed = errors.New("status change not allowed")
	ErrTransitionConflict   = errors.New("order was changed by someone else, reload and try again")
	ErrNotQRIS              = errors.New("only qris payments need verification")
	ErrAlreadyVerified      = errors.New("payment already verified")
	ErrNotDraft             = errors.New("only draft orders can be deleted")
	ErrPricesChanged        = errors.New("prices changed, please review your cart")
)

// Not found.
var ErrOrderNotFound = errors.New("order not found")

// Remote failures. Local state is untouched when these are returned.
var ErrDiscountUnavailable = errors.New("discount service unavailable, please try again")
