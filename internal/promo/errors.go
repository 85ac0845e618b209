package promo

import (
	"fmt"

	"github.com/fairyhunter13/edu-checkout/internal/money"
)

// Reason identifies why a promo code was rejected.
type Reason string

const (
	ReasonNotFound          Reason = "not_found"
	ReasonInactive          Reason = "inactive"
	ReasonExpired           Reason = "expired"
	ReasonScopeMismatch     Reason = "scope_mismatch"
	ReasonMinPurchaseNotMet Reason = "min_purchase_not_met"
)

// RejectionError is returned when a promo code exists in some form but cannot
// be applied to the cart. It is recoverable: the customer can try another code
// or raise the cart value.
type RejectionError struct {
	Reason Reason
	// Required is the minimum purchase amount for ReasonMinPurchaseNotMet.
	Required money.Money
}

func (e *RejectionError) Error() string {
	if e.Reason == ReasonMinPurchaseNotMet {
		return fmt.Sprintf("promo rejected: %s (required %s)", e.Reason, e.Required)
	}
	return "promo rejected: " + string(e.Reason)
}

// Is matches any RejectionError with the same reason, so callers can use
// errors.Is(err, promo.ErrExpired) regardless of Required.
func (e *RejectionError) Is(target error) bool {
	t, ok := target.(*RejectionError)
	return ok && t.Reason == e.Reason
}

// Message is the customer-facing explanation.
func (e *RejectionError) Message() string {
	switch e.Reason {
	case ReasonNotFound:
		return "Invalid promo code"
	case ReasonInactive:
		return "This promo code is not active"
	case ReasonExpired:
		return "This promo code has expired"
	case ReasonScopeMismatch:
		return "This promo code is not applicable to this item"
	case ReasonMinPurchaseNotMet:
		return fmt.Sprintf("Minimum purchase of %s is required for this promo code", e.Required)
	default:
		return "Promo code cannot be applied"
	}
}

var (
	ErrNotFound          = &RejectionError{Reason: ReasonNotFound}
	ErrInactive          = &RejectionError{Reason: ReasonInactive}
	ErrExpired           = &RejectionError{Reason: ReasonExpired}
	ErrScopeMismatch     = &RejectionError{Reason: ReasonScopeMismatch}
	ErrMinPurchaseNotMet = &RejectionError{Reason: ReasonMinPurchaseNotMet}
)
