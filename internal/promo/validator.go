// Package promo decides whether a promo code applies to a cart and keeps
// stored promo definitions consistent.
package promo

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/fairyhunter13/edu-checkout/internal/model"
	"github.com/fairyhunter13/edu-checkout/internal/money"
	"github.com/fairyhunter13/edu-checkout/internal/validator"
)

// Registry is the read-only view of stored promo codes used by the validator.
// GetByCode receives an already normalized code and returns nil, nil when no
// promo exists.
type Registry interface {
	GetByCode(ctx context.Context, code string) (*model.PromoCode, error)
}

// Input is the cart context a promo code is checked against.
type Input struct {
	Code      string
	Subtotal  money.Money
	Kind      model.Kind
	ProductID string
	Now       time.Time
}

// Validator checks promo codes against the registry.
type Validator struct {
	registry Registry
}

// NewValidator creates a Validator backed by registry.
func NewValidator(registry Registry) *Validator {
	return &Validator{registry: registry}
}

// NormalizeCode trims and upper-cases a code so lookups are case-insensitive.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// Validate returns the promo and its terms when the code applies.
//
// Checks run in a fixed order and the first failure wins: existence, status,
// expiry, scope, minimum purchase. Rejections are *RejectionError; any other
// error comes from the registry.
func (v *Validator) Validate(ctx context.Context, in Input) (*model.PromoCode, model.PromoTerms, error) {
	p, err := v.Lookup(ctx, in.Code)
	if err != nil {
		return nil, model.PromoTerms{}, err
	}

	if err := Check(p, in); err != nil {
		return nil, model.PromoTerms{}, err
	}
	return p, TermsOf(p), nil
}

// Lookup normalizes code and loads the promo. A malformed or unknown code is
// ErrNotFound; malformed codes never reach the registry.
func (v *Validator) Lookup(ctx context.Context, code string) (*model.PromoCode, error) {
	code = NormalizeCode(code)
	if code == "" || !validator.IsPromoCode(code) {
		return nil, ErrNotFound
	}

	p, err := v.registry.GetByCode(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("lookup promo: %w", err)
	}
	if p == nil {
		return nil, ErrNotFound
	}
	return p, nil
}

// Check applies the applicability rules to an already loaded promo.
func Check(p *model.PromoCode, in Input) error {
	if p == nil {
		return ErrNotFound
	}
	if p.Status != model.PromoActive {
		return ErrInactive
	}
	if !in.Now.Before(p.ExpiryDate) {
		return ErrExpired
	}
	if !ScopeMatches(p, in.Kind, in.ProductID) {
		return ErrScopeMismatch
	}
	if in.Subtotal < p.MinPurchaseAmount {
		return &RejectionError{Reason: ReasonMinPurchaseNotMet, Required: p.MinPurchaseAmount}
	}
	return nil
}

// ScopeMatches reports whether p may be applied to the product. A promo scoped
// to a kind without a target applies to every product of that kind.
func ScopeMatches(p *model.PromoCode, kind model.Kind, productID string) bool {
	if p.AppliesTo == model.ScopeAll {
		return true
	}
	if string(p.AppliesTo) != string(kind) {
		return false
	}
	return p.TargetID == "" || p.TargetID == productID
}

// TermsOf extracts the discount terms of a promo.
func TermsOf(p *model.PromoCode) model.PromoTerms {
	return model.PromoTerms{
		DiscountType:      p.DiscountType,
		DiscountValue:     p.DiscountValue,
		MaxDiscountAmount: p.MaxDiscountAmount,
		MinPurchaseAmount: p.MinPurchaseAmount,
	}
}
