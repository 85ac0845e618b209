package model

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"

	"github.com/fairyhunter13/edu-checkout/internal/money"
)

// Scope restricts which products a promo code can be applied to.
type Scope string

const (
	ScopeAll    Scope = "all"
	ScopeBook   Scope = "book"
	ScopeCourse Scope = "course"
)

// Valid reports whether s is a known scope.
func (s Scope) Valid() bool {
	return s == ScopeAll || s == ScopeBook || s == ScopeCourse
}

// DiscountType is the discount strategy of a promo code.
type DiscountType string

const (
	DiscountPercentage DiscountType = "percentage"
	DiscountFixed      DiscountType = "fixed"
)

// Valid reports whether t is a known discount type.
func (t DiscountType) Valid() bool {
	return t == DiscountPercentage || t == DiscountFixed
}

// PromoStatus is the admin-controlled availability of a promo code.
type PromoStatus string

const (
	PromoActive   PromoStatus = "active"
	PromoInactive PromoStatus = "inactive"
)

// Valid reports whether s is a known status.
func (s PromoStatus) Valid() bool {
	return s == PromoActive || s == PromoInactive
}

// PromoCode is a stored promo definition.
//
// For fixed promos MaxDiscountAmount always equals DiscountValue; the editor
// enforces this before the record is written.
type PromoCode struct {
	ID                int64           `json:"id"`
	Code              string          `json:"code"`
	AppliesTo         Scope           `json:"applies_to"`
	TargetID          string          `json:"target_id,omitempty"`
	DiscountType      DiscountType    `json:"discount_type"`
	DiscountValue     decimal.Decimal `json:"discount_value"`
	MaxDiscountAmount money.Money     `json:"max_discount_amount"`
	MinPurchaseAmount money.Money     `json:"min_purchase_amount"`
	ExpiryDate        time.Time       `json:"expiry_date"`
	Status            PromoStatus     `json:"status"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
}

// PromoRequest is the DTO for creating or updating a promo code.
// Pointer fields distinguish "missing" from zero values.
type PromoRequest struct {
	Code              string           `json:"code" validate:"required,notblank,max=64,promocode"`
	AppliesTo         Scope            `json:"applies_to" validate:"required,scope"`
	TargetID          string           `json:"target_id" validate:"max=255"`
	DiscountType      DiscountType     `json:"discount_type" validate:"required,discounttype"`
	DiscountValue     *decimal.Decimal `json:"discount_value" validate:"required"`
	MaxDiscountAmount *money.Money     `json:"max_discount_amount" validate:"omitempty,maxamount"`
	MinPurchaseAmount *money.Money     `json:"min_purchase_amount" validate:"omitempty,maxamount"`
	ExpiryDate        *time.Time       `json:"expiry_date" validate:"required"`
	Status            PromoStatus      `json:"status" validate:"omitempty,promostatus"`
}

// PromoStatusRequest is the DTO for the active/inactive toggle.
type PromoStatusRequest struct {
	Status PromoStatus `json:"status" validate:"required,promostatus"`
}

// PromoValidationRequest is the storefront request to check a promo code.
type PromoValidationRequest struct {
	PromoCode string       `json:"promoCode" validate:"required,notblank,max=64"`
	AppliesTo Kind         `json:"appliesTo" validate:"required,kind"`
	ProductID string       `json:"productId" validate:"max=255"`
	Subtotal  *money.Money `json:"subtotal" validate:"omitempty,maxamount"`
}

// PromoValidationResponse mirrors the response shape the storefront consumes.
type PromoValidationResponse struct {
	Success           bool         `json:"success"`
	Discount          json.Number  `json:"Discount"`
	DiscountType      DiscountType `json:"Discount_type"`
	MaxDiscountAmount money.Money  `json:"Max_discount_amount"`
	MinPurchaseAmount money.Money  `json:"Min_purchase_amount"`
}
