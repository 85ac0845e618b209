package model

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/fairyhunter13/edu-checkout/internal/money"
)

// PaymentMethod is how the customer pays.
type PaymentMethod string

const (
	PaymentCashOnDelivery PaymentMethod = "cash_on_delivery"
	PaymentOnlineGateway  PaymentMethod = "online_gateway"
)

// Valid reports whether m is a known payment method.
func (m PaymentMethod) Valid() bool {
	return m == PaymentCashOnDelivery || m == PaymentOnlineGateway
}

// Region selects the delivery fee band for books.
type Region string

const (
	RegionInside  Region = "inside_region"
	RegionOutside Region = "outside_region"
	RegionCourier Region = "courier_channel"
)

// Valid reports whether r is a known region.
func (r Region) Valid() bool {
	return r == RegionInside || r == RegionOutside || r == RegionCourier
}

// OrderStatus is the lifecycle state of an order.
type OrderStatus string

const (
	OrderPending   OrderStatus = "pending"
	OrderPaid      OrderStatus = "paid"
	OrderCancelled OrderStatus = "cancelled"
)

// OrderSource records which entry point produced the order.
type OrderSource string

const (
	SourceStorefront       OrderSource = "storefront"
	SourceManualOrder      OrderSource = "manual_order"
	SourceManualEnrollment OrderSource = "manual_enrollment"
)

// Customer is the contact and shipping block entered at checkout.
type Customer struct {
	Name     string `json:"name" validate:"required,notblank,max=255"`
	Email    string `json:"email" validate:"omitempty,email,max=255"`
	Phone    string `json:"phone" validate:"required,bdphone"`
	Address  string `json:"address" validate:"required,notblank,max=500"`
	Thana    string `json:"thana" validate:"required,notblank,max=255"`
	District string `json:"district" validate:"required,notblank,max=255"`
	Division string `json:"division" validate:"required,notblank,max=255"`
}

// PromoTerms are the normalized discount terms of an applicable promo.
type PromoTerms struct {
	DiscountType      DiscountType    `json:"discount_type"`
	DiscountValue     decimal.Decimal `json:"discount_value"`
	MaxDiscountAmount money.Money     `json:"max_discount_amount"`
	MinPurchaseAmount money.Money     `json:"min_purchase_amount"`
}

// AppliedPromo ties terms to the promo they came from. Manual entries carry
// terms without a stored promo, in which case PromoID is zero.
type AppliedPromo struct {
	PromoID int64      `json:"promo_id,omitempty"`
	Code    string     `json:"code,omitempty"`
	Terms   PromoTerms `json:"terms"`
}

// Pricing is the computed monetary breakdown of a cart line.
// Total = Subtotal - DiscountAmount + DeliveryFee.
type Pricing struct {
	Quantity       int         `json:"quantity"`
	Subtotal       money.Money `json:"subtotal"`
	DiscountAmount money.Money `json:"discount_amount"`
	DeliveryFee    money.Money `json:"delivery_fee"`
	Total          money.Money `json:"total"`
}

// Order is a finalized, submission-ready order.
type Order struct {
	ID            string        `json:"id"`
	TransactionID string        `json:"transaction_id"`
	Source        OrderSource   `json:"source"`
	Customer      Customer      `json:"customer"`
	Line          CartLine      `json:"line"`
	AppliedPromo  *AppliedPromo `json:"applied_promo,omitempty"`
	Pricing       Pricing       `json:"pricing"`
	PaymentMethod PaymentMethod `json:"payment_method"`
	Region        Region        `json:"region,omitempty"`
	Status        OrderStatus   `json:"status"`
	CreatedAt     time.Time     `json:"created_at"`
}
