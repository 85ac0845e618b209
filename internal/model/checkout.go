package model

import (
	"github.com/shopspring/decimal"

	"github.com/fairyhunter13/edu-checkout/internal/money"
)

// CheckoutRequest carries the cart selection shared by quote and order placement.
type CheckoutRequest struct {
	ProductID     string        `json:"product_id" validate:"required,notblank,max=255"`
	Quantity      int           `json:"quantity"`
	PromoCode     string        `json:"promo_code" validate:"max=64"`
	PaymentMethod PaymentMethod `json:"payment_method" validate:"required,paymentmethod"`
	Region        Region        `json:"region" validate:"omitempty,region"`
}

// PlaceOrderRequest is the storefront order submission.
// Customer fields are validated by the order assembler so every invalid
// field is reported at once.
type PlaceOrderRequest struct {
	CheckoutRequest
	Customer Customer `json:"customer" validate:"-"`
}

// ManualEntryRequest is used by the back-office manual order and manual
// enrollment tools. Price and discount fields are entered directly instead of
// going through promo validation.
type ManualEntryRequest struct {
	ProductID         string           `json:"product_id" validate:"required,notblank,max=255"`
	UnitPrice         *money.Money     `json:"unit_price" validate:"omitempty,maxamount"`
	Quantity          int              `json:"quantity"`
	DiscountType      DiscountType     `json:"discount_type" validate:"omitempty,discounttype"`
	DiscountValue     *decimal.Decimal `json:"discount_value"`
	MaxDiscountAmount *money.Money     `json:"max_discount_amount" validate:"omitempty,maxamount"`
	PaymentMethod     PaymentMethod    `json:"payment_method" validate:"required,paymentmethod"`
	Region            Region           `json:"region" validate:"omitempty,region"`
	Customer          Customer         `json:"customer" validate:"-"`
}

// PromoRejection describes why a promo code could not be applied.
type PromoRejection struct {
	Code     string       `json:"code"`
	Reason   string       `json:"reason"`
	Message  string       `json:"message"`
	Required *money.Money `json:"required,omitempty"`
}

// QuoteResponse is the priced view of a checkout session before submission.
type QuoteResponse struct {
	State          string          `json:"state"`
	Product        Product         `json:"product"`
	PaymentMethod  PaymentMethod   `json:"payment_method"`
	Region         Region          `json:"region,omitempty"`
	Pricing        Pricing         `json:"pricing"`
	AppliedPromo   *AppliedPromo   `json:"applied_promo,omitempty"`
	PromoRejection *PromoRejection `json:"promo_rejection,omitempty"`
}

// OrderPayload is the body handed to the external order-creation and payment side.
type OrderPayload struct {
	Amount          money.Money     `json:"amount"`
	TransactionID   string          `json:"transaction_id"`
	MaterialType    Kind            `json:"material_type"`
	DeliveryType    string          `json:"delivery_type"`
	PaymentMethod   PaymentMethod   `json:"payment_method"`
	Customer        PayloadCustomer `json:"customer"`
	MaterialDetails MaterialDetails `json:"material_details"`
}

// PayloadCustomer is the customer block of OrderPayload.
type PayloadCustomer struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Address string `json:"address"`
	Phone   string `json:"phone"`
}

// MaterialDetails is the product and pricing block of OrderPayload.
type MaterialDetails struct {
	ProductID      string      `json:"product_id"`
	ProductName    string      `json:"product_name"`
	Price          money.Money `json:"price"`
	Discount       money.Money `json:"discount"`
	Quantity       int         `json:"quantity"`
	PromoCode      string      `json:"promo_code,omitempty"`
	PromoID        int64       `json:"promo_id,omitempty"`
	DeliveryFee    money.Money `json:"delivery_fee"`
	DeliveryMethod string      `json:"delivery_method"`
	Subtotal       money.Money `json:"subtotal"`
	Total          money.Money `json:"total"`
	Status         OrderStatus `json:"status"`
}
