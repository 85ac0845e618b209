// Package pricing turns a cart line, optional promo terms and a delivery
// selection into a PricingResult. Every entry point (storefront checkout,
// admin tools, manual entry) prices through this package.
package pricing

import (
	"github.com/shopspring/decimal"

	"github.com/fairyhunter13/edu-checkout/internal/delivery"
	"github.com/fairyhunter13/edu-checkout/internal/model"
	"github.com/fairyhunter13/edu-checkout/internal/money"
)

const (
	// MinQuantity and MaxQuantity bound the effective quantity of a cart line.
	MinQuantity = 1
	MaxQuantity = 10000
)

var hundred = decimal.NewFromInt(100)

// FeeSelector resolves the delivery fee of a selection.
type FeeSelector interface {
	Fee(kind model.Kind, sel delivery.Selection) (money.Money, error)
}

// Input is everything needed to price a single cart line.
type Input struct {
	Kind      model.Kind
	UnitPrice money.Money
	Quantity  int
	Terms     *model.PromoTerms
	Delivery  delivery.Selection
}

// Calculator prices cart lines. It holds no mutable state.
type Calculator struct {
	fees FeeSelector
}

// NewCalculator creates a Calculator using the given delivery fee selector.
func NewCalculator(fees FeeSelector) *Calculator {
	return &Calculator{fees: fees}
}

// Calculate prices the input. It fails on an invalid delivery selection for a
// book, or with money.ErrOutOfRange when the subtotal cannot be represented.
func (c *Calculator) Calculate(in Input) (model.Pricing, error) {
	fee, err := c.fees.Fee(in.Kind, in.Delivery)
	if err != nil {
		return model.Pricing{}, err
	}

	qty := EffectiveQuantity(in.Kind, in.Quantity)
	subtotal, err := Subtotal(in.UnitPrice, qty)
	if err != nil {
		return model.Pricing{}, err
	}
	discount := Discount(subtotal, in.Terms)

	return model.Pricing{
		Quantity:       qty,
		Subtotal:       subtotal,
		DiscountAmount: discount,
		DeliveryFee:    fee,
		Total:          Total(subtotal, discount, fee),
	}, nil
}

// ClampQuantity bounds q to [MinQuantity, MaxQuantity].
func ClampQuantity(q int) int {
	if q < MinQuantity {
		return MinQuantity
	}
	if q > MaxQuantity {
		return MaxQuantity
	}
	return q
}

// EffectiveQuantity is the quantity actually priced: courses are always 1,
// books are clamped.
func EffectiveQuantity(kind model.Kind, q int) int {
	if kind == model.KindCourse {
		return 1
	}
	return ClampQuantity(q)
}

// Subtotal is unit price times the clamped quantity. Unit prices above
// money.MaxAmount return money.ErrOutOfRange.
func Subtotal(unitPrice money.Money, qty int) (money.Money, error) {
	if unitPrice < 0 {
		unitPrice = 0
	}
	return unitPrice.Mul(ClampQuantity(qty))
}

// Discount derives the discount for a subtotal from promo terms.
// The result is always within [0, subtotal]. No discount is given when the
// subtotal is below the terms' minimum purchase.
func Discount(subtotal money.Money, terms *model.PromoTerms) money.Money {
	if terms == nil || subtotal <= 0 || subtotal < terms.MinPurchaseAmount {
		return money.Zero
	}

	var raw money.Money
	switch terms.DiscountType {
	case model.DiscountPercentage:
		// Percentage of minor units, rounded down so rounding never favours
		// the discount.
		pct := decimal.NewFromInt(int64(subtotal)).Mul(terms.DiscountValue).Div(hundred)
		raw = money.Money(pct.Floor().IntPart())
		raw = money.Min(raw, terms.MaxDiscountAmount)
	case model.DiscountFixed:
		var err error
		if raw, err = money.FromDecimal(terms.DiscountValue); err != nil {
			// Too large to represent, so larger than any subtotal.
			raw = subtotal
		}
	default:
		return money.Zero
	}

	return clamp(raw, money.Zero, subtotal)
}

// Total is subtotal - discount + fee, floored at zero.
func Total(subtotal, discount, fee money.Money) money.Money {
	return money.Max(subtotal-discount+fee, money.Zero)
}

func clamp(v, lo, hi money.Money) money.Money {
	return money.Max(lo, money.Min(v, hi))
}
