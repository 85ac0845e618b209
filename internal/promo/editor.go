package promo

import (
	"github.com/shopspring/decimal"

	"github.com/fairyhunter13/edu-checkout/internal/model"
	"github.com/fairyhunter13/edu-checkout/internal/money"
	"github.com/fairyhunter13/edu-checkout/internal/validator"
)

var maxPercentage = decimal.NewFromInt(100)

var exceedsMaximum = "exceeds the maximum amount of " + money.MaxAmount.String()

// NormalizeTerms enforces the discount term invariants shared by stored promos
// and manually entered discounts:
//   - percentage: value in [0, 100] and a non-negative cap must be given
//   - fixed: value >= 0, and the cap is the fixed amount itself
func NormalizeTerms(dt model.DiscountType, value *decimal.Decimal, maxDiscount *money.Money) (model.PromoTerms, validator.FieldErrors) {
	var errs validator.FieldErrors
	terms := model.PromoTerms{DiscountType: dt}

	if value == nil {
		errs.Add("discount_value", "is required")
		return terms, errs
	}
	terms.DiscountValue = *value

	switch dt {
	case model.DiscountPercentage:
		if value.IsNegative() || value.GreaterThan(maxPercentage) {
			errs.Add("discount_value", "must be between 0 and 100")
		}
		switch {
		case maxDiscount == nil:
			errs.Add("max_discount_amount", "is required for percentage discounts")
		case *maxDiscount < 0:
			errs.Add("max_discount_amount", "must not be negative")
		case !maxDiscount.InRange():
			errs.Add("max_discount_amount", exceedsMaximum)
		default:
			terms.MaxDiscountAmount = *maxDiscount
		}
	case model.DiscountFixed:
		amount, err := money.FromDecimal(*value)
		switch {
		case value.IsNegative():
			errs.Add("discount_value", "must not be negative")
		case err != nil || !amount.InRange():
			errs.Add("discount_value", exceedsMaximum)
		default:
			terms.MaxDiscountAmount = amount
		}
	default:
		errs.Add("discount_type", "must be one of: percentage, fixed")
	}

	return terms, errs
}

// FromRequest builds a promo record from an admin create/update request.
// It normalizes the code, clears the target of store-wide promos and applies
// the term invariants once, so stored records never need patching on read.
func FromRequest(req *model.PromoRequest) (*model.PromoCode, error) {
	var errs validator.FieldErrors

	code := NormalizeCode(req.Code)
	if !validator.IsPromoCode(code) {
		errs.Add("code", "may only contain letters, digits, '_' and '-'")
	}

	terms, termErrs := NormalizeTerms(req.DiscountType, req.DiscountValue, req.MaxDiscountAmount)
	errs = append(errs, termErrs...)

	minPurchase := money.Zero
	if req.MinPurchaseAmount != nil {
		minPurchase = *req.MinPurchaseAmount
		switch {
		case minPurchase < 0:
			errs.Add("min_purchase_amount", "must not be negative")
		case !minPurchase.InRange():
			errs.Add("min_purchase_amount", exceedsMaximum)
		}
	}

	if req.ExpiryDate == nil || req.ExpiryDate.IsZero() {
		errs.Add("expiry_date", "is required")
	}

	status := req.Status
	if status == "" {
		status = model.PromoActive
	}

	if err := errs.Err(); err != nil {
		return nil, err
	}

	p := &model.PromoCode{
		Code:              code,
		AppliesTo:         req.AppliesTo,
		DiscountType:      terms.DiscountType,
		DiscountValue:     terms.DiscountValue,
		MaxDiscountAmount: terms.MaxDiscountAmount,
		MinPurchaseAmount: minPurchase,
		ExpiryDate:        req.ExpiryDate.UTC(),
		Status:            status,
	}
	if req.AppliesTo != model.ScopeAll {
		p.TargetID = req.TargetID
	}
	return p, nil
}
