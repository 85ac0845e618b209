package validator

import (
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/fairyhunter13/edu-checkout/internal/model"
	"github.com/fairyhunter13/edu-checkout/internal/money"
)

var (
	// promoCodePattern is the allowed alphabet of promo codes.
	promoCodePattern = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

	// bdPhonePattern matches Bangladeshi mobile numbers with an optional +88/88 prefix.
	bdPhonePattern = regexp.MustCompile(`^(?:\+?88)?01[3-9]\d{8}$`)
)

// IsPromoCode reports whether s only uses the promo code alphabet.
func IsPromoCode(s string) bool {
	return promoCodePattern.MatchString(s)
}

// IsBDPhone reports whether s is a valid Bangladeshi mobile number.
// Spaces and dashes are ignored.
func IsBDPhone(s string) bool {
	s = strings.NewReplacer(" ", "", "-", "").Replace(strings.TrimSpace(s))
	return bdPhonePattern.MatchString(s)
}

// Validate is the validator type returned by New.
type Validate = validator.Validate

// Struct validates s and returns every invalid field, or nil.
func Struct(v *Validate, s any) FieldErrors {
	return Translate(v.Struct(s))
}

// New creates a new validator instance with custom validations registered.
// This ensures consistent validation across the application and tests.
func New() *validator.Validate {
	v := validator.New()

	// Report fields by their JSON names so callers can highlight form inputs.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})

	// Register custom "notblank" validator - rejects whitespace-only strings
	_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		if fl.Field().Kind() != reflect.String {
			return true // Not a string, let other validators handle it
		}
		return strings.TrimSpace(fl.Field().String()) != ""
	})

	_ = v.RegisterValidation("promocode", stringRule(func(s string) bool {
		return IsPromoCode(strings.TrimSpace(s))
	}))
	_ = v.RegisterValidation("bdphone", stringRule(IsBDPhone))
	_ = v.RegisterValidation("kind", stringRule(func(s string) bool {
		return model.Kind(s).Valid()
	}))
	_ = v.RegisterValidation("scope", stringRule(func(s string) bool {
		return model.Scope(s).Valid()
	}))
	_ = v.RegisterValidation("discounttype", stringRule(func(s string) bool {
		return model.DiscountType(s).Valid()
	}))
	_ = v.RegisterValidation("promostatus", stringRule(func(s string) bool {
		return model.PromoStatus(s).Valid()
	}))
	_ = v.RegisterValidation("paymentmethod", stringRule(func(s string) bool {
		return model.PaymentMethod(s).Valid()
	}))
	_ = v.RegisterValidation("region", stringRule(func(s string) bool {
		return model.Region(s).Valid()
	}))
	_ = v.RegisterValidation("maxamount", func(fl validator.FieldLevel) bool {
		if fl.Field().Kind() != reflect.Int64 {
			return false
		}
		return money.Money(fl.Field().Int()).InRange()
	})

	return v
}

// stringRule adapts a string predicate to a validator.Func that works for
// named string types such as model.Kind.
func stringRule(ok func(string) bool) validator.Func {
	return func(fl validator.FieldLevel) bool {
		if fl.Field().Kind() != reflect.String {
			return false
		}
		return ok(fl.Field().String())
	}
}
