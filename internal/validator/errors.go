package validator

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/fairyhunter13/edu-checkout/internal/money"
)

// FieldError is a single invalid input field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// FieldErrors lists every invalid field of a request. It is never collapsed
// into a single message so the caller can highlight all fields at once.
type FieldErrors []FieldError

// Error implements error.
func (fe FieldErrors) Error() string {
	names := make([]string, 0, len(fe))
	for _, e := range fe {
		names = append(names, e.Field)
	}
	return "invalid fields: " + strings.Join(names, ", ")
}

// Add appends a field error.
func (fe *FieldErrors) Add(field, message string) {
	*fe = append(*fe, FieldError{Field: field, Message: message})
}

// Has reports whether field has at least one error.
func (fe FieldErrors) Has(field string) bool {
	for _, e := range fe {
		if e.Field == field {
			return true
		}
	}
	return false
}

// Err returns fe as an error, or nil when it is empty.
func (fe FieldErrors) Err() error {
	if len(fe) == 0 {
		return nil
	}
	return fe
}

// Translate converts validator errors into FieldErrors, one entry per field.
// Errors that are not validator.ValidationErrors yield a single "request" entry.
func Translate(err error) FieldErrors {
	if err == nil {
		return nil
	}

	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return FieldErrors{{Field: "request", Message: "is invalid"}}
	}

	out := make(FieldErrors, 0, len(ve))
	for _, fe := range ve {
		out.Add(fe.Field(), message(fe))
	}
	return out
}

// message converts a single validator error into a user-facing message.
func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "notblank":
		return "cannot be whitespace only"
	case "max":
		return "exceeds maximum length of " + fe.Param()
	case "email":
		return "must be a valid email address"
	case "bdphone":
		return "must be a valid Bangladeshi mobile number"
	case "promocode":
		return "may only contain letters, digits, '_' and '-'"
	case "kind":
		return "must be one of: book, course"
	case "scope":
		return "must be one of: all, book, course"
	case "discounttype":
		return "must be one of: percentage, fixed"
	case "promostatus":
		return "must be one of: active, inactive"
	case "paymentmethod":
		return "must be one of: cash_on_delivery, online_gateway"
	case "region":
		return "must be one of: inside_region, outside_region, courier_channel"
	case "maxamount":
		return "exceeds the maximum amount of " + money.MaxAmount.String()
	default:
		return "is invalid"
	}
}
