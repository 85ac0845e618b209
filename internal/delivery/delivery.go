// Package delivery maps a product kind and the customer's payment and region
// choice to a delivery fee. Only books are shipped; courses never pay delivery.
package delivery

import (
	"errors"
	"fmt"

	"github.com/fairyhunter13/edu-checkout/internal/model"
	"github.com/fairyhunter13/edu-checkout/internal/money"
)

var (
	// ErrUnknownPaymentMethod is returned for a payment method the selector does not know.
	ErrUnknownPaymentMethod = errors.New("unknown payment method")

	// ErrRegionRequired is returned when cash on delivery is chosen without a region.
	ErrRegionRequired = errors.New("delivery region is required for cash on delivery")

	// ErrUnknownRegion is returned for a region the selector does not know.
	ErrUnknownRegion = errors.New("unknown delivery region")
)

// Fees is the flat fee table.
type Fees struct {
	InsideRegion  money.Money `yaml:"inside_region"`
	OutsideRegion money.Money `yaml:"outside_region"`
	Courier       money.Money `yaml:"courier_channel"`
}

// Validate checks the table invariants: no negative fee, and shipping outside
// the region costs strictly more than inside.
func (f Fees) Validate() error {
	if f.InsideRegion < 0 || f.OutsideRegion < 0 || f.Courier < 0 {
		return errors.New("delivery fees must not be negative")
	}
	if !f.InsideRegion.InRange() || !f.OutsideRegion.InRange() || !f.Courier.InRange() {
		return fmt.Errorf("delivery fees must not exceed %s", money.MaxAmount)
	}
	if f.OutsideRegion <= f.InsideRegion {
		return fmt.Errorf("outside region fee %s must be greater than inside region fee %s",
			f.OutsideRegion, f.InsideRegion)
	}
	return nil
}

// Selection is the customer's payment and delivery choice.
type Selection struct {
	Method model.PaymentMethod `json:"payment_method"`
	Region model.Region        `json:"region"`
}

// Selector resolves delivery fees from a fee table.
type Selector struct {
	fees Fees
}

// NewSelector creates a Selector after validating the fee table.
func NewSelector(fees Fees) (*Selector, error) {
	if err := fees.Validate(); err != nil {
		return nil, err
	}
	return &Selector{fees: fees}, nil
}

// Fees returns the configured fee table.
func (s *Selector) Fees() Fees {
	return s.fees
}

// Fee returns the delivery fee for the given product kind and selection.
//
// Courses are always free. For books, the online gateway ships through the
// courier channel regardless of region; cash on delivery is priced by region,
// and an explicit courier_channel region uses the courier fee.
func (s *Selector) Fee(kind model.Kind, sel Selection) (money.Money, error) {
	if kind != model.KindBook {
		return money.Zero, nil
	}

	switch sel.Method {
	case model.PaymentOnlineGateway:
		return s.fees.Courier, nil
	case model.PaymentCashOnDelivery:
		switch sel.Region {
		case model.RegionInside:
			return s.fees.InsideRegion, nil
		case model.RegionOutside:
			return s.fees.OutsideRegion, nil
		case model.RegionCourier:
			return s.fees.Courier, nil
		case "":
			return money.Zero, ErrRegionRequired
		default:
			return money.Zero, fmt.Errorf("%w: %q", ErrUnknownRegion, sel.Region)
		}
	default:
		return money.Zero, fmt.Errorf("%w: %q", ErrUnknownPaymentMethod, sel.Method)
	}
}

// Method describes how the order will reach the customer, for order payloads.
func Method(kind model.Kind, sel Selection) string {
	if kind != model.KindBook {
		return "none"
	}
	if sel.Method == model.PaymentOnlineGateway {
		return string(model.RegionCourier)
	}
	return string(sel.Region)
}
