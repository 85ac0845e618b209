// Package order validates checkout input and turns a priced cart line into a
// submission-ready order.
package order

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/fairyhunter13/edu-checkout/internal/delivery"
	"github.com/fairyhunter13/edu-checkout/internal/model"
	"github.com/fairyhunter13/edu-checkout/internal/pricing"
	"github.com/fairyhunter13/edu-checkout/internal/validator"
)

// Pricer prices a cart line.
type Pricer interface {
	Calculate(in pricing.Input) (model.Pricing, error)
}

// Request is everything the assembler needs to produce an order.
type Request struct {
	Source   model.OrderSource
	Customer model.Customer
	Line     model.CartLine
	Promo    *model.AppliedPromo
	Delivery delivery.Selection
}

// Assembler builds orders.
type Assembler struct {
	calc     Pricer
	validate *validator.Validate
	newID    func() uuid.UUID
	now      func() time.Time
}

// Option configures an Assembler.
type Option func(*Assembler)

// WithClock overrides the clock used for CreatedAt.
func WithClock(now func() time.Time) Option {
	return func(a *Assembler) { a.now = now }
}

// WithIDGenerator overrides the generator of order and transaction ids.
func WithIDGenerator(fn func() uuid.UUID) Option {
	return func(a *Assembler) { a.newID = fn }
}

// NewAssembler creates an Assembler.
func NewAssembler(calc Pricer, validate *validator.Validate, opts ...Option) *Assembler {
	a := &Assembler{
		calc:     calc,
		validate: validate,
		newID:    uuid.New,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Assemble validates the request, prices it and returns a pending order.
// Invalid input yields validator.FieldErrors naming every invalid field.
func (a *Assembler) Assemble(req Request) (*model.Order, error) {
	customer := trimCustomer(req.Customer)

	errs := a.Validate(customer, req.Line, req.Delivery)
	if err := errs.Err(); err != nil {
		return nil, err
	}

	var terms *model.PromoTerms
	if req.Promo != nil {
		terms = &req.Promo.Terms
	}

	priced, err := a.calc.Calculate(pricing.Input{
		Kind:      req.Line.Product.Kind,
		UnitPrice: req.Line.Product.UnitPrice,
		Quantity:  req.Line.Quantity,
		Terms:     terms,
		Delivery:  req.Delivery,
	})
	if err != nil {
		return nil, fmt.Errorf("price order: %w", err)
	}

	line := req.Line
	line.Quantity = priced.Quantity

	region := req.Delivery.Region
	if !line.Product.HasDelivery() {
		region = ""
	}

	return &model.Order{
		ID:            a.newID().String(),
		TransactionID: "txn_" + strings.ReplaceAll(a.newID().String(), "-", ""),
		Source:        req.Source,
		Customer:      customer,
		Line:          line,
		AppliedPromo:  req.Promo,
		Pricing:       priced,
		PaymentMethod: req.Delivery.Method,
		Region:        region,
		Status:        model.OrderPending,
		CreatedAt:     a.now().UTC(),
	}, nil
}

// Validate checks the customer block, the cart line and the delivery choice.
// Customer fields are reported with a "customer." prefix.
func (a *Assembler) Validate(customer model.Customer, line model.CartLine, sel delivery.Selection) validator.FieldErrors {
	var errs validator.FieldErrors

	for _, fe := range validator.Struct(a.validate, customer) {
		errs.Add("customer."+fe.Field, fe.Message)
	}

	if strings.TrimSpace(line.Product.ID) == "" {
		errs.Add("product_id", "is required")
	}
	if !line.Product.Kind.Valid() {
		errs.Add("product_id", "refers to a product of unknown kind")
	}

	if line.Product.HasDelivery() {
		qty := pricing.ClampQuantity(line.Quantity)
		if stock := line.Product.Stock; stock != nil {
			switch {
			case *stock <= 0:
				errs.Add("quantity", "product is out of stock")
			case qty > *stock:
				errs.Add("quantity", fmt.Sprintf("exceeds available stock of %d", *stock))
			}
		}
	}

	if !sel.Method.Valid() {
		errs.Add("payment_method", "must be one of: cash_on_delivery, online_gateway")
	} else if line.Product.HasDelivery() && sel.Method == model.PaymentCashOnDelivery {
		switch {
		case sel.Region == "":
			errs.Add("region", "is required for cash on delivery")
		case !sel.Region.Valid():
			errs.Add("region", "must be one of: inside_region, outside_region, courier_channel")
		}
	}

	return errs
}

func trimCustomer(c model.Customer) model.Customer {
	c.Name = strings.TrimSpace(c.Name)
	c.Email = strings.TrimSpace(c.Email)
	c.Phone = strings.TrimSpace(c.Phone)
	c.Address = strings.TrimSpace(c.Address)
	c.Thana = strings.TrimSpace(c.Thana)
	c.District = strings.TrimSpace(c.District)
	c.Division = strings.TrimSpace(c.Division)
	return c
}
