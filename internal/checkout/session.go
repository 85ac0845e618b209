// Package checkout drives a single checkout: product load, quantity and
// delivery edits, promo application and the final order submission.
package checkout

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/fairyhunter13/edu-checkout/internal/delivery"
	"github.com/fairyhunter13/edu-checkout/internal/model"
	"github.com/fairyhunter13/edu-checkout/internal/money"
	"github.com/fairyhunter13/edu-checkout/internal/order"
	"github.com/fairyhunter13/edu-checkout/internal/pricing"
	"github.com/fairyhunter13/edu-checkout/internal/promo"
)

// State is the position of a session in the checkout flow.
type State string

const (
	StateLoading       State = "loading"
	StateProductLoaded State = "product_loaded"
	StatePromoApplied  State = "promo_applied"
	StatePromoRejected State = "promo_rejected"
	StateSubmitting    State = "submitting"
	StateSubmitted     State = "submitted"
	StateFailed        State = "failed"
)

var (
	// ErrNotReady is returned when an action needs a loaded product.
	ErrNotReady = errors.New("checkout session has no product loaded")

	// ErrSubmitInFlight is returned when Submit is called while a submission is pending.
	ErrSubmitInFlight = errors.New("order submission already in progress")

	// ErrAlreadySubmitted is returned when Submit is called after a successful submission.
	ErrAlreadySubmitted = errors.New("order already submitted")
)

// ProductFetcher loads a product by id or slug.
type ProductFetcher interface {
	GetProduct(ctx context.Context, ref string) (*model.Product, error)
}

// PromoValidator checks a promo code against the cart.
type PromoValidator interface {
	Validate(ctx context.Context, in promo.Input) (*model.PromoCode, model.PromoTerms, error)
}

// Assembler turns the session into an order.
type Assembler interface {
	Assemble(req order.Request) (*model.Order, error)
}

// Submitter performs the single atomic order creation call.
type Submitter interface {
	Submit(ctx context.Context, o *model.Order) error
}

// Deps are the collaborators of a session.
type Deps struct {
	Products   ProductFetcher
	Promos     PromoValidator
	Calculator order.Pricer
	Assembler  Assembler
	Submitter  Submitter
	Now        func() time.Time
}

// Session is one customer's checkout. It is not safe for concurrent use.
type Session struct {
	deps Deps

	state     State
	product   *model.Product
	quantity  int
	delivery  delivery.Selection
	applied   *model.AppliedPromo
	rejection *promo.RejectionError
	order     *model.Order
	err       error
}

// Open starts a session and loads the product. On fetch failure the returned
// session is in StateFailed and the error is also returned; there is no retry,
// the caller opens a new session instead.
func Open(ctx context.Context, deps Deps, ref string) (*Session, error) {
	if deps.Now == nil {
		deps.Now = time.Now
	}
	s := &Session{deps: deps, state: StateLoading, quantity: pricing.MinQuantity}

	p, err := deps.Products.GetProduct(ctx, ref)
	if err != nil {
		s.fail(fmt.Errorf("load product: %w", err))
		return s, s.err
	}
	s.product = p
	s.state = StateProductLoaded
	return s, nil
}

// State returns the current state.
func (s *Session) State() State { return s.state }

// Err returns the failure of the last load or submission, if any.
func (s *Session) Err() error { return s.err }

// Product returns the loaded product, or nil.
func (s *Session) Product() *model.Product { return s.product }

// Quantity returns the effective quantity.
func (s *Session) Quantity() int { return s.quantity }

// Delivery returns the current payment and delivery choice.
func (s *Session) Delivery() delivery.Selection { return s.delivery }

// AppliedPromo returns the applied promo, or nil.
func (s *Session) AppliedPromo() *model.AppliedPromo { return s.applied }

// Rejection returns the reason the last promo code was rejected, or nil.
func (s *Session) Rejection() *promo.RejectionError { return s.rejection }

// Order returns the submitted order, or nil.
func (s *Session) Order() *model.Order { return s.order }

// SetQuantity changes the quantity of a book, clamped to the allowed range.
// Courses always keep quantity 1.
func (s *Session) SetQuantity(q int) {
	if s.product == nil || !s.product.HasDelivery() {
		return
	}
	s.quantity = pricing.ClampQuantity(q)
}

// SetDelivery changes the payment and delivery choice.
func (s *Session) SetDelivery(sel delivery.Selection) {
	s.delivery = sel
}

// Subtotal is the current subtotal before discount and delivery.
func (s *Session) Subtotal() (money.Money, error) {
	if s.product == nil {
		return money.Zero, ErrNotReady
	}
	return pricing.Subtotal(s.product.UnitPrice, pricing.EffectiveQuantity(s.product.Kind, s.quantity))
}

// ApplyPromo validates code against the current subtotal.
//
// An applicable code caches its terms and moves the session to
// StatePromoApplied. A rejection clears any previously applied promo, moves
// to StatePromoRejected and returns the *promo.RejectionError. Registry
// failures leave the session untouched.
func (s *Session) ApplyPromo(ctx context.Context, code string) error {
	if err := s.editable(); err != nil {
		return err
	}
	sub, err := s.Subtotal()
	if err != nil {
		return err
	}

	p, terms, err := s.deps.Promos.Validate(ctx, promo.Input{
		Code:      code,
		Subtotal:  sub,
		Kind:      s.product.Kind,
		ProductID: s.product.ID,
		Now:       s.deps.Now(),
	})
	if err != nil {
		var rej *promo.RejectionError
		if !errors.As(err, &rej) {
			return err
		}
		s.applied = nil
		s.rejection = rej
		s.state = StatePromoRejected
		return err
	}

	s.applied = &model.AppliedPromo{PromoID: p.ID, Code: p.Code, Terms: terms}
	s.rejection = nil
	s.state = StatePromoApplied
	return nil
}

// ClearPromo removes the applied promo or the last rejection.
func (s *Session) ClearPromo() {
	if s.editable() != nil {
		return
	}
	s.applied = nil
	s.rejection = nil
	s.state = StateProductLoaded
}

// Pricing derives the current pricing from the cached promo terms and the
// live quantity and delivery choice.
func (s *Session) Pricing() (model.Pricing, error) {
	if s.product == nil {
		return model.Pricing{}, ErrNotReady
	}
	var terms *model.PromoTerms
	if s.applied != nil {
		terms = &s.applied.Terms
	}
	return s.deps.Calculator.Calculate(pricing.Input{
		Kind:      s.product.Kind,
		UnitPrice: s.product.UnitPrice,
		Quantity:  s.quantity,
		Terms:     terms,
		Delivery:  s.delivery,
	})
}

// Quote summarizes the session for display.
func (s *Session) Quote() (model.QuoteResponse, error) {
	priced, err := s.Pricing()
	if err != nil {
		return model.QuoteResponse{}, err
	}

	q := model.QuoteResponse{
		State:         string(s.state),
		Product:       *s.product,
		PaymentMethod: s.delivery.Method,
		Pricing:       priced,
		AppliedPromo:  s.applied,
	}
	if s.product.HasDelivery() {
		q.Region = s.delivery.Region
	}
	if s.rejection != nil {
		q.PromoRejection = Rejection(s.rejection)
	}
	return q, nil
}

// Submit assembles the order and hands it to the submitter.
//
// Field errors are returned without changing state so the customer can fix
// them. A failed submission moves to StateFailed and may be retried by
// calling Submit again.
func (s *Session) Submit(ctx context.Context, source model.OrderSource, customer model.Customer) (*model.Order, error) {
	switch s.state {
	case StateSubmitting:
		return nil, ErrSubmitInFlight
	case StateSubmitted:
		return nil, ErrAlreadySubmitted
	}
	if s.product == nil {
		return nil, ErrNotReady
	}

	o, err := s.deps.Assembler.Assemble(order.Request{
		Source:   source,
		Customer: customer,
		Line:     model.CartLine{Product: *s.product, Quantity: s.quantity},
		Promo:    s.applied,
		Delivery: s.delivery,
	})
	if err != nil {
		return nil, err
	}

	s.state = StateSubmitting
	if err := s.deps.Submitter.Submit(ctx, o); err != nil {
		s.fail(fmt.Errorf("submit order: %w", err))
		return nil, s.err
	}

	s.order = o
	s.err = nil
	s.state = StateSubmitted
	return o, nil
}

// Rejection converts a promo rejection to its wire form.
func Rejection(rej *promo.RejectionError) *model.PromoRejection {
	out := &model.PromoRejection{
		Code:    "PROMO_" + strings.ToUpper(string(rej.Reason)),
		Reason:  string(rej.Reason),
		Message: rej.Message(),
	}
	if rej.Reason == promo.ReasonMinPurchaseNotMet {
		required := rej.Required
		out.Required = &required
	}
	return out
}

func (s *Session) editable() error {
	switch s.state {
	case StateSubmitting:
		return ErrSubmitInFlight
	case StateSubmitted:
		return ErrAlreadySubmitted
	}
	if s.product == nil {
		return ErrNotReady
	}
	return nil
}

func (s *Session) fail(err error) {
	s.err = err
	s.state = StateFailed
}
