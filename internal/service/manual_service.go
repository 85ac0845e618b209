package service

import (
	"context"
	"errors"

	"github.com/rs/zerolog/log"

	"github.com/fairyhunter13/edu-checkout/internal/checkout"
	"github.com/fairyhunter13/edu-checkout/internal/delivery"
	"github.com/fairyhunter13/edu-checkout/internal/model"
	"github.com/fairyhunter13/edu-checkout/internal/money"
	"github.com/fairyhunter13/edu-checkout/internal/order"
	"github.com/fairyhunter13/edu-checkout/internal/promo"
	"github.com/fairyhunter13/edu-checkout/internal/validator"
)

// ManualEntryService backs the back-office manual order (books) and manual
// enrollment (courses) tools. Staff enter price and discount fields directly;
// they are normalized with the same term rules as stored promos and priced by
// the same calculator.
type ManualEntryService struct {
	products  checkout.ProductFetcher
	assembler checkout.Assembler
	submitter checkout.Submitter
}

// NewManualEntryService creates a new ManualEntryService.
func NewManualEntryService(products checkout.ProductFetcher, assembler checkout.Assembler, submitter checkout.Submitter) *ManualEntryService {
	return &ManualEntryService{products: products, assembler: assembler, submitter: submitter}
}

// CreateOrder records a manual book order.
func (s *ManualEntryService) CreateOrder(ctx context.Context, req *model.ManualEntryRequest) (*model.Order, error) {
	return s.create(ctx, req, model.KindBook, model.SourceManualOrder)
}

// CreateEnrollment records a manual course enrollment. Region is ignored.
func (s *ManualEntryService) CreateEnrollment(ctx context.Context, req *model.ManualEntryRequest) (*model.Order, error) {
	return s.create(ctx, req, model.KindCourse, model.SourceManualEnrollment)
}

func (s *ManualEntryService) create(ctx context.Context, req *model.ManualEntryRequest, kind model.Kind, source model.OrderSource) (*model.Order, error) {
	if req == nil {
		return nil, ErrInvalidRequest
	}

	product, err := s.products.GetProduct(ctx, req.ProductID)
	if err != nil {
		return nil, err
	}
	if product.Kind != kind {
		return nil, ErrWrongProductKind
	}

	var errs validator.FieldErrors
	line := model.CartLine{Product: *product, Quantity: req.Quantity}
	if req.UnitPrice != nil {
		switch {
		case *req.UnitPrice < 0:
			errs.Add("unit_price", "must not be negative")
		case !req.UnitPrice.InRange():
			errs.Add("unit_price", "exceeds the maximum amount of "+money.MaxAmount.String())
		default:
			line.Product.UnitPrice = *req.UnitPrice
		}
	}

	var applied *model.AppliedPromo
	switch {
	case req.DiscountType != "":
		terms, termErrs := promo.NormalizeTerms(req.DiscountType, req.DiscountValue, req.MaxDiscountAmount)
		errs = append(errs, termErrs...)
		applied = &model.AppliedPromo{Terms: terms}
	case req.DiscountValue != nil || req.MaxDiscountAmount != nil:
		errs.Add("discount_type", "is required when a discount is given")
	}

	sel := delivery.Selection{Method: req.PaymentMethod}
	if kind == model.KindBook {
		sel.Region = req.Region
	}

	o, err := s.assembler.Assemble(order.Request{
		Source:   source,
		Customer: req.Customer,
		Line:     line,
		Promo:    applied,
		Delivery: sel,
	})
	if err != nil {
		var fe validator.FieldErrors
		if !errors.As(pricingError(err), &fe) {
			if len(errs) > 0 {
				return nil, errs
			}
			return nil, err
		}
		errs = append(errs, fe...)
	}
	if err := errs.Err(); err != nil {
		return nil, err
	}

	if err := s.submitter.Submit(ctx, o); err != nil {
		return nil, err
	}

	log.Info().
		Str("order_id", o.ID).
		Str("source", string(source)).
		Bool("price_override", req.UnitPrice != nil).
		Msg("manual entry recorded")
	return o, nil
}
