package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/fairyhunter13/edu-checkout/internal/model"
	"github.com/fairyhunter13/edu-checkout/internal/pricing"
	"github.com/fairyhunter13/edu-checkout/internal/promo"
	"github.com/fairyhunter13/edu-checkout/internal/validator"
)

// PromoRepositoryInterface defines the interface for promo code data access.
type PromoRepositoryInterface interface {
	Insert(ctx context.Context, p *model.PromoCode) error
	Update(ctx context.Context, code string, p *model.PromoCode) error
	SetStatus(ctx context.Context, code string, status model.PromoStatus) (*model.PromoCode, error)
	GetByCode(ctx context.Context, code string) (*model.PromoCode, error)
	List(ctx context.Context, status model.PromoStatus) ([]model.PromoCode, error)
}

// PromoService provides the admin promo editor and the storefront promo check.
type PromoService struct {
	promos    PromoRepositoryInterface
	products  ProductRepositoryInterface
	validator *promo.Validator
	metrics   MetricsRecorder
	now       func() time.Time
}

// NewPromoService creates a new PromoService.
func NewPromoService(promos PromoRepositoryInterface, products ProductRepositoryInterface, metrics MetricsRecorder) *PromoService {
	if metrics == nil {
		metrics = nopRecorder{}
	}
	return &PromoService{
		promos:    promos,
		products:  products,
		validator: promo.NewValidator(promos),
		metrics:   metrics,
		now:       time.Now,
	}
}

// Validator returns the promo validator backed by this service's registry.
func (s *PromoService) Validator() *promo.Validator {
	return s.validator
}

// Create stores a new promo code.
// Returns validator.FieldErrors for invalid input and ErrPromoExists for a taken code.
func (s *PromoService) Create(ctx context.Context, req *model.PromoRequest) (*model.PromoCode, error) {
	p, err := s.prepare(ctx, req)
	if err != nil {
		return nil, err
	}
	if err := s.promos.Insert(ctx, p); err != nil {
		return nil, err
	}

	log.Info().Str("code", p.Code).Str("discount_type", string(p.DiscountType)).Msg("promo created")
	return p, nil
}

// Update replaces the promo stored under code.
// Returns ErrPromoNotFound if it doesn't exist.
func (s *PromoService) Update(ctx context.Context, code string, req *model.PromoRequest) (*model.PromoCode, error) {
	p, err := s.prepare(ctx, req)
	if err != nil {
		return nil, err
	}
	if err := s.promos.Update(ctx, promo.NormalizeCode(code), p); err != nil {
		return nil, err
	}

	log.Info().Str("code", p.Code).Msg("promo updated")
	return p, nil
}

// SetStatus activates or deactivates a promo.
func (s *PromoService) SetStatus(ctx context.Context, code string, status model.PromoStatus) (*model.PromoCode, error) {
	if !status.Valid() {
		return nil, ErrInvalidRequest
	}
	p, err := s.promos.SetStatus(ctx, promo.NormalizeCode(code), status)
	if err != nil {
		return nil, err
	}

	log.Info().Str("code", p.Code).Str("status", string(status)).Msg("promo status changed")
	return p, nil
}

// Get retrieves a promo by code, case-insensitively.
// Returns ErrPromoNotFound if it doesn't exist.
func (s *PromoService) Get(ctx context.Context, code string) (*model.PromoCode, error) {
	p, err := s.promos.GetByCode(ctx, promo.NormalizeCode(code))
	if err != nil {
		return nil, fmt.Errorf("get promo: %w", err)
	}
	if p == nil {
		return nil, ErrPromoNotFound
	}
	return p, nil
}

// List returns stored promos, optionally filtered by status.
func (s *PromoService) List(ctx context.Context, status model.PromoStatus) ([]model.PromoCode, error) {
	if status != "" && !status.Valid() {
		return nil, ErrInvalidRequest
	}
	promos, err := s.promos.List(ctx, status)
	if err != nil {
		return nil, fmt.Errorf("list promos: %w", err)
	}
	return promos, nil
}

// Validate checks a code for the storefront.
//
// When neither a subtotal nor a product is given, the minimum purchase is not
// checked here; the terms carry it and pricing applies it to the real subtotal.
// Rejections are returned as *promo.RejectionError.
func (s *PromoService) Validate(ctx context.Context, req *model.PromoValidationRequest) (*model.PromoValidationResponse, error) {
	if req == nil {
		return nil, ErrInvalidRequest
	}

	in := promo.Input{Code: req.PromoCode, Kind: req.AppliesTo, ProductID: req.ProductID, Now: s.now()}

	p, err := s.validator.Lookup(ctx, req.PromoCode)
	if err == nil && req.ProductID != "" {
		err = s.resolveProduct(ctx, &in)
	}
	if err == nil {
		switch {
		case req.Subtotal != nil:
			in.Subtotal = *req.Subtotal
		case req.ProductID == "":
			in.Subtotal = p.MinPurchaseAmount
		}
		err = promo.Check(p, in)
	}
	if err != nil {
		var rej *promo.RejectionError
		if errors.As(err, &rej) {
			s.metrics.PromoValidated(string(rej.Reason))
		}
		return nil, err
	}

	s.metrics.PromoValidated("applied")
	return &model.PromoValidationResponse{
		Success:           true,
		Discount:          json.Number(p.DiscountValue.String()),
		DiscountType:      p.DiscountType,
		MaxDiscountAmount: p.MaxDiscountAmount,
		MinPurchaseAmount: p.MinPurchaseAmount,
	}, nil
}

// resolveProduct replaces a slug with the product id, takes the scope kind
// from the product rather than the request, and prices a single unit as the
// default subtotal.
func (s *PromoService) resolveProduct(ctx context.Context, in *promo.Input) error {
	product, err := s.products.GetByRef(ctx, in.ProductID)
	if err != nil {
		return fmt.Errorf("get product: %w", err)
	}
	if product == nil {
		return ErrProductNotFound
	}
	subtotal, err := pricing.Subtotal(product.UnitPrice, 1)
	if err != nil {
		return err
	}
	in.ProductID = product.ID
	in.Kind = product.Kind
	in.Subtotal = subtotal
	return nil
}

// prepare normalizes the request and checks the target product against the scope.
func (s *PromoService) prepare(ctx context.Context, req *model.PromoRequest) (*model.PromoCode, error) {
	if req == nil {
		return nil, ErrInvalidRequest
	}
	p, err := promo.FromRequest(req)
	if err != nil {
		return nil, err
	}
	if p.TargetID == "" {
		return p, nil
	}

	product, err := s.products.GetByRef(ctx, p.TargetID)
	if err != nil {
		return nil, fmt.Errorf("get target product: %w", err)
	}
	var errs validator.FieldErrors
	switch {
	case product == nil:
		errs.Add("target_id", "does not refer to an existing product")
	case string(product.Kind) != string(p.AppliesTo):
		errs.Add("target_id", "refers to a "+string(product.Kind)+", not a "+string(p.AppliesTo))
	default:
		p.TargetID = product.ID
	}
	if err := errs.Err(); err != nil {
		return nil, err
	}
	return p, nil
}
