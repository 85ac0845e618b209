package service

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/fairyhunter13/edu-checkout/internal/checkout"
	"github.com/fairyhunter13/edu-checkout/internal/delivery"
	"github.com/fairyhunter13/edu-checkout/internal/model"
	"github.com/fairyhunter13/edu-checkout/internal/money"
	"github.com/fairyhunter13/edu-checkout/internal/order"
	"github.com/fairyhunter13/edu-checkout/internal/pricing"
	"github.com/fairyhunter13/edu-checkout/internal/validator"
)

var testNow = time.Date(2026, 4, 10, 9, 0, 0, 0, time.UTC)

// mockProductRepository is a mock implementation of ProductRepositoryInterface.
type mockProductRepository struct {
	getByRefFn func(ctx context.Context, ref string) (*model.Product, error)
}

func (m *mockProductRepository) GetByRef(ctx context.Context, ref string) (*model.Product, error) {
	if m.getByRefFn != nil {
		return m.getByRefFn(ctx, ref)
	}
	return nil, nil
}

// catalogOf serves the given products by id or slug.
func catalogOf(products ...*model.Product) *mockProductRepository {
	return &mockProductRepository{getByRefFn: func(ctx context.Context, ref string) (*model.Product, error) {
		for _, p := range products {
			if p.ID == ref || p.Slug == ref {
				cp := *p
				return &cp, nil
			}
		}
		return nil, nil
	}}
}

// mockPromoRepository is a mock implementation of PromoRepositoryInterface.
type mockPromoRepository struct {
	insertFn    func(ctx context.Context, p *model.PromoCode) error
	updateFn    func(ctx context.Context, code string, p *model.PromoCode) error
	setStatusFn func(ctx context.Context, code string, status model.PromoStatus) (*model.PromoCode, error)
	getByCodeFn func(ctx context.Context, code string) (*model.PromoCode, error)
	listFn      func(ctx context.Context, status model.PromoStatus) ([]model.PromoCode, error)
}

func (m *mockPromoRepository) Insert(ctx context.Context, p *model.PromoCode) error {
	if m.insertFn != nil {
		return m.insertFn(ctx, p)
	}
	return nil
}

func (m *mockPromoRepository) Update(ctx context.Context, code string, p *model.PromoCode) error {
	if m.updateFn != nil {
		return m.updateFn(ctx, code, p)
	}
	return nil
}

func (m *mockPromoRepository) SetStatus(ctx context.Context, code string, status model.PromoStatus) (*model.PromoCode, error) {
	if m.setStatusFn != nil {
		return m.setStatusFn(ctx, code, status)
	}
	return &model.PromoCode{Code: code, Status: status}, nil
}

func (m *mockPromoRepository) GetByCode(ctx context.Context, code string) (*model.PromoCode, error) {
	if m.getByCodeFn != nil {
		return m.getByCodeFn(ctx, code)
	}
	return nil, nil
}

func (m *mockPromoRepository) List(ctx context.Context, status model.PromoStatus) ([]model.PromoCode, error) {
	if m.listFn != nil {
		return m.listFn(ctx, status)
	}
	return []model.PromoCode{}, nil
}

// registryOf serves the given promos by code.
func registryOf(promos ...*model.PromoCode) *mockPromoRepository {
	return &mockPromoRepository{getByCodeFn: func(ctx context.Context, code string) (*model.PromoCode, error) {
		for _, p := range promos {
			if p.Code == code {
				cp := *p
				return &cp, nil
			}
		}
		return nil, nil
	}}
}

// mockOrderRepository is a mock implementation of OrderRepositoryInterface.
type mockOrderRepository struct {
	insertFn func(ctx context.Context, o *model.Order) error
	inserted []*model.Order
}

func (m *mockOrderRepository) Insert(ctx context.Context, o *model.Order) error {
	if m.insertFn != nil {
		if err := m.insertFn(ctx, o); err != nil {
			return err
		}
	}
	m.inserted = append(m.inserted, o)
	return nil
}

// mockPublisher is a mock implementation of events.Publisher.
type mockPublisher struct {
	err       error
	published []model.OrderPayload
}

func (m *mockPublisher) OrderCreated(ctx context.Context, payload model.OrderPayload) error {
	if m.err != nil {
		return m.err
	}
	m.published = append(m.published, payload)
	return nil
}

// mockRecorder is a mock implementation of MetricsRecorder.
type mockRecorder struct {
	validations []string
	orders      int
	eventFails  int
}

func (m *mockRecorder) PromoValidated(result string) { m.validations = append(m.validations, result) }
func (m *mockRecorder) OrderCreated(*model.Order)    { m.orders++ }
func (m *mockRecorder) EventFailed()                 { m.eventFails++ }

func intPtr(i int) *int {
	return &i
}

func moneyPtr(m money.Money) *money.Money {
	return &m
}

func decimalPtr(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func testBook() *model.Product {
	return &model.Product{ID: "B2", Slug: "physics-1", Title: "Physics", Kind: model.KindBook, UnitPrice: money.FromMajor(500), Stock: intPtr(10)}
}

func testCourse() *model.Product {
	return &model.Product{ID: "C1", Slug: "hsc-chem", Title: "Chemistry", Kind: model.KindCourse, UnitPrice: money.FromMajor(1000)}
}

func testCustomer() model.Customer {
	return model.Customer{
		Name: "Karim", Phone: "01812345678", Address: "Road 1",
		Thana: "Mirpur", District: "Dhaka", Division: "Dhaka",
	}
}

func bookPromo() *model.PromoCode {
	return &model.PromoCode{
		ID: 1, Code: "BOOK20", AppliesTo: model.ScopeBook,
		DiscountType: model.DiscountPercentage, DiscountValue: decimal.NewFromInt(20),
		MaxDiscountAmount: money.FromMajor(300), MinPurchaseAmount: money.FromMajor(1000),
		ExpiryDate: testNow.Add(time.Hour), Status: model.PromoActive,
	}
}

func coursePromo() *model.PromoCode {
	return &model.PromoCode{
		ID: 2, Code: "C1ONLY", AppliesTo: model.ScopeCourse, TargetID: "C1",
		DiscountType: model.DiscountFixed, DiscountValue: decimal.NewFromInt(100),
		MaxDiscountAmount: money.FromMajor(100),
		ExpiryDate: testNow.Add(time.Hour), Status: model.PromoActive,
	}
}

// stack wires the real pricing, assembly and submission pipeline over mocks.
type stack struct {
	products  *mockProductRepository
	promos    *mockPromoRepository
	orders    *mockOrderRepository
	publisher *mockPublisher
	metrics   *mockRecorder
	assembler *order.Assembler
	orderSvc  *OrderService
	promoSvc  *PromoService
	deps      checkout.Deps
}

func newStack(t *testing.T, products *mockProductRepository, promos *mockPromoRepository) *stack {
	t.Helper()
	sel, err := delivery.NewSelector(delivery.Fees{
		InsideRegion:  money.FromMajor(80),
		OutsideRegion: money.FromMajor(150),
		Courier:       money.FromMajor(120),
	})
	require.NoError(t, err)
	calc := pricing.NewCalculator(sel)

	s := &stack{
		products:  products,
		promos:    promos,
		orders:    &mockOrderRepository{},
		publisher: &mockPublisher{},
		metrics:   &mockRecorder{},
	}
	s.assembler = order.NewAssembler(calc, validator.New(), order.WithClock(func() time.Time { return testNow }))
	s.orderSvc = NewOrderService(s.orders, s.publisher, s.metrics)
	s.promoSvc = NewPromoService(promos, products, s.metrics)
	s.promoSvc.now = func() time.Time { return testNow }
	s.deps = checkout.Deps{
		Products:   NewCatalogService(products),
		Promos:     s.promoSvc.Validator(),
		Calculator: calc,
		Assembler:  s.assembler,
		Submitter:  s.orderSvc,
		Now:        func() time.Time { return testNow },
	}
	return s
}
