package handler

import (
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"

	"github.com/fairyhunter13/edu-checkout/internal/model"
)

// mockProductService is a mock implementation of ProductServiceInterface.
type mockProductService struct {
	getProductFn func(ctx context.Context, ref string) (*model.Product, error)
}

func (m *mockProductService) GetProduct(ctx context.Context, ref string) (*model.Product, error) {
	return m.getProductFn(ctx, ref)
}

// mockPromoService is a mock implementation of PromoServiceInterface.
type mockPromoService struct {
	validateFn  func(ctx context.Context, req *model.PromoValidationRequest) (*model.PromoValidationResponse, error)
	createFn    func(ctx context.Context, req *model.PromoRequest) (*model.PromoCode, error)
	updateFn    func(ctx context.Context, code string, req *model.PromoRequest) (*model.PromoCode, error)
	setStatusFn func(ctx context.Context, code string, status model.PromoStatus) (*model.PromoCode, error)
	getFn       func(ctx context.Context, code string) (*model.PromoCode, error)
	listFn      func(ctx context.Context, status model.PromoStatus) ([]model.PromoCode, error)
}

func (m *mockPromoService) Validate(ctx context.Context, req *model.PromoValidationRequest) (*model.PromoValidationResponse, error) {
	return m.validateFn(ctx, req)
}

func (m *mockPromoService) Create(ctx context.Context, req *model.PromoRequest) (*model.PromoCode, error) {
	return m.createFn(ctx, req)
}

func (m *mockPromoService) Update(ctx context.Context, code string, req *model.PromoRequest) (*model.PromoCode, error) {
	return m.updateFn(ctx, code, req)
}

func (m *mockPromoService) SetStatus(ctx context.Context, code string, status model.PromoStatus) (*model.PromoCode, error) {
	return m.setStatusFn(ctx, code, status)
}

func (m *mockPromoService) Get(ctx context.Context, code string) (*model.PromoCode, error) {
	return m.getFn(ctx, code)
}

func (m *mockPromoService) List(ctx context.Context, status model.PromoStatus) ([]model.PromoCode, error) {
	return m.listFn(ctx, status)
}

// mockCheckoutService is a mock implementation of CheckoutServiceInterface.
type mockCheckoutService struct {
	quoteFn      func(ctx context.Context, req *model.CheckoutRequest) (*model.QuoteResponse, error)
	placeOrderFn func(ctx context.Context, req *model.PlaceOrderRequest) (*model.Order, error)
}

func (m *mockCheckoutService) Quote(ctx context.Context, req *model.CheckoutRequest) (*model.QuoteResponse, error) {
	return m.quoteFn(ctx, req)
}

func (m *mockCheckoutService) PlaceOrder(ctx context.Context, req *model.PlaceOrderRequest) (*model.Order, error) {
	return m.placeOrderFn(ctx, req)
}

// mockManualService is a mock implementation of ManualEntryServiceInterface.
type mockManualService struct {
	createOrderFn      func(ctx context.Context, req *model.ManualEntryRequest) (*model.Order, error)
	createEnrollmentFn func(ctx context.Context, req *model.ManualEntryRequest) (*model.Order, error)
}

func (m *mockManualService) CreateOrder(ctx context.Context, req *model.ManualEntryRequest) (*model.Order, error) {
	return m.createOrderFn(ctx, req)
}

func (m *mockManualService) CreateEnrollment(ctx context.Context, req *model.ManualEntryRequest) (*model.Order, error) {
	return m.createEnrollmentFn(ctx, req)
}

// doJSON sends a request with an optional JSON body and decodes the response.
func doJSON(t *testing.T, app *fiber.App, method, path, body string) (int, map[string]any) {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := app.Test(req)
	require.NoError(t, err)
	defer func() {
		_ = resp.Body.Close()
	}()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var out map[string]any
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &out), "body: %s", raw)
	}
	return resp.StatusCode, out
}

// fieldNames extracts the field names of a 422 validation response.
func fieldNames(body map[string]any) []string {
	items, _ := body["fields"].([]any)
	names := make([]string, 0, len(items))
	for _, it := range items {
		if m, ok := it.(map[string]any); ok {
			names = append(names, m["field"].(string))
		}
	}
	return names
}

