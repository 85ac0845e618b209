package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fairyhunter13/edu-checkout/internal/model"
	"github.com/fairyhunter13/edu-checkout/internal/service"
)

// OrderRepository persists submitted orders using pgx.
type OrderRepository struct {
	pool PoolInterface
}

// NewOrderRepository creates a new OrderRepository with the given pool.
func NewOrderRepository(pool *pgxpool.Pool) *OrderRepository {
	return &OrderRepository{pool: pool}
}

// NewOrderRepositoryWithPool creates a new OrderRepository with a custom pool interface.
// This is primarily used for testing.
func NewOrderRepositoryWithPool(pool PoolInterface) *OrderRepository {
	return &OrderRepository{pool: pool}
}

// Insert stores an order in a single statement, so a failed insert leaves no
// partial order behind. Returns service.ErrOrderExists if the order id or
// transaction id is already used and service.ErrInvalidRequest if a column
// constraint such as discount_amount <= subtotal rejects the row.
func (r *OrderRepository) Insert(ctx context.Context, o *model.Order) error {
	query := `INSERT INTO orders (id, transaction_id, source, material_type, product_id, product_name,
			unit_price, quantity, promo_code, promo_id, subtotal, discount_amount, delivery_fee, total,
			payment_method, delivery_region, customer, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NULLIF($9, ''), NULLIF($10, 0), $11, $12, $13, $14,
			$15, NULLIF($16, ''), $17, $18, $19)`

	var (
		promoCode string
		promoID   int64
	)
	if o.AppliedPromo != nil {
		promoCode = o.AppliedPromo.Code
		promoID = o.AppliedPromo.PromoID
	}

	_, err := r.pool.Exec(ctx, query,
		o.ID,
		o.TransactionID,
		string(o.Source),
		string(o.Line.Product.Kind),
		o.Line.Product.ID,
		o.Line.Product.Title,
		int64(o.Line.Product.UnitPrice),
		o.Pricing.Quantity,
		promoCode,
		promoID,
		int64(o.Pricing.Subtotal),
		int64(o.Pricing.DiscountAmount),
		int64(o.Pricing.DeliveryFee),
		int64(o.Pricing.Total),
		string(o.PaymentMethod),
		string(o.Region),
		o.Customer,
		string(o.Status),
		o.CreatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			case pgUniqueViolation:
				return service.ErrOrderExists
			case pgForeignKeyViolation:
				return service.ErrProductNotFound
			case pgCheckViolation:
				return fmt.Errorf("%w: %s", service.ErrInvalidRequest, pgErr.ConstraintName)
			}
		}
		return fmt.Errorf("insert order: %w", err)
	}
	return nil
}
