package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fairyhunter13/edu-checkout/internal/model"
	"github.com/fairyhunter13/edu-checkout/internal/money"
)

// PoolInterface defines the database operations needed by repositories.
// This allows for easier testing with mocks.
type PoolInterface interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

var _ PoolInterface = (*pgxpool.Pool)(nil)

// ProductRepository provides read access to the catalog using pgx.
type ProductRepository struct {
	pool PoolInterface
}

// NewProductRepository creates a new ProductRepository with the given pool.
func NewProductRepository(pool *pgxpool.Pool) *ProductRepository {
	return &ProductRepository{pool: pool}
}

// NewProductRepositoryWithPool creates a new ProductRepository with a custom pool interface.
// This is primarily used for testing.
func NewProductRepositoryWithPool(pool PoolInterface) *ProductRepository {
	return &ProductRepository{pool: pool}
}

// GetByRef retrieves a product by id or slug.
// Returns nil, nil if the product is not found (service layer handles this).
func (r *ProductRepository) GetByRef(ctx context.Context, ref string) (*model.Product, error) {
	query := `SELECT id, slug, title, kind, unit_price, stock, created_at
		FROM products WHERE id = $1 OR slug = $1 ORDER BY (id = $1) DESC LIMIT 1`

	var (
		p         model.Product
		kind      string
		unitPrice int64
	)
	err := r.pool.QueryRow(ctx, query, ref).Scan(
		&p.ID,
		&p.Slug,
		&p.Title,
		&kind,
		&unitPrice,
		&p.Stock,
		&p.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product %s: %w", ref, err)
	}

	p.Kind = model.Kind(kind)
	p.UnitPrice = money.Money(unitPrice)
	return &p, nil
}
