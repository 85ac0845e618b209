package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/fairyhunter13/edu-checkout/internal/model"
	"github.com/fairyhunter13/edu-checkout/internal/money"
	"github.com/fairyhunter13/edu-checkout/internal/service"
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	pgCheckViolation      = "23514"
)

// promoColumns is the column list shared by every promo SELECT and RETURNING.
// discount_value travels as text so no precision is lost on the way to decimal.
const promoColumns = `id, code, applies_to, COALESCE(target_id, ''), discount_type,
	discount_value::text, max_discount_amount, min_purchase_amount, expiry_date,
	status, created_at, updated_at`

// PromoRepository provides data access for promo codes using pgx.
// It is the promo registry read by the validator and written by the admin editor.
type PromoRepository struct {
	pool PoolInterface
}

// NewPromoRepository creates a new PromoRepository with the given pool.
func NewPromoRepository(pool *pgxpool.Pool) *PromoRepository {
	return &PromoRepository{pool: pool}
}

// NewPromoRepositoryWithPool creates a new PromoRepository with a custom pool interface.
// This is primarily used for testing.
func NewPromoRepositoryWithPool(pool PoolInterface) *PromoRepository {
	return &PromoRepository{pool: pool}
}

// Insert inserts a new promo code and fills in its generated fields.
// Returns service.ErrPromoExists if the code is taken and
// service.ErrProductNotFound if the target product does not exist.
func (r *PromoRepository) Insert(ctx context.Context, p *model.PromoCode) error {
	query := `INSERT INTO promo_codes (code, applies_to, target_id, discount_type, discount_value,
			max_discount_amount, min_purchase_amount, expiry_date, status)
		VALUES ($1, $2, NULLIF($3, ''), $4, $5::numeric, $6, $7, $8, $9)
		RETURNING ` + promoColumns

	row := r.pool.QueryRow(ctx, query, writeArgs(p)...)
	if err := scanPromo(row, p); err != nil {
		return mapWriteError("insert promo", err)
	}
	return nil
}

// Update replaces the promo stored under code with p. The code itself may change.
// Returns service.ErrPromoNotFound if no promo is stored under code.
func (r *PromoRepository) Update(ctx context.Context, code string, p *model.PromoCode) error {
	query := `UPDATE promo_codes SET code = $1, applies_to = $2, target_id = NULLIF($3, ''),
			discount_type = $4, discount_value = $5::numeric, max_discount_amount = $6,
			min_purchase_amount = $7, expiry_date = $8, status = $9, updated_at = now()
		WHERE code = $10
		RETURNING ` + promoColumns

	args := append(writeArgs(p), code)
	row := r.pool.QueryRow(ctx, query, args...)
	if err := scanPromo(row, p); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return service.ErrPromoNotFound
		}
		return mapWriteError("update promo", err)
	}
	return nil
}

// SetStatus switches a promo between active and inactive and returns the updated record.
// Returns service.ErrPromoNotFound if no promo is stored under code.
func (r *PromoRepository) SetStatus(ctx context.Context, code string, status model.PromoStatus) (*model.PromoCode, error) {
	query := `UPDATE promo_codes SET status = $1, updated_at = now() WHERE code = $2 RETURNING ` + promoColumns

	var p model.PromoCode
	if err := scanPromo(r.pool.QueryRow(ctx, query, string(status), code), &p); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, service.ErrPromoNotFound
		}
		return nil, fmt.Errorf("set promo status %s: %w", code, err)
	}
	return &p, nil
}

// GetByCode retrieves a promo by its normalized code.
// Returns nil, nil if the promo is not found.
func (r *PromoRepository) GetByCode(ctx context.Context, code string) (*model.PromoCode, error) {
	query := `SELECT ` + promoColumns + ` FROM promo_codes WHERE code = $1`

	var p model.PromoCode
	if err := scanPromo(r.pool.QueryRow(ctx, query, code), &p); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get promo by code %s: %w", code, err)
	}
	return &p, nil
}

// List returns promos ordered by creation time, newest first. An empty status
// lists every promo. Returns an empty slice (not nil) when none exist.
func (r *PromoRepository) List(ctx context.Context, status model.PromoStatus) ([]model.PromoCode, error) {
	query := `SELECT ` + promoColumns + ` FROM promo_codes
		WHERE ($1 = '' OR status = $1) ORDER BY created_at DESC, id DESC`

	rows, err := r.pool.Query(ctx, query, string(status))
	if err != nil {
		return nil, fmt.Errorf("list promos: %w", err)
	}
	defer rows.Close()

	promos := []model.PromoCode{}
	for rows.Next() {
		var p model.PromoCode
		if err := scanPromo(rows, &p); err != nil {
			return nil, fmt.Errorf("scan promo: %w", err)
		}
		promos = append(promos, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate promo rows: %w", err)
	}
	return promos, nil
}

func writeArgs(p *model.PromoCode) []any {
	return []any{
		p.Code,
		string(p.AppliesTo),
		p.TargetID,
		string(p.DiscountType),
		p.DiscountValue.String(),
		int64(p.MaxDiscountAmount),
		int64(p.MinPurchaseAmount),
		p.ExpiryDate,
		string(p.Status),
	}
}

func scanPromo(row pgx.Row, p *model.PromoCode) error {
	var (
		appliesTo, discountType, discountValue, status string
		maxDiscount, minPurchase                       int64
	)
	err := row.Scan(
		&p.ID,
		&p.Code,
		&appliesTo,
		&p.TargetID,
		&discountType,
		&discountValue,
		&maxDiscount,
		&minPurchase,
		&p.ExpiryDate,
		&status,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return err
	}

	value, err := decimal.NewFromString(discountValue)
	if err != nil {
		return fmt.Errorf("parse discount value %q: %w", discountValue, err)
	}

	p.AppliesTo = model.Scope(appliesTo)
	p.DiscountType = model.DiscountType(discountType)
	p.DiscountValue = value
	p.MaxDiscountAmount = money.Money(maxDiscount)
	p.MinPurchaseAmount = money.Money(minPurchase)
	p.Status = model.PromoStatus(status)
	return nil
}

func mapWriteError(op string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return service.ErrPromoExists
		case pgForeignKeyViolation:
			return service.ErrProductNotFound
		case pgCheckViolation:
			return fmt.Errorf("%w: %s", service.ErrInvalidRequest, pgErr.ConstraintName)
		}
	}
	return fmt.Errorf("%s: %w", op, err)
}
