package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fairyhunter13/edu-checkout/internal/model"
	"github.com/fairyhunter13/edu-checkout/internal/money"
)

func TestProductRepository_GetByRef_Success(t *testing.T) {
	created := time.Now()
	var capturedArgs []any
	mock := &mockPool{
		queryRowFn: func(ctx context.Context, sql string, args ...any) pgx.Row {
			capturedArgs = args
			assert.Contains(t, sql, "id = $1 OR slug = $1")
			return &mockRow{
				scanFn: func(dest ...any) error {
					*(dest[0].(*string)) = "B1"
					*(dest[1].(*string)) = "physics-1"
					*(dest[2].(*string)) = "Physics Vol. 1"
					*(dest[3].(*string)) = "book"
					*(dest[4].(*int64)) = 50000
					stock := 12
					*(dest[5].(**int)) = &stock
					*(dest[6].(*time.Time)) = created
					return nil
				},
			}
		},
	}

	repo := NewProductRepositoryWithPool(mock)
	p, err := repo.GetByRef(context.Background(), "physics-1")

	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, "physics-1", capturedArgs[0])
	assert.Equal(t, "B1", p.ID)
	assert.Equal(t, model.KindBook, p.Kind)
	assert.Equal(t, money.FromMajor(500), p.UnitPrice)
	require.NotNil(t, p.Stock)
	assert.Equal(t, 12, *p.Stock)
	assert.Equal(t, created, p.CreatedAt)
}

func TestProductRepository_GetByRef_NotFound(t *testing.T) {
	mock := &mockPool{
		queryRowFn: func(ctx context.Context, sql string, args ...any) pgx.Row {
			return &mockRow{scanFn: func(dest ...any) error { return pgx.ErrNoRows }}
		},
	}

	repo := NewProductRepositoryWithPool(mock)
	p, err := repo.GetByRef(context.Background(), "missing")

	require.NoError(t, err)
	assert.Nil(t, p, "Should return nil for not found")
}

func TestProductRepository_GetByRef_DatabaseError(t *testing.T) {
	dbErr := errors.New("database connection failed")
	mock := &mockPool{
		queryRowFn: func(ctx context.Context, sql string, args ...any) pgx.Row {
			return &mockRow{scanFn: func(dest ...any) error { return dbErr }}
		},
	}

	repo := NewProductRepositoryWithPool(mock)
	p, err := repo.GetByRef(context.Background(), "B1")

	require.Error(t, err)
	assert.Nil(t, p)
	assert.Contains(t, err.Error(), "get product")
	assert.True(t, errors.Is(err, dbErr), "should wrap original error")
}

func TestProductRepository_GetByRef_VerifiesParameterizedQuery(t *testing.T) {
	var capturedSQL string
	mock := &mockPool{
		queryRowFn: func(ctx context.Context, sql string, args ...any) pgx.Row {
			capturedSQL = sql
			return &mockRow{scanFn: func(dest ...any) error { return pgx.ErrNoRows }}
		},
	}

	repo := NewProductRepositoryWithPool(mock)
	_, _ = repo.GetByRef(context.Background(), "'; DROP TABLE products;--")

	assert.Contains(t, capturedSQL, "$1")
	assert.NotContains(t, capturedSQL, "DROP TABLE", "SQL injection should not appear in query")
}
