package money

import (
	"encoding/json"
	"errors"
	"math"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromMajor(t *testing.T) {
	assert.Equal(t, Money(50000), FromMajor(500))
	assert.Equal(t, "500.00", FromMajor(500).String())
}

func TestFromDecimal_RoundsToMinorUnit(t *testing.T) {
	testCases := []struct {
		in   string
		want Money
	}{
		{"80", 8000},
		{"149.5", 14950},
		{"0.005", 1},
		{"0.004", 0},
		{"1000.00", 100000},
	}

	for _, tc := range testCases {
		t.Run(tc.in, func(t *testing.T) {
			got, err := FromDecimal(decimal.RequireFromString(tc.in))
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestFromDecimal_OutOfRange(t *testing.T) {
	for _, in := range []string{"1e30", "-1e30", "92233720368547758.08"} {
		t.Run(in, func(t *testing.T) {
			_, err := FromDecimal(decimal.RequireFromString(in))
			assert.True(t, errors.Is(err, ErrOutOfRange))
		})
	}

	got, err := FromDecimal(decimal.RequireFromString("92233720368547758.07"))
	require.NoError(t, err)
	assert.Equal(t, Money(math.MaxInt64), got)
}

func TestParse_OutOfRange(t *testing.T) {
	_, err := Parse("1000000000000000000000")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrOutOfRange))
	assert.Contains(t, err.Error(), "parse money")
}

func TestMoney_Mul(t *testing.T) {
	got, err := FromMajor(500).Mul(3)
	require.NoError(t, err)
	assert.Equal(t, FromMajor(1500), got)

	got, err = MaxAmount.Mul(10000)
	require.NoError(t, err)
	assert.Equal(t, MaxAmount*10000, got)

	_, err = (MaxAmount + 1).Mul(1)
	assert.True(t, errors.Is(err, ErrOutOfRange))

	_, err = MaxAmount.Mul(math.MaxInt32)
	assert.True(t, errors.Is(err, ErrOutOfRange))

	_, err = FromMajor(1).Mul(-1)
	assert.Error(t, err)
}

func TestMoney_InRange(t *testing.T) {
	assert.True(t, MaxAmount.InRange())
	assert.True(t, (-MaxAmount).InRange())
	assert.False(t, (MaxAmount + 1).InRange())
}

func TestParse_Invalid(t *testing.T) {
	_, err := Parse("eighty")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse money")
}

func TestMoney_JSON(t *testing.T) {
	type payload struct {
		Amount Money `json:"amount"`
	}

	out, err := json.Marshal(payload{Amount: 158000})
	require.NoError(t, err)
	assert.JSONEq(t, `{"amount": 1580.00}`, string(out))

	var in payload
	require.NoError(t, json.Unmarshal([]byte(`{"amount": 99.9}`), &in))
	assert.Equal(t, Money(9990), in.Amount)

	require.NoError(t, json.Unmarshal([]byte(`{"amount": "12.34"}`), &in))
	assert.Equal(t, Money(1234), in.Amount)

	require.Error(t, json.Unmarshal([]byte(`{"amount": "abc"}`), &in))

	err = json.Unmarshal([]byte(`{"amount": 1e30}`), &in)
	assert.True(t, errors.Is(err, ErrOutOfRange))
}

func TestMoney_UnmarshalText(t *testing.T) {
	var m Money
	require.NoError(t, m.UnmarshalText([]byte(" 120 ")))
	assert.Equal(t, Money(12000), m)
}

func TestMinMax(t *testing.T) {
	assert.Equal(t, Money(1), Min(1, 2))
	assert.Equal(t, Money(2), Max(1, 2))
}
