package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuantity_String(t *testing.T) {
	assert.Equal(t, "0.0000", Quantity(0).String())
	assert.Equal(t, "1.0000", NewQuantityFromFloat64(1).String())
	assert.Equal(t, "2.5000", NewQuantityFromFloat64(2.5).String())
	assert.Equal(t, "0.0001", Quantity(1).String())
	assert.Equal(t, "-3.2500", NewQuantityFromFloat64(-3.25).String())
	assert.Equal(t, "-0.0001", Quantity(-1).String())
}

func TestQuantity_Arithmetic(t *testing.T) {
	q := NewQuantityFromFloat64(10)
	assert.Equal(t, NewQuantityFromFloat64(6), q+NewQuantityFromFloat64(-4))
	assert.Equal(t, NewQuantityFromFloat64(-10), q.Neg())
	assert.Equal(t, NewQuantityFromFloat64(3.25), NewQuantityFromFloat64(-3.25).Abs())

	assert.True(t, Quantity(0).IsZero())
	assert.True(t, Quantity(1).IsPositive())
	assert.True(t, Quantity(-1).IsNegative())
}

func TestQuantity_Scaling(t *testing.T) {
	q := NewQuantityFromFloat64(2.5)
	assert.Equal(t, int64(25_000), q.Int64Scaled())
	assert.Equal(t, 2.5, q.Float64())
	assert.Equal(t, q, NewQuantityFromInt64Scaled(25_000))
}

func TestQuantity_UnmarshalJSON(t *testing.T) {
	cases := []struct {
		in   string
		want Quantity
	}{
		{`4`, NewQuantityFromFloat64(4)},
		{`4.5`, NewQuantityFromFloat64(4.5)},
		{`"4.5"`, NewQuantityFromFloat64(4.5)},
		{`-2.25`, NewQuantityFromFloat64(-2.25)},
		{`0.0001`, Quantity(1)},
		{`"+1.5"`, NewQuantityFromFloat64(1.5)},
		{`null`, 0},
		// Extra fractional digits are truncated, not rounded
		{`1.00009`, NewQuantityFromFloat64(1)},
	}

	for _, tc := range cases {
		var q Quantity
		require.NoError(t, json.Unmarshal([]byte(tc.in), &q), "input %q", tc.in)
		assert.Equal(t, tc.want, q, "input %q", tc.in)
	}
}

func TestQuantity_UnmarshalJSON_Invalid(t *testing.T) {
	for _, in := range []string{`"abc"`, `"1.2.3"`, `""`} {
		var q Quantity
		assert.Error(t, json.Unmarshal([]byte(in), &q), "input %q", in)
	}
}

func TestQuantity_MarshalJSON(t *testing.T) {
	data, err := json.Marshal(NewQuantityFromFloat64(2.5))
	require.NoError(t, err)
	assert.Equal(t, "2.5000", string(data))
}

func TestMoney_FromString(t *testing.T) {
	m, err := NewMoneyFromString("1180.50")
	require.NoError(t, err)
	assert.True(t, m.Equal(MustMoney("1180.5")))

	_, err = NewMoneyFromString("not-money")
	assert.Error(t, err)

	assert.True(t, ZeroMoney().IsZero())
}
