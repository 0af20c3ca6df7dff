package types

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuantity_String(t *testing.T) {
	tests := []struct {
		name string
		q    Quantity
		want string
	}{
		{"whole", NewQuantity(42), "42"},
		{"fraction", Quantity(125_000), "12.5"},
		{"negative", NewQuantity(-20), "-20"},
		{"small fraction", Quantity(5), "0.0005"},
		{"zero", 0, "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.q.String())
		})
	}
}

func TestQuantity_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		in   string
		want Quantity
	}{
		{`100`, NewQuantity(100)},
		{`"12.5"`, Quantity(125_000)},
		{`-3.25`, Quantity(-32_500)},
		{`1.123456`, Quantity(11_234)},
		{`null`, 0},
		{`1e2`, NewQuantity(100)},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			var q Quantity
			require.NoError(t, json.Unmarshal([]byte(tt.in), &q))
			assert.Equal(t, tt.want, q)
		})
	}
}

func TestQuantity_UnmarshalJSON_Invalid(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{"letters", `"abc"`},
		{"empty string", `""`},
		{"lone sign", `"-"`},
		{"lone dot", `"."`},
		{"double sign", `"--5"`},
		{"sign after minus", `"-+5"`},
		{"signed fraction", `"1.-5"`},
		{"second dot", `"1.2.3"`},
		{"overflowing whole part", `1844674407370956`},
		{"overflowing with fraction", `922337203685477.9999`},
		{"exponent out of range", `1e20`},
		{"negative exponent out of range", `-1e20`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := NewQuantity(7)
			assert.Error(t, json.Unmarshal([]byte(tt.in), &q))
			assert.Equal(t, NewQuantity(7), q, "target must stay untouched")
		})
	}
}

func TestQuantity_UnmarshalJSON_Bounds(t *testing.T) {
	var q Quantity
	require.NoError(t, json.Unmarshal([]byte(`922337203685477`), &q))
	assert.Equal(t, "922337203685477", q.String())

	require.NoError(t, json.Unmarshal([]byte(`"-922337203685477.5807"`), &q))
	assert.Equal(t, Quantity(-math.MaxInt64), q)
}

func TestQuantity_StringAtMinInt64(t *testing.T) {
	assert.Equal(t, "-922337203685477.5808", Quantity(math.MinInt64).String())
}

func TestNewQuantityFromFloat64(t *testing.T) {
	q, err := NewQuantityFromFloat64(2.5)
	require.NoError(t, err)
	assert.Equal(t, Quantity(25_000), q)

	_, err = NewQuantityFromFloat64(1e20)
	assert.Error(t, err)
	_, err = NewQuantityFromFloat64(math.NaN())
	assert.Error(t, err)
}

func TestQuantity_MulMoney(t *testing.T) {
	q := Quantity(25_000) // 2.5
	got := q.MulMoney(MustMoney("4.20"))
	assert.True(t, got.Equal(MustMoney("10.5")), got.String())
}
