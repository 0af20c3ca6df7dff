// Package types provides the numeric value types shared by catalogs, documents and the ledger.
package types

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Money is a monetary value with full precision.
type Money = decimal.Decimal

// NewMoneyFromString creates a Money value from a string.
func NewMoneyFromString(s string) (Money, error) {
	return decimal.NewFromString(s)
}

// MustMoney creates a Money value from a string, panics on error. Constants and tests only.
func MustMoney(s string) Money {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

// ZeroMoney returns zero Money value.
func ZeroMoney() Money {
	return decimal.Zero
}

// Quantity is a fixed-point stock quantity with 4 decimal places (scale = 1e4).
// Stored as BIGINT (scaled integer); JSON is a plain number.
type Quantity int64

const QuantityScale int64 = 10_000

func NewQuantity(units int64) Quantity { return Quantity(units * QuantityScale) }

// maxQuantityUnits is the largest whole part that still fits the scaled int64.
const maxQuantityUnits = math.MaxInt64 / QuantityScale

// NewQuantityFromFloat64 rounds v to 4 decimal places. Values that do not fit are rejected.
func NewQuantityFromFloat64(v float64) (Quantity, error) {
	scaled := math.Round(v * float64(QuantityScale))
	if math.IsNaN(scaled) || scaled >= math.MaxInt64 || scaled <= math.MinInt64 {
		return 0, fmt.Errorf("quantity %v out of range", v)
	}
	return Quantity(scaled), nil
}

// ParseQuantity parses a decimal string such as "12.5".
func ParseQuantity(s string) (Quantity, error) {
	return parseQuantityString(s)
}

func (q Quantity) Int64Scaled() int64 { return int64(q) }

func (q Quantity) Float64() float64 { return float64(q) / float64(QuantityScale) }

func (q Quantity) IsZero() bool { return q == 0 }

func (q Quantity) IsPositive() bool { return q > 0 }

func (q Quantity) IsNegative() bool { return q < 0 }

func (q Quantity) Neg() Quantity { return -q }

func (q Quantity) Abs() Quantity {
	if q < 0 {
		return -q
	}
	return q
}

// Decimal converts the quantity for money arithmetic.
func (q Quantity) Decimal() decimal.Decimal {
	return decimal.New(int64(q), -4)
}

// MulMoney returns q × price.
func (q Quantity) MulMoney(price Money) Money {
	return q.Decimal().Mul(price)
}

// String returns a decimal string with trailing fractional zeros trimmed.
func (q Quantity) String() string {
	if q == math.MinInt64 {
		return q.Decimal().String()
	}
	neg := q < 0
	v := q
	if neg {
		v = -v
	}
	intPart := int64(v) / QuantityScale
	frac := int64(v) % QuantityScale

	s := strconv.FormatInt(intPart, 10)
	if frac != 0 {
		s += "." + strings.TrimRight(fmt.Sprintf("%04d", frac), "0")
	}
	if neg {
		return "-" + s
	}
	return s
}

// MarshalJSON encodes Quantity as a JSON number.
func (q Quantity) MarshalJSON() ([]byte, error) {
	return []byte(q.String()), nil
}

// UnmarshalJSON accepts either a JSON number or string.
func (q *Quantity) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*q = 0
		return nil
	}

	if len(data) >= 2 && data[0] == '"' && data[len(data)-1] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		parsed, err := parseQuantityString(s)
		if err != nil {
			return err
		}
		*q = parsed
		return nil
	}

	parsed, err := parseQuantityString(string(data))
	if err != nil {
		return err
	}
	*q = parsed
	return nil
}

func parseQuantityString(s string) (Quantity, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty quantity")
	}

	if strings.ContainsAny(s, "eE") {
		return parseQuantityExponent(s)
	}

	neg := false
	if strings.HasPrefix(s, "-") {
		neg = true
		s = s[1:]
	} else {
		s = strings.TrimPrefix(s, "+")
	}

	intStr, fracStr, _ := strings.Cut(s, ".")
	if (intStr == "" && fracStr == "") || !isDigits(intStr) || !isDigits(fracStr) {
		return 0, fmt.Errorf("invalid quantity %q", s)
	}
	if intStr == "" {
		intStr = "0"
	}
	intPart, err := strconv.ParseInt(intStr, 10, 64)
	if err != nil || intPart > maxQuantityUnits {
		return 0, fmt.Errorf("quantity %q out of range", s)
	}

	// pad right to 4 digits, extra digits are truncated
	if len(fracStr) > 4 {
		fracStr = fracStr[:4]
	}
	for len(fracStr) < 4 {
		fracStr += "0"
	}
	frac, err := strconv.ParseInt(fracStr, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse quantity fractional part: %w", err)
	}
	if intPart*QuantityScale > math.MaxInt64-frac {
		return 0, fmt.Errorf("quantity %q out of range", s)
	}

	v := intPart*QuantityScale + frac
	if neg {
		v = -v
	}
	return Quantity(v), nil
}

// parseQuantityExponent handles inputs such as 1e2 exactly, truncating past 4 places.
func parseQuantityExponent(s string) (Quantity, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, fmt.Errorf("parse quantity: %w", err)
	}
	scaled := d.Shift(4).Truncate(0)
	limit := decimal.NewFromInt(math.MaxInt64)
	if scaled.Abs().GreaterThan(limit) {
		return 0, fmt.Errorf("quantity %q out of range", s)
	}
	return Quantity(scaled.IntPart()), nil
}

func isDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
