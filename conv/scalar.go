package conv

import (
	"fmt"
	"math"
	"math/big"
	"strconv"
	"time"

	"github.com/oarkflow/date"
)

//bigFloatPrec is enough mantissa for any IEEE 754 double plus headroom for
//decimal literals that do not fit one
const bigFloatPrec = 256

// Number holds a raw JSON numeric literal. Open ("any") values keep numbers
// in this form so the literal survives a parse and generate cycle untouched.
type Number string

// String returns the raw literal.
func (n Number) String() string {
	return string(n)
}

// Int64 converts the literal to int64, failing on overflow or a fractional
// literal.
func (n Number) Int64() (int64, error) {
	return ParseInt(string(n), 64)
}

// Float64 converts the literal to float64.
func (n Number) Float64() (float64, error) {
	return ParseFloat(string(n), 64)
}

// BigInt converts the literal to a big integer.
func (n Number) BigInt() (*big.Int, error) {
	return ParseBigInt(string(n))
}

// BigFloat converts the literal to a big decimal.
func (n Number) BigFloat() (*big.Float, error) {
	return ParseBigFloat(string(n))
}

// ParseInt parses a base-10 integer literal of the given bit size,
// failing on overflow.
func ParseInt(literal string, bitSize int) (int64, error) {
	value, err := strconv.ParseInt(literal, 10, bitSize)
	if err != nil {
		return 0, fmt.Errorf("invalid int%d literal %q: %w", bitSize, literal, err)
	}
	return value, nil
}

// ParseUint parses a base-10 unsigned integer literal of the given bit size,
// failing on overflow or a sign.
func ParseUint(literal string, bitSize int) (uint64, error) {
	value, err := strconv.ParseUint(literal, 10, bitSize)
	if err != nil {
		return 0, fmt.Errorf("invalid uint%d literal %q: %w", bitSize, literal, err)
	}
	return value, nil
}

// ParseFloat parses a floating point literal of the given bit size.
func ParseFloat(literal string, bitSize int) (float64, error) {
	value, err := strconv.ParseFloat(literal, bitSize)
	if err != nil {
		return 0, fmt.Errorf("invalid float%d literal %q: %w", bitSize, literal, err)
	}
	return value, nil
}

// ParseBigInt parses an integer literal of arbitrary magnitude.
func ParseBigInt(literal string) (*big.Int, error) {
	value, ok := new(big.Int).SetString(literal, 10)
	if !ok {
		return nil, fmt.Errorf("invalid big integer literal %q", literal)
	}
	return value, nil
}

// ParseBigFloat parses a decimal literal of arbitrary magnitude.
func ParseBigFloat(literal string) (*big.Float, error) {
	value, _, err := big.ParseFloat(literal, 10, bigFloatPrec, big.ToNearestEven)
	if err != nil {
		return nil, fmt.Errorf("invalid big decimal literal %q: %w", literal, err)
	}
	return value, nil
}

// ParseBool parses a "true" or "false" literal.
func ParseBool(literal string) (bool, error) {
	switch literal {
	case "true":
		return true, nil
	case "false":
		return false, nil
	}
	return false, fmt.Errorf("invalid bool literal %q", literal)
}

// ParseTime parses a timestamp leniently, accepting RFC 3339 alongside the
// common date layouts.
func ParseTime(text string) (time.Time, error) {
	value, err := date.Parse(text)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid time literal %q: %w", text, err)
	}
	return value, nil
}

// FormatTime formats a timestamp as RFC 3339.
func FormatTime(value time.Time) string {
	return value.Format(time.RFC3339)
}

// FormatInt formats a signed integer literal.
func FormatInt(value int64) string {
	return strconv.FormatInt(value, 10)
}

// FormatUint formats an unsigned integer literal.
func FormatUint(value uint64) string {
	return strconv.FormatUint(value, 10)
}

// FormatFloat formats a finite floating point literal with the shortest
// round-trippable representation. NaN and infinities have no JSON literal and
// are rejected.
func FormatFloat(value float64, bitSize int) (string, error) {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return "", fmt.Errorf("non-finite float has no JSON representation: %v", value)
	}
	return strconv.FormatFloat(value, 'g', -1, bitSize), nil
}

// FormatBigFloat formats a big decimal literal.
func FormatBigFloat(value *big.Float) string {
	if value.IsInt() {
		text := value.Text('f', 0)
		return text
	}
	return value.Text('g', -1)
}
