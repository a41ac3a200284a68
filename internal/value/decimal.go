package value

import (
	"encoding/json"
	"math/big"
	"strconv"

	"github.com/cockroachdb/apd/v2"
)

// decCtx is used for divisions; 100 digits keeps multipleOf exact for any
// literal a JSON document realistically carries.
var decCtx = apd.BaseContext.WithPrecision(100)

// Decimal converts a numeric value into an exact decimal. It returns false
// for non-numeric values and for NaN or infinities.
func Decimal(v any) (*apd.Decimal, bool) {
	d := new(apd.Decimal)
	switch n := v.(type) {
	case int:
		d.SetInt64(int64(n))
	case int8:
		d.SetInt64(int64(n))
	case int16:
		d.SetInt64(int64(n))
	case int32:
		d.SetInt64(int64(n))
	case int64:
		d.SetInt64(n)
	case uint:
		return fromString(strconv.FormatUint(uint64(n), 10))
	case uint8:
		d.SetInt64(int64(n))
	case uint16:
		d.SetInt64(int64(n))
	case uint32:
		d.SetInt64(int64(n))
	case uint64:
		return fromString(strconv.FormatUint(n, 10))
	case float32:
		return fromString(strconv.FormatFloat(float64(n), 'g', -1, 32))
	case float64:
		if _, err := d.SetFloat64(n); err != nil {
			return nil, false
		}
	case json.Number:
		return fromString(string(n))
	default:
		return nil, false
	}
	if d.Form != apd.Finite {
		return nil, false
	}
	return d, true
}

func fromString(s string) (*apd.Decimal, bool) {
	d, _, err := apd.NewFromString(s)
	if err != nil || d.Form != apd.Finite {
		return nil, false
	}
	return d, true
}

// IsInteger reports whether v is a number without a fractional part (1.0
// counts as an integer).
func IsInteger(v any) bool {
	d, ok := Decimal(v)
	if !ok {
		return false
	}
	return decimalIsInteger(d)
}

func decimalIsInteger(d *apd.Decimal) bool {
	if d.Exponent >= 0 || d.Coeff.Sign() == 0 {
		return true
	}
	frac := int(-d.Exponent)
	if frac > len(d.Coeff.String()) {
		return false
	}
	scale := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(frac)), nil)
	return new(big.Int).Mod(&d.Coeff, scale).Sign() == 0
}

// Compare returns -1, 0 or 1 comparing two numbers. ok is false when either
// operand is not a finite number.
func Compare(a, b any) (int, bool) {
	da, ok := Decimal(a)
	if !ok {
		return 0, false
	}
	db, ok := Decimal(b)
	if !ok {
		return 0, false
	}
	return da.Cmp(db), true
}

// MultipleOf reports whether v divided by m is an integer. m must be positive.
func MultipleOf(v any, m *apd.Decimal) bool {
	d, ok := Decimal(v)
	if !ok {
		return true
	}
	q := new(apd.Decimal)
	cond, err := decCtx.Quo(q, d, m)
	if err != nil || cond.Inexact() {
		return false
	}
	return decimalIsInteger(q)
}
