package number

import (
	"github.com/shopspring/decimal"
)

func Decimal(v string) decimal.Decimal {
	d, _ := decimal.NewFromString(v)
	return d
}

// MulDiv returns a*b/den with the quotient truncated toward zero. The
// product is computed exactly before dividing, so no precision is lost
// on the way in.
func MulDiv(a, b, den decimal.Decimal) decimal.Decimal {
	q, _ := a.Mul(b).QuoRem(den, 0)
	return q
}

// DivTrunc returns a/b truncated toward zero.
func DivTrunc(a, b decimal.Decimal) decimal.Decimal {
	q, _ := a.QuoRem(b, 0)
	return q
}

func Ceil(d decimal.Decimal, precision int32) decimal.Decimal {
	return d.Shift(precision).Ceil().Shift(-precision)
}
