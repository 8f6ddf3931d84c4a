package number

import (
	"testing"

	"github.com/bmizerany/assert"
)

func TestMulDiv(t *testing.T) {
	data := map[[3]string]string{
		{"7", "3", "2"}:                           "10",
		{"1", "1", "3"}:                           "0",
		{"4000000000000000000000", "10", "100"}:   "400000000000000000000",
		{"70000000000000000000", "1000000000000000000", "70000000000000000000000"}: "1000000000000000",
	}

	for k, v := range data {
		q := MulDiv(Decimal(k[0]), Decimal(k[1]), Decimal(k[2]))
		assert.Equal(t, v, q.String(), "should truncate toward zero")
	}
}

func TestDivTrunc(t *testing.T) {
	data := map[[2]string]string{
		{"10", "3"}:  "3",
		{"9", "3"}:   "3",
		{"2", "3"}:   "0",
		{"-10", "3"}: "-3",
	}

	for k, v := range data {
		q := DivTrunc(Decimal(k[0]), Decimal(k[1]))
		assert.Equal(t, v, q.String(), "should truncate toward zero")
	}
}

func TestCeil(t *testing.T) {
	data := map[string]string{
		"0.10304":     "0.11",
		"0.100000001": "0.11",
		"0.108":       "0.11",
	}

	for k, v := range data {
		c := Ceil(Decimal(k), 2)
		assert.Equal(t, v, c.String(), "should be ceil")
	}
}
