package report

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestMoney(t *testing.T) {
	cases := map[string]string{
		"1234567.5": "1,234,567.50",
		"0":         "0.00",
		"999.999":   "1,000.00",
		"-1234.5":   "-1,234.50",
		"12.3":      "12.30",
		// beyond float64 precision
		"12345678901234567890.12": "12,345,678,901,234,567,890.12",
	}
	for in, want := range cases {
		if got := Money(decimal.RequireFromString(in)); got != want {
			t.Errorf("Money(%s) = %q, want %q", in, got, want)
		}
	}
}

func TestCount(t *testing.T) {
	if got := Count(1234567); got != "1,234,567" {
		t.Errorf("Count = %q", got)
	}
	if got := Count(int64(42)); got != "42" {
		t.Errorf("Count = %q", got)
	}
}
