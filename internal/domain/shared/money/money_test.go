package money

import (
	"errors"
	"testing"
)

func TestAddMismatchedCurrency(t *testing.T) {
	usd := USD(1000)
	eur := Must(1000, "eur")
	if _, err := usd.Add(eur); !errors.Is(err, ErrCurrencyMismatch) {
		t.Errorf("err = %v, want ErrCurrencyMismatch", err)
	}
}

func TestNewRejectsBadCurrency(t *testing.T) {
	if _, err := New(100, "DOLLARS"); !errors.Is(err, ErrInvalidCurrency) {
		t.Errorf("err = %v, want ErrInvalidCurrency", err)
	}
}

func TestFormatDollars(t *testing.T) {
	tests := []struct {
		cents int64
		want  string
	}{
		{130000, "$1,300"},
		{99, "$0"},
		{500, "$5"},
		{123456789, "$1,234,567"},
		{-130000, "-$1,300"},
		{0, "$0"},
	}
	for _, tt := range tests {
		if got := FormatDollars(tt.cents); got != tt.want {
			t.Errorf("FormatDollars(%d) = %q, want %q", tt.cents, got, tt.want)
		}
	}
}
