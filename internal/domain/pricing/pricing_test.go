package pricing

import (
	"errors"
	"testing"
	"time"

	"shiftstay/internal/domain/shared/daterange"
)

func TestQuote(t *testing.T) {
	r, err := daterange.New(
		time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, time.August, 31, 0, 0, 0, 0, time.UTC),
	)
	if err != nil {
		t.Fatal(err)
	}

	t.Run("thirteen week contract with cleaning fee", func(t *testing.T) {
		q, err := Quote(QuoteInput{
			MonthlyRateCents: 300000,
			Range:            r,
			CleaningFeeCents: 15000,
			DepositCents:     50000,
		})
		if err != nil {
			t.Fatal(err)
		}
		if q.Nights != 91 {
			t.Fatalf("nights = %d, want 91", q.Nights)
		}
		if q.Rent.Cents != 897534 {
			t.Fatalf("rent = %d, want 897534", q.Rent.Cents)
		}
		if q.Total.Cents != 912534 {
			t.Fatalf("total = %d, want 912534", q.Total.Cents)
		}
		if q.Deposit.Cents != 50000 {
			t.Fatalf("deposit = %d, want 50000", q.Deposit.Cents)
		}
	})

	t.Run("deposit excluded from total", func(t *testing.T) {
		q, err := Quote(QuoteInput{MonthlyRateCents: 300000, Range: r, DepositCents: 100000})
		if err != nil {
			t.Fatal(err)
		}
		if q.Total.Cents != q.Rent.Cents {
			t.Fatalf("total %d should equal rent %d when only a deposit is set", q.Total.Cents, q.Rent.Cents)
		}
	})

	t.Run("validation", func(t *testing.T) {
		if _, err := Quote(QuoteInput{MonthlyRateCents: 0, Range: r}); !errors.Is(err, ErrRateRequired) {
			t.Fatalf("error = %v, want %v", err, ErrRateRequired)
		}
		if _, err := Quote(QuoteInput{MonthlyRateCents: 300000, Range: r, CleaningFeeCents: -1}); !errors.Is(err, ErrNegativeComponent) {
			t.Fatalf("error = %v, want %v", err, ErrNegativeComponent)
		}
		bad := daterange.DateRange{CheckIn: r.CheckOut, CheckOut: r.CheckIn}
		if _, err := Quote(QuoteInput{MonthlyRateCents: 300000, Range: bad}); !errors.Is(err, daterange.ErrInvalidRange) {
			t.Fatalf("error = %v, want %v", err, daterange.ErrInvalidRange)
		}
	})
}
