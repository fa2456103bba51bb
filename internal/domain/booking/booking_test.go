package booking

import (
	"errors"
	"testing"
	"time"

	"shiftstay/internal/domain/shared/daterange"
	"shiftstay/internal/domain/shared/money"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func validParams() CreateParams {
	r, _ := daterange.New(day(2024, time.June, 1), day(2024, time.September, 1))
	return CreateParams{
		ID:        "bkg-1",
		ListingID: "lst-1",
		NurseID:   "nurse-1",
		Range:     r,
		Total:     money.USD(900000),
		CreatedAt: day(2024, time.May, 10),
	}
}

func TestQuoteTotalCents(t *testing.T) {
	tests := []struct {
		name    string
		monthly int64
		nights  int
		want    int64
	}{
		{"thirteen weeks at 3000", 300000, 91, 897534},
		{"one average month", 300000, 30, 295890},
		{"zero rate", 0, 30, 0},
		{"zero nights", 300000, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := QuoteTotalCents(tt.monthly, tt.nights); got != tt.want {
				t.Fatalf("QuoteTotalCents(%d, %d) = %d, want %d", tt.monthly, tt.nights, got, tt.want)
			}
		})
	}
}

func TestNewBookingValidation(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*CreateParams)
		wantErr error
	}{
		{"missing nurse", func(p *CreateParams) { p.NurseID = "" }, ErrGuestRequired},
		{"inverted range", func(p *CreateParams) {
			p.Range = daterange.DateRange{CheckIn: day(2024, time.June, 10), CheckOut: day(2024, time.June, 1)}
		}, daterange.ErrInvalidRange},
		{"zero total", func(p *CreateParams) { p.Total = money.Money{} }, ErrTotalRequired},
		{"below min stay", func(p *CreateParams) { p.MinStayNights = 120 }, ErrMinStay},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := validParams()
			tt.mutate(&p)
			if _, err := NewBooking(p); !errors.Is(err, tt.wantErr) {
				t.Fatalf("NewBooking() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestBookingLifecycle(t *testing.T) {
	now := day(2024, time.May, 11)

	t.Run("accept sets simulated hold", func(t *testing.T) {
		b, err := NewBooking(validParams())
		if err != nil {
			t.Fatal(err)
		}
		if b.State != StatePending {
			t.Fatalf("new booking state = %s, want %s", b.State, StatePending)
		}
		if err := b.Accept(now); err != nil {
			t.Fatal(err)
		}
		if b.State != StateAccepted {
			t.Fatalf("state = %s, want %s", b.State, StateAccepted)
		}
		if b.PaymentHold != "sim-hold-bkg-1" {
			t.Fatalf("payment hold = %q", b.PaymentHold)
		}
		if err := b.Accept(now); !errors.Is(err, ErrInvalidState) {
			t.Fatalf("second accept error = %v, want %v", err, ErrInvalidState)
		}
	})

	t.Run("cancel after accept releases dates", func(t *testing.T) {
		b, _ := NewBooking(validParams())
		b.ClearEvents()
		_ = b.Accept(now)
		if err := b.Cancel("contract fell through", now); err != nil {
			t.Fatal(err)
		}
		if b.PaymentHold != "" {
			t.Fatalf("payment hold not cleared: %q", b.PaymentHold)
		}
		var cancelled *BookingCancelled
		for _, ev := range b.PendingEvents() {
			if e, ok := ev.(BookingCancelled); ok {
				cancelled = &e
			}
		}
		if cancelled == nil {
			t.Fatal("no BookingCancelled event recorded")
		}
		if !cancelled.ReleasesDates {
			t.Fatal("cancel of an accepted booking should release dates")
		}
	})

	t.Run("cancel while pending does not release dates", func(t *testing.T) {
		b, _ := NewBooking(validParams())
		b.ClearEvents()
		if err := b.Cancel("", now); err != nil {
			t.Fatal(err)
		}
		ev, ok := b.PendingEvents()[0].(BookingCancelled)
		if !ok {
			t.Fatalf("unexpected event %T", b.PendingEvents()[0])
		}
		if ev.ReleasesDates {
			t.Fatal("pending cancel should not release dates")
		}
	})

	t.Run("decline only from pending", func(t *testing.T) {
		b, _ := NewBooking(validParams())
		_ = b.Decline("dates no longer open", now)
		if b.State != StateDeclined {
			t.Fatalf("state = %s, want %s", b.State, StateDeclined)
		}
		if err := b.Cancel("", now); !errors.Is(err, ErrInvalidState) {
			t.Fatalf("cancel after decline error = %v, want %v", err, ErrInvalidState)
		}
	})

	t.Run("complete makes booking reviewable", func(t *testing.T) {
		b, _ := NewBooking(validParams())
		_ = b.Accept(now)
		if b.Reviewable() {
			t.Fatal("accepted booking should not yet be reviewable")
		}
		if err := b.Complete(now); err != nil {
			t.Fatal(err)
		}
		if !b.Reviewable() {
			t.Fatal("completed booking should be reviewable")
		}
	})
}
