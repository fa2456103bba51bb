package booking

import (
	"context"
	"errors"
	"time"

	"shiftstay/internal/domain/listings"
	"shiftstay/internal/domain/shared/daterange"
	"shiftstay/internal/domain/shared/events"
	"shiftstay/internal/domain/shared/money"
)

var (
	ErrGuestRequired   = errors.New("booking: nurse id required")
	ErrInvalidState    = errors.New("booking: invalid state transition")
	ErrTotalRequired   = errors.New("booking: total must be positive")
	ErrBookingNotFound = errors.New("booking: not found")
	ErrMinStay         = errors.New("booking: stay shorter than the listing minimum")
)

type BookingID string

type BookingState string

const (
	StatePending   BookingState = "PENDING"
	StateAccepted  BookingState = "ACCEPTED"
	StateDeclined  BookingState = "DECLINED"
	StateCancelled BookingState = "CANCELLED"
	StateCompleted BookingState = "COMPLETED"
)

// Booking is a nurse's request to occupy a listing for a contract stay.
// Acceptance is what reserves the listing's calendar; until then the request
// holds no dates.
type Booking struct {
	ID          BookingID
	ListingID   listings.ListingID
	NurseID     string
	Range       daterange.DateRange
	Total       money.Money
	State       BookingState
	PaymentHold string
	CreatedAt   time.Time
	UpdatedAt   time.Time
	Version     int64
	events.EventRecorder
}

type Repository interface {
	ByID(ctx context.Context, id BookingID) (*Booking, error)
	Save(ctx context.Context, booking *Booking) error
	ListByNurse(ctx context.Context, nurseID string) ([]*Booking, error)
	ListByListing(ctx context.Context, listingID listings.ListingID) ([]*Booking, error)
}

// QuoteTotalCents derives a stay total from a monthly rate: the rate is spread
// over an average month (365/12 days) and multiplied by the nights booked.
func QuoteTotalCents(monthlyRateCents int64, nights int) int64 {
	if monthlyRateCents <= 0 || nights <= 0 {
		return 0
	}
	return monthlyRateCents * int64(nights) * 12 / 365
}

type CreateParams struct {
	ID            BookingID
	ListingID     listings.ListingID
	NurseID       string
	Range         daterange.DateRange
	Total         money.Money
	MinStayNights int
	CreatedAt     time.Time
}

func NewBooking(params CreateParams) (*Booking, error) {
	if params.NurseID == "" {
		return nil, ErrGuestRequired
	}
	if err := params.Range.Validate(); err != nil {
		return nil, err
	}
	if params.MinStayNights > 0 && params.Range.Nights() < params.MinStayNights {
		return nil, ErrMinStay
	}
	if params.Total.Cents <= 0 {
		return nil, ErrTotalRequired
	}
	now := params.CreatedAt.UTC()
	b := &Booking{
		ID:        params.ID,
		ListingID: params.ListingID,
		NurseID:   params.NurseID,
		Range:     params.Range,
		Total:     params.Total,
		State:     StatePending,
		CreatedAt: now,
		UpdatedAt: now,
	}
	b.Record(BookingRequested{
		BookingID: b.ID,
		ListingID: b.ListingID,
		NurseID:   b.NurseID,
		CheckIn:   b.Range.CheckIn,
		CheckOut:  b.Range.CheckOut,
		Total:     b.Total,
		At:        now,
	})
	return b, nil
}

// Accept confirms the request on the host's behalf. The payment hold is a
// simulation; no capture happens anywhere in this system.
func (b *Booking) Accept(now time.Time) error {
	if b.State != StatePending {
		return ErrInvalidState
	}
	b.State = StateAccepted
	b.PaymentHold = "sim-hold-" + string(b.ID)
	b.UpdatedAt = now.UTC()
	b.Record(BookingAccepted{BookingID: b.ID, ListingID: b.ListingID, At: b.UpdatedAt})
	return nil
}

func (b *Booking) Decline(reason string, now time.Time) error {
	if b.State != StatePending {
		return ErrInvalidState
	}
	b.State = StateDeclined
	b.UpdatedAt = now.UTC()
	b.Record(BookingDeclined{BookingID: b.ID, Reason: reason, At: b.UpdatedAt})
	return nil
}

// Cancel frees an accepted or pending request. Cancelling an accepted booking
// is the only legitimate route to releasing its booked calendar range.
func (b *Booking) Cancel(reason string, now time.Time) error {
	if b.State != StatePending && b.State != StateAccepted {
		return ErrInvalidState
	}
	released := b.State == StateAccepted
	b.State = StateCancelled
	b.PaymentHold = ""
	b.UpdatedAt = now.UTC()
	b.Record(BookingCancelled{BookingID: b.ID, ListingID: b.ListingID, Reason: reason, ReleasesDates: released, At: b.UpdatedAt})
	return nil
}

// Complete marks a stay finished, making the booking reviewable.
func (b *Booking) Complete(now time.Time) error {
	if b.State != StateAccepted {
		return ErrInvalidState
	}
	b.State = StateCompleted
	b.UpdatedAt = now.UTC()
	b.Record(BookingCompleted{BookingID: b.ID, ListingID: b.ListingID, At: b.UpdatedAt})
	return nil
}

// Reviewable reports whether a stay can be reviewed by its nurse.
func (b *Booking) Reviewable() bool {
	return b.State == StateCompleted
}
