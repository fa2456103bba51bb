package availability

import (
	"time"

	"shiftstay/internal/domain/shared/daterange"
)

type BlockStatus string

const (
	StatusAvailable BlockStatus = "available"
	StatusBlocked   BlockStatus = "blocked"
	StatusBooked    BlockStatus = "booked"
)

// restrictiveness orders statuses for overlap resolution: booked beats blocked
// beats available.
func (s BlockStatus) restrictiveness() int {
	switch s {
	case StatusBooked:
		return 2
	case StatusBlocked:
		return 1
	default:
		return 0
	}
}

type BlockReason string

const (
	ReasonMaintenance BlockReason = "maintenance"
	ReasonPersonalUse BlockReason = "personal_use"
	ReasonOther       BlockReason = "other"
)

// Block is a dated interval on a listing's calendar carrying a status.
// StartDate and EndDate are inclusive day values (midnight UTC): a block
// 06-01..06-10 marks days 1 through 10. Range conflict checks are half-open
// against the end, so a stay checking in on 06-10 does not collide with it.
type Block struct {
	ID               string
	StartDate        time.Time
	EndDate          time.Time
	Status           BlockStatus
	BookingID        string
	MinStayNights    int
	MonthlyRateCents int64
	Reason           BlockReason
	Notes            string
	CreatedAt        time.Time
}

// Conflicting reports whether the block makes its days unavailable.
func (b Block) Conflicting() bool {
	return b.Status == StatusBlocked || b.Status == StatusBooked
}

// CoversDay reports whether d falls inside the block's inclusive day span.
func (b Block) CoversDay(d time.Time) bool {
	d = daterange.Day(d)
	return !d.Before(b.StartDate) && !d.After(b.EndDate)
}

func (b Block) validate() error {
	if b.StartDate.IsZero() || b.EndDate.IsZero() || b.EndDate.Before(b.StartDate) {
		return ErrInvalidRange
	}
	if b.Status == StatusBooked && b.BookingID == "" {
		return ErrBookingRefRequired
	}
	return nil
}

// DayAvailability is a single calendar day's derived state for a listing.
// It is recomputed from blocks and fallbacks, never stored.
type DayAvailability struct {
	Date             time.Time
	Status           BlockStatus
	MonthlyRateCents int64
	MinStayNights    int
	BookingID        string
}
