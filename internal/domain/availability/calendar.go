package availability

import (
	"context"
	"errors"
	"time"

	"shiftstay/internal/domain/listings"
	"shiftstay/internal/domain/shared/daterange"
	"shiftstay/internal/domain/shared/events"
)

var (
	ErrInvalidRange         = errors.New("availability: end date must be after start date")
	ErrRangeConflict        = errors.New("availability: range conflicts with an existing block")
	ErrBookedRangeImmutable = errors.New("availability: booked ranges cannot be unblocked")
	ErrBlockNotFound        = errors.New("availability: block not found")
	ErrCalendarNotFound     = errors.New("availability: calendar not found")
	ErrBookingRefRequired   = errors.New("availability: booked block requires a booking reference")
)

// Calendar holds a listing's availability blocks plus the fallback price and
// min-stay applied to days no block overrides.
type Calendar struct {
	ListingID               listings.ListingID
	Blocks                  []Block
	DefaultMonthlyRateCents int64
	DefaultMinStayNights    int
	Version                 int64
	events.EventRecorder
}

type Repository interface {
	Calendar(ctx context.Context, id listings.ListingID) (*Calendar, error)
	Save(ctx context.Context, calendar *Calendar) error
}

func NewCalendar(id listings.ListingID, monthlyRateCents int64, minStayNights int) *Calendar {
	return &Calendar{
		ListingID:               id,
		DefaultMonthlyRateCents: monthlyRateCents,
		DefaultMinStayNights:    minStayNights,
	}
}

// IsRangeAvailable reports whether the stay [start, end) is free of blocked or
// booked blocks. The end is half-open: checking in on a block's last day is
// allowed. Blocks carrying excludeBookingID are skipped, which lets a booking
// re-check its own dates while being modified. start >= end is a validation
// error, never a silent "available".
func (c *Calendar) IsRangeAvailable(start, end time.Time, excludeBookingID string) (bool, error) {
	start = daterange.Day(start)
	end = daterange.Day(end)
	if start.IsZero() || end.IsZero() || !end.After(start) {
		return false, ErrInvalidRange
	}
	for _, block := range c.Blocks {
		if !block.Conflicting() {
			continue
		}
		if excludeBookingID != "" && block.BookingID == excludeBookingID {
			continue
		}
		if block.StartDate.Before(end) && start.Before(block.EndDate) {
			return false, nil
		}
	}
	return true, nil
}

// DayAvailability derives one entry per calendar day over a window of whole
// months starting at start. Pure function of the calendar's state.
func (c *Calendar) DayAvailability(start time.Time, monthsWindow int) []DayAvailability {
	start = daterange.Day(start)
	if monthsWindow <= 0 {
		monthsWindow = 1
	}
	end := start.AddDate(0, monthsWindow, 0)
	days := make([]DayAvailability, 0, daterange.DaysBetween(start, end))
	for d := start; d.Before(end); d = d.AddDate(0, 0, 1) {
		days = append(days, c.dayState(d))
	}
	return days
}

// dayState resolves a single day. When blocks illegitimately overlap, the most
// restrictive status wins (booked over blocked over available); among equally
// restrictive blocks the earliest-listed one applies.
func (c *Calendar) dayState(d time.Time) DayAvailability {
	day := DayAvailability{
		Date:             d,
		Status:           StatusAvailable,
		MonthlyRateCents: c.DefaultMonthlyRateCents,
		MinStayNights:    c.DefaultMinStayNights,
	}
	var covering *Block
	for i := range c.Blocks {
		block := &c.Blocks[i]
		if !block.CoversDay(d) {
			continue
		}
		if covering == nil || block.Status.restrictiveness() > covering.Status.restrictiveness() {
			covering = block
		}
	}
	if covering == nil {
		return day
	}
	day.Status = covering.Status
	day.BookingID = covering.BookingID
	if covering.MonthlyRateCents > 0 {
		day.MonthlyRateCents = covering.MonthlyRateCents
	}
	if covering.MinStayNights > 0 {
		day.MinStayNights = covering.MinStayNights
	}
	return day
}

// BlockDateParams carries the host-supplied details of a manual block.
type BlockDateParams struct {
	ID               string
	StartDate        time.Time
	EndDate          time.Time
	Reason           BlockReason
	Notes            string
	MinStayNights    int
	MonthlyRateCents int64
	Now              time.Time
}

// BlockDates inserts a blocked interval. The range must be fully free per
// IsRangeAvailable; a covered range is rejected with ErrRangeConflict and
// nothing is inserted.
func (c *Calendar) BlockDates(params BlockDateParams) (Block, error) {
	ok, err := c.IsRangeAvailable(params.StartDate, params.EndDate, "")
	if err != nil {
		return Block{}, err
	}
	if !ok {
		return Block{}, ErrRangeConflict
	}
	reason := params.Reason
	switch reason {
	case ReasonMaintenance, ReasonPersonalUse, ReasonOther:
	default:
		reason = ReasonOther
	}
	block := Block{
		ID:               params.ID,
		StartDate:        daterange.Day(params.StartDate),
		EndDate:          daterange.Day(params.EndDate),
		Status:           StatusBlocked,
		MinStayNights:    params.MinStayNights,
		MonthlyRateCents: params.MonthlyRateCents,
		Reason:           reason,
		Notes:            params.Notes,
		CreatedAt:        params.Now.UTC(),
	}
	if err := block.validate(); err != nil {
		return Block{}, err
	}
	c.Blocks = append(c.Blocks, block)
	c.Record(CalendarBlockedEvent(c.ListingID, block, params.Now))
	return block, nil
}

// Unblock removes a host block. Booked blocks are immutable through this path;
// cancelling the booking is the only way to free them.
func (c *Calendar) Unblock(blockID string, now time.Time) error {
	idx := -1
	for i, block := range c.Blocks {
		if block.ID == blockID {
			idx = i
			break
		}
	}
	if idx == -1 {
		return ErrBlockNotFound
	}
	if c.Blocks[idx].Status == StatusBooked {
		return ErrBookedRangeImmutable
	}
	removed := c.Blocks[idx]
	c.Blocks = append(c.Blocks[:idx], c.Blocks[idx+1:]...)
	c.Record(CalendarReleasedEvent(c.ListingID, removed, now))
	return nil
}

// Reserve marks a stay's dates as booked. Driven by booking acceptance.
func (c *Calendar) Reserve(r daterange.DateRange, bookingID string, now time.Time) error {
	if bookingID == "" {
		return ErrBookingRefRequired
	}
	ok, err := c.IsRangeAvailable(r.CheckIn, r.CheckOut, bookingID)
	if err != nil {
		return err
	}
	if !ok {
		c.Record(CalendarOverbookingPreventedEvent(c.ListingID, r, now))
		return ErrRangeConflict
	}
	block := Block{
		ID:        "bk-" + bookingID,
		StartDate: r.CheckIn,
		EndDate:   r.CheckOut,
		Status:    StatusBooked,
		BookingID: bookingID,
		CreatedAt: now.UTC(),
	}
	c.Blocks = append(c.Blocks, block)
	c.Record(CalendarBlockedEvent(c.ListingID, block, now))
	return nil
}

// Release frees the booked block created for bookingID, the cancellation path.
func (c *Calendar) Release(bookingID string, now time.Time) error {
	idx := -1
	for i, block := range c.Blocks {
		if block.Status == StatusBooked && block.BookingID == bookingID {
			idx = i
			break
		}
	}
	if idx == -1 {
		return ErrBlockNotFound
	}
	removed := c.Blocks[idx]
	c.Blocks = append(c.Blocks[:idx], c.Blocks[idx+1:]...)
	c.Record(CalendarReleasedEvent(c.ListingID, removed, now))
	return nil
}
