package availability

import (
	"time"

	"shiftstay/internal/domain/listings"
	"shiftstay/internal/domain/shared/daterange"
)

type CalendarBlocked struct {
	ListingID string
	BlockID   string
	StartDate time.Time
	EndDate   time.Time
	Status    BlockStatus
	Reason    BlockReason
	BookingID string
	At        time.Time
}

func (e CalendarBlocked) EventName() string     { return "calendar.blocked" }
func (e CalendarBlocked) AggregateID() string   { return e.ListingID }
func (e CalendarBlocked) OccurredAt() time.Time { return e.At }

type CalendarReleased struct {
	ListingID string
	BlockID   string
	StartDate time.Time
	EndDate   time.Time
	Status    BlockStatus
	BookingID string
	At        time.Time
}

func (e CalendarReleased) EventName() string     { return "calendar.released" }
func (e CalendarReleased) AggregateID() string   { return e.ListingID }
func (e CalendarReleased) OccurredAt() time.Time { return e.At }

type CalendarOverbookingPrevented struct {
	ListingID string
	CheckIn   time.Time
	CheckOut  time.Time
	At        time.Time
}

func (e CalendarOverbookingPrevented) EventName() string     { return "calendar.overbooking_prevented" }
func (e CalendarOverbookingPrevented) AggregateID() string   { return e.ListingID }
func (e CalendarOverbookingPrevented) OccurredAt() time.Time { return e.At }

func CalendarBlockedEvent(id listings.ListingID, block Block, at time.Time) CalendarBlocked {
	return CalendarBlocked{
		ListingID: string(id),
		BlockID:   block.ID,
		StartDate: block.StartDate,
		EndDate:   block.EndDate,
		Status:    block.Status,
		Reason:    block.Reason,
		BookingID: block.BookingID,
		At:        at,
	}
}

func CalendarReleasedEvent(id listings.ListingID, block Block, at time.Time) CalendarReleased {
	return CalendarReleased{
		ListingID: string(id),
		BlockID:   block.ID,
		StartDate: block.StartDate,
		EndDate:   block.EndDate,
		Status:    block.Status,
		BookingID: block.BookingID,
		At:        at,
	}
}

func CalendarOverbookingPreventedEvent(id listings.ListingID, r daterange.DateRange, at time.Time) CalendarOverbookingPrevented {
	return CalendarOverbookingPrevented{ListingID: string(id), CheckIn: r.CheckIn, CheckOut: r.CheckOut, At: at}
}
