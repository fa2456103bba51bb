package dto

import (
	"time"

	"shiftstay/internal/domain/availability"
)

type CalendarBlock struct {
	ID        string    `json:"id"`
	From      time.Time `json:"from"`
	To        time.Time `json:"to"`
	Status    string    `json:"status"`
	Reason    string    `json:"reason,omitempty"`
	Notes     string    `json:"notes,omitempty"`
	MinStay   int       `json:"min_stay_nights,omitempty"`
	RateCents int64     `json:"monthly_rate_cents,omitempty"`
}

type CalendarDay struct {
	Date      string `json:"date"`
	Status    string `json:"status"`
	RateCents int64  `json:"monthly_rate_cents"`
	MinStay   int    `json:"min_stay_nights"`
	BookingID string `json:"booking_id,omitempty"`
}

type Calendar struct {
	ListingID string          `json:"listing_id"`
	Blocks    []CalendarBlock `json:"blocks"`
	Days      []CalendarDay   `json:"days,omitempty"`
}

type GridCell struct {
	Date    string `json:"date"`
	InMonth bool   `json:"in_month"`
	Past    bool   `json:"past"`
	Status  string `json:"status"`
}

type MonthGrid struct {
	ListingID string     `json:"listing_id"`
	Year      int        `json:"year"`
	Month     int        `json:"month"`
	Cells     []GridCell `json:"cells"`
}

const dayFormat = "2006-01-02"

func MapCalendar(cal *availability.Calendar, days []availability.DayAvailability) Calendar {
	if cal == nil {
		return Calendar{}
	}
	blocks := make([]CalendarBlock, 0, len(cal.Blocks))
	for _, b := range cal.Blocks {
		blocks = append(blocks, CalendarBlock{
			ID:        b.ID,
			From:      b.StartDate,
			To:        b.EndDate,
			Status:    string(b.Status),
			Reason:    string(b.Reason),
			Notes:     b.Notes,
			MinStay:   b.MinStayNights,
			RateCents: b.MonthlyRateCents,
		})
	}
	out := Calendar{ListingID: string(cal.ListingID), Blocks: blocks}
	for _, d := range days {
		out.Days = append(out.Days, CalendarDay{
			Date:      d.Date.Format(dayFormat),
			Status:    string(d.Status),
			RateCents: d.MonthlyRateCents,
			MinStay:   d.MinStayNights,
			BookingID: d.BookingID,
		})
	}
	return out
}

func MapMonthGrid(listingID string, year int, month time.Month, cells []availability.GridCell) MonthGrid {
	out := MonthGrid{
		ListingID: listingID,
		Year:      year,
		Month:     int(month),
		Cells:     make([]GridCell, 0, len(cells)),
	}
	for _, c := range cells {
		out.Cells = append(out.Cells, GridCell{
			Date:    c.Date.Format(dayFormat),
			InMonth: c.InMonth,
			Past:    c.Past,
			Status:  string(c.Day.Status),
		})
	}
	return out
}
