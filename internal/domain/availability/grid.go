package availability

import (
	"time"

	"shiftstay/internal/domain/shared/daterange"
)

// GridCell is one cell of a 7-column date-picker grid. Cells outside the
// target month are carried for alignment only and render disabled; Past marks
// days before today.
type GridCell struct {
	Date    time.Time
	InMonth bool
	Past    bool
	Day     DayAvailability
}

// MonthGrid produces the picker grid for the given month: whole weeks starting
// on Sunday, padded with leading and trailing days from the adjacent months.
// The result length is always a multiple of 7.
func (c *Calendar) MonthGrid(year int, month time.Month, today time.Time) []GridCell {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	start := first.AddDate(0, 0, -int(first.Weekday()))
	last := first.AddDate(0, 1, -1)
	end := last.AddDate(0, 0, 6-int(last.Weekday()))
	today = daterange.Day(today)

	cells := make([]GridCell, 0, daterange.DaysBetween(start, end)+1)
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		cells = append(cells, GridCell{
			Date:    d,
			InMonth: d.Month() == month && d.Year() == year,
			Past:    d.Before(today),
			Day:     c.dayState(d),
		})
	}
	return cells
}

// RangeSelection models the picker's click-to-select behavior: the first click
// starts a range, a later click completes it once the span meets the min-stay
// threshold, and a click on or before the current start restarts from that day.
type RangeSelection struct {
	MinStayNights int
	Start         time.Time
	End           time.Time
}

func (s *RangeSelection) Click(day time.Time) {
	day = daterange.Day(day)
	switch {
	case s.Start.IsZero() || !s.End.IsZero():
		s.Start, s.End = day, time.Time{}
	case !day.After(s.Start):
		s.Start, s.End = day, time.Time{}
	case daterange.DaysBetween(s.Start, day) >= s.minStay():
		s.End = day
	}
	// A click after the start that falls short of the min stay leaves the
	// selection open.
}

// Range returns the completed selection, if any.
func (s *RangeSelection) Range() (daterange.DateRange, bool) {
	if s.Start.IsZero() || s.End.IsZero() {
		return daterange.DateRange{}, false
	}
	r, err := daterange.New(s.Start, s.End)
	if err != nil {
		return daterange.DateRange{}, false
	}
	return r, true
}

func (s *RangeSelection) Reset() {
	s.Start, s.End = time.Time{}, time.Time{}
}

func (s *RangeSelection) minStay() int {
	if s.MinStayNights > 0 {
		return s.MinStayNights
	}
	return 1
}
