package availability

import (
	"context"
	"time"

	"shiftstay/internal/app/dto"
	"shiftstay/internal/app/handlers/support"
	"shiftstay/internal/app/queries"
	"shiftstay/internal/app/uow"
	domainlistings "shiftstay/internal/domain/listings"
)

const getCalendarKey = "availability.calendar"

type GetCalendarQuery struct {
	ListingID string
	From      time.Time
	Months    int
}

func (q GetCalendarQuery) Key() string { return getCalendarKey }

// GetCalendarHandler loads the calendar blocks plus a per-day expansion of the
// requested window.
type GetCalendarHandler struct {
	UoWFactory uow.UoWFactory
}

func (h *GetCalendarHandler) Handle(ctx context.Context, q GetCalendarQuery) (dto.Calendar, error) {
	unit, ctx, cleanup, err := support.BeginReadOnlyUnit(ctx, h.UoWFactory)
	if err != nil {
		return dto.Calendar{}, err
	}
	if cleanup != nil {
		defer cleanup()
	}

	calendar, err := unit.Availability().Calendar(ctx, domainlistings.ListingID(q.ListingID))
	if err != nil {
		return dto.Calendar{}, err
	}

	from := q.From
	if from.IsZero() {
		from = time.Now().UTC()
	}
	months := q.Months
	if months <= 0 {
		months = 3
	}
	days := calendar.DayAvailability(from, months)
	return dto.MapCalendar(calendar, days), nil
}

var _ queries.Handler[GetCalendarQuery, dto.Calendar] = (*GetCalendarHandler)(nil)
