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

const monthGridKey = "availability.month_grid"

type MonthGridQuery struct {
	ListingID string
	Year      int
	Month     time.Month
}

func (q MonthGridQuery) Key() string { return monthGridKey }

// MonthGridHandler renders one month as whole calendar weeks for the date
// picker, padded with adjacent-month days.
type MonthGridHandler struct {
	UoWFactory uow.UoWFactory
	Now        func() time.Time
}

func (h *MonthGridHandler) Handle(ctx context.Context, q MonthGridQuery) (dto.MonthGrid, error) {
	unit, ctx, cleanup, err := support.BeginReadOnlyUnit(ctx, h.UoWFactory)
	if err != nil {
		return dto.MonthGrid{}, err
	}
	if cleanup != nil {
		defer cleanup()
	}

	calendar, err := unit.Availability().Calendar(ctx, domainlistings.ListingID(q.ListingID))
	if err != nil {
		return dto.MonthGrid{}, err
	}

	now := time.Now
	if h.Now != nil {
		now = h.Now
	}
	cells := calendar.MonthGrid(q.Year, q.Month, now().UTC())
	return dto.MapMonthGrid(q.ListingID, q.Year, q.Month, cells), nil
}

var _ queries.Handler[MonthGridQuery, dto.MonthGrid] = (*MonthGridHandler)(nil)
