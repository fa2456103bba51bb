package listings

import (
	"context"
	"errors"

	"shiftstay/internal/app/dto"
	"shiftstay/internal/app/handlers/support"
	"shiftstay/internal/app/queries"
	"shiftstay/internal/app/uow"
	domainavailability "shiftstay/internal/domain/availability"
	domainlistings "shiftstay/internal/domain/listings"
)

const getDetailKey = "listings.detail"

type GetDetailQuery struct {
	ListingID string
}

func (q GetDetailQuery) Key() string { return getDetailKey }

type ListingPage struct {
	Listing  dto.ListingDetail `json:"listing"`
	Calendar dto.Calendar      `json:"calendar"`
}

// GetDetailHandler returns the public listing page: the listing and its
// calendar blocks. Listings without a calendar return an empty calendar.
type GetDetailHandler struct {
	UoWFactory uow.UoWFactory
}

func (h *GetDetailHandler) Handle(ctx context.Context, q GetDetailQuery) (ListingPage, error) {
	unit, ctx, cleanup, err := support.BeginReadOnlyUnit(ctx, h.UoWFactory)
	if err != nil {
		return ListingPage{}, err
	}
	if cleanup != nil {
		defer cleanup()
	}

	listing, err := unit.Listings().ByID(ctx, domainlistings.ListingID(q.ListingID))
	if err != nil {
		return ListingPage{}, err
	}

	page := ListingPage{Listing: dto.MapListingDetail(listing)}
	calendar, err := unit.Availability().Calendar(ctx, listing.ID)
	if err != nil {
		if !errors.Is(err, domainavailability.ErrCalendarNotFound) {
			return ListingPage{}, err
		}
		page.Calendar = dto.Calendar{ListingID: q.ListingID, Blocks: []dto.CalendarBlock{}}
		return page, nil
	}
	page.Calendar = dto.MapCalendar(calendar, nil)
	return page, nil
}

var _ queries.Handler[GetDetailQuery, ListingPage] = (*GetDetailHandler)(nil)
