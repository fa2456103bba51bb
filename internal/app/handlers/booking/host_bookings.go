package booking

import (
	"context"

	"shiftstay/internal/app/dto"
	"shiftstay/internal/app/handlers/support"
	"shiftstay/internal/app/queries"
	"shiftstay/internal/app/uow"
	domainlistings "shiftstay/internal/domain/listings"
)

const hostBookingsKey = "booking.host_list"

type HostBookingsQuery struct {
	HostID string
}

func (q HostBookingsQuery) Key() string { return hostBookingsKey }

// HostBookingsHandler lists every request against the host's listings, newest
// first per listing ordering from the repository.
type HostBookingsHandler struct {
	UoWFactory uow.UoWFactory
}

func (h *HostBookingsHandler) Handle(ctx context.Context, q HostBookingsQuery) (dto.HostBookingCollection, error) {
	unit, ctx, cleanup, err := support.BeginReadOnlyUnit(ctx, h.UoWFactory)
	if err != nil {
		return dto.HostBookingCollection{}, err
	}
	if cleanup != nil {
		defer cleanup()
	}

	result, err := unit.Listings().Search(ctx, domainlistings.SearchParams{Host: domainlistings.HostID(q.HostID)})
	if err != nil {
		return dto.HostBookingCollection{}, err
	}

	out := dto.HostBookingCollection{Items: []dto.HostBookingSummary{}}
	for _, listing := range result.Items {
		bookings, err := unit.Booking().ListByListing(ctx, listing.ID)
		if err != nil {
			return dto.HostBookingCollection{}, err
		}
		for _, b := range bookings {
			out.Items = append(out.Items, dto.MapHostBookingSummary(b, listing))
		}
	}
	return out, nil
}

var _ queries.Handler[HostBookingsQuery, dto.HostBookingCollection] = (*HostBookingsHandler)(nil)
