package listings

import (
	"context"

	"shiftstay/internal/app/dto"
	"shiftstay/internal/app/handlers/support"
	"shiftstay/internal/app/queries"
	"shiftstay/internal/app/uow"
	domainlistings "shiftstay/internal/domain/listings"
)

const hostListingsKey = "listings.host_list"

type HostListingsQuery struct {
	HostID string
}

func (q HostListingsQuery) Key() string { return hostListingsKey }

// HostListingsHandler lists the host's own listings in every state, drafts
// included.
type HostListingsHandler struct {
	UoWFactory uow.UoWFactory
}

func (h *HostListingsHandler) Handle(ctx context.Context, q HostListingsQuery) (dto.ListingCatalog, error) {
	unit, ctx, cleanup, err := support.BeginReadOnlyUnit(ctx, h.UoWFactory)
	if err != nil {
		return dto.ListingCatalog{}, err
	}
	if cleanup != nil {
		defer cleanup()
	}

	result, err := unit.Listings().Search(ctx, domainlistings.SearchParams{
		Host: domainlistings.HostID(q.HostID),
		Sort: domainlistings.SortByNewest,
	})
	if err != nil {
		return dto.ListingCatalog{}, err
	}
	return dto.MapListingCatalog(result.Items, result.Total), nil
}

var _ queries.Handler[HostListingsQuery, dto.ListingCatalog] = (*HostListingsHandler)(nil)
