package listings

import (
	"context"
	"time"

	"shiftstay/internal/app/dto"
	"shiftstay/internal/app/handlers/support"
	"shiftstay/internal/app/queries"
	"shiftstay/internal/app/uow"
	domainlistings "shiftstay/internal/domain/listings"
)

const searchCatalogKey = "listings.catalog"

// SearchCatalogQuery describes request filters.
type SearchCatalogQuery struct {
	Location       string
	State          string
	RoomType       string
	Tags           []string
	MaxBudgetCents int64
	MaxHospitalMin int
	CheckIn        time.Time
	CheckOut       time.Time
	Sort           string
	Limit          int
	Offset         int
}

func (q SearchCatalogQuery) Key() string { return searchCatalogKey }

// SearchCatalogHandler loads active listings with applied filters.
type SearchCatalogHandler struct {
	UoWFactory uow.UoWFactory
}

func (h *SearchCatalogHandler) Handle(ctx context.Context, q SearchCatalogQuery) (dto.ListingCatalog, error) {
	unit, ctx, cleanup, err := support.BeginReadOnlyUnit(ctx, h.UoWFactory)
	if err != nil {
		return dto.ListingCatalog{}, err
	}
	if cleanup != nil {
		defer cleanup()
	}

	searchParams := domainlistings.SearchParams{
		LocationQuery:      q.Location,
		State:              q.State,
		RoomType:           domainlistings.RoomType(q.RoomType),
		Tags:               append([]string(nil), q.Tags...),
		MaxBudgetCents:     q.MaxBudgetCents,
		MaxHospitalMinutes: q.MaxHospitalMin,
		CheckIn:            q.CheckIn,
		CheckOut:           q.CheckOut,
		Sort:               domainlistings.CatalogSort(q.Sort),
		Limit:              q.Limit,
		Offset:             q.Offset,
		OnlyActive:         true,
	}

	result, err := unit.Listings().Search(ctx, searchParams.Normalized())
	if err != nil {
		return dto.ListingCatalog{}, err
	}
	return dto.MapListingCatalog(result.Items, result.Total), nil
}

var _ queries.Handler[SearchCatalogQuery, dto.ListingCatalog] = (*SearchCatalogHandler)(nil)
