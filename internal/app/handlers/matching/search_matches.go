package matching

import (
	"context"
	"time"

	"shiftstay/internal/app/dto"
	"shiftstay/internal/app/handlers/support"
	"shiftstay/internal/app/queries"
	"shiftstay/internal/app/uow"
	domainlistings "shiftstay/internal/domain/listings"
	domainmatching "shiftstay/internal/domain/matching"
)

const (
	searchMatchesKey = "matching.search"

	defaultMatchPage = 24
)

// SearchMatchesQuery carries a nurse's search with scoring preferences.
type SearchMatchesQuery struct {
	Location         string
	State            string
	MaxBudgetCents   int64
	RoomType         string
	Amenities        []string
	MaxHospitalMin   int
	StartDate        time.Time
	EndDate          time.Time
	Limit            int
	Offset           int
	OnlyPerfectMatch bool
}

func (q SearchMatchesQuery) Key() string { return searchMatchesKey }

// SearchMatchesHandler scores active listings against the search and returns
// them ranked best first. The calendar is the authority for the availability
// sub-score; listings without a calendar fall back to their published windows.
type SearchMatchesHandler struct {
	UoWFactory uow.UoWFactory
}

func (h *SearchMatchesHandler) Handle(ctx context.Context, q SearchMatchesQuery) (dto.MatchCollection, error) {
	unit, ctx, cleanup, err := support.BeginReadOnlyUnit(ctx, h.UoWFactory)
	if err != nil {
		return dto.MatchCollection{}, err
	}
	if cleanup != nil {
		defer cleanup()
	}

	searchParams := domainlistings.SearchParams{
		LocationQuery: q.Location,
		State:         q.State,
		RoomType:      domainlistings.RoomType(q.RoomType),
		OnlyActive:    true,
	}.Normalized()
	// Scoring needs the full candidate set; paging happens after ranking.
	searchParams.Limit = 0
	searchParams.Offset = 0

	result, err := unit.Listings().Search(ctx, searchParams)
	if err != nil {
		return dto.MatchCollection{}, err
	}

	prefs := domainmatching.Preferences{
		Location:       q.Location,
		MaxBudgetCents: q.MaxBudgetCents,
		RoomType:       domainlistings.NormalizeRoomType(q.RoomType),
		StartDate:      q.StartDate,
		EndDate:        q.EndDate,
		Amenities:      append([]string(nil), q.Amenities...),
	}
	prefs.MaxHospitalMinutes = q.MaxHospitalMin

	ranked := domainmatching.Rank(result.Items, prefs, calendarResolver(ctx, unit))
	if q.OnlyPerfectMatch {
		ranked = domainmatching.FilterPerfect(ranked)
	}
	total := len(ranked)
	ranked = page(ranked, q.Offset, q.Limit)
	return dto.MapMatchedListings(ranked, total), nil
}

// calendarResolver returns the calendar-backed availability predicate for a
// listing, or nil when the listing has no calendar yet.
func calendarResolver(ctx context.Context, unit uow.UnitOfWork) domainmatching.AvailabilityResolver {
	return func(l *domainlistings.Listing) domainmatching.AvailabilityFunc {
		cal, err := unit.Availability().Calendar(ctx, l.ID)
		if err != nil || cal == nil {
			return nil
		}
		return func(start, end time.Time) bool {
			ok, err := cal.IsRangeAvailable(start, end, "")
			return err == nil && ok
		}
	}
}

func page(items []domainmatching.RankedListing, offset, limit int) []domainmatching.RankedListing {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(items) {
		return nil
	}
	items = items[offset:]
	if limit <= 0 {
		limit = defaultMatchPage
	}
	if limit < len(items) {
		items = items[:limit]
	}
	return items
}

var _ queries.Handler[SearchMatchesQuery, dto.MatchCollection] = (*SearchMatchesHandler)(nil)
