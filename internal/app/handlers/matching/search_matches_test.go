package matching

import (
	"context"
	"testing"
	"time"

	domainavailability "shiftstay/internal/domain/availability"
	domainlistings "shiftstay/internal/domain/listings"
	"shiftstay/internal/domain/shared/daterange"
	"shiftstay/internal/infra/storage/memory"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func newFactory(t *testing.T) memory.Factory {
	t.Helper()
	return memory.Factory{
		ListingsRepo:     memory.NewListingRepository(),
		AvailabilityRepo: memory.NewAvailabilityRepository(),
		BookingRepo:      memory.NewBookingRepository(),
		ReviewsRepo:      memory.NewReviewsRepository(),
		UsersRepo:        memory.NewUserRepository(),
	}
}

func saveListing(t *testing.T, factory memory.Factory, id string, mutate func(*domainlistings.Listing)) {
	t.Helper()
	window, err := daterange.New(day(2026, time.March, 1), day(2026, time.December, 1))
	if err != nil {
		t.Fatalf("window: %v", err)
	}
	listing := &domainlistings.Listing{
		ID:                  domainlistings.ListingID(id),
		Host:                "host-1",
		Title:               "Room near St. Luke's",
		City:                "Boise",
		State:               "ID",
		HospitalName:        "St. Luke's",
		MinutesToHospital:   8,
		MonthlyRateCents:    100000,
		RoomType:            domainlistings.RoomPrivate,
		Tags:                []string{"wifi", "parking"},
		AvailabilityWindows: []daterange.DateRange{window},
		Status:              domainlistings.ListingActive,
		CreatedAt:           day(2026, time.January, 1),
	}
	if mutate != nil {
		mutate(listing)
	}
	if err := factory.ListingsRepo.Save(context.Background(), listing); err != nil {
		t.Fatalf("save listing %s: %v", id, err)
	}
}

// Three candidates: a full match without a calendar (window fallback), the
// same unit with its calendar already booked for the requested dates, and a
// weak fit on the edge of the search area.
func seedMatchCatalog(t *testing.T, factory memory.Factory) {
	t.Helper()
	saveListing(t, factory, "perfect", nil)
	saveListing(t, factory, "busy", nil)
	// Passes the catalog's location filter through its hospital city, but the
	// scorer sees no city/hospital-name hit, so the location sub-score is low.
	saveListing(t, factory, "outskirts", func(l *domainlistings.Listing) {
		l.City = "Nampa"
		l.HospitalName = "Saint Alphonsus"
		l.HospitalCity = "Boise"
		l.MinutesToHospital = 40
		l.MonthlyRateCents = 195000
		l.RoomType = domainlistings.RoomEntirePlace
		l.Tags = []string{"pool"}
	})

	stay, err := daterange.New(day(2026, time.April, 1), day(2026, time.May, 1))
	if err != nil {
		t.Fatalf("stay: %v", err)
	}
	calendar := domainavailability.NewCalendar("busy", 100000, 28)
	if err := calendar.Reserve(stay, "bk-1", day(2026, time.March, 1)); err != nil {
		t.Fatalf("reserve: %v", err)
	}
	if err := factory.AvailabilityRepo.Save(context.Background(), calendar); err != nil {
		t.Fatalf("save calendar: %v", err)
	}
}

func matchQuery() SearchMatchesQuery {
	return SearchMatchesQuery{
		Location:       "Boise",
		MaxBudgetCents: 200000,
		RoomType:       "private",
		Amenities:      []string{"wifi", "parking"},
		StartDate:      day(2026, time.April, 1),
		EndDate:        day(2026, time.May, 1),
	}
}

func TestSearchMatchesRanksCalendarOverWindows(t *testing.T) {
	factory := newFactory(t)
	seedMatchCatalog(t, factory)

	handler := &SearchMatchesHandler{UoWFactory: factory}
	result, err := handler.Handle(context.Background(), matchQuery())
	if err != nil {
		t.Fatalf("handle: %v", err)
	}

	if result.Total != 3 {
		t.Fatalf("total = %d, want 3", result.Total)
	}
	order := []string{"perfect", "busy", "outskirts"}
	for i, want := range order {
		if result.Items[i].Listing.ID != want {
			t.Fatalf("rank %d = %s, want %s", i, result.Items[i].Listing.ID, want)
		}
	}

	perfect := result.Items[0].Score
	if perfect.Overall != 100 || !perfect.PerfectMatch {
		t.Errorf("perfect score = %d (perfect=%v), want 100", perfect.Overall, perfect.PerfectMatch)
	}
	if perfect.Breakdown.Availability != 25 {
		t.Errorf("window fallback availability = %d, want 25", perfect.Breakdown.Availability)
	}

	// Its calendar says booked, so the window list must not rescue it.
	busy := result.Items[1].Score
	if busy.Breakdown.Availability != 0 {
		t.Errorf("booked calendar availability = %d, want 0", busy.Breakdown.Availability)
	}
	if busy.PerfectMatch {
		t.Error("booked unit must not be a perfect match")
	}
}

func TestSearchMatchesPerfectOnly(t *testing.T) {
	factory := newFactory(t)
	seedMatchCatalog(t, factory)

	query := matchQuery()
	query.OnlyPerfectMatch = true

	handler := &SearchMatchesHandler{UoWFactory: factory}
	result, err := handler.Handle(context.Background(), query)
	if err != nil {
		t.Fatalf("handle: %v", err)
	}
	if result.Total != 1 || len(result.Items) != 1 {
		t.Fatalf("total = %d items = %d, want 1/1", result.Total, len(result.Items))
	}
	if result.Items[0].Listing.ID != "perfect" {
		t.Errorf("kept %s, want perfect", result.Items[0].Listing.ID)
	}
}

func TestSearchMatchesPaging(t *testing.T) {
	factory := newFactory(t)
	seedMatchCatalog(t, factory)

	query := matchQuery()
	query.Limit = 1
	query.Offset = 1

	handler := &SearchMatchesHandler{UoWFactory: factory}
	result, err := handler.Handle(context.Background(), query)
	if err != nil {
		t.Fatalf("handle: %v", err)
	}
	if result.Total != 3 {
		t.Errorf("total = %d, want full count before paging", result.Total)
	}
	if len(result.Items) != 1 || result.Items[0].Listing.ID != "busy" {
		t.Fatalf("page = %+v, want the second-ranked listing", result.Items)
	}
}
