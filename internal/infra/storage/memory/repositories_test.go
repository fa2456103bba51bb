package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	domainavailability "shiftstay/internal/domain/availability"
	domainbooking "shiftstay/internal/domain/booking"
	domainlistings "shiftstay/internal/domain/listings"
	"shiftstay/internal/domain/shared/daterange"
	"shiftstay/internal/domain/shared/money"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func seedListing(t *testing.T, repo *ListingRepository, id string, mutate func(*domainlistings.Listing)) *domainlistings.Listing {
	t.Helper()
	window, err := daterange.New(day(2026, time.March, 1), day(2026, time.September, 1))
	if err != nil {
		t.Fatalf("window: %v", err)
	}
	listing := &domainlistings.Listing{
		ID:                  domainlistings.ListingID(id),
		Host:                "host-1",
		Title:               "Room near County General",
		City:                "Boise",
		State:               "ID",
		HospitalName:        "County General",
		HospitalCity:        "Boise",
		MinutesToHospital:   10,
		MonthlyRateCents:    150000,
		RoomType:            domainlistings.RoomPrivate,
		Tags:                []string{"furnished", "wifi"},
		MinStayNights:       28,
		AvailabilityWindows: []daterange.DateRange{window},
		Status:              domainlistings.ListingActive,
		CreatedAt:           day(2026, time.January, 1),
	}
	if mutate != nil {
		mutate(listing)
	}
	if err := repo.Save(context.Background(), listing); err != nil {
		t.Fatalf("save listing: %v", err)
	}
	return listing
}

func TestListingSearchFilters(t *testing.T) {
	repo := NewListingRepository()
	seedListing(t, repo, "cheap", nil)
	seedListing(t, repo, "pricey", func(l *domainlistings.Listing) {
		l.MonthlyRateCents = 220000
		l.City = "Spokane"
		l.State = "WA"
		l.HospitalName = "Sacred Heart"
		l.MinutesToHospital = 35
		l.RoomType = domainlistings.RoomEntirePlace
		l.Tags = []string{"furnished", "parking"}
	})
	seedListing(t, repo, "draft", func(l *domainlistings.Listing) {
		l.Status = domainlistings.ListingDraft
	})

	tests := []struct {
		name   string
		params domainlistings.SearchParams
		want   []string
	}{
		{
			name:   "only active by default scope",
			params: domainlistings.SearchParams{OnlyActive: true, Limit: 10},
			want:   []string{"cheap", "pricey"},
		},
		{
			name:   "budget cap",
			params: domainlistings.SearchParams{OnlyActive: true, MaxBudgetCents: 160000, Limit: 10},
			want:   []string{"cheap"},
		},
		{
			name:   "state filter is case insensitive",
			params: domainlistings.SearchParams{OnlyActive: true, State: "wa", Limit: 10},
			want:   []string{"pricey"},
		},
		{
			name:   "location matches hospital name",
			params: domainlistings.SearchParams{OnlyActive: true, LocationQuery: "sacred", Limit: 10},
			want:   []string{"pricey"},
		},
		{
			name:   "all tags required",
			params: domainlistings.SearchParams{OnlyActive: true, Tags: []string{"furnished", "parking"}, Limit: 10},
			want:   []string{"pricey"},
		},
		{
			name:   "commute cap",
			params: domainlistings.SearchParams{OnlyActive: true, MaxHospitalMinutes: 15, Limit: 10},
			want:   []string{"cheap"},
		},
		{
			name: "stay window outside availability excludes",
			params: domainlistings.SearchParams{
				OnlyActive: true,
				CheckIn:    day(2026, time.October, 1),
				CheckOut:   day(2026, time.November, 1),
				Limit:      10,
			},
			want: nil,
		},
		{
			name:   "price descending sort",
			params: domainlistings.SearchParams{OnlyActive: true, Sort: domainlistings.SortByPriceDesc, Limit: 10},
			want:   []string{"pricey", "cheap"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := repo.Search(context.Background(), tt.params)
			if err != nil {
				t.Fatalf("search: %v", err)
			}
			if len(result.Items) != len(tt.want) {
				t.Fatalf("got %d items, want %d", len(result.Items), len(tt.want))
			}
			for i, id := range tt.want {
				if string(result.Items[i].ID) != id {
					t.Errorf("item %d = %s, want %s", i, result.Items[i].ID, id)
				}
			}
			if result.Total != len(tt.want) {
				t.Errorf("total = %d, want %d", result.Total, len(tt.want))
			}
		})
	}
}

func TestListingSearchPaging(t *testing.T) {
	repo := NewListingRepository()
	seedListing(t, repo, "a", func(l *domainlistings.Listing) { l.MonthlyRateCents = 100000 })
	seedListing(t, repo, "b", func(l *domainlistings.Listing) { l.MonthlyRateCents = 110000 })
	seedListing(t, repo, "c", func(l *domainlistings.Listing) { l.MonthlyRateCents = 120000 })

	result, err := repo.Search(context.Background(), domainlistings.SearchParams{
		OnlyActive: true,
		Limit:      2,
		Offset:     2,
	})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if result.Total != 3 {
		t.Fatalf("total = %d, want 3", result.Total)
	}
	if len(result.Items) != 1 || string(result.Items[0].ID) != "c" {
		t.Fatalf("page = %v, want [c]", result.Items)
	}
}

func TestAvailabilityRepositoryMissingCalendar(t *testing.T) {
	repo := NewAvailabilityRepository()
	_, err := repo.Calendar(context.Background(), "nope")
	if !errors.Is(err, domainavailability.ErrCalendarNotFound) {
		t.Fatalf("err = %v, want ErrCalendarNotFound", err)
	}
}

func TestBookingRepositoryListsSortNewestFirst(t *testing.T) {
	repo := NewBookingRepository()
	ctx := context.Background()

	mk := func(id string, created time.Time) *domainbooking.Booking {
		r, err := daterange.New(day(2026, time.April, 1), day(2026, time.May, 1))
		if err != nil {
			t.Fatalf("range: %v", err)
		}
		booking, err := domainbooking.NewBooking(domainbooking.CreateParams{
			ID:        domainbooking.BookingID(id),
			ListingID: "listing-1",
			NurseID:   "nurse-1",
			Range:     r,
			Total:     money.Money{Cents: 150000, Currency: "USD"},
			CreatedAt: created,
		})
		if err != nil {
			t.Fatalf("new booking: %v", err)
		}
		return booking
	}

	if err := repo.Save(ctx, mk("old", day(2026, time.January, 1))); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := repo.Save(ctx, mk("new", day(2026, time.February, 1))); err != nil {
		t.Fatalf("save: %v", err)
	}

	byNurse, err := repo.ListByNurse(ctx, "nurse-1")
	if err != nil {
		t.Fatalf("list by nurse: %v", err)
	}
	if len(byNurse) != 2 || string(byNurse[0].ID) != "new" {
		t.Fatalf("by nurse order = %v, want new first", byNurse)
	}

	byListing, err := repo.ListByListing(ctx, "listing-1")
	if err != nil {
		t.Fatalf("list by listing: %v", err)
	}
	if len(byListing) != 2 || string(byListing[0].ID) != "new" {
		t.Fatalf("by listing order = %v, want new first", byListing)
	}

	if _, err := repo.ByID(ctx, "missing"); !errors.Is(err, domainbooking.ErrBookingNotFound) {
		t.Fatalf("missing booking err = %v, want ErrBookingNotFound", err)
	}
}
