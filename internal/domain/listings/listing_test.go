package listings

import (
	"errors"
	"testing"
	"time"

	"shiftstay/internal/domain/shared/daterange"
)

func day(value string) time.Time {
	t, err := daterange.ParseDay(value)
	if err != nil {
		panic(err)
	}
	return t
}

func validParams() CreateListingParams {
	return CreateListingParams{
		ID:                "lst-1",
		Host:              "host-1",
		Title:             "Quiet studio near St. Luke's",
		City:              "Boise",
		State:             "ID",
		HospitalName:      "St. Luke's Medical Center",
		MinutesToHospital: 12,
		MonthlyRateCents:  240000,
		RoomType:          RoomEntirePlace,
		Now:               time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestNewListingValidation(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*CreateListingParams)
		wantErr error
	}{
		{"zero rate", func(p *CreateListingParams) { p.MonthlyRateCents = 0 }, ErrMonthlyRate},
		{"negative minutes", func(p *CreateListingParams) { p.MinutesToHospital = -1 }, ErrHospitalMinutes},
		{"bad room type", func(p *CreateListingParams) { p.RoomType = "castle" }, ErrInvalidRoomType},
		{"rating above five", func(p *CreateListingParams) { p.Rating = 5.5 }, ErrInvalidRating},
		{"negative reviews", func(p *CreateListingParams) { p.ReviewCount = -1 }, ErrReviewCount},
		{"blank title", func(p *CreateListingParams) { p.Title = "  " }, ErrTitleRequired},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			params := validParams()
			tt.mutate(&params)
			if _, err := NewListing(params); !errors.Is(err, tt.wantErr) {
				t.Errorf("err = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestNewListingDefaults(t *testing.T) {
	listing, err := NewListing(validParams())
	if err != nil {
		t.Fatal(err)
	}
	if listing.Status != ListingDraft {
		t.Errorf("status = %s, want draft", listing.Status)
	}
	events := listing.PendingEvents()
	if len(events) != 1 || events[0].EventName() != "listing.created" {
		t.Errorf("events = %v, want single listing.created", events)
	}
}

func TestAvailableForRangeWindows(t *testing.T) {
	listing, err := NewListing(validParams())
	if err != nil {
		t.Fatal(err)
	}
	listing.AvailabilityWindows = []daterange.DateRange{
		{CheckIn: day("2024-06-01"), CheckOut: day("2024-09-01")},
		{CheckIn: day("2024-10-01"), CheckOut: day("2024-12-01")},
	}

	if !listing.AvailableForRange(day("2024-06-15"), day("2024-08-15")) {
		t.Error("range inside first window should be available")
	}
	if listing.AvailableForRange(day("2024-08-15"), day("2024-10-15")) {
		t.Error("range spanning the gap should be unavailable")
	}
	if listing.AvailableForRange(day("2024-06-15"), day("2024-06-10")) {
		t.Error("inverted range must never be available")
	}
}

func TestAvailableForRangeScalarFallback(t *testing.T) {
	listing, err := NewListing(validParams())
	if err != nil {
		t.Fatal(err)
	}
	// No window list: the legacy from/to bounds act as a single window.
	listing.AvailableFrom = day("2024-06-01")
	listing.AvailableTo = day("2024-09-01")

	if !listing.AvailableForRange(day("2024-06-01"), day("2024-09-01")) {
		t.Error("full span of the scalar bounds should be available")
	}
	if listing.AvailableForRange(day("2024-05-20"), day("2024-06-10")) {
		t.Error("range starting before the bounds should be unavailable")
	}

	listing.AvailableFrom, listing.AvailableTo = time.Time{}, time.Time{}
	if !listing.AvailableForRange(day("2024-01-01"), day("2024-02-01")) {
		t.Error("a listing declaring no windows imposes no constraint")
	}
}

func TestActivateRequiresHospital(t *testing.T) {
	params := validParams()
	params.HospitalName = ""
	listing, err := NewListing(params)
	if err != nil {
		t.Fatal(err)
	}
	if err := listing.Activate(time.Now()); !errors.Is(err, ErrHospitalRequired) {
		t.Errorf("err = %v, want ErrHospitalRequired", err)
	}
	listing.HospitalName = "St. Luke's"
	if err := listing.Activate(time.Now()); err != nil {
		t.Fatal(err)
	}
	if listing.Status != ListingActive {
		t.Errorf("status = %s, want active", listing.Status)
	}
}

func TestApplyReviewFoldsRating(t *testing.T) {
	listing, err := NewListing(validParams())
	if err != nil {
		t.Fatal(err)
	}
	now := time.Now()
	for _, rating := range []float64{5, 4} {
		if err := listing.ApplyReview(rating, now); err != nil {
			t.Fatal(err)
		}
	}
	if listing.ReviewCount != 2 {
		t.Errorf("review count = %d, want 2", listing.ReviewCount)
	}
	if listing.Rating != 4.5 {
		t.Errorf("rating = %v, want 4.5", listing.Rating)
	}
	if err := listing.ApplyReview(6, now); !errors.Is(err, ErrInvalidRating) {
		t.Errorf("err = %v, want ErrInvalidRating", err)
	}
}

func TestNormalizeRoomType(t *testing.T) {
	tests := []struct {
		in   string
		want RoomType
	}{
		{"private-room", RoomPrivate},
		{"Private_Room", RoomPrivate},
		{"entire place", ""},
		{"entire_place", RoomEntirePlace},
		{"shared", RoomShared},
		{"", ""},
	}
	for _, tt := range tests {
		if got := NormalizeRoomType(tt.in); got != tt.want {
			t.Errorf("NormalizeRoomType(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestSearchParamsNormalized(t *testing.T) {
	params := SearchParams{
		LocationQuery:      "  Sacramento ",
		State:              " CA",
		RoomType:           "private-room",
		Tags:               []string{" WiFi ", "wifi", "", "Gym"},
		MaxBudgetCents:     -5,
		MaxHospitalMinutes: -1,
		CheckIn:            day("2024-06-10"),
		CheckOut:           day("2024-06-01"),
		Limit:              500,
		Offset:             -3,
		Sort:               "bogus",
	}
	got := params.Normalized()

	if got.LocationQuery != "sacramento" || got.State != "ca" {
		t.Errorf("location/state = %q/%q", got.LocationQuery, got.State)
	}
	if got.RoomType != RoomPrivate {
		t.Errorf("room type = %q", got.RoomType)
	}
	if len(got.Tags) != 2 {
		t.Errorf("tags = %v, want deduped pair", got.Tags)
	}
	if got.MaxBudgetCents != 0 || got.MaxHospitalMinutes != 0 {
		t.Error("negative filters should clamp to zero")
	}
	if !got.CheckOut.IsZero() {
		t.Error("inverted checkout should be dropped")
	}
	if got.Limit != maxSearchLimit || got.Offset != 0 {
		t.Errorf("limit/offset = %d/%d", got.Limit, got.Offset)
	}
	if got.Sort != SortByPriceAsc {
		t.Errorf("sort = %q, want default", got.Sort)
	}
}
