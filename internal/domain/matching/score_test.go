package matching

import (
	"strings"
	"testing"
	"time"

	"shiftstay/internal/domain/listings"
	"shiftstay/internal/domain/shared/daterange"
)

func day(value string) time.Time {
	t, err := daterange.ParseDay(value)
	if err != nil {
		panic(err)
	}
	return t
}

func testListing(mutate ...func(*listings.Listing)) *listings.Listing {
	l := &listings.Listing{
		ID:                "lst-1",
		Host:              "host-1",
		Title:             "Sunny room near Mercy General",
		City:              "Sacramento",
		State:             "CA",
		HospitalName:      "Mercy General Hospital",
		HospitalCity:      "Sacramento",
		HospitalState:     "CA",
		MinutesToHospital: 20,
		MonthlyRateCents:  300000,
		RoomType:          listings.RoomPrivate,
		Status:            listings.ListingActive,
	}
	for _, fn := range mutate {
		fn(l)
	}
	return l
}

func TestScoreNeutralWhenPreferencesEmpty(t *testing.T) {
	score := Score(testListing(), Preferences{}, nil)

	if score.Breakdown.Location != 15 {
		t.Errorf("location = %d, want neutral 15", score.Breakdown.Location)
	}
	if score.Breakdown.Price != 15 {
		t.Errorf("price = %d, want neutral 15", score.Breakdown.Price)
	}
	if score.Breakdown.Availability != 15 {
		t.Errorf("availability = %d, want neutral 15", score.Breakdown.Availability)
	}
	if score.Breakdown.Amenities != 0 {
		t.Errorf("amenities = %d, want 0 for untagged listing", score.Breakdown.Amenities)
	}
	if score.Overall != 45 {
		t.Errorf("overall = %d, want 45", score.Overall)
	}
}

func TestScoreLocationTiers(t *testing.T) {
	tests := []struct {
		name     string
		location string
		want     int
		reason   string
	}{
		{"city match", "sacramento", 25, "Perfect location match near Mercy General Hospital"},
		{"hospital match", "mercy general", 25, "Perfect location match near Mercy General Hospital"},
		{"state match", "ca", 15, "Located in your search area"},
		{"no match", "portland", 5, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			score := Score(testListing(), Preferences{Location: tt.location}, nil)
			if score.Breakdown.Location != tt.want {
				t.Errorf("location = %d, want %d", score.Breakdown.Location, tt.want)
			}
			if tt.reason != "" && !hasReason(score.Reasons, tt.reason) {
				t.Errorf("reasons %v missing %q", score.Reasons, tt.reason)
			}
		})
	}
}

func TestScoreLocationCommuteBonus(t *testing.T) {
	l := testListing(func(l *listings.Listing) { l.MinutesToHospital = 8 })

	score := Score(l, Preferences{Location: "sacramento"}, nil)
	if score.Breakdown.Location != 25 {
		t.Errorf("bonus must cap at 25, got %d", score.Breakdown.Location)
	}
	if !hasReason(score.Reasons, "Only 8 min to hospital") {
		t.Errorf("reasons %v missing commute reason", score.Reasons)
	}

	score = Score(l, Preferences{Location: "portland"}, nil)
	if score.Breakdown.Location != 10 {
		t.Errorf("5 + bonus = %d, want 10", score.Breakdown.Location)
	}
}

func TestScorePriceTiers(t *testing.T) {
	tests := []struct {
		name        string
		budgetCents int64
		want        int
	}{
		{"no budget", 0, 15},
		{"deep saving", 430000, 25},  // ratio 0.698
		{"comfortable", 360000, 20},  // ratio 0.833
		{"at budget", 300000, 15},    // ratio 1.0
		{"slightly over", 280000, 5}, // ratio 1.071
		{"way over", 200000, 0},      // ratio 1.5
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			score := Score(testListing(), Preferences{MaxBudgetCents: tt.budgetCents}, nil)
			if score.Breakdown.Price != tt.want {
				t.Errorf("price = %d, want %d", score.Breakdown.Price, tt.want)
			}
		})
	}
}

func TestScorePriceSavingsReason(t *testing.T) {
	// $3,000/mo against a $4,300 budget: ratio 0.698, $1,300 saved.
	score := Score(testListing(), Preferences{MaxBudgetCents: 430000}, nil)
	if score.Breakdown.Price != 25 {
		t.Fatalf("price = %d, want 25", score.Breakdown.Price)
	}
	if !hasReason(score.Reasons, "$1,300 under budget") {
		t.Errorf("reasons %v missing savings reason", score.Reasons)
	}
}

func TestScoreAmenitiesPreferredList(t *testing.T) {
	l := testListing(func(l *listings.Listing) {
		l.Tags = []string{"Fast WiFi", "Covered Parking", "In-unit Washer", "Gym"}
	})
	score := Score(l, Preferences{Amenities: []string{"wifi", "parking", "washer", "pool"}}, nil)
	// 3 of 4 matched: round(25 * 0.75) = 19.
	if score.Breakdown.Amenities != 19 {
		t.Errorf("amenities = %d, want 19", score.Breakdown.Amenities)
	}
	if !hasReason(score.Reasons, "Has 3 of 4 amenities you want") {
		t.Errorf("reasons %v missing amenity reason", score.Reasons)
	}
}

func TestScoreAmenitiesFallbackVocabularyCapsAt20(t *testing.T) {
	l := testListing(func(l *listings.Listing) {
		l.Tags = []string{"WiFi", "Parking", "Furnished"}
	})
	score := Score(l, Preferences{}, nil)
	if score.Breakdown.Amenities != 12 {
		t.Errorf("amenities = %d, want 12 (3 hits x 4)", score.Breakdown.Amenities)
	}

	l = testListing(func(l *listings.Listing) {
		l.Tags = []string{"WiFi", "Parking", "Washer", "Furnished", "Gym", "Pool"}
	})
	score = Score(l, Preferences{}, nil)
	if score.Breakdown.Amenities != 20 {
		t.Errorf("amenities = %d, want cap of 20", score.Breakdown.Amenities)
	}
}

func TestScoreAmenitiesRoomTypeAndRating(t *testing.T) {
	l := testListing(func(l *listings.Listing) {
		l.Tags = []string{"WiFi", "Parking", "Washer", "Furnished", "Gym"}
		l.Rating = 4.9
		l.ReviewCount = 23
	})
	score := Score(l, Preferences{RoomType: listings.RoomPrivate}, nil)
	// 20 (vocab cap) + 5 room type + 3 rating, capped at 25.
	if score.Breakdown.Amenities != 25 {
		t.Errorf("amenities = %d, want 25", score.Breakdown.Amenities)
	}
	joined := strings.Join(score.Reasons, " | ")
	if !strings.Contains(joined, "4.9") && !strings.Contains(joined, "23 reviewers") {
		t.Errorf("reasons %v should mention rating or popularity", score.Reasons)
	}
}

func TestScoreAvailability(t *testing.T) {
	prefs := Preferences{StartDate: day("2024-06-01"), EndDate: day("2024-08-31")}

	score := Score(testListing(), prefs, func(start, end time.Time) bool { return true })
	if score.Breakdown.Availability != 25 {
		t.Errorf("available range: availability = %d, want 25", score.Breakdown.Availability)
	}

	score = Score(testListing(), prefs, func(start, end time.Time) bool { return false })
	if score.Breakdown.Availability != 0 {
		t.Errorf("unavailable range: availability = %d, want 0", score.Breakdown.Availability)
	}
}

func TestScoreAvailabilityFallsBackToListingWindows(t *testing.T) {
	l := testListing(func(l *listings.Listing) {
		l.AvailableFrom = day("2024-06-01")
		l.AvailableTo = day("2024-12-31")
	})
	prefs := Preferences{StartDate: day("2024-07-01"), EndDate: day("2024-09-30")}
	score := Score(l, prefs, nil)
	if score.Breakdown.Availability != 25 {
		t.Errorf("availability = %d, want 25 via scalar-bounds window", score.Breakdown.Availability)
	}

	prefs.EndDate = day("2025-03-01")
	score = Score(l, prefs, nil)
	if score.Breakdown.Availability != 0 {
		t.Errorf("availability = %d, want 0 outside window", score.Breakdown.Availability)
	}
}

func TestScoreBoundsAndDeterminism(t *testing.T) {
	l := testListing(func(l *listings.Listing) {
		l.Tags = []string{"WiFi", "Gym", "Pool", "Washer"}
		l.Rating = 4.9
		l.ReviewCount = 40
		l.MinutesToHospital = 5
	})
	prefs := Preferences{
		Location:       "sacramento",
		MaxBudgetCents: 500000,
		RoomType:       listings.RoomPrivate,
		Amenities:      []string{"wifi", "gym"},
		StartDate:      day("2024-06-01"),
		EndDate:        day("2024-09-01"),
	}
	first := Score(l, prefs, func(start, end time.Time) bool { return true })
	for sub, v := range map[string]int{
		"location":     first.Breakdown.Location,
		"price":        first.Breakdown.Price,
		"amenities":    first.Breakdown.Amenities,
		"availability": first.Breakdown.Availability,
	} {
		if v < 0 || v > 25 {
			t.Errorf("%s = %d out of [0,25]", sub, v)
		}
	}
	if first.Overall < 0 || first.Overall > 100 {
		t.Errorf("overall = %d out of [0,100]", first.Overall)
	}
	if len(first.Reasons) > 3 {
		t.Errorf("reasons = %d entries, want at most 3", len(first.Reasons))
	}

	second := Score(l, prefs, func(start, end time.Time) bool { return true })
	if first.Overall != second.Overall || len(first.Reasons) != len(second.Reasons) {
		t.Fatal("identical inputs must produce identical output")
	}
	for i := range first.Reasons {
		if first.Reasons[i] != second.Reasons[i] {
			t.Errorf("reason %d differs: %q vs %q", i, first.Reasons[i], second.Reasons[i])
		}
	}
}

func TestScorePerfectMatchBanner(t *testing.T) {
	// 25 location + 25 price + 25 amenities + 15 neutral availability = 90.
	l := testListing(func(l *listings.Listing) {
		l.Tags = []string{"WiFi", "Parking"}
	})
	prefs := Preferences{
		Location:       "sacramento",
		MaxBudgetCents: 500000,
		Amenities:      []string{"wifi", "parking"},
	}
	score := Score(l, prefs, nil)
	if score.Overall != 90 {
		t.Fatalf("overall = %d, want exactly 90", score.Overall)
	}
	if !score.PerfectMatch {
		t.Error("overall 90 must flag a perfect match")
	}
	if len(score.Reasons) == 0 || score.Reasons[0] != perfectMatchBanner {
		t.Errorf("reasons = %v, want banner first", score.Reasons)
	}
}

func hasReason(reasons []string, want string) bool {
	for _, r := range reasons {
		if r == want {
			return true
		}
	}
	return false
}
