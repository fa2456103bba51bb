package matching

import (
	"testing"

	"shiftstay/internal/domain/listings"
)

func TestRankSortsDescending(t *testing.T) {
	cheap := testListing(func(l *listings.Listing) {
		l.ID = "lst-cheap"
		l.MonthlyRateCents = 200000
	})
	pricey := testListing(func(l *listings.Listing) {
		l.ID = "lst-pricey"
		l.MonthlyRateCents = 480000
	})
	prefs := Preferences{MaxBudgetCents: 430000}

	ranked := Rank([]*listings.Listing{pricey, cheap}, prefs, nil)
	if len(ranked) != 2 {
		t.Fatalf("len = %d, want 2", len(ranked))
	}
	for i := 1; i < len(ranked); i++ {
		if ranked[i-1].Score.Overall < ranked[i].Score.Overall {
			t.Fatalf("output not sorted: %d before %d", ranked[i-1].Score.Overall, ranked[i].Score.Overall)
		}
	}
	if ranked[0].Listing.ID != "lst-cheap" {
		t.Errorf("first = %s, want lst-cheap", ranked[0].Listing.ID)
	}
}

func TestRankDeterministicOnTies(t *testing.T) {
	a := testListing(func(l *listings.Listing) { l.ID = "lst-a" })
	b := testListing(func(l *listings.Listing) { l.ID = "lst-b" })
	prefs := Preferences{}

	first := Rank([]*listings.Listing{b, a}, prefs, nil)
	second := Rank([]*listings.Listing{a, b}, prefs, nil)
	if first[0].Listing.ID != second[0].Listing.ID {
		t.Errorf("tie order differs: %s vs %s", first[0].Listing.ID, second[0].Listing.ID)
	}
	if first[0].Listing.ID != "lst-a" {
		t.Errorf("tie break = %s, want lst-a", first[0].Listing.ID)
	}
}

func TestTopMatchesFilters(t *testing.T) {
	perfect := testListing(func(l *listings.Listing) {
		l.ID = "lst-perfect"
		l.Tags = []string{"WiFi", "Parking"}
	})
	weak := testListing(func(l *listings.Listing) {
		l.ID = "lst-weak"
		l.City = "Spokane"
		l.State = "WA"
		l.HospitalName = "Sacred Heart"
		l.MonthlyRateCents = 700000
	})
	prefs := Preferences{
		Location:       "sacramento",
		MaxBudgetCents: 500000,
		Amenities:      []string{"wifi", "parking"},
	}

	top := TopMatches([]*listings.Listing{weak, perfect}, prefs, nil)
	if len(top) != 1 {
		t.Fatalf("len = %d, want 1", len(top))
	}
	if top[0].Listing.ID != "lst-perfect" {
		t.Errorf("top = %s, want lst-perfect", top[0].Listing.ID)
	}
	if !top[0].Score.PerfectMatch {
		t.Error("top match must be flagged perfect")
	}
}

func TestFilterPerfectKeepsScores(t *testing.T) {
	ranked := []RankedListing{
		{Listing: testListing(func(l *listings.Listing) { l.ID = "lst-top" }), Score: MatchScore{Overall: 95, PerfectMatch: true}},
		{Listing: testListing(func(l *listings.Listing) { l.ID = "lst-edge" }), Score: MatchScore{Overall: 90, PerfectMatch: true}},
		{Listing: testListing(func(l *listings.Listing) { l.ID = "lst-near" }), Score: MatchScore{Overall: 89}},
	}

	top := FilterPerfect(ranked)
	if len(top) != 2 {
		t.Fatalf("len = %d, want 2", len(top))
	}
	if top[0].Listing.ID != "lst-top" || top[1].Listing.ID != "lst-edge" {
		t.Errorf("kept %s, %s; want lst-top, lst-edge", top[0].Listing.ID, top[1].Listing.ID)
	}
	// Entries pass through untouched; the threshold check is not a re-score.
	if top[0].Score.Overall != 95 {
		t.Errorf("score mutated: %d", top[0].Score.Overall)
	}
}
