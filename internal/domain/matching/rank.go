package matching

import (
	"sort"

	"shiftstay/internal/domain/listings"
)

// RankedListing pairs a listing with its computed score.
type RankedListing struct {
	Listing *listings.Listing
	Score   MatchScore
}

// AvailabilityResolver supplies the per-listing availability predicate. A nil
// resolver (or a nil returned predicate) falls back to the listing's windows.
type AvailabilityResolver func(l *listings.Listing) AvailabilityFunc

// Rank scores every listing and sorts descending by overall score. Ties break
// on listing ID so the ordering is deterministic for identical inputs.
func Rank(items []*listings.Listing, prefs Preferences, resolve AvailabilityResolver) []RankedListing {
	ranked := make([]RankedListing, 0, len(items))
	for _, listing := range items {
		var available AvailabilityFunc
		if resolve != nil {
			available = resolve(listing)
		}
		ranked = append(ranked, RankedListing{
			Listing: listing,
			Score:   Score(listing, prefs, available),
		})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Score.Overall != ranked[j].Score.Overall {
			return ranked[i].Score.Overall > ranked[j].Score.Overall
		}
		return ranked[i].Listing.ID < ranked[j].Listing.ID
	})
	return ranked
}

// TopMatches scores and filters in one step: perfect matches only.
func TopMatches(items []*listings.Listing, prefs Preferences, resolve AvailabilityResolver) []RankedListing {
	return FilterPerfect(Rank(items, prefs, resolve))
}

// FilterPerfect keeps already-ranked entries at or above the perfect-match
// threshold without re-scoring them.
func FilterPerfect(ranked []RankedListing) []RankedListing {
	top := make([]RankedListing, 0, len(ranked))
	for _, entry := range ranked {
		if entry.Score.Overall >= PerfectMatchThreshold {
			top = append(top, entry)
		}
	}
	return top
}
