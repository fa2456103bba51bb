package dto

import (
	"shiftstay/internal/domain/matching"
)

type ScoreBreakdown struct {
	Location     int `json:"location"`
	Price        int `json:"price"`
	Amenities    int `json:"amenities"`
	Availability int `json:"availability"`
}

type MatchScore struct {
	Overall      int            `json:"overall"`
	Breakdown    ScoreBreakdown `json:"breakdown"`
	Reasons      []string       `json:"reasons"`
	PerfectMatch bool           `json:"perfect_match"`
}

type MatchedListing struct {
	Listing ListingSummary `json:"listing"`
	Score   MatchScore     `json:"score"`
}

type MatchCollection struct {
	Items []MatchedListing `json:"items"`
	Total int              `json:"total"`
}

func MapMatchScore(score matching.MatchScore) MatchScore {
	return MatchScore{
		Overall: score.Overall,
		Breakdown: ScoreBreakdown{
			Location:     score.Breakdown.Location,
			Price:        score.Breakdown.Price,
			Amenities:    score.Breakdown.Amenities,
			Availability: score.Breakdown.Availability,
		},
		Reasons:      append([]string(nil), score.Reasons...),
		PerfectMatch: score.PerfectMatch,
	}
}

func MapMatchedListings(ranked []matching.RankedListing, total int) MatchCollection {
	items := make([]MatchedListing, 0, len(ranked))
	for _, r := range ranked {
		items = append(items, MatchedListing{
			Listing: MapListingSummary(r.Listing),
			Score:   MapMatchScore(r.Score),
		})
	}
	return MatchCollection{Items: items, Total: total}
}
