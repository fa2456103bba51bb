// Package matching ranks housing listings against a nurse's search
// preferences. Scoring is a pure function pipeline: every listing yields a
// score, missing preference fields degrade to neutral contributions, and
// identical inputs always produce identical output.
package matching

import (
	"fmt"
	"math"
	"strings"
	"time"

	"shiftstay/internal/domain/listings"
	"shiftstay/internal/domain/shared/money"
)

const (
	subScoreCap     = 25
	neutralSubScore = 15

	// PerfectMatchThreshold is the overall score at or above which a listing
	// is flagged as a perfect match.
	PerfectMatchThreshold = 90

	maxReasons         = 3
	perfectMatchBanner = "Perfect match for your search"
)

// valuableAmenities is the fixed vocabulary scored when a nurse states no
// amenity preferences of their own.
var valuableAmenities = []string{"wifi", "parking", "washer", "furnished", "gym", "pool"}

// AvailabilityFunc answers whether a stay over [start, end) is free. The
// scoring engine treats availability purely as an injected predicate; the
// calendar's IsRangeAvailable is the canonical implementation, and the
// listing's own window list serves as the default when no calendar is wired.
type AvailabilityFunc func(start, end time.Time) bool

// Preferences are a nurse's search criteria. Zero values mean "unspecified"
// and contribute the documented neutral sub-score.
type Preferences struct {
	Location       string
	MaxBudgetCents int64
	RoomType       listings.RoomType
	StartDate      time.Time
	EndDate        time.Time
	Amenities      []string

	// MaxHospitalMinutes is accepted from search forms but not consulted by
	// the scorer; commute fit is already captured by the location sub-score.
	MaxHospitalMinutes int
}

// Breakdown records the four capped sub-scores.
type Breakdown struct {
	Location     int `json:"location"`
	Price        int `json:"price"`
	Amenities    int `json:"amenities"`
	Availability int `json:"availability"`
}

// MatchScore is the composite 0-100 fit of one listing for one search.
type MatchScore struct {
	Overall      int       `json:"overall"`
	Breakdown    Breakdown `json:"breakdown"`
	Reasons      []string  `json:"reasons"`
	PerfectMatch bool      `json:"perfect_match"`
}

// Score computes the match score of a listing against preferences. available
// may be nil, in which case the listing's availability windows back the
// availability sub-score.
func Score(l *listings.Listing, prefs Preferences, available AvailabilityFunc) MatchScore {
	var reasons []string

	breakdown := Breakdown{
		Location:     scoreLocation(l, prefs, &reasons),
		Price:        scorePrice(l, prefs, &reasons),
		Amenities:    scoreAmenities(l, prefs, &reasons),
		Availability: scoreAvailability(l, prefs, available, &reasons),
	}
	overall := int(math.Round(float64(breakdown.Location + breakdown.Price + breakdown.Amenities + breakdown.Availability)))

	score := MatchScore{
		Overall:      overall,
		Breakdown:    breakdown,
		PerfectMatch: overall >= PerfectMatchThreshold,
	}
	if score.PerfectMatch {
		reasons = append([]string{perfectMatchBanner}, reasons...)
	}
	if len(reasons) > maxReasons {
		reasons = reasons[:maxReasons]
	}
	score.Reasons = reasons
	return score
}

func scoreLocation(l *listings.Listing, prefs Preferences, reasons *[]string) int {
	points := neutralSubScore
	if query := strings.TrimSpace(strings.ToLower(prefs.Location)); query != "" {
		city := strings.ToLower(l.City)
		hospital := strings.ToLower(l.HospitalName)
		switch {
		case containsEither(city, query) || containsEither(hospital, query):
			points = 25
			*reasons = append(*reasons, fmt.Sprintf("Perfect location match near %s", l.HospitalName))
		case containsEither(strings.ToLower(l.State), query):
			points = 15
			*reasons = append(*reasons, "Located in your search area")
		default:
			points = 5
		}
	}
	if l.MinutesToHospital <= 10 {
		points = capped(points + 5)
		*reasons = append(*reasons, fmt.Sprintf("Only %d min to hospital", l.MinutesToHospital))
	}
	return points
}

func scorePrice(l *listings.Listing, prefs Preferences, reasons *[]string) int {
	if prefs.MaxBudgetCents <= 0 {
		return neutralSubScore
	}
	ratio := float64(l.MonthlyRateCents) / float64(prefs.MaxBudgetCents)
	switch {
	case ratio <= 0.70:
		savings := prefs.MaxBudgetCents - l.MonthlyRateCents
		*reasons = append(*reasons, fmt.Sprintf("%s under budget", money.FormatDollars(savings)))
		return 25
	case ratio <= 0.85:
		*reasons = append(*reasons, "Comfortably under budget")
		return 20
	case ratio <= 1.00:
		*reasons = append(*reasons, "Within your budget")
		return 15
	case ratio <= 1.15:
		return 5
	default:
		return 0
	}
}

func scoreAmenities(l *listings.Listing, prefs Preferences, reasons *[]string) int {
	points := 0
	desired := normalizeTokens(prefs.Amenities)
	if len(desired) > 0 {
		matched := 0
		for _, want := range desired {
			if anyTagContains(l.Tags, want) {
				matched++
			}
		}
		ratio := float64(matched) / float64(len(desired))
		points = int(math.Round(25 * ratio))
		if ratio >= 0.75 {
			*reasons = append(*reasons, fmt.Sprintf("Has %d of %d amenities you want", matched, len(desired)))
		}
	} else {
		// Without stated preferences, score a fixed valuable-amenity
		// vocabulary. This branch caps at 20, not 25.
		hits := 0
		for _, tag := range l.Tags {
			lower := strings.ToLower(tag)
			for _, keyword := range valuableAmenities {
				if strings.Contains(lower, keyword) {
					hits++
					break
				}
			}
		}
		points = hits * 4
		if points > 20 {
			points = 20
		}
	}
	if prefs.RoomType != "" && l.RoomType == prefs.RoomType {
		points = capped(points + 5)
		*reasons = append(*reasons, "Perfect room type match")
	}
	if l.Rating >= 4.8 {
		points = capped(points + 3)
		*reasons = append(*reasons, fmt.Sprintf("Highly rated at %.1f stars", l.Rating))
	}
	if l.Rating > 0 && l.ReviewCount > 10 {
		*reasons = append(*reasons, fmt.Sprintf("Trusted by %d reviewers", l.ReviewCount))
	}
	return points
}

func scoreAvailability(l *listings.Listing, prefs Preferences, available AvailabilityFunc, reasons *[]string) int {
	if prefs.StartDate.IsZero() || prefs.EndDate.IsZero() {
		return neutralSubScore
	}
	if available == nil {
		available = l.AvailableForRange
	}
	if available(prefs.StartDate, prefs.EndDate) {
		*reasons = append(*reasons, "Available for your dates")
		return 25
	}
	return 0
}

func capped(points int) int {
	if points > subScoreCap {
		return subScoreCap
	}
	return points
}

func containsEither(value, query string) bool {
	if value == "" || query == "" {
		return false
	}
	return strings.Contains(value, query) || strings.Contains(query, value)
}

func anyTagContains(tags []string, want string) bool {
	for _, tag := range tags {
		if strings.Contains(strings.ToLower(tag), want) {
			return true
		}
	}
	return false
}

func normalizeTokens(tokens []string) []string {
	out := make([]string, 0, len(tokens))
	for _, token := range tokens {
		token = strings.TrimSpace(strings.ToLower(token))
		if token == "" {
			continue
		}
		out = append(out, token)
	}
	return out
}
