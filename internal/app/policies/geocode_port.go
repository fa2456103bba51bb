package policies

import "context"

// PlaceSuggestion is one autocomplete candidate for a location query.
type PlaceSuggestion struct {
	Label string  `json:"label"`
	City  string  `json:"city"`
	State string  `json:"state"`
	Lat   float64 `json:"lat"`
	Lon   float64 `json:"lon"`
}

// Geocoder resolves free-text location queries. Backed by an external service;
// failures should degrade to empty suggestions, not block search.
type Geocoder interface {
	Suggest(ctx context.Context, query string, limit int) ([]PlaceSuggestion, error)
}
