package listings

import (
	"strings"
	"time"

	"shiftstay/internal/domain/shared/daterange"
)

// CatalogSort defines a supported ordering.
type CatalogSort string

const (
	SortByPriceAsc  CatalogSort = "price_asc"
	SortByPriceDesc CatalogSort = "price_desc"
	SortByRating    CatalogSort = "rating_desc"
	SortByDistance  CatalogSort = "distance"
	SortByNewest    CatalogSort = "newest"

	defaultSearchLimit = 24
	maxSearchLimit     = 60
)

// SearchParams describe catalog filters and paging options.
type SearchParams struct {
	Host               HostID
	States             []ListingState
	LocationQuery      string
	State              string
	RoomType           RoomType
	Tags               []string
	MaxBudgetCents     int64
	MaxHospitalMinutes int
	CheckIn            time.Time
	CheckOut           time.Time
	Sort               CatalogSort
	Limit              int
	Offset             int
	OnlyActive         bool
}

// Normalized returns a sanitized copy of params.
func (p SearchParams) Normalized() SearchParams {
	normalized := p
	normalized.LocationQuery = strings.TrimSpace(strings.ToLower(normalized.LocationQuery))
	normalized.State = strings.TrimSpace(strings.ToLower(normalized.State))
	normalized.RoomType = NormalizeRoomType(string(normalized.RoomType))
	normalized.Tags = normalizeTokens(normalized.Tags)
	normalized.CheckIn = daterange.Day(normalized.CheckIn)
	normalized.CheckOut = daterange.Day(normalized.CheckOut)
	if !normalized.CheckIn.IsZero() && !normalized.CheckOut.IsZero() && !normalized.CheckOut.After(normalized.CheckIn) {
		normalized.CheckOut = time.Time{}
	}
	if normalized.MaxBudgetCents < 0 {
		normalized.MaxBudgetCents = 0
	}
	if normalized.MaxHospitalMinutes < 0 {
		normalized.MaxHospitalMinutes = 0
	}
	if normalized.Limit <= 0 {
		normalized.Limit = defaultSearchLimit
	}
	if normalized.Limit > maxSearchLimit {
		normalized.Limit = maxSearchLimit
	}
	if normalized.Offset < 0 {
		normalized.Offset = 0
	}
	switch normalized.Sort {
	case SortByPriceAsc, SortByPriceDesc, SortByRating, SortByDistance, SortByNewest:
	default:
		normalized.Sort = SortByPriceAsc
	}
	return normalized
}

func normalizeTokens(tokens []string) []string {
	if len(tokens) == 0 {
		return nil
	}
	out := make([]string, 0, len(tokens))
	seen := make(map[string]struct{}, len(tokens))
	for _, token := range tokens {
		token = strings.TrimSpace(strings.ToLower(token))
		if token == "" {
			continue
		}
		if _, ok := seen[token]; ok {
			continue
		}
		seen[token] = struct{}{}
		out = append(out, token)
	}
	return out
}

// SearchResult wraps search hits with meta.
type SearchResult struct {
	Items []*Listing
	Total int
}
