package dto

import (
	"time"

	domainlistings "shiftstay/internal/domain/listings"
	"shiftstay/internal/domain/shared/money"
)

// ListingHost contains owner level metadata.
type ListingHost struct {
	ID string `json:"id"`
}

// AvailabilityWindow is a published span of open dates.
type AvailabilityWindow struct {
	From time.Time `json:"from"`
	To   time.Time `json:"to"`
}

// ListingSummary is the card shape used by search results.
type ListingSummary struct {
	ID                string  `json:"id"`
	Title             string  `json:"title"`
	City              string  `json:"city"`
	State             string  `json:"state"`
	HospitalName      string  `json:"hospital_name"`
	MinutesToHospital int     `json:"minutes_to_hospital"`
	MonthlyRateCents  int64   `json:"monthly_rate_cents"`
	MonthlyRate       string  `json:"monthly_rate"`
	RoomType          string  `json:"room_type"`
	Rating            float64 `json:"rating"`
	ReviewCount       int     `json:"review_count"`
	ThumbnailURL      string  `json:"thumbnail_url"`
}

// ListingDetail is the full public shape of an active listing.
type ListingDetail struct {
	ID                  string               `json:"id"`
	Host                ListingHost          `json:"host"`
	Title               string               `json:"title"`
	Description         string               `json:"description"`
	City                string               `json:"city"`
	State               string               `json:"state"`
	HospitalName        string               `json:"hospital_name"`
	HospitalCity        string               `json:"hospital_city"`
	HospitalState       string               `json:"hospital_state"`
	MinutesToHospital   int                  `json:"minutes_to_hospital"`
	MonthlyRateCents    int64                `json:"monthly_rate_cents"`
	MonthlyRate         string               `json:"monthly_rate"`
	RoomType            string               `json:"room_type"`
	Tags                []string             `json:"tags"`
	Rating              float64              `json:"rating"`
	ReviewCount         int                  `json:"review_count"`
	MinStayNights       int                  `json:"min_stay_nights"`
	AvailabilityWindows []AvailabilityWindow `json:"availability_windows"`
	Photos              []string             `json:"photos"`
	Status              string               `json:"status"`
	CreatedAt           time.Time            `json:"created_at"`
}

// ListingCatalog is a page of search results without match scores.
type ListingCatalog struct {
	Items []ListingSummary `json:"items"`
	Total int              `json:"total"`
}

func MapListingCatalog(items []*domainlistings.Listing, total int) ListingCatalog {
	out := ListingCatalog{Items: make([]ListingSummary, 0, len(items)), Total: total}
	for _, l := range items {
		out.Items = append(out.Items, MapListingSummary(l))
	}
	return out
}

func MapListingSummary(l *domainlistings.Listing) ListingSummary {
	if l == nil {
		return ListingSummary{}
	}
	return ListingSummary{
		ID:                string(l.ID),
		Title:             l.Title,
		City:              l.City,
		State:             l.State,
		HospitalName:      l.HospitalName,
		MinutesToHospital: l.MinutesToHospital,
		MonthlyRateCents:  l.MonthlyRateCents,
		MonthlyRate:       money.FormatDollars(l.MonthlyRateCents),
		RoomType:          string(l.RoomType),
		Rating:            l.Rating,
		ReviewCount:       l.ReviewCount,
		ThumbnailURL:      l.ThumbnailURL,
	}
}

func MapListingDetail(l *domainlistings.Listing) ListingDetail {
	if l == nil {
		return ListingDetail{}
	}
	windows := make([]AvailabilityWindow, 0, len(l.AvailabilityWindows))
	for _, w := range l.AvailabilityWindows {
		windows = append(windows, AvailabilityWindow{From: w.CheckIn, To: w.CheckOut})
	}
	return ListingDetail{
		ID:                  string(l.ID),
		Host:                ListingHost{ID: string(l.Host)},
		Title:               l.Title,
		Description:         l.Description,
		City:                l.City,
		State:               l.State,
		HospitalName:        l.HospitalName,
		HospitalCity:        l.HospitalCity,
		HospitalState:       l.HospitalState,
		MinutesToHospital:   l.MinutesToHospital,
		MonthlyRateCents:    l.MonthlyRateCents,
		MonthlyRate:         money.FormatDollars(l.MonthlyRateCents),
		RoomType:            string(l.RoomType),
		Tags:                append([]string(nil), l.Tags...),
		Rating:              l.Rating,
		ReviewCount:         l.ReviewCount,
		MinStayNights:       l.MinStayNights,
		AvailabilityWindows: windows,
		Photos:              append([]string(nil), l.Photos...),
		Status:              string(l.Status),
		CreatedAt:           l.CreatedAt,
	}
}
