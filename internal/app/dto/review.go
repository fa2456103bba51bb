package dto

import (
	"time"

	domainreviews "shiftstay/internal/domain/reviews"
)

type Review struct {
	ID        string    `json:"id"`
	BookingID string    `json:"booking_id"`
	AuthorID  string    `json:"author_id"`
	ListingID string    `json:"listing_id"`
	Rating    int       `json:"rating"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}

type ReviewCollection struct {
	Items         []Review `json:"items"`
	AverageRating float64  `json:"average_rating"`
}

func MapReview(r *domainreviews.Review) Review {
	if r == nil {
		return Review{}
	}
	return Review{
		ID:        r.ID,
		BookingID: string(r.BookingID),
		AuthorID:  r.AuthorID,
		ListingID: string(r.ListingID),
		Rating:    r.Rating,
		Text:      r.Text,
		CreatedAt: r.CreatedAt,
	}
}

func MapReviewCollection(items []*domainreviews.Review) ReviewCollection {
	out := ReviewCollection{Items: make([]Review, 0, len(items))}
	var sum int
	for _, r := range items {
		out.Items = append(out.Items, MapReview(r))
		sum += r.Rating
	}
	if len(items) > 0 {
		out.AverageRating = float64(sum) / float64(len(items))
	}
	return out
}
