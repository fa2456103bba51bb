package reviews

import (
	"time"

	"shiftstay/internal/domain/booking"
	"shiftstay/internal/domain/listings"
)

type ReviewSubmitted struct {
	ReviewID  string
	ListingID listings.ListingID
	BookingID booking.BookingID
	Rating    int
	At        time.Time
}

func (e ReviewSubmitted) EventName() string     { return "review.submitted" }
func (e ReviewSubmitted) AggregateID() string   { return e.ReviewID }
func (e ReviewSubmitted) OccurredAt() time.Time { return e.At }
