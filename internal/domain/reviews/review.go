package reviews

import (
	"context"
	"errors"
	"strings"
	"time"

	"shiftstay/internal/domain/booking"
	"shiftstay/internal/domain/listings"
	"shiftstay/internal/domain/shared/events"
)

var (
	ErrInvalidRating   = errors.New("reviews: rating must be between 1 and 5")
	ErrTextTooLong     = errors.New("reviews: text exceeds 2000 characters")
	ErrNotReviewable   = errors.New("reviews: stay is not finished")
	ErrAlreadyReviewed = errors.New("reviews: booking already reviewed")
	ErrNotAuthor       = errors.New("reviews: only the author can edit")
	ErrReviewNotFound  = errors.New("reviews: not found")
)

const maxTextLen = 2000

// Review is a nurse's rating of a finished stay. One review per booking; the
// listing's aggregate rating folds it in when it is submitted.
type Review struct {
	ID        string
	BookingID booking.BookingID
	AuthorID  string
	ListingID listings.ListingID
	Rating    int
	Text      string
	CreatedAt time.Time
	UpdatedAt time.Time
	events.EventRecorder
}

type Repository interface {
	ByID(ctx context.Context, id string) (*Review, error)
	ByBooking(ctx context.Context, bookingID booking.BookingID) (*Review, error)
	ListByListing(ctx context.Context, listingID listings.ListingID) ([]*Review, error)
	Save(ctx context.Context, review *Review) error
}

type SubmitParams struct {
	ID        string
	BookingID booking.BookingID
	AuthorID  string
	ListingID listings.ListingID
	Rating    int
	Text      string
	CreatedAt time.Time
}

func Submit(params SubmitParams) (*Review, error) {
	if params.Rating < 1 || params.Rating > 5 {
		return nil, ErrInvalidRating
	}
	text := strings.TrimSpace(params.Text)
	if len(text) > maxTextLen {
		return nil, ErrTextTooLong
	}
	now := params.CreatedAt.UTC()
	r := &Review{
		ID:        params.ID,
		BookingID: params.BookingID,
		AuthorID:  params.AuthorID,
		ListingID: params.ListingID,
		Rating:    params.Rating,
		Text:      text,
		CreatedAt: now,
		UpdatedAt: now,
	}
	r.Record(ReviewSubmitted{
		ReviewID:  r.ID,
		ListingID: r.ListingID,
		BookingID: r.BookingID,
		Rating:    r.Rating,
		At:        now,
	})
	return r, nil
}

// UpdateText edits the comment only. The rating stays fixed so the listing's
// folded average never has to be unwound.
func (r *Review) UpdateText(authorID, text string, now time.Time) error {
	if r.AuthorID != authorID {
		return ErrNotAuthor
	}
	text = strings.TrimSpace(text)
	if len(text) > maxTextLen {
		return ErrTextTooLong
	}
	r.Text = text
	r.UpdatedAt = now.UTC()
	return nil
}
