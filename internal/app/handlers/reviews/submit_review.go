package reviews

import (
	"context"
	"errors"
	"time"

	"shiftstay/internal/app/commands"
	"shiftstay/internal/app/middleware"
	"shiftstay/internal/app/outbox"
	"shiftstay/internal/app/uow"
	domainbooking "shiftstay/internal/domain/booking"
	domainreviews "shiftstay/internal/domain/reviews"
)

const submitReviewKey = "reviews.submit"

var (
	ErrUnitOfWorkRequired = errors.New("reviews: unit of work required")
	ErrNotBookingNurse    = errors.New("reviews: only the nurse on the booking can review")
)

type SubmitReviewCommand struct {
	CommandID       string
	BookingID       string
	AuthorID        string
	Rating          int
	Text            string
	IdempotencyKeyV string
}

func (c SubmitReviewCommand) Key() string { return submitReviewKey }

func (c SubmitReviewCommand) IdempotencyKey() string { return c.IdempotencyKeyV }

func (c SubmitReviewCommand) ResultPrototype() any { return &SubmitReviewResult{} }

type SubmitReviewResult struct {
	ReviewID string `json:"review_id"`
}

// SubmitReviewHandler records a review for a completed stay and folds the
// rating into the listing's running average in the same transaction.
type SubmitReviewHandler struct {
	UoWFactory uow.UoWFactory
	Outbox     outbox.Outbox
	Encoder    outbox.EventEncoder
}

func (h *SubmitReviewHandler) Handle(ctx context.Context, cmd SubmitReviewCommand) (*SubmitReviewResult, error) {
	unit, ok := uow.FromContext(ctx)
	managed := false
	committed := false
	if !ok {
		if h.UoWFactory == nil {
			return nil, ErrUnitOfWorkRequired
		}
		var err error
		unit, err = h.UoWFactory.Begin(ctx, uow.TxOptions{})
		if err != nil {
			return nil, err
		}
		ctx = uow.ContextWithUnitOfWork(ctx, unit)
		managed = true
	}
	if managed {
		defer func() {
			if !committed {
				_ = unit.Rollback(ctx)
			}
		}()
	}

	b, err := unit.Booking().ByID(ctx, domainbooking.BookingID(cmd.BookingID))
	if err != nil {
		return nil, err
	}
	if b.NurseID != cmd.AuthorID {
		return nil, ErrNotBookingNurse
	}
	if !b.Reviewable() {
		return nil, domainreviews.ErrNotReviewable
	}
	if _, err := unit.Reviews().ByBooking(ctx, b.ID); err == nil {
		return nil, domainreviews.ErrAlreadyReviewed
	} else if !errors.Is(err, domainreviews.ErrReviewNotFound) {
		return nil, err
	}

	now := time.Now().UTC()
	review, err := domainreviews.Submit(domainreviews.SubmitParams{
		ID:        cmd.CommandID,
		BookingID: b.ID,
		AuthorID:  cmd.AuthorID,
		ListingID: b.ListingID,
		Rating:    cmd.Rating,
		Text:      cmd.Text,
		CreatedAt: now,
	})
	if err != nil {
		return nil, err
	}
	if err := unit.Reviews().Save(ctx, review); err != nil {
		return nil, err
	}

	listing, err := unit.Listings().ByID(ctx, b.ListingID)
	if err != nil {
		return nil, err
	}
	if err := listing.ApplyReview(float64(cmd.Rating), now); err != nil {
		return nil, err
	}
	if err := unit.Listings().Save(ctx, listing); err != nil {
		return nil, err
	}

	evs := review.PendingEvents()
	review.ClearEvents()
	evs = append(evs, listing.PendingEvents()...)
	listing.ClearEvents()
	if err := outbox.RecordDomainEvents(ctx, h.Outbox, h.Encoder, evs); err != nil {
		return nil, err
	}

	if managed {
		if err := unit.Commit(ctx); err != nil {
			return nil, err
		}
		committed = true
	}
	return &SubmitReviewResult{ReviewID: review.ID}, nil
}

var _ commands.Handler[SubmitReviewCommand, *SubmitReviewResult] = (*SubmitReviewHandler)(nil)
var _ middleware.IdempotentCommand = (*SubmitReviewCommand)(nil)
