package me

import (
	"context"
	"errors"

	"shiftstay/internal/app/dto"
	"shiftstay/internal/app/handlers/support"
	"shiftstay/internal/app/queries"
	"shiftstay/internal/app/uow"
	domainreviews "shiftstay/internal/domain/reviews"
)

const nurseBookingsKey = "me.bookings"

type NurseBookingsQuery struct {
	NurseID string
}

func (q NurseBookingsQuery) Key() string { return nurseBookingsKey }

// NurseBookingsHandler lists the caller's stay requests with the listing
// snapshot and review status the trips page needs.
type NurseBookingsHandler struct {
	UoWFactory uow.UoWFactory
}

func (h *NurseBookingsHandler) Handle(ctx context.Context, q NurseBookingsQuery) (dto.NurseBookingCollection, error) {
	unit, ctx, cleanup, err := support.BeginReadOnlyUnit(ctx, h.UoWFactory)
	if err != nil {
		return dto.NurseBookingCollection{}, err
	}
	if cleanup != nil {
		defer cleanup()
	}

	bookings, err := unit.Booking().ListByNurse(ctx, q.NurseID)
	if err != nil {
		return dto.NurseBookingCollection{}, err
	}

	out := dto.NurseBookingCollection{Items: []dto.NurseBookingSummary{}}
	for _, b := range bookings {
		listing, err := unit.Listings().ByID(ctx, b.ListingID)
		if err != nil {
			listing = nil
		}
		reviewed := false
		if _, err := unit.Reviews().ByBooking(ctx, b.ID); err == nil {
			reviewed = true
		} else if !errors.Is(err, domainreviews.ErrReviewNotFound) {
			return dto.NurseBookingCollection{}, err
		}
		out.Items = append(out.Items, dto.MapNurseBookingSummary(b, listing, reviewed))
	}
	return out, nil
}

var _ queries.Handler[NurseBookingsQuery, dto.NurseBookingCollection] = (*NurseBookingsHandler)(nil)
