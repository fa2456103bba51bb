package booking

import (
	"context"
	"errors"
	"time"

	"shiftstay/internal/app/commands"
	"shiftstay/internal/app/middleware"
	"shiftstay/internal/app/outbox"
	"shiftstay/internal/app/uow"
	domainavailability "shiftstay/internal/domain/availability"
	domainbooking "shiftstay/internal/domain/booking"
	domainlistings "shiftstay/internal/domain/listings"
	"shiftstay/internal/domain/pricing"
	domainrange "shiftstay/internal/domain/shared/daterange"
)

const requestBookingKey = "booking.request"

var (
	ErrUnitOfWorkRequired = errors.New("booking: unit of work required")
	ErrListingInactive    = errors.New("booking: listing is not accepting stays")
	ErrDatesUnavailable   = errors.New("booking: requested dates are not available")
	ErrCommandIDRequired  = errors.New("booking: command id is required")
	ErrListingIDRequired  = errors.New("booking: listing id is required")
	ErrNurseIDRequired    = errors.New("booking: nurse id is required")
)

type RequestBookingCommand struct {
	CommandID       string
	ListingID       string
	NurseID         string
	CheckIn         time.Time
	CheckOut        time.Time
	IdempotencyKeyV string
}

func (c RequestBookingCommand) Key() string { return requestBookingKey }

func (c RequestBookingCommand) Validate() error {
	switch {
	case c.CommandID == "":
		return ErrCommandIDRequired
	case c.ListingID == "":
		return ErrListingIDRequired
	case c.NurseID == "":
		return ErrNurseIDRequired
	default:
		return nil
	}
}

func (c RequestBookingCommand) IdempotencyKey() string { return c.IdempotencyKeyV }

func (c RequestBookingCommand) ResultPrototype() any { return &RequestBookingResult{} }

type RequestBookingResult struct {
	BookingID  string `json:"booking_id"`
	TotalCents int64  `json:"total_cents"`
	Nights     int    `json:"nights"`
}

// RequestBookingHandler creates a pending stay request. Dates are validated
// against the listing calendar up front so hosts only see requests they can
// actually accept; the calendar itself is not reserved until acceptance.
type RequestBookingHandler struct {
	UoWFactory uow.UoWFactory
	Outbox     outbox.Outbox
	Encoder    outbox.EventEncoder
}

func (h *RequestBookingHandler) Handle(ctx context.Context, cmd RequestBookingCommand) (*RequestBookingResult, error) {
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

	dr, err := domainrange.New(cmd.CheckIn, cmd.CheckOut)
	if err != nil {
		return nil, err
	}

	listing, err := unit.Listings().ByID(ctx, domainlistings.ListingID(cmd.ListingID))
	if err != nil {
		return nil, err
	}
	if listing.Status != domainlistings.ListingActive {
		return nil, ErrListingInactive
	}

	if err := h.ensureDatesOpen(ctx, unit, listing, dr); err != nil {
		return nil, err
	}

	quote, err := pricing.Quote(pricing.QuoteInput{
		MonthlyRateCents: listing.MonthlyRateCents,
		Range:            dr,
	})
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	booking, err := domainbooking.NewBooking(domainbooking.CreateParams{
		ID:            domainbooking.BookingID(cmd.CommandID),
		ListingID:     listing.ID,
		NurseID:       cmd.NurseID,
		Range:         dr,
		Total:         quote.Total,
		MinStayNights: listing.MinStayNights,
		CreatedAt:     now,
	})
	if err != nil {
		return nil, err
	}

	if err := unit.Booking().Save(ctx, booking); err != nil {
		return nil, err
	}

	evs := booking.PendingEvents()
	booking.ClearEvents()
	if err := outbox.RecordDomainEvents(ctx, h.Outbox, h.Encoder, evs); err != nil {
		return nil, err
	}

	if managed {
		if err := unit.Commit(ctx); err != nil {
			return nil, err
		}
		committed = true
	}

	return &RequestBookingResult{
		BookingID:  string(booking.ID),
		TotalCents: booking.Total.Cents,
		Nights:     dr.Nights(),
	}, nil
}

// ensureDatesOpen prefers the calendar; a listing without one falls back to
// its published availability windows.
func (h *RequestBookingHandler) ensureDatesOpen(ctx context.Context, unit uow.UnitOfWork, listing *domainlistings.Listing, dr domainrange.DateRange) error {
	calendar, err := unit.Availability().Calendar(ctx, listing.ID)
	if err != nil {
		if errors.Is(err, domainavailability.ErrCalendarNotFound) {
			if !listing.AvailableForRange(dr.CheckIn, dr.CheckOut) {
				return ErrDatesUnavailable
			}
			return nil
		}
		return err
	}
	open, err := calendar.IsRangeAvailable(dr.CheckIn, dr.CheckOut, "")
	if err != nil {
		return err
	}
	if !open {
		return ErrDatesUnavailable
	}
	return nil
}

var _ commands.Handler[RequestBookingCommand, *RequestBookingResult] = (*RequestBookingHandler)(nil)
var _ middleware.IdempotentCommand = (*RequestBookingCommand)(nil)
