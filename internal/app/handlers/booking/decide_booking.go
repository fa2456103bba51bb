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
	"shiftstay/internal/domain/shared/events"
)

const (
	acceptBookingKey  = "booking.accept"
	declineBookingKey = "booking.decline"
)

var ErrNotListingOwner = errors.New("booking: only the host can decide the request")

type AcceptBookingCommand struct {
	BookingID       string
	HostID          string
	IdempotencyKeyV string
}

func (c AcceptBookingCommand) Key() string { return acceptBookingKey }

func (c AcceptBookingCommand) IdempotencyKey() string { return c.IdempotencyKeyV }

func (c AcceptBookingCommand) ResultPrototype() any { return &DecisionResult{} }

type DeclineBookingCommand struct {
	BookingID       string
	HostID          string
	Reason          string
	IdempotencyKeyV string
}

func (c DeclineBookingCommand) Key() string { return declineBookingKey }

func (c DeclineBookingCommand) IdempotencyKey() string { return c.IdempotencyKeyV }

func (c DeclineBookingCommand) ResultPrototype() any { return &DecisionResult{} }

type DecisionResult struct {
	BookingID string `json:"booking_id"`
	Status    string `json:"status"`
}

// AcceptBookingHandler confirms a pending request and reserves the stay on the
// listing calendar in the same transaction, so a race between two acceptances
// surfaces as a conflict instead of a double booking.
type AcceptBookingHandler struct {
	UoWFactory uow.UoWFactory
	Outbox     outbox.Outbox
	Encoder    outbox.EventEncoder
}

func (h *AcceptBookingHandler) Handle(ctx context.Context, cmd AcceptBookingCommand) (*DecisionResult, error) {
	return decide(ctx, h.UoWFactory, h.Outbox, h.Encoder, cmd.BookingID, cmd.HostID,
		func(ctx context.Context, unit uow.UnitOfWork, b *domainbooking.Booking) error {
			now := time.Now().UTC()
			if err := b.Accept(now); err != nil {
				return err
			}
			calendar, err := unit.Availability().Calendar(ctx, b.ListingID)
			if err != nil {
				if !errors.Is(err, domainavailability.ErrCalendarNotFound) {
					return err
				}
				listing, lerr := unit.Listings().ByID(ctx, b.ListingID)
				if lerr != nil {
					return lerr
				}
				calendar = domainavailability.NewCalendar(listing.ID, listing.MonthlyRateCents, listing.MinStayNights)
			}
			if err := calendar.Reserve(b.Range, string(b.ID), now); err != nil {
				return err
			}
			return unit.Availability().Save(ctx, calendar)
		})
}

// DeclineBookingHandler rejects a pending request; the calendar is untouched.
type DeclineBookingHandler struct {
	UoWFactory uow.UoWFactory
	Outbox     outbox.Outbox
	Encoder    outbox.EventEncoder
}

func (h *DeclineBookingHandler) Handle(ctx context.Context, cmd DeclineBookingCommand) (*DecisionResult, error) {
	return decide(ctx, h.UoWFactory, h.Outbox, h.Encoder, cmd.BookingID, cmd.HostID,
		func(ctx context.Context, unit uow.UnitOfWork, b *domainbooking.Booking) error {
			return b.Decline(cmd.Reason, time.Now().UTC())
		})
}

func decide(
	ctx context.Context,
	factory uow.UoWFactory,
	box outbox.Outbox,
	encoder outbox.EventEncoder,
	bookingID, hostID string,
	apply func(ctx context.Context, unit uow.UnitOfWork, b *domainbooking.Booking) error,
) (*DecisionResult, error) {
	unit, ok := uow.FromContext(ctx)
	managed := false
	committed := false
	if !ok {
		if factory == nil {
			return nil, ErrUnitOfWorkRequired
		}
		var err error
		unit, err = factory.Begin(ctx, uow.TxOptions{})
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

	b, err := unit.Booking().ByID(ctx, domainbooking.BookingID(bookingID))
	if err != nil {
		return nil, err
	}
	listing, err := unit.Listings().ByID(ctx, b.ListingID)
	if err != nil {
		return nil, err
	}
	if string(listing.Host) != hostID {
		return nil, ErrNotListingOwner
	}

	if err := apply(ctx, unit, b); err != nil {
		return nil, err
	}
	if err := unit.Booking().Save(ctx, b); err != nil {
		return nil, err
	}

	evs := drainEvents(b)
	if err := outbox.RecordDomainEvents(ctx, box, encoder, evs); err != nil {
		return nil, err
	}

	if managed {
		if err := unit.Commit(ctx); err != nil {
			return nil, err
		}
		committed = true
	}
	return &DecisionResult{BookingID: string(b.ID), Status: string(b.State)}, nil
}

func drainEvents(rec interface {
	PendingEvents() []events.DomainEvent
	ClearEvents()
}) []events.DomainEvent {
	evs := rec.PendingEvents()
	rec.ClearEvents()
	return evs
}

var _ commands.Handler[AcceptBookingCommand, *DecisionResult] = (*AcceptBookingHandler)(nil)
var _ commands.Handler[DeclineBookingCommand, *DecisionResult] = (*DeclineBookingHandler)(nil)
var _ middleware.IdempotentCommand = (*AcceptBookingCommand)(nil)
var _ middleware.IdempotentCommand = (*DeclineBookingCommand)(nil)
