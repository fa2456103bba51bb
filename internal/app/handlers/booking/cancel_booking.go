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
)

const cancelBookingKey = "booking.cancel"

var ErrNotBookingParty = errors.New("booking: only the nurse or the host can cancel")

type CancelBookingCommand struct {
	BookingID       string
	ActorID         string
	Reason          string
	IdempotencyKeyV string
}

func (c CancelBookingCommand) Key() string { return cancelBookingKey }

func (c CancelBookingCommand) IdempotencyKey() string { return c.IdempotencyKeyV }

func (c CancelBookingCommand) ResultPrototype() any { return &DecisionResult{} }

// CancelBookingHandler cancels a pending or accepted booking. Cancelling an
// accepted booking releases its reserved range back to available.
type CancelBookingHandler struct {
	UoWFactory uow.UoWFactory
	Outbox     outbox.Outbox
	Encoder    outbox.EventEncoder
}

func (h *CancelBookingHandler) Handle(ctx context.Context, cmd CancelBookingCommand) (*DecisionResult, error) {
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
	listing, err := unit.Listings().ByID(ctx, b.ListingID)
	if err != nil {
		return nil, err
	}
	if cmd.ActorID != b.NurseID && cmd.ActorID != string(listing.Host) {
		return nil, ErrNotBookingParty
	}

	wasAccepted := b.State == domainbooking.StateAccepted
	now := time.Now().UTC()
	if err := b.Cancel(cmd.Reason, now); err != nil {
		return nil, err
	}
	if err := unit.Booking().Save(ctx, b); err != nil {
		return nil, err
	}

	if wasAccepted {
		calendar, err := unit.Availability().Calendar(ctx, b.ListingID)
		if err == nil {
			if err := calendar.Release(string(b.ID), now); err != nil && !errors.Is(err, domainavailability.ErrBlockNotFound) {
				return nil, err
			}
			if err := unit.Availability().Save(ctx, calendar); err != nil {
				return nil, err
			}
			if err := outbox.RecordDomainEvents(ctx, h.Outbox, h.Encoder, drainEvents(calendar)); err != nil {
				return nil, err
			}
		} else if !errors.Is(err, domainavailability.ErrCalendarNotFound) {
			return nil, err
		}
	}

	if err := outbox.RecordDomainEvents(ctx, h.Outbox, h.Encoder, drainEvents(b)); err != nil {
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

var _ commands.Handler[CancelBookingCommand, *DecisionResult] = (*CancelBookingHandler)(nil)
var _ middleware.IdempotentCommand = (*CancelBookingCommand)(nil)
