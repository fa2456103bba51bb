package availability

import (
	"context"
	"time"

	"shiftstay/internal/app/commands"
	"shiftstay/internal/app/middleware"
	"shiftstay/internal/app/outbox"
	"shiftstay/internal/app/uow"
	domainlistings "shiftstay/internal/domain/listings"
)

const unblockDatesKey = "availability.unblock"

type UnblockDatesCommand struct {
	ListingID       string
	HostID          string
	BlockID         string
	IdempotencyKeyV string
}

func (c UnblockDatesCommand) Key() string { return unblockDatesKey }

func (c UnblockDatesCommand) IdempotencyKey() string { return c.IdempotencyKeyV }

func (c UnblockDatesCommand) ResultPrototype() any { return &UnblockDatesResult{} }

type UnblockDatesResult struct {
	BlockID string `json:"block_id"`
}

// UnblockDatesHandler removes a host block. Booked blocks stay put; freeing
// them requires cancelling the booking.
type UnblockDatesHandler struct {
	UoWFactory uow.UoWFactory
	Outbox     outbox.Outbox
	Encoder    outbox.EventEncoder
}

func (h *UnblockDatesHandler) Handle(ctx context.Context, cmd UnblockDatesCommand) (*UnblockDatesResult, error) {
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

	listing, err := unit.Listings().ByID(ctx, domainlistings.ListingID(cmd.ListingID))
	if err != nil {
		return nil, err
	}
	if string(listing.Host) != cmd.HostID {
		return nil, ErrNotListingOwner
	}

	calendar, err := unit.Availability().Calendar(ctx, listing.ID)
	if err != nil {
		return nil, err
	}
	if err := calendar.Unblock(cmd.BlockID, time.Now().UTC()); err != nil {
		return nil, err
	}
	if err := unit.Availability().Save(ctx, calendar); err != nil {
		return nil, err
	}
	evs := calendar.PendingEvents()
	calendar.ClearEvents()
	if err := outbox.RecordDomainEvents(ctx, h.Outbox, h.Encoder, evs); err != nil {
		return nil, err
	}

	if managed {
		if err := unit.Commit(ctx); err != nil {
			return nil, err
		}
		committed = true
	}
	return &UnblockDatesResult{BlockID: cmd.BlockID}, nil
}

var _ commands.Handler[UnblockDatesCommand, *UnblockDatesResult] = (*UnblockDatesHandler)(nil)
var _ middleware.IdempotentCommand = (*UnblockDatesCommand)(nil)
