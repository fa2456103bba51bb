package availability

import (
	"context"
	"errors"
	"time"

	"shiftstay/internal/app/commands"
	"shiftstay/internal/app/middleware"
	"shiftstay/internal/app/outbox"
	"shiftstay/internal/app/uow"
	domainavailability "shiftstay/internal/domain/availability"
	domainlistings "shiftstay/internal/domain/listings"
)

const blockDatesKey = "availability.block"

var (
	ErrUnitOfWorkRequired = errors.New("availability: unit of work required")
	ErrNotListingOwner    = errors.New("availability: only the host can manage the calendar")
	ErrListingIDRequired  = errors.New("availability: listing id is required")
	ErrHostIDRequired     = errors.New("availability: host id is required")
)

type BlockDatesCommand struct {
	CommandID        string
	ListingID        string
	HostID           string
	StartDate        time.Time
	EndDate          time.Time
	Reason           string
	Notes            string
	MinStayNights    int
	MonthlyRateCents int64
	IdempotencyKeyV  string
}

func (c BlockDatesCommand) Key() string { return blockDatesKey }

func (c BlockDatesCommand) Validate() error {
	switch {
	case c.ListingID == "":
		return ErrListingIDRequired
	case c.HostID == "":
		return ErrHostIDRequired
	default:
		return nil
	}
}

func (c BlockDatesCommand) IdempotencyKey() string { return c.IdempotencyKeyV }

func (c BlockDatesCommand) ResultPrototype() any { return &BlockDatesResult{} }

type BlockDatesResult struct {
	BlockID string `json:"block_id"`
}

// BlockDatesHandler inserts a host block into the listing calendar. A listing
// without a calendar gets one seeded from its own rate and min-stay.
type BlockDatesHandler struct {
	UoWFactory uow.UoWFactory
	Outbox     outbox.Outbox
	Encoder    outbox.EventEncoder
}

func (h *BlockDatesHandler) Handle(ctx context.Context, cmd BlockDatesCommand) (*BlockDatesResult, error) {
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

	calendar, err := loadOrCreateCalendar(ctx, unit, listing)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	block, err := calendar.BlockDates(domainavailability.BlockDateParams{
		ID:               cmd.CommandID,
		StartDate:        cmd.StartDate,
		EndDate:          cmd.EndDate,
		Reason:           domainavailability.BlockReason(cmd.Reason),
		Notes:            cmd.Notes,
		MinStayNights:    cmd.MinStayNights,
		MonthlyRateCents: cmd.MonthlyRateCents,
		Now:              now,
	})
	if err != nil {
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
	return &BlockDatesResult{BlockID: block.ID}, nil
}

func loadOrCreateCalendar(ctx context.Context, unit uow.UnitOfWork, listing *domainlistings.Listing) (*domainavailability.Calendar, error) {
	calendar, err := unit.Availability().Calendar(ctx, listing.ID)
	if err == nil {
		return calendar, nil
	}
	if errors.Is(err, domainavailability.ErrCalendarNotFound) {
		return domainavailability.NewCalendar(listing.ID, listing.MonthlyRateCents, listing.MinStayNights), nil
	}
	return nil, err
}

var _ commands.Handler[BlockDatesCommand, *BlockDatesResult] = (*BlockDatesHandler)(nil)
var _ middleware.IdempotentCommand = (*BlockDatesCommand)(nil)
