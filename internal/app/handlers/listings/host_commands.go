package listings

import (
	"context"
	"errors"
	"time"

	"shiftstay/internal/app/commands"
	"shiftstay/internal/app/middleware"
	"shiftstay/internal/app/outbox"
	"shiftstay/internal/app/uow"
	domainlistings "shiftstay/internal/domain/listings"
	domainrange "shiftstay/internal/domain/shared/daterange"
	domainuser "shiftstay/internal/domain/user"
)

const (
	createListingKey  = "listings.create"
	updateListingKey  = "listings.update"
	publishListingKey = "listings.publish"
	suspendListingKey = "listings.suspend"
)

var (
	ErrUnitOfWorkRequired = errors.New("listings: unit of work required")
	ErrNotListingOwner    = errors.New("listings: only the host can modify the listing")
)

// ListingWindow mirrors a published availability span on the write side.
type ListingWindow struct {
	From time.Time `json:"from"`
	To   time.Time `json:"to"`
}

type ListingAttributes struct {
	Title             string
	Description       string
	City              string
	State             string
	HospitalName      string
	HospitalCity      string
	HospitalState     string
	MinutesToHospital int
	MonthlyRateCents  int64
	RoomType          string
	Tags              []string
	MinStayNights     int
	Windows           []ListingWindow
	AvailableFrom     time.Time
	AvailableTo       time.Time
}

type CreateListingCommand struct {
	CommandID       string
	HostID          string
	Attributes      ListingAttributes
	IdempotencyKeyV string
}

func (c CreateListingCommand) Key() string { return createListingKey }

func (c CreateListingCommand) IdempotencyKey() string { return c.IdempotencyKeyV }

func (c CreateListingCommand) ResultPrototype() any { return &ListingMutationResult{} }

type ListingMutationResult struct {
	ListingID string `json:"listing_id"`
	Status    string `json:"status"`
}

// CreateListingHandler creates a draft listing and grants the caller the host
// role on first use.
type CreateListingHandler struct {
	UoWFactory uow.UoWFactory
	Outbox     outbox.Outbox
	Encoder    outbox.EventEncoder
}

func (h *CreateListingHandler) Handle(ctx context.Context, cmd CreateListingCommand) (*ListingMutationResult, error) {
	return mutate(ctx, h.UoWFactory, h.Outbox, h.Encoder, func(ctx context.Context, unit uow.UnitOfWork) (*domainlistings.Listing, error) {
		now := time.Now().UTC()
		listing, err := domainlistings.NewListing(domainlistings.CreateListingParams{
			ID:                  domainlistings.ListingID(cmd.CommandID),
			Host:                domainlistings.HostID(cmd.HostID),
			Title:               cmd.Attributes.Title,
			Description:         cmd.Attributes.Description,
			City:                cmd.Attributes.City,
			State:               cmd.Attributes.State,
			HospitalName:        cmd.Attributes.HospitalName,
			HospitalCity:        cmd.Attributes.HospitalCity,
			HospitalState:       cmd.Attributes.HospitalState,
			MinutesToHospital:   cmd.Attributes.MinutesToHospital,
			MonthlyRateCents:    cmd.Attributes.MonthlyRateCents,
			RoomType:            domainlistings.RoomType(cmd.Attributes.RoomType),
			Tags:                cmd.Attributes.Tags,
			MinStayNights:       cmd.Attributes.MinStayNights,
			AvailabilityWindows: mapWindows(cmd.Attributes.Windows),
			AvailableFrom:       cmd.Attributes.AvailableFrom,
			AvailableTo:         cmd.Attributes.AvailableTo,
			Now:                 now,
		})
		if err != nil {
			return nil, err
		}
		if u, err := unit.Users().ByID(ctx, domainuser.ID(cmd.HostID)); err == nil {
			if err := u.EnsureRole(domainuser.RoleHost, now); err == nil {
				if err := unit.Users().Save(ctx, u); err != nil {
					return nil, err
				}
			}
		}
		return listing, nil
	})
}

type UpdateListingCommand struct {
	ListingID       string
	HostID          string
	Attributes      ListingAttributes
	IdempotencyKeyV string
}

func (c UpdateListingCommand) Key() string { return updateListingKey }

func (c UpdateListingCommand) IdempotencyKey() string { return c.IdempotencyKeyV }

func (c UpdateListingCommand) ResultPrototype() any { return &ListingMutationResult{} }

type UpdateListingHandler struct {
	UoWFactory uow.UoWFactory
	Outbox     outbox.Outbox
	Encoder    outbox.EventEncoder
}

func (h *UpdateListingHandler) Handle(ctx context.Context, cmd UpdateListingCommand) (*ListingMutationResult, error) {
	return mutate(ctx, h.UoWFactory, h.Outbox, h.Encoder, func(ctx context.Context, unit uow.UnitOfWork) (*domainlistings.Listing, error) {
		listing, err := ownedListing(ctx, unit, cmd.ListingID, cmd.HostID)
		if err != nil {
			return nil, err
		}
		err = listing.UpdateAttributes(domainlistings.UpdateListingParams{
			Title:               cmd.Attributes.Title,
			Description:         cmd.Attributes.Description,
			City:                cmd.Attributes.City,
			State:               cmd.Attributes.State,
			HospitalName:        cmd.Attributes.HospitalName,
			HospitalCity:        cmd.Attributes.HospitalCity,
			HospitalState:       cmd.Attributes.HospitalState,
			MinutesToHospital:   cmd.Attributes.MinutesToHospital,
			MonthlyRateCents:    cmd.Attributes.MonthlyRateCents,
			RoomType:            domainlistings.RoomType(cmd.Attributes.RoomType),
			Tags:                cmd.Attributes.Tags,
			MinStayNights:       cmd.Attributes.MinStayNights,
			AvailabilityWindows: mapWindows(cmd.Attributes.Windows),
			AvailableFrom:       cmd.Attributes.AvailableFrom,
			AvailableTo:         cmd.Attributes.AvailableTo,
			Photos:              listing.Photos,
			ThumbnailURL:        listing.ThumbnailURL,
			Now:                 time.Now().UTC(),
		})
		if err != nil {
			return nil, err
		}
		return listing, nil
	})
}

type PublishListingCommand struct {
	ListingID       string
	HostID          string
	IdempotencyKeyV string
}

func (c PublishListingCommand) Key() string { return publishListingKey }

func (c PublishListingCommand) IdempotencyKey() string { return c.IdempotencyKeyV }

func (c PublishListingCommand) ResultPrototype() any { return &ListingMutationResult{} }

type PublishListingHandler struct {
	UoWFactory uow.UoWFactory
	Outbox     outbox.Outbox
	Encoder    outbox.EventEncoder
}

func (h *PublishListingHandler) Handle(ctx context.Context, cmd PublishListingCommand) (*ListingMutationResult, error) {
	return mutate(ctx, h.UoWFactory, h.Outbox, h.Encoder, func(ctx context.Context, unit uow.UnitOfWork) (*domainlistings.Listing, error) {
		listing, err := ownedListing(ctx, unit, cmd.ListingID, cmd.HostID)
		if err != nil {
			return nil, err
		}
		if err := listing.Activate(time.Now().UTC()); err != nil {
			return nil, err
		}
		return listing, nil
	})
}

type SuspendListingCommand struct {
	ListingID       string
	HostID          string
	Reason          string
	IdempotencyKeyV string
}

func (c SuspendListingCommand) Key() string { return suspendListingKey }

func (c SuspendListingCommand) IdempotencyKey() string { return c.IdempotencyKeyV }

func (c SuspendListingCommand) ResultPrototype() any { return &ListingMutationResult{} }

type SuspendListingHandler struct {
	UoWFactory uow.UoWFactory
	Outbox     outbox.Outbox
	Encoder    outbox.EventEncoder
}

func (h *SuspendListingHandler) Handle(ctx context.Context, cmd SuspendListingCommand) (*ListingMutationResult, error) {
	return mutate(ctx, h.UoWFactory, h.Outbox, h.Encoder, func(ctx context.Context, unit uow.UnitOfWork) (*domainlistings.Listing, error) {
		listing, err := ownedListing(ctx, unit, cmd.ListingID, cmd.HostID)
		if err != nil {
			return nil, err
		}
		if err := listing.Suspend(time.Now().UTC(), cmd.Reason); err != nil {
			return nil, err
		}
		return listing, nil
	})
}

func ownedListing(ctx context.Context, unit uow.UnitOfWork, listingID, hostID string) (*domainlistings.Listing, error) {
	listing, err := unit.Listings().ByID(ctx, domainlistings.ListingID(listingID))
	if err != nil {
		return nil, err
	}
	if string(listing.Host) != hostID {
		return nil, ErrNotListingOwner
	}
	return listing, nil
}

func mapWindows(windows []ListingWindow) []domainrange.DateRange {
	out := make([]domainrange.DateRange, 0, len(windows))
	for _, w := range windows {
		out = append(out, domainrange.DateRange{
			CheckIn:  domainrange.Day(w.From),
			CheckOut: domainrange.Day(w.To),
		})
	}
	return out
}

func mutate(
	ctx context.Context,
	factory uow.UoWFactory,
	box outbox.Outbox,
	encoder outbox.EventEncoder,
	apply func(ctx context.Context, unit uow.UnitOfWork) (*domainlistings.Listing, error),
) (*ListingMutationResult, error) {
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

	listing, err := apply(ctx, unit)
	if err != nil {
		return nil, err
	}
	if err := unit.Listings().Save(ctx, listing); err != nil {
		return nil, err
	}
	evs := listing.PendingEvents()
	listing.ClearEvents()
	if err := outbox.RecordDomainEvents(ctx, box, encoder, evs); err != nil {
		return nil, err
	}

	if managed {
		if err := unit.Commit(ctx); err != nil {
			return nil, err
		}
		committed = true
	}
	return &ListingMutationResult{ListingID: string(listing.ID), Status: string(listing.Status)}, nil
}

var _ commands.Handler[CreateListingCommand, *ListingMutationResult] = (*CreateListingHandler)(nil)
var _ commands.Handler[UpdateListingCommand, *ListingMutationResult] = (*UpdateListingHandler)(nil)
var _ commands.Handler[PublishListingCommand, *ListingMutationResult] = (*PublishListingHandler)(nil)
var _ commands.Handler[SuspendListingCommand, *ListingMutationResult] = (*SuspendListingHandler)(nil)
var _ middleware.IdempotentCommand = (*CreateListingCommand)(nil)
