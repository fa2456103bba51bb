package uow

import (
	"context"

	domainavailability "shiftstay/internal/domain/availability"
	domainbooking "shiftstay/internal/domain/booking"
	domainlistings "shiftstay/internal/domain/listings"
	domainreviews "shiftstay/internal/domain/reviews"
	domainuser "shiftstay/internal/domain/user"
)

// UnitOfWork coordinates repositories inside a transaction boundary.
type UnitOfWork interface {
	Listings() domainlistings.ListingRepository
	Availability() domainavailability.Repository
	Booking() domainbooking.Repository
	Reviews() domainreviews.Repository
	Users() domainuser.Repository

	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// UoWFactory starts unit of work instances.
type UoWFactory interface {
	Begin(ctx context.Context, opts TxOptions) (UnitOfWork, error)
}

// TxOptions configure transaction boundaries.
type TxOptions struct {
	ReadOnly bool
}
