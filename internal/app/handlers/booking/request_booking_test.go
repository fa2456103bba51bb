package booking

import (
	"context"
	"errors"
	"testing"
	"time"

	domainbooking "shiftstay/internal/domain/booking"
	domainlistings "shiftstay/internal/domain/listings"
	"shiftstay/internal/domain/shared/daterange"
	"shiftstay/internal/infra/storage/memory"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func newFactory(t *testing.T) memory.Factory {
	t.Helper()
	return memory.Factory{
		ListingsRepo:     memory.NewListingRepository(),
		AvailabilityRepo: memory.NewAvailabilityRepository(),
		BookingRepo:      memory.NewBookingRepository(),
		ReviewsRepo:      memory.NewReviewsRepository(),
		UsersRepo:        memory.NewUserRepository(),
	}
}

func seedActiveListing(t *testing.T, factory memory.Factory) *domainlistings.Listing {
	t.Helper()
	window, err := daterange.New(day(2026, time.March, 1), day(2026, time.December, 1))
	if err != nil {
		t.Fatalf("window: %v", err)
	}
	listing := &domainlistings.Listing{
		ID:                  "listing-1",
		Host:                "host-1",
		Title:               "Room near the hospital",
		City:                "Boise",
		State:               "ID",
		MonthlyRateCents:    150000,
		RoomType:            domainlistings.RoomPrivate,
		MinStayNights:       28,
		AvailabilityWindows: []daterange.DateRange{window},
		Status:              domainlistings.ListingActive,
		CreatedAt:           day(2026, time.January, 1),
	}
	if err := factory.ListingsRepo.Save(context.Background(), listing); err != nil {
		t.Fatalf("seed listing: %v", err)
	}
	return listing
}

func TestRequestBookingLifecycle(t *testing.T) {
	ctx := context.Background()
	factory := newFactory(t)
	seedActiveListing(t, factory)
	box := memory.NewOutbox()

	request := &RequestBookingHandler{UoWFactory: factory, Outbox: box}
	result, err := request.Handle(ctx, RequestBookingCommand{
		CommandID: "booking-1",
		ListingID: "listing-1",
		NurseID:   "nurse-1",
		CheckIn:   day(2026, time.April, 1),
		CheckOut:  day(2026, time.May, 1),
	})
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if result.Nights != 30 {
		t.Errorf("nights = %d, want 30", result.Nights)
	}
	if result.TotalCents <= 0 {
		t.Errorf("total = %d, want positive", result.TotalCents)
	}

	stored, err := factory.BookingRepo.ByID(ctx, "booking-1")
	if err != nil {
		t.Fatalf("stored booking: %v", err)
	}
	if stored.State != domainbooking.StatePending {
		t.Errorf("state = %s, want PENDING", stored.State)
	}

	accept := &AcceptBookingHandler{UoWFactory: factory, Outbox: box}
	decision, err := accept.Handle(ctx, AcceptBookingCommand{BookingID: "booking-1", HostID: "host-1"})
	if err != nil {
		t.Fatalf("accept: %v", err)
	}
	if decision.Status != string(domainbooking.StateAccepted) {
		t.Errorf("decision status = %s, want ACCEPTED", decision.Status)
	}

	// Acceptance reserves the dates, so an overlapping request must now fail.
	_, err = request.Handle(ctx, RequestBookingCommand{
		CommandID: "booking-2",
		ListingID: "listing-1",
		NurseID:   "nurse-2",
		CheckIn:   day(2026, time.April, 15),
		CheckOut:  day(2026, time.May, 15),
	})
	if !errors.Is(err, ErrDatesUnavailable) {
		t.Fatalf("overlapping request err = %v, want ErrDatesUnavailable", err)
	}

	// A disjoint stay inside the window still goes through.
	if _, err := request.Handle(ctx, RequestBookingCommand{
		CommandID: "booking-3",
		ListingID: "listing-1",
		NurseID:   "nurse-2",
		CheckIn:   day(2026, time.June, 1),
		CheckOut:  day(2026, time.July, 1),
	}); err != nil {
		t.Fatalf("disjoint request: %v", err)
	}
}

func TestRequestBookingRejectsInactiveListing(t *testing.T) {
	ctx := context.Background()
	factory := newFactory(t)
	listing := seedActiveListing(t, factory)
	listing.Status = domainlistings.ListingSuspended
	if err := factory.ListingsRepo.Save(ctx, listing); err != nil {
		t.Fatalf("save: %v", err)
	}

	handler := &RequestBookingHandler{UoWFactory: factory}
	_, err := handler.Handle(ctx, RequestBookingCommand{
		CommandID: "booking-1",
		ListingID: "listing-1",
		NurseID:   "nurse-1",
		CheckIn:   day(2026, time.April, 1),
		CheckOut:  day(2026, time.May, 1),
	})
	if !errors.Is(err, ErrListingInactive) {
		t.Fatalf("err = %v, want ErrListingInactive", err)
	}
}

func TestRequestBookingEnforcesMinStay(t *testing.T) {
	ctx := context.Background()
	factory := newFactory(t)
	seedActiveListing(t, factory)

	handler := &RequestBookingHandler{UoWFactory: factory}
	_, err := handler.Handle(ctx, RequestBookingCommand{
		CommandID: "booking-1",
		ListingID: "listing-1",
		NurseID:   "nurse-1",
		CheckIn:   day(2026, time.April, 1),
		CheckOut:  day(2026, time.April, 10),
	})
	if !errors.Is(err, domainbooking.ErrMinStay) {
		t.Fatalf("err = %v, want ErrMinStay", err)
	}
}

func TestDecideBookingRequiresListingOwner(t *testing.T) {
	ctx := context.Background()
	factory := newFactory(t)
	seedActiveListing(t, factory)

	request := &RequestBookingHandler{UoWFactory: factory}
	if _, err := request.Handle(ctx, RequestBookingCommand{
		CommandID: "booking-1",
		ListingID: "listing-1",
		NurseID:   "nurse-1",
		CheckIn:   day(2026, time.April, 1),
		CheckOut:  day(2026, time.May, 1),
	}); err != nil {
		t.Fatalf("request: %v", err)
	}

	decline := &DeclineBookingHandler{UoWFactory: factory}
	_, err := decline.Handle(ctx, DeclineBookingCommand{BookingID: "booking-1", HostID: "someone-else"})
	if !errors.Is(err, ErrNotListingOwner) {
		t.Fatalf("err = %v, want ErrNotListingOwner", err)
	}
}
