package memory

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"

	domainavailability "shiftstay/internal/domain/availability"
	domainbooking "shiftstay/internal/domain/booking"
	domainlistings "shiftstay/internal/domain/listings"
	domainreviews "shiftstay/internal/domain/reviews"
)

// ErrListingNotFound is returned when a listing cannot be located in memory.
var ErrListingNotFound = errors.New("memory: listing not found")

// ListingRepository is an in-memory implementation for demo and test use.
type ListingRepository struct {
	mu    sync.RWMutex
	items map[domainlistings.ListingID]*domainlistings.Listing
}

// NewListingRepository builds an empty repository.
func NewListingRepository() *ListingRepository {
	return &ListingRepository{
		items: make(map[domainlistings.ListingID]*domainlistings.Listing),
	}
}

// ByID returns a listing or ErrListingNotFound.
func (r *ListingRepository) ByID(ctx context.Context, id domainlistings.ListingID) (*domainlistings.Listing, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	listing, ok := r.items[id]
	if !ok {
		return nil, ErrListingNotFound
	}
	return listing, nil
}

// Save stores/updates a listing entry.
func (r *ListingRepository) Save(ctx context.Context, listing *domainlistings.Listing) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[listing.ID] = listing
	return nil
}

// Search returns listings that satisfy provided filters.
func (r *ListingRepository) Search(ctx context.Context, params domainlistings.SearchParams) (domainlistings.SearchResult, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	opts := params.Normalized()
	matches := make([]*domainlistings.Listing, 0, len(r.items))
	for _, listing := range r.items {
		if ctx != nil {
			select {
			case <-ctx.Done():
				return domainlistings.SearchResult{}, ctx.Err()
			default:
			}
		}

		if opts.OnlyActive && listing.Status != domainlistings.ListingActive {
			continue
		}
		if opts.Host != "" && listing.Host != opts.Host {
			continue
		}
		if len(opts.States) > 0 && !stateIncluded(listing.Status, opts.States) {
			continue
		}
		if opts.State != "" && !strings.EqualFold(listing.State, opts.State) {
			continue
		}
		if opts.LocationQuery != "" && !matchLocation(listing, opts.LocationQuery) {
			continue
		}
		if opts.RoomType != "" && listing.RoomType != opts.RoomType {
			continue
		}
		if opts.MaxBudgetCents > 0 && listing.MonthlyRateCents > opts.MaxBudgetCents {
			continue
		}
		if opts.MaxHospitalMinutes > 0 && listing.MinutesToHospital > opts.MaxHospitalMinutes {
			continue
		}
		if !opts.CheckIn.IsZero() && !opts.CheckOut.IsZero() &&
			!listing.AvailableForRange(opts.CheckIn, opts.CheckOut) {
			continue
		}
		if !tokensMatch(listing.Tags, opts.Tags) {
			continue
		}
		matches = append(matches, listing)
	}

	sort.Slice(matches, func(i, j int) bool {
		switch opts.Sort {
		case domainlistings.SortByPriceDesc:
			if matches[i].MonthlyRateCents == matches[j].MonthlyRateCents {
				return matches[i].Rating > matches[j].Rating
			}
			return matches[i].MonthlyRateCents > matches[j].MonthlyRateCents
		case domainlistings.SortByRating:
			if matches[i].Rating == matches[j].Rating {
				return matches[i].MonthlyRateCents < matches[j].MonthlyRateCents
			}
			return matches[i].Rating > matches[j].Rating
		case domainlistings.SortByDistance:
			if matches[i].MinutesToHospital == matches[j].MinutesToHospital {
				return matches[i].MonthlyRateCents < matches[j].MonthlyRateCents
			}
			return matches[i].MinutesToHospital < matches[j].MinutesToHospital
		case domainlistings.SortByNewest:
			if matches[i].CreatedAt.Equal(matches[j].CreatedAt) {
				return matches[i].ID < matches[j].ID
			}
			return matches[i].CreatedAt.After(matches[j].CreatedAt)
		default:
			if matches[i].MonthlyRateCents == matches[j].MonthlyRateCents {
				return matches[i].Rating > matches[j].Rating
			}
			return matches[i].MonthlyRateCents < matches[j].MonthlyRateCents
		}
	})

	total := len(matches)
	start := opts.Offset
	if start > total {
		start = total
	}
	end := start + opts.Limit
	if end > total {
		end = total
	}

	return domainlistings.SearchResult{
		Items: matches[start:end],
		Total: total,
	}, nil
}

func tokensMatch(values []string, required []string) bool {
	if len(required) == 0 {
		return true
	}
	if len(values) == 0 {
		return false
	}
	index := make(map[string]struct{}, len(values))
	for _, value := range values {
		value = strings.TrimSpace(strings.ToLower(value))
		if value == "" {
			continue
		}
		index[value] = struct{}{}
	}
	for _, token := range required {
		token = strings.TrimSpace(strings.ToLower(token))
		if token == "" {
			continue
		}
		if _, ok := index[token]; !ok {
			return false
		}
	}
	return true
}

func matchLocation(listing *domainlistings.Listing, needle string) bool {
	if listing == nil {
		return false
	}
	full := strings.ToLower(strings.Join([]string{
		listing.City,
		listing.State,
		listing.HospitalName,
		listing.HospitalCity,
		listing.Title,
	}, " "))
	return strings.Contains(full, needle)
}

func stateIncluded(state domainlistings.ListingState, allowed []domainlistings.ListingState) bool {
	for _, candidate := range allowed {
		if state == candidate {
			return true
		}
	}
	return false
}

// AvailabilityRepository keeps listing calendars in memory.
type AvailabilityRepository struct {
	mu        sync.RWMutex
	calendars map[domainlistings.ListingID]*domainavailability.Calendar
}

// NewAvailabilityRepository returns an empty calendar store.
func NewAvailabilityRepository() *AvailabilityRepository {
	return &AvailabilityRepository{
		calendars: make(map[domainlistings.ListingID]*domainavailability.Calendar),
	}
}

// Calendar retrieves a calendar or ErrCalendarNotFound; callers decide whether
// a missing calendar means "create one" or "fall back to listing windows".
func (r *AvailabilityRepository) Calendar(ctx context.Context, id domainlistings.ListingID) (*domainavailability.Calendar, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if cal, ok := r.calendars[id]; ok {
		return cal, nil
	}
	return nil, domainavailability.ErrCalendarNotFound
}

// Save persists a calendar snapshot.
func (r *AvailabilityRepository) Save(ctx context.Context, calendar *domainavailability.Calendar) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	calendar.Version++
	r.calendars[calendar.ListingID] = calendar
	return nil
}

// BookingRepository stores bookings in memory.
type BookingRepository struct {
	mu    sync.RWMutex
	items map[domainbooking.BookingID]*domainbooking.Booking
}

// NewBookingRepository builds an empty booking repo.
func NewBookingRepository() *BookingRepository {
	return &BookingRepository{items: make(map[domainbooking.BookingID]*domainbooking.Booking)}
}

// ByID fetches a booking.
func (r *BookingRepository) ByID(ctx context.Context, id domainbooking.BookingID) (*domainbooking.Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	booking, ok := r.items[id]
	if !ok {
		return nil, domainbooking.ErrBookingNotFound
	}
	return booking, nil
}

// Save stores the current booking state.
func (r *BookingRepository) Save(ctx context.Context, booking *domainbooking.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	booking.Version++
	r.items[booking.ID] = booking
	return nil
}

func (r *BookingRepository) ListByNurse(ctx context.Context, nurseID string) ([]*domainbooking.Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id := strings.TrimSpace(nurseID)
	if id == "" {
		return nil, errors.New("memory: nurse id required")
	}
	matches := make([]*domainbooking.Booking, 0)
	for _, booking := range r.items {
		if booking.NurseID == id {
			matches = append(matches, booking)
		}
	}
	sortBookings(matches)
	return matches, nil
}

func (r *BookingRepository) ListByListing(ctx context.Context, listingID domainlistings.ListingID) ([]*domainbooking.Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	matches := make([]*domainbooking.Booking, 0)
	for _, booking := range r.items {
		if booking.ListingID == listingID {
			matches = append(matches, booking)
		}
	}
	sortBookings(matches)
	return matches, nil
}

func sortBookings(items []*domainbooking.Booking) {
	sort.Slice(items, func(i, j int) bool {
		if items[i].CreatedAt.Equal(items[j].CreatedAt) {
			return items[i].ID < items[j].ID
		}
		return items[i].CreatedAt.After(items[j].CreatedAt)
	})
}

// ReviewsRepository is a lightweight in-memory review store.
type ReviewsRepository struct {
	mu        sync.RWMutex
	items     map[string]*domainreviews.Review
	byBooking map[domainbooking.BookingID]string
}

// NewReviewsRepository builds an empty reviews store.
func NewReviewsRepository() *ReviewsRepository {
	return &ReviewsRepository{
		items:     make(map[string]*domainreviews.Review),
		byBooking: make(map[domainbooking.BookingID]string),
	}
}

func (r *ReviewsRepository) ByID(ctx context.Context, id string) (*domainreviews.Review, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if review, ok := r.items[id]; ok {
		return review, nil
	}
	return nil, domainreviews.ErrReviewNotFound
}

func (r *ReviewsRepository) ByBooking(ctx context.Context, bookingID domainbooking.BookingID) (*domainreviews.Review, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.byBooking[bookingID]
	if !ok {
		return nil, domainreviews.ErrReviewNotFound
	}
	return r.items[id], nil
}

func (r *ReviewsRepository) ListByListing(ctx context.Context, listingID domainlistings.ListingID) ([]*domainreviews.Review, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	matches := make([]*domainreviews.Review, 0)
	for _, review := range r.items {
		if review.ListingID == listingID {
			matches = append(matches, review)
		}
	}
	sort.Slice(matches, func(i, j int) bool {
		if matches[i].CreatedAt.Equal(matches[j].CreatedAt) {
			return matches[i].ID < matches[j].ID
		}
		return matches[i].CreatedAt.After(matches[j].CreatedAt)
	})
	return matches, nil
}

// Save writes the review entry.
func (r *ReviewsRepository) Save(ctx context.Context, review *domainreviews.Review) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[review.ID] = review
	r.byBooking[review.BookingID] = review.ID
	return nil
}
