package listings

import (
	"context"
	"errors"
	"strings"
	"time"

	"shiftstay/internal/domain/shared/daterange"
	"shiftstay/internal/domain/shared/events"
)

var (
	ErrTitleRequired    = errors.New("listings: title is required")
	ErrHospitalRequired = errors.New("listings: hospital name must be provided when activating")
	ErrMonthlyRate      = errors.New("listings: monthly rate must be positive")
	ErrHospitalMinutes  = errors.New("listings: minutes to hospital must be non-negative")
	ErrInvalidRoomType  = errors.New("listings: invalid room type")
	ErrInvalidRating    = errors.New("listings: rating must be between 0 and 5")
	ErrReviewCount      = errors.New("listings: review count must be non-negative")
	ErrInvalidState     = errors.New("listings: invalid state transition")
	ErrMinStay          = errors.New("listings: min stay nights must be non-negative")
)

type ListingID string
type HostID string

type ListingState string

const (
	ListingDraft     ListingState = "DRAFT"
	ListingActive    ListingState = "ACTIVE"
	ListingSuspended ListingState = "SUSPENDED"
)

type RoomType string

const (
	RoomPrivate     RoomType = "private_room"
	RoomEntirePlace RoomType = "entire_place"
	RoomShared      RoomType = "shared"
)

// NormalizeRoomType maps loose input onto a known room type, or "" when unknown.
func NormalizeRoomType(value string) RoomType {
	switch strings.ReplaceAll(strings.ToLower(strings.TrimSpace(value)), "-", "_") {
	case "private_room", "private":
		return RoomPrivate
	case "entire_place", "entire":
		return RoomEntirePlace
	case "shared", "shared_room":
		return RoomShared
	default:
		return ""
	}
}

// Listing is a housing unit offered near a hospital for travel-nurse contracts.
type Listing struct {
	ID                ListingID
	Host              HostID
	Title             string
	Description       string
	City              string
	State             string
	HospitalName      string
	HospitalCity      string
	HospitalState     string
	MinutesToHospital int
	MonthlyRateCents  int64
	RoomType          RoomType
	Tags              []string
	Rating            float64
	ReviewCount       int
	MinStayNights     int

	// AvailabilityWindows is the authoritative set of spans the unit can be
	// occupied. AvailableFrom/AvailableTo are the legacy scalar bounds kept for
	// listings imported before windows existed; AvailableForRange treats them
	// as a single window when the list is empty.
	AvailabilityWindows []daterange.DateRange
	AvailableFrom       time.Time
	AvailableTo         time.Time

	Photos       []string
	ThumbnailURL string
	Status       ListingState
	Version      int64
	CreatedAt    time.Time
	UpdatedAt    time.Time
	events.EventRecorder
}

type ListingRepository interface {
	ByID(ctx context.Context, id ListingID) (*Listing, error)
	Save(ctx context.Context, listing *Listing) error
	Search(ctx context.Context, params SearchParams) (SearchResult, error)
}

type CreateListingParams struct {
	ID                  ListingID
	Host                HostID
	Title               string
	Description         string
	City                string
	State               string
	HospitalName        string
	HospitalCity        string
	HospitalState       string
	MinutesToHospital   int
	MonthlyRateCents    int64
	RoomType            RoomType
	Tags                []string
	Rating              float64
	ReviewCount         int
	MinStayNights       int
	AvailabilityWindows []daterange.DateRange
	AvailableFrom       time.Time
	AvailableTo         time.Time
	Photos              []string
	ThumbnailURL        string
	Now                 time.Time
}

func NewListing(params CreateListingParams) (*Listing, error) {
	if strings.TrimSpace(string(params.ID)) == "" {
		return nil, errors.New("listings: id is required")
	}
	if strings.TrimSpace(string(params.Host)) == "" {
		return nil, errors.New("listings: host is required")
	}
	if strings.TrimSpace(params.Title) == "" {
		return nil, ErrTitleRequired
	}
	if params.MonthlyRateCents <= 0 {
		return nil, ErrMonthlyRate
	}
	if params.MinutesToHospital < 0 {
		return nil, ErrHospitalMinutes
	}
	if params.RoomType != "" && NormalizeRoomType(string(params.RoomType)) == "" {
		return nil, ErrInvalidRoomType
	}
	if params.Rating < 0 || params.Rating > 5 {
		return nil, ErrInvalidRating
	}
	if params.ReviewCount < 0 {
		return nil, ErrReviewCount
	}
	if params.MinStayNights < 0 {
		return nil, ErrMinStay
	}
	for _, window := range params.AvailabilityWindows {
		if err := window.Validate(); err != nil {
			return nil, err
		}
	}
	now := params.Now.UTC()

	listing := &Listing{
		ID:                  params.ID,
		Host:                params.Host,
		Title:               strings.TrimSpace(params.Title),
		Description:         strings.TrimSpace(params.Description),
		City:                strings.TrimSpace(params.City),
		State:               strings.TrimSpace(params.State),
		HospitalName:        strings.TrimSpace(params.HospitalName),
		HospitalCity:        strings.TrimSpace(params.HospitalCity),
		HospitalState:       strings.TrimSpace(params.HospitalState),
		MinutesToHospital:   params.MinutesToHospital,
		MonthlyRateCents:    params.MonthlyRateCents,
		RoomType:            NormalizeRoomType(string(params.RoomType)),
		Tags:                append([]string(nil), params.Tags...),
		Rating:              params.Rating,
		ReviewCount:         params.ReviewCount,
		MinStayNights:       params.MinStayNights,
		AvailabilityWindows: append([]daterange.DateRange(nil), params.AvailabilityWindows...),
		AvailableFrom:       daterange.Day(params.AvailableFrom),
		AvailableTo:         daterange.Day(params.AvailableTo),
		Photos:              append([]string(nil), params.Photos...),
		ThumbnailURL:        strings.TrimSpace(params.ThumbnailURL),
		Status:              ListingDraft,
		CreatedAt:           now,
		UpdatedAt:           now,
	}

	listing.Record(ListingCreatedEvent{ListingID: listing.ID, HostID: listing.Host, At: now})
	return listing, nil
}

// AvailableForRange reports whether the unit can host a stay over [start, end).
// The window list is authoritative; the legacy scalar bounds act as a single
// window when no list is present. A listing that declares nothing imposes no
// window constraint (the calendar's block conflicts still apply).
func (l *Listing) AvailableForRange(start, end time.Time) bool {
	r, err := daterange.New(start, end)
	if err != nil {
		return false
	}
	windows := l.AvailabilityWindows
	if len(windows) == 0 {
		if l.AvailableFrom.IsZero() && l.AvailableTo.IsZero() {
			return true
		}
		from := l.AvailableFrom
		to := l.AvailableTo
		if from.IsZero() {
			from = r.CheckIn
		}
		if to.IsZero() {
			to = r.CheckOut
		}
		windows = []daterange.DateRange{{CheckIn: from, CheckOut: to}}
	}
	for _, window := range windows {
		if window.Contains(r) {
			return true
		}
	}
	return false
}

func (l *Listing) Activate(now time.Time) error {
	if l.Status == ListingActive {
		return nil
	}
	if strings.TrimSpace(l.HospitalName) == "" {
		return ErrHospitalRequired
	}
	if l.MonthlyRateCents <= 0 {
		return ErrMonthlyRate
	}
	l.Status = ListingActive
	l.UpdatedAt = now.UTC()
	l.Record(ListingActivatedEvent{ListingID: l.ID, HostID: l.Host, At: l.UpdatedAt})
	return nil
}

func (l *Listing) Suspend(now time.Time, reason string) error {
	if l.Status != ListingActive {
		return ErrInvalidState
	}
	l.Status = ListingSuspended
	l.UpdatedAt = now.UTC()
	l.Record(ListingSuspendedEvent{ListingID: l.ID, Reason: reason, At: l.UpdatedAt})
	return nil
}

type UpdateListingParams struct {
	Title               string
	Description         string
	City                string
	State               string
	HospitalName        string
	HospitalCity        string
	HospitalState       string
	MinutesToHospital   int
	MonthlyRateCents    int64
	RoomType            RoomType
	Tags                []string
	MinStayNights       int
	AvailabilityWindows []daterange.DateRange
	AvailableFrom       time.Time
	AvailableTo         time.Time
	Photos              []string
	ThumbnailURL        string
	Now                 time.Time
}

func (l *Listing) UpdateAttributes(params UpdateListingParams) error {
	if strings.TrimSpace(params.Title) == "" {
		return ErrTitleRequired
	}
	if params.MonthlyRateCents <= 0 {
		return ErrMonthlyRate
	}
	if params.MinutesToHospital < 0 {
		return ErrHospitalMinutes
	}
	if params.RoomType != "" && NormalizeRoomType(string(params.RoomType)) == "" {
		return ErrInvalidRoomType
	}
	if params.MinStayNights < 0 {
		return ErrMinStay
	}
	for _, window := range params.AvailabilityWindows {
		if err := window.Validate(); err != nil {
			return err
		}
	}
	now := params.Now
	if now.IsZero() {
		now = time.Now()
	}
	now = now.UTC()

	l.Title = strings.TrimSpace(params.Title)
	l.Description = strings.TrimSpace(params.Description)
	l.City = strings.TrimSpace(params.City)
	l.State = strings.TrimSpace(params.State)
	l.HospitalName = strings.TrimSpace(params.HospitalName)
	l.HospitalCity = strings.TrimSpace(params.HospitalCity)
	l.HospitalState = strings.TrimSpace(params.HospitalState)
	l.MinutesToHospital = params.MinutesToHospital
	l.MonthlyRateCents = params.MonthlyRateCents
	l.RoomType = NormalizeRoomType(string(params.RoomType))
	l.Tags = append([]string(nil), params.Tags...)
	l.MinStayNights = params.MinStayNights
	l.AvailabilityWindows = append([]daterange.DateRange(nil), params.AvailabilityWindows...)
	if !params.AvailableFrom.IsZero() {
		l.AvailableFrom = daterange.Day(params.AvailableFrom)
	}
	if !params.AvailableTo.IsZero() {
		l.AvailableTo = daterange.Day(params.AvailableTo)
	}
	l.Photos = append([]string(nil), params.Photos...)
	l.ThumbnailURL = strings.TrimSpace(params.ThumbnailURL)
	l.UpdatedAt = now
	l.Record(ListingUpdatedEvent{ListingID: l.ID, At: now})
	return nil
}

// ApplyReview folds a new review rating into the running average.
func (l *Listing) ApplyReview(rating float64, now time.Time) error {
	if rating < 0 || rating > 5 {
		return ErrInvalidRating
	}
	total := l.Rating*float64(l.ReviewCount) + rating
	l.ReviewCount++
	l.Rating = total / float64(l.ReviewCount)
	l.UpdatedAt = now.UTC()
	l.Record(ListingUpdatedEvent{ListingID: l.ID, At: l.UpdatedAt})
	return nil
}

func (l *Listing) AttachPhoto(url string, now time.Time) {
	url = strings.TrimSpace(url)
	if url == "" {
		return
	}
	l.Photos = append(l.Photos, url)
	if l.ThumbnailURL == "" {
		l.ThumbnailURL = url
	}
	l.UpdatedAt = now.UTC()
	l.Record(ListingUpdatedEvent{ListingID: l.ID, At: l.UpdatedAt})
}
