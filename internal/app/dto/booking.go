package dto

import (
	"time"

	domainbooking "shiftstay/internal/domain/booking"
	domainlistings "shiftstay/internal/domain/listings"
	"shiftstay/internal/domain/pricing"
	"shiftstay/internal/domain/shared/money"
)

type MoneyDTO struct {
	Cents    int64  `json:"cents"`
	Currency string `json:"currency"`
	Display  string `json:"display"`
}

type BookingListingSnapshot struct {
	ID           string `json:"id"`
	Title        string `json:"title"`
	City         string `json:"city"`
	State        string `json:"state"`
	HospitalName string `json:"hospital_name"`
	ThumbnailURL string `json:"thumbnail_url"`
}

type NurseBookingSummary struct {
	ID              string                 `json:"id"`
	Listing         BookingListingSnapshot `json:"listing"`
	CheckIn         time.Time              `json:"check_in"`
	CheckOut        time.Time              `json:"check_out"`
	Nights          int                    `json:"nights"`
	Status          string                 `json:"status"`
	Total           MoneyDTO               `json:"total"`
	CreatedAt       time.Time              `json:"created_at"`
	ReviewSubmitted bool                   `json:"review_submitted"`
	CanReview       bool                   `json:"can_review"`
}

type NurseBookingCollection struct {
	Items []NurseBookingSummary `json:"items"`
}

type HostBookingSummary struct {
	ID        string                 `json:"id"`
	Listing   BookingListingSnapshot `json:"listing"`
	NurseID   string                 `json:"nurse_id"`
	CheckIn   time.Time              `json:"check_in"`
	CheckOut  time.Time              `json:"check_out"`
	Nights    int                    `json:"nights"`
	Status    string                 `json:"status"`
	Total     MoneyDTO               `json:"total"`
	CreatedAt time.Time              `json:"created_at"`
}

type HostBookingCollection struct {
	Items []HostBookingSummary `json:"items"`
}

type StayQuoteFee struct {
	Name   string   `json:"name"`
	Amount MoneyDTO `json:"amount"`
}

type StayQuote struct {
	Nights      int            `json:"nights"`
	MonthlyRate MoneyDTO       `json:"monthly_rate"`
	Rent        MoneyDTO       `json:"rent"`
	Fees        []StayQuoteFee `json:"fees"`
	Deposit     MoneyDTO       `json:"deposit"`
	Total       MoneyDTO       `json:"total"`
}

func MapMoney(value money.Money) MoneyDTO {
	return MoneyDTO{
		Cents:    value.Cents,
		Currency: value.Currency,
		Display:  money.FormatDollars(value.Cents),
	}
}

func MapStayQuote(q pricing.StayQuote) StayQuote {
	out := StayQuote{
		Nights:      q.Nights,
		MonthlyRate: MapMoney(q.MonthlyRate),
		Rent:        MapMoney(q.Rent),
		Deposit:     MapMoney(q.Deposit),
		Total:       MapMoney(q.Total),
	}
	for _, fee := range q.Fees {
		out.Fees = append(out.Fees, StayQuoteFee{Name: fee.Name, Amount: MapMoney(fee.Amount)})
	}
	return out
}

func listingSnapshot(listingID domainlistings.ListingID, listing *domainlistings.Listing) BookingListingSnapshot {
	snapshot := BookingListingSnapshot{ID: string(listingID)}
	if listing != nil {
		snapshot.Title = listing.Title
		snapshot.City = listing.City
		snapshot.State = listing.State
		snapshot.HospitalName = listing.HospitalName
		snapshot.ThumbnailURL = listing.ThumbnailURL
	}
	return snapshot
}

func MapNurseBookingSummary(
	booking *domainbooking.Booking,
	listing *domainlistings.Listing,
	reviewSubmitted bool,
) NurseBookingSummary {
	return NurseBookingSummary{
		ID:              string(booking.ID),
		Listing:         listingSnapshot(booking.ListingID, listing),
		CheckIn:         booking.Range.CheckIn,
		CheckOut:        booking.Range.CheckOut,
		Nights:          booking.Range.Nights(),
		Status:          string(booking.State),
		Total:           MapMoney(booking.Total),
		CreatedAt:       booking.CreatedAt,
		ReviewSubmitted: reviewSubmitted,
		CanReview:       booking.Reviewable() && !reviewSubmitted,
	}
}

func MapHostBookingSummary(booking *domainbooking.Booking, listing *domainlistings.Listing) HostBookingSummary {
	return HostBookingSummary{
		ID:        string(booking.ID),
		Listing:   listingSnapshot(booking.ListingID, listing),
		NurseID:   booking.NurseID,
		CheckIn:   booking.Range.CheckIn,
		CheckOut:  booking.Range.CheckOut,
		Nights:    booking.Range.Nights(),
		Status:    string(booking.State),
		Total:     MapMoney(booking.Total),
		CreatedAt: booking.CreatedAt,
	}
}
