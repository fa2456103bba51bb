package pricing

import (
	"errors"

	"shiftstay/internal/domain/shared/daterange"
	"shiftstay/internal/domain/shared/money"
)

var (
	ErrNegativeComponent = errors.New("pricing: fee amounts cannot be negative")
	ErrRateRequired      = errors.New("pricing: monthly rate must be positive")
)

// daysPerMonth spreads a monthly rate over an average month.
const daysPerMonth = 365.0 / 12.0

type Fee struct {
	Name   string
	Amount money.Money
}

// StayQuote breaks down what a nurse pays for a contract stay. Rent is the
// monthly rate prorated over the nights booked; fees are flat per stay.
type StayQuote struct {
	Nights      int
	MonthlyRate money.Money
	Rent        money.Money
	Fees        []Fee
	Deposit     money.Money
	Total       money.Money
}

type QuoteInput struct {
	MonthlyRateCents int64
	Range            daterange.DateRange
	CleaningFeeCents int64
	DepositCents     int64
}

// Quote prices a stay. The deposit is reported but excluded from Total since
// it is refundable.
func Quote(input QuoteInput) (StayQuote, error) {
	if input.MonthlyRateCents <= 0 {
		return StayQuote{}, ErrRateRequired
	}
	if err := input.Range.Validate(); err != nil {
		return StayQuote{}, err
	}
	if input.CleaningFeeCents < 0 || input.DepositCents < 0 {
		return StayQuote{}, ErrNegativeComponent
	}

	nights := input.Range.Nights()
	rent := money.USD(input.MonthlyRateCents * int64(nights) * 12 / 365)

	q := StayQuote{
		Nights:      nights,
		MonthlyRate: money.USD(input.MonthlyRateCents),
		Rent:        rent,
		Deposit:     money.USD(input.DepositCents),
	}
	total := rent
	if input.CleaningFeeCents > 0 {
		fee := Fee{Name: "cleaning", Amount: money.USD(input.CleaningFeeCents)}
		q.Fees = append(q.Fees, fee)
		total, _ = total.Add(fee.Amount)
	}
	q.Total = total
	return q, nil
}
