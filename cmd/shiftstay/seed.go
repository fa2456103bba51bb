package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	availabilityapp "shiftstay/internal/app/handlers/availability"
	listingapp "shiftstay/internal/app/handlers/listings"
	authsvc "shiftstay/internal/app/services/auth"
)

// seedDemoData loads a small catalog through the regular command path so the
// demo state is indistinguishable from data created over HTTP.
func (a application) seedDemoData(ctx context.Context, logger *slog.Logger) error {
	host, err := a.auth.Register(ctx, authsvc.RegisterParams{
		Email:      "demo-host@shiftstay.local",
		Name:       "Dana Whitfield",
		Password:   "demo-password",
		WantToHost: true,
	})
	if err != nil {
		return fmt.Errorf("seed host: %w", err)
	}
	if _, err := a.auth.Register(ctx, authsvc.RegisterParams{
		Email:    "demo-nurse@shiftstay.local",
		Name:     "Riley Okafor",
		Password: "demo-password",
	}); err != nil {
		return fmt.Errorf("seed nurse: %w", err)
	}

	from := time.Now().UTC().Truncate(24*time.Hour).AddDate(0, 0, 7)
	to := from.AddDate(0, 6, 0)

	seeds := []listingapp.ListingAttributes{
		{
			Title:             "Furnished room near St. Luke's",
			Description:       "Quiet private room with dedicated workspace, five minutes from the hospital shuttle.",
			City:              "Boise",
			State:             "ID",
			HospitalName:      "St. Luke's Boise Medical Center",
			HospitalCity:      "Boise",
			HospitalState:     "ID",
			MinutesToHospital: 12,
			MonthlyRateCents:  145000,
			RoomType:          "private_room",
			Tags:              []string{"furnished", "wifi", "parking", "washer_dryer"},
			MinStayNights:     28,
			Windows:           []listingapp.ListingWindow{{From: from, To: to}},
			AvailableFrom:     from,
			AvailableTo:       to,
		},
		{
			Title:             "Garden studio, walkable to Sacred Heart",
			Description:       "Detached studio with its own entrance and blackout curtains for night-shift sleep.",
			City:              "Spokane",
			State:             "WA",
			HospitalName:      "Providence Sacred Heart Medical Center",
			HospitalCity:      "Spokane",
			HospitalState:     "WA",
			MinutesToHospital: 8,
			MonthlyRateCents:  178000,
			RoomType:          "entire_place",
			Tags:              []string{"furnished", "wifi", "pet_friendly", "blackout_curtains"},
			MinStayNights:     28,
			Windows:           []listingapp.ListingWindow{{From: from, To: to}},
			AvailableFrom:     from,
			AvailableTo:       to,
		},
	}

	var listingIDs []string
	for _, attrs := range seeds {
		result, err := a.commands.Dispatch(ctx, listingapp.CreateListingCommand{
			CommandID:  uuid.NewString(),
			HostID:     string(host.User.ID),
			Attributes: attrs,
		})
		if err != nil {
			return fmt.Errorf("seed listing %q: %w", attrs.Title, err)
		}
		created, ok := result.(*listingapp.ListingMutationResult)
		if !ok {
			return fmt.Errorf("seed listing %q: unexpected result %T", attrs.Title, result)
		}
		if _, err := a.commands.Dispatch(ctx, listingapp.PublishListingCommand{
			ListingID: created.ListingID,
			HostID:    string(host.User.ID),
		}); err != nil {
			return fmt.Errorf("seed publish %q: %w", attrs.Title, err)
		}
		listingIDs = append(listingIDs, created.ListingID)
	}

	// Block a week inside the first window so calendars show more than open
	// days out of the box.
	if _, err := a.commands.Dispatch(ctx, availabilityapp.BlockDatesCommand{
		CommandID: uuid.NewString(),
		ListingID: listingIDs[0],
		HostID:    string(host.User.ID),
		StartDate: from.AddDate(0, 1, 0),
		EndDate:   from.AddDate(0, 1, 7),
		Reason:    "maintenance",
		Notes:     "Repainting between tenants.",
	}); err != nil {
		return fmt.Errorf("seed block: %w", err)
	}

	logger.Info("demo data seeded", "host", host.User.Email, "listings", len(listingIDs))
	return nil
}
