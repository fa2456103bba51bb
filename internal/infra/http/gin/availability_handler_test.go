package ginserver

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	gin "github.com/gin-gonic/gin"

	"shiftstay/internal/app/dto"
	availabilityapp "shiftstay/internal/app/handlers/availability"
	"shiftstay/internal/app/queries"
	domainavailability "shiftstay/internal/domain/availability"
	"shiftstay/internal/infra/storage/memory"
)

func newAvailabilityRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	factory := memory.Factory{
		ListingsRepo:     memory.NewListingRepository(),
		AvailabilityRepo: memory.NewAvailabilityRepository(),
		BookingRepo:      memory.NewBookingRepository(),
		ReviewsRepo:      memory.NewReviewsRepository(),
		UsersRepo:        memory.NewUserRepository(),
	}

	calendar := domainavailability.NewCalendar("listing-1", 150000, 28)
	if _, err := calendar.BlockDates(domainavailability.BlockDateParams{
		ID:        "block-1",
		StartDate: time.Date(2026, time.April, 10, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2026, time.April, 17, 0, 0, 0, 0, time.UTC),
		Reason:    domainavailability.ReasonMaintenance,
		Now:       time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC),
	}); err != nil {
		t.Fatalf("block dates: %v", err)
	}
	if err := factory.AvailabilityRepo.Save(t.Context(), calendar); err != nil {
		t.Fatalf("save calendar: %v", err)
	}

	bus := queries.NewInMemoryBus()
	queries.RegisterHandler(bus, availabilityapp.GetCalendarQuery{}.Key(),
		&availabilityapp.GetCalendarHandler{UoWFactory: factory})
	queries.RegisterHandler(bus, availabilityapp.MonthGridQuery{}.Key(),
		&availabilityapp.MonthGridHandler{
			UoWFactory: factory,
			Now: func() time.Time {
				return time.Date(2026, time.April, 1, 0, 0, 0, 0, time.UTC)
			},
		})

	handler := AvailabilityHandler{Queries: bus}
	router := gin.New()
	router.GET("/api/v1/listings/:id/calendar", handler.Calendar)
	router.GET("/api/v1/listings/:id/calendar/grid", handler.MonthGrid)
	return router
}

func TestCalendarEndpoint(t *testing.T) {
	router := newAvailabilityRouter(t)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/listings/listing-1/calendar?from=2026-04-01&months=1", nil)
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	var payload dto.Calendar
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if payload.ListingID != "listing-1" {
		t.Errorf("listing_id = %q", payload.ListingID)
	}
	if len(payload.Blocks) != 1 || payload.Blocks[0].Status != "blocked" {
		t.Fatalf("blocks = %+v, want one blocked block", payload.Blocks)
	}
	if len(payload.Days) != 30 {
		t.Fatalf("days = %d, want 30 for one April window", len(payload.Days))
	}
	blocked := 0
	for _, d := range payload.Days {
		if d.Status == "blocked" {
			blocked++
		}
	}
	// Inclusive block days: April 10 through April 17.
	if blocked != 8 {
		t.Errorf("blocked days = %d, want 8", blocked)
	}
}

func TestCalendarEndpointNotFound(t *testing.T) {
	router := newAvailabilityRouter(t)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/listings/unknown/calendar", nil)
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestMonthGridEndpoint(t *testing.T) {
	router := newAvailabilityRouter(t)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/listings/listing-1/calendar/grid?year=2026&month=4", nil)
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	var payload dto.MonthGrid
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if payload.Year != 2026 || payload.Month != 4 {
		t.Errorf("grid for %d-%d, want 2026-4", payload.Year, payload.Month)
	}
	if len(payload.Cells)%7 != 0 {
		t.Errorf("cells = %d, want whole weeks", len(payload.Cells))
	}
	// April 2026 starts on a Wednesday, so the grid leads with March cells.
	if len(payload.Cells) == 0 || payload.Cells[0].InMonth {
		t.Error("expected leading out-of-month cells")
	}
}
