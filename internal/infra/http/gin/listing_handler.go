package ginserver

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	gin "github.com/gin-gonic/gin"

	"shiftstay/internal/app/dto"
	listingapp "shiftstay/internal/app/handlers/listings"
	"shiftstay/internal/app/queries"
)

// ListingHandler wires the public catalog and listing page to HTTP.
type ListingHandler struct {
	Queries queries.Bus
}

// Catalog responds with a filtered collection of active listings.
func (h ListingHandler) Catalog(c *gin.Context) {
	if h.Queries == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "listing handler unavailable"})
		return
	}
	checkIn, _ := parseFlexibleTime(c.Query("check_in"))
	checkOut, _ := parseFlexibleTime(c.Query("check_out"))
	query := listingapp.SearchCatalogQuery{
		Location:       c.Query("location"),
		State:          c.Query("state"),
		RoomType:       c.Query("room_type"),
		Tags:           splitCSV(c.Query("amenities")),
		MaxBudgetCents: parseInt64(c.Query("max_budget_cents")),
		MaxHospitalMin: parseInt(c.Query("max_hospital_minutes")),
		CheckIn:        checkIn,
		CheckOut:       checkOut,
		Sort:           c.Query("sort"),
		Limit:          parseIntWithDefault(c.Query("limit"), 24),
		Offset:         parseInt(c.Query("offset")),
	}
	result, err := queries.Ask[listingapp.SearchCatalogQuery, dto.ListingCatalog](c.Request.Context(), h.Queries, query)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, result)
}

// Detail responds with the listing page plus its calendar blocks.
func (h ListingHandler) Detail(c *gin.Context) {
	if h.Queries == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "listing handler unavailable"})
		return
	}
	listingID := c.Param("id")
	if listingID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "listing id is required"})
		return
	}
	query := listingapp.GetDetailQuery{ListingID: listingID}
	result, err := queries.Ask[listingapp.GetDetailQuery, listingapp.ListingPage](c.Request.Context(), h.Queries, query)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "listing not found"})
		return
	}
	c.JSON(http.StatusOK, result)
}

var _ ListingHTTP = ListingHandler{}

func parseFlexibleTime(raw string) (time.Time, bool) {
	if raw == "" {
		return time.Time{}, false
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t.UTC(), true
	}
	if t, err := time.Parse("2006-01-02", raw); err == nil {
		return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), true
	}
	return time.Time{}, false
}

func splitCSV(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		out = append(out, part)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func parseInt(raw string) int {
	value, _ := strconv.Atoi(strings.TrimSpace(raw))
	if value < 0 {
		return 0
	}
	return value
}

func parseIntWithDefault(raw string, fallback int) int {
	value := parseInt(raw)
	if value == 0 {
		return fallback
	}
	return value
}

func parseInt64(raw string) int64 {
	value, _ := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if value < 0 {
		return 0
	}
	return value
}
