package ginserver

import (
	"errors"
	"net/http"
	"time"

	gin "github.com/gin-gonic/gin"

	"shiftstay/internal/app/dto"
	availabilityapp "shiftstay/internal/app/handlers/availability"
	"shiftstay/internal/app/queries"
	domainavailability "shiftstay/internal/domain/availability"
)

// AvailabilityHandler serves the listing calendar and the month grid the date
// picker renders.
type AvailabilityHandler struct {
	Queries queries.Bus
}

func (h AvailabilityHandler) Calendar(c *gin.Context) {
	if h.Queries == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "availability handler unavailable"})
		return
	}
	listingID := c.Param("id")
	if listingID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "listing id is required"})
		return
	}
	from, _ := parseFlexibleTime(c.Query("from"))
	query := availabilityapp.GetCalendarQuery{
		ListingID: listingID,
		From:      from,
		Months:    parseInt(c.Query("months")),
	}
	result, err := queries.Ask[availabilityapp.GetCalendarQuery, dto.Calendar](c.Request.Context(), h.Queries, query)
	if err != nil {
		if errors.Is(err, domainavailability.ErrCalendarNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "calendar not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h AvailabilityHandler) MonthGrid(c *gin.Context) {
	if h.Queries == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "availability handler unavailable"})
		return
	}
	listingID := c.Param("id")
	if listingID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "listing id is required"})
		return
	}
	year := parseInt(c.Query("year"))
	month := parseInt(c.Query("month"))
	if year <= 0 || month < 1 || month > 12 {
		now := time.Now().UTC()
		year = now.Year()
		month = int(now.Month())
	}
	query := availabilityapp.MonthGridQuery{
		ListingID: listingID,
		Year:      year,
		Month:     time.Month(month),
	}
	result, err := queries.Ask[availabilityapp.MonthGridQuery, dto.MonthGrid](c.Request.Context(), h.Queries, query)
	if err != nil {
		if errors.Is(err, domainavailability.ErrCalendarNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "calendar not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, result)
}

var _ AvailabilityHTTP = AvailabilityHandler{}
