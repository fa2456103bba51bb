package ginserver

import (
	"net/http"

	gin "github.com/gin-gonic/gin"

	"shiftstay/internal/app/dto"
	matchapp "shiftstay/internal/app/handlers/matching"
	"shiftstay/internal/app/queries"
)

// MatchHandler exposes scored search: every active listing ranked against the
// nurse's contract dates, budget and preferences.
type MatchHandler struct {
	Queries queries.Bus
}

func (h MatchHandler) Search(c *gin.Context) {
	if h.Queries == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "match handler unavailable"})
		return
	}
	startDate, _ := parseFlexibleTime(c.Query("start_date"))
	endDate, _ := parseFlexibleTime(c.Query("end_date"))
	query := matchapp.SearchMatchesQuery{
		Location:         c.Query("location"),
		State:            c.Query("state"),
		MaxBudgetCents:   parseInt64(c.Query("max_budget_cents")),
		RoomType:         c.Query("room_type"),
		Amenities:        splitCSV(c.Query("amenities")),
		MaxHospitalMin:   parseInt(c.Query("max_hospital_minutes")),
		StartDate:        startDate,
		EndDate:          endDate,
		Limit:            parseIntWithDefault(c.Query("limit"), 24),
		Offset:           parseInt(c.Query("offset")),
		OnlyPerfectMatch: c.Query("perfect_only") == "true",
	}
	result, err := queries.Ask[matchapp.SearchMatchesQuery, dto.MatchCollection](c.Request.Context(), h.Queries, query)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, result)
}

var _ MatchHTTP = MatchHandler{}
