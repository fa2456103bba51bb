package ginserver

import (
	"net/http"
	"strings"

	gin "github.com/gin-gonic/gin"

	"shiftstay/internal/app/policies"
)

// GeocodeHandler proxies location autocomplete to the geocoding service.
type GeocodeHandler struct {
	Geocoder policies.Geocoder
}

func (h GeocodeHandler) Suggest(c *gin.Context) {
	if h.Geocoder == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "geocoder unavailable"})
		return
	}
	query := strings.TrimSpace(c.Query("q"))
	if query == "" {
		c.JSON(http.StatusOK, gin.H{"suggestions": []policies.PlaceSuggestion{}})
		return
	}
	suggestions, err := h.Geocoder.Suggest(c.Request.Context(), query, parseIntWithDefault(c.Query("limit"), 5))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if suggestions == nil {
		suggestions = []policies.PlaceSuggestion{}
	}
	c.JSON(http.StatusOK, gin.H{"suggestions": suggestions})
}

var _ GeocodeHTTP = GeocodeHandler{}
