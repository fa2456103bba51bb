package ginserver

import (
	"errors"
	"log/slog"
	"net/http"

	gin "github.com/gin-gonic/gin"

	"shiftstay/internal/app/commands"
	"shiftstay/internal/app/dto"
	reviewsapp "shiftstay/internal/app/handlers/reviews"
	"shiftstay/internal/app/queries"
	domainbooking "shiftstay/internal/domain/booking"
	domainreviews "shiftstay/internal/domain/reviews"
)

type ReviewsHandler struct {
	Commands commands.Bus
	Queries  queries.Bus
	Logger   *slog.Logger
}

type submitReviewRequest struct {
	Rating int    `json:"rating"`
	Text   string `json:"text"`
}

func (h ReviewsHandler) Submit(c *gin.Context) {
	user, ok := requireRole(c, "")
	if !ok {
		return
	}
	if h.Commands == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "reviews: commands unavailable"})
		return
	}
	bookingID := c.Param("id")
	if bookingID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "booking id is required"})
		return
	}
	var req submitReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	cmd := reviewsapp.SubmitReviewCommand{
		CommandID:       generateCommandID(),
		BookingID:       bookingID,
		AuthorID:        user.ID,
		Rating:          req.Rating,
		Text:            req.Text,
		IdempotencyKeyV: c.GetHeader("Idempotency-Key"),
	}
	result, err := commands.Dispatch[reviewsapp.SubmitReviewCommand, *reviewsapp.SubmitReviewResult](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		h.handleSubmitError(c, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

type updateReviewRequest struct {
	Text string `json:"text"`
}

func (h ReviewsHandler) Update(c *gin.Context) {
	user, ok := requireRole(c, "")
	if !ok {
		return
	}
	if h.Commands == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "reviews: commands unavailable"})
		return
	}
	reviewID := c.Param("id")
	if reviewID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "review id is required"})
		return
	}
	var req updateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	cmd := reviewsapp.UpdateReviewCommand{
		ReviewID: reviewID,
		AuthorID: user.ID,
		Text:     req.Text,
	}
	result, err := commands.Dispatch[reviewsapp.UpdateReviewCommand, *reviewsapp.UpdateReviewResult](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		h.handleSubmitError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h ReviewsHandler) handleSubmitError(c *gin.Context, err error) {
	var status int
	switch {
	case errors.Is(err, domainreviews.ErrInvalidRating),
		errors.Is(err, domainreviews.ErrTextTooLong),
		errors.Is(err, domainreviews.ErrNotReviewable):
		status = http.StatusBadRequest
	case errors.Is(err, reviewsapp.ErrNotBookingNurse),
		errors.Is(err, domainreviews.ErrNotAuthor):
		status = http.StatusForbidden
	case errors.Is(err, domainreviews.ErrAlreadyReviewed):
		status = http.StatusConflict
	case errors.Is(err, domainbooking.ErrBookingNotFound),
		errors.Is(err, domainreviews.ErrReviewNotFound):
		status = http.StatusNotFound
	default:
		status = http.StatusInternalServerError
	}
	if h.Logger != nil && status == http.StatusInternalServerError {
		h.Logger.Error("review command failed", "error", err)
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

func (h ReviewsHandler) ListByListing(c *gin.Context) {
	if h.Queries == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "reviews: queries unavailable"})
		return
	}
	listingID := c.Param("id")
	if listingID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "listing id is required"})
		return
	}
	query := reviewsapp.ListReviewsQuery{ListingID: listingID}
	result, err := queries.Ask[reviewsapp.ListReviewsQuery, dto.ReviewCollection](c.Request.Context(), h.Queries, query)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, result)
}

var _ ReviewsHTTP = ReviewsHandler{}
