package ginserver

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	gin "github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"shiftstay/internal/app/commands"
	bookingapp "shiftstay/internal/app/handlers/booking"
	domainavailability "shiftstay/internal/domain/availability"
	domainbooking "shiftstay/internal/domain/booking"
)

type BookingHandler struct {
	Commands commands.Bus
	Logger   *slog.Logger
}

type createBookingRequest struct {
	ListingID string    `json:"listing_id"`
	CheckIn   time.Time `json:"check_in"`
	CheckOut  time.Time `json:"check_out"`
}

func (h BookingHandler) Create(c *gin.Context) {
	user, ok := requireRole(c, "")
	if !ok {
		return
	}
	if h.Commands == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "commands unavailable"})
		return
	}
	var req createBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	cmd := bookingapp.RequestBookingCommand{
		CommandID:       generateCommandID(),
		ListingID:       req.ListingID,
		NurseID:         user.ID,
		CheckIn:         req.CheckIn,
		CheckOut:        req.CheckOut,
		IdempotencyKeyV: c.GetHeader("Idempotency-Key"),
	}
	result, err := commands.Dispatch[bookingapp.RequestBookingCommand, *bookingapp.RequestBookingResult](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusAccepted, result)
}

func (h BookingHandler) Accept(c *gin.Context) {
	host, ok := requireRole(c, "host")
	if !ok {
		return
	}
	cmd := bookingapp.AcceptBookingCommand{
		BookingID:       c.Param("id"),
		HostID:          host.ID,
		IdempotencyKeyV: c.GetHeader("Idempotency-Key"),
	}
	h.decide(c, func() (*bookingapp.DecisionResult, error) {
		return commands.Dispatch[bookingapp.AcceptBookingCommand, *bookingapp.DecisionResult](c.Request.Context(), h.Commands, cmd)
	})
}

type declineBookingRequest struct {
	Reason string `json:"reason"`
}

func (h BookingHandler) Decline(c *gin.Context) {
	host, ok := requireRole(c, "host")
	if !ok {
		return
	}
	var req declineBookingRequest
	_ = c.ShouldBindJSON(&req)
	cmd := bookingapp.DeclineBookingCommand{
		BookingID:       c.Param("id"),
		HostID:          host.ID,
		Reason:          req.Reason,
		IdempotencyKeyV: c.GetHeader("Idempotency-Key"),
	}
	h.decide(c, func() (*bookingapp.DecisionResult, error) {
		return commands.Dispatch[bookingapp.DeclineBookingCommand, *bookingapp.DecisionResult](c.Request.Context(), h.Commands, cmd)
	})
}

type cancelBookingRequest struct {
	Reason string `json:"reason"`
}

func (h BookingHandler) Cancel(c *gin.Context) {
	user, ok := requireRole(c, "")
	if !ok {
		return
	}
	var req cancelBookingRequest
	_ = c.ShouldBindJSON(&req)
	cmd := bookingapp.CancelBookingCommand{
		BookingID:       c.Param("id"),
		ActorID:         user.ID,
		Reason:          req.Reason,
		IdempotencyKeyV: c.GetHeader("Idempotency-Key"),
	}
	h.decide(c, func() (*bookingapp.DecisionResult, error) {
		return commands.Dispatch[bookingapp.CancelBookingCommand, *bookingapp.DecisionResult](c.Request.Context(), h.Commands, cmd)
	})
}

func (h BookingHandler) decide(c *gin.Context, dispatch func() (*bookingapp.DecisionResult, error)) {
	if h.Commands == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "commands unavailable"})
		return
	}
	if c.Param("id") == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "booking id is required"})
		return
	}
	result, err := dispatch()
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h BookingHandler) respondError(c *gin.Context, err error) {
	var status int
	switch {
	case errors.Is(err, domainbooking.ErrBookingNotFound):
		status = http.StatusNotFound
	case errors.Is(err, bookingapp.ErrNotListingOwner),
		errors.Is(err, bookingapp.ErrNotBookingParty):
		status = http.StatusForbidden
	case errors.Is(err, bookingapp.ErrDatesUnavailable),
		errors.Is(err, domainavailability.ErrRangeConflict):
		status = http.StatusConflict
	case errors.Is(err, bookingapp.ErrListingInactive),
		errors.Is(err, domainbooking.ErrInvalidState),
		errors.Is(err, domainbooking.ErrMinStay),
		errors.Is(err, bookingapp.ErrListingIDRequired),
		errors.Is(err, bookingapp.ErrNurseIDRequired),
		errors.Is(err, domainavailability.ErrInvalidRange):
		status = http.StatusBadRequest
	default:
		status = http.StatusInternalServerError
	}
	if h.Logger != nil && status == http.StatusInternalServerError {
		h.Logger.Error("booking command failed", "error", err)
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

func generateCommandID() string {
	return uuid.NewString()
}

var _ BookingHTTP = BookingHandler{}
