package ginserver

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	gin "github.com/gin-gonic/gin"

	"shiftstay/internal/app/commands"
	"shiftstay/internal/app/dto"
	availabilityapp "shiftstay/internal/app/handlers/availability"
	bookingapp "shiftstay/internal/app/handlers/booking"
	listingapp "shiftstay/internal/app/handlers/listings"
	"shiftstay/internal/app/queries"
	domainavailability "shiftstay/internal/domain/availability"
	domainlistings "shiftstay/internal/domain/listings"
)

const maxListingPhotoSizeBytes = 10 * 1024 * 1024

// HostListingHandler covers the host console: listings, their calendars and
// incoming stay requests.
type HostListingHandler struct {
	Commands commands.Bus
	Queries  queries.Bus
	Logger   *slog.Logger
}

type listingWindowRequest struct {
	From time.Time `json:"from"`
	To   time.Time `json:"to"`
}

type listingAttributesRequest struct {
	Title             string                 `json:"title"`
	Description       string                 `json:"description"`
	City              string                 `json:"city"`
	State             string                 `json:"state"`
	HospitalName      string                 `json:"hospital_name"`
	HospitalCity      string                 `json:"hospital_city"`
	HospitalState     string                 `json:"hospital_state"`
	MinutesToHospital int                    `json:"minutes_to_hospital"`
	MonthlyRateCents  int64                  `json:"monthly_rate_cents"`
	RoomType          string                 `json:"room_type"`
	Amenities         []string               `json:"amenities"`
	MinStayNights     int                    `json:"min_stay_nights"`
	Windows           []listingWindowRequest `json:"windows"`
	AvailableFrom     time.Time              `json:"available_from"`
	AvailableTo       time.Time              `json:"available_to"`
}

func (r listingAttributesRequest) toAttributes() listingapp.ListingAttributes {
	windows := make([]listingapp.ListingWindow, 0, len(r.Windows))
	for _, w := range r.Windows {
		windows = append(windows, listingapp.ListingWindow{From: w.From, To: w.To})
	}
	return listingapp.ListingAttributes{
		Title:             r.Title,
		Description:       r.Description,
		City:              r.City,
		State:             r.State,
		HospitalName:      r.HospitalName,
		HospitalCity:      r.HospitalCity,
		HospitalState:     r.HospitalState,
		MinutesToHospital: r.MinutesToHospital,
		MonthlyRateCents:  r.MonthlyRateCents,
		RoomType:          r.RoomType,
		Tags:              r.Amenities,
		MinStayNights:     r.MinStayNights,
		Windows:           windows,
		AvailableFrom:     r.AvailableFrom,
		AvailableTo:       r.AvailableTo,
	}
}

func (h HostListingHandler) List(c *gin.Context) {
	host, ok := requireRole(c, "host")
	if !ok {
		return
	}
	if h.Queries == nil {
		h.respondWithError(c, http.StatusServiceUnavailable, errors.New("queries bus unavailable"))
		return
	}
	query := listingapp.HostListingsQuery{HostID: host.ID}
	result, err := queries.Ask[listingapp.HostListingsQuery, dto.ListingCatalog](c.Request.Context(), h.Queries, query)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h HostListingHandler) Create(c *gin.Context) {
	// No host role check: publishing your first listing is what makes you a
	// host, so any signed-in user may create a draft.
	user, ok := requireRole(c, "")
	if !ok {
		return
	}
	if h.Commands == nil {
		h.respondWithError(c, http.StatusServiceUnavailable, errors.New("commands bus unavailable"))
		return
	}
	var req listingAttributesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondWithError(c, http.StatusBadRequest, err)
		return
	}
	cmd := listingapp.CreateListingCommand{
		CommandID:       generateCommandID(),
		HostID:          user.ID,
		Attributes:      req.toAttributes(),
		IdempotencyKeyV: c.GetHeader("Idempotency-Key"),
	}
	result, err := commands.Dispatch[listingapp.CreateListingCommand, *listingapp.ListingMutationResult](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

func (h HostListingHandler) Update(c *gin.Context) {
	host, ok := requireRole(c, "host")
	if !ok {
		return
	}
	listingID, ok := h.listingID(c)
	if !ok {
		return
	}
	var req listingAttributesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondWithError(c, http.StatusBadRequest, err)
		return
	}
	cmd := listingapp.UpdateListingCommand{
		ListingID:       listingID,
		HostID:          host.ID,
		Attributes:      req.toAttributes(),
		IdempotencyKeyV: c.GetHeader("Idempotency-Key"),
	}
	result, err := commands.Dispatch[listingapp.UpdateListingCommand, *listingapp.ListingMutationResult](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h HostListingHandler) Publish(c *gin.Context) {
	host, ok := requireRole(c, "host")
	if !ok {
		return
	}
	listingID, ok := h.listingID(c)
	if !ok {
		return
	}
	cmd := listingapp.PublishListingCommand{
		ListingID:       listingID,
		HostID:          host.ID,
		IdempotencyKeyV: c.GetHeader("Idempotency-Key"),
	}
	result, err := commands.Dispatch[listingapp.PublishListingCommand, *listingapp.ListingMutationResult](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

type unpublishRequest struct {
	Reason string `json:"reason"`
}

func (h HostListingHandler) Unpublish(c *gin.Context) {
	host, ok := requireRole(c, "host")
	if !ok {
		return
	}
	listingID, ok := h.listingID(c)
	if !ok {
		return
	}
	var req unpublishRequest
	_ = c.ShouldBindJSON(&req)
	cmd := listingapp.SuspendListingCommand{
		ListingID:       listingID,
		HostID:          host.ID,
		Reason:          req.Reason,
		IdempotencyKeyV: c.GetHeader("Idempotency-Key"),
	}
	result, err := commands.Dispatch[listingapp.SuspendListingCommand, *listingapp.ListingMutationResult](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h HostListingHandler) UploadPhoto(c *gin.Context) {
	host, ok := requireRole(c, "host")
	if !ok {
		return
	}
	listingID, ok := h.listingID(c)
	if !ok {
		return
	}
	fileHeader, err := c.FormFile("file")
	if err != nil {
		h.respondWithError(c, http.StatusBadRequest, fmt.Errorf("file is required: %w", err))
		return
	}
	if fileHeader.Size <= 0 || fileHeader.Size > maxListingPhotoSizeBytes {
		h.respondWithError(c, http.StatusBadRequest, fmt.Errorf("file size must be between 1 byte and %d MB", maxListingPhotoSizeBytes/1024/1024))
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		h.respondWithError(c, http.StatusBadRequest, err)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxListingPhotoSizeBytes+1024))
	if err != nil {
		h.respondWithError(c, http.StatusInternalServerError, fmt.Errorf("cannot read file: %w", err))
		return
	}
	contentType := http.DetectContentType(data)
	if !isAllowedImageType(contentType) {
		h.respondWithError(c, http.StatusBadRequest, fmt.Errorf("unsupported content type: %s", contentType))
		return
	}

	cmd := listingapp.AttachPhotoCommand{
		ListingID:   listingID,
		HostID:      host.ID,
		FileName:    sanitizeFileName(fileHeader.Filename),
		ContentType: contentType,
		Data:        data,
	}
	result, err := commands.Dispatch[listingapp.AttachPhotoCommand, *listingapp.AttachPhotoResult](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

type blockDatesRequest struct {
	StartDate        time.Time `json:"start_date"`
	EndDate          time.Time `json:"end_date"`
	Reason           string    `json:"reason"`
	Notes            string    `json:"notes"`
	MinStayNights    int       `json:"min_stay_nights"`
	MonthlyRateCents int64     `json:"monthly_rate_cents"`
}

func (h HostListingHandler) BlockDates(c *gin.Context) {
	host, ok := requireRole(c, "host")
	if !ok {
		return
	}
	listingID, ok := h.listingID(c)
	if !ok {
		return
	}
	var req blockDatesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondWithError(c, http.StatusBadRequest, err)
		return
	}
	cmd := availabilityapp.BlockDatesCommand{
		CommandID:        generateCommandID(),
		ListingID:        listingID,
		HostID:           host.ID,
		StartDate:        req.StartDate,
		EndDate:          req.EndDate,
		Reason:           req.Reason,
		Notes:            req.Notes,
		MinStayNights:    req.MinStayNights,
		MonthlyRateCents: req.MonthlyRateCents,
		IdempotencyKeyV:  c.GetHeader("Idempotency-Key"),
	}
	result, err := commands.Dispatch[availabilityapp.BlockDatesCommand, *availabilityapp.BlockDatesResult](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

func (h HostListingHandler) UnblockDates(c *gin.Context) {
	host, ok := requireRole(c, "host")
	if !ok {
		return
	}
	listingID, ok := h.listingID(c)
	if !ok {
		return
	}
	blockID := c.Param("blockID")
	if blockID == "" {
		h.respondWithError(c, http.StatusBadRequest, errors.New("block id is required"))
		return
	}
	cmd := availabilityapp.UnblockDatesCommand{
		ListingID:       listingID,
		HostID:          host.ID,
		BlockID:         blockID,
		IdempotencyKeyV: c.GetHeader("Idempotency-Key"),
	}
	result, err := commands.Dispatch[availabilityapp.UnblockDatesCommand, *availabilityapp.UnblockDatesResult](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h HostListingHandler) Bookings(c *gin.Context) {
	host, ok := requireRole(c, "host")
	if !ok {
		return
	}
	if h.Queries == nil {
		h.respondWithError(c, http.StatusServiceUnavailable, errors.New("queries bus unavailable"))
		return
	}
	query := bookingapp.HostBookingsQuery{HostID: host.ID}
	result, err := queries.Ask[bookingapp.HostBookingsQuery, dto.HostBookingCollection](c.Request.Context(), h.Queries, query)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h HostListingHandler) listingID(c *gin.Context) (string, bool) {
	if h.Commands == nil {
		h.respondWithError(c, http.StatusServiceUnavailable, errors.New("commands bus unavailable"))
		return "", false
	}
	id := strings.TrimSpace(c.Param("id"))
	if id == "" {
		h.respondWithError(c, http.StatusBadRequest, errors.New("listing id is required"))
		return "", false
	}
	return id, true
}

func (h HostListingHandler) handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, listingapp.ErrNotListingOwner),
		errors.Is(err, availabilityapp.ErrNotListingOwner):
		h.respondWithError(c, http.StatusNotFound, err)
	case errors.Is(err, domainavailability.ErrRangeConflict):
		h.respondWithError(c, http.StatusConflict, err)
	case errors.Is(err, domainavailability.ErrBookedRangeImmutable):
		h.respondWithError(c, http.StatusConflict, err)
	case errors.Is(err, domainavailability.ErrBlockNotFound):
		h.respondWithError(c, http.StatusNotFound, err)
	case isValidationError(err):
		h.respondWithError(c, http.StatusBadRequest, err)
	default:
		h.respondWithError(c, http.StatusInternalServerError, err)
	}
}

func (h HostListingHandler) respondWithError(c *gin.Context, status int, err error) {
	if h.Logger != nil && status >= http.StatusInternalServerError {
		h.Logger.Error("host listing request failed", "status", status, "error", err, "path", c.FullPath())
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

func isValidationError(err error) bool {
	switch {
	case errors.Is(err, domainlistings.ErrTitleRequired),
		errors.Is(err, domainlistings.ErrHospitalRequired),
		errors.Is(err, domainlistings.ErrMonthlyRate),
		errors.Is(err, domainlistings.ErrHospitalMinutes),
		errors.Is(err, domainlistings.ErrInvalidRoomType),
		errors.Is(err, domainlistings.ErrMinStay),
		errors.Is(err, domainlistings.ErrInvalidState),
		errors.Is(err, domainavailability.ErrInvalidRange):
		return true
	}
	return false
}

func isAllowedImageType(contentType string) bool {
	switch contentType {
	case "image/jpeg", "image/png", "image/webp", "image/gif":
		return true
	}
	return false
}

func sanitizeFileName(name string) string {
	name = filepath.Base(strings.TrimSpace(name))
	name = strings.ReplaceAll(name, " ", "-")
	if name == "" || name == "." {
		return "photo"
	}
	return name
}

var _ HostListingHTTP = HostListingHandler{}
