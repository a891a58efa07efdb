package http

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/prohanzla/CalorieTracker-sub000/internal/domain"
	"github.com/prohanzla/CalorieTracker-sub000/internal/realtime"
	"github.com/prohanzla/CalorieTracker-sub000/internal/usecase"
)

// dateLayout is the wire format for calendar dates in paths and payloads.
const dateLayout = "2006-01-02"

// Services bundles the use-case dependencies of the HTTP layer.
type Services struct {
	Users     *usecase.UserService
	Products  *usecase.ProductService
	Entries   *usecase.EntryService
	Logs      *usecase.LogService
	Estimates *usecase.EstimateService
	Activity  *usecase.ActivityService
}

// Handler holds dependencies for HTTP handlers. The hub and image store
// are optional; a nil hub skips realtime pushes and a nil image store
// reports uploads as disabled.
type Handler struct {
	users     *usecase.UserService
	products  *usecase.ProductService
	entries   *usecase.EntryService
	logs      *usecase.LogService
	estimates *usecase.EstimateService
	activity  *usecase.ActivityService
	hub       *realtime.Hub
	images    domain.ImageStore
	logger    zerolog.Logger
}

// NewHandler creates a new HTTP handler
func NewHandler(svc Services, hub *realtime.Hub, images domain.ImageStore, logger zerolog.Logger) *Handler {
	return &Handler{
		users:     svc.Users,
		products:  svc.Products,
		entries:   svc.Entries,
		logs:      svc.Logs,
		estimates: svc.Estimates,
		activity:  svc.Activity,
		hub:       hub,
		images:    images,
		logger:    logger.With().Str("component", "http").Logger(),
	}
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "calorietracker-backend",
		"version": "1.0.0",
	})
}

// respondError translates domain errors into HTTP responses. A duplicate
// barcode answers 409 with the existing product so the client can offer
// the three-way resolution.
func (h *Handler) respondError(c *gin.Context, err error) {
	var dup *domain.DuplicateBarcodeError
	if errors.As(err, &dup) {
		c.JSON(http.StatusConflict, gin.H{"error": dup.Error(), "existing": dup.Existing})
		return
	}

	switch {
	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrInvalidAmount),
		errors.Is(err, domain.ErrUnknownNutrient):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrProductNotFound),
		errors.Is(err, domain.ErrEntryNotFound),
		errors.Is(err, domain.ErrLogNotFound),
		errors.Is(err, domain.ErrTemplateNotFound),
		errors.Is(err, domain.ErrUserNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrEmailTaken):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrInvalidCredentials),
		errors.Is(err, domain.ErrUnauthorized):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrRateLimited):
		c.JSON(http.StatusTooManyRequests, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrMediaDisabled):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrEstimationFailed),
		errors.Is(err, domain.ErrLookupFailed):
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
	default:
		h.logger.Error().Err(err).Str("path", c.FullPath()).Msg("unhandled error")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

// currentUserID reads the user ID set by the auth middleware.
func currentUserID(c *gin.Context) uint {
	return c.GetUint(ctxUserID)
}

// dateParam parses the :date path segment. On failure it writes a 400 and
// reports false.
func (h *Handler) dateParam(c *gin.Context) (time.Time, bool) {
	date, err := time.Parse(dateLayout, c.Param("date"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date must be YYYY-MM-DD"})
		return time.Time{}, false
	}
	return date, true
}

// idParam parses a numeric path segment. On failure it writes a 400 and
// reports false.
func (h *Handler) idParam(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": name + " must be a positive integer"})
		return 0, false
	}
	return uint(id), true
}

// broadcastDay pushes a fresh day summary to the user's open websockets.
// Push problems never fail the request that triggered them.
func (h *Handler) broadcastDay(c *gin.Context, userID uint, date time.Time) {
	if h.hub == nil {
		return
	}
	summary, err := h.logs.Summary(c.Request.Context(), userID, date)
	if err != nil {
		h.logger.Warn().Err(err).Time("date", date).Msg("could not build summary for realtime push")
		return
	}
	h.hub.BroadcastDayUpdated(userID, date.Format(dateLayout), summary)
}

// broadcastDayOfEntry resolves the entry's log to its calendar date and
// pushes that day's summary.
func (h *Handler) broadcastDayOfEntry(c *gin.Context, userID, logID uint) {
	if h.hub == nil {
		return
	}
	log, err := h.logs.LogByID(c.Request.Context(), userID, logID)
	if err != nil {
		h.logger.Warn().Err(err).Uint("log", logID).Msg("could not resolve log for realtime push")
		return
	}
	h.broadcastDay(c, userID, log.Date)
}
