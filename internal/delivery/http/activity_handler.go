package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/prohanzla/CalorieTracker-sub000/internal/usecase"
)

// activityDate resolves the optional date of an activity request, today by
// default. On failure it writes a 400 and reports false.
func (h *Handler) activityDate(c *gin.Context, raw string) (time.Time, bool) {
	if raw == "" {
		return time.Now(), true
	}
	date, err := time.Parse(dateLayout, raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date must be YYYY-MM-DD"})
		return time.Time{}, false
	}
	return date, true
}

type syncActivityRequest struct {
	usecase.DeviceActivity
	Date string `json:"date"`
}

// SyncActivity stores one day of device-reported exercise figures,
// overwriting previous ones. The manual earned-calories value survives.
func (h *Handler) SyncActivity(c *gin.Context) {
	var req syncActivityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	date, ok := h.activityDate(c, req.Date)
	if !ok {
		return
	}

	userID := currentUserID(c)
	snapshot, err := h.activity.Sync(c.Request.Context(), userID, date, req.DeviceActivity)
	if err != nil {
		h.respondError(c, err)
		return
	}

	h.broadcastDay(c, userID, date)
	c.JSON(http.StatusOK, snapshot)
}

// GetActivity returns the day's snapshot, or an empty one when nothing was
// recorded.
func (h *Handler) GetActivity(c *gin.Context) {
	date, ok := h.activityDate(c, c.Query("date"))
	if !ok {
		return
	}
	snapshot, err := h.activity.Get(c.Request.Context(), currentUserID(c), date)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, snapshot)
}

type manualEarnedRequest struct {
	Calories *float64 `json:"calories" binding:"required"`
	Date     string   `json:"date"`
}

// SetManualEarned records user-entered earned calories for a day. The value
// counts toward exercise bonuses even without device authorization.
func (h *Handler) SetManualEarned(c *gin.Context) {
	var req manualEarnedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	date, ok := h.activityDate(c, req.Date)
	if !ok {
		return
	}

	userID := currentUserID(c)
	snapshot, err := h.activity.SetManualEarned(c.Request.Context(), userID, date, *req.Calories)
	if err != nil {
		h.respondError(c, err)
		return
	}

	h.broadcastDay(c, userID, date)
	c.JSON(http.StatusOK, snapshot)
}

// ClearManualEarned removes the manual earned calories for a day.
func (h *Handler) ClearManualEarned(c *gin.Context) {
	date, ok := h.activityDate(c, c.Query("date"))
	if !ok {
		return
	}

	userID := currentUserID(c)
	snapshot, err := h.activity.ClearManualEarned(c.Request.Context(), userID, date)
	if err != nil {
		h.respondError(c, err)
		return
	}

	h.broadcastDay(c, userID, date)
	c.JSON(http.StatusOK, snapshot)
}
