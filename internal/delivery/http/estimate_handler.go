package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/prohanzla/CalorieTracker-sub000/internal/infrastructure/media"
)

type describeRequest struct {
	Description string `json:"description" binding:"required"`
	// Amount 0 logs the estimated amount as-is.
	Amount float64 `json:"amount"`
	// Date defaults to today.
	Date string `json:"date"`
}

// DescribeFood logs a food described in free text: a cached template when
// one matches the normalized name, otherwise a fresh AI estimate.
func (h *Handler) DescribeFood(c *gin.Context) {
	var req describeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	date := time.Now()
	if req.Date != "" {
		parsed, err := time.Parse(dateLayout, req.Date)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "date must be YYYY-MM-DD"})
			return
		}
		date = parsed
	}

	userID := currentUserID(c)
	entry, fromTemplate, err := h.estimates.QuickAdd(c.Request.Context(), userID, date, req.Description, req.Amount)
	if err != nil {
		h.respondError(c, err)
		return
	}

	h.broadcastDay(c, userID, date)
	c.JSON(http.StatusCreated, gin.H{"entry": entry, "fromTemplate": fromTemplate})
}

type scanLabelRequest struct {
	// Image is a data URL: "data:image/jpeg;base64,...".
	Image string `json:"image" binding:"required"`
}

// ScanLabel reads a nutrition label photo into a draft product. Nothing is
// persisted; the client confirms the draft through the product API.
func (h *Handler) ScanLabel(c *gin.Context) {
	var req scanLabelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	payload, contentType, err := media.ParseDataURL(req.Image)
	if err != nil {
		h.respondError(c, err)
		return
	}

	product, err := h.estimates.ScanLabel(c.Request.Context(), currentUserID(c), payload, contentType)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"product": product})
}
