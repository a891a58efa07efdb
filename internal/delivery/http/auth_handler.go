package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/prohanzla/CalorieTracker-sub000/internal/domain"
	"github.com/prohanzla/CalorieTracker-sub000/internal/usecase"
)

type registerRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
	Name     string `json:"name"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Register creates an account and returns it with a fresh token.
func (h *Handler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, token, err := h.users.Register(c.Request.Context(), req.Email, req.Password, req.Name)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"token": token, "user": user})
}

// Login verifies credentials and returns the account with a fresh token.
func (h *Handler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, token, err := h.users.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": token, "user": user})
}

// Me returns the authenticated account.
func (h *Handler) Me(c *gin.Context) {
	user, err := h.users.Get(c.Request.Context(), currentUserID(c))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// GetTargets returns the account's current daily targets and limits.
func (h *Handler) GetTargets(c *gin.Context) {
	user, err := h.users.Get(c.Request.Context(), currentUserID(c))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, targetsView(user))
}

// UpdateTargets applies a partial target change. Day logs for today and
// future dates pick the change up through the lazy resync on next access.
func (h *Handler) UpdateTargets(c *gin.Context) {
	var req usecase.TargetUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID := currentUserID(c)
	user, err := h.users.UpdateTargets(c.Request.Context(), userID, req)
	if err != nil {
		h.respondError(c, err)
		return
	}

	h.broadcastDay(c, userID, time.Now())
	c.JSON(http.StatusOK, targetsView(user))
}

// GetLimits returns the exercise-adjusted sugar and sodium limits for one
// day, today by default.
func (h *Handler) GetLimits(c *gin.Context) {
	date := time.Now()
	if raw := c.Query("date"); raw != "" {
		parsed, err := time.Parse(dateLayout, raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "date must be YYYY-MM-DD"})
			return
		}
		date = parsed
	}

	summary, err := h.logs.Summary(c.Request.Context(), currentUserID(c), date)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"date":           summary.Date.Format(dateLayout),
		"sugar":          summary.Sugar.Adjusted,
		"sodium":         summary.Sodium.Adjusted,
		"earnedCalories": summary.EarnedCalories,
		"bonusMode":      summary.BonusMode,
	})
}

func targetsView(user *domain.User) gin.H {
	return gin.H{
		"calorieTarget": user.CalorieTarget,
		"proteinTarget": user.ProteinTarget,
		"carbTarget":    user.CarbTarget,
		"fatTarget":     user.FatTarget,
		"sugarLimit":    user.SugarLimit,
		"sodiumLimit":   user.SodiumLimit,
		"bonusMode":     user.BonusMode,
	}
}
