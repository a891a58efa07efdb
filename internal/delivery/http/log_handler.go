package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/prohanzla/CalorieTracker-sub000/internal/domain"
)

// Entry sources accepted by AddEntry.
const (
	sourceProduct  = "product"
	sourceBarcode  = "barcode"
	sourceManual   = "manual"
	sourceEstimate = "estimate"
)

type addEntryRequest struct {
	Source string `json:"source" binding:"required"`

	// product and barcode sources
	ProductID uint   `json:"productId"`
	Barcode   string `json:"barcode"`

	// shared; for estimate 0 means log the estimated amount as-is
	Amount float64     `json:"amount"`
	Unit   domain.Unit `json:"unit"`

	// manual source: as-consumed values, absent optionals stay unknown
	Name          string   `json:"name"`
	Calories      float64  `json:"calories"`
	Protein       float64  `json:"protein"`
	Carbohydrates float64  `json:"carbohydrates"`
	Fat           float64  `json:"fat"`
	Sugar         *float64 `json:"sugar"`
	NaturalSugar  *float64 `json:"naturalSugar"`
	AddedSugar    *float64 `json:"addedSugar"`
	Fibre         *float64 `json:"fibre"`
	Sodium        *float64 `json:"sodium"`

	// estimate source
	Description string `json:"description"`
}

// GetDaySummary returns one day's aggregates and entries.
func (h *Handler) GetDaySummary(c *gin.Context) {
	date, ok := h.dateParam(c)
	if !ok {
		return
	}
	userID := currentUserID(c)

	log, err := h.logs.EnsureLog(c.Request.Context(), userID, date)
	if err != nil {
		h.respondError(c, err)
		return
	}
	summary, err := h.logs.Summary(c.Request.Context(), userID, date)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"summary": summary, "entries": log.Entries})
}

// GetNutrientBreakdown returns the micronutrient dashboard for one day.
func (h *Handler) GetNutrientBreakdown(c *gin.Context) {
	date, ok := h.dateParam(c)
	if !ok {
		return
	}
	nutrients, err := h.logs.NutrientBreakdown(c.Request.Context(), currentUserID(c), date)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"date": date.Format(dateLayout), "nutrients": nutrients})
}

// AddEntry logs food onto a day from one of four sources: a stored product,
// a barcode, manual as-consumed values, or a free-text AI estimate.
func (h *Handler) AddEntry(c *gin.Context) {
	date, ok := h.dateParam(c)
	if !ok {
		return
	}
	var req addEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID := currentUserID(c)
	ctx := c.Request.Context()

	var (
		entry        *domain.FoodEntry
		fromTemplate bool
		err          error
	)
	switch req.Source {
	case sourceProduct:
		entry, err = h.entries.AddFromProduct(ctx, userID, date, req.ProductID, req.Amount, req.Unit)
	case sourceBarcode:
		var product *domain.Product
		product, err = h.products.ResolveBarcode(ctx, userID, req.Barcode)
		if err == nil {
			entry, err = h.entries.AddFromProduct(ctx, userID, date, product.ID, req.Amount, req.Unit)
		}
	case sourceManual:
		manual := &domain.FoodEntry{
			Amount:         req.Amount,
			Unit:           req.Unit,
			Calories:       req.Calories,
			Protein:        req.Protein,
			Carbohydrates:  req.Carbohydrates,
			Fat:            req.Fat,
			Sugar:          req.Sugar,
			NaturalSugar:   req.NaturalSugar,
			AddedSugar:     req.AddedSugar,
			Fibre:          req.Fibre,
			Sodium:         req.Sodium,
			CustomFoodName: req.Name,
		}
		if manual.Unit == "" {
			manual.Unit = domain.UnitGram
		}
		entry, err = h.entries.Add(ctx, userID, date, manual)
	case sourceEstimate:
		entry, fromTemplate, err = h.estimates.QuickAdd(ctx, userID, date, req.Description, req.Amount)
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "source must be product, barcode, manual or estimate"})
		return
	}
	if err != nil {
		h.respondError(c, err)
		return
	}

	h.broadcastDay(c, userID, date)
	c.JSON(http.StatusCreated, gin.H{"entry": entry, "fromTemplate": fromTemplate})
}

type patchEntryRequest struct {
	Delta  *float64 `json:"delta"`
	Amount *float64 `json:"amount"`
}

// PatchEntry changes an entry's amount, either by a stepper delta or to an
// absolute value. Every stored nutrition field is re-scaled proportionally.
func (h *Handler) PatchEntry(c *gin.Context) {
	entryID, ok := h.idParam(c, "id")
	if !ok {
		return
	}
	var req patchEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if (req.Delta == nil) == (req.Amount == nil) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "provide exactly one of delta or amount"})
		return
	}

	userID := currentUserID(c)
	var (
		entry *domain.FoodEntry
		err   error
	)
	if req.Delta != nil {
		entry, err = h.entries.Adjust(c.Request.Context(), userID, entryID, *req.Delta)
	} else {
		entry, err = h.entries.SetAmount(c.Request.Context(), userID, entryID, *req.Amount)
	}
	if err != nil {
		h.respondError(c, err)
		return
	}

	h.broadcastDayOfEntry(c, userID, entry.LogID)
	c.JSON(http.StatusOK, gin.H{"entry": entry})
}

// DeleteEntry removes an entry. The day log itself stays, even when empty.
func (h *Handler) DeleteEntry(c *gin.Context) {
	entryID, ok := h.idParam(c, "id")
	if !ok {
		return
	}
	userID := currentUserID(c)

	entry, err := h.entries.Get(c.Request.Context(), userID, entryID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	if err := h.entries.Delete(c.Request.Context(), userID, entryID); err != nil {
		h.respondError(c, err)
		return
	}

	h.broadcastDayOfEntry(c, userID, entry.LogID)
	c.Status(http.StatusNoContent)
}

// AnalyzeDay asks the AI for a whole-day micronutrient estimate and stores
// it as the day's override. The override wins on the dashboard until reset.
func (h *Handler) AnalyzeDay(c *gin.Context) {
	date, ok := h.dateParam(c)
	if !ok {
		return
	}
	userID := currentUserID(c)

	log, err := h.estimates.AnalyzeDay(c.Request.Context(), userID, date)
	if err != nil {
		h.respondError(c, err)
		return
	}

	h.broadcastDay(c, userID, date)
	c.JSON(http.StatusOK, gin.H{"analysisDate": log.AnalysisDate, "microOverrides": log.MicroOverrides})
}

// ResetAnalysis clears the day's AI override so the dashboard falls back
// to per-product summation.
func (h *Handler) ResetAnalysis(c *gin.Context) {
	date, ok := h.dateParam(c)
	if !ok {
		return
	}
	userID := currentUserID(c)

	if _, err := h.logs.ResetAnalysis(c.Request.Context(), userID, date); err != nil {
		h.respondError(c, err)
		return
	}

	h.broadcastDay(c, userID, date)
	c.Status(http.StatusNoContent)
}
