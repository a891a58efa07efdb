package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/prohanzla/CalorieTracker-sub000/internal/domain"
	"github.com/prohanzla/CalorieTracker-sub000/internal/infrastructure/media"
	"github.com/prohanzla/CalorieTracker-sub000/internal/usecase"
)

type createProductRequest struct {
	domain.Product
	// OnConflict relays the user's choice for a duplicate barcode:
	// "" surfaces the conflict, "update" overwrites the existing product,
	// "new" saves without the barcode.
	OnConflict usecase.ConflictPolicy `json:"onConflict"`
}

// CreateProduct validates and saves a product. A duplicate barcode without
// an onConflict choice answers 409 with the existing product.
func (h *Handler) CreateProduct(c *gin.Context) {
	var req createProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	req.Product.ID = 0
	req.Product.IsCustom = true
	product, err := h.products.Create(c.Request.Context(), currentUserID(c), &req.Product, req.OnConflict)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, product)
}

// UpdateProduct saves changes to an existing product. Entries logged before
// the change keep their frozen values.
func (h *Handler) UpdateProduct(c *gin.Context) {
	id, ok := h.idParam(c, "id")
	if !ok {
		return
	}

	var product domain.Product
	if err := c.ShouldBindJSON(&product); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	product.ID = id

	updated, err := h.products.Update(c.Request.Context(), currentUserID(c), &product)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

// DeleteProduct removes a product. Entries that reference it keep their
// frozen values and lose only the back-reference.
func (h *Handler) DeleteProduct(c *gin.Context) {
	id, ok := h.idParam(c, "id")
	if !ok {
		return
	}
	if err := h.products.Delete(c.Request.Context(), currentUserID(c), id); err != nil {
		h.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// GetProduct returns one product.
func (h *Handler) GetProduct(c *gin.Context) {
	id, ok := h.idParam(c, "id")
	if !ok {
		return
	}
	product, err := h.products.Get(c.Request.Context(), currentUserID(c), id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, product)
}

// SearchProducts returns the user's products ranked against ?q.
func (h *Handler) SearchProducts(c *gin.Context) {
	products, err := h.products.Search(c.Request.Context(), currentUserID(c), c.Query("q"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"products": products})
}

// ResolveBarcode returns the product for a barcode: own products first,
// then the external food database. An external hit is saved for this user.
func (h *Handler) ResolveBarcode(c *gin.Context) {
	product, err := h.products.ResolveBarcode(c.Request.Context(), currentUserID(c), c.Param("code"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, product)
}

type uploadImageRequest struct {
	// Image is a data URL: "data:image/jpeg;base64,...".
	Image string `json:"image" binding:"required"`
}

// UploadImage stores a base64 image and returns its public URL. Answers
// 503 when no bucket is configured.
func (h *Handler) UploadImage(c *gin.Context) {
	if h.images == nil {
		h.respondError(c, domain.ErrMediaDisabled)
		return
	}

	var req uploadImageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	data, contentType, err := media.DecodeDataURL(req.Image)
	if err != nil {
		h.respondError(c, err)
		return
	}
	url, err := h.images.Upload(c.Request.Context(), data, contentType)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"url": url})
}
