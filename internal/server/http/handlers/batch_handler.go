package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/polkiloo/fournil/internal/server/http/dto"
)

// BatchHandler serves batch listings and administration.
type BatchHandler struct {
	facade BatchFacade
}

// NewBatchHandler constructs BatchHandler.
func NewBatchHandler(facade BatchFacade) *BatchHandler {
	return &BatchHandler{facade: facade}
}

// Eligible handles GET /api/batches/eligible. The optional order query
// parameter keeps the batch of an order being edited in the list.
func (h *BatchHandler) Eligible(c *gin.Context) {
	var editing int64
	if raw := c.Query("order"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid order"})
			return
		}
		editing = id
	}

	batches, err := h.facade.EligibleBatches(c.Request.Context(), CurrentClientID(c), editing)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toBatchResponses(batches))
}

// List handles GET /api/admin/batches.
func (h *BatchHandler) List(c *gin.Context) {
	batches, err := h.facade.Batches(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toBatchResponses(batches))
}

// Create handles POST /api/admin/batches.
func (h *BatchHandler) Create(c *gin.Context) {
	var req dto.BatchRequest
	if !bindJSON(c, &req) {
		return
	}
	batch, err := h.facade.CreateBatch(c.Request.Context(), req.Date, req.Capacity, openedOrDefault(req.Opened))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toBatchResponse(*batch))
}

// Update handles PUT /api/admin/batches/:id.
func (h *BatchHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req dto.BatchRequest
	if !bindJSON(c, &req) {
		return
	}
	batch, err := h.facade.UpdateBatch(c.Request.Context(), id, req.Date, req.Capacity, openedOrDefault(req.Opened))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toBatchResponse(*batch))
}

// Delete handles DELETE /api/admin/batches/:id.
func (h *BatchHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.facade.DeleteBatch(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func openedOrDefault(opened *bool) bool {
	if opened == nil {
		return true
	}
	return *opened
}
