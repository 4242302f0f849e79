package handlers

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
)

// PlanHandler serves production plans.
type PlanHandler struct {
	facade PlanFacade
}

// NewPlanHandler constructs PlanHandler.
func NewPlanHandler(facade PlanFacade) *PlanHandler {
	return &PlanHandler{facade: facade}
}

// Batches handles GET /api/admin/plan.
func (h *PlanHandler) Batches(c *gin.Context) {
	batches, err := h.facade.PlannableBatches(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toBatchResponses(batches))
}

// Plan handles GET /api/admin/plan/:batch.
func (h *PlanHandler) Plan(c *gin.Context) {
	batchID, ok := pathID(c, "batch")
	if !ok {
		return
	}
	plan, err := h.facade.Plan(c.Request.Context(), batchID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toPlanResponse(plan))
}

// Export handles GET /api/admin/plan/:batch/export.csv.
func (h *PlanHandler) Export(c *gin.Context) {
	batchID, ok := pathID(c, "batch")
	if !ok {
		return
	}
	var buf bytes.Buffer
	if err := h.facade.ExportPlanCSV(c.Request.Context(), batchID, &buf); err != nil {
		respondError(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="batch-%d.csv"`, batchID))
	c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}
