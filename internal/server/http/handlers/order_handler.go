package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/polkiloo/fournil/internal/domain/model"
	"github.com/polkiloo/fournil/internal/server/http/dto"
	"github.com/polkiloo/fournil/internal/usecase"
)

// OrderHandler manages order-related endpoints.
type OrderHandler struct {
	facade OrderFacade
}

// NewOrderHandler constructs OrderHandler.
func NewOrderHandler(facade OrderFacade) *OrderHandler {
	return &OrderHandler{facade: facade}
}

// Create handles POST /api/orders.
func (h *OrderHandler) Create(c *gin.Context) {
	var req dto.OrderRequest
	if !bindJSON(c, &req) {
		return
	}

	lines, err := toLineRequests(req.Lines)
	if err != nil {
		respondError(c, err)
		return
	}

	order, err := h.facade.CreateOrder(c.Request.Context(), CurrentClientID(c), req.BatchID, lines)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toOrderResponse(*order))
}

// Edit handles PUT /api/orders/:id.
func (h *OrderHandler) Edit(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req dto.OrderRequest
	if !bindJSON(c, &req) {
		return
	}

	lines, err := toLineRequests(req.Lines)
	if err != nil {
		respondError(c, err)
		return
	}

	order, err := h.facade.EditOrder(c.Request.Context(), CurrentClientID(c), id, req.BatchID, lines)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toOrderResponse(*order))
}

// Cancel handles DELETE /api/orders/:id.
func (h *OrderHandler) Cancel(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.facade.CancelOrder(c.Request.Context(), CurrentClientID(c), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// List handles GET /api/orders.
func (h *OrderHandler) List(c *gin.Context) {
	orders, err := h.facade.Orders(c.Request.Context(), CurrentClientID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	if len(orders) == 0 {
		c.Status(http.StatusNoContent)
		return
	}

	response := make([]dto.OrderResponse, 0, len(orders))
	for _, o := range orders {
		response = append(response, toOrderResponse(o))
	}
	c.JSON(http.StatusOK, response)
}

// Get handles GET /api/orders/:id.
func (h *OrderHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	order, err := h.facade.Order(c.Request.Context(), CurrentClientID(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toOrderResponse(*order))
}

// toLineRequests parses every quantity; blank means zero.
func toLineRequests(lines []dto.OrderLineRequest) ([]model.LineRequest, error) {
	out := make([]model.LineRequest, 0, len(lines))
	for _, l := range lines {
		n, err := usecase.ParseQuantity(string(l.Quantity))
		if err != nil {
			return nil, err
		}
		out = append(out, model.LineRequest{ProductID: l.ProductID, Quantity: n})
	}
	return out, nil
}
