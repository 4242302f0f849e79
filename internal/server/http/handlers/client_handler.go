package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	domainErrors "github.com/polkiloo/fournil/internal/domain/errors"
	"github.com/polkiloo/fournil/internal/domain/model"
	"github.com/polkiloo/fournil/internal/server/http/dto"
)

// ClientHandler serves client administration and mailings.
type ClientHandler struct {
	facade ClientFacade
}

// NewClientHandler constructs ClientHandler.
func NewClientHandler(facade ClientFacade) *ClientHandler {
	return &ClientHandler{facade: facade}
}

// List handles GET /api/admin/clients.
func (h *ClientHandler) List(c *gin.Context) {
	clients, err := h.facade.Clients(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	resp := make([]dto.ClientResponse, 0, len(clients))
	for i := range clients {
		resp = append(resp, toClientResponse(&clients[i]))
	}
	c.JSON(http.StatusOK, resp)
}

// SetDisabled handles PUT /api/admin/clients/:id/disabled.
func (h *ClientHandler) SetDisabled(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req dto.ClientStatusRequest
	if !bindJSON(c, &req) {
		return
	}
	if req.Disabled == nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "disabled must be provided"})
		return
	}

	client, err := h.facade.SetClientDisabled(c.Request.Context(), id, *req.Disabled)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toClientResponse(client))
}

// Mailing handles POST /api/admin/mailings.
func (h *ClientHandler) Mailing(c *gin.Context) {
	var req dto.MailingRequest
	if !bindJSON(c, &req) {
		return
	}

	report, err := h.facade.SendMailing(c.Request.Context(), model.Mailing{
		Subject:      req.Subject,
		Body:         req.Message,
		RepositoryID: req.RepositoryID,
	})
	incomplete := errors.Is(err, domainErrors.ErrNotificationIncomplete)
	if err != nil && !(incomplete && report != nil) {
		respondError(c, err)
		return
	}
	if incomplete {
		_ = c.Error(err)
	}

	c.JSON(http.StatusAccepted, dto.MailingResponse{
		Recipients: report.Recipients,
		Queued:     report.Queued,
		Incomplete: incomplete,
	})
}
