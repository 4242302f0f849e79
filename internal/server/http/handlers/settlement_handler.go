package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	domainErrors "github.com/polkiloo/fournil/internal/domain/errors"
	"github.com/polkiloo/fournil/internal/domain/model"
	"github.com/polkiloo/fournil/internal/server/http/dto"
)

// SettlementHandler serves wallets, manual payments and invoice sweeps.
type SettlementHandler struct {
	facade SettlementFacade
}

// NewSettlementHandler constructs SettlementHandler.
func NewSettlementHandler(facade SettlementFacade) *SettlementHandler {
	return &SettlementHandler{facade: facade}
}

// Wallet handles GET /api/wallet.
func (h *SettlementHandler) Wallet(c *gin.Context) {
	summary, err := h.facade.Wallet(c.Request.Context(), CurrentClientID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	resp := dto.WalletResponse{
		Balance:  summary.Balance,
		Payments: make([]dto.PaymentResponse, 0, len(summary.Payments)),
	}
	for _, p := range summary.Payments {
		resp.Payments = append(resp.Payments, toPaymentResponse(p))
	}
	c.JSON(http.StatusOK, resp)
}

// Invoice handles POST /api/admin/invoices.
func (h *SettlementHandler) Invoice(c *gin.Context) {
	var req dto.InvoiceRequest
	if !bindJSON(c, &req) {
		return
	}

	report, err := h.facade.RunInvoiceSweep(c.Request.Context(), req.AsOf)
	incomplete := errors.Is(err, domainErrors.ErrNotificationIncomplete)
	if err != nil && !(incomplete && report != nil) {
		respondError(c, err)
		return
	}
	if incomplete {
		_ = c.Error(err)
	}

	c.JSON(http.StatusOK, dto.InvoiceResponse{
		AsOf:       report.AsOf,
		Outcome:    string(report.Outcome),
		Clients:    report.Clients,
		Payments:   report.Payments,
		Notified:   report.Notified,
		Incomplete: incomplete,
	})
}

// Watermark handles GET /api/admin/invoices/watermark.
func (h *SettlementHandler) Watermark(c *gin.Context) {
	last, err := h.facade.Watermark(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.WatermarkResponse{LastInvoiceDate: last})
}

// Payment handles POST /api/admin/clients/:id/payments.
func (h *SettlementHandler) Payment(c *gin.Context) {
	clientID, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req dto.PaymentRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.facade.ApplyManualPayment(c.Request.Context(), clientID, req.Amount, model.PaymentMode(req.Mode), req.Reference)
	if err != nil {
		respondError(c, err)
		return
	}

	settled := make([]int64, 0, len(result.Settled))
	for _, o := range result.Settled {
		settled = append(settled, o.ID)
	}
	c.JSON(http.StatusCreated, dto.ManualPaymentResponse{
		Payment: toPaymentResponse(result.Payment),
		Settled: settled,
		Wallet:  result.Wallet,
	})
}
