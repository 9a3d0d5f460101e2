package handler

import (
	"time"

	"digital-wallet/internal/adapter/http/dto"
	"digital-wallet/internal/core/ports"
	"digital-wallet/pkg/apperror"
	"digital-wallet/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PaymentHandler handles payment session endpoints.
type PaymentHandler struct {
	paymentSvc ports.PaymentService
}

// NewPaymentHandler creates a new PaymentHandler.
func NewPaymentHandler(paymentSvc ports.PaymentService) *PaymentHandler {
	return &PaymentHandler{paymentSvc: paymentSvc}
}

// RequestPayment handles POST /api/v1/payments.
func (h *PaymentHandler) RequestPayment(c *gin.Context) {
	var req dto.PaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	dto.SanitizeStruct(&req)

	info, err := h.paymentSvc.RequestPayment(c.Request.Context(), ports.PaymentRequest{
		Document: req.Document,
		Phone:    req.Phone,
		Amount:   decimal.NewFromFloat(req.Amount),
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, dto.PaymentSessionResponse{
		SessionID: info.SessionID.String(),
		ExpiresAt: info.ExpiresAt.Format(time.RFC3339),
		Message:   info.Message,
	})
}

// ConfirmPayment handles POST /api/v1/payments/:id/confirm.
func (h *PaymentHandler) ConfirmPayment(c *gin.Context) {
	sessionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, apperror.Validation("session id must be a valid UUID"))
		return
	}

	var req dto.PaymentConfirmRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	dto.SanitizeStruct(&req)

	receipt, err := h.paymentSvc.ConfirmPayment(c.Request.Context(), sessionID, req.Token)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, dto.PaymentReceiptResponse{
		SessionID:  receipt.SessionID.String(),
		Amount:     receipt.Amount.InexactFloat64(),
		ClientName: receipt.ClientName,
		Status:     "CONFIRMED",
	})
}

// GetSessionStatus handles GET /api/v1/payments/:id.
func (h *PaymentHandler) GetSessionStatus(c *gin.Context) {
	sessionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, apperror.Validation("session id must be a valid UUID"))
		return
	}

	info, err := h.paymentSvc.GetSessionStatus(c.Request.Context(), sessionID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, dto.SessionStatusResponse{
		SessionID:  info.SessionID.String(),
		Status:     string(info.Status),
		Amount:     info.Amount.InexactFloat64(),
		ClientName: info.ClientName,
		ExpiresAt:  info.ExpiresAt.Format(time.RFC3339),
		CreatedAt:  info.CreatedAt.Format(time.RFC3339),
	})
}
