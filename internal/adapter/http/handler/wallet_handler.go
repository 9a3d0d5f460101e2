package handler

import (
	"strconv"

	"digital-wallet/internal/adapter/http/dto"
	"digital-wallet/internal/adapter/http/middleware"
	"digital-wallet/internal/core/domain"
	"digital-wallet/internal/core/ports"
	"digital-wallet/pkg/apperror"
	"digital-wallet/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// WalletHandler handles wallet endpoints.
type WalletHandler struct {
	walletSvc ports.WalletService
}

// NewWalletHandler creates a new WalletHandler.
func NewWalletHandler(walletSvc ports.WalletService) *WalletHandler {
	return &WalletHandler{walletSvc: walletSvc}
}

// Recharge handles POST /api/v1/wallet/recharge.
func (h *WalletHandler) Recharge(c *gin.Context) {
	var req dto.RechargeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	dto.SanitizeStruct(&req)

	result, err := h.walletSvc.Recharge(c.Request.Context(), ports.RechargeRequest{
		Document: req.Document,
		Phone:    req.Phone,
		Amount:   decimal.NewFromFloat(req.Amount),
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, dto.RechargeResponse{
		ClientID:        result.ClientID.String(),
		Name:            result.Name,
		RechargedAmount: result.RechargedAmount.InexactFloat64(),
		NewBalance:      result.NewBalance.InexactFloat64(),
	})
}

// GetBalance handles GET /api/v1/wallet/balance?document=...&phone=...
// Both identifiers must match the same client.
func (h *WalletHandler) GetBalance(c *gin.Context) {
	document := c.Query("document")
	phone := c.Query("phone")
	if document == "" || phone == "" {
		response.Error(c, apperror.Validation("document and phone query parameters are required"))
		return
	}

	result, err := h.walletSvc.GetBalance(c.Request.Context(), document, phone)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, dto.BalanceResponse{
		ClientID: result.ClientID.String(),
		Name:     result.Name,
		Document: result.Document,
		Balance:  result.Balance.InexactFloat64(),
	})
}

// ListTransactions handles GET /api/v1/wallet/transactions. The client is
// taken from the session token, never from the query string.
func (h *WalletHandler) ListTransactions(c *gin.Context) {
	cid, ok := c.Get(middleware.CtxClientID)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))

	params := ports.TransactionListParams{
		ClientID: cid.(uuid.UUID),
		Page:     page,
		PageSize: pageSize,
	}
	if t := c.Query("type"); t != "" {
		txType := domain.TransactionType(t)
		if txType != domain.TransactionTypeRecharge && txType != domain.TransactionTypePayment {
			response.Error(c, apperror.Validation("type must be RECHARGE or PAYMENT"))
			return
		}
		params.Type = &txType
	}

	items, total, err := h.walletSvc.ListTransactions(c.Request.Context(), params)
	if err != nil {
		response.Error(c, err)
		return
	}

	resp := dto.TransactionListResponse{
		Items:    make([]dto.TransactionResponse, 0, len(items)),
		Total:    total,
		Page:     params.Page,
		PageSize: params.PageSize,
	}
	if params.Page < 1 {
		resp.Page = 1
	}
	if params.PageSize < 1 || params.PageSize > 100 {
		resp.PageSize = 20
	}
	if resp.PageSize > 0 {
		resp.TotalPages = int((total + int64(resp.PageSize) - 1) / int64(resp.PageSize))
	}
	for _, t := range items {
		resp.Items = append(resp.Items, dto.TransactionResponse{
			ID:        t.ID.String(),
			Type:      string(t.Type),
			Amount:    t.Amount.InexactFloat64(),
			CreatedAt: t.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		})
	}

	response.OK(c, resp)
}
