package handler

import (
	"net/http"

	"digital-wallet/internal/adapter/http/dto"
	"digital-wallet/internal/core/ports"
	"digital-wallet/pkg/apperror"
	"digital-wallet/pkg/response"

	"github.com/gin-gonic/gin"
)

// ClientHandler handles registration and login endpoints.
type ClientHandler struct {
	clientSvc ports.ClientService
	tokenSvc  ports.TokenService
}

// NewClientHandler creates a new ClientHandler.
func NewClientHandler(clientSvc ports.ClientService, tokenSvc ports.TokenService) *ClientHandler {
	return &ClientHandler{clientSvc: clientSvc, tokenSvc: tokenSvc}
}

// Register handles POST /api/v1/clients/register.
func (h *ClientHandler) Register(c *gin.Context) {
	var req dto.RegisterClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	dto.SanitizeStruct(&req)

	profile, err := h.clientSvc.Register(c.Request.Context(), ports.RegisterClientRequest{
		Document: req.Document,
		Name:     req.Name,
		Email:    req.Email,
		Phone:    req.Phone,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, dto.RegisterClientResponse{
		ClientID: profile.Client.ID.String(),
		Document: profile.Client.Document,
		Name:     profile.Client.Name,
		Email:    profile.Client.Email,
		Balance:  profile.Wallet.Balance.InexactFloat64(),
	})
}

// RequestLoginOtp handles POST /api/v1/auth/otp.
func (h *ClientHandler) RequestLoginOtp(c *gin.Context) {
	var req dto.LoginOtpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	dto.SanitizeStruct(&req)

	msg, err := h.clientSvc.RequestLoginOtp(c.Request.Context(), ports.LoginOtpRequest{
		Email:    req.Email,
		Document: req.Document,
		Phone:    req.Phone,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, dto.LoginOtpResponse{Message: msg})
}

// ConfirmLoginOtp handles POST /api/v1/auth/login. On success it issues
// the session token here, at the adapter boundary.
func (h *ClientHandler) ConfirmLoginOtp(c *gin.Context) {
	var req dto.LoginConfirmRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	dto.SanitizeStruct(&req)

	profile, err := h.clientSvc.ConfirmLoginOtp(c.Request.Context(), req.Email, req.Otp)
	if err != nil {
		response.Error(c, err)
		return
	}

	token, expiry, err := h.tokenSvc.Generate(profile.Client.ID, profile.Client.Email)
	if err != nil {
		response.Error(c, apperror.InternalError(err))
		return
	}

	response.OK(c, dto.LoginConfirmResponse{
		Token:    token,
		Expiry:   expiry.Unix(),
		ClientID: profile.Client.ID.String(),
		Name:     profile.Client.Name,
		Balance:  profile.Wallet.Balance.InexactFloat64(),
	})
}

// HealthCheck handles GET /health, verifying all dependencies.
func HealthCheck(checkers ...ports.HealthChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		type depStatus struct {
			Status string `json:"status"`
			Error  string `json:"error,omitempty"`
		}

		deps := make(map[string]depStatus)
		allHealthy := true

		for _, checker := range checkers {
			if err := checker.Ping(c.Request.Context()); err != nil {
				deps[checker.Name()] = depStatus{Status: "unhealthy", Error: err.Error()}
				allHealthy = false
			} else {
				deps[checker.Name()] = depStatus{Status: "healthy"}
			}
		}

		status := "healthy"
		httpCode := http.StatusOK
		if !allHealthy {
			status = "degraded"
			httpCode = http.StatusServiceUnavailable
		}

		c.JSON(httpCode, gin.H{
			"status":       status,
			"dependencies": deps,
		})
	}
}
