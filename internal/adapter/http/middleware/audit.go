package middleware

import (
	"encoding/json"
	"strings"
	"time"

	"digital-wallet/internal/core/domain"
	"digital-wallet/internal/core/ports"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// AuditLog creates an audit middleware that records successful write
// operations. It maps HTTP methods and paths to audit actions.
func AuditLog(auditSvc ports.AuditService) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		// Only audit successful write operations (status 2xx)
		if c.Writer.Status() < 200 || c.Writer.Status() >= 300 {
			return
		}
		if c.Request.Method == "GET" || c.Request.Method == "HEAD" || c.Request.Method == "OPTIONS" {
			return
		}

		action, resourceType := mapPathToAction(c.Request.URL.Path, c.Request.Method)
		if action == "" {
			return
		}

		var clientID *uuid.UUID
		if cid, exists := c.Get(CtxClientID); exists {
			if id, ok := cid.(uuid.UUID); ok {
				clientID = &id
			}
		}

		details, _ := json.Marshal(map[string]interface{}{
			"method": c.Request.Method,
			"path":   c.Request.URL.Path,
			"status": c.Writer.Status(),
		})

		auditSvc.Log(c.Request.Context(), &domain.AuditLog{
			ID:           uuid.New(),
			ClientID:     clientID,
			Action:       action,
			ResourceType: resourceType,
			IPAddress:    c.ClientIP(),
			Details:      string(details),
			CreatedAt:    time.Now(),
		})
	}
}

func mapPathToAction(path, method string) (domain.AuditAction, string) {
	switch {
	case path == "/api/v1/clients/register" && method == "POST":
		return domain.AuditActionRegister, "client"
	case path == "/api/v1/auth/otp" && method == "POST":
		return domain.AuditActionLoginOtpRequest, "login_otp"
	case path == "/api/v1/auth/login" && method == "POST":
		return domain.AuditActionLogin, "session"
	case path == "/api/v1/wallet/recharge" && method == "POST":
		return domain.AuditActionRecharge, "wallet"
	case path == "/api/v1/payments" && method == "POST":
		return domain.AuditActionPaymentRequest, "payment_session"
	case strings.HasPrefix(path, "/api/v1/payments/") && strings.HasSuffix(path, "/confirm") && method == "POST":
		return domain.AuditActionPaymentConfirm, "payment_session"
	}
	return "", ""
}
