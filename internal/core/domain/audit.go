package domain

import (
	"time"

	"github.com/google/uuid"
)

// AuditAction represents the type of audited action.
type AuditAction string

const (
	AuditActionRegister        AuditAction = "REGISTER"
	AuditActionLoginOtpRequest AuditAction = "LOGIN_OTP_REQUEST"
	AuditActionLogin           AuditAction = "LOGIN"
	AuditActionRecharge        AuditAction = "RECHARGE"
	AuditActionPaymentRequest  AuditAction = "PAYMENT_REQUEST"
	AuditActionPaymentConfirm  AuditAction = "PAYMENT_CONFIRM"
)

// AuditLog records a single audited action in the system.
type AuditLog struct {
	ID           uuid.UUID   `json:"id"`
	ClientID     *uuid.UUID  `json:"client_id,omitempty"`
	Action       AuditAction `json:"action"`
	ResourceType string      `json:"resource_type"`
	ResourceID   string      `json:"resource_id,omitempty"`
	Details      string      `json:"details,omitempty"` // JSON string
	IPAddress    string      `json:"ip_address"`
	CreatedAt    time.Time   `json:"created_at"`
}
