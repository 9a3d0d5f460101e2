package ports

import (
	"context"
	"time"

	"digital-wallet/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// OtpGenerator produces confirmation codes. Pure generation, no side effects.
type OtpGenerator interface {
	// Generate returns a uniformly random 6-digit numeric string,
	// "000000" through "999999" (leading zeros kept).
	Generate() (string, error)
}

// EmailSender is the low-level delivery channel. A non-nil error means the
// message was not delivered and the caller must compensate.
type EmailSender interface {
	Send(ctx context.Context, to, subject, htmlBody string) error
}

// Mailer renders and delivers the wallet's transactional emails.
type Mailer interface {
	SendWelcome(ctx context.Context, to string, data WelcomeMail) error
	SendLoginOtp(ctx context.Context, to string, data LoginOtpMail) error
	SendPaymentOtp(ctx context.Context, to string, data PaymentOtpMail) error
	SendPaymentConfirmed(ctx context.Context, to string, data PaymentConfirmedMail) error
}

// WelcomeMail is the template context for the registration email.
type WelcomeMail struct {
	Name     string
	Document string
	Email    string
}

// LoginOtpMail is the template context for the login code email.
type LoginOtpMail struct {
	Name              string
	Otp               string
	ExpirationMinutes int
}

// PaymentOtpMail is the template context for the payment code email.
type PaymentOtpMail struct {
	Name              string
	Otp               string
	Amount            decimal.Decimal
	ExpirationMinutes int
}

// PaymentConfirmedMail is the template context for the confirmation receipt.
type PaymentConfirmedMail struct {
	Name      string
	Amount    decimal.Decimal
	SessionID string
	Date      string
}

// TokenService handles session token operations for logged-in clients.
type TokenService interface {
	Generate(clientID uuid.UUID, email string) (string, time.Time, error)
	Validate(tokenString string) (*TokenClaims, error)
}

// TokenClaims holds the parsed session token claims.
type TokenClaims struct {
	ClientID uuid.UUID
	Email    string
}

// --- Service Ports (Business Logic) ---

// ClientService defines registration and login-OTP business logic.
type ClientService interface {
	Register(ctx context.Context, req RegisterClientRequest) (*ClientProfile, error)
	// RequestLoginOtp returns a human-readable acknowledgement with the
	// masked delivery target.
	RequestLoginOtp(ctx context.Context, req LoginOtpRequest) (string, error)
	// ConfirmLoginOtp consumes the code (single use) and returns the
	// client+wallet projection for session establishment by the caller.
	ConfirmLoginOtp(ctx context.Context, email, otp string) (*ClientProfile, error)
}

// RegisterClientRequest holds validated input for client registration.
type RegisterClientRequest struct {
	Document string
	Name     string
	Email    string
	Phone    string
}

// LoginOtpRequest holds validated input for a login code request.
// All three fields must match one client exactly.
type LoginOtpRequest struct {
	Email    string
	Document string
	Phone    string
}

// ClientProfile is the client+wallet projection returned to callers.
type ClientProfile struct {
	Client *domain.Client
	Wallet *domain.Wallet
}

// WalletService defines the balance ledger operations.
type WalletService interface {
	Recharge(ctx context.Context, req RechargeRequest) (*RechargeResult, error)
	GetBalance(ctx context.Context, document, phone string) (*BalanceResult, error)
	// HasEnoughBalance returns false (not an error) when the client has no wallet.
	HasEnoughBalance(ctx context.Context, clientID uuid.UUID, amount decimal.Decimal) (bool, error)
	// Debit decrements the balance and appends a PAYMENT transaction inside
	// the caller's database transaction, re-verifying sufficiency under the
	// row lock immediately before mutating.
	Debit(ctx context.Context, tx pgx.Tx, clientID uuid.UUID, amount decimal.Decimal) (*domain.Wallet, error)
	ListTransactions(ctx context.Context, params TransactionListParams) ([]domain.Transaction, int64, error)
}

// RechargeRequest holds validated input for a wallet recharge.
type RechargeRequest struct {
	Document string
	Phone    string
	Amount   decimal.Decimal
}

// RechargeResult is the outcome of a successful recharge.
type RechargeResult struct {
	ClientID        uuid.UUID
	Name            string
	NewBalance      decimal.Decimal
	RechargedAmount decimal.Decimal
}

// BalanceResult is the read-only balance projection.
type BalanceResult struct {
	ClientID uuid.UUID
	Name     string
	Document string
	Balance  decimal.Decimal
}

// PaymentService defines the OTP-gated payment session state machine.
type PaymentService interface {
	RequestPayment(ctx context.Context, req PaymentRequest) (*PaymentSessionInfo, error)
	ConfirmPayment(ctx context.Context, sessionID uuid.UUID, token string) (*PaymentReceipt, error)
	GetSessionStatus(ctx context.Context, sessionID uuid.UUID) (*SessionStatusInfo, error)
}

// PaymentRequest holds validated input for starting a payment session.
type PaymentRequest struct {
	Document string
	Phone    string
	Amount   decimal.Decimal
}

// PaymentSessionInfo is returned when a session is opened.
type PaymentSessionInfo struct {
	SessionID uuid.UUID
	ExpiresAt time.Time
	// Message is the human-readable acknowledgement naming the masked
	// delivery target.
	Message string
}

// PaymentReceipt is the outcome of a confirmed payment.
type PaymentReceipt struct {
	SessionID  uuid.UUID
	Amount     decimal.Decimal
	ClientName string
}

// SessionStatusInfo is the current session projection.
type SessionStatusInfo struct {
	SessionID  uuid.UUID
	Status     domain.SessionStatus
	Amount     decimal.Decimal
	ClientName string
	ExpiresAt  time.Time
	CreatedAt  time.Time
}

// AuditService records audit entries (fire-and-forget).
type AuditService interface {
	Log(ctx context.Context, entry *domain.AuditLog)
}
