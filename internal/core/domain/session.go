package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SessionStatus is the lifecycle state of a payment session.
type SessionStatus string

const (
	SessionStatusPending   SessionStatus = "PENDING"
	SessionStatusConfirmed SessionStatus = "CONFIRMED"
	SessionStatusExpired   SessionStatus = "EXPIRED"
	SessionStatusCancelled SessionStatus = "CANCELLED"
)

// PaymentSession tracks one payment attempt from request to terminal
// outcome. The ID is the opaque handle returned to the caller; the token
// is the 6-digit confirmation code delivered out of band. A session
// reaches CONFIRMED at most once; CONFIRMED/EXPIRED/CANCELLED are
// terminal.
type PaymentSession struct {
	ID        uuid.UUID       `json:"id"`
	ClientID  uuid.UUID       `json:"client_id"`
	Token     string          `json:"-"` // 6-digit code, never exposed
	Amount    decimal.Decimal `json:"amount"`
	Status    SessionStatus   `json:"status"`
	ExpiresAt time.Time       `json:"expires_at"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// IsTerminal returns true if the session is in a final state.
func (s *PaymentSession) IsTerminal() bool {
	return s.Status != SessionStatusPending
}

// IsExpired reports whether the session's confirmation window has passed.
// Expiry is detected lazily at access time; there is no sweeper.
func (s *PaymentSession) IsExpired(now time.Time) bool {
	return now.After(s.ExpiresAt)
}
