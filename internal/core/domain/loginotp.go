package domain

import (
	"time"

	"github.com/google/uuid"
)

// LoginOtp is a short-lived code tying an email to a login attempt.
// Rows are deleted once consumed or expired-and-rejected; a code is never
// replayable. Multiple outstanding codes per email are allowed and the
// most recently created one wins on lookup.
type LoginOtp struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"` // stored lower-cased
	Otp       string    `json:"-"`     // 6-digit code, leading zeros kept
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}

// IsExpired reports whether the code's window has passed.
func (o *LoginOtp) IsExpired(now time.Time) bool {
	return now.After(o.ExpiresAt)
}
