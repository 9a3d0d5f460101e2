package email

import (
	"context"

	"github.com/rs/zerolog"
)

// ConsoleSender logs outgoing emails instead of delivering them. Default
// provider for local development, where the OTP must be readable without
// a mailbox.
type ConsoleSender struct {
	logger zerolog.Logger
}

// NewConsoleSender creates a ConsoleSender.
func NewConsoleSender(logger zerolog.Logger) *ConsoleSender {
	return &ConsoleSender{logger: logger}
}

// Send logs the message and reports success.
func (s *ConsoleSender) Send(_ context.Context, to, subject, htmlBody string) error {
	s.logger.Info().
		Str("to", to).
		Str("subject", subject).
		Str("body", htmlBody).
		Msg("email (console provider)")
	return nil
}
