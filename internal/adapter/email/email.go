// Package email provides the delivery channels for transactional mail.
// The active provider is chosen once at startup from configuration,
// mirroring how the rest of the adapters are wired in main.
package email

import (
	"fmt"

	"digital-wallet/config"
	"digital-wallet/internal/core/ports"

	"github.com/rs/zerolog"
)

// NewSender builds the EmailSender named by cfg.Provider.
func NewSender(cfg config.EmailConfig, logger zerolog.Logger) (ports.EmailSender, error) {
	switch cfg.Provider {
	case "", "console":
		return NewConsoleSender(logger), nil
	case "smtp":
		return NewSMTPSender(cfg.SMTP.Host, cfg.SMTP.Port, cfg.SMTP.Username, cfg.SMTP.Password, cfg.From)
	case "resend":
		if cfg.Resend.APIKey == "" {
			return nil, fmt.Errorf("email provider resend requires an api key")
		}
		return NewResendSender(cfg.Resend.APIKey, cfg.From), nil
	default:
		return nil, fmt.Errorf("unknown email provider %q", cfg.Provider)
	}
}
