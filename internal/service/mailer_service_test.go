package service

import (
	"context"
	"errors"
	"testing"

	"digital-wallet/internal/core/ports"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type captureSender struct {
	to      string
	subject string
	body    string
	err     error
}

func (c *captureSender) Send(_ context.Context, to, subject, htmlBody string) error {
	c.to = to
	c.subject = subject
	c.body = htmlBody
	return c.err
}

func TestTemplateMailer_SendLoginOtp(t *testing.T) {
	sender := &captureSender{}
	mailer := NewTemplateMailer(sender)

	err := mailer.SendLoginOtp(context.Background(), "jane@example.com", ports.LoginOtpMail{
		Name:              "Jane",
		Otp:               "042137",
		ExpirationMinutes: 5,
	})
	require.NoError(t, err)

	assert.Equal(t, "jane@example.com", sender.to)
	assert.Contains(t, sender.body, "042137")
	assert.Contains(t, sender.body, "Jane")
	assert.Contains(t, sender.body, "5 minutes")
}

func TestTemplateMailer_SendPaymentOtp(t *testing.T) {
	sender := &captureSender{}
	mailer := NewTemplateMailer(sender)

	err := mailer.SendPaymentOtp(context.Background(), "jane@example.com", ports.PaymentOtpMail{
		Name:              "Jane",
		Otp:               "990001",
		Amount:            decimal.RequireFromString("150.50"),
		ExpirationMinutes: 5,
	})
	require.NoError(t, err)

	assert.Contains(t, sender.body, "990001")
	assert.Contains(t, sender.body, "150.5")
}

func TestTemplateMailer_PropagatesDeliveryError(t *testing.T) {
	sender := &captureSender{err: errors.New("smtp down")}
	mailer := NewTemplateMailer(sender)

	err := mailer.SendWelcome(context.Background(), "a@b.com", ports.WelcomeMail{Name: "A"})
	assert.Error(t, err)
}
