package service

import (
	"bytes"
	"context"
	"fmt"
	"html/template"

	"digital-wallet/internal/core/ports"
)

// TemplateMailer implements ports.Mailer by rendering HTML templates and
// handing the result to an EmailSender. Delivery errors propagate to the
// caller, who decides whether the flow must compensate or just log.
type TemplateMailer struct {
	sender ports.EmailSender
}

// NewTemplateMailer creates a Mailer over the given delivery channel.
func NewTemplateMailer(sender ports.EmailSender) *TemplateMailer {
	return &TemplateMailer{sender: sender}
}

var (
	welcomeTmpl = template.Must(template.New("welcome").Parse(`
<div style="font-family: sans-serif; max-width: 480px;">
  <h2>Welcome, {{.Name}}!</h2>
  <p>Your wallet account has been created.</p>
  <p>Document: <strong>{{.Document}}</strong><br/>
     Email: <strong>{{.Email}}</strong></p>
  <p>You can now recharge your wallet and start paying.</p>
</div>`))

	loginOtpTmpl = template.Must(template.New("login_otp").Parse(`
<div style="font-family: sans-serif; max-width: 480px;">
  <h2>Hello, {{.Name}}</h2>
  <p>Your login code is:</p>
  <p style="font-size: 28px; letter-spacing: 4px;"><strong>{{.Otp}}</strong></p>
  <p>It expires in {{.ExpirationMinutes}} minutes. If you did not request
     this code, ignore this email.</p>
</div>`))

	paymentOtpTmpl = template.Must(template.New("payment_otp").Parse(`
<div style="font-family: sans-serif; max-width: 480px;">
  <h2>Hello, {{.Name}}</h2>
  <p>To confirm your payment of <strong>${{.Amount}}</strong>, use this code:</p>
  <p style="font-size: 28px; letter-spacing: 4px;"><strong>{{.Otp}}</strong></p>
  <p>It expires in {{.ExpirationMinutes}} minutes. If you did not start
     this payment, ignore this email and the session will expire.</p>
</div>`))

	paymentConfirmedTmpl = template.Must(template.New("payment_confirmed").Parse(`
<div style="font-family: sans-serif; max-width: 480px;">
  <h2>Payment confirmed</h2>
  <p>Hello, {{.Name}}. Your payment was processed successfully.</p>
  <p>Amount: <strong>${{.Amount}}</strong><br/>
     Session: <strong>{{.SessionID}}</strong><br/>
     Date: <strong>{{.Date}}</strong></p>
</div>`))
)

func (m *TemplateMailer) render(tmpl *template.Template, data any) (string, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("rendering %s template: %w", tmpl.Name(), err)
	}
	return buf.String(), nil
}

func (m *TemplateMailer) SendWelcome(ctx context.Context, to string, data ports.WelcomeMail) error {
	body, err := m.render(welcomeTmpl, data)
	if err != nil {
		return err
	}
	return m.sender.Send(ctx, to, "Welcome to your digital wallet", body)
}

func (m *TemplateMailer) SendLoginOtp(ctx context.Context, to string, data ports.LoginOtpMail) error {
	body, err := m.render(loginOtpTmpl, data)
	if err != nil {
		return err
	}
	return m.sender.Send(ctx, to, "Your login code", body)
}

func (m *TemplateMailer) SendPaymentOtp(ctx context.Context, to string, data ports.PaymentOtpMail) error {
	body, err := m.render(paymentOtpTmpl, data)
	if err != nil {
		return err
	}
	return m.sender.Send(ctx, to, "Confirm your payment", body)
}

func (m *TemplateMailer) SendPaymentConfirmed(ctx context.Context, to string, data ports.PaymentConfirmedMail) error {
	body, err := m.render(paymentConfirmedTmpl, data)
	if err != nil {
		return err
	}
	return m.sender.Send(ctx, to, "Payment receipt", body)
}
