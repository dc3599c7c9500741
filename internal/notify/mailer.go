package notify

import (
	"context"
	"fmt"

	"github.com/wneessen/go-mail"
	"go.uber.org/zap"

	"github.com/fremdrift-as/inquiry-api/internal/config"
)

// Message is a plain-text email ready for delivery
type Message struct {
	To      string
	Subject string
	Body    string
}

// Mailer delivers email messages. The production implementation speaks
// SMTP; tests substitute a mock.
type Mailer interface {
	Send(ctx context.Context, msg *Message) error
}

// SMTPMailer delivers mail through the configured SMTP relay
type SMTPMailer struct {
	config *config.SMTPConfig
	logger *zap.Logger
}

// NewSMTPMailer creates an SMTP mailer. Configuration is validated here so
// a broken relay setup fails at startup, not on first send.
func NewSMTPMailer(cfg *config.SMTPConfig, logger *zap.Logger) (*SMTPMailer, error) {
	if cfg.Host == "" {
		return nil, fmt.Errorf("smtp host is required")
	}
	if cfg.From == "" {
		return nil, fmt.Errorf("smtp sender address is required")
	}
	return &SMTPMailer{config: cfg, logger: logger}, nil
}

// Send delivers one message through the relay
func (m *SMTPMailer) Send(ctx context.Context, msg *Message) error {
	mm := mail.NewMsg()
	if err := mm.From(m.config.From); err != nil {
		return fmt.Errorf("invalid sender address: %w", err)
	}
	if err := mm.To(msg.To); err != nil {
		return fmt.Errorf("invalid recipient address: %w", err)
	}
	mm.Subject(msg.Subject)
	mm.SetBodyString(mail.TypeTextPlain, msg.Body)

	opts := []mail.Option{
		mail.WithPort(m.config.Port),
		mail.WithTLSPolicy(mail.TLSOpportunistic),
	}
	if m.config.Username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(m.config.Username),
			mail.WithPassword(m.config.Password),
		)
	}

	client, err := mail.NewClient(m.config.Host, opts...)
	if err != nil {
		return fmt.Errorf("failed to create smtp client: %w", err)
	}

	if err := client.DialAndSendWithContext(ctx, mm); err != nil {
		return fmt.Errorf("failed to send mail: %w", err)
	}

	m.logger.Debug("mail sent", zap.String("to", msg.To), zap.String("subject", msg.Subject))
	return nil
}

// AccountEmails builds and sends account lifecycle mails (verification and
// password reset) through a Mailer.
type AccountEmails struct {
	mailer  Mailer
	baseURL string
}

// NewAccountEmails creates the account mail sender. baseURL is the public
// frontend origin used in links.
func NewAccountEmails(mailer Mailer, baseURL string) *AccountEmails {
	return &AccountEmails{mailer: mailer, baseURL: baseURL}
}

// SendVerificationEmail mails the account verification link
func (a *AccountEmails) SendVerificationEmail(ctx context.Context, to, name, token string) error {
	return a.mailer.Send(ctx, &Message{
		To:      to,
		Subject: "Bekreft e-postadressen din",
		Body: fmt.Sprintf(
			"Hei %s,\n\nBekreft e-postadressen din ved å åpne lenken under:\n\n%s/verify-email?token=%s\n\nLenken er gyldig i 24 timer.\n",
			name, a.baseURL, token),
	})
}

// SendPasswordResetEmail mails the password reset link
func (a *AccountEmails) SendPasswordResetEmail(ctx context.Context, to, name, token string) error {
	return a.mailer.Send(ctx, &Message{
		To:      to,
		Subject: "Tilbakestill passordet ditt",
		Body: fmt.Sprintf(
			"Hei %s,\n\nDu kan tilbakestille passordet ditt ved å åpne lenken under:\n\n%s/reset-password?token=%s\n\nLenken er gyldig i én time. Har du ikke bedt om dette, kan du se bort fra denne e-posten.\n",
			name, a.baseURL, token),
	})
}
