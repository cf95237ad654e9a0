package email

import (
	"anduber-forms-backend/config"
	"context"
	"crypto/tls"
	"fmt"
	"mime"
	"net"
	"net/http"
	"net/mail"
	"net/smtp"
	"time"

	"github.com/resend/resend-go/v2"
)

// Provider is the transactional email capability the dispatcher depends on.
type Provider interface {
	Name() string
	Send(ctx context.Context, msg Message) (id string, err error)
}

// NewProvider picks Resend when an API key is set, Brevo SMTP when its
// credentials are complete, and returns nil otherwise.
func NewProvider(cfg *config.Config) Provider {
	switch {
	case cfg.ResendAPIKey != "":
		return NewResendProvider(cfg.ResendAPIKey, cfg.EmailSendTimeout)
	case cfg.SMTPConfigured():
		return NewSMTPProvider(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword, cfg.EmailSendTimeout)
	default:
		return nil
	}
}

// ResendProvider sends through the Resend HTTP API.
type ResendProvider struct {
	client *resend.Client
}

func NewResendProvider(apiKey string, timeout time.Duration) *ResendProvider {
	httpClient := &http.Client{Timeout: timeout}
	return &ResendProvider{client: resend.NewCustomClient(httpClient, apiKey)}
}

func (p *ResendProvider) Name() string { return "resend" }

func (p *ResendProvider) Send(ctx context.Context, msg Message) (string, error) {
	resp, err := p.client.Emails.SendWithContext(ctx, &resend.SendEmailRequest{
		From:    msg.From,
		To:      []string{msg.To},
		ReplyTo: msg.ReplyTo,
		Subject: msg.Subject,
		Html:    msg.HTML,
	})
	if err != nil {
		return "", fmt.Errorf("resend api error: %w", err)
	}
	if resp == nil || resp.Id == "" {
		return "", ErrEmptyResponse
	}
	return resp.Id, nil
}

// SMTPProvider sends via an authenticated SMTP relay (Brevo by default).
type SMTPProvider struct {
	host     string
	port     string
	username string
	password string
	timeout  time.Duration
}

func NewSMTPProvider(host, port, username, password string, timeout time.Duration) *SMTPProvider {
	return &SMTPProvider{
		host:     host,
		port:     port,
		username: username,
		password: password,
		timeout:  timeout,
	}
}

func (p *SMTPProvider) Name() string { return "smtp" }

func (p *SMTPProvider) Send(ctx context.Context, msg Message) (string, error) {
	from, err := mail.ParseAddress(msg.From)
	if err != nil {
		return "", fmt.Errorf("invalid from address: %w", err)
	}
	to, err := mail.ParseAddress(msg.To)
	if err != nil {
		return "", fmt.Errorf("invalid to address: %w", err)
	}

	deadline := time.Now().Add(p.timeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}

	dialer := &net.Dialer{Deadline: deadline}
	conn, err := dialer.DialContext(ctx, "tcp", net.JoinHostPort(p.host, p.port))
	if err != nil {
		return "", fmt.Errorf("failed to connect to smtp server: %w", err)
	}
	if err := conn.SetDeadline(deadline); err != nil {
		conn.Close()
		return "", fmt.Errorf("failed to set smtp deadline: %w", err)
	}

	c, err := smtp.NewClient(conn, p.host)
	if err != nil {
		conn.Close()
		return "", fmt.Errorf("failed to start smtp session: %w", err)
	}
	defer c.Close()

	if ok, _ := c.Extension("STARTTLS"); ok {
		if err := c.StartTLS(&tls.Config{ServerName: p.host, MinVersion: tls.VersionTLS12}); err != nil {
			return "", fmt.Errorf("failed to start tls: %w", err)
		}
	}
	if err := c.Auth(smtp.PlainAuth("", p.username, p.password, p.host)); err != nil {
		return "", fmt.Errorf("smtp auth failed: %w", err)
	}
	if err := c.Mail(from.Address); err != nil {
		return "", fmt.Errorf("smtp MAIL FROM failed: %w", err)
	}
	if err := c.Rcpt(to.Address); err != nil {
		return "", fmt.Errorf("smtp RCPT TO failed: %w", err)
	}

	w, err := c.Data()
	if err != nil {
		return "", fmt.Errorf("smtp DATA failed: %w", err)
	}
	if _, err := w.Write(buildMIME(msg)); err != nil {
		w.Close()
		return "", fmt.Errorf("failed to write message: %w", err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("failed to send email: %w", err)
	}
	_ = c.Quit()

	return "", nil
}

func buildMIME(msg Message) []byte {
	return []byte(fmt.Sprintf(
		"From: %s\r\n"+
			"To: %s\r\n"+
			"Reply-To: %s\r\n"+
			"Subject: %s\r\n"+
			"MIME-Version: 1.0\r\n"+
			"Content-Type: text/html; charset=UTF-8\r\n"+
			"\r\n"+
			"%s",
		msg.From,
		msg.To,
		msg.ReplyTo,
		mime.QEncoding.Encode("utf-8", msg.Subject),
		msg.HTML,
	))
}
