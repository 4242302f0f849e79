package mail

import (
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/smtp"
	"strings"
	"time"

	"github.com/polkiloo/fournil/internal/domain/model"
	"github.com/polkiloo/fournil/internal/worker"
)

const dialTimeout = 10 * time.Second

// smtpClient is the part of *smtp.Client used by sessions.
type smtpClient interface {
	Extension(ext string) (bool, string)
	StartTLS(config *tls.Config) error
	Auth(a smtp.Auth) error
	Mail(from string) error
	Rcpt(to string) error
	Data() (io.WriteCloser, error)
	Quit() error
	Close() error
}

// SMTPTransport dials an SMTP relay, upgrading to TLS when offered.
type SMTPTransport struct {
	addr   string
	host   string
	from   string
	auth   smtp.Auth
	logger *slog.Logger
	dial   func(ctx context.Context) (smtpClient, error)
}

// NewSMTPTransport builds a transport for addr (host:port). Credentials are
// optional.
func NewSMTPTransport(addr, username, password, from string, logger *slog.Logger) (*SMTPTransport, error) {
	host, _, err := net.SplitHostPort(addr)
	if err != nil {
		return nil, fmt.Errorf("parse smtp address: %w", err)
	}
	if strings.TrimSpace(from) == "" {
		return nil, fmt.Errorf("mail sender must be set")
	}

	t := &SMTPTransport{addr: addr, host: host, from: from, logger: logger}
	if username != "" {
		t.auth = smtp.PlainAuth("", username, password, host)
	}
	t.dial = t.dialTCP
	return t, nil
}

func (t *SMTPTransport) dialTCP(ctx context.Context) (smtpClient, error) {
	dialer := net.Dialer{Timeout: dialTimeout}
	conn, err := dialer.DialContext(ctx, "tcp", t.addr)
	if err != nil {
		return nil, err
	}
	client, err := smtp.NewClient(conn, t.host)
	if err != nil {
		_ = conn.Close()
		return nil, err
	}
	return client, nil
}

// Dial opens and authenticates a relay session.
func (t *SMTPTransport) Dial(ctx context.Context) (worker.Session, error) {
	client, err := t.dial(ctx)
	if err != nil {
		return nil, fmt.Errorf("dial smtp: %w", err)
	}

	if ok, _ := client.Extension("STARTTLS"); ok {
		if err := client.StartTLS(&tls.Config{ServerName: t.host}); err != nil {
			_ = client.Close()
			return nil, fmt.Errorf("starttls: %w", err)
		}
	}
	if t.auth != nil {
		if ok, _ := client.Extension("AUTH"); ok {
			if err := client.Auth(t.auth); err != nil {
				_ = client.Close()
				return nil, fmt.Errorf("smtp auth: %w", err)
			}
		}
	}

	t.logger.Debug("smtp session opened", slog.String("addr", t.addr))
	return &smtpSession{client: client, from: t.from, host: t.host}, nil
}

type smtpSession struct {
	client smtpClient
	from   string
	host   string
}

func (s *smtpSession) Send(_ context.Context, msg model.Message) error {
	if err := s.client.Mail(s.from); err != nil {
		return fmt.Errorf("mail from: %w", err)
	}
	if err := s.client.Rcpt(msg.To); err != nil {
		return fmt.Errorf("rcpt to: %w", err)
	}
	w, err := s.client.Data()
	if err != nil {
		return fmt.Errorf("data: %w", err)
	}
	if _, err := io.WriteString(w, formatMessage(s.from, s.host, msg, time.Now())); err != nil {
		_ = w.Close()
		return fmt.Errorf("write body: %w", err)
	}
	return w.Close()
}

func (s *smtpSession) Close() error {
	if err := s.client.Quit(); err != nil {
		return s.client.Close()
	}
	return nil
}

// formatMessage renders a plain text RFC 5322 message with CRLF line endings.
func formatMessage(from, host string, msg model.Message, now time.Time) string {
	var b strings.Builder
	header := func(name, value string) {
		b.WriteString(name)
		b.WriteString(": ")
		b.WriteString(value)
		b.WriteString("\r\n")
	}
	header("From", from)
	header("To", msg.To)
	header("Subject", msg.Subject)
	header("Date", now.Format(time.RFC1123Z))
	header("Message-ID", fmt.Sprintf("<%s@%s>", msg.ID, host))
	header("MIME-Version", "1.0")
	header("Content-Type", "text/plain; charset=UTF-8")
	b.WriteString("\r\n")

	body := strings.ReplaceAll(msg.Body, "\r\n", "\n")
	b.WriteString(strings.ReplaceAll(body, "\n", "\r\n"))
	return b.String()
}
