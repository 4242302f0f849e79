package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	domainErrors "github.com/polkiloo/fournil/internal/domain/errors"
	"github.com/polkiloo/fournil/internal/domain/model"
	"github.com/polkiloo/fournil/internal/domain/repository"
)

// MailingSender delivers one copy of a mailing.
type MailingSender interface {
	SendMailing(ctx context.Context, client model.Client, subject, body string) error
}

// ClientUseCase covers the administration of client accounts.
type ClientUseCase struct {
	clients repository.ClientRepository
	mailer  MailingSender
	logger  *slog.Logger
}

// NewClientUseCase constructs ClientUseCase.
func NewClientUseCase(clients repository.ClientRepository, mailer MailingSender, logger *slog.Logger) *ClientUseCase {
	return &ClientUseCase{clients: clients, mailer: mailer, logger: logger}
}

// List returns the clients an administrator manages.
func (u *ClientUseCase) List(ctx context.Context) ([]model.Client, error) {
	return u.clients.List(ctx)
}

// SetDisabled enables or disables a client. Disabled clients keep their
// orders and wallet but can no longer order.
func (u *ClientUseCase) SetDisabled(ctx context.Context, id int64, disabled bool) (*model.Client, error) {
	if id <= 0 {
		return nil, domainErrors.ErrNotFound
	}
	client, err := u.clients.SetDisabled(ctx, id, disabled)
	if err != nil {
		return nil, err
	}
	u.logger.Info("client status changed",
		slog.Int64("client_id", client.ID),
		slog.Bool("disabled", client.Disabled))
	return client, nil
}

// SendMailing queues the message to every enabled client with an email
// address, optionally restricted to one delivery point. When some copies
// cannot be queued the report is returned together with
// ErrNotificationIncomplete.
func (u *ClientUseCase) SendMailing(ctx context.Context, m model.Mailing) (*model.MailingReport, error) {
	subject := strings.TrimSpace(m.Subject)
	if subject == "" || strings.TrimSpace(m.Body) == "" {
		return nil, domainErrors.ErrInvalidMessage
	}

	clients, err := u.clients.List(ctx)
	if err != nil {
		return nil, err
	}
	var recipients []model.Client
	for _, c := range clients {
		if c.Disabled || strings.TrimSpace(c.Email) == "" {
			continue
		}
		if m.RepositoryID > 0 && c.RepositoryID != m.RepositoryID {
			continue
		}
		recipients = append(recipients, c)
	}
	if len(recipients) == 0 {
		return nil, domainErrors.ErrNoRecipients
	}

	report := &model.MailingReport{Recipients: len(recipients)}
	for _, c := range recipients {
		if err := u.mailer.SendMailing(ctx, c, subject, m.Body); err != nil {
			u.logger.Warn("mailing not queued", slog.Int64("client_id", c.ID), slog.String("error", err.Error()))
			continue
		}
		report.Queued++
	}
	if report.Queued < report.Recipients {
		return report, fmt.Errorf("%w: %d of %d messages", domainErrors.ErrNotificationIncomplete, report.Recipients-report.Queued, report.Recipients)
	}
	return report, nil
}
