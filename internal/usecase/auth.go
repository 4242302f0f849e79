package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	domainErrors "github.com/polkiloo/fournil/internal/domain/errors"
	"github.com/polkiloo/fournil/internal/domain/model"
	"github.com/polkiloo/fournil/internal/domain/repository"
	pkgAuth "github.com/polkiloo/fournil/internal/pkg/auth"
)

// WelcomeSender confirms a new registration to the client.
type WelcomeSender interface {
	SendWelcome(ctx context.Context, client model.Client) error
}

// AuthUseCase handles client lifecycle and token management.
type AuthUseCase struct {
	clients repository.ClientRepository
	hasher  pkgAuth.PasswordHasher
	tokens  pkgAuth.Strategy
	welcome WelcomeSender
	logger  *slog.Logger
}

// NewAuthUseCase constructs AuthUseCase.
func NewAuthUseCase(clients repository.ClientRepository, hasher pkgAuth.PasswordHasher, strategy pkgAuth.Strategy, welcome WelcomeSender, logger *slog.Logger) *AuthUseCase {
	return &AuthUseCase{clients: clients, hasher: hasher, tokens: strategy, welcome: welcome, logger: logger}
}

// Register creates a client attached to a delivery point and returns an auth token.
// The welcome message is best effort.
func (u *AuthUseCase) Register(ctx context.Context, reg model.SignUp) (*model.Client, string, error) {
	login := strings.TrimSpace(reg.Login)
	if login == "" || reg.Password == "" {
		return nil, "", domainErrors.ErrInvalidCredentials
	}
	if reg.RepositoryID <= 0 {
		return nil, "", domainErrors.ErrNotFound
	}

	hash, err := u.hasher.Hash(reg.Password)
	if errors.Is(err, pkgAuth.ErrPasswordTooLong) {
		return nil, "", domainErrors.ErrInvalidCredentials
	}
	if err != nil {
		return nil, "", err
	}

	client, err := u.clients.Create(ctx, model.ClientRegistration{
		Login:        login,
		PasswordHash: hash,
		FirstName:    strings.TrimSpace(reg.FirstName),
		LastName:     strings.TrimSpace(reg.LastName),
		Email:        strings.TrimSpace(reg.Email),
		RepositoryID: reg.RepositoryID,
	})
	if err != nil {
		return nil, "", err
	}

	token, err := u.tokens.IssueToken(client.ID)
	if err != nil {
		return nil, "", err
	}

	if u.welcome != nil {
		if err := u.welcome.SendWelcome(ctx, *client); err != nil && u.logger != nil {
			u.logger.Warn("welcome message not queued",
				slog.Int64("client_id", client.ID),
				slog.String("error", err.Error()))
		}
	}

	return client, token, nil
}

// Authenticate validates credentials and returns auth token.
func (u *AuthUseCase) Authenticate(ctx context.Context, login, password string) (*model.Client, string, error) {
	login = strings.TrimSpace(login)
	if login == "" || password == "" {
		return nil, "", domainErrors.ErrInvalidCredentials
	}

	client, err := u.clients.GetByLogin(ctx, login)
	if err != nil {
		if errors.Is(err, domainErrors.ErrNotFound) {
			return nil, "", domainErrors.ErrInvalidCredentials
		}
		return nil, "", err
	}

	if err := u.hasher.Compare(client.PasswordHash, password); err != nil {
		if !errors.Is(err, pkgAuth.ErrPasswordMismatch) && u.logger != nil {
			u.logger.Error("stored password hash unreadable",
				slog.Int64("client_id", client.ID),
				slog.String("error", err.Error()))
		}
		return nil, "", domainErrors.ErrInvalidCredentials
	}

	token, err := u.tokens.IssueToken(client.ID)
	if err != nil {
		return nil, "", err
	}

	return client, token, nil
}

// ParseToken extracts client ID from provided token.
func (u *AuthUseCase) ParseToken(token string) (int64, error) {
	if token == "" {
		return 0, pkgAuth.ErrInvalidToken
	}
	return u.tokens.ParseToken(token)
}

// GetByID fetches client by identifier.
func (u *AuthUseCase) GetByID(ctx context.Context, id int64) (*model.Client, error) {
	return u.clients.GetByID(ctx, id)
}

// IsAdmin reports whether the client may use administration routes.
func (u *AuthUseCase) IsAdmin(ctx context.Context, id int64) (bool, error) {
	client, err := u.clients.GetByID(ctx, id)
	if err != nil {
		return false, err
	}
	return client.Admin && !client.Disabled, nil
}
