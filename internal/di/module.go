package di

import (
	"go.uber.org/fx"

	"github.com/polkiloo/fournil/internal/adapter/mail"
	"github.com/polkiloo/fournil/internal/app"
	"github.com/polkiloo/fournil/internal/config"
	"github.com/polkiloo/fournil/internal/logger"
	"github.com/polkiloo/fournil/internal/pkg/auth"
	"github.com/polkiloo/fournil/internal/server/http/router"
	"github.com/polkiloo/fournil/internal/storage/postgres"
	"github.com/polkiloo/fournil/internal/usecase"
)

// Module composes the whole application graph. Extra options are applied last
// so tests can replace providers.
func Module(opts ...fx.Option) fx.Option {
	modules := []fx.Option{
		config.Module,
		logger.Module,
		auth.Module,
		postgres.Module,
		mail.Module,
		usecase.Module,
		fx.Provide(func(s *postgres.Storage) app.HealthChecker { return s }),
		router.Module,
		app.Module,
	}
	modules = append(modules, opts...)
	return fx.Options(modules...)
}
