package auth

import (
	"go.uber.org/fx"

	"github.com/polkiloo/fournil/internal/config"
)

// Module provides the password hasher and the token strategy selected by config.
var Module = fx.Options(
	fx.Provide(newPasswordHasher),
	fx.Provide(newTokenStrategy),
)

func newPasswordHasher() PasswordHasher {
	return NewBcryptHasher(0)
}

type strategyParams struct {
	fx.In

	Config *config.Config
}

func newTokenStrategy(p strategyParams) Strategy {
	opts := Options{TTL: p.Config.TokenTTL}
	if p.Config.TokenStrategy == config.TokenStrategyJWT {
		return NewJWTStrategy(p.Config.JWTSecret, opts)
	}
	return NewHMACStrategy(p.Config.JWTSecret, opts)
}
