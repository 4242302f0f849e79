package config

import (
	"time"

	"go.uber.org/fx"
)

// Module exposes configuration loader for fx graphs.
var Module = fx.Provide(
	Load,
	func(cfg *Config) *time.Location { return cfg.Location },
)
