package router

import "go.uber.org/fx"

// Module provides the gin engine with every fournil route mounted.
var Module = fx.Provide(Setup)
