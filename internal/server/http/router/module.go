package router

import "go.uber.org/fx"

// Module provides the fully wired gin engine.
var Module = fx.Provide(Setup)
