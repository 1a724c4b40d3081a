package db

import (
	"context"

	"github.com/cleverage/tools/pkg/config"
	"go.uber.org/fx"
)

var Module = fx.Module("db", fx.Provide(
	// The registry is empty when no configuration file was found.
	func(lc fx.Lifecycle, cfg *config.Config) *Registry {
		var conns map[string]config.Connection
		if cfg != nil {
			conns = cfg.Connections
		}

		r := NewRegistry(conns)
		lc.Append(fx.StopHook(func(context.Context) error {
			return r.Close()
		}))

		return r
	},
))
