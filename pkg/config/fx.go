package config

import (
	"os"

	"github.com/cleverage/tools/pkg/consts"
	"go.uber.org/fx"
)

var Module = fx.Module("config", fx.Provide(
	// Loads the configuration from $CLEVERAGE_TOOLS_CONFIG or cleverage-tools.yaml.
	// Returns nil if the file doesn't exist, allowing commands that don't require
	// config (help, version) to function properly.
	func() (*Config, error) {
		path := os.Getenv(consts.ConfigEnv)
		if path == "" {
			path = consts.ConfigFile
		}

		if _, err := os.Stat(path); os.IsNotExist(err) {
			return nil, nil
		}

		return LoadConfigFile(path)
	},
))
