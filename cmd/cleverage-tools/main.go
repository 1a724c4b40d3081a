package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/cleverage/tools/pkg/cmd"
	"github.com/cleverage/tools/pkg/config"
	"github.com/cleverage/tools/pkg/db"
	"go.uber.org/fx"
)

// NB: These are set by GoReleaser during a build.
var (
	version string
	commit  string
	date    string
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fx.New(
		fx.NopLogger,
		fx.Provide(
			func() context.Context { return ctx },
			func() []string { return os.Args },
			func() *cmd.Version {
				return &cmd.Version{
					Version:   version,
					Commit:    commit,
					Timestamp: date,
				}
			},
		),
		config.Module,
		db.Module,
		cmd.Module,
	).Run()
}
