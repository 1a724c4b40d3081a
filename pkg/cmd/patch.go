package cmd

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/cleverage/tools/pkg/config"
	"github.com/cleverage/tools/pkg/consts"
	"github.com/cleverage/tools/pkg/db"
	"github.com/cleverage/tools/pkg/patch"
	"github.com/urfave/cli/v3"
	"go.uber.org/fx"
)

type patchParams struct {
	fx.In

	Config   *config.Config
	Registry *db.Registry
}

// patchConfigNamespace creates the setup:patch:config-namespace command moving
// stored configuration values from the legacy x2i_tools/ namespace.
func patchConfigNamespace(p patchParams) *cli.Command {
	return &cli.Command{
		Name:   "cleverage:tools:setup:patch:config-namespace",
		Usage:  "Move configuration values from x2i_tools/ to cleverage_tools/",
		Before: requireConfig(p.Config),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			conn, err := p.Registry.Get(ctx, consts.DefaultConnection)
			if err != nil {
				return err
			}

			n, err := patch.MigrateConfigNamespace(ctx, conn)
			if err != nil {
				return err
			}

			slog.Info("Migrated config namespace", "rows", n)
			return newOutput(ctx, cmd).Writeln(fmt.Sprintf(
				"<info>%d configuration path(s) moved to %s</info>", n, patch.Namespace,
			))
		},
	}
}
