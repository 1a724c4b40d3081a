package cmd

import (
	"context"
	"fmt"

	"github.com/cleverage/tools/pkg/config"
	"github.com/cleverage/tools/pkg/console"
	"github.com/cleverage/tools/pkg/deploy"
	"github.com/urfave/cli/v3"
	"go.uber.org/fx"
)

type versionParams struct {
	fx.In

	Config *config.Config
}

// version creates the version command printing the deployed platform
// version, revision and deployment date.
func version(p versionParams) *cli.Command {
	return &cli.Command{
		Name:   "cleverage:tools:version",
		Usage:  "Show the deployed version",
		Before: requireConfig(p.Config),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			info := deploy.NewReader(p.Config.Root).Banner()

			return newOutput(ctx, cmd).Writeln(
				fmt.Sprintf("Version: <info>%s</info>", console.Escape(info.Version)),
				fmt.Sprintf("Revision: <info>%s</info>", console.Escape(info.Revision)),
				fmt.Sprintf("Date: <info>%s</info>", info.Date),
			)
		},
	}
}
