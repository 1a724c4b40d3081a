package cmd

import (
	"context"
	"log/slog"

	"github.com/cleverage/tools/pkg/compile"
	"github.com/cleverage/tools/pkg/config"
	"github.com/urfave/cli/v3"
	"go.uber.org/fx"
)

type compileSafeParams struct {
	fx.In

	Config *config.Config
}

// compileSafe creates the setup:di:compile_safe command. Every argument is
// passed to the platform's DI compiler unchanged; the command fails when the
// compiler printed an error, even if it exited with status 0.
//
// Example usage:
//
//	cleverage-tools setup:di:compile_safe
func compileSafe(p compileSafeParams) *cli.Command {
	return &cli.Command{
		Name:            "cleverage:tools:setup:di:compile_safe",
		Aliases:         []string{"setup:di:compile_safe"},
		Usage:           "Generates DI configuration and all non-existing interceptors and factories (returns non-zero code in case of failure)",
		ArgsUsage:       "[compiler arguments...]",
		SkipFlagParsing: true,
		Before:          requireConfig(p.Config),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			slog.Info("Compiling DI configuration", "command", p.Config.Compile.Command)

			delegate := compile.NewProcessDelegate(p.Config.Compile.Command, p.Config.Root)
			return compile.SafeRun(ctx, delegate, cmd.Args().Slice(), newOutput(ctx, cmd))
		},
	}
}
