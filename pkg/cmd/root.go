package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/cleverage/tools/pkg/config"
	"github.com/cleverage/tools/pkg/console"
	"github.com/cleverage/tools/pkg/consts"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v3"
	"go.uber.org/fx"
)

type (
	Params struct {
		fx.In

		Args       []string
		Commands   []*cli.Command `group:"commands"`
		Config     *config.Config
		Ctx        context.Context
		Lifecycle  fx.Lifecycle
		Shutdowner fx.Shutdowner
		Version    *Version
	}

	Version struct {
		Version   string
		Commit    string
		Timestamp string
	}
)

// Run creates and executes the cleverage-tools CLI application with the given
// commands and command-line arguments.
//
// Global Flags:
//   - --root: Platform root directory, overriding the configuration file
//   - --verbose, -v: Increase verbosity (repeatable, -vvv for debug output)
//   - --quiet, -q: Only print errors
//   - --ansi / --no-ansi: Force or disable styled output
//
// The configuration is read from $CLEVERAGE_TOOLS_CONFIG, falling back to
// cleverage-tools.yaml in the working directory. Commands that need it fail
// early when it is missing.
//
// The application runs in the background once fx has started, and shuts fx
// down with exit code 1 when the command fails, 0 otherwise.
func Run(p Params) {
	cli.VersionPrinter = func(cmd *cli.Command) {
		fmt.Fprintln(cmd.Writer, "Version:", p.Version.Version)
		fmt.Fprintln(cmd.Writer, "Commit:", p.Version.Commit)
		fmt.Fprintln(cmd.Writer, "Date:", p.Version.Timestamp)
	}

	app := NewApp(p.Config, p.Version.Version, p.Commands)

	p.Lifecycle.Append(fx.StartHook(func() {
		go func() {
			if err := app.Run(p.Ctx, p.Args); err != nil {
				slog.Error("Error running command", "err", err)
				_ = p.Shutdowner.Shutdown(fx.ExitCode(1))
				return
			}

			_ = p.Shutdowner.Shutdown(fx.ExitCode(0))
		}()
	}))
}

// NewApp returns the root command holding the global flags.
func NewApp(cfg *config.Config, version string, commands []*cli.Command) *cli.Command {
	var verbosity int

	return &cli.Command{
		Name:  "cleverage-tools",
		Usage: "Operational tooling for Magento platforms",
		Description: `cleverage-tools runs SQL on the platform databases, wraps the DI compiler
so failures are never silent, runs cron jobs on demand and exposes the
deployed version.`,
		Version:                version,
		UseShortOptionHandling: true,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "root",
				Usage:       "the platform root directory",
				DefaultText: "from " + consts.ConfigFile,
				Config: cli.StringConfig{
					TrimSpace: true,
				},
			},
			&cli.BoolFlag{
				Name:    "verbose",
				Aliases: []string{"v"},
				Usage:   "increase verbosity, repeat for more",
				Config: cli.BoolConfig{
					Count: &verbosity,
				},
			},
			&cli.BoolFlag{
				Name:    "quiet",
				Aliases: []string{"q"},
				Usage:   "only print errors",
			},
			&cli.BoolFlag{
				Name:  "ansi",
				Usage: "force styled output",
			},
			&cli.BoolFlag{
				Name:  "no-ansi",
				Usage: "disable styled output",
			},
		},
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			if cfg != nil && cmd.IsSet("root") {
				root, err := filepath.Abs(cmd.String("root"))
				if err != nil {
					return ctx, errors.Wrap(err, "failed to resolve root directory")
				}
				cfg.Root = root
			}

			opts := outputOptions{verbosity: console.VerbosityNormal}
			switch {
			case cmd.Bool("quiet"):
				opts.verbosity = console.VerbosityQuiet
			case verbosity > 0:
				opts.verbosity = min(console.VerbosityNormal+console.Verbosity(verbosity), console.VerbosityDebug)
			}

			switch {
			case cmd.Bool("no-ansi"):
				opts.decorated = new(bool)
			case cmd.Bool("ansi"):
				decorated := true
				opts.decorated = &decorated
			}

			slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
				Level: opts.logLevel(),
			})))

			return withOutputOptions(ctx, opts), nil
		},
		Commands: commands,
	}
}

func requireConfig(cfg *config.Config) func(context.Context, *cli.Command) (context.Context, error) {
	return func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
		if cfg == nil {
			return ctx, errors.New(consts.ConfigFile + " not found")
		}

		return ctx, nil
	}
}
