package cmd

import (
	"context"
	"log/slog"

	"github.com/cleverage/tools/pkg/config"
	"github.com/cleverage/tools/pkg/modules"
	"github.com/urfave/cli/v3"
	"go.uber.org/fx"
)

type configPhpGenParams struct {
	fx.In

	Config *config.Config
}

// configPhpGen creates the setup:configphpgen command rebuilding the modules
// section of app/etc/config.php from the modules found on disk.
//
// Command flags:
//   - --enable-modules: Comma separated modules to enable, or "all"
//   - --disable-modules: Comma separated modules to disable, or "all"
func configPhpGen(p configPhpGenParams) *cli.Command {
	return &cli.Command{
		Name:   "cleverage:tools:setup:configphpgen",
		Usage:  "(Re-)generate config.php",
		Before: requireConfig(p.Config),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "enable-modules",
				Usage: "comma separated modules to enable, or all",
				Config: cli.StringConfig{
					TrimSpace: true,
				},
			},
			&cli.StringFlag{
				Name:  "disable-modules",
				Usage: "comma separated modules to disable, or all",
				Config: cli.StringConfig{
					TrimSpace: true,
				},
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			out := newOutput(ctx, cmd)
			if err := out.Writeln("Regenerating config.php..."); err != nil {
				return err
			}

			states, err := modules.Regenerate(modules.Request{
				Root:       p.Config.Root,
				Paths:      p.Config.Modules.Paths,
				ConfigFile: p.Config.Path(p.Config.Modules.ConfigFile),
				Enable:     cmd.String("enable-modules"),
				Disable:    cmd.String("disable-modules"),
			})
			if err != nil {
				return err
			}

			slog.Info("Regenerated config.php", "modules", len(states))
			return out.Writeln("Done.")
		},
	}
}
