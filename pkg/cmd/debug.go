package cmd

import (
	"context"

	"github.com/cleverage/tools/pkg/config"
	"github.com/cleverage/tools/pkg/debug"
	"github.com/urfave/cli/v3"
	"go.uber.org/fx"
)

type debugConfigParams struct {
	fx.In

	Config *config.Config
}

// debugConfig creates the debug:config command dumping the loaded
// configuration, to the console or appended to a file in the debug output
// directory.
//
// Command flags:
//   - --file: File name, relative to debug.output_dir, receiving the dump
func debugConfig(p debugConfigParams) *cli.Command {
	return &cli.Command{
		Name:   "cleverage:tools:debug:config",
		Usage:  "Dump the loaded configuration",
		Before: requireConfig(p.Config),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "file",
				Usage: "append the dump to this file in the debug output directory",
				Config: cli.StringConfig{
					TrimSpace: true,
				},
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			d := &debug.Dumper{
				Format:          p.Config.Debug.Format,
				BacktraceFormat: p.Config.Debug.BacktraceFormat,
				OutputDir:       p.Config.Path(p.Config.Debug.OutputDir),
				MaxDepth:        p.Config.Debug.MaxDepth,
				Out:             stdout(cmd),
			}

			if file := cmd.String("file"); file != "" {
				return d.DumpToFile(p.Config, file, "config")
			}

			return d.Dump(p.Config, "config")
		},
	}
}
