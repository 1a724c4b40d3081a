package cmd

import (
	"context"
	"log/slog"
	"strings"

	"github.com/cleverage/tools/pkg/config"
	"github.com/cleverage/tools/pkg/consts"
	"github.com/cleverage/tools/pkg/db"
	"github.com/cleverage/tools/pkg/sqlrun"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v3"
	"go.uber.org/fx"
)

type sqlRunParams struct {
	fx.In

	Config   *config.Config
	Registry *db.Registry
}

// sqlRun creates the sql:run command executing a raw statement on a
// configured connection.
//
// Command flags:
//   - --connection, -c: Connection name (default: "default")
//   - --format, -f: Output format: table, json, pretty-json, csv, script, raw
//   - --headers: Print column names (default: true)
//
// Example usage:
//
//	# Show the store views as a table
//	cleverage-tools sql:run "SELECT store_id, code FROM store"
//
//	# Read the statement from standard input, print JSON
//	echo "SELECT * FROM store" | cleverage-tools sql:run -f json -
func sqlRun(p sqlRunParams) *cli.Command {
	return &cli.Command{
		Name:      "cleverage:tools:sql:run",
		Aliases:   []string{"sql:run"},
		Usage:     "Execute SQL string on the platform database",
		ArgsUsage: "<query|->",
		Description: `Executes the query once on the selected connection.

Row returning statements (SELECT, SHOW, DESCRIBE, EXPLAIN, ...) print their
rows in the requested format; other statements report the affected rows.
Use - to read the query from standard input.`,
		Before: requireConfig(p.Config),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "connection",
				Aliases: []string{"c"},
				Usage:   "connection name",
				Value:   consts.DefaultConnection,
				Config: cli.StringConfig{
					TrimSpace: true,
				},
			},
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Usage:   "output format (" + formatList() + ")",
				Value:   string(sqlrun.FormatTable),
				Config: cli.StringConfig{
					TrimSpace: true,
				},
			},
			&cli.BoolFlag{
				Name:  "headers",
				Usage: "print column names",
				Value: true,
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.Args().Len() != 1 {
				return errors.New("exactly one query argument is required")
			}

			name := cmd.String("connection")
			slog.Info("Running SQL query", "connection", name)

			conn, err := p.Registry.Get(ctx, name)
			if err != nil {
				return err
			}

			runner := sqlrun.New(sqlrun.Config{
				Conn:  conn,
				Stdin: stdin(cmd),
			})

			return runner.Run(ctx, sqlrun.Query{
				SQL:     cmd.Args().First(),
				Format:  sqlrun.Format(cmd.String("format")),
				Headers: cmd.Bool("headers"),
			}, newOutput(ctx, cmd))
		},
	}
}

func formatList() string {
	formats := sqlrun.Formats()
	names := make([]string, len(formats))
	for i, f := range formats {
		names[i] = string(f)
	}

	return strings.Join(names, ", ")
}
