package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/cleverage/tools/pkg/config"
	"github.com/cleverage/tools/pkg/console"
	"github.com/cleverage/tools/pkg/cronjob"
	"github.com/cleverage/tools/pkg/db"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v3"
	"go.uber.org/fx"
)

const nextRunLayout = "2006-01-02 15:04:05"

type cronjobParams struct {
	fx.In

	Config   *config.Config
	Registry *db.Registry
}

// cronjobRun creates the cronjob:run command executing a configured job
// immediately, regardless of its schedule.
//
// Example usage:
//
//	# Run every job named cleanup_quotes
//	cleverage-tools cleverage:tools:cronjob:run cleanup_quotes
//
//	# Only the one from the default group
//	cleverage-tools cleverage:tools:cronjob:run cleanup_quotes default
func cronjobRun(p cronjobParams) *cli.Command {
	return &cli.Command{
		Name:      "cleverage:tools:cronjob:run",
		Usage:     "Execute a cron job",
		ArgsUsage: "<name> [group]",
		Before:    requireConfig(p.Config),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.Args().Len() < 1 || cmd.Args().Len() > 2 {
				return errors.New("a job name and an optional group are required")
			}

			jobs, err := cronjob.Load(p.Config.Cron.Groups)
			if err != nil {
				return err
			}

			name, group := cmd.Args().Get(0), cmd.Args().Get(1)
			slog.Info("Running cron job", "name", name, "group", group)

			runner := cronjob.New(cronjob.Config{
				Jobs: jobs,
				Executor: &cronjob.DefaultExecutor{
					Conns: p.Registry,
					Dir:   p.Config.Root,
				},
			})

			return runner.Run(ctx, name, group, newOutput(ctx, cmd))
		},
	}
}

// cronjobList creates the cronjob:list command printing every configured job
// with its next activation.
func cronjobList(p cronjobParams) *cli.Command {
	return &cli.Command{
		Name:   "cleverage:tools:cronjob:list",
		Usage:  "List the configured cron jobs",
		Before: requireConfig(p.Config),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			jobs, err := cronjob.Load(p.Config.Cron.Groups)
			if err != nil {
				return err
			}

			out := newOutput(ctx, cmd)
			if len(jobs) == 0 {
				return out.Writeln("<comment>No cron job configured.</comment>")
			}

			return out.Writeln(console.Escape(jobTable(jobs, time.Now())))
		},
	}
}

func jobTable(jobs []cronjob.Job, now time.Time) string {
	t := table.New().
		Border(lipgloss.ASCIIBorder()).
		BorderRow(false).
		StyleFunc(func(_, _ int) lipgloss.Style {
			return lipgloss.NewStyle().Padding(0, 1)
		}).
		Headers("Group", "Name", "Schedule", "Runs", "Next run")

	for _, job := range jobs {
		t.Row(
			job.Group,
			job.Name,
			job.Schedule,
			fmt.Sprintf("%s::%s", job.Kind(), strings.ReplaceAll(job.Target(), "\n", " ")),
			job.Next(now).Format(nextRunLayout),
		)
	}

	return t.String()
}
