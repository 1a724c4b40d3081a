package cronjob

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"math"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/cleverage/tools/pkg/console"
	"github.com/cleverage/tools/pkg/process"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

const timeLayout = "2006-01-02 15:04:05"

type (
	// Executor runs a single job.
	Executor interface {
		Execute(ctx context.Context, job Job, out console.Output) error
	}

	// Connections provides database handles by name.
	Connections interface {
		Get(ctx context.Context, name string) (*sql.DB, error)
	}

	// DefaultExecutor runs SQL jobs on their connection and command jobs as
	// processes in Dir.
	DefaultExecutor struct {
		Conns Connections
		Dir   string
	}

	// Runner finds and runs jobs by name.
	Runner struct {
		jobs []Job
		exec Executor
		now  func() time.Time
	}

	// Config contains configuration options for creating a new Runner.
	Config struct {
		// Jobs are the runnable jobs, see Load
		Jobs []Job

		// Executor runs each matching job
		Executor Executor

		// Now returns the current time; defaults to time.Now
		Now func() time.Time
	}
)

// New creates a runner with the provided configuration.
func New(cfg Config) *Runner {
	now := cfg.Now
	if now == nil {
		now = time.Now
	}

	return &Runner{
		jobs: cfg.Jobs,
		exec: cfg.Executor,
		now:  now,
	}
}

// Jobs returns every known job.
func (r *Runner) Jobs() []Job {
	return r.jobs
}

// Find returns the jobs called name, restricted to group when not empty.
func (r *Runner) Find(name, group string) []Job {
	var found []Job
	for _, job := range r.jobs {
		if job.Name == name && (group == "" || job.Group == group) {
			found = append(found, job)
		}
	}

	return found
}

// Run executes every job called name, in group when given. Execution stops at
// the first failing job.
func (r *Runner) Run(ctx context.Context, name, group string, out console.Output) error {
	jobs := r.Find(name, group)
	if len(jobs) == 0 {
		if group != "" {
			return errors.Errorf("Could not find job %s::%s.", group, name)
		}
		return errors.Errorf("Could not find job %s.", name)
	}

	for _, job := range jobs {
		execution := uuid.New().String()
		start := r.now()
		if err := out.Writeln(fmt.Sprintf(
			"[%s] Found job %s::%s (%s::%s). Executing...",
			start.Format(timeLayout),
			job.Group,
			job.Name,
			job.Kind(),
			console.Escape(job.Target()),
		)); err != nil {
			return err
		}

		slog.Info("Executing cron job", "execution", execution, "group", job.Group, "name", job.Name)
		if err := r.execute(ctx, job, out); err != nil {
			return err
		}

		end := r.now()
		slog.Info("Cron job complete", "execution", execution, "duration", end.Sub(start))
		if err := out.Writeln(fmt.Sprintf(
			"[%s] Complete in %s",
			end.Format(timeLayout),
			formatSeconds(end.Sub(start)),
		)); err != nil {
			return err
		}
	}

	return nil
}

func (r *Runner) execute(ctx context.Context, job Job, out console.Output) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = panicError(rec)
		}
	}()

	return r.exec.Execute(ctx, job, out)
}

func (e *DefaultExecutor) Execute(ctx context.Context, job Job, out console.Output) error {
	if job.Kind() == KindSQL {
		conn, err := e.Conns.Get(ctx, job.Connection)
		if err != nil {
			return err
		}

		if _, err := conn.ExecContext(ctx, job.SQL); err != nil {
			return errors.Wrapf(err, "job %s::%s failed", job.Group, job.Name)
		}

		return nil
	}

	cmd := &process.Command{Argv: job.Command, Dir: e.Dir}
	code, err := cmd.Run(ctx, nil, out)
	if err != nil {
		return errors.Wrapf(err, "job %s::%s failed", job.Group, job.Name)
	}

	if code != 0 {
		return errors.Errorf("job %s::%s exited with code %d", job.Group, job.Name, code)
	}

	return nil
}

// formatSeconds renders d in seconds rounded to two decimals, without
// trailing zeros.
func formatSeconds(d time.Duration) string {
	return strconv.FormatFloat(math.Round(d.Seconds()*100)/100, 'f', -1, 64)
}

// panicError reports the recovered value with the location that panicked.
func panicError(rec any) error {
	pcs := make([]uintptr, 32)
	n := runtime.Callers(3, pcs)
	frames := runtime.CallersFrames(pcs[:n])

	for {
		frame, more := frames.Next()
		if !strings.HasPrefix(frame.Function, "runtime.") {
			return errors.Errorf("[panic] %v in %s:%d", rec, frame.File, frame.Line)
		}

		if !more {
			break
		}
	}

	return errors.Errorf("[panic] %v", rec)
}
