package cronjob_test

import (
	"bytes"
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/cleverage/tools/pkg/config"
	"github.com/cleverage/tools/pkg/console"
	. "github.com/cleverage/tools/pkg/cronjob"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

type (
	executorFunc func(ctx context.Context, job Job, out console.Output) error

	singleConn struct {
		db *sql.DB
	}
)

func (f executorFunc) Execute(ctx context.Context, job Job, out console.Output) error {
	return f(ctx, job, out)
}

func (s singleConn) Get(context.Context, string) (*sql.DB, error) {
	return s.db, nil
}

func testJobs(t *testing.T) []Job {
	t.Helper()

	jobs, err := Load(map[string]map[string]config.CronJob{
		"index": {
			"reindex_all": {Schedule: "*/5 * * * *", Command: []string{"echo", "reindex"}},
		},
		"default": {
			"cleanup_quotes": {Schedule: "@daily", SQL: "DELETE FROM quote", Connection: "default"},
			"reindex_all":    {Schedule: "0 1 * * *", Command: []string{"echo", "default"}},
		},
	})
	require.NoError(t, err)

	return jobs
}

// clock advances by step on every call.
func clock(step time.Duration) func() time.Time {
	now := time.Date(2024, 3, 5, 14, 7, 9, 0, time.Local)
	return func() time.Time {
		current := now
		now = now.Add(step)
		return current
	}
}

func TestLoad(t *testing.T) {
	jobs := testJobs(t)

	require.Len(t, jobs, 3)
	require.Equal(t, "default", jobs[0].Group)
	require.Equal(t, "cleanup_quotes", jobs[0].Name)
	require.Equal(t, KindSQL, jobs[0].Kind())
	require.Equal(t, "DELETE FROM quote", jobs[0].Target())
	require.Equal(t, "reindex_all", jobs[1].Name)
	require.Equal(t, "index", jobs[2].Group)
	require.Equal(t, KindCommand, jobs[2].Kind())
	require.Equal(t, "echo reindex", jobs[2].Target())

	from := time.Date(2024, 3, 5, 14, 7, 0, 0, time.UTC)
	require.Equal(t, time.Date(2024, 3, 6, 0, 0, 0, 0, time.UTC), jobs[0].Next(from))
	require.Equal(t, time.Date(2024, 3, 5, 14, 10, 0, 0, time.UTC), jobs[2].Next(from))

	t.Run("invalid schedule", func(t *testing.T) {
		_, err := Load(map[string]map[string]config.CronJob{
			"default": {"broken": {Schedule: "every day", SQL: "SELECT 1"}},
		})
		require.ErrorContains(t, err, "invalid schedule for job default::broken")
	})
}

func TestRunner_Run(t *testing.T) {
	t.Run("runs every match", func(t *testing.T) {
		var ran []string
		runner := New(Config{
			Jobs: testJobs(t),
			Now:  clock(1234 * time.Millisecond),
			Executor: executorFunc(func(_ context.Context, job Job, _ console.Output) error {
				ran = append(ran, job.Group+"::"+job.Name)
				return nil
			}),
		})

		var buf bytes.Buffer
		require.NoError(t, runner.Run(context.Background(), "reindex_all", "", console.NewStreamOutput(&buf, false)))

		require.Equal(t, []string{"default::reindex_all", "index::reindex_all"}, ran)
		require.Equal(t, ""+
			"[2024-03-05 14:07:09] Found job default::reindex_all (command::echo default). Executing...\n"+
			"[2024-03-05 14:07:10] Complete in 1.23\n"+
			"[2024-03-05 14:07:11] Found job index::reindex_all (command::echo reindex). Executing...\n"+
			"[2024-03-05 14:07:12] Complete in 1.23\n",
			buf.String(),
		)
	})

	t.Run("restricted to group", func(t *testing.T) {
		var ran []string
		runner := New(Config{
			Jobs: testJobs(t),
			Executor: executorFunc(func(_ context.Context, job Job, _ console.Output) error {
				ran = append(ran, job.Group)
				return nil
			}),
		})

		require.NoError(t, runner.Run(context.Background(), "reindex_all", "index", console.NewStreamOutput(&bytes.Buffer{}, false)))
		require.Equal(t, []string{"index"}, ran)
	})

	t.Run("unknown job", func(t *testing.T) {
		runner := New(Config{Jobs: testJobs(t)})
		out := console.NewStreamOutput(&bytes.Buffer{}, false)

		require.EqualError(t, runner.Run(context.Background(), "nope", "", out), "Could not find job nope.")
		require.EqualError(t, runner.Run(context.Background(), "cleanup_quotes", "index", out), "Could not find job index::cleanup_quotes.")
	})

	t.Run("stops at first failure", func(t *testing.T) {
		calls := 0
		runner := New(Config{
			Jobs: testJobs(t),
			Executor: executorFunc(func(context.Context, Job, console.Output) error {
				calls++
				return errors.New("boom")
			}),
		})

		err := runner.Run(context.Background(), "reindex_all", "", console.NewStreamOutput(&bytes.Buffer{}, false))
		require.EqualError(t, err, "boom")
		require.Equal(t, 1, calls)
	})

	t.Run("panics become errors", func(t *testing.T) {
		runner := New(Config{
			Jobs: testJobs(t),
			Executor: executorFunc(func(context.Context, Job, console.Output) error {
				panic("kaboom")
			}),
		})

		err := runner.Run(context.Background(), "cleanup_quotes", "", console.NewStreamOutput(&bytes.Buffer{}, false))
		require.Error(t, err)
		require.Regexp(t, `^\[panic\] kaboom in .*cronjob_test\.go:\d+$`, err.Error())
	})
}

func TestDefaultExecutor(t *testing.T) {
	handle, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "cron.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = handle.Close() })

	_, err = handle.Exec("CREATE TABLE quote (id INTEGER); INSERT INTO quote VALUES (1), (2);")
	require.NoError(t, err)

	exec := &DefaultExecutor{Conns: singleConn{handle}, Dir: t.TempDir()}

	t.Run("sql", func(t *testing.T) {
		job := Job{Group: "default", Name: "cleanup", SQL: "DELETE FROM quote"}
		require.NoError(t, exec.Execute(context.Background(), job, console.NewStreamOutput(&bytes.Buffer{}, false)))

		var count int
		require.NoError(t, handle.QueryRow("SELECT COUNT(*) FROM quote").Scan(&count))
		require.Zero(t, count)
	})

	t.Run("sql failure", func(t *testing.T) {
		job := Job{Group: "default", Name: "broken", SQL: "DELETE FROM missing"}
		err := exec.Execute(context.Background(), job, console.NewStreamOutput(&bytes.Buffer{}, false))
		require.ErrorContains(t, err, "job default::broken failed")
	})

	t.Run("command", func(t *testing.T) {
		var buf bytes.Buffer
		job := Job{Group: "default", Name: "hello", Command: []string{"echo", "hello"}}
		require.NoError(t, exec.Execute(context.Background(), job, console.NewStreamOutput(&buf, false)))
		require.Equal(t, "hello\n", buf.String())
	})

	t.Run("command exit code", func(t *testing.T) {
		job := Job{Group: "default", Name: "fail", Command: []string{"sh", "-c", "exit 3"}}
		err := exec.Execute(context.Background(), job, console.NewStreamOutput(&bytes.Buffer{}, false))
		require.EqualError(t, err, "job default::fail exited with code 3")
	})
}
