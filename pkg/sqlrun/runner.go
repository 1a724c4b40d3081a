package sqlrun

import (
	"bytes"
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"

	"github.com/cleverage/tools/pkg/console"
	"github.com/cleverage/tools/pkg/db"
	"github.com/pkg/errors"
)

// StdinQuery makes Run read the statement from standard input.
const StdinQuery = "-"

type (
	// Conn defines the database operations required by the Runner. *sql.DB
	// and *sql.Tx satisfy it.
	Conn interface {
		QueryContext(context.Context, string, ...any) (*sql.Rows, error)
		ExecContext(context.Context, string, ...any) (sql.Result, error)
	}

	// Runner executes raw SQL statements and renders their results.
	Runner struct {
		conn  Conn
		stdin io.Reader
	}

	// Config contains configuration options for creating a new Runner.
	Config struct {
		// Conn is the connection statements are executed on
		Conn Conn

		// Stdin is read when the query is StdinQuery
		Stdin io.Reader
	}

	// Query describes a single execution.
	Query struct {
		// SQL is the statement, or StdinQuery
		SQL string

		// Format selects the renderer; empty means FormatTable
		Format Format

		// Headers emits column names where the format supports it
		Headers bool
	}
)

// New creates a runner with the provided configuration.
func New(cfg Config) *Runner {
	return &Runner{
		conn:  cfg.Conn,
		stdin: cfg.Stdin,
	}
}

// Run executes q once and writes the status line and the rendered rows to
// out. The status line goes to the status stream (see console.StatusOutput)
// and the data to out itself.
//
// Execution errors are returned unmodified.
func (r *Runner) Run(ctx context.Context, q Query, out console.Output) error {
	statement, err := r.statement(q.SQL)
	if err != nil {
		return err
	}

	kind := db.Classify(statement)
	slog.Debug("Executing statement", "kind", kind)

	res, count, err := r.execute(ctx, statement, kind)
	if err != nil {
		return err
	}

	status := fmt.Sprintf("Query executed successfully, %d row(s) affected/returned.", count)
	if err := console.StatusOutput(out).Writeln(status); err != nil {
		return err
	}

	if res == nil || len(res.Rows) == 0 {
		return nil
	}

	var buf bytes.Buffer
	if err := Render(&buf, res, q.Format, Options{Headers: q.Headers}); err != nil {
		return err
	}

	return out.Write(false, console.Escape(buf.String()))
}

func (r *Runner) execute(ctx context.Context, statement string, kind db.Kind) (*Result, int64, error) {
	if kind == db.KindExec {
		result, err := r.conn.ExecContext(ctx, statement)
		if err != nil {
			return nil, 0, err
		}

		// drivers that can't report affected rows count as zero
		count, _ := result.RowsAffected()
		return nil, count, nil
	}

	rows, err := r.conn.QueryContext(ctx, statement)
	if err != nil {
		return nil, 0, err
	}
	defer func() { _ = rows.Close() }()

	res, err := collect(rows)
	if err != nil {
		return nil, 0, err
	}

	return res, int64(len(res.Rows)), nil
}

func (r *Runner) statement(query string) (string, error) {
	if query != StdinQuery {
		return query, nil
	}

	if r.stdin == nil {
		return "", errors.New("no standard input to read the query from")
	}

	data, err := io.ReadAll(r.stdin)
	if err != nil {
		return "", errors.Wrap(err, "failed to read query from standard input")
	}

	return string(data), nil
}
