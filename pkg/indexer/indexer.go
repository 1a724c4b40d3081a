// Package indexer reindexes platform indexers and warns when an indexer is
// already flagged as working, in which case the platform will likely skip it.
package indexer

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"

	"github.com/cleverage/tools/pkg/console"
	"github.com/cleverage/tools/pkg/process"
	"github.com/pkg/errors"
)

// Status is the state of an indexer as stored in indexer_state.
type Status string

// Indexer statuses.
const (
	StatusValid     Status = "valid"
	StatusInvalid   Status = "invalid"
	StatusWorking   Status = "working"
	StatusSuspended Status = "suspended"
)

const stateQuery = "SELECT status FROM indexer_state WHERE indexer_id = ?"

type (
	// Indexer is a platform indexer.
	Indexer interface {
		ID() string
		Status(ctx context.Context) (Status, error)
		ReindexAll(ctx context.Context) error
	}

	// Querier runs the state lookup. *sql.DB satisfies it.
	Querier interface {
		QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	}

	// StateIndexer reads its status from the indexer_state table and reindexes
	// through the platform command.
	StateIndexer struct {
		id      string
		db      Querier
		reindex *process.Command
		out     console.Output
	}

	warnIndexer struct {
		Indexer
		logger *slog.Logger
		stderr io.Writer
	}
)

// NewStateIndexer creates an indexer for id. The reindex command receives id as
// its last argument and its output is forwarded to out.
func NewStateIndexer(id string, db Querier, reindex *process.Command, out console.Output) *StateIndexer {
	return &StateIndexer{
		id:      id,
		db:      db,
		reindex: reindex,
		out:     out,
	}
}

func (s *StateIndexer) ID() string {
	return s.id
}

// Status returns the stored status. An indexer without a state row has never
// run and is reported invalid.
func (s *StateIndexer) Status(ctx context.Context) (Status, error) {
	var status string
	err := s.db.QueryRowContext(ctx, stateQuery, s.id).Scan(&status)
	if errors.Is(err, sql.ErrNoRows) {
		return StatusInvalid, nil
	}
	if err != nil {
		return "", errors.Wrapf(err, "failed to read state of indexer %s", s.id)
	}

	return Status(status), nil
}

func (s *StateIndexer) ReindexAll(ctx context.Context) error {
	code, err := s.reindex.Run(ctx, []string{s.id}, s.out)
	if err != nil {
		return err
	}

	if code != 0 {
		return errors.Errorf("reindex of %s exited with code %d", s.id, code)
	}

	return nil
}

// WarnWhenWorking decorates idx so that reindexing an indexer flagged as
// working prints a warning to stderr and logs it before proceeding. A status
// lookup failure is logged and does not prevent the reindex.
func WarnWhenWorking(idx Indexer, logger *slog.Logger, stderr io.Writer) Indexer {
	return &warnIndexer{
		Indexer: idx,
		logger:  logger,
		stderr:  stderr,
	}
}

func (w *warnIndexer) ReindexAll(ctx context.Context) error {
	status, err := w.Status(ctx)
	if err != nil {
		w.logger.Error("Failed to read indexer status", "indexer", w.ID(), "err", err)
	}

	if status == StatusWorking {
		_, _ = fmt.Fprintf(w.stderr, "WARNING: Indexer %s is flagged as 'working', will likely be skipped.\n", w.ID())
		w.logger.Warn(fmt.Sprintf("Attempting to reindex %s while working, will likely be skipped.", w.ID()))
	}

	return w.Indexer.ReindexAll(ctx)
}
