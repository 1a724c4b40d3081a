package indexer_test

import (
	"bytes"
	"context"
	"database/sql"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/cleverage/tools/pkg/console"
	. "github.com/cleverage/tools/pkg/indexer"
	"github.com/cleverage/tools/pkg/process"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

type fakeIndexer struct {
	id        string
	status    Status
	statusErr error
	reindexed int
}

func (f *fakeIndexer) ID() string { return f.id }

func (f *fakeIndexer) Status(context.Context) (Status, error) { return f.status, f.statusErr }

func (f *fakeIndexer) ReindexAll(context.Context) error {
	f.reindexed++
	return nil
}

func openStateDB(t *testing.T) *sql.DB {
	t.Helper()

	handle, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "indexer.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = handle.Close() })

	_, err = handle.Exec(`
		CREATE TABLE indexer_state (indexer_id TEXT, status TEXT);
		INSERT INTO indexer_state VALUES ('catalog_product_price', 'working');
		INSERT INTO indexer_state VALUES ('cataloginventory_stock', 'valid');
	`)
	require.NoError(t, err)

	return handle
}

func TestWarnWhenWorking(t *testing.T) {
	tests := []struct {
		name      string
		status    Status
		statusErr error
		stderr    string
		log       string
	}{
		{
			name:   "working",
			status: StatusWorking,
			stderr: "WARNING: Indexer catalog_product_price is flagged as 'working', will likely be skipped.\n",
			log:    "level=WARN msg=\"Attempting to reindex catalog_product_price while working, will likely be skipped.\"",
		},
		{
			name:   "valid",
			status: StatusValid,
		},
		{
			name:      "status failure",
			statusErr: errors.New("no connection"),
			log:       "level=ERROR msg=\"Failed to read indexer status\" indexer=catalog_product_price err=\"no connection\"",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stderr, logs bytes.Buffer
			logger := slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{
				ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
					if a.Key == slog.TimeKey {
						return slog.Attr{}
					}
					return a
				},
			}))

			inner := &fakeIndexer{id: "catalog_product_price", status: tt.status, statusErr: tt.statusErr}
			idx := WarnWhenWorking(inner, logger, &stderr)

			require.Equal(t, "catalog_product_price", idx.ID())
			require.NoError(t, idx.ReindexAll(context.Background()))
			require.Equal(t, 1, inner.reindexed)
			require.Equal(t, tt.stderr, stderr.String())

			if tt.log == "" {
				require.Empty(t, logs.String())
			} else {
				require.Contains(t, logs.String(), tt.log)
			}
		})
	}
}

func TestStateIndexer(t *testing.T) {
	handle := openStateDB(t)
	ctx := context.Background()

	t.Run("status", func(t *testing.T) {
		for id, want := range map[string]Status{
			"catalog_product_price":  StatusWorking,
			"cataloginventory_stock": StatusValid,
			"catalogsearch_fulltext": StatusInvalid,
		} {
			status, err := NewStateIndexer(id, handle, nil, nil).Status(ctx)
			require.NoError(t, err)
			require.Equal(t, want, status, id)
		}
	})

	t.Run("reindex", func(t *testing.T) {
		var buf bytes.Buffer
		cmd := &process.Command{Argv: []string{"echo", "reindexing"}}
		idx := NewStateIndexer("catalog_product_price", handle, cmd, console.NewStreamOutput(&buf, false))

		require.NoError(t, idx.ReindexAll(ctx))
		require.Equal(t, "reindexing catalog_product_price\n", buf.String())
	})

	t.Run("reindex failure", func(t *testing.T) {
		cmd := &process.Command{Argv: []string{"sh", "-c", "exit 2", "sh"}}
		idx := NewStateIndexer("catalog_product_price", handle, cmd, console.NewStreamOutput(&bytes.Buffer{}, false))

		require.EqualError(t, idx.ReindexAll(ctx), "reindex of catalog_product_price exited with code 2")
	})
}
