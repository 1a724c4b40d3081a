package sqlrun_test

import (
	"bytes"
	"context"
	"database/sql"
	"path/filepath"
	"strings"
	"testing"

	"github.com/cleverage/tools/pkg/console"
	. "github.com/cleverage/tools/pkg/sqlrun"
	"github.com/stretchr/testify/require"
	"gotest.tools/v3/golden"

	_ "modernc.org/sqlite"
)

const storeQuery = "SELECT store_id, code, name, price, note FROM store ORDER BY store_id"

func openStoreDB(t *testing.T) *sql.DB {
	t.Helper()

	handle, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "store.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = handle.Close() })

	_, err = handle.Exec(`
		CREATE TABLE store (store_id INTEGER, code TEXT, name TEXT, price REAL, note TEXT);
		INSERT INTO store VALUES (1, 'default', 'Default Store View', 9.5, NULL);
		INSERT INTO store VALUES (2, 'fr', 'French <b>&', 10, 'a,b');
		INSERT INTO store VALUES (3, 'de', 'German "quoted"', 0.25, 'x');
		INSERT INTO store VALUES (4, 'es', 'Spanish', 100, '');
	`)
	require.NoError(t, err)

	return handle
}

func run(t *testing.T, runner *Runner, q Query) (string, string, error) {
	t.Helper()

	var stdout, stderr bytes.Buffer
	err := runner.Run(context.Background(), q, console.NewConsoleOutput(&stdout, &stderr))
	return stdout.String(), stderr.String(), err
}

func TestRunner_Formats(t *testing.T) {
	runner := New(Config{Conn: openStoreDB(t)})

	for _, format := range []Format{FormatJSON, FormatPrettyJSON, FormatCSV, FormatScript, FormatRaw} {
		t.Run(string(format), func(t *testing.T) {
			stdout, stderr, err := run(t, runner, Query{SQL: storeQuery, Format: format, Headers: true})
			require.NoError(t, err)
			require.Equal(t, "Query executed successfully, 4 row(s) affected/returned.\n", stderr)
			golden.Assert(t, stdout, string(format)+".golden")
		})
	}
}

func TestRunner_Table(t *testing.T) {
	runner := New(Config{Conn: openStoreDB(t)})

	countRows := func(out string) int {
		n := 0
		for _, line := range strings.Split(out, "\n") {
			if strings.HasPrefix(line, "|") {
				n++
			}
		}
		return n
	}

	t.Run("with headers", func(t *testing.T) {
		stdout, _, err := run(t, runner, Query{SQL: storeQuery, Format: FormatTable, Headers: true})
		require.NoError(t, err)
		require.True(t, strings.HasPrefix(stdout, "+"))
		require.Contains(t, stdout, "store_id")
		require.Contains(t, stdout, "Default Store View")
		require.Contains(t, stdout, "French <b>&")
		require.Equal(t, 5, countRows(stdout))
	})

	t.Run("without headers", func(t *testing.T) {
		stdout, _, err := run(t, runner, Query{SQL: storeQuery, Format: FormatTable})
		require.NoError(t, err)
		require.NotContains(t, stdout, "store_id")
		require.Equal(t, 4, countRows(stdout))
	})

	t.Run("unknown format falls back to table", func(t *testing.T) {
		expected, _, err := run(t, runner, Query{SQL: storeQuery, Format: FormatTable, Headers: true})
		require.NoError(t, err)

		stdout, _, err := run(t, runner, Query{SQL: storeQuery, Format: "yaml", Headers: true})
		require.NoError(t, err)
		require.Equal(t, expected, stdout)

		stdout, _, err = run(t, runner, Query{SQL: storeQuery, Headers: true})
		require.NoError(t, err)
		require.Equal(t, expected, stdout)
	})
}

func TestRunner_WithoutHeaders(t *testing.T) {
	runner := New(Config{Conn: openStoreDB(t)})

	stdout, _, err := run(t, runner, Query{SQL: "SELECT code, name FROM store WHERE store_id < 3 ORDER BY store_id", Format: FormatCSV})
	require.NoError(t, err)
	require.Equal(t, "default,Default Store View\nfr,French <b>&\n", stdout)

	stdout, _, err = run(t, runner, Query{SQL: "SELECT code, store_id FROM store WHERE store_id < 3 ORDER BY store_id", Format: FormatRaw})
	require.NoError(t, err)
	require.Equal(t, "default\t1\nfr\t2\n", stdout)

	// headers never apply to json and script
	stdout, _, err = run(t, runner, Query{SQL: "SELECT code FROM store WHERE store_id = 2", Format: FormatScript})
	require.NoError(t, err)
	require.Equal(t, "code=fr\n", stdout)

	stdout, _, err = run(t, runner, Query{SQL: "SELECT code FROM store WHERE store_id = 2", Format: FormatJSON})
	require.NoError(t, err)
	require.Equal(t, `[{"code":"fr"}]`+"\n", stdout)
}

func TestRunner_NoRows(t *testing.T) {
	runner := New(Config{Conn: openStoreDB(t)})

	for _, format := range Formats() {
		stdout, stderr, err := run(t, runner, Query{SQL: "SELECT * FROM store WHERE store_id > 10", Format: format, Headers: true})
		require.NoError(t, err)
		require.Empty(t, stdout)
		require.Equal(t, "Query executed successfully, 0 row(s) affected/returned.\n", stderr)
	}
}

func TestRunner_Exec(t *testing.T) {
	handle := openStoreDB(t)
	runner := New(Config{Conn: handle})

	stdout, stderr, err := run(t, runner, Query{SQL: "UPDATE store SET note = 'y' WHERE store_id > 2", Format: FormatJSON})
	require.NoError(t, err)
	require.Empty(t, stdout)
	require.Equal(t, "Query executed successfully, 2 row(s) affected/returned.\n", stderr)

	var count int
	require.NoError(t, handle.QueryRow("SELECT COUNT(*) FROM store WHERE note = 'y'").Scan(&count))
	require.Equal(t, 2, count)
}

func TestRunner_Returning(t *testing.T) {
	handle := openStoreDB(t)
	runner := New(Config{Conn: handle})

	stdout, stderr, err := run(t, runner, Query{
		SQL:     "INSERT INTO store (store_id, code) VALUES (9, 'it') RETURNING store_id, code",
		Format:  FormatCSV,
		Headers: true,
	})
	require.NoError(t, err)
	require.Equal(t, "store_id,code\n9,it\n", stdout)
	require.Equal(t, "Query executed successfully, 1 row(s) affected/returned.\n", stderr)

	var code string
	require.NoError(t, handle.QueryRow("SELECT code FROM store WHERE store_id = 9").Scan(&code))
	require.Equal(t, "it", code)
}

func TestRunner_CommonTableExpressionDML(t *testing.T) {
	handle := openStoreDB(t)
	runner := New(Config{Conn: handle})

	stdout, stderr, err := run(t, runner, Query{SQL: "WITH t AS (SELECT 2 AS id) DELETE FROM store WHERE store_id > (SELECT id FROM t)"})
	require.NoError(t, err)
	require.Empty(t, stdout)
	require.Equal(t, "Query executed successfully, 2 row(s) affected/returned.\n", stderr)

	var count int
	require.NoError(t, handle.QueryRow("SELECT COUNT(*) FROM store").Scan(&count))
	require.Equal(t, 2, count)
}

func TestRunner_Stdin(t *testing.T) {
	runner := New(Config{
		Conn:  openStoreDB(t),
		Stdin: strings.NewReader("-- from a pipe\nSELECT code FROM store WHERE store_id = 1"),
	})

	stdout, stderr, err := run(t, runner, Query{SQL: StdinQuery, Format: FormatCSV, Headers: true})
	require.NoError(t, err)
	require.Equal(t, "code\ndefault\n", stdout)
	require.Contains(t, stderr, "1 row(s)")

	runner = New(Config{Conn: openStoreDB(t)})
	_, _, err = run(t, runner, Query{SQL: StdinQuery})
	require.EqualError(t, err, "no standard input to read the query from")
}

func TestRunner_Errors(t *testing.T) {
	handle := openStoreDB(t)
	runner := New(Config{Conn: handle})

	_, expected := handle.Query("SELECT * FROM missing")
	require.Error(t, expected)

	stdout, stderr, err := run(t, runner, Query{SQL: "SELECT * FROM missing"})
	require.Error(t, err)
	require.Equal(t, expected.Error(), err.Error())
	require.Empty(t, stdout)
	require.Empty(t, stderr)

	_, _, err = run(t, runner, Query{SQL: "DELETE FROM missing"})
	require.Error(t, err)
	require.Contains(t, err.Error(), "missing")
}

func TestRunner_SingleStream(t *testing.T) {
	runner := New(Config{Conn: openStoreDB(t)})

	var buf bytes.Buffer
	err := runner.Run(context.Background(), Query{SQL: "SELECT '<error>x</error>' AS v", Format: FormatRaw}, console.NewStreamOutput(&buf, false))
	require.NoError(t, err)

	// data is written literally, never interpreted as tags
	require.Equal(t, "Query executed successfully, 1 row(s) affected/returned.\n<error>x</error>\n", buf.String())
}
