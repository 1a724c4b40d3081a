package patch_test

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	. "github.com/cleverage/tools/pkg/patch"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

func TestMigrateConfigNamespace(t *testing.T) {
	handle, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "config.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = handle.Close() })

	_, err = handle.Exec(`
		CREATE TABLE core_config_data (config_id INTEGER PRIMARY KEY, path TEXT);
		INSERT INTO core_config_data (path) VALUES
			('x2i_tools/banner/enable_frontend'),
			('x2i_tools/banner/enable_adminhtml'),
			('x2iXtools/untouched'),
			('web/secure/base_url');
	`)
	require.NoError(t, err)

	n, err := MigrateConfigNamespace(context.Background(), handle)
	require.NoError(t, err)
	require.EqualValues(t, 2, n)

	rows, err := handle.Query("SELECT path FROM core_config_data ORDER BY config_id")
	require.NoError(t, err)
	defer func() { _ = rows.Close() }()

	var paths []string
	for rows.Next() {
		var path string
		require.NoError(t, rows.Scan(&path))
		paths = append(paths, path)
	}
	require.NoError(t, rows.Err())

	require.Equal(t, []string{
		"cleverage_tools/banner/enable_frontend",
		"cleverage_tools/banner/enable_adminhtml",
		"x2iXtools/untouched",
		"web/secure/base_url",
	}, paths)

	n, err = MigrateConfigNamespace(context.Background(), handle)
	require.NoError(t, err)
	require.Zero(t, n)
}
