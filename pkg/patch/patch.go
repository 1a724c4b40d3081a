// Package patch holds one-off data migrations applied to the platform
// database.
package patch

import (
	"context"
	"database/sql"

	"github.com/pkg/errors"
)

const (
	// LegacyNamespace prefixes configuration paths written by the add-on
	// before it was renamed
	LegacyNamespace = "x2i_tools/"

	// Namespace prefixes the add-on's configuration paths
	Namespace = "cleverage_tools/"

	configNamespaceQuery = `UPDATE core_config_data
SET path = REPLACE(path, 'x2i_tools/', 'cleverage_tools/')
WHERE path LIKE 'x2i!_tools/%' ESCAPE '!'`
)

// Execer runs a statement. *sql.DB satisfies it.
type Execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// MigrateConfigNamespace moves every stored configuration value from the
// legacy namespace to the current one and returns the number of rows changed.
func MigrateConfigNamespace(ctx context.Context, db Execer) (int64, error) {
	res, err := db.ExecContext(ctx, configNamespaceQuery)
	if err != nil {
		return 0, errors.Wrap(err, "failed to migrate config namespace")
	}

	n, err := res.RowsAffected()
	if err != nil {
		return 0, errors.Wrap(err, "failed to count migrated config paths")
	}

	return n, nil
}
