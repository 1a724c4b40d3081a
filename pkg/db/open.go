package db

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/cleverage/tools/pkg/config"
	"github.com/pkg/errors"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/microsoft/go-mssqldb"
	"github.com/microsoft/go-mssqldb/azuread"
	_ "modernc.org/sqlite"
)

// Supported driver names, as used in the configuration file.
const (
	DriverMySQL      = "mysql"
	DriverPostgres   = "postgres"
	DriverSQLServer  = "sqlserver"
	DriverSQLite     = "sqlite"
	DriverClickHouse = "clickhouse"
)

const pingTimeout = 5 * time.Second

// Open opens and pings a database handle for conn.
//
// Example:
//
//	handle, err := db.Open(ctx, config.Connection{
//		Driver: db.DriverMySQL,
//		DSN:    "magento:secret@tcp(localhost:3306)/magento",
//	})
//	if err != nil {
//		return err
//	}
//	defer handle.Close()
func Open(ctx context.Context, conn config.Connection) (*sql.DB, error) {
	handle, err := open(conn)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := handle.PingContext(ctx); err != nil {
		_ = handle.Close()
		return nil, errors.Wrapf(err, "failed to connect to %s database", conn.Driver)
	}

	return handle, nil
}

func open(conn config.Connection) (*sql.DB, error) {
	if conn.DSN == "" {
		return nil, errors.Errorf("empty %s DSN", conn.Driver)
	}

	var (
		handle *sql.DB
		err    error
	)

	switch conn.Driver {
	case DriverMySQL:
		handle, err = sql.Open("mysql", conn.DSN)
	case DriverPostgres:
		handle, err = sql.Open("pgx", conn.DSN)
	case DriverSQLServer:
		driverName := "sqlserver"
		if strings.Contains(strings.ToLower(conn.DSN), "fedauth=") {
			driverName = azuread.DriverName
		}
		handle, err = sql.Open(driverName, conn.DSN)
	case DriverSQLite:
		handle, err = sql.Open("sqlite", conn.DSN)
		if err == nil {
			// a single writer avoids SQLITE_BUSY
			handle.SetMaxOpenConns(1)
			return handle, nil
		}
	case DriverClickHouse:
		handle, err = openClickHouse(conn)
	default:
		return nil, errors.Errorf("unsupported driver: %s", conn.Driver)
	}

	if err != nil {
		return nil, errors.Wrapf(err, "failed to open %s database", conn.Driver)
	}

	handle.SetMaxOpenConns(4)
	handle.SetMaxIdleConns(4)
	handle.SetConnMaxLifetime(5 * time.Minute)

	return handle, nil
}
