// Package db manages the named database connections declared in the
// configuration file.
//
// A Registry opens each connection lazily on first use and keeps the handle
// for the lifetime of the process. Every connection is a plain *sql.DB backed
// by one of the supported drivers:
//
//   - mysql (github.com/go-sql-driver/mysql), the platform's own database
//   - postgres (github.com/jackc/pgx/v5/stdlib)
//   - sqlserver (github.com/microsoft/go-mssqldb), switching to the Azure AD
//     driver when the DSN carries fedauth=
//   - sqlite (modernc.org/sqlite)
//   - clickhouse (github.com/ClickHouse/clickhouse-go/v2), with optional mTLS
//
// Classify inspects the top-level keywords of a statement to decide whether
// it returns rows.
package db
