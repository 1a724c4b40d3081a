// Package sqlrun executes a single raw SQL statement and renders its result.
//
// The statement is classified by its leading keyword (see db.Classify).
// Row-returning statements are read into memory: the first rows fix the
// column headers and every remaining row is appended. Other statements report
// the number of affected rows.
//
// A status line is always written to the status stream:
//
//	Query executed successfully, 3 row(s) affected/returned.
//
// Rows are then rendered in one of the supported formats:
//
//   - table: bordered ASCII grid (default, and fallback for unknown formats)
//   - json / pretty-json: array of objects keyed by column, in column order
//   - csv: RFC 4180 records
//   - script: key=value fields joined by |, one row per line
//   - raw: tab separated values, one row per line
//
// # Usage Example
//
//	runner := sqlrun.New(sqlrun.Config{Conn: handle, Stdin: os.Stdin})
//
//	err := runner.Run(ctx, sqlrun.Query{
//		SQL:     "SELECT store_id, code FROM store",
//		Format:  sqlrun.FormatCSV,
//		Headers: true,
//	}, out)
package sqlrun
