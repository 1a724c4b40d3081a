// Package cronjob runs the configured cron jobs on demand.
//
// Jobs are declared per group in the configuration file and either run a
// platform command or execute a SQL statement on a named connection. The
// Runner looks jobs up by name, optionally restricted to a group, runs every
// match and reports progress the way the platform's cron does:
//
//	[2024-03-05 14:07:09] Found job default::cleanup_quotes (sql::DELETE FROM quote). Executing...
//	[2024-03-05 14:07:10] Complete in 0.42
//
// A panic raised while a job runs is converted to an error.
package cronjob
