// Package cmd provides the CLI commands of the cleverage-tools binary.
//
// # Available Commands
//
//   - cleverage:tools:sql:run (sql:run): Execute a SQL statement and print its rows
//   - cleverage:tools:setup:di:compile_safe (setup:di:compile_safe): DI compile that
//     fails on any error output
//   - cleverage:tools:cronjob:run / cronjob:list: Run a configured cron job now, list them
//   - cleverage:tools:setup:configphpgen: Regenerate the modules section of config.php
//   - cleverage:tools:version: Show the deployed version
//   - cleverage:tools:indexer:reindex: Reindex, warning about indexers already working
//   - cleverage:tools:debug:config: Dump the loaded configuration
//   - cleverage:tools:setup:patch:config-namespace: Move legacy configuration paths
//   - serve: Version routes and a reverse proxy adding the version banner
//
// # Command Structure
//
// Each command is implemented as an unexported constructor returning a
// *cli.Command, following the urfave/cli/v3 pattern. Constructors receive
// their dependencies through fx parameter structs and are registered in the
// "commands" group of Module.
//
// # Global Options
//
//   - --root: Platform root directory, overriding the configuration file
//   - --verbose, -v: Increase verbosity
//   - --quiet, -q: Only print errors
//   - --ansi / --no-ansi: Force or disable styled output
//   - --help, -h: Display command help
//   - --version: Display version information
//
// # Example Usage
//
//	cleverage-tools sql:run "SELECT COUNT(*) FROM sales_order"
//	cleverage-tools setup:di:compile_safe
//	cleverage-tools cleverage:tools:cronjob:run cleanup_quotes default
//	cleverage-tools serve --listen :8080
package cmd
