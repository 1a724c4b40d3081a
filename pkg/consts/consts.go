package consts

import "os"

const (
	// ModeDir is the standard file mode for creating directories
	ModeDir = os.FileMode(0o755)

	// ModeFile is the standard file mode for creating files
	ModeFile = os.FileMode(0o644)

	// ConfigFile is the configuration file looked up in the working directory
	ConfigFile = "cleverage-tools.yaml"

	// ConfigEnv names the environment variable overriding ConfigFile
	ConfigEnv = "CLEVERAGE_TOOLS_CONFIG"

	// DefaultConnection is the connection name used when none is given
	DefaultConnection = "default"

	// DefaultListen is the address the serve command binds to
	DefaultListen = ":8080"

	// DefaultAdminPath prefixes the platform's backend pages
	DefaultAdminPath = "/admin"

	// ModulesConfigFile is the platform's deployment config, relative to the root
	ModulesConfigFile = "app/etc/config.php"

	// DebugFormatDump is the default layout of a debug dump
	DebugFormatDump = "%t [%M] %c %l %d"

	// DebugFormatBacktrace is the default layout of a debug backtrace
	DebugFormatBacktrace = "%t [%M] %c Backtrace:\n%d"

	// DebugOutputDir is the default directory for file dumps, relative to the root
	DebugOutputDir = "var/log"

	// DebugMaxDepth bounds nested structures in dumps
	DebugMaxDepth = 8
)

var (
	// CompileCommand is the platform command wrapped by setup:di:compile_safe
	CompileCommand = []string{"php", "bin/magento", "setup:di:compile"}

	// ReindexCommand is the platform command reindexing a single indexer
	ReindexCommand = []string{"php", "bin/magento", "indexer:reindex"}

	// ModulePaths are the globs, relative to the root, where module
	// declarations are discovered
	ModulePaths = []string{
		"app/code/*/*/etc/module.xml",
		"vendor/*/*/etc/module.xml",
	}
)
