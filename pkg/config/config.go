package config

import (
	"io"
	"os"
	"path/filepath"
	"slices"

	"github.com/cleverage/tools/pkg/consts"
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

type (
	// Connection describes a named database connection.
	//
	// Driver selects the database/sql driver used to open the DSN. The DSN is
	// passed to the driver unchanged, so its syntax is the driver's own.
	Connection struct {
		// Driver is one of mysql, postgres, sqlserver, sqlite or clickhouse
		Driver string `yaml:"driver" validate:"required,oneof=mysql postgres sqlserver sqlite clickhouse"`

		// DSN is the driver specific data source name
		DSN string `yaml:"dsn" validate:"required"`

		// TLS enables mutual TLS for drivers that accept a *tls.Config (clickhouse)
		TLS *TLS `yaml:"tls,omitempty"`
	}

	// TLS holds the files required for mutual TLS.
	TLS struct {
		CAFile   string `yaml:"ca_file" validate:"required"`
		CertFile string `yaml:"cert_file" validate:"required"`
		KeyFile  string `yaml:"key_file" validate:"required"`
	}

	// Compile configures the DI compile command wrapped by setup:di:compile_safe.
	Compile struct {
		Command []string `yaml:"command,omitempty"`
	}

	// Indexer configures how indexers are inspected and reindexed.
	Indexer struct {
		// Command is the argv used to reindex a single indexer; the indexer id
		// is appended as the last argument
		Command []string `yaml:"command,omitempty"`

		// Connection is the connection holding the indexer_state table
		Connection string `yaml:"connection,omitempty"`
	}

	// Banner toggles the version banner in proxied pages.
	Banner struct {
		EnableAdminhtml bool `yaml:"enable_adminhtml"`
		EnableFrontend  bool `yaml:"enable_frontend"`
	}

	// Web configures the serve command.
	Web struct {
		Listen string `yaml:"listen,omitempty"`

		// Upstream is the platform's base URL proxied by the serve command
		Upstream string `yaml:"upstream,omitempty" validate:"omitempty,url"`

		// AdminPath prefixes the backend pages
		AdminPath string `yaml:"admin_path,omitempty"`
	}

	// CronJob declares a job runnable through cronjob:run.
	//
	// Exactly one of Command or SQL must be set.
	CronJob struct {
		Schedule   string   `yaml:"schedule" validate:"required"`
		Command    []string `yaml:"command,omitempty" validate:"required_without=SQL,excluded_with=SQL"`
		SQL        string   `yaml:"sql,omitempty" validate:"required_without=Command"`
		Connection string   `yaml:"connection,omitempty"`
	}

	// Cron holds the declared cron jobs keyed by group then job name.
	Cron struct {
		Groups map[string]map[string]CronJob `yaml:"groups" validate:"dive,dive"`
	}

	// Modules configures config.php regeneration.
	Modules struct {
		// ConfigFile is the deployment config file, relative to the root
		ConfigFile string `yaml:"config_file,omitempty"`

		// Paths are globs, relative to the root, matching module.xml files
		Paths []string `yaml:"paths,omitempty"`
	}

	// Debug configures the debug dumper.
	Debug struct {
		Format          string `yaml:"format,omitempty"`
		BacktraceFormat string `yaml:"backtrace_format,omitempty"`
		OutputDir       string `yaml:"output_dir,omitempty"`
		MaxDepth        int    `yaml:"max_depth,omitempty" validate:"gte=0"`
	}

	// Config represents the cleverage-tools configuration file.
	Config struct {
		// Root is the platform root directory. Relative paths are resolved
		// against the directory holding the configuration file.
		Root string `yaml:"root"`

		// Connections are the named database connections
		Connections map[string]Connection `yaml:"connections" validate:"dive"`

		Compile Compile `yaml:"compile"`
		Indexer Indexer `yaml:"indexer"`
		Banner  Banner  `yaml:"banner"`
		Web     Web     `yaml:"web"`
		Cron    Cron    `yaml:"cron"`
		Modules Modules `yaml:"modules"`
		Debug   Debug   `yaml:"debug"`
	}
)

// LoadConfig parses a configuration from the provided io.Reader.
//
// The YAML document is decoded, defaults are applied to every unset value and
// the result is validated. Validation failures name the offending field.
//
// Example:
//
//	yamlData := `
//	root: /var/www/magento
//	connections:
//	  default:
//	    driver: mysql
//	    dsn: magento:secret@tcp(localhost:3306)/magento
//	`
//
//	cfg, err := config.LoadConfig(strings.NewReader(yamlData))
//	if err != nil {
//		panic(err)
//	}
//
//	fmt.Println(cfg.Connections["default"].Driver)
func LoadConfig(r io.Reader) (*Config, error) {
	var cfg Config
	if err := yaml.NewDecoder(r).Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, errors.Wrap(err, "failed to unmarshal config")
	}

	cfg.applyDefaults()

	if err := validator.New(validator.WithRequiredStructEnabled()).Struct(&cfg); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	return &cfg, nil
}

// LoadConfigFile loads a configuration from the specified file path.
// A relative Root is resolved against the file's directory.
//
// Example:
//
//	cfg, err := config.LoadConfigFile("cleverage-tools.yaml")
//	if err != nil {
//		log.Fatal("Failed to load config:", err)
//	}
func LoadConfigFile(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open file: %s", path)
	}
	defer func() { _ = f.Close() }()

	cfg, err := LoadConfig(f)
	if err != nil {
		return nil, err
	}

	if !filepath.IsAbs(cfg.Root) {
		cfg.Root = filepath.Join(filepath.Dir(path), cfg.Root)
	}

	return cfg, nil
}

// Connection returns the named connection, falling back to the default
// connection name when name is empty.
func (c *Config) Connection(name string) (Connection, error) {
	if name == "" {
		name = consts.DefaultConnection
	}

	conn, ok := c.Connections[name]
	if !ok {
		return Connection{}, errors.Errorf("unknown connection: %s", name)
	}

	return conn, nil
}

// Path resolves a path relative to the platform root.
func (c *Config) Path(elem ...string) string {
	if len(elem) > 0 && filepath.IsAbs(elem[0]) {
		return filepath.Join(elem...)
	}

	return filepath.Join(append([]string{c.Root}, elem...)...)
}

func (c *Config) applyDefaults() {
	if c.Root == "" {
		c.Root = "."
	}

	if len(c.Compile.Command) == 0 {
		c.Compile.Command = slices.Clone(consts.CompileCommand)
	}

	if len(c.Indexer.Command) == 0 {
		c.Indexer.Command = slices.Clone(consts.ReindexCommand)
	}
	if c.Indexer.Connection == "" {
		c.Indexer.Connection = consts.DefaultConnection
	}

	if c.Web.Listen == "" {
		c.Web.Listen = consts.DefaultListen
	}
	if c.Web.AdminPath == "" {
		c.Web.AdminPath = consts.DefaultAdminPath
	}

	if c.Modules.ConfigFile == "" {
		c.Modules.ConfigFile = consts.ModulesConfigFile
	}
	if len(c.Modules.Paths) == 0 {
		c.Modules.Paths = slices.Clone(consts.ModulePaths)
	}

	if c.Debug.Format == "" {
		c.Debug.Format = consts.DebugFormatDump
	}
	if c.Debug.BacktraceFormat == "" {
		c.Debug.BacktraceFormat = consts.DebugFormatBacktrace
	}
	if c.Debug.OutputDir == "" {
		c.Debug.OutputDir = consts.DebugOutputDir
	}
	if c.Debug.MaxDepth == 0 {
		c.Debug.MaxDepth = consts.DebugMaxDepth
	}

	for group, jobs := range c.Cron.Groups {
		for name, job := range jobs {
			if job.SQL != "" && job.Connection == "" {
				job.Connection = consts.DefaultConnection
				c.Cron.Groups[group][name] = job
			}
		}
	}
}
