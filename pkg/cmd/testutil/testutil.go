package testutil

import (
	"database/sql"
	"os"
	"path/filepath"
	"testing"

	"github.com/cleverage/tools/pkg/config"
	"github.com/cleverage/tools/pkg/consts"
	"github.com/cleverage/tools/pkg/db"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	_ "modernc.org/sqlite"
)

// PlatformFixture represents a test platform root with its configuration
type PlatformFixture struct {
	Dir      string
	Config   *config.Config
	Registry *db.Registry
	t        *testing.T
}

// TestPlatform creates an isolated platform root with a default configuration
// and a SQLite default connection
func TestPlatform(t *testing.T) *PlatformFixture {
	t.Helper()

	dir := t.TempDir()

	fixture := &PlatformFixture{Dir: dir, t: t}
	fixture.writeConfig(map[string]any{
		"root": ".",
		"connections": map[string]any{
			consts.DefaultConnection: map[string]any{
				"driver": db.DriverSQLite,
				"dsn":    filepath.Join(dir, "platform.db"),
			},
		},
	})

	return fixture
}

// WithConfig replaces the configuration with raw, keeping the default
// connection unless raw declares connections
func (p *PlatformFixture) WithConfig(raw map[string]any) *PlatformFixture {
	p.t.Helper()

	if _, ok := raw["connections"]; !ok {
		raw["connections"] = map[string]any{
			consts.DefaultConnection: map[string]any{
				"driver": db.DriverSQLite,
				"dsn":    filepath.Join(p.Dir, "platform.db"),
			},
		}
	}
	if _, ok := raw["root"]; !ok {
		raw["root"] = "."
	}

	p.writeConfig(raw)
	return p
}

// WithSQL runs statements on the default connection
func (p *PlatformFixture) WithSQL(statements string) *PlatformFixture {
	p.t.Helper()

	handle, err := sql.Open("sqlite", filepath.Join(p.Dir, "platform.db"))
	require.NoError(p.t, err, "Failed to open platform database")
	defer func() { _ = handle.Close() }()

	_, err = handle.Exec(statements)
	require.NoError(p.t, err, "Failed to run fixture statements")

	return p
}

// WithFile writes content to path, relative to the platform root
func (p *PlatformFixture) WithFile(path, content string) *PlatformFixture {
	p.t.Helper()

	fullPath := filepath.Join(p.Dir, path)
	err := os.MkdirAll(filepath.Dir(fullPath), consts.ModeDir)
	require.NoError(p.t, err, "Failed to create directory for %s", path)

	err = os.WriteFile(fullPath, []byte(content), consts.ModeFile)
	require.NoError(p.t, err, "Failed to write file: %s", path)

	return p
}

// WithModule declares a module in app/code with the given sequence
func (p *PlatformFixture) WithModule(vendor, name string, sequence ...string) *PlatformFixture {
	p.t.Helper()

	xml := `<config><module name="` + vendor + "_" + name + `"><sequence>`
	for _, dep := range sequence {
		xml += `<module name="` + dep + `"/>`
	}
	xml += "</sequence></module></config>\n"

	return p.WithFile(filepath.Join("app", "code", vendor, name, "etc", "module.xml"), xml)
}

// ConfigPath returns the path to the cleverage-tools.yaml file
func (p *PlatformFixture) ConfigPath() string {
	return filepath.Join(p.Dir, consts.ConfigFile)
}

// ReadFile returns the content of path, relative to the platform root
func (p *PlatformFixture) ReadFile(path string) string {
	p.t.Helper()

	data, err := os.ReadFile(filepath.Join(p.Dir, path))
	require.NoError(p.t, err, "Failed to read file: %s", path)

	return string(data)
}

// writeConfig writes raw as the configuration file and reloads Config and
// Registry from it
func (p *PlatformFixture) writeConfig(raw map[string]any) {
	p.t.Helper()

	data, err := yaml.Marshal(raw)
	require.NoError(p.t, err, "Failed to marshal config")

	err = os.WriteFile(p.ConfigPath(), data, consts.ModeFile)
	require.NoError(p.t, err, "Failed to write config file")

	cfg, err := config.LoadConfigFile(p.ConfigPath())
	require.NoError(p.t, err, "Failed to load config file")

	if p.Registry != nil {
		_ = p.Registry.Close()
	}

	registry := db.NewRegistry(cfg.Connections)
	p.t.Cleanup(func() { _ = registry.Close() })

	p.Config = cfg
	p.Registry = registry
}
