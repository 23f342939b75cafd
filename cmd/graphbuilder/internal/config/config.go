// Package config provides the configuration of the graphbuilder CLI.
//
// Configuration is stored under os.UserConfigDir()/graphbuilder/:
//
//	~/Library/Application Support/graphbuilder/   (macOS)
//	~/.config/graphbuilder/                       (Linux)
//	%AppData%/graphbuilder/                       (Windows)
//
// Layout:
//
//	graphbuilder/
//	├── config.yaml        # settings, see Config
//	└── workspace/         # badger database holding the edited graph
//
// GRAPHBUILDER_CONFIG_DIR replaces the whole directory.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"

	"github.com/goccy/go-yaml"

	"github.com/auftraggeber/WHZ-graph-builder/pkg/storage"
)

const (
	// appDir is the directory name under os.UserConfigDir().
	appDir = "graphbuilder"

	// configFile is the settings file inside the config directory.
	configFile = "config.yaml"

	// workspaceDir is the default workspace database directory.
	workspaceDir = "workspace"

	// EnvDir overrides the config directory.
	EnvDir = "GRAPHBUILDER_CONFIG_DIR"

	// DefaultGraph names the graph edited when none is configured.
	DefaultGraph = "default"
)

// ErrUnknownKey is returned by Get and Set for keys not in Keys.
var ErrUnknownKey = errors.New("unknown config key")

// Config holds the CLI settings.
type Config struct {
	// Dir is the root configuration directory.
	Dir string `yaml:"-"`

	// Workspace is the workspace database directory. Empty means
	// Dir/workspace.
	Workspace string `yaml:"workspace,omitempty"`

	// Graph names the edited graph inside the workspace.
	Graph string `yaml:"graph,omitempty"`

	// Export is the default location for graph export and import, either a
	// local directory or s3://bucket/prefix.
	Export string `yaml:"export,omitempty"`

	Log LogConfig        `yaml:"log,omitempty"`
	S3  storage.S3Config `yaml:"s3,omitempty"`
}

// LogConfig selects the slog handler.
type LogConfig struct {
	Level  string `yaml:"level,omitempty"`
	Format string `yaml:"format,omitempty"`
}

// Load loads the configuration from GRAPHBUILDER_CONFIG_DIR or the default
// location.
func Load() (*Config, error) {
	if dir := os.Getenv(EnvDir); dir != "" {
		return LoadFrom(dir)
	}
	base, err := os.UserConfigDir()
	if err != nil {
		return nil, fmt.Errorf("cannot determine config directory: %w", err)
	}
	return LoadFrom(filepath.Join(base, appDir))
}

// LoadFrom loads the configuration from a specific root directory. A missing
// config file yields the defaults.
func LoadFrom(dir string) (*Config, error) {
	cfg := &Config{Dir: dir}
	data, err := os.ReadFile(cfg.Path())
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", cfg.Path(), err)
	}
	return cfg, nil
}

// Save writes the configuration to Path, creating Dir if needed.
func (c *Config) Save() error {
	if err := os.MkdirAll(c.Dir, 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	// The file may hold S3 credentials.
	if err := os.WriteFile(c.Path(), data, 0o600); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Path returns the config file path.
func (c *Config) Path() string {
	return filepath.Join(c.Dir, configFile)
}

// WorkspaceDir returns the workspace database directory.
func (c *Config) WorkspaceDir() string {
	if c.Workspace != "" {
		return c.Workspace
	}
	return filepath.Join(c.Dir, workspaceDir)
}

// GraphName returns the edited graph's name.
func (c *Config) GraphName() string {
	if c.Graph != "" {
		return c.Graph
	}
	return DefaultGraph
}

// ExportLocation returns the default export location, the current directory
// when none is configured.
func (c *Config) ExportLocation() string {
	if c.Export != "" {
		return c.Export
	}
	return "."
}

// field binds a dotted key to a Config field.
type field struct {
	get func(*Config) string
	set func(*Config, string) error
}

func str(p func(*Config) *string) field {
	return field{
		get: func(c *Config) string { return *p(c) },
		set: func(c *Config, v string) error { *p(c) = v; return nil },
	}
}

var fields = map[string]field{
	"workspace":            str(func(c *Config) *string { return &c.Workspace }),
	"graph":                str(func(c *Config) *string { return &c.Graph }),
	"export":               str(func(c *Config) *string { return &c.Export }),
	"log.level":            str(func(c *Config) *string { return &c.Log.Level }),
	"log.format":           str(func(c *Config) *string { return &c.Log.Format }),
	"s3.endpoint":          str(func(c *Config) *string { return &c.S3.Endpoint }),
	"s3.region":            str(func(c *Config) *string { return &c.S3.Region }),
	"s3.access_key_id":     str(func(c *Config) *string { return &c.S3.AccessKeyID }),
	"s3.secret_access_key": str(func(c *Config) *string { return &c.S3.SecretAccessKey }),
	"s3.path_style": {
		get: func(c *Config) string { return strconv.FormatBool(c.S3.PathStyle) },
		set: func(c *Config, v string) error {
			b, err := strconv.ParseBool(v)
			if err != nil {
				return fmt.Errorf("s3.path_style: %w", err)
			}
			c.S3.PathStyle = b
			return nil
		},
	},
}

// Keys returns the settable keys, sorted.
func Keys() []string {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// Get returns the value stored under a dotted key.
func (c *Config) Get(key string) (string, error) {
	f, ok := fields[key]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownKey, key)
	}
	return f.get(c), nil
}

// Set stores value under a dotted key. It does not save.
func (c *Config) Set(key, value string) error {
	f, ok := fields[key]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownKey, key)
	}
	return f.set(c, value)
}
