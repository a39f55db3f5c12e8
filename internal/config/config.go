// Package config loads the collector's YAML configuration and resolves the
// directories it works with.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// CollectionConfig describes where the partitioned tree lives.
// The root is <base_dir>/<vendor>/<app>/<subpath> unless Root is set.
type CollectionConfig struct {
	Vendor  string `yaml:"vendor"`
	App     string `yaml:"app"`
	Subpath string `yaml:"subpath"`
	Root    string `yaml:"root,omitempty"`
}

// JournalConfig represents link journal configuration
type JournalConfig struct {
	// Enabled turns the SQLite link journal on
	Enabled bool `yaml:"enabled"`

	// DBPath is the journal database; empty means <app dir>/journal.db
	DBPath string `yaml:"db_path,omitempty"`
}

// Config represents collector configuration options
type Config struct {
	// BaseDir is the platform data directory (LocalLow); empty means detect
	BaseDir string `yaml:"base_dir,omitempty"`

	// SourceDir is the watched VRChat directory; empty means <base_dir>/VRChat/VRChat
	SourceDir string `yaml:"source_dir,omitempty"`

	Collection CollectionConfig `yaml:"collection"`

	// Interval is the pause between steps
	Interval time.Duration `yaml:"interval"`

	// LogLevel sets the logging verbosity (trace, debug, info, warn, error)
	LogLevel string `yaml:"log_level"`

	// LogDir is where run logs go; empty means <app dir>/diagnostics
	LogDir string `yaml:"log_dir,omitempty"`

	Journal JournalConfig `yaml:"journal"`

	// Watch runs a step early when a new log appears
	Watch bool `yaml:"watch"`
}

// diagnosticsDir holds run logs. It must not fold to the collection subpath
// on case-insensitive filesystems ("logs" would be "Logs" on NTFS).
const diagnosticsDir = "diagnostics"

// DefaultConfig returns a Config with sensible default values
func DefaultConfig() *Config {
	return &Config{
		Collection: CollectionConfig{
			Vendor:  "KOBA789",
			App:     "VRCLogUnrotate",
			Subpath: "Logs",
		},
		Interval: 60 * time.Second,
		LogLevel: "info",
		Journal: JournalConfig{
			Enabled: true,
		},
		Watch: false,
	}
}

// yamlConfig mirrors Config with durations as strings.
type yamlConfig struct {
	BaseDir    string           `yaml:"base_dir,omitempty"`
	SourceDir  string           `yaml:"source_dir,omitempty"`
	Collection CollectionConfig `yaml:"collection"`
	Interval   string           `yaml:"interval"`
	LogLevel   string           `yaml:"log_level"`
	LogDir     string           `yaml:"log_dir,omitempty"`
	Journal    JournalConfig    `yaml:"journal"`
	Watch      bool             `yaml:"watch"`
}

// LoadConfig loads configuration from the specified file path
// If the file doesn't exist, returns default configuration without error
// If the file exists but is malformed, returns an error
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var yamlCfg yamlConfig
	if err := yaml.Unmarshal(data, &yamlCfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	// Apply non-zero values from file (merging with defaults)
	if yamlCfg.BaseDir != "" {
		cfg.BaseDir = yamlCfg.BaseDir
	}
	if yamlCfg.SourceDir != "" {
		cfg.SourceDir = yamlCfg.SourceDir
	}
	if yamlCfg.Collection.Vendor != "" {
		cfg.Collection.Vendor = yamlCfg.Collection.Vendor
	}
	if yamlCfg.Collection.App != "" {
		cfg.Collection.App = yamlCfg.Collection.App
	}
	if yamlCfg.Collection.Subpath != "" {
		cfg.Collection.Subpath = yamlCfg.Collection.Subpath
	}
	if yamlCfg.Collection.Root != "" {
		cfg.Collection.Root = yamlCfg.Collection.Root
	}
	if yamlCfg.Interval != "" {
		interval, err := time.ParseDuration(yamlCfg.Interval)
		if err != nil {
			return nil, fmt.Errorf("invalid interval format %q: %w", yamlCfg.Interval, err)
		}
		cfg.Interval = interval
	}
	if yamlCfg.LogLevel != "" {
		cfg.LogLevel = normalizeLogLevel(yamlCfg.LogLevel)
	}
	if yamlCfg.LogDir != "" {
		cfg.LogDir = yamlCfg.LogDir
	}
	if yamlCfg.Watch {
		cfg.Watch = true
	}

	// journal.enabled defaults to true, so only an explicit key may turn it off
	var rawMap map[string]interface{}
	if err := yaml.Unmarshal(data, &rawMap); err == nil {
		if section, ok := rawMap["journal"].(map[string]interface{}); ok {
			if _, exists := section["enabled"]; exists {
				cfg.Journal.Enabled = yamlCfg.Journal.Enabled
			}
			if _, exists := section["db_path"]; exists {
				cfg.Journal.DBPath = yamlCfg.Journal.DBPath
			}
		}
	}

	return cfg, nil
}

// MergeWithFlags merges CLI flags into the configuration
// Non-nil flag values override configuration values
func (c *Config) MergeWithFlags(baseDir, sourceDir, collectionRoot *string, interval *time.Duration, logLevel *string, watch *bool) {
	if baseDir != nil {
		c.BaseDir = *baseDir
	}
	if sourceDir != nil {
		c.SourceDir = *sourceDir
	}
	if collectionRoot != nil {
		c.Collection.Root = *collectionRoot
	}
	if interval != nil {
		c.Interval = *interval
	}
	if logLevel != nil {
		c.LogLevel = normalizeLogLevel(*logLevel)
	}
	if watch != nil {
		c.Watch = *watch
	}
}

// normalizeLogLevel matches the logger's case and whitespace handling so
// "INFO" and " Info " validate the same as "info".
func normalizeLogLevel(level string) string {
	return strings.ToLower(strings.TrimSpace(level))
}

// Validate validates the configuration values
func (c *Config) Validate() error {
	if c.Interval <= 0 {
		return fmt.Errorf("interval must be > 0, got %v", c.Interval)
	}

	validLevels := map[string]bool{
		"trace": true,
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLevels[c.LogLevel] {
		return fmt.Errorf("invalid log_level %q, must be one of: trace, debug, info, warn, error", c.LogLevel)
	}

	if c.Collection.Vendor == "" || c.Collection.App == "" {
		return fmt.Errorf("collection.vendor and collection.app cannot be empty")
	}
	if c.Collection.Root == "" && c.Collection.Subpath == "" {
		return fmt.Errorf("collection.subpath cannot be empty when collection.root is not set")
	}

	return nil
}

// Marshal renders the configuration as YAML in the same shape LoadConfig reads.
func (c *Config) Marshal() ([]byte, error) {
	out := yamlConfig{
		BaseDir:    c.BaseDir,
		SourceDir:  c.SourceDir,
		Collection: c.Collection,
		Interval:   c.Interval.String(),
		LogLevel:   c.LogLevel,
		LogDir:     c.LogDir,
		Journal:    c.Journal,
		Watch:      c.Watch,
	}
	return yaml.Marshal(out)
}

// Paths are the concrete directories derived from a Config.
type Paths struct {
	BaseDir        string
	SourceDir      string
	AppDir         string // <base_dir>/<vendor>/<app>
	CollectionRoot string
	LogDir         string
	JournalPath    string // empty when the journal is disabled
}

// ResolvePaths fills in every directory left empty in the configuration.
// An unresolvable base directory is a setup error.
func (c *Config) ResolvePaths() (*Paths, error) {
	base := c.BaseDir
	if base == "" {
		var err error
		base, err = ResolveBaseDir()
		if err != nil {
			return nil, err
		}
	}
	return c.resolvePathsFrom(filepath.Clean(base)), nil
}

func (c *Config) resolvePathsFrom(base string) *Paths {
	p := &Paths{
		BaseDir: base,
		AppDir:  filepath.Join(base, c.Collection.Vendor, c.Collection.App),
	}

	p.SourceDir = c.SourceDir
	if p.SourceDir == "" {
		p.SourceDir = filepath.Join(base, "VRChat", "VRChat")
	}

	p.CollectionRoot = c.Collection.Root
	if p.CollectionRoot == "" {
		p.CollectionRoot = filepath.Join(p.AppDir, c.Collection.Subpath)
	}

	p.LogDir = c.LogDir
	if p.LogDir == "" {
		p.LogDir = filepath.Join(p.AppDir, diagnosticsDir)
	}

	if c.Journal.Enabled {
		p.JournalPath = c.Journal.DBPath
		if p.JournalPath == "" {
			p.JournalPath = filepath.Join(p.AppDir, "journal.db")
		}
	}

	return p
}
