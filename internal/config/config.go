package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/harrison/pathfind/internal/catalog"
	"github.com/harrison/pathfind/internal/logger"
	"github.com/harrison/pathfind/internal/models"
)

// DatabasePlaceholder is replaced by the database name in Root.
const DatabasePlaceholder = "{database}"

// Config represents pathfind configuration options
type Config struct {
	// Root is the top of the on-disk hierarchy; may contain {database}
	Root string `yaml:"root"`

	// CatalogDir holds one <database>.db SQLite catalog per database
	CatalogDir string `yaml:"catalog_dir"`

	// Databases is the ordered list of sources searched, first match wins
	Databases []string `yaml:"databases"`

	// HierarchyTemplate is the ':'-separated directory template below Root
	HierarchyTemplate string `yaml:"hierarchy_template"`

	// LogLevel sets the console and file log verbosity (trace, debug, info, warn, error)
	LogLevel string `yaml:"log_level"`

	// LogDir receives per-run log files; empty disables file logging
	LogDir string `yaml:"log_dir"`

	// ArchiveFormat selects the archive compressor (gzip, zstd)
	ArchiveFormat string `yaml:"archive_format"`

	// LockTimeout bounds waits on link, archive and stats locks (0 = wait forever)
	LockTimeout time.Duration `yaml:"lock_timeout"`

	// FileTypes adds or replaces file types per mode: mode -> type -> regexp
	FileTypes map[string]map[string]string `yaml:"file_types"`

	// RoleSuffixes adds or replaces producer subdirectory suffixes
	RoleSuffixes map[string]string `yaml:"role_suffixes"`
}

// DefaultConfig returns a Config with default values
func DefaultConfig() *Config {
	return &Config{
		Root:              "/lustre/scratch/pathogen/" + DatabasePlaceholder + "/seq-pipelines",
		CatalogDir:        "catalogs",
		Databases:         []string{"pathogen_prok_track", "pathogen_euk_track", "pathogen_virus_track", "pathogen_helminth_track"},
		HierarchyTemplate: catalog.DefaultHierarchyTemplate,
		LogLevel:          "info",
		LogDir:            "",
		ArchiveFormat:     "gzip",
		LockTimeout:       5 * time.Minute,
	}
}

// LoadConfig loads configuration from the specified file path.
// A missing file yields the defaults; a malformed one is an error.
// Relative catalog_dir and log_dir resolve against the file's directory.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()
	base := filepath.Dir(path)

	if _, err := os.Stat(path); os.IsNotExist(err) {
		cfg.resolvePaths(base)
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Durations are strings in YAML
	type yamlConfig struct {
		Root              string                       `yaml:"root"`
		CatalogDir        string                       `yaml:"catalog_dir"`
		Databases         []string                     `yaml:"databases"`
		HierarchyTemplate string                       `yaml:"hierarchy_template"`
		LogLevel          string                       `yaml:"log_level"`
		LogDir            string                       `yaml:"log_dir"`
		ArchiveFormat     string                       `yaml:"archive_format"`
		LockTimeout       string                       `yaml:"lock_timeout"`
		FileTypes         map[string]map[string]string `yaml:"file_types"`
		RoleSuffixes      map[string]string            `yaml:"role_suffixes"`
	}

	var yamlCfg yamlConfig
	if err := yaml.Unmarshal(data, &yamlCfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if yamlCfg.Root != "" {
		cfg.Root = yamlCfg.Root
	}
	if yamlCfg.CatalogDir != "" {
		cfg.CatalogDir = yamlCfg.CatalogDir
	}
	if len(yamlCfg.Databases) > 0 {
		cfg.Databases = yamlCfg.Databases
	}
	if yamlCfg.HierarchyTemplate != "" {
		cfg.HierarchyTemplate = yamlCfg.HierarchyTemplate
	}
	if yamlCfg.LogLevel != "" {
		cfg.LogLevel = yamlCfg.LogLevel
	}
	if yamlCfg.LogDir != "" {
		cfg.LogDir = yamlCfg.LogDir
	}
	if yamlCfg.ArchiveFormat != "" {
		cfg.ArchiveFormat = yamlCfg.ArchiveFormat
	}
	if yamlCfg.LockTimeout != "" {
		timeout, err := time.ParseDuration(yamlCfg.LockTimeout)
		if err != nil {
			return nil, fmt.Errorf("invalid lock_timeout format %q: %w", yamlCfg.LockTimeout, err)
		}
		cfg.LockTimeout = timeout
	}
	cfg.FileTypes = yamlCfg.FileTypes
	cfg.RoleSuffixes = yamlCfg.RoleSuffixes

	cfg.resolvePaths(base)
	return cfg, nil
}

func (c *Config) resolvePaths(base string) {
	if c.CatalogDir != "" && !filepath.IsAbs(c.CatalogDir) {
		c.CatalogDir = filepath.Join(base, c.CatalogDir)
	}
	if c.LogDir != "" && !filepath.IsAbs(c.LogDir) {
		c.LogDir = filepath.Join(base, c.LogDir)
	}
}

// MergeWithFlags merges CLI flags into the configuration.
// Non-nil flag values override configuration values.
func (c *Config) MergeWithFlags(root *string, catalogDir *string, databases *[]string, logLevel *string, logDir *string, archiveFormat *string) {
	if root != nil {
		c.Root = *root
	}
	if catalogDir != nil {
		c.CatalogDir = *catalogDir
	}
	if databases != nil {
		c.Databases = *databases
	}
	if logLevel != nil {
		c.LogLevel = *logLevel
	}
	if logDir != nil {
		c.LogDir = *logDir
	}
	if archiveFormat != nil {
		c.ArchiveFormat = *archiveFormat
	}
}

// Validate validates the configuration values
func (c *Config) Validate() error {
	if c.Root == "" {
		return fmt.Errorf("root cannot be empty")
	}
	if c.CatalogDir == "" {
		return fmt.Errorf("catalog_dir cannot be empty")
	}

	if len(c.Databases) == 0 {
		return fmt.Errorf("databases must list at least one database")
	}
	seen := make(map[string]bool, len(c.Databases))
	for _, db := range c.Databases {
		if db == "" || strings.ContainsAny(db, `/\`) || db == "." || db == ".." {
			return fmt.Errorf("invalid database name %q", db)
		}
		if seen[db] {
			return fmt.Errorf("database %q is listed twice", db)
		}
		seen[db] = true
	}

	if strings.TrimSpace(c.HierarchyTemplate) == "" {
		return fmt.Errorf("hierarchy_template cannot be empty")
	}

	if !logger.ValidLevel(c.LogLevel) {
		return fmt.Errorf("invalid log_level %q, must be one of: trace, debug, info, warn, error", c.LogLevel)
	}

	if c.ArchiveFormat != "gzip" && c.ArchiveFormat != "zstd" {
		return fmt.Errorf("invalid archive_format %q, must be one of: gzip, zstd", c.ArchiveFormat)
	}

	if c.LockTimeout < 0 {
		return fmt.Errorf("lock_timeout must be >= 0, got %v", c.LockTimeout)
	}

	for mode, types := range c.FileTypes {
		if _, err := models.ModeByName(mode); err != nil {
			return fmt.Errorf("file_types: %w", err)
		}
		for name, pattern := range types {
			if name == "" {
				return fmt.Errorf("file_types.%s: empty file type name", mode)
			}
			if _, err := regexp.Compile(pattern); err != nil {
				return fmt.Errorf("file_types.%s.%s: invalid pattern %q: %w", mode, name, pattern, err)
			}
		}
	}

	for role, suffix := range c.RoleSuffixes {
		if role == "" || suffix == "" {
			return fmt.Errorf("role_suffixes: empty role or suffix (%q: %q)", role, suffix)
		}
	}

	return nil
}

// Mode returns a built-in mode with this configuration's overrides applied.
func (c *Config) Mode(name string) (models.Mode, error) {
	mode, err := models.ModeByName(name)
	if err != nil {
		return models.Mode{}, err
	}
	if types := c.FileTypes[name]; len(types) > 0 {
		mode = mode.WithFileTypes(types)
	}
	if len(c.RoleSuffixes) > 0 {
		mode = mode.WithRoleSuffixes(c.RoleSuffixes)
	}
	return mode, nil
}

// ExpandRoot replaces every {database} in root with database.
func ExpandRoot(root, database string) string {
	return strings.ReplaceAll(root, DatabasePlaceholder, database)
}

// HasDatabase reports whether database is a configured source.
func (c *Config) HasDatabase(database string) bool {
	for _, db := range c.Databases {
		if db == database {
			return true
		}
	}
	return false
}
