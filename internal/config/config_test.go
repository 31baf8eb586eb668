package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/harrison/pathfind/internal/models"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}
	return path
}

// TestDefaultConfig verifies default configuration values
func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if !strings.Contains(cfg.Root, DatabasePlaceholder) {
		t.Errorf("default root %q should contain %s", cfg.Root, DatabasePlaceholder)
	}
	if len(cfg.Databases) == 0 {
		t.Error("default databases should not be empty")
	}
	if cfg.LogLevel != "info" {
		t.Errorf("Expected LogLevel=info, got %s", cfg.LogLevel)
	}
	if cfg.LogDir != "" {
		t.Errorf("file logging should be off by default, got %q", cfg.LogDir)
	}
	if cfg.ArchiveFormat != "gzip" {
		t.Errorf("Expected ArchiveFormat=gzip, got %s", cfg.ArchiveFormat)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

// TestLoadConfigValidFile tests loading a valid YAML config file
func TestLoadConfigValidFile(t *testing.T) {
	path := writeConfig(t, `
root: /data/{database}/seq-pipelines
catalog_dir: /srv/catalogs
databases: [pathogen_prok_track, pathogen_rnd_track]
hierarchy_template: "study:lane"
log_level: debug
log_dir: logs
archive_format: zstd
lock_timeout: 30s
file_types:
  pathfind:
    vcf: '\.vcf\.gz$'
role_suffixes:
  megahit_assembly: _megahit.fa
`)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if cfg.Root != "/data/{database}/seq-pipelines" {
		t.Errorf("Root = %q", cfg.Root)
	}
	if cfg.CatalogDir != "/srv/catalogs" {
		t.Errorf("CatalogDir = %q", cfg.CatalogDir)
	}
	if strings.Join(cfg.Databases, ",") != "pathogen_prok_track,pathogen_rnd_track" {
		t.Errorf("Databases = %v", cfg.Databases)
	}
	if cfg.HierarchyTemplate != "study:lane" {
		t.Errorf("HierarchyTemplate = %q", cfg.HierarchyTemplate)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel = %q", cfg.LogLevel)
	}
	if cfg.LogDir != filepath.Join(filepath.Dir(path), "logs") {
		t.Errorf("relative log_dir should resolve against the config dir, got %q", cfg.LogDir)
	}
	if cfg.ArchiveFormat != "zstd" {
		t.Errorf("ArchiveFormat = %q", cfg.ArchiveFormat)
	}
	if cfg.LockTimeout != 30*time.Second {
		t.Errorf("LockTimeout = %v", cfg.LockTimeout)
	}
	if cfg.FileTypes["pathfind"]["vcf"] != `\.vcf\.gz$` {
		t.Errorf("FileTypes = %v", cfg.FileTypes)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() error = %v", err)
	}
}

// TestLoadConfigFileNotExists tests fallback to defaults when file doesn't exist
func TestLoadConfigFileNotExists(t *testing.T) {
	dir := t.TempDir()
	cfg, err := LoadConfig(filepath.Join(dir, "missing.yaml"))
	if err != nil {
		t.Fatalf("LoadConfig() should not error for a missing file: %v", err)
	}
	if cfg.CatalogDir != filepath.Join(dir, "catalogs") {
		t.Errorf("CatalogDir = %q, want it under %s", cfg.CatalogDir, dir)
	}
}

// TestLoadConfigInvalidYAML tests error handling for malformed YAML
func TestLoadConfigInvalidYAML(t *testing.T) {
	path := writeConfig(t, "databases: [unterminated\n")
	if _, err := LoadConfig(path); err == nil {
		t.Error("Expected error for invalid YAML")
	}
}

func TestLoadConfigInvalidLockTimeout(t *testing.T) {
	path := writeConfig(t, "lock_timeout: soon\n")
	_, err := LoadConfig(path)
	if err == nil || !strings.Contains(err.Error(), "lock_timeout") {
		t.Errorf("expected lock_timeout error, got %v", err)
	}
}

// TestEmptyConfigFile tests loading an empty config file
func TestEmptyConfigFile(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, ""))
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.LogLevel != "info" || cfg.ArchiveFormat != "gzip" {
		t.Errorf("empty file should keep defaults, got %+v", cfg)
	}
}

// TestMergeWithFlags tests CLI flag precedence over config values
func TestMergeWithFlags(t *testing.T) {
	cfg := DefaultConfig()

	root := "/scratch/{database}"
	dbs := []string{"pathogen_euk_track"}
	level := "warn"
	logDir := ""
	cfg.MergeWithFlags(&root, nil, &dbs, &level, &logDir, nil)

	if cfg.Root != root {
		t.Errorf("Root = %q", cfg.Root)
	}
	if len(cfg.Databases) != 1 || cfg.Databases[0] != "pathogen_euk_track" {
		t.Errorf("Databases = %v", cfg.Databases)
	}
	if cfg.LogLevel != "warn" {
		t.Errorf("LogLevel = %q", cfg.LogLevel)
	}
	if cfg.CatalogDir != "catalogs" || cfg.ArchiveFormat != "gzip" {
		t.Error("nil flags must not override config values")
	}
}

// TestConfigValidation tests validation of config values
func TestConfigValidation(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr string
	}{
		{"empty root", func(c *Config) { c.Root = "" }, "root"},
		{"no databases", func(c *Config) { c.Databases = nil }, "at least one database"},
		{"duplicate database", func(c *Config) { c.Databases = []string{"a", "a"} }, "listed twice"},
		{"database with slash", func(c *Config) { c.Databases = []string{"../etc"} }, "invalid database name"},
		{"empty template", func(c *Config) { c.HierarchyTemplate = " " }, "hierarchy_template"},
		{"bad log level", func(c *Config) { c.LogLevel = "verbose" }, "log_level"},
		{"bad archive format", func(c *Config) { c.ArchiveFormat = "bzip2" }, "archive_format"},
		{"negative lock timeout", func(c *Config) { c.LockTimeout = -time.Second }, "lock_timeout"},
		{"unknown mode", func(c *Config) {
			c.FileTypes = map[string]map[string]string{"annotationfind": {"gff": `\.gff$`}}
		}, "file_types"},
		{"bad pattern", func(c *Config) {
			c.FileTypes = map[string]map[string]string{"pathfind": {"bad": `(`}}
		}, "invalid pattern"},
		{"empty suffix", func(c *Config) { c.RoleSuffixes = map[string]string{"x_assembly": ""} }, "role_suffixes"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q should mention %q", err, tt.wantErr)
			}
		})
	}
}

func TestConfigMode(t *testing.T) {
	cfg := DefaultConfig()
	cfg.FileTypes = map[string]map[string]string{"pathfind": {"vcf": `\.vcf\.gz$`}}
	cfg.RoleSuffixes = map[string]string{"megahit_assembly": "_megahit.fa"}

	pf, err := cfg.Mode(models.ModePathfind)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := pf.Pattern("vcf"); err != nil {
		t.Errorf("configured file type missing: %v", err)
	}
	if _, err := pf.Pattern("fastq"); err != nil {
		t.Errorf("built-in file type lost: %v", err)
	}

	asm, err := cfg.Mode(models.ModeAssemblyfind)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := asm.Pattern("vcf"); err == nil {
		t.Error("file types are per mode")
	}
	if s, ok := asm.RoleSuffix("megahit_assembly"); !ok || s != "_megahit.fa" {
		t.Errorf("role suffix = %q, %v", s, ok)
	}

	if _, err := cfg.Mode("nope"); err == nil {
		t.Error("expected error for unknown mode")
	}
}

func TestExpandRootAndHasDatabase(t *testing.T) {
	cfg := DefaultConfig()

	if got := ExpandRoot("/data/{database}/seq-pipelines", "pathogen_prok_track"); got != "/data/pathogen_prok_track/seq-pipelines" {
		t.Errorf("ExpandRoot() = %q", got)
	}
	if !cfg.HasDatabase("pathogen_euk_track") || cfg.HasDatabase("pathogen_rnd_track") {
		t.Error("HasDatabase() mismatch")
	}
}

// TestGetPathfindHome tests PATHFIND_HOME precedence and the cwd fallback
func TestGetPathfindHome(t *testing.T) {
	custom := t.TempDir()
	t.Setenv(HomeEnv, custom)

	home, err := GetPathfindHome()
	if err != nil {
		t.Fatal(err)
	}
	if home != custom {
		t.Errorf("GetPathfindHome() = %q, want %q", home, custom)
	}

	t.Setenv(HomeEnv, "")
	home, err = GetPathfindHome()
	if err != nil {
		t.Fatal(err)
	}
	cwd, _ := os.Getwd()
	if home != filepath.Join(cwd, ".pathfind") {
		t.Errorf("GetPathfindHome() = %q", home)
	}
}

func TestConfigPath(t *testing.T) {
	t.Setenv(HomeEnv, "/etc/pathfind")

	path, err := ConfigPath("")
	if err != nil {
		t.Fatal(err)
	}
	if path != "/etc/pathfind/config.yaml" {
		t.Errorf("ConfigPath() = %q", path)
	}

	path, _ = ConfigPath("./custom.yaml")
	if path != "./custom.yaml" {
		t.Errorf("explicit path should win, got %q", path)
	}
}
