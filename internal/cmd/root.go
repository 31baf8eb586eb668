package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/harrison/pathfind/internal/config"
	"github.com/harrison/pathfind/internal/models"
)

// Version is injected at build time via -ldflags
var Version = "dev"

// NewRootCommand creates and returns the root cobra command for pathfind
func NewRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pathfind",
		Short: "Find sequencing lanes and assemblies on disk",
		Long: `Pathfind resolves a study, lane, sample, species, database or file of lane
ids into the on-disk locations of the matching lanes.

The configured tracking databases are searched in order and the first one
with matching files wins. Results can be filtered by file type and QC status,
linked into a directory, packed into a compressed archive, or summarized in a
stats CSV.

Configuration is loaded from $PATHFIND_HOME/config.yaml (or ./.pathfind/config.yaml)
if present. CLI flags override configuration file settings.`,
		Version: Version,
		// Silence usage on errors to avoid duplicate help text
		SilenceUsage: true,
	}

	flags := cmd.PersistentFlags()
	flags.String("config", "", "Path to the configuration file")
	flags.String("root", "", "Root of the on-disk hierarchy; {database} is replaced per source")
	flags.String("catalog-dir", "", "Directory holding one <database>.db catalog per database")
	flags.StringSlice("databases", nil, "Ordered list of databases to search")
	flags.String("log-level", "", "Log level: trace, debug, info, warn, error")
	flags.String("log-dir", "", "Directory for per-run log files")
	flags.String("archive-format", "", "Archive compression: gzip or zstd")

	cmd.SetFlagErrorFunc(func(c *cobra.Command, err error) error {
		_ = c.Usage()
		return models.InvalidInputf("%v", err)
	})

	// Add subcommands
	cmd.AddCommand(NewLanesCommand())
	cmd.AddCommand(NewAssembliesCommand())
	cmd.AddCommand(NewCatalogCommand())

	return cmd
}

// loadConfig loads the configuration file and applies the persistent flags
// that were set on the command line.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	flags := cmd.Flags()

	explicit, _ := flags.GetString("config")
	path, err := config.ConfigPath(explicit)
	if err != nil {
		return nil, err
	}

	cfg, err := config.LoadConfig(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	stringFlag := func(name string) *string {
		if !flags.Changed(name) {
			return nil
		}
		v, _ := flags.GetString(name)
		return &v
	}

	var databases *[]string
	if flags.Changed("databases") {
		v, _ := flags.GetStringSlice("databases")
		databases = &v
	}

	cfg.MergeWithFlags(
		stringFlag("root"),
		stringFlag("catalog-dir"),
		databases,
		stringFlag("log-level"),
		stringFlag("log-dir"),
		stringFlag("archive-format"),
	)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}
