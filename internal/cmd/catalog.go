package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/harrison/pathfind/internal/catalog"
	"github.com/harrison/pathfind/internal/models"
)

// NewCatalogCommand creates the catalog command group
func NewCatalogCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Manage the lane catalogs",
		Long: `Manage the SQLite lane catalogs searched by the lanes and assemblies commands.

Each database has one catalog file, <catalog_dir>/<database>.db.`,
	}

	cmd.AddCommand(newCatalogInitCommand())
	cmd.AddCommand(newCatalogImportCommand())
	cmd.AddCommand(newCatalogListCommand())

	return cmd
}

func newCatalogInitCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "init <database>",
		Short: "Create an empty catalog",
		Args:  cobra.ExactArgs(1),
		RunE:  runCatalogInit,
	}
}

func newCatalogImportCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "import <database> <lanes.yaml>",
		Short: "Import lanes from a YAML file",
		Long: `Import lanes into a catalog, creating it if needed.

The file lists lanes under a top-level "lanes" key:

  lanes:
    - name: 5477_6#1
      sample: S1
      library: L1
      technology: SLX
      study: My Study
      project_ssid: "607"
      species: Streptococcus pneumoniae
      qc_status: passed
      processed: 1

Lanes already in the catalog are replaced.`,
		Args: cobra.ExactArgs(2),
		RunE: runCatalogImport,
	}
}

func newCatalogListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list <database>",
		Short: "List the lanes of a catalog",
		Args:  cobra.ExactArgs(1),
		RunE:  runCatalogList,
	}
}

func runCatalogInit(cmd *cobra.Command, args []string) error {
	opener, err := catalogOpener(cmd, args[0])
	if err != nil {
		return err
	}

	store, err := opener.Create(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	defer store.Close()

	fmt.Fprintf(cmd.OutOrStdout(), "Catalog ready: %s\n", store.Path())
	return nil
}

func runCatalogImport(cmd *cobra.Command, args []string) error {
	opener, err := catalogOpener(cmd, args[0])
	if err != nil {
		return err
	}

	f, err := os.Open(args[1])
	if err != nil {
		if os.IsNotExist(err) {
			return withUsage(cmd, models.NewFileDoesNotExist(args[1], err))
		}
		return fmt.Errorf("failed to open import file: %w", err)
	}
	defer f.Close()

	store, err := opener.Create(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	defer store.Close()

	n, err := store.Import(cmd.Context(), f)
	if err != nil {
		return fmt.Errorf("import into %s: %w", args[0], err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Imported %d lane(s) into %s\n", n, args[0])
	return nil
}

func runCatalogList(cmd *cobra.Command, args []string) error {
	opener, err := catalogOpener(cmd, args[0])
	if err != nil {
		return err
	}

	c, err := opener.Open(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	defer c.Close()

	store, ok := c.(*catalog.Store)
	if !ok {
		return fmt.Errorf("catalog %s cannot be listed", args[0])
	}

	lanes, err := store.List(cmd.Context())
	if err != nil {
		return models.NewCatalogError(args[0], "cannot list lanes", err)
	}

	out := cmd.OutOrStdout()
	if len(lanes) == 0 {
		fmt.Fprintf(out, "No lanes in %s\n", args[0])
		return nil
	}

	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "LANE\tSAMPLE\tSTUDY\tSPECIES\tQC\tPROCESSED")
	for _, l := range lanes {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%d\n", l.Name, l.Sample, l.Study, l.Species, orDash(l.QCStatus), l.Processed)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Fprintf(out, "\n%d lane(s)\n", len(lanes))
	return nil
}

// catalogOpener loads the configuration and checks the database is configured
func catalogOpener(cmd *cobra.Command, database string) (*catalog.DirOpener, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	if !cfg.HasDatabase(database) {
		return nil, withUsage(cmd, models.InvalidInputf("unknown database %q, must be one of: %v", database, cfg.Databases))
	}
	return catalog.NewDirOpener(cfg.CatalogDir), nil
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
