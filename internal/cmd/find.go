package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/go-git/go-billy/v5/osfs"
	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"
	"github.com/spf13/cobra"

	"github.com/harrison/pathfind/internal/catalog"
	"github.com/harrison/pathfind/internal/config"
	"github.com/harrison/pathfind/internal/filelock"
	"github.com/harrison/pathfind/internal/linker"
	"github.com/harrison/pathfind/internal/logger"
	"github.com/harrison/pathfind/internal/models"
	"github.com/harrison/pathfind/internal/pipeline"
	"github.com/harrison/pathfind/internal/stats"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// autoName is the value -l, -a and -s take when given without a name; it
// selects the synthesized default name.
const autoName = "auto"

// NewLanesCommand creates the lanes command (script identity pathfind)
func NewLanesCommand() *cobra.Command {
	return newFindCommand(models.ModePathfind, "lanes", "Find sequencing data for lanes",
		`Find the on-disk locations of sequencing lanes.

Without a file type the lane directories themselves are listed. With
-f the files of that type inside each lane directory are listed instead.

Examples:
  # Lane directories of a study
  pathfind lanes -t study -i 607

  # Passed fastq files of a species, linked into ./pathfind_Streptococcus
  pathfind lanes -t species -i Streptococcus -f fastq -q passed -l

  # Lanes listed in a file, with a stats CSV
  pathfind lanes -t file -i lanes.txt -s=lanes.csv`)
}

// NewAssembliesCommand creates the assemblies command (script identity assemblyfind)
func NewAssembliesCommand() *cobra.Command {
	return newFindCommand(models.ModeAssemblyfind, "assemblies", "Find assemblies for lanes",
		`Find the assemblies produced for sequencing lanes.

Assemblies are looked up in the assembler subdirectories of each lane
(velvet, spades, iva, pacbio). When linking or archiving without a file
type, contigs are used.

Examples:
  # Assembly directories of a lane
  pathfind assemblies -t lane -i 5477_6#1

  # Contigs of a study packed into study.tar.gz
  pathfind assemblies -t study -i 607 -a=study`)
}

func newFindCommand(modeName, use, short, long string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Long:  long,
		Args:  noPositionalArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFind(cmd, modeName)
		},
	}

	cmd.Flags().StringP("type", "t", "", "Search type: study, lane, file, sample, species, database")
	cmd.Flags().StringP("id", "i", "", "Search id, or the path of a lane id file for -t file")
	cmd.Flags().StringP("filetype", "f", "", "File type to list inside each lane directory")
	cmd.Flags().StringP("qc", "q", "", "Only lanes with this QC status: passed, failed, pending")
	cmd.Flags().StringP("symlink", "l", "", "Create symlinks to the results in a directory (-l=<dir>)")
	cmd.Flags().StringP("archive", "a", "", "Pack the results into a compressed archive (-a=<name>)")
	cmd.Flags().StringP("stats", "s", "", "Write a stats CSV for the results (-s=<file>)")
	cmd.Flags().Bool("json", false, "Print the results as JSON")

	for _, name := range []string{"symlink", "archive", "stats"} {
		cmd.Flags().Lookup(name).NoOptDefVal = autoName
	}

	return cmd
}

// noPositionalArgs rejects positional arguments. The usual cause is a name
// given to -l, -a or -s with a space instead of "=".
func noPositionalArgs(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return nil
	}
	return withUsage(cmd, models.InvalidInputf(
		"unexpected argument %q; names for -l, -a and -s are given as -l=<name>", args[0]))
}

// runFind executes one finder invocation for the named mode
func runFind(cmd *cobra.Command, modeName string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	mode, err := cfg.Mode(modeName)
	if err != nil {
		return err
	}

	opts, err := findOptions(cmd, cfg, mode)
	if err != nil {
		return withUsage(cmd, err)
	}
	if err := opts.Validate(); err != nil {
		return withUsage(cmd, err)
	}

	log, closeLog, err := newRunLogger(cmd.ErrOrStderr(), cfg, opts.RunID)
	if err != nil {
		return err
	}
	defer closeLog()

	driver, err := newDriver(cfg, modeName, log)
	if err != nil {
		return err
	}

	result, err := driver.Run(cmd.Context(), opts)
	if result != nil {
		asJSON, _ := cmd.Flags().GetBool("json")
		if werr := writeResult(cmd.OutOrStdout(), modeName, result, asJSON); werr != nil {
			return werr
		}
	}
	if err != nil {
		return withUsage(cmd, err)
	}
	return nil
}

// findOptions builds the pipeline options from the command flags
func findOptions(cmd *cobra.Command, cfg *config.Config, mode models.Mode) (pipeline.Options, error) {
	flags := cmd.Flags()

	searchType, _ := flags.GetString("type")
	id, _ := flags.GetString("id")
	fileType, _ := flags.GetString("filetype")
	qc, _ := flags.GetString("qc")

	if searchType == "" || id == "" {
		return pipeline.Options{}, models.InvalidInputf("both --type and --id are required")
	}

	cwd, err := os.Getwd()
	if err != nil {
		return pipeline.Options{}, fmt.Errorf("get working directory: %w", err)
	}

	optionalName := func(name string) *string {
		if !flags.Changed(name) {
			return nil
		}
		v, _ := flags.GetString(name)
		if v == autoName {
			v = ""
		}
		return &v
	}

	return pipeline.Options{
		Mode:          mode,
		Search:        models.SearchRequest{Type: models.SearchType(searchType), ID: id},
		FileType:      fileType,
		QC:            qc,
		Symlink:       optionalName("symlink"),
		Archive:       optionalName("archive"),
		Stats:         optionalName("stats"),
		Root:          cfg.Root,
		Template:      cfg.HierarchyTemplate,
		Databases:     cfg.Databases,
		ArchiveFormat: cfg.ArchiveFormat,
		Cwd:           cwd,
		RunID:         uuid.NewString(),
	}, nil
}

// newRunLogger returns the console logger, joined with a file logger when a
// log directory is configured.
func newRunLogger(w io.Writer, cfg *config.Config, runID string) (logger.Logger, func(), error) {
	console := logger.NewConsoleLogger(w, cfg.LogLevel)
	if cfg.LogDir == "" {
		return console, func() {}, nil
	}

	fileLogger, err := logger.NewFileLogger(cfg.LogDir, cfg.LogLevel, runID, os.Args)
	if err != nil {
		return nil, nil, err
	}

	console.LogDebug(fmt.Sprintf("Run log: %s", fileLogger.RunFile()))

	multi := logger.NewMultiLogger(console, fileLogger)
	return multi, func() {
		if err := multi.Close(); err != nil {
			console.LogWarn(fmt.Sprintf("close run log: %v", err))
		}
	}, nil
}

// newDriver wires the pipeline to the real filesystem, the SQLite catalogs
// and the lock-protected writers.
func newDriver(cfg *config.Config, modeName string, log logger.Logger) (*pipeline.Driver, error) {
	fs := osfs.New("/")

	lock := func(path string) (func() error, error) {
		return filelock.AcquireTimeout(path, cfg.LockTimeout)
	}

	gen, err := stats.NewGenerator(fs, modeName)
	if err != nil {
		return nil, err
	}
	gen.Write = func(path string, data []byte) error {
		return filelock.LockAndWriteTimeout(path, data, cfg.LockTimeout)
	}

	return &pipeline.Driver{
		Opener: catalog.NewDirOpener(cfg.CatalogDir),
		FS:     fs,
		Linker: linker.NewLinker(fs, lock),
		Stats:  gen,
		Logger: log,
	}, nil
}

// jsonPath is one result path in JSON output
type jsonPath struct {
	Lane string `json:"lane"`
	models.MatchedPath
}

// jsonResult is the JSON document printed by --json
type jsonResult struct {
	RunID        string     `json:"run_id"`
	Mode         string     `json:"mode"`
	Source       string     `json:"source"`
	FileType     string     `json:"file_type,omitempty"`
	Paths        []jsonPath `json:"paths"`
	LinkTarget   string     `json:"link_target,omitempty"`
	LinksCreated int        `json:"links_created,omitempty"`
	LinksFailed  int        `json:"links_failed,omitempty"`
	Archive      string     `json:"archive,omitempty"`
	StatsFile    string     `json:"stats_file,omitempty"`
}

// writeResult prints the result paths, one per line, or as a JSON document
func writeResult(w io.Writer, modeName string, result *pipeline.Result, asJSON bool) error {
	if !asJSON {
		var sb strings.Builder
		for _, m := range result.Paths {
			sb.WriteString(m.Path)
			sb.WriteByte('\n')
		}
		_, err := io.WriteString(w, sb.String())
		return err
	}

	doc := jsonResult{
		RunID:      result.RunID,
		Mode:       modeName,
		Source:     result.Source,
		FileType:   result.FileType,
		Paths:      make([]jsonPath, 0, len(result.Paths)),
		LinkTarget: result.LinkTarget,
		Archive:    result.Archive,
		StatsFile:  result.StatsFile,
	}
	for _, m := range result.Paths {
		doc.Paths = append(doc.Paths, jsonPath{Lane: m.LaneName(), MatchedPath: m})
	}
	if result.Link != nil {
		doc.LinksCreated = result.Link.Created
		doc.LinksFailed = result.Link.Failed
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode result: %w", err)
	}
	_, err = fmt.Fprintf(w, "%s\n", data)
	return err
}
