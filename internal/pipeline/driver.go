// Package pipeline drives one finder invocation: it walks the configured
// databases in order until one yields matching paths, then sorts, links or
// archives the result and writes the stats file.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/go-git/go-billy/v5"
	"github.com/google/uuid"

	"github.com/harrison/pathfind/internal/catalog"
	"github.com/harrison/pathfind/internal/config"
	"github.com/harrison/pathfind/internal/finder"
	"github.com/harrison/pathfind/internal/linker"
	"github.com/harrison/pathfind/internal/logger"
	"github.com/harrison/pathfind/internal/models"
	"github.com/harrison/pathfind/internal/stats"
)

// StatsSink writes the stats file of a result set.
type StatsSink interface {
	WriteFile(path string, matches []models.MatchedPath) error
}

// Driver runs the source loop and the materialization steps.
type Driver struct {
	Opener catalog.Opener
	FS     billy.Filesystem
	Linker *linker.Linker
	Stats  StatsSink
	Logger logger.Logger
}

// Result describes a completed run.
type Result struct {
	RunID      string
	Source     string // Database whose matches were used
	FileType   string // Effective file type, after the link default was applied
	Paths      []models.MatchedPath
	LinkTarget string
	Link       *linker.LinkReport
	Archive    string
	StatsFile  string
	Trace      []State
	Duration   time.Duration
}

// Run executes opts. On success every path of the winning source is in
// Result.Paths. When some links could not be created the result is returned
// together with a LinkError.
func (d *Driver) Run(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	start := time.Now()
	log := d.Logger
	if log == nil {
		log = logger.NewNoOpLogger()
	}

	runID := opts.RunID
	if runID == "" {
		runID = uuid.NewString()
	}
	result := &Result{RunID: runID}

	fileType, useDefault := linker.EffectiveFileType(opts.Mode, opts.FileType, opts.Materializing())
	if useDefault {
		log.LogDebug(fmt.Sprintf("no file type given, using %s", fileType))
	}
	result.FileType = fileType

	filterOpts := finder.FilterOptions{QC: opts.QC}
	if fileType != "" {
		pattern, err := opts.Mode.Pattern(fileType)
		if err != nil {
			return nil, err
		}
		filterOpts.Pattern = pattern
		filterOpts.Subdirs = opts.Mode.Subdirectories
	}

	req := opts.Search
	req.ProcessedFlag = opts.Mode.ProcessedFlag

	var ids []string
	if req.Type == models.SearchFile {
		var err error
		if ids, err = catalog.ReadIDFile(req.ID); err != nil {
			return nil, err
		}
	}

	var catalogErrs []error
	sources := opts.Sources()
	for _, db := range sources {
		result.Trace = append(result.Trace, StateNextSource)
		log.LogSourceStart(db)

		matches, err := d.searchSource(ctx, db, req, ids, opts, filterOpts, result, log)
		if err != nil {
			if !models.IsKind(err, models.KindCatalog) {
				return nil, err
			}
			log.LogWarn(fmt.Sprintf("%s: %v", db, err))
			catalogErrs = append(catalogErrs, err)
			continue
		}
		if len(matches) == 0 {
			continue
		}

		result.Source = db
		result.Trace = append(result.Trace, StateSort)
		result.Paths = finder.Sort(matches)
		break
	}

	if result.Source == "" {
		if len(catalogErrs) > 0 && len(catalogErrs) == len(sources) {
			return nil, models.NewCatalogError("", "no database could be searched", errors.Join(catalogErrs...))
		}
		return nil, models.NewNoMatches(opts.Search)
	}

	linkErr, err := d.materialize(opts, result)
	if err != nil {
		return nil, err
	}

	if opts.Stats != nil {
		result.Trace = append(result.Trace, StateStats)
		name := *opts.Stats
		if name == "" {
			name = stats.DefaultName(opts.Mode.Name, linker.SanitizeID(opts.Search.ID))
		}
		result.StatsFile = absolute(name, opts.Cwd)
		if err := d.Stats.WriteFile(result.StatsFile, result.Paths); err != nil {
			return nil, err
		}
	}

	result.Trace = append(result.Trace, StateDone)
	result.Duration = time.Since(start)
	log.LogSummary(summarize(opts, result))

	return result, linkErr
}

// searchSource queries and filters one database. The catalog is closed before
// returning, whether or not it contributed matches.
func (d *Driver) searchSource(ctx context.Context, db string, req models.SearchRequest, ids []string, opts Options,
	filterOpts finder.FilterOptions, result *Result, log logger.Logger) ([]models.MatchedPath, error) {
	c, err := d.Opener.Open(ctx, db)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := c.Close(); cerr != nil {
			log.LogWarn(fmt.Sprintf("%s: close catalog: %v", db, cerr))
		}
	}()

	result.Trace = append(result.Trace, StateQuery)
	var lanes []*models.Lane
	if req.Type == models.SearchFile {
		lanes, err = catalog.QueryMany(ctx, c, ids, req.ProcessedFlag)
	} else {
		lanes, err = c.Query(ctx, req)
	}
	if err != nil {
		return nil, err
	}
	if len(lanes) == 0 {
		result.Trace = append(result.Trace, StateNoRecords)
		log.LogSourceResult(db, 0, 0)
		return nil, nil
	}

	result.Trace = append(result.Trace, StateFilter)
	builder := finder.NewPathBuilder(c, config.ExpandRoot(opts.Root, db), opts.Template)
	filtered, err := finder.NewLaneFilter(d.FS, builder, log).Filter(lanes, filterOpts)
	if err != nil {
		return nil, err
	}
	log.LogSourceResult(db, len(lanes), len(filtered.Matches))
	if filtered.Skipped > 0 {
		log.LogWarn(fmt.Sprintf("%s: %d lane directories could not be read", db, filtered.Skipped))
	}
	if !filtered.Found {
		result.Trace = append(result.Trace, StateEmpty)
		return nil, nil
	}

	return filtered.Matches, nil
}

// materialize creates the requested links or archive. The returned linkErr
// reports partial symlink failures; err is fatal.
func (d *Driver) materialize(opts Options, result *Result) (linkErr error, err error) {
	if !opts.Materializing() {
		return nil, nil
	}
	result.Trace = append(result.Trace, StateLink)

	plan, err := linker.NewPlanner(opts.Mode).Plan(result.Paths)
	if err != nil {
		return nil, err
	}

	if opts.Symlink != nil {
		result.LinkTarget = linker.ResolveTarget(*opts.Symlink, opts.Mode.Name, opts.Search.ID, opts.Cwd)
		report, err := d.Linker.CreateSymlinks(result.LinkTarget, plan)
		if err != nil {
			return nil, err
		}
		result.Link = report
		return report.Err(), nil
	}

	compressor, err := linker.CompressorByName(opts.ArchiveFormat)
	if err != nil {
		return nil, models.InvalidInputf("%v", err)
	}
	target := linker.ResolveTarget(*opts.Archive, opts.Mode.Name, opts.Search.ID, opts.Cwd)
	archive, err := d.Linker.CreateArchive(target, plan, compressor)
	if err != nil {
		return nil, err
	}
	result.Archive = archive
	return nil, nil
}

func summarize(opts Options, r *Result) models.RunSummary {
	s := models.RunSummary{
		RunID:      r.RunID,
		Mode:       opts.Mode.Name,
		Search:     opts.Search,
		Source:     r.Source,
		Paths:      len(r.Paths),
		LinkTarget: r.LinkTarget,
		Archive:    r.Archive,
		StatsFile:  r.StatsFile,
		Duration:   r.Duration,
	}
	if r.Link != nil {
		s.LinksCreated = r.Link.Created
		s.LinksFailed = r.Link.Failed
	}
	return s
}

func absolute(name, cwd string) string {
	if !filepath.IsAbs(name) {
		name = filepath.Join(cwd, name)
	}
	return filepath.Clean(name)
}
