package finder

import (
	"fmt"
	"regexp"

	"github.com/go-git/go-billy/v5"

	"github.com/harrison/pathfind/internal/fileutil"
	"github.com/harrison/pathfind/internal/models"
)

// Logger receives per-lane diagnostics from the filter.
type Logger interface {
	LogDebug(message string)
	LogWarn(message string)
}

// FilterOptions selects which files of each lane are matched.
type FilterOptions struct {
	// Pattern matches file names; nil matches the lane directory itself
	Pattern *regexp.Regexp
	// QC restricts lanes to one exact QC status; empty allows all
	QC string
	// Subdirs are searched in order below each lane directory; empty searches the lane directory
	Subdirs []string
}

// FilterResult is the outcome of one filter pass.
type FilterResult struct {
	Matches []models.MatchedPath
	Found   bool // At least one match was produced
	Skipped int  // Lane directories that could not be listed
}

// LaneFilter lists lane directories for matching files.
type LaneFilter struct {
	FS      billy.Filesystem
	Builder *PathBuilder
	Logger  Logger
}

// NewLaneFilter creates a LaneFilter. A nil logger discards diagnostics.
func NewLaneFilter(fs billy.Filesystem, builder *PathBuilder, logger Logger) *LaneFilter {
	if logger == nil {
		logger = nopLogger{}
	}
	return &LaneFilter{FS: fs, Builder: builder, Logger: logger}
}

// Filter returns the matching paths of every lane, in lane order and then
// subdirectory scan order. When several subdirectories match for one lane all
// matches are kept. A lane whose directory cannot be listed contributes no
// matches; a lane whose hierarchy cannot be rendered aborts the pass.
func (f *LaneFilter) Filter(lanes []*models.Lane, opts FilterOptions) (*FilterResult, error) {
	result := &FilterResult{Matches: make([]models.MatchedPath, 0)}

	for _, lane := range lanes {
		base, err := f.Builder.Build(lane)
		if err != nil {
			return nil, err
		}

		if opts.QC != "" && f.Builder.Catalog.QCStatus(lane) != opts.QC {
			continue
		}

		if opts.Pattern == nil {
			if fileutil.IsDir(f.FS, base) {
				result.Matches = append(result.Matches, models.MatchedPath{Lane: lane, Path: base, LaneDir: base})
			} else {
				f.Logger.LogDebug(fmt.Sprintf("lane %s: directory %s does not exist", lane.Name, base))
			}
			continue
		}

		if len(opts.Subdirs) == 0 {
			f.collect(result, lane, base, base, "", opts.Pattern)
			continue
		}
		for _, sub := range opts.Subdirs {
			f.collect(result, lane, base, f.FS.Join(base, sub), sub, opts.Pattern)
		}
	}

	result.Found = len(result.Matches) > 0
	return result, nil
}

// collect appends the matches found in one directory
func (f *LaneFilter) collect(result *FilterResult, lane *models.Lane, base, dir, subdir string, pattern *regexp.Regexp) {
	if !fileutil.Exists(f.FS, dir) {
		f.Logger.LogDebug(fmt.Sprintf("lane %s: %s does not exist", lane.Name, dir))
		return
	}

	scan, err := fileutil.ScanDirectory(f.FS, dir, fileutil.ScanOptions{
		Pattern:     pattern,
		IncludeDirs: true,
	})
	if err != nil {
		result.Skipped++
		f.Logger.LogWarn(fmt.Sprintf("lane %s: skipping unreadable directory: %v", lane.Name, err))
		return
	}
	for _, scanErr := range scan.Errors {
		f.Logger.LogWarn(fmt.Sprintf("lane %s: %v", lane.Name, scanErr))
	}

	for _, path := range scan.Files {
		result.Matches = append(result.Matches, models.MatchedPath{Lane: lane, Path: path, LaneDir: base, Subdir: subdir})
	}
}

type nopLogger struct{}

func (nopLogger) LogDebug(string) {}
func (nopLogger) LogWarn(string)  {}
