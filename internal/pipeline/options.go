package pipeline

import (
	"strings"

	"github.com/harrison/pathfind/internal/linker"
	"github.com/harrison/pathfind/internal/models"
)

// Options is one finder invocation.
type Options struct {
	Mode     models.Mode
	Search   models.SearchRequest // ProcessedFlag is taken from Mode
	FileType string               // Empty lists lane directories
	QC       string               // Empty disables the QC filter

	// Symlink, Archive and Stats are nil when not requested; an empty value
	// requests the synthesized default name.
	Symlink *string
	Archive *string
	Stats   *string

	Root          string   // May contain {database}
	Template      string   // Hierarchy template
	Databases     []string // Ordered sources
	ArchiveFormat string   // gzip or zstd
	Cwd           string   // Base for relative target names
	RunID         string   // Generated when empty
}

// Materializing reports whether links or an archive were requested.
func (o *Options) Materializing() bool {
	return o.Symlink != nil || o.Archive != nil
}

// Validate rejects malformed or contradictory options before any side effect.
func (o *Options) Validate() error {
	if _, err := models.ParseSearchType(string(o.Search.Type)); err != nil {
		return err
	}
	if strings.TrimSpace(o.Search.ID) == "" {
		return models.InvalidInputf("a search id is required")
	}
	if o.FileType != "" {
		if _, err := o.Mode.Pattern(o.FileType); err != nil {
			return err
		}
	}
	if _, err := models.ParseQCStatus(o.QC); err != nil {
		return err
	}
	if o.Symlink != nil && o.Archive != nil {
		return models.InvalidInputf("symlink and archive cannot be requested together")
	}
	if o.Archive != nil {
		if _, err := linker.CompressorByName(o.ArchiveFormat); err != nil {
			return models.InvalidInputf("%v", err)
		}
	}
	if len(o.Databases) == 0 {
		return models.InvalidInputf("no databases configured")
	}
	if o.Search.Type == models.SearchDatabase && !contains(o.Databases, o.Search.ID) {
		return models.InvalidInputf("unknown database %q, must be one of: %s", o.Search.ID, strings.Join(o.Databases, ", "))
	}
	if o.Root == "" {
		return models.InvalidInputf("no root directory configured")
	}
	return nil
}

// Sources returns the databases to search, in order. A database search only
// consults the named database.
func (o *Options) Sources() []string {
	if o.Search.Type == models.SearchDatabase {
		return []string{o.Search.ID}
	}
	return o.Databases
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
