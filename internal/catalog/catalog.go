// Package catalog resolves search requests into lane records.
//
// A catalog is one tracking database. The pipeline walks an ordered list of
// databases and asks each for the lanes matching a search; the first database
// with matching files wins. Catalogs also own the hierarchy template that maps
// a lane onto its storage directory.
package catalog

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/harrison/pathfind/internal/models"
)

// Catalog is the metadata store consumed by the finder pipeline.
type Catalog interface {
	// Query returns the lanes matching req, ordered by lane name.
	Query(ctx context.Context, req models.SearchRequest) ([]*models.Lane, error)

	// HierarchyFragment renders the lane's storage path below the root.
	HierarchyFragment(lane *models.Lane, template string) (string, error)

	// QCStatus returns the lane's QC label, or an empty string when unset.
	QCStatus(lane *models.Lane) string

	Close() error
}

// Opener opens the catalog for one named database.
type Opener interface {
	Open(ctx context.Context, database string) (Catalog, error)
}

// DirOpener opens SQLite catalogs stored as <Dir>/<database>.db.
type DirOpener struct {
	Dir string
}

// NewDirOpener creates an opener rooted at dir.
func NewDirOpener(dir string) *DirOpener {
	return &DirOpener{Dir: dir}
}

// Path returns the database file for a catalog name.
func (o *DirOpener) Path(database string) string {
	return filepath.Join(o.Dir, database+".db")
}

// Open opens an existing catalog. A missing file is a catalog error, not an empty result.
func (o *DirOpener) Open(ctx context.Context, database string) (Catalog, error) {
	path := o.Path(database)
	if _, err := os.Stat(path); err != nil {
		return nil, models.NewCatalogError(database, "cannot open catalog", err)
	}
	store, err := OpenStore(ctx, path)
	if err != nil {
		return nil, models.NewCatalogError(database, "cannot open catalog", err)
	}
	return store, nil
}

// Create creates (or opens) a catalog file, making the directory as needed.
func (o *DirOpener) Create(ctx context.Context, database string) (*Store, error) {
	if err := os.MkdirAll(o.Dir, 0755); err != nil {
		return nil, fmt.Errorf("create catalog directory: %w", err)
	}
	return OpenStore(ctx, o.Path(database))
}

// Ensure Store implements Catalog
var _ Catalog = (*Store)(nil)
