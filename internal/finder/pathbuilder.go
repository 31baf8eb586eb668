// Package finder turns catalog lanes into matched paths on disk.
//
// PathBuilder maps a lane onto its directory, LaneFilter lists that directory
// for files of the requested type and QC status, and Sort puts the result into
// a deterministic order.
package finder

import (
	"path/filepath"

	"github.com/harrison/pathfind/internal/catalog"
	"github.com/harrison/pathfind/internal/models"
)

// PathBuilder renders a lane's absolute directory as root + hierarchy fragment.
type PathBuilder struct {
	Catalog  catalog.Catalog
	Root     string
	Template string
}

// NewPathBuilder creates a PathBuilder
func NewPathBuilder(c catalog.Catalog, root, template string) *PathBuilder {
	return &PathBuilder{Catalog: c, Root: root, Template: template}
}

// Build returns the lane's base directory. Catalog failures are returned as-is.
func (b *PathBuilder) Build(lane *models.Lane) (string, error) {
	fragment, err := b.Catalog.HierarchyFragment(lane, b.Template)
	if err != nil {
		if _, ok := models.KindOf(err); ok {
			return "", err
		}
		return "", models.NewCatalogError(lane.Name, "cannot render hierarchy", err)
	}
	return filepath.Join(b.Root, fragment), nil
}
