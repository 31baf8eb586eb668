package catalog

import (
	"fmt"
	"path"
	"strings"

	"github.com/harrison/pathfind/internal/models"
)

// DefaultHierarchyTemplate is the tracking database directory layout below the root.
const DefaultHierarchyTemplate = "genus:species-subspecies:TRACKING:projectssid:sample:technology:library:lane"

// HierarchyFragment renders the lane's directory below the root from a
// colon-separated template. Known tokens are replaced by lane fields; any other
// token is copied literally.
func (s *Store) HierarchyFragment(lane *models.Lane, template string) (string, error) {
	return RenderHierarchy(lane, template)
}

// RenderHierarchy is the template renderer shared by every catalog implementation.
func RenderHierarchy(lane *models.Lane, template string) (string, error) {
	if lane == nil {
		return "", models.NewCatalogError("", "cannot render hierarchy for a nil lane", nil)
	}
	if template == "" {
		template = DefaultHierarchyTemplate
	}

	tokens := strings.Split(template, ":")
	parts := make([]string, 0, len(tokens))
	for _, token := range tokens {
		value, known := hierarchyValue(lane, token)
		if !known {
			parts = append(parts, token)
			continue
		}
		if value == "" {
			return "", models.NewCatalogError(lane.Name, fmt.Sprintf("hierarchy field %q is empty", token), nil)
		}
		if strings.Contains(value, "/") {
			return "", models.NewCatalogError(lane.Name, fmt.Sprintf("hierarchy field %q contains a path separator", token), nil)
		}
		parts = append(parts, value)
	}

	return path.Join(parts...), nil
}

// hierarchyValue returns a lane field for a template token
func hierarchyValue(lane *models.Lane, token string) (string, bool) {
	switch token {
	case "genus":
		return lane.Genus(), true
	case "species-subspecies":
		return lane.SpeciesSubspecies(), true
	case "projectssid":
		return lane.ProjectSSID, true
	case "study":
		return lane.Study, true
	case "sample":
		return lane.Sample, true
	case "technology":
		return lane.Technology, true
	case "library":
		return lane.Library, true
	case "lane":
		return lane.Name, true
	default:
		return "", false
	}
}
