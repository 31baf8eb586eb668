package finder

import (
	"sort"

	"github.com/harrison/pathfind/internal/models"
)

// Sort returns matches ordered by lane name, then path, with repeated paths
// removed. The sort is stable and the input slice is not modified.
func Sort(matches []models.MatchedPath) []models.MatchedPath {
	sorted := make([]models.MatchedPath, len(matches))
	copy(sorted, matches)

	sort.SliceStable(sorted, func(i, j int) bool {
		li, lj := sorted[i].LaneName(), sorted[j].LaneName()
		if li != lj {
			return li < lj
		}
		return sorted[i].Path < sorted[j].Path
	})

	seen := make(map[string]bool, len(sorted))
	deduped := sorted[:0]
	for _, m := range sorted {
		if seen[m.Path] {
			continue
		}
		seen[m.Path] = true
		deduped = append(deduped, m)
	}
	return deduped
}
