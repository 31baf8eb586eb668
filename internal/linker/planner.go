package linker

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/harrison/pathfind/internal/models"
)

// Planner computes link names for a sorted result set.
type Planner struct {
	Mode models.Mode
}

// NewPlanner creates a Planner for a mode
func NewPlanner(mode models.Mode) *Planner {
	return &Planner{Mode: mode}
}

// Plan returns one entry per match, in match order. Names are
//
//	<lane>                          for a lane directory
//	<lane>.<filename>               for a file directly in the lane directory
//	<lane>.<stem><role suffix>      for a file in a producer subdirectory
//
// A producer subdirectory without a role suffix is a configuration error.
func (p *Planner) Plan(matches []models.MatchedPath) ([]models.LinkEntry, error) {
	plan := make([]models.LinkEntry, 0, len(matches))
	seen := make(map[string]string, len(matches))

	for _, m := range matches {
		name, err := p.linkName(m)
		if err != nil {
			return nil, err
		}
		if prev, dup := seen[name]; dup {
			return nil, models.NewLinkError(name, fmt.Errorf("both %s and %s map to the same name", prev, m.Path))
		}
		seen[name] = m.Path
		plan = append(plan, models.LinkEntry{Source: m.Path, Name: name})
	}

	return plan, nil
}

func (p *Planner) linkName(m models.MatchedPath) (string, error) {
	laneDir := filepath.Clean(m.LaneDir)
	if m.LaneDir == "" {
		laneDir = filepath.Dir(m.Path)
	}
	lane := filepath.Base(laneDir)
	path := filepath.Clean(m.Path)

	if path == laneDir {
		return lane, nil
	}

	filename := filepath.Base(path)
	parent := filepath.Dir(path)
	if parent == laneDir {
		return lane + "." + filename, nil
	}

	role := filepath.Base(parent)
	suffix, ok := p.Mode.RoleSuffix(role)
	if !ok {
		return "", models.InvalidInputf("unknown producer role %q for %s (known roles: %s)", role, path, p.knownRoles())
	}
	stem := strings.TrimSuffix(filename, filepath.Ext(filename))
	return lane + "." + stem + suffix, nil
}

func (p *Planner) knownRoles() string {
	roles := make([]string, 0, len(p.Mode.RoleSuffixes))
	for role := range p.Mode.RoleSuffixes {
		roles = append(roles, role)
	}
	if len(roles) == 0 {
		return "none"
	}
	sort.Strings(roles)
	return strings.Join(roles, ", ")
}
