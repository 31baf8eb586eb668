package models

// MatchedPath associates a lane with a file or directory found beneath its
// hierarchy directory. Never mutated after creation.
type MatchedPath struct {
	Lane    *Lane  `json:"-"`
	Path    string `json:"path"`             // Absolute path
	LaneDir string `json:"lane_dir"`         // The lane's base directory
	Subdir  string `json:"subdir,omitempty"` // Producer subdirectory the match came from, if any
}

// LaneName returns the lane's name, or an empty string for an unattached path
func (m MatchedPath) LaneName() string {
	if m.Lane == nil {
		return ""
	}
	return m.Lane.Name
}

// LinkEntry is one planned symlink or archive member
type LinkEntry struct {
	Source string // Path the link points at
	Name   string // Link or member name, unique within a plan
}
