package catalog

import (
	"context"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/harrison/pathfind/internal/models"
)

// importFile is the YAML layout accepted by Import
type importFile struct {
	Lanes []*models.Lane `yaml:"lanes"`
}

// Import loads lanes from a YAML document of the form
//
//	lanes:
//	  - name: 5477_6#1
//	    species: Streptococcus pneumoniae
//	    ...
//
// Existing lanes with the same name are replaced. Returns the number imported.
func (s *Store) Import(ctx context.Context, r io.Reader) (int, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return 0, fmt.Errorf("read import file: %w", err)
	}

	var doc importFile
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return 0, fmt.Errorf("parse import file: %w", err)
	}

	for i, lane := range doc.Lanes {
		if lane == nil {
			return i, fmt.Errorf("lane %d is empty", i+1)
		}
		if _, err := s.AddLane(ctx, lane); err != nil {
			return i, err
		}
	}

	return len(doc.Lanes), nil
}
