package catalog

import (
	"context"
	"fmt"
	"strings"

	"github.com/harrison/pathfind/internal/models"
)

// Query returns the lanes matching req that carry every bit of req.ProcessedFlag.
// File searches are expanded by the caller into lane searches; see ReadIDFile.
func (s *Store) Query(ctx context.Context, req models.SearchRequest) ([]*models.Lane, error) {
	where, args, err := searchClause(req)
	if err != nil {
		return nil, err
	}

	query := `SELECT ` + laneColumns + ` FROM lanes WHERE ` + where +
		` AND (processed & ?) = ? ORDER BY name, id`
	args = append(args, int64(req.ProcessedFlag), int64(req.ProcessedFlag))

	lanes, err := s.queryLanes(ctx, query, args...)
	if err != nil {
		return nil, models.NewCatalogError(s.dbPath, fmt.Sprintf("search %s", req), err)
	}
	return lanes, nil
}

// searchClause builds the WHERE clause for one search type
func searchClause(req models.SearchRequest) (string, []interface{}, error) {
	switch req.Type {
	case models.SearchStudy:
		return `(study = ? OR project_ssid = ?)`, []interface{}{req.ID, req.ID}, nil
	case models.SearchLane, models.SearchFile:
		// A bare run/lane prefix such as 5477_6 selects every tagged lane 5477_6#N
		return `(name = ? OR name LIKE ? ESCAPE '\')`, []interface{}{req.ID, escapeLike(req.ID) + "#%"}, nil
	case models.SearchSample:
		return `sample = ?`, []interface{}{req.ID}, nil
	case models.SearchSpecies:
		return `species LIKE ? ESCAPE '\'`, []interface{}{"%" + escapeLike(req.ID) + "%"}, nil
	case models.SearchDatabase:
		return `1 = 1`, nil, nil
	default:
		return "", nil, models.InvalidInputf("invalid search type %q", req.Type)
	}
}

// escapeLike escapes LIKE wildcards so ids match literally
func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
