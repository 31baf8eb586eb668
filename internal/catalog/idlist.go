package catalog

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/RoaringBitmap/roaring/roaring64"

	"github.com/harrison/pathfind/internal/models"
)

// ReadIDFile reads one lane id per line. Blank lines and lines starting with #
// are skipped. A missing file is reported as FileDoesNotExist.
func ReadIDFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, models.NewFileDoesNotExist(path, err)
		}
		return nil, fmt.Errorf("open id file: %w", err)
	}
	defer f.Close()

	var ids []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		ids = append(ids, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read id file: %w", err)
	}

	return ids, nil
}

// QueryMany runs one lane search per id and merges the results. A lane matched
// by several ids is returned once, at its first position. Lanes are identified
// by row ID, or by name when the catalog leaves the ID unset.
func QueryMany(ctx context.Context, c Catalog, ids []string, processed uint32) ([]*models.Lane, error) {
	seenIDs := roaring64.New()
	seenNames := make(map[string]bool)
	var lanes []*models.Lane

	for _, id := range ids {
		found, err := c.Query(ctx, models.SearchRequest{Type: models.SearchLane, ID: id, ProcessedFlag: processed})
		if err != nil {
			return nil, err
		}
		for _, lane := range found {
			if lane.ID > 0 {
				if !seenIDs.CheckedAdd(uint64(lane.ID)) {
					continue
				}
			} else {
				if seenNames[lane.Name] {
					continue
				}
				seenNames[lane.Name] = true
			}
			lanes = append(lanes, lane)
		}
	}

	return lanes, nil
}
