package catalog

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/harrison/pathfind/internal/models"
)

// Store is a SQLite-backed catalog. It holds a single connection.
type Store struct {
	db     *sql.DB
	dbPath string
}

// OpenStore opens the database at dbPath (":memory:" for an in-memory catalog)
// and applies pending migrations.
func OpenStore(ctx context.Context, dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// One connection; an in-memory database would otherwise be per-connection.
	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA busy_timeout=5000", // Must be first
		"PRAGMA synchronous=NORMAL",
	}
	for _, pragma := range pragmas {
		if err := execWithRetry(db, pragma, 5, 10*time.Millisecond); err != nil {
			db.Close()
			return nil, fmt.Errorf("set %s: %w", pragma, err)
		}
	}

	store := &Store{
		db:     db,
		dbPath: dbPath,
	}

	if err := store.ApplyMigrations(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply migrations: %w", err)
	}

	return store, nil
}

// execWithRetry executes a SQL statement with exponential backoff retry on lock errors.
func execWithRetry(db *sql.DB, stmt string, maxRetries int, baseDelay time.Duration) error {
	var lastErr error
	for attempt := 0; attempt < maxRetries; attempt++ {
		_, err := db.Exec(stmt)
		if err == nil {
			return nil
		}

		if !strings.Contains(err.Error(), "database is locked") {
			return err
		}

		lastErr = err
		time.Sleep(baseDelay * time.Duration(1<<attempt))
	}
	return lastErr
}

// Path returns the database file path
func (s *Store) Path() string {
	return s.dbPath
}

// Close closes the database connection
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// QCStatus returns the lane's QC label
func (s *Store) QCStatus(lane *models.Lane) string {
	return lane.QCStatus
}

// AddLane inserts or replaces a lane, keyed by name. Returns the row ID.
func (s *Store) AddLane(ctx context.Context, lane *models.Lane) (int64, error) {
	if lane.Name == "" {
		return 0, fmt.Errorf("lane name is required")
	}
	if _, err := models.ParseQCStatus(lane.QCStatus); err != nil {
		return 0, fmt.Errorf("lane %s: %w", lane.Name, err)
	}

	query := `INSERT INTO lanes
		(name, sample, library, technology, study, project_ssid, species, qc_status, processed, reads, bases, cycles)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			sample = excluded.sample,
			library = excluded.library,
			technology = excluded.technology,
			study = excluded.study,
			project_ssid = excluded.project_ssid,
			species = excluded.species,
			qc_status = excluded.qc_status,
			processed = excluded.processed,
			reads = excluded.reads,
			bases = excluded.bases,
			cycles = excluded.cycles`

	_, err := s.db.ExecContext(ctx, query,
		lane.Name, lane.Sample, lane.Library, lane.Technology, lane.Study, lane.ProjectSSID,
		lane.Species, lane.QCStatus, lane.Processed, lane.Reads, lane.Bases, lane.Cycles)
	if err != nil {
		return 0, fmt.Errorf("insert lane %s: %w", lane.Name, err)
	}

	var id int64
	if err := s.db.QueryRowContext(ctx, `SELECT id FROM lanes WHERE name = ?`, lane.Name).Scan(&id); err != nil {
		return 0, fmt.Errorf("lookup lane %s: %w", lane.Name, err)
	}
	lane.ID = id
	return id, nil
}

// List returns every lane in the catalog, ordered by name
func (s *Store) List(ctx context.Context) ([]*models.Lane, error) {
	return s.queryLanes(ctx, `SELECT `+laneColumns+` FROM lanes ORDER BY name, id`)
}

const laneColumns = `id, name, sample, library, technology, study, project_ssid, species, qc_status, processed, reads, bases, cycles`

// queryLanes runs a lane SELECT and scans the rows
func (s *Store) queryLanes(ctx context.Context, query string, args ...interface{}) ([]*models.Lane, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query lanes: %w", err)
	}
	defer rows.Close()

	var lanes []*models.Lane
	for rows.Next() {
		l := &models.Lane{}
		if err := rows.Scan(&l.ID, &l.Name, &l.Sample, &l.Library, &l.Technology, &l.Study,
			&l.ProjectSSID, &l.Species, &l.QCStatus, &l.Processed, &l.Reads, &l.Bases, &l.Cycles); err != nil {
			return nil, fmt.Errorf("scan lane: %w", err)
		}
		lanes = append(lanes, l)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate lanes: %w", err)
	}

	return lanes, nil
}
