package history

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// Status describes how a run ended
type Status string

const (
	StatusOK           Status = "ok"            // tracks found and exported
	StatusNoTracks     Status = "no_tracks"     // search matched nothing
	StatusSearchFailed Status = "search_failed" // search request failed
	StatusAuthFailed   Status = "auth_failed"   // no token, nothing exported
)

// Store keeps a log of search runs in SQLite
type Store struct {
	db *sql.DB
}

// Run is one recorded search
type Run struct {
	ID        string
	Artist    string
	File      string
	Status    Status
	Error     string
	CreatedAt time.Time
	Tracks    []Track // only filled by Get
	Count     int     // number of tracks
}

// Track is one exported row of a run
type Track struct {
	Position    int
	Name        string
	Album       string
	Popularity  int
	ReleaseDate string
	Genre       string
	Tempo       string
	Key         string
	Mode        string
	Loudness    string
}

// Open opens (or creates) the history database at dbPath
func Open(dbPath string) (*Store, error) {
	if dbPath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
			return nil, fmt.Errorf("failed to create history directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// A single connection keeps in-memory databases consistent
	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 10000",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA journal_mode = WAL",
	}

	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to set pragma: %w", err)
		}
	}

	schema := `
		CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			artist TEXT NOT NULL,
			file TEXT,
			status TEXT NOT NULL,
			error TEXT,
			track_count INTEGER NOT NULL DEFAULT 0,
			created_at INTEGER NOT NULL
		);

		CREATE TABLE IF NOT EXISTS run_tracks (
			run_id TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
			position INTEGER NOT NULL,
			name TEXT NOT NULL,
			album TEXT,
			popularity INTEGER NOT NULL,
			release_date TEXT,
			genre TEXT,
			tempo TEXT,
			track_key TEXT,
			track_mode TEXT,
			loudness TEXT,
			PRIMARY KEY (run_id, position)
		);

		CREATE INDEX IF NOT EXISTS idx_runs_created_at ON runs(created_at);
	`

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database connection
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Add records a run and its tracks, assigning an ID and timestamp when
// they are unset. Returns the run ID.
func (s *Store) Add(ctx context.Context, run Run) (string, error) {
	if run.ID == "" {
		run.ID = uuid.NewString()
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO runs (id, artist, file, status, error, track_count, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, run.ID, run.Artist, run.File, string(run.Status), nullString(run.Error), len(run.Tracks), run.CreatedAt.Unix())
	if err != nil {
		return "", fmt.Errorf("failed to insert run: %w", err)
	}

	if len(run.Tracks) > 0 {
		stmt, err := tx.PrepareContext(ctx, `
			INSERT INTO run_tracks (run_id, position, name, album, popularity, release_date, genre, tempo, track_key, track_mode, loudness)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`)
		if err != nil {
			return "", fmt.Errorf("failed to prepare statement: %w", err)
		}
		defer stmt.Close()

		for i, t := range run.Tracks {
			_, err := stmt.ExecContext(ctx, run.ID, i+1, t.Name, t.Album, t.Popularity, t.ReleaseDate,
				t.Genre, t.Tempo, t.Key, t.Mode, t.Loudness)
			if err != nil {
				return "", fmt.Errorf("failed to insert track %d: %w", i+1, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("failed to commit transaction: %w", err)
	}

	return run.ID, nil
}

// List returns the most recent runs first, without their tracks.
// A limit of 0 returns every run.
func (s *Store) List(ctx context.Context, limit int) ([]Run, error) {
	query := `
		SELECT id, artist, COALESCE(file, ''), status, COALESCE(error, ''), track_count, created_at
		FROM runs
		ORDER BY created_at DESC, rowid DESC
	`

	if limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", limit)
	}

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating runs: %w", err)
	}

	return runs, nil
}

// Get returns a single run with its tracks in export order
func (s *Store) Get(ctx context.Context, id string) (*Run, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, artist, COALESCE(file, ''), status, COALESCE(error, ''), track_count, created_at
		FROM runs
		WHERE id = ?
	`, id)

	run, err := scanRun(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("run %s not found", id)
	}
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT position, name, COALESCE(album, ''), popularity, COALESCE(release_date, ''),
			COALESCE(genre, ''), COALESCE(tempo, ''), COALESCE(track_key, ''), COALESCE(track_mode, ''), COALESCE(loudness, '')
		FROM run_tracks
		WHERE run_id = ?
		ORDER BY position ASC
	`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to query tracks: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var t Track
		err := rows.Scan(&t.Position, &t.Name, &t.Album, &t.Popularity, &t.ReleaseDate,
			&t.Genre, &t.Tempo, &t.Key, &t.Mode, &t.Loudness)
		if err != nil {
			return nil, fmt.Errorf("failed to scan track: %w", err)
		}
		run.Tracks = append(run.Tracks, t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating tracks: %w", err)
	}

	return &run, nil
}

// Resolve expands a run ID prefix, as printed by the list view, to the
// full ID. The prefix must match exactly one run.
func (s *Store) Resolve(ctx context.Context, prefix string) (string, error) {
	if prefix == "" {
		return "", fmt.Errorf("run ID is required")
	}

	rows, err := s.db.QueryContext(ctx, "SELECT id FROM runs WHERE substr(id, 1, ?) = ? LIMIT 2", len(prefix), prefix)
	if err != nil {
		return "", fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return "", fmt.Errorf("failed to scan run ID: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return "", fmt.Errorf("error iterating runs: %w", err)
	}

	switch len(ids) {
	case 0:
		return "", fmt.Errorf("run %s not found", prefix)
	case 1:
		return ids[0], nil
	default:
		return "", fmt.Errorf("run ID %s is ambiguous", prefix)
	}
}

// Cleanup removes runs older than maxAge, with their tracks
func (s *Store) Cleanup(ctx context.Context, maxAge time.Duration) (int64, error) {
	cutoff := time.Now().Add(-maxAge).Unix()

	result, err := s.db.ExecContext(ctx, "DELETE FROM runs WHERE created_at < ?", cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to cleanup old runs: %w", err)
	}

	deleted, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return deleted, nil
}

// Count returns the number of recorded runs
func (s *Store) Count(ctx context.Context) (int, error) {
	var count int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM runs").Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count runs: %w", err)
	}
	return count, nil
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanRun(row scanner) (Run, error) {
	var run Run
	var status string
	var createdUnix int64

	err := row.Scan(&run.ID, &run.Artist, &run.File, &status, &run.Error, &run.Count, &createdUnix)
	if err == sql.ErrNoRows {
		return run, err
	}
	if err != nil {
		return run, fmt.Errorf("failed to scan run: %w", err)
	}

	run.Status = Status(status)
	run.CreatedAt = time.Unix(createdUnix, 0)
	return run, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
