package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

// Fixed-width so lexical order matches chronological order.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Store manages run history persistence backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
	now  func() time.Time
}

// Open initializes or connects to the history database and applies migrations.
func Open(path string) (*Store, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("history path required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create history directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: path, now: time.Now}
	if err := store.applyMigrations(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Path returns the database file location.
func (s *Store) Path() string {
	if s == nil {
		return ""
	}
	return s.path
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// StartRun inserts a running row for id.
func (s *Store) StartRun(ctx context.Context, id, kind, input string) error {
	if strings.TrimSpace(id) == "" {
		return errors.New("run id required")
	}
	_, err := s.db.ExecContext(
		ctx,
		`INSERT INTO runs (id, kind, status, input, started_at) VALUES (?, ?, ?, ?, ?)`,
		id,
		kind,
		StatusRunning,
		nullableString(input),
		s.timestamp(),
	)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}
	return nil
}

// Finish describes how a run ended.
type Finish struct {
	Status   string
	Output   string
	Provider string
	Counts   Counts
	Err      error
}

// FinishRun records the final status of id.
func (s *Store) FinishRun(ctx context.Context, id string, finish Finish) error {
	var message string
	if finish.Err != nil {
		message = finish.Err.Error()
	}
	res, err := s.db.ExecContext(
		ctx,
		`UPDATE runs SET status = ?, output = ?, provider = ?, finished_at = ?,
            total = ?, succeeded = ?, skipped = ?, failed = ?, error_message = ?
        WHERE id = ?`,
		finish.Status,
		nullableString(finish.Output),
		nullableString(finish.Provider),
		s.timestamp(),
		finish.Counts.Total,
		finish.Counts.Succeeded,
		finish.Counts.Skipped,
		finish.Counts.Failed,
		nullableString(message),
		id,
	)
	if err != nil {
		return fmt.Errorf("update run: %w", err)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return fmt.Errorf("finish run %s: not found", id)
	}
	return nil
}

// RecordScene appends one scene outcome to run runID.
func (s *Store) RecordScene(ctx context.Context, runID string, rec SceneRecord) error {
	_, err := s.db.ExecContext(
		ctx,
		`INSERT INTO scene_results (run_id, sequence, filename, status, error_message, bytes, recorded_at)
        VALUES (?, ?, ?, ?, ?, ?, ?)`,
		runID,
		rec.Sequence,
		rec.Filename,
		rec.Status,
		nullableString(rec.Error),
		rec.Bytes,
		s.timestamp(),
	)
	if err != nil {
		return fmt.Errorf("insert scene result: %w", err)
	}
	return nil
}

const runColumns = "id, kind, status, input, output, provider, started_at, finished_at, total, succeeded, skipped, failed, error_message"

// Recent returns up to limit runs, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT `+runColumns+` FROM runs ORDER BY started_at DESC, rowid DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
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
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return runs, nil
}

// Get fetches a run by identifier. It returns (nil, nil) when absent.
func (s *Store) Get(ctx context.Context, id string) (*Run, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+runColumns+` FROM runs WHERE id = ?`, id)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &run, nil
}

// Scenes returns the scene outcomes of runID ordered by sequence.
func (s *Store) Scenes(ctx context.Context, runID string) ([]SceneRecord, error) {
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT sequence, filename, status, error_message, bytes FROM scene_results
        WHERE run_id = ? ORDER BY sequence, id`,
		runID,
	)
	if err != nil {
		return nil, fmt.Errorf("query scene results: %w", err)
	}
	defer rows.Close()

	var scenes []SceneRecord
	for rows.Next() {
		var (
			rec     SceneRecord
			message sql.NullString
		)
		if err := rows.Scan(&rec.Sequence, &rec.Filename, &rec.Status, &message, &rec.Bytes); err != nil {
			return nil, fmt.Errorf("scan scene result: %w", err)
		}
		rec.Error = message.String
		scenes = append(scenes, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate scene results: %w", err)
	}
	return scenes, nil
}

func scanRun(scanner interface{ Scan(dest ...any) error }) (Run, error) {
	var (
		run         Run
		input       sql.NullString
		output      sql.NullString
		provider    sql.NullString
		startedRaw  string
		finishedRaw sql.NullString
		message     sql.NullString
	)
	err := scanner.Scan(
		&run.ID,
		&run.Kind,
		&run.Status,
		&input,
		&output,
		&provider,
		&startedRaw,
		&finishedRaw,
		&run.Counts.Total,
		&run.Counts.Succeeded,
		&run.Counts.Skipped,
		&run.Counts.Failed,
		&message,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return run, err
		}
		return run, fmt.Errorf("scan run: %w", err)
	}
	run.Input = input.String
	run.Output = output.String
	run.Provider = provider.String
	run.ErrorMessage = message.String
	run.StartedAt = parseTime(startedRaw)
	if finishedRaw.Valid {
		run.FinishedAt = parseTime(finishedRaw.String)
	}
	return run, nil
}

func (s *Store) timestamp() string {
	return s.now().UTC().Format(timeLayout)
}

func parseTime(raw string) time.Time {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}
	}
	if ts, err := time.Parse(timeLayout, raw); err == nil {
		return ts
	}
	if ts, err := time.Parse(time.RFC3339Nano, raw); err == nil {
		return ts
	}
	return time.Time{}
}

func nullableString(value string) any {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	return value
}
