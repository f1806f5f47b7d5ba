// Package store handles SQLite persistence.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/verte-zerg/sortbench/internal/model"

	_ "modernc.org/sqlite" // SQLite driver.
)

// ErrRunNotFound is returned when a run id (or any run at all) is missing.
var ErrRunNotFound = errors.New("run not found")

// timeLayout is fixed width so stored timestamps sort lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Store wraps SQLite access for benchmark runs.
type Store struct {
	db *sql.DB
}

// Open opens or creates the SQLite database and applies migrations.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		if cerr := db.Close(); cerr != nil {
			// Best-effort close on migration failure.
			_ = cerr
		}
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			started_at TEXT NOT NULL,
			ended_at TEXT NOT NULL,
			seed INTEGER NOT NULL,
			repetitions INTEGER NOT NULL,
			sizes TEXT NOT NULL,
			go_version TEXT NOT NULL,
			trial_count INTEGER NOT NULL,
			failures INTEGER NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS trials (
			run_id TEXT NOT NULL,
			algorithm TEXT NOT NULL,
			shape TEXT NOT NULL,
			size INTEGER NOT NULL,
			repetition INTEGER NOT NULL,
			elapsed_ns INTEGER NOT NULL,
			correct INTEGER NOT NULL,
			recorded_at TEXT NOT NULL,
			PRIMARY KEY (run_id, algorithm, shape, size, repetition)
		);`,
		`CREATE TABLE IF NOT EXISTS skipped_cells (
			run_id TEXT NOT NULL,
			algorithm TEXT NOT NULL,
			size INTEGER NOT NULL,
			PRIMARY KEY (run_id, algorithm, size)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_runs_started_at ON runs(started_at);`,
		`CREATE INDEX IF NOT EXISTS idx_trials_run_shape ON trials(run_id, shape, size);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// InsertRun stores a run header with its trials and skipped cells in one
// transaction.
func (s *Store) InsertRun(ctx context.Context, run model.Run, trials []model.TrialRecord, skipped []model.SkippedCell) (err error) {
	if run.ID == "" {
		return errors.New("run id is required")
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			if rerr := tx.Rollback(); rerr != nil {
				// Best-effort rollback.
				_ = rerr
			}
		}
	}()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO runs (id, started_at, ended_at, seed, repetitions, sizes, go_version, trial_count, failures)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID,
		run.StartedAt.UTC().Format(timeLayout),
		run.EndedAt.UTC().Format(timeLayout),
		run.Seed,
		run.Repetitions,
		joinSizes(run.Sizes),
		run.GoVersion,
		run.TrialCount,
		run.Failures,
	)
	if err != nil {
		return err
	}

	if err = insertEach(ctx, tx,
		`INSERT INTO trials (run_id, algorithm, shape, size, repetition, elapsed_ns, correct, recorded_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		len(trials), func(i int) []any {
			t := trials[i]
			return []any{run.ID, t.Algorithm, t.Shape, t.Size, t.Repetition, int64(t.Elapsed), boolToInt(t.Correct), t.Timestamp.UTC().Format(timeLayout)}
		}); err != nil {
		return err
	}
	if err = insertEach(ctx, tx,
		`INSERT INTO skipped_cells (run_id, algorithm, size) VALUES (?, ?, ?)`,
		len(skipped), func(i int) []any {
			return []any{run.ID, skipped[i].Algorithm, skipped[i].Size}
		}); err != nil {
		return err
	}

	return tx.Commit()
}

func insertEach(ctx context.Context, tx *sql.Tx, query string, n int, args func(i int) []any) error {
	if n == 0 {
		return nil
	}
	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := stmt.Close(); cerr != nil {
			// Best-effort statement close.
			_ = cerr
		}
	}()
	for i := 0; i < n; i++ {
		if _, err := stmt.ExecContext(ctx, args(i)...); err != nil {
			return err
		}
	}
	return nil
}

const runColumns = `id, started_at, ended_at, seed, repetitions, sizes, go_version, trial_count, failures`

// ListRuns returns stored runs oldest first. A positive last keeps only the
// most recent runs.
func (s *Store) ListRuns(ctx context.Context, last int) ([]model.Run, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+runColumns+` FROM runs ORDER BY started_at ASC, id ASC`)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var runs []model.Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if last > 0 && len(runs) > last {
		runs = runs[len(runs)-last:]
	}
	return runs, nil
}

// GetRun returns the run with the given id.
func (s *Store) GetRun(ctx context.Context, id string) (model.Run, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+runColumns+` FROM runs WHERE id = ?`, id)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Run{}, fmt.Errorf("%w: %s", ErrRunNotFound, id)
	}
	return run, err
}

// LatestRunID returns the id of the most recently started run.
func (s *Store) LatestRunID(ctx context.Context) (string, error) {
	var id string
	err := s.db.QueryRowContext(ctx, `SELECT id FROM runs ORDER BY started_at DESC, id DESC LIMIT 1`).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("%w: no runs stored", ErrRunNotFound)
	}
	return id, err
}

// ListTrials returns the trials of one run in insertion order.
func (s *Store) ListTrials(ctx context.Context, runID string) ([]model.TrialRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT algorithm, shape, size, repetition, elapsed_ns, correct, recorded_at
		 FROM trials
		 WHERE run_id = ?
		 ORDER BY rowid ASC`, runID)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var trials []model.TrialRecord
	for rows.Next() {
		var (
			rec        model.TrialRecord
			elapsedNs  int64
			correct    int
			recordedAt string
		)
		if err := rows.Scan(&rec.Algorithm, &rec.Shape, &rec.Size, &rec.Repetition, &elapsedNs, &correct, &recordedAt); err != nil {
			return nil, err
		}
		parsed, err := time.Parse(timeLayout, recordedAt)
		if err != nil {
			return nil, err
		}
		rec.Elapsed = time.Duration(elapsedNs)
		rec.Correct = correct != 0
		rec.Timestamp = parsed
		trials = append(trials, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return trials, nil
}

// ListSkipped returns the skipped cells of one run ordered by size.
func (s *Store) ListSkipped(ctx context.Context, runID string) ([]model.SkippedCell, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT algorithm, size FROM skipped_cells WHERE run_id = ? ORDER BY size ASC, rowid ASC`, runID)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var cells []model.SkippedCell
	for rows.Next() {
		var cell model.SkippedCell
		if err := rows.Scan(&cell.Algorithm, &cell.Size); err != nil {
			return nil, err
		}
		cells = append(cells, cell)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return cells, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(sc scanner) (model.Run, error) {
	var (
		run                model.Run
		startedAt, endedAt string
		sizes              string
	)
	if err := sc.Scan(&run.ID, &startedAt, &endedAt, &run.Seed, &run.Repetitions, &sizes, &run.GoVersion, &run.TrialCount, &run.Failures); err != nil {
		return model.Run{}, err
	}
	var err error
	if run.StartedAt, err = time.Parse(timeLayout, startedAt); err != nil {
		return model.Run{}, err
	}
	if run.EndedAt, err = time.Parse(timeLayout, endedAt); err != nil {
		return model.Run{}, err
	}
	if run.Sizes, err = splitSizes(sizes); err != nil {
		return model.Run{}, err
	}
	return run, nil
}

func joinSizes(sizes []int) string {
	parts := make([]string, len(sizes))
	for i, size := range sizes {
		parts[i] = strconv.Itoa(size)
	}
	return strings.Join(parts, ",")
}

func splitSizes(value string) ([]int, error) {
	if value == "" {
		return nil, nil
	}
	parts := strings.Split(value, ",")
	sizes := make([]int, 0, len(parts))
	for _, part := range parts {
		size, err := strconv.Atoi(part)
		if err != nil {
			return nil, fmt.Errorf("invalid stored size %q: %w", part, err)
		}
		sizes = append(sizes, size)
	}
	return sizes, nil
}

func boolToInt(v bool) int {
	if v {
		return 1
	}
	return 0
}
