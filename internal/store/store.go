// Package store persists selection runs to SQLite so interpolation jobs
// can pick up a selection without reloading and re-cleaning the source
// table.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/banshee-data/density.report/internal/dataset"
	"github.com/banshee-data/density.report/internal/timeutil"
)

const driverName = "sqlite"

func init() {
	sqlx.BindDriver(driverName, sqlx.QUESTION)
}

// ErrRunNotFound is returned when a run id has no stored run.
var ErrRunNotFound = errors.New("selection run not found")

// Run describes one stored selection.
type Run struct {
	ID           string
	SourcePath   string
	CreatedAt    time.Time
	Params       dataset.SelectionParams
	Stats        dataset.Stats
	SelectedRows int
	GridPoints   int
}

// Store wraps the selection database.
type Store struct {
	db    *sqlx.DB
	clock timeutil.Clock
}

// Open opens (creating if needed) the database at path and applies
// migrations.
func Open(path string) (*Store, error) {
	db, err := sqlx.Open(driverName, path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	// SQLite allows one writer; a single connection also keeps ":memory:"
	// databases from splitting across the pool.
	db.SetMaxOpenConns(1)

	s := &Store{db: db, clock: timeutil.RealClock{}}
	if err := s.MigrateUp(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// SetClock replaces the clock used to stamp runs saved without a
// CreatedAt.
func (s *Store) SetClock(c timeutil.Clock) { s.clock = c }

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

type runRecord struct {
	RunID          string          `db:"run_id"`
	SourcePath     string          `db:"source_path"`
	CreatedAtNs    int64           `db:"created_at_ns"`
	TimeMin        sql.NullFloat64 `db:"time_min"`
	TimeMax        sql.NullFloat64 `db:"time_max"`
	XMin           sql.NullFloat64 `db:"x_min"`
	XMax           sql.NullFloat64 `db:"x_max"`
	YMin           sql.NullFloat64 `db:"y_min"`
	YMax           sql.NullFloat64 `db:"y_max"`
	CellSize       float64         `db:"cell_size"`
	BufferDistance float64         `db:"buffer_distance"`
	RawRows        int             `db:"raw_rows"`
	UniqueRows     int             `db:"unique_rows"`
	SelectedRows   int             `db:"selected_rows"`
	GridPoints     int             `db:"grid_points"`
}

type rowRecord struct {
	Time    float64 `db:"time"`
	X       float64 `db:"x"`
	Y       float64 `db:"y"`
	Z       float64 `db:"z"`
	Density float64 `db:"density"`
}

const runColumns = `run_id, source_path, created_at_ns, time_min, time_max, x_min, x_max,
	y_min, y_max, cell_size, buffer_distance, raw_rows, unique_rows, selected_rows, grid_points`

// SaveRun stores run together with its selected rows in one transaction
// and returns the run id. An empty run.ID is replaced by a new UUID and a
// zero CreatedAt by the store clock. run.SelectedRows is taken from rows.
func (s *Store) SaveRun(ctx context.Context, run Run, rows dataset.Table) (string, error) {
	if run.ID == "" {
		run.ID = uuid.NewString()
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = s.clock.Now()
	}
	run.SelectedRows = len(rows)

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.NamedExecContext(ctx, `
		INSERT INTO selection_runs (`+runColumns+`)
		VALUES (:run_id, :source_path, :created_at_ns, :time_min, :time_max, :x_min, :x_max,
			:y_min, :y_max, :cell_size, :buffer_distance, :raw_rows, :unique_rows, :selected_rows, :grid_points)
	`, toRecord(run))
	if err != nil {
		return "", fmt.Errorf("failed to insert selection run: %w", err)
	}

	stmt, err := tx.PreparexContext(ctx, `
		INSERT INTO selection_rows (run_id, seq, time, x, y, z, density)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return "", fmt.Errorf("failed to prepare row insert: %w", err)
	}
	defer stmt.Close()

	for i, r := range rows {
		if _, err := stmt.ExecContext(ctx, run.ID, i, r.Time, r.X, r.Y, r.Z, r.Density); err != nil {
			return "", fmt.Errorf("failed to insert row %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("failed to commit selection run: %w", err)
	}
	return run.ID, nil
}

// GetRun returns the run with the given id.
func (s *Store) GetRun(ctx context.Context, id string) (Run, error) {
	var rec runRecord
	err := s.db.GetContext(ctx, &rec, `SELECT `+runColumns+` FROM selection_runs WHERE run_id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, fmt.Errorf("%w: %s", ErrRunNotFound, id)
	}
	if err != nil {
		return Run{}, fmt.Errorf("failed to query selection run: %w", err)
	}
	return rec.toRun(), nil
}

// ListRuns returns all stored runs, newest first.
func (s *Store) ListRuns(ctx context.Context) ([]Run, error) {
	var recs []runRecord
	err := s.db.SelectContext(ctx, &recs,
		`SELECT `+runColumns+` FROM selection_runs ORDER BY created_at_ns DESC, run_id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list selection runs: %w", err)
	}
	runs := make([]Run, len(recs))
	for i, rec := range recs {
		runs[i] = rec.toRun()
	}
	return runs, nil
}

// RunRows returns the rows of a stored run in their original order.
func (s *Store) RunRows(ctx context.Context, id string) (dataset.Table, error) {
	if _, err := s.GetRun(ctx, id); err != nil {
		return nil, err
	}
	var recs []rowRecord
	err := s.db.SelectContext(ctx, &recs,
		`SELECT time, x, y, z, density FROM selection_rows WHERE run_id = ? ORDER BY seq`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to query selection rows: %w", err)
	}
	table := make(dataset.Table, len(recs))
	for i, r := range recs {
		table[i] = dataset.Row{Time: r.Time, X: r.X, Y: r.Y, Z: r.Z, Density: r.Density}
	}
	return table, nil
}

// DeleteRun removes a run and its rows.
func (s *Store) DeleteRun(ctx context.Context, id string) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM selection_rows WHERE run_id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete selection rows: %w", err)
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM selection_runs WHERE run_id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete selection run: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrRunNotFound, id)
	}
	return tx.Commit()
}

func toRecord(run Run) runRecord {
	p := run.Params
	return runRecord{
		RunID:          run.ID,
		SourcePath:     run.SourcePath,
		CreatedAtNs:    run.CreatedAt.UnixNano(),
		TimeMin:        finite(p.Time.Min),
		TimeMax:        finite(p.Time.Max),
		XMin:           finite(p.X.Min),
		XMax:           finite(p.X.Max),
		YMin:           finite(p.Y.Min),
		YMax:           finite(p.Y.Max),
		CellSize:       p.CellSize,
		BufferDistance: p.BufferDistance,
		RawRows:        run.Stats.RawRows,
		UniqueRows:     run.Stats.UniqueRows,
		SelectedRows:   run.SelectedRows,
		GridPoints:     run.GridPoints,
	}
}

func (rec runRecord) toRun() Run {
	return Run{
		ID:         rec.RunID,
		SourcePath: rec.SourcePath,
		CreatedAt:  time.Unix(0, rec.CreatedAtNs),
		Params: dataset.SelectionParams{
			Time:           dataset.Limit{Min: orInf(rec.TimeMin, -1), Max: orInf(rec.TimeMax, 1)},
			X:              dataset.Limit{Min: orInf(rec.XMin, -1), Max: orInf(rec.XMax, 1)},
			Y:              dataset.Limit{Min: orInf(rec.YMin, -1), Max: orInf(rec.YMax, 1)},
			CellSize:       rec.CellSize,
			BufferDistance: rec.BufferDistance,
		},
		Stats: dataset.Stats{
			RawRows:       rec.RawRows,
			UniqueRows:    rec.UniqueRows,
			DuplicateRows: rec.RawRows - rec.UniqueRows,
		},
		SelectedRows: rec.SelectedRows,
		GridPoints:   rec.GridPoints,
	}
}

// finite stores open limit ends as NULL; SQLite has no portable infinity.
func finite(v float64) sql.NullFloat64 {
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: v, Valid: true}
}

func orInf(v sql.NullFloat64, sign int) float64 {
	if !v.Valid {
		return math.Inf(sign)
	}
	return v.Float64
}
