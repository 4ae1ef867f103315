package recorder

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	_ "modernc.org/sqlite"

	"github.com/StaryMuz/elektrina-monitor/internal/model"
)

// SQLiteRecorder persists the run ledger to a SQLite database.
type SQLiteRecorder struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
func NewSQLiteRecorder(dbPath string) (*SQLiteRecorder, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Infof("sqlite recorder opened: %s", dbPath)
	return &SQLiteRecorder{db: db}, nil
}

// RecordRun inserts rec, assigning an ID and timestamps when unset.
func (r *SQLiteRecorder) RecordRun(ctx context.Context, rec *model.RunRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if rec.ID == "" {
		rec.ID = uuid.New().String()
	}
	if rec.FinishedAt.IsZero() {
		rec.FinishedAt = time.Now()
	}
	if rec.StartedAt.IsZero() {
		rec.StartedAt = rec.FinishedAt
	}

	_, err := r.db.ExecContext(ctx, `INSERT INTO runs
		(id, day, trigger_type, status, stage, threshold, row_count, below_hours, intervals, error, started_at, finished_at)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?)`,
		rec.ID, rec.Day.Format(DayLayout), string(rec.Trigger), string(rec.Status), rec.Stage,
		rec.Threshold, rec.Rows, rec.BelowHours, rec.Intervals, rec.Error,
		rec.StartedAt.UnixMilli(), rec.FinishedAt.UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}
	return nil
}

func (r *SQLiteRecorder) Delivered(ctx context.Context, day time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var n int
	err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM runs WHERE day = ? AND status IN (?, ?)",
		day.Format(DayLayout), string(model.RunDelivered), string(model.RunPartial),
	).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("query delivered: %w", err)
	}
	return n > 0, nil
}

func (r *SQLiteRecorder) Latest(ctx context.Context) (*model.RunRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var (
		rec               model.RunRecord
		day, trig, status string
		started, finished int64
	)
	err := r.db.QueryRowContext(ctx, `SELECT
		id, day, trigger_type, status, stage, threshold, row_count, below_hours, intervals, error, started_at, finished_at
		FROM runs ORDER BY finished_at DESC, rowid DESC LIMIT 1`,
	).Scan(&rec.ID, &day, &trig, &status, &rec.Stage, &rec.Threshold,
		&rec.Rows, &rec.BelowHours, &rec.Intervals, &rec.Error, &started, &finished)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query latest run: %w", err)
	}

	rec.Day, err = time.ParseInLocation(DayLayout, day, time.Local)
	if err != nil {
		return nil, fmt.Errorf("parse run day %q: %w", day, err)
	}
	rec.Trigger = model.TriggerType(trig)
	rec.Status = model.RunStatus(status)
	rec.StartedAt = time.UnixMilli(started)
	rec.FinishedAt = time.UnixMilli(finished)
	return &rec, nil
}

func (r *SQLiteRecorder) Close() error {
	log.Info("closing sqlite recorder")
	return r.db.Close()
}
