package workouts

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/2beens/gymprogress/internal/telemetry/tracing"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	_ "modernc.org/sqlite"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS workouts (
	id         TEXT PRIMARY KEY,
	user_id    INTEGER NOT NULL,
	name       TEXT NOT NULL DEFAULT '',
	date       TEXT NOT NULL,
	created_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_workouts_user_date ON workouts(user_id, date);

CREATE TABLE IF NOT EXISTS workout_exercises (
	id         TEXT PRIMARY KEY,
	workout_id TEXT NOT NULL REFERENCES workouts(id) ON DELETE CASCADE,
	position   INTEGER NOT NULL,
	name       TEXT NOT NULL,
	weight     REAL,
	reps       REAL,
	duration   REAL,
	distance   REAL
);
CREATE INDEX IF NOT EXISTS idx_workout_exercises_workout ON workout_exercises(workout_id);
`

// SQLiteRepo is the on-device workout log. It is what keeps progress
// queries answerable while the remote analytics service is unreachable.
type SQLiteRepo struct {
	db *sql.DB
}

// OpenSQLite opens (or creates) the log database at dbPath and applies the schema.
func OpenSQLite(dbPath string) (*SQLiteRepo, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0750); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	pragmas := []string{
		"PRAGMA foreign_keys = ON",
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("set pragma: %w", err)
		}
	}

	if _, err := db.Exec(sqliteSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	return &SQLiteRepo{db: db}, nil
}

// DB exposes the underlying handle, so the durable cache can share the file.
func (r *SQLiteRepo) DB() *sql.DB {
	return r.db
}

func (r *SQLiteRepo) Close() error {
	return r.db.Close()
}

// AddWorkout stores a workout with its entries. A missing ID gets a generated one.
func (r *SQLiteRepo) AddWorkout(ctx context.Context, w *Workout) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workouts.sqlite.add")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	if _, err := w.Day(); err != nil {
		return err
	}
	if w.ID == "" {
		w.ID = uuid.NewString()
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(
		ctx,
		`INSERT INTO workouts (id, user_id, name, date, created_at) VALUES (?, ?, ?, ?, ?)`,
		w.ID, w.UserID, w.Name, w.Date, time.Now().UTC().Format(time.RFC3339Nano),
	); err != nil {
		return fmt.Errorf("insert workout: %w", err)
	}

	for i, e := range w.Entries {
		if _, err = tx.ExecContext(
			ctx,
			`INSERT INTO workout_exercises (id, workout_id, position, name, weight, reps, duration, distance)
				VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			uuid.NewString(), w.ID, i, e.Name, e.Weight, e.Reps, e.Duration, e.Distance,
		); err != nil {
			return fmt.Errorf("insert exercise %d: %w", i, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// ListWorkouts returns the user's most recent workouts (up to limit), with all entries.
func (r *SQLiteRepo) ListWorkouts(ctx context.Context, userID, limit int) (_ []Workout, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workouts.sqlite.list")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("user_id", userID))
	span.SetAttributes(attribute.Int("limit", limit))

	rows, err := r.db.QueryContext(
		ctx,
		`
			SELECT w.id, w.user_id, w.name, w.date, e.name, e.weight, e.reps, e.duration, e.distance
			FROM (
				SELECT id, user_id, name, date, created_at FROM workouts
				WHERE user_id = ?
				ORDER BY date DESC, created_at DESC
				LIMIT ?
			) w
			LEFT JOIN workout_exercises e ON e.workout_id = w.id
			ORDER BY w.date DESC, w.created_at DESC, w.id, e.position;`,
		userID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	defer rows.Close()

	var (
		list  []Workout
		index = make(map[string]int)
	)
	for rows.Next() {
		var (
			w                                Workout
			entryName                        sql.NullString
			weight, reps, duration, distance sql.NullFloat64
		)
		if err := rows.Scan(
			&w.ID, &w.UserID, &w.Name, &w.Date,
			&entryName, &weight, &reps, &duration, &distance,
		); err != nil {
			return nil, fmt.Errorf("rows scan: %w", err)
		}

		i, ok := index[w.ID]
		if !ok {
			list = append(list, w)
			i = len(list) - 1
			index[w.ID] = i
		}
		if !entryName.Valid {
			continue
		}
		list[i].Entries = append(list[i].Entries, Entry{
			Name:     entryName.String,
			Weight:   nullFloat(weight),
			Reps:     nullFloat(reps),
			Duration: nullFloat(duration),
			Distance: nullFloat(distance),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}

	return list, nil
}

func nullFloat(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	return Float(v.Float64)
}
