package workouts

import (
	"context"
	"fmt"

	"github.com/2beens/gymprogress/internal/telemetry/tracing"

	"github.com/jackc/pgx/v5"
	"go.opentelemetry.io/otel/attribute"
)

// Querier is the subset of pgxpool.Pool used by PgRepo.
// Both *pgxpool.Pool and pgxmock pools satisfy it.
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// PgRepo reads the workout log from postgres (server side deployments).
type PgRepo struct {
	db Querier
}

func NewPgRepo(db Querier) *PgRepo {
	return &PgRepo{
		db: db,
	}
}

func (r *PgRepo) ListWorkouts(ctx context.Context, userID, limit int) (_ []Workout, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workouts.pg.list")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("user_id", userID))
	span.SetAttributes(attribute.Int("limit", limit))

	rows, err := r.db.Query(
		ctx,
		`
			SELECT
				w.id, w.user_id, w.name, to_char(w.date, 'YYYY-MM-DD'),
				e.name, e.weight, e.reps, e.duration, e.distance
			FROM (
				SELECT id, user_id, name, date, created_at FROM workout
				WHERE user_id = $1
				ORDER BY date DESC, created_at DESC
				LIMIT $2
			) w
			LEFT JOIN workout_exercise e ON e.workout_id = w.id
			ORDER BY w.date DESC, w.created_at DESC, w.id, e.position;`,
		userID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	defer rows.Close()

	list, err := r.rows2workouts(rows)
	if err != nil {
		return nil, fmt.Errorf("rows2workouts: %w", err)
	}
	return list, nil
}

func (r *PgRepo) rows2workouts(rows pgx.Rows) ([]Workout, error) {
	var (
		list  []Workout
		index = make(map[string]int)
	)
	for rows.Next() {
		var (
			w         Workout
			entryName *string
			entry     Entry
		)
		if err := rows.Scan(
			&w.ID, &w.UserID, &w.Name, &w.Date,
			&entryName, &entry.Weight, &entry.Reps, &entry.Duration, &entry.Distance,
		); err != nil {
			return nil, fmt.Errorf("rows scan: %w", err)
		}

		i, ok := index[w.ID]
		if !ok {
			list = append(list, w)
			i = len(list) - 1
			index[w.ID] = i
		}
		if entryName == nil {
			continue
		}
		entry.Name = *entryName
		list[i].Entries = append(list[i].Entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return list, nil
}

// PgSchema creates the tables PgRepo reads from.
const PgSchema = `
CREATE TABLE IF NOT EXISTS workout (
	id         TEXT PRIMARY KEY,
	user_id    INTEGER NOT NULL,
	name       TEXT NOT NULL DEFAULT '',
	date       DATE NOT NULL,
	created_at TIMESTAMP NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS workout_user_date_idx ON workout(user_id, date);

CREATE TABLE IF NOT EXISTS workout_exercise (
	id         SERIAL PRIMARY KEY,
	workout_id TEXT NOT NULL REFERENCES workout(id) ON DELETE CASCADE,
	position   INTEGER NOT NULL,
	name       TEXT NOT NULL,
	weight     DOUBLE PRECISION,
	reps       DOUBLE PRECISION,
	duration   DOUBLE PRECISION,
	distance   DOUBLE PRECISION
);
`
