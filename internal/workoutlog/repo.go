package workoutlog

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fitsphere/fitsphere/internal/telemetry/tracing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/attribute"
)

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db: db,
	}
}

// Mark sets the given date as a worked-out day, creating the log entry
// if it does not exist yet.
func (r *Repo) Mark(ctx context.Context, userID int, workoutDate string) (_ *Log, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workoutlog.mark")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("workout_date", workoutDate))

	rows, err := r.db.Query(
		ctx,
		`INSERT INTO workout_logs (user_id, workout_date, completed)
			VALUES ($1, $2::date, true)
			ON CONFLICT (user_id, workout_date)
			DO UPDATE SET completed = true, updated_at = NOW()
		RETURNING id, user_id, workout_date::text, completed, notes, created_at, updated_at;`,
		userID, workoutDate,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	logs, err := r.rows2logs(rows)
	if err != nil {
		return nil, err
	}
	if len(logs) != 1 {
		return nil, errors.New("unexpected error [no row returned]")
	}

	return &logs[0], nil
}

// Unmark deletes the log entry for the given date. A missing entry is
// not an error, unmarking is idempotent.
func (r *Repo) Unmark(ctx context.Context, userID int, workoutDate string) (deleted bool, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workoutlog.unmark")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("workout_date", workoutDate))

	tag, err := r.db.Exec(
		ctx,
		`DELETE FROM workout_logs WHERE user_id = $1 AND workout_date = $2::date;`,
		userID, workoutDate,
	)
	if err != nil {
		return false, err
	}

	return tag.RowsAffected() > 0, nil
}

// ListCompleted returns the completed log entries within [startDate, endDate].
func (r *Repo) ListCompleted(ctx context.Context, userID int, startDate, endDate string) (_ []Log, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workoutlog.list")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("from", startDate))
	span.SetAttributes(attribute.String("to", endDate))

	rows, err := r.db.Query(
		ctx,
		`SELECT id, user_id, workout_date::text, completed, notes, created_at, updated_at
			FROM workout_logs
			WHERE user_id = $1
			AND workout_date >= $2::date
			AND workout_date <= $3::date
			AND completed IS TRUE
		ORDER BY workout_date DESC;`,
		userID, startDate, endDate,
	)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	defer rows.Close()

	return r.rows2logs(rows)
}

// GetByDate returns the log entry for the given date, or nil when there is none.
func (r *Repo) GetByDate(ctx context.Context, userID int, workoutDate string) (_ *Log, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workoutlog.get")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("workout_date", workoutDate))

	rows, err := r.db.Query(
		ctx,
		`SELECT id, user_id, workout_date::text, completed, notes, created_at, updated_at
			FROM workout_logs
			WHERE user_id = $1 AND workout_date = $2::date;`,
		userID, workoutDate,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	logs, err := r.rows2logs(rows)
	if err != nil {
		return nil, err
	}
	if len(logs) == 0 {
		return nil, nil
	}

	return &logs[0], nil
}

func (r *Repo) rows2logs(rows pgx.Rows) ([]Log, error) {
	var logs []Log
	for rows.Next() {
		var l Log
		var notes *string
		var updatedAt *time.Time
		if err := rows.Scan(
			&l.ID, &l.UserID, &l.WorkoutDate, &l.Completed, &notes, &l.CreatedAt, &updatedAt,
		); err != nil {
			return nil, fmt.Errorf("rows scan: %w", err)
		}
		l.Notes = notes
		l.UpdatedAt = updatedAt
		logs = append(logs, l)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	if logs == nil {
		logs = make([]Log, 0)
	}

	return logs, nil
}
