package results

import (
	"context"
	"errors"
	"fmt"

	"github.com/fitsphere/fitsphere/internal/telemetry/tracing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/attribute"
)

var ErrResultNotFound = errors.New("result not found")

const resultColumns = `id, user_id, program_id, enrollment_id, workout_date::text, notes, completed, created_at`

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db: db,
	}
}

func (r *Repo) Create(ctx context.Context, result Result) (_ *Result, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.results.create")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("user_id", result.UserID))

	rows, err := r.db.Query(
		ctx,
		`INSERT INTO results (user_id, program_id, enrollment_id, workout_date, notes, completed)
			VALUES ($1, $2, $3, $4::date, $5, $6)
		RETURNING `+resultColumns+`;`,
		result.UserID, result.ProgramID, result.EnrollmentID,
		result.WorkoutDate, result.Notes, result.Completed,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return r.singleResult(rows)
}

func (r *Repo) Get(ctx context.Context, id, userID int) (_ *Result, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.results.get")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("result_id", id))

	rows, err := r.db.Query(
		ctx,
		`SELECT `+resultColumns+` FROM results WHERE id = $1 AND user_id = $2;`,
		id, userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return r.singleResult(rows)
}

// List returns the user's results, optionally filtered by program.
func (r *Repo) List(ctx context.Context, userID int, programID *int) (_ []Result, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.results.list")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("user_id", userID))

	rows, err := r.db.Query(
		ctx,
		`SELECT `+resultColumns+` FROM results
			WHERE user_id = $1 AND (program_id = $2 OR $2::int IS NULL)
			ORDER BY workout_date DESC;`,
		userID, programID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return rows2results(rows)
}

func (r *Repo) Update(ctx context.Context, id, userID int, update ResultUpdate) (_ *Result, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.results.update")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("result_id", id))

	rows, err := r.db.Query(
		ctx,
		`UPDATE results SET
			workout_date = COALESCE($3::date, workout_date),
			notes = COALESCE($4, notes),
			completed = COALESCE($5, completed)
		WHERE id = $1 AND user_id = $2
		RETURNING `+resultColumns+`;`,
		id, userID, update.WorkoutDate, update.Notes, update.Completed,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return r.singleResult(rows)
}

func (r *Repo) Delete(ctx context.Context, id, userID int) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.results.delete")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("result_id", id))

	tag, err := r.db.Exec(
		ctx,
		`DELETE FROM results WHERE id = $1 AND user_id = $2;`,
		id, userID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrResultNotFound
	}
	return nil
}

func (r *Repo) singleResult(rows pgx.Rows) (*Result, error) {
	results, err := rows2results(rows)
	if err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, ErrResultNotFound
	}
	return &results[0], nil
}

func rows2results(rows pgx.Rows) ([]Result, error) {
	results := make([]Result, 0)
	for rows.Next() {
		var result Result
		if err := rows.Scan(
			&result.ID, &result.UserID, &result.ProgramID, &result.EnrollmentID,
			&result.WorkoutDate, &result.Notes, &result.Completed, &result.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("rows scan: %w", err)
		}
		results = append(results, result)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return results, nil
}
