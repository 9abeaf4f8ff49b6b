package enrollments

import (
	"context"
	"errors"
	"fmt"

	"github.com/fitsphere/fitsphere/internal/telemetry/tracing"
	"github.com/fitsphere/fitsphere/pkg"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/attribute"
)

var (
	ErrEnrollmentNotFound = errors.New("enrollment not found")
	ErrAlreadyEnrolled    = errors.New("already enrolled")
	ErrProgramMissing     = errors.New("program does not exist")
)

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db: db,
	}
}

// Enroll adds the user to a program. The (user, program) pair is
// unique, enrolling twice reports ErrAlreadyEnrolled.
func (r *Repo) Enroll(ctx context.Context, userID, programID int) (_ *Enrollment, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.enrollments.enroll")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(
		attribute.Int("user_id", userID),
		attribute.Int("program_id", programID),
	)

	rows, err := r.db.Query(
		ctx,
		`INSERT INTO enrollments (user_id, program_id, progress)
			VALUES ($1, $2, 0)
			ON CONFLICT (user_id, program_id) DO NOTHING
		RETURNING id, user_id, program_id, progress, created_at;`,
		userID, programID,
	)
	if err != nil {
		if pkg.IsForeignKeyViolationError(err) {
			return nil, ErrProgramMissing
		}
		return nil, err
	}
	defer rows.Close()

	enrollments, err := rows2enrollments(rows, false)
	if err != nil {
		return nil, err
	}
	if len(enrollments) == 0 {
		return nil, ErrAlreadyEnrolled
	}
	return &enrollments[0], nil
}

func (r *Repo) Unenroll(ctx context.Context, userID, programID int) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.enrollments.unenroll")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(
		attribute.Int("user_id", userID),
		attribute.Int("program_id", programID),
	)

	tag, err := r.db.Exec(
		ctx,
		`DELETE FROM enrollments WHERE user_id = $1 AND program_id = $2;`,
		userID, programID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrEnrollmentNotFound
	}
	return nil
}

func (r *Repo) UpdateProgress(ctx context.Context, userID, programID, progress int) (_ *Enrollment, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.enrollments.updateProgress")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(
		attribute.Int("user_id", userID),
		attribute.Int("program_id", programID),
		attribute.Int("progress", progress),
	)

	rows, err := r.db.Query(
		ctx,
		`UPDATE enrollments SET progress = $3
			WHERE user_id = $1 AND program_id = $2
		RETURNING id, user_id, program_id, progress, created_at;`,
		userID, programID, progress,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	enrollments, err := rows2enrollments(rows, false)
	if err != nil {
		return nil, err
	}
	if len(enrollments) == 0 {
		return nil, ErrEnrollmentNotFound
	}
	return &enrollments[0], nil
}

// ListMine returns the user's enrollments joined with program data.
func (r *Repo) ListMine(ctx context.Context, userID int) (_ []Enrollment, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.enrollments.listMine")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("user_id", userID))

	rows, err := r.db.Query(
		ctx,
		`SELECT e.id, e.user_id, e.program_id, e.progress, e.created_at,
				p.title, p.description, p.duration, p.image_url
			FROM enrollments e
			JOIN programs p ON p.id = e.program_id
			WHERE e.user_id = $1
			ORDER BY e.created_at DESC;`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return rows2enrollments(rows, true)
}

func rows2enrollments(rows pgx.Rows, withProgram bool) ([]Enrollment, error) {
	enrollments := make([]Enrollment, 0)
	for rows.Next() {
		var e Enrollment
		dest := []any{&e.ID, &e.UserID, &e.ProgramID, &e.Progress, &e.CreatedAt}
		if withProgram {
			dest = append(dest, &e.ProgramTitle, &e.ProgramDescription, &e.ProgramDuration, &e.ProgramImage)
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("rows scan: %w", err)
		}
		enrollments = append(enrollments, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return enrollments, nil
}
