package programs

import (
	"context"
	"errors"
	"fmt"

	"github.com/fitsphere/fitsphere/internal/telemetry/tracing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/attribute"
)

var ErrProgramNotFound = errors.New("program not found")

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db: db,
	}
}

func (r *Repo) Create(ctx context.Context, program Program) (_ *Program, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.programs.create")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	rows, err := r.db.Query(
		ctx,
		`INSERT INTO programs (title, description, duration, image_url)
			VALUES ($1, $2, $3, $4)
		RETURNING id, title, description, duration, image_url, created_at;`,
		program.Title, program.Description, program.Duration, program.ImageURL,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return r.singleProgram(rows)
}

func (r *Repo) Get(ctx context.Context, id int) (_ *Program, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.programs.get")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("program_id", id))

	rows, err := r.db.Query(
		ctx,
		`SELECT id, title, description, duration, image_url, created_at
			FROM programs WHERE id = $1;`,
		id,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return r.singleProgram(rows)
}

func (r *Repo) List(ctx context.Context) (_ []Program, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.programs.list")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	rows, err := r.db.Query(
		ctx,
		`SELECT id, title, description, duration, image_url, created_at
			FROM programs ORDER BY created_at DESC;`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return rows2programs(rows)
}

// Update keeps stored values for nil fields.
func (r *Repo) Update(ctx context.Context, id int, update ProgramUpdate) (_ *Program, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.programs.update")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("program_id", id))

	rows, err := r.db.Query(
		ctx,
		`UPDATE programs SET
			title = COALESCE($2, title),
			description = COALESCE($3, description),
			duration = COALESCE($4, duration),
			image_url = COALESCE($5, image_url)
		WHERE id = $1
		RETURNING id, title, description, duration, image_url, created_at;`,
		id, update.Title, update.Description, update.Duration, update.ImageURL,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return r.singleProgram(rows)
}

func (r *Repo) Delete(ctx context.Context, id int) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.programs.delete")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("program_id", id))

	tag, err := r.db.Exec(ctx, `DELETE FROM programs WHERE id = $1;`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrProgramNotFound
	}
	return nil
}

func (r *Repo) singleProgram(rows pgx.Rows) (*Program, error) {
	programs, err := rows2programs(rows)
	if err != nil {
		return nil, err
	}
	if len(programs) == 0 {
		return nil, ErrProgramNotFound
	}
	return &programs[0], nil
}

func rows2programs(rows pgx.Rows) ([]Program, error) {
	programs := make([]Program, 0)
	for rows.Next() {
		var program Program
		if err := rows.Scan(
			&program.ID, &program.Title, &program.Description,
			&program.Duration, &program.ImageURL, &program.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("rows scan: %w", err)
		}
		programs = append(programs, program)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return programs, nil
}
