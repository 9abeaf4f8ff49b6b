package favorites

import (
	"context"
	"fmt"

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

// Toggle flips the favorite state for (user, program) and reports the
// resulting state.
func (r *Repo) Toggle(ctx context.Context, userID, programID int) (favorited bool, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.favorites.toggle")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(
		attribute.Int("user_id", userID),
		attribute.Int("program_id", programID),
	)

	tag, err := r.db.Exec(
		ctx,
		`DELETE FROM favorites WHERE user_id = $1 AND program_id = $2;`,
		userID, programID,
	)
	if err != nil {
		return false, err
	}
	if tag.RowsAffected() > 0 {
		return false, nil
	}

	if _, err := r.db.Exec(
		ctx,
		`INSERT INTO favorites (user_id, program_id) VALUES ($1, $2)
			ON CONFLICT (user_id, program_id) DO NOTHING;`,
		userID, programID,
	); err != nil {
		return false, err
	}
	return true, nil
}

func (r *Repo) List(ctx context.Context, userID int) (_ []Favorite, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.favorites.list")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("user_id", userID))

	rows, err := r.db.Query(
		ctx,
		`SELECT f.id, f.user_id, f.program_id, f.created_at, p.title, p.image_url
			FROM favorites f
			JOIN programs p ON p.id = f.program_id
			WHERE f.user_id = $1
			ORDER BY f.created_at DESC;`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return rows2favorites(rows)
}

func (r *Repo) IsFavorite(ctx context.Context, userID, programID int) (favorited bool, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.favorites.isFavorite")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	rows, err := r.db.Query(
		ctx,
		`SELECT 1 FROM favorites WHERE user_id = $1 AND program_id = $2;`,
		userID, programID,
	)
	if err != nil {
		return false, err
	}
	defer rows.Close()

	favorited = rows.Next()
	if err := rows.Err(); err != nil {
		return false, err
	}
	return favorited, nil
}

// Statuses reports the favorite state for a batch of program ids in a
// single query.
func (r *Repo) Statuses(ctx context.Context, userID int, programIDs []int) (_ map[int]bool, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.favorites.statuses")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("programs", len(programIDs)))

	statuses := make(map[int]bool, len(programIDs))
	for _, id := range programIDs {
		statuses[id] = false
	}

	rows, err := r.db.Query(
		ctx,
		`SELECT program_id FROM favorites WHERE user_id = $1 AND program_id = ANY($2::int[]);`,
		userID, programIDs,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var programID int
		if err := rows.Scan(&programID); err != nil {
			return nil, fmt.Errorf("rows scan: %w", err)
		}
		statuses[programID] = true
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return statuses, nil
}

func rows2favorites(rows pgx.Rows) ([]Favorite, error) {
	favorites := make([]Favorite, 0)
	for rows.Next() {
		var f Favorite
		if err := rows.Scan(
			&f.ID, &f.UserID, &f.ProgramID, &f.CreatedAt,
			&f.ProgramTitle, &f.ProgramImage,
		); err != nil {
			return nil, fmt.Errorf("rows scan: %w", err)
		}
		favorites = append(favorites, f)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return favorites, nil
}
