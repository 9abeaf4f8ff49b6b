package challenges

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

var ErrChallengeNotFound = errors.New("challenge not found")

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{db: db}
}

// ListActive returns challenges whose end date has not passed yet.
func (r *Repo) ListActive(ctx context.Context) (_ []Challenge, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.challenges.listActive")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	rows, err := r.db.Query(ctx,
		`SELECT
			c.id, c.created_by, c.name, c.description, c.emoji,
			c.start_date::text, c.end_date::text, c.goal_type, c.goal_value, c.created_at,
			u.name,
			(SELECT COUNT(*) FROM challenge_participants WHERE challenge_id = c.id)
		FROM challenges c
		JOIN users u ON u.id = c.created_by
		WHERE c.end_date >= CURRENT_DATE
		ORDER BY c.created_at DESC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return rows2challenges(rows)
}

func (r *Repo) Create(
	ctx context.Context,
	userID int,
	name string,
	description, emoji *string,
	startDate, endDate string,
	goalType *string,
	goalValue *int,
) (_ *Challenge, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.challenges.create")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("user.id", userID))

	var challenge Challenge
	err = r.db.QueryRow(ctx,
		`INSERT INTO challenges (created_by, name, description, emoji, start_date, end_date, goal_type, goal_value)
			VALUES ($1, $2, $3, $4, $5::date, $6::date, $7, $8)
			RETURNING
				id, created_by, name, description, emoji,
				start_date::text, end_date::text, goal_type, goal_value, created_at`,
		userID, name, description, emoji, startDate, endDate, goalType, goalValue,
	).Scan(
		&challenge.ID, &challenge.CreatedBy, &challenge.Name, &challenge.Description, &challenge.Emoji,
		&challenge.StartDate, &challenge.EndDate, &challenge.GoalType, &challenge.GoalValue, &challenge.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("insert challenge: %w", err)
	}

	return &challenge, nil
}

// Join adds the user as a participant. Joining twice is a no-op,
// the returned bool says whether a new participation was created.
func (r *Repo) Join(ctx context.Context, challengeID, userID int) (_ bool, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.challenges.join")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(
		attribute.Int("challenge.id", challengeID),
		attribute.Int("user.id", userID),
	)

	tag, err := r.db.Exec(ctx,
		`INSERT INTO challenge_participants (challenge_id, user_id)
			VALUES ($1, $2)
			ON CONFLICT (challenge_id, user_id) DO NOTHING`,
		challengeID, userID,
	)
	if err != nil {
		if pkg.IsForeignKeyViolationError(err) {
			return false, ErrChallengeNotFound
		}
		return false, err
	}

	return tag.RowsAffected() > 0, nil
}

func (r *Repo) Leave(ctx context.Context, challengeID, userID int) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.challenges.leave")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	_, err = r.db.Exec(ctx,
		`DELETE FROM challenge_participants WHERE challenge_id = $1 AND user_id = $2`,
		challengeID, userID,
	)
	return err
}

func rows2challenges(rows pgx.Rows) ([]Challenge, error) {
	challenges := make([]Challenge, 0)
	for rows.Next() {
		var challenge Challenge
		if err := rows.Scan(
			&challenge.ID, &challenge.CreatedBy, &challenge.Name, &challenge.Description, &challenge.Emoji,
			&challenge.StartDate, &challenge.EndDate, &challenge.GoalType, &challenge.GoalValue, &challenge.CreatedAt,
			&challenge.CreatorName, &challenge.ParticipantCount,
		); err != nil {
			return nil, fmt.Errorf("scan challenge row: %w", err)
		}
		challenges = append(challenges, challenge)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return challenges, nil
}
