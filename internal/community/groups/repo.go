package groups

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

var ErrGroupNotFound = errors.New("group not found")

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{db: db}
}

func (r *Repo) ListPublic(ctx context.Context) (_ []Group, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.groups.listPublic")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	rows, err := r.db.Query(ctx,
		`SELECT
			g.id, g.created_by, g.name, g.description, g.image_url, g.is_public, g.created_at,
			u.name,
			(SELECT COUNT(*) FROM group_members WHERE group_id = g.id)
		FROM groups g
		JOIN users u ON u.id = g.created_by
		WHERE g.is_public = true
		ORDER BY g.created_at DESC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return rows2groups(rows)
}

// Create inserts the group and makes the creator an admin member.
func (r *Repo) Create(
	ctx context.Context,
	userID int,
	name string,
	description, imageURL *string,
	isPublic bool,
) (_ *Group, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.groups.create")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("user.id", userID))

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	var group Group
	err = tx.QueryRow(ctx,
		`INSERT INTO groups (created_by, name, description, image_url, is_public)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING id, created_by, name, description, image_url, is_public, created_at`,
		userID, name, description, imageURL, isPublic,
	).Scan(
		&group.ID, &group.CreatedBy, &group.Name, &group.Description,
		&group.ImageURL, &group.IsPublic, &group.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("insert group: %w", err)
	}

	_, err = tx.Exec(ctx,
		`INSERT INTO group_members (group_id, user_id, role) VALUES ($1, $2, $3)`,
		group.ID, userID, MemberRoleAdmin,
	)
	if err != nil {
		return nil, fmt.Errorf("insert group admin member: %w", err)
	}

	if err = tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit tx: %w", err)
	}

	group.MemberCount = 1
	return &group, nil
}

// Join adds the user as a regular member, the returned bool says
// whether a new membership was created.
func (r *Repo) Join(ctx context.Context, groupID, userID int) (_ bool, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.groups.join")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(
		attribute.Int("group.id", groupID),
		attribute.Int("user.id", userID),
	)

	tag, err := r.db.Exec(ctx,
		`INSERT INTO group_members (group_id, user_id, role)
			VALUES ($1, $2, $3)
			ON CONFLICT (group_id, user_id) DO NOTHING`,
		groupID, userID, MemberRoleMember,
	)
	if err != nil {
		if pkg.IsForeignKeyViolationError(err) {
			return false, ErrGroupNotFound
		}
		return false, err
	}

	return tag.RowsAffected() > 0, nil
}

func (r *Repo) Leave(ctx context.Context, groupID, userID int) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.groups.leave")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	_, err = r.db.Exec(ctx,
		`DELETE FROM group_members WHERE group_id = $1 AND user_id = $2`,
		groupID, userID,
	)
	return err
}

func rows2groups(rows pgx.Rows) ([]Group, error) {
	groups := make([]Group, 0)
	for rows.Next() {
		var group Group
		if err := rows.Scan(
			&group.ID, &group.CreatedBy, &group.Name, &group.Description,
			&group.ImageURL, &group.IsPublic, &group.CreatedAt,
			&group.CreatorName, &group.MemberCount,
		); err != nil {
			return nil, fmt.Errorf("scan group row: %w", err)
		}
		groups = append(groups, group)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return groups, nil
}
