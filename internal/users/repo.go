package users

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/fitsphere/fitsphere/internal/telemetry/tracing"
	"github.com/fitsphere/fitsphere/pkg"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

var (
	ErrUserNotFound = errors.New("user not found")
	ErrEmailTaken   = errors.New("email already registered")
)

type Repo struct {
	db *pgxpool.Pool

	roleColumnProbe sync.Once
	hasRoleColumn   bool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db: db,
	}
}

// roleColumn returns the select expression for the role, probing the
// schema once per process. Deployments predating the role migration
// get every user as a plain user.
func (r *Repo) roleColumn() string {
	r.roleColumnProbe.Do(func() {
		// detached from the request context: a cancelled first request
		// must not pin the probe result for the process lifetime
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		rows, err := r.db.Query(
			ctx,
			`SELECT 1 FROM information_schema.columns
				WHERE table_name = 'users' AND column_name = 'role';`,
		)
		if err != nil {
			log.Errorf("failed to probe users.role column: %s", err)
			return
		}
		defer rows.Close()
		r.hasRoleColumn = rows.Next()
	})

	if r.hasRoleColumn {
		return `COALESCE(role, 'user')`
	}
	return `'user'`
}

func (r *Repo) Create(ctx context.Context, name, email, passwordHash string) (_ *User, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.users.create")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	rows, err := r.db.Query(
		ctx,
		`INSERT INTO users (name, email, password_hash)
			VALUES ($1, $2, $3)
		RETURNING id, name, email, password_hash, `+r.roleColumn()+`, created_at;`,
		name, email, passwordHash,
	)
	if err != nil {
		if pkg.IsUniqueViolationError(err) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}
	defer rows.Close()

	return r.singleUser(rows)
}

func (r *Repo) GetByEmail(ctx context.Context, email string) (_ *User, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.users.getByEmail")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	rows, err := r.db.Query(
		ctx,
		`SELECT id, name, email, password_hash, `+r.roleColumn()+`, created_at
			FROM users WHERE email = $1;`,
		email,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return r.singleUser(rows)
}

func (r *Repo) GetByID(ctx context.Context, id int) (_ *User, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.users.getByID")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("user_id", id))

	rows, err := r.db.Query(
		ctx,
		`SELECT id, name, email, password_hash, `+r.roleColumn()+`, created_at
			FROM users WHERE id = $1;`,
		id,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return r.singleUser(rows)
}

// UpdateProfile changes name and/or email, keeping stored values for
// nil fields.
func (r *Repo) UpdateProfile(ctx context.Context, id int, name, email *string) (_ *User, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.users.updateProfile")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("user_id", id))

	rows, err := r.db.Query(
		ctx,
		`UPDATE users SET
			name = COALESCE($2, name),
			email = COALESCE($3, email)
		WHERE id = $1
		RETURNING id, name, email, password_hash, `+r.roleColumn()+`, created_at;`,
		id, name, email,
	)
	if err != nil {
		if pkg.IsUniqueViolationError(err) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}
	defer rows.Close()

	return r.singleUser(rows)
}

func (r *Repo) List(ctx context.Context) (_ []User, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.users.list")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	rows, err := r.db.Query(
		ctx,
		`SELECT id, name, email, password_hash, `+r.roleColumn()+`, created_at
			FROM users ORDER BY id;`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return rows2users(rows)
}

func (r *Repo) singleUser(rows pgx.Rows) (*User, error) {
	users, err := rows2users(rows)
	if err != nil {
		return nil, err
	}
	if len(users) == 0 {
		return nil, ErrUserNotFound
	}
	return &users[0], nil
}

func rows2users(rows pgx.Rows) ([]User, error) {
	users := make([]User, 0)
	for rows.Next() {
		var user User
		if err := rows.Scan(
			&user.ID, &user.Name, &user.Email,
			&user.PasswordHash, &user.Role, &user.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("rows scan: %w", err)
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return users, nil
}
