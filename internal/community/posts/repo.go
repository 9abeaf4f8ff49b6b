package posts

import (
	"context"
	"errors"
	"fmt"

	"github.com/fitsphere/fitsphere/internal/telemetry/tracing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/attribute"
)

var (
	ErrPostNotFound    = errors.New("post not found")
	ErrCommentNotFound = errors.New("comment not found")
)

const postColumns = `p.id, p.user_id, p.content, p.image_url, p.created_at, u.name,
	(SELECT COUNT(*) FROM post_reactions r WHERE r.post_id = p.id),
	(SELECT COUNT(*) FROM post_comments c WHERE c.post_id = p.id)`

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db: db,
	}
}

func (r *Repo) Create(ctx context.Context, userID int, content string, imageURL *string) (_ *Post, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.posts.create")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("user_id", userID))

	rows, err := r.db.Query(
		ctx,
		`INSERT INTO community_posts (user_id, content, image_url)
			VALUES ($1, $2, $3)
		RETURNING id, user_id, content, image_url, created_at;`,
		userID, content, imageURL,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, err
		}
		return nil, errors.New("unexpected error [no row returned]")
	}

	var post Post
	if err := rows.Scan(&post.ID, &post.UserID, &post.Content, &post.ImageURL, &post.CreatedAt); err != nil {
		return nil, fmt.Errorf("rows scan: %w", err)
	}
	return &post, nil
}

func (r *Repo) List(ctx context.Context, limit int) (_ []Post, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.posts.list")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("limit", limit))

	rows, err := r.db.Query(
		ctx,
		`SELECT `+postColumns+`
			FROM community_posts p
			JOIN users u ON u.id = p.user_id
			ORDER BY p.created_at DESC
			LIMIT $1;`,
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return rows2posts(rows)
}

func (r *Repo) Get(ctx context.Context, id int) (_ *Post, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.posts.get")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("post_id", id))

	rows, err := r.db.Query(
		ctx,
		`SELECT `+postColumns+`
			FROM community_posts p
			JOIN users u ON u.id = p.user_id
			WHERE p.id = $1;`,
		id,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	posts, err := rows2posts(rows)
	if err != nil {
		return nil, err
	}
	if len(posts) == 0 {
		return nil, ErrPostNotFound
	}
	return &posts[0], nil
}

func (r *Repo) Delete(ctx context.Context, id, userID int) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.posts.delete")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("post_id", id))

	tag, err := r.db.Exec(
		ctx,
		`DELETE FROM community_posts WHERE id = $1 AND user_id = $2;`,
		id, userID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrPostNotFound
	}
	return nil
}

// ToggleReaction flips the user's reaction on a post, reporting the
// resulting state.
func (r *Repo) ToggleReaction(ctx context.Context, postID, userID int) (reacted bool, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.posts.toggleReaction")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("post_id", postID))

	tag, err := r.db.Exec(
		ctx,
		`DELETE FROM post_reactions WHERE post_id = $1 AND user_id = $2;`,
		postID, userID,
	)
	if err != nil {
		return false, err
	}
	if tag.RowsAffected() > 0 {
		return false, nil
	}

	if _, err := r.db.Exec(
		ctx,
		`INSERT INTO post_reactions (post_id, user_id) VALUES ($1, $2)
			ON CONFLICT (post_id, user_id) DO NOTHING;`,
		postID, userID,
	); err != nil {
		return false, err
	}
	return true, nil
}

func (r *Repo) AddComment(ctx context.Context, postID, userID int, content string) (_ *Comment, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.posts.addComment")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("post_id", postID))

	rows, err := r.db.Query(
		ctx,
		`INSERT INTO post_comments (post_id, user_id, content)
			VALUES ($1, $2, $3)
		RETURNING id, post_id, user_id, content, created_at;`,
		postID, userID, content,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, err
		}
		return nil, errors.New("unexpected error [no row returned]")
	}

	var comment Comment
	if err := rows.Scan(&comment.ID, &comment.PostID, &comment.UserID, &comment.Content, &comment.CreatedAt); err != nil {
		return nil, fmt.Errorf("rows scan: %w", err)
	}
	return &comment, nil
}

func (r *Repo) ListComments(ctx context.Context, postID int) (_ []Comment, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.posts.listComments")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("post_id", postID))

	rows, err := r.db.Query(
		ctx,
		`SELECT c.id, c.post_id, c.user_id, c.content, c.created_at, u.name
			FROM post_comments c
			JOIN users u ON u.id = c.user_id
			WHERE c.post_id = $1
			ORDER BY c.created_at ASC;`,
		postID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	comments := make([]Comment, 0)
	for rows.Next() {
		var comment Comment
		if err := rows.Scan(
			&comment.ID, &comment.PostID, &comment.UserID,
			&comment.Content, &comment.CreatedAt, &comment.AuthorName,
		); err != nil {
			return nil, fmt.Errorf("rows scan: %w", err)
		}
		comments = append(comments, comment)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return comments, nil
}

func (r *Repo) DeleteComment(ctx context.Context, commentID, userID int) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.posts.deleteComment")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("comment_id", commentID))

	tag, err := r.db.Exec(
		ctx,
		`DELETE FROM post_comments WHERE id = $1 AND user_id = $2;`,
		commentID, userID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrCommentNotFound
	}
	return nil
}

func rows2posts(rows pgx.Rows) ([]Post, error) {
	posts := make([]Post, 0)
	for rows.Next() {
		var post Post
		if err := rows.Scan(
			&post.ID, &post.UserID, &post.Content, &post.ImageURL, &post.CreatedAt,
			&post.AuthorName, &post.ReactionCount, &post.CommentCount,
		); err != nil {
			return nil, fmt.Errorf("rows scan: %w", err)
		}
		posts = append(posts, post)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return posts, nil
}
