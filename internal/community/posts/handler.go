package posts

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/fitsphere/fitsphere/internal/auth"
	"github.com/fitsphere/fitsphere/internal/telemetry/metrics"
	"github.com/fitsphere/fitsphere/internal/telemetry/tracing"
	"github.com/fitsphere/fitsphere/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

const defaultListLimit = 50

type postsRepo interface {
	Create(ctx context.Context, userID int, content string, imageURL *string) (*Post, error)
	List(ctx context.Context, limit int) ([]Post, error)
	Get(ctx context.Context, id int) (*Post, error)
	Delete(ctx context.Context, id, userID int) error
	ToggleReaction(ctx context.Context, postID, userID int) (bool, error)
	AddComment(ctx context.Context, postID, userID int, content string) (*Comment, error)
	ListComments(ctx context.Context, postID int) ([]Comment, error)
	DeleteComment(ctx context.Context, commentID, userID int) error
}

type createPostRequest struct {
	Content  string  `json:"content"`
	ImageURL *string `json:"image_url"`
}

type commentRequest struct {
	Content string `json:"content"`
}

type Handler struct {
	repo    postsRepo
	metrics *metrics.Manager
}

func NewHandler(repo postsRepo, metricsManager *metrics.Manager) *Handler {
	return &Handler{
		repo:    repo,
		metrics: metricsManager,
	}
}

func (handler *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.posts.create")
	defer span.End()

	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	var req createPostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	if strings.TrimSpace(req.Content) == "" {
		http.Error(w, "post content must not be empty", http.StatusBadRequest)
		return
	}

	post, err := handler.repo.Create(ctx, userID, req.Content, req.ImageURL)
	if err != nil {
		log.Errorf("failed to create post for user %d: %s", userID, err)
		http.Error(w, "failed to create post", http.StatusInternalServerError)
		return
	}

	handler.metrics.CounterCommunityPosts.Inc()

	postJson, err := json.Marshal(post)
	if err != nil {
		log.Errorf("failed to marshal post: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, postJson, http.StatusCreated)
}

func (handler *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.posts.list")
	defer span.End()

	if _, ok := auth.UserIDFromContext(ctx); !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	limit := defaultListLimit
	if rawLimit := r.URL.Query().Get("limit"); rawLimit != "" {
		parsed, err := strconv.Atoi(rawLimit)
		if err != nil || parsed < 1 {
			http.Error(w, "error, invalid limit", http.StatusBadRequest)
			return
		}
		limit = parsed
	}

	posts, err := handler.repo.List(ctx, limit)
	if err != nil {
		log.Errorf("failed to list posts: %s", err)
		http.Error(w, "failed to list posts", http.StatusInternalServerError)
		return
	}

	postsJson, err := json.Marshal(posts)
	if err != nil {
		log.Errorf("failed to marshal posts: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, postsJson, http.StatusOK)
}

func (handler *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.posts.get")
	defer span.End()

	if _, ok := auth.UserIDFromContext(ctx); !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "error, post id NaN", http.StatusBadRequest)
		return
	}

	post, err := handler.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, ErrPostNotFound) {
			http.Error(w, "post not found", http.StatusNotFound)
			return
		}
		log.Errorf("failed to get post %d: %s", id, err)
		http.Error(w, "failed to get post", http.StatusInternalServerError)
		return
	}

	postJson, err := json.Marshal(post)
	if err != nil {
		log.Errorf("failed to marshal post: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, postJson, http.StatusOK)
}

func (handler *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.posts.delete")
	defer span.End()

	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "error, post id NaN", http.StatusBadRequest)
		return
	}

	if err := handler.repo.Delete(ctx, id, userID); err != nil {
		if errors.Is(err, ErrPostNotFound) {
			http.Error(w, "post not found", http.StatusNotFound)
			return
		}
		log.Errorf("failed to delete post %d for user %d: %s", id, userID, err)
		http.Error(w, "failed to delete post", http.StatusInternalServerError)
		return
	}

	pkg.WriteJSONResponseOK(w, `{"message": "post deleted successfully"}`)
}

func (handler *Handler) HandleToggleReaction(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.posts.toggleReaction")
	defer span.End()

	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "error, post id NaN", http.StatusBadRequest)
		return
	}

	reacted, err := handler.repo.ToggleReaction(ctx, id, userID)
	if err != nil {
		log.Errorf("failed to toggle reaction on post %d for user %d: %s", id, userID, err)
		http.Error(w, "failed to toggle reaction", http.StatusInternalServerError)
		return
	}

	pkg.WriteJSONResponseOK(w, fmt.Sprintf(`{"post_id": %d, "reacted": %t}`, id, reacted))
}

func (handler *Handler) HandleAddComment(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.posts.addComment")
	defer span.End()

	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "error, post id NaN", http.StatusBadRequest)
		return
	}

	var req commentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.Content) == "" {
		http.Error(w, "comment content must not be empty", http.StatusBadRequest)
		return
	}

	comment, err := handler.repo.AddComment(ctx, id, userID, req.Content)
	if err != nil {
		log.Errorf("failed to add comment to post %d for user %d: %s", id, userID, err)
		http.Error(w, "failed to add comment", http.StatusInternalServerError)
		return
	}

	commentJson, err := json.Marshal(comment)
	if err != nil {
		log.Errorf("failed to marshal comment: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, commentJson, http.StatusCreated)
}

func (handler *Handler) HandleListComments(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.posts.listComments")
	defer span.End()

	if _, ok := auth.UserIDFromContext(ctx); !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "error, post id NaN", http.StatusBadRequest)
		return
	}

	comments, err := handler.repo.ListComments(ctx, id)
	if err != nil {
		log.Errorf("failed to list comments for post %d: %s", id, err)
		http.Error(w, "failed to list comments", http.StatusInternalServerError)
		return
	}

	commentsJson, err := json.Marshal(comments)
	if err != nil {
		log.Errorf("failed to marshal comments: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, commentsJson, http.StatusOK)
}

func (handler *Handler) HandleDeleteComment(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.posts.deleteComment")
	defer span.End()

	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	commentID, err := strconv.Atoi(mux.Vars(r)["commentId"])
	if err != nil {
		http.Error(w, "error, comment id NaN", http.StatusBadRequest)
		return
	}

	if err := handler.repo.DeleteComment(ctx, commentID, userID); err != nil {
		if errors.Is(err, ErrCommentNotFound) {
			http.Error(w, "comment not found", http.StatusNotFound)
			return
		}
		log.Errorf("failed to delete comment %d for user %d: %s", commentID, userID, err)
		http.Error(w, "failed to delete comment", http.StatusInternalServerError)
		return
	}

	pkg.WriteJSONResponseOK(w, `{"message": "comment deleted successfully"}`)
}
