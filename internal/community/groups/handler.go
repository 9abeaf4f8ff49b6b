package groups

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/fitsphere/fitsphere/internal/auth"
	"github.com/fitsphere/fitsphere/internal/telemetry/tracing"
	"github.com/fitsphere/fitsphere/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

type groupsRepo interface {
	ListPublic(ctx context.Context) ([]Group, error)
	Create(ctx context.Context, userID int, name string, description, imageURL *string, isPublic bool) (*Group, error)
	Join(ctx context.Context, groupID, userID int) (bool, error)
	Leave(ctx context.Context, groupID, userID int) error
}

type createGroupRequest struct {
	Name        string  `json:"name"`
	Description *string `json:"description"`
	ImageURL    *string `json:"image_url"`
	IsPublic    *bool   `json:"is_public"`
}

type Handler struct {
	repo groupsRepo
}

func NewHandler(repo groupsRepo) *Handler {
	return &Handler{repo: repo}
}

func (handler *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.groups.list")
	defer span.End()

	if _, ok := auth.UserIDFromContext(ctx); !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	groups, err := handler.repo.ListPublic(ctx)
	if err != nil {
		log.Errorf("failed to list groups: %s", err)
		http.Error(w, "failed to list groups", http.StatusInternalServerError)
		return
	}

	groupsJson, err := json.Marshal(groups)
	if err != nil {
		log.Errorf("failed to marshal groups: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, groupsJson, http.StatusOK)
}

func (handler *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.groups.create")
	defer span.End()

	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	var req createGroupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	name := strings.TrimSpace(req.Name)
	if len(name) < 3 {
		http.Error(w, "name must be at least 3 characters long", http.StatusBadRequest)
		return
	}

	// groups are public unless explicitly made private
	isPublic := true
	if req.IsPublic != nil {
		isPublic = *req.IsPublic
	}

	group, err := handler.repo.Create(ctx, userID, name, req.Description, req.ImageURL, isPublic)
	if err != nil {
		log.Errorf("failed to create group for user %d: %s", userID, err)
		http.Error(w, "failed to create group", http.StatusInternalServerError)
		return
	}

	groupJson, err := json.Marshal(group)
	if err != nil {
		log.Errorf("failed to marshal group: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, groupJson, http.StatusCreated)
}

func (handler *Handler) HandleJoin(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.groups.join")
	defer span.End()

	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "error, group id NaN", http.StatusBadRequest)
		return
	}

	joined, err := handler.repo.Join(ctx, id, userID)
	if err != nil {
		if errors.Is(err, ErrGroupNotFound) {
			http.Error(w, "group not found", http.StatusNotFound)
			return
		}
		log.Errorf("failed to join group %d for user %d: %s", id, userID, err)
		http.Error(w, "failed to join group", http.StatusInternalServerError)
		return
	}

	if !joined {
		pkg.WriteJSONResponseOK(w, `{"message": "already a member"}`)
		return
	}

	pkg.WriteResponseBytes(
		w, pkg.ContentType.JSON,
		[]byte(fmt.Sprintf(`{"message": "joined group", "group_id": %d}`, id)),
		http.StatusCreated,
	)
}

func (handler *Handler) HandleLeave(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.groups.leave")
	defer span.End()

	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "error, group id NaN", http.StatusBadRequest)
		return
	}

	if err := handler.repo.Leave(ctx, id, userID); err != nil {
		log.Errorf("failed to leave group %d for user %d: %s", id, userID, err)
		http.Error(w, "failed to leave group", http.StatusInternalServerError)
		return
	}

	pkg.WriteJSONResponseOK(w, `{"message": "left group"}`)
}
