package favorites

import (
	"context"
	"encoding/json"
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

type favoritesRepo interface {
	Toggle(ctx context.Context, userID, programID int) (bool, error)
	List(ctx context.Context, userID int) ([]Favorite, error)
	IsFavorite(ctx context.Context, userID, programID int) (bool, error)
	Statuses(ctx context.Context, userID int, programIDs []int) (map[int]bool, error)
}

type statusResponse struct {
	ProgramID int  `json:"program_id"`
	Favorited bool `json:"favorited"`
}

type Handler struct {
	repo favoritesRepo
}

func NewHandler(repo favoritesRepo) *Handler {
	return &Handler{
		repo: repo,
	}
}

func (handler *Handler) HandleToggle(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.favorites.toggle")
	defer span.End()

	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	programID, err := strconv.Atoi(mux.Vars(r)["programId"])
	if err != nil {
		http.Error(w, "error, program id NaN", http.StatusBadRequest)
		return
	}

	favorited, err := handler.repo.Toggle(ctx, userID, programID)
	if err != nil {
		log.Errorf("failed to toggle favorite for user %d, program %d: %s", userID, programID, err)
		http.Error(w, "failed to toggle favorite", http.StatusInternalServerError)
		return
	}

	pkg.WriteJSONResponseOK(w, fmt.Sprintf(`{"program_id": %d, "favorited": %t}`, programID, favorited))
}

func (handler *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.favorites.list")
	defer span.End()

	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	favorites, err := handler.repo.List(ctx, userID)
	if err != nil {
		log.Errorf("failed to list favorites for user %d: %s", userID, err)
		http.Error(w, "failed to list favorites", http.StatusInternalServerError)
		return
	}

	favoritesJson, err := json.Marshal(favorites)
	if err != nil {
		log.Errorf("failed to marshal favorites: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, favoritesJson, http.StatusOK)
}

func (handler *Handler) HandleStatus(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.favorites.status")
	defer span.End()

	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	programID, err := strconv.Atoi(mux.Vars(r)["programId"])
	if err != nil {
		http.Error(w, "error, program id NaN", http.StatusBadRequest)
		return
	}

	favorited, err := handler.repo.IsFavorite(ctx, userID, programID)
	if err != nil {
		log.Errorf("failed to get favorite status for user %d, program %d: %s", userID, programID, err)
		http.Error(w, "failed to get favorite status", http.StatusInternalServerError)
		return
	}

	pkg.WriteJSONResponseOK(w, fmt.Sprintf(`{"program_id": %d, "favorited": %t}`, programID, favorited))
}

// HandleStatuses checks a batch of programs at once, ids come comma
// separated in the "program_ids" query param.
func (handler *Handler) HandleStatuses(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.favorites.statuses")
	defer span.End()

	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	rawIDs := r.URL.Query().Get("program_ids")
	if rawIDs == "" {
		http.Error(w, "program_ids param required", http.StatusBadRequest)
		return
	}

	var programIDs []int
	for _, raw := range strings.Split(rawIDs, ",") {
		id, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil {
			http.Error(w, "error, program id NaN", http.StatusBadRequest)
			return
		}
		programIDs = append(programIDs, id)
	}

	statuses, err := handler.repo.Statuses(ctx, userID, programIDs)
	if err != nil {
		log.Errorf("failed to get favorite statuses for user %d: %s", userID, err)
		http.Error(w, "failed to get favorite statuses", http.StatusInternalServerError)
		return
	}

	resp := make([]statusResponse, 0, len(programIDs))
	for _, id := range programIDs {
		resp = append(resp, statusResponse{ProgramID: id, Favorited: statuses[id]})
	}

	respJson, err := json.Marshal(resp)
	if err != nil {
		log.Errorf("failed to marshal favorite statuses: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, respJson, http.StatusOK)
}
