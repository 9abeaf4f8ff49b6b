package results

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/fitsphere/fitsphere/internal/auth"
	"github.com/fitsphere/fitsphere/internal/telemetry/tracing"
	"github.com/fitsphere/fitsphere/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

type resultsRepo interface {
	Create(ctx context.Context, result Result) (*Result, error)
	Get(ctx context.Context, id, userID int) (*Result, error)
	List(ctx context.Context, userID int, programID *int) ([]Result, error)
	Update(ctx context.Context, id, userID int, update ResultUpdate) (*Result, error)
	Delete(ctx context.Context, id, userID int) error
}

type createResultRequest struct {
	ProgramID    *int    `json:"program_id"`
	EnrollmentID *int    `json:"enrollment_id"`
	WorkoutDate  string  `json:"workout_date"`
	Notes        *string `json:"notes"`
	Completed    bool    `json:"completed"`
}

type Handler struct {
	repo resultsRepo
}

func NewHandler(repo resultsRepo) *Handler {
	return &Handler{
		repo: repo,
	}
}

func (handler *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.results.create")
	defer span.End()

	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	var req createResultRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	workoutDate := pkg.DateOnly(req.WorkoutDate)
	if _, err := pkg.ParseDate(workoutDate); err != nil {
		http.Error(w, "error, invalid workout date", http.StatusBadRequest)
		return
	}

	result, err := handler.repo.Create(ctx, Result{
		UserID:       userID,
		ProgramID:    req.ProgramID,
		EnrollmentID: req.EnrollmentID,
		WorkoutDate:  workoutDate,
		Notes:        req.Notes,
		Completed:    req.Completed,
	})
	if err != nil {
		log.Errorf("failed to create result for user %d: %s", userID, err)
		http.Error(w, "failed to create result", http.StatusInternalServerError)
		return
	}

	handler.writeResult(w, result, http.StatusCreated)
}

func (handler *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.results.get")
	defer span.End()

	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "error, result id NaN", http.StatusBadRequest)
		return
	}

	result, err := handler.repo.Get(ctx, id, userID)
	if err != nil {
		if errors.Is(err, ErrResultNotFound) {
			http.Error(w, "result not found", http.StatusNotFound)
			return
		}
		log.Errorf("failed to get result %d for user %d: %s", id, userID, err)
		http.Error(w, "failed to get result", http.StatusInternalServerError)
		return
	}

	handler.writeResult(w, result, http.StatusOK)
}

func (handler *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.results.list")
	defer span.End()

	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	var programID *int
	if rawID := r.URL.Query().Get("program_id"); rawID != "" {
		id, err := strconv.Atoi(rawID)
		if err != nil {
			http.Error(w, "error, program id NaN", http.StatusBadRequest)
			return
		}
		programID = &id
	}

	results, err := handler.repo.List(ctx, userID, programID)
	if err != nil {
		log.Errorf("failed to list results for user %d: %s", userID, err)
		http.Error(w, "failed to list results", http.StatusInternalServerError)
		return
	}

	resultsJson, err := json.Marshal(results)
	if err != nil {
		log.Errorf("failed to marshal results: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, resultsJson, http.StatusOK)
}

func (handler *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.results.update")
	defer span.End()

	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "error, result id NaN", http.StatusBadRequest)
		return
	}

	var update ResultUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	if update.WorkoutDate != nil {
		workoutDate := pkg.DateOnly(*update.WorkoutDate)
		if _, err := pkg.ParseDate(workoutDate); err != nil {
			http.Error(w, "error, invalid workout date", http.StatusBadRequest)
			return
		}
		update.WorkoutDate = &workoutDate
	}

	result, err := handler.repo.Update(ctx, id, userID, update)
	if err != nil {
		if errors.Is(err, ErrResultNotFound) {
			http.Error(w, "result not found", http.StatusNotFound)
			return
		}
		log.Errorf("failed to update result %d for user %d: %s", id, userID, err)
		http.Error(w, "failed to update result", http.StatusInternalServerError)
		return
	}

	handler.writeResult(w, result, http.StatusOK)
}

func (handler *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.results.delete")
	defer span.End()

	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "error, result id NaN", http.StatusBadRequest)
		return
	}

	if err := handler.repo.Delete(ctx, id, userID); err != nil {
		if errors.Is(err, ErrResultNotFound) {
			http.Error(w, "result not found", http.StatusNotFound)
			return
		}
		log.Errorf("failed to delete result %d for user %d: %s", id, userID, err)
		http.Error(w, "failed to delete result", http.StatusInternalServerError)
		return
	}

	pkg.WriteJSONResponseOK(w, `{"message": "result deleted successfully"}`)
}

func (handler *Handler) writeResult(w http.ResponseWriter, result *Result, statusCode int) {
	resultJson, err := json.Marshal(result)
	if err != nil {
		log.Errorf("failed to marshal result: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, resultJson, statusCode)
}
