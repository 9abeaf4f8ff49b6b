package planner

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/fitsphere/fitsphere/internal/auth"
	"github.com/fitsphere/fitsphere/internal/telemetry/metrics"
	"github.com/fitsphere/fitsphere/internal/telemetry/tracing"
	"github.com/fitsphere/fitsphere/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

//go:generate mockgen -source=$GOFILE -destination=planner_mocks_test.go -package=planner_test

type plannerService interface {
	WeekSchedule(ctx context.Context, userID int, weekStart string) ([]ScheduleEntry, error)
	Schedule(ctx context.Context, userID int, req UpsertRequest) (*ScheduleEntry, error)
	Complete(ctx context.Context, id, userID int) (*ScheduleEntry, error)
	Reset(ctx context.Context, id, userID int) (*ScheduleEntry, error)
	Remove(ctx context.Context, id, userID int) error
	Today(ctx context.Context, userID int) (*ScheduleEntry, error)
	WeekSummary(ctx context.Context, userID int, weekStart string) (*WeekSummary, error)
}

type Handler struct {
	service plannerService
	metrics *metrics.Manager
}

func NewHandler(service plannerService, metricsManager *metrics.Manager) *Handler {
	return &Handler{
		service: service,
		metrics: metricsManager,
	}
}

func (handler *Handler) writeEntry(w http.ResponseWriter, entry *ScheduleEntry, statusCode int) {
	entryJson, err := json.Marshal(entry)
	if err != nil {
		log.Errorf("failed to marshal schedule entry: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, entryJson, statusCode)
}

func (handler *Handler) HandleWeekly(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.planner.weekly")
	defer span.End()

	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	entries, err := handler.service.WeekSchedule(ctx, userID, r.URL.Query().Get("week_start"))
	if err != nil {
		if pkg.IsValidationError(err) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		log.Errorf("failed to get weekly schedule for user %d: %s", userID, err)
		http.Error(w, "failed to get weekly schedule", http.StatusInternalServerError)
		return
	}

	entriesJson, err := json.Marshal(entries)
	if err != nil {
		log.Errorf("failed to marshal schedule entries: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, entriesJson, http.StatusOK)
}

func (handler *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.planner.create")
	defer span.End()

	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	var req UpsertRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	entry, err := handler.service.Schedule(ctx, userID, req)
	if err != nil {
		if pkg.IsValidationError(err) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		log.Errorf("failed to schedule workout for user %d: %s", userID, err)
		http.Error(w, "failed to schedule workout", http.StatusInternalServerError)
		return
	}

	handler.metrics.CounterWorkoutsScheduled.Inc()

	log.Debugf("workout slot %d scheduled for user %d", entry.ID, userID)
	handler.writeEntry(w, entry, http.StatusCreated)
}

// entryID reads the {id} route variable.
func entryID(r *http.Request) (int, error) {
	return strconv.Atoi(mux.Vars(r)["id"])
}

func (handler *Handler) HandleComplete(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.planner.complete")
	defer span.End()

	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	id, err := entryID(r)
	if err != nil {
		http.Error(w, "error, workout id NaN", http.StatusBadRequest)
		return
	}

	entry, err := handler.service.Complete(ctx, id, userID)
	if err != nil {
		if errors.Is(err, ErrScheduleNotFound) {
			http.Error(w, "workout not found", http.StatusNotFound)
			return
		}
		log.Errorf("failed to complete workout %d for user %d: %s", id, userID, err)
		http.Error(w, "failed to complete workout", http.StatusInternalServerError)
		return
	}

	handler.metrics.CounterWorkoutsCompleted.Inc()

	handler.writeEntry(w, entry, http.StatusOK)
}

func (handler *Handler) HandleReset(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.planner.reset")
	defer span.End()

	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	id, err := entryID(r)
	if err != nil {
		http.Error(w, "error, workout id NaN", http.StatusBadRequest)
		return
	}

	entry, err := handler.service.Reset(ctx, id, userID)
	if err != nil {
		if errors.Is(err, ErrScheduleNotFound) {
			http.Error(w, "workout not found", http.StatusNotFound)
			return
		}
		log.Errorf("failed to reset workout %d for user %d: %s", id, userID, err)
		http.Error(w, "failed to reset workout", http.StatusInternalServerError)
		return
	}

	handler.writeEntry(w, entry, http.StatusOK)
}

func (handler *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.planner.delete")
	defer span.End()

	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	id, err := entryID(r)
	if err != nil {
		http.Error(w, "error, workout id NaN", http.StatusBadRequest)
		return
	}

	if err := handler.service.Remove(ctx, id, userID); err != nil {
		if errors.Is(err, ErrScheduleNotFound) {
			http.Error(w, "workout not found", http.StatusNotFound)
			return
		}
		log.Errorf("failed to delete workout %d for user %d: %s", id, userID, err)
		http.Error(w, "failed to delete workout", http.StatusInternalServerError)
		return
	}

	pkg.WriteJSONResponseOK(w, `{"message": "workout deleted successfully"}`)
}

func (handler *Handler) HandleToday(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.planner.today")
	defer span.End()

	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	entry, err := handler.service.Today(ctx, userID)
	if err != nil {
		log.Errorf("failed to get today's workout for user %d: %s", userID, err)
		http.Error(w, "failed to get today's workout", http.StatusInternalServerError)
		return
	}

	if entry == nil {
		pkg.WriteJSONResponseOK(w, `{"message": "No workout scheduled for today"}`)
		return
	}

	handler.writeEntry(w, entry, http.StatusOK)
}

func (handler *Handler) HandleSummary(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.planner.summary")
	defer span.End()

	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	summary, err := handler.service.WeekSummary(ctx, userID, r.URL.Query().Get("week_start"))
	if err != nil {
		if pkg.IsValidationError(err) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		log.Errorf("failed to get week summary for user %d: %s", userID, err)
		http.Error(w, "failed to get week summary", http.StatusInternalServerError)
		return
	}

	summaryJson, err := json.Marshal(summary)
	if err != nil {
		log.Errorf("failed to marshal week summary: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, summaryJson, http.StatusOK)
}
