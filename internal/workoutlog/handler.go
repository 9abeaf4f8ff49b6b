package workoutlog

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/fitsphere/fitsphere/internal/auth"
	"github.com/fitsphere/fitsphere/internal/telemetry/metrics"
	"github.com/fitsphere/fitsphere/internal/telemetry/tracing"
	"github.com/fitsphere/fitsphere/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

//go:generate mockgen -source=$GOFILE -destination=workoutlog_mocks_test.go -package=workoutlog_test

type logsRepo interface {
	Mark(ctx context.Context, userID int, workoutDate string) (*Log, error)
	Unmark(ctx context.Context, userID int, workoutDate string) (bool, error)
	ListCompleted(ctx context.Context, userID int, startDate, endDate string) ([]Log, error)
	GetByDate(ctx context.Context, userID int, workoutDate string) (*Log, error)
}

type markDayRequest struct {
	Date string `json:"date"`
}

type unmarkDayResponse struct {
	Message string `json:"message"`
	Deleted bool   `json:"deleted"`
}

type Handler struct {
	repo    logsRepo
	metrics *metrics.Manager
	now     func() time.Time
}

func NewHandler(repo logsRepo, metricsManager *metrics.Manager) *Handler {
	return &Handler{
		repo:    repo,
		metrics: metricsManager,
		now:     time.Now,
	}
}

// requestDate takes the date from the request body, defaulting to the
// local today, and strips any time suffix.
func (handler *Handler) requestDate(r *http.Request) (string, error) {
	var req markDayRequest
	if r.Body != nil {
		// empty or invalid body just means "today"
		_ = json.NewDecoder(r.Body).Decode(&req)
	}

	if req.Date == "" {
		return pkg.FormatDate(handler.now()), nil
	}

	date := pkg.DateOnly(req.Date)
	if _, err := pkg.ParseDate(date); err != nil {
		return "", err
	}
	return date, nil
}

func (handler *Handler) HandleMark(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.workoutlog.mark")
	defer span.End()

	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	workoutDate, err := handler.requestDate(r)
	if err != nil {
		http.Error(w, "error, invalid date", http.StatusBadRequest)
		return
	}

	markedLog, err := handler.repo.Mark(ctx, userID, workoutDate)
	if err != nil {
		log.Errorf("failed to mark day %s for user %d: %s", workoutDate, userID, err)
		http.Error(w, "error, failed to mark day as worked out", http.StatusInternalServerError)
		return
	}

	handler.metrics.CounterWorkoutDaysMarked.Inc()

	logJson, err := json.Marshal(markedLog)
	if err != nil {
		log.Errorf("failed to marshal workout log: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	log.Debugf("day %s marked as worked out for user %d", workoutDate, userID)
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, logJson, http.StatusOK)
}

func (handler *Handler) HandleUnmark(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.workoutlog.unmark")
	defer span.End()

	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	workoutDate, err := handler.requestDate(r)
	if err != nil {
		http.Error(w, "error, invalid date", http.StatusBadRequest)
		return
	}

	deleted, err := handler.repo.Unmark(ctx, userID, workoutDate)
	if err != nil {
		log.Errorf("failed to unmark day %s for user %d: %s", workoutDate, userID, err)
		http.Error(w, "error, failed to unmark day", http.StatusInternalServerError)
		return
	}

	resp := unmarkDayResponse{
		Message: "workout log deleted successfully",
		Deleted: deleted,
	}
	if !deleted {
		resp.Message = "workout log not found, nothing to unmark"
	}

	respJson, err := json.Marshal(resp)
	if err != nil {
		log.Errorf("failed to marshal unmark response: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, respJson, http.StatusOK)
}

func (handler *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.workoutlog.list")
	defer span.End()

	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	today := pkg.FormatDate(handler.now())
	startDate := pkg.DateOnly(r.URL.Query().Get("start_date"))
	if startDate == "" {
		startDate = today
	}
	endDate := pkg.DateOnly(r.URL.Query().Get("end_date"))
	if endDate == "" {
		endDate = today
	}
	if _, err := pkg.ParseDate(startDate); err != nil {
		http.Error(w, "error, invalid start date", http.StatusBadRequest)
		return
	}
	if _, err := pkg.ParseDate(endDate); err != nil {
		http.Error(w, "error, invalid end date", http.StatusBadRequest)
		return
	}

	logs, err := handler.repo.ListCompleted(ctx, userID, startDate, endDate)
	if err != nil {
		log.Errorf("failed to list workout logs for user %d: %s", userID, err)
		http.Error(w, "failed to get workout logs", http.StatusInternalServerError)
		return
	}

	logsJson, err := json.Marshal(logs)
	if err != nil {
		log.Errorf("failed to marshal workout logs: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, logsJson, http.StatusOK)
}

func (handler *Handler) HandleGetByDate(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.workoutlog.get")
	defer span.End()

	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	vars := mux.Vars(r)
	workoutDate := pkg.DateOnly(vars["date"])
	if _, err := pkg.ParseDate(workoutDate); err != nil {
		http.Error(w, "error, invalid date", http.StatusBadRequest)
		return
	}

	dayLog, err := handler.repo.GetByDate(ctx, userID, workoutDate)
	if err != nil {
		log.Errorf("failed to get workout log %s for user %d: %s", workoutDate, userID, err)
		http.Error(w, "failed to get workout log", http.StatusInternalServerError)
		return
	}

	if dayLog == nil {
		pkg.WriteJSONResponseOK(w, `{"completed": false}`)
		return
	}

	logJson, err := json.Marshal(dayLog)
	if err != nil {
		log.Errorf("failed to marshal workout log: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, logJson, http.StatusOK)
}
