package nutrition

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/fitsphere/fitsphere/internal/auth"
	"github.com/fitsphere/fitsphere/internal/telemetry/metrics"
	"github.com/fitsphere/fitsphere/internal/telemetry/tracing"
	"github.com/fitsphere/fitsphere/pkg"

	log "github.com/sirupsen/logrus"
)

type nutritionRepo interface {
	GetOrCreateLog(ctx context.Context, userID int, logDate string) (*DailyLog, error)
	UpdateLog(ctx context.Context, userID int, logDate string, update DailyLogUpdate) (*DailyLog, error)
	History(ctx context.Context, userID int, startDate, endDate string) ([]DailyLog, error)
	GetOrCreateGoals(ctx context.Context, userID int) (*Goals, error)
	UpdateGoals(ctx context.Context, userID int, update GoalsUpdate) (*Goals, error)
}

type Handler struct {
	repo    nutritionRepo
	metrics *metrics.Manager
	now     func() time.Time
}

func NewHandler(repo nutritionRepo, metricsManager *metrics.Manager) *Handler {
	return &Handler{
		repo:    repo,
		metrics: metricsManager,
		now:     time.Now,
	}
}

func (update DailyLogUpdate) validate() error {
	for _, v := range []*int{update.Calories, update.ProteinG, update.CarbsG, update.FatG} {
		if v != nil && *v < 0 {
			return pkg.NewValidationError("nutrition values must not be negative")
		}
	}
	return nil
}

func (update GoalsUpdate) validate() error {
	if update.DailyCalories != nil && *update.DailyCalories < 0 {
		return pkg.NewValidationError("daily calories must not be negative")
	}
	for _, v := range []*int{update.ProteinPercent, update.CarbsPercent, update.FatPercent} {
		if v != nil && (*v < 0 || *v > 100) {
			return pkg.NewValidationError("macro percents must be between 0 and 100")
		}
	}
	return nil
}

func (handler *Handler) HandleGetToday(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.nutrition.getToday")
	defer span.End()

	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	dayLog, err := handler.repo.GetOrCreateLog(ctx, userID, pkg.FormatDate(handler.now()))
	if err != nil {
		log.Errorf("failed to get today's nutrition log for user %d: %s", userID, err)
		http.Error(w, "failed to get nutrition log", http.StatusInternalServerError)
		return
	}

	handler.writeLog(w, dayLog)
}

func (handler *Handler) HandleUpdateToday(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.nutrition.updateToday")
	defer span.End()

	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	var update DailyLogUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if err := update.validate(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	today := pkg.FormatDate(handler.now())
	if _, err := handler.repo.GetOrCreateLog(ctx, userID, today); err != nil {
		log.Errorf("failed to ensure today's nutrition log for user %d: %s", userID, err)
		http.Error(w, "failed to update nutrition log", http.StatusInternalServerError)
		return
	}

	dayLog, err := handler.repo.UpdateLog(ctx, userID, today, update)
	if err != nil {
		log.Errorf("failed to update today's nutrition log for user %d: %s", userID, err)
		http.Error(w, "failed to update nutrition log", http.StatusInternalServerError)
		return
	}

	handler.metrics.CounterNutritionLogs.Inc()

	handler.writeLog(w, dayLog)
}

func (handler *Handler) HandleHistory(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.nutrition.history")
	defer span.End()

	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	today := pkg.FormatDate(handler.now())
	startDate := pkg.DateOnly(r.URL.Query().Get("start_date"))
	if startDate == "" {
		// default to the last week
		startDate = pkg.FormatDate(handler.now().AddDate(0, 0, -6))
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

	logs, err := handler.repo.History(ctx, userID, startDate, endDate)
	if err != nil {
		log.Errorf("failed to get nutrition history for user %d: %s", userID, err)
		http.Error(w, "failed to get nutrition history", http.StatusInternalServerError)
		return
	}

	logsJson, err := json.Marshal(logs)
	if err != nil {
		log.Errorf("failed to marshal nutrition logs: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, logsJson, http.StatusOK)
}

func (handler *Handler) HandleGetGoals(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.nutrition.getGoals")
	defer span.End()

	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	goals, err := handler.repo.GetOrCreateGoals(ctx, userID)
	if err != nil {
		log.Errorf("failed to get nutrition goals for user %d: %s", userID, err)
		http.Error(w, "failed to get nutrition goals", http.StatusInternalServerError)
		return
	}

	handler.writeGoals(w, goals)
}

func (handler *Handler) HandleUpdateGoals(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.nutrition.updateGoals")
	defer span.End()

	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	var update GoalsUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if err := update.validate(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if _, err := handler.repo.GetOrCreateGoals(ctx, userID); err != nil {
		log.Errorf("failed to ensure nutrition goals for user %d: %s", userID, err)
		http.Error(w, "failed to update nutrition goals", http.StatusInternalServerError)
		return
	}

	goals, err := handler.repo.UpdateGoals(ctx, userID, update)
	if err != nil {
		log.Errorf("failed to update nutrition goals for user %d: %s", userID, err)
		http.Error(w, "failed to update nutrition goals", http.StatusInternalServerError)
		return
	}

	handler.writeGoals(w, goals)
}

func (handler *Handler) writeLog(w http.ResponseWriter, dayLog *DailyLog) {
	logJson, err := json.Marshal(dayLog)
	if err != nil {
		log.Errorf("failed to marshal nutrition log: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, logJson, http.StatusOK)
}

func (handler *Handler) writeGoals(w http.ResponseWriter, goals *Goals) {
	goalsJson, err := json.Marshal(goals)
	if err != nil {
		log.Errorf("failed to marshal nutrition goals: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, goalsJson, http.StatusOK)
}
