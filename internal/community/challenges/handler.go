package challenges

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

type challengesRepo interface {
	ListActive(ctx context.Context) ([]Challenge, error)
	Create(
		ctx context.Context,
		userID int,
		name string,
		description, emoji *string,
		startDate, endDate string,
		goalType *string,
		goalValue *int,
	) (*Challenge, error)
	Join(ctx context.Context, challengeID, userID int) (bool, error)
	Leave(ctx context.Context, challengeID, userID int) error
}

type createChallengeRequest struct {
	Name        string  `json:"name"`
	Description *string `json:"description"`
	Emoji       *string `json:"emoji"`
	StartDate   string  `json:"start_date"`
	EndDate     string  `json:"end_date"`
	GoalType    *string `json:"goal_type"`
	GoalValue   *int    `json:"goal_value"`
}

func (req *createChallengeRequest) validate() error {
	if len(strings.TrimSpace(req.Name)) < 3 {
		return errors.New("name must be at least 3 characters long")
	}
	start, err := pkg.ParseDate(pkg.DateOnly(req.StartDate))
	if err != nil {
		return errors.New("start date must be a valid YYYY-MM-DD date")
	}
	end, err := pkg.ParseDate(pkg.DateOnly(req.EndDate))
	if err != nil {
		return errors.New("end date must be a valid YYYY-MM-DD date")
	}
	if end.Before(start) {
		return errors.New("end date must not be before start date")
	}
	return nil
}

type Handler struct {
	repo challengesRepo
}

func NewHandler(repo challengesRepo) *Handler {
	return &Handler{repo: repo}
}

func (handler *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.challenges.list")
	defer span.End()

	if _, ok := auth.UserIDFromContext(ctx); !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	challenges, err := handler.repo.ListActive(ctx)
	if err != nil {
		log.Errorf("failed to list challenges: %s", err)
		http.Error(w, "failed to list challenges", http.StatusInternalServerError)
		return
	}

	challengesJson, err := json.Marshal(challenges)
	if err != nil {
		log.Errorf("failed to marshal challenges: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, challengesJson, http.StatusOK)
}

func (handler *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.challenges.create")
	defer span.End()

	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	var req createChallengeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if err := req.validate(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	challenge, err := handler.repo.Create(
		ctx, userID,
		strings.TrimSpace(req.Name), req.Description, req.Emoji,
		pkg.DateOnly(req.StartDate), pkg.DateOnly(req.EndDate),
		req.GoalType, req.GoalValue,
	)
	if err != nil {
		log.Errorf("failed to create challenge for user %d: %s", userID, err)
		http.Error(w, "failed to create challenge", http.StatusInternalServerError)
		return
	}

	challengeJson, err := json.Marshal(challenge)
	if err != nil {
		log.Errorf("failed to marshal challenge: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, challengeJson, http.StatusCreated)
}

func (handler *Handler) HandleJoin(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.challenges.join")
	defer span.End()

	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "error, challenge id NaN", http.StatusBadRequest)
		return
	}

	joined, err := handler.repo.Join(ctx, id, userID)
	if err != nil {
		if errors.Is(err, ErrChallengeNotFound) {
			http.Error(w, "challenge not found", http.StatusNotFound)
			return
		}
		log.Errorf("failed to join challenge %d for user %d: %s", id, userID, err)
		http.Error(w, "failed to join challenge", http.StatusInternalServerError)
		return
	}

	if !joined {
		pkg.WriteJSONResponseOK(w, `{"message": "already joined"}`)
		return
	}

	pkg.WriteResponseBytes(
		w, pkg.ContentType.JSON,
		[]byte(fmt.Sprintf(`{"message": "joined challenge", "challenge_id": %d}`, id)),
		http.StatusCreated,
	)
}

func (handler *Handler) HandleLeave(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.challenges.leave")
	defer span.End()

	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "error, challenge id NaN", http.StatusBadRequest)
		return
	}

	if err := handler.repo.Leave(ctx, id, userID); err != nil {
		log.Errorf("failed to leave challenge %d for user %d: %s", id, userID, err)
		http.Error(w, "failed to leave challenge", http.StatusInternalServerError)
		return
	}

	pkg.WriteJSONResponseOK(w, `{"message": "left challenge"}`)
}
