package enrollments

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

type enrollmentsRepo interface {
	Enroll(ctx context.Context, userID, programID int) (*Enrollment, error)
	Unenroll(ctx context.Context, userID, programID int) error
	UpdateProgress(ctx context.Context, userID, programID, progress int) (*Enrollment, error)
	ListMine(ctx context.Context, userID int) ([]Enrollment, error)
}

type progressRequest struct {
	Progress int `json:"progress"`
}

type Handler struct {
	repo enrollmentsRepo
}

func NewHandler(repo enrollmentsRepo) *Handler {
	return &Handler{
		repo: repo,
	}
}

func programID(r *http.Request) (int, error) {
	return strconv.Atoi(mux.Vars(r)["id"])
}

func (handler *Handler) HandleEnroll(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.enrollments.enroll")
	defer span.End()

	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	id, err := programID(r)
	if err != nil {
		http.Error(w, "error, program id NaN", http.StatusBadRequest)
		return
	}

	enrollment, err := handler.repo.Enroll(ctx, userID, id)
	if err != nil {
		switch {
		case errors.Is(err, ErrAlreadyEnrolled):
			pkg.WriteJSONResponseOK(w, `{"message": "already enrolled"}`)
		case errors.Is(err, ErrProgramMissing):
			http.Error(w, "program not found", http.StatusNotFound)
		default:
			log.Errorf("failed to enroll user %d into program %d: %s", userID, id, err)
			http.Error(w, "failed to enroll", http.StatusInternalServerError)
		}
		return
	}

	enrollmentJson, err := json.Marshal(enrollment)
	if err != nil {
		log.Errorf("failed to marshal enrollment: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	log.Debugf("user %d enrolled into program %d", userID, id)
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, enrollmentJson, http.StatusCreated)
}

func (handler *Handler) HandleUnenroll(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.enrollments.unenroll")
	defer span.End()

	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	id, err := programID(r)
	if err != nil {
		http.Error(w, "error, program id NaN", http.StatusBadRequest)
		return
	}

	if err := handler.repo.Unenroll(ctx, userID, id); err != nil {
		if errors.Is(err, ErrEnrollmentNotFound) {
			http.Error(w, "enrollment not found", http.StatusNotFound)
			return
		}
		log.Errorf("failed to unenroll user %d from program %d: %s", userID, id, err)
		http.Error(w, "failed to unenroll", http.StatusInternalServerError)
		return
	}

	pkg.WriteJSONResponseOK(w, `{"message": "unenrolled successfully"}`)
}

func (handler *Handler) HandleUpdateProgress(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.enrollments.updateProgress")
	defer span.End()

	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	id, err := programID(r)
	if err != nil {
		http.Error(w, "error, program id NaN", http.StatusBadRequest)
		return
	}

	var req progressRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	if req.Progress < 0 || req.Progress > 100 {
		http.Error(w, "progress must be between 0 and 100", http.StatusBadRequest)
		return
	}

	enrollment, err := handler.repo.UpdateProgress(ctx, userID, id, req.Progress)
	if err != nil {
		if errors.Is(err, ErrEnrollmentNotFound) {
			http.Error(w, "enrollment not found", http.StatusNotFound)
			return
		}
		log.Errorf("failed to update progress for user %d, program %d: %s", userID, id, err)
		http.Error(w, "failed to update progress", http.StatusInternalServerError)
		return
	}

	enrollmentJson, err := json.Marshal(enrollment)
	if err != nil {
		log.Errorf("failed to marshal enrollment: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, enrollmentJson, http.StatusOK)
}

func (handler *Handler) HandleListMine(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.enrollments.listMine")
	defer span.End()

	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	enrollments, err := handler.repo.ListMine(ctx, userID)
	if err != nil {
		log.Errorf("failed to list enrollments for user %d: %s", userID, err)
		http.Error(w, "failed to list enrollments", http.StatusInternalServerError)
		return
	}

	enrollmentsJson, err := json.Marshal(enrollments)
	if err != nil {
		log.Errorf("failed to marshal enrollments: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, enrollmentsJson, http.StatusOK)
}
