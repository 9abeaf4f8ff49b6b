package programs

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/fitsphere/fitsphere/internal/auth"
	"github.com/fitsphere/fitsphere/internal/telemetry/tracing"
	"github.com/fitsphere/fitsphere/internal/users"
	"github.com/fitsphere/fitsphere/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

type programsRepo interface {
	Create(ctx context.Context, program Program) (*Program, error)
	Get(ctx context.Context, id int) (*Program, error)
	List(ctx context.Context) ([]Program, error)
	Update(ctx context.Context, id int, update ProgramUpdate) (*Program, error)
	Delete(ctx context.Context, id int) error
}

type usersGetter interface {
	GetByID(ctx context.Context, id int) (*users.User, error)
}

type Handler struct {
	repo  programsRepo
	users usersGetter
}

func NewHandler(repo programsRepo, usersRepo usersGetter) *Handler {
	return &Handler{
		repo:  repo,
		users: usersRepo,
	}
}

func validateTitle(title string) error {
	if len(strings.TrimSpace(title)) < 3 {
		return pkg.NewValidationError("title must be at least 3 characters long")
	}
	return nil
}

func validateDuration(duration *int) error {
	if duration != nil && (*duration < 1 || *duration > 365) {
		return pkg.NewValidationError("duration must be between 1 and 365 days")
	}
	return nil
}

// requireAdmin resolves the request user and checks the admin role.
// Writes the error response itself, callers just return on false.
func (handler *Handler) requireAdmin(ctx context.Context, w http.ResponseWriter) bool {
	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return false
	}

	user, err := handler.users.GetByID(ctx, userID)
	if err != nil {
		log.Errorf("failed to get user %d for role check: %s", userID, err)
		http.Error(w, "failed to check permissions", http.StatusInternalServerError)
		return false
	}
	if !user.IsAdmin() {
		http.Error(w, "admin role required", http.StatusForbidden)
		return false
	}
	return true
}

func (handler *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.programs.create")
	defer span.End()

	if !handler.requireAdmin(ctx, w) {
		return
	}

	var program Program
	if err := json.NewDecoder(r.Body).Decode(&program); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	if err := validateTitle(program.Title); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := validateDuration(program.Duration); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	created, err := handler.repo.Create(ctx, program)
	if err != nil {
		log.Errorf("failed to create program: %s", err)
		http.Error(w, "failed to create program", http.StatusInternalServerError)
		return
	}

	log.Debugf("program %d created", created.ID)
	handler.writeProgram(w, created, http.StatusCreated)
}

func (handler *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.programs.list")
	defer span.End()

	programs, err := handler.repo.List(ctx)
	if err != nil {
		log.Errorf("failed to list programs: %s", err)
		http.Error(w, "failed to list programs", http.StatusInternalServerError)
		return
	}

	programsJson, err := json.Marshal(programs)
	if err != nil {
		log.Errorf("failed to marshal programs: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, programsJson, http.StatusOK)
}

func (handler *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.programs.get")
	defer span.End()

	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "error, program id NaN", http.StatusBadRequest)
		return
	}

	program, err := handler.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, ErrProgramNotFound) {
			http.Error(w, "program not found", http.StatusNotFound)
			return
		}
		log.Errorf("failed to get program %d: %s", id, err)
		http.Error(w, "failed to get program", http.StatusInternalServerError)
		return
	}

	handler.writeProgram(w, program, http.StatusOK)
}

func (handler *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.programs.update")
	defer span.End()

	if !handler.requireAdmin(ctx, w) {
		return
	}

	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "error, program id NaN", http.StatusBadRequest)
		return
	}

	var update ProgramUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	if update.Title != nil {
		if err := validateTitle(*update.Title); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
	}
	if err := validateDuration(update.Duration); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	program, err := handler.repo.Update(ctx, id, update)
	if err != nil {
		if errors.Is(err, ErrProgramNotFound) {
			http.Error(w, "program not found", http.StatusNotFound)
			return
		}
		log.Errorf("failed to update program %d: %s", id, err)
		http.Error(w, "failed to update program", http.StatusInternalServerError)
		return
	}

	handler.writeProgram(w, program, http.StatusOK)
}

func (handler *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.programs.delete")
	defer span.End()

	if !handler.requireAdmin(ctx, w) {
		return
	}

	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "error, program id NaN", http.StatusBadRequest)
		return
	}

	if err := handler.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, ErrProgramNotFound) {
			http.Error(w, "program not found", http.StatusNotFound)
			return
		}
		log.Errorf("failed to delete program %d: %s", id, err)
		http.Error(w, "failed to delete program", http.StatusInternalServerError)
		return
	}

	pkg.WriteJSONResponseOK(w, `{"message": "program deleted successfully"}`)
}

func (handler *Handler) writeProgram(w http.ResponseWriter, program *Program, statusCode int) {
	programJson, err := json.Marshal(program)
	if err != nil {
		log.Errorf("failed to marshal program: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, programJson, statusCode)
}
