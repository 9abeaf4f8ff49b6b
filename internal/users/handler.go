package users

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/fitsphere/fitsphere/internal/auth"
	"github.com/fitsphere/fitsphere/internal/telemetry/tracing"
	"github.com/fitsphere/fitsphere/pkg"

	log "github.com/sirupsen/logrus"
)

type usersRepo interface {
	Create(ctx context.Context, name, email, passwordHash string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByID(ctx context.Context, id int) (*User, error)
	UpdateProfile(ctx context.Context, id int, name, email *string) (*User, error)
	List(ctx context.Context) ([]User, error)
}

type sessionCreator interface {
	Login(ctx context.Context, userID int, createdAt time.Time) (string, error)
}

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	User  *User  `json:"user"`
	Token string `json:"token"`
}

type updateProfileRequest struct {
	Name  *string `json:"name"`
	Email *string `json:"email"`
}

type Handler struct {
	repo     usersRepo
	sessions sessionCreator
	now      func() time.Time
}

func NewHandler(repo usersRepo, sessions sessionCreator) *Handler {
	return &Handler{
		repo:     repo,
		sessions: sessions,
		now:      time.Now,
	}
}

func (req registerRequest) validate() error {
	if len(strings.TrimSpace(req.Name)) < 2 {
		return pkg.NewValidationError("name must be at least 2 characters long")
	}
	if !strings.Contains(req.Email, "@") {
		return pkg.NewValidationError("email must be a valid email address")
	}
	if len(req.Password) < 6 {
		return pkg.NewValidationError("password must be at least 6 characters long")
	}
	return nil
}

func (handler *Handler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.users.register")
	defer span.End()

	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	if err := req.validate(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	passwordHash, err := pkg.HashPassword(req.Password)
	if err != nil {
		log.Errorf("failed to hash password: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	user, err := handler.repo.Create(ctx, strings.TrimSpace(req.Name), strings.ToLower(req.Email), passwordHash)
	if err != nil {
		if errors.Is(err, ErrEmailTaken) {
			http.Error(w, "email already registered", http.StatusConflict)
			return
		}
		log.Errorf("failed to create user: %s", err)
		http.Error(w, "failed to register", http.StatusInternalServerError)
		return
	}

	log.Debugf("new user %d registered", user.ID)
	handler.writeUser(w, user, http.StatusCreated)
}

func (handler *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.users.login")
	defer span.End()

	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	user, err := handler.repo.GetByEmail(ctx, strings.ToLower(req.Email))
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			http.Error(w, "invalid credentials", http.StatusUnauthorized)
			return
		}
		log.Errorf("failed to get user by email: %s", err)
		http.Error(w, "failed to login", http.StatusInternalServerError)
		return
	}

	if !pkg.CheckPasswordHash(req.Password, user.PasswordHash) {
		http.Error(w, "invalid credentials", http.StatusUnauthorized)
		return
	}

	token, err := handler.sessions.Login(ctx, user.ID, handler.now())
	if err != nil {
		log.Errorf("failed to create session for user %d: %s", user.ID, err)
		http.Error(w, "failed to login", http.StatusInternalServerError)
		return
	}

	respJson, err := json.Marshal(loginResponse{User: user, Token: token})
	if err != nil {
		log.Errorf("failed to marshal login response: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	log.Tracef("user %d logged in", user.ID)
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, respJson, http.StatusOK)
}

func (handler *Handler) HandleGetProfile(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.users.getProfile")
	defer span.End()

	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	user, err := handler.repo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			http.Error(w, "user not found", http.StatusNotFound)
			return
		}
		log.Errorf("failed to get user %d: %s", userID, err)
		http.Error(w, "failed to get profile", http.StatusInternalServerError)
		return
	}

	handler.writeUser(w, user, http.StatusOK)
}

func (handler *Handler) HandleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.users.updateProfile")
	defer span.End()

	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	var req updateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	if req.Name != nil && len(strings.TrimSpace(*req.Name)) < 2 {
		http.Error(w, "name must be at least 2 characters long", http.StatusBadRequest)
		return
	}
	if req.Email != nil {
		if !strings.Contains(*req.Email, "@") {
			http.Error(w, "email must be a valid email address", http.StatusBadRequest)
			return
		}
		lowered := strings.ToLower(*req.Email)
		req.Email = &lowered
	}

	user, err := handler.repo.UpdateProfile(ctx, userID, req.Name, req.Email)
	if err != nil {
		switch {
		case errors.Is(err, ErrEmailTaken):
			http.Error(w, "email already registered", http.StatusConflict)
		case errors.Is(err, ErrUserNotFound):
			http.Error(w, "user not found", http.StatusNotFound)
		default:
			log.Errorf("failed to update profile for user %d: %s", userID, err)
			http.Error(w, "failed to update profile", http.StatusInternalServerError)
		}
		return
	}

	handler.writeUser(w, user, http.StatusOK)
}

func (handler *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.users.list")
	defer span.End()

	if _, ok := auth.UserIDFromContext(ctx); !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	allUsers, err := handler.repo.List(ctx)
	if err != nil {
		log.Errorf("failed to list users: %s", err)
		http.Error(w, "failed to list users", http.StatusInternalServerError)
		return
	}

	usersJson, err := json.Marshal(allUsers)
	if err != nil {
		log.Errorf("failed to marshal users: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, usersJson, http.StatusOK)
}

func (handler *Handler) writeUser(w http.ResponseWriter, user *User, statusCode int) {
	userJson, err := json.Marshal(user)
	if err != nil {
		log.Errorf("failed to marshal user: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, userJson, statusCode)
}
