package users

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/fitsphere/fitsphere/internal/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sessionsStub struct {
	token string
	err   error

	lastUserID int
}

func (s *sessionsStub) Login(_ context.Context, userID int, _ time.Time) (string, error) {
	s.lastUserID = userID
	return s.token, s.err
}

func registerUser(t *testing.T, h *Handler, name, email, password string) *User {
	t.Helper()
	body, err := json.Marshal(registerRequest{Name: name, Email: email, Password: password})
	require.NoError(t, err)
	req := httptest.NewRequest("POST", "/api/users/register", bytes.NewBuffer(body))
	rr := httptest.NewRecorder()
	h.HandleRegister(rr, req)
	require.Equal(t, http.StatusCreated, rr.Code)

	var user User
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &user))
	return &user
}

func TestHandler_Register(t *testing.T) {
	repo := NewMockUsersRepo()
	h := NewHandler(repo, &sessionsStub{token: "t"})

	user := registerUser(t, h, "Mila", "mila@fitsphere.app", "str0ngpass")
	assert.Equal(t, "Mila", user.Name)
	assert.Equal(t, "mila@fitsphere.app", user.Email)
	assert.Equal(t, RoleUser, user.Role)

	stored, err := repo.GetByID(context.Background(), user.ID)
	require.NoError(t, err)
	assert.NotEmpty(t, stored.PasswordHash)
	assert.NotEqual(t, "str0ngpass", stored.PasswordHash)
}

func TestHandler_Register_validation(t *testing.T) {
	h := NewHandler(NewMockUsersRepo(), &sessionsStub{})

	for name, body := range map[string]string{
		"short name":     `{"name":"M","email":"m@x.com","password":"str0ngpass"}`,
		"bad email":      `{"name":"Mila","email":"not-an-email","password":"str0ngpass"}`,
		"short password": `{"name":"Mila","email":"m@x.com","password":"short"}`,
	} {
		t.Run(name, func(t *testing.T) {
			req := httptest.NewRequest("POST", "/api/users/register", bytes.NewBufferString(body))
			rr := httptest.NewRecorder()
			h.HandleRegister(rr, req)
			assert.Equal(t, http.StatusBadRequest, rr.Code)
		})
	}
}

func TestHandler_Register_duplicateEmail(t *testing.T) {
	h := NewHandler(NewMockUsersRepo(), &sessionsStub{})
	registerUser(t, h, "Mila", "mila@fitsphere.app", "str0ngpass")

	req := httptest.NewRequest(
		"POST", "/api/users/register",
		bytes.NewBufferString(`{"name":"Other","email":"mila@fitsphere.app","password":"str0ngpass"}`),
	)
	rr := httptest.NewRecorder()
	h.HandleRegister(rr, req)
	assert.Equal(t, http.StatusConflict, rr.Code)
}

func TestHandler_Login(t *testing.T) {
	repo := NewMockUsersRepo()
	sessions := &sessionsStub{token: "session-token"}
	h := NewHandler(repo, sessions)
	user := registerUser(t, h, "Mila", "mila@fitsphere.app", "str0ngpass")

	req := httptest.NewRequest(
		"POST", "/api/users/login",
		bytes.NewBufferString(`{"email":"Mila@fitsphere.app","password":"str0ngpass"}`),
	)
	rr := httptest.NewRecorder()
	h.HandleLogin(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	var resp loginResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "session-token", resp.Token)
	assert.Equal(t, user.ID, resp.User.ID)
	assert.Equal(t, user.ID, sessions.lastUserID)
}

func TestHandler_Login_invalidCredentials(t *testing.T) {
	h := NewHandler(NewMockUsersRepo(), &sessionsStub{token: "t"})
	registerUser(t, h, "Mila", "mila@fitsphere.app", "str0ngpass")

	req := httptest.NewRequest(
		"POST", "/api/users/login",
		bytes.NewBufferString(`{"email":"mila@fitsphere.app","password":"wrongpass"}`),
	)
	rr := httptest.NewRecorder()
	h.HandleLogin(rr, req)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	req = httptest.NewRequest(
		"POST", "/api/users/login",
		bytes.NewBufferString(`{"email":"nobody@fitsphere.app","password":"str0ngpass"}`),
	)
	rr = httptest.NewRecorder()
	h.HandleLogin(rr, req)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestHandler_Login_sessionError(t *testing.T) {
	h := NewHandler(NewMockUsersRepo(), &sessionsStub{err: errors.New("redis down")})
	registerUser(t, h, "Mila", "mila@fitsphere.app", "str0ngpass")

	req := httptest.NewRequest(
		"POST", "/api/users/login",
		bytes.NewBufferString(`{"email":"mila@fitsphere.app","password":"str0ngpass"}`),
	)
	rr := httptest.NewRecorder()
	h.HandleLogin(rr, req)
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
}

func TestHandler_Profile(t *testing.T) {
	h := NewHandler(NewMockUsersRepo(), &sessionsStub{token: "t"})
	user := registerUser(t, h, "Mila", "mila@fitsphere.app", "str0ngpass")

	req := httptest.NewRequest("GET", "/api/users/profile", nil)
	req = req.WithContext(auth.ContextWithUserID(req.Context(), user.ID))
	rr := httptest.NewRecorder()
	h.HandleGetProfile(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	var profile User
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &profile))
	assert.Equal(t, user.Email, profile.Email)
	assert.NotContains(t, rr.Body.String(), "password")
}

func TestHandler_UpdateProfile(t *testing.T) {
	h := NewHandler(NewMockUsersRepo(), &sessionsStub{token: "t"})
	user := registerUser(t, h, "Mila", "mila@fitsphere.app", "str0ngpass")
	other := registerUser(t, h, "Vanja", "vanja@fitsphere.app", "str0ngpass")

	req := httptest.NewRequest(
		"PUT", "/api/users/profile",
		bytes.NewBufferString(`{"name":"Milena"}`),
	)
	req = req.WithContext(auth.ContextWithUserID(req.Context(), user.ID))
	rr := httptest.NewRecorder()
	h.HandleUpdateProfile(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	var updated User
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &updated))
	assert.Equal(t, "Milena", updated.Name)
	assert.Equal(t, "mila@fitsphere.app", updated.Email)

	// taking another user's email is a conflict
	req = httptest.NewRequest(
		"PUT", "/api/users/profile",
		bytes.NewBufferString(`{"email":"`+other.Email+`"}`),
	)
	req = req.WithContext(auth.ContextWithUserID(req.Context(), user.ID))
	rr = httptest.NewRecorder()
	h.HandleUpdateProfile(rr, req)
	assert.Equal(t, http.StatusConflict, rr.Code)
}

func TestHandler_List(t *testing.T) {
	h := NewHandler(NewMockUsersRepo(), &sessionsStub{token: "t"})
	registerUser(t, h, "Mila", "mila@fitsphere.app", "str0ngpass")
	registerUser(t, h, "Vanja", "vanja@fitsphere.app", "str0ngpass")

	req := httptest.NewRequest("GET", "/api/users", nil)
	req = req.WithContext(auth.ContextWithUserID(req.Context(), 1))
	rr := httptest.NewRecorder()
	h.HandleList(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	var listed []User
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &listed))
	assert.Len(t, listed, 2)

	// unauthenticated request is rejected
	req = httptest.NewRequest("GET", "/api/users", nil)
	rr = httptest.NewRecorder()
	h.HandleList(rr, req)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}
