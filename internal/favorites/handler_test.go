package favorites

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/fitsphere/fitsphere/internal/auth"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func authedRequest(t *testing.T, method, target string, userID int, vars map[string]string) *http.Request {
	t.Helper()
	req, err := http.NewRequest(method, target, nil)
	require.NoError(t, err)
	req = req.WithContext(auth.ContextWithUserID(req.Context(), userID))
	if vars != nil {
		req = mux.SetURLVars(req, vars)
	}
	return req
}

func TestHandler_Toggle(t *testing.T) {
	h := NewHandler(NewMockFavoritesRepo())

	req := authedRequest(t, "POST", "/api/favorites/5/toggle", 42, map[string]string{"programId": "5"})
	rr := httptest.NewRecorder()
	h.HandleToggle(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"program_id": 5, "favorited": true}`, rr.Body.String())

	// second toggle removes the favorite
	req = authedRequest(t, "POST", "/api/favorites/5/toggle", 42, map[string]string{"programId": "5"})
	rr = httptest.NewRecorder()
	h.HandleToggle(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"program_id": 5, "favorited": false}`, rr.Body.String())
}

func TestHandler_List(t *testing.T) {
	repo := NewMockFavoritesRepo()
	h := NewHandler(repo)

	_, err := repo.Toggle(context.Background(), 42, 1)
	require.NoError(t, err)
	_, err = repo.Toggle(context.Background(), 42, 3)
	require.NoError(t, err)
	_, err = repo.Toggle(context.Background(), 7, 1)
	require.NoError(t, err)

	req := authedRequest(t, "GET", "/api/favorites", 42, nil)
	rr := httptest.NewRecorder()
	h.HandleList(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	var favorites []Favorite
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &favorites))
	assert.Len(t, favorites, 2)
}

func TestHandler_Status(t *testing.T) {
	repo := NewMockFavoritesRepo()
	h := NewHandler(repo)
	_, err := repo.Toggle(context.Background(), 42, 5)
	require.NoError(t, err)

	req := authedRequest(t, "GET", "/api/favorites/5/status", 42, map[string]string{"programId": "5"})
	rr := httptest.NewRecorder()
	h.HandleStatus(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"program_id": 5, "favorited": true}`, rr.Body.String())

	req = authedRequest(t, "GET", "/api/favorites/6/status", 42, map[string]string{"programId": "6"})
	rr = httptest.NewRecorder()
	h.HandleStatus(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"program_id": 6, "favorited": false}`, rr.Body.String())
}

func TestHandler_Statuses(t *testing.T) {
	repo := NewMockFavoritesRepo()
	h := NewHandler(repo)
	_, err := repo.Toggle(context.Background(), 42, 2)
	require.NoError(t, err)

	req := authedRequest(t, "GET", "/api/favorites/statuses?program_ids=1,2,3", 42, nil)
	rr := httptest.NewRecorder()
	h.HandleStatuses(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	var statuses []statusResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &statuses))
	require.Len(t, statuses, 3)
	assert.False(t, statuses[0].Favorited)
	assert.True(t, statuses[1].Favorited)
	assert.False(t, statuses[2].Favorited)
}

func TestHandler_Statuses_badInput(t *testing.T) {
	h := NewHandler(NewMockFavoritesRepo())

	req := authedRequest(t, "GET", "/api/favorites/statuses", 42, nil)
	rr := httptest.NewRecorder()
	h.HandleStatuses(rr, req)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	req = authedRequest(t, "GET", "/api/favorites/statuses?program_ids=1,abc", 42, nil)
	rr = httptest.NewRecorder()
	h.HandleStatuses(rr, req)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}
