package results

import (
	"bytes"
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

func authedRequest(t *testing.T, method, target string, body []byte, userID int, vars map[string]string) *http.Request {
	t.Helper()
	req, err := http.NewRequest(method, target, bytes.NewBuffer(body))
	require.NoError(t, err)
	req = req.WithContext(auth.ContextWithUserID(req.Context(), userID))
	if vars != nil {
		req = mux.SetURLVars(req, vars)
	}
	return req
}

func TestHandler_Create(t *testing.T) {
	h := NewHandler(NewMockResultsRepo())

	req := authedRequest(t, "POST", "/api/results",
		[]byte(`{"workout_date":"2025-03-14T08:00:00Z","notes":"solid session","completed":true}`), 42, nil)
	rr := httptest.NewRecorder()
	h.HandleCreate(rr, req)

	require.Equal(t, http.StatusCreated, rr.Code)
	var result Result
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &result))
	assert.Equal(t, 42, result.UserID)
	assert.Equal(t, "2025-03-14", result.WorkoutDate)
	assert.True(t, result.Completed)
}

func TestHandler_Create_invalidDate(t *testing.T) {
	h := NewHandler(NewMockResultsRepo())

	req := authedRequest(t, "POST", "/api/results", []byte(`{"workout_date":"14.03.2025"}`), 42, nil)
	rr := httptest.NewRecorder()
	h.HandleCreate(rr, req)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestHandler_GetAndOwnership(t *testing.T) {
	repo := NewMockResultsRepo()
	h := NewHandler(repo)
	created, err := repo.Create(context.Background(), Result{UserID: 42, WorkoutDate: "2025-03-14"})
	require.NoError(t, err)

	req := authedRequest(t, "GET", "/api/results/1", nil, 42, map[string]string{"id": "1"})
	rr := httptest.NewRecorder()
	h.HandleGet(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)
	var got Result
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
	assert.Equal(t, created.ID, got.ID)

	// another user cannot see it
	req = authedRequest(t, "GET", "/api/results/1", nil, 7, map[string]string{"id": "1"})
	rr = httptest.NewRecorder()
	h.HandleGet(rr, req)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestHandler_List_programFilter(t *testing.T) {
	repo := NewMockResultsRepo()
	h := NewHandler(repo)
	programID := 3
	_, err := repo.Create(context.Background(), Result{UserID: 42, WorkoutDate: "2025-03-10", ProgramID: &programID})
	require.NoError(t, err)
	_, err = repo.Create(context.Background(), Result{UserID: 42, WorkoutDate: "2025-03-14"})
	require.NoError(t, err)

	req := authedRequest(t, "GET", "/api/results", nil, 42, nil)
	rr := httptest.NewRecorder()
	h.HandleList(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)
	var all []Result
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &all))
	require.Len(t, all, 2)
	// newest first
	assert.Equal(t, "2025-03-14", all[0].WorkoutDate)

	req = authedRequest(t, "GET", "/api/results?program_id=3", nil, 42, nil)
	rr = httptest.NewRecorder()
	h.HandleList(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)
	var filtered []Result
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &filtered))
	require.Len(t, filtered, 1)
	require.NotNil(t, filtered[0].ProgramID)
	assert.Equal(t, 3, *filtered[0].ProgramID)
}

func TestHandler_Update(t *testing.T) {
	repo := NewMockResultsRepo()
	h := NewHandler(repo)
	_, err := repo.Create(context.Background(), Result{UserID: 42, WorkoutDate: "2025-03-14"})
	require.NoError(t, err)

	req := authedRequest(t, "PUT", "/api/results/1", []byte(`{"completed":true,"notes":"pb on squats"}`), 42, map[string]string{"id": "1"})
	rr := httptest.NewRecorder()
	h.HandleUpdate(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	var updated Result
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &updated))
	assert.True(t, updated.Completed)
	assert.Equal(t, "2025-03-14", updated.WorkoutDate)
	require.NotNil(t, updated.Notes)
	assert.Equal(t, "pb on squats", *updated.Notes)
}

func TestHandler_Delete(t *testing.T) {
	repo := NewMockResultsRepo()
	h := NewHandler(repo)
	_, err := repo.Create(context.Background(), Result{UserID: 42, WorkoutDate: "2025-03-14"})
	require.NoError(t, err)

	// wrong user first
	req := authedRequest(t, "DELETE", "/api/results/1", nil, 7, map[string]string{"id": "1"})
	rr := httptest.NewRecorder()
	h.HandleDelete(rr, req)
	assert.Equal(t, http.StatusNotFound, rr.Code)

	req = authedRequest(t, "DELETE", "/api/results/1", nil, 42, map[string]string{"id": "1"})
	rr = httptest.NewRecorder()
	h.HandleDelete(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Empty(t, repo.results)
}
