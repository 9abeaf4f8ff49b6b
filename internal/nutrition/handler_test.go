package nutrition

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/fitsphere/fitsphere/internal/auth"
	"github.com/fitsphere/fitsphere/internal/telemetry/metrics"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2025, 3, 12, 15, 30, 0, 0, time.UTC)

func newTestHandler() (*Handler, *repoMock) {
	repo := NewMockNutritionRepo()
	h := NewHandler(repo, metrics.NewTestManager())
	h.now = func() time.Time { return testNow }
	return h, repo
}

func authedRequest(t *testing.T, method, target string, body []byte, userID int) *http.Request {
	t.Helper()
	req, err := http.NewRequest(method, target, bytes.NewBuffer(body))
	require.NoError(t, err)
	return req.WithContext(auth.ContextWithUserID(req.Context(), userID))
}

func TestHandler_GetToday_createsEmptyLog(t *testing.T) {
	h, _ := newTestHandler()

	req := authedRequest(t, "GET", "/api/nutrition/today", nil, 42)
	rr := httptest.NewRecorder()
	h.HandleGetToday(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	var dayLog DailyLog
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &dayLog))
	assert.Equal(t, "2025-03-12", dayLog.LogDate)
	assert.Equal(t, 0, dayLog.Calories)

	// second fetch returns the same row
	req = authedRequest(t, "GET", "/api/nutrition/today", nil, 42)
	rr = httptest.NewRecorder()
	h.HandleGetToday(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)
	var again DailyLog
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &again))
	assert.Equal(t, dayLog.ID, again.ID)
}

func TestHandler_UpdateToday_partial(t *testing.T) {
	h, _ := newTestHandler()

	req := authedRequest(t, "PUT", "/api/nutrition/today", []byte(`{"calories":1800,"protein_g":120}`), 42)
	rr := httptest.NewRecorder()
	h.HandleUpdateToday(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)

	// second update touches carbs only, earlier values survive
	req = authedRequest(t, "PUT", "/api/nutrition/today", []byte(`{"carbs_g":150}`), 42)
	rr = httptest.NewRecorder()
	h.HandleUpdateToday(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	var dayLog DailyLog
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &dayLog))
	assert.Equal(t, 1800, dayLog.Calories)
	assert.Equal(t, 120, dayLog.ProteinG)
	assert.Equal(t, 150, dayLog.CarbsG)
}

func TestHandler_UpdateToday_negativeValues(t *testing.T) {
	h, _ := newTestHandler()

	req := authedRequest(t, "PUT", "/api/nutrition/today", []byte(`{"calories":-10}`), 42)
	rr := httptest.NewRecorder()
	h.HandleUpdateToday(rr, req)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestHandler_History(t *testing.T) {
	h, repo := newTestHandler()
	for _, date := range []string{"2025-03-06", "2025-03-10", "2025-03-12"} {
		_, err := repo.GetOrCreateLog(context.Background(), 42, date)
		require.NoError(t, err)
	}
	_, err := repo.GetOrCreateLog(context.Background(), 7, "2025-03-12")
	require.NoError(t, err)

	// default range is the trailing week
	req := authedRequest(t, "GET", "/api/nutrition/history", nil, 42)
	rr := httptest.NewRecorder()
	h.HandleHistory(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)
	var logs []DailyLog
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &logs))
	require.Len(t, logs, 3)
	assert.Equal(t, "2025-03-12", logs[0].LogDate)

	req = authedRequest(t, "GET", "/api/nutrition/history?start_date=2025-03-11&end_date=2025-03-12", nil, 42)
	rr = httptest.NewRecorder()
	h.HandleHistory(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &logs))
	assert.Len(t, logs, 1)

	req = authedRequest(t, "GET", "/api/nutrition/history?start_date=bad", nil, 42)
	rr = httptest.NewRecorder()
	h.HandleHistory(rr, req)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestHandler_Goals_defaults(t *testing.T) {
	h, _ := newTestHandler()

	req := authedRequest(t, "GET", "/api/nutrition/goals", nil, 42)
	rr := httptest.NewRecorder()
	h.HandleGetGoals(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	var goals Goals
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &goals))
	assert.Equal(t, 2000, goals.DailyCalories)
	assert.Equal(t, 30, goals.ProteinPercent)
	assert.Equal(t, 40, goals.CarbsPercent)
	assert.Equal(t, 30, goals.FatPercent)
}

func TestHandler_UpdateGoals(t *testing.T) {
	h, _ := newTestHandler()

	req := authedRequest(t, "PUT", "/api/nutrition/goals", []byte(`{"daily_calories":2400,"protein_percent":35}`), 42)
	rr := httptest.NewRecorder()
	h.HandleUpdateGoals(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	var goals Goals
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &goals))
	assert.Equal(t, 2400, goals.DailyCalories)
	assert.Equal(t, 35, goals.ProteinPercent)
	// untouched fields keep their defaults
	assert.Equal(t, 40, goals.CarbsPercent)

	req = authedRequest(t, "PUT", "/api/nutrition/goals", []byte(`{"protein_percent":150}`), 42)
	rr = httptest.NewRecorder()
	h.HandleUpdateGoals(rr, req)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}
