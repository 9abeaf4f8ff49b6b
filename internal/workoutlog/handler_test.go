package workoutlog_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/fitsphere/fitsphere/internal/auth"
	"github.com/fitsphere/fitsphere/internal/telemetry/metrics"
	"github.com/fitsphere/fitsphere/internal/workoutlog"

	"github.com/golang/mock/gomock"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func authedRequest(t *testing.T, method, target string, body []byte, userID int) *http.Request {
	t.Helper()
	req, err := http.NewRequest(method, target, bytes.NewBuffer(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	return req.WithContext(auth.ContextWithUserID(req.Context(), userID))
}

func TestHandler_HandleMark(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockRepo := NewMocklogsRepo(ctrl)
	h := workoutlog.NewHandler(mockRepo, metrics.NewTestManager())

	markedLog := &workoutlog.Log{
		ID:          1,
		UserID:      42,
		WorkoutDate: "2025-03-14",
		Completed:   true,
		CreatedAt:   time.Now(),
	}

	mockRepo.EXPECT().
		Mark(gomock.Any(), 42, "2025-03-14").
		Return(markedLog, nil)

	req := authedRequest(t, "POST", "/api/workout-logs/mark", []byte(`{"date":"2025-03-14T10:30:00.000Z"}`), 42)
	rr := httptest.NewRecorder()
	http.HandlerFunc(h.HandleMark).ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	var logResp workoutlog.Log
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &logResp))
	assert.Equal(t, "2025-03-14", logResp.WorkoutDate)
	assert.True(t, logResp.Completed)
}

func TestHandler_HandleMark_invalidDate(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockRepo := NewMocklogsRepo(ctrl)
	h := workoutlog.NewHandler(mockRepo, metrics.NewTestManager())

	req := authedRequest(t, "POST", "/api/workout-logs/mark", []byte(`{"date":"14.03.2025"}`), 42)
	rr := httptest.NewRecorder()
	http.HandlerFunc(h.HandleMark).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestHandler_HandleMark_noUser(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockRepo := NewMocklogsRepo(ctrl)
	h := workoutlog.NewHandler(mockRepo, metrics.NewTestManager())

	req, err := http.NewRequest("POST", "/api/workout-logs/mark", bytes.NewBufferString(`{"date":"2025-03-14"}`))
	require.NoError(t, err)
	rr := httptest.NewRecorder()
	http.HandlerFunc(h.HandleMark).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestHandler_HandleUnmark(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockRepo := NewMocklogsRepo(ctrl)
	h := workoutlog.NewHandler(mockRepo, metrics.NewTestManager())

	mockRepo.EXPECT().
		Unmark(gomock.Any(), 42, "2025-03-14").
		Return(true, nil)

	req := authedRequest(t, "POST", "/api/workout-logs/unmark", []byte(`{"date":"2025-03-14"}`), 42)
	rr := httptest.NewRecorder()
	http.HandlerFunc(h.HandleUnmark).ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"deleted":true`)
}

func TestHandler_HandleUnmark_missingLogIsOK(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockRepo := NewMocklogsRepo(ctrl)
	h := workoutlog.NewHandler(mockRepo, metrics.NewTestManager())

	mockRepo.EXPECT().
		Unmark(gomock.Any(), 42, "2025-03-14").
		Return(false, nil)

	req := authedRequest(t, "POST", "/api/workout-logs/unmark", []byte(`{"date":"2025-03-14"}`), 42)
	rr := httptest.NewRecorder()
	http.HandlerFunc(h.HandleUnmark).ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"deleted":false`)
	assert.Contains(t, rr.Body.String(), "nothing to unmark")
}

func TestHandler_HandleList(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockRepo := NewMocklogsRepo(ctrl)
	h := workoutlog.NewHandler(mockRepo, metrics.NewTestManager())

	logs := []workoutlog.Log{
		{ID: 2, UserID: 42, WorkoutDate: "2025-03-12", Completed: true},
		{ID: 1, UserID: 42, WorkoutDate: "2025-03-10", Completed: true},
	}
	mockRepo.EXPECT().
		ListCompleted(gomock.Any(), 42, "2025-03-10", "2025-03-16").
		Return(logs, nil)

	req := authedRequest(t, "GET", "/api/workout-logs?start_date=2025-03-10&end_date=2025-03-16", nil, 42)
	rr := httptest.NewRecorder()
	http.HandlerFunc(h.HandleList).ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	var logsResp []workoutlog.Log
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &logsResp))
	require.Len(t, logsResp, 2)
	assert.Equal(t, "2025-03-12", logsResp[0].WorkoutDate)
}

func TestHandler_HandleGetByDate_missing(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockRepo := NewMocklogsRepo(ctrl)
	h := workoutlog.NewHandler(mockRepo, metrics.NewTestManager())

	mockRepo.EXPECT().
		GetByDate(gomock.Any(), 42, "2025-03-14").
		Return(nil, nil)

	req := authedRequest(t, "GET", "/api/workout-logs/2025-03-14", nil, 42)
	req = mux.SetURLVars(req, map[string]string{"date": "2025-03-14"})
	rr := httptest.NewRecorder()
	http.HandlerFunc(h.HandleGetByDate).ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"completed": false}`, rr.Body.String())
}
