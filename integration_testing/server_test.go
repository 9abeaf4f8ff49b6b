//go:build integration_test || all_tests

package integration_testing

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func doRequest(
	t *testing.T,
	method, path, token string,
	body any,
) (int, []byte) {
	t.Helper()

	var reqBody io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reqBody = bytes.NewReader(b)
	}

	req, err := http.NewRequest(method, serverEndpoint+path, reqBody)
	require.NoError(t, err)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, respBody
}

func TestServer_fullFlow(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	suite := newSuite(ctx)
	defer suite.cleanup()

	// give the http server a moment to come up
	require.Eventually(t, func() bool {
		resp, err := http.Get(serverEndpoint + "/api/health")
		if err != nil {
			return false
		}
		defer resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 10*time.Second, 200*time.Millisecond)

	// register + login
	status, _ := doRequest(t, "POST", "/api/users/register", "", map[string]any{
		"name":     "Mila",
		"email":    "mila@example.com",
		"password": "super-secret",
	})
	require.Equal(t, http.StatusCreated, status)

	status, body := doRequest(t, "POST", "/api/users/login", "", map[string]any{
		"email":    "mila@example.com",
		"password": "super-secret",
	})
	require.Equal(t, http.StatusOK, status)

	var loginResp struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(body, &loginResp))
	require.NotEmpty(t, loginResp.Token)
	token := loginResp.Token

	// no token -> 401
	status, _ = doRequest(t, "GET", "/api/planner/weekly", "", nil)
	require.Equal(t, http.StatusUnauthorized, status)

	// schedule a recurring Monday workout
	status, body = doRequest(t, "POST", "/api/planner", token, map[string]any{
		"day_of_week":  0,
		"workout_type": "strength",
		"workout_name": "Leg day",
	})
	require.Equal(t, http.StatusCreated, status, string(body))

	var entry struct {
		ID        int  `json:"id"`
		Completed bool `json:"completed"`
	}
	require.NoError(t, json.Unmarshal(body, &entry))
	assert.False(t, entry.Completed)

	// complete it
	status, _ = doRequest(t, "PUT", fmt.Sprintf("/api/planner/%d/complete", entry.ID), token, nil)
	require.Equal(t, http.StatusOK, status)

	// weekly schedule contains it as completed
	status, body = doRequest(t, "GET", "/api/planner/weekly", token, nil)
	require.Equal(t, http.StatusOK, status)

	var weekly []struct {
		ID        int  `json:"id"`
		Completed bool `json:"completed"`
	}
	require.NoError(t, json.Unmarshal(body, &weekly))
	require.Len(t, weekly, 1)
	assert.True(t, weekly[0].Completed)

	// rescheduling the same slot updates the row and resets completion
	status, body = doRequest(t, "POST", "/api/planner", token, map[string]any{
		"day_of_week":  0,
		"workout_name": "Pull day",
	})
	require.Equal(t, http.StatusCreated, status, string(body))

	var rescheduled struct {
		ID          int     `json:"id"`
		Completed   bool    `json:"completed"`
		WorkoutName *string `json:"workout_name"`
		WorkoutType *string `json:"workout_type"`
	}
	require.NoError(t, json.Unmarshal(body, &rescheduled))
	assert.Equal(t, entry.ID, rescheduled.ID)
	assert.False(t, rescheduled.Completed)
	require.NotNil(t, rescheduled.WorkoutName)
	assert.Equal(t, "Pull day", *rescheduled.WorkoutName)
	require.NotNil(t, rescheduled.WorkoutType)
	assert.Equal(t, "strength", *rescheduled.WorkoutType)

	// mark today as worked out and check the summary counts it once
	status, _ = doRequest(t, "POST", "/api/workout-logs/mark", token, map[string]any{})
	require.Equal(t, http.StatusOK, status)

	status, body = doRequest(t, "GET", "/api/planner/summary", token, nil)
	require.Equal(t, http.StatusOK, status)

	var summary struct {
		TotalCompleted int `json:"total_completed"`
	}
	require.NoError(t, json.Unmarshal(body, &summary))
	assert.GreaterOrEqual(t, summary.TotalCompleted, 1)

	// nutrition defaults
	status, body = doRequest(t, "GET", "/api/nutrition/goals", token, nil)
	require.Equal(t, http.StatusOK, status)

	var goals struct {
		DailyCalories int `json:"daily_calories"`
	}
	require.NoError(t, json.Unmarshal(body, &goals))
	assert.Equal(t, 2000, goals.DailyCalories)

	// community post round trip
	status, body = doRequest(t, "POST", "/api/community/posts", token, map[string]any{
		"content": "finished leg day!",
	})
	require.Equal(t, http.StatusCreated, status)

	var post struct {
		ID int `json:"id"`
	}
	require.NoError(t, json.Unmarshal(body, &post))

	status, _ = doRequest(t, "POST", fmt.Sprintf("/api/community/posts/%d/reactions", post.ID), token, nil)
	require.Equal(t, http.StatusOK, status)

	status, body = doRequest(t, "GET", "/api/community/posts", token, nil)
	require.Equal(t, http.StatusOK, status)

	var posts []struct {
		ID            int `json:"id"`
		ReactionCount int `json:"reaction_count"`
	}
	require.NoError(t, json.Unmarshal(body, &posts))
	require.Len(t, posts, 1)
	assert.Equal(t, 1, posts[0].ReactionCount)

	// version endpoint is public
	status, body = doRequest(t, "GET", "/version", "", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "test-version-info", string(body))
}
