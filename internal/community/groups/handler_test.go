package groups

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/fitsphere/fitsphere/internal/auth"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func authedRequest(method, target string, body string, userID int) *http.Request {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
	}
	return req.WithContext(auth.ContextWithUserID(req.Context(), userID))
}

func TestHandler_Create_creatorBecomesAdmin(t *testing.T) {
	repo := NewMockRepo()
	handler := NewHandler(repo)

	req := authedRequest("POST", "/api/community/groups", `{"name": "Morning Runners"}`, 1)
	rr := httptest.NewRecorder()
	handler.HandleCreate(rr, req)

	require.Equal(t, http.StatusCreated, rr.Code)
	var group Group
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &group))
	assert.Equal(t, 1, group.CreatedBy)
	assert.True(t, group.IsPublic)
	assert.Equal(t, 1, group.MemberCount)
	assert.Equal(t, MemberRoleAdmin, repo.members[group.ID][1])
}

func TestHandler_Create_shortName(t *testing.T) {
	handler := NewHandler(NewMockRepo())

	req := authedRequest("POST", "/api/community/groups", `{"name": " ab "}`, 1)
	rr := httptest.NewRecorder()
	handler.HandleCreate(rr, req)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestHandler_List_publicOnly(t *testing.T) {
	repo := NewMockRepo()
	handler := NewHandler(repo)

	_, err := repo.Create(context.Background(), 1, "Public Crew", nil, nil, true)
	require.NoError(t, err)
	_, err = repo.Create(context.Background(), 1, "Secret Crew", nil, nil, false)
	require.NoError(t, err)

	req := authedRequest("GET", "/api/community/groups", "", 2)
	rr := httptest.NewRecorder()
	handler.HandleList(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	var groups []Group
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &groups))
	require.Len(t, groups, 1)
	assert.Equal(t, "Public Crew", groups[0].Name)
}

func TestHandler_JoinAndLeave(t *testing.T) {
	repo := NewMockRepo()
	handler := NewHandler(repo)

	group, err := repo.Create(context.Background(), 1, "Morning Runners", nil, nil, true)
	require.NoError(t, err)

	join := func(userID int) *httptest.ResponseRecorder {
		req := authedRequest("POST", fmt.Sprintf("/api/community/groups/%d/join", group.ID), "", userID)
		req = mux.SetURLVars(req, map[string]string{"id": fmt.Sprintf("%d", group.ID)})
		rr := httptest.NewRecorder()
		handler.HandleJoin(rr, req)
		return rr
	}

	rr := join(2)
	assert.Equal(t, http.StatusCreated, rr.Code)
	assert.Equal(t, MemberRoleMember, repo.members[group.ID][2])

	rr = join(2)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"message": "already a member"}`, rr.Body.String())

	req := authedRequest("POST", fmt.Sprintf("/api/community/groups/%d/leave", group.ID), "", 2)
	req = mux.SetURLVars(req, map[string]string{"id": fmt.Sprintf("%d", group.ID)})
	rr = httptest.NewRecorder()
	handler.HandleLeave(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"message": "left group"}`, rr.Body.String())

	public, err := repo.ListPublic(context.Background())
	require.NoError(t, err)
	require.Len(t, public, 1)
	assert.Equal(t, 1, public[0].MemberCount)
}

func TestHandler_Join_missingGroup(t *testing.T) {
	handler := NewHandler(NewMockRepo())

	req := authedRequest("POST", "/api/community/groups/99/join", "", 2)
	req = mux.SetURLVars(req, map[string]string{"id": "99"})
	rr := httptest.NewRecorder()
	handler.HandleJoin(rr, req)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}
