package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/fitsphere/fitsphere/internal/auth"
	"github.com/fitsphere/fitsphere/internal/middleware"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthMiddlewareHandler_AuthCheck(t *testing.T) {
	loginChecker := auth.NewLoginTestChecker()
	loginChecker.LoggedSessions["valid-token"] = 42
	authMiddleware := middleware.NewAuthMiddlewareHandler(loginChecker)

	testCases := []struct {
		name               string
		path               string
		method             string
		token              string
		bearerToken        string
		expectedStatusCode int
		expectedUserID     int
	}{
		{
			name:               "AllowedPathWithoutToken",
			path:               "/api/users/login",
			method:             "POST",
			expectedStatusCode: http.StatusOK,
		},
		{
			name:               "AllowedPrefixWithoutToken",
			path:               "/api/programs/7",
			method:             "GET",
			expectedStatusCode: http.StatusOK,
		},
		{
			name:               "AllowedPrefixWithToken",
			path:               "/api/programs/7",
			method:             "PUT",
			bearerToken:        "valid-token",
			expectedStatusCode: http.StatusOK,
			expectedUserID:     42,
		},
		{
			name:               "NotAllowedPathWithoutToken",
			path:               "/api/planner",
			method:             "GET",
			expectedStatusCode: http.StatusUnauthorized,
		},
		{
			name:               "ValidLegacyToken",
			path:               "/api/planner",
			method:             "GET",
			token:              "valid-token",
			expectedStatusCode: http.StatusOK,
			expectedUserID:     42,
		},
		{
			name:               "ValidBearerToken",
			path:               "/api/planner",
			method:             "GET",
			bearerToken:        "valid-token",
			expectedStatusCode: http.StatusOK,
			expectedUserID:     42,
		},
		{
			name:               "InvalidToken",
			path:               "/api/planner",
			method:             "GET",
			token:              "invalid-token",
			expectedStatusCode: http.StatusUnauthorized,
		},
		{
			name:               "OptionsAlwaysAllowed",
			path:               "/api/planner",
			method:             "OPTIONS",
			expectedStatusCode: http.StatusOK,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req, err := http.NewRequest(tc.method, tc.path, nil)
			require.NoError(t, err)
			if tc.token != "" {
				req.Header.Add("X-FIT-TOKEN", tc.token)
			}
			if tc.bearerToken != "" {
				req.Header.Add("Authorization", "Bearer "+tc.bearerToken)
			}

			var gotUserID int
			rr := httptest.NewRecorder()
			handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotUserID, _ = auth.UserIDFromContext(r.Context())
			})
			authMiddleware.AuthCheck()(handler).ServeHTTP(rr, req)

			assert.Equal(t, tc.expectedStatusCode, rr.Code)
			if tc.expectedUserID > 0 {
				assert.Equal(t, tc.expectedUserID, gotUserID)
			}
		})
	}
}
