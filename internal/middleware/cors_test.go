package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/2beens/wellnesstracker/internal/middleware"

	"github.com/stretchr/testify/assert"
)

func TestCorsMiddleware(t *testing.T) {
	testCases := []struct {
		name           string
		origin         string
		userAgent      string
		expectedStatus int
		expectedOrigin string
	}{
		{
			name:           "AllowedOrigin",
			origin:         "http://localhost:8080",
			expectedStatus: http.StatusOK,
			expectedOrigin: "http://localhost:8080",
		},
		{
			name:           "NotAllowedOrigin",
			origin:         "https://www.notallowed.com",
			expectedStatus: http.StatusForbidden,
		},
		{
			name:           "CliWithoutOrigin",
			userAgent:      "wellnessctl/1.0",
			expectedStatus: http.StatusOK,
		},
		{
			name:           "CurlWithoutOrigin",
			userAgent:      "curl/8.4.0",
			expectedStatus: http.StatusOK,
		},
		{
			name:           "KnownAgentButForeignOrigin",
			origin:         "https://evil.example",
			userAgent:      "curl/8.4.0",
			expectedStatus: http.StatusForbidden,
		},
		{
			name:           "UnknownAgent",
			userAgent:      "UnknownAgent/1.0",
			expectedStatus: http.StatusForbidden,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/overview", nil)
			if tc.origin != "" {
				req.Header.Set("Origin", tc.origin)
			}
			req.Header.Set("User-Agent", tc.userAgent)

			rr := httptest.NewRecorder()
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})
			middleware.Cors(middleware.DefaultAllowedOrigins)(next).ServeHTTP(rr, req)

			assert.Equal(t, tc.expectedStatus, rr.Code)
			assert.Equal(t, tc.expectedOrigin, rr.Header().Get("Access-Control-Allow-Origin"))
			if tc.expectedStatus == http.StatusOK {
				assert.Contains(t, rr.Header().Get("Access-Control-Allow-Headers"), middleware.EntryTokenHeader)
			}
		})
	}
}
