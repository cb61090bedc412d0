package test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/2beens/wellnesstracker/internal/middleware"
	"github.com/2beens/wellnesstracker/internal/wellness/dashboard"
	"github.com/2beens/wellnesstracker/internal/wellness/entry"
)

func (s *IntegrationTestSuite) newRequest(method, path string, body any, token string) *http.Request {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		s.Require().NoError(err)
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequest(method, serverEndpoint+path, reader)
	s.Require().NoError(err)
	req.Header.Set("User-Agent", testUserAgent)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set(middleware.EntryTokenHeader, token)
	}
	return req
}

func (s *IntegrationTestSuite) do(req *http.Request) (int, []byte) {
	resp, err := s.httpClient.Do(req)
	s.Require().NoError(err)
	defer resp.Body.Close()
	respBody, err := io.ReadAll(resp.Body)
	s.Require().NoError(err)
	return resp.StatusCode, respBody
}

func (s *IntegrationTestSuite) getJSON(path string, v any) {
	status, body := s.do(s.newRequest(http.MethodGet, path, nil, ""))
	s.Require().Equal(http.StatusOK, status, "GET %s: %s", path, body)
	s.Require().NoError(json.Unmarshal(body, v))
}

func (s *IntegrationTestSuite) TestEntriesFlow() {
	today := time.Now().UTC().Format(time.DateOnly)

	var before dashboard.RecordsResponse
	s.getJSON("/records?view=raw", &before)

	status, body := s.do(s.newRequest(http.MethodPost, "/activity", entry.ActivitySubmission{
		User:            "ana",
		ExerciseType:    "Running",
		Date:            today,
		MoodPrior:       "Neutral",
		MoodAfter:       "Happy",
		DurationMinutes: 30,
		DistanceMiles:   3.1,
		Intensity:       "Moderate",
	}, testEntryToken))
	s.Require().Equal(http.StatusCreated, status, string(body))

	var created dashboard.EntryResponse
	s.Require().NoError(json.Unmarshal(body, &created))
	s.Equal("Raw_Form_Responses", created.Sheet)
	s.Equal(len(entry.ActivityHeader), len(created.Values))

	var after dashboard.RecordsResponse
	s.getJSON("/records?view=raw", &after)
	s.Equal(before.Total+1, after.Total)

	var overview dashboard.Overview
	s.getJSON("/overview?user=ana", &overview)
	s.GreaterOrEqual(overview.Totals.Sessions, 1)
	s.GreaterOrEqual(overview.Streak.Current, 1)
	s.False(overview.NeedsNudge)
	s.Require().NotNil(overview.Quote)
	s.Equal("Keep going.", overview.Quote.Quote)

	status, body = s.do(s.newRequest(http.MethodPost, "/weight", entry.WeightSubmission{
		User:   "ana",
		Weight: 71.5,
	}, testEntryToken))
	s.Require().Equal(http.StatusCreated, status, string(body))

	var weights dashboard.WeightView
	s.getJSON("/weight?user=ana", &weights)
	s.Require().Len(weights.Series, 1)
	s.Require().NotNil(weights.MinWeight)
	s.Equal(71.5, *weights.MinWeight)
}

func (s *IntegrationTestSuite) TestEntriesRateLimited() {
	// the limiter counts attempts, so invalid submissions use up the budget too
	limited := false
	for i := 0; i < testEntryRateLimit+3; i++ {
		status, body := s.do(s.newRequest(http.MethodPost, "/weight", entry.WeightSubmission{
			User:   "ben",
			Weight: 0,
		}, testEntryToken))
		if status == http.StatusTooEarly {
			s.Contains(string(body), "retry after")
			limited = true
			break
		}
		s.Equal(http.StatusBadRequest, status, "attempt %d: %s", i, body)
	}
	s.True(limited, "expected the entry forms to be rate limited")
}

func (s *IntegrationTestSuite) TestEntryRequiresToken() {
	for _, token := range []string{"", "wrong-token"} {
		status, _ := s.do(s.newRequest(http.MethodPost, "/activity", entry.ActivitySubmission{
			User: "ana",
		}, token))
		s.Equal(http.StatusUnauthorized, status, "token %q", token)
	}

	// preflight passes without a token
	status, _ := s.do(s.newRequest(http.MethodOptions, "/weight/target", nil, ""))
	s.Equal(http.StatusOK, status)
}

func (s *IntegrationTestSuite) TestUsers() {
	var users dashboard.UsersResponse
	s.getJSON("/users", &users)
	s.Equal([]string{"ana", "ben"}, users.Users)
}

func (s *IntegrationTestSuite) TestWeekHeatmapValidation() {
	status, _ := s.do(s.newRequest(http.MethodGet, "/heatmap/week/2024/54", nil, ""))
	s.Equal(http.StatusBadRequest, status)

	status, _ = s.do(s.newRequest(http.MethodGet, fmt.Sprintf("/heatmap/week/%d/1", 2010), nil, ""))
	s.Equal(http.StatusNotFound, status)
}
