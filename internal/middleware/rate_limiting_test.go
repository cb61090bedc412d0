package middleware_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/2beens/wellnesstracker/internal/middleware"
	"github.com/2beens/wellnesstracker/internal/telemetry/metrics"

	"github.com/go-redis/redis_rate/v9"
	"github.com/go-redis/redismock/v8"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testRequestRateLimiter struct {
	allowed int
	keys    []string
	limits  []redis_rate.Limit
}

func (l *testRequestRateLimiter) Allow(_ context.Context, key string, limit redis_rate.Limit) (*redis_rate.Result, error) {
	l.keys = append(l.keys, key)
	l.limits = append(l.limits, limit)
	if l.allowed > 0 {
		l.allowed--
		return &redis_rate.Result{Limit: limit, Allowed: 1, Remaining: l.allowed}, nil
	}
	return &redis_rate.Result{Limit: limit, Allowed: 0, RetryAfter: 3 * time.Second}, nil
}

func TestRateLimit(t *testing.T) {
	metricsManager := metrics.NewTestManager()
	limiter := &testRequestRateLimiter{allowed: 2}
	handler := middleware.RateLimit(limiter, metricsManager, "entries", 2)(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusCreated)
		}),
	)

	codes := make([]int, 0, 3)
	var lastBody string
	for i := 0; i < 3; i++ {
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/activity", nil))
		codes = append(codes, rr.Code)
		lastBody = rr.Body.String()
	}

	assert.Equal(t, []int{http.StatusCreated, http.StatusCreated, http.StatusTooEarly}, codes)
	assert.Contains(t, lastBody, "retry after 3.0 seconds")
	assert.Equal(t, []string{"entries", "entries", "entries"}, limiter.keys)
	assert.Equal(t, redis_rate.PerMinute(2), limiter.limits[0])
	assert.Equal(t, float64(1), testutil.ToFloat64(metricsManager.CounterRateLimitedRequests))
}

func TestRateLimit_RedisFailure(t *testing.T) {
	rdb, mock := redismock.NewClientMock()
	defer rdb.Close()

	// no expectations set: every redis call fails
	limiter := redis_rate.NewLimiter(rdb)
	handler := middleware.RateLimit(limiter, nil, "entries", 5)(
		http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
			t.Fatal("next must not be called")
		}),
	)

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/weight", nil))
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	require.NoError(t, mock.ExpectationsWereMet())
}
