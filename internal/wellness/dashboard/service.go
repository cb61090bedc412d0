package dashboard

import (
	"context"
	"errors"
	"math/rand/v2"
	"time"

	"github.com/2beens/wellnesstracker/internal/config"
	"github.com/2beens/wellnesstracker/internal/store"
	"github.com/2beens/wellnesstracker/internal/telemetry/metrics"
	"github.com/2beens/wellnesstracker/internal/wellness/activity"
)

var (
	ErrNoQuotes    = errors.New("no quotes available")
	ErrInvalidView = errors.New("invalid records view")
)

// NoExerciseScheduled is shown when the regime has nothing for today.
const NoExerciseScheduled = "No exercise scheduled"

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=dashboard_test

type tabularStore interface {
	Fetch(ctx context.Context, sheet, rangeSpec string) (store.Table, error)
	Append(ctx context.Context, sheet string, values []string) error
}

type ServiceParams struct {
	Store  tabularStore
	Sheets config.Sheets
	// Anchor is the first day of the activity calendar.
	Anchor time.Time
	// Location is where "today" is taken from; UTC when nil.
	Location *time.Location
	// Now defaults to time.Now.
	Now func() time.Time
	// PickIndex returns a number in [0, n); used for the random quote.
	PickIndex      func(n int) int
	MetricsManager *metrics.Manager
}

// Service reads the spreadsheet on every call and runs the pure dashboard
// computations over it. It holds no state between calls.
type Service struct {
	store          tabularStore
	sheets         config.Sheets
	anchor         time.Time
	location       *time.Location
	now            func() time.Time
	pickIndex      func(n int) int
	metricsManager *metrics.Manager
}

func NewService(params ServiceParams) *Service {
	s := &Service{
		store:          params.Store,
		sheets:         params.Sheets,
		anchor:         activity.Day(params.Anchor),
		location:       params.Location,
		now:            params.Now,
		pickIndex:      params.PickIndex,
		metricsManager: params.MetricsManager,
	}
	if s.location == nil {
		s.location = time.UTC
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.pickIndex == nil {
		s.pickIndex = rand.IntN
	}
	return s
}

// localNow is the current wall-clock time where the user lives.
func (s *Service) localNow() time.Time {
	return s.now().In(s.location)
}

// Today is the current calendar day, at UTC midnight like every record date.
func (s *Service) Today() time.Time {
	return activity.Day(s.localNow())
}

func (s *Service) Anchor() time.Time {
	return s.anchor
}
