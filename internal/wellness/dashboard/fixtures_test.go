package dashboard_test

import (
	"time"

	"github.com/2beens/wellnesstracker/internal/config"
	"github.com/2beens/wellnesstracker/internal/store"
	"github.com/2beens/wellnesstracker/internal/telemetry/metrics"
	"github.com/2beens/wellnesstracker/internal/wellness/dashboard"

	"github.com/golang/mock/gomock"
)

// Sunday evening, ISO week 10 of 2024.
var testNow = time.Date(2024, 3, 10, 18, 0, 0, 0, time.UTC)

var testAnchor = time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

func activitySheet() store.Table {
	return store.Table{
		Header: []string{"Timestamp", "Exercise Type", "Duration", "Optional: Distance (miles)", "Optional: Strength: Reps", "User"},
		Rows: [][]string{
			{"04/03/2024 07:00:00", "Running", "30", "3.1", "", "ana"},
			{"05/03/2024 19:30:00", "Yoga", "45", "", "", "ana"},
			{"08/03/2024 13:00:00", "Strength", "20", "", "40", "ben"},
			{"09/03/2024 08:00:00", "Cycling", "60", "12", "", "ana"},
			{"10/03/2024 06:15:00", "running", "abc", "2", "", "ana"},
			{"not a date", "Hiking", "90", "5", "", "ben", "overflow"},
		},
	}
}

func testSheets() map[string]store.Table {
	return map[string]store.Table{
		"Raw_Form_Responses": activitySheet(),
		"App_Users": {
			Header: []string{"User"},
			Rows:   [][]string{{"ana"}, {"ben"}, {""}, {"ana"}},
		},
		"Inspirational_Quotes": {
			Header: []string{"Number", "Quote", "Author"},
			Rows: [][]string{
				{"1", "Keep going.", "Anon"},
				{"2", "Motion is lotion.", "Physio"},
			},
		},
		"Regime": {
			Header: []string{"Day of Week", "Type"},
			Rows:   [][]string{{"Monday", "Running"}, {"Sunday", "Yoga"}},
		},
		"Weight_Tracker": {
			Header: []string{"Timestamp", "Current Weight", "User"},
			Rows: [][]string{
				{"01/03/2024 08:00:00", "82.0", "ana"},
				{"08/03/2024 08:00:00", "81.2", "ana"},
				{"02/03/2024 08:00:00", "70.5", "ben"},
			},
		},
		"Weight_Targets": {
			Header: []string{"Timestamp", "User", "Target Weight", "Target Date"},
			Rows: [][]string{
				{"02/03/2024 09:00:00", "ana", "78", "01/06/2024 00:00:00"},
			},
		},
	}
}

type testEnv struct {
	store   *MocktabularStore
	service *dashboard.Service
	metrics *metrics.Manager
}

func newTestEnv(ctrl *gomock.Controller, sheets map[string]store.Table) *testEnv {
	storeMock := NewMocktabularStore(ctrl)
	for name, table := range sheets {
		storeMock.EXPECT().
			Fetch(gomock.Any(), name, gomock.Any()).
			Return(table, nil).
			AnyTimes()
	}

	metricsManager := metrics.NewTestManager()
	service := dashboard.NewService(dashboard.ServiceParams{
		Store:          storeMock,
		Sheets:         config.DefaultSheets(),
		Anchor:         testAnchor,
		Now:            func() time.Time { return testNow },
		PickIndex:      func(n int) int { return n - 1 },
		MetricsManager: metricsManager,
	})
	return &testEnv{
		store:   storeMock,
		service: service,
		metrics: metricsManager,
	}
}
