package mcp

import (
	"context"

	"github.com/2beens/wellnesstracker/internal/wellness/activity"
	"github.com/2beens/wellnesstracker/internal/wellness/dashboard"
	"github.com/2beens/wellnesstracker/internal/wellness/stats"
)

// dashboardService is the read side of dashboard.Service.
type dashboardService interface {
	Overview(ctx context.Context, f activity.Filter) (dashboard.Overview, error)
	Frequency(ctx context.Context, f activity.Filter) (dashboard.Frequency, error)
	Week(ctx context.Context, f activity.Filter, year, week int) (stats.WeekRow, error)
	Calendar(ctx context.Context, f activity.Filter) (dashboard.Calendar, error)
	Weights(ctx context.Context, users []string) (dashboard.WeightView, error)
	Users(ctx context.Context) ([]string, error)
}
