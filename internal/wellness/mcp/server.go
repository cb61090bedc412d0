package mcp

import (
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// NewServer builds an MCP server exposing the dashboard reads as tools.
func NewServer(service dashboardService, version string) *mcp.Server {
	h := NewHandler(service)
	s := mcp.NewServer(&mcp.Implementation{
		Name:    "wellness-dashboard",
		Version: version,
	}, nil)

	mcp.AddTool(s, &mcp.Tool{
		Name:        "get_overview",
		Description: "Returns today's overview: session totals (count, hours, miles, reps), current and longest streak, whether a nudge is needed, today's scheduled exercise and a quote. Accepts the common filters.",
	}, h.GetOverviewTool())

	mcp.AddTool(s, &mcp.Tool{
		Name:        "get_exercise_frequency",
		Description: "Returns sessions per exercise type, types never done, a weekly heatmap (ISO weeks x Monday..Sunday), weekday totals and a morning/afternoon/evening/night split. Accepts the common filters.",
	}, h.GetExerciseFrequencyTool())

	mcp.AddTool(s, &mcp.Tool{
		Name:        "get_week_heatmap",
		Description: "Returns the Monday..Sunday session counts of one ISO week. Args: year, week. Errors when the week has no sessions.",
	}, h.GetWeekHeatmapTool())

	mcp.AddTool(s, &mcp.Tool{
		Name:        "get_streak_calendar",
		Description: "Returns every day from the anchor date to today with its active flag and streak length, plus the current and longest streak. Only the users filter affects streaks.",
	}, h.GetStreakCalendarTool())

	mcp.AddTool(s, &mcp.Tool{
		Name:        "get_weight_progress",
		Description: "Returns the weight log per user with the latest target and its trend line. Optional: users.",
	}, h.GetWeightProgressTool())

	mcp.AddTool(s, &mcp.Tool{
		Name:        "list_users",
		Description: "Returns the app users.",
	}, h.ListUsersTool())

	return s
}
