package mcp

import (
	"context"
	"encoding/json"
	"strconv"

	"github.com/2beens/wellnesstracker/internal/wellness/activity"
	"github.com/2beens/wellnesstracker/internal/wellness/dashboard"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// Handler turns tool calls into dashboard reads and formats the results.
type Handler struct {
	service dashboardService
}

func NewHandler(service dashboardService) *Handler {
	return &Handler{
		service: service,
	}
}

// FilterInput carries the filters shared by most tools.
type FilterInput struct {
	ExerciseType string   `json:"exercise_type,omitempty" jsonschema:"Exercise type (Cycling, Strength, Yoga, Running, Meditation, Hiking); empty for all"`
	Users        []string `json:"users,omitempty" jsonschema:"Users to include; empty for everyone"`
	ISOYear      int      `json:"iso_year,omitempty" jsonschema:"ISO year, together with iso_week"`
	ISOWeek      int      `json:"iso_week,omitempty" jsonschema:"ISO week number, together with iso_year"`
	MonthFrom    string   `json:"month_from,omitempty" jsonschema:"First month (YYYY-MM), together with month_to"`
	MonthTo      string   `json:"month_to,omitempty" jsonschema:"Last month (YYYY-MM)"`
	DateFrom     string   `json:"date_from,omitempty" jsonschema:"First day (YYYY-MM-DD), together with date_to"`
	DateTo       string   `json:"date_to,omitempty" jsonschema:"Last day (YYYY-MM-DD)"`
}

func (in FilterInput) filter() (activity.Filter, error) {
	params := dashboard.FilterParams{
		ExerciseType: in.ExerciseType,
		Users:        in.Users,
		MonthFrom:    in.MonthFrom,
		MonthTo:      in.MonthTo,
		DateFrom:     in.DateFrom,
		DateTo:       in.DateTo,
	}
	if in.ISOYear != 0 {
		params.ISOYear = strconv.Itoa(in.ISOYear)
	}
	if in.ISOWeek != 0 {
		params.ISOWeek = strconv.Itoa(in.ISOWeek)
	}
	return params.Filter()
}

type WeekInput struct {
	Year int `json:"year" jsonschema:"ISO year"`
	Week int `json:"week" jsonschema:"ISO week number (1-53)"`
	FilterInput
}

type UsersInput struct {
	Users []string `json:"users,omitempty" jsonschema:"Users to include; empty for everyone"`
}

func errorResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
		IsError: true,
	}
}

func jsonResult(v any) *mcp.CallToolResult {
	raw, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return errorResult("Error encoding response: " + err.Error())
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: string(raw)}},
	}
}

func (h *Handler) GetOverviewTool() func(context.Context, *mcp.CallToolRequest, FilterInput) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, _ *mcp.CallToolRequest, in FilterInput) (*mcp.CallToolResult, any, error) {
		f, err := in.filter()
		if err != nil {
			return errorResult("Invalid filter: " + err.Error()), nil, nil
		}
		overview, err := h.service.Overview(ctx, f)
		if err != nil {
			return errorResult("Error building overview: " + err.Error()), nil, nil
		}
		return jsonResult(overview), nil, nil
	}
}

func (h *Handler) GetExerciseFrequencyTool() func(context.Context, *mcp.CallToolRequest, FilterInput) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, _ *mcp.CallToolRequest, in FilterInput) (*mcp.CallToolResult, any, error) {
		f, err := in.filter()
		if err != nil {
			return errorResult("Invalid filter: " + err.Error()), nil, nil
		}
		frequency, err := h.service.Frequency(ctx, f)
		if err != nil {
			return errorResult("Error building frequency: " + err.Error()), nil, nil
		}
		return jsonResult(frequency), nil, nil
	}
}

func (h *Handler) GetWeekHeatmapTool() func(context.Context, *mcp.CallToolRequest, WeekInput) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, _ *mcp.CallToolRequest, in WeekInput) (*mcp.CallToolResult, any, error) {
		if in.Year <= 0 || in.Week <= 0 {
			return errorResult("Invalid week: year and week are required"), nil, nil
		}
		f, err := in.FilterInput.filter()
		if err != nil {
			return errorResult("Invalid filter: " + err.Error()), nil, nil
		}
		row, err := h.service.Week(ctx, f, in.Year, in.Week)
		if err != nil {
			return errorResult("Error fetching week: " + err.Error()), nil, nil
		}
		return jsonResult(row), nil, nil
	}
}

func (h *Handler) GetStreakCalendarTool() func(context.Context, *mcp.CallToolRequest, UsersInput) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, _ *mcp.CallToolRequest, in UsersInput) (*mcp.CallToolResult, any, error) {
		calendar, err := h.service.Calendar(ctx, activity.Filter{Users: in.Users})
		if err != nil {
			return errorResult("Error building calendar: " + err.Error()), nil, nil
		}
		return jsonResult(calendar), nil, nil
	}
}

func (h *Handler) GetWeightProgressTool() func(context.Context, *mcp.CallToolRequest, UsersInput) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, _ *mcp.CallToolRequest, in UsersInput) (*mcp.CallToolResult, any, error) {
		view, err := h.service.Weights(ctx, in.Users)
		if err != nil {
			return errorResult("Error fetching weights: " + err.Error()), nil, nil
		}
		return jsonResult(view), nil, nil
	}
}

func (h *Handler) ListUsersTool() func(context.Context, *mcp.CallToolRequest, any) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, _ *mcp.CallToolRequest, _ any) (*mcp.CallToolResult, any, error) {
		users, err := h.service.Users(ctx)
		if err != nil {
			return errorResult("Error fetching users: " + err.Error()), nil, nil
		}
		return jsonResult(users), nil, nil
	}
}
