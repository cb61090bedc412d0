package dashboard

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/2beens/wellnesstracker/internal/wellness/activity"
)

const monthLayout = "2006-01"

// FilterParams are the raw filter selections, as they come from a query
// string, an MCP tool call or command line flags.
type FilterParams struct {
	ExerciseType string
	Users        []string
	ISOYear      string
	ISOWeek      string
	MonthFrom    string // YYYY-MM
	MonthTo      string
	DateFrom     string // YYYY-MM-DD
	DateTo       string
}

func FilterParamsFromQuery(q url.Values) FilterParams {
	var users []string
	for _, u := range q["user"] {
		if u = strings.TrimSpace(u); u != "" {
			users = append(users, u)
		}
	}
	return FilterParams{
		ExerciseType: q.Get("exercise_type"),
		Users:        users,
		ISOYear:      q.Get("iso_year"),
		ISOWeek:      q.Get("iso_week"),
		MonthFrom:    q.Get("month_from"),
		MonthTo:      q.Get("month_to"),
		DateFrom:     q.Get("date_from"),
		DateTo:       q.Get("date_to"),
	}
}

// Filter parses and validates the params. Errors wrap activity.ErrInvalidFilter.
func (p FilterParams) Filter() (activity.Filter, error) {
	f := activity.Filter{
		ExerciseType: strings.TrimSpace(p.ExerciseType),
		Users:        p.Users,
	}

	var err error
	if f.ISOYear, err = parseOptionalInt("iso_year", p.ISOYear); err != nil {
		return activity.Filter{}, err
	}
	if f.ISOWeek, err = parseOptionalInt("iso_week", p.ISOWeek); err != nil {
		return activity.Filter{}, err
	}
	if f.MonthFrom, err = parseOptionalTime("month_from", monthLayout, p.MonthFrom); err != nil {
		return activity.Filter{}, err
	}
	if f.MonthTo, err = parseOptionalTime("month_to", monthLayout, p.MonthTo); err != nil {
		return activity.Filter{}, err
	}
	if f.DateFrom, err = parseOptionalTime("date_from", time.DateOnly, p.DateFrom); err != nil {
		return activity.Filter{}, err
	}
	if f.DateTo, err = parseOptionalTime("date_to", time.DateOnly, p.DateTo); err != nil {
		return activity.Filter{}, err
	}

	if err := f.Validate(); err != nil {
		return activity.Filter{}, err
	}
	return f, nil
}

func parseOptionalInt(name, s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil || v <= 0 {
		return 0, fmt.Errorf("%w: %s must be a positive number", activity.ErrInvalidFilter, name)
	}
	return v, nil
}

func parseOptionalTime(name, layout, s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(layout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %s must look like %s", activity.ErrInvalidFilter, name, layout)
	}
	return t, nil
}
