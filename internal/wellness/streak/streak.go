package streak

import (
	"time"

	"github.com/2beens/wellnesstracker/internal/wellness/activity"
)

// CalendarDay is one day of the dense timeline from the anchor date to today.
type CalendarDay struct {
	Date         time.Time `json:"date"`
	IsActive     bool      `json:"isActive"`
	StreakLength int       `json:"streakLength"`
}

type Summary struct {
	Current int `json:"current"`
	Longest int `json:"longest"`
}

// BuildCalendar emits one day per date in [anchor, today], ascending, with
// IsActive set when any of the given dates falls on that day. An anchor after
// today yields an empty calendar.
func BuildCalendar(anchor, today time.Time, dates []time.Time) []CalendarDay {
	start := activity.Day(anchor)
	end := activity.Day(today)
	if start.After(end) {
		return nil
	}

	active := make(map[time.Time]bool, len(dates))
	for _, d := range dates {
		active[activity.Day(d)] = true
	}

	days := make([]CalendarDay, 0, int(end.Sub(start).Hours()/24)+1)
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		days = append(days, CalendarDay{
			Date:     d,
			IsActive: active[d],
		})
	}
	return days
}

// Calculate fills StreakLength in place and returns the current (last day)
// and longest streak.
func Calculate(days []CalendarDay) Summary {
	var s Summary
	run := 0
	for i := range days {
		if days[i].IsActive {
			run++
		} else {
			run = 0
		}
		days[i].StreakLength = run
		if run > s.Longest {
			s.Longest = run
		}
	}
	if len(days) > 0 {
		s.Current = days[len(days)-1].StreakLength
	}
	return s
}

// FromRecords builds the calendar from records with a known timestamp and
// computes streaks over it.
func FromRecords(anchor, today time.Time, records []activity.Record) ([]CalendarDay, Summary) {
	dates := make([]time.Time, 0, len(records))
	for _, r := range records {
		if d, ok := r.Date(); ok {
			dates = append(dates, d)
		}
	}
	days := BuildCalendar(anchor, today, dates)
	return days, Calculate(days)
}
