package stats

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/2beens/wellnesstracker/internal/wellness/activity"
)

var ErrWeekUnavailable = errors.New("week data unavailable")

// Weekdays is the column order of every heatmap row.
var Weekdays = [7]string{
	"Monday",
	"Tuesday",
	"Wednesday",
	"Thursday",
	"Friday",
	"Saturday",
	"Sunday",
}

type WeekRow struct {
	ISOYear   int       `json:"isoYear"`
	ISOWeek   int       `json:"isoWeek"`
	WeekStart time.Time `json:"weekStart"`
	WeekEnd   time.Time `json:"weekEnd"`
	Label     string    `json:"label"`
	// Counts is indexed Monday (0) .. Sunday (6).
	Counts [7]int `json:"counts"`
	Total  int    `json:"total"`
}

type Heatmap struct {
	Weeks []WeekRow `json:"weeks"`
	// Overall sums every week per weekday.
	Overall [7]int `json:"overall"`
}

type weekKey struct {
	year, week int
}

// weekdayIndex maps time.Weekday (Sunday=0) onto Monday=0.
func weekdayIndex(d time.Weekday) int {
	return (int(d) + 6) % 7
}

// WeeklyHeatmap counts records per (ISO year, ISO week, weekday). Every week
// that has at least one record gets all seven weekday columns. Records
// without a timestamp are skipped.
func WeeklyHeatmap(records []activity.Record) Heatmap {
	byWeek := make(map[weekKey]*WeekRow)
	var h Heatmap

	for _, r := range records {
		day, ok := r.Date()
		if !ok {
			continue
		}
		y, w := day.ISOWeek()
		key := weekKey{y, w}
		row, found := byWeek[key]
		if !found {
			row = newWeekRow(y, w)
			byWeek[key] = row
		}
		idx := weekdayIndex(day.Weekday())
		row.Counts[idx]++
		row.Total++
		h.Overall[idx]++
	}

	h.Weeks = make([]WeekRow, 0, len(byWeek))
	for _, row := range byWeek {
		h.Weeks = append(h.Weeks, *row)
	}
	sort.Slice(h.Weeks, func(i, j int) bool {
		if h.Weeks[i].ISOYear != h.Weeks[j].ISOYear {
			return h.Weeks[i].ISOYear < h.Weeks[j].ISOYear
		}
		return h.Weeks[i].ISOWeek < h.Weeks[j].ISOWeek
	})

	return h
}

func newWeekRow(year, week int) *WeekRow {
	start := activity.ISOWeekStart(year, week)
	end := start.AddDate(0, 0, 6)
	return &WeekRow{
		ISOYear:   year,
		ISOWeek:   week,
		WeekStart: start,
		WeekEnd:   end,
		Label:     WeekLabel(year, week),
	}
}

// WeekLabel renders e.g. "Week 2 2024 [2024-01-08 - 2024-01-14]".
func WeekLabel(year, week int) string {
	start := activity.ISOWeekStart(year, week)
	return fmt.Sprintf(
		"Week %d %d [%s - %s]",
		week, year,
		start.Format(time.DateOnly),
		start.AddDate(0, 0, 6).Format(time.DateOnly),
	)
}

// Week looks up a single week. A week without records is reported as
// ErrWeekUnavailable rather than an all-zero row.
func (h Heatmap) Week(year, week int) (WeekRow, error) {
	i := sort.Search(len(h.Weeks), func(i int) bool {
		if h.Weeks[i].ISOYear != year {
			return h.Weeks[i].ISOYear > year
		}
		return h.Weeks[i].ISOWeek >= week
	})
	if i < len(h.Weeks) && h.Weeks[i].ISOYear == year && h.Weeks[i].ISOWeek == week {
		return h.Weeks[i], nil
	}
	return WeekRow{}, fmt.Errorf("week %d of %d: %w", week, year, ErrWeekUnavailable)
}
