package weight

import (
	"math"
	"sort"
	"time"

	"github.com/2beens/wellnesstracker/internal/wellness/activity"
	"github.com/2beens/wellnesstracker/internal/wellness/rows"
)

// DefaultAxisFloor is the highest the chart y-axis is allowed to start at.
const DefaultAxisFloor = 68.0

type Entry struct {
	Timestamp time.Time `json:"timestamp"`
	Weight    float64   `json:"weight"`
	User      string    `json:"user"`
}

type Target struct {
	User         string    `json:"user"`
	TargetWeight float64   `json:"targetWeight"`
	TargetDate   time.Time `json:"targetDate"`
	SetAt        time.Time `json:"setAt"`
}

type Series struct {
	User    string  `json:"user"`
	Entries []Entry `json:"entries"`
	Target  *Target `json:"target,omitempty"`
	// Trend is the straight line from the weight at the time the target was
	// set to the target weight at the target date.
	Trend []Entry `json:"trend,omitempty"`
}

// EntriesFromTable keeps rows with a parsed timestamp and a usable weight,
// ordered by timestamp.
func EntriesFromTable(table rows.Table) []Entry {
	entries := make([]Entry, 0, table.Len())
	for _, rec := range table.Records {
		ts := rec.Time(rows.ColTimestamp)
		w := rec.Float(rows.ColCurrentWeight)
		if !ts.Valid || !w.Valid || w.Value == 0 {
			continue
		}
		user, _ := rec.Text(rows.ColUser)
		entries = append(entries, Entry{Timestamp: ts.Time, Weight: w.Value, User: user})
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Timestamp.Before(entries[j].Timestamp)
	})
	return entries
}

// LatestTargets returns the most recently set target per user.
func LatestTargets(table rows.Table) map[string]Target {
	targets := make(map[string]Target)
	for _, rec := range table.Records {
		user, ok := rec.Text(rows.ColUser)
		if !ok || user == "" {
			continue
		}
		tw := rec.Float(rows.ColTargetWeight)
		td := rec.Time(rows.ColTargetDate)
		if !tw.Valid || !td.Valid {
			continue
		}
		t := Target{
			User:         user,
			TargetWeight: tw.Value,
			TargetDate:   td.Time,
			SetAt:        rec.Time(rows.ColTimestamp).Time,
		}
		if prev, found := targets[user]; found && prev.SetAt.After(t.SetAt) {
			continue
		}
		targets[user] = t
	}
	return targets
}

// ByUser groups entries into one series per user. When users is non-empty
// (and not "all"), only those users are returned, in the given order.
func ByUser(entries []Entry, targets map[string]Target, users []string) []Series {
	grouped := make(map[string][]Entry)
	var order []string
	for _, e := range entries {
		if _, ok := grouped[e.User]; !ok {
			order = append(order, e.User)
		}
		grouped[e.User] = append(grouped[e.User], e)
	}

	if selected := selectedUsers(users); selected != nil {
		order = selected
	}

	out := make([]Series, 0, len(order))
	for _, u := range order {
		s := Series{User: u, Entries: grouped[u]}
		if t, ok := targets[u]; ok {
			target := t
			s.Target = &target
			s.Trend = trend(s.Entries, target)
		}
		out = append(out, s)
	}
	return out
}

func selectedUsers(users []string) []string {
	if len(users) == 0 {
		return nil
	}
	for _, u := range users {
		if u == activity.AllUsersLabel {
			return nil
		}
	}
	return users
}

func trend(entries []Entry, t Target) []Entry {
	if len(entries) == 0 || t.TargetDate.IsZero() {
		return nil
	}
	start := entries[0]
	for _, e := range entries {
		if e.Timestamp.After(t.SetAt) {
			break
		}
		start = e
	}
	return []Entry{
		{Timestamp: start.Timestamp, Weight: start.Weight, User: t.User},
		{Timestamp: t.TargetDate, Weight: t.TargetWeight, User: t.User},
	}
}

// AxisFloor is min(DefaultAxisFloor, lowest weight - 2).
func AxisFloor(entries []Entry) float64 {
	floor := DefaultAxisFloor
	lowest := math.Inf(1)
	for _, e := range entries {
		lowest = math.Min(lowest, e.Weight)
	}
	if !math.IsInf(lowest, 1) {
		floor = math.Min(floor, lowest-2)
	}
	return floor
}
