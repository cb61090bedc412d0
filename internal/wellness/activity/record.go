package activity

import (
	"strings"
	"time"

	"github.com/2beens/wellnesstracker/internal/wellness/rows"
)

type ExerciseType string

const (
	Cycling    ExerciseType = "Cycling"
	Strength   ExerciseType = "Strength"
	Yoga       ExerciseType = "Yoga"
	Running    ExerciseType = "Running"
	Meditation ExerciseType = "Meditation"
	Hiking     ExerciseType = "Hiking"
)

// AllExerciseTypes lists the types in the order the entry form offers them.
var AllExerciseTypes = []ExerciseType{
	Cycling,
	Strength,
	Yoga,
	Running,
	Meditation,
	Hiking,
}

// ParseExerciseType matches case-insensitively against the known types.
func ParseExerciseType(s string) (ExerciseType, bool) {
	s = strings.TrimSpace(s)
	for _, et := range AllExerciseTypes {
		if strings.EqualFold(string(et), s) {
			return et, true
		}
	}
	return "", false
}

// Record is one logged session. Optional numbers stay unknown (Valid=false)
// when the sheet had nothing usable. A record whose timestamp did not parse is
// kept, with HasTimestamp false, so it still counts as a session.
type Record struct {
	Timestamp       time.Time    `json:"timestamp"`
	HasTimestamp    bool         `json:"hasTimestamp"`
	ExerciseType    ExerciseType `json:"exerciseType"`
	RawExerciseType string       `json:"rawExerciseType"`
	DurationMinutes rows.Float   `json:"durationMinutes"`
	DistanceMiles   rows.Float   `json:"distanceMiles"`
	Reps            rows.Int     `json:"reps"`
	User            string       `json:"user"`
	// Extra holds the columns the aggregations do not read (mood, notes, ...).
	Extra map[string]string `json:"extra,omitempty"`
}

// Date returns the calendar day of the record at UTC midnight.
func (r Record) Date() (time.Time, bool) {
	if !r.HasTimestamp {
		return time.Time{}, false
	}
	return Day(r.Timestamp), true
}

// Day truncates t to midnight of its own wall-clock date, in UTC.
func Day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

var typedColumns = map[string]bool{
	rows.ColTimestamp:       true,
	rows.ColExerciseType:    true,
	rows.ColDurationMinutes: true,
	rows.ColDistanceMiles:   true,
	rows.ColReps:            true,
	rows.ColUser:            true,
}

func FromTable(table rows.Table) []Record {
	records := make([]Record, 0, table.Len())
	for _, rec := range table.Records {
		records = append(records, fromRow(rec))
	}
	return records
}

func fromRow(rec rows.Record) Record {
	r := Record{
		DurationMinutes: rec.Float(rows.ColDurationMinutes),
		DistanceMiles:   rec.Float(rows.ColDistanceMiles),
		Reps:            rec.Int(rows.ColReps),
	}

	if ts := rec.Time(rows.ColTimestamp); ts.Valid {
		r.Timestamp = ts.Time
		r.HasTimestamp = true
	}

	r.RawExerciseType, _ = rec.Text(rows.ColExerciseType)
	if et, ok := ParseExerciseType(r.RawExerciseType); ok {
		r.ExerciseType = et
	}
	r.User, _ = rec.Text(rows.ColUser)

	for _, f := range rec.Fields {
		if typedColumns[f.Name] || !f.Raw.Present || f.Raw.Value == "" {
			continue
		}
		if r.Extra == nil {
			r.Extra = make(map[string]string)
		}
		r.Extra[f.Name] = f.Raw.Value
	}

	return r
}

// Users returns the distinct non-empty users in first-seen order.
func Users(records []Record) []string {
	seen := make(map[string]bool)
	var users []string
	for _, r := range records {
		if r.User == "" || seen[r.User] {
			continue
		}
		seen[r.User] = true
		users = append(users, r.User)
	}
	return users
}
