package activity

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

const (
	AllExerciseTypesLabel = "All Exercise Types"
	AllUsersLabel         = "All app users"
)

var ErrInvalidFilter = errors.New("invalid filter")

// Filter is the full set of selections coming from a dashboard request. The
// zero value matches every record. Active predicates are combined with AND.
type Filter struct {
	// ExerciseType is empty or AllExerciseTypesLabel for "any".
	ExerciseType string
	// Users is empty, or contains AllUsersLabel, for "everyone".
	Users []string

	ISOYear int
	ISOWeek int

	// MonthFrom and MonthTo select whole months; only year and month are used.
	MonthFrom time.Time
	MonthTo   time.Time

	// DateFrom and DateTo are inclusive calendar days.
	DateFrom time.Time
	DateTo   time.Time
}

func (f Filter) Validate() error {
	if (f.ISOYear == 0) != (f.ISOWeek == 0) {
		return fmt.Errorf("%w: iso year and week must be set together", ErrInvalidFilter)
	}
	if f.ISOWeek != 0 && !ValidISOWeek(f.ISOYear, f.ISOWeek) {
		return fmt.Errorf("%w: week %d does not exist in %d", ErrInvalidFilter, f.ISOWeek, f.ISOYear)
	}
	if f.MonthFrom.IsZero() != f.MonthTo.IsZero() {
		return fmt.Errorf("%w: month range needs both ends", ErrInvalidFilter)
	}
	if !f.MonthFrom.IsZero() && monthStart(f.MonthFrom).After(monthStart(f.MonthTo)) {
		return fmt.Errorf("%w: month range start after end", ErrInvalidFilter)
	}
	if f.DateFrom.IsZero() != f.DateTo.IsZero() {
		return fmt.Errorf("%w: date range needs both ends", ErrInvalidFilter)
	}
	if !f.DateFrom.IsZero() && Day(f.DateFrom).After(Day(f.DateTo)) {
		return fmt.Errorf("%w: date range start after end", ErrInvalidFilter)
	}
	return nil
}

// UsersOnly keeps only the user predicate. Streaks are computed from this
// view so that picking an exercise type or a week never breaks a streak.
func (f Filter) UsersOnly() Filter {
	return Filter{Users: f.Users}
}

func (f Filter) allTypes() bool {
	t := strings.TrimSpace(f.ExerciseType)
	return t == "" || strings.EqualFold(t, AllExerciseTypesLabel)
}

func (f Filter) allUsers() bool {
	if len(f.Users) == 0 {
		return true
	}
	for _, u := range f.Users {
		if u == AllUsersLabel {
			return true
		}
	}
	return false
}

func (f Filter) hasDatePredicate() bool {
	return f.ISOWeek != 0 || !f.MonthFrom.IsZero() || !f.DateFrom.IsZero()
}

// Matches reports whether a single record passes every active predicate.
func (f Filter) Matches(r Record) bool {
	if !f.allTypes() && !strings.EqualFold(strings.TrimSpace(r.RawExerciseType), strings.TrimSpace(f.ExerciseType)) {
		return false
	}

	if !f.allUsers() {
		found := false
		for _, u := range f.Users {
			if u == r.User {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}

	if !f.hasDatePredicate() {
		return true
	}

	day, ok := r.Date()
	if !ok {
		return false
	}

	if f.ISOWeek != 0 {
		y, w := day.ISOWeek()
		if y != f.ISOYear || w != f.ISOWeek {
			return false
		}
	}

	if !f.MonthFrom.IsZero() {
		from := monthStart(f.MonthFrom)
		to := monthStart(f.MonthTo).AddDate(0, 1, -1)
		if day.Before(from) || day.After(to) {
			return false
		}
	}

	if !f.DateFrom.IsZero() {
		if day.Before(Day(f.DateFrom)) || day.After(Day(f.DateTo)) {
			return false
		}
	}

	return true
}

// Apply returns a new slice with the matching records; the input is not touched.
func (f Filter) Apply(records []Record) []Record {
	out := make([]Record, 0, len(records))
	for _, r := range records {
		if f.Matches(r) {
			out = append(out, r)
		}
	}
	return out
}

func monthStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// ISOWeekStart returns the Monday of the given ISO week.
func ISOWeekStart(year, week int) time.Time {
	// January 4th is always in week 1
	jan4 := time.Date(year, time.January, 4, 0, 0, 0, 0, time.UTC)
	offset := (int(jan4.Weekday()) + 6) % 7
	week1Monday := jan4.AddDate(0, 0, -offset)
	return week1Monday.AddDate(0, 0, (week-1)*7)
}

func ValidISOWeek(year, week int) bool {
	if week < 1 || week > 53 {
		return false
	}
	y, w := ISOWeekStart(year, week).ISOWeek()
	return y == year && w == week
}
