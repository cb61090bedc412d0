package entry

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/2beens/wellnesstracker/internal/wellness/activity"
)

// TimestampLayout is the DD/MM/YYYY HH:MM:SS format the sheets store.
const TimestampLayout = "02/01/2006 15:04:05"

const (
	MaxDurationMinutes = 400
	MaxDistanceMiles   = 40
	MaxReps            = 400
)

var ErrInvalidSubmission = errors.New("invalid submission")

type Mood struct {
	Code        int    `json:"code"`
	Label       string `json:"label"`
	Description string `json:"description"`
}

var Moods = []Mood{
	{Code: 1, Label: "Very Unhappy", Description: "Sluggish, Tired, Drained"},
	{Code: 2, Label: "Unhappy", Description: "Frustrated, Low Energy"},
	{Code: 3, Label: "Neutral", Description: "Okay, Balanced, Indifferent"},
	{Code: 4, Label: "Happy", Description: "Content, Energetic, Positive"},
	{Code: 5, Label: "Very Happy", Description: "Proud, Excited, Accomplished"},
}

// ParseMood accepts the label ("Happy") or the code ("4").
func ParseMood(s string) (Mood, bool) {
	s = strings.TrimSpace(s)
	for _, m := range Moods {
		if strings.EqualFold(m.Label, s) || strconv.Itoa(m.Code) == s {
			return m, true
		}
	}
	return Mood{}, false
}

var IntensityLevels = []string{"Very Light", "Light", "Moderate", "Hard", "Very Hard"}

// ParseIntensity maps "Very Light".."Very Hard" (or "1".."5") onto 1..5.
func ParseIntensity(s string) (int, bool) {
	s = strings.TrimSpace(s)
	for i, label := range IntensityLevels {
		if strings.EqualFold(label, s) || strconv.Itoa(i+1) == s {
			return i + 1, true
		}
	}
	return 0, false
}

var BodyParts = []string{"Upper Body", "Chest", "Core", "Legs", "Whole Body"}

// ActivitySubmission is what the log-activity form posts.
type ActivitySubmission struct {
	User            string  `json:"user"`
	ExerciseType    string  `json:"exerciseType"`
	Date            string  `json:"date"` // YYYY-MM-DD
	MoodPrior       string  `json:"moodPrior"`
	MoodAfter       string  `json:"moodAfter"`
	Weather         string  `json:"weather"`
	DurationMinutes float64 `json:"durationMinutes"`
	DistanceMiles   float64 `json:"distanceMiles"`
	BodyPart        string  `json:"bodyPart"`
	Reps            int     `json:"reps"`
	Intensity       string  `json:"intensity"`
	Tags            string  `json:"tags"`
	Notes           string  `json:"notes"`
}

type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", ErrInvalidSubmission, strings.Join(e.Fields, ", "))
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalidSubmission
}

// Activity is a validated submission ready to be appended.
type Activity struct {
	Timestamp       time.Time
	ExerciseType    activity.ExerciseType
	MoodPrior       Mood
	MoodAfter       Mood
	Weather         string
	DurationMinutes float64
	DistanceMiles   float64
	BodyPart        string
	Reps            int
	Intensity       int
	Tags            string
	Notes           string
	User            string
}

// Validate checks required fields and ranges. The timestamp is the chosen date
// combined with the time of day of now.
func (s ActivitySubmission) Validate(now time.Time) (Activity, error) {
	var bad []string
	a := Activity{
		Weather:         strings.TrimSpace(s.Weather),
		DurationMinutes: s.DurationMinutes,
		DistanceMiles:   s.DistanceMiles,
		Reps:            s.Reps,
		Tags:            strings.TrimSpace(s.Tags),
		Notes:           strings.TrimSpace(s.Notes),
		User:            strings.TrimSpace(s.User),
	}

	if a.User == "" {
		bad = append(bad, "user")
	}

	if et, ok := activity.ParseExerciseType(s.ExerciseType); ok {
		a.ExerciseType = et
	} else {
		bad = append(bad, "exerciseType")
	}

	if d, err := time.Parse(time.DateOnly, strings.TrimSpace(s.Date)); err == nil {
		a.Timestamp = time.Date(
			d.Year(), d.Month(), d.Day(),
			now.Hour(), now.Minute(), now.Second(), 0,
			time.UTC,
		)
	} else {
		bad = append(bad, "date")
	}

	var ok bool
	if a.MoodPrior, ok = ParseMood(s.MoodPrior); !ok {
		bad = append(bad, "moodPrior")
	}
	if a.MoodAfter, ok = ParseMood(s.MoodAfter); !ok {
		bad = append(bad, "moodAfter")
	}
	if a.Intensity, ok = ParseIntensity(s.Intensity); !ok {
		bad = append(bad, "intensity")
	}

	// a zero duration is treated as "not filled in"
	if s.DurationMinutes <= 0 || s.DurationMinutes > MaxDurationMinutes {
		bad = append(bad, "durationMinutes")
	}
	if s.DistanceMiles < 0 || s.DistanceMiles > MaxDistanceMiles {
		bad = append(bad, "distanceMiles")
	}
	if s.Reps < 0 || s.Reps > MaxReps {
		bad = append(bad, "reps")
	}

	if bp := strings.TrimSpace(s.BodyPart); bp != "" {
		found := false
		for _, known := range BodyParts {
			if strings.EqualFold(known, bp) {
				a.BodyPart = known
				found = true
				break
			}
		}
		if !found {
			bad = append(bad, "bodyPart")
		}
	}

	if len(bad) > 0 {
		return Activity{}, &ValidationError{Fields: bad}
	}
	return a, nil
}

// Values returns the ordered cells appended to the activity log: timestamp,
// exerciseType, moodPriorCode, weather, moodPriorText, durationMinutes,
// distanceMiles, bodyPart, reps, intensityLevel, moodAfterCode, moodAfterText,
// tags, notes, user.
func (a Activity) Values() []string {
	return []string{
		a.Timestamp.Format(TimestampLayout),
		string(a.ExerciseType),
		strconv.Itoa(a.MoodPrior.Code),
		a.Weather,
		a.MoodPrior.Label,
		formatNumber(a.DurationMinutes),
		formatNumber(a.DistanceMiles),
		a.BodyPart,
		strconv.Itoa(a.Reps),
		strconv.Itoa(a.Intensity),
		strconv.Itoa(a.MoodAfter.Code),
		a.MoodAfter.Label,
		a.Tags,
		a.Notes,
		a.User,
	}
}

// ActivityHeader is the header row matching Activity.Values, used when a
// store has to create the log from scratch.
var ActivityHeader = []string{
	"Timestamp",
	"Exercise Type",
	"Mood Prior Code",
	"Weather",
	"Mood Prior",
	"Duration",
	"Optional: Distance (miles)",
	"Body Part",
	"Optional: Strength: Reps",
	"Intensity",
	"Mood After Code",
	"Mood After",
	"Tags",
	"Notes",
	"User",
}

type WeightSubmission struct {
	User   string  `json:"user"`
	Weight float64 `json:"weight"`
}

// Values validates the submission and returns [timestamp, weight, user].
func (s WeightSubmission) Values(now time.Time) ([]string, error) {
	var bad []string
	user := strings.TrimSpace(s.User)
	if user == "" {
		bad = append(bad, "user")
	}
	if s.Weight <= 0 {
		bad = append(bad, "weight")
	}
	if len(bad) > 0 {
		return nil, &ValidationError{Fields: bad}
	}
	return []string{
		now.Format(TimestampLayout),
		formatNumber(s.Weight),
		user,
	}, nil
}

var WeightHeader = []string{"Timestamp", "Current Weight", "User"}

type TargetSubmission struct {
	User         string  `json:"user"`
	TargetWeight float64 `json:"targetWeight"`
	TargetDate   string  `json:"targetDate"` // YYYY-MM-DD
}

// Values validates the submission and returns [timestamp, user, targetWeight, targetDate].
// The target date may not be before today.
func (s TargetSubmission) Values(now time.Time) ([]string, error) {
	var bad []string
	user := strings.TrimSpace(s.User)
	if user == "" {
		bad = append(bad, "user")
	}
	if s.TargetWeight <= 0 {
		bad = append(bad, "targetWeight")
	}
	targetDate, err := time.Parse(time.DateOnly, strings.TrimSpace(s.TargetDate))
	if err != nil || targetDate.Before(activity.Day(now)) {
		bad = append(bad, "targetDate")
	}
	if len(bad) > 0 {
		return nil, &ValidationError{Fields: bad}
	}
	return []string{
		now.Format(TimestampLayout),
		user,
		formatNumber(s.TargetWeight),
		targetDate.Format(TimestampLayout),
	}, nil
}

var TargetHeader = []string{"Timestamp", "User", "Target Weight", "Target Date"}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
