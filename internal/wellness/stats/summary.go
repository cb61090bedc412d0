package stats

import (
	"math"
	"sort"
	"strings"

	"github.com/2beens/wellnesstracker/internal/wellness/activity"
)

type TypeCount struct {
	ExerciseType string `json:"exerciseType"`
	Count        int    `json:"count"`
}

// TypeCounts counts sessions per exercise type, most frequent first. Known
// types are reported by their canonical name, anything else by the text found
// in the sheet. Records with no type are left out.
func TypeCounts(records []activity.Record) []TypeCount {
	counts := make(map[string]int)
	for _, r := range records {
		name := typeName(r)
		if name == "" {
			continue
		}
		counts[name]++
	}

	out := make([]TypeCount, 0, len(counts))
	for name, c := range counts {
		out = append(out, TypeCount{ExerciseType: name, Count: c})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].ExerciseType < out[j].ExerciseType
	})
	return out
}

// MissingTypes lists the known exercise types with no session in records.
func MissingTypes(records []activity.Record) []activity.ExerciseType {
	seen := make(map[activity.ExerciseType]bool)
	for _, r := range records {
		if r.ExerciseType != "" {
			seen[r.ExerciseType] = true
		}
	}
	var missing []activity.ExerciseType
	for _, et := range activity.AllExerciseTypes {
		if !seen[et] {
			missing = append(missing, et)
		}
	}
	return missing
}

func typeName(r activity.Record) string {
	if r.ExerciseType != "" {
		return string(r.ExerciseType)
	}
	return strings.TrimSpace(r.RawExerciseType)
}

type Bucket string

const (
	Morning   Bucket = "Morning"
	Afternoon Bucket = "Afternoon"
	Evening   Bucket = "Evening"
	Night     Bucket = "Night"
)

var Buckets = [4]Bucket{Morning, Afternoon, Evening, Night}

// ClassifyTimeOfDay buckets an hour of the day: Morning [6,12),
// Afternoon [12,17), Evening [17,21), Night otherwise.
func ClassifyTimeOfDay(hour int) Bucket {
	switch {
	case hour >= 6 && hour < 12:
		return Morning
	case hour >= 12 && hour < 17:
		return Afternoon
	case hour >= 17 && hour < 21:
		return Evening
	default:
		return Night
	}
}

type BucketCount struct {
	Bucket Bucket `json:"bucket"`
	Count  int    `json:"count"`
}

// TimeOfDay always returns the four buckets in Morning..Night order.
func TimeOfDay(records []activity.Record) []BucketCount {
	var counts [4]int
	for _, r := range records {
		if !r.HasTimestamp {
			continue
		}
		switch ClassifyTimeOfDay(r.Timestamp.Hour()) {
		case Morning:
			counts[0]++
		case Afternoon:
			counts[1]++
		case Evening:
			counts[2]++
		default:
			counts[3]++
		}
	}

	out := make([]BucketCount, len(Buckets))
	for i, b := range Buckets {
		out[i] = BucketCount{Bucket: b, Count: counts[i]}
	}
	return out
}

type Totals struct {
	Sessions       int     `json:"sessions"`
	HoursExercised float64 `json:"hoursExercised"`
	MilesTravelled float64 `json:"milesTravelled"`
	RepsCompleted  int64   `json:"repsCompleted"`
}

// ComputeTotals counts every record as a session; the sums only use known values.
func ComputeTotals(records []activity.Record) Totals {
	t := Totals{Sessions: len(records)}
	minutes := 0.0
	for _, r := range records {
		if r.DurationMinutes.Valid {
			minutes += r.DurationMinutes.Value
		}
		if r.DistanceMiles.Valid {
			t.MilesTravelled += r.DistanceMiles.Value
		}
		if r.Reps.Valid {
			t.RepsCompleted += r.Reps.Value
		}
	}
	t.HoursExercised = math.Round(minutes/60*10) / 10
	return t
}
