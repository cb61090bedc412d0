package dashboard

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/2beens/wellnesstracker/internal/export"
	"github.com/2beens/wellnesstracker/internal/wellness/activity"
	"github.com/2beens/wellnesstracker/internal/wellness/stats"
	"github.com/2beens/wellnesstracker/internal/wellness/streak"
	"github.com/2beens/wellnesstracker/internal/wellness/weight"

	log "github.com/sirupsen/logrus"
)

type Overview struct {
	Today          time.Time      `json:"today"`
	TodaysExercise string         `json:"todaysExercise"`
	Totals         stats.Totals   `json:"totals"`
	Streak         streak.Summary `json:"streak"`
	// NeedsNudge is set when there is no current streak.
	NeedsNudge bool   `json:"needsNudge"`
	Quote      *Quote `json:"quote,omitempty"`
}

type Frequency struct {
	TypeCounts   []stats.TypeCount       `json:"typeCounts"`
	MissingTypes []activity.ExerciseType `json:"missingTypes"`
	Weeks        []stats.WeekRow         `json:"weeks"`
	Overall      [7]int                  `json:"overall"`
	Weekdays     [7]string               `json:"weekdays"`
	TimeOfDay    []stats.BucketCount     `json:"timeOfDay"`
}

type Calendar struct {
	Anchor time.Time            `json:"anchor"`
	Today  time.Time            `json:"today"`
	Days   []streak.CalendarDay `json:"days"`
	Streak streak.Summary       `json:"streak"`
}

type WeightView struct {
	Series    []weight.Series `json:"series"`
	MinWeight *float64        `json:"minWeight,omitempty"`
	AxisFloor float64         `json:"axisFloor"`
}

const (
	ViewRaw      = "raw"
	ViewFiltered = "filtered"
)

func (s *Service) filtered(ctx context.Context, f activity.Filter) (all, filtered []activity.Record, err error) {
	if err := f.Validate(); err != nil {
		return nil, nil, err
	}
	all, err = s.Activities(ctx)
	if err != nil {
		return nil, nil, err
	}
	return all, f.Apply(all), nil
}

func (s *Service) streak(all []activity.Record, f activity.Filter) ([]streak.CalendarDay, streak.Summary) {
	return streak.FromRecords(s.anchor, s.Today(), f.UsersOnly().Apply(all))
}

// Overview builds the landing page. Regime and quote lookups are best effort:
// their failure is logged and does not fail the overview.
func (s *Service) Overview(ctx context.Context, f activity.Filter) (Overview, error) {
	all, filtered, err := s.filtered(ctx, f)
	if err != nil {
		return Overview{}, err
	}

	_, summary := s.streak(all, f)
	ov := Overview{
		Today:      s.Today(),
		Totals:     stats.ComputeTotals(filtered),
		Streak:     summary,
		NeedsNudge: summary.Current == 0,
	}

	ov.TodaysExercise, err = s.TodaysExercise(ctx)
	if err != nil {
		log.Warnf("overview: todays exercise: %s", err)
		ov.TodaysExercise = NoExerciseScheduled
	}

	if q, err := s.RandomQuote(ctx); err != nil {
		log.Debugf("overview: quote: %s", err)
	} else {
		ov.Quote = &q
	}

	return ov, nil
}

func (s *Service) Frequency(ctx context.Context, f activity.Filter) (Frequency, error) {
	_, filtered, err := s.filtered(ctx, f)
	if err != nil {
		return Frequency{}, err
	}

	heatmap := stats.WeeklyHeatmap(filtered)
	return Frequency{
		TypeCounts:   stats.TypeCounts(filtered),
		MissingTypes: stats.MissingTypes(filtered),
		Weeks:        heatmap.Weeks,
		Overall:      heatmap.Overall,
		Weekdays:     stats.Weekdays,
		TimeOfDay:    stats.TimeOfDay(filtered),
	}, nil
}

// Week returns a single heatmap row; stats.ErrWeekUnavailable when the
// filtered log has nothing in that week.
func (s *Service) Week(ctx context.Context, f activity.Filter, year, week int) (stats.WeekRow, error) {
	if !activity.ValidISOWeek(year, week) {
		return stats.WeekRow{}, fmt.Errorf("%w: week %d does not exist in %d", activity.ErrInvalidFilter, week, year)
	}
	_, filtered, err := s.filtered(ctx, f)
	if err != nil {
		return stats.WeekRow{}, err
	}
	return stats.WeeklyHeatmap(filtered).Week(year, week)
}

func (s *Service) Calendar(ctx context.Context, f activity.Filter) (Calendar, error) {
	all, _, err := s.filtered(ctx, f)
	if err != nil {
		return Calendar{}, err
	}
	days, summary := s.streak(all, f)
	return Calendar{
		Anchor: s.anchor,
		Today:  s.Today(),
		Days:   days,
		Streak: summary,
	}, nil
}

func (s *Service) Records(ctx context.Context, f activity.Filter, view string) ([]activity.Record, error) {
	switch view {
	case "", ViewFiltered:
		_, filtered, err := s.filtered(ctx, f)
		return filtered, err
	case ViewRaw:
		return s.Activities(ctx)
	default:
		return nil, fmt.Errorf("%w: %q", ErrInvalidView, view)
	}
}

func (s *Service) Weights(ctx context.Context, users []string) (WeightView, error) {
	entries, err := s.weightEntries(ctx)
	if err != nil {
		return WeightView{}, err
	}
	targets, err := s.weightTargets(ctx)
	if err != nil {
		return WeightView{}, err
	}

	series := weight.ByUser(entries, targets, users)
	var shown []weight.Entry
	for _, se := range series {
		shown = append(shown, se.Entries...)
	}

	view := WeightView{
		Series:    series,
		AxisFloor: weight.AxisFloor(shown),
	}
	if len(shown) > 0 {
		lowest := math.Inf(1)
		for _, e := range shown {
			lowest = math.Min(lowest, e.Weight)
		}
		view.MinWeight = &lowest
	}
	return view, nil
}

// ExportParquet encodes the filtered records.
func (s *Service) ExportParquet(ctx context.Context, f activity.Filter) ([]byte, error) {
	_, filtered, err := s.filtered(ctx, f)
	if err != nil {
		return nil, err
	}
	return export.ActivitiesParquet(filtered)
}
