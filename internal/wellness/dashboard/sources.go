package dashboard

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/2beens/wellnesstracker/internal/config"
	"github.com/2beens/wellnesstracker/internal/store"
	"github.com/2beens/wellnesstracker/internal/telemetry/tracing"
	"github.com/2beens/wellnesstracker/internal/wellness/activity"
	"github.com/2beens/wellnesstracker/internal/wellness/rows"
	"github.com/2beens/wellnesstracker/internal/wellness/weight"

	log "github.com/sirupsen/logrus"
)

func (s *Service) loadTable(ctx context.Context, sheet config.SheetRange, schema *rows.Schema) (_ rows.Table, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "dashboard.loadTable")
	defer func() { tracing.EndSpanWithErrCheck(span, err) }()

	raw, err := s.store.Fetch(ctx, sheet.Name, sheet.Range)
	if err != nil {
		return rows.Table{}, fmt.Errorf("fetch %s: %w", sheet.Name, err)
	}

	table := rows.Normalize(raw.Header, raw.Rows, schema)
	if table.TruncatedRows > 0 {
		log.Warnf("sheet [%s]: %d rows had more cells than the header, extra cells dropped", sheet.Name, table.TruncatedRows)
		if s.metricsManager != nil {
			s.metricsManager.CounterTruncatedRows.WithLabelValues(sheet.Name).Add(float64(table.TruncatedRows))
		}
	}
	return table, nil
}

// Activities returns every normalized record of the activity log.
func (s *Service) Activities(ctx context.Context) ([]activity.Record, error) {
	table, err := s.loadTable(ctx, s.sheets.Activities, rows.ActivitySchema())
	if err != nil {
		return nil, err
	}
	return activity.FromTable(table), nil
}

// Users lists the app users, in sheet order, without blanks and duplicates.
func (s *Service) Users(ctx context.Context) ([]string, error) {
	table, err := s.loadTable(ctx, s.sheets.Users, rows.UsersSchema())
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	users := make([]string, 0, table.Len())
	for _, rec := range table.Records {
		user, ok := rec.Text(rows.ColUser)
		if !ok || user == "" || seen[user] {
			continue
		}
		seen[user] = true
		users = append(users, user)
	}
	return users, nil
}

type Quote struct {
	Number int64  `json:"number,omitempty"`
	Quote  string `json:"quote"`
	Author string `json:"author"`
}

func (s *Service) quotes(ctx context.Context) ([]Quote, error) {
	table, err := s.loadTable(ctx, s.sheets.Quotes, rows.QuotesSchema())
	if err != nil {
		return nil, err
	}
	quotes := make([]Quote, 0, table.Len())
	for _, rec := range table.Records {
		text, ok := rec.Text(rows.ColQuote)
		if !ok || text == "" {
			continue
		}
		author, _ := rec.Text(rows.ColAuthor)
		quotes = append(quotes, Quote{
			Number: rec.Int(rows.ColNumber).Value,
			Quote:  text,
			Author: author,
		})
	}
	return quotes, nil
}

// RandomQuote picks one quote; ErrNoQuotes when the sheet has none.
func (s *Service) RandomQuote(ctx context.Context) (Quote, error) {
	quotes, err := s.quotes(ctx)
	if err != nil {
		return Quote{}, err
	}
	if len(quotes) == 0 {
		return Quote{}, ErrNoQuotes
	}
	return quotes[s.pickIndex(len(quotes))], nil
}

// TodaysExercise looks today's weekday up in the regime sheet.
func (s *Service) TodaysExercise(ctx context.Context) (string, error) {
	table, err := s.loadTable(ctx, s.sheets.Regime, rows.RegimeSchema())
	if err != nil {
		return "", err
	}

	weekday := s.localNow().Weekday().String()
	for _, rec := range table.Records {
		day, _ := rec.Text(rows.ColDayOfWeek)
		if !strings.EqualFold(day, weekday) {
			continue
		}
		if exercise, ok := rec.Text(rows.ColType); ok && exercise != "" {
			return exercise, nil
		}
	}
	return NoExerciseScheduled, nil
}

func (s *Service) weightEntries(ctx context.Context) ([]weight.Entry, error) {
	table, err := s.loadTable(ctx, s.sheets.Weights, rows.WeightSchema())
	if err != nil {
		return nil, err
	}
	return weight.EntriesFromTable(table), nil
}

// weightTargets treats a missing targets sheet as "no targets set yet".
func (s *Service) weightTargets(ctx context.Context) (map[string]weight.Target, error) {
	table, err := s.loadTable(ctx, s.sheets.Targets, rows.TargetSchema())
	if err != nil {
		if errors.Is(err, store.ErrSheetNotFound) {
			log.Debugf("targets sheet [%s] not found", s.sheets.Targets.Name)
			return map[string]weight.Target{}, nil
		}
		return nil, err
	}
	return weight.LatestTargets(table), nil
}
