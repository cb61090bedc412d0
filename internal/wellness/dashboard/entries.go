package dashboard

import (
	"context"
	"fmt"

	"github.com/2beens/wellnesstracker/internal/config"
	"github.com/2beens/wellnesstracker/internal/telemetry/tracing"
	"github.com/2beens/wellnesstracker/internal/wellness/entry"

	log "github.com/sirupsen/logrus"
)

const (
	entryKindActivity = "activity"
	entryKindWeight   = "weight"
	entryKindTarget   = "target"
)

// appendEntry writes one row. A failed append is reported, never retried.
func (s *Service) appendEntry(ctx context.Context, kind string, sheet config.SheetRange, values []string) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "dashboard.append."+kind)
	defer func() { tracing.EndSpanWithErrCheck(span, err) }()

	if err := s.store.Append(ctx, sheet.Name, values); err != nil {
		return fmt.Errorf("append %s: %w", kind, err)
	}
	if s.metricsManager != nil {
		s.metricsManager.CounterEntriesAppended.WithLabelValues(kind).Inc()
	}
	log.Debugf("%s entry appended to [%s]", kind, sheet.Name)
	return nil
}

func (s *Service) LogActivity(ctx context.Context, sub entry.ActivitySubmission) (entry.Activity, error) {
	a, err := sub.Validate(s.localNow())
	if err != nil {
		return entry.Activity{}, err
	}
	if err := s.appendEntry(ctx, entryKindActivity, s.sheets.Activities, a.Values()); err != nil {
		return entry.Activity{}, err
	}
	return a, nil
}

// LogWeight appends the current weight and returns the written cells.
func (s *Service) LogWeight(ctx context.Context, sub entry.WeightSubmission) ([]string, error) {
	values, err := sub.Values(s.localNow())
	if err != nil {
		return nil, err
	}
	if err := s.appendEntry(ctx, entryKindWeight, s.sheets.Weights, values); err != nil {
		return nil, err
	}
	return values, nil
}

func (s *Service) SetTarget(ctx context.Context, sub entry.TargetSubmission) ([]string, error) {
	values, err := sub.Values(s.localNow())
	if err != nil {
		return nil, err
	}
	if err := s.appendEntry(ctx, entryKindTarget, s.sheets.Targets, values); err != nil {
		return nil, err
	}
	return values, nil
}
