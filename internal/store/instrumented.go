package store

import (
	"context"
	"time"

	"github.com/2beens/wellnesstracker/internal/telemetry/metrics"
	"github.com/2beens/wellnesstracker/internal/telemetry/tracing"

	"github.com/prometheus/client_golang/prometheus"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

// Instrumented wraps a Store with spans, prometheus counters and error
// annotation. It never retries.
type Instrumented struct {
	next           Store
	backend        string
	metricsManager *metrics.Manager
}

func NewInstrumented(next Store, backend string, metricsManager *metrics.Manager) *Instrumented {
	return &Instrumented{
		next:           next,
		backend:        backend,
		metricsManager: metricsManager,
	}
}

func (s *Instrumented) Fetch(ctx context.Context, sheet, rangeSpec string) (_ Table, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "store.fetch")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(
		attribute.String("backend", s.backend),
		attribute.String("sheet", sheet),
		attribute.String("range", rangeSpec),
	)

	defer s.observe("fetch", sheet, time.Now(), &err)

	table, err := s.next.Fetch(ctx, sheet, rangeSpec)
	if err != nil {
		return Table{}, &Error{Op: "fetch", Sheet: sheet, Err: err}
	}
	span.SetAttributes(attribute.Int("rows", len(table.Rows)))
	return table, nil
}

func (s *Instrumented) Append(ctx context.Context, sheet string, values []string) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "store.append")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(
		attribute.String("backend", s.backend),
		attribute.String("sheet", sheet),
		attribute.Int("cells", len(values)),
	)

	defer s.observe("append", sheet, time.Now(), &err)

	if err := s.next.Append(ctx, sheet, values); err != nil {
		return &Error{Op: "append", Sheet: sheet, Err: err}
	}
	return nil
}

func (s *Instrumented) observe(op, sheet string, begin time.Time, err *error) {
	status := "ok"
	if *err != nil {
		status = "error"
		log.Warnf("%s: %s", s.backend, *err)
	}
	if s.metricsManager == nil {
		return
	}
	s.metricsManager.HistStoreOpDuration.With(prometheus.Labels{"op": op}).Observe(time.Since(begin).Seconds())
	s.metricsManager.CounterStoreOps.With(prometheus.Labels{
		"op":     op,
		"sheet":  sheet,
		"status": status,
	}).Inc()
}
