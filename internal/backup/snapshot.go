package backup

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/2beens/wellnesstracker/internal/config"
	"github.com/2beens/wellnesstracker/internal/store"
	"github.com/2beens/wellnesstracker/internal/telemetry/tracing"

	log "github.com/sirupsen/logrus"
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=backup_test

type sheetSource interface {
	Fetch(ctx context.Context, sheet, rangeSpec string) (store.Table, error)
}

// Snapshot is the JSON document written to drive on every backup run.
type Snapshot struct {
	TakenAt time.Time       `json:"takenAt"`
	Sheets  []SheetSnapshot `json:"sheets"`
}

type SheetSnapshot struct {
	Name   string     `json:"name"`
	Range  string     `json:"range"`
	Header []string   `json:"header"`
	Rows   [][]string `json:"rows"`
	// Missing is set for a configured sheet the spreadsheet does not have.
	Missing bool `json:"missing,omitempty"`
}

func (s Snapshot) RowsCount() int {
	n := 0
	for _, sh := range s.Sheets {
		n += len(sh.Rows)
	}
	return n
}

// TakeSnapshot reads every configured sheet as is, without normalizing.
func TakeSnapshot(ctx context.Context, src sheetSource, sheets config.Sheets, now time.Time) (_ Snapshot, err error) {
	ctx, span := tracing.GlobalBackupTracer.Start(ctx, "backup.snapshot")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	snapshot := Snapshot{TakenAt: now.UTC()}
	for _, sr := range []config.SheetRange{
		sheets.Activities,
		sheets.Users,
		sheets.Quotes,
		sheets.Regime,
		sheets.Weights,
		sheets.Targets,
	} {
		table, err := src.Fetch(ctx, sr.Name, sr.Range)
		if errors.Is(err, store.ErrSheetNotFound) {
			log.Warnf("backup: sheet [%s] not found, skipping", sr.Name)
			snapshot.Sheets = append(snapshot.Sheets, SheetSnapshot{
				Name:    sr.Name,
				Range:   sr.Range,
				Missing: true,
			})
			continue
		}
		if err != nil {
			return Snapshot{}, fmt.Errorf("fetch sheet %s: %w", sr.Name, err)
		}

		rows := table.Rows
		if rows == nil {
			rows = [][]string{}
		}
		snapshot.Sheets = append(snapshot.Sheets, SheetSnapshot{
			Name:   sr.Name,
			Range:  sr.Range,
			Header: table.Header,
			Rows:   rows,
		})
	}

	return snapshot, nil
}
