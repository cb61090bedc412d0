package export

import (
	"fmt"
	"math"
	"time"

	"github.com/2beens/wellnesstracker/internal/wellness/activity"

	parquetbuffer "github.com/xitongsys/parquet-go-source/buffer"
	"github.com/xitongsys/parquet-go/parquet"
	"github.com/xitongsys/parquet-go/writer"
)

// ActivityRow is the parquet layout of one logged session. Unknown numbers
// are written as NaN (or 0 for reps) with the matching valid flag false.
type ActivityRow struct {
	TimestampISO    string  `parquet:"name=timestamp_iso, type=BYTE_ARRAY, convertedtype=UTF8"`
	Date            string  `parquet:"name=date, type=BYTE_ARRAY, convertedtype=UTF8, encoding=PLAIN_DICTIONARY"`
	ExerciseType    string  `parquet:"name=exercise_type, type=BYTE_ARRAY, convertedtype=UTF8, encoding=PLAIN_DICTIONARY"`
	User            string  `parquet:"name=user, type=BYTE_ARRAY, convertedtype=UTF8, encoding=PLAIN_DICTIONARY"`
	DurationMinutes float64 `parquet:"name=duration_minutes, type=DOUBLE"`
	DistanceMiles   float64 `parquet:"name=distance_miles, type=DOUBLE"`
	Reps            int64   `parquet:"name=reps, type=INT64"`
	ValidTimestamp  bool    `parquet:"name=valid_timestamp, type=BOOLEAN"`
	ValidDuration   bool    `parquet:"name=valid_duration, type=BOOLEAN"`
	ValidDistance   bool    `parquet:"name=valid_distance, type=BOOLEAN"`
	ValidReps       bool    `parquet:"name=valid_reps, type=BOOLEAN"`
}

func toRow(r activity.Record) ActivityRow {
	row := ActivityRow{
		ExerciseType:    r.RawExerciseType,
		User:            r.User,
		DurationMinutes: math.NaN(),
		DistanceMiles:   math.NaN(),
	}
	if r.ExerciseType != "" {
		row.ExerciseType = string(r.ExerciseType)
	}
	if r.HasTimestamp {
		row.TimestampISO = r.Timestamp.Format(time.RFC3339)
		row.Date = r.Timestamp.Format(time.DateOnly)
		row.ValidTimestamp = true
	}
	if r.DurationMinutes.Valid {
		row.DurationMinutes = r.DurationMinutes.Value
		row.ValidDuration = true
	}
	if r.DistanceMiles.Valid {
		row.DistanceMiles = r.DistanceMiles.Value
		row.ValidDistance = true
	}
	if r.Reps.Valid {
		row.Reps = r.Reps.Value
		row.ValidReps = true
	}
	return row
}

// ActivitiesParquet encodes the records as a snappy compressed parquet file.
func ActivitiesParquet(records []activity.Record) ([]byte, error) {
	fw := parquetbuffer.NewBufferFile()
	pw, err := writer.NewParquetWriter(fw, new(ActivityRow), 4)
	if err != nil {
		return nil, fmt.Errorf("new parquet writer: %w", err)
	}
	pw.CompressionType = parquet.CompressionCodec_SNAPPY

	for _, r := range records {
		if err := pw.Write(toRow(r)); err != nil {
			_ = pw.WriteStop()
			return nil, fmt.Errorf("write parquet row: %w", err)
		}
	}
	if err := pw.WriteStop(); err != nil {
		return nil, fmt.Errorf("finish parquet file: %w", err)
	}
	if err := fw.Close(); err != nil {
		return nil, err
	}
	return append([]byte(nil), fw.Bytes()...), nil
}
