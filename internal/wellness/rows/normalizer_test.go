package rows_test

import (
	"testing"
	"time"

	"github.com/2beens/wellnesstracker/internal/wellness/rows"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testHeader = []string{
	"Timestamp",
	"Exercise Type",
	"Duration",
	"Optional: Distance (miles)",
	"Optional: Strength: Reps",
	"User",
}

func TestNormalize_RaggedRowsAlwaysHaveHeaderLength(t *testing.T) {
	faker := gofakeit.New(42)

	data := make([][]string, 200)
	for i := range data {
		row := make([]string, faker.Number(0, len(testHeader)+4))
		for j := range row {
			row[j] = faker.Word()
		}
		data[i] = row
	}

	table := rows.Normalize(testHeader, data, rows.ActivitySchema())
	require.Len(t, table.Records, len(data))

	truncated := 0
	for i, rec := range table.Records {
		assert.Equal(t, len(testHeader), rec.Len(), "row %d", i)
		if len(data[i]) > len(testHeader) {
			truncated++
		}
	}
	assert.Equal(t, truncated, table.TruncatedRows)
}

func TestNormalize_PaddingIsDistinctFromEmpty(t *testing.T) {
	table := rows.Normalize(testHeader, [][]string{
		{"04/03/2024 07:00:00", "Running", ""},
	}, rows.ActivitySchema())
	require.Len(t, table.Records, 1)
	rec := table.Records[0]

	dur := rec.Cell(rows.ColDurationMinutes)
	assert.True(t, dur.Present)
	assert.Equal(t, "", dur.Value)
	assert.False(t, rec.Float(rows.ColDurationMinutes).Valid)

	user := rec.Cell(rows.ColUser)
	assert.False(t, user.Present)
	_, ok := rec.Text(rows.ColUser)
	assert.False(t, ok)
}

func TestNormalize_AliasesResolveToCanonicalNames(t *testing.T) {
	header := []string{"  timestamp ", "Exercise Type", "Distance in Miles", "reps", "Mood"}
	table := rows.Normalize(header, [][]string{
		{"2024-03-04 07:00", "Cycling", "12.5", "30", "Happy"},
	}, rows.ActivitySchema())

	assert.Equal(t, []string{
		rows.ColTimestamp,
		rows.ColExerciseType,
		rows.ColDistanceMiles,
		rows.ColReps,
		"Mood",
	}, table.Columns)

	rec := table.Records[0]
	assert.Equal(t, rows.Float{Value: 12.5, Valid: true}, rec.Float(rows.ColDistanceMiles))
	assert.Equal(t, rows.Int{Value: 30, Valid: true}, rec.Int(rows.ColReps))
	mood, ok := rec.Text("Mood")
	assert.True(t, ok)
	assert.Equal(t, "Happy", mood)
}

func TestNormalize_Coercion(t *testing.T) {
	table := rows.Normalize(testHeader, [][]string{
		{"10/01/2024 18:30:00", "Strength", "45", "abc", "12.0", "ana"},
		{"not a date", "Yoga", "-5", "1.5", "12.5", "ben"},
		{"", "Hiking", "NaN", "Inf", "", "ana"},
	}, rows.ActivitySchema())
	require.Len(t, table.Records, 3)

	first := table.Records[0]
	ts := first.Time(rows.ColTimestamp)
	require.True(t, ts.Valid)
	assert.Equal(t, time.Date(2024, time.January, 10, 18, 30, 0, 0, time.UTC), ts.Time)
	assert.Equal(t, rows.Float{Value: 45, Valid: true}, first.Float(rows.ColDurationMinutes))
	assert.False(t, first.Float(rows.ColDistanceMiles).Valid)
	assert.Equal(t, rows.Int{Value: 12, Valid: true}, first.Int(rows.ColReps))

	second := table.Records[1]
	assert.False(t, second.Time(rows.ColTimestamp).Valid)
	assert.False(t, second.Float(rows.ColDurationMinutes).Valid, "negative durations are unknown")
	assert.Equal(t, rows.Float{Value: 1.5, Valid: true}, second.Float(rows.ColDistanceMiles))
	assert.False(t, second.Int(rows.ColReps).Valid, "fractional reps are unknown")

	third := table.Records[2]
	assert.False(t, third.Time(rows.ColTimestamp).Valid)
	assert.False(t, third.Float(rows.ColDurationMinutes).Valid)
	assert.False(t, third.Float(rows.ColDistanceMiles).Valid)
	assert.False(t, third.Int(rows.ColReps).Valid)
}

func TestNormalize_EmptyInput(t *testing.T) {
	table := rows.Normalize(nil, nil, rows.ActivitySchema())
	assert.Equal(t, 0, table.Len())
	assert.Empty(t, table.Columns)

	table = rows.Normalize(testHeader, nil, rows.ActivitySchema())
	assert.Equal(t, 0, table.Len())
	assert.Len(t, table.Columns, len(testHeader))
}

func TestNormalize_UnknownColumnLookup(t *testing.T) {
	table := rows.Normalize(testHeader, [][]string{{"01/01/2024"}}, rows.ActivitySchema())
	rec := table.Records[0]
	assert.False(t, rec.Float("weight").Valid)
	_, ok := rec.Text("weight")
	assert.False(t, ok)
}

func TestParseDayFirst(t *testing.T) {
	testCases := []struct {
		in       string
		expected time.Time
		ok       bool
	}{
		{"04/03/2024 07:00:00", time.Date(2024, time.March, 4, 7, 0, 0, 0, time.UTC), true},
		{"4/3/2024 7:05", time.Date(2024, time.March, 4, 7, 5, 0, 0, time.UTC), true},
		{"13/12/2023", time.Date(2023, time.December, 13, 0, 0, 0, 0, time.UTC), true},
		{"2024-03-04 22:00", time.Date(2024, time.March, 4, 22, 0, 0, 0, time.UTC), true},
		{"2024-03-04", time.Date(2024, time.March, 4, 0, 0, 0, 0, time.UTC), true},
		{"12/13/2023", time.Time{}, false},
		{"yesterday", time.Time{}, false},
		{"   ", time.Time{}, false},
	}

	for _, tc := range testCases {
		t.Run(tc.in, func(t *testing.T) {
			got, ok := rows.ParseDayFirst(tc.in)
			assert.Equal(t, tc.ok, ok)
			assert.Equal(t, tc.expected, got)
		})
	}
}

func TestParseCount(t *testing.T) {
	assert.Equal(t, rows.Int{Value: 10, Valid: true}, rows.ParseCount("10"))
	assert.Equal(t, rows.Int{Value: 10, Valid: true}, rows.ParseCount(" 10.0 "))
	assert.Equal(t, rows.Int{}, rows.ParseCount("10.5"))
	assert.Equal(t, rows.Int{}, rows.ParseCount("-1"))
	assert.Equal(t, rows.Int{}, rows.ParseCount("ten"))
}
