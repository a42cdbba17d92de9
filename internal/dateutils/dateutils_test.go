package dateutils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
		wantErr  bool
	}{
		{name: "US format", input: "01/31/2026", expected: "2026-01-31"},
		{name: "US format single digits", input: "1/5/2026", expected: "2026-01-05"},
		{name: "ISO format", input: "2026-01-31", expected: "2026-01-31"},
		{name: "full timestamp", input: "2026-01-31 14:30:00", expected: "2026-01-31"},
		{name: "whitespace padding", input: "  01/31/2026  ", expected: "2026-01-31"},
		{name: "garbage", input: "not-a-date", wantErr: true},
		{name: "empty", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parsed, _, err := ParseDate(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, ToISODate(parsed))
		})
	}
}

func TestParseDate_USBeforeISO(t *testing.T) {
	// 01/02/2026 must read as January 2nd, not February 1st.
	parsed, format, err := ParseDate("01/02/2026")
	require.NoError(t, err)
	assert.Equal(t, DateLayoutUS, format)
	assert.Equal(t, time.January, parsed.Month())
	assert.Equal(t, 2, parsed.Day())
}

func TestParsePeriod(t *testing.T) {
	period, err := ParsePeriod("2026-01")
	require.NoError(t, err)
	assert.Equal(t, 2026, period.Year)
	assert.Equal(t, time.January, period.Month)
	assert.Equal(t, "2026-01", period.String())

	_, err = ParsePeriod("January 2026")
	assert.Error(t, err)

	_, err = ParsePeriod("2026-13")
	assert.Error(t, err)
}

func TestPeriodContains(t *testing.T) {
	period := Period{Year: 2026, Month: time.January}

	assert.True(t, period.Contains(time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)))
	assert.True(t, period.Contains(time.Date(2026, time.January, 31, 0, 0, 0, 0, time.UTC)))
	assert.False(t, period.Contains(time.Date(2026, time.February, 1, 0, 0, 0, 0, time.UTC)))
	assert.False(t, period.Contains(time.Date(2025, time.January, 15, 0, 0, 0, 0, time.UTC)))
}

func TestPeriodStartEnd(t *testing.T) {
	period := Period{Year: 2026, Month: time.February}
	assert.Equal(t, "2026-02-01", ToISODate(period.Start()))
	assert.Equal(t, "2026-02-28", ToISODate(period.End()))
}

func TestCompareDates(t *testing.T) {
	earlier := time.Date(2026, time.January, 15, 23, 0, 0, 0, time.UTC)
	later := time.Date(2026, time.January, 16, 1, 0, 0, 0, time.UTC)

	assert.Equal(t, -1, CompareDates(earlier, later))
	assert.Equal(t, 1, CompareDates(later, earlier))
	// Same day, different time of day.
	assert.Equal(t, 0, CompareDates(earlier, time.Date(2026, time.January, 15, 1, 0, 0, 0, time.UTC)))
}

func TestDaysBetween(t *testing.T) {
	from := time.Date(2026, time.January, 10, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, time.January, 15, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, 5, DaysBetween(from, to))
	assert.Equal(t, -5, DaysBetween(to, from))
	assert.Equal(t, 0, DaysBetween(from, from))
}
