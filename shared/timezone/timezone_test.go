package timezone_test

import (
	"testing"
	"time"

	"charter/shared/timezone"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	assert.Equal(t, time.UTC, timezone.Load(""))
	assert.Equal(t, time.UTC, timezone.Load("Mars/Olympus_Mons"))
	assert.Equal(t, "Asia/Jakarta", timezone.Load("Asia/Jakarta").String())
}

func TestNowUsesAppLocation(t *testing.T) {
	loc := timezone.GetLocation()
	require.NotNil(t, loc)

	assert.Equal(t, loc, timezone.Now().Location())
	assert.Equal(t, loc, timezone.ToAppTime(time.Now().UTC()).Location())
}

func TestParseAndFormat(t *testing.T) {
	parsed, err := timezone.Parse("2006-01-02 15:04", "2024-01-01 07:30")
	require.NoError(t, err)

	assert.Equal(t, timezone.GetLocation(), parsed.Location())
	assert.Equal(t, "2024-01-01 07:30", timezone.Format(parsed, "2006-01-02 15:04"))

	_, err = timezone.Parse("2006-01-02", "01/01/2024")
	assert.Error(t, err)
}

func TestStartOfDay(t *testing.T) {
	loc := timezone.GetLocation()
	afternoon := time.Date(2024, 3, 9, 16, 45, 12, 0, loc)

	assert.Equal(t, time.Date(2024, 3, 9, 0, 0, 0, 0, loc), timezone.StartOfDay(afternoon))
	assert.False(t, timezone.Today().After(timezone.Now()))
}

func TestWeekday(t *testing.T) {
	tests := []struct {
		name string
		date time.Time
		want int
	}{
		{name: "monday", date: time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC), want: 0},
		{name: "wednesday", date: time.Date(2024, 1, 3, 10, 0, 0, 0, time.UTC), want: 2},
		{name: "sunday", date: time.Date(2024, 1, 7, 10, 0, 0, 0, time.UTC), want: 6},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, timezone.Weekday(tt.date))
		})
	}
}

func TestStartOfWeek(t *testing.T) {
	loc := timezone.GetLocation()
	friday := time.Date(2024, 1, 5, 15, 30, 0, 0, loc)

	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, loc), timezone.StartOfWeek(friday))
}
