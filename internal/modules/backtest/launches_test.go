package backtest

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aristath/autocall/internal/domain"
	"github.com/aristath/autocall/internal/series"
)

func weekdaySeries(t *testing.T, start time.Time, points int) *series.Series {
	t.Helper()
	var pts []series.Point
	d := start
	for len(pts) < points {
		if d.Weekday() != time.Saturday && d.Weekday() != time.Sunday {
			pts = append(pts, series.Point{Date: d, Close: 100})
		}
		d = d.AddDate(0, 0, 1)
	}
	s, err := series.New(pts)
	require.NoError(t, err)
	return s
}

func TestGenerateLaunchDates_YearlyCadence(t *testing.T) {
	start := time.Date(2010, time.January, 1, 0, 0, 0, 0, time.UTC)
	points := make([]series.Point, 0, 3660)
	for i := 0; i < 3660; i++ {
		points = append(points, series.Point{Date: start.AddDate(0, 0, i), Close: 100})
	}
	s, err := series.New(points)
	require.NoError(t, err)

	launches, err := GenerateLaunchDates(s, 10, domain.LaunchYearly, 5)
	require.NoError(t, err)

	// Dec 31 anchors for 2010-2014 leave room for a 5 year lifetime; later
	// years do not.
	require.Len(t, launches, 5)
	for k, idx := range launches {
		assert.Equal(t, time.Date(2010+k, time.December, 31, 0, 0, 0, 0, time.UTC), s.Date(idx))
	}
}

func TestGenerateLaunchDates_WeeklyCadenceLandsOnFridays(t *testing.T) {
	start := time.Date(2023, time.January, 2, 0, 0, 0, 0, time.UTC)
	s := weekdaySeries(t, start, 260)

	launches, err := GenerateLaunchDates(s, 1, domain.LaunchWeekly, 0.25)
	require.NoError(t, err)

	require.NotEmpty(t, launches)
	for _, idx := range launches {
		assert.Equal(t, time.Friday, s.Date(idx).Weekday())
	}
}

func TestGenerateLaunchDates_MonthlySnapsToNextTradingDate(t *testing.T) {
	// Month-end anchors falling on weekends snap forward onto the first
	// weekday of the next month.
	start := time.Date(2022, time.January, 3, 0, 0, 0, 0, time.UTC)
	s := weekdaySeries(t, start, 520)

	launches, err := GenerateLaunchDates(s, 2, domain.LaunchMonthly, 0.5)
	require.NoError(t, err)

	require.NotEmpty(t, launches)
	prev := -1
	for _, idx := range launches {
		assert.Greater(t, idx, prev, "launch indices strictly increasing, no duplicates")
		prev = idx
		wd := s.Date(idx).Weekday()
		assert.NotEqual(t, time.Saturday, wd)
		assert.NotEqual(t, time.Sunday, wd)
	}
}

func TestGenerateLaunchDates_LifetimeMustFitInsideHistory(t *testing.T) {
	start := time.Date(2023, time.January, 2, 0, 0, 0, 0, time.UTC)
	s := weekdaySeries(t, start, 260)

	launches, err := GenerateLaunchDates(s, 1, domain.LaunchMonthly, 10)
	require.NoError(t, err)
	assert.Empty(t, launches, "no launch fits a 10 year contract into one year of history")
}

func TestGenerateLaunchDates_UnknownCadence(t *testing.T) {
	start := time.Date(2023, time.January, 2, 0, 0, 0, 0, time.UTC)
	s := weekdaySeries(t, start, 30)

	_, err := GenerateLaunchDates(s, 1, domain.LaunchFrequency("daily"), 1)
	assert.Error(t, err)
}
