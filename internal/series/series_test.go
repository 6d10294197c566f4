package series

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestNew_RejectsBadInput(t *testing.T) {
	_, err := New([]Point{
		{Date: day(2020, 1, 2), Close: 100},
		{Date: day(2020, 1, 1), Close: 101},
	})
	assert.Error(t, err, "out of order dates")

	_, err = New([]Point{
		{Date: day(2020, 1, 1), Close: 100},
		{Date: day(2020, 1, 1), Close: 101},
	})
	assert.Error(t, err, "duplicate dates")

	_, err = New([]Point{{Date: day(2020, 1, 1), Close: 0}})
	assert.Error(t, err, "non-positive price")
}

func TestSearchDate(t *testing.T) {
	s, err := New([]Point{
		{Date: day(2020, 1, 6), Close: 100},
		{Date: day(2020, 1, 7), Close: 101},
		{Date: day(2020, 1, 10), Close: 102},
	})
	require.NoError(t, err)

	assert.Equal(t, 0, s.SearchDate(day(2020, 1, 1)))
	assert.Equal(t, 1, s.SearchDate(day(2020, 1, 7)))
	assert.Equal(t, 2, s.SearchDate(day(2020, 1, 8)))
	assert.Equal(t, 3, s.SearchDate(day(2020, 1, 11)), "past the end")
}

func TestSlice(t *testing.T) {
	s, err := New([]Point{
		{Date: day(2020, 1, 1), Close: 100},
		{Date: day(2020, 1, 2), Close: 101},
		{Date: day(2020, 1, 3), Close: 102},
		{Date: day(2020, 1, 4), Close: 103},
	})
	require.NoError(t, err)

	sub := s.Slice(1, 2)
	assert.Equal(t, 2, sub.Len())
	assert.Equal(t, day(2020, 1, 2), sub.First())
	assert.Equal(t, 102.0, sub.Close(1))
}

func TestAddMonths_EDATESemantics(t *testing.T) {
	assert.Equal(t, day(2023, 2, 28), AddMonths(day(2023, 1, 31), 1))
	assert.Equal(t, day(2024, 2, 29), AddMonths(day(2024, 1, 31), 1))
	assert.Equal(t, day(2020, 7, 15), AddMonths(day(2020, 1, 15), 6))
	assert.Equal(t, day(2025, 1, 15), AddMonths(day(2020, 1, 15), 60))
}

func TestMonthsForYears(t *testing.T) {
	assert.Equal(t, 60, MonthsForYears(5))
	assert.Equal(t, 6, MonthsForYears(0.5))
	assert.Equal(t, 15, MonthsForYears(1.25))
	assert.Equal(t, 20, MonthsForYears(1.65))
}

func TestLastDayOfMonth(t *testing.T) {
	assert.Equal(t, day(2024, 2, 29), LastDayOfMonth(day(2024, 2, 10)))
	assert.Equal(t, day(2023, 12, 31), LastDayOfMonth(day(2023, 12, 1)))
}
