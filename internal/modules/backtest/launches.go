package backtest

import (
	"time"

	"github.com/aristath/autocall/internal/domain"
	"github.com/aristath/autocall/internal/series"
)

// GenerateLaunchDates proposes issuance dates: the lookback window is
// resampled at the launch cadence into nominal anchor dates, each anchor is
// snapped to the earliest trading date on or after it, and only anchors whose
// full contract lifetime still fits inside the available history survive.
// An empty result is a valid outcome, not an error.
func GenerateLaunchDates(s *series.Series, lookbackYears int, cadence domain.LaunchFrequency, maturityYears float64) ([]int, error) {
	if err := cadence.Valid(); err != nil {
		return nil, err
	}
	if s.Len() == 0 {
		return []int{}, nil
	}

	end := s.Last()
	start := end.AddDate(-lookbackYears, 0, 0)
	if start.Before(s.First()) {
		start = s.First()
	}

	maturityMonths := series.MonthsForYears(maturityYears)
	anchors := nominalAnchors(start, end, cadence)

	launches := make([]int, 0, len(anchors))
	seen := -1
	for _, anchor := range anchors {
		idx := s.SearchDate(anchor)
		if idx >= s.Len() || idx == seen {
			continue
		}
		// Lifetime test re-applied after snapping.
		maturityDate := series.AddMonths(s.Date(idx), maturityMonths)
		if maturityDate.After(end) {
			continue
		}
		launches = append(launches, idx)
		seen = idx
	}
	return launches, nil
}

// nominalAnchors lists the calendar anchor dates inside [start, end]:
// Fridays for weekly cadence, period-end days otherwise.
func nominalAnchors(start, end time.Time, cadence domain.LaunchFrequency) []time.Time {
	var anchors []time.Time

	switch cadence {
	case domain.LaunchWeekly:
		d := start
		for d.Weekday() != time.Friday {
			d = d.AddDate(0, 0, 1)
		}
		for !d.After(end) {
			anchors = append(anchors, d)
			d = d.AddDate(0, 0, 7)
		}
	case domain.LaunchMonthly:
		d := series.LastDayOfMonth(start)
		for !d.After(end) {
			if !d.Before(start) {
				anchors = append(anchors, d)
			}
			d = series.LastDayOfMonth(d.AddDate(0, 0, 1))
		}
	case domain.LaunchQuarterly:
		d := series.LastDayOfMonth(start)
		for !d.After(end) {
			if !d.Before(start) && int(d.Month())%3 == 0 {
				anchors = append(anchors, d)
			}
			d = series.LastDayOfMonth(d.AddDate(0, 0, 1))
		}
	case domain.LaunchYearly:
		for y := start.Year(); y <= end.Year(); y++ {
			d := time.Date(y, time.December, 31, 0, 0, 0, 0, start.Location())
			if !d.Before(start) && !d.After(end) {
				anchors = append(anchors, d)
			}
		}
	}
	return anchors
}
