// Package schedule builds ordered observation schedules for both engines:
// step indices on a simulated time grid, and trading-date indices on a real
// calendar. Identical inputs always yield an identical schedule.
package schedule

import (
	"errors"
	"fmt"
	"math"

	"github.com/aristath/autocall/internal/domain"
	"github.com/aristath/autocall/internal/series"
)

// ErrInfeasible is returned when a calendar schedule cannot be completed
// within the available history. The launch must be excluded, not priced.
var ErrInfeasible = errors.New("contract lifetime does not fit available history")

// Grid returns the observation step indices for a simulated time grid.
// Each observation's year fraction is mapped to the nearest grid step and
// clamped to the final step, so no observation looks past maturity.
func Grid(maturityYears float64, stepsPerYear int, freq domain.Frequency) ([]int, error) {
	perYear, err := freq.ObservationsPerYear()
	if err != nil {
		return nil, err
	}
	if maturityYears <= 0 {
		return nil, fmt.Errorf("maturity must be positive, got %v", maturityYears)
	}
	if stepsPerYear <= 0 {
		return nil, fmt.Errorf("steps per year must be positive, got %d", stepsPerYear)
	}

	count := int(math.Ceil(maturityYears * float64(perYear)))
	maxStep := int(math.Round(maturityYears * float64(stepsPerYear)))

	steps := make([]int, count)
	for k := 1; k <= count; k++ {
		tYears := float64(k) / float64(perYear)
		step := int(math.Round(tYears * float64(stepsPerYear)))
		if step > maxStep {
			step = maxStep
		}
		steps[k-1] = step
	}
	return steps, nil
}

// Calendar returns observation indices into a historical series that starts
// at the launch date (index 0). Each nominal observation date, launch plus a
// whole number of months, is snapped to the earliest trading date on or after
// it; if any observation falls past the end of history the launch is
// infeasible.
func Calendar(s *series.Series, maturityYears float64, freq domain.Frequency) ([]int, error) {
	perYear, err := freq.ObservationsPerYear()
	if err != nil {
		return nil, err
	}
	if s.Len() == 0 {
		return nil, ErrInfeasible
	}

	launch := s.Date(0)
	count := int(math.Ceil(maturityYears * float64(perYear)))

	obs := make([]int, count)
	for k := 1; k <= count; k++ {
		nominal := series.AddMonths(launch, 12*k/perYear)
		idx := s.SearchDate(nominal)
		if idx >= s.Len() {
			return nil, ErrInfeasible
		}
		obs[k-1] = idx
	}
	return obs, nil
}
