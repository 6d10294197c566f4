package domain

import "fmt"

// MarketState holds the market parameters for a Monte Carlo pricing run.
// All rates are decimal fractions (0.02 = 2%). Immutable per run.
type MarketState struct {
	Spot          float64 `json:"spot"`
	Rate          float64 `json:"rate"`
	DividendYield float64 `json:"dividend_yield"`
	Volatility    float64 `json:"volatility"`
}

// Validate range-checks the market parameters.
func (m MarketState) Validate() error {
	if m.Spot <= 0 {
		return fmt.Errorf("spot must be positive, got %v", m.Spot)
	}
	if m.Volatility < 0 {
		return fmt.Errorf("volatility must be non-negative, got %v", m.Volatility)
	}
	return nil
}
