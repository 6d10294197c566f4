// Package pricing drives the payoff state machine over simulated path
// ensembles and aggregates discounted payoffs into a present value with
// diagnostics.
package pricing

import "github.com/aristath/autocall/internal/domain"

// RunParams controls the size and reproducibility of a pricing run.
type RunParams struct {
	NPaths       int     `json:"n_paths"`
	StepsPerYear int     `json:"steps_per_year"`
	Seed         *uint64 `json:"seed,omitempty"`
}

// Diagnostics holds the aggregate statistics of one pricing run.
// Rebuilt fresh on every run.
type Diagnostics struct {
	CallProbPerObs   []float64 `json:"call_prob_per_obs"`
	CouponProbPerObs []float64 `json:"coupon_prob_per_obs"`
	ProbMaturity     float64   `json:"prob_maturity"`
	ProbCapitalLoss  float64   `json:"prob_capital_loss"`
	ExpectedDuration float64   `json:"expected_duration_years"`
	CI95Low          float64   `json:"ci95_low"`
	CI95High         float64   `json:"ci95_high"`
	ForwardAtMaturity float64  `json:"forward_at_maturity"`
	EquivalentZCB    float64   `json:"equivalent_zcb"`
}

// Result is the outcome of a pricing run: the present value per 100 notional
// plus its diagnostics.
type Result struct {
	PV          float64     `json:"pv"`
	Diagnostics Diagnostics `json:"diagnostics"`
	NPaths      int         `json:"n_paths"`
	StepsPerYear int        `json:"steps_per_year"`
	Seed        *uint64     `json:"seed,omitempty"`
}

// Termsheet summarizes the contract terms in absolute units for a given spot.
type Termsheet struct {
	Underlying        string             `json:"underlying,omitempty"`
	MaturityYears     float64            `json:"maturity_years"`
	Frequency         domain.Frequency   `json:"frequency"`
	ObservationCount  int                `json:"observation_count"`
	ObservationYears  []float64          `json:"observation_years"`
	CouponPerPeriod   float64            `json:"coupon_per_period"`
	Memory            bool               `json:"memory"`
	DownsideStyle     domain.BarrierStyle `json:"downside_style"`
	AutocallLevel     float64            `json:"autocall_level"`
	CouponLevel       float64            `json:"coupon_level"`
	DownsideLevel     float64            `json:"downside_level"`
	DownsideStrikeAbs float64            `json:"downside_strike"`
}
