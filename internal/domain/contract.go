// Package domain defines the pure value types shared by the pricing and
// backtest engines: contract terms, market state and per-path outcomes.
// It has no infrastructure dependencies.
package domain

import "fmt"

// Frequency is the contractual observation frequency.
type Frequency string

// Supported observation frequencies.
const (
	FreqAnnual     Frequency = "annual"
	FreqSemiAnnual Frequency = "semi-annual"
	FreqQuarterly  Frequency = "quarterly"
	FreqMonthly    Frequency = "monthly"
)

// ObservationsPerYear returns the number of observations per year for the
// frequency. An unknown frequency is a configuration error.
func (f Frequency) ObservationsPerYear() (int, error) {
	switch f {
	case FreqAnnual:
		return 1, nil
	case FreqSemiAnnual:
		return 2, nil
	case FreqQuarterly:
		return 4, nil
	case FreqMonthly:
		return 12, nil
	default:
		return 0, fmt.Errorf("unknown observation frequency %q", string(f))
	}
}

// BarrierStyle is the downside-barrier monitoring convention.
type BarrierStyle string

// Supported barrier monitoring styles.
const (
	// StyleAmerican monitors the barrier continuously: any sampled point
	// below the barrier up to maturity counts as a breach.
	StyleAmerican BarrierStyle = "american"
	// StyleEuropean monitors the barrier at maturity only.
	StyleEuropean BarrierStyle = "european"
)

// Valid reports whether the style is one of the two supported conventions.
func (s BarrierStyle) Valid() error {
	switch s {
	case StyleAmerican, StyleEuropean:
		return nil
	default:
		return fmt.Errorf("unknown barrier style %q", string(s))
	}
}

// LaunchFrequency is the cadence at which backtest launch dates are proposed.
type LaunchFrequency string

// Supported launch cadences.
const (
	LaunchWeekly    LaunchFrequency = "weekly"
	LaunchMonthly   LaunchFrequency = "monthly"
	LaunchQuarterly LaunchFrequency = "quarterly"
	LaunchYearly    LaunchFrequency = "yearly"
)

// Valid reports whether the cadence is supported.
func (f LaunchFrequency) Valid() error {
	switch f {
	case LaunchWeekly, LaunchMonthly, LaunchQuarterly, LaunchYearly:
		return nil
	default:
		return fmt.Errorf("unknown launch frequency %q", string(f))
	}
}

// ContractSpec holds the immutable terms of an autocallable note.
//
// Barrier and strike levels are expressed as fractions of the initial level
// observed at the start of each individual path (1.10 = 110%), so Monte Carlo
// and backtest paths are evaluated consistently. The coupon rate is an
// annualized decimal fraction (0.07 = 7% p.a.).
type ContractSpec struct {
	Underlying      string       `json:"underlying,omitempty"`
	MaturityYears   float64      `json:"maturity_years"`
	Frequency       Frequency    `json:"frequency"`
	AutocallBarrier float64      `json:"autocall_barrier"`
	CouponBarrier   float64      `json:"coupon_barrier"`
	DownsideBarrier float64      `json:"downside_barrier"`
	DownsideStrike  float64      `json:"downside_strike"`
	DownsideStyle   BarrierStyle `json:"downside_style"`
	AnnualCoupon    float64      `json:"annual_coupon"`
	Memory          bool         `json:"memory"`
}

// Validate range-checks the contract terms. Validation runs before any
// simulation; the engines themselves assume a validated spec.
func (c ContractSpec) Validate() error {
	if c.MaturityYears <= 0 {
		return fmt.Errorf("maturity must be positive, got %v", c.MaturityYears)
	}
	if _, err := c.Frequency.ObservationsPerYear(); err != nil {
		return err
	}
	if err := c.DownsideStyle.Valid(); err != nil {
		return err
	}
	for _, lvl := range []struct {
		name  string
		value float64
	}{
		{"autocall barrier", c.AutocallBarrier},
		{"coupon barrier", c.CouponBarrier},
		{"downside barrier", c.DownsideBarrier},
		{"downside strike", c.DownsideStrike},
	} {
		if lvl.value < 0 || lvl.value > 3 {
			return fmt.Errorf("%s must be within [0%%, 300%%], got %v", lvl.name, lvl.value)
		}
	}
	if c.DownsideStrike <= 0 {
		return fmt.Errorf("downside strike must be positive, got %v", c.DownsideStrike)
	}
	if c.AnnualCoupon < 0 || c.AnnualCoupon > 1 {
		return fmt.Errorf("annual coupon must be within [0%%, 100%%], got %v", c.AnnualCoupon)
	}
	if c.DownsideBarrier >= c.AutocallBarrier {
		return fmt.Errorf("downside barrier %v must be strictly below autocall barrier %v",
			c.DownsideBarrier, c.AutocallBarrier)
	}
	return nil
}

// ObservationCount returns the number of scheduled observations,
// ceil(maturity x observations per year).
func (c ContractSpec) ObservationCount() (int, error) {
	perYear, err := c.Frequency.ObservationsPerYear()
	if err != nil {
		return 0, err
	}
	count := int(c.MaturityYears * float64(perYear))
	if c.MaturityYears*float64(perYear) > float64(count) {
		count++
	}
	return count, nil
}
