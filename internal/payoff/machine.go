// Package payoff implements the contract state machine shared by the Monte
// Carlo pricer and the historical backtester. It is the single source of
// contractual truth: one path in, one outcome out, no shared mutable state.
package payoff

import (
	"fmt"
	"math"

	"github.com/aristath/autocall/internal/domain"
)

// Path is one price trajectory plus its observation schedule. Prices[0] is
// the initial level; Obs holds strictly increasing indices into Prices, the
// last of which is the maturity observation.
type Path struct {
	Prices []float64
	Obs    []int
}

// Outcome records how one path settled. Produced once, never mutated.
type Outcome struct {
	State         domain.PathState
	Class         domain.OutcomeClass
	CallObs       int     // 1-based observation index when called, 0 otherwise
	Coupons       int     // coupon periods paid, memory catch-ups included
	CouponPaid    float64 // total coupon amount as a fraction of notional
	Principal     float64 // principal fraction recovered, always within [0, 1]
	Breached      bool    // downside barrier breached per the monitoring style
	TerminalLevel float64 // terminal price relative to the initial level
	Payoff        float64 // settlement amount per 100 notional
	PayTime       float64 // contractual years from launch to settlement
	CouponAtObs   []bool  // per-observation coupon eligibility while alive
}

// Evaluate replays the observation schedule against one path and returns the
// terminal outcome. The contract stays alive until it is called or the final
// observation is reached; a called contract is never exposed to the downside
// leg.
func Evaluate(p Path, spec domain.ContractSpec) (Outcome, error) {
	perYear, err := spec.Frequency.ObservationsPerYear()
	if err != nil {
		return Outcome{}, err
	}
	if len(p.Obs) == 0 {
		return Outcome{}, fmt.Errorf("empty observation schedule")
	}
	last := p.Obs[len(p.Obs)-1]
	if last >= len(p.Prices) {
		return Outcome{}, fmt.Errorf("observation index %d outside path of length %d", last, len(p.Prices))
	}

	initial := math.Max(1e-12, p.Prices[0])
	couponPerPeriod := spec.AnnualCoupon / float64(perYear)

	out := Outcome{
		State:       domain.StateAlive,
		CouponAtObs: make([]bool, len(p.Obs)),
	}
	missed := 0

	for j, step := range p.Obs {
		level := p.Prices[step] / initial

		// Coupon test, only while alive.
		if level >= spec.CouponBarrier {
			out.CouponPaid += float64(missed+1) * couponPerPeriod
			out.Coupons += missed + 1
			out.CouponAtObs[j] = true
			missed = 0
		} else if spec.Memory {
			missed++
		}
		// Without the memory feature the missed coupon is forfeited.

		// Autocall test: called contracts stop here, no further observations.
		if level >= spec.AutocallBarrier {
			out.State = domain.StateCalled
			out.CallObs = j + 1
			break
		}
	}

	if out.State == domain.StateCalled {
		out.Class = domain.OutcomeAutocall
		out.Principal = 1.0
		out.Payoff = 100 * (1 + out.CouponPaid)
		out.PayTime = float64(out.CallObs) / float64(perYear)
		out.TerminalLevel = p.Prices[p.Obs[out.CallObs-1]] / initial
		return out, nil
	}

	// Reached maturity: a single downside-barrier test decides the payoff leg.
	out.State = domain.StateReachedMaturity
	out.TerminalLevel = p.Prices[last] / initial
	out.PayTime = spec.MaturityYears

	switch spec.DownsideStyle {
	case domain.StyleAmerican:
		low := math.Inf(1)
		for _, price := range p.Prices[:last+1] {
			if price < low {
				low = price
			}
		}
		out.Breached = low/initial < spec.DownsideBarrier
	case domain.StyleEuropean:
		out.Breached = out.TerminalLevel < spec.DownsideBarrier
	default:
		return Outcome{}, fmt.Errorf("unknown barrier style %q", string(spec.DownsideStyle))
	}

	noBreach := 100 * (1 + out.CouponPaid)
	if !out.Breached {
		out.Principal = 1.0
		out.Payoff = noBreach
		out.Class = domain.OutcomeCapitalRedemption
		return out, nil
	}

	// Loss leg: proportional to the terminal shortfall against the strike,
	// capped at par so the downside feature can only ever reduce the payoff.
	out.Principal = math.Min(1.0, out.TerminalLevel/spec.DownsideStrike)
	lossLeg := 100 * out.Principal
	out.Payoff = math.Min(noBreach, lossLeg)
	if out.Principal < 1.0 {
		out.Class = domain.OutcomeCapitalLoss
	} else {
		out.Class = domain.OutcomeCapitalRedemption
	}
	return out, nil
}
