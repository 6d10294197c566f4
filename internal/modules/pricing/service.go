package pricing

import (
	"context"
	"fmt"
	"math"
	"runtime"
	"sync"

	"github.com/rs/zerolog"

	"github.com/aristath/autocall/internal/domain"
	"github.com/aristath/autocall/internal/payoff"
	"github.com/aristath/autocall/internal/schedule"
	"github.com/aristath/autocall/internal/simulation"
	"github.com/aristath/autocall/pkg/formulas"
)

// chunkSize is the number of paths a worker claims at a time. Cancellation is
// honored between chunks, never inside one.
const chunkSize = 512

// Service prices autocallable notes by Monte Carlo simulation.
type Service struct {
	log     zerolog.Logger
	workers int
}

// NewService creates a pricing service with one worker per CPU.
func NewService(log zerolog.Logger) *Service {
	return &Service{
		log:     log.With().Str("component", "pricing").Logger(),
		workers: runtime.NumCPU(),
	}
}

// Price runs a full Monte Carlo valuation: simulate the ensemble from a
// single seeded generator, evaluate every path through the payoff state
// machine in parallel, and reduce into a discounted present value with a 95%
// confidence interval. Results are bit-identical for identical inputs and
// seed, regardless of worker count: each path writes its own slot and the
// reduction runs in path order.
func (s *Service) Price(ctx context.Context, spec domain.ContractSpec, mkt domain.MarketState, params RunParams) (*Result, error) {
	if params.NPaths <= 0 {
		return nil, fmt.Errorf("path count must be positive, got %d", params.NPaths)
	}
	if params.StepsPerYear <= 0 {
		return nil, fmt.Errorf("steps per year must be positive, got %d", params.StepsPerYear)
	}

	obsSteps, err := schedule.Grid(spec.MaturityYears, params.StepsPerYear, spec.Frequency)
	if err != nil {
		return nil, fmt.Errorf("building observation schedule: %w", err)
	}
	perYear, err := spec.Frequency.ObservationsPerYear()
	if err != nil {
		return nil, err
	}

	ensemble, err := simulation.Generate(mkt, simulation.Config{
		NPaths:        params.NPaths,
		StepsPerYear:  params.StepsPerYear,
		MaturityYears: spec.MaturityYears,
		Seed:          params.Seed,
	})
	if err != nil {
		return nil, fmt.Errorf("simulating paths: %w", err)
	}

	outcomes, err := s.evaluateAll(ctx, ensemble, obsSteps, spec)
	if err != nil {
		return nil, err
	}

	return s.reduce(outcomes, obsSteps, spec, mkt, params, perYear), nil
}

// evaluateAll fans the ensemble out over a bounded worker pool. Path
// evaluation is pure, so workers share nothing but the read-only ensemble.
func (s *Service) evaluateAll(ctx context.Context, ensemble *simulation.Ensemble, obsSteps []int, spec domain.ContractSpec) ([]payoff.Outcome, error) {
	n := len(ensemble.Paths)
	outcomes := make([]payoff.Outcome, n)

	next := make(chan int)
	go func() {
		defer close(next)
		for start := 0; start < n; start += chunkSize {
			select {
			case next <- start:
			case <-ctx.Done():
				return
			}
		}
	}()

	var wg sync.WaitGroup
	var mu sync.Mutex
	var firstErr error

	for w := 0; w < s.workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for start := range next {
				end := start + chunkSize
				if end > n {
					end = n
				}
				for i := start; i < end; i++ {
					out, err := payoff.Evaluate(payoff.Path{Prices: ensemble.Paths[i], Obs: obsSteps}, spec)
					if err != nil {
						mu.Lock()
						if firstErr == nil {
							firstErr = fmt.Errorf("evaluating path %d: %w", i, err)
						}
						mu.Unlock()
						return
					}
					outcomes[i] = out
				}
			}
		}()
	}
	wg.Wait()

	if firstErr != nil {
		return nil, firstErr
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return outcomes, nil
}

// reduce folds per-path outcomes into the present value and diagnostics.
// The fold is commutative, but running it in path order keeps runs with the
// same seed bit-identical.
func (s *Service) reduce(outcomes []payoff.Outcome, obsSteps []int, spec domain.ContractSpec, mkt domain.MarketState, params RunParams, perYear int) *Result {
	n := len(outcomes)
	nObs := len(obsSteps)

	pvContribs := make([]float64, n)
	payTimes := make([]float64, n)
	callCounts := make([]int, nObs)
	aliveCounts := make([]int, nObs)
	couponHits := make([]int, nObs)
	matured := 0
	losses := 0

	for i, out := range outcomes {
		pvContribs[i] = out.Payoff * math.Exp(-mkt.Rate*out.PayTime)
		payTimes[i] = out.PayTime
		if out.State == domain.StateReachedMaturity {
			matured++
		}
		if out.Payoff < 100 {
			losses++
		}
		for j := 0; j < nObs; j++ {
			aliveBefore := out.CallObs == 0 || out.CallObs > j
			if aliveBefore {
				aliveCounts[j]++
				if out.CouponAtObs[j] {
					couponHits[j]++
				}
			}
		}
		if out.CallObs > 0 {
			callCounts[out.CallObs-1]++
		}
	}

	pv := formulas.Mean(pvContribs)
	halfWidth := formulas.ConfidenceHalfWidth95(pvContribs)
	expectedDuration := formulas.Mean(payTimes)

	callProbs := make([]float64, nObs)
	couponProbs := make([]float64, nObs)
	for j := 0; j < nObs; j++ {
		callProbs[j] = float64(callCounts[j]) / float64(n)
		// Conditioned on survival: paths already called before this
		// observation are excluded from the denominator.
		if aliveCounts[j] > 0 {
			couponProbs[j] = float64(couponHits[j]) / float64(aliveCounts[j])
		}
	}

	s.log.Debug().
		Int("n_paths", n).
		Float64("pv", pv).
		Float64("ci95_half_width", halfWidth).
		Msg("Pricing run complete")

	return &Result{
		PV:           pv,
		NPaths:       params.NPaths,
		StepsPerYear: params.StepsPerYear,
		Seed:         params.Seed,
		Diagnostics: Diagnostics{
			CallProbPerObs:    callProbs,
			CouponProbPerObs:  couponProbs,
			ProbMaturity:      float64(matured) / float64(n),
			ProbCapitalLoss:   float64(losses) / float64(n),
			ExpectedDuration:  expectedDuration,
			CI95Low:           pv - halfWidth,
			CI95High:          pv + halfWidth,
			ForwardAtMaturity: mkt.Spot * math.Exp((mkt.Rate-mkt.DividendYield)*spec.MaturityYears),
			EquivalentZCB:     100 * math.Exp(-mkt.Rate*expectedDuration),
		},
	}
}

// BuildTermsheet derives the absolute contract terms for a given spot.
func (s *Service) BuildTermsheet(spec domain.ContractSpec, spot float64) (*Termsheet, error) {
	perYear, err := spec.Frequency.ObservationsPerYear()
	if err != nil {
		return nil, err
	}
	count, err := spec.ObservationCount()
	if err != nil {
		return nil, err
	}

	years := make([]float64, count)
	for k := 1; k <= count; k++ {
		years[k-1] = float64(k) / float64(perYear)
	}

	return &Termsheet{
		Underlying:        spec.Underlying,
		MaturityYears:     spec.MaturityYears,
		Frequency:         spec.Frequency,
		ObservationCount:  count,
		ObservationYears:  years,
		CouponPerPeriod:   spec.AnnualCoupon / float64(perYear),
		Memory:            spec.Memory,
		DownsideStyle:     spec.DownsideStyle,
		AutocallLevel:     spec.AutocallBarrier * spot,
		CouponLevel:       spec.CouponBarrier * spot,
		DownsideLevel:     spec.DownsideBarrier * spot,
		DownsideStrikeAbs: spec.DownsideStrike * spot,
	}, nil
}
