package backtest

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/aristath/autocall/internal/domain"
	"github.com/aristath/autocall/internal/payoff"
	"github.com/aristath/autocall/internal/schedule"
	"github.com/aristath/autocall/internal/series"
	"github.com/aristath/autocall/pkg/formulas"
)

// daysPerYear converts calendar day counts into year fractions.
const daysPerYear = 365.25

// Service runs historical backtests of the contract logic.
type Service struct {
	log zerolog.Logger
}

// NewService creates a backtest service.
func NewService(log zerolog.Logger) *Service {
	return &Service{log: log.With().Str("component", "backtest").Logger()}
}

// Run evaluates the contract against every feasible historical launch date
// and aggregates the outcomes. The same payoff state machine used by the
// Monte Carlo pricer replays each launch, with the launch-date price as the
// path's initial level.
func (s *Service) Run(ctx context.Context, prices *series.Series, lookbackYears int, cadence domain.LaunchFrequency, spec domain.ContractSpec) (*Result, error) {
	launches, err := GenerateLaunchDates(prices, lookbackYears, cadence, spec.MaturityYears)
	if err != nil {
		return nil, fmt.Errorf("generating launch dates: %w", err)
	}

	records := make([]Record, 0, len(launches))
	for _, launchIdx := range launches {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		rec, err := s.evaluateLaunch(prices, launchIdx, spec)
		if err != nil {
			if errors.Is(err, schedule.ErrInfeasible) {
				continue
			}
			return nil, err
		}
		records = append(records, rec)
	}

	s.log.Debug().
		Int("launches", len(launches)).
		Int("records", len(records)).
		Msg("Backtest complete")

	return &Result{Records: records, Summary: summarize(records)}, nil
}

// evaluateLaunch slices the series at one launch, builds its calendar
// schedule and replays the state machine.
func (s *Service) evaluateLaunch(prices *series.Series, launchIdx int, spec domain.ContractSpec) (Record, error) {
	sub := prices.Slice(launchIdx, prices.Len()-1)
	obs, err := schedule.Calendar(sub, spec.MaturityYears, spec.Frequency)
	if err != nil {
		return Record{}, err
	}
	lastObs := obs[len(obs)-1]

	out, err := payoff.Evaluate(payoff.Path{Prices: sub.Closes()[:lastObs+1], Obs: obs}, spec)
	if err != nil {
		return Record{}, err
	}

	launch := sub.Date(0)
	end := sub.Date(lastObs)
	if out.State == domain.StateCalled {
		end = sub.Date(obs[out.CallObs-1])
	}

	days := int(end.Sub(launch).Hours() / 24)
	if days < 1 {
		days = 1
	}
	totalReturn := out.Principal - 1 + out.CouponPaid

	return Record{
		Launch:           launch,
		End:              end,
		Called:           out.State == domain.StateCalled,
		CallObs:          out.CallObs,
		ObsCount:         len(obs),
		Coupons:          out.Coupons,
		CouponPaid:       out.CouponPaid,
		Principal:        out.Principal,
		Class:            out.Class,
		TotalReturn:      totalReturn,
		AnnualizedReturn: totalReturn * daysPerYear / float64(days),
		DurationDays:     days,
	}, nil
}

// summarize folds launch records into aggregate rates and averages.
// Zero records yield the explicit empty summary.
func summarize(records []Record) Summary {
	n := len(records)
	if n == 0 {
		return Summary{}
	}

	var called, redeemed, lost int
	coupons := make([]float64, n)
	totals := make([]float64, n)
	annualized := make([]float64, n)
	durations := make([]float64, n)

	for i, rec := range records {
		switch rec.Class {
		case domain.OutcomeAutocall:
			called++
		case domain.OutcomeCapitalRedemption:
			redeemed++
		case domain.OutcomeCapitalLoss:
			lost++
		}
		coupons[i] = float64(rec.Coupons)
		totals[i] = rec.TotalReturn
		annualized[i] = rec.AnnualizedReturn
		durations[i] = float64(rec.DurationDays) / daysPerYear
	}

	return Summary{
		Count:               n,
		AutocallRate:        float64(called) / float64(n),
		RedemptionRate:      float64(redeemed) / float64(n),
		LossRate:            float64(lost) / float64(n),
		AvgCoupons:          formulas.Mean(coupons),
		AvgTotalReturn:      formulas.Mean(totals),
		AvgAnnualizedReturn: formulas.Mean(annualized),
		AvgDurationYears:    formulas.Mean(durations),
	}
}
