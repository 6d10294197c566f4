package backtest

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aristath/autocall/internal/domain"
	"github.com/aristath/autocall/internal/series"
)

func backtestSpec() domain.ContractSpec {
	return domain.ContractSpec{
		MaturityYears:   3,
		Frequency:       domain.FreqAnnual,
		AutocallBarrier: 1.05,
		CouponBarrier:   1.00,
		DownsideBarrier: 0.70,
		DownsideStrike:  1.00,
		DownsideStyle:   domain.StyleAmerican,
		AnnualCoupon:    0.07,
		Memory:          true,
	}
}

// calendarSeries builds a daily series starting at start where the price
// follows an annualized growth rate.
func calendarSeries(t *testing.T, start time.Time, days int, annualGrowth float64) *series.Series {
	t.Helper()
	points := make([]series.Point, days)
	for i := range points {
		points[i] = series.Point{
			Date:  start.AddDate(0, 0, i),
			Close: 100 * math.Pow(1+annualGrowth, float64(i)/365.0),
		}
	}
	s, err := series.New(points)
	require.NoError(t, err)
	return s
}

func newTestService() *Service {
	return NewService(zerolog.Nop())
}

func TestRun_RisingMarketAutocallsEveryLaunch(t *testing.T) {
	// 20% a year growth clears the 105% autocall barrier at the first
	// annual observation of every launch.
	start := time.Date(2014, time.January, 1, 0, 0, 0, 0, time.UTC)
	prices := calendarSeries(t, start, 2200, 0.20)

	result, err := newTestService().Run(context.Background(), prices, 10, domain.LaunchYearly, backtestSpec())
	require.NoError(t, err)

	// Dec 31 launches of 2014-2016 fit a 3 year lifetime inside the series.
	require.Len(t, result.Records, 3)
	for _, rec := range result.Records {
		assert.True(t, rec.Called)
		assert.Equal(t, 1, rec.CallObs)
		assert.Equal(t, domain.OutcomeAutocall, rec.Class)
		assert.Equal(t, 1, rec.Coupons)
		assert.InDelta(t, 0.07, rec.CouponPaid, 1e-12)
		assert.InDelta(t, 1.0, rec.Principal, 1e-12)
		assert.InDelta(t, 0.07, rec.TotalReturn, 1e-12)
		assert.Greater(t, rec.AnnualizedReturn, 0.0)
		assert.True(t, rec.End.After(rec.Launch))
		// Called after roughly one year, not at maturity.
		assert.InDelta(t, 365, rec.DurationDays, 10)
	}

	assert.Equal(t, 3, result.Summary.Count)
	assert.InDelta(t, 1.0, result.Summary.AutocallRate, 1e-12)
	assert.Zero(t, result.Summary.RedemptionRate)
	assert.Zero(t, result.Summary.LossRate)
	assert.InDelta(t, 0.07, result.Summary.AvgTotalReturn, 1e-12)
}

func TestRun_FallingMarketBreachesEuropeanBarrier(t *testing.T) {
	// 15% a year decline ends near 61% of the launch level after three
	// years, well under the 70% barrier.
	start := time.Date(2014, time.January, 1, 0, 0, 0, 0, time.UTC)
	prices := calendarSeries(t, start, 2200, -0.15)

	spec := backtestSpec()
	spec.DownsideStyle = domain.StyleEuropean

	result, err := newTestService().Run(context.Background(), prices, 10, domain.LaunchYearly, spec)
	require.NoError(t, err)

	require.Len(t, result.Records, 3)
	for _, rec := range result.Records {
		assert.False(t, rec.Called)
		assert.Equal(t, domain.OutcomeCapitalLoss, rec.Class)
		assert.Zero(t, rec.Coupons)
		assert.Zero(t, rec.CouponPaid)
		assert.Greater(t, rec.Principal, 0.55)
		assert.Less(t, rec.Principal, 0.70)
		assert.Less(t, rec.TotalReturn, 0.0)
		assert.Equal(t, rec.ObsCount, 3)
	}

	assert.InDelta(t, 1.0, result.Summary.LossRate, 1e-12)
	assert.Zero(t, result.Summary.AutocallRate)
	assert.Less(t, result.Summary.AvgTotalReturn, 0.0)
}

func TestRun_FlatMarketRedeemsWithCoupons(t *testing.T) {
	// A flat series sits exactly on the 100% coupon barrier at every
	// observation, pays all coupons and redeems at par.
	start := time.Date(2014, time.January, 1, 0, 0, 0, 0, time.UTC)
	prices := calendarSeries(t, start, 2200, 0)

	result, err := newTestService().Run(context.Background(), prices, 10, domain.LaunchYearly, backtestSpec())
	require.NoError(t, err)

	require.NotEmpty(t, result.Records)
	for _, rec := range result.Records {
		assert.False(t, rec.Called)
		assert.Equal(t, domain.OutcomeCapitalRedemption, rec.Class)
		assert.Equal(t, 3, rec.Coupons)
		assert.InDelta(t, 0.21, rec.CouponPaid, 1e-12)
		assert.InDelta(t, 1.0, rec.Principal, 1e-12)
	}
	assert.InDelta(t, 1.0, result.Summary.RedemptionRate, 1e-12)
}

func TestRun_ShortHistoryYieldsEmptyResult(t *testing.T) {
	// One year of prices cannot host a single 3 year contract.
	start := time.Date(2020, time.January, 1, 0, 0, 0, 0, time.UTC)
	prices := calendarSeries(t, start, 365, 0.05)

	result, err := newTestService().Run(context.Background(), prices, 10, domain.LaunchYearly, backtestSpec())
	require.NoError(t, err)

	assert.Empty(t, result.Records)
	assert.Equal(t, Summary{}, result.Summary)
}

func TestRun_CancelledContext(t *testing.T) {
	start := time.Date(2014, time.January, 1, 0, 0, 0, 0, time.UTC)
	prices := calendarSeries(t, start, 2200, 0.20)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newTestService().Run(ctx, prices, 10, domain.LaunchYearly, backtestSpec())
	assert.Error(t, err)
}

func TestRun_UnknownCadence(t *testing.T) {
	start := time.Date(2014, time.January, 1, 0, 0, 0, 0, time.UTC)
	prices := calendarSeries(t, start, 400, 0.05)

	_, err := newTestService().Run(context.Background(), prices, 10, domain.LaunchFrequency("daily"), backtestSpec())
	assert.Error(t, err)
}
