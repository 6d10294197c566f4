// Package backtest evaluates the contract state machine against real
// historical price series, one launch date at a time, and aggregates the
// outcome distribution.
package backtest

import (
	"time"

	"github.com/aristath/autocall/internal/domain"
)

// Record is the outcome of one historical launch.
type Record struct {
	Launch           time.Time           `json:"launch"`
	End              time.Time           `json:"end"`
	Called           bool                `json:"called"`
	CallObs          int                 `json:"call_obs,omitempty"`
	ObsCount         int                 `json:"obs_count"`
	Coupons          int                 `json:"coupons"`
	CouponPaid       float64             `json:"coupon_paid"`
	Principal        float64             `json:"principal"`
	Class            domain.OutcomeClass `json:"outcome"`
	TotalReturn      float64             `json:"total_return"`
	AnnualizedReturn float64             `json:"annualized_return"`
	DurationDays     int                 `json:"duration_days"`
}

// Summary aggregates all launch outcomes. A backtest with no feasible
// launches yields a zero-count summary with zero-valued statistics, never
// NaN.
type Summary struct {
	Count               int     `json:"count"`
	AutocallRate        float64 `json:"autocall_rate"`
	RedemptionRate      float64 `json:"redemption_rate"`
	LossRate            float64 `json:"loss_rate"`
	AvgCoupons          float64 `json:"avg_coupons"`
	AvgTotalReturn      float64 `json:"avg_total_return"`
	AvgAnnualizedReturn float64 `json:"avg_annualized_return"`
	AvgDurationYears    float64 `json:"avg_duration_years"`
}

// Result is the full output of a backtest run.
type Result struct {
	Records []Record `json:"records"`
	Summary Summary  `json:"summary"`
}
