package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validSpec() ContractSpec {
	return ContractSpec{
		MaturityYears:   5,
		Frequency:       FreqAnnual,
		AutocallBarrier: 1.10,
		CouponBarrier:   1.00,
		DownsideBarrier: 0.70,
		DownsideStrike:  1.00,
		DownsideStyle:   StyleAmerican,
		AnnualCoupon:    0.07,
		Memory:          true,
	}
}

func TestContractSpec_Validate(t *testing.T) {
	assert.NoError(t, validSpec().Validate())

	tests := []struct {
		name   string
		mutate func(*ContractSpec)
	}{
		{"zero maturity", func(c *ContractSpec) { c.MaturityYears = 0 }},
		{"negative maturity", func(c *ContractSpec) { c.MaturityYears = -1 }},
		{"unknown frequency", func(c *ContractSpec) { c.Frequency = "fortnightly" }},
		{"unknown style", func(c *ContractSpec) { c.DownsideStyle = "bermudan" }},
		{"barrier above 300%", func(c *ContractSpec) { c.AutocallBarrier = 3.5 }},
		{"negative barrier", func(c *ContractSpec) { c.CouponBarrier = -0.1 }},
		{"zero strike", func(c *ContractSpec) { c.DownsideStrike = 0 }},
		{"coupon above 100%", func(c *ContractSpec) { c.AnnualCoupon = 1.5 }},
		{"negative coupon", func(c *ContractSpec) { c.AnnualCoupon = -0.01 }},
		{"downside at autocall", func(c *ContractSpec) { c.DownsideBarrier = 1.10 }},
		{"downside above autocall", func(c *ContractSpec) { c.DownsideBarrier = 1.20 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spec := validSpec()
			tt.mutate(&spec)
			assert.Error(t, spec.Validate())
		})
	}
}

func TestFrequency_ObservationsPerYear(t *testing.T) {
	tests := []struct {
		freq Frequency
		want int
	}{
		{FreqAnnual, 1},
		{FreqSemiAnnual, 2},
		{FreqQuarterly, 4},
		{FreqMonthly, 12},
	}
	for _, tt := range tests {
		got, err := tt.freq.ObservationsPerYear()
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}

	_, err := Frequency("daily").ObservationsPerYear()
	assert.Error(t, err)
}

func TestContractSpec_ObservationCount(t *testing.T) {
	spec := validSpec()

	count, err := spec.ObservationCount()
	require.NoError(t, err)
	assert.Equal(t, 5, count)

	spec.Frequency = FreqQuarterly
	spec.MaturityYears = 1.1
	count, err = spec.ObservationCount()
	require.NoError(t, err)
	assert.Equal(t, 5, count, "ceil(1.1 * 4)")
}

func TestLaunchFrequency_Valid(t *testing.T) {
	for _, f := range []LaunchFrequency{LaunchWeekly, LaunchMonthly, LaunchQuarterly, LaunchYearly} {
		assert.NoError(t, f.Valid())
	}
	assert.Error(t, LaunchFrequency("daily").Valid())
}
