package simulation

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aristath/autocall/internal/domain"
)

func testMarket() domain.MarketState {
	return domain.MarketState{Spot: 100, Rate: 0.02, DividendYield: 0.0, Volatility: 0.20}
}

func seed(v uint64) *uint64 { return &v }

func TestGenerate_Dimensions(t *testing.T) {
	ens, err := Generate(testMarket(), Config{NPaths: 10, StepsPerYear: 12, MaturityYears: 1, Seed: seed(1)})
	require.NoError(t, err)

	assert.Equal(t, 12, ens.NSteps)
	assert.InDelta(t, 1.0/12.0, ens.Dt, 1e-12)
	require.Len(t, ens.Paths, 10)
	for _, path := range ens.Paths {
		require.Len(t, path, 13)
		assert.Equal(t, 100.0, path[0])
		for _, price := range path {
			assert.Greater(t, price, 0.0)
		}
	}
}

func TestGenerate_FractionalMaturityRoundsSteps(t *testing.T) {
	ens, err := Generate(testMarket(), Config{NPaths: 1, StepsPerYear: 252, MaturityYears: 2.5, Seed: seed(1)})
	require.NoError(t, err)
	assert.Equal(t, 630, ens.NSteps)
}

func TestGenerate_SeedReproducibility(t *testing.T) {
	cfg := Config{NPaths: 50, StepsPerYear: 52, MaturityYears: 2, Seed: seed(42)}

	a, err := Generate(testMarket(), cfg)
	require.NoError(t, err)
	b, err := Generate(testMarket(), cfg)
	require.NoError(t, err)

	assert.Equal(t, a.Paths, b.Paths, "identical seeds must produce identical ensembles")

	cfg.Seed = seed(43)
	c, err := Generate(testMarket(), cfg)
	require.NoError(t, err)
	assert.NotEqual(t, a.Paths, c.Paths, "different seeds must diverge")
}

func TestGenerate_DriftMatchesLognormalModel(t *testing.T) {
	mkt := testMarket()
	ens, err := Generate(mkt, Config{NPaths: 20000, StepsPerYear: 12, MaturityYears: 1, Seed: seed(7)})
	require.NoError(t, err)

	// E[log(S_T/S_0)] = (r - q - sigma^2/2) T
	sum := 0.0
	for _, path := range ens.Paths {
		sum += math.Log(path[len(path)-1] / path[0])
	}
	mean := sum / float64(len(ens.Paths))
	want := mkt.Rate - mkt.DividendYield - 0.5*mkt.Volatility*mkt.Volatility
	assert.InDelta(t, want, mean, 0.005)
}

func TestGenerate_GuardsDegenerateSpot(t *testing.T) {
	mkt := testMarket()
	mkt.Spot = 0

	ens, err := Generate(mkt, Config{NPaths: 2, StepsPerYear: 12, MaturityYears: 1, Seed: seed(1)})
	require.NoError(t, err)
	for _, path := range ens.Paths {
		for _, price := range path {
			assert.False(t, math.IsNaN(price))
			assert.False(t, math.IsInf(price, 0))
			assert.Greater(t, price, 0.0)
		}
	}
}

func TestGenerate_InvalidConfig(t *testing.T) {
	_, err := Generate(testMarket(), Config{NPaths: 0, StepsPerYear: 12, MaturityYears: 1})
	assert.Error(t, err)
	_, err = Generate(testMarket(), Config{NPaths: 1, StepsPerYear: 0, MaturityYears: 1})
	assert.Error(t, err)
	_, err = Generate(testMarket(), Config{NPaths: 1, StepsPerYear: 12, MaturityYears: 0})
	assert.Error(t, err)
}
