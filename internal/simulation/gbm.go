// Package simulation generates lognormal price path ensembles for the
// Monte Carlo pricer.
package simulation

import (
	"fmt"
	"math"
	"time"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/aristath/autocall/internal/domain"
)

// minSpot floors the spot before taking logarithms so degenerate inputs
// cannot produce -Inf.
const minSpot = 1e-12

// Config holds the simulation grid parameters.
type Config struct {
	NPaths        int
	StepsPerYear  int
	MaturityYears float64
	// Seed makes the ensemble fully reproducible. A nil seed draws from the
	// wall clock and is documented as non-reproducible.
	Seed *uint64
}

// Ensemble is a dense set of simulated paths sharing one time grid.
// Paths[i] has NSteps+1 strictly positive prices, Paths[i][0] = spot.
type Ensemble struct {
	Paths  [][]float64
	NSteps int
	Dt     float64
}

// Generate simulates cfg.NPaths independent GBM trajectories under the
// discretized lognormal process: log-price increments are independent normal
// draws with mean (r - q - sigma^2/2)*dt and standard deviation sigma*sqrt(dt),
// accumulated from log(spot).
//
// All draws come from a single generator instance owned by this run, never
// from global state, so concurrent runs with different seeds stay isolated.
func Generate(mkt domain.MarketState, cfg Config) (*Ensemble, error) {
	if cfg.NPaths <= 0 {
		return nil, fmt.Errorf("path count must be positive, got %d", cfg.NPaths)
	}
	if cfg.StepsPerYear <= 0 {
		return nil, fmt.Errorf("steps per year must be positive, got %d", cfg.StepsPerYear)
	}
	if cfg.MaturityYears <= 0 {
		return nil, fmt.Errorf("maturity must be positive, got %v", cfg.MaturityYears)
	}

	nSteps := int(math.Round(cfg.MaturityYears * float64(cfg.StepsPerYear)))
	if nSteps < 1 {
		nSteps = 1
	}
	dt := cfg.MaturityYears / float64(nSteps)

	seed := uint64(time.Now().UnixNano())
	if cfg.Seed != nil {
		seed = *cfg.Seed
	}
	normal := distuv.Normal{Mu: 0, Sigma: 1, Src: rand.NewSource(seed)}

	drift := (mkt.Rate - mkt.DividendYield - 0.5*mkt.Volatility*mkt.Volatility) * dt
	diffusion := mkt.Volatility * math.Sqrt(dt)
	x0 := math.Log(math.Max(minSpot, mkt.Spot))

	paths := make([][]float64, cfg.NPaths)
	for i := range paths {
		path := make([]float64, nSteps+1)
		x := x0
		path[0] = math.Exp(x)
		for j := 1; j <= nSteps; j++ {
			x += drift + diffusion*normal.Rand()
			path[j] = math.Exp(x)
		}
		paths[i] = path
	}

	return &Ensemble{Paths: paths, NSteps: nSteps, Dt: dt}, nil
}
