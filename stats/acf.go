package stats

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// ACF computes the sample autocorrelation of x for lags 0 through maxLag. maxLag is capped at
// len(x)-1.
func ACF(x []float64, maxLag int) ([]float64, error) {
	n := len(x)
	if n == 0 {
		return nil, ErrNoData
	}
	if maxLag < 0 {
		return nil, fmt.Errorf("got %d, %w", maxLag, ErrInvalidLag)
	}
	maxLag = min(maxLag, n-1)

	mean := stat.Mean(x, nil)
	centered := make([]float64, n)
	floats.AddConst(-mean, floats.AddTo(centered, centered, x))

	denom := floats.Dot(centered, centered)
	if denom == 0 || math.IsNaN(denom) {
		return nil, ErrConstantSeries
	}

	acf := make([]float64, maxLag+1)
	for k := 0; k <= maxLag; k++ {
		acf[k] = floats.Dot(centered[k:], centered[:n-k]) / denom
	}
	return acf, nil
}

// ConfidenceBound returns the symmetric bound z/sqrt(n) an uncorrelated series stays within
// at the given confidence level
func ConfidenceBound(n int, confidence float64) float64 {
	if n <= 0 {
		return math.NaN()
	}
	z := distuv.UnitNormal.Quantile(1.0 - (1.0-confidence)/2.0)
	return z / math.Sqrt(float64(n))
}
