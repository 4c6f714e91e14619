package stats

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// Histogram holds bin edges and the density normalized height of each bin so the bars
// integrate to one
type Histogram struct {
	Edges   []float64 `json:"edges"`
	Density []float64 `json:"density"`
}

// Curve is a function sampled on a grid
type Curve struct {
	X []float64 `json:"x"`
	Y []float64 `json:"y"`
}

func sorted(x []float64) []float64 {
	s := make([]float64, len(x))
	copy(s, x)
	sort.Float64s(s)
	return s
}

// bounds returns the range of x, widened when every value is the same
func bounds(s []float64) (float64, float64) {
	lo, hi := s[0], s[len(s)-1]
	if lo == hi {
		lo -= 0.5
		hi += 0.5
	}
	return lo, hi
}

// NewHistogram bins x into the requested number of equal width bins
func NewHistogram(x []float64, bins int) (*Histogram, error) {
	if len(x) == 0 {
		return nil, ErrNoData
	}
	if bins <= 0 {
		return nil, fmt.Errorf("got %d bins, %w", bins, ErrInvalidBins)
	}
	s := sorted(x)
	lo, hi := bounds(s)

	edges := make([]float64, bins+1)
	floats.Span(edges, lo, hi)

	// stat.Histogram bins are half open so the maximum has to land inside the last bin
	dividers := make([]float64, len(edges))
	copy(dividers, edges)
	dividers[bins] = math.Nextafter(hi, math.Inf(1))

	counts := stat.Histogram(nil, dividers, s, nil)

	n := float64(len(s))
	density := make([]float64, bins)
	for i, c := range counts {
		density[i] = c / (n * (edges[i+1] - edges[i]))
	}
	return &Histogram{
		Edges:   edges,
		Density: density,
	}, nil
}

// Bandwidth returns the normal reference rule of thumb bandwidth for a gaussian kernel,
// 1.06 * min(std, iqr/1.349) * n^(-1/5)
func Bandwidth(x []float64) float64 {
	if len(x) < 2 {
		return 1.0
	}
	s := sorted(x)
	std := stat.StdDev(s, nil)
	iqr := stat.Quantile(0.75, stat.Empirical, s, nil) - stat.Quantile(0.25, stat.Empirical, s, nil)

	a := std
	if iqr > 0 {
		a = math.Min(std, iqr/1.349)
	}
	if a == 0 || math.IsNaN(a) {
		return 1.0
	}
	return 1.06 * a * math.Pow(float64(len(s)), -0.2)
}

// Grid returns n evenly spaced points covering [lo, hi]
func Grid(lo, hi float64, n int) []float64 {
	if n < 2 {
		return []float64{lo}
	}
	g := make([]float64, n)
	return floats.Span(g, lo, hi)
}

// KDE evaluates a gaussian kernel density estimate of x at each grid point
func KDE(x, grid []float64) (*Curve, error) {
	if len(x) == 0 {
		return nil, ErrNoData
	}
	h := Bandwidth(x)
	n := float64(len(x))

	y := make([]float64, len(grid))
	for i, g := range grid {
		var sum float64
		for _, v := range x {
			sum += distuv.UnitNormal.Prob((g - v) / h)
		}
		y[i] = sum / (n * h)
	}

	xs := make([]float64, len(grid))
	copy(xs, grid)
	return &Curve{X: xs, Y: y}, nil
}

// NormalDensity evaluates the standard normal density at each grid point
func NormalDensity(grid []float64) *Curve {
	xs := make([]float64, len(grid))
	copy(xs, grid)
	y := make([]float64, len(grid))
	for i, g := range grid {
		y[i] = distuv.UnitNormal.Prob(g)
	}
	return &Curve{X: xs, Y: y}
}
