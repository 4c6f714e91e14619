package sarima

import (
	"math"
	"slices"
)

const (
	// maxUnconstrained caps search coordinates. tanh of the cap rounds to exactly 1, so the
	// unit circle is reachable but never crossed.
	maxUnconstrained = 20.0

	// maxInitialPartial keeps starting partial autocorrelations off the boundary
	maxInitialPartial = 0.99
)

// constrainStable maps unconstrained values onto the coefficients of 1 - c_1 B - ... - c_n B^n
// by treating tanh(z_k) as the k-th partial autocorrelation and running the Durbin-Levinson
// recursion. Any input yields roots on or outside the unit circle.
func constrainStable(z []float64) []float64 {
	c := make([]float64, len(z))
	prev := make([]float64, len(z))
	for k := range z {
		r := math.Tanh(max(-maxUnconstrained, min(z[k], maxUnconstrained)))
		copy(prev, c[:k])
		for i := range k {
			c[i] = prev[i] - r*prev[k-1-i]
		}
		c[k] = r
	}
	return c
}

// unconstrainStable inverts constrainStable. Partial autocorrelations outside
// maxInitialPartial are clamped.
func unconstrainStable(c []float64) []float64 {
	cur := slices.Clone(c)
	z := make([]float64, len(c))
	for k := len(c) - 1; k >= 0; k-- {
		r := max(-maxInitialPartial, min(cur[k], maxInitialPartial))
		z[k] = math.Atanh(r)
		prev := make([]float64, k)
		for i := range k {
			prev[i] = (cur[i] + r*cur[k-1-i]) / (1 - r*r)
		}
		cur = prev
	}
	return z
}

func negate(x []float64) []float64 {
	out := make([]float64, len(x))
	for i, v := range x {
		out[i] = -v
	}
	return out
}

// constrain maps a point of the search space onto model parameters. Moving average operators
// use the opposite sign convention so their coefficients are negated.
func (s structure) constrain(z []float64) []float64 {
	zar, zsar, zma, zsma := s.split(z)
	params := make([]float64, 0, len(z))
	params = append(params, constrainStable(zar)...)
	params = append(params, constrainStable(zsar)...)
	params = append(params, negate(constrainStable(zma))...)
	params = append(params, negate(constrainStable(zsma))...)
	return params
}

// unconstrain maps model parameters onto the search space
func (s structure) unconstrain(params []float64) []float64 {
	ar, sar, ma, sma := s.split(params)
	z := make([]float64, 0, len(params))
	z = append(z, unconstrainStable(ar)...)
	z = append(z, unconstrainStable(sar)...)
	z = append(z, unconstrainStable(negate(ma))...)
	z = append(z, unconstrainStable(negate(sma))...)
	return z
}
