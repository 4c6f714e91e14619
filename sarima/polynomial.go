package sarima

import (
	"math/cmplx"

	"gonum.org/v1/gonum/mat"
)

// unitRootTol treats eigenvalues within this distance of the unit circle as unit roots
const unitRootTol = 1e-8

// Lag polynomials are stored in operator form where index i is the coefficient of B^i and
// index 0 is always 1.

func polyMul(a, b []float64) []float64 {
	if len(a) == 0 || len(b) == 0 {
		return nil
	}
	out := make([]float64, len(a)+len(b)-1)
	for i, av := range a {
		if av == 0 {
			continue
		}
		for j, bv := range b {
			out[i+j] += av * bv
		}
	}
	return out
}

// lagPolynomial builds 1 + sign*(c_1 B^lag + c_2 B^(2 lag) + ...). Autoregressive operators
// use sign -1 and moving average operators use sign +1.
func lagPolynomial(coef []float64, lag int, sign float64) []float64 {
	if len(coef) == 0 || lag < 1 {
		return []float64{1}
	}
	out := make([]float64, len(coef)*lag+1)
	out[0] = 1
	for i, c := range coef {
		out[(i+1)*lag] = sign * c
	}
	return out
}

// diffPolynomial builds (1-B)^d (1-B^s)^D
func diffPolynomial(d, seasonalD, period int) []float64 {
	out := []float64{1}
	for range d {
		out = polyMul(out, []float64{1, -1})
	}
	if period < 1 {
		return out
	}
	seasonal := make([]float64, period+1)
	seasonal[0] = 1
	seasonal[period] = -1
	for range seasonalD {
		out = polyMul(out, seasonal)
	}
	return out
}

// difference applies the operator poly to y. The first len(poly)-1 points have no full history
// and are dropped.
func difference(y, poly []float64) []float64 {
	start := len(poly) - 1
	if len(y) <= start {
		return nil
	}
	out := make([]float64, 0, len(y)-start)
	for t := start; t < len(y); t++ {
		var v float64
		for i, c := range poly {
			v += c * y[t-i]
		}
		out = append(out, v)
	}
	return out
}

// trim removes trailing zero coefficients
func trim(poly []float64) []float64 {
	n := len(poly)
	for n > 1 && poly[n-1] == 0 {
		n--
	}
	return poly[:n]
}

// isStable reports whether every root of the operator polynomial lies strictly outside the unit
// circle. The roots of 1 + c_1 z + ... + c_n z^n are the reciprocals of the eigenvalues of the
// companion matrix of z^n + c_1 z^(n-1) + ... + c_n.
func isStable(poly []float64) bool {
	poly = trim(poly)
	n := len(poly) - 1
	if n < 1 {
		return true
	}

	companion := mat.NewDense(n, n, nil)
	for j := range n {
		companion.Set(0, j, -poly[j+1])
	}
	for i := 1; i < n; i++ {
		companion.Set(i, i-1, 1)
	}

	var eig mat.Eigen
	if ok := eig.Factorize(companion, mat.EigenNone); !ok {
		return false
	}
	for _, v := range eig.Values(nil) {
		if cmplx.Abs(v) >= 1-unitRootTol {
			return false
		}
	}
	return true
}
