package stats

import (
	"fmt"

	"gonum.org/v1/gonum/stat/distuv"
)

type LjungBoxResult struct {
	Statistic float64 `json:"statistic"`
	PValue    float64 `json:"p_value"`
	Lags      int     `json:"lags"`
	DOF       int     `json:"degrees_of_freedom"`
}

// LjungBox tests the joint hypothesis that the first lags autocorrelations of x are zero.
// fitDOF is the number of estimated model parameters removed from the degrees of freedom.
func LjungBox(x []float64, lags, fitDOF int) (*LjungBoxResult, error) {
	if lags < 1 {
		return nil, fmt.Errorf("got %d lags, %w", lags, ErrInvalidLag)
	}
	acf, err := ACF(x, lags)
	if err != nil {
		return nil, err
	}
	lags = len(acf) - 1
	if lags < 1 {
		return nil, fmt.Errorf("need at least 2 points, %w", ErrNoData)
	}

	n := float64(len(x))
	var q float64
	for k := 1; k <= lags; k++ {
		q += acf[k] * acf[k] / (n - float64(k))
	}
	q *= n * (n + 2)

	dof := max(lags-fitDOF, 1)
	chi2 := distuv.ChiSquared{K: float64(dof)}

	return &LjungBoxResult{
		Statistic: q,
		PValue:    chi2.Survival(q),
		Lags:      lags,
		DOF:       dof,
	}, nil
}
