package sarima

import (
	"fmt"
	"math"
	"time"

	"github.com/aouyang1/go-sales-forecaster/timedataset"

	"gonum.org/v1/gonum/stat/distuv"
)

// Forecast holds the out of sample predictions and their confidence interval
type Forecast struct {
	T          []time.Time `json:"time"`
	Point      []float64   `json:"point"`
	Lower      []float64   `json:"lower"`
	Upper      []float64   `json:"upper"`
	StdErr     []float64   `json:"std_err"`
	Confidence float64     `json:"confidence"`
}

// Forecast predicts horizon steps past the last training point at the training frequency. Future
// innovations are zero so the point forecast follows the expanded autoregressive recursion and
// the interval widens with the psi weights of the model.
func (m *Model) Forecast(horizon int) (*Forecast, error) {
	if horizon < 1 {
		return nil, fmt.Errorf("got %d, %w", horizon, ErrInvalidHorizon)
	}

	y := m.td.Y
	n := len(y)
	ext := make([]float64, n+horizon)
	copy(ext, y)

	for t := n; t < n+horizon; t++ {
		var v float64
		for i := 1; i < len(m.fullAR); i++ {
			v -= m.fullAR[i] * ext[t-i]
		}
		for j := 1; j < len(m.fullMA); j++ {
			if k := t - j; k >= m.start && k < n {
				v += m.fullMA[j] * m.resid[k]
			}
		}
		ext[t] = v
	}

	psi := psiWeights(m.fullAR, m.fullMA, horizon)
	z := distuv.UnitNormal.Quantile(1.0 - (1.0-m.opt.Confidence)/2.0)

	f := &Forecast{
		T:          timedataset.TimeSlice(m.td.T).Extend(horizon, m.freq),
		Point:      make([]float64, horizon),
		Lower:      make([]float64, horizon),
		Upper:      make([]float64, horizon),
		StdErr:     make([]float64, horizon),
		Confidence: m.opt.Confidence,
	}
	var cum float64
	for h := range horizon {
		cum += psi[h] * psi[h]
		se := math.Sqrt(m.sigma2 * cum)
		point := ext[n+h]
		f.Point[h] = point
		f.StdErr[h] = se
		f.Lower[h] = point - z*se
		f.Upper[h] = point + z*se
	}
	return f, nil
}

// psiWeights returns the first n coefficients of fullMA(B) / fullAR(B)
func psiWeights(fullAR, fullMA []float64, n int) []float64 {
	psi := make([]float64, n)
	for j := range n {
		var v float64
		switch {
		case j == 0:
			v = 1
		case j < len(fullMA):
			v = fullMA[j]
		}
		for i := 1; i <= j && i < len(fullAR); i++ {
			v -= fullAR[i] * psi[j-i]
		}
		psi[j] = v
	}
	return psi
}
