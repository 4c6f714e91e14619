package forecaster

import (
	"time"

	"github.com/aouyang1/go-sales-forecaster/diagnostics"
	"github.com/aouyang1/go-sales-forecaster/sarima"
	"github.com/aouyang1/go-sales-forecaster/timedataset"
)

// Results are the out of sample forecast values along with the confidence interval bounds
type Results struct {
	T          []time.Time `json:"time"`
	Forecast   []float64   `json:"forecast"`
	Upper      []float64   `json:"upper"`
	Lower      []float64   `json:"lower"`
	Confidence float64     `json:"confidence"`
}

func newResults(f *sarima.Forecast) *Results {
	return &Results{
		T:          f.T,
		Forecast:   f.Point,
		Upper:      f.Upper,
		Lower:      f.Lower,
		Confidence: f.Confidence,
	}
}

// ForecastReport pairs the training series with the forecast that continues it
type ForecastReport struct {
	Series  *timedataset.TimeDataset `json:"series"`
	Summary sarima.Summary           `json:"summary"`
	Results *Results                 `json:"results"`
}

// DiagnosticsReport holds the residual diagnostics of the fitted model
type DiagnosticsReport struct {
	Summary     sarima.Summary      `json:"summary"`
	Diagnostics *diagnostics.Result `json:"diagnostics"`
}
