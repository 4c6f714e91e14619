// Package decompose splits a regularly spaced series into additive trend, seasonal and
// residual components using classical moving average decomposition.
package decompose

import (
	"fmt"
	"math"
	"time"

	"github.com/aouyang1/go-sales-forecaster/timedataset"
	"gonum.org/v1/gonum/floats"
)

const (
	day   = 24 * time.Hour
	week  = 7 * day
	month = 30 * day
)

// Options configures the decomposition. A zero Period infers the period from the series
// frequency.
type Options struct {
	Period int `json:"period"`
}

func NewDefaultOptions() *Options {
	return &Options{}
}

// Result holds four series aligned on T where Observed = Trend + Seasonal + Residual.
// Trend and Residual are NaN for the first and last Period/2 points.
type Result struct {
	T        []time.Time `json:"time"`
	Observed []float64   `json:"observed"`
	Trend    []float64   `json:"trend"`
	Seasonal []float64   `json:"seasonal"`
	Residual []float64   `json:"residual"`
	Period   int         `json:"period"`
}

// InferPeriod maps a sampling frequency onto the number of points in its natural yearly,
// weekly or daily cycle.
func InferPeriod(freq time.Duration) (int, error) {
	switch {
	case freq <= 0:
		return 0, timedataset.ErrCannotInferFreq
	case freq < day:
		return int(day / freq), nil
	case freq < week:
		return 7, nil
	case freq < month-3*day:
		return 52, nil
	case freq <= month+3*day:
		return 12, nil
	case freq <= 3*month+3*day:
		return 4, nil
	default:
		return 1, nil
	}
}

// Decompose performs additive decomposition of td. The series needs at least two full
// periods.
func Decompose(td *timedataset.TimeDataset, opt *Options) (*Result, error) {
	if opt == nil {
		opt = NewDefaultOptions()
	}
	if td.Len() == 0 {
		return nil, timedataset.ErrNoTrainingData
	}

	period := opt.Period
	if period <= 0 {
		freq, err := timedataset.TimeSlice(td.T).EstimateFreq()
		if err != nil {
			return nil, fmt.Errorf("unable to infer period, %w, %w", err, timedataset.ErrInsufficientData)
		}
		period, err = InferPeriod(freq)
		if err != nil {
			return nil, fmt.Errorf("unable to infer period, %w", err)
		}
	}
	if period < 2 {
		return nil, fmt.Errorf("period of %d has no seasonality, %w", period, timedataset.ErrInsufficientData)
	}

	n := td.Len()
	if n < 2*period {
		return nil, fmt.Errorf("need %d observations for period %d, got %d, %w", 2*period, period, n, timedataset.ErrInsufficientData)
	}

	y := td.Y
	trend := movingAverage(y, period)

	detrended := make([]float64, n)
	floats.SubTo(detrended, y, trend)

	seasonal := seasonalMeans(detrended, period)

	residual := make([]float64, n)
	floats.SubTo(residual, detrended, seasonal)

	observed := make([]float64, n)
	copy(observed, y)
	t := make([]time.Time, n)
	copy(t, td.T)

	return &Result{
		T:        t,
		Observed: observed,
		Trend:    trend,
		Seasonal: seasonal,
		Residual: residual,
		Period:   period,
	}, nil
}

// movingAverage computes a centered moving average. Even periods use a 2xperiod average
// giving half weight to both window ends. Edges without a full window are NaN.
func movingAverage(y []float64, period int) []float64 {
	n := len(y)
	trend := make([]float64, n)
	for i := range trend {
		trend[i] = math.NaN()
	}

	half := period / 2
	for i := half; i < n-half; i++ {
		var sum float64
		if period%2 == 0 {
			sum = 0.5*y[i-half] + 0.5*y[i+half]
			sum += floats.Sum(y[i-half+1 : i+half])
		} else {
			sum = floats.Sum(y[i-half : i+half+1])
		}
		trend[i] = sum / float64(period)
	}
	return trend
}

// seasonalMeans averages the detrended values at each position of the period, centers the
// pattern around zero and tiles it across the series.
func seasonalMeans(detrended []float64, period int) []float64 {
	pattern := make([]float64, period)
	counts := make([]int, period)
	for i, v := range detrended {
		if math.IsNaN(v) {
			continue
		}
		pattern[i%period] += v
		counts[i%period]++
	}
	for i := range pattern {
		if counts[i] > 0 {
			pattern[i] /= float64(counts[i])
		}
	}
	floats.AddConst(-floats.Sum(pattern)/float64(period), pattern)

	seasonal := make([]float64, len(detrended))
	for i := range seasonal {
		seasonal[i] = pattern[i%period]
	}
	return seasonal
}
