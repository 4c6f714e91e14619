// Package timedataset holds the validated, strictly increasing univariate series shared by
// the series builder, decomposer, forecaster and diagnostics.
package timedataset

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrNoTrainingData     = errors.New("no training data")
	ErrNonMonotonic       = errors.New("time feature is not monotonic")
	ErrDatasetLenMismatch = errors.New("time feature has a different length than observations")
	ErrInsufficientData   = errors.New("insufficient data")
)

// TimeDataset represents a time series storing a slice of time points and values.
// Both must be of the same length.
type TimeDataset struct {
	T []time.Time `json:"time"`
	Y []float64   `json:"values"`
}

// NewUnivariateDataset returns an instance of a TimeDataset given a time and value slice.
// The time slice must be strictly increasing. Inputs are copied.
func NewUnivariateDataset(t []time.Time, y []float64) (*TimeDataset, error) {
	if len(y) == 0 {
		return nil, ErrNoTrainingData
	}
	if len(t) != len(y) {
		return nil, fmt.Errorf(
			"time feature has length of %d, but values has a length of %d, %w",
			len(t), len(y), ErrDatasetLenMismatch,
		)
	}

	for i := 1; i < len(t); i++ {
		if !t[i].After(t[i-1]) {
			return nil, fmt.Errorf("non-monotonic at %d, %w", i, ErrNonMonotonic)
		}
	}

	tSeries := make([]time.Time, len(t))
	ySeries := make([]float64, len(t))
	copy(tSeries, t)
	copy(ySeries, y)
	return &TimeDataset{
		T: tSeries,
		Y: ySeries,
	}, nil
}

// Len returns the number of points in the dataset
func (td *TimeDataset) Len() int {
	if td == nil {
		return 0
	}
	return len(td.T)
}

func (td *TimeDataset) Copy() *TimeDataset {
	if td == nil {
		return nil
	}
	tSeries := make([]time.Time, len(td.T))
	ySeries := make([]float64, len(td.Y))
	copy(tSeries, td.T)
	copy(ySeries, td.Y)
	return &TimeDataset{
		T: tSeries,
		Y: ySeries,
	}
}
