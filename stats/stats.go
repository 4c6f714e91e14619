// Package stats holds the residual statistics used by the diagnostics report and the model
// initialization
package stats

import (
	"errors"
)

var (
	ErrNoData         = errors.New("no data points")
	ErrConstantSeries = errors.New("series has zero variance")
	ErrInvalidLag     = errors.New("lag must be non-negative")
	ErrInvalidBins    = errors.New("number of bins must be positive")
)
