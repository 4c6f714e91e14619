package sarima

import (
	"errors"
	"fmt"
)

const (
	DefaultConfidence    = 0.95
	DefaultMaxIterations = 5000
)

var (
	ErrInvalidOrder      = errors.New("model orders must be non-negative")
	ErrInvalidPeriod     = errors.New("seasonal period must be at least 2 when seasonal terms are set")
	ErrInvalidConfidence = errors.New("confidence must be between 0 and 1 exclusive")
	ErrInvalidIterations = errors.New("max iterations must be non-negative")
)

// Order is the non-seasonal (p, d, q) order
type Order struct {
	P int `json:"p"`
	D int `json:"d"`
	Q int `json:"q"`
}

// SeasonalOrder is the seasonal (P, D, Q, s) order. Period is ignored when P, D and Q are
// all zero.
type SeasonalOrder struct {
	P      int `json:"p"`
	D      int `json:"d"`
	Q      int `json:"q"`
	Period int `json:"period"`
}

func (s SeasonalOrder) enabled() bool {
	return s.P > 0 || s.D > 0 || s.Q > 0
}

// Options configures the seasonal ARIMA fit. Enforcement rejects candidate parameters whose
// autoregressive or moving average polynomials have roots on or inside the unit circle.
type Options struct {
	Order                Order         `json:"order"`
	SeasonalOrder        SeasonalOrder `json:"seasonal_order"`
	EnforceStationarity  bool          `json:"enforce_stationarity"`
	EnforceInvertibility bool          `json:"enforce_invertibility"`
	Confidence           float64       `json:"confidence"`
	MaxIterations        int           `json:"max_iterations"`
}

// NewDefaultOptions returns a (1,1,1)x(1,1,0,12) model with a 95% confidence interval and no
// enforcement
func NewDefaultOptions() *Options {
	return &Options{
		Order:         Order{P: 1, D: 1, Q: 1},
		SeasonalOrder: SeasonalOrder{P: 1, D: 1, Q: 0, Period: 12},
		Confidence:    DefaultConfidence,
		MaxIterations: DefaultMaxIterations,
	}
}

// Validate returns a copy of the options with unset confidence and iteration limits filled in.
// A nil receiver returns the default options.
func (o *Options) Validate() (*Options, error) {
	if o == nil {
		return NewDefaultOptions(), nil
	}
	opt := *o

	if opt.Order.P < 0 || opt.Order.D < 0 || opt.Order.Q < 0 {
		return nil, fmt.Errorf("got order %+v, %w", opt.Order, ErrInvalidOrder)
	}
	so := opt.SeasonalOrder
	if so.P < 0 || so.D < 0 || so.Q < 0 {
		return nil, fmt.Errorf("got seasonal order %+v, %w", so, ErrInvalidOrder)
	}
	if so.enabled() && so.Period < 2 {
		return nil, fmt.Errorf("got period %d, %w", so.Period, ErrInvalidPeriod)
	}
	if !so.enabled() {
		opt.SeasonalOrder.Period = 0
	}

	if opt.Confidence == 0 {
		opt.Confidence = DefaultConfidence
	}
	if opt.Confidence <= 0 || opt.Confidence >= 1 {
		return nil, fmt.Errorf("got %.3f, %w", opt.Confidence, ErrInvalidConfidence)
	}

	if opt.MaxIterations < 0 {
		return nil, fmt.Errorf("got %d, %w", opt.MaxIterations, ErrInvalidIterations)
	}
	if opt.MaxIterations == 0 {
		opt.MaxIterations = DefaultMaxIterations
	}
	return &opt, nil
}
