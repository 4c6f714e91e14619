// Package diagnostics checks whether the standardized residuals of a fitted model look like
// gaussian white noise
package diagnostics

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/aouyang1/go-sales-forecaster/stats"
	"github.com/aouyang1/go-sales-forecaster/timedataset"
)

const minResiduals = 3

var ErrInvalidOptions = errors.New("invalid diagnostics options")

// Fitted is the view of a fitted model the diagnostics need
type Fitted interface {
	StandardizedResiduals() ([]time.Time, []float64)
	NumParams() int
}

type Options struct {
	Lags          int     `json:"lags"`
	Bins          int     `json:"bins"`
	GridPoints    int     `json:"grid_points"`
	Confidence    float64 `json:"confidence"`
	OutlierFactor float64 `json:"outlier_factor"`
}

func NewDefaultOptions() *Options {
	return &Options{
		Lags:          10,
		Bins:          10,
		GridPoints:    100,
		Confidence:    0.95,
		OutlierFactor: 1.5,
	}
}

// Validate fills unset fields with defaults. A nil receiver returns the default options.
func (o *Options) Validate() (*Options, error) {
	def := NewDefaultOptions()
	if o == nil {
		return def, nil
	}
	opt := *o
	if opt.Lags < 0 || opt.Bins < 0 || opt.GridPoints < 0 || opt.OutlierFactor < 0 {
		return nil, fmt.Errorf("got %+v, %w", opt, ErrInvalidOptions)
	}
	if opt.Confidence < 0 || opt.Confidence >= 1 {
		return nil, fmt.Errorf("confidence %.3f, %w", opt.Confidence, ErrInvalidOptions)
	}
	if opt.Lags == 0 {
		opt.Lags = def.Lags
	}
	if opt.Bins == 0 {
		opt.Bins = def.Bins
	}
	if opt.GridPoints == 0 {
		opt.GridPoints = def.GridPoints
	}
	if opt.Confidence == 0 {
		opt.Confidence = def.Confidence
	}
	if opt.OutlierFactor == 0 {
		opt.OutlierFactor = def.OutlierFactor
	}
	return &opt, nil
}

// Residuals are the time ordered standardized residuals
type Residuals struct {
	T            []time.Time `json:"time"`
	Standardized []float64   `json:"standardized"`
}

// Correlogram holds the autocorrelation at lags 1 through Lags and the band an uncorrelated
// series stays within
type Correlogram struct {
	Lags  []int     `json:"lags"`
	ACF   []float64 `json:"acf"`
	Bound float64   `json:"bound"`
}

type Result struct {
	Residuals   Residuals             `json:"residuals"`
	Histogram   *stats.Histogram      `json:"histogram"`
	KDE         *stats.Curve          `json:"kde"`
	Normal      *stats.Curve          `json:"normal"`
	QQ          *stats.QQ             `json:"qq"`
	Correlogram Correlogram           `json:"correlogram"`
	LjungBox    *stats.LjungBoxResult `json:"ljung_box"`
	Outliers    []int                 `json:"outliers"`
}

// Diagnose builds the four residual views along with a Ljung-Box test and the indices of
// residuals outside the Tukey fences
func Diagnose(model Fitted, opt *Options) (*Result, error) {
	opt, err := opt.Validate()
	if err != nil {
		return nil, err
	}
	if model == nil {
		return nil, fmt.Errorf("no model, %w", timedataset.ErrInsufficientData)
	}

	t, r := model.StandardizedResiduals()
	if len(r) < minResiduals {
		return nil, fmt.Errorf("need %d residuals but got %d, %w", minResiduals, len(r), timedataset.ErrInsufficientData)
	}

	hist, err := stats.NewHistogram(r, opt.Bins)
	if err != nil {
		return nil, fmt.Errorf("unable to compute histogram, %w", err)
	}

	grid := stats.Grid(
		math.Min(hist.Edges[0], -3.0),
		math.Max(hist.Edges[len(hist.Edges)-1], 3.0),
		opt.GridPoints,
	)
	kde, err := stats.KDE(r, grid)
	if err != nil {
		return nil, fmt.Errorf("unable to compute kernel density, %w", err)
	}

	qq, err := stats.NormalQQ(r)
	if err != nil {
		return nil, fmt.Errorf("unable to compute normal quantiles, %w", err)
	}

	acf, err := stats.ACF(r, opt.Lags)
	if err != nil {
		return nil, fmt.Errorf("unable to compute correlogram, %w", err)
	}
	lags := make([]int, 0, len(acf)-1)
	for k := 1; k < len(acf); k++ {
		lags = append(lags, k)
	}

	lb, err := stats.LjungBox(r, opt.Lags, model.NumParams())
	if err != nil {
		return nil, fmt.Errorf("unable to compute ljung-box test, %w", err)
	}

	return &Result{
		Residuals: Residuals{
			T:            t,
			Standardized: r,
		},
		Histogram: hist,
		KDE:       kde,
		Normal:    stats.NormalDensity(grid),
		QQ:        qq,
		Correlogram: Correlogram{
			Lags:  lags,
			ACF:   acf[1:],
			Bound: stats.ConfidenceBound(len(r), opt.Confidence),
		},
		LjungBox: lb,
		Outliers: stats.DetectOutliers(r, 0.25, 0.75, opt.OutlierFactor),
	}, nil
}
