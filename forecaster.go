// Package forecaster turns a sales ledger into a weekly series and routes it through one of
// the series, decomposition, forecast or diagnostics views. Every entry point is a pure
// function of the ledger path, the filter criteria and the options; nothing is retained between
// calls.
package forecaster

import (
	"fmt"
	"log/slog"

	"github.com/aouyang1/go-sales-forecaster/decompose"
	"github.com/aouyang1/go-sales-forecaster/diagnostics"
	"github.com/aouyang1/go-sales-forecaster/ledger"
	"github.com/aouyang1/go-sales-forecaster/sarima"
	"github.com/aouyang1/go-sales-forecaster/series"
	"github.com/aouyang1/go-sales-forecaster/timedataset"
)

var (
	ErrInputAccess      = ledger.ErrInputAccess
	ErrMalformedInput   = ledger.ErrMalformedInput
	ErrEmptyResult      = series.ErrEmptyResult
	ErrInsufficientData = timedataset.ErrInsufficientData
	ErrModelFit         = sarima.ErrModelFit
)

// Series loads the ledger at path and returns the weekly series for the criteria
func Series(path string, c series.Criteria) (*timedataset.TimeDataset, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	records, err := ledger.Load(path)
	if err != nil {
		return nil, fmt.Errorf("unable to load ledger, %w", err)
	}

	td, err := series.Build(records, c)
	if err != nil {
		return nil, fmt.Errorf("unable to build weekly series, %w", err)
	}

	slog.Info("built weekly series",
		"path", path,
		"category", c.Category,
		"records", len(records),
		"weeks", td.Len(),
		"start", timedataset.TimeSlice(td.T).StartTime(),
		"end", timedataset.TimeSlice(td.T).EndTime(),
	)
	return td, nil
}

// Decompose splits the weekly series into trend, seasonal and residual components
func Decompose(path string, c series.Criteria, opt *Options) (*decompose.Result, error) {
	opt, err := opt.Validate()
	if err != nil {
		return nil, err
	}
	td, err := Series(path, c)
	if err != nil {
		return nil, err
	}

	res, err := decompose.Decompose(td, opt.DecomposeOptions)
	if err != nil {
		return nil, fmt.Errorf("unable to decompose series, %w", err)
	}
	return res, nil
}

func fit(td *timedataset.TimeDataset, opt *Options) (*sarima.Model, error) {
	m, err := sarima.Fit(td, opt.ModelOptions)
	if err != nil {
		return nil, fmt.Errorf("unable to fit seasonal model, %w", err)
	}
	s := m.Summary()
	slog.Info("fit seasonal model",
		"observations", s.NumObs,
		"iterations", s.Iterations,
		"sigma2", s.Sigma2,
		"aic", s.AIC,
	)
	return m, nil
}

// Forecast fits the seasonal model to the weekly series and forecasts Options.Horizon weeks
// past its end
func Forecast(path string, c series.Criteria, opt *Options) (*ForecastReport, error) {
	opt, err := opt.Validate()
	if err != nil {
		return nil, err
	}
	td, err := Series(path, c)
	if err != nil {
		return nil, err
	}

	m, err := fit(td, opt)
	if err != nil {
		return nil, err
	}

	f, err := m.Forecast(opt.Horizon)
	if err != nil {
		return nil, fmt.Errorf("unable to forecast, %w", err)
	}

	return &ForecastReport{
		Series:  td,
		Summary: m.Summary(),
		Results: newResults(f),
	}, nil
}

// Diagnose fits the seasonal model to the weekly series and reports on its standardized
// residuals
func Diagnose(path string, c series.Criteria, opt *Options) (*DiagnosticsReport, error) {
	opt, err := opt.Validate()
	if err != nil {
		return nil, err
	}
	td, err := Series(path, c)
	if err != nil {
		return nil, err
	}

	m, err := fit(td, opt)
	if err != nil {
		return nil, err
	}

	res, err := diagnostics.Diagnose(m, opt.DiagnosticsOptions)
	if err != nil {
		return nil, fmt.Errorf("unable to diagnose residuals, %w", err)
	}
	if res.LjungBox.PValue < 0.05 {
		slog.Warn("residuals show autocorrelation",
			"ljung_box", res.LjungBox.Statistic,
			"p_value", res.LjungBox.PValue,
			"lags", res.LjungBox.Lags,
		)
	}

	return &DiagnosticsReport{
		Summary:     m.Summary(),
		Diagnostics: res,
	}, nil
}
