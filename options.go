package forecaster

import (
	"fmt"

	"github.com/aouyang1/go-sales-forecaster/decompose"
	"github.com/aouyang1/go-sales-forecaster/diagnostics"
	"github.com/aouyang1/go-sales-forecaster/sarima"
)

const DefaultHorizon = 100

// Options configures each stage of the pipeline. Nil stage options fall back to that stage's
// defaults.
type Options struct {
	DecomposeOptions   *decompose.Options   `json:"decompose_options"`
	ModelOptions       *sarima.Options      `json:"model_options"`
	DiagnosticsOptions *diagnostics.Options `json:"diagnostics_options"`
	Horizon            int                  `json:"horizon"`
}

func NewDefaultOptions() *Options {
	return &Options{
		DecomposeOptions:   decompose.NewDefaultOptions(),
		ModelOptions:       sarima.NewDefaultOptions(),
		DiagnosticsOptions: diagnostics.NewDefaultOptions(),
		Horizon:            DefaultHorizon,
	}
}

// Validate returns a copy of the options with every stage validated and an unset horizon
// replaced by DefaultHorizon
func (o *Options) Validate() (*Options, error) {
	if o == nil {
		o = NewDefaultOptions()
	}
	opt := *o

	if opt.DecomposeOptions == nil {
		opt.DecomposeOptions = decompose.NewDefaultOptions()
	}

	modelOpt, err := opt.ModelOptions.Validate()
	if err != nil {
		return nil, fmt.Errorf("unable to validate model options, %w", err)
	}
	opt.ModelOptions = modelOpt

	diagOpt, err := opt.DiagnosticsOptions.Validate()
	if err != nil {
		return nil, fmt.Errorf("unable to validate diagnostics options, %w", err)
	}
	opt.DiagnosticsOptions = diagOpt

	if opt.Horizon == 0 {
		opt.Horizon = DefaultHorizon
	}
	if opt.Horizon < 0 {
		return nil, fmt.Errorf("got %d, %w", opt.Horizon, sarima.ErrInvalidHorizon)
	}
	return &opt, nil
}
