package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"text/tabwriter"
	"time"

	forecaster "github.com/aouyang1/go-sales-forecaster"
	"github.com/aouyang1/go-sales-forecaster/decompose"
	"github.com/aouyang1/go-sales-forecaster/diagnostics"
	"github.com/aouyang1/go-sales-forecaster/sarima"
	"github.com/aouyang1/go-sales-forecaster/series"

	"github.com/goccy/go-json"
	"github.com/pkg/profile"
	"github.com/spf13/cobra"
)

// cli holds the flag values shared by every subcommand
type cli struct {
	stdout io.Writer
	stderr io.Writer

	file      string
	startYear int
	endYear   int
	category  string

	out        string
	asJSON     bool
	cpuProfile string
	logLevel   string
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	c := &cli{stdout: stdout, stderr: stderr}

	rootCmd := &cobra.Command{
		Use:   "salesforecast",
		Short: "Weekly sales series, decomposition, forecast and diagnostics from a sales ledger",
		Long: `Reads an xlsx, xls or csv sales ledger, keeps the orders of one category within a
year range and averages them into a gap free weekly series. Each subcommand runs exactly one
view of that series.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.setupLogging()
		},
	}
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&c.file, "file", "f", "", "Path to the sales ledger spreadsheet")
	flags.IntVar(&c.startYear, "start-year", 0, "First order year to include")
	flags.IntVar(&c.endYear, "end-year", 0, "Last order year to include")
	flags.StringVarP(&c.category, "category", "c", "", "Product category to include, case sensitive")
	flags.StringVarP(&c.out, "out", "o", "", "Write an HTML chart page to this path")
	flags.BoolVar(&c.asJSON, "json", false, "Write the result as JSON to stdout")
	flags.StringVar(&c.cpuProfile, "cpuprofile", "", "Write a CPU profile into this directory")
	flags.StringVar(&c.logLevel, "log-level", "info", "Log level: debug, info, warn or error")
	for _, name := range []string{"file", "start-year", "end-year", "category"} {
		if err := rootCmd.MarkPersistentFlagRequired(name); err != nil {
			panic(err)
		}
	}

	rootCmd.AddCommand(c.seriesCmd())
	rootCmd.AddCommand(c.seasonalCmd())
	rootCmd.AddCommand(c.forecastCmd())
	rootCmd.AddCommand(c.diagnosticsCmd())
	return rootCmd
}

func (c *cli) setupLogging() error {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.logLevel)); err != nil {
		return fmt.Errorf("unable to parse log level, %w", err)
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(c.stderr, &slog.HandlerOptions{Level: level})))
	return nil
}

func (c *cli) criteria() series.Criteria {
	return series.Criteria{
		StartYear: c.startYear,
		EndYear:   c.endYear,
		Category:  c.category,
	}
}

// run profiles fn when a profile directory is set
func (c *cli) run(fn func() error) error {
	if c.cpuProfile != "" {
		defer profile.Start(profile.CPUProfile, profile.ProfilePath(c.cpuProfile), profile.Quiet).Stop()
	}
	return fn()
}

func (c *cli) writeJSON(v interface{}) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("unable to encode json, %w", err)
	}
	_, err = fmt.Fprintln(c.stdout, string(out))
	return err
}

func (c *cli) writeHTML(plot func(io.Writer) error) error {
	f, err := os.Create(c.out)
	if err != nil {
		return fmt.Errorf("unable to create %s, %w", c.out, err)
	}
	if err := plot(f); err != nil {
		f.Close()
		return fmt.Errorf("unable to render chart, %w", err)
	}
	if err := f.Close(); err != nil {
		return err
	}
	slog.Info("wrote chart", "path", c.out)
	return nil
}

func (c *cli) seriesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "series",
		Short: "Show the weekly sales series",
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.run(func() error {
				td, err := forecaster.Series(c.file, c.criteria())
				if err != nil {
					return err
				}
				if c.out != "" {
					if err := c.writeHTML(func(w io.Writer) error { return forecaster.PlotSeries(w, td) }); err != nil {
						return err
					}
				}
				annotations := series.Annotate(td.T)
				if c.asJSON {
					return c.writeJSON(struct {
						T        []time.Time         `json:"time"`
						Y        []float64           `json:"values"`
						Holidays []series.Annotation `json:"holidays"`
					}{td.T, td.Y, annotations})
				}

				tbl := tabwriter.NewWriter(c.stdout, 0, 0, 1, ' ', tabwriter.AlignRight)
				fmt.Fprintf(tbl, "Week Ending\tSales\t\n")
				for i, t := range td.T {
					fmt.Fprintf(tbl, "%s\t%.3f\t\n", t.Format(time.DateOnly), td.Y[i])
				}
				if err := tbl.Flush(); err != nil {
					return err
				}
				_, err = fmt.Fprintf(c.stdout, "%d weeks, %d with holidays\n", td.Len(), len(annotations))
				return err
			})
		},
	}
}

// nullable maps NaN to nil so the components survive json encoding
func nullable(x []float64) []*float64 {
	out := make([]*float64, len(x))
	for i := range x {
		if x[i] == x[i] {
			out[i] = &x[i]
		}
	}
	return out
}

func (c *cli) seasonalCmd() *cobra.Command {
	var period int
	cmd := &cobra.Command{
		Use:   "seasonal",
		Short: "Decompose the weekly series into trend, seasonal and residual components",
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.run(func() error {
				res, err := forecaster.Decompose(c.file, c.criteria(), &forecaster.Options{
					DecomposeOptions: &decompose.Options{Period: period},
				})
				if err != nil {
					return err
				}
				if c.out != "" {
					if err := c.writeHTML(func(w io.Writer) error { return forecaster.PlotDecomposition(w, res) }); err != nil {
						return err
					}
				}
				if c.asJSON {
					return c.writeJSON(struct {
						T        []time.Time `json:"time"`
						Observed []float64   `json:"observed"`
						Trend    []*float64  `json:"trend"`
						Seasonal []float64   `json:"seasonal"`
						Residual []*float64  `json:"residual"`
						Period   int         `json:"period"`
					}{res.T, res.Observed, nullable(res.Trend), res.Seasonal, nullable(res.Residual), res.Period})
				}

				tbl := tabwriter.NewWriter(c.stdout, 0, 0, 1, ' ', tabwriter.AlignRight)
				fmt.Fprintf(tbl, "Week Ending\tObserved\tTrend\tSeasonal\tResidual\t\n")
				for i, t := range res.T {
					fmt.Fprintf(tbl, "%s\t%.3f\t%.3f\t%.3f\t%.3f\t\n",
						t.Format(time.DateOnly), res.Observed[i], res.Trend[i], res.Seasonal[i], res.Residual[i])
				}
				if err := tbl.Flush(); err != nil {
					return err
				}
				_, err = fmt.Fprintf(c.stdout, "period %d\n", res.Period)
				return err
			})
		},
	}
	cmd.Flags().IntVar(&period, "period", 0, "Seasonal period in weeks, 0 infers it from the series frequency")
	return cmd
}

// modelFlags registers the flags that configure the seasonal model
func modelFlags(cmd *cobra.Command, opt *sarima.Options) {
	cmd.Flags().IntVar(&opt.SeasonalOrder.Period, "period", opt.SeasonalOrder.Period, "Seasonal period of the model in weeks")
	cmd.Flags().Float64Var(&opt.Confidence, "confidence", opt.Confidence, "Confidence level of the forecast interval")
	cmd.Flags().BoolVar(&opt.EnforceStationarity, "enforce-stationarity", false, "Reject non-stationary autoregressive parameters")
	cmd.Flags().BoolVar(&opt.EnforceInvertibility, "enforce-invertibility", false, "Reject non-invertible moving average parameters")
	cmd.Flags().IntVar(&opt.MaxIterations, "max-iterations", opt.MaxIterations, "Optimizer iteration limit")
}

func (c *cli) forecastCmd() *cobra.Command {
	modelOpt := sarima.NewDefaultOptions()
	var horizon int
	cmd := &cobra.Command{
		Use:   "forecast",
		Short: "Fit a seasonal ARIMA model and forecast past the end of the series",
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.run(func() error {
				report, err := forecaster.Forecast(c.file, c.criteria(), &forecaster.Options{
					ModelOptions: modelOpt,
					Horizon:      horizon,
				})
				if err != nil {
					return err
				}
				if c.out != "" {
					if err := c.writeHTML(func(w io.Writer) error { return forecaster.PlotForecast(w, report) }); err != nil {
						return err
					}
				}
				if c.asJSON {
					return c.writeJSON(report)
				}

				if err := report.Summary.TablePrint(c.stdout, "", "  "); err != nil {
					return err
				}
				res := report.Results
				tbl := tabwriter.NewWriter(c.stdout, 0, 0, 1, ' ', tabwriter.AlignRight)
				fmt.Fprintf(tbl, "Week Ending\tForecast\tLower\tUpper\t\n")
				for i, t := range res.T {
					fmt.Fprintf(tbl, "%s\t%.3f\t%.3f\t%.3f\t\n", t.Format(time.DateOnly), res.Forecast[i], res.Lower[i], res.Upper[i])
				}
				return tbl.Flush()
			})
		},
	}
	cmd.Flags().IntVar(&horizon, "horizon", forecaster.DefaultHorizon, "Number of weeks to forecast")
	modelFlags(cmd, modelOpt)
	return cmd
}

func (c *cli) diagnosticsCmd() *cobra.Command {
	modelOpt := sarima.NewDefaultOptions()
	diagOpt := diagnostics.NewDefaultOptions()
	cmd := &cobra.Command{
		Use:   "diagnostics",
		Short: "Fit a seasonal ARIMA model and check its standardized residuals",
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.run(func() error {
				report, err := forecaster.Diagnose(c.file, c.criteria(), &forecaster.Options{
					ModelOptions:       modelOpt,
					DiagnosticsOptions: diagOpt,
				})
				if err != nil {
					return err
				}
				if c.out != "" {
					if err := c.writeHTML(func(w io.Writer) error { return forecaster.PlotDiagnostics(w, report.Diagnostics) }); err != nil {
						return err
					}
				}
				if c.asJSON {
					return c.writeJSON(report)
				}

				if err := report.Summary.TablePrint(c.stdout, "", "  "); err != nil {
					return err
				}
				d := report.Diagnostics
				_, err = fmt.Fprintf(c.stdout,
					"Residuals: %d    Outliers: %d\nLjung-Box(%d): Q=%.3f  dof=%d  p=%.4f\n",
					len(d.Residuals.Standardized), len(d.Outliers),
					d.LjungBox.Lags, d.LjungBox.Statistic, d.LjungBox.DOF, d.LjungBox.PValue,
				)
				return err
			})
		},
	}
	cmd.Flags().IntVar(&diagOpt.Lags, "lags", diagOpt.Lags, "Number of correlogram lags")
	cmd.Flags().IntVar(&diagOpt.Bins, "bins", diagOpt.Bins, "Number of histogram bins")
	modelFlags(cmd, modelOpt)
	return cmd
}
