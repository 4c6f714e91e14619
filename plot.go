package forecaster

import (
	"fmt"
	"io"
	"math"
	"strings"
	"time"

	"github.com/aouyang1/go-sales-forecaster/decompose"
	"github.com/aouyang1/go-sales-forecaster/diagnostics"
	"github.com/aouyang1/go-sales-forecaster/series"
	"github.com/aouyang1/go-sales-forecaster/timedataset"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
)

// missing is how echarts marks a gap in a series
const missing = "-"

func value(v float64) interface{} {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return missing
	}
	return v
}

func timeAxis(t []time.Time) []string {
	out := make([]string, 0, len(t))
	for _, ts := range t {
		out = append(out, ts.Format(time.DateOnly))
	}
	return out
}

// LineTSeries generates an echart multi-line chart for some arbitrary time/value combination. The input
// y is a slice of series that must have the same length as the input time slice. NaN values are
// left as gaps.
func LineTSeries(title string, seriesName []string, t []time.Time, y [][]float64) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(
			opts.Title{
				Title: title,
			},
		),
	)

	line = line.SetXAxis(timeAxis(t))
	for i, name := range seriesName {
		lineData := make([]opts.LineData, 0, len(y[i]))
		for _, v := range y[i] {
			lineData = append(lineData, opts.LineData{Value: value(v)})
		}
		line = line.AddSeries(name, lineData)
	}
	return line
}

// LineForecaster plots the training series followed by the forecast and its confidence
// interval on a shared time axis
func LineForecaster(trainingData *timedataset.TimeDataset, res *Results) *charts.Line {
	n := trainingData.Len()
	h := len(res.T)

	t := make([]time.Time, 0, n+h)
	t = append(t, trainingData.T...)
	t = append(t, res.T...)

	pad := func(prefix, vals []float64) []float64 {
		out := make([]float64, 0, n+h)
		out = append(out, prefix...)
		return append(out, vals...)
	}
	nanN := nanSlice(n)
	nanH := nanSlice(h)

	// bridge the forecast to the last observation so the lines connect
	forecastPrefix := nanSlice(n)
	if n > 0 {
		forecastPrefix[n-1] = trainingData.Y[n-1]
	}

	return LineTSeries(
		fmt.Sprintf("Forecast (%.0f%% interval)", res.Confidence*100),
		[]string{"Actual", "Forecast", "Upper", "Lower"},
		t,
		[][]float64{
			pad(trainingData.Y, nanH),
			pad(forecastPrefix, res.Forecast),
			pad(nanN, res.Upper),
			pad(nanN, res.Lower),
		},
	)
}

func nanSlice(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = math.NaN()
	}
	return out
}

func render(w io.Writer, c ...components.Charter) error {
	page := components.NewPage()
	page.AddCharts(c...)
	return page.Render(w)
}

// PlotSeries renders the weekly series with the weeks containing US holidays marked
func PlotSeries(w io.Writer, td *timedataset.TimeDataset) error {
	if td.Len() == 0 {
		return timedataset.ErrNoTrainingData
	}
	holidays := nanSlice(td.Len())
	labels := make([]string, 0)
	idx := make(map[time.Time]int, td.Len())
	for i, t := range td.T {
		idx[t] = i
	}
	for _, a := range series.Annotate(td.T) {
		holidays[idx[a.T]] = td.Y[idx[a.T]]
		labels = append(labels, fmt.Sprintf("%s %s", a.T.Format(time.DateOnly), strings.Join(a.Holidays, ", ")))
	}

	line := LineTSeries(
		"Weekly Sales",
		[]string{"Sales"},
		td.T,
		[][]float64{td.Y},
	)
	holidayData := make([]opts.LineData, 0, len(holidays))
	for _, v := range holidays {
		holidayData = append(holidayData, opts.LineData{Value: value(v), Symbol: "diamond"})
	}
	line.AddSeries("Holiday Weeks", holidayData)
	line.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title:    "Weekly Sales",
			Subtitle: fmt.Sprintf("%d holiday weeks", len(labels)),
		}),
	)
	return render(w, line)
}

// PlotDecomposition renders the observed series and each of its additive components
func PlotDecomposition(w io.Writer, res *decompose.Result) error {
	if res == nil {
		return timedataset.ErrNoTrainingData
	}
	return render(w,
		LineTSeries("Observed", []string{"Observed"}, res.T, [][]float64{res.Observed}),
		LineTSeries("Trend", []string{"Trend"}, res.T, [][]float64{res.Trend}),
		LineTSeries(fmt.Sprintf("Seasonal (period %d)", res.Period), []string{"Seasonal"}, res.T, [][]float64{res.Seasonal}),
		LineTSeries("Residual", []string{"Residual"}, res.T, [][]float64{res.Residual}),
	)
}

// PlotForecast renders the training series followed by the forecast and confidence interval
func PlotForecast(w io.Writer, report *ForecastReport) error {
	if report == nil || report.Series == nil || report.Results == nil {
		return timedataset.ErrNoTrainingData
	}
	return render(w, LineForecaster(report.Series, report.Results))
}

// PlotDiagnostics renders the standardized residuals, their histogram with density estimates,
// the normal Q-Q plot and the correlogram
func PlotDiagnostics(w io.Writer, res *diagnostics.Result) error {
	if res == nil {
		return timedataset.ErrInsufficientData
	}

	residuals := LineTSeries(
		"Standardized Residuals",
		[]string{"Residual"},
		res.Residuals.T,
		[][]float64{res.Residuals.Standardized},
	)

	hist := charts.NewBar()
	hist.SetGlobalOptions(charts.WithTitleOpts(opts.Title{Title: "Histogram"}))
	binLabels := make([]string, 0, len(res.Histogram.Density))
	binData := make([]opts.BarData, 0, len(res.Histogram.Density))
	for i, d := range res.Histogram.Density {
		center := (res.Histogram.Edges[i] + res.Histogram.Edges[i+1]) / 2
		binLabels = append(binLabels, fmt.Sprintf("%.2f", center))
		binData = append(binData, opts.BarData{Value: d})
	}
	hist.SetXAxis(binLabels).AddSeries("Density", binData)

	density := charts.NewLine()
	density.SetGlobalOptions(charts.WithTitleOpts(opts.Title{Title: "Density"}))
	gridLabels := make([]string, 0, len(res.KDE.X))
	kdeData := make([]opts.LineData, 0, len(res.KDE.Y))
	normalData := make([]opts.LineData, 0, len(res.Normal.Y))
	for i, x := range res.KDE.X {
		gridLabels = append(gridLabels, fmt.Sprintf("%.2f", x))
		kdeData = append(kdeData, opts.LineData{Value: value(res.KDE.Y[i])})
		normalData = append(normalData, opts.LineData{Value: value(res.Normal.Y[i])})
	}
	density.SetXAxis(gridLabels).
		AddSeries("KDE", kdeData).
		AddSeries("N(0,1)", normalData)

	qq := charts.NewScatter()
	qq.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: "Normal Q-Q"}),
		charts.WithXAxisOpts(opts.XAxis{Name: "Theoretical", Type: "value"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Sample", Type: "value"}),
	)
	points := make([]opts.ScatterData, 0, len(res.QQ.Sample))
	ref := make([]opts.ScatterData, 0, len(res.QQ.Sample))
	for i, x := range res.QQ.Theoretical {
		points = append(points, opts.ScatterData{Value: []float64{x, res.QQ.Sample[i]}})
		ref = append(ref, opts.ScatterData{Value: []float64{x, res.QQ.Reference[i]}, SymbolSize: 2})
	}
	qq.AddSeries("Sample", points).AddSeries("Reference", ref)

	correlogram := charts.NewBar()
	correlogram.SetGlobalOptions(charts.WithTitleOpts(opts.Title{Title: "Correlogram"}))
	lagLabels := make([]string, 0, len(res.Correlogram.Lags))
	acfData := make([]opts.BarData, 0, len(res.Correlogram.ACF))
	upper := make([]opts.LineData, 0, len(res.Correlogram.ACF))
	lower := make([]opts.LineData, 0, len(res.Correlogram.ACF))
	for i, lag := range res.Correlogram.Lags {
		lagLabels = append(lagLabels, fmt.Sprintf("%d", lag))
		acfData = append(acfData, opts.BarData{Value: value(res.Correlogram.ACF[i])})
		upper = append(upper, opts.LineData{Value: value(res.Correlogram.Bound)})
		lower = append(lower, opts.LineData{Value: value(-res.Correlogram.Bound)})
	}
	correlogram.SetXAxis(lagLabels).AddSeries("ACF", acfData)
	bounds := charts.NewLine()
	bounds.SetXAxis(lagLabels).
		AddSeries("Upper Bound", upper).
		AddSeries("Lower Bound", lower)
	correlogram.Overlap(bounds)

	return render(w, residuals, hist, density, qq, correlogram)
}
