package main

import (
	"bytes"
	"encoding/csv"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	forecaster "github.com/aouyang1/go-sales-forecaster"
	"github.com/aouyang1/go-sales-forecaster/timedataset"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var firstMonday = time.Date(2014, 1, 6, 0, 0, 0, 0, time.UTC)

// writeLedger writes two furniture orders per week whose mean follows a trend, a 12 week
// cycle and a small seasonal random walk
func writeLedger(t *testing.T, weeks int) string {
	t.Helper()

	noise := timedataset.GenerateIntegratedNoise(weeks, 0.05, 12, 7)
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	require.Nil(t, w.Write([]string{"Order Date", "Category", "Sales"}))
	for k := range weeks {
		avg := 500.0 + 2.0*float64(k) + 40.0*math.Sin(2.0*math.Pi*float64(k)/12.0) + noise[k]
		monday := firstMonday.AddDate(0, 0, 7*k)
		require.Nil(t, w.Write([]string{monday.Format("1/2/2006"), "Furniture", strconv.FormatFloat(avg-10, 'f', -1, 64)}))
		require.Nil(t, w.Write([]string{monday.AddDate(0, 0, 2).Format("1/2/2006"), "Furniture", strconv.FormatFloat(avg+10, 'f', -1, 64)}))
		require.Nil(t, w.Write([]string{monday.AddDate(0, 0, 1).Format("1/2/2006"), "Technology", "9999"}))
	}
	w.Flush()
	require.Nil(t, w.Error())

	path := filepath.Join(t.TempDir(), "ledger.csv")
	require.Nil(t, os.WriteFile(path, buf.Bytes(), 0o644))
	return path
}

func execute(args ...string) (string, error) {
	var stdout, stderr bytes.Buffer
	cmd := newRootCmd(&stdout, &stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), err
}

func baseArgs(path string) []string {
	return []string{"--file", path, "--start-year", "2014", "--end-year", "2017", "--category", "Furniture", "--log-level", "error"}
}

func TestSeriesCommand(t *testing.T) {
	path := writeLedger(t, 60)

	out, err := execute(append([]string{"series", "--json"}, baseArgs(path)...)...)
	require.Nil(t, err)

	var res struct {
		T []time.Time `json:"time"`
		Y []float64   `json:"values"`
	}
	require.Nil(t, json.Unmarshal([]byte(out), &res))
	require.Len(t, res.T, 60)
	require.Len(t, res.Y, 60)
	assert.Equal(t, time.Date(2014, 1, 12, 0, 0, 0, 0, time.UTC), res.T[0].UTC())
	assert.InDelta(t, 500.0, res.Y[0], 1.0)

	htmlPath := filepath.Join(t.TempDir(), "series.html")
	out, err = execute(append([]string{"series", "--out", htmlPath}, baseArgs(path)...)...)
	require.Nil(t, err)
	assert.Contains(t, out, "60 weeks")

	page, err := os.ReadFile(htmlPath)
	require.Nil(t, err)
	assert.Contains(t, string(page), "Weekly Sales")
}

func TestSeasonalCommand(t *testing.T) {
	path := writeLedger(t, 60)

	out, err := execute(append([]string{"seasonal", "--period", "12"}, baseArgs(path)...)...)
	require.Nil(t, err)
	assert.Contains(t, out, "period 12")
	assert.Contains(t, out, "2014-01-12")

	out, err = execute(append([]string{"seasonal", "--period", "12", "--json"}, baseArgs(path)...)...)
	require.Nil(t, err)

	var res struct {
		Trend  []*float64 `json:"trend"`
		Period int        `json:"period"`
	}
	require.Nil(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, 12, res.Period)
	require.Len(t, res.Trend, 60)
	assert.Nil(t, res.Trend[0])
	assert.NotNil(t, res.Trend[30])
}

func TestForecastCommand(t *testing.T) {
	path := writeLedger(t, 208)

	args := append([]string{
		"forecast", "--horizon", "12", "--json",
		"--enforce-stationarity", "--enforce-invertibility",
	}, baseArgs(path)...)
	out, err := execute(args...)
	require.Nil(t, err)

	var report forecaster.ForecastReport
	require.Nil(t, json.Unmarshal([]byte(out), &report))
	require.NotNil(t, report.Results)
	require.Len(t, report.Results.T, 12)
	assert.Equal(t, time.Date(2018, 1, 7, 0, 0, 0, 0, time.UTC), report.Results.T[0].UTC())
	for i := range report.Results.T {
		assert.LessOrEqual(t, report.Results.Lower[i], report.Results.Forecast[i])
		assert.GreaterOrEqual(t, report.Results.Upper[i], report.Results.Forecast[i])
	}

	args = append([]string{
		"forecast", "--horizon", "4",
		"--enforce-stationarity", "--enforce-invertibility",
	}, baseArgs(path)...)
	out, err = execute(args...)
	require.Nil(t, err)
	assert.Contains(t, out, "SARIMA(1,1,1)x(1,1,0,12)")
	assert.Contains(t, out, "2018-01-28")
}

func TestDiagnosticsCommand(t *testing.T) {
	path := writeLedger(t, 208)

	args := append([]string{
		"diagnostics", "--lags", "8",
		"--enforce-stationarity", "--enforce-invertibility",
	}, baseArgs(path)...)
	out, err := execute(args...)
	require.Nil(t, err)
	assert.Contains(t, out, "Ljung-Box(8)")
}

func TestCommandErrors(t *testing.T) {
	path := writeLedger(t, 20)

	testData := map[string]struct {
		args []string
		err  error
		msg  string
	}{
		"missing required flags": {
			args: []string{"series", "--file", path},
			msg:  "required flag(s)",
		},
		"bad log level": {
			args: append(append([]string{"series"}, baseArgs(path)...), "--log-level", "loud"),
			msg:  "unable to parse log level",
		},
		"missing file": {
			args: append([]string{"series"}, baseArgs(filepath.Join(t.TempDir(), "missing.csv"))...),
			err:  forecaster.ErrInputAccess,
		},
		"too short to fit": {
			args: append([]string{"forecast"}, baseArgs(path)...),
			err:  forecaster.ErrModelFit,
		},
		"too short to decompose": {
			args: append([]string{"seasonal"}, baseArgs(path)...),
			err:  forecaster.ErrInsufficientData,
		},
		"invalid confidence": {
			args: append([]string{"forecast", "--confidence", "1.5"}, baseArgs(path)...),
			msg:  "confidence",
		},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			_, err := execute(td.args...)
			require.Error(t, err)
			if td.err != nil {
				assert.ErrorIs(t, err, td.err)
			}
			if td.msg != "" {
				assert.Contains(t, err.Error(), td.msg)
			}
		})
	}
}
