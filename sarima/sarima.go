// Package sarima fits a seasonal ARIMA model by conditional sum of squares and forecasts with
// normal confidence intervals
package sarima

import (
	"errors"
	"fmt"
	"math"
	"slices"
	"time"

	"github.com/aouyang1/go-sales-forecaster/stats"
	"github.com/aouyang1/go-sales-forecaster/timedataset"

	"gonum.org/v1/gonum/optimize"
)

const (
	initARScale = 0.5
	initMAValue = 0.1
)

var (
	ErrModelFit       = errors.New("unable to fit model")
	ErrInvalidHorizon = errors.New("horizon must be at least 1")
)

// structure holds the lag layout of a model independent of its parameter values. Parameters
// are packed as [ar..., seasonal ar..., ma..., seasonal ma...].
type structure struct {
	p, q, sp, sq int
	period       int
	diff         []float64
}

func newStructure(opt *Options) structure {
	return structure{
		p:      opt.Order.P,
		q:      opt.Order.Q,
		sp:     opt.SeasonalOrder.P,
		sq:     opt.SeasonalOrder.Q,
		period: opt.SeasonalOrder.Period,
		diff:   diffPolynomial(opt.Order.D, opt.SeasonalOrder.D, opt.SeasonalOrder.Period),
	}
}

func (s structure) numParams() int {
	return s.p + s.sp + s.q + s.sq
}

// start is the first index with a full autoregressive history
func (s structure) start() int {
	return s.p + s.sp*s.period + len(s.diff) - 1
}

func (s structure) split(params []float64) (ar, sar, ma, sma []float64) {
	i := 0
	ar = params[i : i+s.p]
	i += s.p
	sar = params[i : i+s.sp]
	i += s.sp
	ma = params[i : i+s.q]
	i += s.q
	sma = params[i : i+s.sq]
	return ar, sar, ma, sma
}

// stable checks the individual operators, whose product is stable only if each factor is
func (s structure) stable(params []float64, stationarity, invertibility bool) bool {
	ar, sar, ma, sma := s.split(params)
	if stationarity {
		if !isStable(lagPolynomial(ar, 1, -1)) || !isStable(lagPolynomial(sar, s.period, -1)) {
			return false
		}
	}
	if invertibility {
		if !isStable(lagPolynomial(ma, 1, 1)) || !isStable(lagPolynomial(sma, s.period, 1)) {
			return false
		}
	}
	return true
}

// expand returns the full autoregressive operator including differencing and the full moving
// average operator
func (s structure) expand(params []float64) (fullAR, fullMA []float64) {
	ar, sar, ma, sma := s.split(params)
	fullAR = polyMul(polyMul(lagPolynomial(ar, 1, -1), lagPolynomial(sar, s.period, -1)), s.diff)
	fullMA = polyMul(lagPolynomial(ma, 1, 1), lagPolynomial(sma, s.period, 1))
	return fullAR, fullMA
}

// minLength is the fewest observations that leave numParams+1 conditional residuals
func (s structure) minLength(opt *Options) int {
	base := max(opt.Order.P, opt.Order.D, opt.Order.Q) + s.period*(opt.SeasonalOrder.D+1)
	return max(base, s.start()+s.numParams()+1)
}

// conditionalResiduals computes e_t = fullAR(B) y_t - (fullMA(B) - 1) e_t for t >= start with
// pre-sample innovations fixed at zero
func conditionalResiduals(y, fullAR, fullMA []float64) ([]float64, int) {
	start := len(fullAR) - 1
	e := make([]float64, len(y))
	for t := start; t < len(y); t++ {
		var v float64
		for i, c := range fullAR {
			v += c * y[t-i]
		}
		for j := 1; j < len(fullMA) && t-j >= 0; j++ {
			v -= fullMA[j] * e[t-j]
		}
		e[t] = v
	}
	return e, start
}

func sumSquares(e []float64, start int) (float64, int) {
	var sse float64
	for _, v := range e[start:] {
		sse += v * v
	}
	return sse, len(e) - start
}

// Model is a fitted seasonal ARIMA model. It is immutable once returned from Fit.
type Model struct {
	opt    *Options
	st     structure
	td     *timedataset.TimeDataset
	freq   time.Duration
	params []float64
	fullAR []float64
	fullMA []float64
	resid  []float64
	start  int
	sigma2 float64
	scores *Scores
	iter   int
}

// Fit estimates the model parameters on td. Series shorter than the model's minimum length
// return ErrModelFit wrapping timedataset.ErrInsufficientData.
func Fit(td *timedataset.TimeDataset, opt *Options) (*Model, error) {
	opt, err := opt.Validate()
	if err != nil {
		return nil, fmt.Errorf("unable to validate options, %w", err)
	}
	if td == nil || td.Len() == 0 {
		return nil, fmt.Errorf("%w, %w", ErrModelFit, timedataset.ErrNoTrainingData)
	}

	st := newStructure(opt)
	if minLen := st.minLength(opt); td.Len() < minLen {
		return nil, fmt.Errorf(
			"%w, need %d observations but got %d, %w",
			ErrModelFit, minLen, td.Len(), timedataset.ErrInsufficientData,
		)
	}

	freq, err := timedataset.TimeSlice(td.T).EstimateFreq()
	if err != nil {
		return nil, fmt.Errorf("%w, unable to estimate frequency, %w", ErrModelFit, err)
	}

	// the search runs over partial autocorrelations so the relaxed fit can approach but never
	// leave the unit circle
	y := td.Y
	objective := func(z []float64) float64 {
		params := st.constrain(z)
		if !st.stable(params, opt.EnforceStationarity, opt.EnforceInvertibility) {
			return math.Inf(1)
		}
		fullAR, fullMA := st.expand(params)
		e, start := conditionalResiduals(y, fullAR, fullMA)
		sse, cnt := sumSquares(e, start)
		v := sse / float64(cnt)
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return math.Inf(1)
		}
		return v
	}

	params := initialParams(y, st)
	var iter int
	if len(params) > 0 {
		res, err := optimize.Minimize(
			optimize.Problem{Func: objective},
			st.unconstrain(params),
			&optimize.Settings{
				MajorIterations: opt.MaxIterations,
				Converger: &optimize.FunctionConverge{
					Absolute:   1e-10,
					Relative:   1e-8,
					Iterations: 100,
				},
			},
			&optimize.NelderMead{},
		)
		if err != nil {
			return nil, fmt.Errorf("%w, %w", ErrModelFit, err)
		}
		switch res.Status {
		case optimize.IterationLimit, optimize.FunctionEvaluationLimit:
			return nil, fmt.Errorf("%w, optimizer stopped with status %s", ErrModelFit, res.Status)
		}
		if math.IsNaN(res.F) || math.IsInf(res.F, 0) {
			return nil, fmt.Errorf("%w, non-finite objective", ErrModelFit)
		}
		params = st.constrain(res.X)
		iter = res.MajorIterations
	}

	fullAR, fullMA := st.expand(params)
	e, start := conditionalResiduals(y, fullAR, fullMA)
	sse, cnt := sumSquares(e, start)
	sigma2 := sse / float64(cnt)
	if sigma2 == 0 || math.IsNaN(sigma2) || math.IsInf(sigma2, 0) {
		return nil, fmt.Errorf("%w, residual variance is %f", ErrModelFit, sigma2)
	}

	m := &Model{
		opt:    opt,
		st:     st,
		td:     td.Copy(),
		freq:   freq,
		params: slices.Clone(params),
		fullAR: fullAR,
		fullMA: fullMA,
		resid:  e,
		start:  start,
		sigma2: sigma2,
		iter:   iter,
	}

	scores, err := NewScores(m.Fitted()[start:], y[start:])
	if err != nil {
		return nil, fmt.Errorf("%w, unable to score fit, %w", ErrModelFit, err)
	}
	m.scores = scores
	return m, nil
}

// initialParams seeds the autoregressive terms from the autocorrelation of the differenced series
// and the moving average terms with a small positive value
func initialParams(y []float64, st structure) []float64 {
	params := make([]float64, st.numParams())
	if len(params) == 0 {
		return params
	}

	acf, err := stats.ACF(difference(y, st.diff), max(st.period, 1))
	if err != nil {
		acf = nil
	}
	lagCorr := func(lag int) float64 {
		if lag < len(acf) {
			return initARScale * acf[lag]
		}
		return 0
	}

	ar, sar, ma, sma := st.split(params)
	if len(ar) > 0 {
		ar[0] = lagCorr(1)
	}
	if len(sar) > 0 {
		sar[0] = lagCorr(st.period)
	}
	for i := range ma {
		ma[i] = initMAValue
	}
	for i := range sma {
		sma[i] = initMAValue
	}
	return params
}

func (m *Model) Options() Options {
	return *m.opt
}

// TrainingData returns a copy of the series the model was fit on
func (m *Model) TrainingData() *timedataset.TimeDataset {
	return m.td.Copy()
}

// Params returns the estimated coefficients as [ar..., seasonal ar..., ma..., seasonal ma...]
func (m *Model) Params() []float64 {
	return slices.Clone(m.params)
}

func (m *Model) NumParams() int {
	return len(m.params)
}

// Sigma2 is the residual variance
func (m *Model) Sigma2() float64 {
	return m.sigma2
}

func (m *Model) Scores() Scores {
	return *m.scores
}

// Residuals returns the in-sample one step ahead errors. Points without a full autoregressive
// history are NaN.
func (m *Model) Residuals() []float64 {
	out := make([]float64, len(m.resid))
	for i, v := range m.resid {
		if i < m.start {
			out[i] = math.NaN()
			continue
		}
		out[i] = v
	}
	return out
}

// Fitted returns the in-sample one step ahead predictions, NaN where residuals are undefined
func (m *Model) Fitted() []float64 {
	out := make([]float64, len(m.resid))
	for i, v := range m.resid {
		if i < m.start {
			out[i] = math.NaN()
			continue
		}
		out[i] = m.td.Y[i] - v
	}
	return out
}

// StandardizedResiduals drops the burn in points and scales the rest by the residual standard
// deviation
func (m *Model) StandardizedResiduals() ([]time.Time, []float64) {
	sigma := math.Sqrt(m.sigma2)
	t := slices.Clone(m.td.T[m.start:])
	r := make([]float64, 0, len(m.resid)-m.start)
	for _, v := range m.resid[m.start:] {
		r = append(r, v/sigma)
	}
	return t, r
}

// LogLikelihood is the gaussian log likelihood evaluated at the conditional sum of squares
// estimate
func (m *Model) LogLikelihood() float64 {
	n := float64(len(m.resid) - m.start)
	return -n / 2 * (math.Log(2*math.Pi*m.sigma2) + 1)
}

// AIC and BIC count the residual variance as an estimated parameter
func (m *Model) AIC() float64 {
	k := float64(m.NumParams() + 1)
	return 2*k - 2*m.LogLikelihood()
}

func (m *Model) BIC() float64 {
	k := float64(m.NumParams() + 1)
	n := float64(len(m.resid) - m.start)
	return k*math.Log(n) - 2*m.LogLikelihood()
}
