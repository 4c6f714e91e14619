package sarima

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/aouyang1/go-sales-forecaster/util"
)

// Coefficient is a labelled model parameter
type Coefficient struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
}

// Summary is a serializeable description of a fitted model
type Summary struct {
	TrainStartTime time.Time     `json:"train_start_time"`
	TrainEndTime   time.Time     `json:"train_end_time"`
	Options        Options       `json:"options"`
	NumObs         int           `json:"num_observations"`
	Iterations     int           `json:"iterations"`
	Coefficients   []Coefficient `json:"coefficients"`
	Sigma2         float64       `json:"sigma2"`
	LogLikelihood  float64       `json:"log_likelihood"`
	AIC            float64       `json:"aic"`
	BIC            float64       `json:"bic"`
	Scores         Scores        `json:"scores"`
}

func (m *Model) Summary() Summary {
	var coef []Coefficient
	ar, sar, ma, sma := m.st.split(m.params)
	for _, group := range []struct {
		name string
		lag  int
		vals []float64
	}{
		{"ar", 1, ar},
		{"ar.S", m.st.period, sar},
		{"ma", 1, ma},
		{"ma.S", m.st.period, sma},
	} {
		for i, v := range group.vals {
			coef = append(coef, Coefficient{
				Name:  fmt.Sprintf("%s.L%d", group.name, (i+1)*group.lag),
				Value: v,
			})
		}
	}

	return Summary{
		TrainStartTime: m.td.T[0],
		TrainEndTime:   m.td.T[len(m.td.T)-1],
		Options:        *m.opt,
		NumObs:         len(m.resid) - m.start,
		Iterations:     m.iter,
		Coefficients:   coef,
		Sigma2:         m.sigma2,
		LogLikelihood:  m.LogLikelihood(),
		AIC:            m.AIC(),
		BIC:            m.BIC(),
		Scores:         *m.scores,
	}
}

func (s Summary) TablePrint(w io.Writer, prefix, indent string) error {
	o := s.Options
	if _, err := fmt.Fprintf(w, "%s%sSARIMA(%d,%d,%d)x(%d,%d,%d,%d):\n", prefix, util.IndentExpand(indent, 0),
		o.Order.P, o.Order.D, o.Order.Q,
		o.SeasonalOrder.P, o.SeasonalOrder.D, o.SeasonalOrder.Q, o.SeasonalOrder.Period,
	); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "%s%sTraining: %s to %s\n", prefix, util.IndentExpand(indent, 1),
		s.TrainStartTime.Format(time.DateOnly), s.TrainEndTime.Format(time.DateOnly)); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "%s%sObservations: %d    Iterations: %d\n", prefix, util.IndentExpand(indent, 1),
		s.NumObs, s.Iterations); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "%s%sLog Likelihood: %.3f    AIC: %.3f    BIC: %.3f\n", prefix, util.IndentExpand(indent, 1),
		s.LogLikelihood, s.AIC, s.BIC); err != nil {
		return err
	}

	if _, err := fmt.Fprintf(w, "%s%sScores:\n", prefix, util.IndentExpand(indent, 0)); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "%s%sMAPE: %.3f    MSE: %.3f    R2: %.3f\n",
		prefix, util.IndentExpand(indent, 1),
		s.Scores.MAPE,
		s.Scores.MSE,
		s.Scores.R2,
	); err != nil {
		return err
	}

	if _, err := fmt.Fprintf(w, "%s%sCoefficients:\n", prefix, util.IndentExpand(indent, 0)); err != nil {
		return err
	}
	tbl := tabwriter.NewWriter(w, 0, 0, 1, ' ', tabwriter.AlignRight)
	if _, err := fmt.Fprintf(tbl, "%s%sName\tValue\t\n", prefix, util.IndentExpand(indent, 1)); err != nil {
		return err
	}
	for _, c := range s.Coefficients {
		if _, err := fmt.Fprintf(tbl, "%s%s%s\t%.4f\t\n", prefix, util.IndentExpand(indent, 1), c.Name, c.Value); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintf(tbl, "%s%ssigma2\t%.4f\t\n", prefix, util.IndentExpand(indent, 1), s.Sigma2); err != nil {
		return err
	}
	return tbl.Flush()
}
