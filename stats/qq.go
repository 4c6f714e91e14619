package stats

import (
	"fmt"

	mat_ "github.com/aouyang1/go-sales-forecaster/mat"
	"github.com/aouyang1/go-sales-forecaster/models"

	"gonum.org/v1/gonum/stat/distuv"
)

// QQ pairs sorted sample values with standard normal quantiles along with a least squares
// reference line through the points. R2 near 1 means the sample is close to normal.
type QQ struct {
	Theoretical []float64 `json:"theoretical"`
	Sample      []float64 `json:"sample"`
	Reference   []float64 `json:"reference"`
	Intercept   float64   `json:"intercept"`
	Slope       float64   `json:"slope"`
	R2          float64   `json:"r2"`
}

// NormalQQ uses plotting positions i/(n+1) for the theoretical quantiles
func NormalQQ(x []float64) (*QQ, error) {
	if len(x) < 2 {
		return nil, fmt.Errorf("need at least 2 points, %w", ErrNoData)
	}
	s := sorted(x)
	n := len(s)

	theoretical := make([]float64, n)
	for i := range n {
		theoretical[i] = distuv.UnitNormal.Quantile(float64(i+1) / float64(n+1))
	}

	ols, err := models.NewOLSRegression(models.NewDefaultOLSOptions())
	if err != nil {
		return nil, err
	}
	return newQQ(ols, theoretical, s)
}

// newQQ fits line through the quantile pairs and evaluates it at each theoretical quantile
func newQQ(line models.Model, theoretical, sample []float64) (*QQ, error) {
	xMx, err := mat_.NewColumn(theoretical)
	if err != nil {
		return nil, err
	}
	yMx, err := mat_.NewColumn(sample)
	if err != nil {
		return nil, err
	}

	if err := line.Fit(xMx, yMx); err != nil {
		return nil, fmt.Errorf("unable to fit qq reference line, %w", err)
	}
	ref, err := line.Predict(xMx)
	if err != nil {
		return nil, fmt.Errorf("unable to evaluate qq reference line, %w", err)
	}
	r2, err := line.Score(xMx, yMx)
	if err != nil {
		return nil, fmt.Errorf("unable to score qq reference line, %w", err)
	}

	return &QQ{
		Theoretical: theoretical,
		Sample:      sample,
		Reference:   ref,
		Intercept:   line.Intercept(),
		Slope:       line.Coef()[0],
		R2:          r2,
	}, nil
}
