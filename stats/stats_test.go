package stats

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/floats"
)

func TestDetectOutliers(t *testing.T) {
	testData := map[string]struct {
		y        []float64
		expected []int
	}{
		"empty": {nil, nil},
		"no outliers": {
			[]float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10},
			nil,
		},
		"single spike": {
			[]float64{1, 2, 3, 4, 5, 100, 6, 7, 8, 9},
			[]int{5},
		},
		"both tails": {
			[]float64{-100, 2, 3, 4, 5, 6, 7, 8, 9, 100},
			[]int{0, 9},
		},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			res := DetectOutliers(td.y, 0.25, 0.75, 1.5)
			assert.Equal(t, td.expected, res)
		})
	}
}

func TestDetectOutliersFullRange(t *testing.T) {
	assert.Nil(t, DetectOutliers([]float64{1, 2, 3}, 0.0, 1.0, 1.5))
}

func TestACF(t *testing.T) {
	testData := map[string]struct {
		x        []float64
		maxLag   int
		expected []float64
		err      error
	}{
		"empty": {
			err: ErrNoData,
		},
		"negative lag": {
			x:      []float64{1, 2},
			maxLag: -1,
			err:    ErrInvalidLag,
		},
		"constant": {
			x:      []float64{3, 3, 3},
			maxLag: 1,
			err:    ErrConstantSeries,
		},
		"alternating": {
			x:        []float64{1, -1, 1, -1},
			maxLag:   2,
			expected: []float64{1, -0.75, 0.5},
		},
		"capped lag": {
			x:        []float64{1, 2, 3},
			maxLag:   10,
			expected: []float64{1, 0, -0.5},
		},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			res, err := ACF(td.x, td.maxLag)
			if td.err != nil {
				assert.ErrorIs(t, err, td.err)
				return
			}
			require.Nil(t, err)
			assert.InDeltaSlice(t, td.expected, res, 1e-9)
		})
	}
}

func TestConfidenceBound(t *testing.T) {
	assert.InDelta(t, 1.959964/10.0, ConfidenceBound(100, 0.95), 1e-6)
	assert.True(t, math.IsNaN(ConfidenceBound(0, 0.95)))
}

func TestLjungBox(t *testing.T) {
	white := []float64{
		0.49, -0.14, 0.65, 1.52, -0.23, -0.23, 1.58, 0.77, -0.47, 0.54,
		-0.46, -0.47, 0.24, -1.91, -1.72, -0.56, -1.01, 0.31, -0.91, -1.41,
		1.47, -0.23, 0.07, -1.42, -0.54, 0.11, -1.15, 0.38, -0.60, -0.29,
	}
	res, err := LjungBox(white, 5, 0)
	require.Nil(t, err)
	assert.Equal(t, 5, res.Lags)
	assert.Equal(t, 5, res.DOF)
	assert.Greater(t, res.Statistic, 0.0)
	assert.Greater(t, res.PValue, 0.05)

	trend := make([]float64, 50)
	for i := range trend {
		trend[i] = float64(i)
	}
	res, err = LjungBox(trend, 5, 2)
	require.Nil(t, err)
	assert.Equal(t, 3, res.DOF)
	assert.Less(t, res.PValue, 0.01)

	res, err = LjungBox(trend, 5, 10)
	require.Nil(t, err)
	assert.Equal(t, 1, res.DOF, "degrees of freedom floor")

	_, err = LjungBox(trend, 0, 0)
	assert.ErrorIs(t, err, ErrInvalidLag)

	_, err = LjungBox([]float64{1}, 3, 0)
	assert.Error(t, err)
}

func TestNewHistogram(t *testing.T) {
	x := []float64{0, 1, 1, 2, 2, 2, 3, 3, 4, 4}
	h, err := NewHistogram(x, 4)
	require.Nil(t, err)
	assert.InDeltaSlice(t, []float64{0, 1, 2, 3, 4}, h.Edges, 1e-12)
	assert.InDeltaSlice(t, []float64{0.1, 0.2, 0.3, 0.4}, h.Density, 1e-12)

	var area float64
	for i, d := range h.Density {
		area += d * (h.Edges[i+1] - h.Edges[i])
	}
	assert.InDelta(t, 1.0, area, 1e-12)

	h, err = NewHistogram([]float64{5, 5, 5}, 2)
	require.Nil(t, err)
	assert.InDelta(t, 1.0, floats.Sum(h.Density)*0.5, 1e-12)

	_, err = NewHistogram(nil, 2)
	assert.ErrorIs(t, err, ErrNoData)
	_, err = NewHistogram(x, 0)
	assert.ErrorIs(t, err, ErrInvalidBins)
}

func TestKDE(t *testing.T) {
	x := []float64{-1.2, -0.4, -0.1, 0.0, 0.2, 0.3, 0.9, 1.4}
	grid := Grid(-8, 8, 801)
	kde, err := KDE(x, grid)
	require.Nil(t, err)
	require.Len(t, kde.Y, len(grid))

	// trapezoid integral over a grid wide enough to hold all of the mass
	var area float64
	for i := 1; i < len(grid); i++ {
		area += (kde.Y[i] + kde.Y[i-1]) / 2 * (grid[i] - grid[i-1])
	}
	assert.InDelta(t, 1.0, area, 1e-3)

	_, err = KDE(nil, grid)
	assert.ErrorIs(t, err, ErrNoData)
}

func TestNormalDensity(t *testing.T) {
	c := NormalDensity([]float64{0, 1})
	assert.InDelta(t, 0.398942, c.Y[0], 1e-6)
	assert.InDelta(t, 0.241971, c.Y[1], 1e-6)
}

func TestBandwidth(t *testing.T) {
	assert.Equal(t, 1.0, Bandwidth([]float64{1}))
	assert.Equal(t, 1.0, Bandwidth([]float64{2, 2, 2}))
	assert.Greater(t, Bandwidth([]float64{1, 2, 3, 4}), 0.0)
}

func TestNormalQQ(t *testing.T) {
	x := []float64{3, 1, 2}
	qq, err := NormalQQ(x)
	require.Nil(t, err)
	assert.Equal(t, []float64{1, 2, 3}, qq.Sample)
	assert.InDelta(t, -0.674490, qq.Theoretical[0], 1e-6)
	assert.InDelta(t, 0.0, qq.Theoretical[1], 1e-9)
	assert.InDelta(t, 0.674490, qq.Theoretical[2], 1e-6)
	assert.InDelta(t, 2.0, qq.Intercept, 1e-9)
	assert.InDelta(t, 1.0/0.674490, qq.Slope, 1e-5)
	assert.InDeltaSlice(t, []float64{1, 2, 3}, qq.Reference, 1e-9)
	assert.InDelta(t, 1.0, qq.R2, 1e-9)
	assert.Equal(t, []float64{3, 1, 2}, x, "input is not mutated")

	_, err = NormalQQ([]float64{1})
	assert.ErrorIs(t, err, ErrNoData)

	// a skewed sample bends away from its reference line
	qq, err = NormalQQ([]float64{1, 2, 3, 4, 40})
	require.Nil(t, err)
	require.Len(t, qq.Reference, 5)
	assert.Less(t, qq.R2, 0.9)
	assert.Greater(t, qq.R2, 0.0)
	for i, q := range qq.Theoretical {
		assert.InDelta(t, qq.Intercept+qq.Slope*q, qq.Reference[i], 1e-9)
	}
}
