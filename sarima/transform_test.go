package sarima

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConstrainStable(t *testing.T) {
	testData := map[string]struct {
		z        []float64
		expected []float64
	}{
		"empty":  {z: []float64{}, expected: []float64{}},
		"zero":   {z: []float64{0, 0}, expected: []float64{0, 0}},
		"capped": {z: []float64{100}, expected: []float64{1}},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			assert.InDeltaSlice(t, td.expected, constrainStable(td.z), 1e-12)
		})
	}

	r := rand.New(rand.NewPCG(1, 2))
	for range 200 {
		z := make([]float64, 1+r.IntN(4))
		for i := range z {
			z[i] = 5*r.Float64() - 2.5
		}
		c := constrainStable(z)
		assert.True(t, isStable(lagPolynomial(c, 1, -1)), "z=%v c=%v", z, c)
		assert.InDeltaSlice(t, z, unconstrainStable(c), 1e-8)
	}
}

func TestStructureConstrain(t *testing.T) {
	st := structure{p: 2, sp: 1, q: 1, sq: 1, period: 12}
	params := []float64{0.5, -0.3, 0.4, -0.6, 0.2}

	z := st.unconstrain(params)
	assert.Len(t, z, 5)
	assert.InDeltaSlice(t, params, st.constrain(z), 1e-12)
	assert.True(t, st.stable(st.constrain(z), true, true))

	// a non-invertible start is pulled inside the unit circle
	inside := st.constrain(st.unconstrain([]float64{0, 0, 0, -1.5, 0}))
	assert.InDelta(t, -maxInitialPartial, inside[3], 1e-12)
}
