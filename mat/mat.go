// Package mat builds gonum matrices from slices
package mat

import (
	"gonum.org/v1/gonum/mat"
)

// NewColumn returns x as a single column matrix
func NewColumn(x []float64) (*mat.Dense, error) {
	if len(x) == 0 {
		return nil, mat.ErrZeroLength
	}
	data := make([]float64, len(x))
	copy(data, x)
	return mat.NewDense(len(x), 1, data), nil
}
