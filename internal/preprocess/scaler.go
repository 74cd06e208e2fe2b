package preprocess

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// stdFloor guards constant columns against division by zero.
const stdFloor = 1e-8

// StandardScaler standardizes columns to zero mean and unit variance using
// moments estimated from the training partition.
type StandardScaler struct {
	mean []float64
	std  []float64
}

// Fit estimates per-column mean and standard deviation from x.
func (s *StandardScaler) Fit(x *mat.Dense) error {
	rows, cols := x.Dims()
	if rows < 2 {
		return fmt.Errorf("preprocess: need at least 2 rows to fit scaler (got %d)", rows)
	}
	s.mean = make([]float64, cols)
	s.std = make([]float64, cols)
	col := make([]float64, rows)
	for j := 0; j < cols; j++ {
		mat.Col(col, j, x)
		m, sd := stat.MeanStdDev(col, nil)
		if sd < stdFloor {
			sd = stdFloor
		}
		s.mean[j] = m
		s.std[j] = sd
	}
	return nil
}

// Transform returns a standardized copy of x using the fitted moments.
func (s *StandardScaler) Transform(x *mat.Dense) (*mat.Dense, error) {
	if s.mean == nil {
		return nil, errors.New("preprocess: scaler not fitted")
	}
	rows, cols := x.Dims()
	if cols != len(s.mean) {
		return nil, fmt.Errorf("preprocess: scaler fitted on %d columns, input has %d", len(s.mean), cols)
	}
	out := mat.NewDense(rows, cols, nil)
	for i := 0; i < rows; i++ {
		src := x.RawRowView(i)
		dst := out.RawRowView(i)
		for j := 0; j < cols; j++ {
			dst[j] = (src[j] - s.mean[j]) / s.std[j]
		}
	}
	return out, nil
}

// FitTransform fits on x and returns its standardized copy.
func (s *StandardScaler) FitTransform(x *mat.Dense) (*mat.Dense, error) {
	if err := s.Fit(x); err != nil {
		return nil, err
	}
	return s.Transform(x)
}
