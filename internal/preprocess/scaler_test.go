package preprocess

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

func TestStandardScalerNormalizesTrainingColumns(t *testing.T) {
	rng := rand.New(rand.NewSource(5))
	rows, cols := 200, 8
	x := mat.NewDense(rows, cols, nil)
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			x.Set(i, j, 3.0+2.5*rng.NormFloat64())
		}
	}

	var scaler StandardScaler
	scaled, err := scaler.FitTransform(x)
	require.NoError(t, err)

	col := make([]float64, rows)
	for j := 0; j < cols; j++ {
		mat.Col(col, j, scaled)
		m, sd := stat.MeanStdDev(col, nil)
		assert.InDelta(t, 0, m, 1e-9, "column %d mean", j)
		assert.InDelta(t, 1, sd, 1e-9, "column %d std", j)
	}
}

func TestStandardScalerAppliesTrainMomentsToTest(t *testing.T) {
	train := mat.NewDense(4, 1, []float64{0, 2, 4, 6})
	test := mat.NewDense(2, 1, []float64{3, 9})

	var scaler StandardScaler
	require.NoError(t, scaler.Fit(train))

	out, err := scaler.Transform(test)
	require.NoError(t, err)

	// train mean 3, sample std sqrt(20/3)
	sd := math.Sqrt(20.0 / 3.0)
	assert.InDelta(t, 0, out.At(0, 0), 1e-12)
	assert.InDelta(t, 6/sd, out.At(1, 0), 1e-12)
}

func TestStandardScalerConstantColumn(t *testing.T) {
	x := mat.NewDense(3, 1, []float64{5, 5, 5})

	var scaler StandardScaler
	out, err := scaler.FitTransform(x)
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		v := out.At(i, 0)
		assert.False(t, math.IsNaN(v) || math.IsInf(v, 0), "row %d not finite: %f", i, v)
	}
}

func TestStandardScalerErrors(t *testing.T) {
	var scaler StandardScaler
	_, err := scaler.Transform(mat.NewDense(1, 2, nil))
	assert.Error(t, err, "transform before fit")

	require.NoError(t, scaler.Fit(mat.NewDense(3, 2, []float64{1, 2, 3, 4, 5, 6})))
	_, err = scaler.Transform(mat.NewDense(2, 3, nil))
	assert.Error(t, err, "column mismatch")
}
