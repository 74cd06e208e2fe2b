package nn

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

// separable builds points clustered around one corner of the cube per class.
func separable(n, dims, classes int, seed int64) (*mat.Dense, []int) {
	rng := rand.New(rand.NewSource(seed))
	x := mat.NewDense(n, dims, nil)
	y := make([]int, n)
	for i := 0; i < n; i++ {
		c := rng.Intn(classes)
		y[i] = c
		for j := 0; j < dims; j++ {
			center := 0.0
			if j%classes == c {
				center = 3.0
			}
			x.Set(i, j, center+0.3*rng.NormFloat64())
		}
	}
	return x, y
}

func TestClassifierLearnsSeparableClusters(t *testing.T) {
	x, y := separable(90, 6, 3, 5)
	clf := NewClassifier(6, 16, 3, 1e-2, 42)

	first := clf.TrainStep(x, y)
	require.False(t, math.IsNaN(first) || math.IsInf(first, 0))
	last := first
	for i := 0; i < 100; i++ {
		last = clf.TrainStep(x, y)
	}
	assert.Less(t, last, first)

	pred := clf.Predict(x)
	correct := 0
	for i := range y {
		if pred[i] == y[i] {
			correct++
		}
	}
	assert.Greater(t, float64(correct)/float64(len(y)), 0.9,
		"training accuracy %d/%d too low", correct, len(y))
}

func TestClassifierLogitsShapeAndPredictRange(t *testing.T) {
	clf := NewClassifier(4, 8, 3, 1e-3, 1)
	x := randomMatrix(12, 4, 6)

	logits := clf.Logits(x)
	rows, cols := logits.Dims()
	assert.Equal(t, 12, rows)
	assert.Equal(t, 3, cols)

	for _, p := range clf.Predict(x) {
		assert.GreaterOrEqual(t, p, 0)
		assert.Less(t, p, 3)
	}
}

func TestClassifierSeedReproducibility(t *testing.T) {
	x, y := separable(30, 4, 2, 8)

	a := NewClassifier(4, 8, 2, 1e-3, 17)
	b := NewClassifier(4, 8, 2, 1e-3, 17)

	assert.Equal(t, a.TrainStep(x, y), b.TrainStep(x, y))
}
