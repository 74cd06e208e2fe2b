package nn

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func TestDenseForwardKnownValues(t *testing.T) {
	d := &Dense{
		w:  mat.NewDense(2, 2, []float64{1, 2, 3, 4}),
		b:  mat.NewDense(1, 2, []float64{0.5, -0.5}),
		gw: mat.NewDense(2, 2, nil),
		gb: mat.NewDense(1, 2, nil),
	}
	x := mat.NewDense(1, 2, []float64{1, 1})

	y := d.Forward(x)

	assert.InDelta(t, 4.5, y.At(0, 0), 1e-12)
	assert.InDelta(t, 5.5, y.At(0, 1), 1e-12)
}

func TestDenseBackwardMatchesFiniteDifference(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	d := NewDense(3, 2, rng)
	x := mat.NewDense(4, 3, nil)
	for i := 0; i < 4; i++ {
		for j := 0; j < 3; j++ {
			x.Set(i, j, rng.NormFloat64())
		}
	}

	// Scalar objective: sum of outputs. Its output gradient is all ones.
	objective := func() float64 {
		y := d.Forward(x)
		sum := 0.0
		rows, cols := y.Dims()
		for i := 0; i < rows; i++ {
			for j := 0; j < cols; j++ {
				sum += y.At(i, j)
			}
		}
		return sum
	}

	ones := mat.NewDense(4, 2, nil)
	for i := 0; i < 4; i++ {
		for j := 0; j < 2; j++ {
			ones.Set(i, j, 1)
		}
	}
	objective()
	d.Backward(ones)

	const eps = 1e-6
	for i := 0; i < 3; i++ {
		for j := 0; j < 2; j++ {
			orig := d.w.At(i, j)
			d.w.Set(i, j, orig+eps)
			plus := objective()
			d.w.Set(i, j, orig-eps)
			minus := objective()
			d.w.Set(i, j, orig)

			numeric := (plus - minus) / (2 * eps)
			assert.InDelta(t, numeric, d.gw.At(i, j), 1e-5, "dW[%d,%d]", i, j)
		}
	}
	for j := 0; j < 2; j++ {
		orig := d.b.At(0, j)
		d.b.Set(0, j, orig+eps)
		plus := objective()
		d.b.Set(0, j, orig-eps)
		minus := objective()
		d.b.Set(0, j, orig)

		numeric := (plus - minus) / (2 * eps)
		assert.InDelta(t, numeric, d.gb.At(0, j), 1e-5, "dB[%d]", j)
	}
}

func TestReLUForwardBackward(t *testing.T) {
	var r ReLU
	x := mat.NewDense(1, 4, []float64{-1, 0, 2, -3})

	y := r.Forward(x)
	assert.Equal(t, []float64{0, 0, 2, 0}, y.RawRowView(0))

	grad := mat.NewDense(1, 4, []float64{1, 1, 1, 1})
	back := r.Backward(grad)
	assert.Equal(t, []float64{0, 0, 1, 0}, back.RawRowView(0))
}

func TestSoftmaxIsStableDistribution(t *testing.T) {
	probs := softmax([]float64{1000, 1001, 1002})

	sum := 0.0
	for _, p := range probs {
		require.False(t, math.IsNaN(p) || math.IsInf(p, 0))
		sum += p
	}
	assert.InDelta(t, 1.0, sum, 1e-12)
	assert.Greater(t, probs[2], probs[1])
	assert.Greater(t, probs[1], probs[0])
}

func TestAdamMinimizesQuadratic(t *testing.T) {
	value := mat.NewDense(1, 1, []float64{5})
	grad := mat.NewDense(1, 1, nil)
	opt := NewAdam(0.1, []*param{{value: value, grad: grad}})

	for i := 0; i < 500; i++ {
		grad.Set(0, 0, 2*value.At(0, 0)) // d/dx x^2
		opt.Step()
	}

	assert.InDelta(t, 0, value.At(0, 0), 0.05)
}
