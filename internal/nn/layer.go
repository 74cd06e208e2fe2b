// Package nn implements the two small feed-forward networks the pipeline
// trains: an autoencoder for latent compression and a classifier over the
// latent features. Training is full-batch gradient descent with Adam.
package nn

import (
	"math"
	"math/rand"

	"gonum.org/v1/gonum/mat"
)

// param pairs a tensor with its gradient for the optimizer.
type param struct {
	value *mat.Dense
	grad  *mat.Dense
}

// Dense is a fully connected layer: out = x*W + b.
type Dense struct {
	w *mat.Dense // in x out
	b *mat.Dense // 1 x out

	gw *mat.Dense
	gb *mat.Dense

	in *mat.Dense // cached forward input
}

// NewDense builds a layer with Glorot-uniform weights and zero bias.
func NewDense(in, out int, rng *rand.Rand) *Dense {
	limit := math.Sqrt(6.0 / float64(in+out))
	weights := make([]float64, in*out)
	for i := range weights {
		weights[i] = (rng.Float64()*2 - 1) * limit
	}
	return &Dense{
		w:  mat.NewDense(in, out, weights),
		b:  mat.NewDense(1, out, nil),
		gw: mat.NewDense(in, out, nil),
		gb: mat.NewDense(1, out, nil),
	}
}

// Forward computes x*W + b and caches x for the backward pass.
func (d *Dense) Forward(x *mat.Dense) *mat.Dense {
	d.in = x
	rows, _ := x.Dims()
	_, out := d.w.Dims()

	y := mat.NewDense(rows, out, nil)
	y.Mul(x, d.w)
	bias := d.b.RawRowView(0)
	for i := 0; i < rows; i++ {
		row := y.RawRowView(i)
		for j := range row {
			row[j] += bias[j]
		}
	}
	return y
}

// Backward consumes the gradient w.r.t. the layer output, stores parameter
// gradients, and returns the gradient w.r.t. the layer input.
func (d *Dense) Backward(grad *mat.Dense) *mat.Dense {
	d.gw.Mul(d.in.T(), grad)

	rows, out := grad.Dims()
	gb := d.gb.RawRowView(0)
	for j := 0; j < out; j++ {
		gb[j] = 0
	}
	for i := 0; i < rows; i++ {
		row := grad.RawRowView(i)
		for j := range row {
			gb[j] += row[j]
		}
	}

	in, _ := d.w.Dims()
	gradIn := mat.NewDense(rows, in, nil)
	gradIn.Mul(grad, d.w.T())
	return gradIn
}

func (d *Dense) params() []*param {
	return []*param{
		{value: d.w, grad: d.gw},
		{value: d.b, grad: d.gb},
	}
}

// ReLU is the element-wise rectifier.
type ReLU struct {
	mask *mat.Dense
}

// Forward zeroes negative entries and remembers which survived.
func (r *ReLU) Forward(x *mat.Dense) *mat.Dense {
	rows, cols := x.Dims()
	if r.mask == nil {
		r.mask = mat.NewDense(rows, cols, nil)
	} else if mr, mc := r.mask.Dims(); mr != rows || mc != cols {
		r.mask = mat.NewDense(rows, cols, nil)
	}
	y := mat.NewDense(rows, cols, nil)
	for i := 0; i < rows; i++ {
		src := x.RawRowView(i)
		dst := y.RawRowView(i)
		msk := r.mask.RawRowView(i)
		for j := range src {
			if src[j] > 0 {
				dst[j] = src[j]
				msk[j] = 1
			} else {
				dst[j] = 0
				msk[j] = 0
			}
		}
	}
	return y
}

// Backward gates the incoming gradient by the forward mask.
func (r *ReLU) Backward(grad *mat.Dense) *mat.Dense {
	rows, cols := grad.Dims()
	out := mat.NewDense(rows, cols, nil)
	out.MulElem(grad, r.mask)
	return out
}
