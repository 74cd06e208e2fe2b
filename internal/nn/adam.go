package nn

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// Adam holds first and second moment estimates per parameter with bias
// correction, standard betas.
type Adam struct {
	lr    float64
	beta1 float64
	beta2 float64
	eps   float64

	t      int
	params []*param
	m      []*mat.Dense
	v      []*mat.Dense
}

// NewAdam builds an optimizer over params with defaults beta1=0.9,
// beta2=0.999, eps=1e-8.
func NewAdam(lr float64, params []*param) *Adam {
	a := &Adam{
		lr:     lr,
		beta1:  0.9,
		beta2:  0.999,
		eps:    1e-8,
		params: params,
	}
	for _, p := range params {
		rows, cols := p.value.Dims()
		a.m = append(a.m, mat.NewDense(rows, cols, nil))
		a.v = append(a.v, mat.NewDense(rows, cols, nil))
	}
	return a
}

// Step applies one update using the gradients currently stored on each
// parameter.
func (a *Adam) Step() {
	a.t++
	c1 := 1 - math.Pow(a.beta1, float64(a.t))
	c2 := 1 - math.Pow(a.beta2, float64(a.t))

	for k, p := range a.params {
		value := p.value.RawMatrix().Data
		grad := p.grad.RawMatrix().Data
		m := a.m[k].RawMatrix().Data
		v := a.v[k].RawMatrix().Data
		for i := range value {
			g := grad[i]
			m[i] = a.beta1*m[i] + (1-a.beta1)*g
			v[i] = a.beta2*v[i] + (1-a.beta2)*g*g
			mHat := m[i] / c1
			vHat := v[i] / c2
			value[i] -= a.lr * mHat / (math.Sqrt(vHat) + a.eps)
		}
	}
}
