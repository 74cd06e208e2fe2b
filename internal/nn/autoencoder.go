package nn

import (
	"math/rand"

	"gonum.org/v1/gonum/mat"
)

// Autoencoder compresses genes -> hidden -> latent and reconstructs back
// through a mirrored decoder.
type Autoencoder struct {
	enc1 *Dense
	enc2 *Dense
	dec1 *Dense
	dec2 *Dense

	encAct *ReLU
	decAct *ReLU

	opt *Adam
}

// NewAutoencoder constructs the network with a seeded initialization.
func NewAutoencoder(genes, hidden, latent int, lr float64, seed int64) *Autoencoder {
	rng := rand.New(rand.NewSource(seed))
	a := &Autoencoder{
		enc1:   NewDense(genes, hidden, rng),
		enc2:   NewDense(hidden, latent, rng),
		dec1:   NewDense(latent, hidden, rng),
		dec2:   NewDense(hidden, genes, rng),
		encAct: &ReLU{},
		decAct: &ReLU{},
	}
	var params []*param
	for _, layer := range []*Dense{a.enc1, a.enc2, a.dec1, a.dec2} {
		params = append(params, layer.params()...)
	}
	a.opt = NewAdam(lr, params)
	return a
}

// TrainStep runs one full-batch reconstruction step and returns the mean
// squared error before the update.
func (a *Autoencoder) TrainStep(x *mat.Dense) float64 {
	h := a.encAct.Forward(a.enc1.Forward(x))
	z := a.enc2.Forward(h)
	h2 := a.decAct.Forward(a.dec1.Forward(z))
	out := a.dec2.Forward(h2)

	rows, cols := out.Dims()
	n := float64(rows * cols)

	var diff mat.Dense
	diff.Sub(out, x)

	loss := 0.0
	data := diff.RawMatrix().Data
	for _, v := range data {
		loss += v * v
	}
	loss /= n

	grad := mat.NewDense(rows, cols, nil)
	grad.Scale(2/n, &diff)

	g := a.dec2.Backward(grad)
	g = a.decAct.Backward(g)
	g = a.dec1.Backward(g)
	g = a.enc2.Backward(g)
	g = a.encAct.Backward(g)
	a.enc1.Backward(g)

	a.opt.Step()
	return loss
}

// Encode runs the encoder half only. No gradients are recorded; the result
// is the frozen latent embedding downstream stages consume.
func (a *Autoencoder) Encode(x *mat.Dense) *mat.Dense {
	var act ReLU
	h := act.Forward(a.enc1.Forward(x))
	return a.enc2.Forward(h)
}
