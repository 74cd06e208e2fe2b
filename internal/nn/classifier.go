package nn

import (
	"math"
	"math/rand"

	"gonum.org/v1/gonum/mat"
)

// Classifier maps latent features to class logits through one hidden layer.
type Classifier struct {
	fc1 *Dense
	fc2 *Dense
	act *ReLU

	opt     *Adam
	classes int
}

// NewClassifier constructs the network with a seeded initialization.
func NewClassifier(latent, hidden, classes int, lr float64, seed int64) *Classifier {
	rng := rand.New(rand.NewSource(seed))
	c := &Classifier{
		fc1:     NewDense(latent, hidden, rng),
		fc2:     NewDense(hidden, classes, rng),
		act:     &ReLU{},
		classes: classes,
	}
	var params []*param
	params = append(params, c.fc1.params()...)
	params = append(params, c.fc2.params()...)
	c.opt = NewAdam(lr, params)
	return c
}

// Classes returns the output width.
func (c *Classifier) Classes() int {
	return c.classes
}

// TrainStep runs one full-batch softmax cross-entropy step and returns the
// mean loss before the update.
func (c *Classifier) TrainStep(x *mat.Dense, labels []int) float64 {
	logits := c.fc2.Forward(c.act.Forward(c.fc1.Forward(x)))
	rows, _ := logits.Dims()
	n := float64(rows)

	grad := mat.NewDense(rows, c.classes, nil)
	totalLoss := 0.0
	for i := 0; i < rows; i++ {
		probs := softmax(logits.RawRowView(i))
		label := labels[i]
		totalLoss += -math.Log(math.Max(probs[label], 1e-9))

		probs[label] -= 1
		dst := grad.RawRowView(i)
		for j := range probs {
			dst[j] = probs[j] / n
		}
	}

	g := c.fc2.Backward(grad)
	g = c.act.Backward(g)
	c.fc1.Backward(g)

	c.opt.Step()
	return totalLoss / n
}

// Logits runs a plain forward pass.
func (c *Classifier) Logits(x *mat.Dense) *mat.Dense {
	var act ReLU
	return c.fc2.Forward(act.Forward(c.fc1.Forward(x)))
}

// Predict returns the argmax class per row.
func (c *Classifier) Predict(x *mat.Dense) []int {
	logits := c.Logits(x)
	rows, _ := logits.Dims()
	out := make([]int, rows)
	for i := 0; i < rows; i++ {
		row := logits.RawRowView(i)
		best := 0
		for j := 1; j < len(row); j++ {
			if row[j] > row[best] {
				best = j
			}
		}
		out[i] = best
	}
	return out
}

func softmax(logits []float64) []float64 {
	maxLogit := logits[0]
	for _, v := range logits {
		if v > maxLogit {
			maxLogit = v
		}
	}
	sum := 0.0
	out := make([]float64, len(logits))
	for i, v := range logits {
		exp := math.Exp(v - maxLogit)
		out[i] = exp
		sum += exp
	}
	inv := 1.0 / sum
	for i := range out {
		out[i] *= inv
	}
	return out
}
