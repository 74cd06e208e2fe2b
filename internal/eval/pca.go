package eval

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// Project2D projects z onto its first two principal components. The result
// feeds the scatter plot only; nothing downstream consumes it.
func Project2D(z *mat.Dense) (*mat.Dense, error) {
	rows, cols := z.Dims()
	if rows < 2 {
		return nil, fmt.Errorf("eval: need at least 2 samples for PCA (got %d)", rows)
	}
	if cols < 2 {
		return nil, fmt.Errorf("eval: need at least 2 dimensions for PCA (got %d)", cols)
	}

	var pc stat.PC
	if ok := pc.PrincipalComponents(z, nil); !ok {
		return nil, errors.New("eval: principal component decomposition failed")
	}

	var vec mat.Dense
	pc.VectorsTo(&vec)

	var proj mat.Dense
	proj.Mul(z, vec.Slice(0, cols, 0, 2))

	out := mat.NewDense(rows, 2, nil)
	out.Copy(&proj)
	return out, nil
}
