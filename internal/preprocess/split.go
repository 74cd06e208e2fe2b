// Package preprocess holds the two steps between generation and training:
// a stratified train/test split and per-gene standardization fit on the
// training partition only.
package preprocess

import (
	"fmt"
	"math"
	"math/rand"
	"sort"

	"gonum.org/v1/gonum/mat"
)

// Split is a stratified train/test partition.
type Split struct {
	TrainX *mat.Dense
	TrainY []int
	TestX  *mat.Dense
	TestY  []int
}

// StratifiedSplit partitions (x, y) so each class keeps its proportion in
// both subsets. Every non-empty class contributes at least one test sample
// and at least one train sample when it has two or more members.
func StratifiedSplit(x *mat.Dense, y []int, testFraction float64, seed int64) (*Split, error) {
	rows, cols := x.Dims()
	if rows != len(y) {
		return nil, fmt.Errorf("preprocess: %d rows but %d labels", rows, len(y))
	}
	if testFraction <= 0 || testFraction >= 1 {
		return nil, fmt.Errorf("preprocess: test fraction %g outside (0, 1)", testFraction)
	}

	byClass := make(map[int][]int)
	for i, label := range y {
		byClass[label] = append(byClass[label], i)
	}
	classes := make([]int, 0, len(byClass))
	for c := range byClass {
		classes = append(classes, c)
	}
	sort.Ints(classes)

	rng := rand.New(rand.NewSource(seed))
	var trainIdx, testIdx []int
	for _, c := range classes {
		members := byClass[c]
		rng.Shuffle(len(members), func(i, j int) {
			members[i], members[j] = members[j], members[i]
		})
		nTest := int(math.Round(testFraction * float64(len(members))))
		if nTest < 1 {
			nTest = 1
		}
		if nTest >= len(members) {
			nTest = len(members) - 1
		}
		if nTest < 1 {
			// singleton class: keep it in train
			trainIdx = append(trainIdx, members...)
			continue
		}
		testIdx = append(testIdx, members[:nTest]...)
		trainIdx = append(trainIdx, members[nTest:]...)
	}
	sort.Ints(trainIdx)
	sort.Ints(testIdx)

	if len(trainIdx) == 0 || len(testIdx) == 0 {
		return nil, fmt.Errorf("preprocess: degenerate split (%d train, %d test)", len(trainIdx), len(testIdx))
	}

	return &Split{
		TrainX: takeRows(x, trainIdx, cols),
		TrainY: takeLabels(y, trainIdx),
		TestX:  takeRows(x, testIdx, cols),
		TestY:  takeLabels(y, testIdx),
	}, nil
}

func takeRows(x *mat.Dense, idx []int, cols int) *mat.Dense {
	out := mat.NewDense(len(idx), cols, nil)
	for i, src := range idx {
		out.SetRow(i, x.RawRowView(src))
	}
	return out
}

func takeLabels(y []int, idx []int) []int {
	out := make([]int, len(idx))
	for i, src := range idx {
		out[i] = y[src]
	}
	return out
}
