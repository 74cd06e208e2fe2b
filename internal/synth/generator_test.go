package synth

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func testParams() Params {
	return Params{
		Samples:     120,
		Genes:       600,
		Classes:     3,
		SignalGenes: 50,
		SignalShift: 2.5,
		Seed:        42,
		Workers:     4,
	}
}

func TestGenerateShapes(t *testing.T) {
	ds, err := Generate(context.Background(), testParams())
	require.NoError(t, err)

	rows, cols := ds.Dims()
	assert.Equal(t, 120, rows)
	assert.Equal(t, 600, cols)
	require.Len(t, ds.Labels, 120)
	for _, label := range ds.Labels {
		assert.GreaterOrEqual(t, label, 0)
		assert.Less(t, label, 3)
	}
}

func TestGenerateDeterministicAcrossWorkerCounts(t *testing.T) {
	p := testParams()

	p.Workers = 1
	a, err := Generate(context.Background(), p)
	require.NoError(t, err)

	p.Workers = 8
	b, err := Generate(context.Background(), p)
	require.NoError(t, err)

	assert.Equal(t, a.Labels, b.Labels)
	assert.True(t, mat.Equal(a.Features, b.Features), "feature matrices differ across worker counts")
}

func TestSignalBlocksAreElevated(t *testing.T) {
	p := testParams()
	ds, err := Generate(context.Background(), p)
	require.NoError(t, err)

	for class := 0; class < p.Classes; class++ {
		lo, hi, err := ds.SignalBlock(class)
		require.NoError(t, err)

		inMean, inCount := 0.0, 0
		outMean, outCount := 0.0, 0
		for i, label := range ds.Labels {
			row := ds.Features.RawRowView(i)
			sum := 0.0
			for j := lo; j < hi; j++ {
				sum += row[j]
			}
			blockMean := sum / float64(hi-lo)
			if label == class {
				inMean += blockMean
				inCount++
			} else {
				outMean += blockMean
				outCount++
			}
		}
		require.Positive(t, inCount, "class %d has no samples", class)
		inMean /= float64(inCount)
		outMean /= float64(outCount)

		assert.Greater(t, inMean, outMean+1.0,
			"class %d block not elevated: in=%f out=%f", class, inMean, outMean)
	}
}

func TestSignalBlocksDisjoint(t *testing.T) {
	p := testParams()
	ds, err := Generate(context.Background(), p)
	require.NoError(t, err)

	seen := map[int]int{}
	for class := 0; class < p.Classes; class++ {
		lo, hi, err := ds.SignalBlock(class)
		require.NoError(t, err)
		assert.Equal(t, p.SignalGenes, hi-lo)
		for j := lo; j < hi; j++ {
			prev, dup := seen[j]
			assert.False(t, dup, "column %d claimed by classes %d and %d", j, prev, class)
			seen[j] = class
		}
	}
}

func TestGenerateRejectsBadParams(t *testing.T) {
	cases := map[string]func(*Params){
		"zero samples":     func(p *Params) { p.Samples = 0 },
		"zero genes":       func(p *Params) { p.Genes = 0 },
		"one class":        func(p *Params) { p.Classes = 1 },
		"oversized blocks": func(p *Params) { p.SignalGenes = 300 },
	}
	for name, mutate := range cases {
		p := testParams()
		mutate(&p)
		_, err := Generate(context.Background(), p)
		assert.Error(t, err, name)
	}
}

func TestGenerateHonorsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p := testParams()
	p.Samples = 100000
	_, err := Generate(ctx, p)
	assert.ErrorIs(t, err, context.Canceled)
}
