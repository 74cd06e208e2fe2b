// Package trainer runs the two fixed-epoch, full-batch training loops.
// There is no validation split, no early stopping, and no loss threshold;
// each loop always runs its configured epoch count.
package trainer

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"go.uber.org/zap"
	"gonum.org/v1/gonum/mat"

	"genelatent/internal/metrics"
)

// Reconstructor is one full-batch reconstruction step.
type Reconstructor interface {
	TrainStep(x *mat.Dense) float64
}

// LabelLearner is one full-batch supervised step.
type LabelLearner interface {
	TrainStep(x *mat.Dense, labels []int) float64
}

// TrainAutoencoder trains m for exactly epochs passes over x and returns the
// per-epoch losses.
func TrainAutoencoder(ctx context.Context, log *zap.Logger, m Reconstructor, x *mat.Dense, epochs, logEvery int) ([]float64, error) {
	return run(ctx, log, "autoencoder", x, epochs, logEvery, func() float64 {
		return m.TrainStep(x)
	})
}

// TrainClassifier trains m for exactly epochs passes over (x, labels) and
// returns the per-epoch losses.
func TrainClassifier(ctx context.Context, log *zap.Logger, m LabelLearner, x *mat.Dense, labels []int, epochs, logEvery int) ([]float64, error) {
	rows, _ := x.Dims()
	if rows != len(labels) {
		return nil, fmt.Errorf("trainer: %d rows but %d labels", rows, len(labels))
	}
	return run(ctx, log, "classifier", x, epochs, logEvery, func() float64 {
		return m.TrainStep(x, labels)
	})
}

func run(ctx context.Context, log *zap.Logger, stage string, x *mat.Dense, epochs, logEvery int, step func() float64) ([]float64, error) {
	if epochs <= 0 {
		return nil, errors.New("trainer: epochs must be > 0")
	}
	if logEvery <= 0 {
		logEvery = 1
	}
	if log == nil {
		log = zap.NewNop()
	}

	rows, _ := x.Dims()
	losses := make([]float64, 0, epochs)
	var window metrics.Window

	for epoch := 1; epoch <= epochs; epoch++ {
		select {
		case <-ctx.Done():
			return losses, ctx.Err()
		default:
		}

		start := time.Now()
		loss := step()
		elapsed := time.Since(start)

		if math.IsNaN(loss) || math.IsInf(loss, 0) {
			return losses, fmt.Errorf("trainer: %s loss diverged at epoch %d (%f)", stage, epoch, loss)
		}
		losses = append(losses, loss)
		window.Record(rows, elapsed, loss)

		if epoch%logEvery == 0 || epoch == epochs {
			snap := window.Snapshot()
			log.Info("epoch complete",
				zap.String("stage", stage),
				zap.Int("epoch", epoch),
				zap.Float64("loss", snap.LastLoss),
				zap.Float64("samples_per_sec", snap.SamplesPerSec),
				zap.Float64("compute_ms", snap.AvgComputeMS),
			)
		}
	}
	return losses, nil
}
