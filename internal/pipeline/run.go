// Package pipeline wires the six stages end to end: generate, split and
// scale, train the autoencoder, extract latents, train the classifier,
// evaluate. Stages run strictly in order; any stage error aborts the run.
package pipeline

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"genelatent/internal/config"
	"genelatent/internal/eval"
	"genelatent/internal/nn"
	"genelatent/internal/preprocess"
	"genelatent/internal/synth"
	"genelatent/internal/trainer"
)

// Result collects everything a run produces.
type Result struct {
	Report    *eval.Report
	Confusion [][]int

	AELosses  []float64
	ClfLosses []float64

	ConfusionSVG string
	ScatterSVG   string
}

// Run executes the full pipeline for cfg.
func Run(ctx context.Context, log *zap.Logger, cfg *config.Config) (*Result, error) {
	if log == nil {
		log = zap.NewNop()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	log.Info("generating dataset",
		zap.Int("samples", cfg.Samples),
		zap.Int("genes", cfg.Genes),
		zap.Int("classes", cfg.Classes),
		zap.Int64("seed", cfg.Seed),
	)
	ds, err := synth.Generate(ctx, synth.Params{
		Samples:     cfg.Samples,
		Genes:       cfg.Genes,
		Classes:     cfg.Classes,
		SignalGenes: cfg.SignalGenes,
		SignalShift: cfg.SignalShift,
		Seed:        cfg.Seed,
		Workers:     cfg.Workers,
	})
	if err != nil {
		return nil, fmt.Errorf("generate dataset: %w", err)
	}

	split, err := preprocess.StratifiedSplit(ds.Features, ds.Labels, cfg.TestFraction, cfg.Seed)
	if err != nil {
		return nil, fmt.Errorf("split dataset: %w", err)
	}
	trainRows, _ := split.TrainX.Dims()
	testRows, _ := split.TestX.Dims()
	log.Info("split dataset", zap.Int("train", trainRows), zap.Int("test", testRows))

	var scaler preprocess.StandardScaler
	trainX, err := scaler.FitTransform(split.TrainX)
	if err != nil {
		return nil, fmt.Errorf("scale train partition: %w", err)
	}
	testX, err := scaler.Transform(split.TestX)
	if err != nil {
		return nil, fmt.Errorf("scale test partition: %w", err)
	}

	ae := nn.NewAutoencoder(cfg.Genes, cfg.HiddenDim, cfg.LatentDim, cfg.LearningRate, cfg.Seed)
	aeLosses, err := trainer.TrainAutoencoder(ctx, log, ae, trainX, cfg.AEEpochs, cfg.LogEvery)
	if err != nil {
		return nil, fmt.Errorf("train autoencoder: %w", err)
	}

	zTrain := ae.Encode(trainX)
	zTest := ae.Encode(testX)

	// Classifier seed is offset so its init does not replay the
	// autoencoder's weight stream.
	clf := nn.NewClassifier(cfg.LatentDim, cfg.ClassifierHidden, cfg.Classes, cfg.LearningRate, cfg.Seed+1)
	clfLosses, err := trainer.TrainClassifier(ctx, log, clf, zTrain, split.TrainY, cfg.ClfEpochs, cfg.LogEvery)
	if err != nil {
		return nil, fmt.Errorf("train classifier: %w", err)
	}

	pred := clf.Predict(zTest)
	cm, err := eval.ConfusionMatrix(split.TestY, pred, cfg.Classes)
	if err != nil {
		return nil, fmt.Errorf("confusion matrix: %w", err)
	}
	report := eval.NewReport(cm)
	log.Info("evaluation complete",
		zap.Float64("accuracy", report.Accuracy),
		zap.Float64("macro_f1", report.MacroF1),
	)

	proj, err := eval.Project2D(zTest)
	if err != nil {
		return nil, fmt.Errorf("project latents: %w", err)
	}
	scatter, err := eval.RenderScatter(proj, split.TestY)
	if err != nil {
		return nil, fmt.Errorf("render scatter: %w", err)
	}

	return &Result{
		Report:       report,
		Confusion:    cm,
		AELosses:     aeLosses,
		ClfLosses:    clfLosses,
		ConfusionSVG: eval.RenderConfusionHeatmap(cm),
		ScatterSVG:   scatter,
	}, nil
}
