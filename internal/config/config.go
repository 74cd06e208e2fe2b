package config

import (
	"errors"
	"fmt"
	"os"
	"runtime"

	"gopkg.in/yaml.v3"
)

// Config captures the runtime knobs for a pipeline run.
type Config struct {
	Samples          int     `yaml:"samples"`
	Genes            int     `yaml:"genes"`
	Classes          int     `yaml:"classes"`
	SignalGenes      int     `yaml:"signal_genes"`
	SignalShift      float64 `yaml:"signal_shift"`
	LatentDim        int     `yaml:"latent_dim"`
	HiddenDim        int     `yaml:"hidden_dim"`
	ClassifierHidden int     `yaml:"classifier_hidden"`
	AEEpochs         int     `yaml:"ae_epochs"`
	ClfEpochs        int     `yaml:"clf_epochs"`
	LearningRate     float64 `yaml:"learning_rate"`
	TestFraction     float64 `yaml:"test_fraction"`
	Seed             int64   `yaml:"seed"`
	Workers          int     `yaml:"workers"`
	OutDir           string  `yaml:"out_dir"`
	LogEvery         int     `yaml:"log_every"`
}

// Overrides captures CLI supplied values.
type Overrides struct {
	Samples   int
	Genes     int
	Classes   int
	LatentDim int
	AEEpochs  int
	ClfEpochs int
	Seed      int64
	Workers   int
	OutDir    string
	LogEvery  int
}

// Default returns the configuration used when no YAML file is supplied.
func Default() *Config {
	return &Config{
		Samples:          1000,
		Genes:            10000,
		Classes:          3,
		SignalGenes:      100,
		SignalShift:      2.5,
		LatentDim:        64,
		HiddenDim:        512,
		ClassifierHidden: 32,
		AEEpochs:         10,
		ClfEpochs:        10,
		LearningRate:     1e-2,
		TestFraction:     0.2,
		Seed:             42,
		Workers:          runtime.NumCPU(),
		OutDir:           "out",
		LogEvery:         1,
	}
}

// Load reads and validates a Config from YAML. Keys absent from the file
// keep their default value.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// ApplyOverrides updates cfg using any non-zero override.
func (c *Config) ApplyOverrides(o Overrides) {
	if o.Samples > 0 {
		c.Samples = o.Samples
	}
	if o.Genes > 0 {
		c.Genes = o.Genes
	}
	if o.Classes > 0 {
		c.Classes = o.Classes
	}
	if o.LatentDim > 0 {
		c.LatentDim = o.LatentDim
	}
	if o.AEEpochs > 0 {
		c.AEEpochs = o.AEEpochs
	}
	if o.ClfEpochs > 0 {
		c.ClfEpochs = o.ClfEpochs
	}
	if o.Seed != 0 {
		c.Seed = o.Seed
	}
	if o.Workers > 0 {
		c.Workers = o.Workers
	}
	if o.OutDir != "" {
		c.OutDir = o.OutDir
	}
	if o.LogEvery > 0 {
		c.LogEvery = o.LogEvery
	}
}

// Validate verifies the config describes a runnable pipeline.
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}
	if c.Samples <= 0 {
		return fmt.Errorf("samples must be > 0 (got %d)", c.Samples)
	}
	if c.Genes <= 0 {
		return fmt.Errorf("genes must be > 0 (got %d)", c.Genes)
	}
	if c.Classes <= 1 {
		return fmt.Errorf("classes must be > 1 (got %d)", c.Classes)
	}
	if c.SignalGenes <= 0 {
		return fmt.Errorf("signal_genes must be > 0 (got %d)", c.SignalGenes)
	}
	if c.Classes*c.SignalGenes > c.Genes {
		return fmt.Errorf("signal blocks exceed gene count: %d classes * %d signal genes > %d genes",
			c.Classes, c.SignalGenes, c.Genes)
	}
	if c.LatentDim <= 0 {
		return fmt.Errorf("latent_dim must be > 0 (got %d)", c.LatentDim)
	}
	if c.HiddenDim <= 0 {
		return fmt.Errorf("hidden_dim must be > 0 (got %d)", c.HiddenDim)
	}
	if c.ClassifierHidden <= 0 {
		return fmt.Errorf("classifier_hidden must be > 0 (got %d)", c.ClassifierHidden)
	}
	if c.AEEpochs <= 0 || c.ClfEpochs <= 0 {
		return fmt.Errorf("epoch counts must be > 0 (got ae=%d clf=%d)", c.AEEpochs, c.ClfEpochs)
	}
	if c.LearningRate <= 0 {
		return fmt.Errorf("learning_rate must be > 0 (got %g)", c.LearningRate)
	}
	if c.TestFraction <= 0 || c.TestFraction >= 1 {
		return fmt.Errorf("test_fraction must be in (0, 1) (got %g)", c.TestFraction)
	}
	if c.Workers <= 0 {
		c.Workers = 1
	}
	if c.LogEvery <= 0 {
		c.LogEvery = 1
	}
	if c.OutDir == "" {
		c.OutDir = "out"
	}
	return nil
}
