package main

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"genelatent/internal/config"
	"genelatent/internal/pipeline"
)

var version = "dev"

var (
	cfgPath   string
	verbose   bool
	samples   int
	genes     int
	classes   int
	latentDim int
	aeEpochs  int
	clfEpochs int
	seed      int64
	workers   int
	outDir    string
	logEvery  int

	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "genelatent",
	Short: "Synthetic gene-expression latent-representation pipeline",
	Long: `genelatent simulates high-dimensional gene expression data with
class-conditional signal blocks, compresses it with an autoencoder, trains a
classifier on the frozen latent embedding, and reports precision/recall/F1
alongside a confusion-matrix heatmap and a 2-D PCA scatter.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		zcfg := zap.NewProductionConfig()
		zcfg.Encoding = "console"
		zcfg.OutputPaths = []string{"stderr"}
		zcfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
		if verbose {
			zcfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = zcfg.Build()
		if err != nil {
			return fmt.Errorf("init logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Execute the full pipeline once",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Default()
		if cfgPath != "" {
			loaded, err := config.Load(cfgPath)
			if err != nil {
				return err
			}
			cfg = loaded
		}
		cfg.ApplyOverrides(config.Overrides{
			Samples:   samples,
			Genes:     genes,
			Classes:   classes,
			LatentDim: latentDim,
			AEEpochs:  aeEpochs,
			ClfEpochs: clfEpochs,
			Seed:      seed,
			Workers:   workers,
			OutDir:    outDir,
			LogEvery:  logEvery,
		})
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid config: %w", err)
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		res, err := pipeline.Run(ctx, logger, cfg)
		if err != nil {
			return err
		}

		fmt.Print(res.Report.String())

		if err := os.MkdirAll(cfg.OutDir, 0o755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
		outputs := map[string]string{
			"report.txt":    res.Report.String(),
			"confusion.svg": res.ConfusionSVG,
			"pca.svg":       res.ScatterSVG,
		}
		for name, content := range outputs {
			path := filepath.Join(cfg.OutDir, name)
			if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
				return fmt.Errorf("write %s: %w", name, err)
			}
		}
		logger.Info("run complete", zap.String("out_dir", cfg.OutDir))
		return nil
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the build version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(version)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	runCmd.Flags().StringVar(&cfgPath, "config", "", "Path to YAML config (defaults used when empty)")
	runCmd.Flags().IntVar(&samples, "samples", 0, "Override sample count")
	runCmd.Flags().IntVar(&genes, "genes", 0, "Override gene count")
	runCmd.Flags().IntVar(&classes, "classes", 0, "Override class count")
	runCmd.Flags().IntVar(&latentDim, "latent-dim", 0, "Override latent dimension")
	runCmd.Flags().IntVar(&aeEpochs, "ae-epochs", 0, "Override autoencoder epochs")
	runCmd.Flags().IntVar(&clfEpochs, "clf-epochs", 0, "Override classifier epochs")
	runCmd.Flags().Int64Var(&seed, "seed", 0, "PRNG seed")
	runCmd.Flags().IntVar(&workers, "workers", 0, "Generator worker count")
	runCmd.Flags().StringVar(&outDir, "out-dir", "", "Directory for report and plots")
	runCmd.Flags().IntVar(&logEvery, "log-every", 0, "Log every N epochs")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
