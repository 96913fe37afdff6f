// Command mvdata inspects multi-view captures: it loads a capture the way a
// training run would and reports splits, missing images and camera layout.
//
// Usage:
//
//	mvdata info  --path ./garden
//	mvdata split --path ./garden --split test --test-interval 8
//	mvdata check --path ./garden --split train
//	mvdata plot  --path ./garden --out output
//	mvdata catalog save    --path ./garden --db postgres://localhost:5432/mvdata
//	mvdata catalog compare --path ./garden --db postgres://localhost:5432/mvdata
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Noofbiz/mvdata/datasets"
)

// Version is the application version.
const Version = "0.1.0"

// Options holds the flags shared by every subcommand.
type Options struct {
	Path         string
	Format       string
	Split        string
	Downsample   float64
	TestInterval int
	Verbose      bool
}

var (
	opts   Options
	logger *zap.SugaredLogger
)

var rootCmd = &cobra.Command{
	Use:           "mvdata",
	Short:         "Inspect multi-view captures and their train/test splits",
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		l, err := newLogger(opts.Verbose)
		if err != nil {
			return errors.Wrap(err, "failed to create logger")
		}
		logger = l
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func newLogger(verbose bool) (*zap.SugaredLogger, error) {
	cfg := zap.NewProductionConfig()
	if verbose {
		cfg = zap.NewDevelopmentConfig()
	}
	cfg.OutputPaths = []string{"stderr"}
	l, err := cfg.Build()
	if err != nil {
		return nil, err
	}
	return l.Sugar(), nil
}

// config turns the shared flags into a dataset configuration.
func (o Options) config(l *zap.SugaredLogger) (datasets.Config, error) {
	split, err := datasets.ParseSplit(o.Split)
	if err != nil {
		return datasets.Config{}, err
	}
	cfg := datasets.DefaultConfig(o.Path)
	cfg.Split = split
	cfg.DownsampleFactor = o.Downsample
	cfg.TestSplitInterval = o.TestInterval
	cfg.Logger = l
	return cfg, nil
}

// loadDataset loads the capture named by the shared flags. An empty --path
// searches the usual locations.
func loadDataset() (*datasets.MultiView, error) {
	cfg, err := opts.config(logger)
	if err != nil {
		return nil, err
	}
	if cfg.Path == "" {
		return datasets.AutoLoad(cfg)
	}
	return datasets.Load(opts.Format, cfg)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rootCmd.SetVersionTemplate(`{{printf "%s\n" .Version}}`)

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&opts.Path, "path", "p", "", "capture root directory (default: search ., data, assets)")
	pf.StringVarP(&opts.Format, "format", "f", "colmap", "capture format tag")
	pf.StringVarP(&opts.Split, "split", "s", string(datasets.SplitTrain), "split to load: train or test")
	pf.Float64VarP(&opts.Downsample, "downsample", "d", 1, "intrinsics downsample factor")
	pf.IntVar(&opts.TestInterval, "test-interval", 8, "every n-th frame goes to the test split")
	pf.BoolVarP(&opts.Verbose, "verbose", "v", false, "development logging")
}
