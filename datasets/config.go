package datasets

import (
	"math"
	"os"

	"github.com/pkg/errors"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// Split names a partition of the capture frames.
type Split string

const (
	SplitTrain = Split("train")
	SplitTest  = Split("test")
)

// ParseSplit converts a name into a Split.
func ParseSplit(name string) (Split, error) {
	switch s := Split(name); s {
	case SplitTrain, SplitTest:
		return s, nil
	default:
		return "", errors.Wrapf(ErrInvalidConfiguration, "unknown split %q", name)
	}
}

// Config holds everything needed to build a MultiView dataset. It is passed
// by value and validated once by New.
type Config struct {
	// Path is the capture root directory.
	Path string

	// Device is handed through to consumers untouched, e.g. "cuda".
	Device any

	Split Split

	// DownsampleFactor divides focal lengths, principal points and image
	// sizes. 1 keeps full resolution. Images themselves are not resampled.
	DownsampleFactor float64

	// TestSplitInterval puts every n-th frame, starting with the first, in
	// the test split.
	TestSplitInterval int

	// RayJitter is an optional augmentation policy, stored but never called.
	RayJitter any

	// Logger defaults to a no-op logger.
	Logger *zap.SugaredLogger
}

// DefaultConfig returns a train-split, full-resolution configuration with a
// test interval of 8.
func DefaultConfig(path string) Config {
	return Config{
		Path:              path,
		Device:            "cuda",
		Split:             SplitTrain,
		DownsampleFactor:  1,
		TestSplitInterval: 8,
	}
}

// Validate reports every problem with the configuration at once. Each
// combined error wraps ErrInvalidConfiguration or ErrPathNotFound.
func (c Config) Validate() error {
	var err error
	if _, perr := ParseSplit(string(c.Split)); perr != nil {
		err = multierr.Append(err, perr)
	}
	if !(c.DownsampleFactor > 0) || math.IsInf(c.DownsampleFactor, 0) {
		err = multierr.Append(err, errors.Wrapf(ErrInvalidConfiguration,
			"downsample factor must be positive and finite, got %v", c.DownsampleFactor))
	}
	if c.TestSplitInterval <= 0 {
		err = multierr.Append(err, errors.Wrapf(ErrInvalidConfiguration,
			"test split interval must be positive, got %d", c.TestSplitInterval))
	}
	if perr := checkReadableDir(c.Path); perr != nil {
		err = multierr.Append(err, perr)
	}
	return err
}

func (c Config) logger() *zap.SugaredLogger {
	if c.Logger == nil {
		return zap.NewNop().Sugar()
	}
	return c.Logger
}

func checkReadableDir(path string) error {
	if path == "" {
		return errors.Wrap(ErrPathNotFound, "empty capture path")
	}
	info, err := os.Stat(path)
	if err != nil {
		return errors.Wrapf(ErrPathNotFound, "%s: %v", path, err)
	}
	if !info.IsDir() {
		return errors.Wrapf(ErrPathNotFound, "%s is not a directory", path)
	}
	//nolint:gosec
	f, err := os.Open(path)
	if err != nil {
		return errors.Wrapf(ErrPathNotFound, "%s: %v", path, err)
	}
	if _, err := f.Readdirnames(1); err != nil && !isEOF(err) {
		_ = f.Close()
		return errors.Wrapf(ErrPathNotFound, "%s is not readable: %v", path, err)
	}
	return f.Close()
}
