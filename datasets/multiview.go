package datasets

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/Noofbiz/mvdata/camera"
)

// MultiView is a capture directory loaded through a Format and narrowed to
// one split. All state is fixed by New, so Get may be called from many
// goroutines without locking.
type MultiView struct {
	cfg        Config
	format     Format
	logger     *zap.SugaredLogger
	intrinsics camera.Table
	records    []CaptureRecord
	totalCount int
}

// Load builds the format registered under tag and loads the dataset.
func Load(tag string, cfg Config) (*MultiView, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	f, err := NewFormat(tag, cfg)
	if err != nil {
		return nil, err
	}
	return New(cfg, f)
}

// New validates cfg and loads the capture: parse the camera model, resolve
// image paths, apply the split and re-index. Image files are not checked
// here; Get reports ErrMissingImage for the index concerned.
func New(cfg Config, f Format) (*MultiView, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if f == nil {
		return nil, errors.Wrap(ErrInvalidConfiguration, "nil format")
	}
	logger := cfg.logger()

	intrinsics, extrinsics, err := f.LoadIntrinsicsAndExtrinsics(cfg.Path)
	if err != nil {
		return nil, errors.Wrapf(err, "loading %s capture %s", f.Name(), cfg.Path)
	}
	for i, e := range extrinsics {
		if _, ok := intrinsics[e.CameraID]; !ok {
			return nil, errors.Wrapf(ErrInvalidConfiguration,
				"frame %d (%s) references unknown camera %d", i, e.Name, e.CameraID)
		}
	}
	if err := intrinsics.CheckValid(); err != nil {
		return nil, errors.Wrapf(ErrInvalidConfiguration, "%v", err)
	}

	folder := filepath.Join(cfg.Path, f.ImagesFolder())
	all := make([]CaptureRecord, len(extrinsics))
	for i, e := range extrinsics {
		all[i] = CaptureRecord{
			FrameIndex: i,
			FrameID:    e.FrameID,
			Name:       e.Name,
			CameraID:   e.CameraID,
			Extrinsics: e,
			ImagePath:  filepath.Join(folder, e.Name),
		}
	}

	records, err := Assign(all, cfg.Split, cfg.TestSplitInterval)
	if err != nil {
		return nil, err
	}

	logger.Infow("loaded capture",
		"format", f.Name(),
		"path", cfg.Path,
		"cameras", len(intrinsics),
		"frames", len(all),
		"split", cfg.Split,
		"split_frames", len(records),
		"downsample", cfg.DownsampleFactor,
	)
	if len(records) == 0 {
		logger.Warnw("split is empty", "split", cfg.Split, "test_interval", cfg.TestSplitInterval)
	}

	return &MultiView{
		cfg:        cfg,
		format:     f,
		logger:     logger,
		intrinsics: intrinsics.Scaled(cfg.DownsampleFactor),
		records:    records,
		totalCount: len(all),
	}, nil
}

// Len returns the number of frames in the active split.
func (d *MultiView) Len() int {
	return len(d.records)
}

// TotalFrames returns the number of frames across both splits.
func (d *MultiView) TotalFrames() int {
	return d.totalCount
}

// Get returns the i-th frame of the split with its scaled intrinsics. The
// image file is checked on every call.
func (d *MultiView) Get(i int) (Sample, error) {
	if i < 0 || i >= len(d.records) {
		return Sample{}, errors.Wrapf(ErrIndexOutOfRange, "index %d out of range [0, %d)", i, len(d.records))
	}
	rec := d.records[i]
	if err := checkImage(rec.ImagePath); err != nil {
		return Sample{}, errors.Wrapf(err, "index %d", i)
	}
	return Sample{
		CaptureRecord: rec,
		Intrinsics:    d.intrinsics[rec.CameraID].Clone(),
	}, nil
}

// Batch reads multiple samples by their indices. The first failure aborts
// the batch.
func (d *MultiView) Batch(indices []int) ([]Sample, error) {
	out := make([]Sample, len(indices))
	for i, idx := range indices {
		s, err := d.Get(idx)
		if err != nil {
			return nil, err
		}
		out[i] = s
	}
	return out, nil
}

// Records returns a copy of the split's records in split order.
func (d *MultiView) Records() []CaptureRecord {
	return append([]CaptureRecord(nil), d.records...)
}

// Intrinsics returns the scaled intrinsics for a camera id.
func (d *MultiView) Intrinsics(id camera.ID) (*camera.Intrinsics, error) {
	in, err := d.intrinsics.Lookup(id)
	if err != nil {
		return nil, err
	}
	return in.Clone(), nil
}

// CameraIDs returns the ids of all cameras in the capture.
func (d *MultiView) CameraIDs() []camera.ID {
	return d.intrinsics.IDs()
}

// Config returns the configuration the dataset was built with.
func (d *MultiView) Config() Config {
	return d.cfg
}

// Format returns the format the dataset was loaded through.
func (d *MultiView) Format() Format {
	return d.format
}

// ImagesDir is the resolved image directory.
func (d *MultiView) ImagesDir() string {
	return filepath.Join(d.cfg.Path, d.format.ImagesFolder())
}

func checkImage(path string) error {
	info, err := os.Stat(path)
	switch {
	case os.IsNotExist(err):
		return errors.Wrap(ErrMissingImage, path)
	case err != nil:
		return errors.Wrapf(err, "stat %s", path)
	case info.IsDir():
		return errors.Wrapf(ErrMissingImage, "%s is a directory", path)
	}
	return nil
}
