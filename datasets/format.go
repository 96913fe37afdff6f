package datasets

import (
	"sort"
	"strconv"

	"github.com/pkg/errors"

	"github.com/Noofbiz/mvdata/camera"
	"github.com/Noofbiz/mvdata/colmap"
)

// Format is the per-capture-tool part of a dataset. Implementations differ
// only in where the images live and how the camera model is parsed; split
// and indexing behavior belongs to MultiView and cannot be changed here.
type Format interface {
	// Name is the format tag.
	Name() string

	// ImagesFolder returns the image directory name relative to the capture
	// root. It must not depend on whether the model was loaded.
	ImagesFolder() string

	// LoadIntrinsicsAndExtrinsics parses the capture's camera model. The
	// extrinsics come back in capture order.
	LoadIntrinsicsAndExtrinsics(root string) (camera.Table, []camera.Extrinsics, error)
}

// BaseFormat defines the default image folder and no parser.
type BaseFormat struct{}

// Name implements Format.
func (BaseFormat) Name() string { return "base" }

// ImagesFolder implements Format.
func (BaseFormat) ImagesFolder() string { return "images" }

// LoadIntrinsicsAndExtrinsics always fails with ErrNotImplemented.
func (BaseFormat) LoadIntrinsicsAndExtrinsics(string) (camera.Table, []camera.Extrinsics, error) {
	return nil, nil, errors.Wrap(ErrNotImplemented, "base format has no camera model parser")
}

// ColmapFormat reads a COLMAP sparse model. Downsampled captures keep their
// images in images_<factor>.
type ColmapFormat struct {
	DownsampleFactor float64
	// TextOnly ignores binary model files.
	TextOnly bool
}

// Name implements Format.
func (ColmapFormat) Name() string { return "colmap" }

// ImagesFolder implements Format.
func (f ColmapFormat) ImagesFolder() string {
	if f.DownsampleFactor == 0 || f.DownsampleFactor == 1 {
		return "images"
	}
	return "images_" + strconv.FormatFloat(f.DownsampleFactor, 'f', -1, 64)
}

// LoadIntrinsicsAndExtrinsics implements Format.
func (f ColmapFormat) LoadIntrinsicsAndExtrinsics(root string) (camera.Table, []camera.Extrinsics, error) {
	locate := colmap.Locate
	if f.TextOnly {
		locate = colmap.LocateText
	}
	model, err := locate(root)
	if err != nil {
		return nil, nil, err
	}
	return model.Read()
}

// ScannetppFormat is the ScanNet++ DSLR capture, whose undistorted fisheye
// images sit next to the raw ones. Its camera model encoding is not
// supported, so loading always fails.
type ScannetppFormat struct{}

// Name implements Format.
func (ScannetppFormat) Name() string { return "scannetpp" }

// ImagesFolder implements Format.
func (ScannetppFormat) ImagesFolder() string { return "image_undistorted_fisheye" }

// LoadIntrinsicsAndExtrinsics always fails with ErrNotImplemented.
func (f ScannetppFormat) LoadIntrinsicsAndExtrinsics(string) (camera.Table, []camera.Extrinsics, error) {
	return nil, nil, errors.Wrapf(ErrNotImplemented, "%s: unsupported capture format", f.Name())
}

// FormatFactory builds a Format for a validated configuration.
type FormatFactory func(cfg Config) Format

var formats = map[string]FormatFactory{
	"base": func(Config) Format { return BaseFormat{} },
	"colmap": func(cfg Config) Format {
		return ColmapFormat{DownsampleFactor: cfg.DownsampleFactor}
	},
	"colmap-text": func(cfg Config) Format {
		return ColmapFormat{DownsampleFactor: cfg.DownsampleFactor, TextOnly: true}
	},
	"scannetpp": func(Config) Format { return ScannetppFormat{} },
}

// NewFormat returns the format registered under tag.
func NewFormat(tag string, cfg Config) (Format, error) {
	factory, ok := formats[tag]
	if !ok {
		return nil, errors.Wrapf(ErrInvalidConfiguration, "unknown format %q", tag)
	}
	return factory(cfg), nil
}

// Formats lists the registered format tags.
func Formats() []string {
	tags := make([]string, 0, len(formats))
	for tag := range formats {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	return tags
}
