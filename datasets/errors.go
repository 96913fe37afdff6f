package datasets

import "github.com/pkg/errors"

var (
	// ErrInvalidConfiguration covers bad split names, non-positive intervals
	// and downsample factors, unknown format tags and inconsistent models.
	ErrInvalidConfiguration = errors.New("invalid dataset configuration")
	// ErrPathNotFound means the capture root is missing or unreadable.
	ErrPathNotFound = errors.New("capture path not found")
	// ErrNotImplemented is returned by formats that cannot parse their
	// capture layout.
	ErrNotImplemented = errors.New("not implemented")
	// ErrIndexOutOfRange is returned by Get for indices outside [0, Len()).
	ErrIndexOutOfRange = errors.New("index out of range")
	// ErrMissingImage is returned by Get when the backing image file is
	// absent. It concerns that one index only; the dataset stays usable.
	ErrMissingImage = errors.New("missing image")
)
