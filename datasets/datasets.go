package datasets

import "github.com/Noofbiz/mvdata/camera"

// This package turns a structure-from-motion capture directory into an
// indexed collection of camera/image pairs for a training loop.
//
// Layout and intended usage:
//
// MultiView
//   - Parses the capture's camera model once through a Format
//   - Splits the frames into train/test by a fixed interval
//   - Exposes the active split as indices 0..Len()-1 in split order
//   - Checks image files lazily, one index at a time
//
// TensorDataset
//   - Wraps a Dataset as a gomlx train.Dataset yielding camera batches
//
// Images are never decoded here; samples carry the image path and the
// (downsample-scaled) intrinsics for the caller's image loader.

// CaptureRecord is one captured frame.
type CaptureRecord struct {
	// FrameIndex is the frame's position in capture order.
	FrameIndex int
	// FrameID is the id the camera model assigned to the image.
	FrameID    uint32
	Name       string
	CameraID   camera.ID
	Extrinsics camera.Extrinsics
	ImagePath  string
}

// Sample is a record together with its camera's intrinsics.
type Sample struct {
	CaptureRecord
	Intrinsics *camera.Intrinsics
}

// Dataset is the indexed-access contract the training side relies on.
type Dataset interface {
	Len() int
	Get(i int) (Sample, error)
	Batch(indices []int) ([]Sample, error)
}
