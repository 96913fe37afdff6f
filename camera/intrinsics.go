// Package camera holds the per-camera intrinsics and per-frame extrinsics
// records produced by structure-from-motion tools.
package camera

import (
	"fmt"
	"math"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// ErrNoIntrinsics is returned when a camera has no usable intrinsic parameters.
var ErrNoIntrinsics = errors.New("camera intrinsic parameters are not available")

// NewNoIntrinsicsError wraps ErrNoIntrinsics with a reason.
func NewNoIntrinsicsError(msg string) error {
	return errors.Wrap(ErrNoIntrinsics, msg)
}

// ID identifies a camera model entry. Several frames captured by the same
// physical camera share one ID.
type ID uint32

// Intrinsics is one camera's internal parameters. Distortion holds the
// model-specific coefficients that follow the focal length and principal
// point in the source parameter list.
type Intrinsics struct {
	ID         ID        `json:"camera_id"`
	Model      Model     `json:"model"`
	Width      int       `json:"width_px"`
	Height     int       `json:"height_px"`
	Fx         float64   `json:"fx"`
	Fy         float64   `json:"fy"`
	Cx         float64   `json:"cx"`
	Cy         float64   `json:"cy"`
	Distortion []float64 `json:"distortion,omitempty"`
}

// NewIntrinsics builds Intrinsics from a model and its raw parameter list,
// in the order the model defines.
func NewIntrinsics(id ID, model Model, width, height int, params []float64) (*Intrinsics, error) {
	info, ok := model.Info()
	if !ok {
		return nil, errors.Errorf("camera %d: unknown camera model %q", id, model)
	}
	if len(params) != info.NumParams {
		return nil, errors.Errorf("camera %d: model %s expects %d params, got %d",
			id, model, info.NumParams, len(params))
	}

	in := &Intrinsics{ID: id, Model: model, Width: width, Height: height}
	var rest []float64
	if info.SingleFocal {
		in.Fx, in.Fy = params[0], params[0]
		in.Cx, in.Cy = params[1], params[2]
		rest = params[3:]
	} else {
		in.Fx, in.Fy = params[0], params[1]
		in.Cx, in.Cy = params[2], params[3]
		rest = params[4:]
	}
	if len(rest) > 0 {
		in.Distortion = append([]float64(nil), rest...)
	}
	return in, nil
}

// CheckValid checks if the fields for Intrinsics have valid inputs.
func (in *Intrinsics) CheckValid() error {
	if in == nil {
		return NewNoIntrinsicsError("intrinsics do not exist")
	}
	if in.Width <= 0 || in.Height <= 0 {
		return NewNoIntrinsicsError(fmt.Sprintf("invalid size (%#v, %#v)", in.Width, in.Height))
	}
	if in.Fx <= 0 {
		return NewNoIntrinsicsError(fmt.Sprintf("invalid focal length Fx = %#v", in.Fx))
	}
	if in.Fy <= 0 {
		return NewNoIntrinsicsError(fmt.Sprintf("invalid focal length Fy = %#v", in.Fy))
	}
	if in.Cx < 0 {
		return NewNoIntrinsicsError(fmt.Sprintf("invalid principal X point Cx = %#v", in.Cx))
	}
	if in.Cy < 0 {
		return NewNoIntrinsicsError(fmt.Sprintf("invalid principal Y point Cy = %#v", in.Cy))
	}
	return nil
}

// Params returns the parameter list in the model's own order, the inverse
// of NewIntrinsics.
func (in *Intrinsics) Params() []float64 {
	info, _ := in.Model.Info()
	var out []float64
	if info.SingleFocal {
		out = []float64{in.Fx, in.Cx, in.Cy}
	} else {
		out = []float64{in.Fx, in.Fy, in.Cx, in.Cy}
	}
	return append(out, in.Distortion...)
}

// Clone returns a deep copy.
func (in *Intrinsics) Clone() *Intrinsics {
	out := *in
	if in.Distortion != nil {
		out.Distortion = append([]float64(nil), in.Distortion...)
	}
	return &out
}

// Scaled returns a copy sized for images downsampled by factor. Focal
// lengths and principal point are divided by factor and the image size is
// rounded to the nearest pixel. Distortion coefficients act on normalized
// coordinates and are left alone.
func (in *Intrinsics) Scaled(factor float64) *Intrinsics {
	out := in.Clone()
	if factor == 1 {
		return out
	}
	out.Fx /= factor
	out.Fy /= factor
	out.Cx /= factor
	out.Cy /= factor
	out.Width = int(math.Round(float64(in.Width) / factor))
	out.Height = int(math.Round(float64(in.Height) / factor))
	return out
}

// K returns the 3x3 pinhole calibration matrix.
func (in *Intrinsics) K() *mat.Dense {
	return mat.NewDense(3, 3, []float64{
		in.Fx, 0, in.Cx,
		0, in.Fy, in.Cy,
		0, 0, 1,
	})
}

// Fisheye reports whether the camera model is a fisheye projection.
func (in *Intrinsics) Fisheye() bool {
	info, _ := in.Model.Info()
	return info.Fisheye
}
