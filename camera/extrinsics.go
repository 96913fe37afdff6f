package camera

import (
	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/num/quat"
)

// Extrinsics is the world-to-camera pose of one captured frame along with
// the camera it was taken with and its image file name.
type Extrinsics struct {
	FrameID     uint32
	Name        string
	CameraID    ID
	Rotation    quat.Number
	Translation r3.Vector
}

// NewExtrinsics normalizes the rotation quaternion (w, x, y, z) and returns
// the pose. A zero quaternion has no rotation and is rejected.
func NewExtrinsics(frameID uint32, name string, cameraID ID, qvec [4]float64, tvec r3.Vector) (Extrinsics, error) {
	q := quat.Number{Real: qvec[0], Imag: qvec[1], Jmag: qvec[2], Kmag: qvec[3]}
	norm := quat.Abs(q)
	if norm == 0 {
		return Extrinsics{}, errors.Errorf("frame %d (%s): zero rotation quaternion", frameID, name)
	}
	return Extrinsics{
		FrameID:     frameID,
		Name:        name,
		CameraID:    cameraID,
		Rotation:    quat.Scale(1/norm, q),
		Translation: tvec,
	}, nil
}

// RotationMatrix returns the 3x3 world-to-camera rotation.
func (e Extrinsics) RotationMatrix() *mat.Dense {
	w, x, y, z := e.Rotation.Real, e.Rotation.Imag, e.Rotation.Jmag, e.Rotation.Kmag
	return mat.NewDense(3, 3, []float64{
		1 - 2*y*y - 2*z*z, 2*x*y - 2*w*z, 2*z*x + 2*w*y,
		2*x*y + 2*w*z, 1 - 2*x*x - 2*z*z, 2*y*z - 2*w*x,
		2*z*x - 2*w*y, 2*y*z + 2*w*x, 1 - 2*x*x - 2*y*y,
	})
}

// Matrix returns the 3x4 world-to-camera matrix [R|t].
func (e Extrinsics) Matrix() *mat.Dense {
	m := mat.NewDense(3, 4, nil)
	m.Slice(0, 3, 0, 3).(*mat.Dense).Copy(e.RotationMatrix())
	m.Set(0, 3, e.Translation.X)
	m.Set(1, 3, e.Translation.Y)
	m.Set(2, 3, e.Translation.Z)
	return m
}

// Center returns the camera position in world coordinates, -R^T t.
func (e Extrinsics) Center() r3.Vector {
	t := quat.Number{Imag: e.Translation.X, Jmag: e.Translation.Y, Kmag: e.Translation.Z}
	inv := quat.Conj(e.Rotation)
	c := quat.Mul(quat.Mul(inv, t), e.Rotation)
	return r3.Vector{X: -c.Imag, Y: -c.Jmag, Z: -c.Kmag}
}
