// Package colmap reads COLMAP sparse reconstructions: the camera intrinsics
// table and the per-image extrinsics, in either the text or the binary
// encoding. Images are returned in the order they appear in the file.
package colmap

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"

	"github.com/Noofbiz/mvdata/camera"
)

// ErrMalformed is wrapped by every parse failure.
var ErrMalformed = errors.New("malformed colmap model")

func malformed(path string, format string, args ...interface{}) error {
	return errors.Wrapf(ErrMalformed, "%s: "+format, append([]interface{}{path}, args...)...)
}

// ReadIntrinsics reads a cameras file, choosing the decoder by extension.
func ReadIntrinsics(path string) (camera.Table, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".bin":
		return ReadIntrinsicsBinary(path)
	case ".txt":
		return ReadIntrinsicsText(path)
	default:
		return nil, errors.Errorf("%s: unknown cameras file extension", path)
	}
}

// ReadExtrinsics reads an images file, choosing the decoder by extension.
func ReadExtrinsics(path string) ([]camera.Extrinsics, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".bin":
		return ReadExtrinsicsBinary(path)
	case ".txt":
		return ReadExtrinsicsText(path)
	default:
		return nil, errors.Errorf("%s: unknown images file extension", path)
	}
}

// Model is the pair of files making up one sparse model.
type Model struct {
	Dir     string
	Cameras string
	Images  string
}

// Locate finds the sparse model under a capture root. It looks in
// sparse/0, sparse and the root itself, in that order, and prefers the
// binary files over the text ones within a directory.
func Locate(root string) (Model, error) {
	dirs := []string{
		filepath.Join(root, "sparse", "0"),
		filepath.Join(root, "sparse"),
		root,
	}
	for _, dir := range dirs {
		for _, ext := range []string{".bin", ".txt"} {
			cams := filepath.Join(dir, "cameras"+ext)
			imgs := filepath.Join(dir, "images"+ext)
			if isFile(cams) && isFile(imgs) {
				return Model{Dir: dir, Cameras: cams, Images: imgs}, nil
			}
		}
	}
	return Model{}, errors.Errorf("no colmap sparse model found under %s", root)
}

// LocateText is Locate restricted to the text encoding.
func LocateText(root string) (Model, error) {
	for _, dir := range []string{filepath.Join(root, "sparse", "0"), filepath.Join(root, "sparse"), root} {
		cams := filepath.Join(dir, "cameras.txt")
		imgs := filepath.Join(dir, "images.txt")
		if isFile(cams) && isFile(imgs) {
			return Model{Dir: dir, Cameras: cams, Images: imgs}, nil
		}
	}
	return Model{}, errors.Errorf("no colmap text model found under %s", root)
}

// Read loads both files of the model.
func (m Model) Read() (camera.Table, []camera.Extrinsics, error) {
	cams, err := ReadIntrinsics(m.Cameras)
	if err != nil {
		return nil, nil, err
	}
	imgs, err := ReadExtrinsics(m.Images)
	if err != nil {
		return nil, nil, err
	}
	return cams, imgs, nil
}

func isFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
