package datasets

import (
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/pkg/errors"

	"github.com/Noofbiz/mvdata/colmap"
)

func isEOF(err error) bool {
	return errors.Is(err, io.EOF)
}

// Auto-discovery helpers

// FindCaptureRoots returns the capture directories directly under dir, or
// dir itself, that hold a COLMAP sparse model. Results are sorted.
func FindCaptureRoots(dir string) ([]string, error) {
	if _, err := colmap.Locate(dir); err == nil {
		return []string{dir}, nil
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.Wrapf(ErrPathNotFound, "%s: %v", dir, err)
	}
	var roots []string
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		candidate := filepath.Join(dir, e.Name())
		if _, err := colmap.Locate(candidate); err == nil {
			roots = append(roots, candidate)
		}
	}
	if len(roots) == 0 {
		return nil, errors.Errorf("no capture directories found in %s", dir)
	}
	sort.Strings(roots)
	return roots, nil
}

// autoFindCapture returns the first candidate path holding a capture.
func autoFindCapture(candidates []string) (string, error) {
	for _, c := range candidates {
		if roots, err := FindCaptureRoots(c); err == nil {
			return roots[0], nil
		}
	}
	return "", errors.New("no capture found in common locations")
}

// AutoLoad looks for a COLMAP capture under a few common locations and
// loads it with cfg.Path replaced.
func AutoLoad(cfg Config, candidates ...string) (*MultiView, error) {
	if len(candidates) == 0 {
		candidates = []string{".", "data", "assets", filepath.Join("..", "assets")}
	}
	root, err := autoFindCapture(candidates)
	if err != nil {
		return nil, err
	}
	cfg.Path = root
	return Load("colmap", cfg)
}
