package colmap

import (
	"bufio"
	"os"
	"strconv"
	"strings"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"go.uber.org/multierr"

	"github.com/Noofbiz/mvdata/camera"
)

// lineScanner walks a text model file, skipping comments and blank lines
// unless asked for the raw next line.
type lineScanner struct {
	path string
	sc   *bufio.Scanner
	line int
}

func newLineScanner(path string, f *os.File) *lineScanner {
	sc := bufio.NewScanner(f)
	// points2D lines of large models run long
	sc.Buffer(make([]byte, 0, 64*1024), 64*1024*1024)
	return &lineScanner{path: path, sc: sc}
}

// next returns the next non-comment, non-blank line.
func (s *lineScanner) next() (string, bool) {
	for s.sc.Scan() {
		s.line++
		line := strings.TrimSpace(s.sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		return line, true
	}
	return "", false
}

// raw consumes the next line whatever it holds.
func (s *lineScanner) raw() bool {
	if s.sc.Scan() {
		s.line++
		return true
	}
	return false
}

func (s *lineScanner) err() error {
	if err := s.sc.Err(); err != nil {
		return errors.Wrapf(err, "reading %s", s.path)
	}
	return nil
}

// ReadIntrinsicsText parses a cameras.txt file. Each data line is
// CAMERA_ID MODEL WIDTH HEIGHT PARAMS[].
func ReadIntrinsicsText(path string) (tbl camera.Table, err error) {
	//nolint:gosec
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "error opening cameras file")
	}
	defer func() { err = multierr.Combine(err, f.Close()) }()

	tbl = camera.Table{}
	sc := newLineScanner(path, f)
	for {
		line, ok := sc.next()
		if !ok {
			break
		}
		fields := strings.Fields(line)
		if len(fields) < 4 {
			return nil, malformed(path, "line %d: expected at least 4 fields, got %d", sc.line, len(fields))
		}
		id, err := strconv.ParseUint(fields[0], 10, 32)
		if err != nil {
			return nil, malformed(path, "line %d: camera id %q", sc.line, fields[0])
		}
		width, err := strconv.Atoi(fields[2])
		if err != nil {
			return nil, malformed(path, "line %d: width %q", sc.line, fields[2])
		}
		height, err := strconv.Atoi(fields[3])
		if err != nil {
			return nil, malformed(path, "line %d: height %q", sc.line, fields[3])
		}
		params, err := parseFloats(fields[4:])
		if err != nil {
			return nil, malformed(path, "line %d: %v", sc.line, err)
		}
		camID := camera.ID(id)
		if _, dup := tbl[camID]; dup {
			return nil, malformed(path, "line %d: duplicate camera id %d", sc.line, camID)
		}
		in, err := camera.NewIntrinsics(camID, camera.Model(fields[1]), width, height, params)
		if err != nil {
			return nil, malformed(path, "line %d: %v", sc.line, err)
		}
		tbl[camID] = in
	}
	if err := sc.err(); err != nil {
		return nil, err
	}
	return tbl, nil
}

// ReadExtrinsicsText parses an images.txt file. Each image takes two lines:
// IMAGE_ID QW QX QY QZ TX TY TZ CAMERA_ID NAME, then its 2D points, which
// may be empty and are skipped.
func ReadExtrinsicsText(path string) (out []camera.Extrinsics, err error) {
	//nolint:gosec
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "error opening images file")
	}
	defer func() { err = multierr.Combine(err, f.Close()) }()

	sc := newLineScanner(path, f)
	for {
		line, ok := sc.next()
		if !ok {
			break
		}
		fields := strings.Fields(line)
		if len(fields) < 10 {
			return nil, malformed(path, "line %d: expected 10 fields, got %d", sc.line, len(fields))
		}
		id, err := strconv.ParseUint(fields[0], 10, 32)
		if err != nil {
			return nil, malformed(path, "line %d: image id %q", sc.line, fields[0])
		}
		vals, err := parseFloats(fields[1:8])
		if err != nil {
			return nil, malformed(path, "line %d: %v", sc.line, err)
		}
		camID, err := strconv.ParseUint(fields[8], 10, 32)
		if err != nil {
			return nil, malformed(path, "line %d: camera id %q", sc.line, fields[8])
		}
		name := strings.Join(fields[9:], " ")
		e, err := camera.NewExtrinsics(uint32(id), name, camera.ID(camID),
			[4]float64{vals[0], vals[1], vals[2], vals[3]},
			r3.Vector{X: vals[4], Y: vals[5], Z: vals[6]})
		if err != nil {
			return nil, malformed(path, "line %d: %v", sc.line, err)
		}
		out = append(out, e)
		sc.raw()
	}
	if err := sc.err(); err != nil {
		return nil, err
	}
	return out, nil
}

func parseFloats(fields []string) ([]float64, error) {
	out := make([]float64, len(fields))
	for i, s := range fields {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, errors.Errorf("bad number %q", s)
		}
		out[i] = v
	}
	return out, nil
}
