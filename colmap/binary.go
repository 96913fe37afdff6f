package colmap

import (
	"bufio"
	"encoding/binary"
	"io"
	"math"
	"os"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"go.uber.org/multierr"

	"github.com/Noofbiz/mvdata/camera"
)

// sizes of the fixed binary records
const (
	point2DSize = 8 + 8 + 8
	maxNameLen  = 4096
)

type binReader struct {
	path string
	r    *bufio.Reader
	err  error
}

func (b *binReader) read(v interface{}) {
	if b.err != nil {
		return
	}
	if err := binary.Read(b.r, binary.LittleEndian, v); err != nil {
		b.err = err
	}
}

func (b *binReader) u64() uint64 {
	var v uint64
	b.read(&v)
	return v
}

func (b *binReader) i32() int32 {
	var v int32
	b.read(&v)
	return v
}

func (b *binReader) f64s(n int) []float64 {
	v := make([]float64, n)
	b.read(v)
	return v
}

func (b *binReader) cstring() string {
	if b.err != nil {
		return ""
	}
	var buf []byte
	for {
		c, err := b.r.ReadByte()
		if err != nil {
			b.err = err
			return ""
		}
		if c == 0 {
			return string(buf)
		}
		if len(buf) >= maxNameLen {
			b.err = errors.New("image name is not terminated")
			return ""
		}
		buf = append(buf, c)
	}
}

func (b *binReader) skip(n uint64) {
	if b.err != nil {
		return
	}
	if _, err := io.CopyN(io.Discard, b.r, int64(n)); err != nil {
		b.err = err
	}
}

func (b *binReader) fail(record uint64) error {
	if errors.Is(b.err, io.EOF) || errors.Is(b.err, io.ErrUnexpectedEOF) {
		return malformed(b.path, "record %d: truncated file", record)
	}
	return malformed(b.path, "record %d: %v", record, b.err)
}

// ReadIntrinsicsBinary parses a cameras.bin file: a uint64 count followed by
// records of int32 id, int32 model code, uint64 width, uint64 height and the
// model's float64 parameters, little endian.
func ReadIntrinsicsBinary(path string) (tbl camera.Table, err error) {
	//nolint:gosec
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "error opening cameras file")
	}
	defer func() { err = multierr.Combine(err, f.Close()) }()

	b := &binReader{path: path, r: bufio.NewReader(f)}
	n := b.u64()
	if b.err != nil {
		return nil, malformed(path, "missing camera count")
	}
	tbl = camera.Table{}
	for i := uint64(0); i < n; i++ {
		id := camera.ID(b.i32())
		code := b.i32()
		width := b.u64()
		height := b.u64()
		if b.err != nil {
			return nil, b.fail(i)
		}
		info, ok := camera.ModelByCode(int(code))
		if !ok {
			return nil, malformed(path, "record %d: unknown model code %d", i, code)
		}
		params := b.f64s(info.NumParams)
		if b.err != nil {
			return nil, b.fail(i)
		}
		if _, dup := tbl[id]; dup {
			return nil, malformed(path, "record %d: duplicate camera id %d", i, id)
		}
		in, err := camera.NewIntrinsics(id, info.Name, int(width), int(height), params)
		if err != nil {
			return nil, malformed(path, "record %d: %v", i, err)
		}
		tbl[id] = in
	}
	return tbl, nil
}

// ReadExtrinsicsBinary parses an images.bin file: a uint64 count followed by
// records of int32 image id, 4 float64 qvec, 3 float64 tvec, int32 camera id,
// a NUL terminated name, a uint64 point count and that many (x, y, id)
// observations, which are skipped.
func ReadExtrinsicsBinary(path string) (out []camera.Extrinsics, err error) {
	//nolint:gosec
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "error opening images file")
	}
	defer func() { err = multierr.Combine(err, f.Close()) }()

	b := &binReader{path: path, r: bufio.NewReader(f)}
	n := b.u64()
	if b.err != nil {
		return nil, malformed(path, "missing image count")
	}
	for i := uint64(0); i < n; i++ {
		id := b.i32()
		q := b.f64s(4)
		t := b.f64s(3)
		camID := b.i32()
		name := b.cstring()
		points := b.u64()
		if b.err == nil && points > math.MaxInt64/point2DSize {
			return nil, malformed(path, "record %d: implausible point count %d", i, points)
		}
		b.skip(points * point2DSize)
		if b.err != nil {
			return nil, b.fail(i)
		}
		e, err := camera.NewExtrinsics(uint32(id), name, camera.ID(camID),
			[4]float64{q[0], q[1], q[2], q[3]},
			r3.Vector{X: t[0], Y: t[1], Z: t[2]})
		if err != nil {
			return nil, malformed(path, "record %d: %v", i, err)
		}
		out = append(out, e)
	}
	return out, nil
}
