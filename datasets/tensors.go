package datasets

import (
	"io"
	"math/rand"

	"github.com/gomlx/gomlx/pkg/core/tensors"
	"github.com/gomlx/gomlx/pkg/ml/train"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// CameraBatchFlat stores a batch of cameras in flat contiguous buffers:
// K is [BatchSize,3,3], WorldToCamera is [BatchSize,3,4] and ImageSize is
// [BatchSize,2] as (width, height).
type CameraBatchFlat struct {
	K             []float32
	WorldToCamera []float32
	ImageSize     []float32
	ImagePaths    []string
	BatchSize     int
}

// MakeCameraBatchFlat flattens samples into contiguous buffers.
func MakeCameraBatchFlat(samples []Sample) (*CameraBatchFlat, error) {
	n := len(samples)
	b := &CameraBatchFlat{
		K:             make([]float32, 0, n*9),
		WorldToCamera: make([]float32, 0, n*12),
		ImageSize:     make([]float32, 0, n*2),
		ImagePaths:    make([]string, 0, n),
		BatchSize:     n,
	}
	for i, s := range samples {
		if s.Intrinsics == nil {
			return nil, errors.Errorf("sample %d (%s) has no intrinsics", i, s.Name)
		}
		for _, v := range s.Intrinsics.K().RawMatrix().Data {
			b.K = append(b.K, float32(v))
		}
		for _, v := range s.Extrinsics.Matrix().RawMatrix().Data {
			b.WorldToCamera = append(b.WorldToCamera, float32(v))
		}
		b.ImageSize = append(b.ImageSize, float32(s.Intrinsics.Width), float32(s.Intrinsics.Height))
		b.ImagePaths = append(b.ImagePaths, s.ImagePath)
	}
	return b, nil
}

// ToGomlxTensors converts the batch to gomlx tensors (K, world-to-camera,
// image size).
func (b *CameraBatchFlat) ToGomlxTensors() (k, w2c, size *tensors.Tensor, err error) {
	// handle empty batch gracefully
	if b.BatchSize == 0 {
		return tensors.FromAnyValue(make([][][]float32, 0)),
			tensors.FromAnyValue(make([][][]float32, 0)),
			tensors.FromAnyValue(make([][]float32, 0)), nil
	}
	if len(b.K) != b.BatchSize*9 || len(b.WorldToCamera) != b.BatchSize*12 || len(b.ImageSize) != b.BatchSize*2 {
		return nil, nil, nil, errors.Errorf("inconsistent buffer sizes for batch of %d", b.BatchSize)
	}
	return tensors.FromAnyValue(reshape3(b.K, b.BatchSize, 3, 3)),
		tensors.FromAnyValue(reshape3(b.WorldToCamera, b.BatchSize, 3, 4)),
		tensors.FromAnyValue(reshape2(b.ImageSize, b.BatchSize, 2)), nil
}

func reshape2(buf []float32, rows, cols int) [][]float32 {
	out := make([][]float32, rows)
	for i := range rows {
		out[i] = buf[i*cols : (i+1)*cols]
	}
	return out
}

func reshape3(buf []float32, batch, rows, cols int) [][][]float32 {
	out := make([][][]float32, batch)
	stride := rows * cols
	for i := range batch {
		out[i] = reshape2(buf[i*stride:(i+1)*stride], rows, cols)
	}
	return out
}

var _ train.Dataset = (*TensorDataset)(nil)

// TensorDataset yields camera batches from a Dataset as gomlx tensors. The
// inputs are K, world-to-camera and image size; the spec is the batch's
// image paths, for an external image loader. Samples whose image is missing
// are skipped and logged.
type TensorDataset struct {
	// BatchSize for yielding batches
	BatchSize int

	name   string
	ds     Dataset
	order  []int
	pos    int
	logger *zap.SugaredLogger
}

// NewTensorDataset creates a TensorDataset visiting ds in index order.
func NewTensorDataset(name string, ds Dataset, batchSize int, logger *zap.SugaredLogger) *TensorDataset {
	if batchSize <= 0 {
		batchSize = 1
	}
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	order := make([]int, ds.Len())
	for i := range order {
		order[i] = i
	}
	return &TensorDataset{
		BatchSize: batchSize,
		name:      name,
		ds:        ds,
		order:     order,
		logger:    logger,
	}
}

// Shuffle permutes the visiting order with a seeded generator and restarts
// the epoch. The same seed always gives the same order.
func (t *TensorDataset) Shuffle(seed int64) {
	for i := range t.order {
		t.order[i] = i
	}
	r := rand.New(rand.NewSource(seed))
	r.Shuffle(len(t.order), func(i, j int) {
		t.order[i], t.order[j] = t.order[j], t.order[i]
	})
	t.pos = 0
}

// Name implements train.Dataset.
func (t *TensorDataset) Name() string {
	return t.name
}

// Reset implements train.Dataset.
func (t *TensorDataset) Reset() {
	t.pos = 0
}

// Yield implements train.Dataset. It returns io.EOF once the epoch is
// exhausted.
func (t *TensorDataset) Yield() (spec any, inputs []*tensors.Tensor, labels []*tensors.Tensor, err error) {
	samples := make([]Sample, 0, t.BatchSize)
	for len(samples) < t.BatchSize && t.pos < len(t.order) {
		idx := t.order[t.pos]
		t.pos++
		s, err := t.ds.Get(idx)
		if errors.Is(err, ErrMissingImage) {
			t.logger.Warnw("skipping sample", "index", idx, "error", err)
			continue
		}
		if err != nil {
			return nil, nil, nil, err
		}
		samples = append(samples, s)
	}
	if len(samples) == 0 {
		return nil, nil, nil, io.EOF
	}

	flat, err := MakeCameraBatchFlat(samples)
	if err != nil {
		return nil, nil, nil, err
	}
	k, w2c, size, err := flat.ToGomlxTensors()
	if err != nil {
		return nil, nil, nil, err
	}
	return flat.ImagePaths, []*tensors.Tensor{k, w2c, size}, nil, nil
}
