package datasets

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func TestMakeCameraBatchFlat(t *testing.T) {
	root := writeCapture(t, 6, "images")
	ds, err := Load("colmap", testConfig(root, SplitTrain, 8))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	samples, err := ds.Batch([]int{0, 1, 4})
	if err != nil {
		t.Fatalf("Batch error: %v", err)
	}

	flat, err := MakeCameraBatchFlat(samples)
	if err != nil {
		t.Fatalf("MakeCameraBatchFlat error: %v", err)
	}
	if flat.BatchSize != 3 || len(flat.K) != 27 || len(flat.WorldToCamera) != 36 || len(flat.ImageSize) != 6 {
		t.Fatalf("unexpected flat dims: %d %d %d %d", flat.BatchSize, len(flat.K), len(flat.WorldToCamera), len(flat.ImageSize))
	}
	// sample 1 is frame 2 on camera 1
	k1 := flat.K[9:18]
	if k1[0] != 400 || k1[2] != 400 || k1[4] != 420 || k1[5] != 300 || k1[8] != 1 {
		t.Fatalf("unexpected K for sample 1: %v", k1)
	}
	// sample 2 is frame 5, translated by x=5
	w2 := flat.WorldToCamera[24:36]
	if w2[0] != 1 || w2[3] != 5 || w2[5] != 1 || w2[10] != 1 {
		t.Fatalf("unexpected world-to-camera for sample 2: %v", w2)
	}
	if flat.ImageSize[0] != 1024 || flat.ImageSize[1] != 768 {
		t.Fatalf("unexpected image size for sample 0: %v", flat.ImageSize[:2])
	}

	k, w2c, size, err := flat.ToGomlxTensors()
	if err != nil {
		t.Fatalf("ToGomlxTensors error: %v", err)
	}
	if k == nil || w2c == nil || size == nil {
		t.Fatalf("ToGomlxTensors returned nil tensor(s)")
	}
	if got := k.Shape().Dimensions; !reflect.DeepEqual(got, []int{3, 3, 3}) {
		t.Fatalf("unexpected K tensor shape %v", got)
	}
	if got := w2c.Shape().Dimensions; !reflect.DeepEqual(got, []int{3, 3, 4}) {
		t.Fatalf("unexpected world-to-camera tensor shape %v", got)
	}

	if _, err := MakeCameraBatchFlat([]Sample{{}}); err == nil || !strings.Contains(err.Error(), "has no intrinsics") {
		t.Fatalf("expected error for sample without intrinsics, got %v", err)
	}

	bad := &CameraBatchFlat{K: make([]float32, 9), BatchSize: 2}
	if _, _, _, err := bad.ToGomlxTensors(); err == nil || !strings.Contains(err.Error(), "inconsistent buffer sizes") {
		t.Fatalf("expected inconsistent buffer error, got %v", err)
	}
}

func TestTensorDataset_Epoch(t *testing.T) {
	root := writeCapture(t, 16, "images")
	ds, err := Load("colmap", testConfig(root, SplitTrain, 8))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	td := NewTensorDataset("train", ds, 4, nil)
	if td.Name() != "train" {
		t.Fatalf("unexpected name %q", td.Name())
	}

	// 14 train frames in batches of 4: 4,4,4,2
	var sizes []int
	for {
		spec, inputs, _, err := td.Yield()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("Yield error: %v", err)
		}
		if len(inputs) != 3 {
			t.Fatalf("expected 3 input tensors, got %d", len(inputs))
		}
		sizes = append(sizes, len(spec.([]string)))
	}
	if !reflect.DeepEqual(sizes, []int{4, 4, 4, 2}) {
		t.Fatalf("unexpected batch sizes %v", sizes)
	}

	td.Reset()
	spec, _, _, err := td.Yield()
	if err != nil {
		t.Fatalf("Yield after Reset error: %v", err)
	}
	if paths := spec.([]string); paths[0] != filepath.Join(root, "images", frameName(1)) {
		t.Fatalf("unexpected first path after Reset: %s", paths[0])
	}
}

func TestTensorDataset_ShuffleDeterministic(t *testing.T) {
	root := writeCapture(t, 12, "images")
	ds, err := Load("colmap", testConfig(root, SplitTrain, 8))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	a := NewTensorDataset("a", ds, 64, nil)
	b := NewTensorDataset("b", ds, 64, nil)
	a.Shuffle(42)
	b.Shuffle(42)
	specA, _, _, errA := a.Yield()
	specB, _, _, errB := b.Yield()
	if errA != nil || errB != nil {
		t.Fatalf("Yield errors: %v %v", errA, errB)
	}
	if !reflect.DeepEqual(specA, specB) {
		t.Fatalf("same seed gave different orders")
	}
	if len(specA.([]string)) != ds.Len() {
		t.Fatalf("shuffle lost samples")
	}
}

func TestTensorDataset_SkipsMissingImages(t *testing.T) {
	root := writeCapture(t, 8, "images")
	for _, i := range []int{2, 3} {
		if err := os.Remove(filepath.Join(root, "images", frameName(i))); err != nil {
			t.Fatalf("failed to remove image: %v", err)
		}
	}
	ds, err := Load("colmap", testConfig(root, SplitTrain, 8))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	td := NewTensorDataset("train", ds, 3, nil)
	total := 0
	for {
		spec, _, _, err := td.Yield()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			t.Fatalf("Yield error: %v", err)
		}
		total += len(spec.([]string))
	}
	if total != ds.Len()-2 {
		t.Fatalf("expected %d samples, got %d", ds.Len()-2, total)
	}
}
