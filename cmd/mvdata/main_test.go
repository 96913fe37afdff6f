package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.viam.com/test"
	"gonum.org/v1/plot/plotter"
)

// writeCapture lays out a text COLMAP capture with n frames on a line along
// x and writes images for every frame except the ones in skip.
func writeCapture(t *testing.T, n int, skip ...int) string {
	t.Helper()
	root := t.TempDir()
	sparse := filepath.Join(root, "sparse", "0")
	images := filepath.Join(root, "images")
	test.That(t, os.MkdirAll(sparse, 0o755), test.ShouldBeNil)
	test.That(t, os.MkdirAll(images, 0o755), test.ShouldBeNil)
	test.That(t, os.WriteFile(filepath.Join(sparse, "cameras.txt"),
		[]byte("# Camera list\n1 PINHOLE 640 480 500 510 320 240\n"), 0o644), test.ShouldBeNil)

	skipped := map[int]bool{}
	for _, s := range skip {
		skipped[s] = true
	}
	var b strings.Builder
	for i := range n {
		name := fmt.Sprintf("view_%02d.jpg", i)
		fmt.Fprintf(&b, "%d 1 0 0 0 %d 0 0 1 %s\n\n", i+1, -i, name)
		if !skipped[i] {
			test.That(t, os.WriteFile(filepath.Join(images, name), []byte("jpg"), 0o644), test.ShouldBeNil)
		}
	}
	test.That(t, os.WriteFile(filepath.Join(sparse, "images.txt"), []byte(b.String()), 0o644), test.ShouldBeNil)
	return root
}

func setOptions(t *testing.T, o Options) {
	t.Helper()
	saved, savedLogger := opts, logger
	opts, logger = o, zap.NewNop().Sugar()
	t.Cleanup(func() { opts, logger = saved, savedLogger })
}

func defaultOptions(path string) Options {
	return Options{Path: path, Format: "colmap", Split: "train", Downsample: 1, TestInterval: 4}
}

func TestInfoAndSplit(t *testing.T) {
	root := writeCapture(t, 10)
	o := defaultOptions(root)
	o.Split = "test"
	setOptions(t, o)

	ds, err := loadDataset()
	test.That(t, err, test.ShouldBeNil)
	test.That(t, ds.Len(), test.ShouldEqual, 3)

	var out bytes.Buffer
	test.That(t, printInfo(&out, ds), test.ShouldBeNil)
	test.That(t, out.String(), test.ShouldContainSubstring, "frames:     10")
	test.That(t, out.String(), test.ShouldContainSubstring, "train:      7")
	test.That(t, out.String(), test.ShouldContainSubstring, "test:       3 (every 4)")
	test.That(t, out.String(), test.ShouldContainSubstring, "PINHOLE")

	out.Reset()
	test.That(t, printSplit(&out, ds), test.ShouldBeNil)
	test.That(t, out.String(), test.ShouldContainSubstring, "view_00.jpg")
	test.That(t, out.String(), test.ShouldContainSubstring, "view_04.jpg")
	test.That(t, out.String(), test.ShouldContainSubstring, "view_08.jpg")
	test.That(t, out.String(), test.ShouldNotContainSubstring, "view_01.jpg")
}

func TestLoadDataset_BadFlags(t *testing.T) {
	o := defaultOptions(writeCapture(t, 2))
	o.Split = "val"
	setOptions(t, o)
	_, err := loadDataset()
	test.That(t, err, test.ShouldNotBeNil)

	o.Split = "train"
	o.TestInterval = 0
	setOptions(t, o)
	_, err = loadDataset()
	test.That(t, err, test.ShouldNotBeNil)
}

func TestCheckImages(t *testing.T) {
	root := writeCapture(t, 9, 2, 5)
	setOptions(t, defaultOptions(root))

	ds, err := loadDataset()
	test.That(t, err, test.ShouldBeNil)
	// train holds frames 1,2,3,5,6,7 so 2 and 5 sit at indices 1 and 3
	steps := 0
	missing, err := checkImages(ds, func() { steps++ })
	test.That(t, err, test.ShouldBeNil)
	test.That(t, missing, test.ShouldResemble, []int{1, 3})
	test.That(t, steps, test.ShouldEqual, ds.Len())

	var out bytes.Buffer
	reportMissing(&out, ds, missing)
	test.That(t, out.String(), test.ShouldContainSubstring, "2 missing images")
	test.That(t, out.String(), test.ShouldContainSubstring, "view_05.jpg")
}

func TestPlotCenters(t *testing.T) {
	root := writeCapture(t, 8)
	setOptions(t, defaultOptions(root))

	train, testSplit, err := loadBothSplits()
	test.That(t, err, test.ShouldBeNil)
	test.That(t, train.Len(), test.ShouldEqual, 6)
	test.That(t, testSplit.Len(), test.ShouldEqual, 2)
	test.That(t, opts.Split, test.ShouldEqual, "train")

	tr, te := centersXZ(train), centersXZ(testSplit)
	// identity rotation with t = (-i, 0, 0) puts frame i at x = i
	test.That(t, te[1].X, test.ShouldAlmostEqual, 4.0)
	merged := mergeByOrder(tr, te, 4)
	test.That(t, len(merged), test.ShouldEqual, 8)
	for i, p := range merged {
		test.That(t, p.X, test.ShouldAlmostEqual, float64(i))
	}

	out := filepath.Join(t.TempDir(), "plots")
	path, err := plotCenters(out, tr, te, 4)
	test.That(t, err, test.ShouldBeNil)
	info, err := os.Stat(path)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, info.Size(), test.ShouldBeGreaterThan, 0)
}

func TestAutoRange(t *testing.T) {
	xmin, xmax, ymin, ymax := autoRange(nil)
	test.That(t, []float64{xmin, xmax, ymin, ymax}, test.ShouldResemble, []float64{-1, 1, -1, 1})

	xmin, xmax, ymin, ymax = autoRange(plotter.XYs{{X: 0, Y: 2}, {X: 10, Y: 2}})
	test.That(t, xmin, test.ShouldAlmostEqual, -0.6)
	test.That(t, xmax, test.ShouldAlmostEqual, 10.6)
	test.That(t, ymin, test.ShouldAlmostEqual, 1.0)
	test.That(t, ymax, test.ShouldAlmostEqual, 3.0)
}

func TestConnString(t *testing.T) {
	saved := dbURL
	t.Cleanup(func() { dbURL = saved })

	dbURL = "postgres://example/db"
	test.That(t, connString(), test.ShouldEqual, "postgres://example/db")

	dbURL = ""
	t.Setenv("POSTGRES_HOST", "")
	test.That(t, connString(), test.ShouldEqual, "postgres://localhost:5432/mvdata")

	t.Setenv("POSTGRES_HOST", "db")
	t.Setenv("POSTGRES_USER", "u")
	t.Setenv("POSTGRES_PASSWORD", "p")
	t.Setenv("POSTGRES_DB", "mv")
	t.Setenv("POSTGRES_PORT", "")
	test.That(t, connString(), test.ShouldEqual, "postgres://u:p@db:5432/mv")
}
