package main

import (
	"fmt"
	"image/color"
	"math"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/Noofbiz/mvdata/datasets"
)

var plotOut string

var plotCmd = &cobra.Command{
	Use:   "plot",
	Short: "Plot camera centers of both splits seen from above (x, z)",
	RunE: func(cmd *cobra.Command, args []string) error {
		train, test, err := loadBothSplits()
		if err != nil {
			return err
		}
		path, err := plotCenters(plotOut, centersXZ(train), centersXZ(test), train.Config().TestSplitInterval)
		if err != nil {
			return err
		}
		fmt.Printf("Wrote %s\n", path)
		return nil
	},
}

func init() {
	plotCmd.Flags().StringVarP(&plotOut, "out", "o", "output", "output directory")
	rootCmd.AddCommand(plotCmd)
}

// loadBothSplits loads the capture twice, once per split, with the shared
// flags otherwise unchanged.
func loadBothSplits() (train, test *datasets.MultiView, err error) {
	o := opts
	o.Split = string(datasets.SplitTrain)
	if train, err = loadWith(o); err != nil {
		return nil, nil, err
	}
	o.Split = string(datasets.SplitTest)
	o.Path = train.Config().Path
	if test, err = loadWith(o); err != nil {
		return nil, nil, err
	}
	return train, test, nil
}

func loadWith(o Options) (*datasets.MultiView, error) {
	saved := opts
	opts = o
	defer func() { opts = saved }()
	return loadDataset()
}

// centersXZ projects camera centers onto the ground plane.
func centersXZ(ds *datasets.MultiView) plotter.XYs {
	recs := ds.Records()
	xys := make(plotter.XYs, len(recs))
	for i, r := range recs {
		c := r.Extrinsics.Center()
		xys[i].X = c.X
		xys[i].Y = c.Z
	}
	return xys
}

func plotCenters(outDir string, train, test plotter.XYs, interval int) (string, error) {
	p := plot.New()
	p.Title.Text = "Camera centers: train (grey), test (red)"
	p.X.Label.Text = "x"
	p.Y.Label.Text = "z"

	tr, err := plotter.NewScatter(train)
	if err != nil {
		return "", err
	}
	tr.GlyphStyle.Color = color.RGBA{R: 120, G: 120, B: 120, A: 180}
	tr.GlyphStyle.Radius = vg.Points(1.8)
	p.Add(tr)
	p.Legend.Add("train", tr)

	te, err := plotter.NewScatter(test)
	if err != nil {
		return "", err
	}
	te.GlyphStyle.Color = color.RGBA{R: 200, G: 30, B: 30, A: 220}
	te.GlyphStyle.Radius = vg.Points(2.8)
	p.Add(te)
	p.Legend.Add("test", te)

	// camera path in capture order
	path := mergeByOrder(train, test, interval)
	if len(path) > 1 {
		line, err := plotter.NewLine(path)
		if err != nil {
			return "", err
		}
		line.Color = color.RGBA{R: 40, G: 120, B: 40, A: 100}
		line.Width = vg.Points(0.8)
		p.Add(line)
		p.Legend.Add("capture order", line)
	}

	p.Add(plotter.NewGrid())
	all := append(append(plotter.XYs{}, train...), test...)
	p.X.Min, p.X.Max, p.Y.Min, p.Y.Max = autoRange(all)

	if err := ensureDir(outDir); err != nil {
		return "", err
	}
	outPath := filepath.Join(outDir, "camera_centers.png")
	if err := p.Save(8*vg.Inch, 6*vg.Inch, outPath); err != nil {
		return "", err
	}
	return outPath, nil
}

// mergeByOrder interleaves the two splits back into capture order. Test
// frames sit at every interval-th position starting with the first.
func mergeByOrder(train, test plotter.XYs, interval int) plotter.XYs {
	n := len(train) + len(test)
	if len(test) == 0 || interval <= 0 {
		return append(plotter.XYs{}, train...)
	}
	out := make(plotter.XYs, 0, n)
	ti, si := 0, 0
	for i := range n {
		if i%interval == 0 && ti < len(test) {
			out = append(out, test[ti])
			ti++
		} else if si < len(train) {
			out = append(out, train[si])
			si++
		}
	}
	return out
}

// autoRange computes padded min/max for X and Y for a set of points.
func autoRange(xs plotter.XYs) (xmin, xmax, ymin, ymax float64) {
	if len(xs) == 0 {
		return -1, 1, -1, 1
	}
	xmin, xmax = math.Inf(1), math.Inf(-1)
	ymin, ymax = math.Inf(1), math.Inf(-1)
	for _, p := range xs {
		xmin, xmax = math.Min(xmin, p.X), math.Max(xmax, p.X)
		ymin, ymax = math.Min(ymin, p.Y), math.Max(ymax, p.Y)
	}
	padx := (xmax - xmin) * 0.06
	pady := (ymax - ymin) * 0.06
	if padx == 0 {
		padx = 1.0
	}
	if pady == 0 {
		pady = 1.0
	}
	return xmin - padx, xmax + padx, ymin - pady, ymax + pady
}

func ensureDir(path string) error {
	if path == "" {
		return nil
	}
	return os.MkdirAll(path, 0755)
}
