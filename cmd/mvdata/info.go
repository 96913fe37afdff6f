package main

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/Noofbiz/mvdata/datasets"
)

var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "Summarize a capture: cameras, frame counts and split sizes",
	RunE: func(cmd *cobra.Command, args []string) error {
		ds, err := loadDataset()
		if err != nil {
			return err
		}
		return printInfo(os.Stdout, ds)
	},
}

func init() {
	rootCmd.AddCommand(infoCmd)
}

func printInfo(out io.Writer, ds *datasets.MultiView) error {
	cfg := ds.Config()
	fmt.Fprintf(out, "capture:    %s\n", cfg.Path)
	fmt.Fprintf(out, "format:     %s\n", ds.Format().Name())
	fmt.Fprintf(out, "images:     %s\n", ds.ImagesDir())
	fmt.Fprintf(out, "frames:     %d\n", ds.TotalFrames())

	assign, err := datasets.NewSplitAssignment(ds.TotalFrames(), cfg.TestSplitInterval)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "train:      %d\n", len(assign.Train))
	fmt.Fprintf(out, "test:       %d (every %d)\n", len(assign.Test), cfg.TestSplitInterval)
	fmt.Fprintln(out)

	w := tabwriter.NewWriter(out, 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "CAMERA\tMODEL\tSIZE\tFX\tFY\tCX\tCY")
	fmt.Fprintln(w, "------\t-----\t----\t--\t--\t--\t--")
	for _, id := range ds.CameraIDs() {
		in, err := ds.Intrinsics(id)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%d\t%s\t%dx%d\t%.2f\t%.2f\t%.2f\t%.2f\n",
			id, in.Model, in.Width, in.Height, in.Fx, in.Fy, in.Cx, in.Cy)
	}
	return w.Flush()
}
