package main

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/Noofbiz/mvdata/datasets"
)

var splitCmd = &cobra.Command{
	Use:   "split",
	Short: "List the frames of the selected split in split order",
	RunE: func(cmd *cobra.Command, args []string) error {
		ds, err := loadDataset()
		if err != nil {
			return err
		}
		return printSplit(os.Stdout, ds)
	},
}

func init() {
	rootCmd.AddCommand(splitCmd)
}

func printSplit(out io.Writer, ds *datasets.MultiView) error {
	recs := ds.Records()
	if len(recs) == 0 {
		fmt.Fprintf(out, "The %s split is empty.\n", ds.Config().Split)
		return nil
	}
	w := tabwriter.NewWriter(out, 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "INDEX\tFRAME\tCAMERA\tNAME")
	fmt.Fprintln(w, "-----\t-----\t------\t----")
	for i, r := range recs {
		fmt.Fprintf(w, "%d\t%d\t%d\t%s\n", i, r.FrameIndex, r.CameraID, r.Name)
	}
	return w.Flush()
}
