package main

import (
	"fmt"
	"io"
	"os"

	"github.com/pkg/errors"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/Noofbiz/mvdata/datasets"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Read every sample of the split and report missing images",
	RunE: func(cmd *cobra.Command, args []string) error {
		ds, err := loadDataset()
		if err != nil {
			return err
		}
		bar := progressbar.NewOptions(ds.Len(),
			progressbar.OptionSetDescription("checking images"),
			progressbar.OptionSetWriter(os.Stderr),
			progressbar.OptionShowCount(),
		)
		missing, err := checkImages(ds, func() { _ = bar.Add(1) })
		_ = bar.Finish()
		fmt.Fprintln(os.Stderr)
		if err != nil {
			return err
		}
		reportMissing(os.Stdout, ds, missing)
		if len(missing) > 0 {
			return errors.Errorf("%d of %d images missing", len(missing), ds.Len())
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

// checkImages calls Get for every index and returns the ones whose image is
// missing. Any other error stops the scan.
func checkImages(ds *datasets.MultiView, step func()) ([]int, error) {
	var missing []int
	for i := range ds.Len() {
		_, err := ds.Get(i)
		switch {
		case errors.Is(err, datasets.ErrMissingImage):
			missing = append(missing, i)
			logger.Debugw("missing image", "index", i, "error", err)
		case err != nil:
			return nil, err
		}
		if step != nil {
			step()
		}
	}
	return missing, nil
}

func reportMissing(out io.Writer, ds *datasets.MultiView, missing []int) {
	if len(missing) == 0 {
		fmt.Fprintf(out, "All %d images of the %s split are present.\n", ds.Len(), ds.Config().Split)
		return
	}
	recs := ds.Records()
	fmt.Fprintf(out, "%d missing images:\n", len(missing))
	for _, i := range missing {
		fmt.Fprintf(out, "  %d\t%s\n", i, recs[i].ImagePath)
	}
}
