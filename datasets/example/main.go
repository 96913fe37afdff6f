package main

// Example command that demonstrates loading a COLMAP capture with the
// convenience auto-discovery helper, reading a few samples and converting a
// small batch into gomlx tensors.
//
// Image files are only checked when a sample is accessed, so a capture with
// a few missing images still loads.
//
// Usage:
//   go run ./datasets/example [capture-dir]
//
// Without an argument the example looks for a capture under ., data, assets
// and ../assets.

import (
	"errors"
	"fmt"
	"log"
	"os"

	"go.uber.org/zap"

	"github.com/Noofbiz/mvdata/datasets"
)

func main() {
	logger, err := zap.NewDevelopment()
	if err != nil {
		log.Fatalf("failed to create logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	cfg := datasets.DefaultConfig("")
	cfg.Logger = logger.Sugar()

	var ds *datasets.MultiView
	if len(os.Args) > 1 {
		cfg.Path = os.Args[1]
		ds, err = datasets.Load("colmap", cfg)
	} else {
		ds, err = datasets.AutoLoad(cfg)
	}
	if err != nil {
		log.Fatalf("failed to load capture: %v", err)
	}
	fmt.Printf("Using capture: %s (images in %s)\n", ds.Config().Path, ds.ImagesDir())
	fmt.Printf("Frames: %d total, %d in the %s split\n", ds.TotalFrames(), ds.Len(), ds.Config().Split)

	// Prepare a small batch (first N samples that have images)
	n := min(8, ds.Len())
	var samples []datasets.Sample
	for i := range n {
		s, err := ds.Get(i)
		if errors.Is(err, datasets.ErrMissingImage) {
			fmt.Printf("  skipping %d: %v\n", i, err)
			continue
		}
		if err != nil {
			log.Fatalf("failed to read sample %d: %v", i, err)
		}
		samples = append(samples, s)
	}
	if len(samples) == 0 {
		fmt.Println("No samples with images available.")
		return
	}

	flat, err := datasets.MakeCameraBatchFlat(samples)
	if err != nil {
		log.Fatalf("failed to make camera batch: %v", err)
	}
	k, w2c, size, err := flat.ToGomlxTensors()
	if err != nil {
		log.Fatalf("failed to convert camera batch to gomlx tensors: %v", err)
	}
	fmt.Printf("Created camera tensors: K=%s world_to_camera=%s size=%s\n", k.Shape(), w2c.Shape(), size.Shape())

	first := samples[0]
	fmt.Printf("  First sample: %s camera=%d fx=%.1f fy=%.1f center=%v\n",
		first.Name, first.CameraID, first.Intrinsics.Fx, first.Intrinsics.Fy, first.Extrinsics.Center())
}
