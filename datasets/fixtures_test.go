package datasets

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// writeFile writes data to path, creating parent directories.
func writeFile(t *testing.T, path, data string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("failed to create dir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
}

// frameName is the image file name of frame i in a test capture.
func frameName(i int) string {
	return fmt.Sprintf("frame_%03d.jpg", i)
}

// writeCapture creates a COLMAP text capture with n frames under a temp dir.
// Frames alternate between two cameras and frame i is translated by (i,0,0).
// Image files are written into imagesFolder unless it is empty.
func writeCapture(t *testing.T, n int, imagesFolder string) string {
	t.Helper()
	root := t.TempDir()

	cams := "# CAMERA_ID, MODEL, WIDTH, HEIGHT, PARAMS[]\n" +
		"1 PINHOLE 800 600 400 420 400 300\n" +
		"2 SIMPLE_RADIAL 1024 768 500 512 384 0.01\n"
	writeFile(t, filepath.Join(root, "sparse", "0", "cameras.txt"), cams)

	var imgs strings.Builder
	imgs.WriteString("# IMAGE_ID, QW, QX, QY, QZ, TX, TY, TZ, CAMERA_ID, NAME\n")
	for i := 0; i < n; i++ {
		// image ids deliberately differ from positions
		fmt.Fprintf(&imgs, "%d 1 0 0 0 %d 0 0 %d %s\n\n", 100+i, i, 1+i%2, frameName(i))
	}
	writeFile(t, filepath.Join(root, "sparse", "0", "images.txt"), imgs.String())

	if imagesFolder != "" {
		for i := 0; i < n; i++ {
			writeFile(t, filepath.Join(root, imagesFolder, frameName(i)), "jpeg")
		}
	}
	return root
}

func testConfig(root string, split Split, interval int) Config {
	cfg := DefaultConfig(root)
	cfg.Split = split
	cfg.TestSplitInterval = interval
	return cfg
}
