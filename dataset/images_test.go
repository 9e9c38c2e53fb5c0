package dataset_test

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/petalml/petal/dataset"
)

// writeImageDir lays out root/<label>/<i>.png for each label.
func writeImageDir(t *testing.T, root string, labels []string, perLabel int) {
	t.Helper()
	for _, label := range labels {
		dir := filepath.Join(root, label)
		if err := os.MkdirAll(dir, 0755); err != nil {
			t.Fatal(err)
		}
		for i := 0; i < perLabel; i++ {
			img := image.NewRGBA(image.Rect(0, 0, 8, 8))
			for y := 0; y < 8; y++ {
				for x := 0; x < 8; x++ {
					img.Set(x, y, color.RGBA{R: uint8(i * 20), G: uint8(x * 30), B: uint8(y * 30), A: 255})
				}
			}
			f, err := os.Create(filepath.Join(dir, strconv.Itoa(i)+".png"))
			if err != nil {
				t.Fatal(err)
			}
			if err := png.Encode(f, img); err != nil {
				t.Fatal(err)
			}
			if err := f.Close(); err != nil {
				t.Fatal(err)
			}
		}
	}
}

func TestListImagesAndClassNames(t *testing.T) {
	root := t.TempDir()
	writeImageDir(t, root, []string{"tulip", "daisy"}, 10)

	paths, err := dataset.ListImages(root)
	if err != nil {
		t.Fatal(err)
	}
	if len(paths) != 20 {
		t.Fatalf("got %d images, want 20", len(paths))
	}

	names := dataset.ClassNames(paths)
	if len(names) != 2 || names[0] != "daisy" || names[1] != "tulip" {
		t.Fatalf("got class names %v, want [daisy tulip]", names)
	}

	train, test := dataset.TrainTestSplit(len(paths), 0.25, 42)
	if len(train) != 15 || len(test) != 5 {
		t.Fatalf("got %d/%d split, want 15/5", len(train), len(test))
	}
}

func TestListImagesMissingRoot(t *testing.T) {
	if _, err := dataset.ListImages(filepath.Join(t.TempDir(), "nope")); err == nil {
		t.Fatal("expected an error for a missing root")
	}
}

func TestListImagesEmptyRoot(t *testing.T) {
	if _, err := dataset.ListImages(t.TempDir()); err == nil {
		t.Fatal("expected an error for a root with no images")
	}
}

func TestLabel(t *testing.T) {
	if l := dataset.Label(filepath.Join("data", "rose", "1.jpg")); l != "rose" {
		t.Fatalf("got label %q, want rose", l)
	}
}
