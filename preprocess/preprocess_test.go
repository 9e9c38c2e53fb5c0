package preprocess_test

import (
	"image"
	"image/color"
	"testing"

	"github.com/petalml/petal/preprocess"
)

func gradient(w, h int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x % 256), G: uint8(y % 256), B: 128, A: 255})
		}
	}
	return img
}

func TestAspectAwareLandscape(t *testing.T) {
	out := preprocess.AspectAware{Width: 64, Height: 64}.Process(gradient(200, 100))
	if out.Bounds().Dx() != 64 || out.Bounds().Dy() != 64 {
		t.Fatalf("got %vx%v, want 64x64", out.Bounds().Dx(), out.Bounds().Dy())
	}
}

func TestAspectAwarePortrait(t *testing.T) {
	out := preprocess.AspectAware{Width: 64, Height: 64}.Process(gradient(50, 150))
	if out.Bounds().Dx() != 64 || out.Bounds().Dy() != 64 {
		t.Fatalf("got %vx%v, want 64x64", out.Bounds().Dx(), out.Bounds().Dy())
	}
}

func TestToArray(t *testing.T) {
	img := gradient(8, 4)
	a := preprocess.ToArray(img)
	if len(a) != 3*8*4 {
		t.Fatalf("got %d values, want %d", len(a), 3*8*4)
	}
	for i, v := range a {
		if v < 0 || v > 255 {
			t.Fatalf("value %d out of range: %v", i, v)
		}
	}
	// Same input must produce the same array.
	b := preprocess.ToArray(img)
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("ToArray is not deterministic at %d", i)
		}
	}
	// Blue plane is constant 128 in the fixture.
	if a[2*8*4] != 128 {
		t.Fatalf("blue plane = %v, want 128", a[2*8*4])
	}
}
