// Package preprocess handles preprocessing of raw images into the fixed-size
// numeric arrays the models train on.
package preprocess

import (
	"image"
	"image/draw"

	"github.com/nfnt/resize"
)

// Preprocessor is applied to images as they are loaded into a dataset.
// Preprocessors are applied in the order the caller supplies them.
type Preprocessor interface {
	Process(img image.Image) image.Image
}

// AspectAware resizes an image to Width x Height pixels. The image is first
// scaled along its smaller dimension so the aspect ratio is preserved, then
// the overflow along the larger dimension is center-cropped away.
type AspectAware struct {
	Width  uint
	Height uint
}

// Process resizes and crops a single image.
func (a AspectAware) Process(img image.Image) image.Image {
	b := img.Bounds()
	if b.Dx() < b.Dy() {
		img = resize.Resize(a.Width, 0, img, resize.Bilinear)
	} else {
		img = resize.Resize(0, a.Height, img, resize.Bilinear)
	}
	b = img.Bounds()
	dx := (b.Dx() - int(a.Width)) / 2
	dy := (b.Dy() - int(a.Height)) / 2
	r := image.Rect(b.Min.X+dx, b.Min.Y+dy, b.Min.X+dx+int(a.Width), b.Min.Y+dy+int(a.Height))
	return crop(img, r)
}

func crop(img image.Image, r image.Rectangle) image.Image {
	type subImager interface {
		SubImage(r image.Rectangle) image.Image
	}
	if s, ok := img.(subImager); ok {
		return s.SubImage(r)
	}
	out := image.NewRGBA(image.Rect(0, 0, r.Dx(), r.Dy()))
	draw.Draw(out, out.Bounds(), img, r.Min, draw.Src)
	return out
}

// ToArray converts an image to a channel-first float32 array (red, green and
// blue planes in row-major order) with intensities in [0, 255].
func ToArray(img image.Image) []float32 {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	out := make([]float32, 3*w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			r, g, bl, _ := img.At(b.Min.X+x, b.Min.Y+y).RGBA()
			i := y*w + x
			out[i] = float32(r >> 8)
			out[w*h+i] = float32(g >> 8)
			out[2*w*h+i] = float32(bl >> 8)
		}
	}
	return out
}
