package dataset

import (
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"

	"github.com/go-errors/errors"
	"github.com/petalml/petal/preprocess"
	"gopkg.in/cheggaaa/pb.v1"
)

// Loader reads images from disk and applies a chain of preprocessors to each
// one, in the order they were supplied.
type Loader struct {
	Preprocessors []preprocess.Preprocessor
	Progress      bool
}

// Load decodes every path into a float32 array alongside the label derived
// from the path. The i-th array corresponds to the i-th label.
func (l Loader) Load(paths []string) ([][]float32, []string, error) {
	data := make([][]float32, len(paths))
	labels := make([]string, len(paths))

	var bar *pb.ProgressBar
	if l.Progress {
		bar = pb.StartNew(len(paths))
	}
	for i, path := range paths {
		f, err := os.Open(path)
		if err != nil {
			return nil, nil, errors.Wrap(err, 0)
		}
		img, _, err := image.Decode(f)
		f.Close()
		if err != nil {
			return nil, nil, errors.Errorf("decoding %s: %v", path, err)
		}
		for _, p := range l.Preprocessors {
			img = p.Process(img)
		}
		// Image-to-image steps run through the caller-supplied chain; the
		// array conversion changes type, so it sits outside Preprocessor
		// and always closes the chain.
		data[i] = preprocess.ToArray(img)
		labels[i] = Label(path)
		if bar != nil {
			bar.Increment()
		}
	}
	if bar != nil {
		bar.Finish()
	}
	return data, labels, nil
}
