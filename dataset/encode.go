package dataset

import (
	"github.com/go-errors/errors"
)

// LabelEncoder maps class labels to indices and one-hot vectors. The label
// set is fixed at construction and never re-derived, so every encoding the
// same encoder produces has the same width regardless of which labels appear
// in a particular subset.
type LabelEncoder struct {
	classes []string
	index   map[string]int
}

// NewLabelEncoder builds an encoder over an ordered set of class names.
func NewLabelEncoder(classes []string) *LabelEncoder {
	index := make(map[string]int, len(classes))
	for i, c := range classes {
		index[c] = i
	}
	return &LabelEncoder{
		classes: append([]string{}, classes...),
		index:   index,
	}
}

// Classes returns a copy of the ordered class names.
func (e *LabelEncoder) Classes() []string {
	return append([]string{}, e.classes...)
}

// Index returns the class index of a label.
func (e *LabelEncoder) Index(label string) (int, error) {
	i, ok := e.index[label]
	if !ok {
		return 0, errors.Errorf("unknown label %q", label)
	}
	return i, nil
}

// Transform one-hot encodes a sequence of labels, producing one vector of
// len(Classes()) values per label with a single active position.
func (e *LabelEncoder) Transform(labels []string) ([][]float32, error) {
	out := make([][]float32, len(labels))
	for i, l := range labels {
		j, err := e.Index(l)
		if err != nil {
			return nil, err
		}
		row := make([]float32, len(e.classes))
		row[j] = 1
		out[i] = row
	}
	return out, nil
}

// Argmax decodes a one-hot or probability vector back to its class index.
func Argmax(v []float32) int {
	best := 0
	for i := range v {
		if v[i] > v[best] {
			best = i
		}
	}
	return best
}
