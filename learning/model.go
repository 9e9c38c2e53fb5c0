// Package learning implements the trainable models and the hyperparameter
// search used by the training commands.
package learning

import (
	"io"
)

// Classifier is a trained model. The internal parameter structure is opaque;
// a classifier only predicts class indices and serializes itself.
type Classifier interface {
	// Predict returns one class index per sample.
	Predict(samples [][]float64) ([]int, error)
	// Save writes the model so an independent reader can reload it.
	Save(w io.Writer) error
}
