package learning

import (
	"encoding/gob"
	"io"
	"math"

	"github.com/go-errors/errors"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/optimize"
)

// LogisticRegression is a multinomial logistic-regression classifier with an
// L2 penalty. C is the inverse regularization strength; smaller values
// regularize harder. Fitting is delegated to gonum's L-BFGS minimizer.
type LogisticRegression struct {
	C        float64
	Classes  int
	Features int
	// Weights is row-major with one row of Features+1 parameters per class;
	// the final column of each row is the intercept.
	Weights []float64
}

var _ Classifier = (*LogisticRegression)(nil)

// NewLogisticRegression creates an unfitted classifier with the given inverse
// regularization strength.
func NewLogisticRegression(c float64) *LogisticRegression {
	return &LogisticRegression{C: c}
}

// Fit trains the classifier on feature vectors and integer labels. The class
// count is taken to be max(y)+1.
func (m *LogisticRegression) Fit(x [][]float64, y []int) error {
	if len(x) == 0 || len(x) != len(y) {
		return errors.Errorf("bad training data: %d samples, %d labels", len(x), len(y))
	}
	m.Features = len(x[0])
	m.Classes = 0
	for _, l := range y {
		if l < 0 {
			return errors.Errorf("negative label %d", l)
		}
		if l+1 > m.Classes {
			m.Classes = l + 1
		}
	}
	if m.Classes < 2 {
		return errors.Errorf("need at least 2 classes, got %d", m.Classes)
	}
	for i := range x {
		if len(x[i]) != m.Features {
			return errors.Errorf("sample %d has %d features, want %d", i, len(x[i]), m.Features)
		}
	}

	stride := m.Features + 1
	problem := optimize.Problem{
		Func: func(w []float64) float64 {
			scores := make([]float64, m.Classes)
			loss := 0.0
			for i, xi := range x {
				m.decision(w, xi, scores)
				loss += floats.LogSumExp(scores) - scores[y[i]]
			}
			// Intercepts are not penalized.
			for k := 0; k < m.Classes; k++ {
				for j := 0; j < m.Features; j++ {
					v := w[k*stride+j]
					loss += 0.5 / m.C * v * v
				}
			}
			return loss
		},
		Grad: func(grad, w []float64) {
			for i := range grad {
				grad[i] = 0
			}
			scores := make([]float64, m.Classes)
			for i, xi := range x {
				m.decision(w, xi, scores)
				lse := floats.LogSumExp(scores)
				for k := 0; k < m.Classes; k++ {
					p := math.Exp(scores[k] - lse)
					if k == y[i] {
						p--
					}
					row := grad[k*stride : (k+1)*stride]
					for j, v := range xi {
						row[j] += p * v
					}
					row[m.Features] += p
				}
			}
			for k := 0; k < m.Classes; k++ {
				for j := 0; j < m.Features; j++ {
					grad[k*stride+j] += w[k*stride+j] / m.C
				}
			}
		},
	}

	w0 := make([]float64, m.Classes*stride)
	settings := &optimize.Settings{
		GradientThreshold: 1e-6,
		MajorIterations:   100,
	}
	result, err := optimize.Minimize(problem, w0, settings, &optimize.LBFGS{})
	if err != nil {
		// The line search can stall once the gradient is flat near the
		// optimum; the minimizer it stopped at is still usable.
		if err != optimize.ErrLinesearcherFailure || result == nil || result.X == nil {
			return errors.Wrap(err, 0)
		}
	}
	m.Weights = result.X
	return nil
}

// Predict returns the most likely class index for each sample.
func (m *LogisticRegression) Predict(samples [][]float64) ([]int, error) {
	if m.Weights == nil {
		return nil, errors.Errorf("classifier is not fitted")
	}
	scores := make([]float64, m.Classes)
	pred := make([]int, len(samples))
	for i, s := range samples {
		if len(s) != m.Features {
			return nil, errors.Errorf("sample %d has %d features, want %d", i, len(s), m.Features)
		}
		m.decision(m.Weights, s, scores)
		best := 0
		for k := range scores {
			if scores[k] > scores[best] {
				best = k
			}
		}
		pred[i] = best
	}
	return pred, nil
}

// decision computes the unnormalized class scores for one sample.
func (m *LogisticRegression) decision(w, x []float64, out []float64) {
	stride := m.Features + 1
	for k := 0; k < m.Classes; k++ {
		row := w[k*stride : (k+1)*stride]
		s := row[m.Features]
		for j, v := range x {
			s += row[j] * v
		}
		out[k] = s
	}
}

// Save gob-encodes the fitted model.
func (m *LogisticRegression) Save(w io.Writer) error {
	if err := gob.NewEncoder(w).Encode(m); err != nil {
		return errors.Wrap(err, 0)
	}
	return nil
}

// LoadLogisticRegression reads a model previously written by Save.
func LoadLogisticRegression(r io.Reader) (*LogisticRegression, error) {
	m := &LogisticRegression{}
	if err := gob.NewDecoder(r).Decode(m); err != nil {
		return nil, errors.Wrap(err, 0)
	}
	return m, nil
}
