package learning

import (
	"runtime"
	"sync"

	"github.com/go-errors/errors"
)

// DefaultCandidates is the fixed grid of inverse regularization strengths
// explored when tuning the logistic-regression classifier.
var DefaultCandidates = []float64{0.1, 1.0, 10.0, 100.0, 1000.0, 10000.0}

// DefaultFolds is the cross-validation fold count used by the grid search.
const DefaultFolds = 3

// GridSearch exhaustively cross-validates a candidate set of C values for a
// logistic-regression classifier and refits the best candidate on the full
// training data.
type GridSearch struct {
	Candidates []float64
	Folds      int
	// Jobs bounds how many candidates are evaluated concurrently; values
	// below 1 mean one worker per CPU.
	Jobs int
}

// Result is the outcome of a grid search.
type Result struct {
	C     float64
	Score float64 // mean held-out accuracy across folds
	Model *LogisticRegression
}

// Search scores every candidate with k-fold cross-validation, picks the best
// mean accuracy and refits that candidate on all of x. Candidates are scored
// independently but compared in their declared order, and the best score is
// only replaced on strict improvement, so ties keep the earliest candidate.
// Search blocks until every candidate has been evaluated.
func (g GridSearch) Search(x [][]float64, y []int) (*Result, error) {
	candidates := g.Candidates
	if len(candidates) == 0 {
		candidates = DefaultCandidates
	}
	folds := g.Folds
	if folds < 2 {
		folds = DefaultFolds
	}
	if len(x) < folds {
		return nil, errors.Errorf("%d samples is not enough for %d-fold cross-validation", len(x), folds)
	}
	jobs := g.Jobs
	if jobs < 1 {
		jobs = runtime.NumCPU()
	}

	scores := make([]float64, len(candidates))
	errs := make([]error, len(candidates))
	sem := make(chan struct{}, jobs)
	var wg sync.WaitGroup
	for i, c := range candidates {
		wg.Add(1)
		go func(i int, c float64) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()
			scores[i], errs[i] = crossValidate(x, y, c, folds)
		}(i, c)
	}
	wg.Wait()
	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	best := 0
	for i := range scores {
		if scores[i] > scores[best] {
			best = i
		}
	}
	model := NewLogisticRegression(candidates[best])
	if err := model.Fit(x, y); err != nil {
		return nil, err
	}
	return &Result{C: candidates[best], Score: scores[best], Model: model}, nil
}

// crossValidate scores one candidate as the mean accuracy over contiguous
// folds of x.
func crossValidate(x [][]float64, y []int, c float64, folds int) (float64, error) {
	n := len(x)
	total := 0.0
	for f := 0; f < folds; f++ {
		lo, hi := f*n/folds, (f+1)*n/folds
		trainX := make([][]float64, 0, n-(hi-lo))
		trainY := make([]int, 0, n-(hi-lo))
		trainX = append(append(trainX, x[:lo]...), x[hi:]...)
		trainY = append(append(trainY, y[:lo]...), y[hi:]...)

		m := NewLogisticRegression(c)
		if err := m.Fit(trainX, trainY); err != nil {
			return 0, err
		}
		pred, err := m.Predict(x[lo:hi])
		if err != nil {
			return 0, err
		}
		correct := 0
		for i, p := range pred {
			if p == y[lo+i] {
				correct++
			}
		}
		total += float64(correct) / float64(hi-lo)
	}
	return total / float64(folds), nil
}
