// Package main tunes and trains a logistic-regression classifier on feature
// vectors extracted ahead of time into a feature store, then serializes the
// best estimator to disk.
package main

import (
	"fmt"
	"log"
	"os"

	"github.com/alexflint/go-arg"
	"github.com/go-errors/errors"
	"github.com/petalml/petal/eval"
	"github.com/petalml/petal/featurestore"
	"github.com/petalml/petal/learning"
)

type args struct {
	Db    string `arg:"help:Path to the feature store.,required"`
	Model string `arg:"help:Path to write the trained model to.,required"`
	Jobs  int    `arg:"help:Number of concurrent jobs when tuning hyperparameters (-1 uses all cores)."`
}

func (args) Version() string {
	return "train_features 12.Aug.2026"
}

func (args) Description() string {
	return `Train a logistic-regression classifier on extracted features.`
}

func main() {
	var args args
	args.Jobs = -1
	arg.MustParse(&args)

	if err := run(args); err != nil {
		if e, ok := err.(*errors.Error); ok {
			log.Fatal(e.ErrorStack())
		}
		log.Fatal(err)
	}
}

func run(args args) error {
	store, err := featurestore.Open(args.Db)
	if err != nil {
		return err
	}
	defer store.Close()

	features, err := store.Features()
	if err != nil {
		return err
	}
	labels, err := store.Labels()
	if err != nil {
		return err
	}
	labelNames, err := store.LabelNames()
	if err != nil {
		return err
	}
	if len(features) != len(labels) {
		return errors.Errorf("store has %d features but %d labels", len(features), len(labels))
	}

	// The split is positional: the store is expected to have been shuffled
	// before it was written.
	i := featurestore.SplitIndex(len(labels))
	warnLabelSkew(labels, i, labelNames)

	fmt.Println("[INFO] tuning hyperparameters...")
	search := learning.GridSearch{
		Candidates: learning.DefaultCandidates,
		Folds:      learning.DefaultFolds,
		Jobs:       args.Jobs,
	}
	result, err := search.Search(features[:i], labels[:i])
	if err != nil {
		return err
	}
	fmt.Printf("[INFO] best hyperparameters: C=%v\n", result.C)

	fmt.Println("[INFO] evaluating...")
	pred, err := result.Model.Predict(features[i:])
	if err != nil {
		return err
	}
	fmt.Println(eval.Report(labels[i:], pred, labelNames))

	fmt.Println("[INFO] saving model...")
	return saveModel(args.Model, result.Model)
}

// saveModel serializes any trained classifier to path, overwriting whatever
// is there.
func saveModel(path string, model learning.Classifier) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, 0)
	}
	if err := model.Save(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// warnLabelSkew flags classes entirely missing from one side of the
// positional split, which usually means the store was written unshuffled.
func warnLabelSkew(labels []int, split int, names []string) {
	inTrain := make(map[int]bool)
	inTest := make(map[int]bool)
	for i, l := range labels {
		if i < split {
			inTrain[l] = true
		} else {
			inTest[l] = true
		}
	}
	for l := range inTrain {
		if !inTest[l] {
			log.Printf("[WARN] label %s has no evaluation samples; was the store shuffled before writing?", labelName(names, l))
		}
	}
	for l := range inTest {
		if !inTrain[l] {
			log.Printf("[WARN] label %s has no training samples; was the store shuffled before writing?", labelName(names, l))
		}
	}
}

func labelName(names []string, l int) string {
	if l >= 0 && l < len(names) {
		return fmt.Sprintf("%q", names[l])
	}
	return fmt.Sprintf("%d", l)
}
