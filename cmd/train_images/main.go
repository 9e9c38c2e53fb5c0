// Package main trains a small convolutional network from scratch on a
// directory of label-named image folders, with no augmentation, and reports
// per-class metrics plus a training-curve chart.
package main

import (
	"fmt"
	"log"

	"github.com/alexflint/go-arg"
	"github.com/go-errors/errors"
	"github.com/petalml/petal/dataset"
	"github.com/petalml/petal/eval"
	"github.com/petalml/petal/learning"
	"github.com/petalml/petal/output"
	"github.com/petalml/petal/preprocess"
)

type args struct {
	Dataset string `arg:"help:Path to the root of label-named image directories.,required"`
	Plot    string `arg:"help:Path to write the training chart to."`
}

func (args) Version() string {
	return "train_images 12.Aug.2026"
}

func (args) Description() string {
	return `Train a convolutional network on raw images with no augmentation.`
}

const (
	imageSize    = 64
	testFraction = 0.25
	splitSeed    = 42
)

func main() {
	var args args
	args.Plot = "training.png"
	arg.MustParse(&args)

	if err := run(args); err != nil {
		if e, ok := err.(*errors.Error); ok {
			log.Fatal(e.ErrorStack())
		}
		log.Fatal(err)
	}
}

func run(args args) error {
	fmt.Println("[INFO] loading images...")
	paths, err := dataset.ListImages(args.Dataset)
	if err != nil {
		return err
	}
	classNames := dataset.ClassNames(paths)

	loader := dataset.Loader{
		Preprocessors: []preprocess.Preprocessor{
			preprocess.AspectAware{Width: imageSize, Height: imageSize},
		},
		Progress: true,
	}
	data, labels, err := loader.Load(paths)
	if err != nil {
		return err
	}
	// Scale raw pixel intensities to [0, 1].
	for _, d := range data {
		for i := range d {
			d[i] /= 255
		}
	}

	trainIdx, testIdx := dataset.TrainTestSplit(len(data), testFraction, splitSeed)
	trainX, trainLabels := gather(data, labels, trainIdx)
	testX, testLabels := gather(data, labels, testIdx)

	encoder := dataset.NewLabelEncoder(classNames)
	trainY, err := encoder.Transform(trainLabels)
	if err != nil {
		return err
	}
	testY, err := encoder.Transform(testLabels)
	if err != nil {
		return err
	}

	fmt.Println("[INFO] compiling model...")
	net, err := learning.NewConvNet(imageSize, imageSize, 3, len(classNames))
	if err != nil {
		return err
	}
	defer net.Close()

	fmt.Println("[INFO] training network...")
	history, err := net.Fit(trainX, trainY, testX, testY, learning.DefaultEpochs)
	if err != nil {
		return err
	}

	fmt.Println("[INFO] evaluating network...")
	pred, err := net.Predict(testX)
	if err != nil {
		return err
	}
	truth := make([]int, len(testY))
	for i, row := range testY {
		truth[i] = dataset.Argmax(row)
	}
	fmt.Println(eval.Report(truth, pred, classNames))

	return output.DefaultTrainingPlot(args.Plot).Render(history)
}

func gather(data [][]float32, labels []string, idx []int) ([][]float32, []string) {
	x := make([][]float32, len(idx))
	l := make([]string, len(idx))
	for i, j := range idx {
		x[i] = data[j]
		l[i] = labels[j]
	}
	return x, l
}
