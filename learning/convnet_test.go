package learning_test

import (
	"math/rand"
	"testing"

	"github.com/petalml/petal/learning"
)

func tinyImages(n, size, classes int, seed int64) (x [][]float32, y [][]float32, truth []int) {
	r := rand.New(rand.NewSource(seed))
	for i := 0; i < n; i++ {
		class := i % classes
		img := make([]float32, 3*size*size)
		for j := range img {
			// Class-dependent mean intensity so the task is learnable.
			img[j] = float32(class)/float32(classes) + float32(r.NormFloat64())*0.05
		}
		onehot := make([]float32, classes)
		onehot[class] = 1
		x = append(x, img)
		y = append(y, onehot)
		truth = append(truth, class)
	}
	return x, y, truth
}

func TestNewConvNetRejectsBadGeometry(t *testing.T) {
	if _, err := learning.NewConvNet(30, 30, 3, 2); err == nil {
		t.Fatal("expected an error for a size not divisible by 4")
	}
	if _, err := learning.NewConvNet(16, 16, 3, 1); err == nil {
		t.Fatal("expected an error for a single class")
	}
}

func TestConvNetFitAndPredict(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping conv net training in short mode")
	}
	net, err := learning.NewConvNet(8, 8, 3, 2)
	if err != nil {
		t.Fatal(err)
	}
	defer net.Close()

	trainX, trainY, _ := tinyImages(16, 8, 2, 1)
	valX, valY, valTruth := tinyImages(8, 8, 2, 2)

	history, err := net.Fit(trainX, trainY, valX, valY, 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(history.TrainLoss) != 2 || len(history.ValLoss) != 2 ||
		len(history.TrainAcc) != 2 || len(history.ValAcc) != 2 {
		t.Fatalf("history has wrong length: %+v", history)
	}

	pred, err := net.Predict(valX)
	if err != nil {
		t.Fatal(err)
	}
	if len(pred) != len(valTruth) {
		t.Fatalf("got %d predictions for %d samples", len(pred), len(valTruth))
	}
	for i, p := range pred {
		if p < 0 || p >= 2 {
			t.Fatalf("prediction %d out of range: %d", i, p)
		}
	}
}
