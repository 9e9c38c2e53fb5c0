package learning_test

import (
	"bytes"
	"math/rand"
	"testing"

	"github.com/petalml/petal/learning"
)

// blobs returns n samples per class drawn around well-separated centers.
func blobs(n int, centers [][]float64, seed int64) ([][]float64, []int) {
	r := rand.New(rand.NewSource(seed))
	var x [][]float64
	var y []int
	for i := 0; i < n; i++ {
		for class, center := range centers {
			s := make([]float64, len(center))
			for j, c := range center {
				s[j] = c + r.NormFloat64()*0.3
			}
			x = append(x, s)
			y = append(y, class)
		}
	}
	return x, y
}

func TestLogisticRegressionSeparable(t *testing.T) {
	x, y := blobs(30, [][]float64{{0, 0}, {5, 5}, {0, 5}}, 1)
	m := learning.NewLogisticRegression(1.0)
	if err := m.Fit(x, y); err != nil {
		t.Fatal(err)
	}
	pred, err := m.Predict(x)
	if err != nil {
		t.Fatal(err)
	}
	for i := range y {
		if pred[i] != y[i] {
			t.Fatalf("sample %d predicted %d, want %d", i, pred[i], y[i])
		}
	}
}

func TestLogisticRegressionUnfitted(t *testing.T) {
	m := learning.NewLogisticRegression(1.0)
	if _, err := m.Predict([][]float64{{1, 2}}); err == nil {
		t.Fatal("expected an error predicting with an unfitted model")
	}
}

func TestLogisticRegressionBadInput(t *testing.T) {
	m := learning.NewLogisticRegression(1.0)
	if err := m.Fit(nil, nil); err == nil {
		t.Fatal("expected an error fitting empty data")
	}
	if err := m.Fit([][]float64{{1}, {2}}, []int{0}); err == nil {
		t.Fatal("expected an error for mismatched lengths")
	}
}

func TestLogisticRegressionSerializationRoundTrip(t *testing.T) {
	x, y := blobs(20, [][]float64{{0, 0}, {4, 4}}, 2)
	m := learning.NewLogisticRegression(10.0)
	if err := m.Fit(x, y); err != nil {
		t.Fatal(err)
	}

	// Serialize through the Classifier interface, the way the driver does.
	var clf learning.Classifier = m
	var buf bytes.Buffer
	if err := clf.Save(&buf); err != nil {
		t.Fatal(err)
	}
	loaded, err := learning.LoadLogisticRegression(&buf)
	if err != nil {
		t.Fatal(err)
	}

	want, err := clf.Predict(x)
	if err != nil {
		t.Fatal(err)
	}
	got, err := loaded.Predict(x)
	if err != nil {
		t.Fatal(err)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("prediction %d differs after reload: %d vs %d", i, got[i], want[i])
		}
	}
}
