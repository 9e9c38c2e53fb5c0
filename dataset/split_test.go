package dataset_test

import (
	"testing"

	"github.com/petalml/petal/dataset"
)

func TestTrainTestSplitSizes(t *testing.T) {
	for _, n := range []int{4, 20, 100, 1360} {
		train, test := dataset.TrainTestSplit(n, 0.25, 42)
		if len(train)+len(test) != n {
			t.Fatalf("n=%d: subsets sum to %d", n, len(train)+len(test))
		}
		seen := make(map[int]bool, n)
		for _, i := range append(append([]int{}, train...), test...) {
			if seen[i] {
				t.Fatalf("n=%d: index %d appears twice", n, i)
			}
			seen[i] = true
		}
	}
	_, test := dataset.TrainTestSplit(100, 0.25, 42)
	if len(test) != 25 {
		t.Fatalf("got %d test samples, want 25", len(test))
	}
}

func TestTrainTestSplitDeterministic(t *testing.T) {
	trainA, testA := dataset.TrainTestSplit(50, 0.25, 42)
	trainB, testB := dataset.TrainTestSplit(50, 0.25, 42)
	for i := range trainA {
		if trainA[i] != trainB[i] {
			t.Fatal("training split differs between runs with the same seed")
		}
	}
	for i := range testA {
		if testA[i] != testB[i] {
			t.Fatal("test split differs between runs with the same seed")
		}
	}
}

func TestTrainTestSplitSeedMatters(t *testing.T) {
	_, testA := dataset.TrainTestSplit(100, 0.25, 42)
	_, testB := dataset.TrainTestSplit(100, 0.25, 43)
	same := true
	for i := range testA {
		if testA[i] != testB[i] {
			same = false
			break
		}
	}
	if same {
		t.Fatal("different seeds produced identical splits")
	}
}
