package dataset

import (
	"math"
	"math/rand"
)

// TrainTestSplit partitions the indices [0, n) into disjoint training and
// test subsets. The test subset holds round(testFraction*n) indices chosen
// by shuffling with the given seed, so for a fixed seed and input order the
// partition is deterministic across runs.
func TrainTestSplit(n int, testFraction float64, seed int64) (train, test []int) {
	perm := rand.New(rand.NewSource(seed)).Perm(n)
	k := int(math.Round(testFraction * float64(n)))
	test = append([]int{}, perm[:k]...)
	train = append([]int{}, perm[k:]...)
	return train, test
}
