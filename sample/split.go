// Package sample holds the train/test partitioning and the
// class-imbalance correction applied to the training partition.
package sample

import (
	"math"
	"math/rand"
	"sort"
)

// Split partitions row indices [0,n) into train and test sets by a
// seeded shuffle. The same n, testFrac and seed always produce the same
// partition. Returned index slices are sorted.
func Split(n int, testFrac float64, seed int64) (train, test []int) {
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	rng := rand.New(rand.NewSource(seed))
	rng.Shuffle(n, func(i, j int) { idx[i], idx[j] = idx[j], idx[i] })

	nTest := int(math.Round(testFrac * float64(n)))
	test = append([]int(nil), idx[:nTest]...)
	train = append([]int(nil), idx[nTest:]...)
	sort.Ints(train)
	sort.Ints(test)
	return train, test
}
