package upload

import (
	"iter"
	"slices"
)

// Batches yields consecutive slices of at most size items, in input order.
// size must be positive.
func Batches[T any](items []T, size int) iter.Seq[[]T] {
	return slices.Chunk(items, size)
}

// BatchCount is the number of slices Batches yields for n items.
func BatchCount(n, size int) int {
	if n == 0 {
		return 0
	}
	return (n + size - 1) / size
}
