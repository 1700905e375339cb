package upload

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBatches_SplitsInOrder(t *testing.T) {
	items := []int{1, 2, 3, 4, 5, 6, 7}

	var got [][]int
	for b := range Batches(items, 3) {
		got = append(got, b)
	}

	assert.Equal(t, [][]int{{1, 2, 3}, {4, 5, 6}, {7}}, got)
}

func TestBatches_Sizes(t *testing.T) {
	items := make([]int, 1200)

	var sizes []int
	for b := range Batches(items, 500) {
		sizes = append(sizes, len(b))
	}

	assert.Equal(t, []int{500, 500, 200}, sizes)
	assert.Equal(t, 3, BatchCount(len(items), 500))
}

func TestBatches_Empty(t *testing.T) {
	for range Batches([]int(nil), 10) {
		t.Fatal("no batch expected")
	}
	assert.Zero(t, BatchCount(0, 10))
}

func TestBatchCount(t *testing.T) {
	tests := []struct{ n, size, want int }{
		{1, 500, 1},
		{500, 500, 1},
		{501, 500, 2},
		{7, 1, 7},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, BatchCount(tt.n, tt.size), "n=%d size=%d", tt.n, tt.size)
	}
}
