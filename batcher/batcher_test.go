package batcher

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func tokens(n int) []string {
	res := make([]string, n)
	for i := range res {
		res[i] = fmt.Sprintf("t%d", i)
	}
	return res
}

func TestChunk(t *testing.T) {
	for _, tc := range []struct {
		n, size int
		sizes   []int
	}{
		{0, 3, nil},
		{1, 3, []int{1}},
		{3, 3, []int{3}},
		{7, 3, []int{3, 3, 1}},
		{1000, 500, []int{500, 500}},
		{1001, 500, []int{500, 500, 1}},
		{5, 1, []int{1, 1, 1, 1, 1}},
	} {
		t.Run(fmt.Sprintf("%d by %d", tc.n, tc.size), func(t *testing.T) {
			items := tokens(tc.n)
			chunks := Chunk(items, tc.size)
			var (
				sizes []int
				flat  []string
			)
			for _, c := range chunks {
				assert.NotEmpty(t, c)
				sizes = append(sizes, len(c))
				flat = append(flat, c...)
			}
			assert.Equal(t, tc.sizes, sizes)
			if tc.n > 0 {
				assert.Equal(t, items, flat)
			}
		})
	}
}

func TestChunk_CappedCapacity(t *testing.T) {
	items := tokens(4)
	chunks := Chunk(items, 2)
	chunks[0] = append(chunks[0], "x")
	assert.Equal(t, "t2", items[2])
}

func TestChunk_InvalidSize(t *testing.T) {
	assert.Panics(t, func() { Chunk(tokens(3), 0) })
	assert.Panics(t, func() { Chunk(tokens(3), -1) })
}
