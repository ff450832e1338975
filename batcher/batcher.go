// Package batcher splits token lists into provider-sized chunks.
package batcher

import "fmt"

// Chunk splits items into ceil(len/maxSize) consecutive chunks of at most maxSize
// elements. Chunks share the backing array with items but have capped capacity,
// so appending to one never overwrites its neighbour.
func Chunk[T any](items []T, maxSize int) [][]T {
	if maxSize <= 0 {
		panic(fmt.Sprintf("batcher: invalid chunk size %d", maxSize))
	}
	if len(items) == 0 {
		return nil
	}
	chunks := make([][]T, 0, (len(items)+maxSize-1)/maxSize)
	for i := 0; i < len(items); i += maxSize {
		j := min(i+maxSize, len(items))
		chunks = append(chunks, items[i:j:j])
	}
	return chunks
}
