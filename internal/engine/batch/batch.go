// Package batch partitions identifier sequences into fixed-size chunks and
// tracks job progress.
//
// Partitioning is deterministic and total: every identifier lands in exactly
// one chunk, chunk order follows input order, and concatenating the chunks
// reproduces the input.
package batch

import (
	"errors"
	"fmt"
)

// ErrInvalidChunkSize is returned for chunk sizes below 1.
var ErrInvalidChunkSize = errors.New("chunk size must be >= 1")

// Bounds returns the [start, end) index pairs partitioning n items into
// chunks of at most size items. The last chunk may be shorter. An input of
// zero items yields zero chunks.
func Bounds(n, size int) ([][2]int, error) {
	if size < 1 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidChunkSize, size)
	}

	count := Count(n, size)
	bounds := make([][2]int, count)
	for i := 0; i < count; i++ {
		start := i * size
		end := min(start+size, n)
		bounds[i] = [2]int{start, end}
	}
	return bounds, nil
}

// Count returns ceil(n/size), the number of chunks for n items.
func Count(n, size int) int {
	count := n / size
	if n%size > 0 {
		count++
	}
	return count
}

// Split partitions items into consecutive sub-slices of at most size items.
// The sub-slices share backing storage with items.
func Split[T any](items []T, size int) ([][]T, error) {
	bounds, err := Bounds(len(items), size)
	if err != nil {
		return nil, err
	}

	chunks := make([][]T, len(bounds))
	for i, b := range bounds {
		chunks[i] = items[b[0]:b[1]]
	}
	return chunks, nil
}
