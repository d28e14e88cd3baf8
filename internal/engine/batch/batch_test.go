package batch

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBounds(t *testing.T) {
	t.Run("ExactMultiple", func(t *testing.T) {
		bounds, err := Bounds(20, 10)
		require.NoError(t, err)
		require.Len(t, bounds, 2)
		assert.Equal(t, [2]int{0, 10}, bounds[0])
		assert.Equal(t, [2]int{10, 20}, bounds[1])
	})

	t.Run("ShortTail", func(t *testing.T) {
		bounds, err := Bounds(2500, 1000)
		require.NoError(t, err)
		require.Len(t, bounds, 3)
		assert.Equal(t, [2]int{0, 1000}, bounds[0])
		assert.Equal(t, [2]int{1000, 2000}, bounds[1])
		assert.Equal(t, [2]int{2000, 2500}, bounds[2])
	})

	t.Run("EmptyInput", func(t *testing.T) {
		bounds, err := Bounds(0, 10)
		require.NoError(t, err)
		assert.Empty(t, bounds)
	})

	t.Run("InvalidSize", func(t *testing.T) {
		_, err := Bounds(10, 0)
		assert.ErrorIs(t, err, ErrInvalidChunkSize)
		_, err = Bounds(10, -1)
		assert.ErrorIs(t, err, ErrInvalidChunkSize)
	})

	t.Run("PartitionIsTotal", func(t *testing.T) {
		for _, tc := range []struct{ n, size int }{
			{1, 1}, {7, 3}, {100, 7}, {999, 1000}, {1000, 1000}, {1001, 1000},
		} {
			bounds, err := Bounds(tc.n, tc.size)
			require.NoError(t, err)
			assert.Len(t, bounds, Count(tc.n, tc.size))

			covered := 0
			for i, b := range bounds {
				assert.Equal(t, covered, b[0], "chunks must be consecutive")
				length := b[1] - b[0]
				if i < len(bounds)-1 {
					assert.Equal(t, tc.size, length, "only the last chunk may be short")
				} else {
					assert.LessOrEqual(t, length, tc.size)
					assert.Positive(t, length)
				}
				covered = b[1]
			}
			assert.Equal(t, tc.n, covered, "every item must land in exactly one chunk")
		}
	})
}

func TestSplit(t *testing.T) {
	items := make([]string, 25)
	for i := range items {
		items[i] = fmt.Sprintf("id-%03d", i)
	}

	chunks, err := Split(items, 10)
	require.NoError(t, err)
	require.Len(t, chunks, 3)
	assert.Len(t, chunks[0], 10)
	assert.Len(t, chunks[1], 10)
	assert.Len(t, chunks[2], 5)

	// Concatenating the chunks reproduces the input exactly.
	var joined []string
	for _, c := range chunks {
		joined = append(joined, c...)
	}
	assert.Equal(t, items, joined)
}

func TestProgress(t *testing.T) {
	p := NewProgress(25, 3)

	snap := p.Snapshot()
	assert.Zero(t, snap.PercentComplete())
	assert.False(t, snap.Done())

	p.ChunkDone(10, false)
	p.ChunkDone(10, true)
	snap = p.Snapshot()
	assert.Equal(t, 20, snap.ProcessedItems)
	assert.Equal(t, 2, snap.ProcessedChunks)
	assert.Equal(t, 1, snap.FailedChunks)
	assert.InDelta(t, 80.0, snap.PercentComplete(), 0.001)

	p.ChunkDone(5, false)
	snap = p.Snapshot()
	assert.True(t, snap.Done())
	assert.InDelta(t, 100.0, snap.PercentComplete(), 0.001)

	t.Run("ZeroItems", func(t *testing.T) {
		empty := NewProgress(0, 0).Snapshot()
		assert.Zero(t, empty.PercentComplete())
		assert.True(t, empty.Done())
	})
}
