package batch

import (
	"sync"
	"time"
)

// Progress tracks how far a mapping job has advanced. It is safe for
// concurrent use so parallel chunk workers can share one tracker.
type Progress struct {
	mu sync.RWMutex

	totalItems  int
	totalChunks int

	processedItems  int
	processedChunks int
	failedChunks    int

	startTime time.Time
}

// NewProgress creates a tracker for a job of totalItems identifiers split
// into totalChunks chunks.
func NewProgress(totalItems, totalChunks int) *Progress {
	return &Progress{
		totalItems:  totalItems,
		totalChunks: totalChunks,
		startTime:   time.Now(),
	}
}

// ChunkDone records a chunk reaching a terminal state. items is the chunk
// length; failed marks chunks that gave up.
func (p *Progress) ChunkDone(items int, failed bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.processedItems += items
	p.processedChunks++
	if failed {
		p.failedChunks++
	}
}

// Snapshot returns an immutable copy of the current state.
func (p *Progress) Snapshot() Snapshot {
	p.mu.RLock()
	defer p.mu.RUnlock()

	return Snapshot{
		TotalItems:      p.totalItems,
		ProcessedItems:  p.processedItems,
		TotalChunks:     p.totalChunks,
		ProcessedChunks: p.processedChunks,
		FailedChunks:    p.failedChunks,
		Elapsed:         time.Since(p.startTime),
	}
}

// Snapshot is a point-in-time view of job progress.
type Snapshot struct {
	TotalItems      int
	ProcessedItems  int
	TotalChunks     int
	ProcessedChunks int
	FailedChunks    int
	Elapsed         time.Duration
}

// PercentComplete returns completion as a 0-100 percentage.
func (s Snapshot) PercentComplete() float64 {
	if s.TotalItems == 0 {
		return 0
	}
	return float64(s.ProcessedItems) / float64(s.TotalItems) * 100
}

// Done reports whether every chunk has reached a terminal state.
func (s Snapshot) Done() bool {
	return s.ProcessedChunks >= s.TotalChunks
}
