package engine

// Terminal failure reasons recorded on a ChunkResult.
const (
	// ReasonExhaustedRetries marks a chunk that failed every allowed attempt.
	ReasonExhaustedRetries = "exhausted retries"

	// ReasonCanceled marks a chunk terminated by job cancellation.
	ReasonCanceled = "canceled"
)

// ChunkResult is the terminal outcome of one chunk: either the raw response
// text or a failure reason. Exactly one ChunkResult exists per chunk, and it
// is never mutated after creation.
type ChunkResult struct {
	// Index is the chunk's position in the partition.
	Index int

	// Size is the number of identifiers in the chunk.
	Size int

	// Text is the raw response text. Empty on failure.
	Text string

	// Attempts is how many requests were issued for this chunk.
	// Zero for cache hits and chunks canceled before their first attempt.
	Attempts int

	// Cached is true when the text came from the response cache.
	Cached bool

	// Reason is the terminal failure reason, empty on success.
	Reason string

	// Err is the last attempt error, nil on success.
	Err error
}

// Failed reports whether the chunk gave up without a response.
func (r ChunkResult) Failed() bool {
	return r.Reason != ""
}

// JobResult holds one ChunkResult per chunk, in chunk order.
type JobResult struct {
	// JobID uniquely identifies the run.
	JobID string

	// Chunks are the per-chunk outcomes, index i holding the i-th chunk.
	Chunks []ChunkResult
}

// Failures returns the failed chunks, in chunk order.
func (r JobResult) Failures() []ChunkResult {
	var failed []ChunkResult
	for _, c := range r.Chunks {
		if c.Failed() {
			failed = append(failed, c)
		}
	}
	return failed
}

// Complete reports whether every chunk succeeded.
func (r JobResult) Complete() bool {
	for _, c := range r.Chunks {
		if c.Failed() {
			return false
		}
	}
	return true
}
