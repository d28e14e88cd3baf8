// Package engine drives batched identifier-mapping jobs: it partitions the
// input, runs one request-retry cycle per chunk, and assembles the partial
// responses into a JobResult in input order. Per-chunk failures never abort
// the job; the caller decides what a failed chunk means.
package engine

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/protmap/idremap/internal/config"
	"github.com/protmap/idremap/internal/engine/batch"
	"github.com/protmap/idremap/internal/engine/cache"
	"github.com/protmap/idremap/internal/logging"
	"github.com/protmap/idremap/internal/uniprot"
)

// Mapper submits one mapping request and returns the raw response text.
// Implemented by uniprot.Client.
type Mapper interface {
	Map(ctx context.Context, req uniprot.MappingRequest) (string, error)
}

// ResponseCache stores raw chunk responses keyed by request hash.
// Implemented by cache.FileStore. Any Get error is treated as a miss.
type ResponseCache interface {
	Get(key string) (string, error)
	Set(key, text string) error
}

// ProgressFunc receives a progress snapshot after each chunk reaches a
// terminal state. Observational only.
type ProgressFunc func(batch.Snapshot)

// Option customizes a Driver.
type Option func(*Driver)

// WithCache enables the response cache.
func WithCache(c ResponseCache) Option {
	return func(d *Driver) { d.cache = c }
}

// WithProgress registers a progress callback.
func WithProgress(fn ProgressFunc) Option {
	return func(d *Driver) { d.onProgress = fn }
}

// Driver runs mapping jobs for one namespace direction.
type Driver struct {
	mapper Mapper
	from   string
	to     string
	cfg    config.JobConfig

	// limiter paces request starts: at most one per SleepInterval,
	// across retries, chunks, and parallel workers alike.
	limiter *rate.Limiter

	cache      ResponseCache
	onProgress ProgressFunc
}

// NewDriver validates cfg and builds a Driver mapping identifiers from the
// source namespace to the target namespace.
func NewDriver(mapper Mapper, from, to string, cfg config.JobConfig, opts ...Option) (*Driver, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	limit := rate.Inf
	if interval := cfg.SleepInterval.Std(); interval > 0 {
		limit = rate.Every(interval)
	}

	d := &Driver{
		mapper:  mapper,
		from:    from,
		to:      to,
		cfg:     cfg,
		limiter: rate.NewLimiter(limit, 1),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d, nil
}

// Run maps identifiers in chunks of ChunkSize and returns one ChunkResult
// per chunk, in partition order. Empty input yields an empty JobResult with
// no requests issued. Cancellation marks every not-yet-terminal chunk as
// failed with ReasonCanceled; chunks not yet started are not started.
func (d *Driver) Run(ctx context.Context, identifiers []string) (JobResult, error) {
	chunks, err := batch.Split(identifiers, d.cfg.ChunkSize)
	if err != nil {
		return JobResult{}, err
	}

	jobID := ulid.Make().String()
	log := logging.ComponentLogger(logging.FromContext(ctx), "engine").
		With().Str("job_id", jobID).Logger()

	log.Info().
		Str("from", d.from).
		Str("to", d.to).
		Int("identifiers", len(identifiers)).
		Int("chunks", len(chunks)).
		Int("chunk_size", d.cfg.ChunkSize).
		Msg("mapping job started")

	results := make([]ChunkResult, len(chunks))
	progress := batch.NewProgress(len(identifiers), len(chunks))

	if d.cfg.Parallel > 1 {
		d.runParallel(ctx, log, chunks, results, progress)
	} else {
		d.runSequential(ctx, log, chunks, results, progress)
	}

	result := JobResult{JobID: jobID, Chunks: results}
	log.Info().
		Int("chunks", len(results)).
		Int("failed_chunks", len(result.Failures())).
		Msg("mapping job finished")
	return result, nil
}

// runSequential processes one chunk's entire retry cycle before the next
// chunk begins.
func (d *Driver) runSequential(
	ctx context.Context,
	log zerolog.Logger,
	chunks [][]string,
	results []ChunkResult,
	progress *batch.Progress,
) {
	for i, chunk := range chunks {
		results[i] = d.runChunk(ctx, log, i, chunk)
		d.recordProgress(log, progress, results[i])
	}
}

// runParallel processes chunks concurrently with at most Parallel workers.
// Results are written into pre-allocated slots so JobResult order stays
// input order regardless of completion order.
func (d *Driver) runParallel(
	ctx context.Context,
	log zerolog.Logger,
	chunks [][]string,
	results []ChunkResult,
	progress *batch.Progress,
) {
	var g errgroup.Group
	g.SetLimit(d.cfg.Parallel)

	for i, chunk := range chunks {
		i, chunk := i, chunk
		g.Go(func() error {
			results[i] = d.runChunk(ctx, log, i, chunk)
			d.recordProgress(log, progress, results[i])
			return nil
		})
	}

	// Workers never return errors; failures live in the results.
	_ = g.Wait()
}

// runChunk drives one chunk from Attempting to a terminal state: Succeeded
// (response text recorded) or GivenUp (failure reason recorded).
func (d *Driver) runChunk(ctx context.Context, log zerolog.Logger, index int, ids []string) ChunkResult {
	res := ChunkResult{Index: index, Size: len(ids)}

	if ctx.Err() != nil {
		res.Reason = ReasonCanceled
		res.Err = ctx.Err()
		return res
	}

	req := uniprot.MappingRequest{
		From:        d.from,
		To:          d.to,
		Format:      d.cfg.OutputFormat,
		Identifiers: ids,
	}
	key := cache.Key(req.Key())

	if d.cache != nil {
		if text, err := d.cache.Get(key); err == nil {
			log.Debug().Int("chunk", index).Msg("chunk served from cache")
			res.Text = text
			res.Cached = true
			return res
		}
	}

	attempt := func() (string, error) {
		if waitErr := d.limiter.Wait(ctx); waitErr != nil {
			return "", backoff.Permanent(waitErr)
		}
		res.Attempts++
		return d.mapper.Map(ctx, req)
	}

	notify := func(attemptErr error, wait time.Duration) {
		log.Warn().
			Int("chunk", index).
			Int("attempt", res.Attempts).
			Dur("retry_in", wait).
			Err(attemptErr).
			Msg("mapping request failed, retrying")
	}

	policy := backoff.WithContext(
		backoff.WithMaxRetries(
			backoff.NewConstantBackOff(d.cfg.SleepInterval.Std()),
			uint64(d.cfg.MaxRetries),
		),
		ctx,
	)

	text, err := backoff.RetryNotifyWithData(attempt, policy, notify)
	if err != nil {
		res.Err = err
		if ctx.Err() != nil || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			res.Reason = ReasonCanceled
		} else {
			res.Reason = ReasonExhaustedRetries
		}
		return res
	}

	res.Text = text
	if d.cache != nil {
		if cacheErr := d.cache.Set(key, text); cacheErr != nil {
			log.Debug().Int("chunk", index).Err(cacheErr).Msg("could not cache chunk response")
		}
	}
	return res
}

// recordProgress updates the tracker, logs the chunk outcome, and invokes
// the progress callback.
func (d *Driver) recordProgress(log zerolog.Logger, progress *batch.Progress, res ChunkResult) {
	progress.ChunkDone(res.Size, res.Failed())
	snap := progress.Snapshot()

	event := log.Info()
	if res.Failed() {
		event = log.Error().Str("reason", res.Reason).Err(res.Err)
	}
	event.
		Int("chunk", res.Index).
		Int("attempts", res.Attempts).
		Bool("cached", res.Cached).
		Int("identifiers_done", snap.ProcessedItems).
		Int("identifiers_total", snap.TotalItems).
		Msg("chunk finished")

	if d.onProgress != nil {
		d.onProgress(snap)
	}
}
