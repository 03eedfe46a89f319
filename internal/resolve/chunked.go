package resolve

import (
	"context"
	"time"

	"go.uber.org/zap"
)

const (
	// DefaultChunkSize bounds memory and latency per geocoder call.
	DefaultChunkSize = 5000

	// DefaultChunkTimeout is the hard per-chunk budget.
	DefaultChunkTimeout = 2 * time.Minute
)

// Chunked wraps a Resolver with bounded batching and failure degradation: a
// failed chunk is retried point by point, and points that still fail resolve
// to Unknown. Resolve therefore never returns an error; a geocoder outage
// yields Unknown countries, not a false mismatch or an aborted pass.
type Chunked struct {
	Inner     Resolver
	ChunkSize int
	Timeout   time.Duration
}

// NewChunked wraps inner with the default chunk size and timeout.
func NewChunked(inner Resolver) *Chunked {
	return &Chunked{Inner: inner, ChunkSize: DefaultChunkSize, Timeout: DefaultChunkTimeout}
}

// Resolve maps every point to an ISO2 code or Unknown.
func (c *Chunked) Resolve(ctx context.Context, points []Point) []string {
	log := zap.L().With(zap.String("component", "resolve"))

	size := c.ChunkSize
	if size <= 0 {
		size = DefaultChunkSize
	}
	timeout := c.Timeout
	if timeout <= 0 {
		timeout = DefaultChunkTimeout
	}

	out := make([]string, len(points))
	for start := 0; start < len(points); start += size {
		end := start + size
		if end > len(points) {
			end = len(points)
		}
		chunk := points[start:end]

		chunkCtx, cancel := context.WithTimeout(ctx, timeout)
		results, err := c.Inner.ResolveMany(chunkCtx, chunk)
		cancel()

		if err == nil && len(results) == len(chunk) {
			copy(out[start:end], results)
			continue
		}

		log.Warn("geocoder chunk failed, degrading to per-point resolution",
			zap.Int("chunk_start", start),
			zap.Int("chunk_len", len(chunk)),
			zap.Error(err),
		)
		for i, p := range chunk {
			out[start+i] = c.resolveOne(ctx, p, timeout)
		}
	}
	return out
}

func (c *Chunked) resolveOne(ctx context.Context, p Point, timeout time.Duration) string {
	oneCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	results, err := c.Inner.ResolveMany(oneCtx, []Point{p})
	if err != nil || len(results) != 1 {
		return Unknown
	}
	return results[0]
}
