// Package batch estimates many households in one call. Requests are split
// into fixed-size chunks that run concurrently, and each request is
// validated on its own so one bad household does not fail the batch.
package batch

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/rshade/carbonfocus/internal/engine"
	"github.com/rshade/carbonfocus/internal/logging"
	"github.com/rshade/carbonfocus/internal/validate"
)

// Limits and defaults.
const (
	DefaultChunkSize   = 25
	DefaultConcurrency = 4
	MaxItems           = 500
)

var (
	// ErrNilEngine is returned by NewProcessor without an engine.
	ErrNilEngine = errors.New("batch processor requires an engine")
	// ErrNoItems is returned by Run for an empty batch.
	ErrNoItems = errors.New("batch contains no households")
	// ErrTooManyItems is returned by Run when the batch exceeds MaxItems.
	ErrTooManyItems = errors.New("batch exceeds the maximum number of households")
	// ErrInvalidChunkSize is returned for a non-positive chunk size.
	ErrInvalidChunkSize = errors.New("chunk size must be positive")
	// ErrInvalidConcurrency is returned for a non-positive concurrency.
	ErrInvalidConcurrency = errors.New("concurrency must be positive")
)

// Outcome is the result for one household. Estimate is nil when the
// request failed validation.
type Outcome struct {
	Index      int
	Estimate   *engine.Estimate
	Validation validate.Result
}

// OK reports whether the household was estimated.
func (o Outcome) OK() bool { return o.Estimate != nil }

// ProgressFunc receives the number of households finished so far. Calls
// are serialised.
type ProgressFunc func(done, total int)

// Option configures a Processor.
type Option func(*Processor)

// WithChunkSize sets how many households one worker handles at a time.
func WithChunkSize(n int) Option {
	return func(p *Processor) { p.chunkSize = n }
}

// WithConcurrency sets how many chunks run at once.
func WithConcurrency(n int) Option {
	return func(p *Processor) { p.concurrency = n }
}

// WithProgress registers a callback invoked after every chunk.
func WithProgress(fn ProgressFunc) Option {
	return func(p *Processor) { p.onProgress = fn }
}

// Processor runs household estimates in bounded-concurrency chunks.
type Processor struct {
	eng         *engine.Engine
	chunkSize   int
	concurrency int
	onProgress  ProgressFunc

	mu sync.Mutex
}

// NewProcessor builds a Processor for eng.
func NewProcessor(eng *engine.Engine, opts ...Option) (*Processor, error) {
	if eng == nil {
		return nil, ErrNilEngine
	}
	p := &Processor{
		eng:         eng,
		chunkSize:   DefaultChunkSize,
		concurrency: DefaultConcurrency,
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.chunkSize <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidChunkSize, p.chunkSize)
	}
	if p.concurrency <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidConcurrency, p.concurrency)
	}
	return p, nil
}

// ChunkSize returns the configured chunk size.
func (p *Processor) ChunkSize() int { return p.chunkSize }

// Chunks returns the [start, end) bounds covering total items.
func (p *Processor) Chunks(total int) [][2]int {
	n := total / p.chunkSize
	if total%p.chunkSize > 0 {
		n++
	}
	chunks := make([][2]int, n)
	for i := range n {
		start := i * p.chunkSize
		chunks[i] = [2]int{start, min(start+p.chunkSize, total)}
	}
	return chunks
}

// Run validates and estimates every request. Outcomes are returned in
// request order. Only cancellation or a bad batch size is an error;
// invalid households are reported in their Outcome.
func (p *Processor) Run(ctx context.Context, reqs []engine.Request) ([]Outcome, error) {
	switch {
	case len(reqs) == 0:
		return nil, ErrNoItems
	case len(reqs) > MaxItems:
		return nil, fmt.Errorf("%w: got %d, limit %d", ErrTooManyItems, len(reqs), MaxItems)
	}

	logger := logging.FromContext(ctx).With().
		Str("component", "batch").
		Str("operation", "Run").
		Logger()

	outcomes := make([]Outcome, len(reqs))
	done := 0

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.concurrency)
	for _, c := range p.Chunks(len(reqs)) {
		g.Go(func() error {
			for i := c[0]; i < c[1]; i++ {
				if err := gctx.Err(); err != nil {
					return err
				}
				outcomes[i] = p.estimate(gctx, i, reqs[i])
			}
			p.progress(&done, c[1]-c[0], len(reqs))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("batch estimate: %w", err)
	}

	totals := Summarize(outcomes)
	logger.Debug().
		Int("households", totals.Households).
		Int("failed", totals.Failed).
		Float64("total_kg", totals.TotalKg).
		Msg("batch complete")
	return outcomes, nil
}

func (p *Processor) estimate(ctx context.Context, i int, req engine.Request) Outcome {
	out := Outcome{Index: i, Validation: validate.Request(&req, p.eng.Table())}
	if !out.Validation.Valid() {
		return out
	}
	est := p.eng.Estimate(ctx, req)
	out.Estimate = &est
	out.Validation.Warnings = append(out.Validation.Warnings,
		validate.Monthly("total", est.Summary.TotalKg).Warnings...)
	return out
}

func (p *Processor) progress(done *int, n, total int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	*done += n
	if p.onProgress != nil {
		p.onProgress(*done, total)
	}
}

// Totals summarises a finished batch. Kg figures cover successful
// households only.
type Totals struct {
	Households int     `json:"households"`
	Succeeded  int     `json:"succeeded"`
	Failed     int     `json:"failed"`
	TotalKg    float64 `json:"total_kg"`
	MeanKg     float64 `json:"mean_kg"`
	MaxKg      float64 `json:"max_kg"`
	MaxIndex   int     `json:"max_index"`
}

// Summarize aggregates outcomes. MaxIndex is -1 when nothing succeeded.
func Summarize(outcomes []Outcome) Totals {
	t := Totals{Households: len(outcomes), MaxIndex: -1}
	for _, o := range outcomes {
		if !o.OK() {
			t.Failed++
			continue
		}
		t.Succeeded++
		kg := o.Estimate.Summary.TotalKg
		t.TotalKg += kg
		if t.MaxIndex < 0 || kg > t.MaxKg {
			t.MaxKg = kg
			t.MaxIndex = o.Index
		}
	}
	if t.Succeeded > 0 {
		t.MeanKg = t.TotalKg / float64(t.Succeeded)
	}
	return t
}
