package footprint

import (
	"context"
	"fmt"
	"runtime"
	"sync"

	"go.uber.org/zap"

	"github.com/inodb/footprint-viewer/internal/genome"
)

// Source loads the score table of one track for a window.
type Source interface {
	Name() string
	Load(ctx context.Context, w genome.Window) (Table, error)
}

// Track is the heatmap of one sample.
type Track struct {
	Name    string
	Matrix  *Matrix
	Max     float64 // TrackMax of Matrix
	Records int     // number of score records loaded
}

// NewTrack builds a track from an already loaded table.
func NewTrack(name string, t Table, w genome.Window, rr RadiusRange) *Track {
	m := Build(t, w, rr)
	return &Track{
		Name:    name,
		Matrix:  m,
		Max:     TrackMax(m),
		Records: t.Len(),
	}
}

// workItem holds a source waiting to be loaded.
type workItem struct {
	Seq    int
	Source Source
}

// workResult holds the track built for a single source.
type workResult struct {
	Seq   int
	Track *Track
	Err   error
}

// Builder loads and builds tracks using a pool of workers.
type Builder struct {
	radii   RadiusRange
	workers int
	logger  *zap.Logger
}

// NewBuilder creates a track builder for the given radius range.
// If workers is 0, runtime.NumCPU() is used.
func NewBuilder(rr RadiusRange, workers int) *Builder {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	return &Builder{radii: rr, workers: workers, logger: zap.NewNop()}
}

// SetLogger sets the logger for progress messages.
func (b *Builder) SetLogger(l *zap.Logger) {
	b.logger = l
}

// Build loads every source and builds its track. Tracks are returned in
// source order. The first load error cancels the remaining work.
func (b *Builder) Build(ctx context.Context, sources []Source, w genome.Window) ([]*Track, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	items := make(chan workItem)
	go func() {
		defer close(items)
		for i, src := range sources {
			select {
			case items <- workItem{Seq: i, Source: src}:
			case <-ctx.Done():
				return
			}
		}
	}()

	results := b.parallelBuild(ctx, items, w)

	tracks := make([]*Track, 0, len(sources))
	err := orderedCollect(results, func(r workResult) error {
		if r.Err != nil {
			cancel()
			return r.Err
		}
		tracks = append(tracks, r.Track)
		return nil
	})
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return tracks, nil
}

// parallelBuild builds tracks for work items using a pool of workers.
// Results are sent to the returned channel in arrival order.
func (b *Builder) parallelBuild(ctx context.Context, items <-chan workItem, w genome.Window) <-chan workResult {
	results := make(chan workResult, 2*b.workers)

	var wg sync.WaitGroup
	wg.Add(b.workers)

	for i := 0; i < b.workers; i++ {
		go func() {
			defer wg.Done()
			for item := range items {
				track, err := b.buildOne(ctx, item.Source, w)
				results <- workResult{Seq: item.Seq, Track: track, Err: err}
			}
		}()
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	return results
}

func (b *Builder) buildOne(ctx context.Context, src Source, w genome.Window) (*Track, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	table, err := src.Load(ctx, w)
	if err != nil {
		return nil, fmt.Errorf("load track %s: %w", src.Name(), err)
	}

	if table.Len() == 0 {
		b.logger.Warn("no footprint data in region",
			zap.String("track", src.Name()),
			zap.Stringer("region", w))
	}

	track := NewTrack(src.Name(), table, w, b.radii)
	b.logger.Info("built footprint track",
		zap.String("track", track.Name),
		zap.Int("records", track.Records),
		zap.Float64("max", track.Matrix.Max()))
	return track, nil
}

// orderedCollect calls fn for each result in sequence-number order.
// It buffers out-of-order results and emits them as soon as the next
// expected sequence number is available.
func orderedCollect(results <-chan workResult, fn func(workResult) error) error {
	pending := make(map[int]workResult)
	nextSeq := 0

	for r := range results {
		pending[r.Seq] = r

		for {
			rr, ok := pending[nextSeq]
			if !ok {
				break
			}
			delete(pending, nextSeq)
			nextSeq++
			if err := fn(rr); err != nil {
				// Drain remaining results to unblock workers.
				for range results {
				}
				return err
			}
		}
	}

	return nil
}
