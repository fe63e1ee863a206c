package search

import (
	"context"
	"sync"

	"github.com/LoaderSpot/LoaderSpot/internal/platform"
	"github.com/LoaderSpot/LoaderSpot/internal/probe"
	"github.com/LoaderSpot/LoaderSpot/internal/progress"
)

// Searcher fans candidate probes out against the CDN under the client's
// connection cap.
type Searcher struct {
	builder platform.URLBuilder
	client  *probe.Client
	workers int
}

// NewSearcher creates a Searcher. The worker count follows the client's
// connection cap so the pool is never oversubscribed.
func NewSearcher(builder platform.URLBuilder, client *probe.Client) *Searcher {
	return &Searcher{
		builder: builder,
		client:  client,
		workers: client.MaxConnections(),
	}
}

type candidate struct {
	platform platform.Platform
	url      string
}

// SearchRange probes every (platform, number) pair for number in
// [start, end] inclusive and returns the successes grouped by platform.
// Individual probe failures are absorbed; cancelling ctx abandons the
// outstanding probes and returns whatever was collected. reporter may be nil.
func (s *Searcher) SearchRange(ctx context.Context, version string, start, end int, platforms []platform.Platform, reporter *progress.Reporter) *ResultSet {
	rs := NewResultSet()
	s.searchInto(ctx, rs, version, start, end, platforms, reporter)
	return rs
}

// searchInto runs one probe pass, appending successes to rs.
func (s *Searcher) searchInto(ctx context.Context, rs *ResultSet, version string, start, end int, platforms []platform.Platform, reporter *progress.Reporter) {
	total := (end - start + 1) * len(platforms)
	if total <= 0 {
		return
	}

	workers := s.workers
	if workers > total {
		workers = total
	}

	jobs := make(chan candidate)
	var wg sync.WaitGroup

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for c := range jobs {
				found := s.client.Exists(ctx, c.url)
				if found {
					rs.Add(c.platform, c.url)
				}
				if reporter != nil {
					reporter.ProbeCompleted(found)
				}
			}
		}()
	}

	// Feed candidates until the window is exhausted or the caller gives up.
	go func() {
		defer close(jobs)
		for _, p := range platforms {
			for number := start; number <= end; number++ {
				c := candidate{
					platform: p,
					url:      s.builder.BuildURL(p, version, number),
				}
				select {
				case jobs <- c:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	wg.Wait()
}
