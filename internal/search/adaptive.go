package search

import (
	"context"

	"github.com/LoaderSpot/LoaderSpot/internal/platform"
)

// AdaptiveOptions configures the expanding-window search.
type AdaptiveOptions struct {
	// InitialWidth is the inclusive upper bound of the first window [0, W].
	// Default: 1000
	InitialWidth int

	// Increment is how far each expansion advances the window.
	// Default: 1000
	Increment int

	// MaxRounds is the number of expansion rounds allowed after the initial
	// pass.
	// Default: 10
	MaxRounds int
}

// DefaultAdaptiveOptions returns options with sensible defaults.
func DefaultAdaptiveOptions() AdaptiveOptions {
	return AdaptiveOptions{
		InitialWidth: 1000,
		Increment:    1000,
		MaxRounds:    10,
	}
}

// SearchAdaptive probes an initial window for every requested platform, then
// keeps advancing the window for the platforms still missing a result until
// all are satisfied or the round budget is spent. The returned map holds the
// best URL per platform; an empty map means nothing was found, which is a
// valid terminal outcome.
func (s *Searcher) SearchAdaptive(ctx context.Context, version string, platforms []platform.Platform, opts AdaptiveOptions) map[platform.Platform]string {
	if opts.InitialWidth <= 0 {
		opts.InitialWidth = DefaultAdaptiveOptions().InitialWidth
	}
	if opts.Increment <= 0 {
		opts.Increment = DefaultAdaptiveOptions().Increment
	}
	if opts.MaxRounds <= 0 {
		opts.MaxRounds = DefaultAdaptiveOptions().MaxRounds
	}

	rs := NewResultSet()
	start, end := 0, opts.InitialWidth
	pending := platforms

	for round := 0; ; round++ {
		s.searchInto(ctx, rs, version, start, end, pending, nil)

		resolved := rs.Resolve()
		pending = missing(platforms, resolved)

		if len(pending) == 0 || round >= opts.MaxRounds || ctx.Err() != nil {
			return resolved
		}

		start = end + 1
		end += opts.Increment
	}
}

// missing returns the requested platforms that have no resolved URL yet.
func missing(requested []platform.Platform, resolved map[platform.Platform]string) []platform.Platform {
	var pending []platform.Platform
	for _, p := range requested {
		if _, ok := resolved[p]; !ok {
			pending = append(pending, p)
		}
	}
	return pending
}
