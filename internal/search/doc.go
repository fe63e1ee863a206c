// Package search implements the concurrent discovery engine: it generates
// candidate installer URLs for a (version, build number) window, probes them
// with bounded parallelism, and aggregates the hits per platform.
//
// # Fixed window
//
//	searcher := search.NewSearcher(builder, client)
//	results := searcher.SearchRange(ctx, version, 630, 635, platforms, reporter)
//
// Every (platform, number) pair in the window is probed exactly once.
// Completion order is unspecified; successes are appended to a shared
// ResultSet that tolerates concurrent appends.
//
// # Adaptive window
//
//	resolved := searcher.SearchAdaptive(ctx, version, platforms, search.DefaultAdaptiveOptions())
//
// Starts with a small window and keeps advancing it, re-probing only the
// platforms still missing a result, until everything is found or the round
// budget is spent. An empty map is a valid outcome.
//
// # Aggregation
//
// ResultSet.Resolve picks, per platform, the URL with the highest build
// number embedded before the file extension: a higher number on the same
// version string is the more definitive artifact.
package search
