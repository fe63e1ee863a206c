// Package progress reports probe throughput for long search runs.
//
// The reporter keeps monotonically increasing completed/found counters that
// workers bump from many goroutines, and a background loop that renders a
// single-line display with percentage, urls/sec, and an ETA. It is purely an
// observability side channel: search results never depend on it.
package progress
