package progress

import (
	"fmt"
	"io"
	"os"
	"sync"
	"sync/atomic"
	"time"
)

// Options configures the progress reporter.
type Options struct {
	// Total is the total number of candidate URLs to probe.
	Total int

	// Output is where to write progress output.
	// Default: os.Stderr
	Output io.Writer

	// UpdateInterval is how often to update the progress display.
	// Default: 500ms
	UpdateInterval time.Duration
}

// Reporter outputs human-readable progress for a probe run. Counters only
// ever increase; the display is a side channel and never influences the
// search outcome.
type Reporter struct {
	opts Options

	mu        sync.Mutex
	completed atomic.Int64
	found     atomic.Int64
	startTime time.Time
	stopCh    chan struct{}
	stopped   bool
}

// NewReporter creates a new progress reporter.
func NewReporter(opts Options) *Reporter {
	if opts.Output == nil {
		opts.Output = os.Stderr
	}
	if opts.UpdateInterval == 0 {
		opts.UpdateInterval = 500 * time.Millisecond
	}

	return &Reporter{
		opts:   opts,
		stopCh: make(chan struct{}),
	}
}

// Start begins outputting progress information.
func (r *Reporter) Start() {
	r.startTime = time.Now()
	go r.updateLoop()
}

// Stop stops the progress reporter and prints the final line.
func (r *Reporter) Stop() {
	r.mu.Lock()
	if r.stopped {
		r.mu.Unlock()
		return
	}
	r.stopped = true
	r.mu.Unlock()

	close(r.stopCh)
}

// ProbeCompleted records one finished probe.
func (r *Reporter) ProbeCompleted(found bool) {
	r.completed.Add(1)
	if found {
		r.found.Add(1)
	}
}

// Completed returns the number of probes finished so far.
func (r *Reporter) Completed() int64 {
	return r.completed.Load()
}

// Found returns the number of successful probes so far.
func (r *Reporter) Found() int64 {
	return r.found.Load()
}

// Rate returns the average probe throughput in URLs per second.
func (r *Reporter) Rate() float64 {
	elapsed := time.Since(r.startTime).Seconds()
	if elapsed < 0.1 {
		elapsed = 0.1
	}
	return float64(r.completed.Load()) / elapsed
}

// updateLoop periodically updates the progress display.
func (r *Reporter) updateLoop() {
	ticker := time.NewTicker(r.opts.UpdateInterval)
	defer ticker.Stop()

	for {
		select {
		case <-r.stopCh:
			r.printFinalStatus()
			return
		case <-ticker.C:
			r.printProgress()
		}
	}
}

// printProgress outputs the current progress line.
func (r *Reporter) printProgress() {
	completed := r.completed.Load()
	rate := r.Rate()

	var percent float64
	eta := "calculating..."
	if r.opts.Total > 0 {
		percent = float64(completed) / float64(r.opts.Total) * 100
		if rate > 0 {
			remaining := float64(int64(r.opts.Total) - completed)
			eta = formatDuration(time.Duration(remaining / rate * float64(time.Second)))
		}
	}

	fmt.Fprintf(r.opts.Output, "\rChecking URLs: %3.0f%% | %d/%d | %d found | %d urls/sec | ETA: %s    ",
		percent,
		completed,
		r.opts.Total,
		r.found.Load(),
		int(rate),
		eta,
	)
}

// printFinalStatus outputs the final summary.
func (r *Reporter) printFinalStatus() {
	completed := r.completed.Load()
	duration := time.Since(r.startTime)
	avgRate := r.Rate()

	fmt.Fprintf(r.opts.Output, "\rChecking URLs: 100%% | %d/%d | %d found | %d urls/sec (avg)    \n",
		completed,
		r.opts.Total,
		r.found.Load(),
		int(avgRate),
	)
	fmt.Fprintf(r.opts.Output, "Total time: %s\n", formatDuration(duration))
}

// formatDuration formats a duration as a human-readable string.
func formatDuration(d time.Duration) string {
	if d < time.Minute {
		return fmt.Sprintf("%.0fs", d.Seconds())
	}
	if d < time.Hour {
		m := int(d.Minutes())
		s := int(d.Seconds()) % 60
		return fmt.Sprintf("%dm %ds", m, s)
	}
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	s := int(d.Seconds()) % 60
	return fmt.Sprintf("%dh %dm %ds", h, m, s)
}
