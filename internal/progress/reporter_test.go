package progress

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestReporterCounters(t *testing.T) {
	r := NewReporter(Options{Total: 10})

	for i := 0; i < 7; i++ {
		r.ProbeCompleted(i%3 == 0)
	}

	assert.Equal(t, int64(7), r.Completed())
	assert.Equal(t, int64(3), r.Found())
}

func TestReporterProgressLine(t *testing.T) {
	var buf bytes.Buffer
	r := NewReporter(Options{Total: 4, Output: &buf})
	r.startTime = time.Now()

	r.ProbeCompleted(true)
	r.ProbeCompleted(false)
	r.printProgress()

	out := buf.String()
	assert.Contains(t, out, "Checking URLs:")
	assert.Contains(t, out, "2/4")
	assert.Contains(t, out, "1 found")
	assert.Contains(t, out, "urls/sec")
}

func TestReporterFinalStatus(t *testing.T) {
	var buf bytes.Buffer
	r := NewReporter(Options{Total: 2, Output: &buf})
	r.startTime = time.Now()

	r.ProbeCompleted(true)
	r.ProbeCompleted(true)
	r.printFinalStatus()

	out := buf.String()
	assert.Contains(t, out, "100%")
	assert.Contains(t, out, "2/2")
	assert.Contains(t, out, "Total time:")
}

func TestReporterStopIsIdempotent(t *testing.T) {
	var buf bytes.Buffer
	r := NewReporter(Options{Total: 1, Output: &buf})
	r.Start()
	r.Stop()
	r.Stop()
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		input    time.Duration
		expected string
	}{
		{5 * time.Second, "5s"},
		{90 * time.Second, "1m 30s"},
		{3661 * time.Second, "1h 1m 1s"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, formatDuration(tt.input))
	}
}
