package search

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LoaderSpot/LoaderSpot/internal/platform"
	"github.com/LoaderSpot/LoaderSpot/internal/probe"
	"github.com/LoaderSpot/LoaderSpot/internal/progress"
)

// cdn is a fake upgrade CDN. It serves 200 for the published paths and 404
// for everything else, counting every request per path.
type cdn struct {
	server    *httptest.Server
	published map[string]bool

	mu       sync.Mutex
	requests map[string]int
}

func newCDN(t *testing.T, published ...string) *cdn {
	t.Helper()

	c := &cdn{
		published: make(map[string]bool),
		requests:  make(map[string]int),
	}
	for _, path := range published {
		c.published[path] = true
	}

	c.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c.mu.Lock()
		c.requests[r.URL.Path]++
		c.mu.Unlock()

		if !c.published[r.URL.Path] {
			http.NotFound(w, r)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(c.server.Close)

	return c
}

// total returns the number of probe requests seen so far.
func (c *cdn) total() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	n := 0
	for _, count := range c.requests {
		n += count
	}
	return n
}

// totalWithPrefix returns the number of requests whose path starts with
// prefix.
func (c *cdn) totalWithPrefix(prefix string) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	n := 0
	for path, count := range c.requests {
		if len(path) >= len(prefix) && path[:len(prefix)] == prefix {
			n += count
		}
	}
	return n
}

func (c *cdn) searcher(maxConns int) *Searcher {
	client := probe.NewClient(probe.Options{
		MaxConnections: maxConns,
		Timeout:        2 * time.Second,
	})
	return NewSearcher(platform.NewURLBuilder(c.server.URL+"/upgrade/client/"), client)
}

func installerPath(version string, number int) string {
	return fmt.Sprintf("/upgrade/client/win32-x86_64/spotify_installer-%s-%d.exe", version, number)
}

func TestSearchRangeFindsArtifact(t *testing.T) {
	const version = "1.1.68.632.g2b11de83"
	c := newCDN(t, installerPath(version, 632))

	s := c.searcher(8)
	rs := s.SearchRange(context.Background(), version, 630, 635, []platform.Platform{platform.WinX64}, nil)

	urls := rs.URLs(platform.WinX64)
	require.Len(t, urls, 1)
	assert.Equal(t, c.server.URL+"/upgrade/client/win32-x86_64/spotify_installer-1.1.68.632.g2b11de83-632.exe", urls[0])
}

func TestSearchRangeNoMatchIsEmpty(t *testing.T) {
	const version = "1.1.68.632.g2b11de83"
	c := newCDN(t, installerPath(version, 632))

	s := c.searcher(8)
	rs := s.SearchRange(context.Background(), version, 700, 705, []platform.Platform{platform.WinX64}, nil)

	assert.Equal(t, 0, rs.Len())
	assert.Empty(t, rs.Resolve())
}

func TestSearchRangeProbesEveryCandidate(t *testing.T) {
	const version = "1.2.26.1187.g36b715a1"
	c := newCDN(t)

	platforms := []platform.Platform{platform.WinX64, platform.MacARM64}
	s := c.searcher(16)
	s.SearchRange(context.Background(), version, 10, 29, platforms, nil)

	// (29-10+1) numbers x 2 platforms
	assert.Equal(t, 40, c.total())
}

func TestSearchRangeResultKeysAreRequestedPlatforms(t *testing.T) {
	const version = "1.2.26.1187.g36b715a1"
	c := newCDN(t,
		installerPath(version, 12),
		"/upgrade/client/osx-x86_64/spotify-autoupdate-"+version+"-12.tbz",
	)

	// macOS-intel is published but not requested; it must not appear.
	s := c.searcher(8)
	rs := s.SearchRange(context.Background(), version, 10, 15, []platform.Platform{platform.WinX64, platform.MacARM64}, nil)

	resolved := rs.Resolve()
	require.Len(t, resolved, 1)
	assert.Contains(t, resolved, platform.WinX64)
}

func TestSearchRangeReportsProgress(t *testing.T) {
	const version = "1.1.68.632.g2b11de83"
	c := newCDN(t, installerPath(version, 632))

	reporter := progress.NewReporter(progress.Options{Total: 12})

	s := c.searcher(4)
	s.SearchRange(context.Background(), version, 630, 635, []platform.Platform{platform.WinX64, platform.WinARM64}, reporter)

	assert.Equal(t, int64(12), reporter.Completed())
	assert.Equal(t, int64(1), reporter.Found())
}

func TestSearchRangeCancelledContext(t *testing.T) {
	const version = "1.1.68.632.g2b11de83"
	c := newCDN(t, installerPath(version, 632))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s := c.searcher(4)
	done := make(chan *ResultSet, 1)
	go func() {
		done <- s.SearchRange(ctx, version, 0, 5000, []platform.Platform{platform.WinX64}, nil)
	}()

	select {
	case rs := <-done:
		// Cancelled probes all fail, so nothing is collected.
		assert.Equal(t, 0, rs.Len())
	case <-time.After(5 * time.Second):
		t.Fatal("search did not return after cancellation")
	}
}

func TestSearchRangeEmptyWindow(t *testing.T) {
	c := newCDN(t)

	s := c.searcher(4)
	rs := s.SearchRange(context.Background(), "1.1.68.632.g2b11de83", 10, 9, []platform.Platform{platform.WinX64}, nil)

	assert.Equal(t, 0, rs.Len())
	assert.Equal(t, 0, c.total())
}
