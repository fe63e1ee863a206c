package search

import (
	"regexp"
	"strconv"
	"sync"

	"github.com/LoaderSpot/LoaderSpot/internal/platform"
)

// buildNumberRe captures the build number immediately preceding the artifact
// extension.
var buildNumberRe = regexp.MustCompile(`-(\d+)\.(exe|tbz)$`)

// BuildNumber extracts the numeric build id embedded in a candidate URL.
func BuildNumber(url string) (int, bool) {
	m := buildNumberRe.FindStringSubmatch(url)
	if m == nil {
		return 0, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return n, true
}

// ResultSet accumulates successful probe URLs per platform. Appends may come
// from many goroutines at once; entries are never removed.
type ResultSet struct {
	mu      sync.Mutex
	buckets map[platform.Platform][]string
}

// NewResultSet creates an empty ResultSet.
func NewResultSet() *ResultSet {
	return &ResultSet{
		buckets: make(map[platform.Platform][]string),
	}
}

// Add appends a successful URL under its platform bucket.
func (rs *ResultSet) Add(p platform.Platform, url string) {
	rs.mu.Lock()
	rs.buckets[p] = append(rs.buckets[p], url)
	rs.mu.Unlock()
}

// URLs returns a copy of the bucket for p, in append order.
func (rs *ResultSet) URLs(p platform.Platform) []string {
	rs.mu.Lock()
	defer rs.mu.Unlock()

	urls := make([]string, len(rs.buckets[p]))
	copy(urls, rs.buckets[p])
	return urls
}

// Len returns the total number of successes across all platforms.
func (rs *ResultSet) Len() int {
	rs.mu.Lock()
	defer rs.mu.Unlock()

	n := 0
	for _, urls := range rs.buckets {
		n += len(urls)
	}
	return n
}

// Merge appends every entry of other into rs.
func (rs *ResultSet) Merge(other *ResultSet) {
	other.mu.Lock()
	defer other.mu.Unlock()
	rs.mu.Lock()
	defer rs.mu.Unlock()

	for p, urls := range other.buckets {
		rs.buckets[p] = append(rs.buckets[p], urls...)
	}
}

// Resolve selects, per platform, the URL with the highest embedded build
// number. Platforms without successes are omitted; the receiver is not
// mutated. Completion order of the probes that filled rs does not affect the
// outcome.
func (rs *ResultSet) Resolve() map[platform.Platform]string {
	rs.mu.Lock()
	defer rs.mu.Unlock()

	resolved := make(map[platform.Platform]string)
	for p, urls := range rs.buckets {
		best, bestNumber := "", -1
		for _, url := range urls {
			n, ok := BuildNumber(url)
			if !ok {
				continue
			}
			if n > bestNumber {
				best, bestNumber = url, n
			}
		}
		if best != "" {
			resolved[p] = best
		}
	}
	return resolved
}
