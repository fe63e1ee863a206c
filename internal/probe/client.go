package probe

import (
	"context"
	"net/http"
	"time"
)

// Options configures the probe client.
type Options struct {
	// MaxConnections caps the number of concurrent connections to the CDN.
	// Default: 100
	MaxConnections int

	// Timeout for individual probe requests.
	// Default: 10s
	Timeout time.Duration
}

// DefaultOptions returns options with sensible defaults.
func DefaultOptions() Options {
	return Options{
		MaxConnections: 100,
		Timeout:        10 * time.Second,
	}
}

// Client issues lightweight existence checks against candidate URLs. It is
// safe for use by many goroutines sharing one connection pool.
type Client struct {
	client *http.Client
	opts   Options
}

// NewClient creates a probe client with the given options.
func NewClient(opts Options) *Client {
	if opts.MaxConnections <= 0 {
		opts.MaxConnections = DefaultOptions().MaxConnections
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultOptions().Timeout
	}

	transport := &http.Transport{
		MaxConnsPerHost:     opts.MaxConnections,
		MaxIdleConnsPerHost: opts.MaxConnections,
		MaxIdleConns:        opts.MaxConnections * 2,
		IdleConnTimeout:     90 * time.Second,
	}

	return &Client{
		client: &http.Client{
			Transport: transport,
			Timeout:   opts.Timeout,
		},
		opts: opts,
	}
}

// MaxConnections returns the configured connection cap.
func (c *Client) MaxConnections() int {
	return c.opts.MaxConnections
}

// Exists reports whether url resolves to an artifact. It issues a HEAD
// request and treats every failure mode (timeout, DNS, refused connection,
// non-200 status) as absence: a missing build number is the expected case,
// not an error.
func (c *Client) Exists(ctx context.Context, url string) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, url, nil)
	if err != nil {
		return false
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return false
	}
	resp.Body.Close()

	return resp.StatusCode == http.StatusOK
}
