// Package probe provides the HTTP existence checks behind the URL search.
//
// A probe is a single HEAD request; only the status matters. Every transport
// failure and every non-200 status collapses to "not found" because missing
// build numbers are the expected case, not an error. The client shares one
// connection pool sized by the configured connection cap and is safe for
// concurrent use.
//
// # Usage
//
//	client := probe.NewClient(probe.Options{
//	    MaxConnections: 100,
//	    Timeout:        10 * time.Second,
//	})
//
//	if client.Exists(ctx, url) {
//	    // artifact is published under this build number
//	}
package probe
