package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/LoaderSpot/LoaderSpot/internal/platform"
)

// Published registry snapshot and submission endpoints.
const (
	DefaultSnapshotURL = "https://raw.githubusercontent.com/amd64fox/LoaderSpot/refs/heads/main/versions.json"
	DefaultFormURL     = "https://docs.google.com/forms/u/0/d/e/1FAIpQLSdqIxSjqt2PcjBlQzhvwqc4QckfWuq5qqWsrdpoTidQHsPGpw/formResponse"

	formVersionField = "entry.1104502920"
	formCommentField = "entry.1319854718"

	// DefaultComment is sent with form submissions.
	DefaultComment = "from LoaderSpot"
)

// responseDivStyle matches the status element of the Apps Script response
// page.
const responseDivStyle = "text-align:center;font-family:monospace;margin:50px auto 0;max-width:600px"

// Options configures the notifier.
type Options struct {
	// SnapshotURL is where the published registry snapshot lives.
	// Default: DefaultSnapshotURL
	SnapshotURL string

	// FormURL receives new-version form submissions.
	// Default: DefaultFormURL
	FormURL string

	// Timeout for individual requests.
	// Default: 10s
	Timeout time.Duration
}

// DefaultOptions returns options with sensible defaults.
func DefaultOptions() Options {
	return Options{
		SnapshotURL: DefaultSnapshotURL,
		FormURL:     DefaultFormURL,
		Timeout:     10 * time.Second,
	}
}

// Notifier handles the best-effort side channel around a search: checking
// the published registry snapshot, submitting newly discovered versions, and
// reporting resolved results to the collector endpoint.
type Notifier struct {
	client *http.Client
	opts   Options
}

// NewNotifier creates a notifier with the given options.
func NewNotifier(opts Options) *Notifier {
	if opts.SnapshotURL == "" {
		opts.SnapshotURL = DefaultSnapshotURL
	}
	if opts.FormURL == "" {
		opts.FormURL = DefaultFormURL
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultOptions().Timeout
	}

	return &Notifier{
		client: &http.Client{Timeout: opts.Timeout},
		opts:   opts,
	}
}

// snapshotEntry is the slice of registry metadata the notifier cares about.
type snapshotEntry struct {
	FullVersion string `json:"fullversion"`
}

// Known reports whether version already appears in the published registry
// snapshot.
func (n *Notifier) Known(ctx context.Context, version string) (bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, n.opts.SnapshotURL, nil)
	if err != nil {
		return false, err
	}

	resp, err := n.client.Do(req)
	if err != nil {
		return false, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return false, fmt.Errorf("snapshot fetch: unexpected status %d", resp.StatusCode)
	}

	var entries map[string]snapshotEntry
	if err := json.NewDecoder(resp.Body).Decode(&entries); err != nil {
		return false, fmt.Errorf("snapshot fetch: %w", err)
	}

	for _, entry := range entries {
		if entry.FullVersion == version {
			return true, nil
		}
	}
	return false, nil
}

// SubmitForm posts version to the collection form.
func (n *Notifier) SubmitForm(ctx context.Context, version, comment string) error {
	form := url.Values{
		formVersionField: {version},
		formCommentField: {comment},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.opts.FormURL, strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := n.client.Do(req)
	if err != nil {
		return err
	}
	resp.Body.Close()
	return nil
}

// CheckAndSubmit submits version to the form when the published snapshot
// does not know it yet. Every failure is swallowed: this path must never
// interfere with the search it runs next to.
func (n *Notifier) CheckAndSubmit(ctx context.Context, version string) {
	known, err := n.Known(ctx, version)
	if err != nil || known {
		return
	}
	_ = n.SubmitForm(ctx, version, DefaultComment)
}

// BuildPayload assembles the report payload for a resolved search. An empty
// result still reports the version, with an explicit unknown marker.
func BuildPayload(version, source string, resolved map[platform.Platform]string) map[string]string {
	payload := make(map[string]string, len(resolved)+2)
	if len(resolved) == 0 {
		payload["unknown"] = "unknown"
	}
	for p, u := range resolved {
		payload[p.String()] = u
	}
	payload["version"] = version
	payload["source"] = source
	return payload
}

// Report sends payload to the collector endpoint and returns the status text
// extracted from its response page.
func (n *Notifier) Report(ctx context.Context, endpoint string, payload map[string]string) (string, error) {
	body, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return "", err
	}

	// The collector takes the JSON document appended to its URL.
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+url.PathEscape(string(body)), nil)
	if err != nil {
		return "", err
	}

	resp, err := n.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("report: unexpected status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	return extractResponse(data), nil
}

// extractResponse pulls the status line out of an Apps Script response. HTML
// pages carry it in a fixed centered <div>; anything else is returned as-is.
func extractResponse(data []byte) string {
	if !bytes.Contains(data, []byte("<div")) {
		return strings.TrimSpace(string(data))
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(data))
	if err != nil {
		return strings.TrimSpace(string(data))
	}

	sel := doc.Find(fmt.Sprintf("div[style='%s']", responseDivStyle))
	if sel.Length() == 0 {
		return "could not extract response from HTML"
	}
	return strings.TrimSpace(sel.First().Text())
}
