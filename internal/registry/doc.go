// Package registry maintains the versions.json registry: a single JSON
// object keyed by version string, kept in descending natural-sort key order
// so the newest version stays on top. Updates replace one key wholesale,
// never merge. Storage goes through gocloud.dev/blob, so the registry can
// live on a local path (file://) or in object storage.
package registry
