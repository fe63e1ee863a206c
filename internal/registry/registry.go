package registry

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"gocloud.dev/blob"
)

// Store reads and writes the versions.json registry in a blob bucket.
// The registry is a single JSON object keyed by version string; values are
// opaque build-metadata objects that are always replaced wholesale.
type Store struct {
	bucket *blob.Bucket
	key    string
}

// NewStore creates a Store for the registry object at key inside bucket.
func NewStore(bucket *blob.Bucket, key string) *Store {
	return &Store{bucket: bucket, key: key}
}

// Load returns the registry contents keyed by version string.
func (s *Store) Load(ctx context.Context) (map[string]json.RawMessage, error) {
	data, err := s.bucket.ReadAll(ctx, s.key)
	if err != nil {
		return nil, fmt.Errorf("read registry: %w", err)
	}

	var entries map[string]json.RawMessage
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("parse registry: %w", err)
	}
	return entries, nil
}

// Update replaces the entry under version and rewrites the registry with
// keys in descending natural-sort order.
func (s *Store) Update(ctx context.Context, version string, entry json.RawMessage) error {
	entries, err := s.Load(ctx)
	if err != nil {
		return err
	}

	entries[version] = entry

	data, err := Marshal(entries)
	if err != nil {
		return err
	}

	if err := s.bucket.WriteAll(ctx, s.key, data, nil); err != nil {
		return fmt.Errorf("write registry: %w", err)
	}
	return nil
}

// WithBuildType returns entry with a leading "buildType" field spliced in.
// entry must be a JSON object.
func WithBuildType(entry json.RawMessage, buildType string) (json.RawMessage, error) {
	trimmed := bytes.TrimSpace(entry)
	if len(trimmed) < 2 || trimmed[0] != '{' {
		return nil, fmt.Errorf("registry: entry is not a JSON object")
	}

	field, err := json.Marshal(buildType)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	buf.WriteString(`{"buildType":`)
	buf.Write(field)
	if !bytes.Equal(trimmed, []byte("{}")) {
		buf.WriteByte(',')
	}
	buf.Write(trimmed[1:])
	return buf.Bytes(), nil
}

// Marshal renders entries as an indented JSON object whose keys follow
// descending natural-sort order.
func Marshal(entries map[string]json.RawMessage) ([]byte, error) {
	keys := SortedKeys(entries)

	var buf bytes.Buffer
	buf.WriteString("{")
	for i, key := range keys {
		if i > 0 {
			buf.WriteString(",")
		}
		buf.WriteString("\n  ")

		name, err := json.Marshal(key)
		if err != nil {
			return nil, err
		}
		buf.Write(name)
		buf.WriteString(": ")

		if err := json.Indent(&buf, entries[key], "  ", "  "); err != nil {
			return nil, fmt.Errorf("registry: entry %q: %w", key, err)
		}
	}
	if len(keys) > 0 {
		buf.WriteString("\n")
	}
	buf.WriteString("}")
	return buf.Bytes(), nil
}

// SortedKeys returns the registry keys in descending natural order, so the
// newest version stays at the top of the file.
func SortedKeys(entries map[string]json.RawMessage) []string {
	keys := make([]string, 0, len(entries))
	for key := range entries {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		return NaturalLess(keys[j], keys[i])
	})
	return keys
}

// NaturalLess compares two strings treating runs of digits as integers, so
// "1.2.10" sorts after "1.2.9" instead of between "1.2.1" and "1.2.2".
func NaturalLess(a, b string) bool {
	for a != "" && b != "" {
		ar, aDigits := nextRun(a)
		br, bDigits := nextRun(b)

		if aDigits && bDigits {
			if c := compareNumeric(ar, br); c != 0 {
				return c < 0
			}
		} else if ar != br {
			return ar < br
		}

		a, b = a[len(ar):], b[len(br):]
	}
	return a == "" && b != ""
}

// nextRun returns the leading run of s that is all digits or all non-digits.
func nextRun(s string) (run string, digits bool) {
	digits = isDigit(s[0])
	for i := 1; i < len(s); i++ {
		if isDigit(s[i]) != digits {
			return s[:i], digits
		}
	}
	return s, digits
}

// compareNumeric compares two digit runs by value without parsing, so
// arbitrarily long runs cannot overflow.
func compareNumeric(a, b string) int {
	a = strings.TrimLeft(a, "0")
	b = strings.TrimLeft(b, "0")
	if len(a) != len(b) {
		if len(a) < len(b) {
			return -1
		}
		return 1
	}
	return strings.Compare(a, b)
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
