// Package normalize sanitizes raw sample rows into safe display text.
//
// Sample rows are shown to users and fed into the memory store, so values
// that look like credentials or PII are masked, blobs are elided, and long
// values are truncated. Normalization is deterministic and side-effect
// free; applying it to already-normalized values changes nothing.
package normalize

import (
	"encoding/json"
	"fmt"
	"regexp"
	"time"
)

// DefaultMaxStringLength is the truncation threshold for string values.
const DefaultMaxStringLength = 50

// DefaultDatePlaceholder replaces timestamp values in date/time columns.
// Deliberate de-identification: sample timestamps can reveal activity
// patterns, so every run renders the same fixed date.
const DefaultDatePlaceholder = "2023-01-01"

var (
	secretKeyPattern = regexp.MustCompile(`(?i)password|token|secret`)
	dateKeyPattern   = regexp.MustCompile(`(?i)date|time`)
	idKeyPattern     = regexp.MustCompile(`(?i)id`)
	emailKeyPattern  = regexp.MustCompile(`(?i)email`)

	// Timestamp-shaped strings: ISO dates/datetimes with optional zone.
	timestampPattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}([T ]\d{2}:\d{2}(:\d{2})?(\.\d+)?(Z|[+-]\d{2}:?\d{2})?)?$`)
)

// Options controls normalization behavior.
type Options struct {
	MaxStringLength int
	DatePlaceholder string
}

// DefaultOptions returns the standard normalization options.
func DefaultOptions() Options {
	return Options{
		MaxStringLength: DefaultMaxStringLength,
		DatePlaceholder: DefaultDatePlaceholder,
	}
}

// Row normalizes a raw result row. rowIndex is the 0-based position of the
// row in the sample; it feeds the deterministic ID_{n} and user{n}@domain.com
// replacements. First matching rule wins per field.
func Row(row map[string]any, rowIndex int, opts Options) map[string]string {
	if opts.MaxStringLength <= 0 {
		opts.MaxStringLength = DefaultMaxStringLength
	}
	if opts.DatePlaceholder == "" {
		opts.DatePlaceholder = DefaultDatePlaceholder
	}

	out := make(map[string]string, len(row))
	for key, value := range row {
		out[key] = Value(key, value, rowIndex, opts)
	}
	return out
}

// Value normalizes a single field.
func Value(key string, value any, rowIndex int, opts Options) string {
	if value == nil {
		return "NULL"
	}

	if _, ok := value.([]byte); ok {
		return "[BLOB]"
	}

	if secretKeyPattern.MatchString(key) {
		return "[REDACTED]"
	}

	if dateKeyPattern.MatchString(key) && isTimestampShaped(value) {
		return opts.DatePlaceholder
	}

	if s, ok := value.(string); ok {
		if idKeyPattern.MatchString(key) {
			return fmt.Sprintf("ID_%d", rowIndex+1)
		}
		if emailKeyPattern.MatchString(key) {
			return fmt.Sprintf("user%d@domain.com", rowIndex+1)
		}
		return truncate(s, opts.MaxStringLength)
	}

	if emailKeyPattern.MatchString(key) {
		return fmt.Sprintf("user%d@domain.com", rowIndex+1)
	}

	switch v := value.(type) {
	case bool, int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64,
		float32, float64:
		return fmt.Sprintf("%v", v)
	case time.Time:
		return v.Format("2006-01-02 15:04:05")
	case fmt.Stringer:
		return truncate(v.String(), opts.MaxStringLength)
	default:
		// Composites (maps, slices, driver-specific structs) are serialized
		// and truncated like long strings.
		serialized, err := json.Marshal(v)
		if err != nil {
			return truncate(fmt.Sprintf("%v", v), opts.MaxStringLength)
		}
		return truncate(string(serialized), opts.MaxStringLength)
	}
}

// isTimestampShaped reports whether a value plausibly carries a timestamp:
// a time.Time, or a string that parses as an ISO-style date/datetime.
func isTimestampShaped(value any) bool {
	switch v := value.(type) {
	case time.Time:
		return true
	case string:
		return timestampPattern.MatchString(v)
	default:
		return false
	}
}

// truncate shortens s to half the limit plus an ellipsis when it exceeds
// the limit.
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen/2] + "..."
}
