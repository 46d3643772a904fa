package scraper

import (
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// epochMillisThreshold is 2000-01-01T00:00:00Z in milliseconds. Provider
// timestamps below it are assumed to be seconds, above it milliseconds.
const epochMillisThreshold = 946684800000

// pickString returns the first non-empty string found under the given keys.
// Provider response schemas vary by dataset version, so parsers probe a
// list of known field names instead of relying on a single one.
func pickString(raw map[string]interface{}, keys ...string) (string, bool) {
	for _, key := range keys {
		if v, ok := raw[key]; ok {
			if s, ok := v.(string); ok && s != "" {
				return s, true
			}
		}
	}
	return "", false
}

// pickBool returns the first boolean found under the given keys, defaulting
// to false. String forms ("true"/"false") are tolerated.
func pickBool(raw map[string]interface{}, keys ...string) bool {
	for _, key := range keys {
		v, ok := raw[key]
		if !ok {
			continue
		}
		switch b := v.(type) {
		case bool:
			return b
		case string:
			if parsed, err := strconv.ParseBool(b); err == nil {
				return parsed
			}
		}
	}
	return false
}

// pickCount returns the first parseable numeric value found under the given
// keys, defaulting to 0.
func pickCount(raw map[string]interface{}, keys ...string) int64 {
	for _, key := range keys {
		if v, ok := raw[key]; ok {
			if n, ok := parseApproxCount(v); ok {
				return n
			}
		}
	}
	return 0
}

// parseApproxCount converts a provider count value into an integer.
// Accepts plain numbers, numeric strings, and abbreviated forms like
// "1.2K", "5.3M", "2B" (case-insensitive, commas stripped).
// Parameters:
//   - v: raw value from the decoded payload.
// Returns:
//   - int64: parsed count.
//   - bool: false when the value cannot be interpreted as a count.
func parseApproxCount(v interface{}) (int64, bool) {
	switch n := v.(type) {
	case float64:
		return int64(n), true
	case int:
		return int64(n), true
	case int64:
		return n, true
	case string:
		s := strings.TrimSpace(strings.ReplaceAll(n, ",", ""))
		if s == "" {
			return 0, false
		}
		multiplier := int64(1)
		switch {
		case strings.HasSuffix(strings.ToUpper(s), "K"):
			multiplier = 1_000
			s = s[:len(s)-1]
		case strings.HasSuffix(strings.ToUpper(s), "M"):
			multiplier = 1_000_000
			s = s[:len(s)-1]
		case strings.HasSuffix(strings.ToUpper(s), "B"):
			multiplier = 1_000_000_000
			s = s[:len(s)-1]
		}
		f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return 0, false
		}
		return int64(f * float64(multiplier)), true
	default:
		return 0, false
	}
}

// normalizeEpochMillis converts a provider timestamp into epoch
// milliseconds. Numeric values below the year-2000 threshold are treated
// as seconds, otherwise as milliseconds. RFC3339 and date-only strings
// are also accepted. Returns 0 when the value is absent or unparseable.
func normalizeEpochMillis(v interface{}) int64 {
	switch t := v.(type) {
	case float64:
		return scaleEpoch(int64(t))
	case int64:
		return scaleEpoch(t)
	case int:
		return scaleEpoch(int64(t))
	case string:
		s := strings.TrimSpace(t)
		if s == "" {
			return 0
		}
		if n, err := strconv.ParseInt(s, 10, 64); err == nil {
			return scaleEpoch(n)
		}
		for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"} {
			if parsed, err := time.Parse(layout, s); err == nil {
				return parsed.UnixMilli()
			}
		}
		return 0
	default:
		return 0
	}
}

func scaleEpoch(n int64) int64 {
	if n <= 0 {
		return 0
	}
	if n < epochMillisThreshold {
		return n * 1000
	}
	return n
}

// fallbackPostID derives a deterministic post id when the provider omits
// one, so repeated deliveries of the same post still hit the same row.
// Prefers the post URL; falls back to the posted-at timestamp.
func fallbackPostID(postURL string, postedAt int64) string {
	seed := postURL
	if seed == "" {
		seed = fmt.Sprintf("ts:%d", postedAt)
	}
	sum := sha1.Sum([]byte(seed))
	return hex.EncodeToString(sum[:])
}

// toStringSlice coerces a decoded JSON value into a string slice,
// tolerating bare strings and arrays of objects carrying a "url" field.
func toStringSlice(v interface{}) []string {
	switch items := v.(type) {
	case []interface{}:
		out := make([]string, 0, len(items))
		for _, item := range items {
			switch s := item.(type) {
			case string:
				if s != "" {
					out = append(out, s)
				}
			case map[string]interface{}:
				if u, ok := pickString(s, "url", "src", "link"); ok {
					out = append(out, u)
				}
			}
		}
		return out
	case string:
		if items == "" {
			return nil
		}
		return []string{items}
	default:
		return nil
	}
}

func strPtr(s string) *string { return &s }
func int64Ptr(n int64) *int64 { return &n }
func boolPtr(b bool) *bool    { return &b }
