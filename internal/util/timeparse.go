package util

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

var absoluteLayouts = []string{time.RFC3339, "2006-01-02T15:04", "2006-01-02"}

// ParseTimeExpr accepts a look-back ("90m", "2h", "3d", "2w", "1mo") or an
// absolute time (RFC3339, "2006-01-02T15:04", "2006-01-02").
func ParseTimeExpr(s string, now time.Time) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("empty time expression")
	}

	units := []struct {
		suffix string
		back   func(int) time.Time
	}{
		{"mo", func(n int) time.Time { return now.AddDate(0, -n, 0) }},
		{"w", func(n int) time.Time { return now.AddDate(0, 0, -7*n) }},
		{"d", func(n int) time.Time { return now.AddDate(0, 0, -n) }},
	}
	for _, u := range units {
		num, ok := strings.CutSuffix(s, u.suffix)
		if !ok {
			continue
		}
		n, err := strconv.Atoi(num)
		if err != nil || n < 0 {
			return time.Time{}, fmt.Errorf("invalid %s duration: %q", u.suffix, s)
		}
		return u.back(n), nil
	}

	// Go durations; 'm' stays minutes
	if d, err := time.ParseDuration(s); err == nil {
		return now.Add(-d), nil
	}
	for _, layout := range absoluteLayouts {
		if t, err := time.ParseInLocation(layout, s, now.Location()); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid time expression: %q", s)
}

// TimeRange parses since/until (either may be empty) and swaps them when
// reversed. A zero bound means unbounded.
func TimeRange(since, until string, now time.Time) (from, to time.Time, err error) {
	if since != "" {
		if from, err = ParseTimeExpr(since, now); err != nil {
			return from, to, fmt.Errorf("invalid --since: %w", err)
		}
	}
	if until != "" {
		if to, err = ParseTimeExpr(until, now); err != nil {
			return from, to, fmt.Errorf("invalid --until: %w", err)
		}
	}
	if !from.IsZero() && !to.IsZero() && from.After(to) {
		from, to = to, from
	}
	return from, to, nil
}

// Within reports whether t falls inside [from, to], zero bounds open.
func Within(t, from, to time.Time) bool {
	if !from.IsZero() && t.Before(from) {
		return false
	}
	if !to.IsZero() && t.After(to) {
		return false
	}
	return true
}
