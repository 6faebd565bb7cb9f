// Package api holds the wire types shared by the freight API features.
package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ID accepts both string and numeric JSON ids; the API is not consistent.
type ID string

func (id *ID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*id = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("id: %w", err)
	}
	*id = ID(n.String())
	return nil
}

func (id ID) String() string { return string(id) }

// Timestamp accepts epoch milliseconds or an RFC3339 string and always
// marshals as RFC3339.
type Timestamp struct {
	time.Time
}

func (t *Timestamp) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) || len(b) == 0 {
		t.Time = time.Time{}
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		return t.parseString(s)
	}
	ms, err := strconv.ParseInt(string(b), 10, 64)
	if err != nil {
		f, ferr := strconv.ParseFloat(string(b), 64)
		if ferr != nil {
			return fmt.Errorf("timestamp: %w", err)
		}
		ms = int64(f)
	}
	t.Time = time.UnixMilli(ms).UTC()
	return nil
}

func (t *Timestamp) parseString(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		t.Time = time.Time{}
		return nil
	}
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02", time.RFC1123Z, time.RFC1123} {
		if v, err := time.Parse(layout, s); err == nil {
			t.Time = v.UTC()
			return nil
		}
	}
	return fmt.Errorf("timestamp: unrecognized format %q", s)
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(t.UTC().Format(time.RFC3339))
}

func (t Timestamp) MarshalYAML() (any, error) {
	if t.IsZero() {
		return nil, nil
	}
	return t.UTC().Format(time.RFC3339), nil
}

// Meta is pagination metadata. The API has used two spellings; both decode.
type Meta struct {
	Page       int `json:"page" yaml:"page"`
	Total      int `json:"total" yaml:"total"`
	TotalPages int `json:"totalPages" yaml:"totalPages"`
	PageSize   int `json:"pageSize,omitempty" yaml:"pageSize,omitempty"`
}

func (m *Meta) UnmarshalJSON(b []byte) error {
	var raw struct {
		Page        int `json:"page"`
		CurrentPage int `json:"currentPage"`
		Total       int `json:"total"`
		TotalItems  int `json:"totalItems"`
		TotalPages  int `json:"totalPages"`
		PageSize    int `json:"pageSize"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	m.Page = firstNonZero(raw.Page, raw.CurrentPage)
	m.Total = firstNonZero(raw.Total, raw.TotalItems)
	m.TotalPages = raw.TotalPages
	m.PageSize = raw.PageSize
	return nil
}

// HasNext reports whether another page exists after this one.
func (m Meta) HasNext() bool { return m.Page < m.TotalPages }

func firstNonZero(vs ...int) int {
	for _, v := range vs {
		if v != 0 {
			return v
		}
	}
	return 0
}

// Paged is a list response with pagination metadata.
type Paged[T any] struct {
	Data []T `json:"data" yaml:"data"`
	Meta Meta `json:"meta" yaml:"meta"`
}
