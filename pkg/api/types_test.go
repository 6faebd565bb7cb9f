package api

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIDAcceptsStringsAndNumbers(t *testing.T) {
	var v struct {
		A ID `json:"a"`
		B ID `json:"b"`
		C ID `json:"c"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"a":"q-1","b":42,"c":null}`), &v))
	assert.Equal(t, ID("q-1"), v.A)
	assert.Equal(t, ID("42"), v.B)
	assert.Equal(t, ID(""), v.C)
}

func TestTimestampFormats(t *testing.T) {
	want := time.Date(2025, 5, 20, 10, 0, 0, 0, time.UTC)
	for _, in := range []string{`1747735200000`, `"2025-05-20T10:00:00Z"`, `"2025-05-20T12:00:00+02:00"`} {
		var ts Timestamp
		require.NoError(t, json.Unmarshal([]byte(in), &ts), in)
		assert.True(t, want.Equal(ts.Time), in)
	}

	var day Timestamp
	require.NoError(t, json.Unmarshal([]byte(`"2025-05-25"`), &day))
	assert.Equal(t, 25, day.Day())

	var bad Timestamp
	assert.Error(t, json.Unmarshal([]byte(`"yesterday"`), &bad))

	b, err := json.Marshal(Timestamp{Time: want})
	require.NoError(t, err)
	assert.Equal(t, `"2025-05-20T10:00:00Z"`, string(b))
	b, err = json.Marshal(Timestamp{})
	require.NoError(t, err)
	assert.Equal(t, `null`, string(b))
}

func TestMetaBothSpellings(t *testing.T) {
	var a, b Meta
	require.NoError(t, json.Unmarshal([]byte(`{"page":2,"total":30,"totalPages":3}`), &a))
	require.NoError(t, json.Unmarshal([]byte(`{"currentPage":2,"totalItems":30,"totalPages":3,"pageSize":10}`), &b))
	assert.Equal(t, Meta{Page: 2, Total: 30, TotalPages: 3}, a)
	assert.Equal(t, Meta{Page: 2, Total: 30, TotalPages: 3, PageSize: 10}, b)
	assert.True(t, a.HasNext())
	assert.False(t, Meta{Page: 3, TotalPages: 3}.HasNext())
}

func TestValidator(t *testing.T) {
	var v Validator
	v.Required("origin", " ", "Origin is required")
	v.Min("weight", 0.05, 0.1, "Weight must be at least 0.1kg")
	v.Email("email", "not-an-email", "Invalid email")
	v.OneOf("serviceLevel", "Overnight", []string{"Standard", "Expedited"}, "Service level is required")
	v.MinLen("password", "abc", 5, "Required")

	err := v.Err()
	var ve *ValidationError
	require.True(t, errors.As(err, &ve))
	require.Len(t, ve.Fields, 5)
	assert.Equal(t, "email", ve.Fields[0].Field)
	assert.Equal(t, "Origin is required", ve.Message("origin"))
	assert.Equal(t, "", ve.Message("destination"))
	assert.Contains(t, err.Error(), "weight: Weight must be at least 0.1kg")

	var ok Validator
	ok.Required("origin", "Chicago, IL", "Origin is required")
	assert.NoError(t, ok.Err())
}

func TestIsEmail(t *testing.T) {
	assert.True(t, IsEmail("john@techcorp.com"))
	assert.False(t, IsEmail("John <john@techcorp.com>"))
	assert.False(t, IsEmail("john@localhost"))
	assert.False(t, IsEmail(""))
}
