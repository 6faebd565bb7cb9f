package query

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeyString(t *testing.T) {
	assert.Equal(t, `["quick-estimates"]`, NewKey("quick-estimates").String())
	assert.Equal(t, `["quick-estimates",{"page":2}]`, NewKey("quick-estimates", map[string]int{"page": 2}).String())
	assert.Equal(t, "quick-estimates", NewKey("quick-estimates", 1).Resource())
	assert.Equal(t, "", Key{}.Resource())
}

func TestFetchCachesUntilInvalidated(t *testing.T) {
	c := New(0)
	calls := 0
	fn := func(context.Context) (int, error) { calls++; return calls, nil }
	ctx := context.Background()
	page1 := NewKey("quick-estimates", map[string]int{"page": 1})
	page2 := NewKey("quick-estimates", map[string]int{"page": 2})

	v, err := Fetch(ctx, c, page1, fn)
	require.NoError(t, err)
	assert.Equal(t, 1, v)
	v, _ = Fetch(ctx, c, page1, fn)
	assert.Equal(t, 1, v)
	_, _ = Fetch(ctx, c, page2, fn)
	_, _ = Fetch(ctx, c, NewKey("detailed-quotes"), fn)
	assert.Equal(t, 3, calls)

	assert.Equal(t, 2, c.Invalidate(NewKey("quick-estimates")))
	assert.Equal(t, 1, c.Len())

	v, _ = Fetch(ctx, c, page1, fn)
	assert.Equal(t, 4, v)
}

func TestFetchDoesNotCacheErrors(t *testing.T) {
	c := New(0)
	boom := errors.New("boom")
	_, err := Fetch(context.Background(), c, NewKey("user"), func(context.Context) (string, error) { return "", boom })
	require.ErrorIs(t, err, boom)
	assert.Zero(t, c.Len())
}

func TestStaleEntriesRefetch(t *testing.T) {
	c := New(time.Minute)
	now := time.Date(2025, 5, 26, 9, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	c.Set(NewKey("user"), "a")
	_, ok := c.Get(NewKey("user"))
	assert.True(t, ok)

	now = now.Add(2 * time.Minute)
	_, ok = c.Get(NewKey("user"))
	assert.False(t, ok)
}

func TestNilCacheAlwaysFetches(t *testing.T) {
	calls := 0
	for i := 0; i < 2; i++ {
		_, _ = Fetch(context.Background(), nil, NewKey("x"), func(context.Context) (int, error) { calls++; return 0, nil })
	}
	assert.Equal(t, 2, calls)
}
