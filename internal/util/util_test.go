package util

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2025, 5, 26, 12, 0, 0, 0, time.UTC)

func TestParseTimeExpr(t *testing.T) {
	cases := map[string]time.Time{
		"90m":              now.Add(-90 * time.Minute),
		"2h":               now.Add(-2 * time.Hour),
		"3d":               now.AddDate(0, 0, -3),
		"2w":               now.AddDate(0, 0, -14),
		"1mo":              now.AddDate(0, -1, 0),
		"2025-05-01":       time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC),
		"2025-05-01T08:30": time.Date(2025, 5, 1, 8, 30, 0, 0, time.UTC),
	}
	for in, want := range cases {
		got, err := ParseTimeExpr(in, now)
		require.NoError(t, err, in)
		assert.True(t, want.Equal(got), "%s: got %s want %s", in, got, want)
	}
	for _, bad := range []string{"", "xd", "yesterday"} {
		_, err := ParseTimeExpr(bad, now)
		assert.Error(t, err, bad)
	}
}

func TestTimeRangeSwapsAndWithin(t *testing.T) {
	from, to, err := TimeRange("1h", "2d", now)
	require.NoError(t, err)
	assert.True(t, from.Before(to))

	assert.True(t, Within(now.Add(-3*time.Hour), from, to))
	assert.False(t, Within(now, from, to))
	assert.True(t, Within(now, time.Time{}, time.Time{}))

	_, _, err = TimeRange("nope", "", now)
	assert.ErrorContains(t, err, "invalid --since")
}

func TestScoreCompletions(t *testing.T) {
	routes := []string{"/app/dashboard", "/app/inbox", "/app/quick-estimate"}
	assert.Equal(t, routes, ScoreCompletions("", routes, 1))
	assert.Equal(t, []string{"/app/inbox"}, ScoreCompletions("inbox", routes, 0))
	assert.Len(t, ScoreCompletions("app", routes, 2), 2)
	assert.Empty(t, ScoreCompletions("zzz", routes, 3))
}
