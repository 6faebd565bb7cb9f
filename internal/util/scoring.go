package util

import "github.com/sahilm/fuzzy"

// ScoreCompletions returns up to n candidates fuzzy-matching input, best
// first. An empty input returns every candidate; n <= 0 means no limit.
func ScoreCompletions(input string, candidates []string, n int) []string {
	if input == "" {
		return candidates
	}
	matches := fuzzy.Find(input, candidates)
	if n <= 0 || n > len(matches) {
		n = len(matches)
	}
	out := make([]string, 0, n)
	for _, m := range matches[:n] {
		out = append(out, m.Str)
	}
	return out
}
