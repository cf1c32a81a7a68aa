// Package match provides normalized string similarity scoring.
//
// The match package implements Levenshtein-based similarity used across the
// CLI for "did you mean" suggestions. Callers score user input against a
// command vocabulary and apply a threshold to keep only close matches.
//
// # Example Usage
//
//	score := match.Similarity("conifg", "config") // 0.666...
//	best := match.Rank("conifg", vocabulary, 0.5, 3)
package match

import (
	"sort"
	"strings"
)

// Similarity returns a score in [0,1] for two strings, where 1.0 means
// identical. The score is (maxLen - distance) / maxLen; two empty strings
// score 1.0.
func Similarity(a, b string) float64 {
	maxLen := len(a)
	if len(b) > maxLen {
		maxLen = len(b)
	}
	if maxLen == 0 {
		return 1.0
	}
	return float64(maxLen-Distance(a, b)) / float64(maxLen)
}

// Distance returns the Levenshtein edit distance between two strings: the
// minimum number of single-character insertions, deletions, or substitutions
// required to turn one into the other.
func Distance(a, b string) int {
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}

	// Two rolling rows instead of the full matrix.
	cols := len(b) + 1
	prev := make([]int, cols)
	curr := make([]int, cols)

	for j := 0; j < cols; j++ {
		prev[j] = j
	}

	for i := 1; i <= len(a); i++ {
		curr[0] = i
		for j := 1; j < cols; j++ {
			cost := 0
			if a[i-1] != b[j-1] {
				cost = 1
			}
			curr[j] = min3(
				prev[j]+1,      // deletion
				curr[j-1]+1,    // insertion
				prev[j-1]+cost, // substitution
			)
		}
		prev, curr = curr, prev
	}

	return prev[cols-1]
}

type scored struct {
	value string
	score float64
	order int
}

// Rank scores input against each candidate (case-insensitively) and returns
// the candidates whose similarity exceeds threshold, best first. Ties keep
// declaration order. At most limit results are returned; limit <= 0 means
// unlimited. Duplicate candidates are collapsed to their first occurrence.
func Rank(input string, candidates []string, threshold float64, limit int) []string {
	query := strings.ToLower(input)

	seen := make(map[string]bool, len(candidates))
	matches := make([]scored, 0, len(candidates))
	for i, candidate := range candidates {
		if seen[candidate] {
			continue
		}
		seen[candidate] = true

		score := Similarity(query, strings.ToLower(candidate))
		if score > threshold {
			matches = append(matches, scored{value: candidate, score: score, order: i})
		}
	}

	sort.Slice(matches, func(i, j int) bool {
		if matches[i].score != matches[j].score {
			return matches[i].score > matches[j].score
		}
		return matches[i].order < matches[j].order
	})

	if limit > 0 && len(matches) > limit {
		matches = matches[:limit]
	}

	result := make([]string, len(matches))
	for i, m := range matches {
		result[i] = m.value
	}
	return result
}

func min3(a, b, c int) int {
	if a <= b && a <= c {
		return a
	}
	if b <= c {
		return b
	}
	return c
}
