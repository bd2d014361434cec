package cmd

import (
	"strings"

	"github.com/sahilm/fuzzy"
)

// maxSuggestDistance is the largest edit distance still worth suggesting.
const maxSuggestDistance = 3

// editDistance is the Levenshtein distance between a and b.
func editDistance(a, b string) int {
	if a == "" {
		return len(b)
	}
	if b == "" {
		return len(a)
	}

	row := make([]int, len(b)+1)
	for j := range row {
		row[j] = j
	}
	for i := 1; i <= len(a); i++ {
		diag := i - 1
		row[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			next := min(row[j]+1, row[j-1]+1, diag+cost)
			diag = row[j]
			row[j] = next
		}
	}
	return row[len(b)]
}

// closest returns the candidate nearest to unknown after normalize is
// applied to both sides. Typos are matched by edit distance; abbreviations
// ("conn" for "connections") fall back to fuzzy subsequence ranking.
func closest(unknown string, candidates []string, normalize func(string) string) string {
	key := normalize(unknown)
	if key == "" {
		return ""
	}

	best, bestDist := "", maxSuggestDistance+1
	normalized := make([]string, len(candidates))
	for i, c := range candidates {
		normalized[i] = normalize(c)
		if d := editDistance(key, normalized[i]); d < bestDist {
			best, bestDist = c, d
		}
	}
	if best != "" {
		return best
	}

	if matches := fuzzy.Find(key, normalized); len(matches) > 0 {
		return candidates[matches[0].Index]
	}
	return ""
}

// suggestCommand finds the closest command name, or "" when nothing is close.
func suggestCommand(unknown string, commands []string) string {
	return closest(unknown, commands, strings.ToLower)
}

// suggestFlag finds the closest flag, comparing without leading dashes but
// returning the candidate as given.
func suggestFlag(unknown string, flagNames []string) string {
	return closest(unknown, flagNames, func(s string) string {
		return strings.ToLower(strings.TrimLeft(s, "-"))
	})
}
