// Package similarity provides edit-distance matching used to produce
// "did you mean" suggestions for near-miss tag IDs.
package similarity

import (
	"sort"
	"strings"
)

// DefaultMaxDistanceRatio is the ratio of query length tolerated as edit
// distance when the caller does not specify one.
const DefaultMaxDistanceRatio = 0.4

// Match is one candidate within the allowed edit distance of a query.
type Match struct {
	Value    string
	Distance int
}

// Distance computes the Levenshtein edit distance between a and b using the
// full dynamic-programming matrix.
func Distance(a, b string) int {
	ra := []rune(a)
	rb := []rune(b)
	if len(ra) == 0 {
		return len(rb)
	}
	if len(rb) == 0 {
		return len(ra)
	}

	matrix := make([][]int, len(ra)+1)
	for i := range matrix {
		matrix[i] = make([]int, len(rb)+1)
		matrix[i][0] = i
	}
	for j := 0; j <= len(rb); j++ {
		matrix[0][j] = j
	}

	for i := 1; i <= len(ra); i++ {
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			matrix[i][j] = min3(
				matrix[i-1][j]+1,      // deletion
				matrix[i][j-1]+1,      // insertion
				matrix[i-1][j-1]+cost, // substitution
			)
		}
	}
	return matrix[len(ra)][len(rb)]
}

// FindSimilar returns the candidates within the allowed edit distance of
// query, sorted by ascending distance (ties keep candidate order).
// Comparison is case-insensitive. Exact matches are excluded: an identical
// candidate is not a useful suggestion.
//
// The allowed distance is max(2, floor(len(query) * maxRatio)).
func FindSimilar(query string, candidates []string, maxRatio float64) []Match {
	if maxRatio <= 0 {
		maxRatio = DefaultMaxDistanceRatio
	}
	maxDistance := int(float64(len([]rune(query))) * maxRatio)
	if maxDistance < 2 {
		maxDistance = 2
	}

	lowerQuery := strings.ToLower(query)
	var matches []Match
	for _, candidate := range candidates {
		if candidate == query {
			continue
		}
		d := Distance(lowerQuery, strings.ToLower(candidate))
		if d == 0 || d > maxDistance {
			continue
		}
		matches = append(matches, Match{Value: candidate, Distance: d})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Distance < matches[j].Distance
	})
	return matches
}

// Suggest returns the closest candidate values, at most limit of them.
func Suggest(query string, candidates []string, limit int) []string {
	matches := FindSimilar(query, candidates, DefaultMaxDistanceRatio)
	if limit > 0 && len(matches) > limit {
		matches = matches[:limit]
	}
	out := make([]string, len(matches))
	for i, m := range matches {
		out[i] = m.Value
	}
	return out
}

func min3(a, b, c int) int {
	if b < a {
		a = b
	}
	if c < a {
		a = c
	}
	return a
}
