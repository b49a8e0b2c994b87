// Package fuzzy implements the string-similarity primitives used by
// categorization, suggestion and duplicate detection.
package fuzzy

import (
	"strings"

	"spendlens/internal/textutils"
)

// Default blend weights for character-level vs token-level similarity.
const (
	DefaultLevenshteinWeight = 0.5
	DefaultJaccardWeight     = 0.5

	// containmentBaseline is the score assigned when one normalized string
	// contains the other, before the length-difference penalty.
	containmentBaseline = 0.8
)

// Matcher computes blended similarity scores. The zero value is not usable;
// construct with NewMatcher.
type Matcher struct {
	levenshteinWeight float64
	jaccardWeight     float64
}

// NewMatcher returns a Matcher with the given blend weights. Non-positive
// weight pairs fall back to the defaults.
func NewMatcher(levenshteinWeight, jaccardWeight float64) *Matcher {
	if levenshteinWeight <= 0 && jaccardWeight <= 0 {
		levenshteinWeight = DefaultLevenshteinWeight
		jaccardWeight = DefaultJaccardWeight
	}
	return &Matcher{
		levenshteinWeight: levenshteinWeight,
		jaccardWeight:     jaccardWeight,
	}
}

// LevenshteinDistance returns the edit distance between two strings.
// The operation is symmetric: LevenshteinDistance(a, b) == LevenshteinDistance(b, a).
func LevenshteinDistance(a, b string) int {
	ra := []rune(a)
	rb := []rune(b)
	if len(ra) == 0 {
		return len(rb)
	}
	if len(rb) == 0 {
		return len(ra)
	}

	prev := make([]int, len(rb)+1)
	curr := make([]int, len(rb)+1)
	for j := 0; j <= len(rb); j++ {
		prev[j] = j
	}

	for i := 1; i <= len(ra); i++ {
		curr[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			curr[j] = minInt(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}

	return prev[len(rb)]
}

// LevenshteinSimilarity returns 1 - distance/maxLen in [0,1].
func LevenshteinSimilarity(a, b string) float64 {
	if a == b {
		return 1.0
	}
	maxLen := len([]rune(a))
	if l := len([]rune(b)); l > maxLen {
		maxLen = l
	}
	if maxLen == 0 {
		return 1.0
	}
	return 1.0 - float64(LevenshteinDistance(a, b))/float64(maxLen)
}

// JaccardSimilarity returns the Jaccard index over whitespace tokens.
func JaccardSimilarity(a, b string) float64 {
	tokensA := textutils.Tokenize(a)
	tokensB := textutils.Tokenize(b)
	if len(tokensA) == 0 && len(tokensB) == 0 {
		return 1.0
	}
	if len(tokensA) == 0 || len(tokensB) == 0 {
		return 0.0
	}

	setA := make(map[string]struct{}, len(tokensA))
	for _, t := range tokensA {
		setA[t] = struct{}{}
	}
	setB := make(map[string]struct{}, len(tokensB))
	for _, t := range tokensB {
		setB[t] = struct{}{}
	}

	intersection := 0
	for t := range setA {
		if _, ok := setB[t]; ok {
			intersection++
		}
	}
	union := len(setA) + len(setB) - intersection

	return float64(intersection) / float64(union)
}

// Similarity blends Levenshtein ratio and token Jaccard similarity for two
// raw strings. Both inputs are merchant-normalized first. Identical
// normalized strings score 1.0; a containment relationship scores the 0.8
// baseline reduced by a length-difference penalty, so "STARBUCKS #123"
// strongly matches "STARBUCKS".
func (m *Matcher) Similarity(a, b string) float64 {
	normA := textutils.NormalizeMerchant(a)
	normB := textutils.NormalizeMerchant(b)

	if normA == normB {
		return 1.0
	}
	if normA == "" || normB == "" {
		return 0.0
	}

	if strings.Contains(normA, normB) || strings.Contains(normB, normA) {
		longer := len(normA)
		shorter := len(normB)
		if shorter > longer {
			longer, shorter = shorter, longer
		}
		penalty := float64(longer-shorter) / float64(longer) * 0.2
		score := containmentBaseline - penalty
		if blended := m.blend(normA, normB); blended > score {
			return blended
		}
		return score
	}

	return m.blend(normA, normB)
}

func (m *Matcher) blend(a, b string) float64 {
	lev := LevenshteinSimilarity(strings.ToLower(a), strings.ToLower(b))
	jac := JaccardSimilarity(a, b)
	total := m.levenshteinWeight + m.jaccardWeight
	return (lev*m.levenshteinWeight + jac*m.jaccardWeight) / total
}

func minInt(values ...int) int {
	m := values[0]
	for _, v := range values[1:] {
		if v < m {
			m = v
		}
	}
	return m
}
