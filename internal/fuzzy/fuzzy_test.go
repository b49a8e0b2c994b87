package fuzzy_test

import (
	"testing"

	"spendlens/internal/fuzzy"

	"github.com/stretchr/testify/assert"
)

func TestLevenshteinDistance(t *testing.T) {
	tests := []struct {
		name     string
		a        string
		b        string
		expected int
	}{
		{"identical strings", "netflix", "netflix", 0},
		{"empty vs non-empty", "", "abc", 3},
		{"non-empty vs empty", "abc", "", 3},
		{"both empty", "", "", 0},
		{"classic kitten sitting", "kitten", "sitting", 3},
		{"single substitution", "cat", "car", 1},
		{"single insertion", "cat", "cart", 1},
		{"unicode runes", "café", "cafe", 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, fuzzy.LevenshteinDistance(tt.a, tt.b))
		})
	}
}

func TestLevenshteinDistance_Symmetric(t *testing.T) {
	pairs := [][2]string{
		{"kitten", "sitting"},
		{"STARBUCKS", "STARBUCK"},
		{"", "netflix"},
		{"amazon", "amazn"},
	}
	for _, pair := range pairs {
		assert.Equal(t,
			fuzzy.LevenshteinDistance(pair[0], pair[1]),
			fuzzy.LevenshteinDistance(pair[1], pair[0]),
			"distance should be symmetric for %q and %q", pair[0], pair[1])
	}
}

func TestLevenshteinSimilarity(t *testing.T) {
	assert.Equal(t, 1.0, fuzzy.LevenshteinSimilarity("abc", "abc"))
	assert.Equal(t, 1.0, fuzzy.LevenshteinSimilarity("", ""))
	assert.Equal(t, 0.0, fuzzy.LevenshteinSimilarity("abc", "xyz"))
	// 1 edit over max length 6
	assert.InDelta(t, 1.0-1.0/6.0, fuzzy.LevenshteinSimilarity("amazon", "amazn"), 0.0001)
}

func TestJaccardSimilarity(t *testing.T) {
	tests := []struct {
		name     string
		a        string
		b        string
		expected float64
	}{
		{"identical token sets", "coffee shop", "coffee shop", 1.0},
		{"both empty", "", "", 1.0},
		{"one empty", "coffee", "", 0.0},
		{"half overlap", "coffee shop", "coffee", 0.5},
		{"no overlap", "coffee shop", "gas station", 0.0},
		{"case insensitive", "Coffee Shop", "coffee shop", 1.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, fuzzy.JaccardSimilarity(tt.a, tt.b), 0.0001)
		})
	}
}

func TestMatcher_Similarity_Reflexive(t *testing.T) {
	matcher := fuzzy.NewMatcher(fuzzy.DefaultLevenshteinWeight, fuzzy.DefaultJaccardWeight)

	for _, s := range []string{"NETFLIX.COM", "SQ *COFFEE SHOP", "STARBUCKS #4521", "Uber Trip"} {
		assert.Equal(t, 1.0, matcher.Similarity(s, s), "similarity of %q with itself must be 1.0", s)
	}
}

func TestMatcher_Similarity(t *testing.T) {
	matcher := fuzzy.NewMatcher(fuzzy.DefaultLevenshteinWeight, fuzzy.DefaultJaccardWeight)

	t.Run("normalization collapses processor noise", func(t *testing.T) {
		// Both sides normalize to STARBUCKS.
		assert.Equal(t, 1.0, matcher.Similarity("STARBUCKS #4521", "STARBUCKS #7789"))
	})

	t.Run("containment scores near baseline", func(t *testing.T) {
		// "STARBUCKS COFFEE" contains "STARBUCKS": baseline 0.8 minus a
		// length-difference penalty of (7/16)*0.2.
		score := matcher.Similarity("STARBUCKS COFFEE", "STARBUCKS")
		assert.InDelta(t, 0.7125, score, 0.0001)
	})

	t.Run("unrelated merchants score low", func(t *testing.T) {
		score := matcher.Similarity("NETFLIX.COM", "SHELL OIL")
		assert.Less(t, score, 0.5)
	})

	t.Run("empty side scores zero", func(t *testing.T) {
		assert.Equal(t, 0.0, matcher.Similarity("NETFLIX", ""))
	})

	t.Run("symmetric", func(t *testing.T) {
		a, b := "WHOLE FOODS MARKET", "WHOLEFOODS MKT"
		assert.InDelta(t, matcher.Similarity(a, b), matcher.Similarity(b, a), 0.0001)
	})
}

func TestNewMatcher_FallsBackToDefaults(t *testing.T) {
	matcher := fuzzy.NewMatcher(0, 0)
	// Must still produce sane scores rather than dividing by zero.
	assert.Equal(t, 1.0, matcher.Similarity("NETFLIX", "NETFLIX"))
	assert.Greater(t, matcher.Similarity("SPOTIFY USA", "SPOTIFY"), 0.5)
}
