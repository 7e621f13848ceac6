package llm

import (
	"context"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTruncateBiographyKeepsRunesIntact(t *testing.T) {
	assert.Equal(t, "short", truncateBiography("short", 10))

	// The limit lands mid-rune; truncation must back up to the boundary.
	s := "abéé" // 2 ASCII bytes + two 2-byte runes
	out := truncateBiography(s, 3)
	assert.Equal(t, "ab", out)
	assert.True(t, utf8.ValidString(out))

	out = truncateBiography(s, 4)
	assert.Equal(t, "abé", out)
	assert.True(t, utf8.ValidString(out))
}

func TestParseKeywords(t *testing.T) {
	keywords := parseKeywords("machine learning, natural language processing, robotics", 5)
	assert.Equal(t, []string{"machine learning", "natural language processing", "robotics"}, keywords)
}

func TestParseKeywordsStripsNumberingAndQuotes(t *testing.T) {
	keywords := parseKeywords("1. \"machine learning\"\n2. robotics\n3. 'vision'", 5)
	assert.Equal(t, []string{"machine learning", "robotics", "vision"}, keywords)
}

func TestParseKeywordsDedupesAndCaps(t *testing.T) {
	keywords := parseKeywords("ai, AI, ml, nlp, vision, robotics, hci", 4)
	assert.Equal(t, []string{"ai", "ml", "nlp", "vision"}, keywords)
}

func TestParseKeywordsEmptyOutput(t *testing.T) {
	assert.Empty(t, parseKeywords("", 5))
	assert.Empty(t, parseKeywords(", , ,", 5))
}

func TestExtractKeywordsWithoutCredentials(t *testing.T) {
	c := NewClient("", "gpt-4o-mini", 0, 64, 5, 5)

	keywords, err := c.ExtractKeywords(context.Background(), "Some biography text.")
	require.NoError(t, err)
	assert.Empty(t, keywords, "an unconfigured client reports no keywords instead of failing")
}

func TestExtractKeywordsEmptyBiography(t *testing.T) {
	c := NewClient("", "gpt-4o-mini", 0, 64, 5, 5)

	keywords, err := c.ExtractKeywords(context.Background(), "   ")
	require.NoError(t, err)
	assert.Empty(t, keywords)
}
