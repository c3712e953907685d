package blindbench

import "strings"

// MaxPrefixLen is the longest prefix materialized at index-build time.
// Queries longer than this cannot match a blind-index bucket.
const MaxPrefixLen = 20

// Normalize canonicalizes text for indexing and querying: trims surrounding
// whitespace, lowercases, and collapses internal whitespace runs to a single
// space.
//
// IMPORTANT: the SAME normalization must be applied at index-build time and
// at query time, or no token will ever match. Normalize is idempotent.
//
// Example: "  Ann   Arbor " -> "ann arbor"
func Normalize(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

// Prefixes returns the prefixes of the normalized text with lengths
// 1..min(maxLen, len), in increasing-length order. Lengths are counted in
// runes so multi-byte names index correctly.
//
// These are the queryable prefixes materialized at write time; one blind
// index bucket exists per distinct prefix token.
func Prefixes(s string, maxLen int) []string {
	runes := []rune(Normalize(s))
	n := len(runes)
	if maxLen < n {
		n = maxLen
	}
	if n <= 0 {
		return nil
	}
	out := make([]string, 0, n)
	for i := 1; i <= n; i++ {
		out = append(out, string(runes[:i]))
	}
	return out
}
