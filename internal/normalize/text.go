// Package normalize maps arbitrary import rows onto canonical records and
// provides the text normalization shared by artwork matching and caching.
package normalize

import (
	"regexp"
	"strings"
)

var (
	nonAlnumRun  = regexp.MustCompile(`[^a-z0-9]+`)
	nonAlnum     = regexp.MustCompile(`[^a-z0-9]`)
	volumeForms  = regexp.MustCompile(`volume|vol\.`)
	editionWords = regexp.MustCompile(`deluxe|remaster(ed)?|anniversary|expanded|edition|explicit|clean|version|bonus|mono|stereo|original`)
	parenthetic  = regexp.MustCompile(`\([^)]*\)|\[[^\]]*\]`)
	edgeQuotes   = regexp.MustCompile(`^[“”"']+|[“”"']+$`)
	whitespace   = regexp.MustCompile(`\s+`)
)

// MatchKey lowercases and collapses punctuation to single spaces. Used for
// case/punctuation-insensitive column-name and token matching.
func MatchKey(s string) string {
	return strings.TrimSpace(nonAlnumRun.ReplaceAllString(strings.ToLower(s), " "))
}

// FlatKey strips everything but letters and digits, folding volume spellings
// first so "Vol. 2" and "Volume 2" compare equal. Used for strict artist
// comparison.
func FlatKey(s string) string {
	return nonAlnum.ReplaceAllString(volumeForms.ReplaceAllString(strings.ToLower(s), "vol"), "")
}

// TitleKey is FlatKey with edition markers and parenthesised segments
// removed, so "Blue (2021 Remaster)" keys the same as "Blue".
func TitleKey(s string) string {
	s = editionWords.ReplaceAllString(strings.ToLower(s), "")
	s = volumeForms.ReplaceAllString(s, "vol")
	s = parenthetic.ReplaceAllString(s, "")
	return nonAlnum.ReplaceAllString(s, "")
}

// Tidy strips wrapping quote characters and collapses internal whitespace.
func Tidy(s string) string {
	s = edgeQuotes.ReplaceAllString(s, "")
	return strings.TrimSpace(whitespace.ReplaceAllString(s, " "))
}

// CacheKey derives the artwork cache key for an (artist, title) pair. Each
// side is folded through FlatKey so hits survive casing and punctuation
// differences between import sources, and "R.E.M." keys the same as "REM".
func CacheKey(artist, title string) string {
	return FlatKey(artist) + "|||" + FlatKey(title)
}
