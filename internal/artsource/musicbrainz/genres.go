package musicbrainz

import "strings"

// tagGenres maps common MusicBrainz folksonomy tags onto the small genre
// vocabulary the collection uses.
var tagGenres = []struct {
	tag   string
	genre string
}{
	{"rock", "Rock"},
	{"pop", "Pop"},
	{"hip hop", "Hip-Hop"},
	{"rap", "Hip-Hop"},
	{"r&b", "R&B"},
	{"soul", "Soul"},
	{"jazz", "Jazz"},
	{"classical", "Classical"},
	{"electronic", "Electronic"},
	{"edm", "Electronic"},
	{"dance", "Electronic"},
	{"house", "Electronic"},
	{"techno", "Electronic"},
	{"metal", "Metal"},
	{"punk", "Punk"},
	{"indie", "Indie"},
	{"alternative", "Alternative"},
	{"folk", "Folk"},
	{"country", "Country"},
	{"blues", "Blues"},
	{"reggae", "Reggae"},
	{"soundtrack", "Soundtrack"},
	{"score", "Soundtrack"},
}

// GenreForTag maps one tag to a canonical genre, or "" when the tag is
// unrecognized.
func GenreForTag(tag string) string {
	t := strings.ToLower(strings.TrimSpace(tag))
	if t == "" {
		return ""
	}
	for _, entry := range tagGenres {
		if t == entry.tag || strings.HasPrefix(t, entry.tag) {
			return entry.genre
		}
	}
	if strings.Contains(t, "alt") {
		return "Alternative"
	}
	if strings.Contains(t, "singer-songwriter") {
		return "Folk"
	}
	return ""
}

// GenreForTags returns the first mappable tag's genre. Tags are expected
// most-used first, as GenreTags returns them.
func GenreForTags(tags []string) string {
	for _, tag := range tags {
		if g := GenreForTag(tag); g != "" {
			return g
		}
	}
	return ""
}
