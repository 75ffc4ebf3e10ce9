package normalize

import (
	"fmt"
	"sort"
	"strings"

	"cratedig/internal/domain"
)

// Column synonyms, consulted in order. The strict "album" name is preferred
// over generic title synonyms so a sheet carrying both "Album" and "Name"
// columns maps the right one.
var (
	albumKeys  = []string{"album"}
	titleKeys  = []string{"title", "record", "release", "record name"}
	artistKeys = []string{"artist", "band", "composer", "performer", "musician"}
	genreKeys  = []string{"genre", "category", "style"}
	labelKeys  = []string{"label", "publisher"}
	formatKeys = []string{"format", "media", "pressing"}
	colorKeys  = []string{"color", "variant"}
	notesKeys  = []string{"notes", "special notes", "comments", "comment"}
	compKeys   = []string{"soundtrack/compilations", "compilations", "soundtrack"}
	coverKeys  = []string{"cover url", "cover_url", "cover", "image", "art", "artwork"}
	urlKeys    = []string{"url", "discogs_url", "link"}
)

// keyIndex maps normalized column names back to the row's actual keys.
type keyIndex struct {
	exact map[string]string
	keys  []string // actual keys in stable order
}

func buildKeyIndex(row map[string]string) keyIndex {
	idx := keyIndex{exact: make(map[string]string, len(row))}
	for k := range row {
		idx.exact[MatchKey(k)] = k
		idx.keys = append(idx.keys, k)
	}
	sort.Strings(idx.keys)
	return idx
}

// pick returns the first non-empty value whose column matches one of the
// synonyms. Exact normalized matches win over word-level matches, so a
// header like "album_title" still resolves to the title field.
func pick(row map[string]string, idx keyIndex, names []string) string {
	for _, name := range names {
		want := MatchKey(name)
		if key, ok := idx.exact[want]; ok {
			if v := strings.TrimSpace(row[key]); v != "" {
				return Tidy(v)
			}
		}
	}
	for _, name := range names {
		want := MatchKey(name)
		for _, key := range idx.keys {
			if !containsWord(MatchKey(key), want) {
				continue
			}
			if v := strings.TrimSpace(row[key]); v != "" {
				return Tidy(v)
			}
		}
	}
	return ""
}

func containsWord(haystack, word string) bool {
	for _, w := range strings.Fields(haystack) {
		if w == word {
			return true
		}
	}
	return false
}

// fourthColumnURL guesses the cover column on sheets that carry an unnamed
// URL in the fourth position.
func fourthColumnURL(row map[string]string, idx keyIndex) string {
	if len(idx.keys) < 4 {
		return ""
	}
	v := strings.TrimSpace(row[idx.keys[3]])
	if strings.HasPrefix(v, "http") {
		return v
	}
	return ""
}

// MapRecord converts one import row into a canonical Record. It is a pure
// function and never fails: missing fields get defaults, the rest empty
// strings. index is the row's position in the source list, used for the
// untitled fallback.
func MapRecord(row map[string]string, index int) *domain.Record {
	idx := buildKeyIndex(row)

	title := pick(row, idx, albumKeys)
	if title == "" {
		title = pick(row, idx, titleKeys)
	}
	if title == "" {
		title = fmt.Sprintf("%s #%d", domain.UntitledPrefix, index+1)
	}

	artist := pick(row, idx, artistKeys)
	if artist == "" {
		artist = domain.DefaultArtist
	}

	notes := pick(row, idx, notesKeys)
	if comp := pick(row, idx, compKeys); comp != "" {
		if notes != "" {
			notes = notes + " • " + comp
		} else {
			notes = comp
		}
	}

	return &domain.Record{
		Title:  title,
		Artist: artist,
		Genre:  pick(row, idx, genreKeys),
		Label:  pick(row, idx, labelKeys),
		Format: pick(row, idx, formatKeys),
		Color:  pick(row, idx, colorKeys),
		Notes:  notes,
		Cover:  SourceCoverURL(row),
		URL:    pick(row, idx, urlKeys),
		Raw:    row,
	}
}

// SourceCoverURL extracts the cover URL a source row carries, if any: a
// value under a recognized cover column, else the fourth-column guess. Rows
// never change after import, so callers may invoke this from any goroutine.
func SourceCoverURL(row map[string]string) string {
	idx := buildKeyIndex(row)
	if cover := pick(row, idx, coverKeys); cover != "" {
		return cover
	}
	return fourthColumnURL(row, idx)
}

// MapRecords converts a full import payload.
func MapRecords(rows []map[string]string) []*domain.Record {
	records := make([]*domain.Record, len(rows))
	for i, row := range rows {
		records[i] = MapRecord(row, i)
	}
	return records
}
