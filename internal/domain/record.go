package domain

import (
	"sort"
	"strings"
)

// Defaults substituted by the normalizer when a source row is missing fields.
const (
	DefaultArtist  = "Unknown Artist"
	UntitledPrefix = "Untitled"
)

// Record represents one album in the collection after normalization.
type Record struct {
	Title  string // Defaulted to "Untitled #N" when the row has no title
	Artist string // Defaulted to "Unknown Artist"
	Genre  string
	Label  string
	Format string
	Color  string
	Notes  string
	Cover  string // Artwork URL, from the source row or resolved later
	URL    string // External link (e.g. Discogs page)

	// Raw preserves the original source row, including columns the
	// normalizer does not recognize.
	Raw map[string]string
}

// Searchable reports whether the record carries enough information to
// look up artwork. Default artist/title values indicate the source row was
// too sparse to search meaningfully.
func (r *Record) Searchable() bool {
	artist := strings.ToLower(strings.TrimSpace(r.Artist))
	title := strings.ToLower(strings.TrimSpace(r.Title))
	if artist == "" || title == "" {
		return false
	}
	if artist == strings.ToLower(DefaultArtist) {
		return false
	}
	return !strings.HasPrefix(title, strings.ToLower(UntitledPrefix))
}

// SourceCover reports whether the original source row carried a cover URL,
// either under a recognized column name or as an http value in the fourth
// column, mirroring how the normalizer picks covers up. A resolved cover on
// the in-memory record does not count.
func (r *Record) SourceCover() bool {
	keys := make([]string, 0, len(r.Raw))
	for key, val := range r.Raw {
		keys = append(keys, key)
		if strings.TrimSpace(val) == "" {
			continue
		}
		for _, w := range strings.FieldsFunc(strings.ToLower(key), func(r rune) bool {
			return r < 'a' || r > 'z'
		}) {
			switch w {
			case "cover", "image", "art", "artwork":
				return true
			}
		}
	}
	if len(keys) < 4 {
		return false
	}
	sort.Strings(keys)
	return strings.HasPrefix(strings.TrimSpace(r.Raw[keys[3]]), "http")
}

// SortMode controls the ordering of the filtered view.
type SortMode int

const (
	SortTitle SortMode = iota
	SortArtist
	SortRandom
)

// Next cycles to the following sort mode.
func (m SortMode) Next() SortMode {
	switch m {
	case SortTitle:
		return SortArtist
	case SortArtist:
		return SortRandom
	default:
		return SortTitle
	}
}

func (m SortMode) String() string {
	switch m {
	case SortArtist:
		return "artist"
	case SortRandom:
		return "random"
	default:
		return "title"
	}
}
