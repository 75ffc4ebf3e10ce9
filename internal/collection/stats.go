package collection

import (
	"regexp"
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const (
	topArtistCount = 10
	topGenreCount  = 12
)

// Genre cells hold multi-valued strings ("Rock / Blues", "Folk & Country").
var genreSeparators = regexp.MustCompile(`[/,;&|•·+]+|\s+and\s+`)

var titleCaser = cases.Title(language.English)

// NameCount is one bar in the stats view.
type NameCount struct {
	Name  string
	Count int
}

// Stats summarizes the full collection.
type Stats struct {
	Total      int
	WithCover  int
	Missing    int
	GenreCount int
	TopArtists []NameCount
	TopGenres  []NameCount
}

// Stats aggregates over the full collection, not the filtered view.
func (s *Service) Stats() Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := Stats{Total: len(s.all)}
	artists := make(map[string]int)
	genres := make(map[string]int)

	for _, r := range s.all {
		if strings.TrimSpace(r.Cover) != "" {
			stats.WithCover++
		}
		if r.Artist != "" {
			artists[r.Artist]++
		}
		for _, g := range SplitGenres(r.Genre) {
			genres[strings.ToLower(g)]++
		}
	}

	stats.Missing = stats.Total - stats.WithCover
	stats.GenreCount = len(genres)
	stats.TopArtists = topCounts(artists, topArtistCount, false)
	stats.TopGenres = topCounts(genres, topGenreCount, true)
	return stats
}

// SplitGenres breaks a genre cell into individual title-cased genres.
func SplitGenres(s string) []string {
	var out []string
	for _, part := range genreSeparators.Split(strings.ToLower(s), -1) {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		out = append(out, titleCaser.String(part))
	}
	return out
}

func topCounts(counts map[string]int, limit int, titleCase bool) []NameCount {
	out := make([]NameCount, 0, len(counts))
	for name, count := range counts {
		if titleCase {
			name = titleCaser.String(name)
		}
		out = append(out, NameCount{Name: name, Count: count})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Name < out[j].Name
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}
