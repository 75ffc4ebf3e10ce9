package domain

import "context"

// ArtEntry is the durable cache value for one (artist, title) pair.
// Either a verified artwork URL, or the negative marker meaning a previous
// resolution attempt exhausted every provider without finding art.
type ArtEntry struct {
	URL     string `json:"url,omitempty"`
	Missing bool   `json:"missing,omitempty"`
	Source  string `json:"src,omitempty"` // Provider that produced the URL
	Genre   string `json:"genre,omitempty"`
}

// ArtCandidate is a not-yet-verified artwork proposal from a provider.
// URLs holds size/transport variants in preference order; the first that
// verifies as loadable wins. Artist and Title carry the provider's own
// metadata for match scoring; a candidate without them comes from a trusted
// source (the record's own cover field, the baked index) and skips scoring.
type ArtCandidate struct {
	Artist string
	Title  string
	Genre  string
	URLs   []string
}

// Trusted reports whether the candidate bypasses match scoring.
func (c ArtCandidate) Trusted() bool {
	return c.Artist == "" && c.Title == ""
}

// ArtProvider is one external source's lookup strategy for artwork.
// Implementations swallow their own transport errors only when they can
// still return partial results; otherwise they return the error and the
// resolution engine treats it as "no candidate from this provider".
type ArtProvider interface {
	Name() string
	Candidates(ctx context.Context, rec *Record) ([]ArtCandidate, error)
}

// ArtCache is the durable store for resolution outcomes. Implementations
// degrade to always-miss/no-op when storage is unavailable; none of these
// methods may fail loudly.
type ArtCache interface {
	Get(artist, title string) (ArtEntry, bool)
	Set(artist, title string, entry ArtEntry)
	Clear(artist, title string)
	ClearAll()
}
