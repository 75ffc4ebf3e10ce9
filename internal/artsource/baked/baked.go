// Package baked serves artwork from a pre-computed index file, the output
// of the bakeart command. A deployment that ships art-index.json resolves
// most covers without touching the network at all.
package baked

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"sync"

	"cratedig/internal/domain"
	"cratedig/internal/normalize"
)

// Entry is one baked index value, keyed by "Artist|||Title".
type Entry struct {
	URL   string `json:"url"`
	Src   string `json:"src"`
	Genre string `json:"genre"`
}

// Provider looks records up in the baked index. The file is loaded once,
// lazily; a missing or unreadable index degrades to an empty map.
type Provider struct {
	path   string
	logger *slog.Logger

	once  sync.Once
	index map[string]Entry
}

func New(path string, logger *slog.Logger) *Provider {
	if logger == nil {
		logger = slog.Default()
	}
	return &Provider{path: path, logger: logger}
}

func (p *Provider) Name() string { return "baked" }

func (p *Provider) load() {
	p.index = make(map[string]Entry)
	if p.path == "" {
		return
	}

	data, err := os.ReadFile(p.path)
	if err != nil {
		p.logger.Debug("no baked art index", "path", p.path, "error", err)
		return
	}

	raw := make(map[string]Entry)
	if err := json.Unmarshal(data, &raw); err != nil {
		p.logger.Warn("bad baked art index", "path", p.path, "error", err)
		return
	}

	// Index keys are written with the original casing; fold them the same
	// way lookups are folded.
	for key, entry := range raw {
		artist, title, ok := splitKey(key)
		if !ok || entry.URL == "" {
			continue
		}
		p.index[normalize.CacheKey(artist, title)] = entry
	}
	p.logger.Info("loaded baked art index", "entries", len(p.index))
}

func splitKey(key string) (artist, title string, ok bool) {
	const sep = "|||"
	for i := 0; i+len(sep) <= len(key); i++ {
		if key[i:i+len(sep)] == sep {
			return key[:i], key[i+len(sep):], true
		}
	}
	return "", "", false
}

// Candidates yields at most one trusted candidate from the index.
func (p *Provider) Candidates(_ context.Context, rec *domain.Record) ([]domain.ArtCandidate, error) {
	p.once.Do(p.load)

	entry, ok := p.index[normalize.CacheKey(rec.Artist, rec.Title)]
	if !ok {
		return nil, nil
	}
	return []domain.ArtCandidate{{Genre: entry.Genre, URLs: []string{entry.URL}}}, nil
}
