// Package resolver orchestrates artwork lookup: providers tried in priority
// order, noisy candidates scored and rejected, survivors load-verified, and
// the outcome, positive or negative, written to the durable cache.
package resolver

import (
	"context"
	"log/slog"
	"time"

	"cratedig/internal/domain"
	"cratedig/internal/normalize"
)

const providerTimeout = 10 * time.Second

// Result is a successful resolution outcome.
type Result struct {
	URL    string
	Genre  string
	Source string // Provider name, "cover" for the record's own URL, "cache"
	Cached bool   // Satisfied without any provider call
}

// Engine runs the resolution algorithm over an ordered provider list.
type Engine struct {
	providers []domain.ArtProvider
	cache     domain.ArtCache
	verifier  *Verifier
	logger    *slog.Logger
}

func New(providers []domain.ArtProvider, cache domain.ArtCache, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{
		providers: providers,
		cache:     cache,
		verifier:  NewVerifier(logger),
		logger:    logger,
	}
}

// Resolve maps a record to a verified artwork URL or domain.ErrNoArtFound.
// force skips the source row's own cover and the cache read, but still
// verifies every candidate and still records the final outcome. Provider
// failures never escape: each one is just "nothing from this provider".
func (e *Engine) Resolve(ctx context.Context, rec *domain.Record, force bool) (Result, error) {
	// A cover the source row already carries wins if it still loads. The
	// verified URL is cached like any other acceptance, so later sessions
	// skip the probe. The URL is read from the immutable row, never from
	// the record's cover field, which the owning goroutine may be rewriting
	// while workers run.
	if cover := normalize.SourceCoverURL(rec.Raw); !force && cover != "" {
		if e.verifier.Probe(ctx, cover) {
			e.cache.Set(rec.Artist, rec.Title, domain.ArtEntry{URL: cover, Source: "cover"})
			return Result{URL: cover, Source: "cover", Cached: true}, nil
		}
		e.logger.Debug("existing cover unloadable", "artist", rec.Artist, "title", rec.Title)
	}

	if !rec.Searchable() {
		return Result{}, domain.ErrInsufficientInfo
	}

	if !force {
		if entry, ok := e.cache.Get(rec.Artist, rec.Title); ok {
			if entry.Missing {
				return Result{Cached: true}, domain.ErrNoArtFound
			}
			return Result{URL: entry.URL, Genre: entry.Genre, Source: "cache", Cached: true}, nil
		}
	}

	for _, provider := range e.providers {
		result, ok := e.tryProvider(ctx, provider, rec)
		if !ok {
			continue
		}
		e.cache.Set(rec.Artist, rec.Title, domain.ArtEntry{
			URL:    result.URL,
			Source: result.Source,
			Genre:  result.Genre,
		})
		return result, nil
	}

	// Exhausted. Cache the failure so repeat visibility triggers don't
	// re-walk the providers for this record.
	e.cache.Set(rec.Artist, rec.Title, domain.ArtEntry{Missing: true})
	return Result{}, domain.ErrNoArtFound
}

// tryProvider fetches one provider's candidates, filters them, and verifies
// URLs in preference order.
func (e *Engine) tryProvider(ctx context.Context, provider domain.ArtProvider, rec *domain.Record) (Result, bool) {
	callCtx, cancel := context.WithTimeout(ctx, providerTimeout)
	defer cancel()

	cands, err := provider.Candidates(callCtx, rec)
	if err != nil {
		e.logger.Debug("provider failed", "provider", provider.Name(), "error", err)
		return Result{}, false
	}
	if len(cands) == 0 {
		return Result{}, false
	}

	// Trusted candidates (no metadata to score) keep their order; scored
	// candidates collapse to the single best one above the bar.
	var accepted []domain.ArtCandidate
	var scorable []domain.ArtCandidate
	for _, cand := range cands {
		if cand.Trusted() {
			accepted = append(accepted, cand)
		} else {
			scorable = append(scorable, cand)
		}
	}
	if best, ok := bestCandidate(rec, scorable); ok {
		accepted = append(accepted, best)
	}

	for _, cand := range accepted {
		for _, url := range cand.URLs {
			if url == "" {
				continue
			}
			if !e.verifier.Probe(ctx, url) {
				continue
			}
			return Result{URL: url, Genre: cand.Genre, Source: provider.Name()}, true
		}
	}
	return Result{}, false
}
