// Package collection holds the full and filtered record lists, derives the
// filtered view from the current query and sort mode, and drives lazy
// artwork resolution for the records actually on screen.
package collection

import (
	"log/slog"
	"sort"
	"strings"
	"sync"

	"cratedig/internal/domain"
	lfuzzy "github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/sahilm/fuzzy"
)

// Field weights for ranked fuzzy search. Title and artist dominate; genre
// and label only break ties.
var fieldWeights = []struct {
	field  func(*domain.Record) string
	weight float64
}{
	{func(r *domain.Record) string { return r.Title }, 0.50},
	{func(r *domain.Record) string { return r.Artist }, 0.48},
	{func(r *domain.Record) string { return r.Genre }, 0.02},
	{func(r *domain.Record) string { return r.Label }, 0.02},
}

// filterIndex implements sahilm/fuzzy.Source over pre-lowered haystacks.
type filterIndex struct {
	records   []*domain.Record
	haystacks []string
}

func (ix *filterIndex) String(i int) string { return ix.haystacks[i] }
func (ix *filterIndex) Len() int            { return len(ix.haystacks) }

func buildIndex(records []*domain.Record) *filterIndex {
	ix := &filterIndex{records: records, haystacks: make([]string, len(records))}
	for i, r := range records {
		ix.haystacks[i] = strings.ToLower(strings.Join([]string{r.Title, r.Artist, r.Genre, r.Label}, " "))
	}
	return ix
}

// Service is the view engine: all records, the derived filtered view, and
// the query/sort state that shapes it. Filtering and sorting never mutate
// the full collection.
type Service struct {
	mu       sync.RWMutex
	all      []*domain.Record
	filtered []*domain.Record
	query    string
	sortMode domain.SortMode

	index    *filterIndex
	onChange func()
	logger   *slog.Logger
}

func NewService(logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{sortMode: domain.SortTitle, logger: logger}
}

// OnChange registers a callback invoked after every re-derivation of the
// filtered view (import, query, sort, shuffle).
func (s *Service) OnChange(fn func()) {
	s.mu.Lock()
	s.onChange = fn
	s.mu.Unlock()
}

// SetCollection replaces the full collection wholesale and re-derives the
// view under the current query and sort.
func (s *Service) SetCollection(records []*domain.Record) {
	s.mu.Lock()
	s.all = records
	s.index = buildIndex(records)
	s.deriveLocked()
	s.mu.Unlock()
	s.notify()
}

// SetQuery re-filters the view. Queries of two or more tokens go through
// ranked fuzzy search; shorter ones use exact substring AND-matching, which
// produces fewer false positives on single short tokens.
func (s *Service) SetQuery(query string) {
	s.mu.Lock()
	s.query = strings.TrimSpace(query)
	s.deriveLocked()
	s.mu.Unlock()
	s.notify()
}

// SetSort re-sorts the current view in place.
func (s *Service) SetSort(mode domain.SortMode) {
	s.mu.Lock()
	s.sortMode = mode
	sortRecords(s.filtered, mode)
	s.mu.Unlock()
	s.notify()
}

// Shuffle randomizes the current view without touching the sort mode.
func (s *Service) Shuffle() {
	s.mu.Lock()
	shuffleRecords(s.filtered)
	s.mu.Unlock()
	s.notify()
}

// Filtered returns a snapshot of the current view.
func (s *Service) Filtered() []*domain.Record {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*domain.Record, len(s.filtered))
	copy(out, s.filtered)
	return out
}

// All returns a snapshot of the full collection.
func (s *Service) All() []*domain.Record {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*domain.Record, len(s.all))
	copy(out, s.all)
	return out
}

func (s *Service) Query() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.query
}

func (s *Service) SortMode() domain.SortMode {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sortMode
}

func (s *Service) notify() {
	s.mu.RLock()
	fn := s.onChange
	s.mu.RUnlock()
	if fn != nil {
		fn()
	}
}

// deriveLocked rebuilds filtered from all + query + sortMode. Caller holds
// the write lock.
func (s *Service) deriveLocked() {
	tokens := strings.Fields(strings.ToLower(s.query))

	switch {
	case len(tokens) == 0:
		s.filtered = make([]*domain.Record, len(s.all))
		copy(s.filtered, s.all)
	case len(tokens) >= 2 && s.index != nil:
		s.filtered = s.fuzzyFilter(strings.ToLower(s.query))
		if s.filtered == nil {
			s.filtered = s.substringFilter(tokens)
		}
	default:
		s.filtered = s.substringFilter(tokens)
	}

	sortRecords(s.filtered, s.sortMode)
}

// fuzzyFilter returns matching records ranked best-first, or nil when
// nothing matched (caller falls back to substring matching).
func (s *Service) fuzzyFilter(query string) []*domain.Record {
	matches := fuzzy.FindFrom(query, s.index)
	if len(matches) == 0 {
		return nil
	}

	type ranked struct {
		rec   *domain.Record
		score float64
	}
	results := make([]ranked, 0, len(matches))
	for _, m := range matches {
		rec := s.index.records[m.Index]
		results = append(results, ranked{rec, weightedRank(query, rec)})
	}
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].score > results[j].score
	})

	out := make([]*domain.Record, len(results))
	for i, r := range results {
		out[i] = r.rec
	}
	return out
}

// weightedRank sums per-field fuzzy ranks, weighted. Lower Levenshtein
// distances yield higher contributions.
func weightedRank(query string, rec *domain.Record) float64 {
	total := 0.0
	for _, fw := range fieldWeights {
		val := fw.field(rec)
		if val == "" {
			continue
		}
		rank := lfuzzy.RankMatchNormalizedFold(query, val)
		if rank < 0 {
			continue
		}
		total += fw.weight / float64(1+rank)
	}
	return total
}

// substringFilter keeps records whose concatenated fields contain every
// query token.
func (s *Service) substringFilter(tokens []string) []*domain.Record {
	var out []*domain.Record
	for _, r := range s.all {
		hay := strings.ToLower(strings.Join([]string{r.Title, r.Artist, r.Genre, r.Label, r.Format, r.Notes}, " "))
		keep := true
		for _, tok := range tokens {
			if !strings.Contains(hay, tok) {
				keep = false
				break
			}
		}
		if keep {
			out = append(out, r)
		}
	}
	return out
}
