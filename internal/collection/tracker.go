package collection

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"cratedig/internal/domain"
	"cratedig/internal/normalize"
	"cratedig/internal/resolver"
)

// DefaultLookAhead is how many off-screen cards ahead of the viewport get
// their artwork scheduled early, so scrolling lands on already-resolved
// covers.
const DefaultLookAhead = 3

// Resolver is the slice of the resolution engine the tracker needs.
type Resolver interface {
	Resolve(ctx context.Context, rec *domain.Record, force bool) (resolver.Result, error)
}

// Tracker watches which rendered cards are visible and schedules exactly
// one resolution per record, lazily, through the bounded queue. It is the
// Go analog of a one-shot viewport observer: once a record has been
// scheduled it never re-triggers, no matter how often it scrolls back in.
type Tracker struct {
	mu        sync.Mutex
	records   []*domain.Record
	scheduled map[string]bool

	engine    Resolver
	cache     domain.ArtCache
	queue     *resolver.Queue
	lookAhead int

	onResolved func(rec *domain.Record, res resolver.Result)
	logger     *slog.Logger
}

func NewTracker(engine Resolver, cache domain.ArtCache, queue *resolver.Queue, logger *slog.Logger) *Tracker {
	if logger == nil {
		logger = slog.Default()
	}
	return &Tracker{
		scheduled: make(map[string]bool),
		engine:    engine,
		cache:     cache,
		queue:     queue,
		lookAhead: DefaultLookAhead,
		logger:    logger,
	}
}

// SetLookAhead overrides how many cards past the viewport get scheduled.
func (t *Tracker) SetLookAhead(n int) {
	if n < 0 {
		n = 0
	}
	t.mu.Lock()
	t.lookAhead = n
	t.mu.Unlock()
}

// OnResolved registers a callback invoked from worker goroutines whenever a
// record's artwork resolves. Workers never touch record fields themselves;
// the callback owner forwards the result onto whichever goroutine owns the
// records and applies it there, typically via ApplyResult.
func (t *Tracker) OnResolved(fn func(rec *domain.Record, res resolver.Result)) {
	t.mu.Lock()
	t.onResolved = fn
	t.mu.Unlock()
}

// SetRecords replaces the rendered card list after a re-render. Scheduling
// marks survive: a record that was already attempted in this session is not
// re-attempted just because the view was rebuilt.
func (t *Tracker) SetRecords(records []*domain.Record) {
	t.mu.Lock()
	t.records = records
	t.mu.Unlock()
}

// SetViewport schedules resolution for the records in [first, last] plus
// the look-ahead margin on both ends. Indexes are clamped.
func (t *Tracker) SetViewport(first, last int) {
	t.mu.Lock()
	lo := first - t.lookAhead
	hi := last + t.lookAhead
	if lo < 0 {
		lo = 0
	}
	if hi >= len(t.records) {
		hi = len(t.records) - 1
	}
	var due []*domain.Record
	for i := lo; i <= hi; i++ {
		if rec := t.records[i]; t.markLocked(rec) {
			due = append(due, rec)
		}
	}
	t.mu.Unlock()

	for _, rec := range due {
		t.push(rec, false)
	}
}

// ScheduleAll schedules every record immediately. This is the degradation
// path for surfaces without visibility information (headless runs); the
// bounded queue keeps the behavior correct either way, only eagerness
// changes.
func (t *Tracker) ScheduleAll() {
	t.mu.Lock()
	var due []*domain.Record
	for _, rec := range t.records {
		if t.markLocked(rec) {
			due = append(due, rec)
		}
	}
	t.mu.Unlock()

	for _, rec := range due {
		t.push(rec, false)
	}
}

// RefreshAll performs a deep refresh: cache entries are evicted, covers not
// carried by the source row are cleared, one-shot marks reset, and every
// record is re-scheduled with force set. Because it writes record fields it
// must be called from the goroutine that owns the records.
func (t *Tracker) RefreshAll() {
	t.mu.Lock()
	t.scheduled = make(map[string]bool)
	records := make([]*domain.Record, len(t.records))
	copy(records, t.records)
	for _, rec := range records {
		t.cache.Clear(rec.Artist, rec.Title)
		if !rec.SourceCover() {
			rec.Cover = ""
		}
		t.scheduled[trackKey(rec)] = true
	}
	t.mu.Unlock()

	for _, rec := range records {
		t.push(rec, true)
	}
}

// Wait blocks until all scheduled resolutions have completed.
func (t *Tracker) Wait() {
	t.queue.WaitIdle()
}

// markLocked marks a record as scheduled; false means it already was.
func (t *Tracker) markLocked(rec *domain.Record) bool {
	key := trackKey(rec)
	if t.scheduled[key] {
		return false
	}
	t.scheduled[key] = true
	return true
}

func trackKey(rec *domain.Record) string {
	return normalize.CacheKey(rec.Artist, rec.Title)
}

func (t *Tracker) push(rec *domain.Record, force bool) {
	t.queue.Push(func() {
		res, err := t.engine.Resolve(context.Background(), rec, force)
		if err != nil {
			if !errors.Is(err, domain.ErrInsufficientInfo) && !errors.Is(err, domain.ErrNoArtFound) {
				t.logger.Debug("resolution failed", "artist", rec.Artist, "title", rec.Title, "error", err)
			}
			return
		}

		t.mu.Lock()
		fn := t.onResolved
		t.mu.Unlock()

		if fn != nil {
			fn(rec, res)
		}
	})
}

// ApplyResult retains a resolution outcome on the record: the cover URL, and
// the genre when the record has none yet. Resolution workers deliver results
// without writing record fields, so the goroutine that renders the record
// must be the one that calls this.
func ApplyResult(rec *domain.Record, res resolver.Result) {
	rec.Cover = res.URL
	if rec.Genre == "" && res.Genre != "" {
		rec.Genre = res.Genre
	}
}
