// Package store persists artwork resolution outcomes in BoltDB, so repeat
// visits never re-query providers for records already attempted.
package store

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"cratedig/internal/domain"
	"cratedig/internal/normalize"
	bolt "go.etcd.io/bbolt"
)

// Bucket names
var (
	bucketArtwork = []byte("artwork")
	bucketGenres  = []byte("genres")
)

// ArtStore implements domain.ArtCache on BoltDB. Every operation degrades
// to a cache miss or no-op when storage is unavailable; artwork is a
// best-effort layer and must never take the collection down with it.
type ArtStore struct {
	db *bolt.DB
	mu sync.RWMutex

	// In-memory cache for hot-path reads (promoted on access)
	cache map[string][]byte
}

// Open opens (or creates) the store under dir. An empty dir, or any open
// failure, yields a memory-only store.
func Open(dir string) (*ArtStore, error) {
	if dir == "" {
		return &ArtStore{cache: make(map[string][]byte)}, nil
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return &ArtStore{cache: make(map[string][]byte)}, nil
	}

	dbPath := filepath.Join(dir, "cratedig.db")
	db, err := bolt.Open(dbPath, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return &ArtStore{cache: make(map[string][]byte)}, nil
	}

	err = db.Update(func(tx *bolt.Tx) error {
		for _, bucket := range [][]byte{bucketArtwork, bucketGenres} {
			if _, err := tx.CreateBucketIfNotExists(bucket); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return &ArtStore{cache: make(map[string][]byte)}, nil
	}

	return &ArtStore{db: db, cache: make(map[string][]byte)}, nil
}

func (s *ArtStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// === Generic helpers ===

func (s *ArtStore) get(bucket []byte, key string, dest interface{}) bool {
	cacheKey := string(bucket) + ":" + key

	s.mu.RLock()
	if data, ok := s.cache[cacheKey]; ok {
		s.mu.RUnlock()
		return json.Unmarshal(data, dest) == nil
	}
	s.mu.RUnlock()

	if s.db == nil {
		return false
	}

	var data []byte
	s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucket)
		if b == nil {
			return nil
		}
		if v := b.Get([]byte(key)); v != nil {
			data = make([]byte, len(v))
			copy(data, v)
		}
		return nil
	})

	if data == nil {
		return false
	}

	// Promote to memory cache
	s.mu.Lock()
	s.cache[cacheKey] = data
	s.mu.Unlock()

	return json.Unmarshal(data, dest) == nil
}

func (s *ArtStore) set(bucket []byte, key string, value interface{}) {
	data, err := json.Marshal(value)
	if err != nil {
		return
	}

	cacheKey := string(bucket) + ":" + key

	s.mu.Lock()
	s.cache[cacheKey] = data
	s.mu.Unlock()

	if s.db == nil {
		return
	}

	// A failed write leaves the durable copy stale; the memory copy still
	// serves this session.
	s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucket)
		if b == nil {
			return nil
		}
		return b.Put([]byte(key), data)
	})
}

func (s *ArtStore) delete(bucket []byte, key string) {
	cacheKey := string(bucket) + ":" + key

	s.mu.Lock()
	delete(s.cache, cacheKey)
	s.mu.Unlock()

	if s.db == nil {
		return
	}

	s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucket)
		if b != nil {
			b.Delete([]byte(key))
		}
		return nil
	})
}

// === Artwork entries ===

// Get returns the cached resolution outcome for (artist, title). The second
// return is false when the pair was never attempted.
func (s *ArtStore) Get(artist, title string) (domain.ArtEntry, bool) {
	var entry domain.ArtEntry
	ok := s.get(bucketArtwork, normalize.CacheKey(artist, title), &entry)
	return entry, ok
}

func (s *ArtStore) Set(artist, title string, entry domain.ArtEntry) {
	s.set(bucketArtwork, normalize.CacheKey(artist, title), entry)
}

// SetMissing records the negative marker: resolution ran to exhaustion and
// found nothing, so later attempts skip the network entirely.
func (s *ArtStore) SetMissing(artist, title string) {
	s.Set(artist, title, domain.ArtEntry{Missing: true})
}

func (s *ArtStore) Clear(artist, title string) {
	s.delete(bucketArtwork, normalize.CacheKey(artist, title))
}

// ClearAll wipes every artwork entry. Genres are kept; they are cheap to
// hold and not tied to a particular image.
func (s *ArtStore) ClearAll() {
	s.mu.Lock()
	for k := range s.cache {
		if strings.HasPrefix(k, string(bucketArtwork)+":") {
			delete(s.cache, k)
		}
	}
	s.mu.Unlock()

	if s.db == nil {
		return
	}

	s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketArtwork)
		if b == nil {
			return nil
		}
		var keys [][]byte
		c := b.Cursor()
		for k, _ := c.First(); k != nil; k, _ = c.Next() {
			key := make([]byte, len(k))
			copy(key, k)
			keys = append(keys, key)
		}
		for _, k := range keys {
			if err := b.Delete(k); err != nil {
				return err
			}
		}
		return nil
	})
}

// === Genres ===

func (s *ArtStore) GetGenre(artist, title string) (string, bool) {
	var genre string
	ok := s.get(bucketGenres, normalize.CacheKey(artist, title), &genre)
	return genre, ok && genre != ""
}

func (s *ArtStore) SetGenre(artist, title, genre string) {
	if genre == "" {
		return
	}
	s.set(bucketGenres, normalize.CacheKey(artist, title), genre)
}
