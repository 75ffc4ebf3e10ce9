package itunes

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cratedig/internal/domain"
	"cratedig/internal/log"
)

const sampleResponse = `{
	"resultCount": 2,
	"results": [
		{"artistName": "Joni Mitchell", "collectionName": "Blue",
		 "artworkUrl100": "https://is1.mzstatic.com/image/ab/100x100bb.jpg",
		 "primaryGenreName": "Singer/Songwriter"},
		{"artistName": "Joni Mitchell", "collectionName": "Clouds",
		 "artworkUrl100": ""}
	]
}`

func TestCandidates(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		assert.Equal(t, "/search", r.URL.Path)
		assert.Equal(t, "music", r.URL.Query().Get("media"))
		assert.Equal(t, "album", r.URL.Query().Get("entity"))
		assert.Equal(t, "50", r.URL.Query().Get("limit"))
		w.Write([]byte(sampleResponse))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, log.NullLogger())
	rec := &domain.Record{Title: "Blue", Artist: "Joni Mitchell"}

	cands, err := client.Candidates(context.Background(), rec)
	require.NoError(t, err)

	// Four query shapes, each yielding the one result with artwork.
	assert.Equal(t, int32(4), atomic.LoadInt32(&calls))
	require.Len(t, cands, 4)

	first := cands[0]
	assert.Equal(t, "Joni Mitchell", first.Artist)
	assert.Equal(t, "Blue", first.Title)
	assert.Equal(t, "Singer/Songwriter", first.Genre)
	assert.False(t, first.Trusted())
	require.Len(t, first.URLs, 3)
	assert.Equal(t, "https://is1.mzstatic.com/image/ab/1200x1200bb.jpg", first.URLs[0])
	assert.Equal(t, "https://is1.mzstatic.com/image/ab/600x600bb.jpg", first.URLs[1])
	assert.Equal(t, "https://is1.mzstatic.com/image/ab/300x300bb.jpg", first.URLs[2])
}

func TestCandidatesAllShapesFail(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, log.NullLogger())
	_, err := client.Candidates(context.Background(), &domain.Record{Title: "Blue", Artist: "Joni Mitchell"})
	assert.Error(t, err)
}

func TestCandidatesPartialFailure(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) > 1 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Write([]byte(sampleResponse))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, log.NullLogger())
	cands, err := client.Candidates(context.Background(), &domain.Record{Title: "Blue", Artist: "Joni Mitchell"})
	require.NoError(t, err)
	assert.Len(t, cands, 1)
}

func TestSizeVariantsPassthrough(t *testing.T) {
	urls := sizeVariants("https://example.com/cover.jpg")
	assert.Equal(t, []string{"https://example.com/cover.jpg"}, urls)
}

func TestStripParenthetical(t *testing.T) {
	assert.Equal(t, "Blue", stripParenthetical("Blue (2021 Remaster)"))
	assert.Equal(t, "Rumours", stripParenthetical("Rumours [Deluxe]"))
	assert.Equal(t, "Blue", stripParenthetical("Blue"))
	assert.Equal(t, "A B", stripParenthetical("A (x) B [y]"))
}
