package deezer

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cratedig/internal/domain"
	"cratedig/internal/log"
)

func TestCandidates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/search/album", r.URL.Path)
		assert.Equal(t, `artist:"Fleetwood Mac" album:"Rumours"`, r.URL.Query().Get("q"))
		w.Write([]byte(`{"data":[
			{"title":"Rumours","cover_xl":"https://cdn/xl.jpg","cover_big":"https://cdn/big.jpg",
			 "cover_medium":"https://cdn/med.jpg","artist":{"name":"Fleetwood Mac"}},
			{"title":"Tango in the Night","artist":{"name":"Fleetwood Mac"}}
		]}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, log.NullLogger())
	rec := &domain.Record{Title: "Rumours", Artist: "Fleetwood Mac"}

	cands, err := client.Candidates(context.Background(), rec)
	require.NoError(t, err)

	// The coverless second album is dropped.
	require.Len(t, cands, 1)
	assert.Equal(t, "Fleetwood Mac", cands[0].Artist)
	assert.Equal(t, "Rumours", cands[0].Title)
	assert.Equal(t, []string{"https://cdn/xl.jpg", "https://cdn/big.jpg", "https://cdn/med.jpg"}, cands[0].URLs)
}

func TestCandidatesPartialCovers(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":[{"title":"Low","cover_big":"https://cdn/big.jpg","artist":{"name":"Bowie"}}]}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, log.NullLogger())
	cands, err := client.Candidates(context.Background(), &domain.Record{Title: "Low", Artist: "Bowie"})
	require.NoError(t, err)
	require.Len(t, cands, 1)
	assert.Equal(t, []string{"https://cdn/big.jpg"}, cands[0].URLs)
}

func TestCandidatesBadStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, log.NullLogger())
	_, err := client.Candidates(context.Background(), &domain.Record{Title: "Low", Artist: "Bowie"})
	assert.Error(t, err)
}
