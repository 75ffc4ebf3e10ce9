package musicbrainz

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

func TestReleaseGroupID(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/release-group/", r.URL.Path)
		assert.Equal(t, `artist:"Joni Mitchell" AND release:"Blue"`, r.URL.Query().Get("query"))
		assert.Equal(t, "json", r.URL.Query().Get("fmt"))
		assert.NotEmpty(t, r.Header.Get("User-Agent"))
		w.Write([]byte(`{"release-groups":[{"id":"rg-123","title":"Blue"}]}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, DefaultArchiveURL, log.NullLogger())
	id, err := client.ReleaseGroupID(context.Background(), "Joni Mitchell", "Blue")
	require.NoError(t, err)
	assert.Equal(t, "rg-123", id)
}

func TestReleaseGroupIDNoMatch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"release-groups":[]}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, DefaultArchiveURL, log.NullLogger())
	id, err := client.ReleaseGroupID(context.Background(), "Nobody", "Nothing")
	require.NoError(t, err)
	assert.Empty(t, id)
}

func TestGenreTagsSortedByCount(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/release-group/rg-123", r.URL.Path)
		assert.Equal(t, "tags", r.URL.Query().Get("inc"))
		w.Write([]byte(`{"id":"rg-123","tags":[
			{"name":"folk","count":3},
			{"name":"rock","count":7},
			{"name":"pop","count":5}
		]}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, DefaultArchiveURL, log.NullLogger())
	tags, err := client.GenreTags(context.Background(), "rg-123")
	require.NoError(t, err)
	assert.Equal(t, []string{"rock", "pop", "folk"}, tags)
}

func TestCandidatesCoverLadder(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"release-groups":[{"id":"rg-9"}]}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "https://caa.example.com", log.NullLogger())
	cands, err := client.Candidates(context.Background(), &domain.Record{Artist: "A", Title: "B"})
	require.NoError(t, err)
	require.Len(t, cands, 1)
	assert.True(t, cands[0].Trusted())
	assert.Equal(t, []string{
		"https://caa.example.com/release-group/rg-9/front-1200",
		"https://caa.example.com/release-group/rg-9/front-1000",
		"https://caa.example.com/release-group/rg-9/front-800",
		"https://caa.example.com/release-group/rg-9/front-500",
		"https://caa.example.com/release-group/rg-9/front-250",
		"https://caa.example.com/release-group/rg-9/front",
	}, cands[0].URLs)
}

func TestCandidatesNoGroup(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"release-groups":[]}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, DefaultArchiveURL, log.NullLogger())
	cands, err := client.Candidates(context.Background(), &domain.Record{Artist: "A", Title: "B"})
	require.NoError(t, err)
	assert.Empty(t, cands)
}

func TestGenreForTag(t *testing.T) {
	assert.Equal(t, "Rock", GenreForTag("rock"))
	assert.Equal(t, "Rock", GenreForTag("Rock and Roll"))
	assert.Equal(t, "Hip-Hop", GenreForTag("rap"))
	assert.Equal(t, "Alternative", GenreForTag("alt-country"))
	assert.Equal(t, "", GenreForTag("completely unknown"))
	assert.Equal(t, "", GenreForTag(""))
}

func TestGenreForTags(t *testing.T) {
	assert.Equal(t, "Pop", GenreForTags([]string{"unknown thing", "pop", "rock"}))
	assert.Equal(t, "", GenreForTags(nil))
}
