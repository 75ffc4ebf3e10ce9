package baked

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cratedig/internal/domain"
	"cratedig/internal/log"
)

func writeIndex(t *testing.T, content string) string {
	path := filepath.Join(t.TempDir(), "art-index.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLookup(t *testing.T) {
	path := writeIndex(t, `{
		"Joni Mitchell|||Blue": {"url": "https://cdn/blue.jpg", "src": "itunes", "genre": "Folk"},
		"broken-key-no-separator": {"url": "https://cdn/x.jpg"},
		"No URL|||Entry": {"url": ""}
	}`)
	p := New(path, log.NullLogger())

	cands, err := p.Candidates(context.Background(), &domain.Record{Artist: "Joni Mitchell", Title: "Blue"})
	require.NoError(t, err)
	require.Len(t, cands, 1)
	assert.True(t, cands[0].Trusted())
	assert.Equal(t, "Folk", cands[0].Genre)
	assert.Equal(t, []string{"https://cdn/blue.jpg"}, cands[0].URLs)
}

func TestLookupFoldsCase(t *testing.T) {
	path := writeIndex(t, `{"Joni Mitchell|||Blue": {"url": "https://cdn/blue.jpg"}}`)
	p := New(path, log.NullLogger())

	cands, err := p.Candidates(context.Background(), &domain.Record{Artist: "JONI MITCHELL", Title: "blue"})
	require.NoError(t, err)
	assert.Len(t, cands, 1)
}

func TestLookupMiss(t *testing.T) {
	path := writeIndex(t, `{"A|||B": {"url": "u"}}`)
	p := New(path, log.NullLogger())

	cands, err := p.Candidates(context.Background(), &domain.Record{Artist: "X", Title: "Y"})
	require.NoError(t, err)
	assert.Empty(t, cands)
}

func TestMissingFile(t *testing.T) {
	p := New(filepath.Join(t.TempDir(), "nope.json"), log.NullLogger())
	cands, err := p.Candidates(context.Background(), &domain.Record{Artist: "A", Title: "B"})
	require.NoError(t, err)
	assert.Empty(t, cands)
}

func TestCorruptFile(t *testing.T) {
	path := writeIndex(t, "not json at all")
	p := New(path, log.NullLogger())
	cands, err := p.Candidates(context.Background(), &domain.Record{Artist: "A", Title: "B"})
	require.NoError(t, err)
	assert.Empty(t, cands)
}

func TestSplitKey(t *testing.T) {
	artist, title, ok := splitKey("Miles Davis|||Kind of Blue")
	require.True(t, ok)
	assert.Equal(t, "Miles Davis", artist)
	assert.Equal(t, "Kind of Blue", title)

	_, _, ok = splitKey("no separator here")
	assert.False(t, ok)
}
