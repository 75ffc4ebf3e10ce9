package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cratedig/internal/domain"
)

func TestMapRecordCanonicalColumns(t *testing.T) {
	rec := MapRecord(map[string]string{
		"Album":  "Kind of Blue",
		"Artist": "Miles Davis",
		"Genre":  "Jazz",
		"Label":  "Columbia",
		"Format": "LP",
		"Color":  "Black",
		"Notes":  "1959 mono",
	}, 0)

	assert.Equal(t, "Kind of Blue", rec.Title)
	assert.Equal(t, "Miles Davis", rec.Artist)
	assert.Equal(t, "Jazz", rec.Genre)
	assert.Equal(t, "Columbia", rec.Label)
	assert.Equal(t, "LP", rec.Format)
	assert.Equal(t, "Black", rec.Color)
	assert.Equal(t, "1959 mono", rec.Notes)
}

func TestMapRecordSynonymHeaders(t *testing.T) {
	rec := MapRecord(map[string]string{
		"album_title": "Blue Train",
		"band":        "John Coltrane",
		"cover_link":  "https://example.com/bluetrain.jpg",
	}, 0)

	assert.Equal(t, "Blue Train", rec.Title)
	assert.Equal(t, "John Coltrane", rec.Artist)
	assert.Equal(t, "https://example.com/bluetrain.jpg", rec.Cover)
}

func TestMapRecordAlbumBeatsGenericTitle(t *testing.T) {
	rec := MapRecord(map[string]string{
		"Album": "Horses",
		"Title": "wrong one",
	}, 0)
	assert.Equal(t, "Horses", rec.Title)
}

func TestMapRecordDefaults(t *testing.T) {
	rec := MapRecord(map[string]string{"Label": "Blue Note"}, 4)
	assert.Equal(t, "Untitled #5", rec.Title)
	assert.Equal(t, domain.DefaultArtist, rec.Artist)
	assert.False(t, rec.Searchable())
}

func TestMapRecordCompilationJoinedIntoNotes(t *testing.T) {
	rec := MapRecord(map[string]string{
		"Album":      "Singles",
		"Artist":     "Various",
		"Notes":      "gatefold",
		"Soundtrack": "yes",
	}, 0)
	assert.Equal(t, "gatefold • yes", rec.Notes)
}

func TestMapRecordFourthColumnURL(t *testing.T) {
	rec := MapRecord(map[string]string{
		"Album":    "Low",
		"Artist":   "Bowie",
		"Pressing": "reissue",
		"Untitled": "https://img.example.com/low.png",
	}, 0)
	// Keys sort to Album, Artist, Pressing, Untitled.
	assert.Equal(t, "https://img.example.com/low.png", rec.Cover)
}

func TestSourceCoverURL(t *testing.T) {
	assert.Equal(t, "https://x/c.jpg", SourceCoverURL(map[string]string{"Cover URL": "https://x/c.jpg"}))
	assert.Equal(t, "https://x/4.jpg", SourceCoverURL(map[string]string{
		"Album": "A", "Artist": "B", "Pressing": "C", "Untitled": "https://x/4.jpg",
	}))
	assert.Empty(t, SourceCoverURL(map[string]string{"Album": "A", "Artist": "B"}))
}

func TestMapRecordStripsWrappingQuotes(t *testing.T) {
	rec := MapRecord(map[string]string{
		"Album":  `"In Rainbows"`,
		"Artist": "Radiohead",
	}, 0)
	assert.Equal(t, "In Rainbows", rec.Title)
}

func TestMapRecordsKeepsOrder(t *testing.T) {
	recs := MapRecords([]map[string]string{
		{"Album": "A", "Artist": "X"},
		{"Album": "B", "Artist": "Y"},
	})
	require.Len(t, recs, 2)
	assert.Equal(t, "A", recs[0].Title)
	assert.Equal(t, "B", recs[1].Title)
}
