package collection

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cratedig/internal/domain"
	"cratedig/internal/log"
)

func TestStats(t *testing.T) {
	s := NewService(log.NullLogger())
	s.SetCollection([]*domain.Record{
		{Title: "A", Artist: "Miles Davis", Genre: "Jazz", Cover: "https://x/a.jpg"},
		{Title: "B", Artist: "Miles Davis", Genre: "Jazz / Fusion"},
		{Title: "C", Artist: "Patti Smith", Genre: "punk"},
	})

	st := s.Stats()
	assert.Equal(t, 3, st.Total)
	assert.Equal(t, 1, st.WithCover)
	assert.Equal(t, 2, st.Missing)
	assert.Equal(t, 3, st.GenreCount) // jazz, fusion, punk

	require.NotEmpty(t, st.TopArtists)
	assert.Equal(t, NameCount{Name: "Miles Davis", Count: 2}, st.TopArtists[0])

	require.NotEmpty(t, st.TopGenres)
	assert.Equal(t, NameCount{Name: "Jazz", Count: 2}, st.TopGenres[0])
}

func TestStatsCountsFullCollectionNotView(t *testing.T) {
	s := NewService(log.NullLogger())
	s.SetCollection([]*domain.Record{
		{Title: "A", Artist: "X"},
		{Title: "B", Artist: "Y"},
	})
	s.SetQuery("A")
	assert.Equal(t, 2, s.Stats().Total)
}

func TestStatsTopListsAreBounded(t *testing.T) {
	var records []*domain.Record
	for i := 0; i < 30; i++ {
		records = append(records, &domain.Record{
			Title:  fmt.Sprintf("T%d", i),
			Artist: fmt.Sprintf("Artist %d", i),
			Genre:  fmt.Sprintf("genre%d", i),
		})
	}
	s := NewService(log.NullLogger())
	s.SetCollection(records)

	st := s.Stats()
	assert.Len(t, st.TopArtists, 10)
	assert.Len(t, st.TopGenres, 12)
}

func TestSplitGenres(t *testing.T) {
	assert.Equal(t, []string{"Rock", "Blues"}, SplitGenres("Rock / Blues"))
	assert.Equal(t, []string{"Folk", "Country"}, SplitGenres("folk and country"))
	assert.Equal(t, []string{"Jazz"}, SplitGenres("JAZZ"))
	assert.Nil(t, SplitGenres(""))
	assert.Equal(t, []string{"Soul", "Funk"}, SplitGenres("soul;funk"))
}
