package importer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cratedig/internal/domain"
)

func TestParseCSV(t *testing.T) {
	csv := "Album,Artist,Genre\nKind of Blue,Miles Davis,Jazz\nHorses,Patti Smith,Rock\n"
	rows, err := ParseCSV(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Kind of Blue", rows[0]["Album"])
	assert.Equal(t, "Patti Smith", rows[1]["Artist"])
}

func TestParseCSVRaggedRows(t *testing.T) {
	csv := "Album,Artist,Genre\nHorses,Patti Smith\nLow,Bowie,Art Rock,extra\n"
	rows, err := ParseCSV(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "", rows[0]["Genre"])
	assert.Equal(t, "Art Rock", rows[1]["Genre"])
}

func TestParseCSVSkipsEmptyRows(t *testing.T) {
	csv := "Album,Artist\nHorses,Patti Smith\n,\n  ,  \n"
	rows, err := ParseCSV(strings.NewReader(csv))
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}

func TestParseCSVEmpty(t *testing.T) {
	_, err := ParseCSV(strings.NewReader(""))
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrBadInput)
}

func TestParseJSONArray(t *testing.T) {
	data := `[{"Album":"Blue","Artist":"Joni Mitchell","Year":1971,"Mono":false,"Skip":null}]`
	rows, err := ParseJSON([]byte(data))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Blue", rows[0]["Album"])
	assert.Equal(t, "1971", rows[0]["Year"])
	assert.Equal(t, "false", rows[0]["Mono"])
	assert.Equal(t, "", rows[0]["Skip"])
}

func TestParseJSONValuesWrapper(t *testing.T) {
	data := `{"values":[{"Album":"Low","Artist":"Bowie"}]}`
	rows, err := ParseJSON([]byte(data))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Low", rows[0]["Album"])
}

func TestParseJSONBadShape(t *testing.T) {
	_, err := ParseJSON([]byte(`"just a string"`))
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrBadInput)
}
