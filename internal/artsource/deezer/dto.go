package deezer

// searchResponse is the Deezer album search payload.
type searchResponse struct {
	Data []albumResult `json:"data"`
}

type albumResult struct {
	Title       string      `json:"title"`
	CoverMedium string      `json:"cover_medium"`
	CoverBig    string      `json:"cover_big"`
	CoverXL     string      `json:"cover_xl"`
	Artist      albumArtist `json:"artist"`
}

type albumArtist struct {
	Name string `json:"name"`
}
