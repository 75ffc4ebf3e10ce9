package musicbrainz

// releaseGroupResponse is the release-group search payload.
type releaseGroupResponse struct {
	ReleaseGroups []releaseGroup `json:"release-groups"`
}

type releaseGroup struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// releaseGroupDetail is the single release-group lookup payload (tags inc).
type releaseGroupDetail struct {
	ID   string `json:"id"`
	Tags []tag  `json:"tags"`
}

type tag struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}
