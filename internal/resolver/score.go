package resolver

import (
	"regexp"
	"strings"

	"cratedig/internal/domain"
	"cratedig/internal/normalize"
)

// Match scoring constants. Free-text catalog search is noisy, so a
// candidate must show agreement on BOTH the artist side and the title side
// before it can be accepted; a perfect artist with the wrong album (or the
// reverse) is how "Blue" by the wrong artist sneaks in.
const (
	scoreExact       = 4.0
	scoreContainment = 2.0

	// minSideScore is the per-side acceptance bar: at least
	// substring-level agreement on artist AND title.
	minSideScore = scoreContainment
)

var (
	reissueMarkers = regexp.MustCompile(`remaster|deluxe|anniversary|reissue|20\d\d`)
	hitsMarkers    = regexp.MustCompile(`best of|greatest hits`)
)

// candidateScore rates a provider candidate against the record. ok reports
// whether the candidate clears the acceptance bar.
func candidateScore(rec *domain.Record, cand domain.ArtCandidate) (score float64, ok bool) {
	artistScore := sideScore(normalize.FlatKey(rec.Artist), normalize.FlatKey(cand.Artist))
	titleScore := sideScore(normalize.TitleKey(rec.Title), normalize.TitleKey(cand.Title))
	score = artistScore + titleScore

	// Prefer original-pressing artwork: mild penalty for reissue markers
	// the record itself doesn't carry.
	candTitle := strings.ToLower(cand.Title)
	recTitle := strings.ToLower(rec.Title)
	if reissueMarkers.MatchString(candTitle) && !reissueMarkers.MatchString(recTitle) {
		score -= 0.3
	}
	if hitsMarkers.MatchString(candTitle) && !hitsMarkers.MatchString(recTitle) {
		score -= 0.5
	}

	return score, artistScore >= minSideScore && titleScore >= minSideScore
}

// sideScore compares one normalized field pair: exact match scores highest,
// symmetric containment (tolerating "(Deluxe Edition)" and "Vol. 2" style
// trailing text on either side) scores next, anything else zero.
func sideScore(want, got string) float64 {
	if want == "" || got == "" {
		return 0
	}
	if want == got {
		return scoreExact
	}
	if strings.Contains(got, want) || strings.Contains(want, got) {
		return scoreContainment
	}
	return 0
}

// bestCandidate picks the top-scoring scorable candidate above the bar.
// Earlier candidates win ties, preserving provider-side query priority.
func bestCandidate(rec *domain.Record, cands []domain.ArtCandidate) (domain.ArtCandidate, bool) {
	var best domain.ArtCandidate
	bestScore := -1.0
	found := false
	for _, cand := range cands {
		score, ok := candidateScore(rec, cand)
		if !ok {
			continue
		}
		if score > bestScore {
			bestScore = score
			best = cand
			found = true
		}
	}
	return best, found
}
