package collection

import (
	"math/rand"
	"sort"

	"cratedig/internal/domain"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Collation is shared across sorts; collators are not safe for concurrent
// use but every sort runs under the service's write lock.
var collator = collate.New(language.English, collate.Loose)

// sortRecords orders the view for the given mode. Title and artist sorts
// are locale-aware and stable, with empty fields sorting first. Random is a
// one-time shuffle.
func sortRecords(records []*domain.Record, mode domain.SortMode) {
	switch mode {
	case domain.SortRandom:
		shuffleRecords(records)
	case domain.SortArtist:
		sort.SliceStable(records, func(i, j int) bool {
			return collator.CompareString(records[i].Artist, records[j].Artist) < 0
		})
	default:
		sort.SliceStable(records, func(i, j int) bool {
			return collator.CompareString(records[i].Title, records[j].Title) < 0
		})
	}
}

func shuffleRecords(records []*domain.Record) {
	rand.Shuffle(len(records), func(i, j int) {
		records[i], records[j] = records[j], records[i]
	})
}
