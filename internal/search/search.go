package search

import (
	"github.com/sahilm/fuzzy"

	"github.com/nikbrunner/bmark/internal/model"
)

// Result represents a fuzzy search match against a bookmark title.
type Result struct {
	Title          string
	Bookmark       model.Bookmark
	MatchedIndexes []int
	Score          int
}

// titles implements fuzzy.Source over a sorted title list.
type titles []string

func (t titles) String(i int) string {
	return t[i]
}

func (t titles) Len() int {
	return len(t)
}

// Fuzzy searches all bookmark titles using fuzzy matching.
// Returns results sorted by match score (best first), ties in title order.
func Fuzzy(store *model.Store, query string) []Result {
	if query == "" {
		return nil
	}

	source := titles(store.Titles())
	matches := fuzzy.FindFrom(query, source)

	results := make([]Result, len(matches))
	for i, m := range matches {
		title := source[m.Index]
		b, _ := store.Get(title)
		results[i] = Result{
			Title:          title,
			Bookmark:       b,
			MatchedIndexes: m.MatchedIndexes,
			Score:          m.Score,
		}
	}

	return results
}

// Resolve maps a user-supplied query onto a stored title. An exact title
// wins, then a single fuzzy match. Otherwise the title is empty and the
// candidates (possibly none) are returned for the caller to choose from.
func Resolve(store *model.Store, query string) (string, []Result) {
	if _, ok := store.Get(query); ok {
		return query, nil
	}

	results := Fuzzy(store, query)
	if len(results) == 1 {
		return results[0].Title, nil
	}
	return "", results
}
