package organizer

import (
	"cmp"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/sahilm/fuzzy"
	"github.com/sandeepkv93/todoer/internal/model"
)

// SearchResult is one todo matching a search query.
type SearchResult struct {
	Todo *model.Todo
	// Score ranks subsequence matches; higher is better.
	Score int
	// MatchedIndexes are the byte offsets in the title that matched, when the
	// match was a subsequence match.
	MatchedIndexes []int
	// Distance is the number of edits needed to find the query inside the
	// title. Zero for subsequence matches.
	Distance int
}

// Search matches query against the titles of every todo. Titles containing
// the query's characters in order rank first by fuzzy score; titles holding
// a near miss (a few typos) follow, closest first.
func (o *Organizer) Search(query string) []SearchResult {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil
	}
	todos := o.all().Todos()
	titles := make([]string, len(todos))
	for i, t := range todos {
		titles[i] = t.Title()
	}

	results := make([]SearchResult, 0)
	matched := make(map[int]bool)
	for _, m := range fuzzy.Find(query, titles) {
		matched[m.Index] = true
		results = append(results, SearchResult{
			Todo:           todos[m.Index],
			Score:          m.Score,
			MatchedIndexes: m.MatchedIndexes,
		})
	}

	limit := maxTypos(query)
	near := make([]SearchResult, 0)
	for i, title := range titles {
		if matched[i] || limit == 0 {
			continue
		}
		if d := substringDistance(strings.ToLower(query), strings.ToLower(title)); d <= limit {
			near = append(near, SearchResult{Todo: todos[i], Distance: d})
		}
	}
	slices.SortStableFunc(near, func(a, b SearchResult) int {
		if c := cmp.Compare(a.Distance, b.Distance); c != 0 {
			return c
		}
		return a.Todo.CreationDate().Compare(b.Todo.CreationDate())
	})
	return append(results, near...)
}

// maxTypos is the edit budget for a query: none for very short queries, one
// up to five characters and two beyond.
func maxTypos(query string) int {
	switch n := utf8.RuneCountInString(query); {
	case n < 3:
		return 0
	case n <= 5:
		return 1
	default:
		return 2
	}
}

// substringDistance returns the smallest edit distance between pattern and
// any substring of text.
func substringDistance(pattern, text string) int {
	p := []rune(pattern)
	t := []rune(text)
	prev := make([]int, len(t)+1)
	cur := make([]int, len(t)+1)
	for i := 1; i <= len(p); i++ {
		cur[0] = i
		for j := 1; j <= len(t); j++ {
			cost := 1
			if p[i-1] == t[j-1] {
				cost = 0
			}
			cur[j] = min(prev[j-1]+cost, prev[j]+1, cur[j-1]+1)
		}
		prev, cur = cur, prev
	}
	return slices.Min(prev)
}
