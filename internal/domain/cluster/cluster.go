// Package cluster groups keyword records by shared significant words.
// The grouping is a deliberately simple single-pass heuristic: queries
// whose significant-word sets collapse to the same key land in the same
// cluster, with no cross-cluster merging and no NLP.
package cluster

import (
	"regexp"
	"sort"
	"strings"
)

// initialBestPosition seeds BestPosition above any position GSC reports,
// so the first member always wins the min comparison.
const initialBestPosition = 100

// maxNameWords caps the number of significant words used in a cluster name.
const maxNameWords = 3

// Record is one keyword fed to the clustering engine.
type Record struct {
	Query       string
	Page        string
	Impressions int64
	Clicks      int64
	Position    float64
}

// Cluster is a transient group of queries sharing a significant-word key.
type Cluster struct {
	Name             string
	Queries          []Record
	TotalImpressions int64
	TotalClicks      int64
	BestPosition     float64
	Pages            []string // distinct non-empty pages, first-seen order

	seenPages map[string]struct{}
}

var wordPattern = regexp.MustCompile(`\w+`)

// stopwords are common English function words excluded from cluster keys.
var stopwords = map[string]struct{}{
	"the": {}, "a": {}, "an": {}, "is": {}, "are": {}, "was": {}, "were": {},
	"be": {}, "been": {}, "being": {}, "have": {}, "has": {}, "had": {},
	"do": {}, "does": {}, "did": {}, "will": {}, "would": {}, "could": {},
	"should": {}, "may": {}, "might": {}, "must": {}, "shall": {}, "can": {},
	"need": {}, "dare": {}, "ought": {}, "used": {}, "to": {}, "of": {},
	"in": {}, "for": {}, "on": {}, "with": {}, "at": {}, "by": {}, "from": {},
	"up": {}, "about": {}, "into": {}, "over": {}, "after": {}, "and": {},
	"but": {}, "or": {}, "not": {}, "what": {}, "which": {}, "who": {},
	"whom": {}, "this": {}, "that": {}, "these": {}, "those": {}, "am": {},
	"than": {}, "how": {}, "when": {}, "where": {}, "why": {}, "all": {},
	"each": {}, "every": {}, "both": {}, "few": {}, "more": {}, "most": {},
	"other": {}, "some": {}, "such": {}, "no": {}, "nor": {}, "only": {},
	"own": {}, "same": {}, "so": {}, "just": {}, "vs": {},
}

// Key derives the deterministic cluster key for a query.
//
// The query is lowercased and tokenized on word boundaries; stopwords are
// dropped and duplicates collapse. Fewer than two significant words keys a
// per-query singleton cluster under the lowercased raw query. Otherwise the
// up-to-three longest significant words (length ties broken alphabetically)
// are sorted alphabetically and joined with spaces, so queries sharing the
// same word set collide regardless of word order.
func Key(query string) string {
	lowered := strings.ToLower(query)

	seen := make(map[string]struct{})
	var words []string
	for _, w := range wordPattern.FindAllString(lowered, -1) {
		if _, stop := stopwords[w]; stop {
			continue
		}
		if _, dup := seen[w]; dup {
			continue
		}
		seen[w] = struct{}{}
		words = append(words, w)
	}

	if len(words) < 2 {
		return lowered
	}

	sort.Slice(words, func(i, j int) bool {
		if len(words[i]) != len(words[j]) {
			return len(words[i]) > len(words[j])
		}
		return words[i] < words[j]
	})
	if len(words) > maxNameWords {
		words = words[:maxNameWords]
	}
	sort.Strings(words)

	return strings.Join(words, " ")
}

// Group clusters keyword records by their significant-word key.
// Each cluster accumulates member records, impression/click totals, the
// best (minimum) position seen, and the set of distinct non-empty pages.
// The result maps cluster name to cluster; input order is preserved within
// each cluster's Queries and Pages.
func Group(keywords []Record) map[string]*Cluster {
	clusters := make(map[string]*Cluster)

	for _, kw := range keywords {
		name := Key(kw.Query)

		c, ok := clusters[name]
		if !ok {
			c = &Cluster{
				Name:         name,
				BestPosition: initialBestPosition,
				seenPages:    make(map[string]struct{}),
			}
			clusters[name] = c
		}

		c.Queries = append(c.Queries, kw)
		c.TotalImpressions += kw.Impressions
		c.TotalClicks += kw.Clicks
		if kw.Position < c.BestPosition {
			c.BestPosition = kw.Position
		}
		if kw.Page != "" {
			if _, dup := c.seenPages[kw.Page]; !dup {
				c.seenPages[kw.Page] = struct{}{}
				c.Pages = append(c.Pages, kw.Page)
			}
		}
	}

	return clusters
}
