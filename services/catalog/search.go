package catalog

import (
	"sort"
	"strings"

	"github.com/antzucaro/matchr"
)

type Match struct {
	Guitar      Guitar  `json:"guitar"`
	Correlation float64 `json:"correlation"`
}

// Search resolves a free-text query ("fender strat") against the
// catalog by Jaro-Winkler similarity over "brand model" strings.
// Exact substring hits rank above fuzzy ones. Results come back
// best-first, capped at limit (<=0 means no cap).
func Search(query string, limit int) []Match {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return nil
	}

	var matches []Match
	for _, models := range guitars {
		for _, g := range models {
			full := strings.ToLower(g.Brand + " " + g.Model)

			var correlation float64
			if strings.Contains(full, query) {
				correlation = 1
			} else {
				correlation = matchr.JaroWinkler(query, full, false)
			}
			if correlation < 0.6 {
				continue
			}
			matches = append(matches, Match{Guitar: g, Correlation: correlation})
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].Correlation != matches[j].Correlation {
			return matches[i].Correlation > matches[j].Correlation
		}
		left := matches[i].Guitar.Brand + " " + matches[i].Guitar.Model
		right := matches[j].Guitar.Brand + " " + matches[j].Guitar.Model
		return left < right
	})

	if limit > 0 && len(matches) > limit {
		matches = matches[:limit]
	}
	return matches
}
