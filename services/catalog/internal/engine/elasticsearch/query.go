package elasticsearch

import (
	"strings"

	"github.com/ArnoldEsquivel/palindrome-web/services/catalog/internal/engine"
)

// maxResults bounds a single search. The catalog is small; results are
// paginated by the HTTP layer, not by the engine.
const maxResults = 1000

var wildcardEscaper = strings.NewReplacer(`\`, `\\`, `*`, `\*`, `?`, `\?`)

// buildSearchQuery constructs the query DSL for term. Short terms are an
// exact match on the normalized title; longer terms are a case-insensitive
// substring match over title, brand and description.
func buildSearchQuery(term string) map[string]interface{} {
	term = strings.ToLower(strings.TrimSpace(term))

	var query map[string]interface{}
	if engine.ExactTitle(term) {
		query = map[string]interface{}{
			"term": map[string]interface{}{
				"title.keyword": term,
			},
		}
	} else {
		pattern := "*" + wildcardEscaper.Replace(term) + "*"
		should := make([]interface{}, 0, 3)
		for _, field := range []string{"title.keyword", "brand.keyword", "description.keyword"} {
			should = append(should, map[string]interface{}{
				"wildcard": map[string]interface{}{
					field: map[string]interface{}{
						"value":            pattern,
						"case_insensitive": true,
					},
				},
			})
		}
		query = map[string]interface{}{
			"bool": map[string]interface{}{
				"should":               should,
				"minimum_should_match": 1,
			},
		}
	}

	return map[string]interface{}{
		"query": query,
		"size":  maxResults,
		"sort": []interface{}{
			map[string]interface{}{"id": "asc"},
		},
	}
}
