package feed

import "github.com/solarbeat/newsfeed/internal/domain"

// BuildQuery produces the upstream search query for one region: the base
// topic clause, ANDed with the region's geographic clause when one exists.
// Global and unrecognized regions get the bare topic clause.
func BuildQuery(rules Rules, region domain.Region) string {
	terms, ok := rules.RegionTerms[region]
	if !ok || terms == "" {
		return "(" + rules.BaseQuery + ")"
	}

	return "(" + rules.BaseQuery + ") AND (" + terms + ")"
}
