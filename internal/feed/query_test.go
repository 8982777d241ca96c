package feed

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/solarbeat/newsfeed/internal/domain"
)

func TestBuildQuery(t *testing.T) {
	rules := DefaultRules()

	t.Run("every_region_contains_base_clause", func(t *testing.T) {
		for _, region := range domain.AllRegions {
			q := BuildQuery(rules, region)
			assert.Contains(t, q, rules.BaseQuery, "region %s", region)
		}
	})

	t.Run("global_has_no_region_clause", func(t *testing.T) {
		q := BuildQuery(rules, domain.RegionGlobal)
		assert.Equal(t, "("+rules.BaseQuery+")", q)
		assert.NotContains(t, q, " AND ")
	})

	t.Run("regional_queries_are_anded", func(t *testing.T) {
		for region, terms := range rules.RegionTerms {
			q := BuildQuery(rules, region)
			assert.Equal(t, "("+rules.BaseQuery+") AND ("+terms+")", q)
		}
	})

	t.Run("unknown_region_falls_back_to_global", func(t *testing.T) {
		q := BuildQuery(rules, domain.Region("atlantis"))
		assert.Equal(t, BuildQuery(rules, domain.RegionGlobal), q)
	})

	t.Run("queries_respect_upstream_length_ceiling", func(t *testing.T) {
		for _, region := range domain.AllRegions {
			q := BuildQuery(rules, region)
			assert.LessOrEqual(t, len(q), maxQueryLength, "region %s", region)
		}
	})
}

func TestBuildQuery_EmptyRegionTerms(t *testing.T) {
	rules := DefaultRules()
	rules.RegionTerms[domain.RegionAsia] = ""

	q := BuildQuery(rules, domain.RegionAsia)
	assert.False(t, strings.Contains(q, "AND"))
}
