package feed

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/solarbeat/newsfeed/internal/domain"
)

func writeRulesFile(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "rules.yaml")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

func TestLoadRules_OverridesAndDefaults(t *testing.T) {
	path := writeRulesFile(t, `
base_query: '"wind energy" OR turbine'
host_blocklist:
  - spam.example
categories:
  - category: Policy
    pattern: 'tariff|policy'
  - category: Science
    pattern: 'research'
`)

	rules, err := LoadRules(path)
	require.NoError(t, err)

	assert.Equal(t, `"wind energy" OR turbine`, rules.BaseQuery)
	assert.Equal(t, []string{"spam.example"}, rules.HostBlocklist)
	require.Len(t, rules.Categories, 2)
	assert.Equal(t, domain.CategoryPolicy, rules.Categories[0].Category)
	assert.True(t, rules.Categories[0].Pattern.MatchString("NEW TARIFF"))

	// Region terms were not overridden, defaults remain.
	assert.NotEmpty(t, rules.RegionTerms[domain.RegionAfrica])
}

func TestLoadRules_Errors(t *testing.T) {
	cases := []struct {
		name     string
		contents string
	}{
		{"unknown_region", "region_terms:\n  atlantis: 'Atlantis'\n"},
		{"global_region_not_allowed", "region_terms:\n  global: 'everywhere'\n"},
		{"bad_pattern", "categories:\n  - category: Policy\n    pattern: '('\n"},
		{"bad_yaml", ": not yaml"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := LoadRules(writeRulesFile(t, tc.contents))
			assert.Error(t, err)
		})
	}
}

func TestLoadRules_MissingFile(t *testing.T) {
	_, err := LoadRules(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoadRules_RejectsOverlongQuery(t *testing.T) {
	long := make([]byte, maxQueryLength)
	for i := range long {
		long[i] = 'q'
	}
	path := writeRulesFile(t, "base_query: '"+string(long)+"'\n")

	_, err := LoadRules(path)
	assert.ErrorContains(t, err, "length limit")
}
