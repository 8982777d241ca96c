package feed

import (
	"fmt"
	"os"
	"regexp"

	"gopkg.in/yaml.v3"

	"github.com/solarbeat/newsfeed/internal/domain"
)

// maxQueryLength is the upstream's ceiling on the q parameter. Anyone growing
// the base query or region term lists must keep the combined clause under it.
const maxQueryLength = 500

// CategoryRule pairs a category label with the pattern that selects it.
// Rules are evaluated in slice order and the first match wins; the order is a
// tie-break policy, not an optimization.
type CategoryRule struct {
	Category domain.Category
	Pattern  *regexp.Regexp
}

// Rules carries the tunable parts of query building and normalization.
type Rules struct {
	BaseQuery     string
	RegionTerms   map[domain.Region]string
	Categories    []CategoryRule
	HostBlocklist []string
}

// DefaultRules returns the compiled-in rule set.
func DefaultRules() Rules {
	return Rules{
		BaseQuery: `"solar energy" OR "solar power" OR "solar panel" OR "solar farm" OR photovoltaic OR "rooftop solar"`,
		RegionTerms: map[domain.Region]string{
			domain.RegionAmericas: `America OR "United States" OR Canada OR Brazil OR Mexico OR Chile`,
			domain.RegionAfrica:   `Africa OR Nigeria OR Kenya OR "South Africa" OR Egypt OR Morocco`,
			domain.RegionAsia:     `Asia OR India OR China OR Japan OR Indonesia OR Vietnam`,
			domain.RegionEurope:   `Europe OR Germany OR Spain OR France OR Italy OR "United Kingdom"`,
			domain.RegionMENA:     `"Middle East" OR "North Africa" OR "Saudi Arabia" OR UAE OR Qatar OR Jordan`,
		},
		Categories: []CategoryRule{
			{domain.CategoryPolicy, regexp.MustCompile(`(?i)policy|regulat|legislat|tariff|subsid|government|minister|ministry|senate|parliament|congress|mandate|incentive|permit`)},
			{domain.CategoryCommunity, regexp.MustCompile(`(?i)community|local|resident|neighborhood|protest|activis|campaign|cooperative|grassroots|school|village`)},
			{domain.CategoryScience, regexp.MustCompile(`(?i)research|study|scientist|breakthrough|efficiency|laborator|perovskite|innovation|patent|prototype`)},
			{domain.CategoryEnvironment, regexp.MustCompile(`(?i)climate|emission|carbon|environment|pollution|sustainab|wildlife|conservation|biodiversity|ecosystem`)},
		},
		HostBlocklist: nil,
	}
}

type rulesFile struct {
	BaseQuery   string            `yaml:"base_query"`
	RegionTerms map[string]string `yaml:"region_terms"`
	Categories  []struct {
		Category string `yaml:"category"`
		Pattern  string `yaml:"pattern"`
	} `yaml:"categories"`
	HostBlocklist []string `yaml:"host_blocklist"`
}

// LoadRules reads a YAML rules file and overlays it onto the defaults.
// Sections absent from the file keep their default values.
func LoadRules(path string) (Rules, error) {
	rules := DefaultRules()

	raw, err := os.ReadFile(path)
	if err != nil {
		return Rules{}, fmt.Errorf("reading rules file: %w", err)
	}

	var parsed rulesFile
	if err := yaml.Unmarshal(raw, &parsed); err != nil {
		return Rules{}, fmt.Errorf("parsing rules file: %w", err)
	}

	if parsed.BaseQuery != "" {
		rules.BaseQuery = parsed.BaseQuery
	}
	if len(parsed.RegionTerms) > 0 {
		terms := make(map[domain.Region]string, len(parsed.RegionTerms))
		for region, clause := range parsed.RegionTerms {
			r := domain.Region(region)
			if !domain.ValidRegion(r) || r == domain.RegionGlobal {
				return Rules{}, fmt.Errorf("rules file names unknown region [%s]", region)
			}
			terms[r] = clause
		}
		rules.RegionTerms = terms
	}
	if len(parsed.Categories) > 0 {
		var compiled []CategoryRule
		for _, c := range parsed.Categories {
			re, err := regexp.Compile("(?i)" + c.Pattern)
			if err != nil {
				return Rules{}, fmt.Errorf("compiling pattern for category [%s]: %w", c.Category, err)
			}
			compiled = append(compiled, CategoryRule{Category: domain.Category(c.Category), Pattern: re})
		}
		rules.Categories = compiled
	}
	if len(parsed.HostBlocklist) > 0 {
		rules.HostBlocklist = parsed.HostBlocklist
	}

	for _, region := range domain.AllRegions {
		if q := BuildQuery(rules, region); len(q) > maxQueryLength {
			return Rules{}, fmt.Errorf("query for region [%s] exceeds upstream length limit (%d > %d)",
				region, len(q), maxQueryLength)
		}
	}

	return rules, nil
}
