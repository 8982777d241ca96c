package domain

import (
	"net/url"
	"time"
)

// Article is the canonical shape derived from one upstream record. IDs are
// assigned sequentially per response and are not stable across fetches; the
// URL is the identity key everywhere in the system.
type Article struct {
	ID          int       `json:"id"`
	Title       string    `json:"title"`
	Source      string    `json:"source"`
	Author      string    `json:"author,omitempty"`
	Description string    `json:"description"`
	URL         string    `json:"url"`
	Image       string    `json:"image,omitempty"`
	PublishedAt time.Time `json:"publishedAt"`
	ReadTime    int       `json:"readTime"`
	Category    Category  `json:"category"`
	Pinned      bool      `json:"pinned,omitempty"`
	Note        string    `json:"note,omitempty"`
}

type Category string

const (
	CategoryPolicy      Category = "Policy"
	CategoryCommunity   Category = "Community"
	CategoryScience     Category = "Science"
	CategoryEnvironment Category = "Environment"
	CategoryGeneral     Category = "General"
)

type SortMode string

const (
	SortPopularity  SortMode = "popularity"
	SortPublishedAt SortMode = "publishedAt"
)

type Region string

const (
	RegionGlobal   Region = "global"
	RegionAmericas Region = "americas"
	RegionAfrica   Region = "africa"
	RegionAsia     Region = "asia"
	RegionEurope   Region = "europe"
	RegionMENA     Region = "mena"
)

// AllRegions is the fixed collection order used by the background collector.
var AllRegions = []Region{
	RegionGlobal,
	RegionAmericas,
	RegionAfrica,
	RegionAsia,
	RegionEurope,
	RegionMENA,
}

func ValidRegion(r Region) bool {
	for _, known := range AllRegions {
		if r == known {
			return true
		}
	}
	return false
}

// FeedKey identifies one cacheable variant of the live feed.
type FeedKey struct {
	Sort   SortMode
	Days   int
	Region Region
}

// ValidArticleURL reports whether raw is a well-formed absolute http or https
// URL. Anything else (javascript:, data:, relative paths) is rejected before
// it can enter the cache, the curation store, or the dataset.
func ValidArticleURL(raw string) bool {
	if raw == "" {
		return false
	}
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return false
	}
	return u.Host != ""
}
