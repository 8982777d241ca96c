package domain

import "time"

// DatasetRecord is one durable row of the historical article dataset,
// keyed by URL. Rows are never deleted by normal operation.
type DatasetRecord struct {
	URL         string    `json:"url"`
	Title       string    `json:"title"`
	Source      string    `json:"source"`
	Author      string    `json:"author,omitempty"`
	Description string    `json:"description"`
	Image       string    `json:"image,omitempty"`
	PublishedAt time.Time `json:"publishedAt"`
	Category    Category  `json:"category"`
	ReadTime    int       `json:"readTime"`
	Region      Region    `json:"region"`
	FirstSeenAt time.Time `json:"firstSeenAt"`
	LastSeenAt  time.Time `json:"lastSeenAt"`
}

// DatasetFilters are ANDed together; zero values mean "no constraint".
type DatasetFilters struct {
	Category        Category
	Region          Region
	SourceContains  string
	Search          string
	PublishedAfter  time.Time
	PublishedBefore time.Time
}

type DatasetOrderingField string

const (
	DatasetOrderingPublishedAt DatasetOrderingField = "publishedAt"
	DatasetOrderingFirstSeen   DatasetOrderingField = "firstSeen"
)

type DatasetListOptions struct {
	Sort   DatasetOrderingField
	Limit  int
	Offset int
}

// UpsertResult reports how an upsert batch landed, for log observability.
type UpsertResult struct {
	Inserted int
	Updated  int
}

type SourceCount struct {
	Source string `json:"source"`
	Count  int64  `json:"count"`
}

type DatasetStats struct {
	TotalArticles     int64              `json:"totalArticles"`
	EarliestPublished time.Time          `json:"earliestPublished"`
	LatestPublished   time.Time          `json:"latestPublished"`
	ByCategory        map[Category]int64 `json:"byCategory"`
	ByRegion          map[Region]int64   `json:"byRegion"`
	TopSources        []SourceCount      `json:"topSources"`
}
