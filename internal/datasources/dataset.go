package datasources

import (
	"context"

	"github.com/solarbeat/newsfeed/internal/domain"
)

// DatasetRepository is the durable historical article dataset, keyed by URL.
type DatasetRepository interface {
	ArticleUpserter
	ArticleLister
	StatsReader
	Pinger
}

type ArticleUpserter interface {
	UpsertArticles(ctx context.Context, articles []domain.Article, region domain.Region) (domain.UpsertResult, error)
}

type ArticleLister interface {
	ListArticles(ctx context.Context, filters domain.DatasetFilters, options domain.DatasetListOptions) ([]domain.DatasetRecord, int64, error)
}

type StatsReader interface {
	DatasetStats(ctx context.Context) (domain.DatasetStats, error)
}

type Pinger interface {
	Ping(ctx context.Context) error
}

// CurationPersister is the durable backing for curation state. It is the
// single source of truth across restarts; in-memory state is always loaded
// from it, never the reverse.
type CurationPersister interface {
	Load(ctx context.Context) (domain.CurationState, error)
	Save(ctx context.Context, state domain.CurationState) error
}
