package feed

import (
	"context"
	"errors"
	"time"

	"github.com/solarbeat/newsfeed/internal/domain"
	"github.com/solarbeat/newsfeed/internal/upstream/newsapi"
)

// ErrNotConfigured reports that no upstream API key was supplied, so the
// live feed cannot be served at all.
var ErrNotConfigured = errors.New("upstream API key not configured")

const defaultPageSize = 50

type Fetcher interface {
	Everything(ctx context.Context, query string, from time.Time, sortBy string, pageSize int) ([]newsapi.RawArticle, error)
}

// DatasetWriter receives articles fetched by the live path, so live traffic
// contributes to the historical dataset alongside the collector.
type DatasetWriter interface {
	UpsertArticles(ctx context.Context, articles []domain.Article, region domain.Region) (domain.UpsertResult, error)
}

// Service serves the live feed: cache lookup, upstream fetch on miss,
// normalization, cache write-through.
type Service struct {
	Rules    Rules
	Cache    *Cache
	Fetcher  Fetcher
	Dataset  DatasetWriter
	PageSize int
	now      func() time.Time
}

func NewService(rules Rules, cache *Cache, fetcher Fetcher, dataset DatasetWriter) *Service {
	return &Service{
		Rules:    rules,
		Cache:    cache,
		Fetcher:  fetcher,
		Dataset:  dataset,
		PageSize: defaultPageSize,
		now:      time.Now,
	}
}

// Feed returns pre-curation articles for key and whether they came from the
// cache. force skips the cache read but still writes the fresh result back,
// repopulating the cache for subsequent non-forced requests.
func (s *Service) Feed(ctx context.Context, key domain.FeedKey, force bool) ([]domain.Article, bool, error) {
	if !force {
		if articles, ok := s.Cache.Get(key); ok {
			return articles, true, nil
		}
	}

	if s.Fetcher == nil {
		return nil, false, ErrNotConfigured
	}

	query := BuildQuery(s.Rules, key.Region)
	from := s.now().AddDate(0, 0, -key.Days)

	raw, err := s.Fetcher.Everything(ctx, query, from, string(key.Sort), s.PageSize)
	if err != nil {
		return nil, false, err
	}

	articles := Normalize(raw, s.Rules)
	s.Cache.Set(key, articles)

	if s.Dataset != nil {
		if _, err := s.Dataset.UpsertArticles(ctx, articles, key.Region); err != nil {
			logger := domain.LoggerFromContext(ctx)
			logger.WarnContext(ctx, "unable to record live fetch in dataset",
				"region", key.Region,
				"error", err,
			)
		}
	}

	return articles, false, nil
}
