package feed

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/solarbeat/newsfeed/internal/domain"
	"github.com/solarbeat/newsfeed/internal/upstream/newsapi"
)

type fakeFetcher struct {
	calls     int
	lastQuery string
	lastFrom  time.Time
	lastSort  string
	articles  []newsapi.RawArticle
	err       error
}

func (f *fakeFetcher) Everything(
	_ context.Context, query string, from time.Time, sortBy string, _ int,
) ([]newsapi.RawArticle, error) {
	f.calls++
	f.lastQuery = query
	f.lastFrom = from
	f.lastSort = sortBy
	return f.articles, f.err
}

type fakeUpserter struct {
	calls      int
	lastRegion domain.Region
	err        error
}

func (f *fakeUpserter) UpsertArticles(
	_ context.Context, _ []domain.Article, region domain.Region,
) (domain.UpsertResult, error) {
	f.calls++
	f.lastRegion = region
	return domain.UpsertResult{}, f.err
}

func newTestService(fetcher *fakeFetcher, dataset *fakeUpserter) *Service {
	var ds DatasetWriter
	if dataset != nil {
		ds = dataset
	}
	svc := NewService(DefaultRules(), NewCache(5*time.Minute), fetcher, ds)
	svc.now = func() time.Time { return time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC) }
	return svc
}

func TestService_Feed_MissFetchesAndCaches(t *testing.T) {
	fetcher := &fakeFetcher{articles: []newsapi.RawArticle{
		rawArticle("Solar farm opens", "https://news.test/a"),
	}}
	svc := newTestService(fetcher, nil)

	key := domain.FeedKey{Sort: domain.SortPublishedAt, Days: 1, Region: domain.RegionAfrica}

	articles, cached, err := svc.Feed(context.Background(), key, false)
	require.NoError(t, err)
	assert.False(t, cached)
	require.Len(t, articles, 1)
	assert.Equal(t, 1, fetcher.calls)

	// The fetch used yesterday as the lower bound and a region-ANDed query.
	assert.Equal(t, time.Date(2025, 6, 9, 12, 0, 0, 0, time.UTC), fetcher.lastFrom)
	assert.Contains(t, fetcher.lastQuery, "AND")
	assert.Contains(t, fetcher.lastQuery, "Africa")
	assert.Equal(t, "publishedAt", fetcher.lastSort)

	// An identical request inside the TTL is served from cache.
	articles2, cached2, err := svc.Feed(context.Background(), key, false)
	require.NoError(t, err)
	assert.True(t, cached2)
	assert.Equal(t, articles, articles2)
	assert.Equal(t, 1, fetcher.calls, "no second upstream call")
}

func TestService_Feed_ForceBypassesCacheButRepopulates(t *testing.T) {
	fetcher := &fakeFetcher{articles: []newsapi.RawArticle{
		rawArticle("Solar farm opens", "https://news.test/a"),
	}}
	svc := newTestService(fetcher, nil)
	key := domain.FeedKey{Sort: domain.SortPopularity, Days: 7, Region: domain.RegionGlobal}

	_, _, err := svc.Feed(context.Background(), key, false)
	require.NoError(t, err)
	require.Equal(t, 1, fetcher.calls)

	_, cached, err := svc.Feed(context.Background(), key, true)
	require.NoError(t, err)
	assert.False(t, cached)
	assert.Equal(t, 2, fetcher.calls, "force refetches despite fresh cache")

	// The forced fetch wrote through, so a plain request hits the cache.
	_, cached, err = svc.Feed(context.Background(), key, false)
	require.NoError(t, err)
	assert.True(t, cached)
	assert.Equal(t, 2, fetcher.calls)
}

func TestService_Feed_FetchErrorPropagates(t *testing.T) {
	wantErr := errors.New("boom")
	fetcher := &fakeFetcher{err: wantErr}
	svc := newTestService(fetcher, nil)

	_, _, err := svc.Feed(context.Background(),
		domain.FeedKey{Sort: domain.SortPopularity, Days: 7, Region: domain.RegionGlobal}, false)
	assert.ErrorIs(t, err, wantErr)
}

func TestService_Feed_NotConfigured(t *testing.T) {
	svc := NewService(DefaultRules(), NewCache(5*time.Minute), nil, nil)

	_, _, err := svc.Feed(context.Background(),
		domain.FeedKey{Sort: domain.SortPopularity, Days: 7, Region: domain.RegionGlobal}, false)
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestService_Feed_RecordsLiveFetchInDataset(t *testing.T) {
	fetcher := &fakeFetcher{articles: []newsapi.RawArticle{
		rawArticle("Solar farm opens", "https://news.test/a"),
	}}
	dataset := &fakeUpserter{}
	svc := newTestService(fetcher, dataset)

	key := domain.FeedKey{Sort: domain.SortPopularity, Days: 7, Region: domain.RegionEurope}
	_, _, err := svc.Feed(context.Background(), key, false)
	require.NoError(t, err)
	assert.Equal(t, 1, dataset.calls)
	assert.Equal(t, domain.RegionEurope, dataset.lastRegion)

	// Dataset failures are logged, not surfaced to the feed caller.
	dataset.err = errors.New("db down")
	_, _, err = svc.Feed(context.Background(), key, true)
	assert.NoError(t, err)
}
