package collector

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/solarbeat/newsfeed/internal/datasources"
	"github.com/solarbeat/newsfeed/internal/domain"
	"github.com/solarbeat/newsfeed/internal/feed"
)

const (
	DefaultInterval     = time.Hour
	DefaultRegionDelay  = 2 * time.Second
	DefaultInitialDelay = 10 * time.Second

	// windowDays is the lookback for each collection fetch, much wider
	// than the live feed so the dataset backfills history.
	windowDays = 30

	collectPageSize = 100
)

// Collector is the scheduled job that walks every region, fetches and
// normalizes articles, and upserts them into the dataset store. A pass
// already in flight causes new triggers to be skipped, not queued.
type Collector struct {
	Rules        feed.Rules
	Fetcher      feed.Fetcher
	Dataset      datasources.ArticleUpserter
	Interval     time.Duration
	RegionDelay  time.Duration
	InitialDelay time.Duration

	running atomic.Bool
	now     func() time.Time
}

func New(rules feed.Rules, fetcher feed.Fetcher, dataset datasources.ArticleUpserter) *Collector {
	return &Collector{
		Rules:        rules,
		Fetcher:      fetcher,
		Dataset:      dataset,
		Interval:     DefaultInterval,
		RegionDelay:  DefaultRegionDelay,
		InitialDelay: DefaultInitialDelay,
		now:          time.Now,
	}
}

// Run fires one pass shortly after startup and then once per interval until
// ctx is cancelled. It never returns an error; collection is best-effort.
func (c *Collector) Run(ctx context.Context) error {
	select {
	case <-time.After(c.InitialDelay):
		c.Collect(ctx)
	case <-ctx.Done():
		return nil
	}

	ticker := time.NewTicker(c.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.Collect(ctx)
		case <-ctx.Done():
			return nil
		}
	}
}

// Collect runs one full pass over all regions. Per-region failures are
// logged and skipped; the remaining regions still run.
func (c *Collector) Collect(ctx context.Context) {
	logger := domain.LoggerFromContext(ctx)

	if !c.running.CompareAndSwap(false, true) {
		logger.WarnContext(ctx, "collection pass already running, skipping trigger")
		return
	}
	defer c.running.Store(false)

	logger.InfoContext(ctx, "starting collection pass")
	started := c.now()

	for i, region := range domain.AllRegions {
		if i > 0 {
			// Space out upstream calls to stay under the rate limit.
			select {
			case <-time.After(c.RegionDelay):
			case <-ctx.Done():
				return
			}
		}

		c.collectRegion(ctx, region)
	}

	logger.InfoContext(ctx, "collection pass finished", "duration", c.now().Sub(started).String())
}

func (c *Collector) collectRegion(ctx context.Context, region domain.Region) {
	logger := domain.LoggerFromContext(ctx)

	query := feed.BuildQuery(c.Rules, region)
	from := c.now().AddDate(0, 0, -windowDays)

	raw, err := c.Fetcher.Everything(ctx, query, from, string(domain.SortPublishedAt), collectPageSize)
	if err != nil {
		logger.ErrorContext(ctx, "unable to fetch region",
			"region", region,
			"error", err,
		)
		return
	}

	articles := feed.Normalize(raw, c.Rules)

	result, err := c.Dataset.UpsertArticles(ctx, articles, region)
	if err != nil {
		logger.ErrorContext(ctx, "unable to upsert region articles",
			"region", region,
			"error", err,
		)
		return
	}

	logger.InfoContext(ctx, "collected region",
		"region", region,
		"fetched", len(raw),
		"kept", len(articles),
		"inserted", result.Inserted,
		"updated", result.Updated,
	)
}
