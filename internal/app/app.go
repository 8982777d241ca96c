package app

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/huandu/go-sqlbuilder"

	"github.com/solarbeat/newsfeed/internal/collector"
	"github.com/solarbeat/newsfeed/internal/curation"
	"github.com/solarbeat/newsfeed/internal/datasources"
	"github.com/solarbeat/newsfeed/internal/datasources/jsonfile"
	"github.com/solarbeat/newsfeed/internal/datasources/sqldb"
	"github.com/solarbeat/newsfeed/internal/domain"
	"github.com/solarbeat/newsfeed/internal/feed"
	"github.com/solarbeat/newsfeed/internal/transport/web/router"
	"github.com/solarbeat/newsfeed/internal/transport/web/server"
	"github.com/solarbeat/newsfeed/internal/upstream/newsapi"
)

type Component interface {
	Run(ctx context.Context) error
}

func Setup(ctx context.Context) ([]Component, error) {
	rules, err := setupRules(ctx)
	if err != nil {
		return nil, fmt.Errorf("setting up rules: %w", err)
	}

	db, flavor, err := setupDatabase(ctx)
	if err != nil {
		return nil, fmt.Errorf("setting up database: %w", err)
	}
	if err := sqldb.CreateSchema(ctx, db, flavor); err != nil {
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	dataset := sqldb.New(db, flavor)

	curationStore, err := setupCurationStore(ctx, db)
	if err != nil {
		return nil, fmt.Errorf("setting up curation store: %w", err)
	}

	var fetcher feed.Fetcher
	if apiKey := GetEnvAsString("NEWS_API_KEY", ""); apiKey != "" {
		fetcher = newsapi.NewClient(apiKey)
	} else {
		logger := domain.LoggerFromContext(ctx)
		logger.ErrorContext(ctx, "NEWS_API_KEY is not set; live feed requests will fail")
	}

	cache := feed.NewCache(feed.DefaultCacheTTL)
	feedService := feed.NewService(rules, cache, fetcher, dataset)

	httpRouter, err := router.MakeRouter(feedService, curationStore, dataset, router.Config{
		RSSFeedBaseURL:     GetEnvAsString("RSS_FEED_BASE_URL", ""),
		RSSFeedAuthorName:  GetEnvAsString("RSS_FEED_AUTHOR_NAME", ""),
		RSSFeedAuthorEmail: GetEnvAsString("RSS_FEED_AUTHOR_EMAIL", ""),
		FeedCacheMaxAge:    GetEnvAsDuration(ctx, "FEED_CACHE_MAX_AGE", 0),
		CurationSecret:     GetEnvAsString("CURATION_SECRET", ""),
	})
	if err != nil {
		return nil, fmt.Errorf("unable to create HTTP router: %w", err)
	}

	components := []Component{
		&server.Server{
			TLSDisabled:       MustGetEnvAsBoolean(ctx, "HTTP_TLS_DISABLED"),
			TLSDisabledPort:   MustGetEnvAsInt(ctx, "PORT"),
			AutocertHostnames: MustGetEnvAsStrings(ctx, "HTTP_AUTOCERT_HOSTNAMES"),
			Router:            httpRouter,
		},
		cache,
	}

	if fetcher != nil && GetEnvAsString("COLLECTOR_ENABLED", "true") == "true" {
		c := collector.New(rules, fetcher, dataset)
		c.Interval = GetEnvAsDuration(ctx, "COLLECTOR_INTERVAL", collector.DefaultInterval)
		c.RegionDelay = GetEnvAsDuration(ctx, "COLLECTOR_REGION_DELAY", collector.DefaultRegionDelay)
		c.InitialDelay = GetEnvAsDuration(ctx, "COLLECTOR_INITIAL_DELAY", collector.DefaultInitialDelay)
		components = append(components, c)
	}

	return components, nil
}

func setupRules(ctx context.Context) (feed.Rules, error) {
	path := GetEnvAsString("RULES_PATH", "")
	if path == "" {
		return feed.DefaultRules(), nil
	}

	rules, err := feed.LoadRules(path)
	if err != nil {
		return feed.Rules{}, fmt.Errorf("loading rules from [%s]: %w", path, err)
	}

	logger := domain.LoggerFromContext(ctx)
	logger.InfoContext(ctx, "loaded rules file", "path", path)
	return rules, nil
}

func setupDatabase(ctx context.Context) (*sql.DB, sqlbuilder.Flavor, error) {
	switch driver := MustGetEnvAsString(ctx, "DATASET_DRIVER"); driver {
	case "mysql":
		db, err := sqldb.ConnectMySQL(ctx, MustGetEnvAsString(ctx, "MYSQL_URI"))
		if err != nil {
			return nil, 0, fmt.Errorf("connecting to MySQL: %w", err)
		}
		return db, sqlbuilder.MySQL, nil
	case "sqlite":
		db, err := sqldb.ConnectSQLite(ctx, MustGetEnvAsString(ctx, "SQLITE_PATH"))
		if err != nil {
			return nil, 0, fmt.Errorf("connecting to SQLite: %w", err)
		}
		return db, sqlbuilder.SQLite, nil
	default:
		return nil, 0, fmt.Errorf("unknown dataset driver [%s]", driver)
	}
}

func setupCurationStore(ctx context.Context, db *sql.DB) (*curation.Store, error) {
	var persister datasources.CurationPersister

	switch driver := GetEnvAsString("CURATION_DRIVER", "file"); driver {
	case "file":
		persister = jsonfile.New(GetEnvAsString("CURATION_PATH", "curation.json"))
	case "db":
		persister = sqldb.NewCurationRepository(db)
	default:
		return nil, fmt.Errorf("unknown curation driver [%s]", driver)
	}

	return curation.NewStore(ctx, persister)
}
