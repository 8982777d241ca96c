package router

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/solarbeat/newsfeed/internal/datasources"
	"github.com/solarbeat/newsfeed/internal/transport/web/controller"
)

// CurationAccess is the full curation surface the router wires: public reads
// plus secret-gated mutations.
type CurationAccess interface {
	controller.CurationReader
	controller.CurationEditor
}

type Config struct {
	RSSFeedBaseURL     string
	RSSFeedAuthorName  string
	RSSFeedAuthorEmail string
	FeedCacheMaxAge    time.Duration
	CurationSecret     string
}

func MakeRouter(
	feedService controller.FeedProvider,
	curationStore CurationAccess,
	dataset datasources.DatasetRepository,
	cfg Config,
) (http.Handler, error) {
	r := mux.NewRouter()
	r.Use(corsMiddleware)

	requireSecret := requireSecretMiddleware(cfg.CurationSecret)

	r.Handle("/api/news", controller.NewsFeed{
		Feed:        feedService,
		Curation:    curationStore,
		CacheMaxAge: cfg.FeedCacheMaxAge,
	}).Methods(http.MethodGet, http.MethodOptions)

	r.Handle("/api/curation", controller.CurationRead{
		Curation: curationStore,
	}).Methods(http.MethodGet, http.MethodOptions)

	r.Handle("/api/curation/hide", requireSecret(controller.CurationHide{
		Curation: curationStore,
	})).Methods(http.MethodPost, http.MethodDelete, http.MethodOptions)

	r.Handle("/api/curation/pin", requireSecret(controller.CurationPin{
		Curation: curationStore,
	})).Methods(http.MethodPost, http.MethodDelete, http.MethodOptions)

	r.Handle("/api/dataset/articles", controller.DatasetArticles{
		Lister: dataset,
	}).Methods(http.MethodGet, http.MethodOptions)

	r.Handle("/api/dataset/stats", controller.DatasetStats{
		Stats: dataset,
	}).Methods(http.MethodGet, http.MethodOptions)

	r.Handle("/healthz", controller.Healthz{
		Pinger: dataset,
	}).Methods(http.MethodGet, http.MethodOptions)

	r.Handle("/rss", controller.RSS{
		FeedHostname:    cfg.RSSFeedBaseURL,
		FeedPath:        "/rss",
		FeedAuthorName:  cfg.RSSFeedAuthorName,
		FeedAuthorEmail: cfg.RSSFeedAuthorEmail,
		Feed:            feedService,
		Curation:        curationStore,
		CacheMaxAge:     cfg.FeedCacheMaxAge,
	}).Methods(http.MethodGet, http.MethodOptions)

	return r, nil
}
