package controller

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/solarbeat/newsfeed/internal/curation"
	"github.com/solarbeat/newsfeed/internal/domain"
	"github.com/solarbeat/newsfeed/internal/feed"
	"github.com/solarbeat/newsfeed/internal/upstream/newsapi"
)

type FeedProvider interface {
	Feed(ctx context.Context, key domain.FeedKey, force bool) ([]domain.Article, bool, error)
}

type CurationReader interface {
	State() domain.CurationState
}

// NewsFeed serves the live feed: cache or upstream fetch, then the curation
// overlay applied on every response so editorial changes are immediate.
type NewsFeed struct {
	Feed        FeedProvider
	Curation    CurationReader
	CacheMaxAge time.Duration
}

type NewsFeedResponse struct {
	Articles []domain.Article `json:"articles"`
	Cached   bool             `json:"cached"`
}

func (c NewsFeed) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	key := feedKeyFromQuery(r.URL.Query())
	force := r.URL.Query().Get("force") == "1"

	articles, cached, err := c.Feed.Feed(ctx, key, force)
	if err != nil {
		logger := domain.LoggerFromContext(ctx)
		logger.ErrorContext(ctx, "unable to serve feed",
			"sort", key.Sort,
			"days", key.Days,
			"region", key.Region,
			"error", err,
		)

		var apiErr *newsapi.APIError
		switch {
		case errors.Is(err, feed.ErrNotConfigured):
			writeError(w, r, http.StatusInternalServerError, "News API key not configured")
		case errors.Is(err, newsapi.ErrTimeout):
			writeError(w, r, http.StatusGatewayTimeout, "News service timed out")
		case errors.As(err, &apiErr):
			writeError(w, r, http.StatusBadGateway, "News service reported an error")
		default:
			writeError(w, r, http.StatusInternalServerError, "Unable to fetch news")
		}
		return
	}

	articles = curation.Overlay(articles, c.Curation.State())

	if c.CacheMaxAge > 0 {
		w.Header().Set("Cache-Control", fmt.Sprintf("max-age=%d", int(c.CacheMaxAge.Seconds())))
	}
	writeJSON(w, r, http.StatusOK, NewsFeedResponse{Articles: articles, Cached: cached})
}
