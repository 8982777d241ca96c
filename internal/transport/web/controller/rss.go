package controller

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/feeds"

	"github.com/solarbeat/newsfeed/internal/curation"
	"github.com/solarbeat/newsfeed/internal/domain"
)

// RSS renders the curated live feed as an RSS document. It rides the same
// cache and overlay path as the JSON feed endpoint.
type RSS struct {
	FeedHostname    string
	FeedPath        string
	FeedAuthorName  string
	FeedAuthorEmail string
	Feed            FeedProvider
	Curation        CurationReader
	CacheMaxAge     time.Duration
}

func (c RSS) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	key := feedKeyFromQuery(r.URL.Query())

	articles, _, err := c.Feed.Feed(ctx, key, false)
	if err != nil {
		logger := domain.LoggerFromContext(ctx)
		logger.ErrorContext(ctx, "unable to fetch articles for RSS feed", "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	articles = curation.Overlay(articles, c.Curation.State())

	out := &feeds.Feed{
		Title:       "Solar Newswire",
		Link:        &feeds.Link{Href: c.FeedHostname + c.FeedPath},
		Description: "Curated solar energy news from around the world",
		Author:      &feeds.Author{Name: c.FeedAuthorName, Email: c.FeedAuthorEmail},
		Created:     time.Now(),
	}

	for _, a := range articles {
		out.Items = append(out.Items, &feeds.Item{
			Id:          a.URL,
			IsPermaLink: "true",
			Title:       a.Title,
			Link:        &feeds.Link{Href: a.URL},
			Description: a.Description,
			Author:      &feeds.Author{Name: a.Author},
			Created:     a.PublishedAt,
		})
	}

	rss, err := out.ToRss()
	if err != nil {
		logger := domain.LoggerFromContext(ctx)
		logger.ErrorContext(ctx, "unable to format feed as RSS", "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/xml")
	w.Header().Set("Cache-Control", fmt.Sprintf("max-age=%d", int(c.CacheMaxAge.Seconds())))

	if _, err := w.Write([]byte(rss)); err != nil {
		logger := domain.LoggerFromContext(ctx)
		logger.ErrorContext(ctx, "unable to write feed to response", "error", err)
	}
}
