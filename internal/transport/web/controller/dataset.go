package controller

import (
	"net/http"

	"github.com/solarbeat/newsfeed/internal/datasources"
	"github.com/solarbeat/newsfeed/internal/domain"
)

// DatasetArticles serves filtered pages of the historical dataset.
type DatasetArticles struct {
	Lister datasources.ArticleLister
}

type DatasetArticlesResponse struct {
	Articles []domain.DatasetRecord `json:"articles"`
	Total    int64                  `json:"total"`
}

func (c DatasetArticles) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	filters, err := datasetFiltersFromQuery(r.URL.Query())
	if err != nil {
		logger := domain.LoggerFromContext(ctx)
		logger.WarnContext(ctx, "unable to parse dataset filters", "error", err)
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	options, err := datasetOptionsFromQuery(r.URL.Query())
	if err != nil {
		logger := domain.LoggerFromContext(ctx)
		logger.WarnContext(ctx, "unable to parse dataset list options", "error", err)
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	records, total, err := c.Lister.ListArticles(ctx, filters, options)
	if err != nil {
		logger := domain.LoggerFromContext(ctx)
		logger.ErrorContext(ctx, "unable to query dataset", "error", err)
		writeError(w, r, http.StatusInternalServerError, "Unable to query dataset")
		return
	}

	writeJSON(w, r, http.StatusOK, DatasetArticlesResponse{Articles: records, Total: total})
}

// DatasetStats serves aggregate dataset counts.
type DatasetStats struct {
	Stats datasources.StatsReader
}

func (c DatasetStats) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	stats, err := c.Stats.DatasetStats(ctx)
	if err != nil {
		logger := domain.LoggerFromContext(ctx)
		logger.ErrorContext(ctx, "unable to aggregate dataset stats", "error", err)
		writeError(w, r, http.StatusInternalServerError, "Unable to aggregate dataset stats")
		return
	}

	writeJSON(w, r, http.StatusOK, stats)
}
