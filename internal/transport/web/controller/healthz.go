package controller

import (
	"net/http"

	"github.com/solarbeat/newsfeed/internal/datasources"
	"github.com/solarbeat/newsfeed/internal/domain"
)

// Healthz reports liveness plus dataset store reachability.
type Healthz struct {
	Pinger datasources.Pinger
}

func (c Healthz) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if c.Pinger != nil {
		if err := c.Pinger.Ping(ctx); err != nil {
			logger := domain.LoggerFromContext(ctx)
			logger.ErrorContext(ctx, "dataset store unreachable", "error", err)
			writeError(w, r, http.StatusServiceUnavailable, "dataset store unreachable")
			return
		}
	}

	writeJSON(w, r, http.StatusOK, okResponse{OK: true})
}
