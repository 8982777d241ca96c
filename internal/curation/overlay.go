package curation

import "github.com/solarbeat/newsfeed/internal/domain"

// Overlay merges editorial state into a candidate article list: articles
// whose URL is hidden or pinned are removed, then the full pinned list is
// prepended in pin order with fresh response-scoped IDs. A pinned URL that
// is also hidden still appears, pinned overrides hidden. The transform is
// pure; neither the input list nor the state is mutated.
func Overlay(articles []domain.Article, state domain.CurationState) []domain.Article {
	hidden := make(map[string]struct{}, len(state.Hidden))
	for _, u := range state.Hidden {
		hidden[u] = struct{}{}
	}
	pinnedURLs := make(map[string]struct{}, len(state.Pinned))
	for _, p := range state.Pinned {
		pinnedURLs[p.URL] = struct{}{}
	}

	out := make([]domain.Article, 0, len(state.Pinned)+len(articles))
	for _, p := range state.Pinned {
		out = append(out, p.Article())
	}
	for _, a := range articles {
		if _, ok := hidden[a.URL]; ok {
			continue
		}
		if _, ok := pinnedURLs[a.URL]; ok {
			continue
		}
		out = append(out, a)
	}

	for i := range out {
		out[i].ID = i + 1
	}
	return out
}
