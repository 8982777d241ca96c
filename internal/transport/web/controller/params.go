package controller

import (
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/solarbeat/newsfeed/internal/domain"
)

const (
	defaultDays = 7

	defaultDatasetLimit = 50
	maxDatasetLimit     = 200
)

var validDays = map[int]bool{1: true, 3: true, 7: true, 30: true}

// feedKeyFromQuery resolves feed parameters, falling back to the documented
// defaults (popularity, 7 days, global) for missing or unrecognized values.
func feedKeyFromQuery(q url.Values) domain.FeedKey {
	key := domain.FeedKey{
		Sort:   domain.SortPopularity,
		Days:   defaultDays,
		Region: domain.RegionGlobal,
	}

	if domain.SortMode(q.Get("sortBy")) == domain.SortPublishedAt {
		key.Sort = domain.SortPublishedAt
	}

	if days, err := strconv.Atoi(q.Get("days")); err == nil && validDays[days] {
		key.Days = days
	}

	if region := domain.Region(q.Get("region")); domain.ValidRegion(region) {
		key.Region = region
	}

	return key
}

func datasetFiltersFromQuery(q url.Values) (domain.DatasetFilters, error) {
	var filters domain.DatasetFilters

	filters.Category = domain.Category(q.Get("category"))
	if region := q.Get("region"); region != "" {
		r := domain.Region(region)
		if !domain.ValidRegion(r) {
			return domain.DatasetFilters{}, fmt.Errorf("unknown region [%s]", region)
		}
		filters.Region = r
	}
	filters.SourceContains = q.Get("source")
	filters.Search = q.Get("search")

	if from := q.Get("from"); from != "" {
		t, err := time.Parse("2006-01-02", from)
		if err != nil {
			return domain.DatasetFilters{}, fmt.Errorf("unable to parse from date: %w", err)
		}
		filters.PublishedAfter = t
	}

	if to := q.Get("to"); to != "" {
		t, err := time.Parse("2006-01-02", to)
		if err != nil {
			return domain.DatasetFilters{}, fmt.Errorf("unable to parse to date: %w", err)
		}
		filters.PublishedBefore = t
	}

	return filters, nil
}

func datasetOptionsFromQuery(q url.Values) (domain.DatasetListOptions, error) {
	options := domain.DatasetListOptions{
		Sort:  domain.DatasetOrderingPublishedAt,
		Limit: defaultDatasetLimit,
	}

	switch sort := q.Get("sort"); sort {
	case "", string(domain.DatasetOrderingPublishedAt):
	case string(domain.DatasetOrderingFirstSeen):
		options.Sort = domain.DatasetOrderingFirstSeen
	default:
		return domain.DatasetListOptions{}, fmt.Errorf("unrecognized sort field [%s]", sort)
	}

	if q.Has("limit") {
		limit, err := strconv.Atoi(q.Get("limit"))
		if err != nil {
			return domain.DatasetListOptions{}, fmt.Errorf("unable to parse limit: %w", err)
		}
		if limit < 1 || limit > maxDatasetLimit {
			return domain.DatasetListOptions{}, fmt.Errorf("limit [%d] out of range [1,%d]", limit, maxDatasetLimit)
		}
		options.Limit = limit
	}

	if q.Has("offset") {
		offset, err := strconv.Atoi(q.Get("offset"))
		if err != nil {
			return domain.DatasetListOptions{}, fmt.Errorf("unable to parse offset: %w", err)
		}
		if offset < 0 {
			return domain.DatasetListOptions{}, fmt.Errorf("invalid offset [%d]", offset)
		}
		options.Offset = offset
	}

	return options, nil
}
