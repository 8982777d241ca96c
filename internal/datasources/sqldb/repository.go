package sqldb

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/huandu/go-sqlbuilder"

	"github.com/solarbeat/newsfeed/internal/datasources"
	"github.com/solarbeat/newsfeed/internal/domain"
)

const topSourcesLimit = 10

var _ datasources.DatasetRepository = (*Repository)(nil)

// Repository implements the dataset store on any database/sql backend the
// schema supports; flavor selects placeholder and dialect handling.
type Repository struct {
	db     *sql.DB
	flavor sqlbuilder.Flavor
	now    func() time.Time
}

func New(db *sql.DB, flavor sqlbuilder.Flavor) *Repository {
	return &Repository{db: db, flavor: flavor, now: time.Now}
}

func (r *Repository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

func urlHash(url string) string {
	sum := sha256.Sum256([]byte(url))
	return hex.EncodeToString(sum[:])
}

// UpsertArticles inserts new rows and refreshes existing ones, keyed by URL.
// On update, mutable fields only replace stored values when the incoming
// value is non-empty, so first-seen data never regresses to blank; region
// and first_seen_at keep their original values.
func (r *Repository) UpsertArticles(
	ctx context.Context, articles []domain.Article, region domain.Region,
) (domain.UpsertResult, error) {
	var result domain.UpsertResult

	hashes := make([]string, 0, len(articles))
	for _, a := range articles {
		if a.URL == "" {
			continue
		}
		hashes = append(hashes, urlHash(a.URL))
	}
	if len(hashes) == 0 {
		return result, nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return result, fmt.Errorf("starting transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	existing, err := r.existingHashes(ctx, tx, hashes)
	if err != nil {
		return result, err
	}

	now := r.now().UTC()
	seen := make(map[string]struct{}, len(hashes))
	for _, a := range articles {
		if a.URL == "" {
			continue
		}
		hash := urlHash(a.URL)
		if _, dup := seen[hash]; dup {
			continue
		}
		seen[hash] = struct{}{}

		if _, ok := existing[hash]; ok {
			if err := r.updateArticle(ctx, tx, hash, a, now); err != nil {
				return result, err
			}
			result.Updated++
		} else {
			if err := r.insertArticle(ctx, tx, hash, a, region, now); err != nil {
				return result, err
			}
			result.Inserted++
		}
	}

	if err := tx.Commit(); err != nil {
		return result, fmt.Errorf("committing transaction: %w", err)
	}

	return result, nil
}

func (r *Repository) existingHashes(
	ctx context.Context, tx *sql.Tx, hashes []string,
) (map[string]struct{}, error) {
	vals := make([]interface{}, 0, len(hashes))
	for _, h := range hashes {
		vals = append(vals, h)
	}

	sb := sqlbuilder.Select("url_hash")
	sb.From("articles")
	sb.Where(sb.In("url_hash", vals...))

	query, args := sb.BuildWithFlavor(r.flavor)
	rows, err := tx.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying existing articles: %w", err)
	}
	defer func() { _ = rows.Close() }()

	existing := make(map[string]struct{})
	for rows.Next() {
		var h string
		if err := rows.Scan(&h); err != nil {
			return nil, fmt.Errorf("scanning existing hash: %w", err)
		}
		existing[h] = struct{}{}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating existing hashes: %w", err)
	}
	return existing, nil
}

func (r *Repository) insertArticle(
	ctx context.Context, tx *sql.Tx, hash string, a domain.Article, region domain.Region, now time.Time,
) error {
	ib := sqlbuilder.InsertInto("articles")
	ib.Cols("url_hash", "url", "title", "source", "author", "description", "image",
		"published_at", "category", "read_time", "region", "first_seen_at", "last_seen_at")
	ib.Values(hash, a.URL, a.Title, a.Source, a.Author, a.Description, a.Image,
		nullableTime(a.PublishedAt), string(a.Category), a.ReadTime, string(region), now, now)

	query, args := ib.BuildWithFlavor(r.flavor)
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("inserting article [%s]: %w", a.URL, err)
	}
	return nil
}

func (r *Repository) updateArticle(
	ctx context.Context, tx *sql.Tx, hash string, a domain.Article, now time.Time,
) error {
	// CASE expressions are portable across both supported flavors.
	query := `UPDATE articles SET
		last_seen_at = ?,
		title = CASE WHEN ? <> '' THEN ? ELSE title END,
		description = CASE WHEN ? <> '' THEN ? ELSE description END,
		image = CASE WHEN ? <> '' THEN ? ELSE image END,
		category = CASE WHEN ? <> '' THEN ? ELSE category END,
		read_time = CASE WHEN ? > 0 THEN ? ELSE read_time END
		WHERE url_hash = ?`

	args := []interface{}{
		now,
		a.Title, a.Title,
		a.Description, a.Description,
		a.Image, a.Image,
		string(a.Category), string(a.Category),
		a.ReadTime, a.ReadTime,
		hash,
	}

	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("updating article [%s]: %w", a.URL, err)
	}
	return nil
}

const articleColumns = "url, title, source, author, description, image, " +
	"published_at, category, read_time, region, first_seen_at, last_seen_at"

// ListArticles returns one page of matching rows plus the total match count
// independent of pagination.
func (r *Repository) ListArticles(
	ctx context.Context, filters domain.DatasetFilters, options domain.DatasetListOptions,
) ([]domain.DatasetRecord, int64, error) {
	sb := sqlbuilder.Select(articleColumns)
	sb.From("articles")
	if conds := buildDatasetConditions(sb, filters); len(conds) > 0 {
		sb.Where(conds...)
	}

	switch options.Sort {
	case domain.DatasetOrderingFirstSeen:
		sb.OrderBy("first_seen_at DESC")
	default:
		sb.OrderBy("published_at DESC")
	}
	sb.Limit(options.Limit)
	sb.Offset(options.Offset)

	query, args := sb.BuildWithFlavor(r.flavor)
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("running dataset query: %w", err)
	}
	defer func() { _ = rows.Close() }()

	records := []domain.DatasetRecord{}
	for rows.Next() {
		var rec domain.DatasetRecord
		var published sql.NullTime
		if err := rows.Scan(
			&rec.URL, &rec.Title, &rec.Source, &rec.Author, &rec.Description, &rec.Image,
			&published, &rec.Category, &rec.ReadTime, &rec.Region, &rec.FirstSeenAt, &rec.LastSeenAt,
		); err != nil {
			return nil, 0, fmt.Errorf("scanning dataset row: %w", err)
		}
		if published.Valid {
			rec.PublishedAt = published.Time
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterating dataset rows: %w", err)
	}

	total, err := r.countMatching(ctx, filters)
	if err != nil {
		return nil, 0, err
	}

	return records, total, nil
}

func (r *Repository) countMatching(ctx context.Context, filters domain.DatasetFilters) (int64, error) {
	sb := sqlbuilder.Select("COUNT(*)")
	sb.From("articles")
	if conds := buildDatasetConditions(sb, filters); len(conds) > 0 {
		sb.Where(conds...)
	}

	query, args := sb.BuildWithFlavor(r.flavor)
	var count int64
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("counting matching dataset rows: %w", err)
	}
	return count, nil
}

func buildDatasetConditions(sb *sqlbuilder.SelectBuilder, filters domain.DatasetFilters) []string {
	var conds []string

	if filters.Category != "" {
		conds = append(conds, sb.Equal("category", string(filters.Category)))
	}
	if filters.Region != "" {
		conds = append(conds, sb.Equal("region", string(filters.Region)))
	}
	if filters.SourceContains != "" {
		conds = append(conds, sb.Like("source", "%"+filters.SourceContains+"%"))
	}
	if filters.Search != "" {
		pattern := "%" + filters.Search + "%"
		conds = append(conds, sb.Or(
			sb.Like("title", pattern),
			sb.Like("description", pattern),
		))
	}
	if filters.PublishedAfter != (time.Time{}) {
		conds = append(conds, sb.GreaterEqualThan("published_at", filters.PublishedAfter))
	}
	if filters.PublishedBefore != (time.Time{}) {
		conds = append(conds, sb.LessEqualThan("published_at", filters.PublishedBefore))
	}

	return conds
}

// DatasetStats aggregates row counts, the publish-date span, and breakdowns
// by category, region, and the most frequent sources.
func (r *Repository) DatasetStats(ctx context.Context) (domain.DatasetStats, error) {
	stats := domain.DatasetStats{
		ByCategory: map[domain.Category]int64{},
		ByRegion:   map[domain.Region]int64{},
	}

	var earliest, latest sql.NullTime
	row := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*), MIN(published_at), MAX(published_at) FROM articles")
	if err := row.Scan(&stats.TotalArticles, &earliest, &latest); err != nil {
		return stats, fmt.Errorf("aggregating dataset totals: %w", err)
	}
	if earliest.Valid {
		stats.EarliestPublished = earliest.Time
	}
	if latest.Valid {
		stats.LatestPublished = latest.Time
	}

	if err := r.groupCounts(ctx, "category", func(key string, count int64) {
		stats.ByCategory[domain.Category(key)] = count
	}); err != nil {
		return stats, err
	}

	if err := r.groupCounts(ctx, "region", func(key string, count int64) {
		stats.ByRegion[domain.Region(key)] = count
	}); err != nil {
		return stats, err
	}

	sb := sqlbuilder.Select("source", "COUNT(*) AS n")
	sb.From("articles")
	sb.Where(sb.NotEqual("source", ""))
	sb.GroupBy("source")
	sb.OrderBy("n DESC")
	sb.Limit(topSourcesLimit)

	query, args := sb.BuildWithFlavor(r.flavor)
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return stats, fmt.Errorf("aggregating top sources: %w", err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var sc domain.SourceCount
		if err := rows.Scan(&sc.Source, &sc.Count); err != nil {
			return stats, fmt.Errorf("scanning source count: %w", err)
		}
		stats.TopSources = append(stats.TopSources, sc)
	}
	if err := rows.Err(); err != nil {
		return stats, fmt.Errorf("iterating source counts: %w", err)
	}

	return stats, nil
}

func (r *Repository) groupCounts(ctx context.Context, column string, add func(string, int64)) error {
	sb := sqlbuilder.Select(column, "COUNT(*)")
	sb.From("articles")
	sb.GroupBy(column)

	query, args := sb.BuildWithFlavor(r.flavor)
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("aggregating by %s: %w", column, err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var key string
		var count int64
		if err := rows.Scan(&key, &count); err != nil {
			return fmt.Errorf("scanning %s count: %w", column, err)
		}
		add(key, count)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterating %s counts: %w", column, err)
	}
	return nil
}

func nullableTime(t time.Time) sql.NullTime {
	if t.IsZero() {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: t.UTC(), Valid: true}
}
