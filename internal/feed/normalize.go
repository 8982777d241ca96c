package feed

import (
	"net/url"
	"strings"

	"github.com/solarbeat/newsfeed/internal/domain"
	"github.com/solarbeat/newsfeed/internal/upstream/newsapi"
)

const wordsPerMinute = 200

// removedTitle marks records the upstream has redacted after indexing.
const removedTitle = "[Removed]"

// Normalize maps raw upstream records into canonical articles, dropping
// records without a title, redacted records, records without a safe http(s)
// URL, and records from blocklisted hosts. IDs are positions in the surviving
// list, unique within one response only.
func Normalize(raw []newsapi.RawArticle, rules Rules) []domain.Article {
	articles := make([]domain.Article, 0, len(raw))

	for _, r := range raw {
		if r.Title == "" || r.Title == removedTitle {
			continue
		}
		if !domain.ValidArticleURL(r.URL) {
			continue
		}
		if hostBlocked(r.URL, rules.HostBlocklist) {
			continue
		}

		articles = append(articles, domain.Article{
			ID:          len(articles) + 1,
			Title:       r.Title,
			Source:      r.Source.Name,
			Author:      r.Author,
			Description: r.Description,
			URL:         r.URL,
			Image:       r.Image,
			PublishedAt: r.PublishedAt,
			ReadTime:    ReadTime(r.Description, r.Content),
			Category:    Categorize(r.Title, r.Description, rules.Categories),
		})
	}

	return articles
}

// ReadTime estimates minutes to read at 200 words per minute, never below 1.
func ReadTime(description, content string) int {
	words := len(strings.Fields(description)) + len(strings.Fields(content))
	if words == 0 {
		return 1
	}

	minutes := (words + wordsPerMinute - 1) / wordsPerMinute
	if minutes < 1 {
		minutes = 1
	}
	return minutes
}

// Categorize tests title+description against each rule in order and returns
// the first matching category; General when nothing matches. Evaluation
// order is load-bearing: an article matching both Policy and Science terms
// is Policy because Policy is tested first.
func Categorize(title, description string, rules []CategoryRule) domain.Category {
	text := title + " " + description
	for _, rule := range rules {
		if rule.Pattern.MatchString(text) {
			return rule.Category
		}
	}
	return domain.CategoryGeneral
}

func hostBlocked(rawURL string, blocklist []string) bool {
	if len(blocklist) == 0 {
		return false
	}

	u, err := url.Parse(rawURL)
	if err != nil {
		return true
	}

	host := strings.ToLower(u.Hostname())
	for _, blocked := range blocklist {
		blocked = strings.ToLower(blocked)
		if host == blocked || strings.HasSuffix(host, "."+blocked) {
			return true
		}
	}
	return false
}
