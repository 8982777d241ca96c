package domain

import "time"

// PinnedArticle is an editor-pinned article. It lives in the curation store,
// independent of any cache entry, and survives restarts.
type PinnedArticle struct {
	Title       string    `json:"title"`
	Source      string    `json:"source"`
	Author      string    `json:"author,omitempty"`
	Description string    `json:"description"`
	URL         string    `json:"url"`
	Image       string    `json:"image,omitempty"`
	PublishedAt time.Time `json:"publishedAt"`
	ReadTime    int       `json:"readTime"`
	Category    Category  `json:"category"`
	Note        string    `json:"note,omitempty"`
	PinnedAt    time.Time `json:"pinnedAt"`
}

// Article converts a pinned record back into the served article shape.
// The caller assigns the response-scoped ID.
func (p PinnedArticle) Article() Article {
	return Article{
		Title:       p.Title,
		Source:      p.Source,
		Author:      p.Author,
		Description: p.Description,
		URL:         p.URL,
		Image:       p.Image,
		PublishedAt: p.PublishedAt,
		ReadTime:    p.ReadTime,
		Category:    p.Category,
		Pinned:      true,
		Note:        p.Note,
	}
}

// CurationState is a point-in-time snapshot of editorial state. Pinned order
// is display order, most recently pinned first. This is also the durable
// serialization shape.
type CurationState struct {
	Hidden []string        `json:"hidden"`
	Pinned []PinnedArticle `json:"pinned"`
}
