package core

import (
	"strings"
	"time"
)

// ContentType enumerates the kinds of discovered content.
type ContentType string

const (
	// ContentArticle is a written article or blog post.
	ContentArticle ContentType = "article"
	// ContentVideo is video material.
	ContentVideo ContentType = "video"
	// ContentDiscussion is a forum or community discussion.
	ContentDiscussion ContentType = "discussion"
	// ContentPaper is an academic or technical paper.
	ContentPaper ContentType = "paper"
	// ContentOther is anything not covered by the tags above.
	ContentOther ContentType = "other"
)

// ParseContentType maps a freeform tag onto the closed ContentType set,
// falling back to ContentOther for unrecognized tags.
func ParseContentType(tag string) ContentType {
	switch ContentType(strings.ToLower(strings.TrimSpace(tag))) {
	case ContentArticle:
		return ContentArticle
	case ContentVideo:
		return ContentVideo
	case ContentDiscussion:
		return ContentDiscussion
	case ContentPaper:
		return ContentPaper
	default:
		return ContentOther
	}
}

// ContentItem is a single piece of discovered content. Items are immutable
// after creation except for score recomputation on a subsequent ranking pass.
type ContentItem struct {
	ID           string      `json:"id"`
	Title        string      `json:"title"`
	URL          string      `json:"url"`
	Type         ContentType `json:"type"`
	Summary      string      `json:"summary,omitempty"`
	Score        float64     `json:"score"`
	DiscoveredAt time.Time   `json:"discovered_at"`
}

// NewContentItem creates a content item stamped with a fresh id and the
// current time.
func NewContentItem(title, url string, contentType ContentType, summary string) ContentItem {
	return ContentItem{
		ID:           NewID(),
		Title:        title,
		URL:          url,
		Type:         contentType,
		Summary:      summary,
		DiscoveredAt: time.Now(),
	}
}

// Identity returns the deduplication key for the item: the normalized
// (title, url) pair. Two items with equal identity are the same content.
func (c ContentItem) Identity() string {
	return strings.ToLower(strings.TrimSpace(c.Title)) + "|" + strings.TrimSpace(c.URL)
}
