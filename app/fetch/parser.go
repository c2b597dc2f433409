package fetch

import (
	"bytes"
	"cmp"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"

	"github.com/autopropelidos/portal-996/app/content"
)

type Parser struct {
	gofeedParser *gofeed.Parser
}

func NewParser() *Parser {
	return &Parser{
		gofeedParser: gofeed.NewParser(),
	}
}

// Run parses an upstream RSS/Atom payload into the source's metadata and a
// batch of content items ready for the ingest pipeline. Items arrive with
// category, tags, video identifier and an initial niche-relevance score
// already attached.
func (p *Parser) Run(data []byte, source *SourceConfig) (*Metadata, []content.Item, error) {
	feed, err := p.gofeedParser.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to parse feed: %w", err)
	}

	metadata := &Metadata{
		Title:       feed.Title,
		Link:        feed.Link,
		Description: feed.Description,
		Language:    feed.Language,
	}

	if feed.Image != nil {
		metadata.ImageURL = feed.Image.URL
	}
	if feed.PublishedParsed != nil {
		metadata.PublishedAt = feed.PublishedParsed
	}

	items := make([]content.Item, 0, len(feed.Items))
	for _, feedItem := range feed.Items {
		items = append(items, p.normalizeItem(feedItem, source, feed.Title))
	}

	return metadata, items, nil
}

func (p *Parser) normalizeItem(feedItem *gofeed.Item, source *SourceConfig, feedTitle string) content.Item {
	item := content.Item{
		ID:          itemID(source.Name, cmp.Or(feedItem.GUID, feedItem.Link)),
		Kind:        source.Kind,
		Title:       feedItem.Title,
		Description: strings.TrimSpace(feedItem.Description),
		Content:     feedItem.Content,
		URL:         feedItem.Link,
	}

	sourceName := cmp.Or(feedTitle, source.Name)
	if source.Kind == content.KindVideo {
		item.Channel = sourceName
		item.VideoID = videoID(feedItem)
	} else {
		item.Source = sourceName
	}

	if feedItem.Image != nil {
		item.ImageURL = feedItem.Image.URL
	}
	if item.ImageURL == "" {
		for _, enclosure := range feedItem.Enclosures {
			if enclosure != nil && strings.HasPrefix(enclosure.Type, "image/") {
				item.ImageURL = enclosure.URL
				break
			}
		}
	}

	if feedItem.PublishedParsed != nil {
		item.PublishedAt = feedItem.PublishedParsed.UTC().Format(time.RFC3339)
	} else if feedItem.UpdatedParsed != nil {
		item.PublishedAt = feedItem.UpdatedParsed.UTC().Format(time.RFC3339)
	}

	item.Category = content.Classify(item.Title, item.Description, content.Category(source.Category))
	item.Tags = extractTags(feedItem, item)
	item.RelevanceScore = content.NicheRelevance(item)

	return item
}

// itemID derives a stable identifier from the source name and the upstream
// GUID (or link when the GUID is missing).
func itemID(sourceName, guid string) string {
	hash := sha256.Sum256([]byte(sourceName + "\x00" + guid))
	return hex.EncodeToString(hash[:16])
}

// extractTags merges the upstream category labels with extracted keywords,
// normalized and capped at ten distinct tags.
func extractTags(feedItem *gofeed.Item, item content.Item) []string {
	tags := make([]string, 0, 10)
	seen := make(map[string]bool)

	add := func(tag string) {
		normalized := content.Normalize(tag)
		if normalized == "" || seen[normalized] || len(tags) >= 10 {
			return
		}
		seen[normalized] = true
		tags = append(tags, normalized)
	}

	for _, category := range feedItem.Categories {
		add(category)
	}
	for _, keyword := range content.ExtractKeywords(item.Title, item.Description, 5) {
		add(keyword)
	}

	return tags
}

// videoID extracts the canonical video identifier from known URL shapes
// (youtube watch links, youtu.be short links, shorts), falling back to the
// upstream GUID.
func videoID(feedItem *gofeed.Item) string {
	parsed, err := url.Parse(feedItem.Link)
	if err == nil {
		if v := parsed.Query().Get("v"); v != "" {
			return v
		}
		host := strings.TrimPrefix(parsed.Host, "www.")
		path := strings.Trim(parsed.Path, "/")
		if host == "youtu.be" && path != "" {
			return path
		}
		if rest, ok := strings.CutPrefix(path, "shorts/"); ok && rest != "" {
			return rest
		}
	}

	// Atom feeds from video platforms carry IDs like "yt:video:<id>".
	if idx := strings.LastIndex(feedItem.GUID, ":"); idx >= 0 && idx < len(feedItem.GUID)-1 {
		return feedItem.GUID[idx+1:]
	}
	return feedItem.GUID
}
