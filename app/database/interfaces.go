package database

import (
	"time"

	"github.com/autopropelidos/portal-996/app/content"
)

type SourceRepository interface {
	GetSource(sourceName string) (*Source, error)
	GetSources() ([]Source, error)
	GetSourceCount() (int, error)

	UpsertSource(sourceName, sourceURL, kind string) error
	UpdateSourceMetadata(sourceName string, title string, link string, description string,
		imageURL string, language string, feedPublishedAt *time.Time, nextFetch time.Time) error
}

type ItemRepository interface {
	GetUniqueItems(kind content.Kind, limit int) ([]content.Item, error)
	GetItemsBySource(sourceName string) ([]content.Item, error)
	GetItemCount() (int, error)
	GetItemStats(sourceName string) (ItemStats, error)

	UpsertItem(sourceName string, item content.Item) error
	UpsertDuplicate(sourceName string, edge content.DuplicateEdge) error
	UpdateScores(itemID string, relevanceScore, qualityScore float64) error

	GetItemsForExtraction(sourceName string, limit int) ([]ExtractionItem, error)
	UpdateExtractedContent(itemID string, body string, status string, extractedAt *time.Time, errorMsg string) error
}
