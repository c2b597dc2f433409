package database

import (
	"time"
)

// Source is a registered upstream source record.
type Source struct {
	Name            string // Configuration identifier derived from filename
	URL             string // RSS/Atom feed URL from configuration
	Kind            string // news or video
	Title           string
	Link            string // Homepage URL from the feed's <link> element
	Description     string
	ImageURL        string
	Language        string
	FeedPublishedAt *time.Time
	LastFetchedAt   *time.Time
	NextFetchAt     *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// ExtractionItem is the projection used by the content extraction task.
type ExtractionItem struct {
	ID  string
	URL string
}

// ItemStats aggregates per-source item counters.
type ItemStats struct {
	Total      int
	Unique     int
	Duplicates int
}
