package tasks

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/autopropelidos/portal-996/app/content"
	"github.com/autopropelidos/portal-996/app/database"
	"github.com/autopropelidos/portal-996/app/fetch"
)

// recentWindow bounds how many stored items a fetch batch is deduplicated
// against. Near-duplicates older than that are effectively fresh stories.
const recentWindow = 500

type FetchSourceTask struct {
	Task
	SourceConfig *fetch.SourceConfig
	httpClient   *http.Client
	parser       *fetch.Parser
	deduplicator *content.Deduplicator
	sourceRepo   database.SourceRepository
	itemRepo     database.ItemRepository
	userAgent    string
}

func NewFetchSourceTask(sourceName string, sourceConfig *fetch.SourceConfig, httpClient *http.Client,
	parser *fetch.Parser, deduplicator *content.Deduplicator, sourceRepo database.SourceRepository,
	itemRepo database.ItemRepository, userAgent string) *FetchSourceTask {
	return &FetchSourceTask{
		Task:         NewTask(TaskTypeFetchSource, sourceName),
		SourceConfig: sourceConfig,
		httpClient:   httpClient,
		parser:       parser,
		deduplicator: deduplicator,
		sourceRepo:   sourceRepo,
		itemRepo:     itemRepo,
		userAgent:    userAgent,
	}
}

func (t *FetchSourceTask) Execute(ctx context.Context) error {

	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	if !t.SourceConfig.Settings.Enabled {
		slog.Debug("Source disabled, skipping", "source", t.SourceName)
		return nil
	}

	data, err := t.fetchSource(ctx, t.SourceConfig.URL)
	if err != nil {
		return fmt.Errorf("failed to fetch source: %w", err)
	}

	metadata, items, err := t.parser.Run(data, t.SourceConfig)
	if err != nil {
		return fmt.Errorf("failed to parse source: %w", err)
	}

	if err := t.storeSourceMetadata(metadata); err != nil {
		return fmt.Errorf("failed to store source metadata: %w", err)
	}

	if max := t.SourceConfig.Settings.MaxItems; max > 0 && len(items) > max {
		items = items[:max]
	}

	newCount, duplicateCount, err := t.ingestItems(items)
	if err != nil {
		return fmt.Errorf("failed to ingest items: %w", err)
	}

	slog.Info("Task completed",
		"type", "FetchSource",
		"source", t.SourceName,
		"duration", t.GetDuration(),
		"total", len(items),
		"duplicates", duplicateCount,
		"new", newCount)

	return nil
}

// ingestItems runs the dedup-then-score pipeline over a fetched batch.
// Items already stored as unique seed the accepted set, so candidates are
// compared against both the recent corpus and each other.
func (t *FetchSourceTask) ingestItems(items []content.Item) (int, int, error) {
	if len(items) == 0 {
		return 0, 0, nil
	}

	existing, err := t.itemRepo.GetUniqueItems(t.SourceConfig.Kind, recentWindow)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to load recent items: %w", err)
	}

	known := make(map[string]bool, len(existing))
	for _, item := range existing {
		known[item.ID] = true
	}

	batch := make([]content.Item, 0, len(existing)+len(items))
	batch = append(batch, existing...)
	for _, item := range items {
		// Re-fetched items update in place; only genuinely new IDs go
		// through the dedup tiers.
		if known[item.ID] {
			continue
		}
		batch = append(batch, item)
	}

	var result content.DedupResult
	if t.SourceConfig.Kind == content.KindVideo {
		result = t.deduplicator.RunVideos(batch)
	} else {
		result = t.deduplicator.Run(batch)
	}

	newCount := 0
	for _, item := range result.Unique {
		if known[item.ID] {
			continue
		}
		item.QualityScore = content.Quality(item)
		if err := t.itemRepo.UpsertItem(t.SourceName, item); err != nil {
			return newCount, 0, err
		}
		newCount++
	}

	duplicateCount := 0
	for _, edge := range result.Duplicates {
		if known[edge.Duplicate.ID] {
			continue
		}
		if err := t.itemRepo.UpsertDuplicate(t.SourceName, edge); err != nil {
			return newCount, duplicateCount, err
		}
		duplicateCount++
	}

	return newCount, duplicateCount, nil
}

func (t *FetchSourceTask) fetchSource(ctx context.Context, url string) ([]byte, error) {
	timeoutCtx, cancel := context.WithTimeout(ctx, time.Duration(t.SourceConfig.Settings.Timeout)*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(timeoutCtx, "GET", url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", t.userAgent)

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch source: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP error: %d %s", resp.StatusCode, resp.Status)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	return data, nil
}

func (t *FetchSourceTask) storeSourceMetadata(metadata *fetch.Metadata) error {
	now := time.Now().UTC()
	nextFetch := now.Add(time.Duration(t.SourceConfig.Settings.RefreshInterval) * time.Second)

	err := t.sourceRepo.UpdateSourceMetadata(t.SourceName, metadata.Title, metadata.Link,
		metadata.Description, metadata.ImageURL, metadata.Language, metadata.PublishedAt, nextFetch)
	if err != nil {
		return fmt.Errorf("failed to update source metadata and next fetch time: %w", err)
	}

	return nil
}
