package tasks

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/autopropelidos/portal-996/app/database"
	"github.com/autopropelidos/portal-996/app/fetch"
)

// extractBatchSize limits how many pending articles one task run fetches.
const extractBatchSize = 10

type ExtractContentTask struct {
	Task
	SourceConfig *fetch.SourceConfig
	httpClient   *http.Client
	extractor    *fetch.Extractor
	itemRepo     database.ItemRepository
	userAgent    string
}

func NewExtractContentTask(sourceName string, sourceConfig *fetch.SourceConfig, httpClient *http.Client,
	extractor *fetch.Extractor, itemRepo database.ItemRepository, userAgent string) *ExtractContentTask {
	return &ExtractContentTask{
		Task:         NewTask(TaskTypeExtractContent, sourceName),
		SourceConfig: sourceConfig,
		httpClient:   httpClient,
		extractor:    extractor,
		itemRepo:     itemRepo,
		userAgent:    userAgent,
	}
}

func (t *ExtractContentTask) Execute(ctx context.Context) error {

	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	items, err := t.itemRepo.GetItemsForExtraction(t.SourceName, extractBatchSize)
	if err != nil {
		return fmt.Errorf("failed to get items for extraction: %w", err)
	}

	if len(items) == 0 {
		slog.Debug("No items pending extraction", "source", t.SourceName)
		return nil
	}

	extracted := 0
	failed := 0
	for _, item := range items {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if err := t.extractItem(ctx, item); err != nil {
			failed++
			slog.Warn("Content extraction failed", "source", t.SourceName, "item", item.ID, "error", err)
			continue
		}
		extracted++
	}

	slog.Info("Task completed",
		"type", "ExtractContent",
		"source", t.SourceName,
		"duration", t.GetDuration(),
		"extracted", extracted,
		"failed", failed)

	return nil
}

func (t *ExtractContentTask) extractItem(ctx context.Context, item database.ExtractionItem) error {
	data, err := t.fetchPage(ctx, item.URL)
	if err != nil {
		now := time.Now().UTC()
		t.itemRepo.UpdateExtractedContent(item.ID, "", "failed", &now, err.Error())
		return err
	}

	body, err := t.extractor.Run(data, item.URL)
	now := time.Now().UTC()
	if err != nil {
		t.itemRepo.UpdateExtractedContent(item.ID, "", "failed", &now, err.Error())
		return err
	}

	return t.itemRepo.UpdateExtractedContent(item.ID, body, "success", &now, "")
}

func (t *ExtractContentTask) fetchPage(ctx context.Context, url string) ([]byte, error) {
	timeoutCtx, cancel := context.WithTimeout(ctx, time.Duration(t.SourceConfig.Settings.Timeout)*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(timeoutCtx, "GET", url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", t.userAgent)

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch page: %w", err)
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
