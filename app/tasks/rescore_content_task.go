package tasks

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/autopropelidos/portal-996/app/content"
	"github.com/autopropelidos/portal-996/app/database"
)

// RescoreContentTask recomputes relevance and quality scores for a source's
// items. Recency bonuses decay as items age, so stored scores drift away
// from what the heuristics would say today; a periodic pass keeps the
// rankings honest.
type RescoreContentTask struct {
	Task
	itemRepo database.ItemRepository
}

func NewRescoreContentTask(sourceName string, itemRepo database.ItemRepository) *RescoreContentTask {
	return &RescoreContentTask{
		Task:     NewTask(TaskTypeRescoreContent, sourceName),
		itemRepo: itemRepo,
	}
}

func (t *RescoreContentTask) Execute(ctx context.Context) error {

	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	items, err := t.itemRepo.GetItemsBySource(t.SourceName)
	if err != nil {
		return fmt.Errorf("failed to load items: %w", err)
	}

	now := time.Now().UTC()
	updated := 0
	for _, item := range items {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		relevance := content.NicheRelevance(item)
		quality := content.QualityAt(item, now)
		if relevance == item.RelevanceScore && quality == item.QualityScore {
			continue
		}

		if err := t.itemRepo.UpdateScores(item.ID, relevance, quality); err != nil {
			return fmt.Errorf("failed to update scores: %w", err)
		}
		updated++
	}

	slog.Info("Task completed",
		"type", "RescoreContent",
		"source", t.SourceName,
		"duration", t.GetDuration(),
		"total", len(items),
		"updated", updated)

	return nil
}
