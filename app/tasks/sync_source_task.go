package tasks

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/autopropelidos/portal-996/app/database"
	"github.com/autopropelidos/portal-996/app/fetch"
)

type SyncSourceTask struct {
	Task
	SourceConfig *fetch.SourceConfig
	sourceRepo   database.SourceRepository
}

func NewSyncSourceTask(sourceName string, sourceConfig *fetch.SourceConfig, sourceRepo database.SourceRepository) *SyncSourceTask {
	return &SyncSourceTask{
		Task:         NewTask(TaskTypeSyncSource, sourceName),
		SourceConfig: sourceConfig,
		sourceRepo:   sourceRepo,
	}
}

func (t *SyncSourceTask) Execute(ctx context.Context) error {

	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	err := t.sourceRepo.UpsertSource(
		t.SourceConfig.Name,
		t.SourceConfig.URL,
		string(t.SourceConfig.Kind))
	if err != nil {
		slog.Error("Task failed", "type", "SyncSource", "source", t.SourceName, "error", err)
		return fmt.Errorf("failed to sync source config to database: %w", err)
	}

	slog.Info("Task completed",
		"type", "SyncSource",
		"source", t.SourceName,
		"duration", t.GetDuration())

	return nil
}
