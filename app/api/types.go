package api

import (
	"net/http"

	"github.com/autopropelidos/portal-996/app/content"
	"github.com/autopropelidos/portal-996/app/database"
	"github.com/autopropelidos/portal-996/app/fetch"
	"github.com/autopropelidos/portal-996/app/tasks"
)

type GeneratorInterface interface {
	Run(source database.Source, items []content.Item) (string, error)
}

var _ GeneratorInterface = (*Generator)(nil)

type Handler struct {
	sourceRepo   database.SourceRepository
	itemRepo     database.ItemRepository
	engine       *content.Engine
	generator    GeneratorInterface
	sourceCache  *fetch.SourceCache
	parser       *fetch.Parser
	deduplicator *content.Deduplicator
	scheduler    tasks.TaskSchedulerInterface
	httpClient   *http.Client
	userAgent    string
}
