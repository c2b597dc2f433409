package api

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/autopropelidos/portal-996/app/content"
	"github.com/autopropelidos/portal-996/app/database"
	"github.com/autopropelidos/portal-996/app/fetch"
	"github.com/autopropelidos/portal-996/app/tasks"
)

// searchWindow bounds how many stored items a single request ranks in
// memory. Generous for a niche portal; pagination happens afterwards.
const searchWindow = 1000

func NewHandler(sourceCache *fetch.SourceCache, sourceRepo database.SourceRepository,
	itemRepo database.ItemRepository, parser *fetch.Parser, deduplicator *content.Deduplicator,
	scheduler tasks.TaskSchedulerInterface, httpClient *http.Client, userAgent string) *Handler {
	return &Handler{
		sourceRepo:   sourceRepo,
		itemRepo:     itemRepo,
		engine:       content.NewEngine(),
		generator:    NewGenerator(),
		sourceCache:  sourceCache,
		parser:       parser,
		deduplicator: deduplicator,
		scheduler:    scheduler,
		httpClient:   httpClient,
		userAgent:    userAgent,
	}
}

// Search serves GET /api/search. Query parameters map one to one onto the
// engine's query type; invalid enum values are rejected at this boundary so
// the core only ever sees closed variants.
func (h *Handler) Search(c *gin.Context) {
	query := content.Query{
		Text:   c.Query("q"),
		Fields: content.DefaultSearchFields,
	}

	filters := &content.Filters{}
	hasFilters := false

	if raw := c.Query("category"); raw != "" {
		for _, value := range strings.Split(raw, ",") {
			category, ok := content.ParseCategory(strings.TrimSpace(value))
			if !ok {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid category: " + value})
				return
			}
			filters.Categories = append(filters.Categories, category)
		}
		hasFilters = true
	}

	if raw := c.Query("tags"); raw != "" {
		for _, tag := range strings.Split(raw, ",") {
			if tag = strings.TrimSpace(tag); tag != "" {
				filters.Tags = append(filters.Tags, tag)
			}
		}
		hasFilters = true
	}

	if raw := c.Query("minRelevanceScore"); raw != "" {
		min, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid minRelevanceScore"})
			return
		}
		filters.MinRelevance = &min
		hasFilters = true
	}

	if source := c.Query("source"); source != "" {
		filters.Source = source
		hasFilters = true
	}

	if from := c.Query("dateFrom"); from != "" {
		filters.DateFrom = from
		hasFilters = true
	}
	if to := c.Query("dateTo"); to != "" {
		filters.DateTo = to
		hasFilters = true
	}

	if hasFilters {
		query.Filters = filters
	}

	if raw := c.Query("sortBy"); raw != "" {
		sortKey, ok := content.ParseSortKey(raw)
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid sortBy: " + raw})
			return
		}
		query.SortBy = sortKey
	}
	if c.Query("sortOrder") == string(content.OrderAsc) {
		query.SortOrder = content.OrderAsc
	}

	query.Page = intQuery(c, "page", 1)
	query.Limit = intQuery(c, "limit", content.DefaultPageSize)

	kind := content.Kind("")
	switch c.Query("kind") {
	case "news":
		kind = content.KindNews
	case "video":
		kind = content.KindVideo
	}

	items, err := h.itemRepo.GetUniqueItems(kind, searchWindow)
	if err != nil {
		slog.Error("Database error", "operation", "get_items", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	c.JSON(http.StatusOK, h.engine.Search(items, query))
}

// ListNews serves GET /api/news: unique news ranked by combined
// relevance/quality score.
func (h *Handler) ListNews(c *gin.Context) {
	h.listRanked(c, content.KindNews)
}

// ListVideos serves GET /api/videos.
func (h *Handler) ListVideos(c *gin.Context) {
	h.listRanked(c, content.KindVideo)
}

func (h *Handler) listRanked(c *gin.Context, kind content.Kind) {
	items, err := h.itemRepo.GetUniqueItems(kind, searchWindow)
	if err != nil {
		slog.Error("Database error", "operation", "get_items", "kind", string(kind), "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	if raw := c.Query("category"); raw != "" {
		category, ok := content.ParseCategory(raw)
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid category: " + raw})
			return
		}
		if category != content.CategoryAll {
			filtered := make([]content.Item, 0, len(items))
			for _, item := range items {
				if item.Category == category {
					filtered = append(filtered, item)
				}
			}
			items = filtered
		}
	}

	ranked := content.RankContent(items)
	result := h.engine.Paginate(ranked, intQuery(c, "page", 1), intQuery(c, "limit", content.DefaultPageSize))

	c.JSON(http.StatusOK, result)
}

func (h *Handler) GetHealth(c *gin.Context) {
	health := map[string]interface{}{
		"timestamp": time.Now().In(time.Local).Format(time.RFC3339),
	}

	if sourceCount, err := h.sourceRepo.GetSourceCount(); err == nil {
		health["sources"] = sourceCount
	}
	if itemCount, err := h.itemRepo.GetItemCount(); err == nil {
		health["items"] = itemCount
	}

	health["loaded_configurations"] = h.sourceCache.GetConfigCount()

	c.JSON(http.StatusOK, health)
}

func (h *Handler) GetStats(c *gin.Context) {
	configs := h.sourceCache.GetConfigs()

	stored := make(map[string]database.Source)
	if records, err := h.sourceRepo.GetSources(); err == nil {
		for _, record := range records {
			stored[record.Name] = record
		}
	} else {
		slog.Error("Database error", "operation", "get_sources", "error", err)
	}

	sources := make([]map[string]interface{}, 0, len(configs))
	for _, sourceConfig := range configs {
		info := map[string]interface{}{
			"name":    sourceConfig.Name,
			"kind":    sourceConfig.Kind,
			"enabled": sourceConfig.Settings.Enabled,
		}

		if record, ok := stored[sourceConfig.Name]; ok {
			info["title"] = record.Title
			if record.LastFetchedAt != nil {
				info["last_fetched_at"] = record.LastFetchedAt
			}
			if record.NextFetchAt != nil {
				info["next_fetch_at"] = record.NextFetchAt
			}
		}

		if stats, err := h.itemRepo.GetItemStats(sourceConfig.Name); err == nil {
			info["items"] = map[string]interface{}{
				"total":      stats.Total,
				"unique":     stats.Unique,
				"duplicates": stats.Duplicates,
			}
		}

		sources = append(sources, info)
	}

	c.JSON(http.StatusOK, map[string]interface{}{
		"sources": sources,
		"total":   len(sources),
	})
}

// GetTopFeed serves GET /feeds/top: an RSS 2.0 re-publication of the
// highest-ranked news items.
func (h *Handler) GetTopFeed(c *gin.Context) {
	items, err := h.itemRepo.GetUniqueItems(content.KindNews, searchWindow)
	if err != nil {
		slog.Error("Database error", "operation", "get_items", "error", err)
		c.Status(http.StatusInternalServerError)
		return
	}

	ranked := content.RankContent(items)
	limit := intQuery(c, "limit", 50)
	if limit > 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}

	channel := database.Source{
		Name:        "top",
		Title:       "Portal Autopropelidos",
		Description: "As principais noticias sobre equipamentos autopropelidos e a Resolucao 996 do CONTRAN",
		Language:    "pt-BR",
	}

	rss, err := h.generator.Run(channel, ranked)
	if err != nil {
		slog.Error("RSS generation error", "error", err)
		c.Status(http.StatusInternalServerError)
		return
	}

	c.Header("Content-Type", "application/xml; charset=utf-8")
	c.Header("X-Feed-Items", strconv.Itoa(len(ranked)))
	c.String(http.StatusOK, rss)
}

func (h *Handler) APIListSources(c *gin.Context) {
	configs := h.sourceCache.GetConfigs()

	sources := make([]map[string]interface{}, 0, len(configs))
	for _, sourceConfig := range configs {
		info := map[string]interface{}{
			"name":             sourceConfig.Name,
			"url":              sourceConfig.URL,
			"kind":             sourceConfig.Kind,
			"title":            "",
			"enabled":          sourceConfig.Settings.Enabled,
			"max_items":        sourceConfig.Settings.MaxItems,
			"refresh_interval": (time.Duration(sourceConfig.Settings.RefreshInterval) * time.Second).String(),
		}

		if source, err := h.sourceRepo.GetSource(sourceConfig.Name); err == nil && source != nil {
			info["title"] = source.Title
			info["last_fetched_at"] = source.LastFetchedAt
			info["next_fetch_at"] = source.NextFetchAt
			info["updated_at"] = source.UpdatedAt
		}

		sources = append(sources, info)
	}

	c.JSON(http.StatusOK, map[string]interface{}{
		"sources": sources,
		"total":   len(sources),
	})
}

func (h *Handler) APIGetSourceDetails(c *gin.Context) {
	name := c.Param("name")
	if name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing source name parameter"})
		return
	}

	sourceConfig, err := h.sourceCache.GetConfig(name)
	if err != nil {
		slog.Error("Source configuration not found", "source", name, "error", err)
		c.JSON(http.StatusNotFound, gin.H{"error": "Source configuration not found"})
		return
	}

	source, err := h.sourceRepo.GetSource(name)
	if err != nil {
		slog.Error("Database error", "operation", "get_source", "source", name, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	if source == nil {
		slog.Error("Source not found in database", "source", name)
		c.JSON(http.StatusNotFound, gin.H{"error": "Source not found in database"})
		return
	}

	details := map[string]interface{}{
		"name":             name,
		"url":              sourceConfig.URL,
		"kind":             sourceConfig.Kind,
		"category":         sourceConfig.Category,
		"title":            source.Title,
		"enabled":          sourceConfig.Settings.Enabled,
		"max_items":        sourceConfig.Settings.MaxItems,
		"refresh_interval": (time.Duration(sourceConfig.Settings.RefreshInterval) * time.Second).String(),
		"timeout":          (time.Duration(sourceConfig.Settings.Timeout) * time.Second).String(),
		"extract_content":  sourceConfig.Settings.ExtractContent,
	}

	details["database"] = map[string]interface{}{
		"last_fetched_at": source.LastFetchedAt,
		"next_fetch_at":   source.NextFetchAt,
		"created_at":      source.CreatedAt,
		"updated_at":      source.UpdatedAt,
	}

	if stats, err := h.itemRepo.GetItemStats(name); err == nil {
		details["items"] = map[string]interface{}{
			"total":      stats.Total,
			"unique":     stats.Unique,
			"duplicates": stats.Duplicates,
		}
	}

	c.JSON(http.StatusOK, details)
}

// APIRefreshSource enqueues an immediate fetch for one source.
func (h *Handler) APIRefreshSource(c *gin.Context) {
	name := c.Param("name")
	if name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing source name parameter"})
		return
	}

	sourceConfig, err := h.sourceCache.LoadConfig(name)
	if err != nil {
		slog.Error("Error reloading configuration", "source", name, "error", err)
		c.JSON(http.StatusNotFound, gin.H{
			"error":   "Source configuration not found",
			"details": err.Error(),
		})
		return
	}

	syncTask := tasks.NewSyncSourceTask(name, sourceConfig, h.sourceRepo)
	if err := h.scheduler.EnqueueTask(syncTask); err != nil {
		slog.Error("Error enqueueing sync task", "source", name, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to enqueue sync task",
			"details": err.Error(),
		})
		return
	}

	fetchTask := tasks.NewFetchSourceTask(name, sourceConfig, h.httpClient, h.parser, h.deduplicator, h.sourceRepo, h.itemRepo, h.userAgent)
	if err := h.scheduler.EnqueueTask(fetchTask); err != nil {
		slog.Error("Error enqueueing fetch task", "source", name, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to enqueue fetch task",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Configuration reloaded and fetch enqueued successfully",
		"source": gin.H{
			"name": name,
			"url":  sourceConfig.URL,
		},
	})
}

func intQuery(c *gin.Context, name string, fallback int) int {
	raw := c.Query(name)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}
