package database

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/autopropelidos/portal-996/app/content"
)

var _ ItemRepository = (*ItemRepositoryImpl)(nil)

type ItemRepositoryImpl struct {
	db *DB
}

func NewItemRepository(db *DB) *ItemRepositoryImpl {
	return &ItemRepositoryImpl{db: db}
}

const itemColumns = `id, kind, title, description, content, url, image_url,
	source, channel, video_id, category, tags, views, published_at,
	relevance_score, quality_score, created_at`

func (r *ItemRepositoryImpl) UpsertItem(sourceName string, item content.Item) error {
	tags, err := json.Marshal(item.Tags)
	if err != nil {
		return fmt.Errorf("failed to encode tags: %w", err)
	}

	_, err = r.db.Exec(`
		INSERT INTO items (
			id, source_name, kind, title, description, content, url, image_url,
			source, channel, video_id, category, tags, views, published_at,
			relevance_score, quality_score, extraction_status
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			title = excluded.title,
			description = excluded.description,
			url = excluded.url,
			image_url = excluded.image_url,
			category = excluded.category,
			tags = excluded.tags,
			views = excluded.views,
			published_at = excluded.published_at,
			relevance_score = excluded.relevance_score,
			quality_score = excluded.quality_score
	`, item.ID, sourceName, string(item.Kind), item.Title, item.Description,
		item.Content, item.URL, item.ImageURL, item.Source, item.Channel,
		item.VideoID, string(item.Category), string(tags), item.Views,
		item.PublishedAt, item.RelevanceScore, item.QualityScore,
		extractionStatusFor(item))
	if err != nil {
		return fmt.Errorf("failed to upsert item: %w", err)
	}

	return nil
}

// extractionStatusFor marks items that still need a readability pass.
func extractionStatusFor(item content.Item) string {
	if item.Kind == content.KindNews && item.Content == "" && item.URL != "" {
		return "pending"
	}
	return "skipped"
}

// UpsertDuplicate stores a rejected candidate with its dedup verdict, kept
// for the stats endpoint and for idempotent re-ingestion.
func (r *ItemRepositoryImpl) UpsertDuplicate(sourceName string, edge content.DuplicateEdge) error {
	item := edge.Duplicate
	tags, err := json.Marshal(item.Tags)
	if err != nil {
		return fmt.Errorf("failed to encode tags: %w", err)
	}

	_, err = r.db.Exec(`
		INSERT INTO items (
			id, source_name, kind, title, description, content, url, image_url,
			source, channel, video_id, category, tags, views, published_at,
			relevance_score, quality_score,
			is_duplicate, duplicate_of, duplicate_reason, similarity
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, 1, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			is_duplicate = 1,
			duplicate_of = excluded.duplicate_of,
			duplicate_reason = excluded.duplicate_reason,
			similarity = excluded.similarity
	`, item.ID, sourceName, string(item.Kind), item.Title, item.Description,
		item.Content, item.URL, item.ImageURL, item.Source, item.Channel,
		item.VideoID, string(item.Category), string(tags), item.Views,
		item.PublishedAt, item.RelevanceScore, item.QualityScore,
		edge.Original.ID, string(edge.Reason), edge.Similarity)
	if err != nil {
		return fmt.Errorf("failed to upsert duplicate: %w", err)
	}

	return nil
}

// GetUniqueItems returns non-duplicate items, newest first. An empty kind
// returns both news and videos. Limit <= 0 means no limit.
func (r *ItemRepositoryImpl) GetUniqueItems(kind content.Kind, limit int) ([]content.Item, error) {
	query := `
		SELECT ` + itemColumns + `
		FROM items
		WHERE is_duplicate = 0`
	args := []any{}

	if kind != "" {
		query += " AND kind = ?"
		args = append(args, string(kind))
	}

	query += `
		ORDER BY CASE WHEN published_at = '' THEN created_at ELSE published_at END DESC`

	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	return r.queryItems(query, args...)
}

func (r *ItemRepositoryImpl) GetItemsBySource(sourceName string) ([]content.Item, error) {
	query := `
		SELECT ` + itemColumns + `
		FROM items
		WHERE source_name = ? AND is_duplicate = 0
		ORDER BY CASE WHEN published_at = '' THEN created_at ELSE published_at END DESC`

	return r.queryItems(query, sourceName)
}

func (r *ItemRepositoryImpl) GetItemCount() (int, error) {
	var count int
	err := r.db.QueryRow("SELECT COUNT(*) FROM items WHERE is_duplicate = 0").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to get item count: %w", err)
	}
	return count, nil
}

func (r *ItemRepositoryImpl) GetItemStats(sourceName string) (ItemStats, error) {
	var stats ItemStats
	err := r.db.QueryRow(`
		SELECT
			COUNT(*) AS total,
			COALESCE(SUM(CASE WHEN is_duplicate = 0 THEN 1 ELSE 0 END), 0) AS unique_count,
			COALESCE(SUM(CASE WHEN is_duplicate = 1 THEN 1 ELSE 0 END), 0) AS duplicate_count
		FROM items
		WHERE source_name = ?
	`, sourceName).Scan(&stats.Total, &stats.Unique, &stats.Duplicates)
	if err != nil {
		return ItemStats{}, fmt.Errorf("failed to get item stats: %w", err)
	}
	return stats, nil
}

func (r *ItemRepositoryImpl) UpdateScores(itemID string, relevanceScore, qualityScore float64) error {
	_, err := r.db.Exec(`
		UPDATE items
		SET relevance_score = ?, quality_score = ?
		WHERE id = ?
	`, relevanceScore, qualityScore, itemID)
	if err != nil {
		return fmt.Errorf("failed to update scores: %w", err)
	}
	return nil
}

func (r *ItemRepositoryImpl) GetItemsForExtraction(sourceName string, limit int) ([]ExtractionItem, error) {
	rows, err := r.db.Query(`
		SELECT id, url
		FROM items
		WHERE source_name = ? AND is_duplicate = 0 AND extraction_status = 'pending' AND url != ''
		ORDER BY created_at DESC
		LIMIT ?
	`, sourceName, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get items for extraction: %w", err)
	}
	defer rows.Close()

	var items []ExtractionItem
	for rows.Next() {
		var item ExtractionItem
		if err := rows.Scan(&item.ID, &item.URL); err != nil {
			return nil, fmt.Errorf("failed to scan extraction row: %w", err)
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating extraction rows: %w", err)
	}

	return items, nil
}

func (r *ItemRepositoryImpl) UpdateExtractedContent(itemID string, body string, status string,
	extractedAt *time.Time, errorMsg string) error {

	_, err := r.db.Exec(`
		UPDATE items
		SET content = CASE WHEN ? != '' THEN ? ELSE content END,
			extraction_status = ?,
			extracted_at = ?,
			extraction_error = ?
		WHERE id = ?
	`, body, body, status, formatNullableTime(extractedAt), errorMsg, itemID)
	if err != nil {
		return fmt.Errorf("failed to update extracted content: %w", err)
	}
	return nil
}

func (r *ItemRepositoryImpl) queryItems(query string, args ...any) ([]content.Item, error) {
	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query items: %w", err)
	}
	defer rows.Close()

	var items []content.Item
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan item row: %w", err)
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating item rows: %w", err)
	}

	return items, nil
}

func scanItem(rows *sql.Rows) (content.Item, error) {
	var item content.Item
	var kind, category, tags string

	err := rows.Scan(
		&item.ID, &kind, &item.Title, &item.Description, &item.Content,
		&item.URL, &item.ImageURL, &item.Source, &item.Channel, &item.VideoID,
		&category, &tags, &item.Views, &item.PublishedAt,
		&item.RelevanceScore, &item.QualityScore, &item.CreatedAt,
	)
	if err != nil {
		return content.Item{}, err
	}

	item.Kind = content.Kind(kind)
	item.Category = content.Category(category)
	if tags != "" {
		if err := json.Unmarshal([]byte(tags), &item.Tags); err != nil {
			item.Tags = nil
		}
	}

	return item, nil
}
