package database

import (
	"database/sql"
	"fmt"
	"time"
)

var _ SourceRepository = (*SourceRepositoryImpl)(nil)

type SourceRepositoryImpl struct {
	db *DB
}

func NewSourceRepository(db *DB) *SourceRepositoryImpl {
	return &SourceRepositoryImpl{db: db}
}

func (r *SourceRepositoryImpl) UpsertSource(sourceName, sourceURL, kind string) error {
	_, err := r.db.Exec(`
		INSERT INTO sources (name, url, kind)
		VALUES (?, ?, ?)
		ON CONFLICT (name) DO UPDATE SET
			url = excluded.url,
			kind = excluded.kind,
			updated_at = strftime('%Y-%m-%dT%H:%M:%SZ', 'now')
	`, sourceName, sourceURL, kind)
	if err != nil {
		return fmt.Errorf("failed to upsert source: %w", err)
	}
	return nil
}

func (r *SourceRepositoryImpl) UpdateSourceMetadata(sourceName string, title string, link string,
	description string, imageURL string, language string, feedPublishedAt *time.Time, nextFetch time.Time) error {

	now := time.Now().UTC()
	_, err := r.db.Exec(`
		UPDATE sources
		SET title = ?, link = ?, description = ?, image_url = ?, language = ?,
			feed_published_at = ?, last_fetched_at = ?, next_fetch_at = ?,
			updated_at = ?
		WHERE name = ?
	`, title, link, description, imageURL, language,
		formatNullableTime(feedPublishedAt), formatTime(now), formatTime(nextFetch),
		formatTime(now), sourceName)
	if err != nil {
		return fmt.Errorf("failed to update source metadata: %w", err)
	}
	return nil
}

func (r *SourceRepositoryImpl) GetSource(sourceName string) (*Source, error) {
	row := r.db.QueryRow(`
		SELECT name, url, kind, title, link, description, image_url, language,
			feed_published_at, last_fetched_at, next_fetch_at, created_at, updated_at
		FROM sources
		WHERE name = ?
	`, sourceName)

	source, err := scanSource(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get source: %w", err)
	}
	return source, nil
}

func (r *SourceRepositoryImpl) GetSources() ([]Source, error) {
	rows, err := r.db.Query(`
		SELECT name, url, kind, title, link, description, image_url, language,
			feed_published_at, last_fetched_at, next_fetch_at, created_at, updated_at
		FROM sources
		ORDER BY name
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to get sources: %w", err)
	}
	defer rows.Close()

	var sources []Source
	for rows.Next() {
		source, err := scanSource(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan source row: %w", err)
		}
		sources = append(sources, *source)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating source rows: %w", err)
	}

	return sources, nil
}

func (r *SourceRepositoryImpl) GetSourceCount() (int, error) {
	var count int
	err := r.db.QueryRow("SELECT COUNT(*) FROM sources").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to get source count: %w", err)
	}
	return count, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSource(row rowScanner) (*Source, error) {
	var source Source
	var feedPublishedAt, lastFetchedAt, nextFetchAt sql.NullString
	var createdAt, updatedAt string

	err := row.Scan(
		&source.Name, &source.URL, &source.Kind, &source.Title, &source.Link,
		&source.Description, &source.ImageURL, &source.Language,
		&feedPublishedAt, &lastFetchedAt, &nextFetchAt, &createdAt, &updatedAt,
	)
	if err != nil {
		return nil, err
	}

	source.FeedPublishedAt = parseNullableTime(feedPublishedAt)
	source.LastFetchedAt = parseNullableTime(lastFetchedAt)
	source.NextFetchAt = parseNullableTime(nextFetchAt)
	source.CreatedAt = parseTimeOrZero(createdAt)
	source.UpdatedAt = parseTimeOrZero(updatedAt)

	return &source, nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

func formatNullableTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return formatTime(*t)
}

func parseNullableTime(value sql.NullString) *time.Time {
	if !value.Valid || value.String == "" {
		return nil
	}
	t, err := time.Parse(time.RFC3339, value.String)
	if err != nil {
		return nil
	}
	return &t
}

func parseTimeOrZero(value string) time.Time {
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}
	}
	return t
}
