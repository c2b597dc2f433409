package tasks

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/autopropelidos/portal-996/app/content"
	"github.com/autopropelidos/portal-996/app/database"
	"github.com/autopropelidos/portal-996/app/fetch"
)

type memorySourceRepo struct {
	metadataTitle string
	nextFetchAt   time.Time
}

func (m *memorySourceRepo) GetSource(string) (*database.Source, error) { return nil, nil }
func (m *memorySourceRepo) GetSources() ([]database.Source, error)    { return nil, nil }
func (m *memorySourceRepo) GetSourceCount() (int, error)              { return 0, nil }
func (m *memorySourceRepo) UpsertSource(string, string, string) error { return nil }
func (m *memorySourceRepo) UpdateSourceMetadata(name string, title string, link string, description string,
	imageURL string, language string, feedPublishedAt *time.Time, nextFetch time.Time) error {
	m.metadataTitle = title
	m.nextFetchAt = nextFetch
	return nil
}

type memoryItemRepo struct {
	unique     map[string]content.Item
	duplicates map[string]content.DuplicateEdge
	scores     map[string][2]float64
}

func newMemoryItemRepo() *memoryItemRepo {
	return &memoryItemRepo{
		unique:     make(map[string]content.Item),
		duplicates: make(map[string]content.DuplicateEdge),
		scores:     make(map[string][2]float64),
	}
}

func (m *memoryItemRepo) GetUniqueItems(kind content.Kind, limit int) ([]content.Item, error) {
	items := make([]content.Item, 0, len(m.unique))
	for _, item := range m.unique {
		if kind == "" || item.Kind == kind {
			items = append(items, item)
		}
	}
	return items, nil
}
func (m *memoryItemRepo) GetItemsBySource(string) ([]content.Item, error) {
	return m.GetUniqueItems("", 0)
}
func (m *memoryItemRepo) GetItemCount() (int, error) { return len(m.unique), nil }
func (m *memoryItemRepo) GetItemStats(string) (database.ItemStats, error) {
	return database.ItemStats{
		Total:      len(m.unique) + len(m.duplicates),
		Unique:     len(m.unique),
		Duplicates: len(m.duplicates),
	}, nil
}
func (m *memoryItemRepo) UpsertItem(sourceName string, item content.Item) error {
	m.unique[item.ID] = item
	return nil
}
func (m *memoryItemRepo) UpsertDuplicate(sourceName string, edge content.DuplicateEdge) error {
	m.duplicates[edge.Duplicate.ID] = edge
	return nil
}
func (m *memoryItemRepo) UpdateScores(itemID string, relevanceScore, qualityScore float64) error {
	m.scores[itemID] = [2]float64{relevanceScore, qualityScore}
	if item, ok := m.unique[itemID]; ok {
		item.RelevanceScore = relevanceScore
		item.QualityScore = qualityScore
		m.unique[itemID] = item
	}
	return nil
}
func (m *memoryItemRepo) GetItemsForExtraction(string, int) ([]database.ExtractionItem, error) {
	return nil, nil
}
func (m *memoryItemRepo) UpdateExtractedContent(string, string, string, *time.Time, string) error {
	return nil
}

const fetchTestFeed = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
<channel>
<title>Portal Teste</title>
<link>https://portal.example</link>
<description>Feed de teste</description>
<item>
<title>CONTRAN aprova resolução sobre patinetes elétricos</title>
<link>https://portal.example/noticia-1</link>
<guid>guid-1</guid>
<description>Texto da primeira notícia sobre regulamentação de autopropelidos.</description>
</item>
<item>
<title>CONTRAN aprova resolução sobre patinetes elétricos!</title>
<link>https://portal.example/noticia-1-copia</link>
<guid>guid-2</guid>
<description>Texto replicado da primeira notícia sobre regulamentação.</description>
</item>
<item>
<title>Festival gastronômico movimenta o litoral neste feriado</title>
<link>https://portal.example/noticia-2</link>
<guid>guid-3</guid>
<description>Nada a ver com mobilidade, apenas gastronomia regional.</description>
</item>
</channel>
</rss>`

func newFetchTask(url string, itemRepo *memoryItemRepo, sourceRepo *memorySourceRepo) *FetchSourceTask {
	sourceConfig := &fetch.SourceConfig{
		Name: "portal-teste",
		URL:  url,
		Kind: content.KindNews,
		Settings: fetch.SourceSettings{
			Enabled:         true,
			RefreshInterval: 3600,
			MaxItems:        100,
			Timeout:         5,
		},
	}

	return NewFetchSourceTask("portal-teste", sourceConfig, http.DefaultClient,
		fetch.NewParser(), content.NewDeduplicator(), sourceRepo, itemRepo, "test-agent")
}

func TestFetchSourceTask_IngestsAndDeduplicates(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("User-Agent") != "test-agent" {
			t.Errorf("Expected configured user agent, got %q", r.Header.Get("User-Agent"))
		}
		w.Write([]byte(fetchTestFeed))
	}))
	defer server.Close()

	itemRepo := newMemoryItemRepo()
	sourceRepo := &memorySourceRepo{}
	task := newFetchTask(server.URL, itemRepo, sourceRepo)

	if err := task.Execute(context.Background()); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if sourceRepo.metadataTitle != "Portal Teste" {
		t.Errorf("Expected feed metadata stored, got %q", sourceRepo.metadataTitle)
	}
	if sourceRepo.nextFetchAt.IsZero() {
		t.Error("Expected next fetch time scheduled")
	}

	// Two unique stories; the near-identical title is flagged.
	if len(itemRepo.unique) != 2 {
		t.Errorf("Expected 2 unique items, got %d", len(itemRepo.unique))
	}
	if len(itemRepo.duplicates) != 1 {
		t.Fatalf("Expected 1 duplicate, got %d", len(itemRepo.duplicates))
	}

	for _, edge := range itemRepo.duplicates {
		if edge.Reason != content.ReasonSimilarTitle {
			t.Errorf("Expected reason %s, got %s", content.ReasonSimilarTitle, edge.Reason)
		}
	}

	for _, item := range itemRepo.unique {
		if item.Title == "" {
			t.Error("Expected parsed titles on stored items")
		}
	}
}

func TestFetchSourceTask_SecondRunAddsNothing(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(fetchTestFeed))
	}))
	defer server.Close()

	itemRepo := newMemoryItemRepo()
	sourceRepo := &memorySourceRepo{}

	if err := newFetchTask(server.URL, itemRepo, sourceRepo).Execute(context.Background()); err != nil {
		t.Fatalf("First run failed: %v", err)
	}
	uniqueAfterFirst := len(itemRepo.unique)

	if err := newFetchTask(server.URL, itemRepo, sourceRepo).Execute(context.Background()); err != nil {
		t.Fatalf("Second run failed: %v", err)
	}

	if len(itemRepo.unique) != uniqueAfterFirst {
		t.Errorf("Expected no new items on re-fetch, got %d then %d", uniqueAfterFirst, len(itemRepo.unique))
	}
}

func TestFetchSourceTask_DisabledSource(t *testing.T) {
	itemRepo := newMemoryItemRepo()
	task := newFetchTask("http://127.0.0.1:0/unreachable", itemRepo, &memorySourceRepo{})
	task.SourceConfig.Settings.Enabled = false

	if err := task.Execute(context.Background()); err != nil {
		t.Errorf("Expected disabled source to be a no-op, got %v", err)
	}
	if len(itemRepo.unique) != 0 {
		t.Errorf("Expected nothing stored, got %d items", len(itemRepo.unique))
	}
}

func TestFetchSourceTask_HTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	task := newFetchTask(server.URL, newMemoryItemRepo(), &memorySourceRepo{})

	if err := task.Execute(context.Background()); err == nil {
		t.Error("Expected an error for a 500 response")
	}
}

func TestFetchSourceTask_MaxItemsCap(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(fetchTestFeed))
	}))
	defer server.Close()

	itemRepo := newMemoryItemRepo()
	task := newFetchTask(server.URL, itemRepo, &memorySourceRepo{})
	task.SourceConfig.Settings.MaxItems = 1

	if err := task.Execute(context.Background()); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if total := len(itemRepo.unique) + len(itemRepo.duplicates); total != 1 {
		t.Errorf("Expected 1 stored item with the cap applied, got %d", total)
	}
}

func TestTaskRetryBookkeeping(t *testing.T) {
	task := NewTask(TaskTypeFetchSource, "portal-teste")

	if task.GetType() != TaskTypeFetchSource || task.GetSourceName() != "portal-teste" {
		t.Errorf("Unexpected task identity: %+v", task)
	}
	if task.GetID() == "" {
		t.Error("Expected a generated task ID")
	}
	if !task.CanRetry() {
		t.Error("Expected a fresh task to be retryable")
	}

	for i := 0; i < DefaultMaxRetries; i++ {
		task.IncrementRetryCount()
	}
	if task.CanRetry() {
		t.Error("Expected retries exhausted after reaching the maximum")
	}
	if task.GetRetryCount() != DefaultMaxRetries {
		t.Errorf("Expected retry count %d, got %d", DefaultMaxRetries, task.GetRetryCount())
	}
}

func TestRescoreContentTask_UpdatesDriftedScores(t *testing.T) {
	itemRepo := newMemoryItemRepo()
	itemRepo.unique["item-1"] = content.Item{
		ID:             "item-1",
		Kind:           content.KindNews,
		Title:          "Patinete elétrico em alta",
		RelevanceScore: 1,
		QualityScore:   1,
	}

	task := NewRescoreContentTask("portal-teste", itemRepo)
	if err := task.Execute(context.Background()); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	scores, ok := itemRepo.scores["item-1"]
	if !ok {
		t.Fatal("Expected the drifted item to be rescored")
	}
	if scores[0] <= 1 {
		t.Errorf("Expected a recomputed niche relevance above the stale value, got %v", scores[0])
	}
}
