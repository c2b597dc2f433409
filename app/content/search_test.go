package content

import "testing"

func TestSearch_TextQueryKeepsOnlyMatches(t *testing.T) {
	engine := NewEngine()
	items := []Item{
		{ID: "1", Title: "Como usar patinete elétrico com segurança"},
		{ID: "2", Title: "Receita de bolo de cenoura"},
	}

	result := engine.Search(items, Query{Text: "patinete elétrico"})

	if result.Total != 1 {
		t.Fatalf("Expected total 1, got %d", result.Total)
	}
	if len(result.Items) != 1 || result.Items[0].ID != "1" {
		t.Errorf("Expected only the matching item, got %+v", result.Items)
	}
	if result.Page != 1 {
		t.Errorf("Expected page 1, got %d", result.Page)
	}
}

func TestSearch_EmptyCollection(t *testing.T) {
	engine := NewEngine()

	result := engine.Search([]Item{}, Query{Text: "anything"})

	if result.Total != 0 {
		t.Errorf("Expected total 0, got %d", result.Total)
	}
	if len(result.Items) != 0 {
		t.Errorf("Expected no items, got %d", len(result.Items))
	}
	if result.HasNext || result.HasPrevious {
		t.Error("Expected hasNext and hasPrevious to be false")
	}
	if result.TotalPages != 0 {
		t.Errorf("Expected 0 total pages, got %d", result.TotalPages)
	}
}

func TestSearch_RanksByScoreDescending(t *testing.T) {
	engine := NewEngine()
	items := []Item{
		{ID: "weak", Description: "algo sobre patinete"},
		{ID: "strong", Title: "Patinete elétrico", Description: "tudo sobre patinete"},
	}

	result := engine.Search(items, Query{Text: "patinete"})

	if len(result.Items) != 2 {
		t.Fatalf("Expected 2 items, got %d", len(result.Items))
	}
	if result.Items[0].ID != "strong" {
		t.Errorf("Expected strongest match first, got %s", result.Items[0].ID)
	}
}

func TestSearch_EmptyQueryPreservesOrder(t *testing.T) {
	engine := NewEngine()
	items := []Item{{ID: "a"}, {ID: "b"}, {ID: "c"}}

	result := engine.Search(items, Query{})

	if len(result.Items) != 3 {
		t.Fatalf("Expected 3 items, got %d", len(result.Items))
	}
	for i, id := range []string{"a", "b", "c"} {
		if result.Items[i].ID != id {
			t.Errorf("Position %d: expected %s, got %s", i, id, result.Items[i].ID)
		}
	}
}

func TestSearch_Pagination(t *testing.T) {
	engine := NewEngine()
	items := []Item{{ID: "1"}, {ID: "2"}, {ID: "3"}, {ID: "4"}, {ID: "5"}}

	first := engine.Search(items, Query{Page: 1, Limit: 2})
	if first.Total != 5 || len(first.Items) != 2 {
		t.Errorf("Page 1: expected total 5 with 2 items, got total %d with %d items", first.Total, len(first.Items))
	}
	if !first.HasNext || first.HasPrevious {
		t.Error("Page 1: expected hasNext true, hasPrevious false")
	}
	if first.TotalPages != 3 {
		t.Errorf("Expected 3 total pages, got %d", first.TotalPages)
	}

	last := engine.Search(items, Query{Page: 3, Limit: 2})
	if len(last.Items) != 1 || last.Items[0].ID != "5" {
		t.Errorf("Page 3: expected the final item, got %+v", last.Items)
	}
	if last.HasNext || !last.HasPrevious {
		t.Error("Page 3: expected hasNext false, hasPrevious true")
	}

	beyond := engine.Search(items, Query{Page: 4, Limit: 2})
	if len(beyond.Items) != 0 {
		t.Errorf("Out-of-range page: expected no items, got %d", len(beyond.Items))
	}
	if beyond.Total != 5 {
		t.Errorf("Out-of-range page: expected total 5, got %d", beyond.Total)
	}
}

func TestSearch_NormalizesInvalidPagination(t *testing.T) {
	engine := NewEngine()
	items := []Item{{ID: "1"}}

	result := engine.Search(items, Query{Page: -3, Limit: 0})

	if result.Page != 1 {
		t.Errorf("Expected page normalized to 1, got %d", result.Page)
	}
	if result.Limit != DefaultPageSize {
		t.Errorf("Expected limit normalized to %d, got %d", DefaultPageSize, result.Limit)
	}
}

func TestSearch_CategoryFilter(t *testing.T) {
	engine := NewEngine()
	items := []Item{
		{ID: "1", Category: CategoryRegulation},
		{ID: "2", Category: CategorySafety},
		{ID: "3", Category: CategoryGeneral},
	}

	result := engine.Search(items, Query{Filters: &Filters{Categories: []Category{CategoryRegulation, CategorySafety}}})
	if result.Total != 2 {
		t.Errorf("Expected 2 items, got %d", result.Total)
	}

	all := engine.Search(items, Query{Filters: &Filters{Categories: []Category{CategoryAll}}})
	if all.Total != 3 {
		t.Errorf("Expected category 'all' to match everything, got %d", all.Total)
	}
}

func TestSearch_DateRangeFilterInclusive(t *testing.T) {
	engine := NewEngine()
	items := []Item{
		{ID: "before", PublishedAt: "2025-05-31T23:59:59Z"},
		{ID: "start", PublishedAt: "2025-06-01T00:00:00Z"},
		{ID: "end", PublishedAt: "2025-06-30T00:00:00Z"},
		{ID: "after", PublishedAt: "2025-07-01T00:00:00Z"},
		{ID: "undated"},
	}

	result := engine.Search(items, Query{Filters: &Filters{
		DateFrom: "2025-06-01T00:00:00Z",
		DateTo:   "2025-06-30T00:00:00Z",
	}})

	if result.Total != 2 {
		t.Fatalf("Expected 2 items in range, got %d", result.Total)
	}
	if result.Items[0].ID != "start" || result.Items[1].ID != "end" {
		t.Errorf("Expected boundary items to be included, got %+v", result.Items)
	}
}

func TestSearch_OpenStartDateRangeKeepsUndated(t *testing.T) {
	engine := NewEngine()
	items := []Item{
		{ID: "dated", PublishedAt: "2025-06-15T00:00:00Z"},
		{ID: "late", PublishedAt: "2025-07-15T00:00:00Z"},
		{ID: "undated"},
		{ID: "broken", PublishedAt: "not a date"},
	}

	// Only an upper bound: undated items are infinitely old and belong in
	// the range.
	upperOnly := engine.Search(items, Query{Filters: &Filters{DateTo: "2025-06-30T00:00:00Z"}})
	if upperOnly.Total != 3 {
		t.Errorf("Expected dated, undated and broken items, got %+v", ids(upperOnly.Items))
	}

	// A lower bound excludes them.
	lowerOnly := engine.Search(items, Query{Filters: &Filters{DateFrom: "2025-06-01T00:00:00Z"}})
	if lowerOnly.Total != 2 {
		t.Errorf("Expected only the dated items, got %+v", ids(lowerOnly.Items))
	}
}

func TestSearch_TagFilterNormalized(t *testing.T) {
	engine := NewEngine()
	items := []Item{
		{ID: "1", Tags: []string{"segurança"}},
		{ID: "2", Tags: []string{"bateria"}},
	}

	result := engine.Search(items, Query{Filters: &Filters{Tags: []string{"SEGURANCA"}}})

	if result.Total != 1 || result.Items[0].ID != "1" {
		t.Errorf("Expected accent and case insensitive tag match, got %+v", result.Items)
	}
}

func TestSearch_MinRelevanceFilter(t *testing.T) {
	engine := NewEngine()
	min := 50.0
	items := []Item{
		{ID: "low", RelevanceScore: 30},
		{ID: "high", RelevanceScore: 80},
	}

	result := engine.Search(items, Query{Filters: &Filters{MinRelevance: &min}})

	if result.Total != 1 || result.Items[0].ID != "high" {
		t.Errorf("Expected only the high-relevance item, got %+v", result.Items)
	}
}

func TestSearch_SourceFilterUsesChannelForVideos(t *testing.T) {
	engine := NewEngine()
	items := []Item{
		{ID: "news", Kind: KindNews, Source: "Portal do Trânsito"},
		{ID: "video", Kind: KindVideo, Source: "youtube", Channel: "Canal Patinete"},
	}

	result := engine.Search(items, Query{Filters: &Filters{Source: "Canal Patinete"}})

	if result.Total != 1 || result.Items[0].ID != "video" {
		t.Errorf("Expected the video matched by channel name, got %+v", result.Items)
	}
}

func TestSearch_ExplicitSortOverridesRelevance(t *testing.T) {
	engine := NewEngine()
	items := []Item{
		{ID: "zebra", Title: "Zebra patinete patinete"},
		{ID: "alpha", Title: "Alpha patinete"},
	}

	result := engine.Search(items, Query{
		Text:      "patinete",
		SortBy:    SortByAlphabetical,
		SortOrder: OrderAsc,
	})

	if len(result.Items) != 2 {
		t.Fatalf("Expected 2 items, got %d", len(result.Items))
	}
	if result.Items[0].ID != "alpha" {
		t.Errorf("Expected alphabetical order to win over relevance, got %s first", result.Items[0].ID)
	}
}

func TestSearch_SortByViewsDefaultsDescending(t *testing.T) {
	engine := NewEngine()
	items := []Item{
		{ID: "few", Views: 10},
		{ID: "many", Views: 1000},
	}

	result := engine.Search(items, Query{SortBy: SortByViews})

	if result.Items[0].ID != "many" {
		t.Errorf("Expected most viewed first, got %s", result.Items[0].ID)
	}
}

func TestSearch_DateSortPutsMalformedLast(t *testing.T) {
	engine := NewEngine()
	items := []Item{
		{ID: "broken", PublishedAt: "not a date"},
		{ID: "old", PublishedAt: "2025-01-01T00:00:00Z"},
		{ID: "new", PublishedAt: "2025-06-01T00:00:00Z"},
	}

	desc := engine.Search(items, Query{SortBy: SortByDate, SortOrder: OrderDesc})
	if desc.Items[0].ID != "new" || desc.Items[2].ID != "broken" {
		t.Errorf("Descending: expected new first and broken last, got %+v", ids(desc.Items))
	}

	asc := engine.Search(items, Query{SortBy: SortByDate, SortOrder: OrderAsc})
	if asc.Items[0].ID != "old" || asc.Items[2].ID != "broken" {
		t.Errorf("Ascending: expected old first and broken last, got %+v", ids(asc.Items))
	}
}

func TestSearch_DoesNotMutateInput(t *testing.T) {
	engine := NewEngine()
	items := []Item{{ID: "b", Views: 1}, {ID: "a", Views: 2}}

	engine.Search(items, Query{SortBy: SortByViews})

	if items[0].ID != "b" {
		t.Errorf("Expected input order untouched, got %s first", items[0].ID)
	}
}

func TestPaginate(t *testing.T) {
	engine := NewEngine()
	items := []Item{{ID: "1"}, {ID: "2"}, {ID: "3"}}

	result := engine.Paginate(items, 2, 2)

	if len(result.Items) != 1 || result.Items[0].ID != "3" {
		t.Errorf("Expected the last item on page 2, got %+v", result.Items)
	}
	if result.Total != 3 {
		t.Errorf("Expected total 3, got %d", result.Total)
	}
}

func ids(items []Item) []string {
	out := make([]string, len(items))
	for i, item := range items {
		out[i] = item.ID
	}
	return out
}
