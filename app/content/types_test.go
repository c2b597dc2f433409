package content

import "testing"

func TestParseCategory(t *testing.T) {
	valid := []string{"regulation", "safety", "technology", "urban_mobility", "general", "all"}
	for _, value := range valid {
		if _, ok := ParseCategory(value); !ok {
			t.Errorf("Expected %q to parse", value)
		}
	}

	if _, ok := ParseCategory("sports"); ok {
		t.Error("Expected unknown category to be rejected")
	}
	if _, ok := ParseCategory("Regulation"); ok {
		t.Error("Expected category parsing to be case sensitive")
	}
}

func TestParseSortKey(t *testing.T) {
	valid := []string{"relevance", "date", "views", "alphabetical"}
	for _, value := range valid {
		if _, ok := ParseSortKey(value); !ok {
			t.Errorf("Expected %q to parse", value)
		}
	}

	if _, ok := ParseSortKey("random"); ok {
		t.Error("Expected unknown sort key to be rejected")
	}
}

func TestItemSourceName(t *testing.T) {
	news := Item{Kind: KindNews, Source: "Portal do Trânsito"}
	if news.SourceName() != "Portal do Trânsito" {
		t.Errorf("Expected outlet name for news, got %q", news.SourceName())
	}

	video := Item{Kind: KindVideo, Source: "youtube", Channel: "Canal Patinete"}
	if video.SourceName() != "Canal Patinete" {
		t.Errorf("Expected channel name for videos, got %q", video.SourceName())
	}

	bare := Item{Kind: KindVideo, Source: "youtube"}
	if bare.SourceName() != "youtube" {
		t.Errorf("Expected source fallback when channel is empty, got %q", bare.SourceName())
	}
}
