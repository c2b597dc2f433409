package content

// Content item types shared by the ingest pipeline, the search engine and the
// HTTP API. Timestamps travel as ISO-8601 strings; parsing is guarded so a
// malformed date never faults the pipeline (it is simply treated as old).

type Kind string

const (
	KindNews  Kind = "news"
	KindVideo Kind = "video"
)

type Category string

const (
	CategoryRegulation    Category = "regulation"
	CategorySafety        Category = "safety"
	CategoryTechnology    Category = "technology"
	CategoryUrbanMobility Category = "urban_mobility"
	CategoryGeneral       Category = "general"

	// CategoryAll is only valid inside filters, never on an item.
	CategoryAll Category = "all"
)

func ParseCategory(s string) (Category, bool) {
	switch Category(s) {
	case CategoryRegulation, CategorySafety, CategoryTechnology,
		CategoryUrbanMobility, CategoryGeneral, CategoryAll:
		return Category(s), true
	}
	return "", false
}

type SortKey string

const (
	SortByRelevance    SortKey = "relevance"
	SortByDate         SortKey = "date"
	SortByViews        SortKey = "views"
	SortByAlphabetical SortKey = "alphabetical"
)

func ParseSortKey(s string) (SortKey, bool) {
	switch SortKey(s) {
	case SortByRelevance, SortByDate, SortByViews, SortByAlphabetical:
		return SortKey(s), true
	}
	return "", false
}

type SortOrder string

const (
	OrderAsc  SortOrder = "asc"
	OrderDesc SortOrder = "desc"
)

type Item struct {
	ID          string   `json:"id"`
	Kind        Kind     `json:"kind"`
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	Content     string   `json:"content,omitempty"`
	URL         string   `json:"url"`
	ImageURL    string   `json:"image_url,omitempty"`
	Source      string   `json:"source,omitempty"`
	Channel     string   `json:"channel,omitempty"`
	VideoID     string   `json:"video_id,omitempty"`
	Category    Category `json:"category"`
	Tags        []string `json:"tags,omitempty"`
	Views       int      `json:"views"`
	PublishedAt string   `json:"published_at,omitempty"`
	CreatedAt   string   `json:"created_at,omitempty"`

	RelevanceScore float64 `json:"relevance_score"`
	QualityScore   float64 `json:"quality_score"`
	FinalScore     float64 `json:"final_score"`
}

// SourceName returns the attribution field used for exact source filtering:
// the outlet name for news, the channel name for videos.
func (i Item) SourceName() string {
	if i.Kind == KindVideo && i.Channel != "" {
		return i.Channel
	}
	return i.Source
}

type Filters struct {
	Categories   []Category
	DateFrom     string // ISO-8601, inclusive
	DateTo       string // ISO-8601, inclusive
	Tags         []string
	MinRelevance *float64
	Source       string
}

type Query struct {
	Text      string
	Fields    []string
	Filters   *Filters
	SortBy    SortKey
	SortOrder SortOrder
	Page      int
	Limit     int
}

type Result struct {
	Items       []Item `json:"items"`
	Total       int    `json:"total"`
	Page        int    `json:"page"`
	Limit       int    `json:"limit"`
	HasNext     bool   `json:"hasNext"`
	HasPrevious bool   `json:"hasPrevious"`
	TotalPages  int    `json:"totalPages"`
}

type DuplicateReason string

const (
	ReasonIdenticalURL       DuplicateReason = "identical_url"
	ReasonIdenticalVideo     DuplicateReason = "identical_video"
	ReasonSimilarTitle       DuplicateReason = "similar_title"
	ReasonSimilarDescription DuplicateReason = "similar_description"
	ReasonSimilarKeywords    DuplicateReason = "similar_keywords"
)

// DuplicateEdge records why a candidate was rejected in favor of an item
// already accepted as unique. Produced transiently during deduplication.
type DuplicateEdge struct {
	Original   Item            `json:"original"`
	Duplicate  Item            `json:"duplicate"`
	Similarity float64         `json:"similarity"`
	Reason     DuplicateReason `json:"reason"`
}

type DedupResult struct {
	Unique     []Item          `json:"unique"`
	Duplicates []DuplicateEdge `json:"duplicates"`
}
