package content

import (
	"sort"
	"strings"
)

const DefaultPageSize = 20

// Engine runs free-text ranking, structured filtering, sorting and
// pagination over an in-memory batch of items. It never mutates its input
// and is safe for concurrent use.
type Engine struct{}

func NewEngine() *Engine {
	return &Engine{}
}

// Search applies, in order: text-relevance ranking (dropping zero-score
// items), structured filters, an optional explicit sort and pagination.
// An explicit SortBy overrides the relevance ordering from the text phase.
// All inputs are total: empty collections, empty queries and out-of-range
// pages yield empty results, never errors.
func (e *Engine) Search(items []Item, q Query) Result {
	page, limit := normalizePagination(q.Page, q.Limit)

	fields := q.Fields
	if len(fields) == 0 {
		fields = DefaultSearchFields
	}

	matched := make([]Item, 0, len(items))
	if text := strings.TrimSpace(q.Text); text != "" {
		terms := strings.Fields(text)
		type scored struct {
			item  Item
			score float64
		}
		hits := make([]scored, 0, len(items))
		for _, item := range items {
			score := Score(terms, item, fields)
			if score <= 0 {
				continue
			}
			hits = append(hits, scored{item: item, score: score})
		}
		sort.SliceStable(hits, func(i, j int) bool {
			return hits[i].score > hits[j].score
		})
		for _, hit := range hits {
			matched = append(matched, hit.item)
		}
	} else {
		matched = append(matched, items...)
	}

	if q.Filters != nil {
		matched = applyFilters(matched, q.Filters)
	}

	if q.SortBy != "" {
		sortItems(matched, q.SortBy, q.SortOrder)
	}

	total := len(matched)

	offset := (page - 1) * limit
	var pageItems []Item
	if offset < total {
		end := offset + limit
		if end > total {
			end = total
		}
		pageItems = append(pageItems, matched[offset:end]...)
	} else {
		pageItems = []Item{}
	}

	return Result{
		Items:       pageItems,
		Total:       total,
		Page:        page,
		Limit:       limit,
		HasNext:     page*limit < total,
		HasPrevious: page > 1,
		TotalPages:  (total + limit - 1) / limit,
	}
}

// Paginate slices an already-ordered collection into the same envelope
// Search returns. Used by the listing endpoints after RankContent.
func (e *Engine) Paginate(items []Item, page, limit int) Result {
	return e.Search(items, Query{Page: page, Limit: limit})
}

func normalizePagination(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit <= 0 {
		limit = DefaultPageSize
	}
	return page, limit
}

func applyFilters(items []Item, f *Filters) []Item {
	minDate, hasMin := ParseTime(f.DateFrom)
	maxDate, hasMax := ParseTime(f.DateTo)

	filtered := make([]Item, 0, len(items))
	for _, item := range items {
		if !matchesCategories(item, f.Categories) {
			continue
		}
		if hasMin || hasMax {
			t, ok := ItemTime(item)
			if !ok {
				// Undated items count as infinitely old: outside any range
				// with a lower bound, inside an open-start one.
				if hasMin {
					continue
				}
			} else {
				if hasMin && t.Before(minDate) {
					continue
				}
				if hasMax && t.After(maxDate) {
					continue
				}
			}
		}
		if len(f.Tags) > 0 && !matchesTags(item.Tags, f.Tags) {
			continue
		}
		if f.MinRelevance != nil && item.RelevanceScore < *f.MinRelevance {
			continue
		}
		if f.Source != "" && item.SourceName() != f.Source {
			continue
		}
		filtered = append(filtered, item)
	}

	return filtered
}

func matchesCategories(item Item, categories []Category) bool {
	if len(categories) == 0 {
		return true
	}
	for _, c := range categories {
		if c == CategoryAll || c == item.Category {
			return true
		}
	}
	return false
}

// matchesTags reports whether any item tag appears in the filter list,
// compared in normalized form.
func matchesTags(itemTags, filterTags []string) bool {
	wanted := make(map[string]bool, len(filterTags))
	for _, t := range filterTags {
		if n := Normalize(t); n != "" {
			wanted[n] = true
		}
	}
	for _, t := range itemTags {
		if wanted[Normalize(t)] {
			return true
		}
	}
	return false
}

func sortItems(items []Item, key SortKey, order SortOrder) {
	desc := order != OrderAsc

	if key == SortByDate {
		// Items without a parseable date sort last in either direction.
		sort.SliceStable(items, func(a, b int) bool {
			ti, iok := ItemTime(items[a])
			tj, jok := ItemTime(items[b])
			if iok != jok {
				return iok
			}
			if !iok {
				return false
			}
			if desc {
				return tj.Before(ti)
			}
			return ti.Before(tj)
		})
		return
	}

	var less func(i, j Item) bool
	switch key {
	case SortByRelevance:
		less = func(i, j Item) bool { return i.RelevanceScore < j.RelevanceScore }
	case SortByViews:
		less = func(i, j Item) bool { return i.Views < j.Views }
	case SortByAlphabetical:
		less = func(i, j Item) bool { return i.Title < j.Title }
	default:
		return
	}

	sort.SliceStable(items, func(a, b int) bool {
		if desc {
			return less(items[b], items[a])
		}
		return less(items[a], items[b])
	})
}
