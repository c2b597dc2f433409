package content

import "strings"

// Text-relevance scorer. Query terms arrive as raw whitespace-split words;
// all normalization happens here so callers never pre-process.

var DefaultSearchFields = []string{"title", "description", "tags"}

type fieldWeight struct {
	substring float64
	token     float64
}

func weightsFor(field string) fieldWeight {
	switch field {
	case "title":
		return fieldWeight{substring: 10, token: 3}
	case "description":
		return fieldWeight{substring: 5, token: 2}
	default:
		return fieldWeight{substring: 2, token: 1}
	}
}

func fieldText(item Item, field string) string {
	switch field {
	case "title":
		return item.Title
	case "description":
		return item.Description
	case "content":
		return item.Content
	case "tags":
		return strings.Join(item.Tags, " ")
	case "source":
		return item.SourceName()
	default:
		return ""
	}
}

// Score computes the weighted match score of an item against the query
// terms over the given fields. A zero score means no match at all; there is
// no upper bound, ranking is purely relative.
func Score(terms []string, item Item, fields []string) float64 {
	if len(terms) == 0 || len(fields) == 0 {
		return 0
	}

	var total float64
	for _, field := range fields {
		text := fieldText(item, field)
		if text == "" {
			continue
		}

		weight := weightsFor(field)
		normalized := Normalize(text)
		tokens := Tokenize(text)

		for _, raw := range terms {
			term := Normalize(raw)
			if term == "" {
				continue
			}

			if strings.Contains(normalized, term) {
				total += weight.substring
			}

			for _, token := range tokens {
				if strings.Contains(token, term) || strings.Contains(term, token) {
					total += weight.token
				}
			}
		}
	}

	return total
}
