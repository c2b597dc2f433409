package content

import (
	"sort"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"
)

// trustedOutlets are matched as substrings against the lowercased source
// name and URL. Major Brazilian outlets plus official traffic authorities.
var trustedOutlets = []string{
	"g1.globo.com",
	"globo.com",
	"uol.com.br",
	"folha.uol",
	"estadao.com.br",
	"terra.com.br",
	"r7.com",
	"cnnbrasil.com.br",
	"gov.br",
	"contran",
	"denatran",
	"detran",
	"senatran",
	"portal do transito",
	"portaldotransito",
}

var clickbaitMarkers = []string{"click", "incrivel"}

// Quality computes the heuristic editorial-quality score of an item,
// clamped to [0,100]. Purely additive/subtractive; every input combination
// is accepted, missing fields simply contribute nothing.
func Quality(item Item) float64 {
	return QualityAt(item, time.Now().UTC())
}

// QualityAt is Quality with an explicit reference time for the recency
// brackets, used by tests and the periodic rescore task.
func QualityAt(item Item, now time.Time) float64 {
	var score float64

	titleLen := utf8.RuneCountInString(item.Title)
	if titleLen >= 20 && titleLen <= 100 {
		score += 20
	}
	if item.Title != "" {
		first, _ := utf8.DecodeRuneInString(item.Title)
		if unicode.IsLetter(first) && !unicode.IsUpper(first) {
			score -= 5
		}
	}
	if strings.ContainsAny(item.Title, "?!") {
		score += 5
	}

	descLen := utf8.RuneCountInString(item.Description)
	if descLen >= 50 {
		score += 15
	}
	if descLen >= 150 {
		score += 10
	}

	if isTrustedSource(item) {
		score += 25
	}

	if strings.HasPrefix(item.ImageURL, "http") {
		score += 10
	}

	if item.Category == CategoryRegulation || item.Category == CategorySafety {
		score += 15
	}

	score += recencyBonus(item, now)

	normalizedTitle := Normalize(item.Title)
	for _, marker := range clickbaitMarkers {
		if strings.Contains(normalizedTitle, marker) {
			score -= 15
			break
		}
	}

	return Clamp(score)
}

// RankContent annotates each item with its quality score and a final score
// of (relevance+quality)/2, then sorts descending by final score. Ties keep
// input order. The input slice is not touched.
func RankContent(items []Item) []Item {
	now := time.Now().UTC()

	ranked := make([]Item, len(items))
	copy(ranked, items)

	for i := range ranked {
		ranked[i].QualityScore = QualityAt(ranked[i], now)
		ranked[i].FinalScore = (ranked[i].RelevanceScore + ranked[i].QualityScore) / 2
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].FinalScore > ranked[j].FinalScore
	})

	return ranked
}

// Clamp bounds a score to [0,100].
func Clamp(score float64) float64 {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

func isTrustedSource(item Item) bool {
	haystack := strings.ToLower(item.SourceName() + " " + item.URL)
	for _, outlet := range trustedOutlets {
		if strings.Contains(haystack, outlet) {
			return true
		}
	}
	return false
}

// recencyBonus awards the most-recent bracket only: up to one day +20, up
// to seven days +15, up to thirty days +10. Items with an unparseable or
// future-only published date get nothing.
func recencyBonus(item Item, now time.Time) float64 {
	published, ok := ParseTime(item.PublishedAt)
	if !ok {
		return 0
	}

	age := now.Sub(published)
	if age < 0 {
		age = 0
	}

	switch {
	case age <= 24*time.Hour:
		return 20
	case age <= 7*24*time.Hour:
		return 15
	case age <= 30*24*time.Hour:
		return 10
	default:
		return 0
	}
}
