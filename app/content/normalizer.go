package content

import (
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const minTokenLength = 3

// stripDiacritics decomposes to NFD, drops combining marks and recomposes.
var stripDiacritics = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// stopWords covers both Portuguese and English since upstream sources mix
// the two languages.
var stopWords = map[string]bool{
	// Portuguese
	"com": true, "como": true, "das": true, "dos": true, "ela": true,
	"ele": true, "elas": true, "eles": true, "entre": true, "era": true,
	"essa": true, "esse": true, "esta": true, "este": true, "isso": true,
	"mais": true, "mas": true, "nao": true, "nas": true, "nos": true,
	"para": true, "pela": true, "pelo": true, "por": true, "qual": true,
	"quando": true, "que": true, "quem": true, "sao": true, "sem": true,
	"ser": true, "seu": true, "sua": true, "tem": true, "uma": true,
	"voce": true, "foi": true, "pode": true, "sobre": true, "aos": true,
	// English
	"and": true, "are": true, "but": true, "for": true, "from": true,
	"has": true, "have": true, "its": true, "not": true, "the": true,
	"this": true, "that": true, "was": true, "with": true, "will": true,
	"you": true, "your": true, "all": true, "can": true, "how": true,
	"what": true, "when": true, "where": true, "who": true, "why": true,
}

// Normalize lowercases, strips diacritics, replaces every character that is
// not a letter, digit or space with a space, collapses runs of whitespace and
// trims. Deterministic and pure; empty input yields "".
func Normalize(text string) string {
	if text == "" {
		return ""
	}

	lowered := strings.ToLower(text)
	if stripped, _, err := transform.String(stripDiacritics, lowered); err == nil {
		lowered = stripped
	}

	var b strings.Builder
	b.Grow(len(lowered))
	for _, r := range lowered {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		} else {
			b.WriteRune(' ')
		}
	}

	return strings.Join(strings.Fields(b.String()), " ")
}

// Tokenize normalizes the text and splits it into terms, discarding tokens
// shorter than three characters and stop words.
func Tokenize(text string) []string {
	normalized := Normalize(text)
	if normalized == "" {
		return nil
	}

	fields := strings.Fields(normalized)
	tokens := make([]string, 0, len(fields))
	for _, field := range fields {
		if len([]rune(field)) < minTokenLength {
			continue
		}
		if stopWords[field] {
			continue
		}
		tokens = append(tokens, field)
	}

	return tokens
}

// ExtractKeywords tokenizes title and description together and returns up to
// max distinct tokens, preserving first-seen order.
func ExtractKeywords(title, description string, max int) []string {
	if max <= 0 {
		return nil
	}

	tokens := Tokenize(title + " " + description)
	seen := make(map[string]bool, len(tokens))
	keywords := make([]string, 0, max)
	for _, token := range tokens {
		if seen[token] {
			continue
		}
		seen[token] = true
		keywords = append(keywords, token)
		if len(keywords) == max {
			break
		}
	}

	return keywords
}

// publishedTimeLayouts lists the timestamp formats accepted from upstream
// records, tried in order.
var publishedTimeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseTime parses an ISO-8601-ish timestamp. Malformed or empty input
// returns ok=false; callers treat such items as infinitely old.
func ParseTime(value string) (time.Time, bool) {
	if value == "" {
		return time.Time{}, false
	}
	for _, layout := range publishedTimeLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// ItemTime returns the item's published timestamp, falling back to its
// creation timestamp when the published one is absent or malformed.
func ItemTime(item Item) (time.Time, bool) {
	if t, ok := ParseTime(item.PublishedAt); ok {
		return t, true
	}
	return ParseTime(item.CreatedAt)
}
