package content

const (
	titleSimilarityThreshold       = 0.85
	descriptionSimilarityThreshold = 0.90
	videoTitleSimilarityThreshold  = 0.90
	keywordOverlapThreshold        = 0.75
	minSharedKeywords              = 3
	maxKeywordsPerItem             = 10
)

// Deduplicator flags near-duplicate items inside a batch. Comparison is
// pairwise against the accepted-unique set, so worst case is quadratic; batch
// sizes here are tens to low hundreds of items.
type Deduplicator struct{}

func NewDeduplicator() *Deduplicator {
	return &Deduplicator{}
}

// Run walks the batch in input order and compares every candidate against
// the items already accepted as unique. Tiers, in order: identical URL,
// title similarity, description similarity (only when both sides have one)
// and keyword overlap. The first matching tier wins. Input is not mutated.
func (d *Deduplicator) Run(items []Item) DedupResult {
	result := DedupResult{
		Unique:     make([]Item, 0, len(items)),
		Duplicates: []DuplicateEdge{},
	}

	for _, candidate := range items {
		edge, found := d.findDuplicate(result.Unique, candidate)
		if found {
			result.Duplicates = append(result.Duplicates, edge)
			continue
		}
		result.Unique = append(result.Unique, candidate)
	}

	return result
}

func (d *Deduplicator) findDuplicate(unique []Item, candidate Item) (DuplicateEdge, bool) {
	for _, accepted := range unique {
		if candidate.URL != "" && candidate.URL == accepted.URL {
			return DuplicateEdge{
				Original:   accepted,
				Duplicate:  candidate,
				Similarity: 1.0,
				Reason:     ReasonIdenticalURL,
			}, true
		}

		if sim := TitleSimilarity(candidate.Title, accepted.Title); sim > titleSimilarityThreshold {
			return DuplicateEdge{
				Original:   accepted,
				Duplicate:  candidate,
				Similarity: sim,
				Reason:     ReasonSimilarTitle,
			}, true
		}

		if candidate.Description != "" && accepted.Description != "" {
			if sim := Similarity(candidate.Description, accepted.Description); sim > descriptionSimilarityThreshold {
				return DuplicateEdge{
					Original:   accepted,
					Duplicate:  candidate,
					Similarity: sim,
					Reason:     ReasonSimilarDescription,
				}, true
			}
		}

		if ratio, shared := keywordOverlap(candidate, accepted); ratio > keywordOverlapThreshold && shared >= minSharedKeywords {
			return DuplicateEdge{
				Original:   accepted,
				Duplicate:  candidate,
				Similarity: ratio,
				Reason:     ReasonSimilarKeywords,
			}, true
		}
	}

	return DuplicateEdge{}, false
}

// RunVideos is the simpler variant for video records: a shared canonical
// video identifier or near-identical titles. No description or keyword tiers.
func (d *Deduplicator) RunVideos(items []Item) DedupResult {
	result := DedupResult{
		Unique:     make([]Item, 0, len(items)),
		Duplicates: []DuplicateEdge{},
	}

	for _, candidate := range items {
		edge, found := d.findVideoDuplicate(result.Unique, candidate)
		if found {
			result.Duplicates = append(result.Duplicates, edge)
			continue
		}
		result.Unique = append(result.Unique, candidate)
	}

	return result
}

func (d *Deduplicator) findVideoDuplicate(unique []Item, candidate Item) (DuplicateEdge, bool) {
	for _, accepted := range unique {
		if candidate.VideoID != "" && candidate.VideoID == accepted.VideoID {
			return DuplicateEdge{
				Original:   accepted,
				Duplicate:  candidate,
				Similarity: 1.0,
				Reason:     ReasonIdenticalVideo,
			}, true
		}

		if sim := TitleSimilarity(candidate.Title, accepted.Title); sim > videoTitleSimilarityThreshold {
			return DuplicateEdge{
				Original:   accepted,
				Duplicate:  candidate,
				Similarity: sim,
				Reason:     ReasonSimilarTitle,
			}, true
		}
	}

	return DuplicateEdge{}, false
}

// TitleSimilarity measures how close two titles are. Headlines often carry
// the same words in a different order, which character-level edit distance
// scores as dissimilar, so the Levenshtein measure is combined with the
// overlap coefficient over the titles' token sets and the larger of the two
// wins.
func TitleSimilarity(a, b string) float64 {
	sim := Similarity(a, b)
	if overlap := tokenOverlap(Tokenize(a), Tokenize(b)); overlap > sim {
		sim = overlap
	}
	return sim
}

// tokenOverlap computes |intersection| / min(|A|,|B|) over two token lists
// treated as sets. Either list empty yields 0.
func tokenOverlap(a, b []string) float64 {
	setA := make(map[string]bool, len(a))
	for _, token := range a {
		setA[token] = true
	}
	setB := make(map[string]bool, len(b))
	for _, token := range b {
		setB[token] = true
	}
	if len(setA) == 0 || len(setB) == 0 {
		return 0
	}

	shared := 0
	for token := range setB {
		if setA[token] {
			shared++
		}
	}

	smallest := len(setA)
	if len(setB) < smallest {
		smallest = len(setB)
	}

	return float64(shared) / float64(smallest)
}

// Similarity returns the normalized Levenshtein similarity of two strings
// in [0,1]: 1 - distance/max(len). Both inputs are normalized first, so the
// measure ignores case, accents and punctuation. Symmetric by construction;
// two empty strings are identical.
func Similarity(a, b string) float64 {
	ra := []rune(Normalize(a))
	rb := []rune(Normalize(b))

	longest := len(ra)
	if len(rb) > longest {
		longest = len(rb)
	}
	if longest == 0 {
		return 1.0
	}

	return 1.0 - float64(levenshtein(ra, rb))/float64(longest)
}

// levenshtein computes edit distance with the classic two-row DP.
func levenshtein(a, b []rune) int {
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}

	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for j := 0; j <= len(b); j++ {
		prev[j] = j
	}

	for i := 1; i <= len(a); i++ {
		curr[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			curr[j] = min3(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}

	return prev[len(b)]
}

func min3(a, b, c int) int {
	m := a
	if b < m {
		m = b
	}
	if c < m {
		m = c
	}
	return m
}

// keywordOverlap computes the Jaccard-like ratio |intersection| / max(|A|,|B|) over
// the two items' extracted keyword sets, plus the raw intersection size.
func keywordOverlap(a, b Item) (float64, int) {
	ka := ExtractKeywords(a.Title, a.Description, maxKeywordsPerItem)
	kb := ExtractKeywords(b.Title, b.Description, maxKeywordsPerItem)
	if len(ka) == 0 || len(kb) == 0 {
		return 0, 0
	}

	set := make(map[string]bool, len(ka))
	for _, k := range ka {
		set[k] = true
	}

	shared := 0
	for _, k := range kb {
		if set[k] {
			shared++
		}
	}

	longest := len(ka)
	if len(kb) > longest {
		longest = len(kb)
	}

	return float64(shared) / float64(longest), shared
}
