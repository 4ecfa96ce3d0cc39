package domain

import (
	"math"
	"sort"
	"strings"
	"unicode"
)

const (
	// Scoring weights
	ScoreExactMatch     = 100.0
	ScorePrefixMatch    = 75.0
	ScoreSubstringMatch = 50.0
	ScoreFuzzyMatch     = 25.0

	// Position bonus (earlier word in the name is better)
	ScorePositionBonus = 10.0

	// Matches on tags count for less than matches on the name
	TagWeight = 0.5
)

// SearchResult is a cafe with its match score
type SearchResult struct {
	Cafe  *Cafe   `json:"cafe"`
	Score float64 `json:"score"`
}

// SearchCafes ranks cafes whose name or tags match every space separated
// fragment of query, best first. An empty query matches nothing.
func SearchCafes(query string, cafes []*Cafe) []SearchResult {
	fragments := queryFragments(query)
	if len(fragments) == 0 {
		return nil
	}

	var results []SearchResult
	for _, cafe := range cafes {
		if cafe == nil {
			continue
		}
		if score := scoreCafe(fragments, cafe); score > 0 {
			results = append(results, SearchResult{Cafe: cafe, Score: score})
		}
	}

	sort.SliceStable(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].Cafe.Name < results[j].Cafe.Name
	})
	return results
}

// scoreCafe returns 0 unless every fragment matches a name word or a tag.
func scoreCafe(fragments []string, cafe *Cafe) float64 {
	words := strings.Fields(cafe.Name)

	var total float64
	for _, frag := range fragments {
		best := 0.0
		for i, word := range words {
			best = math.Max(best, scoreFragment(frag, word, i))
		}
		for _, tag := range cafe.Tags {
			best = math.Max(best, scoreFragment(frag, tag, 0)*TagWeight)
		}
		if best == 0 {
			return 0
		}
		total += best
	}
	return total
}

func queryFragments(s string) []string {
	var out []string
	for _, part := range strings.Fields(s) {
		if f := normalizeFragment(part); f != "" {
			out = append(out, f)
		}
	}
	return out
}

// scoreFragment scores a single query fragment against a word
func scoreFragment(queryFrag, word string, position int) float64 {
	queryFrag = normalizeFragment(queryFrag)
	word = normalizeFragment(word)

	if queryFrag == "" || word == "" {
		return 0.0
	}

	if queryFrag == word {
		return ScoreExactMatch + positionBonus(position)
	}

	if strings.HasPrefix(word, queryFrag) {
		return ScorePrefixMatch + positionBonus(position)
	}

	if idx := strings.Index(word, queryFrag); idx >= 0 {
		// Earlier substring matches get higher score
		return ScoreSubstringMatch + ScorePositionBonus*(1.0-float64(idx)/float64(len(word)))
	}

	if similarity := similarity(queryFrag, word); similarity > 0.5 {
		return ScoreFuzzyMatch * similarity
	}

	return 0.0
}

func positionBonus(position int) float64 {
	return ScorePositionBonus * math.Exp(-float64(position)*0.3)
}

// similarity is the share of query runes that also occur in word.
func similarity(query, word string) float64 {
	runes := []rune(query)
	if len(runes) == 0 || word == "" {
		return 0.0
	}

	matches := 0
	for _, c := range runes {
		if strings.ContainsRune(word, c) {
			matches++
		}
	}
	return float64(matches) / float64(len(runes))
}

func normalizeFragment(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return unicode.ToLower(r)
		}
		return -1
	}, s)
}
