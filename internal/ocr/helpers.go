package ocr

import (
	"strings"
	"unicode"

	"github.com/arbovm/levenshtein"
)

// matchesDeclared thresholds: recovered text counts as a rendering of the
// declared text when the strings are mostly the same characters or mostly
// the same words.
const (
	minSimilarity    = 0.6
	maxWordErrorRate = 0.5
)

// NormalizeText collapses whitespace and strips characters tesseract tends
// to hallucinate on UI chrome.
func NormalizeText(text string) string {
	cleaned := strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r) ||
			unicode.IsPunct(r) {
			return r
		}
		return -1
	}, text)
	return strings.Join(strings.Fields(cleaned), " ")
}

// Plausible reports whether recovered text looks like real UI text rather
// than recognition noise: at least two characters, with letters or digits
// making up the majority.
func Plausible(text string) bool {
	text = NormalizeText(text)
	if len(text) < 2 {
		return false
	}
	alnum := 0
	total := 0
	for _, r := range text {
		if unicode.IsSpace(r) {
			continue
		}
		total++
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			alnum++
		}
	}
	return total > 0 && float64(alnum)/float64(total) > 0.5
}

// Similarity returns a [0,1] score from the Levenshtein distance between two
// strings after case folding: 1 means identical, 0 means nothing in common.
func Similarity(a, b string) float64 {
	a = strings.ToLower(NormalizeText(a))
	b = strings.ToLower(NormalizeText(b))
	if a == b {
		return 1
	}
	longest := max(len(a), len(b))
	if longest == 0 {
		return 1
	}
	dist := levenshtein.Distance(a, b)
	return 1 - float64(dist)/float64(longest)
}

// WordErrorRate returns the word error rate of the recovered text against
// the declared reference: word-level edit distance divided by reference
// length, 0 meaning a perfect match.
func WordErrorRate(recovered, declared string) float64 {
	hyp := strings.Fields(strings.ToLower(NormalizeText(recovered)))
	ref := strings.Fields(strings.ToLower(NormalizeText(declared)))
	if len(ref) == 0 {
		if len(hyp) == 0 {
			return 0
		}
		return 1
	}
	return float64(wordEditDistance(ref, hyp)) / float64(len(ref))
}

// wordEditDistance is the Levenshtein recurrence over word tokens.
func wordEditDistance(ref, hyp []string) int {
	prev := make([]int, len(hyp)+1)
	curr := make([]int, len(hyp)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(ref); i++ {
		curr[0] = i
		for j := 1; j <= len(hyp); j++ {
			cost := 1
			if ref[i-1] == hyp[j-1] {
				cost = 0
			}
			curr[j] = min(prev[j]+1, min(curr[j-1]+1, prev[j-1]+cost))
		}
		prev, curr = curr, prev
	}
	return prev[len(hyp)]
}

// MatchesDeclared reports whether OCR-recovered text plausibly renders the
// text declared in the layout XML.
func MatchesDeclared(recovered, declared string) bool {
	return Similarity(recovered, declared) >= minSimilarity ||
		WordErrorRate(recovered, declared) <= maxWordErrorRate
}
