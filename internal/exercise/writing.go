package exercise

import (
	"math"
	"strings"
)

const strippedPunctuation = ".,/#!$%^&*;:{}=-_`~()"

var punctuationStripper = strings.NewReplacer(replacerPairs(strippedPunctuation)...)

func replacerPairs(chars string) []string {
	pairs := make([]string, 0, 2*len(chars))
	for _, r := range chars {
		pairs = append(pairs, string(r), "")
	}
	return pairs
}

// Normalize case-folds s, strips punctuation, collapses whitespace and
// trims. It is idempotent.
func Normalize(s string) string {
	s = strings.ToLower(s)
	s = punctuationStripper.Replace(s)
	return strings.Join(strings.Fields(s), " ")
}

// DiffWord is one canonical word and whether the user wrote it correctly.
type DiffWord struct {
	Word      string
	IsCorrect bool
}

// WritingResult is the outcome of a writing check.
type WritingResult struct {
	Score int
	Diff  []DiffWord
}

// Perfect reports whether every word matched.
func (r *WritingResult) Perfect() bool {
	return r != nil && len(r.Diff) > 0 && r.Score == 100
}

// CheckWriting compares input with canonical position by position. The
// diff carries the canonical words as written; a canonical word that
// normalizes to nothing (a lone dash, say) is dropped from both. Text with
// no words scores 0.
func CheckWriting(canonical, input string) WritingResult {
	var words, normalized []string
	for _, w := range strings.Fields(canonical) {
		if n := Normalize(w); n != "" {
			words = append(words, w)
			normalized = append(normalized, n)
		}
	}
	typed := strings.Fields(Normalize(input))

	res := WritingResult{Diff: make([]DiffWord, len(words))}
	correct := 0
	for i, w := range words {
		ok := i < len(typed) && typed[i] == normalized[i]
		if ok {
			correct++
		}
		res.Diff[i] = DiffWord{Word: w, IsCorrect: ok}
	}
	if len(words) > 0 {
		res.Score = int(math.Round(float64(correct) / float64(len(words)) * 100))
		// Long texts with one miss would otherwise round up to 100.
		if correct < len(words) {
			res.Score = min(res.Score, 99)
		}
	}
	return res
}
