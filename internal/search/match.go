package search

import (
	"sort"
	"strings"

	"github.com/sahilm/fuzzy"
)

// Mode selects how a query token is compared against option tokens.
type Mode string

const (
	// ModeContains keeps an option when the query token is a substring of
	// its text token or its detail token.
	ModeContains Mode = "contains"
	// ModeFuzzy keeps options whose tokens contain the query characters in
	// order and sorts them by match score.
	ModeFuzzy Mode = "fuzzy"
)

// Contains reports whether token occurs in either of the candidate tokens.
// An empty query token matches every candidate.
func Contains(token, textToken, detailToken string) bool {
	if token == "" {
		return true
	}
	return strings.Contains(textToken, token) || strings.Contains(detailToken, token)
}

// Candidate is one searchable entry handed to Filter.
type Candidate struct {
	TextToken   string
	DetailToken string
}

// Filter returns the indices of candidates that match the folded query,
// in the order they should be shown.
func Filter(mode Mode, token string, candidates []Candidate) []int {
	if mode == ModeFuzzy && token != "" {
		return fuzzyFilter(token, candidates)
	}
	out := make([]int, 0, len(candidates))
	for i, c := range candidates {
		if Contains(token, c.TextToken, c.DetailToken) {
			out = append(out, i)
		}
	}
	return out
}

type candidateSource []Candidate

func (s candidateSource) String(i int) string {
	if s[i].DetailToken == "" {
		return s[i].TextToken
	}
	return s[i].TextToken + " " + s[i].DetailToken
}

func (s candidateSource) Len() int { return len(s) }

func fuzzyFilter(token string, candidates []Candidate) []int {
	matches := fuzzy.FindFrom(token, candidateSource(candidates))
	// FindFrom sorts by score; keep declaration order among equal scores.
	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].Score != matches[j].Score {
			return matches[i].Score > matches[j].Score
		}
		return matches[i].Index < matches[j].Index
	})
	out := make([]int, len(matches))
	for i, m := range matches {
		out[i] = m.Index
	}
	return out
}
