package form

import (
	"math"
	"regexp"
	"strings"
	"unicode/utf8"
)

// Normalize collapses whitespace, trims and lowercases s.
func Normalize(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}

var nonWord = regexp.MustCompile(`[^\p{L}\p{N}_]+`)

// Similarity scores a against b in [0, 1].
//
// Equal normalized strings score 1. When one contains the other the score is
// the length ratio, floored at 0.66. Otherwise it is the share of the smaller
// token set found in the other. Empty input scores 0.
func Similarity(a, b string) float64 {
	a, b = Normalize(a), Normalize(b)
	if a == "" || b == "" {
		return 0
	}
	if a == b {
		return 1
	}
	if strings.Contains(a, b) || strings.Contains(b, a) {
		la, lb := utf8.RuneCountInString(a), utf8.RuneCountInString(b)
		return math.Max(0.66, float64(min(la, lb))/float64(max(la, lb)))
	}

	ta, tb := tokenSet(a), tokenSet(b)
	inter := 0
	for t := range ta {
		if tb[t] {
			inter++
		}
	}
	return float64(inter) / float64(max(1, min(len(ta), len(tb))))
}

func tokenSet(s string) map[string]bool {
	set := make(map[string]bool)
	for _, t := range nonWord.Split(s, -1) {
		if t != "" {
			set[t] = true
		}
	}
	return set
}

// MatchOption returns the option scoring strictly highest against target. Ties
// keep the earlier option. It reports false when nothing scores above 0.
func MatchOption(options []string, target string) (string, bool) {
	best, bestScore := -1, 0.0
	for i, opt := range options {
		if s := Similarity(opt, target); s > bestScore {
			best, bestScore = i, s
		}
	}
	if best < 0 {
		return "", false
	}
	return options[best], true
}

// MatchChoice is MatchOption over select options, where each option scores the
// better of its text and its value token.
func MatchChoice(choices []Choice, target string) (Choice, bool) {
	best, bestScore := -1, 0.0
	for i, c := range choices {
		s := math.Max(Similarity(c.Text, target), Similarity(c.Value, target))
		if s > bestScore {
			best, bestScore = i, s
		}
	}
	if best < 0 {
		return Choice{}, false
	}
	return choices[best], true
}

// matchMember picks the radio member whose label or value best matches target.
func matchMember(members []Member, target string) (Member, bool) {
	best, bestScore := -1, 0.0
	for i, m := range members {
		s := math.Max(Similarity(m.Label, target), Similarity(m.Value, target))
		if s > bestScore {
			best, bestScore = i, s
		}
	}
	if best < 0 {
		return Member{}, false
	}
	return members[best], true
}
