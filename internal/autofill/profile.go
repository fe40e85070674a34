package autofill

import (
	"math"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/jonathan/hired-always/internal/form"
)

// synonyms maps profile keys to the prompts they usually answer.
var synonyms = []struct {
	key   string
	terms []string
}{
	{"firstName", []string{"first name", "given name", "forename"}},
	{"lastName", []string{"last name", "surname", "family name"}},
	{"fullName", []string{"full name", "name (first and last)", "contact name"}},
	{"email", []string{"email", "e-mail", "email address"}},
	{"phone", []string{"phone", "mobile", "tel", "telephone", "cell"}},
	{"city", []string{"city", "town"}},
	{"state", []string{"state", "province", "region"}},
	{"country", []string{"country"}},
	{"zip", []string{"zip", "zipcode", "postal code", "postcode"}},
	{"address", []string{"address", "street address", "address line"}},
	{"linkedin", []string{"linkedin", "linkedin url", "linkedin profile"}},
	{"website", []string{"website", "portfolio", "personal site", "github pages", "url"}},
	{"github", []string{"github", "github url", "github profile"}},
	{"gender", []string{"gender", "sex"}},
	{"race", []string{"race", "ethnicity"}},
	{"veteranStatus", []string{"veteran", "veteran status"}},
	{"disabilityStatus", []string{"disability", "disability status"}},
	{"desiredSalary", []string{"salary", "pay", "compensation"}},
	{"coverLetter", []string{"cover letter", "motivation", "why us", "statement"}},
	{"relocation", []string{"relocation", "willing to relocate"}},
	{"sponsorship", []string{"sponsorship", "visa", "work authorization"}},
	{"startDate", []string{"start date", "availability"}},
	{"graduationDate", []string{"graduation", "grad date"}},
	{"university", []string{"university", "college", "school"}},
	{"degree", []string{"degree", "education level"}},
	{"major", []string{"major", "field of study"}},
	{"gpa", []string{"gpa", "grade point average"}},
}

// ProfileKeys lists every key the pipeline reads from the profile store.
var ProfileKeys = func() []string {
	keys := make([]string, 0, len(synonyms)+4)
	for _, s := range synonyms {
		keys = append(keys, s.key)
	}
	return append(keys, "workAuthorization", "remotePreference", "additionalInfo", autoFillKey)
}()

const (
	minHintScore = 0.45
	labelBonus   = 0.05
	exactKey     = 0.95
	weakGuess    = 0.5
)

type hint struct {
	text    string
	isLabel bool
}

type candidate struct {
	value string
	score float64
}

// ProfileAnswers derives an answer map from the profile by matching each
// field's label and id against the synonym table.
func ProfileAnswers(fields []form.Field, profile map[string]string) form.AnswerMap {
	answers := make(form.AnswerMap)
	if len(profile) == 0 {
		return answers
	}
	lowerKeys := make(map[string]string, len(profile))
	for k, v := range profile {
		if v != "" {
			lowerKeys[strings.ToLower(k)] = v
		}
	}
	for _, f := range fields {
		if c, ok := bestProfileMatch(f, profile, lowerKeys); ok {
			answers[f.ID] = c.value
		}
	}
	return answers
}

func bestProfileMatch(f form.Field, profile, lowerKeys map[string]string) (candidate, bool) {
	var hints []hint
	if f.Label != "" {
		hints = append(hints, hint{text: f.Label, isLabel: true})
	}
	if id := strings.TrimPrefix(f.ID, "radio:"); id != "" && id != f.Label {
		hints = append(hints, hint{text: id})
	}

	var candidates []candidate
	for _, s := range synonyms {
		val := profile[s.key]
		if val == "" {
			continue
		}
		for _, h := range hints {
			for _, term := range append([]string{s.key}, s.terms...) {
				score := hintScore(term, h.text)
				if score < minHintScore {
					continue
				}
				if h.isLabel {
					score += labelBonus
				}
				candidates = append(candidates, candidate{value: val, score: score})
			}
		}
	}

	// A hint that spells a profile key outright, like name="gender".
	for _, h := range hints {
		if val, ok := lowerKeys[lettersOnly(h.text)]; ok {
			candidates = append(candidates, candidate{value: val, score: exactKey})
		}
	}

	if len(candidates) == 0 {
		for _, h := range hints {
			text := form.Normalize(h.text)
			if strings.Contains(text, "email") && profile["email"] != "" {
				candidates = append(candidates, candidate{value: profile["email"], score: weakGuess})
			}
			if strings.Contains(text, "name") && profile["fullName"] != "" {
				candidates = append(candidates, candidate{value: profile["fullName"], score: weakGuess})
			}
		}
	}

	if len(candidates) == 0 {
		return candidate{}, false
	}
	sort.SliceStable(candidates, func(i, j int) bool { return candidates[i].score > candidates[j].score })
	return candidates[0], true
}

// hintScore scores how well term describes a field hint. A term found inside
// the hint scores by its share of the hint, clamped to [0.6, 0.95]; otherwise
// the share of the term's words present in the hint.
func hintScore(term, text string) float64 {
	term, text = form.Normalize(term), form.Normalize(text)
	if term == "" || text == "" {
		return 0
	}
	if term == text {
		return 1
	}
	if strings.Contains(text, term) {
		ratio := float64(utf8.RuneCountInString(term)) / float64(utf8.RuneCountInString(text))
		return math.Max(0.6, math.Min(0.95, ratio))
	}
	words := strings.Fields(term)
	have := make(map[string]bool)
	for _, w := range strings.Fields(text) {
		have[w] = true
	}
	seen := make(map[string]bool)
	inter := 0
	for _, w := range words {
		if seen[w] {
			continue
		}
		seen[w] = true
		if have[w] {
			inter++
		}
	}
	return float64(inter) / float64(max(1, len(seen)))
}

func lettersOnly(s string) string {
	return strings.Map(func(r rune) rune {
		if r >= 'a' && r <= 'z' {
			return r
		}
		return -1
	}, form.Normalize(s))
}
