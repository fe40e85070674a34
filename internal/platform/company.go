package platform

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// URLPattern extracts a company slug from a platform URL.
type URLPattern struct {
	Name       string
	Regex      *regexp.Regexp // group 1 is the slug
	Separators string         // characters that split slug tokens
}

// TitleWord upper-cases the first letter of s and keeps the rest as written.
func TitleWord(s string) string {
	// A Caser is stateful, so each call gets its own.
	return cases.Title(language.Und, cases.NoLower).String(s)
}

// Company applies the pattern to rawURL and returns the title-cased slug.
func (p URLPattern) Company(rawURL string) (string, bool) {
	if p.Regex == nil {
		return "", false
	}
	m := p.Regex.FindStringSubmatch(rawURL)
	if len(m) < 2 || m[1] == "" {
		return "", false
	}
	seps := p.Separators
	if seps == "" {
		seps = "-"
	}
	tokens := strings.FieldsFunc(m[1], func(r rune) bool { return strings.ContainsRune(seps, r) })
	for i, t := range tokens {
		tokens[i] = TitleWord(t)
	}
	return strings.Join(tokens, " "), len(tokens) > 0
}

// careerHostTokens are host labels that never name the company.
var careerHostTokens = map[string]bool{
	"jobs": true, "careers": true, "recruiting": true, "www": true,
	"com": true, "io": true, "net": true, "org": true, "co": true,
}

// CompanyFromURL tries every URL pattern in order, then treats the first
// meaningful label of a jobs./careers./recruiting. host as the company.
func (r *Registry) CompanyFromURL(rawURL string) string {
	for _, p := range r.cfg.URLPatterns {
		if company, ok := p.Company(rawURL); ok {
			return company
		}
	}

	host := hostOf(rawURL)
	if !strings.Contains(host, "jobs.") && !strings.Contains(host, "careers.") && !strings.Contains(host, "recruiting.") {
		return ""
	}
	for _, part := range strings.Split(host, ".") {
		if careerHostTokens[part] {
			continue
		}
		if utf8.RuneCountInString(part) > 2 {
			return TitleWord(part)
		}
		return ""
	}
	return ""
}

var (
	pipeSuffix  = regexp.MustCompile(`\s*\|\s*.*`)
	dashSuffix  = regexp.MustCompile(`\s*-\s*.*`)
	parenthesis = regexp.MustCompile(`\s*\(.*?\)\s*`)
)

// SanitizeCompany trims separators, extra lines and parenthetical asides from a
// candidate company name and returns "" for implausible results.
func SanitizeCompany(company string) string {
	if company == "" {
		return ""
	}
	s := pipeSuffix.ReplaceAllString(company, "")
	s = dashSuffix.ReplaceAllString(s, "")
	s = strings.TrimSpace(strings.Split(s, "\n")[0])
	s = strings.TrimSpace(parenthesis.ReplaceAllString(s, ""))

	lower := strings.ToLower(s)
	n := utf8.RuneCountInString(s)
	if strings.Contains(lower, "apply") || strings.Contains(lower, "application") || n > 100 || n < 2 {
		return ""
	}
	return s
}
