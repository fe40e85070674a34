package jobinfo

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/jonathan/hired-always/internal/dom"
	"github.com/jonathan/hired-always/internal/platform"
)

var (
	titlePrefix = regexp.MustCompile(`^([^-|]+?)(?:\s*[-|@]\s*|$)`)

	salaryAmount = regexp.MustCompile(`(?i)\$[\d,]+k?`)
	salaryRange  = regexp.MustCompile(`\d+[kK]\s*[-–—]\s*\d+[kK]`)
	salaryInText = regexp.MustCompile(`\$\d{2,3}[,.]?\d{0,3}[kK]?\s*[-–—]\s*\$\d{2,3}[,.]?\d{0,3}[kK]?`)
)

func (e *Extractor) titleStrategies() []strategy {
	return []strategy{
		{name: "title selectors", fn: func(p *page) (string, error) {
			return firstSelectorText(p, p.rule.TitleSelectors, func(s string) bool {
				return utf8.RuneCountInString(s) > 3
			}), nil
		}},
		{name: "document title", fn: func(p *page) (string, error) {
			m := titlePrefix.FindStringSubmatch(p.title())
			if len(m) < 2 {
				return "", nil
			}
			if t := strings.TrimSpace(m[1]); utf8.RuneCountInString(t) > 3 {
				return t, nil
			}
			return "", nil
		}},
	}
}

func (e *Extractor) locationStrategies() []strategy {
	return []strategy{
		{name: "location selectors", fn: func(p *page) (string, error) {
			return firstSelectorText(p, p.rule.LocationSelectors, func(s string) bool {
				n := utf8.RuneCountInString(s)
				return n > 2 && n < 100
			}), nil
		}},
	}
}

func (e *Extractor) salaryStrategies() []strategy {
	return []strategy{
		{name: "salary selectors", fn: func(p *page) (string, error) {
			return firstSelectorText(p, p.rule.SalarySelectors, IsSalary), nil
		}},
		{name: "salary in body text", fn: func(p *page) (string, error) {
			return salaryInText.FindString(p.bodyText()), nil
		}},
	}
}

func (e *Extractor) jobTypeStrategies() []strategy {
	return []strategy{
		{name: "job type keywords", fn: func(p *page) (string, error) {
			body := strings.ToLower(p.bodyText())
			for _, kw := range p.rule.JobTypeKeywords {
				if strings.Contains(body, kw) {
					return JobTypeLabel(kw), nil
				}
			}
			return "", nil
		}},
	}
}

// IsSalary reports whether text looks like a pay amount or range.
func IsSalary(text string) bool {
	return salaryAmount.MatchString(text) || salaryRange.MatchString(text)
}

// JobTypeLabel title-cases each hyphen-separated part: "full-time" is "Full-Time".
func JobTypeLabel(keyword string) string {
	parts := strings.Split(keyword, "-")
	for i, part := range parts {
		parts[i] = platform.TitleWord(part)
	}
	return strings.Join(parts, "-")
}

// firstSelectorText checks the first element of each selector in order and
// returns the first single-line text accepted by ok.
func firstSelectorText(p *page, selectors []string, ok func(string) bool) string {
	for _, sel := range selectors {
		el := p.doc.Find(sel).First()
		if el.Length() == 0 {
			continue
		}
		if text := dom.Line(el); text != "" && ok(text) {
			return text
		}
	}
	return ""
}
