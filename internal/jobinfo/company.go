package jobinfo

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"

	"github.com/jonathan/hired-always/internal/dom"
	"github.com/jonathan/hired-always/internal/form"
	"github.com/jonathan/hired-always/internal/platform"
)

var descriptionCompany = regexp.MustCompile(`(?:at|for|with)\s+([A-Z][a-zA-Z0-9\s&]+?)(?:\s+is|\s+in|\s+based|\.|\,)`)

// companyStrategies is the company cascade in priority order. Results from the
// DOM, metadata and free text are sanitized; a sanitized-away result falls
// through to the next strategy.
func (e *Extractor) companyStrategies() []strategy {
	sanitized := func(fn func(*page) (string, error)) func(*page) (string, error) {
		return func(p *page) (string, error) {
			v, err := fn(p)
			return platform.SanitizeCompany(strings.TrimSpace(v)), err
		}
	}

	return []strategy{
		{name: "form fields", fn: e.companyFromFormFields},
		{name: "platform selectors", fn: sanitized(func(p *page) (string, error) {
			if p.platform == platform.None {
				return "", nil
			}
			return companyFromSelectors(p, p.rule.CompanySelectors), nil
		})},
		{name: "generic selectors", fn: sanitized(func(p *page) (string, error) {
			return companyFromSelectors(p, e.registry.GenericCompanySelectors()), nil
		})},
		{name: "meta tags", fn: sanitized(e.companyFromMeta)},
		{name: "url", fn: func(p *page) (string, error) {
			return e.registry.CompanyFromURL(p.url), nil
		}},
		{name: "title patterns", fn: e.companyFromTitle},
		{name: "structured data", fn: sanitized(companyFromJSONLD)},
		{name: "body text", fn: sanitized(e.companyFromBody)},
	}
}

// companyFromFormFields reads a company input an autofill pass already filled.
func (e *Extractor) companyFromFormFields(p *page) (string, error) {
	for _, sel := range e.registry.FormFieldSelectors() {
		el := p.doc.Find(sel).First()
		if el.Length() == 0 {
			continue
		}
		value, ok := el.Attr(form.AttrValue)
		if !ok || value == "" {
			value = el.AttrOr("value", "")
		}
		if value == "" {
			value = dom.Text(el)
		}
		value = strings.TrimSpace(value)
		if n := utf8.RuneCountInString(value); n > 2 && n < 100 {
			return value, nil
		}
	}
	return "", nil
}

func companyFromSelectors(p *page, selectors []string) string {
	for _, sel := range selectors {
		el := p.doc.Find(sel).First()
		if el.Length() == 0 {
			continue
		}
		text := dom.Text(el)
		n := utf8.RuneCountInString(text)
		lower := strings.ToLower(text)
		if n > 2 && n < 100 && !strings.Contains(lower, "apply") && !strings.Contains(lower, "application") {
			return text
		}
	}
	return ""
}

func (e *Extractor) companyFromMeta(p *page) (string, error) {
	for _, sel := range e.registry.CompanyMetaSelectors() {
		var meta *goquery.Selection
		p.doc.Find(sel).EachWithBreak(func(_ int, s *goquery.Selection) bool {
			if strings.TrimSpace(s.AttrOr("content", "")) != "" {
				meta = s
				return false
			}
			return true
		})
		if meta == nil {
			continue
		}
		content := strings.TrimSpace(meta.AttrOr("content", ""))
		if meta.AttrOr("property", "") == "og:description" {
			if m := descriptionCompany.FindStringSubmatch(content); len(m) > 1 {
				return strings.TrimSpace(m[1]), nil
			}
		}
		return content, nil
	}
	return "", nil
}

func (e *Extractor) companyFromTitle(p *page) (string, error) {
	title := p.title()
	if title == "" {
		return "", nil
	}
	for _, re := range e.registry.TextPatterns() {
		m := re.FindStringSubmatch(title)
		if len(m) < 2 {
			continue
		}
		company := strings.TrimSpace(m[1])
		if n := utf8.RuneCountInString(company); n > 2 && n < 50 && !e.registry.IsJobBoardName(company) {
			return company, nil
		}
	}
	return "", nil
}

func (e *Extractor) companyFromBody(p *page) (string, error) {
	body := p.bodyText()
	for _, re := range e.registry.TextPatterns() {
		if m := re.FindStringSubmatch(body); len(m) > 1 {
			if company := strings.TrimSpace(m[1]); company != "" {
				return company, nil
			}
		}
	}
	return "", nil
}
