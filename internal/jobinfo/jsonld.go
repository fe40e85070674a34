package jobinfo

import (
	"encoding/json"
	"fmt"
	"html"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/microcosm-cc/bluemonday"
)

// companyFromJSONLD reads JobPosting.hiringOrganization from the page's JSON-LD
// blocks. Postings may be the top-level object, inside a top-level array, or in
// an @graph list.
func companyFromJSONLD(p *page) (string, error) {
	var parseErr error
	var company string
	p.doc.Find(`script[type="application/ld+json"]`).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		var data any
		if err := json.Unmarshal([]byte(s.Text()), &data); err != nil {
			parseErr = fmt.Errorf("parse ld+json: %w", err)
			return true
		}
		if name := hiringOrganization(data); name != "" {
			company = stripMarkup(name)
			return company == ""
		}
		return true
	})
	if company != "" {
		return company, nil
	}
	return "", parseErr
}

func hiringOrganization(node any) string {
	switch v := node.(type) {
	case []any:
		for _, item := range v {
			if name := hiringOrganization(item); name != "" {
				return name
			}
		}
	case map[string]any:
		if isJobPosting(v["@type"]) {
			switch org := v["hiringOrganization"].(type) {
			case string:
				return org
			case map[string]any:
				if name, ok := org["name"].(string); ok {
					return name
				}
			}
		}
		if graph, ok := v["@graph"]; ok {
			return hiringOrganization(graph)
		}
	}
	return ""
}

func isJobPosting(t any) bool {
	switch v := t.(type) {
	case string:
		return v == "JobPosting"
	case []any:
		for _, item := range v {
			if s, ok := item.(string); ok && s == "JobPosting" {
				return true
			}
		}
	}
	return false
}

var strict = bluemonday.StrictPolicy()

// stripMarkup removes tags and decodes entities some boards leave in names.
func stripMarkup(s string) string {
	return strings.TrimSpace(html.UnescapeString(strict.Sanitize(s)))
}
