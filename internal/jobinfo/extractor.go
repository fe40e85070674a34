// Package jobinfo extracts job metadata (title, company, location, salary and
// employment type) from application pages.
package jobinfo

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/sync/errgroup"

	"github.com/jonathan/hired-always/internal/dom"
	"github.com/jonathan/hired-always/internal/platform"
)

// Info is the job metadata found on a page. Empty means not found.
type Info struct {
	Position string `json:"position"`
	Company  string `json:"company"`
	Location string `json:"location"`
	Salary   string `json:"salary"`
	JobType  string `json:"jobType"`
}

// Extractor runs the per-field strategy cascades. It is safe for concurrent use.
type Extractor struct {
	registry *platform.Registry
	logger   *slog.Logger
}

// New returns an Extractor over the given registry. A nil registry uses the
// built-in tables and a nil logger uses slog.Default().
func New(registry *platform.Registry, logger *slog.Logger) *Extractor {
	if registry == nil {
		registry = platform.Default()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Extractor{registry: registry, logger: logger}
}

// page is the read-only input shared by every strategy of one extraction.
type page struct {
	doc      *goquery.Document
	url      string
	platform platform.ID
	rule     platform.Rule

	bodyOnce sync.Once
	body     string
}

func (p *page) bodyText() string {
	p.bodyOnce.Do(func() {
		p.body = dom.Text(p.doc.Find("body"))
	})
	return p.body
}

func (p *page) title() string {
	return strings.TrimSpace(p.doc.Find("title").First().Text())
}

// strategy is one attempt in a cascade. A miss is ("", nil).
type strategy struct {
	name string
	fn   func(*page) (string, error)
}

// Extract computes Info for doc, which was loaded from pageURL. The five fields
// are extracted concurrently and doc is only read. Extract never fails; a
// cancelled context leaves the remaining fields empty.
func (e *Extractor) Extract(ctx context.Context, doc *goquery.Document, pageURL string) Info {
	var info Info
	if doc == nil {
		return info
	}
	id := e.registry.Identify(pageURL)
	p := &page{doc: doc, url: pageURL, platform: id, rule: e.registry.RulesFor(id)}

	var g errgroup.Group
	g.Go(func() error {
		info.Position = e.firstOf(ctx, "position", p, e.titleStrategies())
		return nil
	})
	g.Go(func() error {
		info.Company = e.firstOf(ctx, "company", p, e.companyStrategies())
		return nil
	})
	g.Go(func() error {
		info.Location = e.firstOf(ctx, "location", p, e.locationStrategies())
		return nil
	})
	g.Go(func() error {
		info.Salary = e.firstOf(ctx, "salary", p, e.salaryStrategies())
		return nil
	})
	g.Go(func() error {
		info.JobType = e.firstOf(ctx, "jobType", p, e.jobTypeStrategies())
		return nil
	})
	_ = g.Wait()

	e.logger.Debug("jobinfo: extracted", "url", pageURL, "platform", string(id),
		"position", info.Position, "company", info.Company)
	return info
}

// firstOf returns the first non-empty strategy result.
func (e *Extractor) firstOf(ctx context.Context, field string, p *page, strategies []strategy) string {
	for _, s := range strategies {
		if ctx.Err() != nil {
			return ""
		}
		if v := e.try(field, s, p); v != "" {
			return v
		}
	}
	return ""
}

// try runs one strategy, turning errors and panics into a miss.
func (e *Extractor) try(field string, s strategy, p *page) (result string) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.Debug("jobinfo: strategy panicked", "field", field, "strategy", s.name, "error", fmt.Sprint(r))
			result = ""
		}
	}()
	v, err := s.fn(p)
	if err != nil {
		e.logger.Debug("jobinfo: strategy failed", "field", field, "strategy", s.name, "error", err)
		return ""
	}
	return strings.TrimSpace(v)
}
