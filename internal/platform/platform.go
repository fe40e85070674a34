// Package platform provides ATS platform detection and the selector tables used to
// understand application pages. A Registry is built once and is read-only afterwards.
package platform

import (
	"net/url"
	"regexp"
	"slices"
	"strings"
)

// ID identifies a known applicant tracking system.
type ID string

const (
	// Greenhouse is the Greenhouse ATS platform
	Greenhouse ID = "greenhouse"
	// Lever is the Lever ATS platform
	Lever ID = "lever"
	// Workday is the Workday ATS platform
	Workday ID = "workday"
	// Ashby is the Ashby ATS platform
	Ashby ID = "ashby"
	// BambooHR is the BambooHR ATS platform
	BambooHR ID = "bamboohr"
	// Workable is the Workable ATS platform
	Workable ID = "workable"
	// Jobvite is the Jobvite ATS platform
	Jobvite ID = "jobvite"
	// SmartRecruiters is the SmartRecruiters ATS platform
	SmartRecruiters ID = "smartrecruiters"
	// None means the URL did not match any known platform
	None ID = ""
)

// Rule holds the selectors and URL knowledge for one platform.
type Rule struct {
	Platform          ID
	URLMatchers       []string // lowercase host substrings
	CompanySelectors  []string
	TitleSelectors    []string
	LocationSelectors []string
	SalarySelectors   []string
	JobTypeKeywords   []string
	URLPattern        *URLPattern
}

// Config is the raw table set a Registry is built from.
type Config struct {
	// Rules are tested in order by Identify.
	Rules []Rule
	// Generic applies to every page and backs RulesFor for unknown platforms.
	Generic Rule

	GenericCompanySelectors []string
	FormFieldSelectors      []string
	CompanyMetaSelectors    []string
	URLPatterns             []URLPattern
	JobBoardNames           []string
	TextPatterns            []*regexp.Regexp
	ApplicationFrames       []FramePattern
	IgnoredFrames           []string
}

// Registry answers platform questions from an immutable copy of a Config.
type Registry struct {
	cfg Config
}

// New builds a Registry from cfg. The slices are copied so later changes to cfg
// are not observed.
func New(cfg Config) *Registry {
	c := Config{
		Generic:                 cloneRule(cfg.Generic),
		GenericCompanySelectors: slices.Clone(cfg.GenericCompanySelectors),
		FormFieldSelectors:      slices.Clone(cfg.FormFieldSelectors),
		CompanyMetaSelectors:    slices.Clone(cfg.CompanyMetaSelectors),
		URLPatterns:             slices.Clone(cfg.URLPatterns),
		JobBoardNames:           slices.Clone(cfg.JobBoardNames),
		TextPatterns:            slices.Clone(cfg.TextPatterns),
		ApplicationFrames:       slices.Clone(cfg.ApplicationFrames),
		IgnoredFrames:           slices.Clone(cfg.IgnoredFrames),
	}
	for _, r := range cfg.Rules {
		c.Rules = append(c.Rules, cloneRule(r))
	}
	return &Registry{cfg: c}
}

// Default returns a Registry loaded with the built-in tables.
func Default() *Registry {
	return New(DefaultConfig())
}

// Identify returns the platform whose host matcher appears in the URL's host.
// Empty, relative and malformed URLs yield None.
func (r *Registry) Identify(rawURL string) ID {
	host := hostOf(rawURL)
	if host == "" {
		return None
	}
	for _, rule := range r.cfg.Rules {
		for _, m := range rule.URLMatchers {
			if strings.Contains(host, m) {
				return rule.Platform
			}
		}
	}
	return None
}

// RulesFor returns the rule for id with the generic selectors appended after the
// platform-specific ones. Unknown ids get the generic rule.
func (r *Registry) RulesFor(id ID) Rule {
	generic := cloneRule(r.cfg.Generic)
	if id == None {
		return generic
	}
	idx := slices.IndexFunc(r.cfg.Rules, func(rule Rule) bool { return rule.Platform == id })
	if idx < 0 {
		return generic
	}
	rule := cloneRule(r.cfg.Rules[idx])
	rule.TitleSelectors = append(rule.TitleSelectors, generic.TitleSelectors...)
	rule.LocationSelectors = append(rule.LocationSelectors, generic.LocationSelectors...)
	rule.SalarySelectors = append(rule.SalarySelectors, generic.SalarySelectors...)
	if len(rule.JobTypeKeywords) == 0 {
		rule.JobTypeKeywords = generic.JobTypeKeywords
	}
	return rule
}

// IsATS reports whether the URL belongs to a known platform.
func (r *Registry) IsATS(rawURL string) bool {
	return r.Identify(rawURL) != None
}

// GenericCompanySelectors returns the platform-independent company selectors.
func (r *Registry) GenericCompanySelectors() []string {
	return slices.Clone(r.cfg.GenericCompanySelectors)
}

// FormFieldSelectors returns selectors for company inputs an autofill may have filled.
func (r *Registry) FormFieldSelectors() []string {
	return slices.Clone(r.cfg.FormFieldSelectors)
}

// CompanyMetaSelectors returns the meta tags consulted for a company name.
func (r *Registry) CompanyMetaSelectors() []string {
	return slices.Clone(r.cfg.CompanyMetaSelectors)
}

// TextPatterns returns the body/title phrasing patterns. Group 1 is the company.
func (r *Registry) TextPatterns() []*regexp.Regexp {
	return slices.Clone(r.cfg.TextPatterns)
}

// IsJobBoardName reports whether name mentions a known job board.
func (r *Registry) IsJobBoardName(name string) bool {
	if name == "" {
		return false
	}
	lower := strings.ToLower(name)
	for _, board := range r.cfg.JobBoardNames {
		if strings.Contains(lower, board) {
			return true
		}
	}
	return false
}

func hostOf(rawURL string) string {
	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" {
		return ""
	}
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return strings.ToLower(parsed.Hostname())
}

func cloneRule(r Rule) Rule {
	r.URLMatchers = slices.Clone(r.URLMatchers)
	r.CompanySelectors = slices.Clone(r.CompanySelectors)
	r.TitleSelectors = slices.Clone(r.TitleSelectors)
	r.LocationSelectors = slices.Clone(r.LocationSelectors)
	r.SalarySelectors = slices.Clone(r.SalarySelectors)
	r.JobTypeKeywords = slices.Clone(r.JobTypeKeywords)
	return r
}
