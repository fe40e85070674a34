package platform

import "regexp"

// JobTypes is the employment-type vocabulary in precedence order.
var JobTypes = []string{"full-time", "part-time", "contract", "temporary", "internship", "remote", "hybrid"}

// DefaultConfig returns the built-in platform tables.
func DefaultConfig() Config {
	patterns := defaultURLPatterns()
	byName := func(name string) *URLPattern {
		for i := range patterns {
			if patterns[i].Name == name {
				p := patterns[i]
				return &p
			}
		}
		return nil
	}

	return Config{
		Rules: []Rule{
			{
				Platform:    Greenhouse,
				URLMatchers: []string{"greenhouse.io"},
				CompanySelectors: []string{
					".company-name",
					`[class*="app-title"]`,
					`div[class*="application--header"] h2`,
				},
				TitleSelectors:    []string{".app-title", ".job__title h1"},
				LocationSelectors: []string{".location", ".job__location"},
				URLPattern:        byName("greenhouse"),
			},
			{
				Platform:          Lever,
				URLMatchers:       []string{"lever.co"},
				CompanySelectors:  []string{`[class*="main-header-text"]`},
				TitleSelectors:    []string{".posting-headline h2"},
				LocationSelectors: []string{".posting-categories .location", ".sort-by-location"},
				URLPattern:        byName("lever"),
			},
			{
				Platform:          Workday,
				URLMatchers:       []string{"myworkdayjobs.com"},
				TitleSelectors:    []string{`[data-automation-id="jobPostingHeader"]`},
				LocationSelectors: []string{`[data-automation-id="locations"]`},
				URLPattern:        byName("workday"),
			},
			{
				Platform:          Ashby,
				URLMatchers:       []string{"ashbyhq.com"},
				TitleSelectors:    []string{`[class*="_title_"]`},
				LocationSelectors: []string{`[class*="_location_"]`},
				URLPattern:        byName("ashby"),
			},
			{
				Platform:    BambooHR,
				URLMatchers: []string{"bamboohr.com"},
				URLPattern:  byName("bamboohr"),
			},
			{
				Platform:          Workable,
				URLMatchers:       []string{"workable.com"},
				TitleSelectors:    []string{`[data-ui="job-title"]`},
				LocationSelectors: []string{`[data-ui="job-location"]`},
			},
			{
				Platform:    Jobvite,
				URLMatchers: []string{"jobvite.com"},
				URLPattern:  byName("jobvite"),
			},
			{
				Platform:    SmartRecruiters,
				URLMatchers: []string{"smartrecruiters.com"},
				URLPattern:  byName("smartrecruiters"),
			},
		},
		Generic: Rule{
			TitleSelectors: []string{
				"h1",
				"h2",
				`[class*="job-title"]`,
				`[class*="jobTitle"]`,
				`[data-testid*="job-title"]`,
				`[class*="position"]`,
				`[class*="JobTitle"]`,
				`[id*="job-title"]`,
			},
			LocationSelectors: []string{
				`[class*="location"]`,
				`[class*="jobLocation"]`,
				`[data-testid*="location"]`,
				`[class*="city"]`,
				`[id*="location"]`,
				`[class*="work-location"]`,
				`[class*="office-location"]`,
			},
			SalarySelectors: []string{
				`[class*="salary"]`,
				`[class*="compensation"]`,
				`[class*="pay"]`,
				`[data-testid*="salary"]`,
				`[id*="salary"]`,
			},
			JobTypeKeywords: JobTypes,
		},
		GenericCompanySelectors: []string{
			`[class*="company-name"]`,
			`[class*="companyName"]`,
			`[class*="employer"]`,
			`[data-testid*="company"]`,
			`[class*="company"]`,
			`[id*="company"]`,
			`a[href*="/company/"]`,
			`[class*="CompanyName"]`,
			`[class*="employerName"]`,
			`[class*="organization"]`,
			"h2",
			"h3",
		},
		FormFieldSelectors: []string{
			`input[name*="company"]`,
			`input[id*="company"]`,
			`input[aria-label*="company" i]`,
			`input[placeholder*="company" i]`,
			`[contenteditable="true"][class*="company"]`,
		},
		CompanyMetaSelectors: []string{
			`meta[property="og:site_name"]`,
			`meta[name="company"]`,
			`meta[property="og:description"]`,
		},
		URLPatterns: patterns,
		JobBoardNames: []string{
			"greenhouse", "lever", "linkedin", "indeed",
			"glassdoor", "monster", "ziprecruiter", "careerbuilder",
		},
		TextPatterns: []*regexp.Regexp{
			regexp.MustCompile(`(?:Join|About)\s+([A-Z][a-zA-Z0-9\s&]{2,50}?)(?:\s+is\s+(?:hiring|looking|seeking)|'s\s+team)`),
			regexp.MustCompile(`([A-Z][a-zA-Z0-9\s&\.]+?)\s+is\s+(?:hiring|looking|seeking)`),
			regexp.MustCompile(`\s+(?:at|-|@)\s+([A-Z][a-zA-Z0-9\s&\.]+?)(?:\s+\||$)`),
		},
		ApplicationFrames: []FramePattern{
			{Platform: Greenhouse, Selector: `iframe[id*="grnhse"], iframe[src*="greenhouse.io/embed/job_app"]`, MinWidth: 200, MinHeight: 200},
			{Platform: Lever, Selector: `iframe[src*="jobs.lever.co"]`, MinWidth: 200, MinHeight: 200},
			{Platform: Workday, Selector: `iframe[src*="myworkdayjobs.com"]`, MinWidth: 200, MinHeight: 200},
			{Platform: Ashby, Selector: `iframe[src*="jobs.ashbyhq.com"]`, MinWidth: 200, MinHeight: 200},
			{Platform: BambooHR, Selector: `iframe[src*="bamboohr.com/jobs"]`, MinWidth: 200, MinHeight: 200},
			{Platform: Workable, Selector: `iframe[src*="apply.workable.com"]`, MinWidth: 200, MinHeight: 200},
			{Platform: Jobvite, Selector: `iframe[src*="jobs.jobvite.com"]`, MinWidth: 200, MinHeight: 200},
			{Platform: SmartRecruiters, Selector: `iframe[src*="jobs.smartrecruiters.com"]`, MinWidth: 200, MinHeight: 200},
		},
		IgnoredFrames: []string{
			"googleapis.com",
			"google.com/recaptcha",
			"accounts.google.com",
			"googletagmanager.com",
			"doubleclick.net",
			"facebook.com/plugins",
			"connect.facebook.net",
			"platform.twitter.com",
			"linkedin.com/embed",
			"analytics",
			"ads",
			"tracking",
			"cdn.",
			"static.",
		},
	}
}

func defaultURLPatterns() []URLPattern {
	return []URLPattern{
		{Name: "greenhouse", Regex: regexp.MustCompile(`greenhouse\.io/([^/?]+)`)},
		{Name: "lever", Regex: regexp.MustCompile(`lever\.co/([^/?]+)`)},
		{Name: "workday", Regex: regexp.MustCompile(`([^/]+)\.wd\d+\.myworkdayjobs\.com`), Separators: "-_"},
		{Name: "ashby", Regex: regexp.MustCompile(`ashbyhq\.com/([^/?]+)`)},
		{Name: "bamboohr", Regex: regexp.MustCompile(`([^/]+)\.bamboohr\.com`)},
		{Name: "gem", Regex: regexp.MustCompile(`gem\.com/careers/([^/?]+)`)},
		{Name: "jobvite", Regex: regexp.MustCompile(`jobvite\.com/([^/?]+)`)},
		{Name: "smartrecruiters", Regex: regexp.MustCompile(`smartrecruiters\.com/([^/?]+)`)},
	}
}
