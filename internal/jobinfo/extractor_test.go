package jobinfo

import (
	"context"
	"regexp"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/hired-always/internal/platform"
)

func parseHTML(t *testing.T, src string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(src))
	require.NoError(t, err)
	return doc
}

func TestExtract_HeadingOnly(t *testing.T) {
	doc := parseHTML(t, `<html><body><h1>Senior Backend Engineer</h1></body></html>`)

	info := New(nil, nil).Extract(context.Background(), doc, "")

	assert.Equal(t, Info{Position: "Senior Backend Engineer"}, info)
}

func TestExtract_NilDocument(t *testing.T) {
	assert.Equal(t, Info{}, New(nil, nil).Extract(context.Background(), nil, "https://example.com"))
}

func TestExtract_GreenhousePage(t *testing.T) {
	doc := parseHTML(t, `<html><head><title>Job Application for Staff Engineer at Acme</title></head><body>
		<div class="app-title">Staff Engineer</div>
		<div class="company-name">Acme Robotics (Remote)</div>
		<div class="location">San Francisco, CA</div>
		<div class="pay-range">$180,000 - $220,000</div>
		<p>This is a full-time role with a hybrid schedule.</p>
	</body></html>`)

	info := New(nil, nil).Extract(context.Background(), doc, "https://boards.greenhouse.io/acme/jobs/1")

	assert.Equal(t, Info{
		Position: "Staff Engineer",
		Company:  "Acme Robotics",
		Location: "San Francisco, CA",
		Salary:   "$180,000 - $220,000",
		JobType:  "Full-Time",
	}, info)
}

func TestExtract_TitleFallback(t *testing.T) {
	tests := []struct {
		title string
		want  string
	}{
		{"Product Designer - Globex", "Product Designer"},
		{"Data Scientist | Initech", "Data Scientist"},
		{"Site Reliability Engineer @ Hooli", "Site Reliability Engineer"},
		{"QA - Acme", ""},
		{"Platform Engineer", "Platform Engineer"},
	}

	for _, tt := range tests {
		t.Run(tt.title, func(t *testing.T) {
			doc := parseHTML(t, `<html><head><title>`+tt.title+`</title></head><body><p>x</p></body></html>`)
			assert.Equal(t, tt.want, New(nil, nil).Extract(context.Background(), doc, "").Position)
		})
	}
}

func TestExtract_SalaryFallsBackToBodyText(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"hyphen", `<p>Pay: $120k - $150k per year</p>`, "$120k - $150k"},
		{"en dash", `<p>Range $95,000–$130,000 USD</p>`, "$95,000–$130,000"},
		{"em dash", `<p>Range $95,000 — $130,000</p>`, "$95,000 — $130,000"},
		{"selector wins", `<span class="salary">120k-150k</span><p>$1 - $2</p>`, "120k-150k"},
		{"selector without salary shape", `<span class="salary">Competitive</span>`, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := parseHTML(t, `<html><body>`+tt.body+`</body></html>`)
			assert.Equal(t, tt.want, New(nil, nil).Extract(context.Background(), doc, "").Salary)
		})
	}
}

func TestExtract_JobTypePrecedence(t *testing.T) {
	doc := parseHTML(t, `<html><body><p>Remote friendly. Contract or Part-Time.</p><script>var t = "full-time";</script></body></html>`)

	assert.Equal(t, "Part-Time", New(nil, nil).Extract(context.Background(), doc, "").JobType)
}

func TestExtract_LocationLengthBounds(t *testing.T) {
	doc := parseHTML(t, `<html><body><span class="location">NY</span><span class="city">Berlin, Germany</span></body></html>`)

	assert.Equal(t, "Berlin, Germany", New(nil, nil).Extract(context.Background(), doc, "").Location)
}

func TestExtract_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	doc := parseHTML(t, `<html><body><h1>Senior Backend Engineer</h1></body></html>`)

	assert.Equal(t, Info{}, New(nil, nil).Extract(ctx, doc, ""))
}

func TestExtract_StrategyPanicFallsThrough(t *testing.T) {
	cfg := platform.DefaultConfig()
	// A nil pattern panics when used. The panic stays inside its strategy.
	cfg.TextPatterns = []*regexp.Regexp{nil, regexp.MustCompile(`Join\s+([A-Z][a-z]+)`)}
	reg := platform.New(cfg)
	doc := parseHTML(t, `<html><head><title>Careers</title></head><body><p>Join Initech today</p></body></html>`)

	info := New(reg, nil).Extract(context.Background(), doc, "")

	assert.Empty(t, info.Company)
	assert.Equal(t, "Careers", info.Position)
}

func TestJobTypeLabel(t *testing.T) {
	assert.Equal(t, "Full-Time", JobTypeLabel("full-time"))
	assert.Equal(t, "Internship", JobTypeLabel("internship"))
}

func TestIsSalary(t *testing.T) {
	assert.True(t, IsSalary("$85,000"))
	assert.True(t, IsSalary("90K – 110K"))
	assert.False(t, IsSalary("Competitive pay"))
}
