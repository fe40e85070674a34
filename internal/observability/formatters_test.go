package observability

import (
	"bytes"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"

	"github.com/jonathan/hired-always/internal/autofill"
	"github.com/jonathan/hired-always/internal/form"
	"github.com/jonathan/hired-always/internal/jobinfo"
	"github.com/jonathan/hired-always/internal/platform"
	"github.com/jonathan/hired-always/internal/tracker"
)

// assertBoxed checks every line of a box has the same rendered width.
func assertBoxed(t *testing.T, out string) {
	t.Helper()
	for _, line := range strings.Split(strings.TrimSuffix(out, "\n"), "\n") {
		assert.Equal(t, boxWidth, utf8.RuneCountInString(line), "line %q", line)
	}
}

func TestPrintJobInfo(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintJobInfo("https://boards.greenhouse.io/acme/jobs/1", jobinfo.Info{
		Position: "Senior Engineer",
		Company:  "Acme Corp",
		JobType:  "Full-time",
	})

	out := buf.String()
	assert.Contains(t, out, "EXTRACTED JOB")
	assert.Contains(t, out, "Position: Senior Engineer")
	assert.Contains(t, out, "Company:  Acme Corp")
	assert.Contains(t, out, "Location: -")
	assert.Contains(t, out, "Source:   https://boards.greenhouse.io/acme/jobs/1")
	assertBoxed(t, out)
}

func TestPrintFields(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	fields := []form.Field{
		{ID: "first", Kind: form.KindText, Label: "First Name"},
		{ID: "auth", Kind: form.KindSelect, Label: "Work authorization", Options: []string{"Yes", "No"}},
		{ID: "f2", Kind: form.KindText},
		{ID: "f3", Kind: form.KindText},
		{ID: "f4", Kind: form.KindText},
		{ID: "f5", Kind: form.KindText},
		{ID: "f6", Kind: form.KindText},
	}
	frames := []platform.Frame{{Platform: platform.Lever, Src: "https://jobs.lever.co/acme/1/apply"}}
	p.PrintFields(fields, frames)

	out := buf.String()
	assert.Contains(t, out, "Fillable fields: 7")
	assert.Contains(t, out, "• First Name [text]")
	assert.Contains(t, out, "• Work authorization [select] (2 options)")
	assert.Contains(t, out, "• f2 [text]", "unlabelled fields show their id")
	assert.Contains(t, out, "... and 2 more")
	assert.Contains(t, out, "• lever: https://jobs.lever.co/acme/1/apply")
	assertBoxed(t, out)
}

func TestPrintFillResult(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	logs := []string{"Found 12 fields"}
	for i := 0; i < 11; i++ {
		logs = append(logs, "Filled field")
	}
	p.PrintFillResult(&autofill.Result{Filled: 11, Logs: logs})

	out := buf.String()
	assert.Contains(t, out, "Filled: 11")
	assert.Contains(t, out, "Found 12 fields")
	assert.Contains(t, out, "... and 2 more log lines")
	assertBoxed(t, out)

	buf.Reset()
	p.PrintFillResult(nil)
	assert.Empty(t, buf.String())
}

func TestPrintStats(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).PrintStats(tracker.Stats{Total: 4, Active: 3, Interviews: 1, Offers: 1})

	assert.Contains(t, buf.String(), "Interviewing: 1")
	assertBoxed(t, buf.String())
}

func TestPad(t *testing.T) {
	assert.Equal(t, "ab  ", pad("ab", 4))
	assert.Equal(t, "résumé", pad("résumé", 6))
	assert.Equal(t, "abcd...", pad("abcdefghij", 7))
}
