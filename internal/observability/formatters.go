// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/jonathan/hired-always/internal/autofill"
	"github.com/jonathan/hired-always/internal/form"
	"github.com/jonathan/hired-always/internal/jobinfo"
	"github.com/jonathan/hired-always/internal/platform"
	"github.com/jonathan/hired-always/internal/tracker"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // verbose output; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	inner := boxWidth - 4
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %s │\n", pad(title, inner))
	fmt.Fprintf(p.out, "├%s┤\n", border)
	for _, line := range strings.Split(content, "\n") {
		fmt.Fprintf(p.out, "│ %s │\n", pad(line, inner))
	}
	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// pad truncates or right-pads s to exactly width runes.
func pad(s string, width int) string {
	n := utf8.RuneCountInString(s)
	if n > width {
		return string([]rune(s)[:width-3]) + "..."
	}
	return s + strings.Repeat(" ", width-n)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// PrintJobInfo outputs the extracted job metadata.
func (p *Printer) PrintJobInfo(pageURL string, info jobinfo.Info) {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Position: %s\n", orDash(info.Position))
	fmt.Fprintf(&sb, "Company:  %s\n", orDash(info.Company))
	fmt.Fprintf(&sb, "Location: %s\n", orDash(info.Location))
	fmt.Fprintf(&sb, "Salary:   %s\n", orDash(info.Salary))
	fmt.Fprintf(&sb, "Type:     %s", orDash(info.JobType))
	if pageURL != "" {
		fmt.Fprintf(&sb, "\n\nSource:   %s", pageURL)
	}
	p.printBox("EXTRACTED JOB", sb.String())
}

// PrintFields outputs the collected fields and any embedded application forms.
func (p *Printer) PrintFields(fields []form.Field, frames []platform.Frame) {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Fillable fields: %d\n", len(fields))

	count := min(len(fields), maxItemsToShow)
	for i := 0; i < count; i++ {
		f := fields[i]
		label := f.Label
		if label == "" {
			label = f.ID
		}
		fmt.Fprintf(&sb, "  • %s [%s]", label, f.Kind)
		if len(f.Options) > 0 {
			fmt.Fprintf(&sb, " (%d options)", len(f.Options))
		}
		sb.WriteString("\n")
	}
	if len(fields) > maxItemsToShow {
		fmt.Fprintf(&sb, "  ... and %d more\n", len(fields)-maxItemsToShow)
	}

	if len(frames) > 0 {
		sb.WriteString("\nEmbedded application forms:\n")
		for _, fr := range frames {
			fmt.Fprintf(&sb, "  • %s: %s\n", fr.Platform, fr.Src)
		}
	}
	p.printBox("PAGE FIELDS", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintFillResult outputs the outcome of a fill pass. Log lines beyond the
// first few are summarized.
func (p *Printer) PrintFillResult(res *autofill.Result) {
	if res == nil {
		return
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "Filled: %d\n\n", res.Filled)

	count := min(len(res.Logs), 2*maxItemsToShow)
	for i := 0; i < count; i++ {
		fmt.Fprintf(&sb, "%s\n", res.Logs[i])
	}
	if len(res.Logs) > count {
		fmt.Fprintf(&sb, "... and %d more log lines\n", len(res.Logs)-count)
	}
	p.printBox("FILL RESULT", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintStats outputs tracker statistics.
func (p *Printer) PrintStats(stats tracker.Stats) {
	content := fmt.Sprintf("Total:        %d\nActive:       %d\nInterviewing: %d\nOffers:       %d",
		stats.Total, stats.Active, stats.Interviews, stats.Offers)
	p.printBox("APPLICATIONS", content)
}
