// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/daniel/timetable-agent/internal/analyze"
	"github.com/daniel/timetable-agent/internal/pipeline"
	"github.com/daniel/timetable-agent/internal/types"
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
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	lines := strings.Split(content, "\n")
	for _, line := range lines {
		// Truncate long lines
		if len(line) > boxWidth-4 {
			line = line[:boxWidth-7] + "..."
		}
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, line)
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintRunStats outputs a per-term breakdown of a completed fetch run.
func (p *Printer) PrintRunStats(stats *pipeline.Stats) {
	if stats == nil {
		return
	}

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Run:      %s\n", stats.RunID))
	sb.WriteString(fmt.Sprintf("Duration: %s\n", stats.FinishedAt.Sub(stats.StartedAt).Round(time.Millisecond)))
	sb.WriteString("\n")

	for _, ts := range stats.Terms {
		sb.WriteString(fmt.Sprintf("%s (id %d)\n", ts.Term.Name, ts.Term.ID))
		if ts.Skipped {
			sb.WriteString("    skipped: course list unavailable\n")
			continue
		}
		sb.WriteString(fmt.Sprintf("    courses: %d  batches: %d/%d ok", ts.Courses, ts.Successes, ts.Batches))
		if ts.Errors > 0 {
			sb.WriteString(fmt.Sprintf("  (%d failed)", ts.Errors))
		}
		sb.WriteString("\n")
	}

	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("Totals: %d batches saved, %d failed, %d courses",
		stats.TotalSuccesses, stats.TotalErrors, stats.TotalCourses))
	if stats.SummaryPath != "" {
		sb.WriteString(fmt.Sprintf("\nSummary: %s", stats.SummaryPath))
	}

	p.printBox("FETCH RUN", sb.String())
}

// PrintSummary outputs the headline numbers of a consolidated course
// summary, plus the first few courses offered in more than one term.
func (p *Printer) PrintSummary(summary *types.SummaryArtifact) {
	if summary == nil {
		return
	}

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Terms:          %d\n", len(summary.Terms)))
	sb.WriteString(fmt.Sprintf("Total courses:  %d\n", summary.TotalCourses))
	sb.WriteString(fmt.Sprintf("Unique courses: %d\n", summary.UniqueCourses))

	var shared []string
	for code, refs := range summary.TermMappings {
		if len(refs) > 1 {
			shared = append(shared, code)
		}
	}
	sort.Strings(shared)

	if len(shared) > 0 {
		sb.WriteString("\nOffered in multiple terms:\n")
		count := min(len(shared), maxItemsToShow)
		for i := 0; i < count; i++ {
			sb.WriteString(fmt.Sprintf("  • %s (%d terms)\n", shared[i], len(summary.TermMappings[shared[i]])))
		}
		if len(shared) > maxItemsToShow {
			sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(shared)-maxItemsToShow))
		}
	}

	p.printBox("COURSE SUMMARY", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintHeatmapTable outputs the day-by-hour class count grid as plain
// text, one weekday per row. Writes nothing when no slots landed inside
// the rendered window.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintHeatmapTable(a *analyze.Analysis) {
	if a == nil {
		return
	}

	total := 0
	for _, row := range a.Heatmap {
		for _, n := range row {
			total += n
		}
	}
	if total == 0 {
		fmt.Fprintln(p.out, "No classes found inside the rendered window.")
		return
	}

	hours := analyze.Hours()

	fmt.Fprintf(p.out, "%-10s", "")
	for _, h := range hours {
		fmt.Fprintf(p.out, "%3d", h)
	}
	fmt.Fprintln(p.out)

	for _, day := range analyze.DayOrder {
		fmt.Fprintf(p.out, "%-10s", day)
		for _, h := range hours {
			n := a.Heatmap[day][h]
			if n == 0 {
				fmt.Fprintf(p.out, "%3s", ".")
			} else {
				fmt.Fprintf(p.out, "%3d", n)
			}
		}
		fmt.Fprintln(p.out)
	}

	fmt.Fprintf(p.out, "\n%d class hours across %d events (%d events skipped)\n",
		total, a.TotalEvents, a.SkippedEvents)
}

// PrintTopCourses outputs the busiest courses ranked by occupied hours.
func (p *Printer) PrintTopCourses(a *analyze.Analysis) {
	if a == nil || len(a.TopCourses) == 0 {
		return
	}

	var sb strings.Builder
	for i, ch := range a.TopCourses {
		sb.WriteString(fmt.Sprintf("#%d  %-20s %d hours", i+1, ch.Code, ch.Hours))
		if i < len(a.TopCourses)-1 {
			sb.WriteString("\n")
		}
	}

	p.printBox("TOP COURSES BY HOURS", sb.String())
}
