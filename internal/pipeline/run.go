// Package pipeline provides the high-level orchestration for a timetable
// fetch run: published terms -> validity filter -> per-term course lists
// -> batched class schedules -> summary artifact -> run manifest.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/daniel/timetable-agent/internal/portal"
	"github.com/daniel/timetable-agent/internal/store"
	"github.com/daniel/timetable-agent/internal/summary"
	"github.com/daniel/timetable-agent/internal/terms"
	"github.com/daniel/timetable-agent/internal/types"
)

// ProgressEvent represents a progress update during a fetch run.
type ProgressEvent struct {
	Stage   string `json:"stage"`
	TermID  int    `json:"term_id,omitempty"`
	Message string `json:"message"`
}

// ProgressCallback is called when pipeline progress occurs.
type ProgressCallback func(event ProgressEvent)

// RunOptions holds configuration for a fetch run.
type RunOptions struct {
	Client *portal.Client
	Store  *store.Store

	// TermIDs restricts the run to an explicit allowlist; empty means
	// every current-or-future published term.
	TermIDs []int

	BatchSize int

	// BatchDelay pauses between schedule batches. The multi-term variant
	// historically ran with no delay; the knob survives for operators who
	// hit portal rate limits.
	BatchDelay time.Duration

	Verbose    bool
	OnProgress ProgressCallback

	// Now is overridable for tests; defaults to time.Now.
	Now func() time.Time
}

// TermStats accumulates per-term batch results.
type TermStats struct {
	Term      types.Term `json:"term"`
	Courses   int        `json:"courses"`
	Batches   int        `json:"batches"`
	Successes int        `json:"successes"`
	Errors    int        `json:"errors"`
	Skipped   bool       `json:"skipped,omitempty"`
}

// Stats is the overall result of a fetch run, persisted as the run
// manifest.
type Stats struct {
	RunID          uuid.UUID   `json:"run_id"`
	StartedAt      time.Time   `json:"started_at"`
	FinishedAt     time.Time   `json:"finished_at"`
	Terms          []TermStats `json:"terms"`
	TotalSuccesses int         `json:"total_successes"`
	TotalErrors    int         `json:"total_errors"`
	TotalCourses   int         `json:"total_courses"`
	SummaryPath    string      `json:"summary_path,omitempty"`
}

func emitProgress(opts *RunOptions, stage string, termID int, message string) {
	if opts.OnProgress != nil {
		opts.OnProgress(ProgressEvent{Stage: stage, TermID: termID, Message: message})
	}
}

// Run executes the full fetch pipeline sequentially. A failure fetching
// the published terms, or an empty term selection, aborts the run; every
// failure below that boundary is counted and the run continues with the
// next item.
func Run(ctx context.Context, opts RunOptions) (*Stats, error) {
	if opts.Client == nil || opts.Store == nil {
		return nil, fmt.Errorf("pipeline requires a portal client and a store")
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	batchSize := opts.BatchSize
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}

	stats := &Stats{RunID: uuid.New(), StartedAt: now()}

	fmt.Println("Fetching published terms...")
	termsResp, _, err := opts.Client.PublishedTerms(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch published terms: %w", err)
	}

	all := make([]types.Term, 0, len(termsResp.DataList))
	for _, entry := range termsResp.DataList {
		all = append(all, entry.Term())
	}

	relevant := terms.CurrentOrFuture(all, now())
	selected := terms.Select(relevant, opts.TermIDs)
	fmt.Printf("Found %d current and upcoming terms, %d selected\n", len(relevant), len(selected))
	if len(selected) == 0 {
		return nil, fmt.Errorf("no valid terms selected")
	}

	for _, term := range selected {
		termStats := fetchTerm(ctx, &opts, term, batchSize, now)
		stats.Terms = append(stats.Terms, termStats)
		stats.TotalSuccesses += termStats.Successes
		stats.TotalErrors += termStats.Errors
		stats.TotalCourses += termStats.Courses

		if ctx.Err() != nil {
			return stats, ctx.Err()
		}
	}

	fmt.Println("\nCreating comprehensive course summary...")
	artifact, summaryPath, err := summary.BuildAndWrite(selected, opts.Store)
	if err != nil {
		fmt.Printf("Warning: failed to build course summary: %v\n", err)
	} else {
		stats.SummaryPath = summaryPath
		fmt.Printf("Course summary saved to %s (%d courses, %d unique codes)\n",
			summaryPath, artifact.TotalCourses, artifact.UniqueCourses)
		emitProgress(&opts, "summary", 0, "summary written to "+summaryPath)
	}

	stats.FinishedAt = now()
	if path, err := opts.Store.WriteRunManifest(stats, stats.FinishedAt); err != nil {
		fmt.Printf("Warning: failed to write run manifest: %v\n", err)
	} else if opts.Verbose {
		fmt.Printf("Run manifest written to %s\n", path)
	}

	fmt.Printf("\n=== All Terms Processing Complete ===\n")
	fmt.Printf("Total terms processed: %d\n", len(stats.Terms))
	fmt.Printf("Total Success: %d\n", stats.TotalSuccesses)
	fmt.Printf("Total Errors: %d\n", stats.TotalErrors)

	return stats, nil
}

// fetchTerm retrieves and persists the course list and batched schedules
// for one term. Errors are contained: a failed course list skips the
// term, a failed batch is counted and the loop continues.
func fetchTerm(ctx context.Context, opts *RunOptions, term types.Term, batchSize int, now func() time.Time) TermStats {
	termStats := TermStats{Term: term}

	fmt.Printf("\n=== Processing Term: %s (ID: %d) ===\n", term.Name, term.ID)
	emitProgress(opts, "term", term.ID, "processing "+term.Name)

	if _, err := opts.Store.EnsureTermDir(term); err != nil {
		fmt.Printf("Error preparing directory for term %d: %v\n", term.ID, err)
		termStats.Skipped = true
		termStats.Errors++
		return termStats
	}

	courseResp, raw, err := opts.Client.CoursesByTerm(ctx, term.ID)
	if err != nil {
		fmt.Printf("Error fetching course data for term %d: %v\n", term.ID, err)
		termStats.Skipped = true
		return termStats
	}

	if path, err := opts.Store.SaveCourseCapture(term.ID, raw, now()); err != nil {
		fmt.Printf("Error saving course capture for term %d: %v\n", term.ID, err)
	} else if opts.Verbose {
		fmt.Printf("Course data saved to %s\n", path)
	}

	if len(courseResp.DataList) == 0 {
		fmt.Printf("No courses found for term %s. Skipping.\n", term.Name)
		termStats.Skipped = true
		return termStats
	}

	courseIDs := make([]int, 0, len(courseResp.DataList))
	codesByID := make(map[int]string, len(courseResp.DataList))
	for _, course := range courseResp.DataList {
		courseIDs = append(courseIDs, course.CourseID)
		codesByID[course.CourseID] = course.CourseCode
	}
	termStats.Courses = len(courseIDs)
	fmt.Printf("Found %d courses for term %s\n", len(courseIDs), term.Name)

	batches := Chunk(courseIDs, batchSize)
	termStats.Batches = len(batches)

	for i, batch := range batches {
		if ctx.Err() != nil {
			return termStats
		}

		fmt.Printf("Processing batch %d/%d for term %d\n", i+1, len(batches), term.ID)
		_, rawBatch, err := opts.Client.ClassSchedule(ctx, term.ID, batch)
		if err != nil {
			fmt.Printf("  Error processing batch %d: %v\n", i+1, err)
			termStats.Errors++
			continue
		}

		if _, err := opts.Store.SaveBatch(term, i+1, rawBatch); err != nil {
			fmt.Printf("  Error saving batch %d: %v\n", i+1, err)
			termStats.Errors++
			continue
		}

		// Duplicate the whole batch payload under each course's name. The
		// content is intentionally unfiltered; downstream tooling keys off
		// the per-course file names.
		for _, courseID := range batch {
			code, ok := codesByID[courseID]
			if !ok || code == "" {
				code = fmt.Sprintf("Unknown_%d", courseID)
			}
			if _, err := opts.Store.SaveCourseCopy(term, code, rawBatch); err != nil {
				fmt.Printf("  Error saving course file for %s: %v\n", code, err)
			}
		}

		termStats.Successes++
		emitProgress(opts, "batch", term.ID, fmt.Sprintf("batch %d/%d saved", i+1, len(batches)))

		if opts.BatchDelay > 0 && i < len(batches)-1 {
			select {
			case <-ctx.Done():
				return termStats
			case <-time.After(opts.BatchDelay):
			}
		}
	}

	fmt.Printf("Term %d (%s) processing complete: %d success, %d errors\n",
		term.ID, term.Name, termStats.Successes, termStats.Errors)

	return termStats
}
