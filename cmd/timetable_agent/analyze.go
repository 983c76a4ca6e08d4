package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/daniel/timetable-agent/internal/analyze"
	"github.com/daniel/timetable-agent/internal/observability"
	"github.com/daniel/timetable-agent/internal/store"
)

var analyzeCommand = &cobra.Command{
	Use:   "analyze",
	Short: "Aggregate saved schedules and render charts",
	Long:  "Reads every saved schedule batch, expands events into occupied hour slots, prints a day-by-hour class count table and renders the heatmap and bar charts as standalone HTML files.",
	RunE:  runAnalyze,
}

var (
	analyzeRootDir   string
	analyzeChartsDir string
)

func init() {
	analyzeCommand.Flags().StringVarP(&analyzeRootDir, "root", "r", "data", "Artifact directory root")
	analyzeCommand.Flags().StringVarP(&analyzeChartsDir, "out", "o", "", "Chart output directory (defaults to <root>/charts)")

	rootCmd.AddCommand(analyzeCommand)
}

func runAnalyze(_ *cobra.Command, _ []string) error {
	st := store.New(analyzeRootDir)

	batchFiles, err := st.BatchFiles()
	if err != nil {
		return fmt.Errorf("failed to list schedule files: %w", err)
	}
	if len(batchFiles) == 0 {
		return fmt.Errorf("no schedule files found under %s; run fetch first", st.TimetablesDir())
	}

	// The summary improves course-code resolution but is not required.
	summaryArtifact, err := st.LoadSummary()
	if err != nil {
		fmt.Printf("Warning: no usable course summary (%v); course codes fall back to event data\n", err)
		summaryArtifact = nil
	}

	fmt.Printf("Analyzing %d schedule files...\n", len(batchFiles))
	analysis := analyze.Analyze(summaryArtifact, batchFiles)

	printer := observability.NewPrinter(os.Stdout)
	printer.PrintHeatmapTable(analysis)
	printer.PrintTopCourses(analysis)

	chartsDir := analyzeChartsDir
	if chartsDir == "" {
		chartsDir = filepath.Join(analyzeRootDir, "charts")
	}

	written, err := analyze.RenderCharts(analysis, chartsDir)
	if err != nil {
		return fmt.Errorf("failed to render charts: %w", err)
	}
	for _, path := range written {
		fmt.Printf("Chart written to %s\n", path)
	}

	return nil
}
